package standing

import (
	"sort"
	"time"

	"github.com/riskibarqy/tournament-portal/internal/domain/match"
)

const (
	PointsWin  = 3
	PointsDraw = 1
	PointsLoss = 0
)

// Row is one team's running record within an (event, sport) table.
type Row struct {
	EventID       string
	SportID       string
	TeamID        string
	MatchesPlayed int
	Wins          int
	Draws         int
	Losses        int
	GoalsFor      int
	GoalsAgainst  int
	Points        int
	UpdatedAt     time.Time

	TeamName     string
	Disqualified bool
}

func (r Row) GoalDifference() int {
	return r.GoalsFor - r.GoalsAgainst
}

// Delta is a signed change to a single row.
type Delta struct {
	TeamID        string
	MatchesPlayed int
	Wins          int
	Draws         int
	Losses        int
	GoalsFor      int
	GoalsAgainst  int
	Points        int
}

func (r Row) Apply(d Delta) Row {
	r.MatchesPlayed += d.MatchesPlayed
	r.Wins += d.Wins
	r.Draws += d.Draws
	r.Losses += d.Losses
	r.GoalsFor += d.GoalsFor
	r.GoalsAgainst += d.GoalsAgainst
	r.Points += d.Points
	return r
}

func (d Delta) Negate() Delta {
	return Delta{
		TeamID:        d.TeamID,
		MatchesPlayed: -d.MatchesPlayed,
		Wins:          -d.Wins,
		Draws:         -d.Draws,
		Losses:        -d.Losses,
		GoalsFor:      -d.GoalsFor,
		GoalsAgainst:  -d.GoalsAgainst,
		Points:        -d.Points,
	}
}

// WithoutResult drops the wins, draws and points of d. Disqualified rows
// keep those at zero while played, losses and goals still move.
func (d Delta) WithoutResult() Delta {
	d.Wins, d.Draws, d.Points = 0, 0, 0
	return d
}

// Outcome returns the deltas a score contributes to both teams' rows.
func Outcome(m match.Match, s match.Score) [2]Delta {
	home := Delta{TeamID: m.Team1ID, MatchesPlayed: 1, GoalsFor: s.Team1Score, GoalsAgainst: s.Team2Score}
	away := Delta{TeamID: m.Team2ID, MatchesPlayed: 1, GoalsFor: s.Team2Score, GoalsAgainst: s.Team1Score}

	switch s.WinnerTeamID {
	case "":
		home.Draws, home.Points = 1, PointsDraw
		away.Draws, away.Points = 1, PointsDraw
	case m.Team1ID:
		home.Wins, home.Points = 1, PointsWin
		away.Losses, away.Points = 1, PointsLoss
	default:
		away.Wins, away.Points = 1, PointsWin
		home.Losses, home.Points = 1, PointsLoss
	}
	return [2]Delta{home, away}
}

// Reversal returns the deltas that undo a previously applied score.
func Reversal(m match.Match, s match.Score) [2]Delta {
	out := Outcome(m, s)
	return [2]Delta{out[0].Negate(), out[1].Negate()}
}

// Sort orders rows: disqualified teams last, then points, goal difference
// and goals scored, all descending. Team name breaks remaining ties.
func Sort(rows []Row) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Disqualified != b.Disqualified {
			return !a.Disqualified
		}
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.GoalDifference() != b.GoalDifference() {
			return a.GoalDifference() > b.GoalDifference()
		}
		if a.GoalsFor != b.GoalsFor {
			return a.GoalsFor > b.GoalsFor
		}
		return a.TeamName < b.TeamName
	})
}

// Filter narrows standings listings.
type Filter struct {
	EventID string
	SportID string
}
