package match

import (
	"fmt"
	"time"
)

// Score is the result of a completed match. An empty WinnerTeamID is a draw.
type Score struct {
	MatchID      string
	Team1Score   int
	Team2Score   int
	WinnerTeamID string
	UpdatedAt    time.Time
}

// NewScore validates both values and derives the winner.
func NewScore(m Match, team1Score, team2Score int) (Score, error) {
	if team1Score < 0 || team2Score < 0 {
		return Score{}, fmt.Errorf("Scores cannot be negative")
	}
	if team1Score > MaxScore || team2Score > MaxScore {
		return Score{}, fmt.Errorf("Score seems unusually high. Please verify. (Maximum %d per team)", MaxScore)
	}

	s := Score{MatchID: m.ID, Team1Score: team1Score, Team2Score: team2Score}
	switch {
	case team1Score > team2Score:
		s.WinnerTeamID = m.Team1ID
	case team2Score > team1Score:
		s.WinnerTeamID = m.Team2ID
	}
	return s, nil
}

func (s Score) IsDraw() bool {
	return s.WinnerTeamID == ""
}

func (s Score) String() string {
	return fmt.Sprintf("%d-%d", s.Team1Score, s.Team2Score)
}
