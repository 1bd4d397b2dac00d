package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/tournament-portal/internal/domain/standing"
	qb "github.com/riskibarqy/tournament-portal/internal/platform/querybuilder"
)

const standingTable = "points_table"

type standingRepository struct {
	s *Store
}

func (r standingRepository) Create(ctx context.Context, eventID, sportID, teamID string) error {
	_, err := r.s.exec(ctx, "insert standing", qb.InsertInto(standingTable).
		Columns("event_id", "sport_id", "team_id", "updated_at").
		Values(eventID, sportID, teamID, time.Now().UTC()).
		Suffix("ON CONFLICT (event_id, sport_id, team_id) DO NOTHING"))
	return err
}

func (r standingRepository) Get(ctx context.Context, eventID, sportID, teamID string) (standing.Row, bool, error) {
	var row standingRow
	ok, err := r.s.get(ctx, "select standing", &row, standingSelect().Where(
		qb.Eq("p.event_id", eventID),
		qb.Eq("p.sport_id", sportID),
		qb.Eq("p.team_id", teamID),
	))
	if err != nil || !ok {
		return standing.Row{}, false, err
	}
	return row.toDomain(), true, nil
}

// ApplyDelta adds d to the team's row, creating the row when it is missing.
func (r standingRepository) ApplyDelta(ctx context.Context, eventID, sportID string, d standing.Delta) error {
	if d.TeamID == "" {
		return fmt.Errorf("standings delta without team")
	}
	_, err := r.s.exec(ctx, "apply standing delta", qb.InsertInto(standingTable).
		Columns("event_id", "sport_id", "team_id", "matches_played", "wins", "draws", "losses", "goals_for", "goals_against", "points", "updated_at").
		Values(eventID, sportID, d.TeamID, d.MatchesPlayed, d.Wins, d.Draws, d.Losses, d.GoalsFor, d.GoalsAgainst, d.Points, time.Now().UTC()).
		Suffix(`ON CONFLICT (event_id, sport_id, team_id) DO UPDATE SET
matches_played = points_table.matches_played + EXCLUDED.matches_played,
wins = points_table.wins + EXCLUDED.wins,
draws = points_table.draws + EXCLUDED.draws,
losses = points_table.losses + EXCLUDED.losses,
goals_for = points_table.goals_for + EXCLUDED.goals_for,
goals_against = points_table.goals_against + EXCLUDED.goals_against,
points = points_table.points + EXCLUDED.points,
updated_at = EXCLUDED.updated_at`))
	return err
}

func (r standingRepository) ResetForDisqualification(ctx context.Context, eventID, sportID, teamID string) error {
	_, err := r.s.exec(ctx, "reset standing for disqualification", qb.Update(standingTable).
		Set("wins", 0).
		Set("draws", 0).
		Set("points", 0).
		Set("updated_at", time.Now().UTC()).
		Where(
			qb.Eq("event_id", eventID),
			qb.Eq("sport_id", sportID),
			qb.Eq("team_id", teamID),
		))
	return err
}

func (r standingRepository) List(ctx context.Context, filter standing.Filter) ([]standing.Row, error) {
	b := standingSelect()
	if filter.EventID != "" {
		b.Where(qb.Eq("p.event_id", filter.EventID))
	}
	if filter.SportID != "" {
		b.Where(qb.Eq("p.sport_id", filter.SportID))
	}

	var rows []standingRow
	if err := r.s.selectInto(ctx, "select standings", &rows, b); err != nil {
		return nil, err
	}
	out := make([]standing.Row, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	standing.Sort(out)
	return out, nil
}

func standingSelect() *qb.SelectBuilder {
	return qb.Select(
		"p.event_id", "p.sport_id", "p.team_id",
		"p.matches_played", "p.wins", "p.draws", "p.losses",
		"p.goals_for", "p.goals_against", "p.points", "p.updated_at",
		"t.name AS team_name", "t.status AS team_status",
	).
		From("points_table p").
		Join("LEFT JOIN teams t ON t.id = p.team_id")
}
