package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/tournament-portal/internal/domain/standing"
	"github.com/riskibarqy/tournament-portal/internal/domain/team"
)

type standingRepository struct {
	s *Store
}

func (r standingRepository) Create(ctx context.Context, eventID, sportID, teamID string) error {
	return r.s.write(ctx, func(d *state) error {
		key := standingKey{eventID: eventID, sportID: sportID, teamID: teamID}
		if _, ok := d.standings[key]; ok {
			return nil
		}
		d.standings[key] = standing.Row{
			EventID:   eventID,
			SportID:   sportID,
			TeamID:    teamID,
			UpdatedAt: time.Now().UTC(),
		}
		return nil
	})
}

func (r standingRepository) Get(ctx context.Context, eventID, sportID, teamID string) (standing.Row, bool, error) {
	var (
		out standing.Row
		ok  bool
	)
	r.s.read(ctx, func(d *state) {
		out, ok = d.standings[standingKey{eventID: eventID, sportID: sportID, teamID: teamID}]
		if ok {
			out = decorateRow(d, out)
		}
	})
	return out, ok, nil
}

// ApplyDelta adds d to the team's row, creating the row when it is missing.
func (r standingRepository) ApplyDelta(ctx context.Context, eventID, sportID string, delta standing.Delta) error {
	if delta.TeamID == "" {
		return fmt.Errorf("standings delta without team")
	}
	return r.s.write(ctx, func(d *state) error {
		key := standingKey{eventID: eventID, sportID: sportID, teamID: delta.TeamID}
		row, ok := d.standings[key]
		if !ok {
			row = standing.Row{EventID: eventID, SportID: sportID, TeamID: delta.TeamID}
		}
		row = row.Apply(delta)
		row.UpdatedAt = time.Now().UTC()
		d.standings[key] = row
		return nil
	})
}

func (r standingRepository) ResetForDisqualification(ctx context.Context, eventID, sportID, teamID string) error {
	return r.s.write(ctx, func(d *state) error {
		key := standingKey{eventID: eventID, sportID: sportID, teamID: teamID}
		row, ok := d.standings[key]
		if !ok {
			return nil
		}
		row.Wins = 0
		row.Draws = 0
		row.Points = 0
		row.UpdatedAt = time.Now().UTC()
		d.standings[key] = row
		return nil
	})
}

func (r standingRepository) List(ctx context.Context, filter standing.Filter) ([]standing.Row, error) {
	var out []standing.Row
	r.s.read(ctx, func(d *state) {
		out = make([]standing.Row, 0)
		for key, row := range d.standings {
			if filter.EventID != "" && key.eventID != filter.EventID {
				continue
			}
			if filter.SportID != "" && key.sportID != filter.SportID {
				continue
			}
			out = append(out, decorateRow(d, row))
		}
	})
	standing.Sort(out)
	return out, nil
}

func decorateRow(d *state, row standing.Row) standing.Row {
	if t, ok := d.teams[row.TeamID]; ok {
		row.TeamName = t.Name
		row.Disqualified = t.Status == team.StatusDisqualified
	}
	return row
}
