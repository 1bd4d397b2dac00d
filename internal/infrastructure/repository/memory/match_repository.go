package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/riskibarqy/tournament-portal/internal/domain/match"
	"github.com/riskibarqy/tournament-portal/internal/domain/store"
)

type matchRepository struct {
	s *Store
}

func (r matchRepository) Create(ctx context.Context, m match.Match) error {
	return r.s.write(ctx, func(d *state) error {
		if _, ok := d.matches[m.ID]; ok {
			return fmt.Errorf("create match %s: %w", m.ID, store.ErrDuplicate)
		}
		for _, teamID := range []string{m.Team1ID, m.Team2ID} {
			if _, ok := d.teams[teamID]; !ok {
				return fmt.Errorf("team %s not found", teamID)
			}
		}
		d.matches[m.ID] = stripMatchJoins(m)
		return nil
	})
}

func (r matchRepository) Update(ctx context.Context, m match.Match) error {
	return r.s.write(ctx, func(d *state) error {
		current, ok := d.matches[m.ID]
		if !ok {
			return fmt.Errorf("match %s not found", m.ID)
		}
		m.CreatedAt = current.CreatedAt
		d.matches[m.ID] = stripMatchJoins(m)
		return nil
	})
}

func (r matchRepository) Delete(ctx context.Context, id string) error {
	return r.s.write(ctx, func(d *state) error {
		deleteMatch(d, id)
		return nil
	})
}

func (r matchRepository) GetByID(ctx context.Context, id string) (match.Match, bool, error) {
	var (
		out match.Match
		ok  bool
	)
	r.s.read(ctx, func(d *state) {
		out, ok = d.matches[id]
		if ok {
			out = decorateMatch(d, out)
		}
	})
	return out, ok, nil
}

func (r matchRepository) GetForUpdate(ctx context.Context, id string) (match.Match, bool, error) {
	return r.GetByID(ctx, id)
}

func (r matchRepository) List(ctx context.Context, filter match.Filter) ([]match.Match, error) {
	var out []match.Match
	r.s.read(ctx, func(d *state) {
		out = collectMatches(d, filter.Matches)
	})
	return out, nil
}

func (r matchRepository) Count(ctx context.Context, filter match.Filter) (int, error) {
	count := 0
	r.s.read(ctx, func(d *state) {
		for _, m := range d.matches {
			if filter.Matches(m) {
				count++
			}
		}
	})
	return count, nil
}

func (r matchRepository) FindConflicts(ctx context.Context, q match.ConflictQuery) ([]match.Match, error) {
	var out []match.Match
	r.s.read(ctx, func(d *state) {
		out = collectMatches(d, func(m match.Match) bool {
			if m.ID == q.ExcludeID || !m.Occupies() {
				return false
			}
			if !match.Clashes(m.MatchDate, q.At) {
				return false
			}
			if q.VenueID != "" && m.VenueID == q.VenueID {
				return true
			}
			for _, teamID := range q.TeamIDs {
				if m.Involves(teamID) {
					return true
				}
			}
			return false
		})
	})
	return out, nil
}

func (r matchRepository) Cancel(ctx context.Context, filter match.Filter, reason string) ([]match.Match, error) {
	var out []match.Match
	err := r.s.write(ctx, func(d *state) error {
		now := time.Now().UTC()
		for id, m := range d.matches {
			if !filter.Matches(m) {
				continue
			}
			m.Status = match.StatusCancelled
			m.CancelReason = reason
			m.UpdatedAt = now
			d.matches[id] = m
			out = append(out, decorateMatch(d, m))
		}
		return nil
	})
	sortMatches(out)
	return out, err
}

func (r matchRepository) GetScore(ctx context.Context, matchID string) (match.Score, bool, error) {
	var (
		out match.Score
		ok  bool
	)
	r.s.read(ctx, func(d *state) {
		out, ok = d.scores[matchID]
	})
	return out, ok, nil
}

func (r matchRepository) UpsertScore(ctx context.Context, s match.Score) error {
	return r.s.write(ctx, func(d *state) error {
		if _, ok := d.matches[s.MatchID]; !ok {
			return fmt.Errorf("match %s not found", s.MatchID)
		}
		d.scores[s.MatchID] = s
		return nil
	})
}

func collectMatches(d *state, keep func(m match.Match) bool) []match.Match {
	out := make([]match.Match, 0)
	for _, m := range d.matches {
		if keep(m) {
			out = append(out, decorateMatch(d, m))
		}
	}
	sortMatches(out)
	return out
}

func sortMatches(items []match.Match) {
	sort.Slice(items, func(i, j int) bool {
		if !items[i].MatchDate.Equal(items[j].MatchDate) {
			return items[i].MatchDate.Before(items[j].MatchDate)
		}
		return items[i].ID < items[j].ID
	})
}

func stripMatchJoins(m match.Match) match.Match {
	m.Team1Name = ""
	m.Team2Name = ""
	m.VenueName = ""
	m.SportName = ""
	m.EventName = ""
	return m
}

func decorateMatch(d *state, m match.Match) match.Match {
	if t, ok := d.teams[m.Team1ID]; ok {
		m.Team1Name = t.Name
	}
	if t, ok := d.teams[m.Team2ID]; ok {
		m.Team2Name = t.Name
	}
	if v, ok := d.venues[m.VenueID]; ok {
		m.VenueName = v.Name
	}
	if sp, ok := d.sports[m.SportID]; ok {
		m.SportName = sp.Name
	}
	if e, ok := d.events[m.EventID]; ok {
		m.EventName = e.Name
	}
	return m
}

func deleteMatch(d *state, id string) {
	delete(d.scores, id)
	delete(d.matches, id)
}
