package memory

import (
	"context"
	"sort"

	"github.com/riskibarqy/tournament-portal/internal/domain/audit"
)

type auditRepository struct {
	s *Store
}

func (r auditRepository) AppendTeam(ctx context.Context, e audit.Entry) error {
	return r.s.write(ctx, func(d *state) error {
		e.ActorName = ""
		d.teamHistory = append(d.teamHistory, e)
		return nil
	})
}

func (r auditRepository) ListTeam(ctx context.Context, teamID string) ([]audit.Entry, error) {
	var out []audit.Entry
	r.s.read(ctx, func(d *state) {
		out = subjectEntries(d, d.teamHistory, teamID)
	})
	return out, nil
}

func (r auditRepository) AppendMatch(ctx context.Context, e audit.Entry) error {
	return r.s.write(ctx, func(d *state) error {
		e.ActorName = ""
		d.matchHistory = append(d.matchHistory, e)
		return nil
	})
}

func (r auditRepository) ListMatch(ctx context.Context, matchID string) ([]audit.Entry, error) {
	var out []audit.Entry
	r.s.read(ctx, func(d *state) {
		out = subjectEntries(d, d.matchHistory, matchID)
	})
	return out, nil
}

func subjectEntries(d *state, entries []audit.Entry, subjectID string) []audit.Entry {
	out := make([]audit.Entry, 0)
	for _, e := range entries {
		if e.SubjectID != subjectID {
			continue
		}
		if u, ok := d.users[e.ActorID]; ok {
			e.ActorName = u.Username
		}
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}
