package postgres

import (
	"context"
	"time"

	"github.com/riskibarqy/tournament-portal/internal/domain/audit"
	qb "github.com/riskibarqy/tournament-portal/internal/platform/querybuilder"
)

type auditRepository struct {
	s *Store
}

func (r auditRepository) AppendTeam(ctx context.Context, e audit.Entry) error {
	return r.append(ctx, "team_history", "team_id", e)
}

func (r auditRepository) ListTeam(ctx context.Context, teamID string) ([]audit.Entry, error) {
	return r.list(ctx, "team_history", "team_id", teamID)
}

func (r auditRepository) AppendMatch(ctx context.Context, e audit.Entry) error {
	return r.append(ctx, "match_history", "match_id", e)
}

func (r auditRepository) ListMatch(ctx context.Context, matchID string) ([]audit.Entry, error) {
	return r.list(ctx, "match_history", "match_id", matchID)
}

func (r auditRepository) append(ctx context.Context, table, subjectColumn string, e audit.Entry) error {
	createdAt := e.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err := r.s.exec(ctx, "insert "+table, qb.InsertInto(table).
		Columns("id", subjectColumn, "action", "actor_id", "old_value", "new_value", "note", "created_at").
		Values(e.ID, e.SubjectID, string(e.Action), e.ActorID, e.OldValue, e.NewValue, e.Note, createdAt))
	return err
}

func (r auditRepository) list(ctx context.Context, table, subjectColumn, subjectID string) ([]audit.Entry, error) {
	var rows []historyRow
	err := r.s.selectInto(ctx, "select "+table, &rows, qb.Select(
		"h.id", "h."+subjectColumn+" AS subject_id", "h.action", "h.actor_id",
		"h.old_value", "h.new_value", "h.note", "h.created_at",
		"u.username AS actor_name",
	).
		From(table+" h").
		Join("LEFT JOIN users u ON u.id = h.actor_id").
		Where(qb.Eq("h."+subjectColumn, subjectID)).
		OrderBy("h.created_at", "h.seq"))
	if err != nil {
		return nil, err
	}
	out := make([]audit.Entry, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}
