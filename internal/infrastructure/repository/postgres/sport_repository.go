package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/tournament-portal/internal/domain/sport"
	qb "github.com/riskibarqy/tournament-portal/internal/platform/querybuilder"
)

const sportTable = "sports"

type sportRepository struct {
	s *Store
}

func (r sportRepository) Create(ctx context.Context, sp sport.Sport) error {
	query, args, err := qb.InsertModel(sportTable, sportToModel(sp), "")
	if err != nil {
		return fmt.Errorf("build insert sport query: %w", err)
	}
	_, err = r.s.execRaw(ctx, "insert sport", query, args...)
	return err
}

// Delete cascades to teams, standings and event links; dedicated venues
// fall back to general venues through ON DELETE SET NULL.
func (r sportRepository) Delete(ctx context.Context, id string) error {
	_, err := r.s.exec(ctx, "delete sport", qb.DeleteFrom(sportTable).Where(qb.Eq("id", id)))
	return err
}

func (r sportRepository) GetByID(ctx context.Context, id string) (sport.Sport, bool, error) {
	return r.getOne(ctx, "select sport", qb.Eq("id", id))
}

func (r sportRepository) GetByName(ctx context.Context, name string) (sport.Sport, bool, error) {
	return r.getOne(ctx, "select sport by name", qb.Expr("LOWER(name) = LOWER(?)", strings.TrimSpace(name)))
}

func (r sportRepository) List(ctx context.Context) ([]sport.Sport, error) {
	return r.list(ctx, "select sports", qb.Select(sportColumns()...).From(sportTable).OrderBy("LOWER(name)"))
}

func (r sportRepository) ListByIDs(ctx context.Context, ids []string) ([]sport.Sport, error) {
	if len(ids) == 0 {
		return []sport.Sport{}, nil
	}
	return r.list(ctx, "select sports by ids", qb.Select(sportColumns()...).From(sportTable).
		Where(qb.InStrings("id", ids)).
		OrderBy("LOWER(name)"))
}

func (r sportRepository) getOne(ctx context.Context, op string, cond qb.Condition) (sport.Sport, bool, error) {
	var row sportTableModel
	ok, err := r.s.get(ctx, op, &row, qb.Select(sportColumns()...).From(sportTable).Where(cond))
	if err != nil || !ok {
		return sport.Sport{}, false, err
	}
	return row.toDomain(), true, nil
}

func (r sportRepository) list(ctx context.Context, op string, b sqlBuilder) ([]sport.Sport, error) {
	var rows []sportTableModel
	if err := r.s.selectInto(ctx, op, &rows, b); err != nil {
		return nil, err
	}
	out := make([]sport.Sport, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func sportColumns() []string {
	return qb.Columns(sportTableModel{}, "")
}
