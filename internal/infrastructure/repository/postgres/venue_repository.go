package postgres

import (
	"context"
	"fmt"

	"github.com/riskibarqy/tournament-portal/internal/domain/venue"
	qb "github.com/riskibarqy/tournament-portal/internal/platform/querybuilder"
)

const venueTable = "venues"

type venueRepository struct {
	s *Store
}

func (r venueRepository) Create(ctx context.Context, v venue.Venue) error {
	query, args, err := qb.InsertModel(venueTable, venueToModel(v), "")
	if err != nil {
		return fmt.Errorf("build insert venue query: %w", err)
	}
	_, err = r.s.execRaw(ctx, "insert venue", query, args...)
	return err
}

func (r venueRepository) Delete(ctx context.Context, id string) error {
	_, err := r.s.exec(ctx, "delete venue", qb.DeleteFrom(venueTable).Where(qb.Eq("id", id)))
	return err
}

func (r venueRepository) GetByID(ctx context.Context, id string) (venue.Venue, bool, error) {
	var row venueRow
	ok, err := r.s.get(ctx, "select venue", &row, venueSelect().Where(qb.Eq("v.id", id)))
	if err != nil || !ok {
		return venue.Venue{}, false, err
	}
	return row.toDomain(), true, nil
}

func (r venueRepository) GetForUpdate(ctx context.Context, id string) (venue.Venue, bool, error) {
	ok, err := r.s.lockRow(ctx, venueTable, id)
	if err != nil || !ok {
		return venue.Venue{}, false, err
	}
	return r.GetByID(ctx, id)
}

func (r venueRepository) List(ctx context.Context, sportID string) ([]venue.Venue, error) {
	b := venueSelect().OrderBy("LOWER(v.name)", "v.id")
	if sportID != "" {
		b.Where(qb.Or(qb.IsNull("v.sport_id"), qb.Eq("v.sport_id", sportID)))
	}

	var rows []venueRow
	if err := r.s.selectInto(ctx, "select venues", &rows, b); err != nil {
		return nil, err
	}
	out := make([]venue.Venue, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func venueSelect() *qb.SelectBuilder {
	cols := append(qb.Columns(venueTableModel{}, "v"), "s.name AS sport_name")
	return qb.Select(cols...).
		From("venues v").
		Join("LEFT JOIN sports s ON s.id = v.sport_id")
}
