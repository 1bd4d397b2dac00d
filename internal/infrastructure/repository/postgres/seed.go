package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/tournament-portal/internal/infrastructure/repository/memory"
	qb "github.com/riskibarqy/tournament-portal/internal/platform/querybuilder"
)

// BootstrapSeed loads the starter sports catalog into an empty database.
func BootstrapSeed(ctx context.Context, db *sqlx.DB) error {
	var count int
	if err := db.GetContext(ctx, &count, `SELECT COUNT(1) FROM sports`); err != nil {
		return fmt.Errorf("count sports for bootstrap seed: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, sp := range memory.SeedSports() {
		query, args, err := qb.InsertModel(sportTable, sportToModel(sp), "ON CONFLICT (id) DO NOTHING")
		if err != nil {
			return fmt.Errorf("build seed sport %s query: %w", sp.ID, err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("seed sport %s: %w", sp.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed tx: %w", err)
	}
	return nil
}
