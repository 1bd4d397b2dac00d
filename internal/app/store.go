package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/tournament-portal/db"
	"github.com/riskibarqy/tournament-portal/internal/config"
	"github.com/riskibarqy/tournament-portal/internal/domain/store"
	"github.com/riskibarqy/tournament-portal/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/tournament-portal/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/tournament-portal/internal/platform/logging"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
)

type storeWithPing interface {
	store.Store
	Ping(ctx context.Context) error
}

func openStore(ctx context.Context, cfg config.Config, logger *logging.Logger) (storeWithPing, func() error, error) {
	if cfg.StorageDriver == config.StorageDriverMemory {
		logger.Info("using in-memory store", "seeded_sports", len(memory.SeedSports()))
		return memory.NewSeededStore(memory.SeedSports()), func() error { return nil }, nil
	}

	dbURL := normalizeDBURL(cfg.DBURL, dbURLOptions{
		DisablePreparedBinaryResult: cfg.DBDisablePreparedBinary,
		ApplicationName:             cfg.ServiceName,
	})
	if cfg.DBAutoMigrate {
		if err := runMigrations(dbURL, logger); err != nil {
			return nil, nil, err
		}
	}

	conn, err := otelsqlx.Open("postgres", dbURL,
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	conn.SetMaxOpenConns(cfg.DBMaxOpenConns)
	conn.SetMaxIdleConns(cfg.DBMaxIdleConns)

	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("ping database: %w", err)
	}
	if err := postgres.BootstrapSeed(ctx, conn); err != nil {
		_ = conn.Close()
		return nil, nil, err
	}

	logger.Info("postgres store ready", "db_name", dbNameFromURL(cfg.DBURL), "auto_migrate", cfg.DBAutoMigrate)
	return postgres.NewStore(conn), closeDB(conn), nil
}

func closeDB(conn *sqlx.DB) func() error {
	return func() error { return conn.Close() }
}

// runMigrations applies the embedded migrations; ErrNoChange is not an error.
func runMigrations(dbURL string, logger *logging.Logger) error {
	src, err := iofs.New(db.Migrations, db.MigrationsDir)
	if err != nil {
		return fmt.Errorf("open embedded migrations: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, dbURL)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if srcErr != nil {
			logger.Warn("close migration source", "error", srcErr)
		}
		if dbErr != nil {
			logger.Warn("close migration db", "error", dbErr)
		}
	}()

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Info("no migration changes")
			return nil
		}
		return fmt.Errorf("apply migrations: %w", err)
	}
	version, _, _ := m.Version()
	logger.Info("migrations applied", "version", version)
	return nil
}
