package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/tournament-portal/internal/domain/audit"
	"github.com/riskibarqy/tournament-portal/internal/domain/event"
	"github.com/riskibarqy/tournament-portal/internal/domain/match"
	"github.com/riskibarqy/tournament-portal/internal/domain/sport"
	"github.com/riskibarqy/tournament-portal/internal/domain/standing"
	"github.com/riskibarqy/tournament-portal/internal/domain/store"
	"github.com/riskibarqy/tournament-portal/internal/domain/team"
	"github.com/riskibarqy/tournament-portal/internal/domain/user"
	"github.com/riskibarqy/tournament-portal/internal/domain/venue"
)

// Store implements store.Store on PostgreSQL. Repositories resolve the
// active transaction from the context, so the same accessors serve both
// plain reads and WithinTx callbacks.
type Store struct {
	db *sqlx.DB
}

var _ store.Store = (*Store)(nil)

func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

type txKey struct{}

type txState struct {
	owner *Store
	tx    *sqlx.Tx
}

func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, tx store.Tx) error) (err error) {
	if current, ok := ctx.Value(txKey{}).(*txState); ok && current.owner == s {
		return fn(ctx, s)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	txCtx := context.WithValue(ctx, txKey{}, &txState{owner: s, tx: tx})
	if err := fn(txCtx, s); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			return errors.Join(err, fmt.Errorf("rollback tx: %w", rbErr))
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return translateError("commit tx", err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// conn returns the transaction carried by ctx, or the pool.
func (s *Store) conn(ctx context.Context) sqlx.ExtContext {
	if current, ok := ctx.Value(txKey{}).(*txState); ok && current.owner == s {
		return current.tx
	}
	return s.db
}

type sqlBuilder interface {
	ToSQL() (string, []any, error)
}

// get scans a single row into dest. A missing row reports false without error.
func (s *Store) get(ctx context.Context, op string, dest any, b sqlBuilder) (bool, error) {
	query, args, err := b.ToSQL()
	if err != nil {
		return false, fmt.Errorf("build %s query: %w", op, err)
	}
	if err := sqlx.GetContext(ctx, s.conn(ctx), dest, query, args...); err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return true, nil
}

func (s *Store) selectInto(ctx context.Context, op string, dest any, b sqlBuilder) error {
	query, args, err := b.ToSQL()
	if err != nil {
		return fmt.Errorf("build %s query: %w", op, err)
	}
	if err := sqlx.SelectContext(ctx, s.conn(ctx), dest, query, args...); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Store) exec(ctx context.Context, op string, b sqlBuilder) (int64, error) {
	query, args, err := b.ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build %s query: %w", op, err)
	}
	return s.execRaw(ctx, op, query, args...)
}

func (s *Store) execRaw(ctx context.Context, op, query string, args ...any) (int64, error) {
	res, err := s.conn(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		return 0, translateError(op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s rows affected: %w", op, err)
	}
	return affected, nil
}

// lockRow takes a row lock on table.id. Joined reads cannot lock the
// nullable side of an outer join, so locking and reading are split.
func (s *Store) lockRow(ctx context.Context, table, id string) (bool, error) {
	var locked string
	query := "SELECT id FROM " + table + " WHERE id = $1 FOR UPDATE"
	if err := sqlx.GetContext(ctx, s.conn(ctx), &locked, query, id); err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("lock %s %s: %w", table, id, err)
	}
	return true, nil
}

func (s *Store) Events() event.Repository       { return eventRepository{s: s} }
func (s *Store) Sports() sport.Repository       { return sportRepository{s: s} }
func (s *Store) Venues() venue.Repository       { return venueRepository{s: s} }
func (s *Store) Teams() team.Repository         { return teamRepository{s: s} }
func (s *Store) Matches() match.Repository      { return matchRepository{s: s} }
func (s *Store) Standings() standing.Repository { return standingRepository{s: s} }
func (s *Store) Audit() audit.Repository        { return auditRepository{s: s} }
func (s *Store) Users() user.Repository         { return userRepository{s: s} }
