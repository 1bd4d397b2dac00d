package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/tournament-portal/internal/domain/user"
	qb "github.com/riskibarqy/tournament-portal/internal/platform/querybuilder"
)

const userTable = "users"

type userRepository struct {
	s *Store
}

func (r userRepository) Create(ctx context.Context, u user.User) error {
	query, args, err := qb.InsertModel(userTable, userToModel(u), "")
	if err != nil {
		return fmt.Errorf("build insert user query: %w", err)
	}
	_, err = r.s.execRaw(ctx, "insert user", query, args...)
	return err
}

func (r userRepository) GetByID(ctx context.Context, id string) (user.User, bool, error) {
	return r.getOne(ctx, "select user", qb.Eq("id", id))
}

func (r userRepository) GetByEmail(ctx context.Context, email string) (user.User, bool, error) {
	return r.getOne(ctx, "select user by email", qb.Expr("LOWER(email) = ?", user.NormalizeEmail(email)))
}

func (r userRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	affected, err := r.s.exec(ctx, "update user password", qb.Update(userTable).
		Set("password_hash", passwordHash).
		Set("updated_at", time.Now().UTC()).
		Where(qb.Eq("id", id)))
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("user %s not found", id)
	}
	return nil
}

func (r userRepository) ListByIDs(ctx context.Context, ids []string) ([]user.User, error) {
	if len(ids) == 0 {
		return []user.User{}, nil
	}
	var rows []userTableModel
	err := r.s.selectInto(ctx, "select users by ids", &rows, qb.Select(qb.Columns(userTableModel{}, "")...).
		From(userTable).
		Where(qb.InStrings("id", ids)).
		OrderBy("id"))
	if err != nil {
		return nil, err
	}
	out := make([]user.User, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r userRepository) getOne(ctx context.Context, op string, cond qb.Condition) (user.User, bool, error) {
	var row userTableModel
	ok, err := r.s.get(ctx, op, &row, qb.Select(qb.Columns(userTableModel{}, "")...).From(userTable).Where(cond))
	if err != nil || !ok {
		return user.User{}, false, err
	}
	return row.toDomain(), true, nil
}
