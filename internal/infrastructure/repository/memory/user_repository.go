package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/riskibarqy/tournament-portal/internal/domain/store"
	"github.com/riskibarqy/tournament-portal/internal/domain/user"
)

type userRepository struct {
	s *Store
}

func (r userRepository) Create(ctx context.Context, u user.User) error {
	return r.s.write(ctx, func(d *state) error {
		if _, ok := d.users[u.ID]; ok {
			return fmt.Errorf("create user %s: %w", u.ID, store.ErrDuplicate)
		}
		email := user.NormalizeEmail(u.Email)
		for _, existing := range d.users {
			if user.NormalizeEmail(existing.Email) == email {
				return fmt.Errorf("create user %s: %w", email, store.ErrDuplicate)
			}
		}
		u.Email = email
		d.users[u.ID] = u
		return nil
	})
}

func (r userRepository) GetByID(ctx context.Context, id string) (user.User, bool, error) {
	var (
		out user.User
		ok  bool
	)
	r.s.read(ctx, func(d *state) {
		out, ok = d.users[id]
	})
	return out, ok, nil
}

func (r userRepository) GetByEmail(ctx context.Context, email string) (user.User, bool, error) {
	email = user.NormalizeEmail(email)
	var (
		out user.User
		ok  bool
	)
	r.s.read(ctx, func(d *state) {
		for _, u := range d.users {
			if user.NormalizeEmail(u.Email) == email {
				out, ok = u, true
				return
			}
		}
	})
	return out, ok, nil
}

func (r userRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	return r.s.write(ctx, func(d *state) error {
		u, ok := d.users[id]
		if !ok {
			return fmt.Errorf("user %s not found", id)
		}
		u.PasswordHash = passwordHash
		u.UpdatedAt = time.Now().UTC()
		d.users[id] = u
		return nil
	})
}

func (r userRepository) ListByIDs(ctx context.Context, ids []string) ([]user.User, error) {
	var out []user.User
	r.s.read(ctx, func(d *state) {
		out = make([]user.User, 0, len(ids))
		for _, id := range ids {
			if u, ok := d.users[id]; ok {
				out = append(out, u)
			}
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
