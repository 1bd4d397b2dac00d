package user

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"
)

type Role string

const (
	RoleManager Role = "manager"
	RoleAdmin   Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleManager || r == RoleAdmin
}

const (
	MinUsernameLength = 3
	MinPasswordLength = 6
)

type User struct {
	ID           string
	Email        string
	Username     string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Principal is the authenticated caller derived from a bearer token.
type Principal struct {
	UserID string
	Email  string
	Role   Role
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func ValidateEmail(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || !strings.Contains(email, ".") {
		return fmt.Errorf("Invalid email format")
	}
	return nil
}

func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("Password must be at least %d characters", MinPasswordLength)
	}
	return nil
}

func ValidateUsername(username string) error {
	if len(strings.TrimSpace(username)) < MinUsernameLength {
		return fmt.Errorf("Username must be at least %d characters", MinUsernameLength)
	}
	return nil
}

type Repository interface {
	Create(ctx context.Context, u User) error
	GetByID(ctx context.Context, id string) (User, bool, error)
	// GetByEmail matches case-insensitively.
	GetByEmail(ctx context.Context, email string) (User, bool, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	ListByIDs(ctx context.Context, ids []string) ([]User, error)
}
