package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/riskibarqy/tournament-portal/internal/domain/notification"
	"github.com/riskibarqy/tournament-portal/internal/domain/store"
	"github.com/riskibarqy/tournament-portal/internal/domain/user"
	idgen "github.com/riskibarqy/tournament-portal/internal/platform/id"
	"github.com/riskibarqy/tournament-portal/internal/platform/logging"
)

// PasswordHasher hashes and verifies account passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	// Compare returns nil when password matches hash.
	Compare(hash, password string) error
}

// TokenIssuer mints bearer and password reset tokens.
type TokenIssuer interface {
	IssueAccessToken(principal user.Principal) (string, time.Time, error)
	IssueResetToken(userID string, passwordHash string) (string, error)
	// VerifyResetToken returns the user id the token was issued for. The
	// token is bound to the password hash it was issued against, so it stops
	// working once the password changes.
	VerifyResetToken(token string, lookupHash func(userID string) (string, error)) (string, error)
}

type SignupInput struct {
	Username string
	Email    string
	Password string
}

type AuthResult struct {
	Token     string
	ExpiresAt time.Time
	User      user.User
}

type AuthService struct {
	store       store.Store
	hasher      PasswordHasher
	tokens      TokenIssuer
	idGen       idgen.Generator
	notifier    Notifier
	frontendURL string
	logger      *logging.Logger
	now         func() time.Time
}

func NewAuthService(
	st store.Store,
	hasher PasswordHasher,
	tokens TokenIssuer,
	idGen idgen.Generator,
	notifier Notifier,
	frontendURL string,
	logger *logging.Logger,
) *AuthService {
	if logger == nil {
		logger = logging.Default()
	}

	return &AuthService{
		store:       st,
		hasher:      hasher,
		tokens:      tokens,
		idGen:       idGen,
		notifier:    notifierOrNop(notifier),
		frontendURL: strings.TrimRight(strings.TrimSpace(frontendURL), "/"),
		logger:      logger,
		now:         time.Now,
	}
}

// Signup creates a manager account and signs it in.
func (s *AuthService) Signup(ctx context.Context, input SignupInput) (AuthResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AuthService.Signup")
	defer span.End()

	username := strings.TrimSpace(input.Username)
	email := user.NormalizeEmail(input.Email)
	if username == "" || email == "" || input.Password == "" {
		return AuthResult{}, fmt.Errorf("%w: All fields required", ErrInvalidInput)
	}
	if err := user.ValidateEmail(email); err != nil {
		return AuthResult{}, fmt.Errorf("%w: %s", ErrInvalidInput, err.Error())
	}
	if err := user.ValidateUsername(username); err != nil {
		return AuthResult{}, fmt.Errorf("%w: %s", ErrInvalidInput, err.Error())
	}
	if err := user.ValidatePassword(input.Password); err != nil {
		return AuthResult{}, fmt.Errorf("%w: %s", ErrInvalidInput, err.Error())
	}

	created, err := s.createUser(ctx, username, email, input.Password, user.RoleManager)
	if err != nil {
		return AuthResult{}, err
	}

	result, err := s.signIn(created)
	if err != nil {
		return AuthResult{}, err
	}

	s.logger.InfoContext(ctx, "account created", "user_id", created.ID)
	s.notifier.Notify(ctx, notification.Message{
		Kind:    notification.KindWelcome,
		To:      created.Email,
		Subject: "Welcome to Tournament Portal!",
		Body: greeting(created) +
			"Your manager account is ready. You can now register teams for open events.\n",
	})
	return result, nil
}

// Login exchanges credentials for a bearer token.
func (s *AuthService) Login(ctx context.Context, email, password string) (AuthResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AuthService.Login")
	defer span.End()

	email = user.NormalizeEmail(email)
	if email == "" || password == "" {
		return AuthResult{}, fmt.Errorf("%w: Email and password required", ErrInvalidInput)
	}

	u, exists, err := s.store.Users().GetByEmail(ctx, email)
	if err != nil {
		return AuthResult{}, fmt.Errorf("get user: %w", err)
	}
	if !exists {
		return AuthResult{}, fmt.Errorf("%w: Invalid credentials", ErrUnauthorized)
	}
	if err := s.hasher.Compare(u.PasswordHash, password); err != nil {
		return AuthResult{}, fmt.Errorf("%w: Invalid credentials", ErrUnauthorized)
	}

	return s.signIn(u)
}

// Me returns the caller's account.
func (s *AuthService) Me(ctx context.Context, principal user.Principal) (user.User, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AuthService.Me")
	defer span.End()

	if strings.TrimSpace(principal.UserID) == "" {
		return user.User{}, fmt.Errorf("%w: authentication required", ErrUnauthorized)
	}
	u, exists, err := s.store.Users().GetByID(ctx, principal.UserID)
	if err != nil {
		return user.User{}, fmt.Errorf("get user: %w", err)
	}
	if !exists {
		return user.User{}, fmt.Errorf("%w: User not found", ErrNotFound)
	}
	return u, nil
}

// ForgotPassword sends a reset link when the address belongs to an account.
// The outcome is never revealed to the caller.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.AuthService.ForgotPassword")
	defer span.End()

	email = user.NormalizeEmail(email)
	if email == "" || user.ValidateEmail(email) != nil {
		return fmt.Errorf("%w: Valid email required", ErrInvalidInput)
	}

	u, exists, err := s.store.Users().GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}
	if !exists {
		s.logger.DebugContext(ctx, "password reset requested for unknown address")
		return nil
	}

	token, err := s.tokens.IssueResetToken(u.ID, u.PasswordHash)
	if err != nil {
		return fmt.Errorf("issue reset token: %w", err)
	}

	link := s.frontendURL + "/reset-password.html?token=" + url.QueryEscape(token)
	s.notifier.Notify(ctx, notification.Message{
		Kind:    notification.KindPasswordReset,
		To:      u.Email,
		Subject: "Password Reset Request",
		Body: greeting(u) +
			"We received a request to reset your password. Use the link below within one hour:\n" +
			link + "\n\nIf you did not request this, you can ignore this email.\n",
	})
	return nil
}

// ResetPassword sets a new password using a reset token.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.AuthService.ResetPassword")
	defer span.End()

	token = strings.TrimSpace(token)
	if token == "" || newPassword == "" {
		return fmt.Errorf("%w: Token and new password required", ErrInvalidInput)
	}
	if err := user.ValidatePassword(newPassword); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidInput, err.Error())
	}

	userID, err := s.tokens.VerifyResetToken(token, func(id string) (string, error) {
		u, exists, err := s.store.Users().GetByID(ctx, id)
		if err != nil {
			return "", err
		}
		if !exists {
			return "", ErrNotFound
		}
		return u.PasswordHash, nil
	})
	if err != nil {
		if errors.Is(err, ErrDependencyUnavailable) {
			return err
		}
		return fmt.Errorf("%w: Invalid or expired reset token", ErrInvalidInput)
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.store.Users().UpdatePassword(ctx, userID, hash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	s.logger.InfoContext(ctx, "password reset", "user_id", userID)
	return nil
}

// EnsureAdmin creates the bootstrap admin account when no account uses email.
// An existing account is left untouched.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password string) (bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AuthService.EnsureAdmin")
	defer span.End()

	email = user.NormalizeEmail(email)
	if email == "" || password == "" {
		return false, nil
	}
	if err := user.ValidateEmail(email); err != nil {
		return false, fmt.Errorf("%w: admin email: %s", ErrInvalidInput, err.Error())
	}
	if err := user.ValidatePassword(password); err != nil {
		return false, fmt.Errorf("%w: admin password: %s", ErrInvalidInput, err.Error())
	}

	_, exists, err := s.store.Users().GetByEmail(ctx, email)
	if err != nil {
		return false, fmt.Errorf("get user: %w", err)
	}
	if exists {
		return false, nil
	}

	username := email
	if at := strings.IndexByte(email, '@'); at > 0 {
		username = email[:at]
	}
	if len(username) < user.MinUsernameLength {
		username = "admin"
	}
	if _, err := s.createUser(ctx, username, email, password, user.RoleAdmin); err != nil {
		return false, err
	}
	s.logger.InfoContext(ctx, "bootstrap admin created", "email", email)
	return true, nil
}

func (s *AuthService) createUser(ctx context.Context, username, email, password string, role user.Role) (user.User, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return user.User{}, fmt.Errorf("hash password: %w", err)
	}
	id, err := s.idGen.NewID()
	if err != nil {
		return user.User{}, fmt.Errorf("generate user id: %w", err)
	}

	now := s.now().UTC()
	created := user.User{
		ID:           id,
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = s.store.WithinTx(ctx, func(ctx context.Context, tx store.Tx) error {
		_, exists, err := tx.Users().GetByEmail(ctx, email)
		if err != nil {
			return fmt.Errorf("get user: %w", err)
		}
		if exists {
			return fmt.Errorf("%w: Email already registered", ErrConflict)
		}
		if err := tx.Users().Create(ctx, created); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				return fmt.Errorf("%w: Email already registered", ErrConflict)
			}
			return fmt.Errorf("create user: %w", err)
		}
		return nil
	})
	if err != nil {
		return user.User{}, err
	}
	return created, nil
}

func (s *AuthService) signIn(u user.User) (AuthResult, error) {
	token, expiresAt, err := s.tokens.IssueAccessToken(user.Principal{
		UserID: u.ID,
		Email:  u.Email,
		Role:   u.Role,
	})
	if err != nil {
		return AuthResult{}, fmt.Errorf("issue access token: %w", err)
	}
	return AuthResult{Token: token, ExpiresAt: expiresAt, User: u}, nil
}
