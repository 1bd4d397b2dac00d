package account

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/riskibarqy/tournament-portal/internal/domain/user"
	"github.com/riskibarqy/tournament-portal/internal/usecase"
)

const (
	purposeAccess = "access"
	purposeReset  = "password_reset"

	DefaultAccessTTL = 7 * 24 * time.Hour
	DefaultResetTTL  = time.Hour
)

var errWrongPurpose = errors.New("token purpose mismatch")

type claims struct {
	Email   string `json:"email,omitempty"`
	Role    string `json:"role,omitempty"`
	Purpose string `json:"purpose"`
	// Fingerprint ties a reset token to the password hash it was issued for.
	Fingerprint string `json:"fp,omitempty"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256 bearer tokens and password reset
// tokens.
type TokenService struct {
	secret    []byte
	issuer    string
	accessTTL time.Duration
	resetTTL  time.Duration
	now       func() time.Time
}

func NewTokenService(secret, issuer string, accessTTL, resetTTL time.Duration) (*TokenService, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, fmt.Errorf("token secret is required")
	}
	if accessTTL <= 0 {
		accessTTL = DefaultAccessTTL
	}
	if resetTTL <= 0 {
		resetTTL = DefaultResetTTL
	}

	return &TokenService{
		secret:    []byte(secret),
		issuer:    strings.TrimSpace(issuer),
		accessTTL: accessTTL,
		resetTTL:  resetTTL,
		now:       time.Now,
	}, nil
}

func (s *TokenService) IssueAccessToken(principal user.Principal) (string, time.Time, error) {
	if strings.TrimSpace(principal.UserID) == "" {
		return "", time.Time{}, fmt.Errorf("issue access token: user id is required")
	}
	expiresAt := s.now().Add(s.accessTTL)
	token, err := s.sign(claims{
		Email:            principal.Email,
		Role:             string(principal.Role),
		Purpose:          purposeAccess,
		RegisteredClaims: s.registered(principal.UserID, expiresAt),
	})
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

// VerifyAccessToken implements the HTTP layer's bearer verification.
func (s *TokenService) VerifyAccessToken(_ context.Context, token string) (user.Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return user.Principal{}, fmt.Errorf("%w: token is required", usecase.ErrUnauthorized)
	}

	parsed, err := s.parse(token, purposeAccess)
	if err != nil {
		return user.Principal{}, fmt.Errorf("%w: Invalid or expired token", usecase.ErrUnauthorized)
	}

	role := user.Role(parsed.Role)
	if !role.Valid() {
		return user.Principal{}, fmt.Errorf("%w: invalid role claim", usecase.ErrUnauthorized)
	}
	return user.Principal{
		UserID: parsed.Subject,
		Email:  parsed.Email,
		Role:   role,
	}, nil
}

func (s *TokenService) IssueResetToken(userID, passwordHash string) (string, error) {
	if strings.TrimSpace(userID) == "" {
		return "", fmt.Errorf("issue reset token: user id is required")
	}
	return s.sign(claims{
		Purpose:          purposeReset,
		Fingerprint:      fingerprint(passwordHash),
		RegisteredClaims: s.registered(userID, s.now().Add(s.resetTTL)),
	})
}

// VerifyResetToken checks signature, expiry and purpose, then compares the
// fingerprint against the account's current password hash.
func (s *TokenService) VerifyResetToken(token string, lookupHash func(userID string) (string, error)) (string, error) {
	parsed, err := s.parse(strings.TrimSpace(token), purposeReset)
	if err != nil {
		return "", err
	}
	current, err := lookupHash(parsed.Subject)
	if err != nil {
		return "", fmt.Errorf("lookup password hash: %w", err)
	}
	if fingerprint(current) != parsed.Fingerprint {
		return "", fmt.Errorf("reset token already used")
	}
	return parsed.Subject, nil
}

func (s *TokenService) registered(subject string, expiresAt time.Time) jwt.RegisteredClaims {
	now := s.now()
	return jwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    s.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
}

func (s *TokenService) sign(c claims) (string, error) {
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (s *TokenService) parse(token, purpose string) (*claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}

	parsed := &claims{}
	_, err := jwt.ParseWithClaims(token, parsed, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	if parsed.Purpose != purpose {
		return nil, errWrongPurpose
	}
	if strings.TrimSpace(parsed.Subject) == "" {
		return nil, fmt.Errorf("token subject is empty")
	}
	return parsed, nil
}

func fingerprint(passwordHash string) string {
	sum := sha256.Sum256([]byte(passwordHash))
	return hex.EncodeToString(sum[:8])
}
