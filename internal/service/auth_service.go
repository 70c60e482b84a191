package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"storefront-admin/internal/domain"
	"storefront-admin/internal/observability"
)

const bcryptCost = 12

var ErrMissingAdminPassword = errors.New("admin password or password hash is required")

// AuthService checks back-office credentials against the single configured admin.
type AuthService struct {
	email        string
	passwordHash []byte
}

// NewAuthService builds the credential checker. A plaintext password is hashed
// once here so that comparison always goes through bcrypt.
func NewAuthService(email, password, passwordHash string) (*AuthService, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, domain.ErrInvalidInput
	}

	hash := []byte(passwordHash)
	if passwordHash == "" {
		if password == "" {
			return nil, ErrMissingAdminPassword
		}
		var err error
		hash, err = bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
		if err != nil {
			return nil, err
		}
	} else if _, err := bcrypt.Cost(hash); err != nil {
		return nil, err
	}

	return &AuthService{email: email, passwordHash: hash}, nil
}

// Authenticate returns the admin identity for matching credentials. Every
// failure yields domain.ErrInvalidCredentials so callers cannot tell which
// field was wrong.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*domain.Identity, error) {
	emailOK := strings.EqualFold(strings.TrimSpace(email), s.email)
	// The hash is compared even on an email mismatch to keep timing uniform.
	passwordOK := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)) == nil

	if !emailOK || !passwordOK {
		observability.LoginAttemptsTotal.WithLabelValues(observability.ResultFailure).Inc()
		slog.WarnContext(ctx, "admin login rejected", "email", email)
		return nil, domain.ErrInvalidCredentials
	}

	observability.LoginAttemptsTotal.WithLabelValues(observability.ResultSuccess).Inc()
	return &domain.Identity{
		ID:    "1",
		Name:  "Admin",
		Email: s.email,
		Role:  domain.RoleAdmin,
	}, nil
}
