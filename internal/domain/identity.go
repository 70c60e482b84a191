package domain

import (
	"context"
	"errors"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidInput       = errors.New("invalid input")
	ErrNotFound           = errors.New("document not found")
)

// Role is the authorization level carried by an Identity.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// Identity is the authenticated principal stored in a session token.
type Identity struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// Validate checks that the identity can be embedded in a session.
func (i *Identity) Validate() error {
	if i == nil || i.ID == "" || i.Email == "" || !i.Role.Valid() {
		return ErrInvalidInput
	}
	return nil
}

// IsAdmin returns true for identities with the admin role.
func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == RoleAdmin
}

// CredentialChecker verifies submitted credentials and resolves the identity they belong to.
type CredentialChecker interface {
	Authenticate(ctx context.Context, email, password string) (*Identity, error)
}
