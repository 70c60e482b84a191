package domain

import (
	"errors"
	"time"
)

var (
	ErrInvalidSignature = errors.New("session token signature invalid")
	ErrSessionExpired   = errors.New("session expired")
)

// SessionTTL is the fixed lifetime of a session token and its cookie.
const SessionTTL = 24 * time.Hour

// Session is the decoded content of a signed session token.
// The token is the only record of the session; nothing is stored server-side.
type Session struct {
	Identity  Identity  `json:"user"`
	CSRFToken string    `json:"csrf_token,omitempty"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires"`
}

// Expired reports whether the session is past its expiry at the given instant.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
