// Package session issues and verifies the signed session token that is the
// only record of an authenticated back-office user, and stores it in a cookie.
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"storefront-admin/internal/domain"
)

var ErrMissingKey = errors.New("session signing key is empty")

// Option configures a Codec or a CookieStore.
type Option func(*options)

type options struct {
	now    func() time.Time
	secure bool
}

// WithClock replaces time.Now, for tests that move across the expiry boundary.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithSecureCookie sets the Secure attribute on issued cookies.
func WithSecureCookie(secure bool) Option {
	return func(o *options) { o.secure = secure }
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

type claims struct {
	User    domain.Identity  `json:"user"`
	Expires *jwt.NumericDate `json:"expires"`
	CSRF    string           `json:"csrf,omitempty"`
	jwt.RegisteredClaims
}

// Codec signs sessions into HS256 tokens and verifies them back.
// The key is read once at construction and never mutated, so a Codec is safe
// for concurrent use.
type Codec struct {
	key []byte
	now func() time.Time
}

// NewCodec returns a codec for the given symmetric key.
func NewCodec(key []byte, opts ...Option) (*Codec, error) {
	if len(key) == 0 {
		return nil, ErrMissingKey
	}
	o := buildOptions(opts)
	return &Codec{key: key, now: o.now}, nil
}

// Encrypt signs the session. The token always expires SessionTTL after issuance
// regardless of the payload's own expiry field.
func (c *Codec) Encrypt(s *domain.Session) (string, error) {
	if s == nil {
		return "", domain.ErrInvalidInput
	}
	if err := s.Identity.Validate(); err != nil {
		return "", err
	}

	issued := c.now()
	expiresAt := s.ExpiresAt
	if expiresAt.IsZero() {
		expiresAt = issued.Add(domain.SessionTTL)
	}

	cl := claims{
		User:    s.Identity,
		Expires: jwt.NewNumericDate(expiresAt),
		CSRF:    s.CSRFToken,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   s.Identity.ID,
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(issued.Add(domain.SessionTTL)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, cl).SignedString(c.key)
	if err != nil {
		return "", fmt.Errorf("sign session: %w", err)
	}
	return token, nil
}

// Decrypt verifies signature, algorithm and expiry and returns the session.
// Errors wrap domain.ErrSessionExpired or domain.ErrInvalidSignature.
func (c *Codec) Decrypt(token string) (*domain.Session, error) {
	var cl claims
	_, err := jwt.ParseWithClaims(token, &cl, func(*jwt.Token) (interface{}, error) {
		return c.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %v", domain.ErrSessionExpired, err)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidSignature, err)
	}

	if err := cl.User.Validate(); err != nil {
		return nil, fmt.Errorf("%w: token carries no identity", domain.ErrInvalidSignature)
	}

	s := &domain.Session{
		Identity:  cl.User,
		CSRFToken: cl.CSRF,
	}
	if cl.IssuedAt != nil {
		s.IssuedAt = cl.IssuedAt.Time
	}
	if cl.Expires != nil {
		s.ExpiresAt = cl.Expires.Time
	} else {
		s.ExpiresAt = cl.ExpiresAt.Time
	}
	return s, nil
}
