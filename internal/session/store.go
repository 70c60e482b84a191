package session

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"storefront-admin/internal/domain"
	"storefront-admin/internal/security"
)

// CookieName is the single cookie holding the session token.
const CookieName = "session"

// CookieStore keeps the session token in an HttpOnly, SameSite=Strict cookie.
type CookieStore struct {
	codec  *Codec
	tokens *security.TokenManager
	secure bool
	now    func() time.Time
}

// NewCookieStore wraps codec. Pass WithSecureCookie(true) in production.
func NewCookieStore(codec *Codec, opts ...Option) *CookieStore {
	o := buildOptions(opts)
	return &CookieStore{
		codec:  codec,
		tokens: security.NewTokenManager(),
		secure: o.secure,
		now:    o.now,
	}
}

// Login issues a fresh session for identity and writes it over any existing cookie.
func (s *CookieStore) Login(w http.ResponseWriter, identity domain.Identity) (*domain.Session, error) {
	now := s.now()
	expires := now.Add(domain.SessionTTL)

	csrfToken, err := s.tokens.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate csrf token: %w", err)
	}

	sess := &domain.Session{
		Identity:  identity,
		CSRFToken: csrfToken,
		IssuedAt:  now,
		ExpiresAt: expires,
	}

	token, err := s.codec.Encrypt(sess)
	if err != nil {
		return nil, err
	}

	s.Store(w, token, expires)
	return sess, nil
}

// Store writes an already signed token.
func (s *CookieStore) Store(w http.ResponseWriter, token string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		MaxAge:   int(domain.SessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// Logout clears the session cookie. Clearing an absent cookie is not an error.
func (s *CookieStore) Logout(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// Current returns the verified session carried by r, if any.
// Malformed, tampered and expired tokens all resolve to "no session".
func (s *CookieStore) Current(r *http.Request) (*domain.Session, bool) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return nil, false
	}

	sess, err := s.codec.Decrypt(cookie.Value)
	if err != nil {
		slog.Debug("session rejected",
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()))
		return nil, false
	}

	// The codec enforces token expiry; the payload carries its own deadline too.
	if sess.Expired(s.now()) {
		slog.Debug("session payload expired", slog.String("path", r.URL.Path))
		return nil, false
	}

	return sess, true
}

// GetSession returns the identity of the current session or nil.
func (s *CookieStore) GetSession(r *http.Request) *domain.Identity {
	sess, ok := s.Current(r)
	if !ok {
		return nil
	}
	identity := sess.Identity
	return &identity
}
