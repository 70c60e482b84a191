package middleware

import (
	"context"
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"storefront-admin/internal/domain"
	"storefront-admin/internal/observability"
)

type contextKey string

const (
	IdentityKey contextKey = "identity"
	SessionKey  contextKey = "session"
)

// WithSession stores the verified session and its identity in ctx.
func WithSession(ctx context.Context, session *domain.Session) context.Context {
	identity := session.Identity
	ctx = context.WithValue(ctx, SessionKey, session)
	ctx = context.WithValue(ctx, IdentityKey, &identity)
	return observability.WithActor(ctx, identity.Email)
}

func GetSession(ctx context.Context) (*domain.Session, bool) {
	session, ok := ctx.Value(SessionKey).(*domain.Session)
	return session, ok
}

func GetIdentity(ctx context.Context) (*domain.Identity, bool) {
	identity, ok := ctx.Value(IdentityKey).(*domain.Identity)
	return identity, ok
}

// Actor returns the email of the signed-in admin, or "" when there is none.
func Actor(ctx context.Context) string {
	if identity, ok := GetIdentity(ctx); ok {
		return identity.Email
	}
	return ""
}

// RequestContext copies chi's request id into the logging context.
// It must run after chi's RequestID middleware.
func RequestContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := chimiddleware.GetReqID(r.Context()); id != "" {
			r = r.WithContext(observability.WithRequestID(r.Context(), id))
		}
		next.ServeHTTP(w, r)
	})
}
