package middleware

import (
	"encoding/json"
	"net/http"

	"storefront-admin/internal/domain"
)

// SessionReader resolves the verified session carried by a request.
type SessionReader interface {
	Current(r *http.Request) (*domain.Session, bool)
}

// Auth rejects API requests without a valid session with 401.
func Auth(sessions SessionReader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if session, ok := GetSession(r.Context()); ok {
				next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session)))
				return
			}

			session, ok := sessions.Current(r)
			if !ok {
				writeJSONError(w, http.StatusUnauthorized, "Not authenticated")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session)))
		})
	}
}

// RequireAdmin rejects authenticated identities without the admin role.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := GetIdentity(r.Context())
		if !ok {
			writeJSONError(w, http.StatusUnauthorized, "Not authenticated")
			return
		}
		if !identity.IsAdmin() {
			writeJSONError(w, http.StatusForbidden, "Forbidden")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
