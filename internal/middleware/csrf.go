package middleware

import (
	"log/slog"
	"mime"
	"net/http"
	"strings"

	"storefront-admin/internal/security"
)

// CSRFHeader carries the token issued with the session.
const CSRFHeader = "X-CSRF-Token"

// maxCSRFFormBytes caps the urlencoded body read while looking for csrf_token.
const maxCSRFFormBytes = 64 << 10

// CSRF validates the token bound to the signed session on state-changing requests.
// It must run after Auth so the session is in the request context.
//
// Token sources (checked in order):
// - Header: X-CSRF-Token
// - Header: X-XSRF-Token (alternate)
// - Form field: csrf_token, urlencoded bodies only. Multipart uploads must use
//   the header so the body is left for the handler and its size limit.
func CSRF(tokens *security.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isSafeMethod(r.Method) || isExemptPath(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			session, ok := GetSession(r.Context())
			if !ok {
				writeJSONError(w, http.StatusUnauthorized, "Not authenticated")
				return
			}

			submitted := extractCSRFToken(w, r)
			if err := tokens.Verify(session.CSRFToken, submitted); err != nil {
				reason := "invalid token"
				if submitted == "" {
					reason = "missing token"
				}
				logCSRFFailure(r, session.Identity.Email, reason)
				writeJSONError(w, http.StatusForbidden, "Forbidden")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func isSafeMethod(method string) bool {
	return method == http.MethodGet ||
		method == http.MethodHead ||
		method == http.MethodOptions
}

func isExemptPath(path string) bool {
	for _, exempt := range []string{"/health", "/metrics"} {
		if strings.HasPrefix(path, exempt) {
			return true
		}
	}
	return false
}

func extractCSRFToken(w http.ResponseWriter, r *http.Request) string {
	if token := r.Header.Get(CSRFHeader); token != "" {
		return token
	}
	if token := r.Header.Get("X-XSRF-Token"); token != "" {
		return token
	}

	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != "application/x-www-form-urlencoded" {
		return ""
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxCSRFFormBytes)
	return r.PostFormValue("csrf_token")
}

func logCSRFFailure(r *http.Request, actor, reason string) {
	slog.Warn("CSRF validation failed",
		slog.String("actor", actor),
		slog.String("reason", reason),
		slog.String("method", r.Method),
		slog.String("path", r.RequestURI),
		slog.String("remote_addr", r.RemoteAddr),
	)
}
