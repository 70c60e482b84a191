package middleware

import (
	"net/http"
	"strings"

	"storefront-admin/internal/observability"
)

const (
	LoginPath     = "/login"
	DashboardPath = "/dashboard"
)

// Decision is the outcome of the route gate for one request.
type Decision int

const (
	Allow Decision = iota
	RedirectToLogin
	RedirectToDashboard
)

func (d Decision) String() string {
	switch d {
	case RedirectToLogin:
		return "redirect_login"
	case RedirectToDashboard:
		return "redirect_dashboard"
	default:
		return "allow"
	}
}

// Target returns the redirect location, or "" for Allow.
func (d Decision) Target() string {
	switch d {
	case RedirectToLogin:
		return LoginPath
	case RedirectToDashboard:
		return DashboardPath
	default:
		return ""
	}
}

// excludedPrefixes never pass through the gate. API routes answer 401 on their own.
var excludedPrefixes = []string{
	"/api",
	"/_next/static",
	"/_next/image",
	"/favicon.ico",
	"/static",
	"/health",
	"/metrics",
}

// IsExcluded reports whether path bypasses the gate.
func IsExcluded(path string) bool {
	for _, prefix := range excludedPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// Decide maps session presence and path to a gate decision.
func Decide(hasSession bool, path string) Decision {
	onLogin := strings.HasPrefix(path, LoginPath)

	switch {
	case !hasSession && !onLogin:
		return RedirectToLogin
	case hasSession && onLogin:
		return RedirectToDashboard
	case hasSession && path == "/":
		return RedirectToDashboard
	default:
		return Allow
	}
}

// Gate redirects page requests according to Decide and places the verified
// session in the request context of allowed requests.
func Gate(sessions SessionReader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if IsExcluded(r.URL.Path) {
				observability.GateDecisionsTotal.WithLabelValues("excluded").Inc()
				next.ServeHTTP(w, r)
				return
			}

			session, ok := sessions.Current(r)
			decision := Decide(ok, r.URL.Path)
			observability.GateDecisionsTotal.WithLabelValues(decision.String()).Inc()

			if decision != Allow {
				http.Redirect(w, r, decision.Target(), http.StatusTemporaryRedirect)
				return
			}

			if ok {
				r = r.WithContext(WithSession(r.Context(), session))
			}
			next.ServeHTTP(w, r)
		})
	}
}
