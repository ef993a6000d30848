package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/mcoot/stadiumdash/internal/api/apierr"
	"github.com/mcoot/stadiumdash/internal/services/auth"
)

// SessionCookieName is the cookie the web UI stores its session token in.
// The API accepts it so the browser can call the API directly.
const SessionCookieName = "session"

type sessionKey struct{}

// Auth rejects requests without a valid session and stores a snapshot of the
// session in the request context
func Auth(authService *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := Token(r)
			if token == "" {
				challenge(w)
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}

			session, err := authService.ValidateSession(token)
			if err != nil {
				challenge(w)
				apierr.WriteError(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey{}, session)))
		})
	}
}

func challenge(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="stadiumdash"`)
}

// Token reads a Bearer Authorization header, falling back to the
// session cookie
func Token(r *http.Request) string {
	if scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " "); ok && strings.EqualFold(scheme, "Bearer") {
		return strings.TrimSpace(token)
	}

	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		return cookie.Value
	}

	return ""
}

// GetSession returns the session stored by Auth, or nil
func GetSession(ctx context.Context) *auth.Session {
	session, _ := ctx.Value(sessionKey{}).(*auth.Session)
	return session
}

// MustGetSession returns the session stored by Auth. Handlers mounted
// behind Auth may rely on it.
func MustGetSession(ctx context.Context) *auth.Session {
	session := GetSession(ctx)
	if session == nil {
		panic("api: handler mounted without auth middleware")
	}
	return session
}
