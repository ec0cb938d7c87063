package middleware

import (
	"context"
	"net/http"

	"github.com/minhaz23-oss/fbLogin/internal/infrastructure/identity"
)

type contextKey string

const sessionKey contextKey = "session"

// SessionCookieName is the cookie carrying the session token.
const SessionCookieName = "session"

// SessionVerifier validates session cookie values.
type SessionVerifier interface {
	VerifySession(ctx context.Context, token string) (*identity.SessionClaims, error)
}

// Session returns middleware that validates the session cookie and injects
// the session claims into the request context.
func Session(verifier SessionVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				writeJSONError(w, http.StatusUnauthorized, "missing session cookie")
				return
			}
			claims, err := verifier.VerifySession(r.Context(), cookie.Value)
			if err != nil {
				writeJSONError(w, http.StatusUnauthorized, "invalid or expired session")
				return
			}
			ctx := context.WithValue(r.Context(), sessionKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionFromContext extracts session claims from the request context.
func SessionFromContext(ctx context.Context) (*identity.SessionClaims, bool) {
	c, ok := ctx.Value(sessionKey).(*identity.SessionClaims)
	return c, ok
}
