package handler

import (
	"context"
	"net/http"

	"github.com/careconnect-health/careconnect-api/shared/auth"
)

// SessionCookieName is the cookie carrying the session token.
const SessionCookieName = "token"

type contextKey struct{}

var userIDKey = contextKey{}

// UserIDFromContext returns the authenticated user ID set by RequireAuth.
func UserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDKey).(string)
	return userID, ok
}

// RequireAuth verifies the session cookie and injects the user ID into the
// request context. Missing, tampered, and expired tokens are all rejected
// with the same status.
func RequireAuth(tokenIssuer *auth.TokenIssuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err != nil {
				respondError(w, http.StatusUnauthorized, "user not authenticated")
				return
			}

			userID, err := tokenIssuer.Verify(cookie.Value)
			if err != nil {
				respondError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
