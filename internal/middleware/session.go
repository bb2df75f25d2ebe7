package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// SessionHeader carries the browsing-session identifier that scopes a cart.
// Sessions are anonymous and ephemeral; they are unrelated to authentication.
const SessionHeader = "X-Session-ID"

// SessionMiddleware ensures every request carries a session ID, minting one
// when the client has none yet. The ID is echoed back so the client can
// persist it for the rest of the browsing session.
func SessionMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := r.Header.Get(SessionHeader)
			if sessionID == "" {
				sessionID = uuid.New().String()
			}

			w.Header().Set(SessionHeader, sessionID)

			ctx := context.WithValue(r.Context(), SessionIDKey, sessionID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetSessionID extracts the browsing-session ID from the request context.
func GetSessionID(ctx context.Context) (string, bool) {
	sessionID, ok := ctx.Value(SessionIDKey).(string)
	return sessionID, ok
}
