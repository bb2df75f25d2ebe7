package middleware

import (
	"net/http"

	"go.uber.org/zap"
)

// RequireAdmin gates admin-only endpoints on the identity provider's isAdmin
// flag. The flag is treated as an opaque boolean; this service never decides
// who is an admin.
func RequireAdmin(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := GetUser(r.Context())
			if !ok {
				logger.Warn("User not found in context")
				respondWithError(w, http.StatusForbidden, "insufficient permissions")
				return
			}

			if !user.IsAdmin {
				logger.Warn("Non-admin user attempted to access admin endpoint",
					zap.String("user_id", user.ID),
				)
				respondWithError(w, http.StatusForbidden, "insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
