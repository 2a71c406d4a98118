package middleware

import (
	"net/http"
)

// RequireScope creates middleware that checks the authenticated user's
// role grants the given scope. It must run after RequireAuth.
func RequireScope(scope string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := CurrentUser(r)
			if !ok {
				WriteError(w, http.StatusUnauthorized, "authentication required")
				return
			}
			if !user.HasScope(scope) {
				WriteError(w, http.StatusForbidden, "insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
