package middleware

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/alexedwards/scs/v2"

	"github.com/brahmand/brahmand/internal/model"
	"github.com/brahmand/brahmand/internal/session"
	"github.com/brahmand/brahmand/internal/store"
)

// RequireAuth creates middleware that requires an authenticated admin
// session and loads the user into the request context.
func RequireAuth(sm *scs.SessionManager, db *sql.DB) func(http.Handler) http.Handler {
	queries := store.New(db)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := session.UserID(r.Context(), sm)
			if userID == 0 {
				WriteError(w, http.StatusUnauthorized, "authentication required")
				return
			}

			user, err := queries.GetUserByID(r.Context(), userID)
			if err != nil {
				// Stale session referencing a deleted user.
				_ = sm.Destroy(r.Context())
				WriteError(w, http.StatusUnauthorized, "authentication required")
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyUser, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CurrentUser returns the authenticated user from the request context.
func CurrentUser(r *http.Request) (model.User, bool) {
	user, ok := r.Context().Value(ContextKeyUser).(model.User)
	return user, ok
}
