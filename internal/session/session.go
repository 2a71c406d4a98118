// Package session configures server-side admin sessions.
package session

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/alexedwards/scs/v2/memstore"
)

// Session keys.
const (
	KeyUserID    = "user_id"
	KeyUserEmail = "user_email"
	KeyUserRole  = "user_role"
)

// New creates a session manager. With the sqlite driver sessions are
// persisted in the database; otherwise they live in process memory.
func New(db *sql.DB, driver string, isDev bool) *scs.SessionManager {
	sm := scs.New()

	if driver == "sqlite" || driver == "" {
		sm.Store = sqlite3store.New(db)
	} else {
		sm.Store = memstore.New()
	}

	sm.Lifetime = 24 * time.Hour
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Secure = !isDev

	return sm
}

// SetUser records the authenticated user in the session. The token is
// renewed to prevent session fixation.
func SetUser(ctx context.Context, sm *scs.SessionManager, id int64, email, role string) error {
	if err := sm.RenewToken(ctx); err != nil {
		return err
	}
	sm.Put(ctx, KeyUserID, id)
	sm.Put(ctx, KeyUserEmail, email)
	sm.Put(ctx, KeyUserRole, role)
	return nil
}

// ClearUser removes the authenticated user and destroys the session.
func ClearUser(ctx context.Context, sm *scs.SessionManager) error {
	return sm.Destroy(ctx)
}

// UserID returns the authenticated user id, or 0 when anonymous.
func UserID(ctx context.Context, sm *scs.SessionManager) int64 {
	id, _ := sm.Get(ctx, KeyUserID).(int64)
	return id
}

// UserRole returns the authenticated user's role, or "" when anonymous.
func UserRole(ctx context.Context, sm *scs.SessionManager) string {
	role, _ := sm.Get(ctx, KeyUserRole).(string)
	return role
}
