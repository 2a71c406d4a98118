package session

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaults(t *testing.T) {
	sm := New(nil, "mysql", false)
	assert.True(t, sm.Cookie.HttpOnly)
	assert.True(t, sm.Cookie.Secure)
	assert.Equal(t, http.SameSiteLaxMode, sm.Cookie.SameSite)
}

func TestNewDevInsecureCookie(t *testing.T) {
	sm := New(nil, "mysql", true)
	assert.False(t, sm.Cookie.Secure)
}

func TestUserRoundTrip(t *testing.T) {
	sm := New(nil, "mysql", true)

	ctx, err := sm.Load(context.Background(), "")
	require.NoError(t, err)

	assert.Zero(t, UserID(ctx, sm))
	assert.Empty(t, UserRole(ctx, sm))

	require.NoError(t, SetUser(ctx, sm, 7, "admin@brahmand.co", "super_admin"))
	assert.Equal(t, int64(7), UserID(ctx, sm))
	assert.Equal(t, "super_admin", UserRole(ctx, sm))

	require.NoError(t, ClearUser(ctx, sm))
	assert.Zero(t, UserID(ctx, sm))
}
