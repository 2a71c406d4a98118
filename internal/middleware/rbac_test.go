package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/brahmand/brahmand/internal/model"
)

func requestWithUser(role string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/admin/api/build", nil)
	user := model.User{ID: 1, Email: "u@brahmand.co", Role: role}
	return req.WithContext(context.WithValue(req.Context(), ContextKeyUser, user))
}

func TestRequireScopeAllowed(t *testing.T) {
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	rec := httptest.NewRecorder()
	RequireScope("content:publish")(next).ServeHTTP(rec, requestWithUser(model.RoleEditor))
	assert.True(t, called)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireScopeSuperAdminWildcard(t *testing.T) {
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	rec := httptest.NewRecorder()
	RequireScope("anything:at-all")(next).ServeHTTP(rec, requestWithUser(model.RoleSuperAdmin))
	assert.True(t, called)
}

func TestRequireScopeForbidden(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	})

	rec := httptest.NewRecorder()
	RequireScope("content:edit")(next).ServeHTTP(rec, requestWithUser(model.RoleViewer))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireScopeAnonymous(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/api/articles", nil)
	RequireScope("content:read")(next).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
