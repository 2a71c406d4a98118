package model

import "time"

// User roles
const (
	RoleSuperAdmin = "super_admin"
	RoleEditor     = "editor"
	RoleAuthor     = "author"
	RoleSEOAdOps   = "seo_adops"
	RoleModerator  = "moderator"
	RoleDeveloper  = "developer"
	RoleViewer     = "viewer"
)

// DefaultRole is assigned when a user's role is unknown.
const DefaultRole = RoleViewer

// roleScopes maps each role to the scopes it grants. A "*" entry grants
// every scope.
var roleScopes = map[string][]string{
	RoleSuperAdmin: {"*"},
	RoleEditor: {
		"content:read", "content:edit", "content:publish",
		"menus:edit", "homepage:edit", "calendar:edit", "media:upload",
	},
	RoleAuthor:   {"content:read", "content:create", "content:edit_own", "media:upload"},
	RoleSEOAdOps: {"content:read", "seo:edit", "schema:edit", "ads:manage", "consent:edit", "redirects:edit", "experiments:edit", "sitemaps:ping"},
	RoleModerator: {"content:read", "ugc:review", "ugc:takedown"},
	RoleDeveloper: {"content:read", "tools:toggle", "feature_flags:manage", "deploy:run", "jobs:run", "experiments:edit"},
	RoleViewer:    {"analytics:read", "reports:read"},
}

// User represents an admin user account.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	Name         string    `json:"name"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ScopesForRole returns the scopes granted to a role. Unknown roles fall
// back to the default role's scopes.
func ScopesForRole(role string) []string {
	scopes, ok := roleScopes[role]
	if !ok {
		scopes = roleScopes[DefaultRole]
	}
	out := make([]string, len(scopes))
	copy(out, scopes)
	return out
}

// RoleHasScope reports whether a role grants the given scope.
func RoleHasScope(role, scope string) bool {
	for _, s := range ScopesForRole(role) {
		if s == "*" || s == scope {
			return true
		}
	}
	return false
}

// Scopes returns the scopes granted to the user's role.
func (u *User) Scopes() []string {
	return ScopesForRole(u.Role)
}

// HasScope reports whether the user's role grants the given scope.
func (u *User) HasScope(scope string) bool {
	return RoleHasScope(u.Role, scope)
}
