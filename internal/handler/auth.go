package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/brahmand/brahmand/internal/auth"
	"github.com/brahmand/brahmand/internal/middleware"
	"github.com/brahmand/brahmand/internal/model"
	"github.com/brahmand/brahmand/internal/session"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID     int64    `json:"id"`
	Email  string   `json:"email"`
	Name   string   `json:"name"`
	Role   string   `json:"role"`
	Scopes []string `json:"scopes"`
}

func userToResponse(u model.User) userResponse {
	return userResponse{
		ID:     u.ID,
		Email:  u.Email,
		Name:   u.Name,
		Role:   u.Role,
		Scopes: u.Scopes(),
	}
}

// Login handles POST /admin/api/auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil || req.Email == "" || req.Password == "" {
		fail(w, http.StatusBadRequest, "email and password are required")
		return
	}

	if h.guard != nil {
		if locked, remaining := h.guard.IsAccountLocked(req.Email); locked {
			h.logger.Warn("login attempt on locked account", "email", req.Email)
			fail(w, http.StatusTooManyRequests,
				"account temporarily locked, try again in "+remaining.Round(time.Second).String())
			return
		}
	}

	user, err := h.queries.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			h.logger.Error("looking up user failed", "error", err)
			fail(w, http.StatusInternalServerError, "login failed")
			return
		}
		h.recordFailedLogin(req.Email)
		fail(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	valid, err := auth.CheckPassword(req.Password, user.PasswordHash)
	if err != nil || !valid {
		h.recordFailedLogin(req.Email)
		fail(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	if h.guard != nil {
		h.guard.RecordSuccessfulLogin(req.Email)
	}

	// Transparently upgrade hashes created with older cost parameters.
	if auth.NeedsRehash(user.PasswordHash) {
		if newHash, err := auth.HashPassword(req.Password); err == nil {
			if err := h.queries.UpdateUserPassword(r.Context(), user.ID, newHash, time.Now().UTC()); err != nil {
				h.logger.Warn("password rehash failed", "user_id", user.ID, "error", err)
			}
		}
	}

	if err := session.SetUser(r.Context(), h.sm, user.ID, user.Email, user.Role); err != nil {
		h.logger.Error("creating session failed", "error", err)
		fail(w, http.StatusInternalServerError, "login failed")
		return
	}

	h.events.Log(r.Context(), "info", "auth", "user logged in", &user.ID, nil)
	respond(w, http.StatusOK, map[string]any{"user": userToResponse(user)})
}

func (h *Handler) recordFailedLogin(email string) {
	if h.guard == nil {
		return
	}
	if locked, duration := h.guard.RecordFailedAttempt(email); locked {
		h.logger.Warn("account locked", "email", email, "duration", duration)
	}
}

// Logout handles POST /admin/api/auth/logout. Always succeeds, even
// without a session.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := session.ClearUser(r.Context(), h.sm); err != nil {
		h.logger.Warn("destroying session failed", "error", err)
	}
	respond(w, http.StatusOK, nil)
}

// Me handles GET /admin/api/auth/me.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.CurrentUser(r)
	if !ok {
		fail(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	respond(w, http.StatusOK, map[string]any{"user": userToResponse(user)})
}
