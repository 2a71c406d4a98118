package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/brahmand/brahmand/internal/middleware"
	"github.com/brahmand/brahmand/internal/model"
	"github.com/brahmand/brahmand/internal/service"
	"github.com/brahmand/brahmand/internal/store"
)

type menuEntryResponse struct {
	ID         int64     `json:"id"`
	Area       string    `json:"area"`
	Label      string    `json:"label"`
	URL        string    `json:"url"`
	Verse      string    `json:"verse,omitempty"`
	OrderIndex int       `json:"order_index"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func menuToResponse(m model.MenuEntry) menuEntryResponse {
	return menuEntryResponse{
		ID:         m.ID,
		Area:       m.Area,
		Label:      m.Label,
		URL:        m.URL,
		Verse:      m.VerseCode.String,
		OrderIndex: m.OrderIndex,
		UpdatedAt:  m.UpdatedAt,
	}
}

type menuEntryRequest struct {
	Area       string `json:"area"`
	Label      string `json:"label"`
	URL        string `json:"url"`
	Verse      string `json:"verse"`
	OrderIndex int    `json:"order_index"`
}

// ListMenus handles GET /admin/api/menus, optionally filtered by area.
func (h *Handler) ListMenus(w http.ResponseWriter, r *http.Request) {
	entries, err := h.menus.List(r.Context(), r.URL.Query().Get("area"))
	if err != nil {
		h.menuError(w, err, "listing menus failed")
		return
	}

	resp := make([]menuEntryResponse, 0, len(entries))
	for _, entry := range entries {
		resp = append(resp, menuToResponse(entry))
	}
	respond(w, http.StatusOK, map[string]any{"menus": resp})
}

// CreateMenu handles POST /admin/api/menus.
func (h *Handler) CreateMenu(w http.ResponseWriter, r *http.Request) {
	var req menuEntryRequest
	if err := decodeJSON(r, &req); err != nil {
		fail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	entry, err := h.menus.Create(r.Context(), service.MenuEntryInput{
		Area:       req.Area,
		Label:      req.Label,
		URL:        req.URL,
		VerseCode:  req.Verse,
		OrderIndex: req.OrderIndex,
	})
	if err != nil {
		h.menuError(w, err, "creating menu entry failed")
		return
	}
	respond(w, http.StatusCreated, map[string]any{"menu": menuToResponse(entry)})
}

// UpdateMenu handles PUT /admin/api/menus/{id}.
func (h *Handler) UpdateMenu(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		fail(w, http.StatusBadRequest, "invalid menu id")
		return
	}

	var req menuEntryRequest
	if err := decodeJSON(r, &req); err != nil {
		fail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	entry, err := h.menus.Update(r.Context(), id, service.MenuEntryInput{
		Area:       req.Area,
		Label:      req.Label,
		URL:        req.URL,
		VerseCode:  req.Verse,
		OrderIndex: req.OrderIndex,
	})
	if err != nil {
		h.menuError(w, err, "updating menu entry failed")
		return
	}
	respond(w, http.StatusOK, map[string]any{"menu": menuToResponse(entry)})
}

// DeleteMenu handles DELETE /admin/api/menus/{id}.
func (h *Handler) DeleteMenu(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		fail(w, http.StatusBadRequest, "invalid menu id")
		return
	}
	if err := h.menus.Delete(r.Context(), id); err != nil {
		h.menuError(w, err, "deleting menu entry failed")
		return
	}
	respond(w, http.StatusOK, nil)
}

// ExportMenus handles POST /admin/api/menus/export: regenerates the
// menus.json artifact immediately, outside a full build.
func (h *Handler) ExportMenus(w http.ResponseWriter, r *http.Request) {
	export, err := h.generator.ExportMenus(r.Context())
	if err != nil {
		h.logger.Error("exporting menus failed", "error", err)
		fail(w, http.StatusInternalServerError, "menu export failed")
		return
	}

	user, _ := middleware.CurrentUser(r)
	h.events.Log(r.Context(), "info", "menu", "menus.json exported", &user.ID, nil)
	respond(w, http.StatusOK, map[string]any{"export": export})
}

func (h *Handler) menuError(w http.ResponseWriter, err error, logMsg string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		fail(w, http.StatusNotFound, "menu entry not found")
	case errors.Is(err, service.ErrInvalidMenuArea):
		fail(w, http.StatusBadRequest, "invalid menu area")
	case errors.Is(err, service.ErrVerseNotFound):
		fail(w, http.StatusBadRequest, "unknown verse")
	default:
		h.logger.Error(logMsg, "error", err)
		fail(w, http.StatusInternalServerError, "internal error")
	}
}
