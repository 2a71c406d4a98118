package handler

import (
	"net/http"
	"time"

	"github.com/brahmand/brahmand/internal/middleware"
	"github.com/brahmand/brahmand/internal/model"
)

const maxUploadSize = 32 << 20

type mediaResponse struct {
	ID        int64     `json:"id"`
	Path      string    `json:"path"`
	Width     int64     `json:"width,omitempty"`
	Height    int64     `json:"height,omitempty"`
	Mime      string    `json:"mime"`
	CreatedAt time.Time `json:"created_at"`
}

func mediaToResponse(m model.Media) mediaResponse {
	return mediaResponse{
		ID:        m.ID,
		Path:      m.Path,
		Width:     m.Width.Int64,
		Height:    m.Height.Int64,
		Mime:      m.Mime,
		CreatedAt: m.CreatedAt,
	}
}

// UploadMedia handles POST /admin/api/media (multipart, field "file").
func (h *Handler) UploadMedia(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		fail(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		fail(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	user, _ := middleware.CurrentUser(r)
	media, err := h.media.Upload(r.Context(), file, header.Filename, user.ID)
	if err != nil {
		h.logger.Warn("media upload rejected", "file", header.Filename, "error", err)
		fail(w, http.StatusUnprocessableEntity, "unsupported or corrupt image")
		return
	}

	h.events.Log(r.Context(), "info", "media", "media uploaded", &user.ID,
		map[string]any{"path": media.Path})
	respond(w, http.StatusCreated, map[string]any{"media": mediaToResponse(media)})
}

// ListMedia handles GET /admin/api/media.
func (h *Handler) ListMedia(w http.ResponseWriter, r *http.Request) {
	items, err := h.media.List(r.Context(), queryInt(r, "limit", 100))
	if err != nil {
		h.logger.Error("listing media failed", "error", err)
		fail(w, http.StatusInternalServerError, "failed to list media")
		return
	}

	resp := make([]mediaResponse, 0, len(items))
	for _, m := range items {
		resp = append(resp, mediaToResponse(m))
	}
	respond(w, http.StatusOK, map[string]any{"media": resp})
}
