package handler

import "net/http"

// ListVerses handles GET /admin/api/verses.
func (h *Handler) ListVerses(w http.ResponseWriter, r *http.Request) {
	verses, err := h.verses.List(r.Context())
	if err != nil {
		h.logger.Error("listing verses failed", "error", err)
		fail(w, http.StatusInternalServerError, "failed to list verses")
		return
	}
	respond(w, http.StatusOK, map[string]any{"verses": verses})
}
