package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/brahmand/brahmand/internal/middleware"
	"github.com/brahmand/brahmand/internal/service"
	"github.com/brahmand/brahmand/internal/store"
)

type articleListItem struct {
	ID        int64      `json:"id"`
	Slug      string     `json:"slug"`
	Title     string     `json:"title"`
	Status    string     `json:"status"`
	PublishAt *time.Time `json:"publish_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	Verse     string     `json:"verse"`
	UpdatedBy string     `json:"updated_by,omitempty"`
}

type articleResponse struct {
	ID         int64      `json:"id"`
	Verse      string     `json:"verse"`
	Slug       string     `json:"slug"`
	Title      string     `json:"title"`
	Type       string     `json:"type"`
	Status     string     `json:"status"`
	MetaTitle  string     `json:"meta_title,omitempty"`
	MetaDesc   string     `json:"meta_desc,omitempty"`
	SchemaType string     `json:"schema_type"`
	PublishAt  *time.Time `json:"publish_at"`
	Markdown   string     `json:"markdown"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func articleToResponse(d service.ArticleDetail) articleResponse {
	resp := articleResponse{
		ID:         d.ID,
		Verse:      d.VerseCode,
		Slug:       d.Slug,
		Title:      d.Title,
		Type:       d.Type,
		Status:     d.Status,
		MetaTitle:  d.MetaTitle.String,
		MetaDesc:   d.MetaDesc.String,
		SchemaType: d.SchemaType,
		Markdown:   d.Markdown,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
	if d.PublishAt.Valid {
		t := d.PublishAt.Time
		resp.PublishAt = &t
	}
	return resp
}

type createArticleRequest struct {
	Title      string `json:"title"`
	Slug       string `json:"slug"`
	Verse      string `json:"verse"`
	Type       string `json:"type"`
	Status     string `json:"status"`
	MetaTitle  string `json:"meta_title"`
	MetaDesc   string `json:"meta_desc"`
	SchemaType string `json:"schema_type"`
	PublishAt  string `json:"publish_at"`
	Markdown   string `json:"markdown"`
}

type updateArticleRequest struct {
	Title      *string `json:"title"`
	Type       *string `json:"type"`
	Status     *string `json:"status"`
	MetaTitle  *string `json:"meta_title"`
	MetaDesc   *string `json:"meta_desc"`
	SchemaType *string `json:"schema_type"`
	PublishAt  *string `json:"publish_at"`
	Markdown   *string `json:"markdown"`
}

// ListArticles handles GET /admin/api/articles.
func (h *Handler) ListArticles(w http.ResponseWriter, r *http.Request) {
	items, err := h.articles.List(r.Context(), store.ListArticlesParams{
		Verse:    r.URL.Query().Get("verse"),
		Status:   r.URL.Query().Get("status"),
		Page:     queryInt(r, "page", 1),
		PageSize: queryInt(r, "pageSize", 20),
	})
	if err != nil {
		h.logger.Error("listing articles failed", "error", err)
		fail(w, http.StatusInternalServerError, "failed to list articles")
		return
	}

	resp := make([]articleListItem, 0, len(items))
	for _, it := range items {
		item := articleListItem{
			ID:        it.ID,
			Slug:      it.Slug,
			Title:     it.Title,
			Status:    it.Status,
			UpdatedAt: it.UpdatedAt,
			Verse:     it.Verse,
			UpdatedBy: it.UpdatedBy.String,
		}
		if it.PublishAt.Valid {
			t := it.PublishAt.Time
			item.PublishAt = &t
		}
		resp = append(resp, item)
	}
	respond(w, http.StatusOK, map[string]any{"articles": resp})
}

// GetArticle handles GET /admin/api/articles/{id}.
func (h *Handler) GetArticle(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		fail(w, http.StatusBadRequest, "invalid article id")
		return
	}

	detail, err := h.articles.Get(r.Context(), id)
	if err != nil {
		h.articleError(w, err, "loading article failed")
		return
	}
	respond(w, http.StatusOK, map[string]any{"article": articleToResponse(detail)})
}

// CreateArticle handles POST /admin/api/articles.
func (h *Handler) CreateArticle(w http.ResponseWriter, r *http.Request) {
	var req createArticleRequest
	if err := decodeJSON(r, &req); err != nil {
		fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Title == "" || req.Verse == "" {
		fail(w, http.StatusBadRequest, "title and verse are required")
		return
	}

	publishAt, ok := parseTimePtr(req.PublishAt)
	if !ok {
		fail(w, http.StatusBadRequest, "publish_at must be RFC 3339")
		return
	}

	user, _ := middleware.CurrentUser(r)
	id, err := h.articles.Create(r.Context(), service.CreateArticleInput{
		Title:      req.Title,
		Slug:       req.Slug,
		Verse:      req.Verse,
		Type:       req.Type,
		Status:     req.Status,
		MetaTitle:  req.MetaTitle,
		MetaDesc:   req.MetaDesc,
		SchemaType: req.SchemaType,
		PublishAt:  publishAt,
		Markdown:   req.Markdown,
	}, user.ID)
	if err != nil {
		h.articleError(w, err, "creating article failed")
		return
	}

	detail, err := h.articles.Get(r.Context(), id)
	if err != nil {
		h.articleError(w, err, "loading article failed")
		return
	}

	h.events.Log(r.Context(), "info", "article", "article created", &user.ID,
		map[string]any{"article_id": id, "slug": detail.Slug})
	respond(w, http.StatusCreated, map[string]any{"article": articleToResponse(detail)})
}

// UpdateArticle handles PATCH /admin/api/articles/{id}. Absent fields
// keep their stored values.
func (h *Handler) UpdateArticle(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		fail(w, http.StatusBadRequest, "invalid article id")
		return
	}

	var req updateArticleRequest
	if err := decodeJSON(r, &req); err != nil {
		fail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	in := service.UpdateArticleInput{
		Title:      req.Title,
		Type:       req.Type,
		Status:     req.Status,
		MetaTitle:  req.MetaTitle,
		MetaDesc:   req.MetaDesc,
		SchemaType: req.SchemaType,
		Markdown:   req.Markdown,
	}
	if req.PublishAt != nil {
		publishAt, ok := parseTimePtr(*req.PublishAt)
		if !ok {
			fail(w, http.StatusBadRequest, "publish_at must be RFC 3339")
			return
		}
		in.PublishAt = publishAt
	}

	user, _ := middleware.CurrentUser(r)
	if err := h.articles.Update(r.Context(), id, in, user.ID); err != nil {
		h.articleError(w, err, "updating article failed")
		return
	}

	detail, err := h.articles.Get(r.Context(), id)
	if err != nil {
		h.articleError(w, err, "loading article failed")
		return
	}
	respond(w, http.StatusOK, map[string]any{"article": articleToResponse(detail)})
}

type scheduleRequest struct {
	PublishAt string `json:"publish_at"`
	Status    string `json:"status"`
}

// ScheduleArticle handles POST /admin/api/articles/{id}/schedule.
func (h *Handler) ScheduleArticle(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		fail(w, http.StatusBadRequest, "invalid article id")
		return
	}

	var req scheduleRequest
	if err := decodeJSON(r, &req); err != nil {
		fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	publishAt, ok := parseTimePtr(req.PublishAt)
	if !ok {
		fail(w, http.StatusBadRequest, "publish_at must be RFC 3339")
		return
	}

	user, _ := middleware.CurrentUser(r)
	detail, err := h.articles.UpdateSchedule(r.Context(), id, publishAt, req.Status, user.ID)
	if err != nil {
		h.articleError(w, err, "scheduling article failed")
		return
	}
	respond(w, http.StatusOK, map[string]any{"article": articleToResponse(detail)})
}

// PublishArticle handles POST /admin/api/articles/{id}/publish. The
// publish is followed by an async site build.
func (h *Handler) PublishArticle(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		fail(w, http.StatusBadRequest, "invalid article id")
		return
	}

	user, _ := middleware.CurrentUser(r)
	detail, err := h.articles.Publish(r.Context(), id, user.ID)
	if err != nil {
		h.articleError(w, err, "publishing article failed")
		return
	}

	job := h.builds.TriggerBuild(user.Email, map[string]any{
		"reason":     "article_publish",
		"article_id": id,
	})
	h.events.Log(r.Context(), "info", "article", "article published", &user.ID,
		map[string]any{"article_id": id, "slug": detail.Slug})

	respond(w, http.StatusOK, map[string]any{
		"article": articleToResponse(detail),
		"job":     job,
	})
}

// SuggestLinksForArticle handles GET /admin/api/articles/{id}/suggest-links.
func (h *Handler) SuggestLinksForArticle(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		fail(w, http.StatusBadRequest, "invalid article id")
		return
	}

	detail, err := h.articles.Get(r.Context(), id)
	if err != nil {
		h.articleError(w, err, "loading article failed")
		return
	}
	respond(w, http.StatusOK, map[string]any{"links": service.SuggestLinks(detail.VerseCode)})
}

// SuggestLinksByVerse handles GET /admin/api/articles/suggest-links?verse=…
func (h *Handler) SuggestLinksByVerse(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, map[string]any{
		"links": service.SuggestLinks(r.URL.Query().Get("verse")),
	})
}

// articleError maps service errors onto API status codes.
func (h *Handler) articleError(w http.ResponseWriter, err error, logMsg string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		fail(w, http.StatusNotFound, "article not found")
	case errors.Is(err, service.ErrVerseNotFound):
		fail(w, http.StatusBadRequest, "unknown verse")
	case errors.Is(err, service.ErrInvalidStatus):
		fail(w, http.StatusBadRequest, "invalid article status")
	default:
		h.logger.Error(logMsg, "error", err)
		fail(w, http.StatusInternalServerError, "internal error")
	}
}

// parseTimePtr parses an optional RFC 3339 timestamp. An empty string
// yields nil.
func parseTimePtr(raw string) (*time.Time, bool) {
	if raw == "" {
		return nil, true
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, false
	}
	utc := t.UTC()
	return &utc, true
}
