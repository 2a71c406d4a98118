package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/brahmand/brahmand/internal/middleware"
)

type buildRequest struct {
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload"`
}

// TriggerBuild handles POST /admin/api/build. Responds 202 with the
// queued job; the build runs in the background.
func (h *Handler) TriggerBuild(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.CurrentUser(r)

	var req buildRequest
	_ = decodeJSON(r, &req)

	payload := req.Payload
	if payload == nil {
		payload = map[string]any{}
	}
	payload["reason"] = "manual_build"

	job := h.builds.TriggerBuild(user.Email, payload)
	h.events.Log(r.Context(), "info", "build", "static build queued", &user.ID,
		map[string]any{"job_id": job.ID})

	respond(w, http.StatusAccepted, map[string]any{
		"message": "static build started",
		"job":     job,
	})
}

// ListJobs handles GET /admin/api/jobs.
func (h *Handler) ListJobs(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, map[string]any{
		"jobs": h.builds.ListJobs(queryInt(r, "limit", 25)),
	})
}

// GetJob handles GET /admin/api/jobs/{id}.
func (h *Handler) GetJob(w http.ResponseWriter, r *http.Request) {
	job, ok := h.builds.GetJob(chi.URLParam(r, "id"))
	if !ok {
		fail(w, http.StatusNotFound, "job not found")
		return
	}
	respond(w, http.StatusOK, map[string]any{"job": job})
}

// RunJob handles POST /admin/api/jobs/run: queues an ad-hoc build with
// a caller-supplied type and payload.
func (h *Handler) RunJob(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.CurrentUser(r)

	var req buildRequest
	_ = decodeJSON(r, &req)

	jobType := req.Type
	if jobType == "" {
		jobType = "adhoc"
	}

	job := h.builds.TriggerBuild(user.Email, map[string]any{
		"type":    jobType,
		"payload": req.Payload,
	})
	respond(w, http.StatusAccepted, map[string]any{
		"message": "job " + jobType + " queued",
		"job":     job,
	})
}

// RunScheduler handles POST /admin/api/scheduler/run: one immediate
// pass over due scheduled articles.
func (h *Handler) RunScheduler(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.CurrentUser(r)

	result, err := h.publisher.RunScheduler(r.Context(), user.Email, user.ID)
	if err != nil {
		h.logger.Error("scheduler run failed", "error", err)
		fail(w, http.StatusInternalServerError, "scheduler run failed")
		return
	}

	published := make([]int64, 0, len(result.Published))
	for _, a := range result.Published {
		published = append(published, a.ID)
	}
	respond(w, http.StatusOK, map[string]any{
		"published": published,
		"run_at":    result.RunAt,
	})
}

// PingSitemap handles POST /admin/api/sitemap/ping.
func (h *Handler) PingSitemap(w http.ResponseWriter, r *http.Request) {
	sitemapURL := h.siteURL + "/sitemap.xml"
	results := h.pinger.PingSearchEngines(r.Context(), sitemapURL)

	respond(w, http.StatusOK, map[string]any{
		"sitemap": sitemapURL,
		"results": results,
	})
}

type publishQueueItem struct {
	ID        int64      `json:"id"`
	Title     string     `json:"title"`
	Verse     string     `json:"verse"`
	Status    string     `json:"status"`
	PublishAt *time.Time `json:"publish_at"`
}

// DashboardSummary handles GET /admin/api/dashboard/summary: the
// upcoming publish queue, recent audit events and recent build jobs.
func (h *Handler) DashboardSummary(w http.ResponseWriter, r *http.Request) {
	queue, err := h.queries.ListPublishQueue(r.Context(), 10)
	if err != nil {
		h.logger.Error("loading publish queue failed", "error", err)
		fail(w, http.StatusInternalServerError, "failed to load dashboard")
		return
	}

	events, err := h.events.ListRecent(r.Context(), 10)
	if err != nil {
		h.logger.Error("loading recent events failed", "error", err)
		fail(w, http.StatusInternalServerError, "failed to load dashboard")
		return
	}

	queueResp := make([]publishQueueItem, 0, len(queue))
	for _, it := range queue {
		item := publishQueueItem{
			ID:     it.ID,
			Title:  it.Title,
			Verse:  it.Verse,
			Status: it.Status,
		}
		if it.PublishAt.Valid {
			t := it.PublishAt.Time
			item.PublishAt = &t
		}
		queueResp = append(queueResp, item)
	}

	respond(w, http.StatusOK, map[string]any{
		"generated_at": time.Now().UTC(),
		"data": map[string]any{
			"publish_queue": queueResp,
			"recent_events": events,
			"jobs":          h.builds.ListJobs(5),
		},
	})
}

// Health handles GET /admin/api/health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	code := http.StatusOK
	if err := h.db.PingContext(r.Context()); err != nil {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}

	respond(w, code, map[string]any{
		"status": status,
		"uptime": time.Since(h.startTime).Round(time.Second).String(),
		"time":   time.Now().UTC(),
	})
}
