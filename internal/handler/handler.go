// Package handler implements the admin REST API under /admin/api.
package handler

import (
	"database/sql"
	"log/slog"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"

	"github.com/brahmand/brahmand/internal/build"
	"github.com/brahmand/brahmand/internal/middleware"
	"github.com/brahmand/brahmand/internal/scheduler"
	"github.com/brahmand/brahmand/internal/seo"
	"github.com/brahmand/brahmand/internal/service"
	"github.com/brahmand/brahmand/internal/sitegen"
	"github.com/brahmand/brahmand/internal/store"
)

// Handler holds shared dependencies for the admin API handlers.
type Handler struct {
	db        *sql.DB
	queries   *store.Queries
	sm        *scs.SessionManager
	guard     *middleware.LoginProtection
	articles  *service.ArticleService
	verses    *service.VerseService
	menus     *service.MenuService
	media     *service.MediaService
	events    *service.EventService
	builds    *build.Orchestrator
	publisher *scheduler.Publisher
	generator *sitegen.Generator
	pinger    *seo.Pinger
	siteURL   string
	startTime time.Time
	logger    *slog.Logger
}

// Deps are the collaborators the admin API needs.
type Deps struct {
	DB        *sql.DB
	Sessions  *scs.SessionManager
	Guard     *middleware.LoginProtection
	Articles  *service.ArticleService
	Verses    *service.VerseService
	Menus     *service.MenuService
	Media     *service.MediaService
	Events    *service.EventService
	Builds    *build.Orchestrator
	Publisher *scheduler.Publisher
	Generator *sitegen.Generator
	Pinger    *seo.Pinger
	SiteURL   string
	Logger    *slog.Logger
}

// New creates the admin API handler.
func New(d Deps) *Handler {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		db:        d.DB,
		queries:   store.New(d.DB),
		sm:        d.Sessions,
		guard:     d.Guard,
		articles:  d.Articles,
		verses:    d.Verses,
		menus:     d.Menus,
		media:     d.Media,
		events:    d.Events,
		builds:    d.Builds,
		publisher: d.Publisher,
		generator: d.Generator,
		pinger:    d.Pinger,
		siteURL:   d.SiteURL,
		startTime: time.Now(),
		logger:    logger,
	}
}

// Routes mounts the admin API. Auth routes are open (behind login
// protection); everything else requires a session, with per-route
// scope checks mirroring the RBAC table.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		if h.guard != nil {
			r.Use(h.guard.Middleware())
		}
		r.Post("/auth/login", h.Login)
	})
	r.Post("/auth/logout", h.Logout)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(h.sm, h.db))

		r.Get("/auth/me", h.Me)
		r.Get("/health", h.Health)
		r.Get("/dashboard/summary", h.DashboardSummary)

		r.With(middleware.RequireScope("content:read")).Get("/verses", h.ListVerses)

		r.Route("/articles", func(r chi.Router) {
			r.With(middleware.RequireScope("content:read")).Get("/", h.ListArticles)
			r.With(middleware.RequireScope("content:read")).Get("/suggest-links", h.SuggestLinksByVerse)
			r.With(middleware.RequireScope("content:create")).Post("/", h.CreateArticle)
			r.With(middleware.RequireScope("content:read")).Get("/{id}", h.GetArticle)
			r.With(middleware.RequireScope("content:read")).Get("/{id}/suggest-links", h.SuggestLinksForArticle)
			r.With(middleware.RequireScope("content:edit")).Patch("/{id}", h.UpdateArticle)
			r.With(middleware.RequireScope("content:edit")).Post("/{id}/schedule", h.ScheduleArticle)
			r.With(middleware.RequireScope("content:publish")).Post("/{id}/publish", h.PublishArticle)
		})

		r.Route("/menus", func(r chi.Router) {
			r.With(middleware.RequireScope("content:read")).Get("/", h.ListMenus)
			r.With(middleware.RequireScope("menus:edit")).Post("/", h.CreateMenu)
			r.With(middleware.RequireScope("menus:edit")).Put("/{id}", h.UpdateMenu)
			r.With(middleware.RequireScope("menus:edit")).Delete("/{id}", h.DeleteMenu)
			r.With(middleware.RequireScope("menus:edit")).Post("/export", h.ExportMenus)
		})

		r.Route("/media", func(r chi.Router) {
			r.With(middleware.RequireScope("content:read")).Get("/", h.ListMedia)
			r.With(middleware.RequireScope("media:upload")).Post("/", h.UploadMedia)
		})

		r.With(middleware.RequireScope("deploy:run")).Post("/build", h.TriggerBuild)
		r.With(middleware.RequireScope("jobs:run")).Get("/jobs", h.ListJobs)
		r.With(middleware.RequireScope("jobs:run")).Get("/jobs/{id}", h.GetJob)
		r.With(middleware.RequireScope("jobs:run")).Post("/jobs/run", h.RunJob)
		r.With(middleware.RequireScope("jobs:run")).Post("/scheduler/run", h.RunScheduler)
		r.With(middleware.RequireScope("sitemaps:ping")).Post("/sitemap/ping", h.PingSitemap)
	})

	return r
}
