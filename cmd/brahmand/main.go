package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/brahmand/brahmand/internal/build"
	"github.com/brahmand/brahmand/internal/cache"
	"github.com/brahmand/brahmand/internal/config"
	"github.com/brahmand/brahmand/internal/handler"
	"github.com/brahmand/brahmand/internal/job"
	"github.com/brahmand/brahmand/internal/logging"
	"github.com/brahmand/brahmand/internal/middleware"
	"github.com/brahmand/brahmand/internal/scheduler"
	"github.com/brahmand/brahmand/internal/seo"
	"github.com/brahmand/brahmand/internal/service"
	"github.com/brahmand/brahmand/internal/session"
	"github.com/brahmand/brahmand/internal/sitegen"
	"github.com/brahmand/brahmand/internal/store"
	"github.com/brahmand/brahmand/internal/version"
)

// Injected at build time via ldflags.
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

const jobHistorySize = 50

func main() {
	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	slog.SetDefault(slog.New(textHandler))

	info := version.Info{Version: appVersion, GitCommit: appGitCommit, BuildTime: appBuildTime}
	slog.Info("starting brahmand", "version", info.String(), "env", cfg.Env)

	if cfg.DBDriver == config.DriverSQLite {
		if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
			return fmt.Errorf("creating data directory: %w", err)
		}
	}

	db, err := store.NewDBWithConfig(store.DBConfig{
		Driver: cfg.DBDriver,
		Path:   cfg.DBPath,
		DSN:    cfg.DBDSN,
	})
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("closing database", "error", err)
		}
	}(db)

	slog.Info("running database migrations", "driver", cfg.DBDriver)
	if err := store.Migrate(db, cfg.DBDriver); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	// Warn and error logs also land in the events table from here on.
	logger := slog.New(logging.NewEventLogHandler(textHandler, db))
	slog.SetDefault(logger)

	ctx := context.Background()
	if err := store.Seed(ctx, db, cfg.DoSeed); err != nil {
		return fmt.Errorf("seeding database: %w", err)
	}

	appCache := cache.New(cfg.RedisURL, cfg.CachePrefix, time.Duration(cfg.CacheTTL)*time.Second)
	defer appCache.Close()

	sessionManager := session.New(db, cfg.DBDriver, cfg.IsDevelopment())

	generator := sitegen.New(db, cfg.SiteDir, cfg.ContentDir, cfg.BaseURL())
	pinger := seo.NewPinger(nil)
	orchestrator := build.New(job.NewRegistry(jobHistorySize), generator, pinger)

	articles := service.NewArticleService(db, cfg.ContentDir, logger)
	events := service.NewEventService(db)

	publisher := scheduler.NewPublisher(db, orchestrator, logger)

	var automation *scheduler.Automation
	if !cfg.DisableAutomation {
		drafter := service.NewDrafter(cfg.OpenAIAPIKey)
		trends := service.NewTrendService(db, articles, drafter, logger)
		automation = scheduler.NewAutomation(trends.Pipeline(orchestrator), logger)
	}

	sched := scheduler.New(publisher, automation, cfg.AutomationInterval, logger)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("starting scheduler: %w", err)
	}
	defer sched.Stop()

	adminAPI := handler.New(handler.Deps{
		DB:        db,
		Sessions:  sessionManager,
		Guard:     middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig()),
		Articles:  articles,
		Verses:    service.NewVerseService(db, appCache),
		Menus:     service.NewMenuService(db),
		Media:     service.NewMediaService(db, cfg.UploadsDir),
		Events:    events,
		Builds:    orchestrator,
		Publisher: publisher,
		Generator: generator,
		Pinger:    pinger,
		SiteURL:   cfg.BaseURL(),
		Logger:    logger,
	})

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))

	csrfCfg := middleware.DefaultCSRFConfig(
		[]byte(cfg.SessionSecret)[:32],
		cfg.IsDevelopment(),
		strconv.Itoa(cfg.ServerPort),
	)

	r.Group(func(r chi.Router) {
		r.Use(sessionManager.LoadAndSave)
		r.Use(middleware.CSRF(csrfCfg))
		r.Mount("/admin/api", adminAPI.Routes())
	})

	// The generated static site is served straight from SiteDir.
	r.Handle("/*", http.FileServer(http.Dir(cfg.SiteDir)))

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("server listening", "addr", cfg.ServerAddr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	// Let any in-flight build finish writing the site tree.
	orchestrator.Wait()

	slog.Info("server stopped")
	return nil
}
