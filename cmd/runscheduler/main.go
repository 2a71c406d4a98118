// Command runscheduler performs one pass over due scheduled articles,
// publishing anything whose publish time has arrived, and exits. The
// server runs the same pass every minute; this binary exists for cron
// setups that run without the long-lived server.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/brahmand/brahmand/internal/build"
	"github.com/brahmand/brahmand/internal/config"
	"github.com/brahmand/brahmand/internal/job"
	"github.com/brahmand/brahmand/internal/scheduler"
	"github.com/brahmand/brahmand/internal/seo"
	"github.com/brahmand/brahmand/internal/sitegen"
	"github.com/brahmand/brahmand/internal/store"
)

func main() {
	if err := run(); err != nil {
		slog.Error("scheduler run failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	db, err := store.NewDBWithConfig(store.DBConfig{
		Driver: cfg.DBDriver,
		Path:   cfg.DBPath,
		DSN:    cfg.DBDSN,
	})
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer db.Close()

	if err := store.Migrate(db, cfg.DBDriver); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	generator := sitegen.New(db, cfg.SiteDir, cfg.ContentDir, cfg.BaseURL())
	orchestrator := build.New(job.NewRegistry(10), generator, seo.NewPinger(nil))
	publisher := scheduler.NewPublisher(db, orchestrator, nil)

	result, err := publisher.RunScheduler(context.Background(), "cli", 0)
	if err != nil {
		return err
	}

	// A publish queues a rebuild; wait for it before exiting.
	orchestrator.Wait()

	slog.Info("scheduler pass complete", "published", len(result.Published))
	return nil
}
