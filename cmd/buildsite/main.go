// Command buildsite regenerates the full static site once and exits.
// It is the CLI counterpart of POST /admin/api/build, useful for
// deploy hooks and local previews.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/brahmand/brahmand/internal/config"
	"github.com/brahmand/brahmand/internal/sitegen"
	"github.com/brahmand/brahmand/internal/store"
)

func main() {
	if err := run(); err != nil {
		slog.Error("build failed", "error", err)
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
	summary, err := generator.BuildSite(context.Background())
	if err != nil {
		return err
	}

	slog.Info("site built", "pages", summary.Count, "site_dir", cfg.SiteDir)
	return nil
}
