// Package scheduler publishes due articles and drives the periodic
// background work of the server: the minutely publish check and the
// hourly trend automation.
package scheduler

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/brahmand/brahmand/internal/job"
	"github.com/brahmand/brahmand/internal/model"
	"github.com/brahmand/brahmand/internal/store"
	"github.com/brahmand/brahmand/internal/util"
)

// BuildTrigger starts a background site build.
type BuildTrigger interface {
	TriggerBuild(triggeredBy string, payload map[string]any) job.Job
}

// Result reports one scheduler run.
type Result struct {
	Published []model.DueArticle `json:"published"`
	RunAt     time.Time          `json:"run_at"`
}

// Publisher flips due scheduled articles to published.
type Publisher struct {
	db     *sql.DB
	builds BuildTrigger
	logger *slog.Logger
}

// NewPublisher creates a Publisher. builds may be nil to skip the
// post-publish site build.
func NewPublisher(db *sql.DB, builds BuildTrigger, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{db: db, builds: builds, logger: logger}
}

// RunScheduler publishes every scheduled article whose publish time
// has passed. Articles are published one by one: a failing row is
// logged and skipped, not rolled back. When anything was published a
// site build is triggered. triggeredBy names the actor for auditing;
// userID is the acting user's id when the run came from the API, zero
// for the cron tick and the CLI.
func (p *Publisher) RunScheduler(ctx context.Context, triggeredBy string, userID int64) (Result, error) {
	queries := store.New(p.db)
	now := time.Now().UTC()

	due, err := queries.GetDueScheduledArticles(ctx, now)
	if err != nil {
		return Result{}, fmt.Errorf("fetching due articles: %w", err)
	}

	published := make([]model.DueArticle, 0, len(due))
	for _, article := range due {
		err := queries.MarkArticlePublished(ctx, store.MarkArticlePublishedParams{
			ID:        article.ID,
			UpdatedBy: util.NullInt64FromValue(userID),
			Now:       now,
		})
		if err != nil {
			p.logger.Error("failed to publish scheduled article",
				"article_id", article.ID,
				"slug", article.Slug,
				"error", err,
			)
			continue
		}

		p.logger.Info("published scheduled article",
			"article_id", article.ID,
			"slug", article.Slug,
			"publish_at", article.PublishAt.Time,
		)
		p.logEvent(ctx, queries, article, triggeredBy, userID, now)
		published = append(published, article)
	}

	if len(published) > 0 && p.builds != nil {
		ids := make([]int64, 0, len(published))
		for _, a := range published {
			ids = append(ids, a.ID)
		}
		p.builds.TriggerBuild(triggeredBy, map[string]any{
			"reason":      "scheduler_publish",
			"article_ids": ids,
		})
	}

	return Result{Published: published, RunAt: now}, nil
}

func (p *Publisher) logEvent(ctx context.Context, queries *store.Queries, article model.DueArticle, triggeredBy string, userID int64, now time.Time) {
	metadata := map[string]any{
		"article_id":   article.ID,
		"slug":         article.Slug,
		"triggered_by": triggeredBy,
	}
	if article.PublishAt.Valid {
		metadata["scheduled_at"] = article.PublishAt.Time.Format(time.RFC3339)
	}
	metadataJSON, _ := json.Marshal(metadata)

	_, err := queries.CreateEvent(ctx, store.CreateEventParams{
		Level:     model.EventLevelInfo,
		Category:  model.EventCategoryScheduler,
		Message:   fmt.Sprintf("published scheduled article %q", article.Slug),
		UserID:    util.NullInt64FromValue(userID),
		Metadata:  string(metadataJSON),
		CreatedAt: now,
	})
	if err != nil {
		p.logger.Error("failed to log publish event", "article_id", article.ID, "error", err)
	}
}
