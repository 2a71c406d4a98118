// Package build coordinates static site builds. Builds run in the
// background: triggering one returns a queued job record immediately
// and the outcome is tracked in the job registry.
package build

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/brahmand/brahmand/internal/job"
	"github.com/brahmand/brahmand/internal/seo"
	"github.com/brahmand/brahmand/internal/sitegen"
)

// siteBuilder is the part of the generator the orchestrator drives.
type siteBuilder interface {
	BuildSite(ctx context.Context) (sitegen.Summary, error)
}

// Orchestrator triggers and tracks static site builds.
type Orchestrator struct {
	registry  *job.Registry
	generator siteBuilder
	siteURL   string
	pinger    *seo.Pinger

	// PingEnabled controls whether search engines are notified after a
	// successful build.
	PingEnabled bool

	wg sync.WaitGroup
}

// New creates an Orchestrator. A nil pinger disables search engine
// notification.
func New(registry *job.Registry, generator *sitegen.Generator, pinger *seo.Pinger) *Orchestrator {
	return &Orchestrator{
		registry:    registry,
		generator:   generator,
		siteURL:     generator.SiteURL,
		pinger:      pinger,
		PingEnabled: pinger != nil,
	}
}

// TriggerBuild records a static build job and starts it in the
// background. The returned snapshot is in the queued state.
func (o *Orchestrator) TriggerBuild(triggeredBy string, payload map[string]any) job.Job {
	meta := map[string]any{"triggered_by": triggeredBy}
	if len(payload) > 0 {
		meta["payload"] = payload
	}

	j := o.registry.Record(job.TypeStaticBuild, meta)

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		o.run(j.ID)
	}()

	return j
}

func (o *Orchestrator) run(id string) {
	o.registry.MarkRunning(id)

	// A build runs to completion or failure; there is no deadline.
	ctx := context.Background()

	summary, err := o.generator.BuildSite(ctx)
	if err != nil {
		slog.Error("site build failed", "job_id", id, "error", err)
		o.registry.MarkFailed(id, err)
		return
	}

	o.registry.MarkSuccess(id, summary)
	slog.Info("site build finished", "job_id", id, "pages", summary.Count)

	if !o.PingEnabled || o.pinger == nil {
		return
	}

	// A failed sitemap ping downgrades the job rather than failing it:
	// the site itself built fine.
	sitemapURL := o.siteURL + "/sitemap.xml"
	results := o.pinger.PingSearchEngines(ctx, sitemapURL)
	if !seo.AllOK(results) {
		warning := pingWarning(results)
		slog.Warn("sitemap ping incomplete", "job_id", id, "warning", warning)
		o.registry.MarkWarning(id, warning)
	}
}

func pingWarning(results []seo.PingResult) string {
	for _, r := range results {
		if r.OK {
			continue
		}
		if r.Error != "" {
			return fmt.Sprintf("%s ping failed: %s", r.Engine, r.Error)
		}
		return fmt.Sprintf("%s ping returned status %d", r.Engine, r.Status)
	}
	return "sitemap ping failed"
}

// ListJobs returns recent build jobs, newest first.
func (o *Orchestrator) ListJobs(limit int) []job.Job {
	return o.registry.List(limit)
}

// GetJob returns one job snapshot.
func (o *Orchestrator) GetJob(id string) (job.Job, bool) {
	return o.registry.Get(id)
}

// Wait blocks until all in-flight builds finish. Used in tests and
// during shutdown.
func (o *Orchestrator) Wait() {
	o.wg.Wait()
}
