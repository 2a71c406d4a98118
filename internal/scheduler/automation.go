package scheduler

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"
)

// Pipeline is one automation cycle. It returns the names of the steps
// it completed.
type Pipeline func(ctx context.Context) ([]string, error)

// AutomationResult reports one automation attempt.
type AutomationResult struct {
	Skipped     bool      `json:"skipped"`
	Steps       []string  `json:"steps,omitempty"`
	CompletedAt time.Time `json:"completed_at,omitempty"`
}

// Automation runs a pipeline with a single in-flight slot. A cycle
// that fires while the previous one still runs is skipped, never
// queued.
type Automation struct {
	pipeline Pipeline
	logger   *slog.Logger
	running  atomic.Bool
}

// NewAutomation creates an Automation around the given pipeline.
func NewAutomation(pipeline Pipeline, logger *slog.Logger) *Automation {
	if logger == nil {
		logger = slog.Default()
	}
	return &Automation{pipeline: pipeline, logger: logger}
}

// TryRun executes one automation cycle unless one is already in
// flight, in which case it returns a skipped result and no error.
func (a *Automation) TryRun(ctx context.Context) (AutomationResult, error) {
	if !a.running.CompareAndSwap(false, true) {
		a.logger.Info("automation cycle skipped, previous run still in progress")
		return AutomationResult{Skipped: true}, nil
	}
	defer a.running.Store(false)

	started := time.Now().UTC()
	a.logger.Info("automation cycle started", "started_at", started)

	steps, err := a.pipeline(ctx)
	if err != nil {
		a.logger.Error("automation cycle failed", "error", err)
		return AutomationResult{}, err
	}

	result := AutomationResult{Steps: steps, CompletedAt: time.Now().UTC()}
	a.logger.Info("automation cycle finished", "steps", steps)
	return result, nil
}

// Running reports whether a cycle is currently in flight.
func (a *Automation) Running() bool {
	return a.running.Load()
}
