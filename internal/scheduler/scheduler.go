package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler drives the periodic background work: a minutely check for
// due scheduled articles and, optionally, a recurring automation cycle.
type Scheduler struct {
	cron       *cron.Cron
	publisher  *Publisher
	automation *Automation
	interval   time.Duration
	logger     *slog.Logger

	stopAutomation chan struct{}
}

// New creates a scheduler instance. automation may be nil to disable
// the automation cycle; interval controls how often it fires.
func New(publisher *Publisher, automation *Automation, interval time.Duration, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	if interval <= 0 {
		interval = time.Hour
	}
	return &Scheduler{
		cron:           cron.New(),
		publisher:      publisher,
		automation:     automation,
		interval:       interval,
		logger:         logger,
		stopAutomation: make(chan struct{}),
	}
}

// Start begins the minutely publish check and the automation ticker.
// The first automation cycle runs immediately.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc("* * * * *", func() {
		if _, err := s.publisher.RunScheduler(context.Background(), "scheduler", 0); err != nil {
			s.logger.Error("scheduler run failed", "error", err)
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))

	if s.automation != nil {
		go s.automationLoop()
	}
	return nil
}

func (s *Scheduler) automationLoop() {
	s.logger.Info("trend automation started", "interval", s.interval)

	if _, err := s.automation.TryRun(context.Background()); err != nil {
		s.logger.Error("automation cycle failed", "error", err)
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopAutomation:
			return
		case <-ticker.C:
			if _, err := s.automation.TryRun(context.Background()); err != nil {
				s.logger.Error("automation cycle failed", "error", err)
			}
		}
	}
}

// Stop gracefully stops the scheduler and the automation ticker.
func (s *Scheduler) Stop() {
	close(s.stopAutomation)
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}
