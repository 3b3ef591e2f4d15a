package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/amishk599/jobscout/internal/pipeline"
)

// Scheduler owns the daemon loop: one immediate ingestion run, then one run
// per interval until the context is cancelled.
type Scheduler struct {
	ingester pipeline.Ingester
	interval time.Duration
	logger   *slog.Logger
}

// NewScheduler creates a scheduler that runs ingester at the given interval.
func NewScheduler(ingester pipeline.Ingester, interval time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		ingester: ingester,
		interval: interval,
		logger:   logger,
	}
}

// Run starts the loop. It returns nil when ctx is cancelled (graceful shutdown).
// A failed run is logged and the loop continues on the next tick.
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info("starting scheduler", "interval", s.interval.String())

	s.runOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("shutting down scheduler")
			return nil
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if _, err := s.ingester.Run(ctx); err != nil {
		s.logger.Error("ingestion run failed", "error", err)
	}
}
