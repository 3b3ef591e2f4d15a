package pipeline

import (
	"context"
	"log/slog"

	"golang.org/x/sync/singleflight"
)

// Ingester performs a single ingestion run.
type Ingester interface {
	Run(ctx context.Context) (Result, error)
}

// Ensure Pipeline and Runner implement Ingester.
var (
	_ Ingester = (*Pipeline)(nil)
	_ Ingester = (*Runner)(nil)
)

// Runner allows at most one run at a time within the process. A caller that
// arrives while a run is in progress waits for it and shares its outcome.
type Runner struct {
	ingester Ingester
	group    singleflight.Group
	logger   *slog.Logger
}

// NewRunner wraps ingester so concurrent callers join a single run.
func NewRunner(ingester Ingester, logger *slog.Logger) *Runner {
	return &Runner{ingester: ingester, logger: logger}
}

// Run starts a run, or joins the one in progress. The run uses the context
// of the caller that started it.
func (r *Runner) Run(ctx context.Context) (Result, error) {
	v, err, shared := r.group.Do("run", func() (any, error) {
		return r.ingester.Run(ctx)
	})
	res, _ := v.(Result)
	if shared {
		r.logger.Debug("joined in-progress run", "run_id", res.RunID)
	}
	return res, err
}
