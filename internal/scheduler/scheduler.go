package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/amishk599/codedesc/internal/index"
)

// Runner indexes one root. *index.Indexer implements it.
type Runner interface {
	Run(ctx context.Context, root string) (index.Stats, error)
}

// Scheduler owns the watch loop: ticks on an interval and indexes each root sequentially.
type Scheduler struct {
	runner   Runner
	roots    []string
	interval time.Duration
	logger   *slog.Logger
}

// NewScheduler creates a scheduler that indexes all roots at the given interval.
func NewScheduler(runner Runner, roots []string, interval time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		runner:   runner,
		roots:    roots,
		interval: interval,
		logger:   logger,
	}
}

// Run runs one immediate cycle, then ticks on the configured interval. It
// returns nil when ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info("starting scheduler",
		"interval", s.interval.String(),
		"roots", len(s.roots),
	)

	s.indexAll(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("shutting down scheduler")
			return nil
		case <-time.After(s.interval):
			s.indexAll(ctx)
		}
	}
}

// indexAll runs each root in order. A failed root is logged and does not stop the cycle.
func (s *Scheduler) indexAll(ctx context.Context) {
	for _, root := range s.roots {
		if ctx.Err() != nil {
			return
		}
		if _, err := s.runner.Run(ctx, root); err != nil {
			s.logger.Error("index run failed",
				"root", root,
				"error", err,
			)
		}
	}
}
