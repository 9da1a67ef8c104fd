// Package worker executes pruning runs requested through the mailbox,
// one at a time.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/raoulx24/backup-pruner/internal/config"
	"github.com/raoulx24/backup-pruner/internal/mailbox"
	"github.com/raoulx24/backup-pruner/internal/metrics"
	"github.com/raoulx24/backup-pruner/internal/retention"
)

// OpenFunc builds the reader and deleter of a source.
type OpenFunc func(ctx context.Context, cfg config.SourceConfig, log *slog.Logger) (retention.Reader, retention.Deleter, error)

// Worker runs the retention engine for every job taken from the mailbox.
type Worker struct {
	mu      sync.RWMutex
	source  config.SourceConfig
	dryRun  bool
	open    OpenFunc
	clock   retention.Clock
	log     *slog.Logger
	metrics *metrics.Metrics
	mb      *mailbox.Mailbox[Job]
}

// New creates a worker for the source and run mode of cfg.
// A nil clock means time.Now.
func New(cfg *config.Config, open OpenFunc, log *slog.Logger, m *metrics.Metrics, mb *mailbox.Mailbox[Job], clock retention.Clock) *Worker {
	if clock == nil {
		clock = time.Now
	}
	return &Worker{
		source:  cfg.Source,
		dryRun:  cfg.DryRun,
		open:    open,
		clock:   clock,
		log:     log.With("component", "worker"),
		metrics: m,
		mb:      mb,
	}
}

// Start runs the worker loop using mailbox semantics until ctx ends.
func (w *Worker) Start(ctx context.Context) {
	w.log.Info("starting worker")
	for {
		job, ok := w.mb.Take(ctx)
		if !ok {
			if pending := w.mb.TryTake(); pending != nil {
				w.log.Info("dropping pending run on shutdown", "reason", pending.Reason)
			}
			w.log.Info("worker stopped")
			return
		}
		if _, err := w.Handle(ctx, job); err != nil {
			w.log.Error("pruning run failed", "reason", job.Reason, "error", err)
		}
		if w.mb.HasJob() {
			w.log.Debug("another run was requested meanwhile")
		}
	}
}

// Handle performs one run with the current configuration.
func (w *Worker) Handle(ctx context.Context, job Job) (retention.Report, error) {
	w.mu.RLock()
	src := w.source
	dryRun := w.dryRun
	w.mu.RUnlock()

	w.log.Info("pruning run", "reason", job.Reason, "source", src.Kind, "dry_run", dryRun)

	reader, deleter, err := w.open(ctx, src, w.log)
	if err != nil {
		return retention.Report{}, fmt.Errorf("opening source: %w", err)
	}

	engine := retention.New(reader, deleter,
		retention.WithClock(w.clock),
		retention.WithLogger(w.log),
		retention.WithMetrics(w.metrics),
	)
	return engine.Apply(ctx, dryRun)
}

// UpdateConfig hot-reloads the source and run mode; the next run uses them.
func (w *Worker) UpdateConfig(cfg *config.Config) {
	w.mu.Lock()
	w.source = cfg.Source
	w.dryRun = cfg.DryRun
	w.mu.Unlock()

	w.log.Debug("worker config updated", "source", cfg.Source.Kind, "dry_run", cfg.DryRun)
}
