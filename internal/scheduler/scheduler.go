// Package scheduler requests pruning runs on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/raoulx24/backup-pruner/internal/mailbox"
	"github.com/raoulx24/backup-pruner/internal/worker"
)

// Scheduler puts a run request into the worker mailbox at every cron tick.
// Ticks that arrive while a request is still pending coalesce into one run.
type Scheduler struct {
	mu      sync.Mutex
	cron    *cron.Cron
	entry   cron.EntryID
	spec    string
	mb      *mailbox.Mailbox[worker.Job]
	log     *slog.Logger
	now     func() time.Time
	running bool
}

// New creates a scheduler for a standard 5-field cron expression.
func New(spec string, mb *mailbox.Mailbox[worker.Job], log *slog.Logger) *Scheduler {
	return &Scheduler{
		cron: cron.New(),
		spec: spec,
		mb:   mb,
		log:  log.With("component", "scheduler"),
		now:  time.Now,
	}
}

// Start validates the schedule and begins ticking. It stops when ctx ends.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.add(s.spec)
	if err != nil {
		return err
	}
	s.entry = id

	s.cron.Start()
	s.running = true
	s.log.Info("scheduler started", "schedule", s.spec)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// Trigger requests a run right away.
func (s *Scheduler) Trigger(reason string) {
	if s.mb.Put(worker.Job{Reason: reason, Requested: s.now()}) {
		s.log.Debug("pending run replaced", "reason", reason)
	}
}

// UpdateSchedule swaps the cron expression; an invalid one keeps the old.
func (s *Scheduler) UpdateSchedule(spec string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if spec == s.spec {
		return nil
	}

	id, err := s.add(spec)
	if err != nil {
		return err
	}
	s.cron.Remove(s.entry)
	s.entry = id
	s.spec = spec

	s.log.Info("schedule updated", "schedule", spec)
	return nil
}

// Stop stops the scheduler and waits for a running tick to return.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}
	<-s.cron.Stop().Done()
	s.running = false
	s.log.Info("scheduler stopped")
}

// NextRun returns the next tick, or nil when nothing is scheduled.
func (s *Scheduler) NextRun() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.cron.Entry(s.entry)
	if !e.Valid() || e.Next.IsZero() {
		return nil
	}
	next := e.Next
	return &next
}

func (s *Scheduler) add(spec string) (cron.EntryID, error) {
	if _, err := cron.ParseStandard(spec); err != nil {
		return 0, fmt.Errorf("invalid cron schedule %q: %w", spec, err)
	}
	id, err := s.cron.AddFunc(spec, func() { s.Trigger("schedule") })
	if err != nil {
		return 0, fmt.Errorf("failed to schedule pruning: %w", err)
	}
	return id, nil
}
