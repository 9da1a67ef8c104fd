// Package retention turns a backup listing into deletions: it buckets the
// backups by month, applies each bucket's policy and hands the result to a
// deleter, or only reports it on a dry run.
package retention

import (
	"context"
	"log/slog"
	"time"

	"github.com/raoulx24/backup-pruner/internal/backup"
	"github.com/raoulx24/backup-pruner/internal/logging"
	"github.com/raoulx24/backup-pruner/internal/metrics"
)

// Reader lists every backup of a source. Names that are not backups must
// already be filtered out, and a paginated listing must be read to the end.
type Reader interface {
	Read(ctx context.Context) ([]backup.Backup, error)
}

// Deleter removes one backup by name.
type Deleter interface {
	Delete(ctx context.Context, name string) error
}

// Clock supplies "now"; the run's today is its calendar date.
type Clock func() time.Time

// Removal is a backup selected for deletion.
type Removal struct {
	Name   string
	Date   backup.Date
	Policy backup.Policy
}

// Plan is the outcome of the decision phase.
type Plan struct {
	Today    backup.Date
	Backups  int
	Removals []Removal
	Shadowed []string // backups ignored because another one has the same date
}

// Report is the outcome of a run.
type Report struct {
	Plan
	DryRun  bool
	Removed []string // deleted, or only reported on a dry run
}

type Engine struct {
	reader  Reader
	deleter Deleter
	clock   Clock
	log     *slog.Logger
	metrics *metrics.Metrics
}

type Option func(*Engine)

// WithClock replaces time.Now.
func WithClock(c Clock) Option {
	return func(e *Engine) { e.clock = c }
}

func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

func New(r Reader, d Deleter, opts ...Option) *Engine {
	e := &Engine{
		reader:  r,
		deleter: d,
		clock:   time.Now,
		log:     logging.Discard(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Plan reads the source and computes the removals without deleting anything.
func (e *Engine) Plan(ctx context.Context) (Plan, error) {
	backups, err := e.reader.Read(ctx)
	if err != nil {
		return Plan{}, &ReadError{Err: err}
	}

	// buckets are aged against the UTC calendar day
	today := backup.DateOf(e.clock().UTC())
	e.log.Info("today's date", "today", today.String(), "backups", len(backups))

	idx := backup.BuildIndex(backups)
	plan := Plan{
		Today:    today,
		Backups:  len(backups),
		Removals: Removals(idx, backups, today),
	}
	for _, i := range idx.Shadowed() {
		e.log.Warn("backup shares its date with a later one, ignoring it", "name", backups[i].Name)
		plan.Shadowed = append(plan.Shadowed, backups[i].Name)
	}

	perPolicy := make(map[string]int)
	for _, r := range plan.Removals {
		perPolicy[r.Policy.String()]++
	}
	e.metrics.ObservePlan(plan.Backups, perPolicy)

	return plan, nil
}

// Apply plans and then deletes one backup at a time in plan order.
// The first failed delete stops the run; what was deleted stays deleted.
// With dryRun the deleter is never called.
func (e *Engine) Apply(ctx context.Context, dryRun bool) (Report, error) {
	started := e.clock()

	plan, err := e.Plan(ctx)
	if err != nil {
		e.metrics.ObserveRun(metrics.ResultReadError, started, e.clock())
		return Report{DryRun: dryRun}, err
	}

	rep := Report{Plan: plan, DryRun: dryRun}
	rep.Removed = make([]string, 0, len(plan.Removals))

	for _, r := range plan.Removals {
		if dryRun {
			e.log.Info("dry run removing", "name", r.Name, "policy", r.Policy.String())
			rep.Removed = append(rep.Removed, r.Name)
			continue
		}

		if err := ctx.Err(); err != nil {
			e.metrics.ObserveRun(metrics.ResultDeleteError, started, e.clock())
			return rep, &DeleteError{Name: r.Name, Deleted: len(rep.Removed), Err: err}
		}

		e.log.Info("deleting", "name", r.Name, "policy", r.Policy.String())
		err := e.deleter.Delete(ctx, r.Name)
		e.metrics.ObserveDelete(err)
		if err != nil {
			e.metrics.ObserveRun(metrics.ResultDeleteError, started, e.clock())
			return rep, &DeleteError{Name: r.Name, Deleted: len(rep.Removed), Err: err}
		}
		rep.Removed = append(rep.Removed, r.Name)
	}

	e.log.Info("pruning done",
		"backups", plan.Backups,
		"removed", len(rep.Removed),
		"dry_run", dryRun,
	)
	e.metrics.ObserveRun(metrics.ResultSuccess, started, e.clock())
	return rep, nil
}

// Removals walks every bucket of the index (years in first-seen order,
// months ascending) and collects the backups its policy removes.
// Each backup appears at most once.
func Removals(idx *backup.Index, backups []backup.Backup, today backup.Date) []Removal {
	var out []Removal
	for _, y := range idx.Years() {
		for m := range y.Months {
			policy := backup.PolicyFor(today, y.Num, m+1)
			for _, d := range backup.ApplyPolicy(policy, &y.Months[m]) {
				b := backups[d.Index]
				out = append(out, Removal{Name: b.Name, Date: b.Date, Policy: policy})
			}
		}
	}
	return out
}
