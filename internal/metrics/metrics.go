// Package metrics exposes Prometheus metrics for pruning runs.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "backup_pruner"

// Run outcomes used as the "result" label.
const (
	ResultSuccess     = "success"
	ResultReadError   = "read_error"
	ResultDeleteError = "delete_error"
)

// Metrics records pruning runs. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	runs           *prometheus.CounterVec
	backups        prometheus.Gauge
	planned        *prometheus.GaugeVec
	deleted        prometheus.Counter
	deleteFailures prometheus.Counter
	lastSuccess    prometheus.Gauge
	duration       prometheus.Histogram
}

// New registers the pruner metrics on reg, or on a fresh registry when reg is nil.
func New(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	m := &Metrics{
		registry: reg,
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Pruning runs by result.",
		}, []string{"result"}),
		backups: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "backups",
			Help:      "Backups found by the last run.",
		}),
		planned: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "planned_removals",
			Help:      "Removals planned by the last run, by bucket policy.",
		}, []string{"policy"}),
		deleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "deleted_total",
			Help:      "Backups deleted.",
		}),
		deleteFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "delete_failures_total",
			Help:      "Delete calls that failed and aborted a run.",
		}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful run.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of pruning runs.",
			Buckets:   []float64{0.1, 0.5, 1, 5, 15, 60, 300},
		}),
	}

	reg.MustRegister(m.runs, m.backups, m.planned, m.deleted, m.deleteFailures, m.lastSuccess, m.duration)
	return m
}

// Registry returns the registry the metrics live in.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObservePlan records the listing size and planned removals per policy.
func (m *Metrics) ObservePlan(backups int, perPolicy map[string]int) {
	if m == nil {
		return
	}
	m.backups.Set(float64(backups))
	m.planned.Reset()
	for policy, n := range perPolicy {
		m.planned.WithLabelValues(policy).Set(float64(n))
	}
}

// ObserveDelete counts one delete call.
func (m *Metrics) ObserveDelete(err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.deleteFailures.Inc()
		return
	}
	m.deleted.Inc()
}

// ObserveRun records the outcome of a whole run.
func (m *Metrics) ObserveRun(result string, started, finished time.Time) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues(result).Inc()
	m.duration.Observe(finished.Sub(started).Seconds())
	if result == ResultSuccess {
		m.lastSuccess.Set(float64(finished.Unix()))
	}
}
