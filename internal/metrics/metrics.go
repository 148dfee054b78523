// Package metrics exposes daemon-mode counters. One-shot runs pass a
// nil registry; every method tolerates that.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Registry holds all Prometheus metrics.
type Registry struct {
	*prometheus.Registry

	runsTotal      *prometheus.CounterVec
	pruneDeletions prometheus.Counter
	runDuration    prometheus.Histogram
	lastRunUnix    prometheus.Gauge
}

// NewRegistry creates a new metrics registry with all metrics registered.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	r := &Registry{
		Registry: reg,

		runsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "zonecfg_archiver_runs_total",
				Help: "Backup runs by outcome",
			},
			[]string{"outcome"},
		),

		pruneDeletions: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "zonecfg_archiver_pruned_snapshots_total",
				Help: "Snapshots deleted by retention",
			},
		),

		runDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "zonecfg_archiver_run_duration_seconds",
				Help:    "Backup run duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),

		lastRunUnix: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "zonecfg_archiver_last_run_timestamp_seconds",
				Help: "Unix timestamp of the last completed run",
			},
		),
	}

	reg.MustRegister(r.runsTotal)
	reg.MustRegister(r.pruneDeletions)
	reg.MustRegister(r.runDuration)
	reg.MustRegister(r.lastRunUnix)

	return r
}

// Outcome labels for ObserveRun.
const (
	OutcomeCommitted = "committed"
	OutcomeSkipped   = "skipped"
	OutcomeFailed    = "failed"
)

// ObserveRun records one finished run.
func (r *Registry) ObserveRun(outcome string, d time.Duration) {
	if r == nil {
		return
	}
	r.runsTotal.WithLabelValues(outcome).Inc()
	r.runDuration.Observe(d.Seconds())
	r.lastRunUnix.SetToCurrentTime()
}

// AddPruned records snapshots removed by a retention pass.
func (r *Registry) AddPruned(n int) {
	if r == nil || n <= 0 {
		return
	}
	r.pruneDeletions.Add(float64(n))
}
