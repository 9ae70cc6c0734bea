// Package metrics exposes standardiser and workflow counters to Prometheus.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Row outcomes counted per standardisation run
const (
	OutcomeMatched   = "matched"
	OutcomeFallback  = "fallback"
	OutcomeUnmatched = "unmatched"
	OutcomeSkipped   = "skipped"
)

// Metrics owns a private registry so tests can create as many as they like
type Metrics struct {
	registry    *prometheus.Registry
	rows        *prometheus.CounterVec
	runs        *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	transitions *prometheus.CounterVec
}

// RunCounts is the per-run tally recorded by ObserveRun
type RunCounts struct {
	Applied   bool
	Matched   int
	Fallback  int
	Unmatched int
	Skipped   int
}

// New registers all collectors on a fresh registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		rows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "standardiser_rows_total",
			Help: "Data rows processed by the ethnicity standardiser, by outcome.",
		}, []string{"lookup", "outcome"}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "standardiser_runs_total",
			Help: "Datasets submitted for standardisation.",
		}, []string{"lookup", "applied"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "standardiser_duration_seconds",
			Help:    "Time spent standardising one dataset.",
			Buckets: prometheus.DefBuckets,
		}, []string{"lookup"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "workflow_transitions_total",
			Help: "Successful measure version workflow transitions.",
		}, []string{"action"}),
	}

	m.registry.MustRegister(
		m.rows, m.runs, m.duration, m.transitions,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveRun records one standardisation run. Safe on a nil receiver.
func (m *Metrics) ObserveRun(lookup string, counts RunCounts, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues(lookup, strconv.FormatBool(counts.Applied)).Inc()
	m.duration.WithLabelValues(lookup).Observe(elapsed.Seconds())
	m.rows.WithLabelValues(lookup, OutcomeMatched).Add(float64(counts.Matched))
	m.rows.WithLabelValues(lookup, OutcomeFallback).Add(float64(counts.Fallback))
	m.rows.WithLabelValues(lookup, OutcomeUnmatched).Add(float64(counts.Unmatched))
	m.rows.WithLabelValues(lookup, OutcomeSkipped).Add(float64(counts.Skipped))
}

// ObserveTransition counts a successful workflow action. Safe on a nil receiver.
func (m *Metrics) ObserveTransition(action string) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(action).Inc()
}

// Registry exposes the underlying registry for tests and extra collectors
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
