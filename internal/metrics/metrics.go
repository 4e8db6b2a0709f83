// Package metrics holds the Prometheus collectors of the pipeline and the API.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Backend labels.
const (
	BackendRelational = "relational"
	BackendColumnar   = "columnar"
)

// Metrics groups every collector registered by the application.
type Metrics struct {
	Registry *prometheus.Registry

	RowsLoaded         prometheus.Counter
	ValidationFailures *prometheus.CounterVec
	PersistDuration    *prometheus.HistogramVec
	QueryDuration      *prometheus.HistogramVec
	HTTPRequests       *prometheus.CounterVec
}

// New creates the collectors and registers them on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		RowsLoaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "barstore",
			Name:      "rows_loaded_total",
			Help:      "Market data rows that passed validation.",
		}),
		ValidationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "barstore",
			Name:      "validation_failures_total",
			Help:      "Validation failures by gate.",
		}, []string{"kind"}),
		PersistDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "barstore",
			Name:      "persist_duration_seconds",
			Help:      "Time spent rebuilding a storage backend.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"backend"}),
		QueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "barstore",
			Name:      "query_duration_seconds",
			Help:      "Canned query latency by backend and query.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 14),
		}, []string{"backend", "query"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "barstore",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status.",
		}, []string{"route", "status"}),
	}
	m.Registry.MustRegister(
		m.RowsLoaded,
		m.ValidationFailures,
		m.PersistDuration,
		m.QueryDuration,
		m.HTTPRequests,
	)
	return m
}

// ObservePersist records how long a backend rebuild took.
func (m *Metrics) ObservePersist(backend string, start time.Time) {
	if m == nil {
		return
	}
	m.PersistDuration.WithLabelValues(backend).Observe(time.Since(start).Seconds())
}

// ObserveQuery records the latency of one canned query.
func (m *Metrics) ObserveQuery(backend, query string, start time.Time) {
	if m == nil {
		return
	}
	m.QueryDuration.WithLabelValues(backend, query).Observe(time.Since(start).Seconds())
}
