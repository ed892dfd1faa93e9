// Package metrics provides Prometheus metrics for the medication tracker.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all application metrics
type Metrics struct {
	EventsConsumed  prometheus.Counter
	EventsInserted  prometheus.Counter
	EventsDuplicate prometheus.Counter
	EventsMalformed prometheus.Counter
	StoreFailures   prometheus.Counter
	PersistDuration prometheus.Histogram
	ReportsServed   prometheus.Counter
	ReportsNotFound prometheus.Counter
}

// New creates all metrics and registers them with the given registerer.
// Pass nil to register with the default registry.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		EventsConsumed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "medtrack_events_consumed_total",
			Help: "Total queue messages received",
		}),
		EventsInserted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "medtrack_events_inserted_total",
			Help: "Total events written to the store",
		}),
		EventsDuplicate: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "medtrack_events_duplicate_total",
			Help: "Total events skipped as already stored",
		}),
		EventsMalformed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "medtrack_events_malformed_total",
			Help: "Total poison messages dropped",
		}),
		StoreFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "medtrack_store_failures_total",
			Help: "Total store-level failures during persistence",
		}),
		PersistDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "medtrack_persist_duration_seconds",
			Help:    "Event persistence duration",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}),
		ReportsServed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "medtrack_reports_served_total",
			Help: "Total period reports served",
		}),
		ReportsNotFound: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "medtrack_reports_not_found_total",
			Help: "Total report queries for unknown patients",
		}),
	}

	reg.MustRegister(
		m.EventsConsumed,
		m.EventsInserted,
		m.EventsDuplicate,
		m.EventsMalformed,
		m.StoreFailures,
		m.PersistDuration,
		m.ReportsServed,
		m.ReportsNotFound,
	)

	return m
}

// Handler returns the Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}
