package http

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus instruments for the HTTP layer and the
// workflow counters incremented by its handlers.
type Metrics struct {
	RequestsTotal     *prometheus.CounterVec
	RequestDuration   *prometheus.HistogramVec
	DecisionsRecorded *prometheus.CounterVec
	BatchesExported   prometheus.Counter
}

// NewMetrics creates and registers the metric instruments on the given
// registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "expense_approval",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests by method, route and status code.",
		}, []string{"method", "path", "status"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "expense_approval",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"}),
		DecisionsRecorded: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "expense_approval",
			Name:      "decisions_recorded_total",
			Help:      "Review decisions recorded, by decision status.",
		}, []string{"status"}),
		BatchesExported: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "expense_approval",
			Name:      "batches_exported_total",
			Help:      "Finalization batches successfully exported.",
		}),
	}
}
