package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters for the hazard API.
type Metrics struct {
	HazardsCreated prometheus.Counter

	// Enrichment pipeline metrics.
	MLRequests  *prometheus.CounterVec // labels: stage={text,image,priority}, outcome={success,error}
	MLFallbacks *prometheus.CounterVec // labels: stage={type,priority}

	StatusUpdates *prometheus.CounterVec // labels: to
}

// NewMetrics creates and registers all API metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.HazardsCreated,
		m.MLRequests,
		m.MLFallbacks,
		m.StatusUpdates,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		HazardsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hazardhub",
			Name:      "hazards_created_total",
			Help:      "Total hazard reports persisted.",
		}),
		MLRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hazardhub",
			Name:      "ml_requests_total",
			Help:      "Enrichment pipeline calls by stage and outcome.",
		}, []string{"stage", "outcome"}),
		MLFallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hazardhub",
			Name:      "ml_fallbacks_total",
			Help:      "Times the pipeline fell back to a default value.",
		}, []string{"stage"}),
		StatusUpdates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hazardhub",
			Name:      "status_updates_total",
			Help:      "Hazard status transitions by target status.",
		}, []string{"to"}),
	}
}
