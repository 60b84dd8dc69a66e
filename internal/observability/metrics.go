package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"bizready/internal/domain"
)

// Metrics are the service's Prometheus instruments.
type Metrics struct {
	registry    *prometheus.Registry
	assessments *prometheus.CounterVec
	duration    prometheus.Histogram
	disposition *prometheus.CounterVec
	failOpen    prometheus.Counter
}

// NewMetrics registers all instruments on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		assessments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bizready",
			Name:      "assessments_total",
			Help:      "Assessments processed, by outcome.",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "bizready",
			Name:      "assessment_duration_seconds",
			Help:      "Time to load the catalog snapshot and run the engine.",
			Buckets:   prometheus.DefBuckets,
		}),
		disposition: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bizready",
			Name:      "hazard_dispositions_total",
			Help:      "Classified hazards, by disposition.",
		}, []string{"disposition"}),
		failOpen: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "bizready",
			Name:      "multiplier_fail_open_total",
			Help:      "Assessments scored without multipliers because the rule store was unavailable.",
		}),
	}
	m.registry.MustRegister(m.assessments, m.duration, m.disposition, m.failOpen)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// ObserveAssessment records one finished assessment. A nil receiver is a no-op.
func (m *Metrics) ObserveAssessment(outcome string, started time.Time, results []domain.RiskAssessmentResult) {
	if m == nil {
		return
	}
	m.assessments.WithLabelValues(outcome).Inc()
	m.duration.Observe(time.Since(started).Seconds())
	failedOpen := false
	for _, r := range results {
		m.disposition.WithLabelValues(string(r.Disposition)).Inc()
		failedOpen = failedOpen || r.MultipliersUnavailable
	}
	if failedOpen {
		m.failOpen.Inc()
	}
}
