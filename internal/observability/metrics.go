package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for the risk service.
type Metrics struct {
	WeatherFetches       *prometheus.CounterVec // labels: outcome={live,fallback}
	WeatherFetchDuration prometheus.Histogram
	Explanations         *prometheus.CounterVec // labels: source={model,fallback}
	Assessments          *prometheus.CounterVec // labels: level={Low,Moderate,High}
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()

	prometheus.MustRegister(
		m.WeatherFetches,
		m.WeatherFetchDuration,
		m.Explanations,
		m.Assessments,
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
		WeatherFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "outage_risk",
			Name:      "weather_fetches_total",
			Help:      "Forecast fetches by outcome (live upstream data vs the fixed fallback).",
		}, []string{"outcome"}),
		WeatherFetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "outage_risk",
			Name:      "weather_fetch_duration_seconds",
			Help:      "Duration of upstream forecast requests.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		Explanations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "outage_risk",
			Name:      "explanations_total",
			Help:      "Explanations served by source (language model vs rule-based fallback).",
		}, []string{"source"}),
		Assessments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "outage_risk",
			Name:      "assessments_total",
			Help:      "Risk assessments served, by resulting risk level.",
		}, []string{"level"}),
	}
}
