package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "calmspot"

// Metrics holds the Prometheus collectors for calm score computation.
// All methods are safe to call on a nil *Metrics.
type Metrics struct {
	CalmCalculations        *prometheus.CounterVec // labels: level
	CalmCalculationDuration prometheus.Histogram
	NoiseFeaturesDetected   prometheus.Histogram

	OverpassRequests *prometheus.CounterVec // labels: outcome={success,error}
	OverpassDuration prometheus.Histogram
	LocatorCache     *prometheus.CounterVec // labels: result={hit,miss}
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.CalmCalculations,
		m.CalmCalculationDuration,
		m.NoiseFeaturesDetected,
		m.OverpassRequests,
		m.OverpassDuration,
		m.LocatorCache,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics so tests can build as many as they need.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		CalmCalculations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "calm_calculations_total",
			Help:      "Calm score calculations by resulting level.",
		}, []string{"level"}),
		CalmCalculationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "calm_calculation_duration_seconds",
			Help:      "End-to-end duration of a calm score calculation, noise lookup included.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}),
		NoiseFeaturesDetected: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "noise_features_detected",
			Help:      "Number of noise sources found per calculation.",
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 50, 100},
		}),
		OverpassRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "overpass_requests_total",
			Help:      "Overpass API requests by outcome.",
		}, []string{"outcome"}),
		OverpassDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "overpass_request_duration_seconds",
			Help:      "Overpass API request duration in seconds.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		LocatorCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "noise_locator_cache_total",
			Help:      "Noise locator cache lookups by result.",
		}, []string{"result"}),
	}
}

func (m *Metrics) ObserveCalculation(level string, features int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.CalmCalculations.WithLabelValues(level).Inc()
	m.NoiseFeaturesDetected.Observe(float64(features))
	m.CalmCalculationDuration.Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveOverpass(err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.OverpassRequests.WithLabelValues(outcome).Inc()
	m.OverpassDuration.Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveCacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.LocatorCache.WithLabelValues(result).Inc()
}
