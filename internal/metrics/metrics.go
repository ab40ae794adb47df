package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsRegistry holds all Prometheus metrics for Wattson
type MetricsRegistry struct {
	// HTTP metrics
	HTTPRequestsTotal    prometheus.CounterVec
	HTTPRequestDuration  prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.GaugeVec

	// Vendor API metrics
	VendorCallsTotal   prometheus.CounterVec
	VendorCallDuration prometheus.HistogramVec

	// Cache metrics
	CacheHitsTotal   prometheus.CounterVec
	CacheMissesTotal prometheus.CounterVec

	// Wizard metrics
	WizardStepsTotal     prometheus.CounterVec
	WizardSessionsActive prometheus.Gauge
}

// NewMetricsRegistry initializes and returns a new MetricsRegistry
func NewMetricsRegistry() *MetricsRegistry {
	return &MetricsRegistry{
		HTTPRequestsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wattson_http_requests_total",
				Help: "Total HTTP requests processed by endpoint, method, and status code",
			},
			[]string{"endpoint", "method", "status_code"},
		),
		HTTPRequestDuration: *promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "wattson_http_request_duration_seconds",
				Help:    "HTTP request latency distribution in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"endpoint", "method"},
		),
		HTTPRequestsInFlight: *promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "wattson_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"endpoint"},
		),

		VendorCallsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wattson_vendor_calls_total",
				Help: "Total upstream vendor API calls by vendor and outcome",
			},
			[]string{"vendor", "outcome"},
		),
		VendorCallDuration: *promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "wattson_vendor_call_duration_seconds",
				Help:    "Upstream vendor API latency in seconds",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
			[]string{"vendor"},
		),

		CacheHitsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wattson_cache_hits_total",
				Help: "Cache hits by cache name",
			},
			[]string{"cache"},
		),
		CacheMissesTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wattson_cache_misses_total",
				Help: "Cache misses by cache name",
			},
			[]string{"cache"},
		),

		WizardStepsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wattson_wizard_steps_total",
				Help: "Wizard steps executed by vendor, step and outcome",
			},
			[]string{"vendor", "step", "outcome"},
		),
		WizardSessionsActive: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "wattson_wizard_sessions_active",
				Help: "Number of in-flight wizard sessions",
			},
		),
	}
}
