// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Upstream gateway metrics
	UpstreamFetches      *prometheus.CounterVec
	UpstreamFetchLatency *prometheus.HistogramVec
	ForecastCacheHits    prometheus.Counter
	ForecastFallbacks    prometheus.Counter

	// Pipeline metrics
	RiskEvaluations  *prometheus.CounterVec
	ForecastRequests *prometheus.CounterVec
	ForecastPoints   prometheus.Histogram

	// Purchase-order stub
	PurchaseOrderAcks prometheus.Counter

	// API metrics
	HTTPRequests      *prometheus.CounterVec
	HTTPLatency       *prometheus.HistogramVec
	StreamClients     prometheus.Gauge
	RepositoryErrors  *prometheus.CounterVec
	LastUpstreamFetch prometheus.Gauge
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "rxcast"
	}

	return &Metrics{
		UpstreamFetches: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "gateway",
			Name:      "upstream_fetches_total",
			Help:      "Total number of forecast fetches sent upstream by outcome",
		}, []string{"outcome"}),
		UpstreamFetchLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "gateway",
			Name:      "upstream_fetch_latency_seconds",
			Help:      "Forecast fetch latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"outcome"}),
		ForecastCacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "gateway",
			Name:      "cache_hits_total",
			Help:      "Total number of forecast reads served from the cache slot",
		}),
		ForecastFallbacks: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "gateway",
			Name:      "fallbacks_total",
			Help:      "Total number of reads answered with the fallback response",
		}),

		RiskEvaluations: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "risk_evaluations_total",
			Help:      "Total number of inventory risk evaluations by result",
		}, []string{"at_risk"}),
		ForecastRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "forecast_requests_total",
			Help:      "Total number of forecast queries by whether the NDC is supported",
		}, []string{"supported"}),
		ForecastPoints: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "forecast_points",
			Help:      "Number of banded points returned per forecast query",
			Buckets:   []float64{0, 1, 7, 14, 28, 60},
		}),

		PurchaseOrderAcks: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "orders",
			Name:      "acknowledgments_total",
			Help:      "Total number of purchase orders acknowledged by the stub",
		}),

		HTTPRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by route and status",
		}, []string{"route", "status"}),
		HTTPLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "request_latency_seconds",
			Help:      "HTTP request latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		StreamClients: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "stream_clients",
			Help:      "Current number of connected inventory stream clients",
		}),
		RepositoryErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "errors_total",
			Help:      "Total number of inventory repository errors by operation",
		}, []string{"operation"}),
		LastUpstreamFetch: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_upstream_fetch_timestamp",
			Help:      "Unix timestamp of last successful upstream forecast fetch",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordUpstreamFetch records one upstream round trip.
func RecordUpstreamFetch(outcome string, seconds float64, unixNow int64) {
	DefaultMetrics.UpstreamFetches.WithLabelValues(outcome).Inc()
	DefaultMetrics.UpstreamFetchLatency.WithLabelValues(outcome).Observe(seconds)
	if outcome == "success" {
		DefaultMetrics.LastUpstreamFetch.Set(float64(unixNow))
	}
}

// RecordCacheHit increments the cache hit counter.
func RecordCacheHit() {
	DefaultMetrics.ForecastCacheHits.Inc()
}

// RecordFallback increments the fallback counter.
func RecordFallback() {
	DefaultMetrics.ForecastFallbacks.Inc()
}

// RecordRiskEvaluation records one inventory evaluation.
func RecordRiskEvaluation(atRisk bool) {
	label := "false"
	if atRisk {
		label = "true"
	}
	DefaultMetrics.RiskEvaluations.WithLabelValues(label).Inc()
}

// RecordForecastRequest records a forecast query and the number of points returned.
func RecordForecastRequest(supported bool, points int) {
	label := "false"
	if supported {
		label = "true"
	}
	DefaultMetrics.ForecastRequests.WithLabelValues(label).Inc()
	DefaultMetrics.ForecastPoints.Observe(float64(points))
}

// RecordPurchaseOrderAck increments the acknowledgment counter.
func RecordPurchaseOrderAck() {
	DefaultMetrics.PurchaseOrderAcks.Inc()
}

// RecordHTTPRequest records API request metrics.
func RecordHTTPRequest(route, status string, seconds float64) {
	DefaultMetrics.HTTPRequests.WithLabelValues(route, status).Inc()
	DefaultMetrics.HTTPLatency.WithLabelValues(route).Observe(seconds)
}

// StreamClientConnected adjusts the stream client gauge.
func StreamClientConnected(delta int) {
	DefaultMetrics.StreamClients.Add(float64(delta))
}

// RecordRepositoryError records an inventory repository failure.
func RecordRepositoryError(operation string) {
	DefaultMetrics.RepositoryErrors.WithLabelValues(operation).Inc()
}
