// Package metrics exposes Prometheus instrumentation for the ingestion and
// lookup paths, trimmed from the teacher's broader metrics surface down to
// the components this service actually has: the HTTP API, the store, the
// cache, the circuit breaker guarding store reads, and the ingest
// queue/batch flusher.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// API Endpoint Metrics

var (
	APIRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "api_requests_total",
		Help: "Total number of API requests processed, labeled by method, path, and status code.",
	}, []string{"method", "path", "status"})

	APIRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "api_request_duration_seconds",
		Help:    "API request latency in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	APIActiveRequests = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "api_active_requests",
		Help: "Number of API requests currently being handled.",
	})
)

// RecordAPIRequest records a completed HTTP request.
func RecordAPIRequest(method, path string, statusCode int, duration time.Duration) {
	status := statusClass(statusCode)
	APIRequestsTotal.WithLabelValues(method, path, status).Inc()
	APIRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// TrackActiveRequest increments or decrements the in-flight request gauge.
func TrackActiveRequest(start bool) {
	if start {
		APIActiveRequests.Inc()
		return
	}
	APIActiveRequests.Dec()
}

func statusClass(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	case code >= 200:
		return "2xx"
	default:
		return "unknown"
	}
}

// Cache Metrics (ById, BySearch)

var (
	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cache_hits_total",
		Help: "Cache hits, labeled by cache_type (id, search).",
	}, []string{"cache_type"})

	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cache_misses_total",
		Help: "Cache misses, labeled by cache_type (id, search).",
	}, []string{"cache_type"})

	CacheSize = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "cache_size",
		Help: "Current number of entries held by each cache, labeled by cache_type.",
	}, []string{"cache_type"})
)

// Store Metrics

var (
	DBQueryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "db_query_duration_seconds",
		Help:    "Store operation latency in seconds, labeled by operation.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	DBQueryErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "db_query_errors_total",
		Help: "Store operation failures, labeled by operation.",
	}, []string{"operation"})

	DBConnectionPoolSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "db_connection_pool_size",
		Help: "Configured maximum size of the store's connection pool.",
	})
)

// RecordDBQuery records a store operation's outcome.
func RecordDBQuery(operation string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(operation).Inc()
	}
}

// Circuit Breaker Metrics (C6 read path)

var (
	CircuitBreakerState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "circuit_breaker_state",
		Help: "Circuit breaker state (0=closed, 1=half-open, 2=open), labeled by name.",
	}, []string{"name"})

	CircuitBreakerRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "circuit_breaker_requests_total",
		Help: "Requests seen by the circuit breaker, labeled by name and outcome.",
	}, []string{"name", "outcome"})

	CircuitBreakerTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "circuit_breaker_transitions_total",
		Help: "Circuit breaker state transitions, labeled by name, from, and to.",
	}, []string{"name", "from", "to"})
)

// Ingest Queue / Batch Flusher Metrics (C3/C4)

var (
	QueueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "ingest_queue_depth",
		Help: "Approximate number of records buffered in the ingest queue awaiting flush.",
	})

	BatchFlushDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "batch_flush_duration_seconds",
		Help:    "Duration of a batch flush transaction against the store.",
		Buckets: prometheus.DefBuckets,
	})

	BatchFlushSize = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "batch_flush_size",
		Help:    "Number of records included in a single batch flush.",
		Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
	})

	BatchFlushFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "batch_flush_failures_total",
		Help: "Number of batch flushes that failed and had their buffer discarded.",
	})
)

// UpdateQueueDepth reports the current ingest queue depth.
func UpdateQueueDepth(depth int) {
	QueueDepth.Set(float64(depth))
}

// RecordBatchFlush records the outcome of one flush attempt.
func RecordBatchFlush(duration time.Duration, size int, err error) {
	BatchFlushDuration.Observe(duration.Seconds())
	BatchFlushSize.Observe(float64(size))
	if err != nil {
		BatchFlushFailures.Inc()
	}
}

// System Metrics

var (
	AppInfo = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "app_info",
		Help: "Build information, value is always 1, labeled by version.",
	}, []string{"version"})

	AppUptime = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "app_uptime_seconds",
		Help: "Seconds since the process started.",
	})
)
