/*
Package middleware provides HTTP middleware components for the API server.

This package implements infrastructure middleware for compression, request ID
tracking, and Prometheus metrics integration, composed around the chi router
used by internal/api.

Key Components:

  - Compression: Gzip compression for handler responses
  - Request ID: UUID-based request tracking for distributed tracing
  - Prometheus Metrics: HTTP request/response instrumentation

Middleware Stack:

The middleware stack internal/api wraps around each endpoint is:

	middleware.RequestID(
	    middleware.PrometheusMetrics(
	        middleware.Compression(
	            handler,
	        ),
	    ),
	)

Usage Example - Compression:

	import "github.com/rinhabackend/pessoas-api/internal/middleware"

	http.HandleFunc("/api/v1/data",
	    middleware.Compression(handler),
	)

Usage Example - Request ID:

	http.HandleFunc("/pessoas",
	    middleware.RequestID(handler),
	)

	func handler(w http.ResponseWriter, r *http.Request) {
	    requestID := middleware.GetRequestID(r.Context())
	    log.Printf("[%s] Processing request", requestID)
	}

Thread Safety:

All middleware components are safe for concurrent use:
  - Compression uses a sync.Pool of gzip writers
  - Request ID uses context.Context (immutable)
  - Prometheus metrics use atomic operations

See Also:

  - internal/api: HTTP handlers wrapped by middleware
  - internal/metrics: Prometheus metrics definitions
*/
package middleware
