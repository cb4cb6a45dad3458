package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rinhabackend/pessoas-api/internal/metrics"
)

// PrometheusMetrics records one metrics.RecordAPIRequest observation per
// handled request: method, route pattern, status code, and duration. It
// labels by chi's matched route pattern (e.g. "/pessoas/{id}") rather than
// r.URL.Path, so GetByID doesn't mint a fresh time series per id looked
// up.
func PrometheusMetrics(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		metrics.TrackActiveRequest(true)
		defer metrics.TrackActiveRequest(false)

		start := time.Now()
		wrapper := &metricsResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next(wrapper, r)

		metrics.RecordAPIRequest(r.Method, routeLabel(r), wrapper.statusCode, time.Since(start))
	}
}

// routeLabel returns the chi route pattern matched for r, falling back to
// the raw path when chi never routed the request — a handler invoked
// directly in a unit test, for instance.
func routeLabel(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return r.URL.Path
}

// metricsResponseWriter wraps http.ResponseWriter to capture the status
// code a handler wrote, since http.ResponseWriter exposes no way to read
// it back afterward.
type metricsResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

// WriteHeader records the status code before delegating.
func (rw *metricsResponseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
