package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/rinhabackend/pessoas-api/internal/logging"
)

type contextKey string

// RequestIDKey is the context key GetRequestID reads back.
const RequestIDKey contextKey = "request_id"

// RequestID stamps every inbound create/get/search/count call with an ID:
// it reuses an upstream X-Request-ID if the caller already set one
// (load balancer, API gateway), otherwise mints a fresh UUID. The ID is
// echoed back on the response and threaded onto the request context so
// every log line logging.Ctx emits for this request carries it.
func RequestID(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.New().String()
		}

		w.Header().Set("X-Request-ID", id)

		ctx := context.WithValue(r.Context(), RequestIDKey, id)
		ctx = logging.ContextWithRequestID(ctx, id)

		next(w, r.WithContext(ctx))
	}
}

// GetRequestID returns the request ID middleware.RequestID stamped on ctx,
// or "" if the request never passed through that middleware.
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDKey).(string); ok {
		return id
	}
	return ""
}
