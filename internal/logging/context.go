package logging

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// contextKey namespaces values this package stores on a context.Context so
// they never collide with keys other packages might use.
type contextKey string

const (
	// requestIDKey is the context key for the per-HTTP-request ID a
	// middleware.RequestID stamps on every inbound request.
	requestIDKey contextKey = "request_id"

	// loggerKey is the context key for a pre-configured logger, set by
	// tests that want to capture output without touching the global one.
	loggerKey contextKey = "logger"
)

// GenerateRequestID mints a fresh UUID to tag one inbound HTTP request,
// threaded through context so every log line for a create/get/search/count
// call carries the same value.
func GenerateRequestID() string {
	return uuid.New().String()
}

// ContextWithRequestID attaches a request ID to ctx.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// ContextWithNewRequestID attaches a freshly generated request ID to ctx.
func ContextWithNewRequestID(ctx context.Context) context.Context {
	return ContextWithRequestID(ctx, GenerateRequestID())
}

// RequestIDFromContext returns the request ID stamped on ctx, or "" if none.
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// ContextWithLogger stores a logger on ctx, overriding the global logger for
// Ctx/CtxWith calls against that context. Mainly useful in tests that want
// to capture a single request's output without mutating global state.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func ContextWithLogger(ctx context.Context, logger zerolog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// LoggerFromContext returns the logger stored on ctx, or the global logger
// if none was stored.
func LoggerFromContext(ctx context.Context) zerolog.Logger {
	if logger, ok := ctx.Value(loggerKey).(zerolog.Logger); ok {
		return logger
	}
	return Logger()
}

// Ctx returns a logger with the request ID (if any) attached as a field.
// Handlers use this to correlate every log line emitted while serving one
// request:
//
//	logging.Ctx(r.Context()).Error().Err(err).Str("id", id).Msg("api: store lookup failed")
func Ctx(ctx context.Context) *zerolog.Logger {
	logger := LoggerFromContext(ctx)
	contextLogger := logger.With().Logger()

	if requestID := RequestIDFromContext(ctx); requestID != "" {
		contextLogger = contextLogger.With().Str("request_id", requestID).Logger()
	}

	return &contextLogger
}

// CtxWith returns a logger context builder pre-populated with the request
// ID, for callers that need to attach more fields before emitting:
//
//	logging.CtxWith(ctx).Str("apelido", rec.Apelido).Logger().Info().Msg("record created")
func CtxWith(ctx context.Context) zerolog.Context {
	logCtx := LoggerFromContext(ctx).With()

	if requestID := RequestIDFromContext(ctx); requestID != "" {
		logCtx = logCtx.Str("request_id", requestID)
	}

	return logCtx
}
