package logging

import (
	"context"

	"github.com/rs/zerolog"
)

// EventLogger provides specialized logging for ingest queue lifecycle
// events: records entering and leaving the queue, batch flushes, and
// subscription start/stop.
type EventLogger struct {
	logger zerolog.Logger
}

// NewEventLogger creates a logger configured for ingest event processing.
func NewEventLogger() *EventLogger {
	return &EventLogger{
		logger: Logger().With().Str("component", "ingest").Logger(),
	}
}

// NewEventLoggerWithLogger creates an EventLogger with a custom logger.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewEventLoggerWithLogger(logger zerolog.Logger) *EventLogger {
	return &EventLogger{
		logger: logger.With().Str("component", "ingest").Logger(),
	}
}

// WithFields returns a new EventLogger with additional default fields.
func (e *EventLogger) WithFields(fields map[string]interface{}) *EventLogger {
	ctx := e.logger.With()
	for k, v := range fields {
		ctx = ctx.Interface(k, v)
	}
	return &EventLogger{logger: ctx.Logger()}
}

func (e *EventLogger) loggerWithContext(ctx context.Context) zerolog.Logger {
	logCtx := e.logger.With()

	if requestID := RequestIDFromContext(ctx); requestID != "" {
		logCtx = logCtx.Str("request_id", requestID)
	}

	return logCtx.Logger()
}

// LogRecordPushed logs when a record is accepted onto the ingest queue.
func (e *EventLogger) LogRecordPushed(ctx context.Context, id string) {
	e.loggerWithContext(ctx).Debug().Str("record_id", id).Msg("record pushed to ingest queue")
}

// LogRecordDropped logs when a malformed queue message is discarded
// instead of being handed to the flusher.
func (e *EventLogger) LogRecordDropped(ctx context.Context, err error) {
	e.loggerWithContext(ctx).Error().Err(err).Msg("ingest record dropped, failed to decode")
}

// LogBatchFlush logs a completed batch flush attempt.
func (e *EventLogger) LogBatchFlush(count int, durationMs int64, err error) {
	event := e.logger.Info()
	if err != nil {
		event = e.logger.Error().Err(err)
	}
	event.Int("batch_size", count).Int64("duration_ms", durationMs).Msg("batch flush completed")
}

// LogSubscriptionStarted logs when the flusher begins consuming the queue.
func (e *EventLogger) LogSubscriptionStarted() {
	e.logger.Info().Msg("ingest subscription started")
}

// LogSubscriptionStopped logs when the flusher stops consuming the queue.
func (e *EventLogger) LogSubscriptionStopped() {
	e.logger.Info().Msg("ingest subscription stopped")
}
