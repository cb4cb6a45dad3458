package logging

import (
	"context"
	"log/slog"

	"github.com/rs/zerolog"
)

// SlogHandler bridges slog.Handler onto zerolog so the two dependencies in
// this service that only accept the stdlib logging interface — suture's
// sutureslog and watermill's slog adapter — still write through the same
// structured logger as the HTTP handlers and the flusher, instead of a
// second, uncorrelated one.
type SlogHandler struct {
	logger zerolog.Logger
	attrs  []slog.Attr
	prefix string
}

// NewSlogHandler wraps the global zerolog logger as an slog.Handler.
func NewSlogHandler() *SlogHandler {
	return &SlogHandler{logger: Logger()}
}

// Enabled reports whether the handler handles records at the given level.
func (h *SlogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return h.logger.GetLevel() <= slogToZerologLevel(level)
}

// Handle converts one slog.Record into a zerolog event.
//
//nolint:gocritic // slog.Record is passed by value per slog.Handler interface
func (h *SlogHandler) Handle(_ context.Context, record slog.Record) error {
	event := levelEvent(&h.logger, record.Level)

	for _, attr := range h.attrs {
		event = addAttr(event, attr, h.prefix)
	}
	record.Attrs(func(attr slog.Attr) bool {
		event = addAttr(event, attr, h.prefix)
		return true
	})

	event.Msg(record.Message)
	return nil
}

func levelEvent(logger *zerolog.Logger, level slog.Level) *zerolog.Event {
	switch level {
	case slog.LevelDebug:
		return logger.Debug()
	case slog.LevelWarn:
		return logger.Warn()
	case slog.LevelError:
		return logger.Error()
	default:
		return logger.Info()
	}
}

// WithAttrs returns a new handler carrying attrs in addition to any already
// attached, matching the pattern suture's sutureslog.Handler relies on when
// it calls Logger.With(...) once per supervised service.
func (h *SlogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, len(h.attrs)+len(attrs))
	copy(merged, h.attrs)
	copy(merged[len(h.attrs):], attrs)

	return &SlogHandler{logger: h.logger, attrs: merged, prefix: h.prefix}
}

// WithGroup namespaces subsequent attribute keys under name. Neither suture
// nor watermill call this against this service's handler today, so nesting
// beyond this flat prefix is exercised only by tests.
func (h *SlogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	return &SlogHandler{logger: h.logger, attrs: h.attrs, prefix: joinPrefix(h.prefix, name)}
}

// addAttr writes a single slog attribute onto a zerolog event, flattening
// slog groups into dotted key prefixes since zerolog has no native concept
// of a nested group.
func addAttr(event *zerolog.Event, attr slog.Attr, prefix string) *zerolog.Event {
	key := joinPrefix(prefix, attr.Key)

	switch attr.Value.Kind() {
	case slog.KindString:
		return event.Str(key, attr.Value.String())
	case slog.KindInt64:
		return event.Int64(key, attr.Value.Int64())
	case slog.KindUint64:
		return event.Uint64(key, attr.Value.Uint64())
	case slog.KindFloat64:
		return event.Float64(key, attr.Value.Float64())
	case slog.KindBool:
		return event.Bool(key, attr.Value.Bool())
	case slog.KindDuration:
		return event.Dur(key, attr.Value.Duration())
	case slog.KindTime:
		return event.Time(key, attr.Value.Time())
	case slog.KindGroup:
		for _, ga := range attr.Value.Group() {
			event = addAttr(event, ga, joinPrefix(prefix, attr.Key))
		}
		return event
	default:
		return event.Interface(key, attr.Value.Any())
	}
}

func joinPrefix(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

// slogToZerologLevel maps an slog.Level onto the nearest zerolog.Level, so
// Enabled can compare against the wrapped logger's own level. zerolog's
// global level is not consulted there; it still filters events in Handle.
func slogToZerologLevel(level slog.Level) zerolog.Level {
	switch {
	case level < slog.LevelDebug:
		return zerolog.TraceLevel
	case level < slog.LevelInfo:
		return zerolog.DebugLevel
	case level < slog.LevelWarn:
		return zerolog.InfoLevel
	case level < slog.LevelError:
		return zerolog.WarnLevel
	default:
		return zerolog.ErrorLevel
	}
}

// NewSlogLogger returns an *slog.Logger backed by the global zerolog
// logger:
//
//	sutureHandler := &sutureslog.Handler{Logger: logging.NewSlogLogger()}
//	watermill.NewSlogLogger(logging.NewSlogLogger())
func NewSlogLogger() *slog.Logger {
	return slog.New(NewSlogHandler())
}
