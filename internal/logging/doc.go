// Package logging provides centralized zerolog-based structured logging.
//
// This package implements a single logging layer used by the HTTP API, the
// ingest flusher, and the supervisor tree: zero-allocation structured JSON
// logging for production, and a human-readable console writer for local
// development.
//
// # Overview
//
// The package provides:
//   - Zero-allocation structured logging via zerolog
//   - JSON output format for production (machine-parseable)
//   - Console output format for development (human-readable)
//   - Global logger configuration driven by internal/config
//   - Context-aware logging keyed off the request ID middleware.RequestID stamps
//   - An slog adapter for suture and watermill, which only speak slog.Logger
//
// # Quick Start
//
//	import "github.com/rinhabackend/pessoas-api/internal/logging"
//
//	logging.Init(logging.Config{
//	    Level:  "info",
//	    Format: "json",
//	    Caller: false,
//	})
//
//	logging.Info().Str("apelido", rec.Apelido).Msg("record created")
//	logging.Error().Err(err).Msg("store open failed")
//
//	// Request-scoped logging, carrying the request ID the middleware stamped:
//	logging.Ctx(r.Context()).Info().Msg("handled request")
//
// # Configuration
//
// cmd/server/main.go builds the Config from internal/config.Config fields
// (LOG_LEVEL, LOGGER_OUTPUT) before calling Init; there are no logging-specific
// environment variables read directly by this package.
//
//	logging.Init(logging.Config{
//	    Level:     "debug",    // trace, debug, info, warn, error, fatal, panic
//	    Format:    "console",  // json or console
//	    Caller:    true,       // include caller info
//	    Timestamp: true,       // include timestamps
//	    Output:    os.Stderr,
//	})
//
// # Log Levels
//
// Supported log levels (from most to least verbose):
//
//	trace  - very detailed diagnostic information
//	debug  - detailed diagnostic information
//	info   - general operational information (default)
//	warn   - warning conditions that should be addressed
//	error  - error conditions requiring attention
//	fatal  - fatal errors; the process exits after the event is written
//	panic  - panic conditions that crash the program
//
// Only Info, Warn, Error, and Fatal are exposed as package functions: they
// are the levels this service's request handlers, flusher, and boot path
// actually emit. Anything that needs trace or debug output reaches zerolog
// directly through Logger().
//
// # Structured Logging
//
// Always terminate log chains with .Msg() or .Send():
//
//	logging.Info().Str("key", "value").Msg("message")  // correct
//	logging.Info().Str("key", "value")                 // wrong: never emitted
//
// Use structured fields instead of string formatting:
//
//	logging.Info().
//	    Str("apelido", rec.Apelido).
//	    Int("batch_size", len(batch)).
//	    Dur("elapsed", duration).
//	    Msg("batch flushed")
//
// # Context-Aware Logging
//
// Ctx (in context.go) pulls the request ID middleware.RequestID attached to
// the request context and returns a logger with it already set as a field:
//
//	logger := logging.Ctx(ctx)
//	logger.Info().Msg("processing request")
//
// # slog Adapter
//
// NewSlogLogger (in slog_adapter.go) bridges to the global zerolog logger for
// libraries that require an *slog.Logger:
//
//	handler := &sutureslog.Handler{Logger: logging.NewSlogLogger()}
//	supervisor := suture.New("root", suture.Spec{
//	    EventHook: handler.MustHook(),
//	})
//	pubsub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NewSlogLogger(logging.NewSlogLogger()))
//
// # Output Formats
//
// JSON format (production):
//
//	{"time":"2026-01-03T10:30:00Z","level":"info","message":"server starting","port":9999}
//
// Console format (development):
//
//	10:30:00 INF server starting port=9999
//
// # Thread Safety
//
// All exported functions are safe for concurrent use. The global logger is
// protected by a sync.RWMutex so Init can be called again mid-process, which
// the test suite relies on to redirect output into a buffer.
//
// # Testing
//
// Create test loggers that capture output:
//
//	var buf bytes.Buffer
//	logger := logging.NewTestLogger(&buf)
//	logger.Info().Msg("test message")
//	output := buf.String()
//
// # See Also
//
//   - github.com/rs/zerolog: underlying logging library
//   - internal/middleware: request ID middleware this package's Ctx reads
package logging
