// Package supervisor builds the process's suture.Supervisor tree: the
// batch flusher (C4) and health prober run as supervised long-lived
// services alongside the HTTP server, so a panic in one does not take
// down the others. Modeled on the teacher's internal/supervisor.Tree,
// trimmed from its three-layer (data/messaging/api) structure to the two
// layers this service actually runs.
package supervisor

import (
	"context"
	"log/slog"
	"time"

	"github.com/thejerf/suture/v4"
	"github.com/thejerf/sutureslog"
)

// Config holds the failure-handling knobs suture.Spec exposes, with the
// teacher's documented defaults.
type Config struct {
	// FailureThreshold is the number of failures before entering backoff.
	FailureThreshold float64
	// FailureDecay is the rate at which failures decay, in seconds.
	FailureDecay float64
	// FailureBackoff is how long to wait once the threshold is exceeded.
	FailureBackoff time.Duration
	// ShutdownTimeout bounds how long Serve waits for services to stop.
	ShutdownTimeout time.Duration
}

// DefaultConfig returns suture's own built-in defaults.
func DefaultConfig() Config {
	return Config{
		FailureThreshold: 5.0,
		FailureDecay:     30.0,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	}
}

// Tree is the two-layer supervisor: ingest (the batch flusher) and serving
// (the health prober and HTTP server). Isolating ingest from serving means
// a flusher crash-loop doesn't interrupt GET /pessoas/{id} reads.
type Tree struct {
	root    *suture.Supervisor
	ingest  *suture.Supervisor
	serving *suture.Supervisor
}

// New builds the supervisor tree. logger backs suture's event hook via the
// slog adapter, matching the teacher's sutureslog wiring.
func New(logger *slog.Logger, cfg Config) *Tree {
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 5.0
	}
	if cfg.FailureDecay == 0 {
		cfg.FailureDecay = 30.0
	}
	if cfg.FailureBackoff == 0 {
		cfg.FailureBackoff = 15 * time.Second
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}

	handler := &sutureslog.Handler{Logger: logger}
	eventHook := handler.MustHook()

	rootSpec := suture.Spec{
		EventHook:        eventHook,
		FailureThreshold: cfg.FailureThreshold,
		FailureDecay:     cfg.FailureDecay,
		FailureBackoff:   cfg.FailureBackoff,
		Timeout:          cfg.ShutdownTimeout,
	}
	childSpec := suture.Spec{
		FailureThreshold: cfg.FailureThreshold,
		FailureDecay:     cfg.FailureDecay,
		FailureBackoff:   cfg.FailureBackoff,
		Timeout:          cfg.ShutdownTimeout,
	}

	root := suture.New("pessoas-api", rootSpec)
	ingest := suture.New("ingest-layer", childSpec)
	serving := suture.New("serving-layer", childSpec)

	root.Add(ingest)
	root.Add(serving)

	return &Tree{root: root, ingest: ingest, serving: serving}
}

// AddIngestService adds a service to the ingest layer (the batch flusher).
func (t *Tree) AddIngestService(svc suture.Service) suture.ServiceToken {
	return t.ingest.Add(svc)
}

// AddServingService adds a service to the serving layer (health prober,
// HTTP server).
func (t *Tree) AddServingService(svc suture.Service) suture.ServiceToken {
	return t.serving.Add(svc)
}

// Serve starts the tree and blocks until ctx is cancelled or a service
// exhausts its restart budget.
func (t *Tree) Serve(ctx context.Context) error {
	return t.root.Serve(ctx)
}
