package api

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/rinhabackend/pessoas-api/internal/logging"
)

// Pinger is the liveness check the health prober polls.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Prober is the independent background task spec.md §4.6 names: it toggles
// a serving/not-serving flag once a second based on whether the store can
// still hand out a connection. Run as a suture.Service alongside the
// flusher.
type Prober struct {
	pinger Pinger
	serving atomic.Bool
}

// NewProber builds a health prober. It starts in the serving state so the
// process isn't marked unhealthy before its first tick.
func NewProber(pinger Pinger) *Prober {
	p := &Prober{pinger: pinger}
	p.serving.Store(true)
	return p
}

// Serve implements suture.Service: it ticks once a second, pinging the
// store and flipping the serving flag accordingly, until ctx is cancelled.
func (p *Prober) Serve(ctx context.Context) error {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, 900*time.Millisecond)
			err := p.pinger.Ping(pingCtx)
			cancel()

			wasServing := p.serving.Swap(err == nil)
			if err != nil && wasServing {
				logging.Warn().Err(err).Msg("health prober: store unreachable, marking not-serving")
			} else if err == nil && !wasServing {
				logging.Info().Msg("health prober: store reachable again, marking serving")
			}
		}
	}
}

// Serving reports the prober's last observed state.
func (p *Prober) Serving() bool {
	return p.serving.Load()
}

// Handler returns the GET /health endpoint: 200 while serving, 503 otherwise.
func (p *Prober) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !p.Serving() {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not-serving"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "serving"})
	}
}
