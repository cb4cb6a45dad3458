// Package flusher implements the batch flusher (C4): the Idle →
// Accumulating → Flushing state machine that drains the ingest queue into
// the store in bounded batches.
//
// Modeled directly on the teacher's internal/eventprocessor.Appender
// (buffer-then-flush-on-size-or-timer under a mutex, detached-context
// flush on shutdown), with one deliberate inversion: where the teacher's
// Appender restores unflushed events to the buffer for retry on failure,
// this flusher discards the buffer. Retrying would contradict the
// accepted durability gap — a record that is already visible in the cache
// must not be silently re-attempted after the caller has moved on.
package flusher

import (
	"context"
	"sync"
	"time"

	"github.com/rinhabackend/pessoas-api/internal/logging"
	"github.com/rinhabackend/pessoas-api/internal/metrics"
	"github.com/rinhabackend/pessoas-api/internal/models"
)

// Store is the subset of the store adapter the flusher depends on.
type Store interface {
	BatchInsert(ctx context.Context, records []models.Record) error
}

// Source is the subset of the ingest queue the flusher depends on.
type Source interface {
	Subscribe(ctx context.Context) (<-chan models.Record, error)
}

// Config controls the two flush triggers spec.md §4.4 names.
type Config struct {
	// BatchMax is the buffer size that triggers an immediate flush.
	BatchMax int
	// BatchInterval is the maximum time a non-empty buffer waits before
	// being flushed, even if BatchMax was never reached. It does not
	// reset when new elements arrive mid-window.
	BatchInterval time.Duration
}

// Flusher is the C4 batch flusher, run as a suture.Service.
type Flusher struct {
	store  Store
	source Source
	cfg    Config
	events *logging.EventLogger

	mu     sync.Mutex
	buffer []models.Record
}

// New builds a Flusher. A non-positive cfg.BatchMax falls back to 100 and a
// non-positive cfg.BatchInterval to one second.
func New(store Store, source Source, cfg Config) *Flusher {
	if cfg.BatchMax <= 0 {
		cfg.BatchMax = 100
	}
	if cfg.BatchInterval <= 0 {
		cfg.BatchInterval = time.Second
	}
	return &Flusher{store: store, source: source, cfg: cfg, events: logging.NewEventLogger()}
}

// Serve implements suture.Service: it accumulates records from the ingest
// queue and flushes on size or timer, until ctx is cancelled.
func (f *Flusher) Serve(ctx context.Context) error {
	records, err := f.source.Subscribe(ctx)
	if err != nil {
		return err
	}

	timer := time.NewTimer(f.cfg.BatchInterval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			f.flush(detachedContext())
			return nil

		case rec, ok := <-records:
			if !ok {
				f.flush(detachedContext())
				return nil
			}

			f.mu.Lock()
			f.buffer = append(f.buffer, rec)
			size := len(f.buffer)
			f.mu.Unlock()
			metrics.UpdateQueueDepth(size)

			if size >= f.cfg.BatchMax {
				f.flush(ctx)
				resetTimer(timer, f.cfg.BatchInterval)
			}

		case <-timer.C:
			f.flush(ctx)
			timer.Reset(f.cfg.BatchInterval)
		}
	}
}

// flush takes ownership of the buffer and writes it to the store. On
// failure the buffer is discarded, not restored — see the package doc for
// why this diverges from the teacher's retry behavior.
func (f *Flusher) flush(ctx context.Context) {
	f.mu.Lock()
	batch := f.buffer
	f.buffer = nil
	f.mu.Unlock()

	if len(batch) == 0 {
		return
	}

	start := time.Now()
	err := f.store.BatchInsert(ctx, batch)
	duration := time.Since(start)
	metrics.RecordBatchFlush(duration, len(batch), err)
	metrics.UpdateQueueDepth(0)
	f.events.LogBatchFlush(len(batch), duration.Milliseconds(), err)

	if err != nil {
		logging.Error().Err(err).Int("batch_size", len(batch)).
			Msg("flusher: batch insert failed, discarding buffer")
	}
}

func resetTimer(t *time.Timer, d time.Duration) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
	t.Reset(d)
}

// detachedContext gives the final drain-flush on shutdown a context not
// tied to the cancelled Serve context, so the last batch still gets a
// chance to reach the store.
func detachedContext() context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	_ = cancel
	return ctx
}
