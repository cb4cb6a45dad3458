// Command server wires the C1-C6 components described in the project's
// design notes into a running process: it loads configuration, opens the
// store with bounded exponential-backoff retries, builds the multi-index
// cache and ingest queue, starts the batch flusher and health prober as
// supervised services alongside the HTTP listener, and shuts everything
// down gracefully on SIGINT/SIGTERM.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rinhabackend/pessoas-api/internal/api"
	"github.com/rinhabackend/pessoas-api/internal/cache"
	"github.com/rinhabackend/pessoas-api/internal/config"
	"github.com/rinhabackend/pessoas-api/internal/flusher"
	"github.com/rinhabackend/pessoas-api/internal/logging"
	"github.com/rinhabackend/pessoas-api/internal/queue"
	"github.com/rinhabackend/pessoas-api/internal/store"
	"github.com/rinhabackend/pessoas-api/internal/supervisor"
)

// bootRetryBudget bounds the exponential-backoff window for the initial
// store connection, per the ~11s cap spec.md's exit-code section names.
const bootRetryBudget = 11 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.LogLevel,
		Format:    cfg.LoggerOutput,
		Timestamp: true,
		Output:    os.Stderr,
	})

	logging.Info().
		Int("server_port", cfg.ServerPort).
		Int("database_pool_max_size", cfg.DatabasePoolMaxSize).
		Int("batch_max_insert_size", cfg.BatchMaxInsertSize).
		Dur("batch_interval", cfg.BatchInterval()).
		Msg("starting pessoas-api")

	db, err := openStoreWithRetry(cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("could not reach store within boot retry budget")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("error closing store")
		}
	}()

	index := cache.NewIndex()
	ingestQueue := queue.New(4096, queue.JSONCodec{})
	defer ingestQueue.Close()

	handlers := api.New(index, ingestQueue, db)
	prober := api.NewProber(db)
	router := api.NewRouter(handlers, prober)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	batchFlusher := flusher.New(db, ingestQueue, flusher.Config{
		BatchMax:      cfg.BatchMaxInsertSize,
		BatchInterval: cfg.BatchInterval(),
	})

	slogLogger := logging.NewSlogLogger()
	tree := supervisor.New(slogLogger, supervisor.DefaultConfig())
	tree.AddIngestService(batchFlusher)
	tree.AddServingService(prober)
	tree.AddServingService(supervisor.NewHTTPServerService(httpServer, 10*time.Second))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("received shutdown signal")
		cancel()
	}()

	logging.Info().Str("addr", httpServer.Addr).Msg("http server listening")
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("supervisor tree exited with error")
		os.Exit(1)
	}

	logging.Info().Msg("pessoas-api stopped gracefully")
}

// openStoreWithRetry opens the store, retrying with exponential backoff
// capped at bootRetryBudget total, per spec.md's startup-failure exit code
// contract. Modeled on the teacher's extensionRetryConfig backoff shape.
func openStoreWithRetry(cfg config.Config) (*store.Store, error) {
	storeCfg := store.Config{
		DatabaseURL: cfg.DatabaseURL,
		PoolMaxSize: cfg.DatabasePoolMaxSize,
	}

	delay := 250 * time.Millisecond
	const maxDelay = 2 * time.Second
	deadline := time.Now().Add(bootRetryBudget)

	var lastErr error
	for attempt := 1; ; attempt++ {
		db, err := store.New(storeCfg)
		if err == nil {
			return db, nil
		}
		lastErr = err

		if time.Now().Add(delay).After(deadline) {
			return nil, fmt.Errorf("store unreachable after %d attempts: %w", attempt, lastErr)
		}

		logging.Warn().Err(err).Int("attempt", attempt).Dur("retry_in", delay).
			Msg("store connection failed, retrying")
		time.Sleep(delay)

		delay *= 2
		if delay > maxDelay {
			delay = maxDelay
		}
	}
}
