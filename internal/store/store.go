// Package store is the relational adapter (C6): schema bootstrap, the four
// persisted operations spec.md names, and a liveness probe. It follows the
// teacher's database package shape (connection pool sizing, transactional
// batch insert) over github.com/duckdb/duckdb-go/v2 instead of introducing
// a second SQL driver.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"runtime"
	"strings"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/sony/gobreaker/v2"

	"github.com/rinhabackend/pessoas-api/internal/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS pessoas (
	id VARCHAR PRIMARY KEY,
	apelido VARCHAR UNIQUE NOT NULL,
	nome VARCHAR NOT NULL,
	nascimento VARCHAR NOT NULL,
	stack VARCHAR[],
	busca VARCHAR NOT NULL,
	created_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_pessoas_busca ON pessoas (busca);
`

// Store wraps a *sql.DB over DuckDB with a circuit breaker guarding reads.
type Store struct {
	db *sql.DB
	cb *gobreaker.CircuitBreaker[any]
}

// Config controls connection pool sizing, mirroring the teacher's
// configureConnectionPool knobs.
type Config struct {
	DatabaseURL string
	PoolMaxSize int
}

// New opens the DuckDB connection, bootstraps the schema, and configures
// the pool and breaker.
func New(cfg Config) (*Store, error) {
	db, err := sql.Open("duckdb", cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("store: open: %w", err)
	}

	configureConnectionPool(db, cfg.PoolMaxSize)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: bootstrap schema: %w", err)
	}

	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        "store-reads",
		MaxRequests: 1,
		Interval:    30 * time.Second,
		Timeout:     5 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})

	return &Store{db: db, cb: cb}, nil
}

func configureConnectionPool(db *sql.DB, poolMax int) {
	if poolMax <= 0 {
		poolMax = runtime.NumCPU()
	}
	db.SetMaxOpenConns(poolMax)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)
	db.SetConnMaxIdleTime(5 * time.Minute)
}

// Close checkpoints and closes the underlying connection.
func (s *Store) Close() error {
	_, _ = s.db.Exec("CHECKPOINT")
	return s.db.Close()
}

// Ping reports store liveness for the health prober.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// GetByID fetches a single record, circuit-breaker guarded.
func (s *Store) GetByID(ctx context.Context, id string) (models.Record, bool, error) {
	v, err := s.cb.Execute(func() (any, error) {
		row := s.db.QueryRowContext(ctx,
			`SELECT id, apelido, nome, nascimento, stack, created_at FROM pessoas WHERE id = ?`, id)
		rec, err := scanRecord(row)
		if err == sql.ErrNoRows {
			return models.Record{}, nil
		}
		if err != nil {
			return models.Record{}, err
		}
		return rec, nil
	})
	if err != nil {
		return models.Record{}, false, fmt.Errorf("store: get by id: %w", err)
	}
	rec := v.(models.Record)
	return rec, rec.ID != "", nil
}

// searchLimit bounds SearchByTerm to spec.md §4.5's "bound of 50 rows" at
// the query level, so a popular substring never scans past what the
// handler can use.
const searchLimit = 50

// SearchByTerm returns up to searchLimit records whose busca column
// contains the lower-cased term as a substring, circuit-breaker guarded.
func (s *Store) SearchByTerm(ctx context.Context, term string) ([]models.Record, error) {
	v, err := s.cb.Execute(func() (any, error) {
		rows, err := s.db.QueryContext(ctx,
			`SELECT id, apelido, nome, nascimento, stack, created_at FROM pessoas WHERE busca LIKE ? LIMIT ?`,
			"%"+strings.ToLower(term)+"%", searchLimit)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		var results []models.Record
		for rows.Next() {
			rec, err := scanRecord(rows)
			if err != nil {
				return nil, err
			}
			results = append(results, rec)
		}
		return results, rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("store: search: %w", err)
	}
	if v == nil {
		return nil, nil
	}
	return v.([]models.Record), nil
}

// Count returns the total number of persisted records, circuit-breaker guarded.
func (s *Store) Count(ctx context.Context) (int64, error) {
	v, err := s.cb.Execute(func() (any, error) {
		var n int64
		err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM pessoas`).Scan(&n)
		return n, err
	})
	if err != nil {
		return 0, fmt.Errorf("store: count: %w", err)
	}
	return v.(int64), nil
}

// scanner abstracts over *sql.Row and *sql.Rows for scanRecord.
type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(sc scanner) (models.Record, error) {
	var rec models.Record
	var stack []string
	if err := sc.Scan(&rec.ID, &rec.Apelido, &rec.Nome, &rec.Nascimento, &stack, &rec.CreatedAt); err != nil {
		return models.Record{}, err
	}
	rec.Stack = stack
	return rec, nil
}

// BatchInsert inserts every record in a single transaction, using
// ON CONFLICT DO NOTHING so a record whose apelido already exists (a race
// the validator's in-memory HandleSeen check narrowly missed) is silently
// dropped rather than failing the whole batch. This is the C4 flush
// operation; writes are NOT retried by the caller on error — per the
// accepted durability gap, a failed flush discards its buffer.
func (s *Store) BatchInsert(ctx context.Context, records []models.Record) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin batch insert: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO pessoas (id, apelido, nome, nascimento, stack, busca, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("store: prepare batch insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		if _, err := stmt.ExecContext(ctx,
			rec.ID, rec.Apelido, rec.Nome, rec.Nascimento, rec.Stack, rec.SearchBlob(), rec.CreatedAt,
		); err != nil {
			return fmt.Errorf("store: insert %s: %w", rec.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit batch insert: %w", err)
	}
	return nil
}
