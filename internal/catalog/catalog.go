// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog records aggregate maps in a SQLite database so earlier
// task outputs can be listed and exported again without the source files.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/dataset-tools/internal/aggregate"
	"github.com/pdiddy/dataset-tools/pkg/types"
)

// ErrNotFound is returned when a task has no recorded runs.
var ErrNotFound = errors.New("no recorded run")

// Run describes one recorded aggregate map.
type Run struct {
	ID        string    `json:"id" yaml:"id"`
	Task      string    `json:"task" yaml:"task"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	Keys      int       `json:"keys" yaml:"keys"`
	IDs       int       `json:"ids" yaml:"ids"`
}

// Store manages the catalog database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the catalog at path and creates the schema if it
// does not exist.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating catalog directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening catalog: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			task TEXT NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_task ON runs(task)`,
		`CREATE TABLE IF NOT EXISTS buckets (
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			key_pos INTEGER NOT NULL,
			key TEXT NOT NULL,
			id_pos INTEGER NOT NULL,
			id TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_buckets_run ON buckets(run_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record stores m under task as a new run and returns it. Keys and
// identifiers are stored with their positions so Latest reproduces the
// same order. An empty bucket is stored as a single row without an id.
func (s *Store) Record(ctx context.Context, task string, m *aggregate.Map) (Run, error) {
	run := Run{
		ID:        uuid.NewString(),
		Task:      task,
		CreatedAt: time.Now().UTC(),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Run{}, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (id, task, created_at) VALUES (?, ?, ?)`,
		run.ID, run.Task, run.CreatedAt.Format(time.RFC3339Nano),
	); err != nil {
		return Run{}, fmt.Errorf("inserting run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO buckets (run_id, key_pos, key, id_pos, id) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return Run{}, fmt.Errorf("preparing bucket insert: %w", err)
	}
	defer stmt.Close()

	keyPos := 0
	for key, ids := range m.All() {
		if len(ids) == 0 {
			if _, err := stmt.ExecContext(ctx, run.ID, keyPos, key, -1, nil); err != nil {
				return Run{}, fmt.Errorf("inserting bucket %s: %w", key, err)
			}
		}
		for idPos, id := range ids {
			if _, err := stmt.ExecContext(ctx, run.ID, keyPos, key, idPos, id); err != nil {
				return Run{}, fmt.Errorf("inserting bucket %s: %w", key, err)
			}
		}
		keyPos++
		run.Keys++
		run.IDs += len(ids)
	}

	if err := tx.Commit(); err != nil {
		return Run{}, fmt.Errorf("committing run: %w", err)
	}
	return run, nil
}

// Latest returns the most recent run of task and its aggregate map. The
// returned map keeps the recorded order.
func (s *Store) Latest(ctx context.Context, task string) (Run, *aggregate.Map, error) {
	var run Run
	var created string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, task, created_at FROM runs WHERE task = ? ORDER BY rowid DESC LIMIT 1`, task,
	).Scan(&run.ID, &run.Task, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, nil, fmt.Errorf("task %s: %w", task, ErrNotFound)
	}
	if err != nil {
		return Run{}, nil, fmt.Errorf("querying runs: %w", err)
	}
	if run.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
		return Run{}, nil, fmt.Errorf("parsing run time: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT key, id FROM buckets WHERE run_id = ? ORDER BY key_pos, id_pos`, run.ID)
	if err != nil {
		return Run{}, nil, fmt.Errorf("querying buckets: %w", err)
	}
	defer rows.Close()

	m := aggregate.New(types.OrderInsertion, types.OrderInsertion)
	for rows.Next() {
		var key string
		var id sql.NullString
		if err := rows.Scan(&key, &id); err != nil {
			return Run{}, nil, fmt.Errorf("scanning bucket: %w", err)
		}
		m.Declare(key)
		if id.Valid {
			m.Add(key, id.String)
			run.IDs++
		}
	}
	if err := rows.Err(); err != nil {
		return Run{}, nil, fmt.Errorf("reading buckets: %w", err)
	}
	run.Keys = m.Len()
	return run, m, nil
}

// Runs lists every recorded run, newest first.
func (s *Store) Runs(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.id, r.task, r.created_at,
			COUNT(DISTINCT b.key_pos),
			COUNT(b.id)
		FROM runs r
		LEFT JOIN buckets b ON b.run_id = r.id
		GROUP BY r.id
		ORDER BY r.rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var created string
		if err := rows.Scan(&r.ID, &r.Task, &created, &r.Keys, &r.IDs); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		if r.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
			return nil, fmt.Errorf("parsing run time: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
