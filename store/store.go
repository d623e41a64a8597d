// Package store persists pipeline runs in a local SQLite database.
// Each run keeps its query parameters, lifecycle status and the final
// enriched batch.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/leadflow/leadflow/leads"
)

// ErrNotFound is returned when a run id does not exist.
var ErrNotFound = errors.New("store: run not found")

// Run statuses.
const (
	StatusRunning = "running"
	StatusDone    = "done"
	StatusFailed  = "failed"
)

// Run is one pipeline execution and its result batch.
type Run struct {
	ID         string           `json:"id"`
	Query      string           `json:"query"`
	MaxLinks   int              `json:"max_links"`
	Status     string           `json:"status"`
	CreatedAt  time.Time        `json:"created_at"`
	Businesses []leads.Business `json:"businesses"`
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id         TEXT PRIMARY KEY,
	query      TEXT NOT NULL,
	max_links  INTEGER NOT NULL,
	status     TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL,
	businesses TEXT NOT NULL
);
`

// Store is a SQLite-backed run repository.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and ensures the
// schema exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, eris.Wrapf(err, "store: open %s", path)
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()

		return nil, eris.Wrap(err, "store: ensure schema")
	}

	return &Store{db: db}, nil
}

// Save inserts or replaces a run.
func (s *Store) Save(ctx context.Context, run Run) error {
	payload, err := json.Marshal(run.Businesses)
	if err != nil {
		return eris.Wrap(err, "store: marshal businesses")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO runs (id, query, max_links, status, created_at, businesses)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, run.Query, run.MaxLinks, run.Status, run.CreatedAt.UTC(), string(payload),
	)
	if err != nil {
		return eris.Wrapf(err, "store: save run %s", run.ID)
	}

	return nil
}

// Get returns the run with the given id, or ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, query, max_links, status, created_at, businesses FROM runs WHERE id = ?`,
		id,
	)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, ErrNotFound
	}

	if err != nil {
		return Run{}, eris.Wrapf(err, "store: get run %s", id)
	}

	return run, nil
}

// All returns every stored run, newest first.
func (s *Store) All(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, query, max_links, status, created_at, businesses FROM runs ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "store: list runs")
	}
	defer func() { _ = rows.Close() }()

	var runs []Run

	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, eris.Wrap(err, "store: scan run")
		}

		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "store: iterate runs")
	}

	return runs, nil
}

// Delete removes a run. Deleting an unknown id returns ErrNotFound.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return eris.Wrapf(err, "store: delete run %s", id)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "store: rows affected")
	}

	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var (
		run     Run
		payload string
	)

	if err := row.Scan(&run.ID, &run.Query, &run.MaxLinks, &run.Status, &run.CreatedAt, &payload); err != nil {
		return Run{}, err
	}

	if err := json.Unmarshal([]byte(payload), &run.Businesses); err != nil {
		return Run{}, eris.Wrap(err, "store: unmarshal businesses")
	}

	return run, nil
}
