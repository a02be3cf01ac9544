// Package store persists run metadata in a SQLite database under the
// experiment output directory, so past runs stay inspectable.
package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id       TEXT PRIMARY KEY,
	coordinate   TEXT NOT NULL,
	config_json  TEXT NOT NULL,
	records      INTEGER NOT NULL,
	output_dir   TEXT NOT NULL,
	started_at   TEXT NOT NULL,
	duration_ms  INTEGER NOT NULL
);
`

// Run is one recorded pipeline execution.
type Run struct {
	ID         string
	Coordinate string
	ConfigJSON string
	Records    int
	OutputDir  string
	StartedAt  time.Time
	Duration   time.Duration
}

// RunStore persists runs in SQLite.
type RunStore struct {
	db *sql.DB
}

// Open opens (creating if needed) the run database at path.
func Open(path string) (*RunStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open run store %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize run store: %w", err)
	}
	return &RunStore{db: db}, nil
}

// Close releases the underlying database handle.
func (s *RunStore) Close() error {
	return s.db.Close()
}

// Save records a run, assigning it a fresh id when none is set. The
// assigned id is returned.
func (s *RunStore) Save(run Run) (string, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	_, err := s.db.Exec(
		`INSERT INTO runs (run_id, coordinate, config_json, records, output_dir, started_at, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Coordinate, run.ConfigJSON, run.Records, run.OutputDir,
		run.StartedAt.UTC().Format(time.RFC3339), run.Duration.Milliseconds(),
	)
	if err != nil {
		return "", fmt.Errorf("failed to save run: %w", err)
	}
	return run.ID, nil
}

// Get returns one run by id, or nil when it does not exist.
func (s *RunStore) Get(id string) (*Run, error) {
	row := s.db.QueryRow(
		`SELECT run_id, coordinate, config_json, records, output_dir, started_at, duration_ms
		 FROM runs WHERE run_id = ?`, id)
	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return run, nil
}

// List returns every run, most recent first.
func (s *RunStore) List() ([]Run, error) {
	rows, err := s.db.Query(
		`SELECT run_id, coordinate, config_json, records, output_dir, started_at, duration_ms
		 FROM runs ORDER BY started_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*Run, error) {
	var run Run
	var startedAt string
	var durationMS int64
	if err := row.Scan(&run.ID, &run.Coordinate, &run.ConfigJSON, &run.Records,
		&run.OutputDir, &startedAt, &durationMS); err != nil {
		return nil, err
	}
	run.StartedAt, _ = time.Parse(time.RFC3339, startedAt)
	run.Duration = time.Duration(durationMS) * time.Millisecond
	return &run, nil
}
