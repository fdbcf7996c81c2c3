package runlog

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current schema version. Bump this when the schema
// changes; users clear the run database to adopt the new schema.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database was written by a different
// release.
var ErrSchemaMismatch = errors.New("runlog: schema version mismatch")

// Store persists run history to SQLite: one row per run plus one row per job
// outcome. The history is an operator's audit trail; job scheduling itself
// never reads it, resume works off the output folder alone.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the run database under dir.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("runlog: ensure directory: %w", err)
	}

	dbPath := filepath.Join(dir, "runlog.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("runlog: open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("runlog: apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.ensureSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string { return s.path }

func (s *Store) ensureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("runlog: create schema: %w", err)
	}

	var version int
	err := s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := s.db.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
			return fmt.Errorf("runlog: record schema version: %w", err)
		}
	case err != nil:
		return fmt.Errorf("runlog: read schema version: %w", err)
	case version != schemaVersion:
		return fmt.Errorf("%w: database has %d, expected %d", ErrSchemaMismatch, version, schemaVersion)
	}
	return nil
}

// Run describes one processing run.
type Run struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	Profile    string
	InputDir   string
	OutputDir  string
	Planned    int
	Processed  int
	Failed     int
	Skipped    int
	Resumed    int
}

// Outcome is one job's terminal state within a run.
type Outcome struct {
	Clip       string
	SourcePath string
	OutputPath string
	Error      string
	Duration   time.Duration
}

// BeginRun inserts the run row and returns its generated ID.
func (s *Store) BeginRun(ctx context.Context, profile, inputDir, outputDir string, planned, skipped, resumed int) (string, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, profile, input_dir, output_dir, planned, skipped, resumed)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, time.Now().UTC().Format(time.RFC3339Nano),
		profile, inputDir, outputDir, planned, skipped, resumed,
	)
	if err != nil {
		return "", fmt.Errorf("runlog: insert run: %w", err)
	}
	return id, nil
}

// RecordOutcome appends one job outcome to the run.
func (s *Store) RecordOutcome(ctx context.Context, runID string, outcome Outcome) error {
	success := 1
	var errText any
	if outcome.Error != "" {
		success = 0
		errText = outcome.Error
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO job_outcomes (run_id, clip, source_path, output_path, success, error, duration_ms, recorded_at)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, outcome.Clip, outcome.SourcePath, outcome.OutputPath,
		success, errText, outcome.Duration.Milliseconds(),
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("runlog: insert outcome: %w", err)
	}
	return nil
}

// FinishRun stamps the run's completion time and final counts.
func (s *Store) FinishRun(ctx context.Context, runID string, processed, failed int) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET finished_at = ?, processed = ?, failed = ? WHERE id = ?`,
		time.Now().UTC().Format(time.RFC3339Nano), processed, failed, runID,
	)
	if err != nil {
		return fmt.Errorf("runlog: finish run: %w", err)
	}
	affected, err := res.RowsAffected()
	if err == nil && affected == 0 {
		return fmt.Errorf("runlog: unknown run %s", runID)
	}
	return nil
}

// GetRun loads one run row.
func (s *Store) GetRun(ctx context.Context, runID string) (*Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, started_at, finished_at, profile, input_dir, output_dir,
                planned, processed, failed, skipped, resumed
         FROM runs WHERE id = ?`, runID)

	var run Run
	var started string
	var finished sql.NullString
	err := row.Scan(&run.ID, &started, &finished, &run.Profile, &run.InputDir, &run.OutputDir,
		&run.Planned, &run.Processed, &run.Failed, &run.Skipped, &run.Resumed)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("runlog: unknown run %s", runID)
	}
	if err != nil {
		return nil, fmt.Errorf("runlog: load run: %w", err)
	}

	run.StartedAt, _ = time.Parse(time.RFC3339Nano, started)
	if finished.Valid {
		run.FinishedAt, _ = time.Parse(time.RFC3339Nano, finished.String)
	}
	return &run, nil
}

// FailedOutcomes lists the run's failed jobs in insertion order.
func (s *Store) FailedOutcomes(ctx context.Context, runID string) ([]Outcome, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT clip, source_path, output_path, error, duration_ms
         FROM job_outcomes WHERE run_id = ? AND success = 0 ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("runlog: query outcomes: %w", err)
	}
	defer rows.Close()

	var outcomes []Outcome
	for rows.Next() {
		var o Outcome
		var errText sql.NullString
		var durationMS int64
		if err := rows.Scan(&o.Clip, &o.SourcePath, &o.OutputPath, &errText, &durationMS); err != nil {
			return nil, fmt.Errorf("runlog: scan outcome: %w", err)
		}
		o.Error = errText.String
		o.Duration = time.Duration(durationMS) * time.Millisecond
		outcomes = append(outcomes, o)
	}
	return outcomes, rows.Err()
}
