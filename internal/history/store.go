// Package history keeps a SQLite log of pipeline runs so results can be
// listed and compared across invocations. It records extraction output
// only; it is not a cache and no fetch is ever served from it.
package history

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/raysh454/skim/internal/interfaces"

	_ "modernc.org/sqlite" // SQLite driver
)

//go:embed schema.sql
var schemaFS embed.FS

// ErrRunNotFound means no run row exists for the requested id.
var ErrRunNotFound = errors.New("run not found")

// Run kinds.
const (
	KindPasses = "passes"
	KindAstros = "astros"
	KindTable  = "table"
)

// Run is one recorded pipeline invocation.
type Run struct {
	ID         string          `json:"id"`
	Kind       string          `json:"kind"`
	URL        string          `json:"url"`
	Title      string          `json:"title,omitempty"`
	StartedAt  time.Time       `json:"started_at"`
	FinishedAt time.Time       `json:"finished_at"`
	Result     json.RawMessage `json:"result,omitempty"`
	Error      string          `json:"error,omitempty"`
}

// Store persists and queries runs in a SQLite database.
type Store struct {
	db     *sql.DB
	logger interfaces.Logger
}

// Open opens (creating if needed) the run database at path.
func Open(path string, logger interfaces.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open run database: %w", err)
	}
	if err := applySchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{
		db:     db,
		logger: logger.With(interfaces.Field{Key: "component", Value: "history"}),
	}, nil
}

// applySchema applies the SQLite schema to the database and sets appropriate pragmas.
func applySchema(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",   // Write-Ahead Logging for better concurrency
		"PRAGMA synchronous=NORMAL", // Balance between safety and performance
		"PRAGMA foreign_keys=ON",    // Enable foreign key constraints
		"PRAGMA busy_timeout=5000",  // Wait up to 5 seconds on locked database
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to set pragma %q: %w", pragma, err)
		}
	}

	schemaSQL, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		return fmt.Errorf("failed to read schema.sql: %w", err)
	}
	if _, err := db.Exec(string(schemaSQL)); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// RecordRun inserts a run and returns its id. A missing id gets a fresh
// UUID; missing timestamps default to now.
func (s *Store) RecordRun(ctx context.Context, run *Run) (string, error) {
	if run == nil {
		return "", fmt.Errorf("nil run")
	}
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	now := time.Now()
	if run.StartedAt.IsZero() {
		run.StartedAt = now
	}
	if run.FinishedAt.IsZero() {
		run.FinishedAt = now
	}

	_, err := s.db.ExecContext(ctx, `INSERT INTO runs
		(id, kind, url, title, started_at, finished_at, result_json, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Kind, run.URL, run.Title,
		run.StartedAt.Unix(), run.FinishedAt.Unix(),
		string(run.Result), run.Error)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	s.logger.Debug("recorded run",
		interfaces.Field{Key: "run_id", Value: run.ID},
		interfaces.Field{Key: "kind", Value: run.Kind})

	return run.ID, nil
}

// GetRun loads one run by id.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, kind, url, title, started_at, finished_at, result_json, error
		FROM runs WHERE id = ?`, id)
	run, err := scanRun(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run %q: %w", id, ErrRunNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load run %q: %w", id, err)
	}
	return run, nil
}

// ListRuns returns runs newest first, optionally filtered by kind.
func (s *Store) ListRuns(ctx context.Context, kind string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 100
	}

	q := `SELECT id, kind, url, title, started_at, finished_at, result_json, error FROM runs`
	var rows *sql.Rows
	var err error
	if kind != "" {
		q += ` WHERE kind = ? ORDER BY started_at DESC, id LIMIT ?`
		rows, err = s.db.QueryContext(ctx, q, kind, limit)
	} else {
		q += ` ORDER BY started_at DESC, id LIMIT ?`
		rows, err = s.db.QueryContext(ctx, q, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	out := []Run{}
	for rows.Next() {
		run, err := scanRun(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		out = append(out, *run)
	}
	return out, rows.Err()
}

func scanRun(scan func(...any) error) (*Run, error) {
	var run Run
	var title, result, runErr sql.NullString
	var startedAt, finishedAt int64
	if err := scan(&run.ID, &run.Kind, &run.URL, &title, &startedAt, &finishedAt, &result, &runErr); err != nil {
		return nil, err
	}
	run.Title = title.String
	run.Error = runErr.String
	if result.String != "" {
		run.Result = json.RawMessage(result.String)
	}
	run.StartedAt = time.Unix(startedAt, 0)
	run.FinishedAt = time.Unix(finishedAt, 0)
	return &run, nil
}
