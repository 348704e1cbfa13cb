// Package history persists a local ledger of batch runs and per-file
// outcomes, backed by SQLite.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Store manages run-history persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Run is one recorded batch run.
type Run struct {
	ID               string
	StartedAt        time.Time
	FinishedAt       time.Time
	Provider         string
	Model            string
	FolderID         string
	DryRun           bool
	Processed        int
	Failed           int
	Skipped          int
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// FileRecord is the outcome for one file within a run.
type FileRecord struct {
	RunID       string
	FileID      string
	OldName     string
	NewName     string
	Status      string
	Error       string
	TotalTokens int
}

// File outcome statuses recorded in the ledger.
const (
	StatusRenamed = "renamed"
	StatusDryRun  = "dry_run"
	StatusSkipped = "skipped"
	StatusFailed  = "failed"
)

// Open initializes or connects to the history database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("ensure history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.applyMigrations(context.Background()); err != nil {
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

func (s *Store) applyMigrations(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
            id TEXT PRIMARY KEY,
            started_at TEXT NOT NULL,
            finished_at TEXT NOT NULL,
            provider TEXT NOT NULL,
            model TEXT NOT NULL,
            folder_id TEXT NOT NULL,
            dry_run INTEGER NOT NULL DEFAULT 0,
            processed INTEGER NOT NULL DEFAULT 0,
            failed INTEGER NOT NULL DEFAULT 0,
            skipped INTEGER NOT NULL DEFAULT 0,
            prompt_tokens INTEGER NOT NULL DEFAULT 0,
            completion_tokens INTEGER NOT NULL DEFAULT 0,
            total_tokens INTEGER NOT NULL DEFAULT 0
        )`,
		`CREATE TABLE IF NOT EXISTS run_files (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
            file_id TEXT NOT NULL,
            old_name TEXT NOT NULL,
            new_name TEXT NOT NULL DEFAULT '',
            status TEXT NOT NULL,
            error TEXT NOT NULL DEFAULT '',
            total_tokens INTEGER NOT NULL DEFAULT 0
        )`,
		`CREATE INDEX IF NOT EXISTS idx_run_files_run_id ON run_files(run_id)`,
	}
	for _, statement := range statements {
		if _, err := s.db.ExecContext(ctx, statement); err != nil {
			return fmt.Errorf("apply migration: %w", err)
		}
	}
	return nil
}

// RecordRun inserts the summary row for a completed run.
func (s *Store) RecordRun(ctx context.Context, run Run) error {
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO runs (
            id, started_at, finished_at, provider, model, folder_id, dry_run,
            processed, failed, skipped, prompt_tokens, completion_tokens, total_tokens
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.StartedAt.UTC().Format(time.RFC3339Nano),
		run.FinishedAt.UTC().Format(time.RFC3339Nano),
		run.Provider,
		run.Model,
		run.FolderID,
		boolToInt(run.DryRun),
		run.Processed,
		run.Failed,
		run.Skipped,
		run.PromptTokens,
		run.CompletionTokens,
		run.TotalTokens,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// RecordFile inserts the outcome for one file.
func (s *Store) RecordFile(ctx context.Context, record FileRecord) error {
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO run_files (run_id, file_id, old_name, new_name, status, error, total_tokens)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		record.RunID,
		record.FileID,
		record.OldName,
		record.NewName,
		record.Status,
		record.Error,
		record.TotalTokens,
	)
	if err != nil {
		return fmt.Errorf("insert run file: %w", err)
	}
	return nil
}

// RecentRuns returns up to limit runs, newest first.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, started_at, finished_at, provider, model, folder_id, dry_run,
                processed, failed, skipped, prompt_tokens, completion_tokens, total_tokens
         FROM runs ORDER BY started_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var startedAt, finishedAt string
		var dryRun int
		if err := rows.Scan(
			&run.ID, &startedAt, &finishedAt, &run.Provider, &run.Model, &run.FolderID,
			&dryRun, &run.Processed, &run.Failed, &run.Skipped,
			&run.PromptTokens, &run.CompletionTokens, &run.TotalTokens,
		); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.DryRun = dryRun != 0
		if run.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt); err != nil {
			return nil, fmt.Errorf("parse started_at: %w", err)
		}
		if run.FinishedAt, err = time.Parse(time.RFC3339Nano, finishedAt); err != nil {
			return nil, fmt.Errorf("parse finished_at: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// FilesForRun returns the per-file records of one run in insertion order.
func (s *Store) FilesForRun(ctx context.Context, runID string) ([]FileRecord, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT run_id, file_id, old_name, new_name, status, error, total_tokens
         FROM run_files WHERE run_id = ? ORDER BY id`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("query run files: %w", err)
	}
	defer rows.Close()

	var records []FileRecord
	for rows.Next() {
		var record FileRecord
		if err := rows.Scan(
			&record.RunID, &record.FileID, &record.OldName, &record.NewName,
			&record.Status, &record.Error, &record.TotalTokens,
		); err != nil {
			return nil, fmt.Errorf("scan run file: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
