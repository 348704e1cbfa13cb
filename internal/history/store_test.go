package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRecordAndListRuns(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	started := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	for i, id := range []string{"run-a", "run-b"} {
		run := Run{
			ID:          id,
			StartedAt:   started.Add(time.Duration(i) * time.Hour),
			FinishedAt:  started.Add(time.Duration(i)*time.Hour + 5*time.Minute),
			Provider:    "xai",
			Model:       "grok-4-0709",
			FolderID:    "folder",
			Processed:   3,
			Failed:      1,
			TotalTokens: 500,
		}
		if err := store.RecordRun(ctx, run); err != nil {
			t.Fatalf("record run %s: %v", id, err)
		}
	}

	runs, err := store.RecentRuns(ctx, 10)
	if err != nil {
		t.Fatalf("recent runs: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != "run-b" {
		t.Fatalf("expected newest first, got %q", runs[0].ID)
	}
	if runs[0].Processed != 3 || runs[0].TotalTokens != 500 {
		t.Fatalf("unexpected run data: %+v", runs[0])
	}
}

func TestRecordAndListFiles(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	run := Run{
		ID:         "run-1",
		StartedAt:  time.Now().UTC(),
		FinishedAt: time.Now().UTC(),
		Provider:   "anthropic",
		Model:      "claude-sonnet-4-20250514",
		FolderID:   "folder",
	}
	if err := store.RecordRun(ctx, run); err != nil {
		t.Fatalf("record run: %v", err)
	}

	records := []FileRecord{
		{RunID: "run-1", FileID: "f1", OldName: "raven_scan_1.pdf", NewName: "Invoice_ACME.pdf", Status: StatusRenamed, TotalTokens: 120},
		{RunID: "run-1", FileID: "f2", OldName: "raven_scan_2.pdf", Status: StatusFailed, Error: "download failed"},
	}
	for _, record := range records {
		if err := store.RecordFile(ctx, record); err != nil {
			t.Fatalf("record file %s: %v", record.FileID, err)
		}
	}

	got, err := store.FilesForRun(ctx, "run-1")
	if err != nil {
		t.Fatalf("files for run: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	if got[0].NewName != "Invoice_ACME.pdf" || got[0].Status != StatusRenamed {
		t.Fatalf("unexpected first record: %+v", got[0])
	}
	if got[1].Status != StatusFailed || got[1].Error == "" {
		t.Fatalf("unexpected second record: %+v", got[1])
	}
}

func TestRecentRunsEmpty(t *testing.T) {
	store := openTestStore(t)
	runs, err := store.RecentRuns(context.Background(), 5)
	if err != nil {
		t.Fatalf("recent runs: %v", err)
	}
	if len(runs) != 0 {
		t.Fatalf("expected no runs, got %d", len(runs))
	}
}
