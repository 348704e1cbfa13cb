package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"scannamer/internal/services"
)

func TestConsoleHandlerFormatsComponentAndAttrs(t *testing.T) {
	var buf bytes.Buffer
	levelVar := new(slog.LevelVar)
	logger := slog.New(newConsoleHandler(&buf, levelVar))

	logger = NewComponentLogger(logger, "pipeline")
	logger.Info("renamed file", String("new_name", "Invoice_ABC.pdf"), Int("pages", 3))

	line := buf.String()
	if !strings.Contains(line, " INFO pipeline: renamed file") {
		t.Fatalf("unexpected console line: %q", line)
	}
	if !strings.Contains(line, "new_name=Invoice_ABC.pdf") {
		t.Fatalf("missing attr in console line: %q", line)
	}
	if !strings.Contains(line, "pages=3") {
		t.Fatalf("missing int attr in console line: %q", line)
	}
}

func TestConsoleHandlerQuotesValuesWithSpaces(t *testing.T) {
	var buf bytes.Buffer
	levelVar := new(slog.LevelVar)
	logger := slog.New(newConsoleHandler(&buf, levelVar))

	logger.Warn("skipping", String("reason", "not a candidate"))
	if !strings.Contains(buf.String(), `reason="not a candidate"`) {
		t.Fatalf("expected quoted value, got %q", buf.String())
	}
}

func TestConsoleHandlerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	levelVar := new(slog.LevelVar)
	levelVar.Set(slog.LevelWarn)
	logger := slog.New(newConsoleHandler(&buf, levelVar))

	logger.Info("hidden")
	if buf.Len() != 0 {
		t.Fatalf("expected info record to be suppressed, got %q", buf.String())
	}
	logger.Error("visible")
	if !strings.Contains(buf.String(), "ERROR") {
		t.Fatalf("expected error record, got %q", buf.String())
	}
}

func TestJSONHandlerRenamesKeys(t *testing.T) {
	var buf bytes.Buffer
	levelVar := new(slog.LevelVar)
	logger := slog.New(newJSONHandler(&buf, levelVar))

	logger.Info("hello", String("k", "v"))

	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decode json record: %v", err)
	}
	for _, key := range []string{"ts", "level", "msg"} {
		if _, ok := decoded[key]; !ok {
			t.Fatalf("missing %q key in %v", key, decoded)
		}
	}
	if decoded["level"] != "info" {
		t.Fatalf("expected lowercase level, got %v", decoded["level"])
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestWithContextAttachesFileFields(t *testing.T) {
	var buf bytes.Buffer
	levelVar := new(slog.LevelVar)
	logger := slog.New(newConsoleHandler(&buf, levelVar))

	ctx := services.WithFile(context.Background(), "abc123", "raven_scan_0001.pdf")
	ctx = services.WithRunID(ctx, "run-1")
	WithContext(ctx, logger).Info("processing")

	line := buf.String()
	for _, want := range []string{"file_id=abc123", "file_name=raven_scan_0001.pdf", "run_id=run-1"} {
		if !strings.Contains(line, want) {
			t.Fatalf("missing %q in %q", want, line)
		}
	}
}

func TestNewComponentLoggerNilBase(t *testing.T) {
	logger := NewComponentLogger(nil, "test")
	// Must not panic and must be disabled.
	logger.Info("ignored")
}
