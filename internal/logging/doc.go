// Package logging wires slog for the scannamer CLI.
//
// Two output formats are supported: "console" (single-line, UTC RFC3339
// timestamp, component prefix, k=v attributes) and "json". Output can fan
// out to stdout and a log file. Components obtain a named logger via
// NewComponentLogger; per-file context fields (file id/name, run id) are
// attached with WithContext.
package logging
