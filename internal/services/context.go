package services

import "context"

type contextKey string

const (
	fileIDKey   contextKey = "file_id"
	fileNameKey contextKey = "file_name"
	runIDKey    contextKey = "run_id"
)

// WithFile stamps the identity of the document currently being processed.
func WithFile(ctx context.Context, id, name string) context.Context {
	ctx = context.WithValue(ctx, fileIDKey, id)
	return context.WithValue(ctx, fileNameKey, name)
}

// WithRunID stamps the batch-run correlation identifier.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey, runID)
}

// FileFromContext returns the current file's id and name, if stamped.
func FileFromContext(ctx context.Context) (id, name string, ok bool) {
	if ctx == nil {
		return "", "", false
	}
	id, okID := ctx.Value(fileIDKey).(string)
	name, okName := ctx.Value(fileNameKey).(string)
	if !okID && !okName {
		return "", "", false
	}
	return id, name, true
}

// RunIDFromContext returns the run correlation identifier, if stamped.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	runID, ok := ctx.Value(runIDKey).(string)
	return runID, ok && runID != ""
}
