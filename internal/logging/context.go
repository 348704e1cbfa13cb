package logging

import (
	"context"
	"log/slog"

	"scannamer/internal/services"
)

// WithContext attaches standardized per-file and per-run fields from ctx to
// the logger. Safe with nil loggers.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := contextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(Args(fields...)...)
}

func contextFields(ctx context.Context) []Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]Attr, 0, 3)
	if id, name, ok := services.FileFromContext(ctx); ok {
		if id != "" {
			fields = append(fields, String(FieldFileID, id))
		}
		if name != "" {
			fields = append(fields, String(FieldFileName, name))
		}
	}
	if runID, ok := services.RunIDFromContext(ctx); ok {
		fields = append(fields, String(FieldRunID, runID))
	}
	return fields
}
