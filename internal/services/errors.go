package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrConfiguration marks errors that must abort the process before any
	// file work begins (missing credential, unknown provider, bad config).
	ErrConfiguration = errors.New("configuration error")
	// ErrUnsupportedModel marks capability mismatches: a PDF upload was
	// requested but the selected model cannot accept one.
	ErrUnsupportedModel = errors.New("unsupported model")
	// ErrTransient marks recoverable per-file failures; the batch continues.
	ErrTransient = errors.New("transient failure")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsFatal reports whether err should terminate the process rather than be
// recorded as a per-file failure.
func IsFatal(err error) bool {
	return errors.Is(err, ErrConfiguration)
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
