package llm

import (
	"strings"

	"scannamer/internal/prompts"
)

// Request carries the document content for one naming call. Exactly one of
// Text and PDF should be set; when both are present the PDF wins.
type Request struct {
	Text    string
	PDF     []byte
	Prompts prompts.Spec
}

// Result is the model's answer for one document.
type Result struct {
	SuggestedName string
	Usage         TokenUsage
}

// normalizeSuggestion reduces raw model output to the first non-empty line.
// Full sanitization happens downstream; this only strips chatter like
// trailing explanations that some models append despite instructions.
func normalizeSuggestion(content string) string {
	for _, line := range strings.Split(content, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
