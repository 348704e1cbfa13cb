// Package naming implements the generic-filename eligibility check and the
// sanitizer that turns raw model output into a safe Drive filename.
package naming

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	reservedChars  = regexp.MustCompile(`[<>:"/\\|?*]`)
	collapseRuns   = regexp.MustCompile(`[_\s]+`)
	pdfSuffix      = regexp.MustCompile(`(?i)\.pdf$`)
	surroundQuotes = []string{`"`, `'`}
)

// IsCandidate reports whether name looks like generic scanner output. The
// comparison is a case-insensitive substring match against patterns. An
// empty pattern set matches nothing, so no files become eligible by accident.
func IsCandidate(name string, patterns []string) bool {
	lowered := strings.ToLower(strings.TrimSpace(name))
	if lowered == "" {
		return false
	}
	for _, pattern := range patterns {
		pattern = strings.ToLower(strings.TrimSpace(pattern))
		if pattern == "" {
			continue
		}
		if strings.Contains(lowered, pattern) {
			return true
		}
	}
	return false
}

// Sanitize normalizes a model-suggested filename. It returns an empty string
// when nothing usable survives, which callers must treat as a rejection. The
// result never carries an extension; callers append one. Sanitize is
// idempotent: feeding its output back in returns the same value.
func Sanitize(raw string, maxLength int) string {
	name := strings.TrimSpace(raw)

	// Models often wrap the answer in quotes despite instructions.
	for _, quote := range surroundQuotes {
		if len(name) >= 2 && strings.HasPrefix(name, quote) && strings.HasSuffix(name, quote) {
			name = strings.TrimSpace(name[1 : len(name)-1])
			break
		}
	}

	name = reservedChars.ReplaceAllString(name, "_")
	name = collapseRuns.ReplaceAllString(name, "_")
	name = stripSuffixes(name)

	if maxLength > 0 && len(name) > maxLength {
		cut := maxLength
		// Back off to a rune boundary so truncation never splits a
		// multi-byte character.
		for cut > 0 && !utf8.RuneStart(name[cut]) {
			cut--
		}
		// Truncation can expose a ".pdf" that sat past the cut point.
		name = stripSuffixes(name[:cut])
	}
	return name
}

// stripSuffixes removes trailing underscores and ".pdf" tails until the name
// is stable, so alternating layers like "doc.pdf_.pdf" cannot survive.
func stripSuffixes(name string) string {
	for {
		stripped := strings.Trim(name, "_")
		stripped = pdfSuffix.ReplaceAllString(stripped, "")
		if stripped == name {
			return name
		}
		name = stripped
	}
}
