package naming

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestIsCandidate(t *testing.T) {
	patterns := []string{"raven_scan"}
	cases := []struct {
		name string
		want bool
	}{
		{"raven_scan_20240101.pdf", true},
		{"RAVEN_SCAN_001.pdf", true},
		{"  raven_scan.pdf", true},
		{"copy_of_raven_scan_3.pdf", true},
		{"Invoice_ACME_2024.pdf", false},
		{"scan_raven.pdf", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := IsCandidate(tc.name, patterns); got != tc.want {
			t.Errorf("IsCandidate(%q) = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestIsCandidateMultiplePatterns(t *testing.T) {
	patterns := []string{"scan_", "img_", ""}
	if !IsCandidate("IMG_0042.pdf", patterns) {
		t.Fatal("expected img_ prefix match")
	}
	if IsCandidate("anything.pdf", patterns) {
		t.Fatal("empty pattern must not match everything")
	}
}

func TestSanitize(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"  'Invoice_ABC.PDF'  ", "Invoice_ABC"},
		{`"Tax Return 2023"`, "Tax_Return_2023"},
		{"Report: Q3/Q4 <final>", "Report_Q3_Q4_final"},
		{"already_clean", "already_clean"},
		{"multiple   spaces\tand\nlines", "multiple_spaces_and_lines"},
		{"___wrapped___", "wrapped"},
		{"name_.pdf", "name"},
		{"statement.pdf.pdf", "statement"},
		{"???", ""},
		{"", ""},
		{"   ", ""},
	}
	for _, tc := range cases {
		if got := Sanitize(tc.raw, 100); got != tc.want {
			t.Errorf("Sanitize(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestSanitizeTruncates(t *testing.T) {
	long := strings.Repeat("a", 150)
	got := Sanitize(long, 100)
	if len(got) != 100 {
		t.Fatalf("expected 100 chars, got %d", len(got))
	}
	// Truncation must not leave a trailing underscore.
	got = Sanitize(strings.Repeat("a", 99)+"_b", 100)
	if strings.HasSuffix(got, "_") {
		t.Fatalf("trailing underscore after truncation: %q", got)
	}
}

func TestSanitizeTruncationStripsExposedSuffix(t *testing.T) {
	// A ".pdf" buried mid-string lands exactly at the cut point; it must
	// still be stripped so the result never ends in ".pdf".
	raw := strings.Repeat("x", 96) + ".pdf" + strings.Repeat("y", 10)
	got := Sanitize(raw, 100)
	if strings.HasSuffix(strings.ToLower(got), ".pdf") {
		t.Fatalf("truncation exposed a .pdf suffix: %q", got)
	}
	if twice := Sanitize(got, 100); twice != got {
		t.Fatalf("not idempotent: %q then %q", got, twice)
	}
}

func TestSanitizeTruncatesOnRuneBoundary(t *testing.T) {
	got := Sanitize(strings.Repeat("a", 99)+"é", 100)
	if !utf8.ValidString(got) {
		t.Fatalf("truncation split a rune: %q", got)
	}
	if len(got) > 100 {
		t.Fatalf("expected at most 100 bytes, got %d", len(got))
	}
}

func TestSanitizeStripsAlternatingSuffixLayers(t *testing.T) {
	got := Sanitize("doc.pdf_.pdf", 100)
	if got != "doc" {
		t.Fatalf("Sanitize(%q) = %q, want %q", "doc.pdf_.pdf", got, "doc")
	}
}

func TestSanitizeIdempotent(t *testing.T) {
	inputs := []string{
		"  'Invoice_ABC.PDF'  ",
		"Report: Q3/Q4 <final>",
		"Tax Return 2023",
		strings.Repeat("x", 200),
	}
	for _, raw := range inputs {
		once := Sanitize(raw, 100)
		twice := Sanitize(once, 100)
		if once != twice {
			t.Errorf("not idempotent for %q: %q then %q", raw, once, twice)
		}
	}
}

func TestSanitizeNeverEmitsReservedChars(t *testing.T) {
	got := Sanitize(`a<b>c:d"e/f\g|h?i*j`, 100)
	if strings.ContainsAny(got, `<>:"/\|?*`) {
		t.Fatalf("reserved characters survived: %q", got)
	}
}
