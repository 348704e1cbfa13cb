package extract

import "testing"

func TestSelectShortDocumentExtractsFullText(t *testing.T) {
	got := Select(2, 3, 3, false)
	if got.Kind != KindFullText {
		t.Fatalf("expected full text, got %v", got.Kind)
	}
}

func TestSelectLongDocumentExtractsTruncatedText(t *testing.T) {
	got := Select(10, 3, 3, false)
	if got.Kind != KindTruncatedText || got.Pages != 3 {
		t.Fatalf("expected truncated text of 3 pages, got %+v", got)
	}
}

func TestSelectNoOCRForcesUpload(t *testing.T) {
	got := Select(2, 3, 3, true)
	if got.Kind != KindFullUpload {
		t.Fatalf("expected full upload, got %v", got.Kind)
	}
	got = Select(10, 3, 3, true)
	if got.Kind != KindTruncatedUpload || got.Pages != 3 {
		t.Fatalf("expected truncated upload of 3 pages, got %+v", got)
	}
}

func TestSelectUnknownPageCountUsesFullVariant(t *testing.T) {
	got := Select(0, 3, 3, false)
	if got.Kind != KindFullText {
		t.Fatalf("expected full text, got %v", got.Kind)
	}
	got = Select(0, 3, 3, true)
	if got.Kind != KindFullUpload {
		t.Fatalf("expected full upload, got %v", got.Kind)
	}
}

func TestSelectMonotonicInPageCount(t *testing.T) {
	// Growing the document must never move the strategy toward sending
	// more content to the model.
	rank := func(s Strategy) int {
		switch s.Kind {
		case KindFullText, KindFullUpload:
			return 1
		default:
			return 0
		}
	}
	for _, noOCR := range []bool{false, true} {
		prev := rank(Select(1, 3, 3, noOCR))
		for pages := 2; pages <= 20; pages++ {
			cur := rank(Select(pages, 3, 3, noOCR))
			if cur > prev {
				t.Fatalf("strategy grew at %d pages (noOCR=%v)", pages, noOCR)
			}
			prev = cur
		}
	}
}

func TestUploadFallback(t *testing.T) {
	got := UploadFallback(2, 3, 3)
	if got.Kind != KindFullUpload {
		t.Fatalf("expected full upload fallback, got %+v", got)
	}
	got = UploadFallback(10, 3, 3)
	if got.Kind != KindTruncatedUpload || got.Pages != 3 {
		t.Fatalf("expected truncated upload fallback, got %+v", got)
	}
	if !got.IsUpload() {
		t.Fatal("fallback must always be an upload variant")
	}
}

func TestKindStrings(t *testing.T) {
	if KindTruncatedUpload.String() != "truncated_upload" {
		t.Fatalf("unexpected string: %q", KindTruncatedUpload)
	}
	if Kind(99).String() != "unknown" {
		t.Fatal("expected unknown for invalid kind")
	}
}
