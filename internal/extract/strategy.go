// Package extract decides how document content reaches the model: extracted
// text by default, a direct PDF upload when OCR is skipped or when a
// document turns out to have no extractable text.
package extract

// Kind identifies one content delivery strategy.
type Kind int

const (
	// KindFullText extracts text from every page.
	KindFullText Kind = iota
	// KindTruncatedText extracts text from the leading pages only.
	KindTruncatedText
	// KindFullUpload sends the whole PDF to the model.
	KindFullUpload
	// KindTruncatedUpload sends a trimmed PDF containing the leading pages.
	KindTruncatedUpload
)

func (k Kind) String() string {
	switch k {
	case KindFullText:
		return "full_text"
	case KindTruncatedText:
		return "truncated_text"
	case KindFullUpload:
		return "full_upload"
	case KindTruncatedUpload:
		return "truncated_upload"
	default:
		return "unknown"
	}
}

// Strategy is a selected delivery method. Pages is set only for truncated
// kinds and gives the number of leading pages to include.
type Strategy struct {
	Kind  Kind
	Pages int
}

// IsUpload reports whether the strategy sends PDF bytes to the model.
func (s Strategy) IsUpload() bool {
	return s.Kind == KindFullUpload || s.Kind == KindTruncatedUpload
}

// Select picks the delivery strategy for a document.
//
// Decision order:
//  1. noOCR forces a PDF upload, trimmed to extractionPages when the
//     document exceeds maxPages.
//  2. Otherwise text extraction is attempted: truncated to extractionPages
//     when the document exceeds maxPages, full text otherwise.
//
// When extraction later yields nothing usable, callers revise the strategy
// with UploadFallback; that is a runtime decision, never predicted here.
//
// A pageCount of zero (unreadable PDF) is treated as not exceeding the
// threshold, so the full variant is chosen and the document fails downstream
// with an empty-content error instead of breaking selection.
func Select(pageCount, maxPages, extractionPages int, noOCR bool) Strategy {
	if noOCR {
		if pageCount > maxPages {
			return Strategy{Kind: KindTruncatedUpload, Pages: extractionPages}
		}
		return Strategy{Kind: KindFullUpload}
	}
	if pageCount > maxPages {
		return Strategy{Kind: KindTruncatedText, Pages: extractionPages}
	}
	return Strategy{Kind: KindFullText}
}

// UploadFallback returns the PDF-upload equivalent of the text strategy,
// used when extraction produced nothing usable.
func UploadFallback(pageCount, maxPages, extractionPages int) Strategy {
	if pageCount > maxPages {
		return Strategy{Kind: KindTruncatedUpload, Pages: extractionPages}
	}
	return Strategy{Kind: KindFullUpload}
}
