// Package pdfinfo provides the PDF primitives the pipeline needs: page
// counting, plain-text extraction, and trimming a document to its leading
// pages for upload.
package pdfinfo

import (
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// PageCount returns the number of pages in the PDF at path.
func PageCount(path string) (int, error) {
	count, err := api.PageCountFile(path)
	if err != nil {
		return 0, fmt.Errorf("count pages in %q: %w", path, err)
	}
	return count, nil
}

// ExtractText extracts plain text from the PDF at path. When maxPages is
// positive, only the leading maxPages pages are read. Each non-empty page is
// prefixed with a page marker; pages with no extractable text are skipped.
// The empty string means the document has no extractable text, which usually
// indicates an image-only scan.
func ExtractText(path string, maxPages int) (string, error) {
	file, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %q: %w", path, err)
	}
	defer file.Close()

	total := reader.NumPage()
	if maxPages > 0 && maxPages < total {
		total = maxPages
	}

	sections := make([]string, 0, total)
	for pageNum := 1; pageNum <= total; pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// A single malformed page should not sink the document.
			continue
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		sections = append(sections, fmt.Sprintf("--- Page %d ---\n%s", pageNum, text))
	}
	return strings.Join(sections, "\n\n"), nil
}

// WritePages writes the leading pages of the PDF at src to dst.
func WritePages(src, dst string, pages int) error {
	if pages <= 0 {
		return fmt.Errorf("trim %q: page count must be positive, got %d", src, pages)
	}
	selection := []string{fmt.Sprintf("1-%d", pages)}
	if err := api.TrimFile(src, dst, selection, nil); err != nil {
		return fmt.Errorf("trim %q to %d pages: %w", src, pages, err)
	}
	return nil
}
