// Package pdfutil estimates document page counts for print-job costing.
package pdfutil

import (
	"bytes"

	pdf "github.com/ledongthuc/pdf"
)

// MIMEPDF is the only content type whose page count is read from the
// document itself.
const MIMEPDF = "application/pdf"

// CountPages returns the page count of a PDF, or 1 for any other content
// type. Page count is a best-effort derived value: a PDF that fails to
// parse counts as a single page rather than failing the submission.
func CountPages(data []byte, contentType string) (n int) {
	// The parser can panic on malformed cross-reference tables.
	defer func() {
		if recover() != nil {
			n = 1
		}
	}()

	if contentType != MIMEPDF {
		return 1
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 1
	}
	if pages := reader.NumPage(); pages > 0 {
		return pages
	}
	return 1
}

// Counter adapts CountPages to the page-counter interface the print job
// service consumes.
type Counter struct{}

func (Counter) CountPages(data []byte, contentType string) int {
	return CountPages(data, contentType)
}
