// Package pdftext extracts the embedded text layer of a patent PDF,
// page by page. Only the text layer is read; scanned image-only documents
// yield empty pages.
package pdftext

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
)

const maxPDFBytes = 20 * 1024 * 1024

// DocumentOpenError marks input that could not be opened as a PDF at all.
// It is terminal for an analysis request; there is nothing to extract.
type DocumentOpenError struct {
	cause error
}

func (e *DocumentOpenError) Error() string {
	return fmt.Sprintf("cannot open document as PDF: %v", e.cause)
}

func (e *DocumentOpenError) Unwrap() error { return e.cause }

// Extraction holds per-page text in page order plus the concatenated full
// text with page boundary markers. Warnings record pages whose extraction
// failed; those pages contribute an empty string.
type Extraction struct {
	PageTexts []string
	FullText  string
	Warnings  []string
}

// Extract reads every page of the document. A failing page is isolated:
// it becomes an empty entry plus a warning, and later pages still run.
// Unopenable input fails with *DocumentOpenError and an empty result.
func Extract(data []byte) (Extraction, error) {
	if len(data) > maxPDFBytes {
		return Extraction{}, &DocumentOpenError{cause: fmt.Errorf("pdf too large: %d bytes", len(data))}
	}

	// pdfcpu validates the container up front; ledongthuc/pdf is lenient
	// enough to limp through some corrupt files and panic later.
	if _, err := api.PageCount(bytes.NewReader(data), nil); err != nil {
		return Extraction{}, &DocumentOpenError{cause: err}
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Extraction{}, &DocumentOpenError{cause: err}
	}

	total := reader.NumPage()
	ext := Extraction{PageTexts: make([]string, 0, total)}
	fonts := make(map[string]*pdf.Font)
	var full strings.Builder

	for n := 1; n <= total; n++ {
		text, err := extractPage(reader, fonts, n)
		if err != nil {
			ext.Warnings = append(ext.Warnings, fmt.Sprintf("page %d: %v", n, err))
			text = ""
		}
		ext.PageTexts = append(ext.PageTexts, text)
		fmt.Fprintf(&full, "\n\n<<<<< PAGE %d / %d >>>>>\n\n%s", n, total, text)
	}

	ext.FullText = full.String()
	return ext, nil
}

// extractPage reads one page's text. The pdf library panics on some
// malformed content streams, so the panic is converted into a per-page
// error here instead of escaping the component.
func extractPage(reader *pdf.Reader, fonts map[string]*pdf.Font, n int) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("text extraction panic: %v", r)
		}
	}()

	p := reader.Page(n)
	if p.V.IsNull() {
		return "", fmt.Errorf("page object missing")
	}
	for _, name := range p.Fonts() {
		if _, ok := fonts[name]; !ok {
			f := p.Font(name)
			fonts[name] = &f
		}
	}
	return p.GetPlainText(fonts)
}
