package importer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrNoText is returned for PDFs with no extractable text, typically scans.
var ErrNoText = errors.New("no extractable text")

// PDFExtractor recovers page text from a text-based PDF statement, one
// line per visual row.
type PDFExtractor struct{}

// Format returns the extractor name.
func (e *PDFExtractor) Format() string { return "pdf" }

// Extensions returns the file extensions handled.
func (e *PDFExtractor) Extensions() []string { return []string{".pdf"} }

// Extract returns the text of every non-empty page.
func (e *PDFExtractor) Extract(ctx context.Context, name string, data []byte) (doc Document, err error) {
	// The PDF library panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("reading %s: PDF library crashed: %v", name, r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Document{}, fmt.Errorf("opening %s: %w", name, err)
	}

	numPages := r.NumPage()
	for i := 1; i <= numPages; i++ {
		if err := ctx.Err(); err != nil {
			return Document{}, err
		}

		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			return Document{}, fmt.Errorf("reading %s page %d: %w", name, i, err)
		}

		var lines []string
		for _, row := range rows {
			parts := make([]string, 0, len(row.Content))
			for _, word := range row.Content {
				parts = append(parts, word.S)
			}
			if line := strings.TrimSpace(strings.Join(parts, " ")); line != "" {
				lines = append(lines, line)
			}
		}
		doc.Pages = append(doc.Pages, strings.Join(lines, "\n"))
	}

	if strings.TrimSpace(doc.Text()) == "" {
		return Document{}, fmt.Errorf("%s: %w", name, ErrNoText)
	}
	return doc, nil
}
