package importer

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
)

// CSVExtractor reads a delimited bank export as a single table.
// Ragged rows are accepted; header mapping happens in the parser.
type CSVExtractor struct{}

// Format returns the extractor name.
func (e *CSVExtractor) Format() string { return "csv" }

// Extensions returns the file extensions handled.
func (e *CSVExtractor) Extensions() []string { return []string{".csv", ".txt"} }

// Extract parses data as CSV.
func (e *CSVExtractor) Extract(ctx context.Context, name string, data []byte) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}

	cr := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return Document{}, fmt.Errorf("reading %s: %w", name, err)
	}

	return Document{
		Pages:  []string{tableText(records)},
		Tables: [][][]string{records},
	}, nil
}
