package importer

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// XLSXExtractor reads the first worksheet of an Excel workbook.
type XLSXExtractor struct{}

// Format returns the extractor name.
func (e *XLSXExtractor) Format() string { return "xlsx" }

// Extensions returns the file extensions handled.
func (e *XLSXExtractor) Extensions() []string { return []string{".xlsx"} }

// Extract returns the first sheet's rows as a single table.
func (e *XLSXExtractor) Extract(ctx context.Context, name string, data []byte) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}

	xl, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return Document{}, fmt.Errorf("opening workbook %s: %w", name, err)
	}
	defer xl.Close()

	sheet := xl.GetSheetName(0)
	rows, err := xl.GetRows(sheet)
	if err != nil {
		return Document{}, fmt.Errorf("reading sheet %q: %w", sheet, err)
	}

	return Document{
		Pages:  []string{tableText(rows)},
		Tables: [][][]string{rows},
	}, nil
}
