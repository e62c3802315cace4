package importer

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strings"
)

// ChaseCSV reads Chase checking CSV exports, whose layout is
// Details,Posting Date,Description,Amount,Type,Balance,Check or Slip #.
// The result is a normalized table with a date,description,amount,balance
// header. Pending rows carry a blank balance. Cells are passed through
// unvalidated and short rows are padded with blanks, so a malformed row
// surfaces as a parser warning instead of failing the document.
type ChaseCSV struct{}

const (
	chaseColDate    = 1
	chaseColDesc    = 2
	chaseColAmount  = 3
	chaseColBalance = 5
	chaseColCheck   = 6
)

// ChaseHeader is the first row of a Chase checking export.
const ChaseHeader = "Details,Posting Date,Description,Amount,Type,Balance,Check or Slip #"

// Format returns the extractor name.
func (e *ChaseCSV) Format() string { return "chase" }

// Extensions is empty: Chase exports are plain .csv files handled by
// CSVExtractor unless ChaseCSV is requested by name.
func (e *ChaseCSV) Extensions() []string { return nil }

// Extract reads a Chase export into a normalized table.
func (e *ChaseCSV) Extract(ctx context.Context, name string, data []byte) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}

	cr := csv.NewReader(bytes.NewReader(data))
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return Document{}, fmt.Errorf("reading chase CSV: %w", err)
	}
	if len(records) == 0 || strings.Join(records[0], ",") != ChaseHeader {
		return Document{}, fmt.Errorf("%s: not a Chase export: %w", name, ErrUnsupportedFormat)
	}

	table := [][]string{{"date", "description", "amount", "balance"}}
	for _, rec := range records[1:] {
		table = append(table, chaseRow(rec))
	}

	return Document{
		Pages:  []string{"Chase\n" + tableText(records)},
		Tables: [][][]string{table},
	}, nil
}

func chaseRow(rec []string) []string {
	desc := chaseField(rec, chaseColDesc)
	if check := strings.TrimSpace(chaseField(rec, chaseColCheck)); check != "" {
		desc = fmt.Sprintf("%s CHECK %s", desc, check)
	}

	return []string{
		chaseField(rec, chaseColDate),
		desc,
		chaseField(rec, chaseColAmount),
		chaseField(rec, chaseColBalance),
	}
}

func chaseField(rec []string, i int) string {
	if i >= len(rec) {
		return ""
	}
	return rec[i]
}
