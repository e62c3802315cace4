package ledger

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ledgerscan/internal/model"
)

// Header is the CSV header for an exported ledger.
const Header = "date,description,amount,balance,type,category,confidence,matched_pattern,lender,flags"

const (
	numFields     = 10
	dateFormat    = "2006-01-02"
	flagSep       = ";"
	colDate       = 0
	colDesc       = 1
	colAmount     = 2
	colBalance    = 3
	colType       = 4
	colCategory   = 5
	colConfidence = 6
	colPattern    = 7
	colLender     = 8
	colFlags      = 9
)

// ReadTransactions reads all transactions from a ledger CSV reader.
func ReadTransactions(r io.Reader) ([]model.Transaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading ledger CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}
	if strings.Join(records[0], ",") != Header {
		return nil, fmt.Errorf("reading ledger CSV: unexpected header %q", strings.Join(records[0], ","))
	}

	var txns []model.Transaction
	for i, rec := range records[1:] {
		t, err := UnmarshalTransaction(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		txns = append(txns, t)
	}
	return txns, nil
}

// WriteTransactions writes transactions to a ledger CSV writer (including header).
func WriteTransactions(w io.Writer, txns []model.Transaction) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, t := range txns {
		if err := cw.Write(MarshalTransaction(t)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFile writes a ledger CSV to path.
func WriteFile(path string, txns []model.Transaction) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating ledger: %w", err)
	}
	if err := WriteTransactions(f, txns); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadFile reads a ledger CSV from path.
func ReadFile(path string) ([]model.Transaction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening ledger: %w", err)
	}
	defer f.Close()

	return ReadTransactions(f)
}

// MarshalTransaction converts a Transaction to a CSV row.
func MarshalTransaction(t model.Transaction) []string {
	row := make([]string, numFields)
	row[colDate] = t.Date.Format(dateFormat)
	row[colDesc] = t.Description
	row[colAmount] = t.Amount.StringFixed(2)
	row[colBalance] = t.Balance.StringFixed(2)
	row[colType] = string(t.Type)
	row[colCategory] = string(t.Category)

	if t.Confidence != 0 {
		row[colConfidence] = strconv.FormatFloat(t.Confidence, 'f', 2, 64)
	}

	row[colPattern] = t.MatchedPattern
	row[colLender] = t.Lender
	row[colFlags] = strings.Join(t.Flags, flagSep)
	return row
}

// UnmarshalTransaction converts a CSV row to a Transaction.
func UnmarshalTransaction(record []string) (model.Transaction, error) {
	if len(record) != numFields {
		return model.Transaction{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	date, err := time.Parse(dateFormat, record[colDate])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing date %q: %w", record[colDate], err)
	}

	amount, err := decimal.NewFromString(record[colAmount])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing amount %q: %w", record[colAmount], err)
	}

	balance, err := decimal.NewFromString(record[colBalance])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing balance %q: %w", record[colBalance], err)
	}

	typ, err := model.ParseTransactionType(record[colType])
	if err != nil {
		return model.Transaction{}, err
	}

	var category model.DepositCategory
	if record[colCategory] != "" {
		category, err = model.ParseDepositCategory(record[colCategory])
		if err != nil {
			return model.Transaction{}, err
		}
	}

	var confidence float64
	if record[colConfidence] != "" {
		confidence, err = strconv.ParseFloat(record[colConfidence], 64)
		if err != nil {
			return model.Transaction{}, fmt.Errorf("parsing confidence %q: %w", record[colConfidence], err)
		}
	}

	var flags []string
	if record[colFlags] != "" {
		flags = strings.Split(record[colFlags], flagSep)
	}

	return model.Transaction{
		Date:           date,
		Description:    record[colDesc],
		Amount:         amount,
		Balance:        balance,
		Type:           typ,
		Category:       category,
		Confidence:     confidence,
		MatchedPattern: record[colPattern],
		Lender:         record[colLender],
		Flags:          flags,
	}, nil
}
