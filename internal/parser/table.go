package parser

import (
	"errors"
	"strings"
)

// ErrNoHeader is returned by TableRows when no row names both a date column
// and an amount-bearing column.
var ErrNoHeader = errors.New("no header row with date and amount columns")

// Header aliases, in preference order. A header cell matches after
// lowercasing and collapsing whitespace.
var (
	dateAliases    = []string{"date", "posting date", "post date", "transaction date", "trans date", "value date"}
	descAliases    = []string{"description", "memo", "details", "payee", "narrative", "transaction"}
	amountAliases  = []string{"amount", "transaction amount", "amt"}
	debitAliases   = []string{"debit", "debits", "withdrawal", "withdrawals", "withdrawal amount", "debit amount"}
	creditAliases  = []string{"credit", "credits", "deposit", "deposits", "deposit amount", "credit amount"}
	balanceAliases = []string{"balance", "running balance", "ledger balance", "running bal."}
)

type columns struct {
	date, desc, amount, debit, credit, balance int
}

func (c columns) usable() bool {
	return c.date >= 0 && (c.amount >= 0 || c.debit >= 0 || c.credit >= 0)
}

// TableRows maps an extracted table to rows. The first row whose cells
// resolve to a date column and an amount column (or debit/credit columns)
// is the header; rows after it are data. Blank rows and rows with neither
// date nor amount are skipped.
func TableRows(table [][]string) ([]Row, error) {
	for i, header := range table {
		cols := resolveColumns(header)
		if !cols.usable() {
			continue
		}
		return dataRows(table[i+1:], cols), nil
	}
	return nil, ErrNoHeader
}

func resolveColumns(header []string) columns {
	norm := make([]string, len(header))
	for i, h := range header {
		norm[i] = strings.Join(strings.Fields(strings.ToLower(h)), " ")
	}
	find := func(aliases []string) int {
		for _, a := range aliases {
			for i, h := range norm {
				if h == a {
					return i
				}
			}
		}
		return -1
	}
	return columns{
		date:    find(dateAliases),
		desc:    find(descAliases),
		amount:  find(amountAliases),
		debit:   find(debitAliases),
		credit:  find(creditAliases),
		balance: find(balanceAliases),
	}
}

func dataRows(records [][]string, cols columns) []Row {
	var rows []Row
	for _, rec := range records {
		date := cell(rec, cols.date)
		amount := rowAmount(rec, cols)
		if date == "" && amount == "" {
			continue
		}
		rows = append(rows, Row{
			Date:        date,
			Description: cell(rec, cols.desc),
			Amount:      amount,
			Balance:     cell(rec, cols.balance),
			Raw:         strings.Join(rec, ","),
		})
	}
	return rows
}

// rowAmount returns the signed amount text. A single amount column wins;
// otherwise a non-zero credit is an inflow and a debit an outflow.
func rowAmount(rec []string, cols columns) string {
	if cols.amount >= 0 {
		return cell(rec, cols.amount)
	}
	if credit := cell(rec, cols.credit); credit != "" {
		if d, err := ParseAmount(credit); err != nil || !d.IsZero() {
			return credit
		}
	}
	debit := cell(rec, cols.debit)
	if debit == "" {
		return ""
	}
	d, err := ParseAmount(debit)
	if err != nil {
		return debit
	}
	return d.Abs().Neg().String()
}

func cell(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}
