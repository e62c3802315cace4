package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// WarningCode identifies a non-fatal problem found while processing a statement.
type WarningCode string

const (
	WarnDateUnparsed          WarningCode = "date_unparsed"
	WarnAmountUnparsed        WarningCode = "amount_unparsed"
	WarnBalanceUnparsed       WarningCode = "balance_unparsed"
	WarnNoRows                WarningCode = "no_rows"
	WarnBalanceMismatch       WarningCode = "balance_mismatch"
	WarnStatedBalanceMismatch WarningCode = "stated_balance_mismatch"
)

// Warning is a non-fatal problem. Row is 1-based, 0 when not tied to a row.
type Warning struct {
	Code    WarningCode `json:"code"`
	Row     int         `json:"row,omitempty"`
	Message string      `json:"message"`
}

func (w Warning) String() string {
	if w.Row > 0 {
		return fmt.Sprintf("%s (row %d): %s", w.Code, w.Row, w.Message)
	}
	return fmt.Sprintf("%s: %s", w.Code, w.Message)
}

// CategoryTotals maps each deposit category to its accumulated inflow.
type CategoryTotals map[DepositCategory]decimal.Decimal

// NewCategoryTotals returns totals with every known category at zero.
func NewCategoryTotals() CategoryTotals {
	totals := make(CategoryTotals, len(AllDepositCategories()))
	for _, c := range AllDepositCategories() {
		totals[c] = decimal.Zero
	}
	return totals
}

// Sum adds up all categories.
func (c CategoryTotals) Sum() decimal.Decimal {
	sum := decimal.Zero
	for _, v := range c {
		sum = sum.Add(v)
	}
	return sum
}

// StatedBalances are the balance figures printed on the statement itself.
// Nil fields were not found in the document text.
type StatedBalances struct {
	Beginning    *decimal.Decimal `json:"beginning,omitempty"`
	Ending       *decimal.Decimal `json:"ending,omitempty"`
	AverageDaily *decimal.Decimal `json:"average_daily,omitempty"`
}

// StatementSummary is the assembled result for one document.
type StatementSummary struct {
	Bank                string          `json:"bank"`
	PeriodStart         time.Time       `json:"period_start"`
	PeriodEnd           time.Time       `json:"period_end"`
	BeginningBalance    decimal.Decimal `json:"beginning_balance"`
	EndingBalance       decimal.Decimal `json:"ending_balance"`
	TotalDeposits       decimal.Decimal `json:"total_deposits"`
	TotalWithdrawals    decimal.Decimal `json:"total_withdrawals"`
	DepositCount        int             `json:"deposit_count"`
	WithdrawalCount     int             `json:"withdrawal_count"`
	NSFCount            int             `json:"nsf_count"`
	AverageDailyBalance decimal.Decimal `json:"average_daily_balance"`
	NegativeBalanceDays int             `json:"negative_balance_days"`
	LowBalanceDays      int             `json:"low_balance_days"`
	CategoryTotals      CategoryTotals  `json:"category_totals"`
	MCALenders          []string        `json:"mca_lenders"`
	StatedBalances      StatedBalances  `json:"stated_balances"`
	Transactions        []Transaction   `json:"transactions"`
	Warnings            []Warning       `json:"warnings"`
}
