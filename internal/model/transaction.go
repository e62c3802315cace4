package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType is the economic nature of a transaction.
type TransactionType string

const (
	TypeDeposit    TransactionType = "deposit"
	TypeWithdrawal TransactionType = "withdrawal"
	TypeTransfer   TransactionType = "transfer"
	TypeFee        TransactionType = "fee"
	TypeInterest   TransactionType = "interest"
	TypeNSF        TransactionType = "nsf"
	TypeUnknown    TransactionType = "unknown"
)

// AllTransactionTypes returns every transaction type in display order.
func AllTransactionTypes() []TransactionType {
	return []TransactionType{TypeDeposit, TypeWithdrawal, TypeTransfer, TypeFee, TypeInterest, TypeNSF, TypeUnknown}
}

// ParseTransactionType validates s against the closed set of types.
func ParseTransactionType(s string) (TransactionType, error) {
	t := TransactionType(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range AllTransactionTypes() {
		if t == known {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown transaction type %q", s)
}

// DepositCategory classifies where an inflow came from.
type DepositCategory string

const (
	CategoryTrueRevenue DepositCategory = "true_revenue"
	CategoryNonRevenue  DepositCategory = "non_revenue"
	CategoryMCAFunding  DepositCategory = "mca_funding"
	CategoryUnknown     DepositCategory = "unknown"
)

// AllDepositCategories returns every deposit category in fixed order.
func AllDepositCategories() []DepositCategory {
	return []DepositCategory{CategoryTrueRevenue, CategoryNonRevenue, CategoryMCAFunding, CategoryUnknown}
}

// ParseDepositCategory validates s against the closed set of categories.
func ParseDepositCategory(s string) (DepositCategory, error) {
	c := DepositCategory(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range AllDepositCategories() {
		if c == known {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown deposit category %q", s)
}

// Advisory flags attached to transactions.
const (
	FlagDateUnparsed   = "DATE_UNPARSED"
	FlagBalanceDerived = "BALANCE_DERIVED"
	FlagP2PReview      = "P2P_REVIEW_REQUIRED"
	FlagMCAPayment     = "MCA_PAYMENT"
)

// Transaction is one recovered statement line.
type Transaction struct {
	Date           time.Time       `json:"date"`
	Description    string          `json:"description"`
	Amount         decimal.Decimal `json:"amount"`  // positive = inflow, negative = outflow
	Balance        decimal.Decimal `json:"balance"` // ledger balance after this transaction
	Type           TransactionType `json:"type"`
	Category       DepositCategory `json:"category,omitempty"`
	Confidence     float64         `json:"confidence,omitempty"`
	MatchedPattern string          `json:"matched_pattern,omitempty"`
	Lender         string          `json:"lender,omitempty"` // MCA lender name, empty if none matched
	Flags          []string        `json:"flags,omitempty"`
	Raw            string          `json:"raw,omitempty"`
}

// IsDeposit reports whether the transaction is an inflow.
func (t Transaction) IsDeposit() bool { return t.Amount.IsPositive() }

// IsWithdrawal reports whether the transaction is an outflow.
func (t Transaction) IsWithdrawal() bool { return t.Amount.IsNegative() }

// HasFlag reports whether flag is set.
func (t Transaction) HasFlag(flag string) bool {
	for _, f := range t.Flags {
		if f == flag {
			return true
		}
	}
	return false
}

// AddFlag sets flag once.
func (t *Transaction) AddFlag(flag string) {
	if !t.HasFlag(flag) {
		t.Flags = append(t.Flags, flag)
	}
}

// Day truncates a time to midnight UTC of the same calendar date.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
