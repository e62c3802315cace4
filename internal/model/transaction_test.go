package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTransactionType(t *testing.T) {
	for _, tt := range AllTransactionTypes() {
		got, err := ParseTransactionType(string(tt))
		require.NoError(t, err)
		assert.Equal(t, tt, got)
	}

	got, err := ParseTransactionType(" NSF ")
	require.NoError(t, err)
	assert.Equal(t, TypeNSF, got)

	_, err = ParseTransactionType("wire")
	assert.Error(t, err)
}

func TestParseDepositCategory(t *testing.T) {
	for _, c := range AllDepositCategories() {
		got, err := ParseDepositCategory(string(c))
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}

	_, err := ParseDepositCategory("loan_proceeds")
	assert.Error(t, err)
}

func TestTransactionSign(t *testing.T) {
	in := Transaction{Amount: decimal.NewFromInt(10)}
	out := Transaction{Amount: decimal.NewFromInt(-10)}
	zero := Transaction{}

	assert.True(t, in.IsDeposit())
	assert.False(t, in.IsWithdrawal())
	assert.True(t, out.IsWithdrawal())
	assert.False(t, zero.IsDeposit())
	assert.False(t, zero.IsWithdrawal())
}

func TestAddFlagDedupes(t *testing.T) {
	var txn Transaction
	txn.AddFlag(FlagP2PReview)
	txn.AddFlag(FlagP2PReview)
	txn.AddFlag(FlagMCAPayment)

	assert.Equal(t, []string{FlagP2PReview, FlagMCAPayment}, txn.Flags)
	assert.True(t, txn.HasFlag(FlagMCAPayment))
	assert.False(t, txn.HasFlag(FlagDateUnparsed))
}

func TestDay(t *testing.T) {
	loc := time.FixedZone("EST", -5*3600)
	got := Day(time.Date(2025, 3, 9, 23, 15, 0, 0, loc))
	assert.Equal(t, time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC), got)
}

func TestCategoryTotals(t *testing.T) {
	totals := NewCategoryTotals()
	require.Len(t, totals, len(AllDepositCategories()))
	for _, c := range AllDepositCategories() {
		assert.True(t, totals[c].IsZero(), "category %s should start at zero", c)
	}

	totals[CategoryTrueRevenue] = decimal.RequireFromString("100.25")
	totals[CategoryUnknown] = decimal.RequireFromString("0.75")
	assert.Equal(t, "101.00", totals.Sum().StringFixed(2))
}

func TestWarningString(t *testing.T) {
	w := Warning{Code: WarnDateUnparsed, Row: 3, Message: "bad date"}
	assert.Equal(t, "date_unparsed (row 3): bad date", w.String())

	w = Warning{Code: WarnNoRows, Message: "nothing"}
	assert.Equal(t, "no_rows: nothing", w.String())
}
