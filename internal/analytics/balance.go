package analytics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ledgerscan/internal/model"
)

// DefaultLowBalanceThreshold is the balance below which a day counts as low.
var DefaultLowBalanceThreshold = decimal.NewFromInt(1000)

// DailyBalance is the end-of-day ledger balance for one date.
type DailyBalance struct {
	Date    time.Time       `json:"date"`
	Balance decimal.Decimal `json:"balance"`
}

// DailyBalanceMap is a date-ordered series of end-of-day balances.
type DailyBalanceMap struct {
	days []DailyBalance
}

// NewDailyBalanceMap builds a series from a date->balance map. Dates are
// truncated to the day and ordered; gaps are kept as given.
func NewDailyBalanceMap(m map[time.Time]decimal.Decimal) DailyBalanceMap {
	days := make([]DailyBalance, 0, len(m))
	for d, b := range m {
		days = append(days, DailyBalance{Date: model.Day(d), Balance: b})
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date.Before(days[j].Date) })
	return DailyBalanceMap{days: days}
}

// BuildDailyBalances reconstructs one balance per calendar day from the
// first to the last transaction date inclusive. The opening balance is
// first.Balance - first.Amount; each transaction sets the running balance
// to its stated balance and days without activity carry the prior value.
func BuildDailyBalances(txns []model.Transaction) DailyBalanceMap {
	if len(txns) == 0 {
		return DailyBalanceMap{}
	}

	sorted := make([]model.Transaction, len(txns))
	copy(sorted, txns)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	start := model.Day(sorted[0].Date)
	end := model.Day(sorted[len(sorted)-1].Date)
	current := sorted[0].Balance.Sub(sorted[0].Amount)

	var days []DailyBalance
	idx := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		for idx < len(sorted) && model.Day(sorted[idx].Date).Equal(d) {
			current = sorted[idx].Balance
			idx++
		}
		days = append(days, DailyBalance{Date: d, Balance: current})
	}
	return DailyBalanceMap{days: days}
}

// Len returns the number of days.
func (m DailyBalanceMap) Len() int { return len(m.days) }

// Days returns a copy of the series.
func (m DailyBalanceMap) Days() []DailyBalance {
	out := make([]DailyBalance, len(m.days))
	copy(out, m.days)
	return out
}

// Values returns the balances in date order.
func (m DailyBalanceMap) Values() []decimal.Decimal {
	out := make([]decimal.Decimal, len(m.days))
	for i, d := range m.days {
		out[i] = d.Balance
	}
	return out
}

// Get returns the balance on date.
func (m DailyBalanceMap) Get(date time.Time) (decimal.Decimal, bool) {
	date = model.Day(date)
	i := sort.Search(len(m.days), func(i int) bool { return !m.days[i].Date.Before(date) })
	if i < len(m.days) && m.days[i].Date.Equal(date) {
		return m.days[i].Balance, true
	}
	return decimal.Zero, false
}

// Map returns the series as a date->balance map.
func (m DailyBalanceMap) Map() map[time.Time]decimal.Decimal {
	out := make(map[time.Time]decimal.Decimal, len(m.days))
	for _, d := range m.days {
		out[d.Date] = d.Balance
	}
	return out
}

// Since returns the days on or after start.
func (m DailyBalanceMap) Since(start time.Time) DailyBalanceMap {
	start = model.Day(start)
	i := sort.Search(len(m.days), func(i int) bool { return !m.days[i].Date.Before(start) })
	return DailyBalanceMap{days: m.days[i:]}
}

// BalanceMetrics summarises a daily balance series.
type BalanceMetrics struct {
	AverageDailyBalance decimal.Decimal `json:"average_daily_balance"`
	Lowest              decimal.Decimal `json:"lowest_balance"`
	Highest             decimal.Decimal `json:"highest_balance"`
	NegativeDays        int             `json:"negative_days"`
	LowBalanceDays      int             `json:"low_balance_days"`
	LowBalanceThreshold decimal.Decimal `json:"low_balance_threshold"`
	Volatility          float64         `json:"volatility"`
}

// BalanceTracker computes balance metrics for one statement.
type BalanceTracker struct {
	txns      []model.Transaction
	daily     *DailyBalanceMap
	threshold decimal.Decimal
}

// NewBalanceTracker creates a tracker over txns.
func NewBalanceTracker(txns []model.Transaction) *BalanceTracker {
	return &BalanceTracker{txns: txns, threshold: DefaultLowBalanceThreshold}
}

// SetThreshold sets the low-balance threshold.
func (b *BalanceTracker) SetThreshold(threshold decimal.Decimal) {
	b.threshold = threshold
}

// SetDailyBalances supplies a pre-built series instead of reconstructing
// one from transactions.
func (b *BalanceTracker) SetDailyBalances(m DailyBalanceMap) {
	b.daily = &m
}

// DailyBalances returns the series, building it on first use.
func (b *BalanceTracker) DailyBalances() DailyBalanceMap {
	if b.daily == nil {
		m := BuildDailyBalances(b.txns)
		b.daily = &m
	}
	return *b.daily
}

// Calculate returns the metrics. Negative days have balance < 0; low days
// have 0 <= balance < threshold.
func (b *BalanceTracker) Calculate() BalanceMetrics {
	vals := b.DailyBalances().Values()
	if len(vals) == 0 {
		return BalanceMetrics{LowBalanceThreshold: b.threshold}
	}

	var negative, low int
	for _, v := range vals {
		switch {
		case v.IsNegative():
			negative++
		case v.LessThan(b.threshold):
			low++
		}
	}

	lo, hi := minMax(vals)
	return BalanceMetrics{
		AverageDailyBalance: mean(vals).Round(2),
		Lowest:              lo,
		Highest:             hi,
		NegativeDays:        negative,
		LowBalanceDays:      low,
		LowBalanceThreshold: b.threshold,
		Volatility:          roundTo(coefficientOfVariation(vals), 4),
	}
}
