package analytics

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ledgerscan/internal/model"
	"github.com/cleared-dev/ledgerscan/internal/period"
)

// Trend is the direction of monthly deposits.
type Trend string

const (
	TrendIncreasing Trend = "increasing"
	TrendStable     Trend = "stable"
	TrendDecreasing Trend = "decreasing"
	// TrendVolatile is reserved for callers that flag high-variation series.
	// ClassifyTrend never returns it.
	TrendVolatile Trend = "volatile"
)

// trendThresholdPct is the percent change beyond which a trend is not stable.
const trendThresholdPct = 10.0

// MonthTotal is the deposit total for one calendar month.
type MonthTotal struct {
	Month period.Month    `json:"month"`
	Total decimal.Decimal `json:"total"`
}

// CashFlowMetrics summarises monthly deposits.
type CashFlowMetrics struct {
	TrailingAvg3Mo  decimal.Decimal `json:"trailing_avg_3mo"`
	TrailingAvg6Mo  decimal.Decimal `json:"trailing_avg_6mo"`
	TrailingAvg12Mo decimal.Decimal `json:"trailing_avg_12mo"`
	Trend           Trend           `json:"trend"`
	TrendPct        float64         `json:"trend_pct"`
	Volatility      float64         `json:"volatility"`
	HighestMonth    decimal.Decimal `json:"highest_month"`
	LowestMonth     decimal.Decimal `json:"lowest_month"`
	Months          []MonthTotal    `json:"months,omitempty"`
}

// CashFlowAnalyzer computes trailing averages, trend and volatility of
// monthly deposit totals.
type CashFlowAnalyzer struct {
	txns   []model.Transaction
	months []MonthTotal
	values []decimal.Decimal
}

// NewCashFlowAnalyzer creates an analyzer over txns.
func NewCashFlowAnalyzer(txns []model.Transaction) *CashFlowAnalyzer {
	return &CashFlowAnalyzer{txns: txns}
}

// SetMonthlyTotals supplies chronological monthly totals directly.
func (a *CashFlowAnalyzer) SetMonthlyTotals(totals []decimal.Decimal) {
	a.months = nil
	a.values = append([]decimal.Decimal(nil), totals...)
}

// SetMonths supplies keyed monthly totals directly. They must be in
// chronological order.
func (a *CashFlowAnalyzer) SetMonths(months []MonthTotal) {
	a.months = append([]MonthTotal(nil), months...)
	a.values = totalsOf(months)
}

// CalculateMetrics returns the metrics. With no supplied totals, totals are
// derived from positive transaction amounts per month.
func (a *CashFlowAnalyzer) CalculateMetrics() CashFlowMetrics {
	if len(a.values) == 0 && len(a.txns) > 0 {
		a.SetMonths(MonthlyDeposits(a.txns))
	}
	vals := a.values
	if len(vals) == 0 {
		return CashFlowMetrics{Trend: TrendStable}
	}

	trend, pct := ClassifyTrend(vals)
	lo, hi := minMax(vals)
	return CashFlowMetrics{
		TrailingAvg3Mo:  mean(lastN(vals, 3)).Round(2),
		TrailingAvg6Mo:  mean(lastN(vals, 6)).Round(2),
		TrailingAvg12Mo: mean(vals).Round(2),
		Trend:           trend,
		TrendPct:        roundTo(pct, 2),
		Volatility:      roundTo(coefficientOfVariation(vals), 4),
		HighestMonth:    hi,
		LowestMonth:     lo,
		Months:          a.months,
	}
}

// ClassifyTrend compares the mean of the last three months with the three
// before when at least six exist, otherwise the last value with the first.
// A zero baseline is stable with 0%.
func ClassifyTrend(vals []decimal.Decimal) (Trend, float64) {
	if len(vals) < 2 {
		return TrendStable, 0
	}

	var recent, prior decimal.Decimal
	if len(vals) >= 6 {
		recent = mean(vals[len(vals)-3:])
		prior = mean(vals[len(vals)-6 : len(vals)-3])
	} else {
		recent = vals[len(vals)-1]
		prior = vals[0]
	}
	if prior.IsZero() {
		return TrendStable, 0
	}

	pct := recent.Sub(prior).Div(prior).Mul(decimal.NewFromInt(100)).InexactFloat64()
	switch {
	case pct > trendThresholdPct:
		return TrendIncreasing, pct
	case pct < -trendThresholdPct:
		return TrendDecreasing, pct
	default:
		return TrendStable, pct
	}
}

// MonthlyDeposits sums positive amounts per calendar month, oldest first.
func MonthlyDeposits(txns []model.Transaction) []MonthTotal {
	return monthly(txns, func(t model.Transaction) bool { return t.IsDeposit() })
}

// MonthlyTrueRevenue sums true-revenue deposits per calendar month, oldest
// first. Transactions must already be categorized.
func MonthlyTrueRevenue(txns []model.Transaction) []MonthTotal {
	return monthly(txns, func(t model.Transaction) bool {
		return t.IsDeposit() && t.Category == model.CategoryTrueRevenue
	})
}

// FillMonths returns one entry per month from first to last inclusive,
// taking totals from months and zero for any month it lacks.
func FillMonths(months []MonthTotal, first, last period.Month) []MonthTotal {
	sums := make(map[period.Month]decimal.Decimal, len(months))
	for _, m := range months {
		sums[m.Month] = sums[m.Month].Add(m.Total)
	}

	var out []MonthTotal
	for m := first; !last.Before(m); m = m.Next() {
		out = append(out, MonthTotal{Month: m, Total: sums[m]})
	}
	return out
}

func monthly(txns []model.Transaction, keep func(model.Transaction) bool) []MonthTotal {
	sums := make(map[period.Month]decimal.Decimal)
	for _, t := range txns {
		if !keep(t) {
			continue
		}
		m := period.Of(t.Date)
		sums[m] = sums[m].Add(t.Amount)
	}

	out := make([]MonthTotal, 0, len(sums))
	for m, total := range sums {
		out = append(out, MonthTotal{Month: m, Total: total})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month.Before(out[j].Month) })
	return out
}

func totalsOf(months []MonthTotal) []decimal.Decimal {
	out := make([]decimal.Decimal, len(months))
	for i, m := range months {
		out[i] = m.Total
	}
	return out
}

func lastN(vals []decimal.Decimal, n int) []decimal.Decimal {
	if len(vals) <= n {
		return vals
	}
	return vals[len(vals)-n:]
}
