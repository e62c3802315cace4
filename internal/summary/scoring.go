package summary

import (
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ledgerscan/internal/analytics"
	"github.com/cleared-dev/ledgerscan/internal/model"
	"github.com/cleared-dev/ledgerscan/internal/period"
)

// ScoringWindowDays is the look-back window for the scoring hand-off.
const ScoringWindowDays = 90

// BankAnalytics is the input expected by the external scoring engine.
// Window figures cover the last ScoringWindowDays of the statement period.
type BankAnalytics struct {
	MonthlyTrueRevenue  decimal.Decimal `json:"monthly_true_revenue"`
	AverageDailyBalance decimal.Decimal `json:"average_daily_balance"`
	NSFCount90d         int             `json:"nsf_count_90d"`
	NegativeDays90d     int             `json:"negative_days_90d"`
	DepositVariance     float64         `json:"deposit_variance"`
	TotalDeposits90d    decimal.Decimal `json:"total_deposits_90d"`
	TotalWithdrawals90d decimal.Decimal `json:"total_withdrawals_90d"`
	MCAPositions        []string        `json:"mca_positions"`
	NetCashFlow         decimal.Decimal `json:"net_cash_flow"`
	// CashFlowMargin is net cash flow over deposits in the window; nil
	// without deposits.
	CashFlowMargin  *float64         `json:"cash_flow_margin,omitempty"`
	Trailing3MoAvg  *decimal.Decimal `json:"trailing_3mo_avg,omitempty"`
	Trailing6MoAvg  *decimal.Decimal `json:"trailing_6mo_avg,omitempty"`
	Trailing12MoAvg *decimal.Decimal `json:"trailing_12mo_avg,omitempty"`
}

// ScoringInput derives the scoring-engine input from a report. Monthly
// and trailing revenue figures use true-revenue deposits only; every month
// of the statement period counts, zero when it had none.
func (a *Assembler) ScoringInput(r Report) BankAnalytics {
	out := BankAnalytics{
		MonthlyTrueRevenue:  decimal.Zero,
		AverageDailyBalance: decimal.Zero,
		TotalDeposits90d:    decimal.Zero,
		TotalWithdrawals90d: decimal.Zero,
		NetCashFlow:         decimal.Zero,
		MCAPositions:        append([]string{}, r.MCALenders...),
	}
	if len(r.Transactions) == 0 {
		return out
	}

	since := r.PeriodEnd.AddDate(0, 0, -(ScoringWindowDays - 1))

	window := r.daily.Since(since)
	tracker := analytics.NewBalanceTracker(nil)
	tracker.SetDailyBalances(window)
	wb := tracker.Calculate()
	out.AverageDailyBalance = wb.AverageDailyBalance
	out.NegativeDays90d = wb.NegativeDays

	out.NSFCount90d = a.nsf.CountSince(r.Transactions, since)

	for _, t := range r.Transactions {
		if t.Date.Before(since) {
			continue
		}
		switch {
		case t.IsDeposit():
			out.TotalDeposits90d = out.TotalDeposits90d.Add(t.Amount)
		case t.IsWithdrawal():
			out.TotalWithdrawals90d = out.TotalWithdrawals90d.Add(t.Amount.Abs())
		}
	}
	out.NetCashFlow = out.TotalDeposits90d.Sub(out.TotalWithdrawals90d)
	if out.TotalDeposits90d.IsPositive() {
		margin, _ := out.NetCashFlow.Div(out.TotalDeposits90d).Round(4).Float64()
		out.CashFlowMargin = &margin
	}

	out.DepositVariance = r.CashFlow.Volatility

	revenue := analytics.NewCashFlowAnalyzer(nil)
	revenue.SetMonths(analytics.FillMonths(
		analytics.MonthlyTrueRevenue(r.Transactions),
		period.Of(r.PeriodStart), period.Of(r.PeriodEnd),
	))
	rm := revenue.CalculateMetrics()
	if len(rm.Months) > 0 {
		out.MonthlyTrueRevenue = rm.TrailingAvg12Mo
		out.Trailing3MoAvg = decimalPtr(rm.TrailingAvg3Mo)
		out.Trailing6MoAvg = decimalPtr(rm.TrailingAvg6Mo)
		out.Trailing12MoAvg = decimalPtr(rm.TrailingAvg12Mo)
	}
	return out
}

// HasNoRows reports whether the summary was assembled from no transactions.
func HasNoRows(s model.StatementSummary) bool {
	for _, w := range s.Warnings {
		if w.Code == model.WarnNoRows {
			return true
		}
	}
	return false
}

func decimalPtr(d decimal.Decimal) *decimal.Decimal {
	return &d
}
