package summary

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ledgerscan/internal/analytics"
	"github.com/cleared-dev/ledgerscan/internal/classify"
	"github.com/cleared-dev/ledgerscan/internal/model"
)

// Input is everything the assembler needs for one statement.
type Input struct {
	Bank         string
	Transactions []model.Transaction
	Warnings     []model.Warning
	Stated       model.StatedBalances
}

// Report is a statement summary together with the analytics behind it.
// The summary fields are inlined when encoded as JSON.
type Report struct {
	model.StatementSummary
	Balance  analytics.BalanceMetrics  `json:"balance"`
	CashFlow analytics.CashFlowMetrics `json:"cash_flow"`
	NSF      analytics.NSFMetrics      `json:"nsf"`

	daily analytics.DailyBalanceMap
}

// DailyBalances returns the reconstructed daily balance series.
func (r Report) DailyBalances() analytics.DailyBalanceMap {
	return r.daily
}

// Assembler builds statement reports.
type Assembler struct {
	categorizer *classify.Categorizer
	nsf         *analytics.NSFAnalyzer
	threshold   decimal.Decimal
}

// NewAssembler creates an assembler. The threshold is used as given; a zero
// threshold turns off low-balance day counting.
func NewAssembler(categorizer *classify.Categorizer, nsf *analytics.NSFAnalyzer, lowBalanceThreshold decimal.Decimal) *Assembler {
	return &Assembler{categorizer: categorizer, nsf: nsf, threshold: lowBalanceThreshold}
}

// DefaultAssembler uses the built-in patterns and threshold.
func DefaultAssembler() *Assembler {
	return NewAssembler(classify.DefaultCategorizer(), analytics.DefaultNSFAnalyzer(), analytics.DefaultLowBalanceThreshold)
}

// Assemble builds the report. An input without transactions yields an
// all-zero summary carrying a no_rows warning.
func (a *Assembler) Assemble(in Input) Report {
	warnings := append([]model.Warning(nil), in.Warnings...)

	if len(in.Transactions) == 0 {
		warnings = append(warnings, model.Warning{Code: model.WarnNoRows, Message: "no transactions found"})
		return Report{
			StatementSummary: model.StatementSummary{
				Bank:           in.Bank,
				CategoryTotals: model.NewCategoryTotals(),
				MCALenders:     []string{},
				StatedBalances: in.Stated,
				Transactions:   []model.Transaction{},
				Warnings:       warnings,
			},
			Balance:  analytics.BalanceMetrics{LowBalanceThreshold: a.threshold},
			CashFlow: analytics.CashFlowMetrics{Trend: analytics.TrendStable},
			NSF:      a.nsf.Analyze(nil),
		}
	}

	txns := make([]model.Transaction, len(in.Transactions))
	copy(txns, in.Transactions)
	sort.SliceStable(txns, func(i, j int) bool { return txns[i].Date.Before(txns[j].Date) })

	first, last := txns[0], txns[len(txns)-1]
	s := model.StatementSummary{
		Bank:             in.Bank,
		PeriodStart:      model.Day(first.Date),
		PeriodEnd:        model.Day(last.Date),
		BeginningBalance: first.Balance.Sub(first.Amount),
		EndingBalance:    last.Balance,
		TotalDeposits:    decimal.Zero,
		TotalWithdrawals: decimal.Zero,
		CategoryTotals:   a.categorizer.CategorizeAll(txns),
		StatedBalances:   in.Stated,
		Transactions:     txns,
		Warnings:         warnings,
	}

	for _, t := range txns {
		switch {
		case t.IsDeposit():
			s.TotalDeposits = s.TotalDeposits.Add(t.Amount)
			s.DepositCount++
		case t.IsWithdrawal():
			s.TotalWithdrawals = s.TotalWithdrawals.Add(t.Amount.Abs())
			s.WithdrawalCount++
		}
		if t.Type == model.TypeNSF {
			s.NSFCount++
		}
	}

	s.MCALenders = classify.Lenders(txns)
	if s.MCALenders == nil {
		s.MCALenders = []string{}
	}

	tracker := analytics.NewBalanceTracker(txns)
	tracker.SetThreshold(a.threshold)
	balance := tracker.Calculate()
	s.AverageDailyBalance = balance.AverageDailyBalance
	s.NegativeBalanceDays = balance.NegativeDays
	s.LowBalanceDays = balance.LowBalanceDays

	return Report{
		StatementSummary: s,
		Balance:          balance,
		CashFlow:         analytics.NewCashFlowAnalyzer(txns).CalculateMetrics(),
		NSF:              a.nsf.Analyze(txns),
		daily:            tracker.DailyBalances(),
	}
}
