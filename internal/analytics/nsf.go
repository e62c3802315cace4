package analytics

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ledgerscan/internal/classify"
	"github.com/cleared-dev/ledgerscan/internal/model"
)

// NSFRating grades NSF activity.
type NSFRating string

const (
	RatingExcellent NSFRating = "excellent"
	RatingGood      NSFRating = "good"
	RatingFair      NSFRating = "fair"
	RatingPoor      NSFRating = "poor"
)

// NSFMetrics summarises NSF and overdraft activity.
type NSFMetrics struct {
	Count    int             `json:"total_nsf_count"`
	Amount   decimal.Decimal `json:"total_nsf_amount"`
	FeesPaid decimal.Decimal `json:"nsf_fees_paid"`
	// OverdraftRows counts transactions posted with a negative balance.
	// Several on one day count separately.
	OverdraftRows int `json:"overdraft_rows"`
	// OverdraftDays counts distinct dates with a negative-balance transaction.
	OverdraftDays int       `json:"overdraft_days"`
	Rating        NSFRating `json:"rating"`
	Score         float64   `json:"score"`
}

// RateNSF maps an NSF count to its rating and score.
func RateNSF(count int) (NSFRating, float64) {
	switch {
	case count <= 0:
		return RatingExcellent, 100
	case count <= 2:
		return RatingGood, 80
	case count <= 5:
		return RatingFair, 50
	default:
		return RatingPoor, 20
	}
}

// NSFAnalyzer detects NSF activity by description keywords.
type NSFAnalyzer struct {
	patterns []*regexp.Regexp
}

// NewNSFAnalyzer compiles the NSF keyword table.
func NewNSFAnalyzer(patterns []string) (*NSFAnalyzer, error) {
	compiled, err := classify.CompileAll("nsf", patterns)
	if err != nil {
		return nil, err
	}
	return &NSFAnalyzer{patterns: compiled}, nil
}

// DefaultNSFAnalyzer uses the built-in NSF keywords.
func DefaultNSFAnalyzer() *NSFAnalyzer {
	a, err := NewNSFAnalyzer(classify.DefaultPatterns().NSF)
	if err != nil {
		panic(err)
	}
	return a
}

// IsNSF reports whether a description indicates NSF activity.
func (a *NSFAnalyzer) IsNSF(description string) bool {
	for _, re := range a.patterns {
		if re.MatchString(description) {
			return true
		}
	}
	return false
}

// Analyze computes NSF metrics over txns.
func (a *NSFAnalyzer) Analyze(txns []model.Transaction) NSFMetrics {
	m := NSFMetrics{Amount: decimal.Zero, FeesPaid: decimal.Zero}
	odDays := make(map[time.Time]bool)

	for _, t := range txns {
		if a.IsNSF(t.Description) {
			m.Count++
			m.Amount = m.Amount.Add(t.Amount.Abs())
			if strings.Contains(strings.ToUpper(t.Description), "FEE") {
				m.FeesPaid = m.FeesPaid.Add(t.Amount.Abs())
			}
		}
		if t.Balance.IsNegative() {
			m.OverdraftRows++
			odDays[model.Day(t.Date)] = true
		}
	}

	m.OverdraftDays = len(odDays)
	m.Rating, m.Score = RateNSF(m.Count)
	return m
}

// CountSince counts NSF transactions dated on or after start.
func (a *NSFAnalyzer) CountSince(txns []model.Transaction, start time.Time) int {
	start = model.Day(start)
	n := 0
	for _, t := range txns {
		if !t.Date.Before(start) && a.IsNSF(t.Description) {
			n++
		}
	}
	return n
}
