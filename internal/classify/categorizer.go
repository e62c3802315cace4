package classify

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ledgerscan/internal/model"
)

// Confidence assigned by each rule group.
const (
	ConfidenceMCA        = 0.95
	ConfidenceNonRevenue = 0.85
	ConfidenceRevenue    = 0.80
	ConfidenceUnknown    = 0.50
)

// Rule maps one pattern to a category. Rules are evaluated in slice order.
type Rule struct {
	Pattern    *regexp.Regexp
	Source     string
	Category   model.DepositCategory
	Confidence float64
}

// Result is the outcome of categorizing one deposit.
type Result struct {
	Category       model.DepositCategory
	Confidence     float64
	MatchedPattern string
}

// Categorizer assigns deposit categories by an ordered rule cascade:
// MCA lenders, then non-revenue sources, then revenue sources. The first
// matching rule wins.
type Categorizer struct {
	rules []Rule
}

// NewCategorizer compiles the MCA, non-revenue and revenue tables of p.
func NewCategorizer(p Patterns) (*Categorizer, error) {
	groups := []struct {
		name       string
		patterns   []string
		category   model.DepositCategory
		confidence float64
	}{
		{"mca", p.MCA, model.CategoryMCAFunding, ConfidenceMCA},
		{"non_revenue", p.NonRevenue, model.CategoryNonRevenue, ConfidenceNonRevenue},
		{"revenue", p.Revenue, model.CategoryTrueRevenue, ConfidenceRevenue},
	}

	c := &Categorizer{}
	for _, g := range groups {
		compiled, err := CompileAll(g.name, g.patterns)
		if err != nil {
			return nil, err
		}
		for i, re := range compiled {
			c.rules = append(c.rules, Rule{
				Pattern:    re,
				Source:     g.patterns[i],
				Category:   g.category,
				Confidence: g.confidence,
			})
		}
	}
	return c, nil
}

// DefaultCategorizer returns a categorizer over DefaultPatterns.
func DefaultCategorizer() *Categorizer {
	c, err := NewCategorizer(DefaultPatterns())
	if err != nil {
		panic(err)
	}
	return c
}

// Rules returns the cascade in evaluation order.
func (c *Categorizer) Rules() []Rule {
	out := make([]Rule, len(c.rules))
	copy(out, c.rules)
	return out
}

// Categorize classifies a deposit by its description. amount does not
// affect the result.
func (c *Categorizer) Categorize(description string, amount decimal.Decimal) Result {
	desc := strings.ToUpper(description)
	for _, r := range c.rules {
		if r.Pattern.MatchString(desc) {
			return Result{Category: r.Category, Confidence: r.Confidence, MatchedPattern: r.Source}
		}
	}
	return Result{Category: model.CategoryUnknown, Confidence: ConfidenceUnknown}
}

// CategorizeAll totals positive amounts by category. Every category is
// present in the result.
func (c *Categorizer) CategorizeAll(txns []model.Transaction) model.CategoryTotals {
	totals := model.NewCategoryTotals()
	for _, t := range txns {
		if !t.IsDeposit() {
			continue
		}
		r := c.Categorize(t.Description, t.Amount)
		totals[r.Category] = totals[r.Category].Add(t.Amount)
	}
	return totals
}

// lender returns the matched MCA lender text, uppercased, or "".
func (c *Categorizer) lender(description string) string {
	desc := strings.ToUpper(description)
	for _, r := range c.rules {
		if r.Category != model.CategoryMCAFunding {
			continue
		}
		if m := r.Pattern.FindString(desc); m != "" {
			return strings.Join(strings.Fields(m), " ")
		}
	}
	return ""
}
