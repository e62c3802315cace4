package classify

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ledgerscan/internal/model"
)

// TypeRule assigns Type when any keyword occurs in the uppercased description.
type TypeRule struct {
	Keywords []string
	Type     model.TransactionType
}

// TypeRules returns the description cascade used before falling back to
// the amount sign. Order matters: "NSF FEE" is nsf, not fee.
func TypeRules() []TypeRule {
	return []TypeRule{
		{Keywords: []string{"NSF", "RETURNED"}, Type: model.TypeNSF},
		{Keywords: []string{"FEE", "SERVICE CHARGE"}, Type: model.TypeFee},
		{Keywords: []string{"INTEREST"}, Type: model.TypeInterest},
		{Keywords: []string{"TRANSFER"}, Type: model.TypeTransfer},
	}
}

var typeRules = TypeRules()

// ClassifyType returns the transaction type for a description and signed amount.
func ClassifyType(description string, amount decimal.Decimal) model.TransactionType {
	desc := strings.ToUpper(description)
	for _, r := range typeRules {
		for _, kw := range r.Keywords {
			if strings.Contains(desc, kw) {
				return r.Type
			}
		}
	}
	switch amount.Sign() {
	case 1:
		return model.TypeDeposit
	case -1:
		return model.TypeWithdrawal
	default:
		return model.TypeUnknown
	}
}

// Classifier annotates parsed transactions with type, deposit category,
// MCA lender and advisory flags.
type Classifier struct {
	cat *Categorizer
	p2p []*regexp.Regexp
}

// NewClassifier compiles p.
func NewClassifier(p Patterns) (*Classifier, error) {
	cat, err := NewCategorizer(p)
	if err != nil {
		return nil, err
	}
	p2p, err := CompileAll("p2p", p.P2P)
	if err != nil {
		return nil, err
	}
	return &Classifier{cat: cat, p2p: p2p}, nil
}

// Categorizer returns the deposit categorizer in use.
func (c *Classifier) Categorizer() *Categorizer {
	return c.cat
}

// Annotate classifies every transaction in place.
func (c *Classifier) Annotate(txns []model.Transaction) {
	for i := range txns {
		c.annotate(&txns[i])
	}
}

func (c *Classifier) annotate(t *model.Transaction) {
	t.Type = ClassifyType(t.Description, t.Amount)
	t.Lender = c.cat.lender(t.Description)

	if !t.IsDeposit() {
		t.Category = ""
		t.Confidence = 0
		t.MatchedPattern = ""
		if t.Lender != "" && t.IsWithdrawal() {
			t.AddFlag(model.FlagMCAPayment)
		}
		return
	}

	r := c.cat.Categorize(t.Description, t.Amount)
	t.Category = r.Category
	t.Confidence = r.Confidence
	t.MatchedPattern = r.MatchedPattern

	if c.isP2P(t.Description) {
		t.AddFlag(model.FlagP2PReview)
	}
}

func (c *Classifier) isP2P(description string) bool {
	for _, re := range c.p2p {
		if re.MatchString(description) {
			return true
		}
	}
	return false
}

// Lenders returns the distinct MCA lender names in first-seen order.
func Lenders(txns []model.Transaction) []string {
	seen := make(map[string]bool)
	var out []string
	for _, t := range txns {
		if t.Lender == "" || seen[t.Lender] {
			continue
		}
		seen[t.Lender] = true
		out = append(out, t.Lender)
	}
	return out
}
