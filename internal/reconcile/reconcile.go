package reconcile

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ledgerscan/internal/model"
)

// Check compares date-ordered transactions against their own running
// balances and against balances printed on the statement. Problems are
// returned as warnings; nothing is modified.
//
// Continuity (previous balance + amount == balance) is only checked when
// the statement supplied balances: rows flagged BALANCE_DERIVED and
// statements whose balances are all zero are skipped.
func Check(txns []model.Transaction, stated model.StatedBalances) []model.Warning {
	var warns []model.Warning
	if len(txns) == 0 {
		return warns
	}

	if hasStatedBalances(txns) {
		for i := 1; i < len(txns); i++ {
			prev, cur := txns[i-1], txns[i]
			if prev.HasFlag(model.FlagBalanceDerived) || cur.HasFlag(model.FlagBalanceDerived) {
				continue
			}
			want := prev.Balance.Add(cur.Amount)
			if !want.Equal(cur.Balance) {
				warns = append(warns, model.Warning{
					Code:    model.WarnBalanceMismatch,
					Row:     i + 1,
					Message: fmt.Sprintf("balance %s does not follow %s %s",
						cur.Balance.StringFixed(2), prev.Balance.StringFixed(2), signed(cur.Amount)),
				})
			}
		}
	}

	first, last := txns[0], txns[len(txns)-1]
	computedBeginning := first.Balance.Sub(first.Amount)
	if w, ok := compare("beginning", stated.Beginning, computedBeginning); ok {
		warns = append(warns, w)
	}
	if w, ok := compare("ending", stated.Ending, last.Balance); ok {
		warns = append(warns, w)
	}
	return warns
}

func compare(label string, stated *decimal.Decimal, computed decimal.Decimal) (model.Warning, bool) {
	if stated == nil || stated.Equal(computed) {
		return model.Warning{}, false
	}
	return model.Warning{
		Code:    model.WarnStatedBalanceMismatch,
		Message: fmt.Sprintf("stated %s balance %s, computed %s",
			label, stated.StringFixed(2), computed.StringFixed(2)),
	}, true
}

func hasStatedBalances(txns []model.Transaction) bool {
	for _, t := range txns {
		if !t.HasFlag(model.FlagBalanceDerived) && !t.Balance.IsZero() {
			return true
		}
	}
	return false
}

func signed(d decimal.Decimal) string {
	if d.IsNegative() {
		return d.StringFixed(2)
	}
	return "+" + d.StringFixed(2)
}
