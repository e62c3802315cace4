package classify

import (
	"fmt"
	"regexp"
)

// Patterns are the keyword tables behind classification. Each entry is a
// regexp matched case-insensitively against the description.
type Patterns struct {
	MCA        []string `yaml:"mca"`
	NonRevenue []string `yaml:"non_revenue"`
	Revenue    []string `yaml:"revenue"`
	NSF        []string `yaml:"nsf"`
	P2P        []string `yaml:"p2p"`
}

// DefaultPatterns returns the built-in keyword tables.
func DefaultPatterns() Patterns {
	return Patterns{
		MCA: []string{
			`FORA FINANCIAL`,
			`KAPITUS`,
			`CREDIBLY`,
			`FUNDBOX`,
			`BLUEVINE`,
			`ONDECK`,
			`KABBAGE`,
			`RAPID FINANCE`,
			`CAN CAPITAL`,
			`FORWARD FINANCING`,
		},
		NonRevenue: []string{
			`TRANSFER`,
			`XFER`,
			`LOAN`,
			`ADVANCE`,
			`FUNDING`,
			`CONTRIBUTION`,
			`OWNER`,
			`DEPOSIT\s+FROM\s+SAVINGS`,
		},
		Revenue: []string{
			`POS`,
			`CARD`,
			`MERCHANT`,
			`SQUARE`,
			`STRIPE`,
			`PAYPAL`,
			`CLOVER`,
			`TOAST`,
			`CUSTOMER`,
			`SALES`,
			`INVOICE`,
		},
		NSF: []string{
			`NSF`,
			`NON.?SUFFICIENT`,
			`INSUFFICIENT`,
			`RETURNED.?ITEM`,
			`RETURN.?CHECK`,
			`OVERDRAFT`,
			`OD FEE`,
			`UNCOLLECTED`,
		},
		P2P: []string{
			`ZELLE`,
			`VENMO`,
			`CASH\s?APP`,
		},
	}
}

// Merge returns p with every non-empty table in override replacing its
// counterpart.
func (p Patterns) Merge(override Patterns) Patterns {
	if len(override.MCA) > 0 {
		p.MCA = override.MCA
	}
	if len(override.NonRevenue) > 0 {
		p.NonRevenue = override.NonRevenue
	}
	if len(override.Revenue) > 0 {
		p.Revenue = override.Revenue
	}
	if len(override.NSF) > 0 {
		p.NSF = override.NSF
	}
	if len(override.P2P) > 0 {
		p.P2P = override.P2P
	}
	return p
}

// CompileAll compiles a keyword table case-insensitively.
func CompileAll(group string, patterns []string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile("(?i)" + p)
		if err != nil {
			return nil, fmt.Errorf("compiling %s pattern %q: %w", group, p, err)
		}
		out = append(out, re)
	}
	return out, nil
}

// Validate compiles every table and reports the first bad pattern.
func (p Patterns) Validate() error {
	tables := []struct {
		group    string
		patterns []string
	}{
		{"mca", p.MCA},
		{"non_revenue", p.NonRevenue},
		{"revenue", p.Revenue},
		{"nsf", p.NSF},
		{"p2p", p.P2P},
	}
	for _, t := range tables {
		if _, err := CompileAll(t.group, t.patterns); err != nil {
			return err
		}
	}
	return nil
}
