package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrEmptyAmount is returned by ParseAmount for a blank field.
var ErrEmptyAmount = errors.New("empty amount")

// ParseAmount parses a statement money field into a signed decimal.
// Accepted noise: "$", thousands commas, spaces, a leading "+",
// parenthesised negatives, and a trailing "-", "CR" or "DR".
func ParseAmount(s string) (decimal.Decimal, error) {
	v := strings.TrimSpace(s)
	if v == "" {
		return decimal.Zero, ErrEmptyAmount
	}

	negative := false
	upper := strings.ToUpper(v)
	switch {
	case strings.HasSuffix(upper, "CR"):
		v = v[:len(v)-2]
	case strings.HasSuffix(upper, "DR"):
		v = v[:len(v)-2]
		negative = true
	}
	v = strings.TrimSpace(v)

	if strings.HasPrefix(v, "(") && strings.HasSuffix(v, ")") {
		v = v[1 : len(v)-1]
		negative = true
	}
	if strings.HasSuffix(v, "-") {
		v = v[:len(v)-1]
		negative = true
	}

	v = strings.NewReplacer("$", "", ",", "", " ", "").Replace(v)
	v = strings.TrimPrefix(v, "+")
	if v == "" || v == "-" {
		return decimal.Zero, fmt.Errorf("parsing amount %q: no digits", s)
	}

	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing amount %q: %w", s, err)
	}
	if negative {
		d = d.Abs().Neg()
	}
	return d, nil
}
