package analytics

import (
	"math"

	"github.com/shopspring/decimal"
)

// mean returns the arithmetic mean, zero for an empty slice.
func mean(vals []decimal.Decimal) decimal.Decimal {
	if len(vals) == 0 {
		return decimal.Zero
	}
	return decimal.Sum(decimal.Zero, vals...).Div(decimal.NewFromInt(int64(len(vals))))
}

// sampleStdDev returns the n-1 standard deviation, zero for fewer than two values.
func sampleStdDev(vals []decimal.Decimal) float64 {
	if len(vals) < 2 {
		return 0
	}
	m := mean(vals).InexactFloat64()
	var ss float64
	for _, v := range vals {
		diff := v.InexactFloat64() - m
		ss += diff * diff
	}
	return math.Sqrt(ss / float64(len(vals)-1))
}

// coefficientOfVariation is stddev/mean, zero for fewer than two values or a
// non-positive mean.
func coefficientOfVariation(vals []decimal.Decimal) float64 {
	if len(vals) < 2 {
		return 0
	}
	m := mean(vals)
	if !m.IsPositive() {
		return 0
	}
	return sampleStdDev(vals) / m.InexactFloat64()
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

func minMax(vals []decimal.Decimal) (lo, hi decimal.Decimal) {
	if len(vals) == 0 {
		return decimal.Zero, decimal.Zero
	}
	return decimal.Min(vals[0], vals[1:]...), decimal.Max(vals[0], vals[1:]...)
}
