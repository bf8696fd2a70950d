package engine

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"
)

// percentile computes the p-th percentile (p in [0,100]) of values
// using linear interpolation between order statistics: the rank is
// p/100*(n-1) and the result interpolates between the two nearest
// sorted samples. This is the method the historical and conditional
// estimators share; gonum's CumulantKind quantiles use a different
// rank convention and would shift the cutoff for small samples.
func percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	if len(values) == 1 {
		return values[0]
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo < 0 {
		lo = 0
	}
	if hi >= len(sorted) {
		hi = len(sorted) - 1
	}
	if lo == hi {
		return sorted[lo]
	}

	frac := rank - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

// Amount converts a fractional risk figure into currency terms,
// rounded to 2 decimal places.
func Amount(pct, portfolioValue float64) float64 {
	amount, _ := decimal.NewFromFloat(pct).
		Mul(decimal.NewFromFloat(portfolioValue)).
		Round(2).
		Float64()
	return amount
}
