package engine

import (
	"math"

	"github.com/quantrisk/var-engine/pkg/models"
	"github.com/quantrisk/var-engine/pkg/utils/errors"
)

const weightSumTolerance = 1e-6

// NormalizeWeights converts caller-supplied percentage weights into
// fractions summing to 1. The percentages must sum to 100 within a
// small tolerance; negative entries (short positions) are allowed.
func NormalizeWeights(percents []float64) ([]float64, error) {
	if len(percents) == 0 {
		return nil, errors.InvalidWeights("at least one weight is required")
	}

	sum := 0.0
	for _, w := range percents {
		if math.IsNaN(w) || math.IsInf(w, 0) {
			return nil, errors.InvalidWeights("weights must be finite numbers")
		}
		sum += w
	}
	if math.Abs(sum-100) > weightSumTolerance {
		return nil, errors.InvalidWeights("weights must sum to 100")
	}

	fractions := make([]float64, len(percents))
	for i, w := range percents {
		fractions[i] = w / 100
	}
	return fractions, nil
}

// PortfolioReturns converts a price table into a single series of
// weighted portfolio daily returns. weights are fractions, one per
// asset column. The first date carries no return and is dropped, so
// the result has one entry fewer than the table has rows.
//
// The weight count is checked against the column count up front; a
// mismatch is a DimensionMismatch error, never a partial result.
// Non-finite prices (zero or missing upstream) propagate as non-finite
// returns; cleaning the table is the data collaborator's job.
func PortfolioReturns(table models.PriceTable, weights []float64) ([]float64, error) {
	if len(weights) != len(table.Symbols) {
		return nil, errors.DimensionMismatch("number of weights must match number of asset columns")
	}
	if table.Rows() < 2 {
		return []float64{}, nil
	}

	returns := make([]float64, table.Rows()-1)
	for t := 1; t < table.Rows(); t++ {
		var weighted float64
		for i := range table.Symbols {
			prev := table.Prices[t-1][i]
			weighted += weights[i] * (table.Prices[t][i] - prev) / prev
		}
		returns[t-1] = weighted
	}
	return returns, nil
}
