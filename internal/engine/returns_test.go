package engine

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantrisk/var-engine/pkg/models"
	"github.com/quantrisk/var-engine/pkg/utils/errors"
)

func tableOf(symbols []string, prices [][]float64) models.PriceTable {
	dates := make([]time.Time, len(prices))
	base := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	for i := range dates {
		dates[i] = base.AddDate(0, 0, i)
	}
	return models.PriceTable{Dates: dates, Symbols: symbols, Prices: prices}
}

func TestNormalizeWeights(t *testing.T) {
	fractions, err := NormalizeWeights([]float64{60, 40})
	require.NoError(t, err)
	assert.Equal(t, []float64{0.6, 0.4}, fractions)
}

func TestNormalizeWeightsShortPositions(t *testing.T) {
	fractions, err := NormalizeWeights([]float64{120, -20})
	require.NoError(t, err)
	assert.InDelta(t, 1.2, fractions[0], 1e-12)
	assert.InDelta(t, -0.2, fractions[1], 1e-12)
}

func TestNormalizeWeightsRejectsBadSum(t *testing.T) {
	_, err := NormalizeWeights([]float64{50, 30})
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrInvalidWeights)
}

func TestNormalizeWeightsToleratesFloatNoise(t *testing.T) {
	_, err := NormalizeWeights([]float64{33.333333, 33.333333, 33.333334})
	assert.NoError(t, err)
}

func TestNormalizeWeightsRejectsNonFinite(t *testing.T) {
	_, err := NormalizeWeights([]float64{math.NaN(), 100})
	assert.ErrorIs(t, err, errors.ErrInvalidWeights)

	_, err = NormalizeWeights(nil)
	assert.ErrorIs(t, err, errors.ErrInvalidWeights)
}

func TestPortfolioReturnsDimensionMismatch(t *testing.T) {
	table := tableOf([]string{"AAA", "BBB"}, [][]float64{{100, 50}, {101, 49}})

	_, err := PortfolioReturns(table, []float64{1.0})
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrDimensionMismatch)

	// Matching dimensions must not fail.
	_, err = PortfolioReturns(table, []float64{0.6, 0.4})
	assert.NoError(t, err)
}

func TestPortfolioReturnsSingleAsset(t *testing.T) {
	table := tableOf([]string{"AAA"}, [][]float64{{100}, {110}, {99}})

	returns, err := PortfolioReturns(table, []float64{1.0})
	require.NoError(t, err)
	require.Len(t, returns, 2)
	assert.InDelta(t, 0.10, returns[0], 1e-12)
	assert.InDelta(t, -0.10, returns[1], 1e-12)
}

func TestPortfolioReturnsWeightedAggregation(t *testing.T) {
	table := tableOf([]string{"AAA", "BBB"}, [][]float64{
		{100, 50},
		{101, 49},
		{102, 51},
		{101, 52},
	})

	returns, err := PortfolioReturns(table, []float64{0.6, 0.4})
	require.NoError(t, err)
	require.Len(t, returns, 3)

	assert.InDelta(t, 0.6*0.01+0.4*(-0.02), returns[0], 1e-12)
	assert.InDelta(t, 0.6*(102.0/101-1)+0.4*(51.0/49-1), returns[1], 1e-12)
	assert.InDelta(t, 0.6*(101.0/102-1)+0.4*(52.0/51-1), returns[2], 1e-12)
}

func TestPortfolioReturnsTooFewRows(t *testing.T) {
	table := tableOf([]string{"AAA"}, [][]float64{{100}})

	returns, err := PortfolioReturns(table, []float64{1.0})
	require.NoError(t, err)
	assert.Empty(t, returns)
}

func TestPortfolioReturnsPropagatesNonFinitePrices(t *testing.T) {
	table := tableOf([]string{"AAA"}, [][]float64{{0}, {100}})

	returns, err := PortfolioReturns(table, []float64{1.0})
	require.NoError(t, err)
	require.Len(t, returns, 1)
	assert.True(t, math.IsInf(returns[0], 1))
}
