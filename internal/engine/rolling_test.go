package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRollingCompoundLength(t *testing.T) {
	returns := []float64{0.01, 0.02, -0.01, 0.005, 0.0}

	for window := 1; window <= len(returns); window++ {
		rolled := RollingCompound(returns, window)
		assert.Len(t, rolled, len(returns)-window+1, "window %d", window)
	}
}

func TestRollingCompoundWindowOne(t *testing.T) {
	returns := []float64{0.01, -0.02, 0.03}

	rolled := RollingCompound(returns, 1)
	require.Len(t, rolled, 3)
	for i := range returns {
		assert.InDelta(t, returns[i], rolled[i], 1e-15)
	}
}

func TestRollingCompoundIsGeometric(t *testing.T) {
	// Two 10% losses compound to -19%, not -20%.
	rolled := RollingCompound([]float64{-0.10, -0.10}, 2)
	require.Len(t, rolled, 1)
	assert.InDelta(t, -0.19, rolled[0], 1e-12)
	assert.Greater(t, rolled[0], -0.20)
}

func TestRollingCompoundValues(t *testing.T) {
	rolled := RollingCompound([]float64{-0.002, 0.02226712, 0.00196078}, 2)
	require.Len(t, rolled, 2)
	assert.InDelta(t, (1-0.002)*(1+0.02226712)-1, rolled[0], 1e-12)
	assert.InDelta(t, (1+0.02226712)*(1+0.00196078)-1, rolled[1], 1e-12)
}

func TestRollingCompoundShortSeriesIsEmpty(t *testing.T) {
	assert.Empty(t, RollingCompound([]float64{0.01, 0.02, 0.03}, 10))
	assert.Empty(t, RollingCompound(nil, 5))
	assert.Empty(t, RollingCompound([]float64{0.01}, 0))
}
