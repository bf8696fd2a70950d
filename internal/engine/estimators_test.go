package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sampleRolling = []float64{
	-0.10, -0.05, -0.02, 0.01, 0.03, -0.08, 0.04, -0.03, 0.02, -0.06,
}

func TestHistoricalVaREmptySentinel(t *testing.T) {
	assert.Equal(t, 0.0, HistoricalVaR(nil, 95))
	assert.Equal(t, 0.0, HistoricalVaR([]float64{}, 99))
}

func TestHistoricalVaRIsTailPercentile(t *testing.T) {
	// Sorted: -0.10 -0.08 -0.06 -0.05 -0.03 -0.02 0.01 0.02 0.03 0.04
	// 5th percentile rank = 0.05*9 = 0.45 between -0.10 and -0.08.
	got := HistoricalVaR(sampleRolling, 95)
	assert.InDelta(t, -0.10+0.45*0.02, got, 1e-12)
	assert.Negative(t, got)
}

func TestHistoricalVaRMonotoneInConfidence(t *testing.T) {
	var90 := HistoricalVaR(sampleRolling, 90)
	var95 := HistoricalVaR(sampleRolling, 95)
	var99 := HistoricalVaR(sampleRolling, 99)

	assert.LessOrEqual(t, var99, var95)
	assert.LessOrEqual(t, var95, var90)
}

func TestHistoricalVaRIdempotent(t *testing.T) {
	first := HistoricalVaR(sampleRolling, 95)
	second := HistoricalVaR(sampleRolling, 95)
	assert.Equal(t, first, second)
}

func TestConditionalVaREmptySentinel(t *testing.T) {
	assert.Equal(t, 0.0, ConditionalVaR(nil, 95))
}

func TestConditionalVaRNotLessExtremeThanVaR(t *testing.T) {
	for _, confidence := range []float64{90, 95, 99} {
		hist := HistoricalVaR(sampleRolling, confidence)
		cond := ConditionalVaR(sampleRolling, confidence)
		assert.LessOrEqual(t, cond, hist, "confidence %v", confidence)
	}
}

func TestConditionalVaRIsTailMean(t *testing.T) {
	// At 90% the cutoff is the 10th percentile, rank 0.9 between -0.10
	// and -0.08: cutoff -0.082. Only -0.10 falls at or below it.
	cond := ConditionalVaR(sampleRolling, 90)
	assert.InDelta(t, -0.10, cond, 1e-12)
}

func TestConditionalVaRSingleElementTail(t *testing.T) {
	rolling := []float64{-0.04, 0.01, 0.02}
	cond := ConditionalVaR(rolling, 99)
	assert.InDelta(t, -0.04, cond, 1e-9)
}

func TestParametricVaRKnownValue(t *testing.T) {
	// mean 0, sample std sqrt(2*0.0001/1) = 0.01414213562...
	daily := []float64{0.01, -0.01}

	got := ParametricVaR(daily, 95, 1)
	// z(95) = -1.6448536269514722 exactly, not the -1.65 of the
	// three-level lookup tables.
	want := -1.6448536269514722 * 0.014142135623730951
	assert.InDelta(t, want, got, 1e-9)
}

func TestParametricVaRScalesWithSqrtWindow(t *testing.T) {
	daily := []float64{0.01, -0.02, 0.015, -0.005, 0.002, -0.012}

	oneDay := ParametricVaR(daily, 95, 1)
	fourDay := ParametricVaR(daily, 95, 4)
	assert.InDelta(t, 2*oneDay, fourDay, 1e-12)
}

func TestParametricVaRArbitraryConfidence(t *testing.T) {
	daily := []float64{0.01, -0.02, 0.015, -0.005}

	// Any level in (0,100) is supported; 97.5 is not in the classic
	// 90/95/99 enumeration.
	got := ParametricVaR(daily, 97.5, 5)
	require.NotZero(t, got)
	assert.Less(t, got, ParametricVaR(daily, 95, 5))
}

func TestParametricVaRTooFewObservations(t *testing.T) {
	assert.Equal(t, 0.0, ParametricVaR(nil, 95, 10))
	assert.Equal(t, 0.0, ParametricVaR([]float64{0.01}, 95, 10))
}
