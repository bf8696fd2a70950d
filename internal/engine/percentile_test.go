package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPercentileLinearInterpolation(t *testing.T) {
	values := []float64{1, 2, 3, 4}

	assert.InDelta(t, 1.0, percentile(values, 0), 1e-12)
	assert.InDelta(t, 1.75, percentile(values, 25), 1e-12)
	assert.InDelta(t, 2.5, percentile(values, 50), 1e-12)
	assert.InDelta(t, 4.0, percentile(values, 100), 1e-12)
}

func TestPercentileUnsortedInput(t *testing.T) {
	assert.InDelta(t, 2.5, percentile([]float64{4, 1, 3, 2}, 50), 1e-12)
}

func TestPercentileDoesNotMutateInput(t *testing.T) {
	values := []float64{4, 1, 3, 2}
	percentile(values, 50)
	assert.Equal(t, []float64{4, 1, 3, 2}, values)
}

func TestPercentileDegenerateInputs(t *testing.T) {
	assert.Equal(t, 0.0, percentile(nil, 50))
	assert.Equal(t, 7.5, percentile([]float64{7.5}, 10))
}

func TestAmountRounding(t *testing.T) {
	assert.Equal(t, -2500.0, Amount(-0.025, 100000.0))
	assert.Equal(t, 12.35, Amount(0.12345, 100.0))
	assert.Equal(t, -12.35, Amount(-0.12345, 100.0))
	assert.Equal(t, 0.0, Amount(0, 100000.0))
}
