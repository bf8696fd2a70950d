package engine

import (
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// HistoricalVaR is the empirical (100-confidence)-th percentile of the
// rolling compounded return series. The result is a signed fraction;
// more negative means a larger loss at the given confidence.
//
// An empty series returns the 0.0 sentinel. Callers distinguish "zero
// risk" from "no data" via the series itself or the report's
// InsufficientData flag; the scalar alone cannot.
func HistoricalVaR(rolling []float64, confidence float64) float64 {
	if len(rolling) == 0 {
		return 0
	}
	return percentile(rolling, 100-confidence)
}

// ParametricVaR is the closed-form normal approximation
// (mean + z*std) * sqrt(window), computed from the daily return series
// (not the rolling series) and scaled to the window horizon under an
// i.i.d. assumption. std is the sample standard deviation (n-1).
//
// z is the exact left-tail standard normal quantile at the given
// confidence, so any level in (0,100) is supported rather than the
// usual 90/95/99 lookup table.
func ParametricVaR(daily []float64, confidence float64, window int) float64 {
	if len(daily) < 2 {
		// Sample stddev needs two observations; same empty-data
		// sentinel as the historical estimator.
		return 0
	}

	mean := stat.Mean(daily, nil)
	std := stat.StdDev(daily, nil)
	z := distuv.UnitNormal.Quantile((100 - confidence) / 100)

	return (mean + z*std) * math.Sqrt(float64(window))
}

// ConditionalVaR (expected shortfall) is the arithmetic mean of the
// rolling returns at or below the historical VaR cutoff: the average
// loss in the tail beyond the threshold. Uses the same percentile
// method as HistoricalVaR so the two agree on where the tail starts.
//
// With small samples the cutoff can equal the minimum and the tail
// collapses to a single element; that is expected. Always
// ConditionalVaR(c) <= HistoricalVaR(c) for non-empty input, up to
// floating-point ties.
func ConditionalVaR(rolling []float64, confidence float64) float64 {
	if len(rolling) == 0 {
		return 0
	}

	cutoff := percentile(rolling, 100-confidence)

	var sum float64
	var count int
	for _, r := range rolling {
		if r <= cutoff {
			sum += r
			count++
		}
	}
	if count == 0 {
		// Interpolated cutoff below the sample minimum cannot happen,
		// but guard the division anyway.
		return cutoff
	}
	return sum / float64(count)
}
