package engine

// RollingCompound converts daily returns into compounded returns over
// a sliding window of length window: each output element is
// (1+r[k])*(1+r[k+1])*...*(1+r[k+window-1]) - 1. Geometric
// compounding, not a rolling sum; a multi-day loss compounds.
//
// When the series is shorter than the window the result is empty.
// That is a normal outcome, not an error; downstream estimators return
// sentinel values for an empty series.
func RollingCompound(returns []float64, window int) []float64 {
	if window < 1 || len(returns) < window {
		return []float64{}
	}

	rolled := make([]float64, len(returns)-window+1)
	for k := range rolled {
		compounded := 1.0
		for j := 0; j < window; j++ {
			compounded *= 1 + returns[k+j]
		}
		rolled[k] = compounded - 1
	}
	return rolled
}
