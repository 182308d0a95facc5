// Package stats provides interpolated quantiles and a rolling window of
// per-document processing samples.
package stats

import "sort"

// Quantile returns the q-quantile (0 ≤ q ≤ 1) of values using linear
// interpolation between closest ranks. values is not modified. An empty
// slice yields 0.
func Quantile(values []float64, q float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	return quantileSorted(sorted, q)
}

func quantileSorted(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[n-1]
	}
	index := float64(n-1) * q
	lower := int(index)
	upper := lower + 1
	if upper >= n {
		return sorted[lower]
	}
	weight := index - float64(lower)
	lo, hi := sorted[lower], sorted[upper]
	return lo + (hi-lo)*weight
}
