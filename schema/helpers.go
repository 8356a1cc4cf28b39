package schema

import (
	"math"
	"slices"
)

// Percentile returns the p-quantile (0 <= p <= 1) of ascending sorted values,
// interpolating linearly between order statistics at position p*(n-1).
// It returns NaN for an empty slice.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	pos := p * float64(n-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	return sorted[lo] + (pos-float64(lo))*(sorted[hi]-sorted[lo])
}

// Quartiles returns the lower quartile, median and upper quartile of a sample.
// NaN values are skipped; all three are NaN when nothing remains.
func Quartiles(sample []float64) (q1, median, q3 float64) {
	clean := make([]float64, 0, len(sample))
	for _, v := range sample {
		if !math.IsNaN(v) {
			clean = append(clean, v)
		}
	}
	slices.Sort(clean)
	return Percentile(clean, 0.25), Percentile(clean, 0.5), Percentile(clean, 0.75)
}
