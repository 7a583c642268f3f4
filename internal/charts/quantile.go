package charts

import (
	"math"
	"slices"
)

// Levels is the number of intensity levels a value can classify to
const Levels = 5

var thresholdPercentiles = [4]float64{20, 40, 60, 80}

// Thresholds holds the 20th, 40th, 60th and 80th percentile cut points of a
// sample
type Thresholds [4]float64

// NewThresholds computes the cut points of values. The input is not
// modified. An empty sample yields all-zero thresholds.
func NewThresholds(values []float64) Thresholds {
	var t Thresholds
	if len(values) == 0 {
		return t
	}

	sorted := slices.Clone(values)
	slices.Sort(sorted)
	for i, p := range thresholdPercentiles {
		t[i] = percentile(sorted, p)
	}
	return t
}

// percentile interpolates linearly between the order statistics around
// p/100*(n-1) of an ascending sample
func percentile(sorted []float64, p float64) float64 {
	i := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(i))
	if lo+1 >= len(sorted) {
		return sorted[lo]
	}
	return sorted[lo] + (i-float64(lo))*(sorted[lo+1]-sorted[lo])
}

// Level returns the index of the first threshold v is <= to, or 4 when v
// exceeds them all
func Level(v float64, t Thresholds) int {
	for i, cut := range t {
		if v <= cut {
			return i
		}
	}
	return Levels - 1
}
