// Package numeric holds the small statistics helpers used by the tracker
// aggregations.
package numeric

import (
	"math"
	"slices"
)

// Sum adds the values in order.
func Sum(x []float64) float64 {
	var s float64
	for _, v := range x {
		s += v
	}
	return s
}

// Median returns the middle value of x without modifying it. For an even count
// it is the mean of the two middle values after an ascending sort. An empty
// slice yields NaN.
func Median(x []float64) float64 {
	n := len(x)
	if n == 0 {
		return math.NaN()
	}
	cp := slices.Clone(x)
	slices.Sort(cp)
	mid := n / 2
	if n%2 == 0 {
		return (cp[mid-1] + cp[mid]) / 2
	}
	return cp[mid]
}

// Round rounds x to the given number of decimal places, halves away from zero.
func Round(x float64, places int) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	p := math.Pow(10, float64(places))
	return math.Round(x*p) / p
}

// LongestDurations returns the n largest values in descending order followed by
// the sum of everything else. The result always has n+1 elements; missing
// entries are zero, so the result sums to the same total as x.
func LongestDurations(x []float64, n int) []float64 {
	if n < 0 {
		n = 0
	}
	sorted := slices.Clone(x)
	slices.SortFunc(sorted, func(a, b float64) int {
		switch {
		case a > b:
			return -1
		case a < b:
			return 1
		}
		return 0
	})

	out := make([]float64, n+1)
	for i := 0; i < n && i < len(sorted); i++ {
		out[i] = sorted[i]
	}
	if len(sorted) > n {
		out[n] = Sum(sorted[n:])
	}
	return out
}
