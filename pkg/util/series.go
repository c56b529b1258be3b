package util

import (
	"math"
	"sort"
)

// LastValid returns the most recent non-NaN value of the series.
// Returns (NaN, false) when no valid observation exists.
func LastValid(xs []float64) (float64, bool) {
	for i := len(xs) - 1; i >= 0; i-- {
		if !math.IsNaN(xs[i]) {
			return xs[i], true
		}
	}
	return math.NaN(), false
}

// TrailingMedian computes the median of the most recent `window` non-NaN
// observations. Gaps are skipped, never interpolated. Returns (NaN, false)
// when the series holds no valid observation.
func TrailingMedian(xs []float64, window int) (float64, bool) {
	if window <= 0 {
		return math.NaN(), false
	}
	tail := make([]float64, 0, window)
	for i := len(xs) - 1; i >= 0 && len(tail) < window; i-- {
		if !math.IsNaN(xs[i]) {
			tail = append(tail, xs[i])
		}
	}
	if len(tail) == 0 {
		return math.NaN(), false
	}
	sort.Float64s(tail)
	n := len(tail)
	if n%2 == 1 {
		return tail[n/2], true
	}
	return (tail[n/2-1] + tail[n/2]) / 2, true
}

// PctChangeOverDays returns the fractional change over the last `days`
// observations of the series. Returns (NaN, false) when the series is too
// sparse or the start value is zero.
func PctChangeOverDays(xs []float64, days int) (float64, bool) {
	end, ok := LastValid(xs)
	if !ok {
		return math.NaN(), false
	}
	startIdx := len(xs) - days
	if startIdx < 0 {
		startIdx = 0
	}
	start := math.NaN()
	for i := startIdx; i < len(xs); i++ {
		if !math.IsNaN(xs[i]) {
			start = xs[i]
			break
		}
	}
	if math.IsNaN(start) || start == 0 {
		return math.NaN(), false
	}
	return end/start - 1, true
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
