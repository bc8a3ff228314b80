// Package mathutil provides small numeric helpers shared by the dQ/dV
// pipeline stages: uniform grids, first differences and series bounds.
package mathutil

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Linspace returns n evenly spaced values from start to stop inclusive.
// Returns nil for n <= 0 and a single-element slice for n == 1.
func Linspace(start, stop float64, n int) []float64 {
	switch {
	case n <= 0:
		return nil
	case n == 1:
		return []float64{start}
	}
	return floats.Span(make([]float64, n), start, stop)
}

// Diff returns the first difference x[i+1] - x[i].
// The result has length len(x) - 1; nil when len(x) < 2.
func Diff(x []float64) []float64 {
	if len(x) < 2 {
		return nil
	}
	d := make([]float64, len(x)-1)
	for i := range d {
		d[i] = x[i+1] - x[i]
	}
	return d
}

// MeanDiff returns the mean of the first differences of x.
// The sum of first differences telescopes to x[n-1] - x[0].
func MeanDiff(x []float64) float64 {
	if len(x) < 2 {
		return math.NaN()
	}
	return (x[len(x)-1] - x[0]) / float64(len(x)-1)
}

// ValueBounds returns the numeric range (min, max) of x.
// Returns (NaN, NaN) for an empty slice.
func ValueBounds(x []float64) (minVal, maxVal float64) {
	if len(x) == 0 {
		return math.NaN(), math.NaN()
	}
	return floats.Min(x), floats.Max(x)
}

// IndexBounds returns the first and last element of x by position.
// Unlike ValueBounds it captures the physical start and end of a sweep,
// which differ from the numeric range whenever the sweep briefly reverses.
// Returns (NaN, NaN) for an empty slice.
func IndexBounds(x []float64) (first, last float64) {
	if len(x) == 0 {
		return math.NaN(), math.NaN()
	}
	return x[0], x[len(x)-1]
}
