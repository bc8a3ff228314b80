// Package testutil provides reusable test helper functions for the dQ/dV
// pipeline tests.
package testutil

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Default tolerances for various test scenarios.
const (
	DefaultTolerance = 1e-10
	InterpTolerance  = 1e-6
	AreaTolerance    = 1e-6
)

// AssertNoNaNOrInf verifies that no elements in the slice are NaN or Inf.
func AssertNoNaNOrInf(t *testing.T, s []float64, msgAndArgs ...any) bool {
	t.Helper()
	for i, v := range s {
		if math.IsNaN(v) {
			return assert.Fail(t, "found NaN", "s[%d] is NaN", i)
		}
		if math.IsInf(v, 0) {
			return assert.Fail(t, "found Inf", "s[%d] is Inf", i)
		}
	}
	return true
}

// AssertStrictlyIncreasing verifies that s[i] > s[i-1] for all i.
func AssertStrictlyIncreasing(t *testing.T, s []float64, msgAndArgs ...any) bool {
	t.Helper()
	for i := 1; i < len(s); i++ {
		if s[i] <= s[i-1] {
			return assert.Fail(t, "not strictly increasing",
				"s[%d]=%f <= s[%d]=%f", i, s[i], i-1, s[i-1])
		}
	}
	return true
}

// AssertUniformGrid verifies that s is a uniform grid from first to last
// with constant spacing, within tolerance.
func AssertUniformGrid(t *testing.T, s []float64, first, last, tolerance float64) bool {
	t.Helper()
	if len(s) < 2 {
		return assert.Fail(t, "grid too short", "len=%d", len(s))
	}
	if !assert.InDelta(t, first, s[0], tolerance, "grid start") {
		return false
	}
	if !assert.InDelta(t, last, s[len(s)-1], tolerance, "grid end") {
		return false
	}
	step := (last - first) / float64(len(s)-1)
	for i := 1; i < len(s); i++ {
		if !assert.InDelta(t, step, s[i]-s[i-1], tolerance,
			"non-uniform spacing at i=%d", i) {
			return false
		}
	}
	return true
}

// AssertAllInDelta verifies that every element of s is within tolerance
// of want.
func AssertAllInDelta(t *testing.T, s []float64, want, tolerance float64, msgAndArgs ...any) bool {
	t.Helper()
	for i, v := range s {
		if !assert.InDelta(t, want, v, tolerance, "s[%d]", i) {
			return false
		}
	}
	return true
}

// AssertRelativeError verifies that the relative error between actual and
// expected is within tolerance.
func AssertRelativeError(t *testing.T, expected, actual, tolerance float64, msgAndArgs ...any) bool {
	t.Helper()
	if expected == 0 {
		return assert.InDelta(t, expected, actual, tolerance, msgAndArgs...)
	}
	relError := math.Abs(actual-expected) / math.Abs(expected)
	return assert.LessOrEqual(t, relError, tolerance,
		"relative error %e exceeds tolerance %e (expected=%f, actual=%f)",
		relError, tolerance, expected, actual)
}

// CountNaN returns the number of NaN elements in s.
func CountNaN(s []float64) int {
	n := 0
	for _, v := range s {
		if math.IsNaN(v) {
			n++
		}
	}
	return n
}
