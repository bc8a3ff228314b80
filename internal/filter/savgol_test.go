package filter

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSavGolWindow(t *testing.T) {
	tests := []struct {
		name    string
		n       int
		divisor int
		want    int
	}{
		{"LongSeries", 1000, 50, 19},  // 1000/50 = 20, forced odd
		{"MediumSeries", 500, 50, 9},  // 500/50 = 10, forced odd
		{"DivisorCapped", 200, 50, 5}, // divisor capped at 200/5 = 40
		{"ShortSeries", 30, 50, 5},    // divisor capped at 6
		{"TinySeries", 10, 50, 5},     // divisor capped at 2
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SavGolWindow(tt.n, tt.divisor)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, 1, got%2, "window must be odd")
			assert.GreaterOrEqual(t, got, 3)
		})
	}
}

// TestSavGolPolynomialPreservation verifies the defining property of the
// filter: polynomials of degree <= order pass through unchanged, edges
// included.
func TestSavGolPolynomialPreservation(t *testing.T) {
	const n = 101
	data := make([]float64, n)
	for i := range data {
		x := float64(i)
		data[i] = 0.5 + 1.5*x - 0.02*x*x + 0.001*x*x*x
	}

	out, err := SavGol(data, 7, 3)
	require.NoError(t, err)
	require.Len(t, out, n)

	for i := range out {
		assert.InDelta(t, data[i], out[i], 1e-6, "sample %d", i)
	}
}

func TestSavGolConstantInvariant(t *testing.T) {
	data := make([]float64, 50)
	for i := range data {
		data[i] = 3.7
	}

	out, err := SavGol(data, 5, 2)
	require.NoError(t, err)
	for i, v := range out {
		assert.InDelta(t, 3.7, v, 1e-12, "sample %d", i)
	}
}

func TestSavGolSmoothsNoise(t *testing.T) {
	const n = 200
	data := make([]float64, n)
	for i := range data {
		data[i] = float64(i) + 0.5*math.Sin(7.3*float64(i))
	}

	out, err := SavGol(data, 21, 3)
	require.NoError(t, err)

	// Total variation of the smoothed interior should drop.
	tv := func(s []float64) float64 {
		var sum float64
		for i := 11; i < len(s)-11; i++ {
			sum += math.Abs(s[i] - s[i-1])
		}
		return sum
	}
	assert.Less(t, tv(out), tv(data))
}

func TestSavGolWindowExceedsSeries(t *testing.T) {
	data := []float64{1, 2, 3, 4}
	out, err := SavGol(data, 5, 3)
	require.NoError(t, err)
	assert.Equal(t, data, out, "oversized window must degrade to a no-op")
}

func TestSavGolInvalidParameters(t *testing.T) {
	data := make([]float64, 20)

	tests := []struct {
		name    string
		window  int
		order   int
		wantErr error
	}{
		{"EvenWindow", 4, 2, ErrWindow},
		{"TooSmallWindow", 1, 0, ErrWindow},
		{"NegativeOrder", 5, -1, ErrOrder},
		{"OrderNotBelowWindow", 5, 5, ErrOrder},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := SavGol(data, tt.window, tt.order)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
