package pipeline

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/celltools/dqdv/internal/interpolate"
)

func testConfig() *Config {
	return &Config{
		PointsPerSplit:      10,
		MinimumSplits:       3,
		Interpolation:       interpolate.Linear,
		IncrementMethod:     IncrementDiff,
		SavGolWindowDivisor: 50,
		SavGolOrder:         3,
		VoltageFWHM:         0.01,
		Normalise:           true,
	}
}

// dischargeData builds a monotonic half-cycle: capacity rises 0..1000,
// voltage falls linearly with a small ripple.
func dischargeData(n int) (capacity, voltage []float64) {
	capacity = make([]float64, n)
	voltage = make([]float64, n)
	for i := range n {
		capacity[i] = 1000 * float64(i) / float64(n-1)
		voltage[i] = 4.2 - 3.2*capacity[i]/1000 + 0.0005*math.Sin(0.37*float64(i))
	}
	return capacity, voltage
}

func TestInspectRejectsDegenerateInput(t *testing.T) {
	cfg := testConfig()

	tests := []struct {
		name     string
		capacity []float64
		voltage  []float64
	}{
		{"BothNil", nil, nil},
		{"SingleSample", []float64{1}, []float64{4.2}},
		{"EmptyCapacity", nil, []float64{4.2, 4.1}},
		{"LengthMismatch", []float64{1, 2, 3}, []float64{4.2, 4.1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Inspect(cfg, tt.capacity, tt.voltage)
			assert.ErrorIs(t, err, ErrNullData)
		})
	}
}

func TestInspectDiagnostics(t *testing.T) {
	capacity, voltage := dischargeData(100)

	ins, err := Inspect(testConfig(), capacity, voltage)
	require.NoError(t, err)

	assert.Equal(t, 100, ins.LenCapacity)
	assert.Equal(t, 100, ins.LenVoltage)
	assert.Equal(t, 0.0, ins.FirstCapacity)
	assert.InDelta(t, 1000.0, ins.LastCapacity, 1e-9)
	assert.Equal(t, ins.FirstCapacity, ins.MinCapacity)
	assert.Equal(t, ins.LastCapacity, ins.MaxCapacity)
	assert.Empty(t, ins.Errors)

	assert.InDelta(t, 1000.0/99, ins.MeanDeltaCapacity, 1e-9)
	assert.Equal(t, ins.LastCapacity, ins.NormalisingFactor)

	// 100 samples at 10 points per split gives 10 chunks of trend
	// regressions on an essentially linear curve.
	assert.True(t, ins.StdErrComputed)
	assert.Greater(t, ins.StdErrMean, 0.0)
	assert.Greater(t, ins.StdErrMedian, 0.0)
}

func TestInspectFlagsReversedSweep(t *testing.T) {
	// Capacity decreasing: the start is the max, so both endpoint checks
	// fire.
	capacity := []float64{100, 80, 60, 40, 20, 0}
	voltage := []float64{3.0, 3.2, 3.4, 3.6, 3.8, 4.0}

	ins, err := Inspect(testConfig(), capacity, voltage)
	require.NoError(t, err)

	assert.Contains(t, ins.Errors, "capacity: start<>min")
	assert.Contains(t, ins.Errors, "capacity: end<>max")
}

func TestInspectSkipsChunkingOnShortSeries(t *testing.T) {
	capacity, voltage := dischargeData(20) // 2 splits, below the minimum of 3

	ins, err := Inspect(testConfig(), capacity, voltage)
	require.NoError(t, err)

	assert.False(t, ins.StdErrComputed)
	require.Len(t, ins.Errors, 1)
	assert.Contains(t, ins.Errors[0], "regression diagnostics skipped")
}

func TestSlopeStdErr(t *testing.T) {
	// Perfectly linear data regresses with zero residual.
	c := []float64{0, 1, 2, 3, 4}
	v := []float64{1, 3, 5, 7, 9}
	se, ok := slopeStdErr(c, v)
	require.True(t, ok)
	assert.InDelta(t, 0.0, se, 1e-12)

	// Constant abscissa has no slope to estimate.
	_, ok = slopeStdErr([]float64{2, 2, 2}, []float64{1, 2, 3})
	assert.False(t, ok)
}

func TestMedian(t *testing.T) {
	assert.Equal(t, 3.0, median([]float64{5, 1, 3}))
	assert.Equal(t, 2.5, median([]float64{4, 1, 2, 3}))
	assert.Equal(t, 7.0, median([]float64{7}))
}
