package dqdv_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/celltools/dqdv"
	"github.com/celltools/dqdv/internal/testutil"
)

// syntheticDischarge builds a monotonic half-cycle: capacity rising
// 0..1000 mAh, voltage falling 4.2..1.0 V with a small deterministic
// ripple.
func syntheticDischarge(n int) (capacity, voltage []float64) {
	capacity = make([]float64, n)
	voltage = make([]float64, n)
	for i := range n {
		capacity[i] = 1000 * float64(i) / float64(n-1)
		voltage[i] = 4.2 - 3.2*capacity[i]/1000 + 0.0005*math.Sin(0.37*float64(i))
	}
	return capacity, voltage
}

// linearCycle builds capacity = 2*voltage + 1 exactly over [1, 4] V.
func linearCycle(n int) (capacity, voltage []float64) {
	capacity = make([]float64, n)
	voltage = make([]float64, n)
	for i := range n {
		voltage[i] = 1 + 3*float64(i)/float64(n-1)
		capacity[i] = 2*voltage[i] + 1
	}
	return capacity, voltage
}

func TestDefaultConfigIsValid(t *testing.T) {
	assert.NoError(t, dqdv.DefaultConfig().Validate())
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*dqdv.Config)
		wantErr error
	}{
		{"ZeroPointsPerSplit", func(c *dqdv.Config) { c.PointsPerSplit = 0 }, dqdv.ErrInvalidConfig},
		{"ZeroMinimumSplits", func(c *dqdv.Config) { c.MinimumSplits = 0 }, dqdv.ErrInvalidConfig},
		{"UnknownInterpolation", func(c *dqdv.Config) { c.InterpolationMethod = "hermite" }, dqdv.ErrInvalidConfig},
		{"UnsupportedIncrement", func(c *dqdv.Config) { c.IncrementMethod = "spline-derivative" }, dqdv.ErrUnsupportedMethod},
		{"ZeroWindowDivisor", func(c *dqdv.Config) { c.SavGolWindowDivisor = 0 }, dqdv.ErrInvalidConfig},
		{"NegativeSavGolOrder", func(c *dqdv.Config) { c.SavGolOrder = -1 }, dqdv.ErrInvalidConfig},
		{"ZeroFWHM", func(c *dqdv.Config) { c.VoltageFWHM = 0 }, dqdv.ErrInvalidConfig},
		{"GaussianOrderTooHigh", func(c *dqdv.Config) { c.GaussianOrder = 4 }, dqdv.ErrInvalidConfig},
		{"ZeroTruncate", func(c *dqdv.Config) { c.GaussianTruncate = 0 }, dqdv.ErrInvalidConfig},
		{"UnknownGaussianMode", func(c *dqdv.Config) { c.GaussianMode = "banana" }, dqdv.ErrInvalidConfig},
		{"InvertedFixedRange", func(c *dqdv.Config) {
			c.FixedVoltageRange = &dqdv.VoltageRange{Min: 4, Max: 1, Points: 100}
		}, dqdv.ErrInvalidConfig},
		{"FixedRangeTooFewPoints", func(c *dqdv.Config) {
			c.FixedVoltageRange = &dqdv.VoltageRange{Min: 1, Max: 4, Points: 1}
		}, dqdv.ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := dqdv.DefaultConfig()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), tt.wantErr)
		})
	}
}

func TestDQDVLinearRoundTrip(t *testing.T) {
	// With capacity an exact linear function of voltage and all smoothing
	// and normalization off, the pipeline must return the slope.
	capacity, voltage := linearCycle(100)

	cfg := dqdv.DefaultConfig()
	cfg.PreSmoothing = false
	cfg.Smoothing = false
	cfg.PostSmoothing = false
	cfg.Normalise = false

	v, q, err := dqdv.DQDVWithConfig(cfg, voltage, capacity)
	require.NoError(t, err)

	require.Len(t, q, 99)
	require.Len(t, v, 99)
	testutil.AssertAllInDelta(t, q, 2.0, 1e-6)
	testutil.AssertStrictlyIncreasing(t, v)
}

func TestDQDVEndToEnd(t *testing.T) {
	capacity, voltage := syntheticDischarge(500)

	v, q, err := dqdv.DQDV(voltage, capacity)
	require.NoError(t, err)

	require.Len(t, v, 499)
	require.Len(t, q, 499)
	testutil.AssertNoNaNOrInf(t, v)
	testutil.AssertNoNaNOrInf(t, q)
	testutil.AssertStrictlyIncreasing(t, v)
}

func TestDQDVDeterministic(t *testing.T) {
	capacity, voltage := syntheticDischarge(300)

	v1, q1, err := dqdv.DQDV(voltage, capacity)
	require.NoError(t, err)
	v2, q2, err := dqdv.DQDV(voltage, capacity)
	require.NoError(t, err)

	assert.Equal(t, v1, v2)
	assert.Equal(t, q1, q2)
}

func TestDQDVNullData(t *testing.T) {
	_, _, err := dqdv.DQDV(nil, nil)
	assert.ErrorIs(t, err, dqdv.ErrNullData)

	_, _, err = dqdv.DQDV([]float64{4.2}, []float64{0})
	assert.ErrorIs(t, err, dqdv.ErrNullData)

	_, _, err = dqdv.DQDV([]float64{4.2, 4.1}, []float64{0, 1, 2})
	assert.ErrorIs(t, err, dqdv.ErrNullData)
}

func TestDQDVConstantVoltage(t *testing.T) {
	// A flat voltage trace has no single-valued inverse, so incrementing
	// must fail rather than divide by zero.
	capacity := []float64{0, 1, 2, 3, 4}
	voltage := []float64{3.7, 3.7, 3.7, 3.7, 3.7}

	cfg := dqdv.DefaultConfig()
	cfg.PreSmoothing = false

	_, _, err := dqdv.DQDVWithConfig(cfg, voltage, capacity)
	assert.ErrorIs(t, err, dqdv.ErrNonMonotonic)
}

func TestDQDVFixedVoltageRange(t *testing.T) {
	capacity, voltage := syntheticDischarge(500)

	cfg := dqdv.DefaultConfig()
	cfg.FixedVoltageRange = &dqdv.VoltageRange{Min: 0.5, Max: 4.5, Points: 400}

	v, q, err := dqdv.DQDVWithConfig(cfg, voltage, capacity)
	require.NoError(t, err)

	require.Len(t, v, 400)
	require.Len(t, q, 400)
	testutil.AssertUniformGrid(t, v, 0.5, 4.5, 1e-9)

	// Grid samples outside the observed ~[1.0, 4.2] V sweep carry NaN.
	nan := testutil.CountNaN(q)
	assert.Greater(t, nan, 0)
	assert.Less(t, nan, 400)
	assert.True(t, math.IsNaN(q[0]))
	assert.True(t, math.IsNaN(q[len(q)-1]))
}

func TestDQDVInvalidConfig(t *testing.T) {
	capacity, voltage := syntheticDischarge(100)

	cfg := dqdv.DefaultConfig()
	cfg.IncrementMethod = "other"

	_, _, err := dqdv.DQDVWithConfig(cfg, voltage, capacity)
	assert.ErrorIs(t, err, dqdv.ErrUnsupportedMethod)
}

func TestInterpolationMethods(t *testing.T) {
	capacity, voltage := syntheticDischarge(200)

	methods := []dqdv.InterpolationMethod{
		dqdv.InterpolationLinear,
		dqdv.InterpolationSLinear,
		dqdv.InterpolationQuadratic,
		dqdv.InterpolationCubic,
	}
	for _, m := range methods {
		t.Run(string(m), func(t *testing.T) {
			cfg := dqdv.DefaultConfig()
			cfg.InterpolationMethod = m

			v, q, err := dqdv.DQDVWithConfig(cfg, voltage, capacity)
			require.NoError(t, err)
			require.Len(t, q, 199)
			testutil.AssertNoNaNOrInf(t, v)
			testutil.AssertNoNaNOrInf(t, q)
		})
	}
}
