package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/celltools/dqdv"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadCyclesPlain(t *testing.T) {
	path := writeTempFile(t, "plain.csv",
		"capacity,voltage\n0,4.2\n10,4.1\n20,4.0\n")

	cycles, ids, err := readCycles(path)
	require.NoError(t, err)
	require.Len(t, cycles, 1)
	assert.Equal(t, []string{"1"}, ids)
	assert.Equal(t, []float64{0, 10, 20}, cycles[0].Capacity)
	assert.Equal(t, []float64{4.2, 4.1, 4.0}, cycles[0].Voltage)
}

func TestReadCyclesGrouped(t *testing.T) {
	path := writeTempFile(t, "grouped.csv",
		"cycle,capacity,voltage\n"+
			"1,0,4.2\n1,10,4.1\n"+
			"2,0,4.15\n2,10,4.05\n2,20,3.95\n")

	cycles, ids, err := readCycles(path)
	require.NoError(t, err)
	require.Len(t, cycles, 2)
	assert.Equal(t, []string{"1", "2"}, ids)
	assert.Len(t, cycles[0].Capacity, 2)
	assert.Len(t, cycles[1].Capacity, 3)
	assert.Equal(t, []float64{4.15, 4.05, 3.95}, cycles[1].Voltage)
}

func TestReadCyclesNoHeader(t *testing.T) {
	path := writeTempFile(t, "noheader.csv", "0,4.2\n10,4.1\n")

	cycles, _, err := readCycles(path)
	require.NoError(t, err)
	require.Len(t, cycles, 1)
	assert.Len(t, cycles[0].Capacity, 2)
}

func TestReadCyclesErrors(t *testing.T) {
	t.Run("MissingFile", func(t *testing.T) {
		_, _, err := readCycles(filepath.Join(t.TempDir(), "absent.csv"))
		assert.Error(t, err)
	})

	t.Run("BadColumnCount", func(t *testing.T) {
		path := writeTempFile(t, "bad.csv", "1,2,3,4\n")
		_, _, err := readCycles(path)
		assert.ErrorContains(t, err, "columns")
	})

	t.Run("BadNumber", func(t *testing.T) {
		path := writeTempFile(t, "nan.csv", "0,4.2\nxyz,4.1\n")
		_, _, err := readCycles(path)
		assert.ErrorContains(t, err, "bad capacity")
	})
}

func TestWriteResultsSkipsFailedCycles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	results := []dqdv.CycleResult{
		{
			VoltageProcessed:    []float64{3.0, 3.1},
			IncrementalCapacity: []float64{1.5, 1.6},
		},
		{Err: dqdv.ErrNullData},
	}

	require.NoError(t, writeResults(path, []string{"1", "2"}, results))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "cycle,voltage,dqdv\n1,3,1.5\n1,3.1,1.6\n", string(data))
}

func TestParseFixedRange(t *testing.T) {
	fr, err := parseFixedRange("3.0:4.2:500")
	require.NoError(t, err)
	assert.Equal(t, &dqdv.VoltageRange{Min: 3.0, Max: 4.2, Points: 500}, fr)

	for _, bad := range []string{"3.0:4.2", "a:4.2:500", "3.0:b:500", "3.0:4.2:c"} {
		_, err := parseFixedRange(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestLoadParams(t *testing.T) {
	path := writeTempFile(t, "params.yaml",
		"points_pr_split: 20\n"+
			"interpolation_method: cubic\n"+
			"post_smoothing: false\n"+
			"voltage_fwhm: 0.02\n"+
			"fixed_voltage_range: [3.0, 4.2, 250]\n")

	cfg, err := loadParams(path)
	require.NoError(t, err)

	assert.Equal(t, 20, cfg.PointsPerSplit)
	assert.Equal(t, dqdv.InterpolationCubic, cfg.InterpolationMethod)
	assert.False(t, cfg.PostSmoothing)
	assert.InDelta(t, 0.02, cfg.VoltageFWHM, 1e-12)
	require.NotNil(t, cfg.FixedVoltageRange)
	assert.Equal(t, &dqdv.VoltageRange{Min: 3.0, Max: 4.2, Points: 250}, cfg.FixedVoltageRange)

	// Unnamed parameters keep their defaults.
	assert.True(t, cfg.PreSmoothing)
	assert.True(t, cfg.Normalise)
	assert.Equal(t, dqdv.DefaultMinimumSplits, cfg.MinimumSplits)
}

func TestLoadParamsErrors(t *testing.T) {
	t.Run("UnknownKey", func(t *testing.T) {
		path := writeTempFile(t, "unknown.yaml", "no_such_parameter: 1\n")
		_, err := loadParams(path)
		assert.Error(t, err)
	})

	t.Run("BadFixedRange", func(t *testing.T) {
		path := writeTempFile(t, "badrange.yaml", "fixed_voltage_range: [1.0, 2.0]\n")
		_, err := loadParams(path)
		assert.ErrorContains(t, err, "fixed_voltage_range")
	})

	t.Run("MissingFile", func(t *testing.T) {
		_, err := loadParams(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.Error(t, err)
	})
}

func TestBuildConfig(t *testing.T) {
	cfg, err := buildConfig("", "quadratic", "3.0:4.2:100", true, true)
	require.NoError(t, err)

	assert.Equal(t, dqdv.InterpolationQuadratic, cfg.InterpolationMethod)
	assert.False(t, cfg.PreSmoothing)
	assert.False(t, cfg.Smoothing)
	assert.False(t, cfg.PostSmoothing)
	assert.False(t, cfg.Normalise)
	require.NotNil(t, cfg.FixedVoltageRange)
	assert.Equal(t, 100, cfg.FixedVoltageRange.Points)

	_, err = buildConfig("", "hermite", "", false, false)
	assert.ErrorIs(t, err, dqdv.ErrInvalidConfig)
}
