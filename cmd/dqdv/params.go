package main

import (
	"fmt"
	"os"

	"github.com/celltools/dqdv"
	"gopkg.in/yaml.v2"
)

// fileParams mirrors the converter parameters in the YAML parameter file.
// Pointer fields distinguish "absent" from zero, so a file only overrides
// what it names; everything else keeps its default.
type fileParams struct {
	PointsPerSplit      *int     `yaml:"points_pr_split"`
	MinimumSplits       *int     `yaml:"minimum_splits"`
	InterpolationMethod *string  `yaml:"interpolation_method"`
	PreSmoothing        *bool    `yaml:"pre_smoothing"`
	Smoothing           *bool    `yaml:"smoothing"`
	PostSmoothing       *bool    `yaml:"post_smoothing"`
	SavGolWindowDivisor *int     `yaml:"savgol_filter_window_divisor"`
	SavGolOrder         *int     `yaml:"savgol_filter_window_order"`
	VoltageFWHM         *float64 `yaml:"voltage_fwhm"`
	GaussianOrder       *int     `yaml:"gaussian_order"`
	GaussianMode        *string  `yaml:"gaussian_mode"`
	GaussianCval        *float64 `yaml:"gaussian_cval"`
	GaussianTruncate    *float64 `yaml:"gaussian_truncate"`
	Normalise           *bool    `yaml:"normalise"`

	// fixed_voltage_range: [min, max, points]
	FixedVoltageRange []float64 `yaml:"fixed_voltage_range"`
}

// loadParams reads a YAML parameter file and applies it on top of the
// defaults.
func loadParams(path string) (*dqdv.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read parameter file: %w", err)
	}

	var p fileParams
	if err := yaml.UnmarshalStrict(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	cfg := dqdv.DefaultConfig()
	if p.PointsPerSplit != nil {
		cfg.PointsPerSplit = *p.PointsPerSplit
	}
	if p.MinimumSplits != nil {
		cfg.MinimumSplits = *p.MinimumSplits
	}
	if p.InterpolationMethod != nil {
		cfg.InterpolationMethod = dqdv.InterpolationMethod(*p.InterpolationMethod)
	}
	if p.PreSmoothing != nil {
		cfg.PreSmoothing = *p.PreSmoothing
	}
	if p.Smoothing != nil {
		cfg.Smoothing = *p.Smoothing
	}
	if p.PostSmoothing != nil {
		cfg.PostSmoothing = *p.PostSmoothing
	}
	if p.SavGolWindowDivisor != nil {
		cfg.SavGolWindowDivisor = *p.SavGolWindowDivisor
	}
	if p.SavGolOrder != nil {
		cfg.SavGolOrder = *p.SavGolOrder
	}
	if p.VoltageFWHM != nil {
		cfg.VoltageFWHM = *p.VoltageFWHM
	}
	if p.GaussianOrder != nil {
		cfg.GaussianOrder = *p.GaussianOrder
	}
	if p.GaussianMode != nil {
		cfg.GaussianMode = dqdv.GaussianMode(*p.GaussianMode)
	}
	if p.GaussianCval != nil {
		cfg.GaussianCval = *p.GaussianCval
	}
	if p.GaussianTruncate != nil {
		cfg.GaussianTruncate = *p.GaussianTruncate
	}
	if p.Normalise != nil {
		cfg.Normalise = *p.Normalise
	}

	if len(p.FixedVoltageRange) > 0 {
		if len(p.FixedVoltageRange) != fixedRangeArgs {
			return nil, fmt.Errorf("%s: fixed_voltage_range needs [min, max, points]", path)
		}
		cfg.FixedVoltageRange = &dqdv.VoltageRange{
			Min:    p.FixedVoltageRange[0],
			Max:    p.FixedVoltageRange[1],
			Points: int(p.FixedVoltageRange[2]),
		}
	}

	return cfg, nil
}
