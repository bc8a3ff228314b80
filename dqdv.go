package dqdv

import (
	"errors"
	"fmt"

	"github.com/celltools/dqdv/internal/filter"
	"github.com/celltools/dqdv/internal/interpolate"
	"github.com/celltools/dqdv/internal/pipeline"
)

// InterpolationMethod selects the interpolation algorithm used by the
// pipeline stages.
type InterpolationMethod string

// Supported interpolation methods.
const (
	// InterpolationLinear is piecewise linear interpolation (default).
	InterpolationLinear InterpolationMethod = "linear"

	// InterpolationNearest is piecewise constant interpolation.
	InterpolationNearest InterpolationMethod = "nearest"

	// InterpolationZero is zero-order-hold interpolation (treated as
	// piecewise constant).
	InterpolationZero InterpolationMethod = "zero"

	// InterpolationSLinear is first-order spline interpolation (treated
	// as piecewise linear).
	InterpolationSLinear InterpolationMethod = "slinear"

	// InterpolationQuadratic is low-order local spline interpolation
	// (Akima).
	InterpolationQuadratic InterpolationMethod = "quadratic"

	// InterpolationCubic is natural cubic spline interpolation.
	InterpolationCubic InterpolationMethod = "cubic"
)

// IncrementMethod selects the differentiation algorithm.
type IncrementMethod string

// IncrementDiff differentiates by finite differences on the uniform
// inverted-voltage grid. It is the only supported method; any other value
// is rejected by Validate rather than silently producing no output.
const IncrementDiff IncrementMethod = "diff"

// GaussianMode selects the boundary handling of the post-processing
// Gaussian filter.
type GaussianMode string

// Supported Gaussian boundary modes.
const (
	GaussianReflect  GaussianMode = "reflect"
	GaussianConstant GaussianMode = "constant"
	GaussianNearest  GaussianMode = "nearest"
	GaussianMirror   GaussianMode = "mirror"
	GaussianWrap     GaussianMode = "wrap"
)

// VoltageRange specifies a uniform voltage grid for resampling the final
// curve. Points outside the observed voltage range are filled with NaN;
// no extrapolation is performed.
type VoltageRange struct {
	// Min and Max bound the grid in volts.
	Min float64
	Max float64

	// Points is the number of grid samples.
	Points int
}

// Config holds the transform parameters. Use DefaultConfig for the
// standard settings; a zero Config is not valid.
type Config struct {
	// PointsPerSplit is the target chunk size for the inspection
	// regression diagnostics.
	PointsPerSplit int

	// MinimumSplits is the minimum chunk count below which the
	// regression diagnostics are skipped.
	MinimumSplits int

	// InterpolationMethod selects the interpolation algorithm.
	InterpolationMethod InterpolationMethod

	// IncrementMethod selects the differentiation algorithm; only
	// IncrementDiff is supported.
	IncrementMethod IncrementMethod

	// PreSmoothing applies a Savitzky-Golay filter to the interpolated
	// voltage during pre-processing.
	PreSmoothing bool

	// Smoothing applies a Savitzky-Golay filter to the inverted capacity
	// during incrementing.
	Smoothing bool

	// PostSmoothing applies a Gaussian filter to the incremental
	// capacity during post-processing.
	PostSmoothing bool

	// SavGolWindowDivisor sizes the Savitzky-Golay window as a fraction
	// of the series length; the window is forced odd with a floor of 3.
	SavGolWindowDivisor int

	// SavGolOrder is the Savitzky-Golay polynomial order.
	SavGolOrder int

	// VoltageFWHM is the desired full-width-half-max of the
	// post-processing Gaussian, in volts. It is converted to a sigma in
	// sample units using the inverted-voltage grid step.
	VoltageFWHM float64

	// GaussianOrder, GaussianMode, GaussianCval and GaussianTruncate are
	// passed through to the Gaussian filter.
	GaussianOrder    int
	GaussianMode     GaussianMode
	GaussianCval     float64
	GaussianTruncate float64

	// Normalise rescales the final curve so its absolute integral over
	// voltage equals the end-capacity value captured during inspection,
	// tying the curve's area back to the total capacity delivered.
	Normalise bool

	// FixedVoltageRange, when non-nil, resamples the final curve onto
	// the given uniform grid.
	FixedVoltageRange *VoltageRange
}

// Errors returned by the package. Stage errors wrap these sentinels, so
// use errors.Is to classify failures.
var (
	// ErrNullData indicates missing, degenerate (length <= 1) or
	// mismatched input at inspection. It is the only fatal data
	// condition in the pipeline.
	ErrNullData = pipeline.ErrNullData

	// ErrInvalidConfig indicates invalid configuration parameters.
	ErrInvalidConfig = errors.New("invalid converter configuration")

	// ErrUnsupportedMethod indicates an increment method other than
	// IncrementDiff.
	ErrUnsupportedMethod = pipeline.ErrUnsupportedMethod

	// ErrNonMonotonic indicates duplicate values on an interpolation
	// axis; the interpolant is not single-valued there.
	ErrNonMonotonic = interpolate.ErrNonMonotonic

	// ErrStageOrder indicates a stage method called before its
	// predecessor.
	ErrStageOrder = errors.New("pipeline stages must run in order")
)

// DefaultConfig returns the standard transform parameters: all smoothing
// stages enabled, linear interpolation, finite-difference incrementing and
// area normalization.
func DefaultConfig() *Config {
	return &Config{
		PointsPerSplit:      DefaultPointsPerSplit,
		MinimumSplits:       DefaultMinimumSplits,
		InterpolationMethod: InterpolationLinear,
		IncrementMethod:     IncrementDiff,
		PreSmoothing:        true,
		Smoothing:           true,
		PostSmoothing:       true,
		SavGolWindowDivisor: DefaultSavGolWindowDivisor,
		SavGolOrder:         DefaultSavGolOrder,
		VoltageFWHM:         DefaultVoltageFWHM,
		GaussianOrder:       0,
		GaussianMode:        GaussianReflect,
		GaussianCval:        0,
		GaussianTruncate:    DefaultGaussianTruncate,
		Normalise:           true,
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.PointsPerSplit < 1 {
		return fmt.Errorf("%w: points per split must be at least 1", ErrInvalidConfig)
	}
	if c.MinimumSplits < 1 {
		return fmt.Errorf("%w: minimum splits must be at least 1", ErrInvalidConfig)
	}

	switch c.InterpolationMethod {
	case InterpolationLinear, InterpolationNearest, InterpolationZero,
		InterpolationSLinear, InterpolationQuadratic, InterpolationCubic:
	default:
		return fmt.Errorf("%w: unknown interpolation method %q", ErrInvalidConfig, c.InterpolationMethod)
	}

	if c.IncrementMethod != IncrementDiff {
		return fmt.Errorf("%w: %q", ErrUnsupportedMethod, c.IncrementMethod)
	}

	if c.SavGolWindowDivisor < 1 {
		return fmt.Errorf("%w: savgol window divisor must be at least 1", ErrInvalidConfig)
	}
	if c.SavGolOrder < 0 {
		return fmt.Errorf("%w: savgol order must be non-negative", ErrInvalidConfig)
	}

	if c.VoltageFWHM <= 0 {
		return fmt.Errorf("%w: voltage FWHM must be positive", ErrInvalidConfig)
	}
	if c.GaussianOrder < 0 || c.GaussianOrder > maxGaussianOrder {
		return fmt.Errorf("%w: gaussian order must be in [0, %d]", ErrInvalidConfig, maxGaussianOrder)
	}
	if c.GaussianTruncate <= 0 {
		return fmt.Errorf("%w: gaussian truncate must be positive", ErrInvalidConfig)
	}

	switch c.GaussianMode {
	case GaussianReflect, GaussianConstant, GaussianNearest, GaussianMirror, GaussianWrap:
	default:
		return fmt.Errorf("%w: unknown gaussian mode %q", ErrInvalidConfig, c.GaussianMode)
	}

	if fr := c.FixedVoltageRange; fr != nil {
		if fr.Min >= fr.Max {
			return fmt.Errorf("%w: fixed voltage range min must be below max", ErrInvalidConfig)
		}
		if fr.Points < minFixedRangePoints {
			return fmt.Errorf("%w: fixed voltage range needs at least %d points", ErrInvalidConfig, minFixedRangePoints)
		}
	}

	return nil
}

// toPipeline converts the public configuration into the internal stage
// configuration.
func (c *Config) toPipeline() *pipeline.Config {
	cfg := &pipeline.Config{
		PointsPerSplit:      c.PointsPerSplit,
		MinimumSplits:       c.MinimumSplits,
		Interpolation:       interpolate.Kind(c.InterpolationMethod),
		IncrementMethod:     string(c.IncrementMethod),
		PreSmoothing:        c.PreSmoothing,
		Smoothing:           c.Smoothing,
		PostSmoothing:       c.PostSmoothing,
		SavGolWindowDivisor: c.SavGolWindowDivisor,
		SavGolOrder:         c.SavGolOrder,
		VoltageFWHM:         c.VoltageFWHM,
		GaussianOrder:       c.GaussianOrder,
		GaussianMode:        filter.Mode(c.GaussianMode),
		GaussianCval:        c.GaussianCval,
		GaussianTruncate:    c.GaussianTruncate,
		Normalise:           c.Normalise,
	}
	if fr := c.FixedVoltageRange; fr != nil {
		cfg.FixedVoltageRange = &pipeline.FixedRange{Min: fr.Min, Max: fr.Max, Points: fr.Points}
	}
	return cfg
}
