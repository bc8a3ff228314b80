// Package pipeline implements the staged incremental-capacity (dQ/dV)
// transform. Each stage is a pure function taking the previous stage's
// immutable result and the configuration, and returning a new result:
//
//	Inspect -> PreProcess -> Increment -> PostProcess
//
// The stages hold no hidden state, so re-running a stage with the same
// inputs always yields the same output. The public Converter in the root
// package sequences them and stores their results per job.
package pipeline

import (
	"errors"
	"fmt"
	"math"

	"github.com/celltools/dqdv/internal/filter"
	"github.com/celltools/dqdv/internal/interpolate"
	"github.com/celltools/dqdv/internal/mathutil"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/integrate"
)

// IncrementDiff differentiates by finite differences on the uniform
// inverted-voltage grid. It is the only supported increment method.
const IncrementDiff = "diff"

// Errors returned by the pipeline stages.
var (
	// ErrNullData indicates missing or degenerate (length <= 1) input.
	ErrNullData = errors.New("no usable data")

	// ErrUnsupportedMethod indicates an increment method other than
	// IncrementDiff.
	ErrUnsupportedMethod = errors.New("unsupported increment method")
)

// FixedRange is a user-specified uniform voltage grid for resampling the
// final curve, enabling cycle-to-cycle comparison on a common axis.
type FixedRange struct {
	Min    float64
	Max    float64
	Points int
}

// Config holds the numeric parameters of the transform. The root package
// validates it and fills defaults before any stage runs.
type Config struct {
	// PointsPerSplit and MinimumSplits control the inspection
	// diagnostics chunking.
	PointsPerSplit int
	MinimumSplits  int

	// Interpolation selects the interpolation kind used by every stage
	// that builds an interpolant.
	Interpolation interpolate.Kind

	// IncrementMethod must be IncrementDiff.
	IncrementMethod string

	// PreSmoothing, Smoothing and PostSmoothing gate the Savitzky-Golay
	// (pre / during inversion) and Gaussian (post) smoothing stages.
	PreSmoothing  bool
	Smoothing     bool
	PostSmoothing bool

	// SavGolWindowDivisor and SavGolOrder control Savitzky-Golay window
	// sizing and polynomial order.
	SavGolWindowDivisor int
	SavGolOrder         int

	// VoltageFWHM is the desired full-width-half-max of the
	// post-processing Gaussian, in volts.
	VoltageFWHM float64

	// Gaussian pass-through parameters.
	GaussianOrder    int
	GaussianMode     filter.Mode
	GaussianCval     float64
	GaussianTruncate float64

	// Normalise rescales the incremental-capacity curve so its absolute
	// integral over voltage equals the normalising factor captured during
	// inspection.
	Normalise bool

	// FixedVoltageRange, when non-nil, resamples the post-processed
	// curve onto a uniform grid with NaN fill outside the observed
	// voltage range.
	FixedVoltageRange *FixedRange
}

// PreProcessed holds the uniformly resampled capacity grid and the voltage
// interpolated (and optionally smoothed) onto it.
type PreProcessed struct {
	CapacityPreprocessed []float64
	VoltagePreprocessed  []float64
}

// Incremented holds the inverted interpolation results and the raw
// incremental-capacity curve.
type Incremented struct {
	// VoltageInverted is the uniform voltage grid spanning the
	// preprocessed voltage range; VoltageInvertedStep is its spacing.
	VoltageInverted     []float64
	VoltageInvertedStep float64

	// CapacityInverted is capacity interpolated as a function of the
	// inverted voltage grid.
	CapacityInverted []float64

	// IncrementalCapacity is the finite difference of CapacityInverted
	// divided by the grid step; length is one less than the grid.
	IncrementalCapacity []float64

	// VoltageProcessed is the grid shifted by half a step so each
	// derivative sample sits between its two source points.
	VoltageProcessed []float64
}

// PostProcessed holds the final curve after smoothing, normalization and
// optional fixed-range resampling.
type PostProcessed struct {
	VoltageProcessed    []float64
	IncrementalCapacity []float64

	// Warnings records numerically degenerate conditions that were
	// skipped rather than failed (near-zero area normalization).
	Warnings []string
}

// PreProcess resamples the capacity axis onto a perfectly uniform grid
// preserving sample count and overall span, interpolates voltage from the
// raw pairs onto that grid, and optionally Savitzky-Golay smooths the
// result. Any non-uniformity in the original capacity spacing is
// discarded.
func PreProcess(cfg *Config, ins *Inspected) (*PreProcessed, error) {
	n := ins.LenCapacity
	capGrid := mathutil.Linspace(ins.FirstCapacity, ins.LastCapacity, n)

	it, err := interpolate.Fit(cfg.Interpolation, ins.Capacity, ins.Voltage)
	if err != nil {
		return nil, fmt.Errorf("pre-process: %w", err)
	}
	voltage := it.Evaluate(capGrid)

	if cfg.PreSmoothing {
		window := filter.SavGolWindow(n, cfg.SavGolWindowDivisor)
		voltage, err = filter.SavGol(voltage, window, cfg.SavGolOrder)
		if err != nil {
			return nil, fmt.Errorf("pre-process smoothing: %w", err)
		}
	}

	return &PreProcessed{
		CapacityPreprocessed: capGrid,
		VoltagePreprocessed:  voltage,
	}, nil
}

// Increment differentiates capacity with respect to voltage by inverting
// the functional relationship: it interpolates capacity as a function of
// voltage on a uniform voltage grid and takes a finite difference over the
// now-uniform steps. This avoids dividing by noisy, unevenly spaced
// voltage increments.
func Increment(cfg *Config, pre *PreProcessed) (*Incremented, error) {
	if cfg.IncrementMethod != IncrementDiff {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedMethod, cfg.IncrementMethod)
	}

	n := len(pre.VoltagePreprocessed)
	v1, v2 := mathutil.ValueBounds(pre.VoltagePreprocessed)
	grid := mathutil.Linspace(v1, v2, n)
	step := (v2 - v1) / float64(n-1)

	it, err := interpolate.Fit(cfg.Interpolation, pre.VoltagePreprocessed, pre.CapacityPreprocessed)
	if err != nil {
		return nil, fmt.Errorf("increment: %w", err)
	}
	capInv := it.Evaluate(grid)

	if cfg.Smoothing {
		window := filter.SavGolWindow(n, cfg.SavGolWindowDivisor)
		capInv, err = filter.SavGol(capInv, window, cfg.SavGolOrder)
		if err != nil {
			return nil, fmt.Errorf("increment smoothing: %w", err)
		}
	}

	ica := mathutil.Diff(capInv)
	floats.Scale(1/step, ica)

	vproc := make([]float64, n-1)
	for i := range vproc {
		vproc[i] = grid[i] + 0.5*step
	}

	return &Incremented{
		VoltageInverted:     grid,
		VoltageInvertedStep: step,
		CapacityInverted:    capInv,
		IncrementalCapacity: ica,
		VoltageProcessed:    vproc,
	}, nil
}

// PostProcess applies Gaussian smoothing, area normalization and optional
// fixed-range resampling to an incremental-capacity curve. It takes the
// curve explicitly so alternate inputs can be reprocessed for tuning; the
// Converter passes the Increment results and the inspection's normalising
// factor.
func PostProcess(cfg *Config, voltage, ica []float64, voltageStep, normalisingFactor float64) (*PostProcessed, error) {
	v := append([]float64(nil), voltage...)
	q := append([]float64(nil), ica...)
	var warnings []string

	if cfg.PostSmoothing {
		pointsFWHM := int(cfg.VoltageFWHM / voltageStep)
		sigma := math.Max(minGaussianSigma, float64(pointsFWHM)/2)

		smoothed, err := filter.Gaussian(q, sigma, filter.GaussianOpts{
			Order:    cfg.GaussianOrder,
			Mode:     cfg.GaussianMode,
			Cval:     cfg.GaussianCval,
			Truncate: cfg.GaussianTruncate,
		})
		if err != nil {
			return nil, fmt.Errorf("post-process smoothing: %w", err)
		}
		q = smoothed
	}

	if cfg.Normalise {
		var area float64
		if len(v) >= minSimpsonSamples {
			area = integrate.Simpsons(v, q)
		} else {
			area = integrate.Trapezoidal(v, q)
		}

		if math.Abs(area) < minNormalisationArea {
			warnings = append(warnings, "normalisation skipped: curve area is close to zero")
		} else {
			floats.Scale(normalisingFactor/math.Abs(area), q)
		}
	}

	if fr := cfg.FixedVoltageRange; fr != nil {
		grid := mathutil.Linspace(fr.Min, fr.Max, fr.Points)

		it, err := interpolate.Fit(cfg.Interpolation, v, q)
		if err != nil {
			return nil, fmt.Errorf("fixed-range resampling: %w", err)
		}

		out := make([]float64, fr.Points)
		for i, x := range grid {
			out[i] = it.PredictNaN(x)
		}
		v, q = grid, out
	}

	return &PostProcessed{
		VoltageProcessed:    v,
		IncrementalCapacity: q,
		Warnings:            warnings,
	}, nil
}
