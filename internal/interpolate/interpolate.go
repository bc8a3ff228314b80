// Package interpolate adapts gonum's 1-D interpolation predictors to the
// dQ/dV pipeline. Sample pairs are sorted by abscissa before fitting, so a
// monotonically decreasing axis (a discharge sweep) is accepted as-is;
// duplicate abscissae are rejected because no single-valued interpolant
// exists for them.
package interpolate

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/interp"
)

// Kind selects the interpolation algorithm.
type Kind string

// Supported interpolation kinds. Linear and SLinear both map to piecewise
// linear interpolation; Nearest and Zero to piecewise constant; Quadratic
// to an Akima spline (the closest local low-order spline available);
// Cubic to a natural cubic spline.
const (
	Linear    Kind = "linear"
	Nearest   Kind = "nearest"
	Zero      Kind = "zero"
	SLinear   Kind = "slinear"
	Quadratic Kind = "quadratic"
	Cubic     Kind = "cubic"
)

// Errors returned when building an interpolant.
var (
	// ErrUnknownKind indicates an unrecognized interpolation kind.
	ErrUnknownKind = errors.New("unknown interpolation kind")

	// ErrNonMonotonic indicates duplicate abscissae on the interpolation
	// axis after sorting.
	ErrNonMonotonic = errors.New("interpolation axis is not strictly monotonic")

	// ErrLength indicates mismatched or too-short input slices.
	ErrLength = errors.New("interpolation needs equal-length inputs with at least 2 samples")
)

// Interpolator is a fitted 1-D interpolant with a known domain.
type Interpolator struct {
	predictor interp.FittablePredictor
	xmin      float64
	xmax      float64
}

func newPredictor(kind Kind) (interp.FittablePredictor, error) {
	switch kind {
	case Linear, SLinear:
		return &interp.PiecewiseLinear{}, nil
	case Nearest, Zero:
		return &interp.PiecewiseConstant{}, nil
	case Quadratic:
		return &interp.AkimaSpline{}, nil
	case Cubic:
		return &interp.NaturalCubic{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}

// Fit builds an interpolant of ys as a function of xs.
func Fit(kind Kind, xs, ys []float64) (*Interpolator, error) {
	if len(xs) != len(ys) || len(xs) < 2 {
		return nil, fmt.Errorf("%w: got %d and %d", ErrLength, len(xs), len(ys))
	}

	sx := make([]float64, len(xs))
	sy := make([]float64, len(ys))
	copy(sx, xs)
	copy(sy, ys)
	sort.Stable(&xyPairs{x: sx, y: sy})

	for i := 1; i < len(sx); i++ {
		if sx[i] <= sx[i-1] {
			return nil, fmt.Errorf("%w: duplicate abscissa %v", ErrNonMonotonic, sx[i])
		}
	}

	p, err := newPredictor(kind)
	if err != nil {
		return nil, err
	}
	if err := p.Fit(sx, sy); err != nil {
		return nil, fmt.Errorf("interpolant fit failed: %w", err)
	}

	return &Interpolator{predictor: p, xmin: sx[0], xmax: sx[len(sx)-1]}, nil
}

// Predict returns the interpolated value at x. Outside the fitted domain
// the underlying predictor's behavior applies (constant continuation).
func (it *Interpolator) Predict(x float64) float64 {
	return it.predictor.Predict(x)
}

// PredictNaN returns the interpolated value at x, or NaN when x lies
// outside the fitted domain. No extrapolation is performed.
func (it *Interpolator) PredictNaN(x float64) float64 {
	if x < it.xmin || x > it.xmax {
		return math.NaN()
	}
	return it.predictor.Predict(x)
}

// Evaluate returns the interpolated values at each abscissa in xs.
func (it *Interpolator) Evaluate(xs []float64) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = it.predictor.Predict(x)
	}
	return out
}

// Domain returns the fitted abscissa range.
func (it *Interpolator) Domain() (xmin, xmax float64) {
	return it.xmin, it.xmax
}

// xyPairs sorts paired samples by ascending abscissa.
type xyPairs struct {
	x, y []float64
}

func (p *xyPairs) Len() int           { return len(p.x) }
func (p *xyPairs) Less(i, j int) bool { return p.x[i] < p.x[j] }
func (p *xyPairs) Swap(i, j int) {
	p.x[i], p.x[j] = p.x[j], p.x[i]
	p.y[i], p.y[j] = p.y[j], p.y[i]
}
