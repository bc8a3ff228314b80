// Package filter provides the smoothing filters used by the dQ/dV pipeline:
// Savitzky-Golay local polynomial smoothing for the interpolated voltage and
// capacity series, and 1-D Gaussian smoothing for the incremental-capacity
// curve.
package filter

import (
	"errors"
	"fmt"

	"github.com/tphakala/simd/f64"
	"gonum.org/v1/gonum/mat"
)

const (
	// minWindow is the smallest usable Savitzky-Golay window.
	minWindow = 3

	// windowLengthFraction caps the window divisor so the window never
	// shrinks below ~5 samples on short series.
	windowLengthFraction = 5.0
)

// Errors returned by the filter constructors.
var (
	// ErrWindow indicates an invalid Savitzky-Golay window length.
	ErrWindow = errors.New("invalid filter window")

	// ErrOrder indicates an invalid polynomial or derivative order.
	ErrOrder = errors.New("invalid filter order")

	// ErrSigma indicates a non-positive Gaussian standard deviation.
	ErrSigma = errors.New("invalid gaussian sigma")

	// ErrMode indicates an unknown boundary mode.
	ErrMode = errors.New("unknown boundary mode")
)

// SavGolWindow computes the Savitzky-Golay window length for a series of n
// samples: window = n / min(divisorDefault, n/5), forced odd with a floor
// of minWindow. The divisor cap keeps the window wide enough to smooth
// short series without collapsing to a single sample.
func SavGolWindow(n, divisorDefault int) int {
	divisor := float64(divisorDefault)
	if frac := float64(n) / windowLengthFraction; frac < divisor {
		divisor = frac
	}

	window := minWindow
	if divisor > 0 {
		window = int(float64(n) / divisor)
	}

	if window%2 == 0 {
		window--
	}
	if window < minWindow {
		window = minWindow
	}

	return window
}

// SavGol applies a Savitzky-Golay filter of the given window length and
// polynomial order to data and returns the smoothed series (same length).
//
// Interior samples are computed by correlating with the least-squares
// smoothing coefficients. The first and last window/2 samples are computed
// by fitting a polynomial of the same order to the leading and trailing
// window and evaluating it at the edge positions, so polynomials of degree
// <= order are reproduced exactly all the way to the boundaries.
//
// When the window exceeds the series length the input is returned
// unchanged; very short cycles degrade to a no-op rather than failing.
func SavGol(data []float64, window, order int) ([]float64, error) {
	if window < minWindow || window%2 == 0 {
		return nil, fmt.Errorf("%w: window must be odd and >= %d, got %d", ErrWindow, minWindow, window)
	}
	if order < 0 || order >= window {
		return nil, fmt.Errorf("%w: polynomial order %d must be in [0, %d)", ErrOrder, order, window)
	}

	n := len(data)
	out := make([]float64, n)
	if window > n {
		copy(out, data)
		return out, nil
	}

	coeffs, err := savgolCoeffs(window, order)
	if err != nil {
		return nil, err
	}

	// Interior: the smoothing kernel is symmetric, so correlation and
	// convolution coincide.
	half := window / 2
	valid := make([]float64, n-window+1)
	f64.ConvolveValid(valid, data, coeffs)
	copy(out[half:n-half], valid)

	// Edges: polynomial fit over the first and last full window.
	head, err := polyFitEval(data[:window], order, 0, half)
	if err != nil {
		return nil, err
	}
	copy(out[:half], head)

	tail, err := polyFitEval(data[n-window:], order, window-half, window)
	if err != nil {
		return nil, err
	}
	copy(out[n-half:], tail)

	return out, nil
}

// savgolCoeffs returns the smoothing coefficients h such that the fitted
// polynomial value at the window center equals h . y for a window y.
//
// With A the Vandermonde design matrix over x = -half..half, the
// least-squares fit is c = (A'A)^-1 A' y and the center value is c[0], so
// h = A z where z solves (A'A) z = e0.
func savgolCoeffs(window, order int) ([]float64, error) {
	half := window / 2

	a := mat.NewDense(window, order+1, nil)
	for i := range window {
		x := float64(i - half)
		p := 1.0
		for j := 0; j <= order; j++ {
			a.Set(i, j, p)
			p *= x
		}
	}

	var ata mat.Dense
	ata.Mul(a.T(), a)

	e0 := mat.NewVecDense(order+1, nil)
	e0.SetVec(0, 1)

	var z mat.VecDense
	if err := z.SolveVec(&ata, e0); err != nil {
		return nil, fmt.Errorf("savgol coefficient solve failed: %w", err)
	}

	var h mat.VecDense
	h.MulVec(a, &z)

	coeffs := make([]float64, window)
	for i := range coeffs {
		coeffs[i] = h.AtVec(i)
	}
	return coeffs, nil
}

// polyFitEval fits a polynomial of the given order to window (abscissae
// 0..len(window)-1) by least squares and evaluates it at x = from..to-1.
func polyFitEval(window []float64, order, from, to int) ([]float64, error) {
	m := len(window)

	a := mat.NewDense(m, order+1, nil)
	for i := range m {
		x := float64(i)
		p := 1.0
		for j := 0; j <= order; j++ {
			a.Set(i, j, p)
			p *= x
		}
	}

	b := mat.NewVecDense(m, nil)
	for i, v := range window {
		b.SetVec(i, v)
	}

	var c mat.VecDense
	if err := c.SolveVec(a, b); err != nil {
		return nil, fmt.Errorf("savgol edge fit failed: %w", err)
	}

	out := make([]float64, to-from)
	for i := range out {
		x := float64(from + i)
		// Horner evaluation, highest degree first.
		v := c.AtVec(order)
		for j := order - 1; j >= 0; j-- {
			v = v*x + c.AtVec(j)
		}
		out[i] = v
	}
	return out, nil
}
