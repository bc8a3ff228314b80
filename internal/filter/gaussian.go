package filter

import (
	"fmt"
	"math"

	"github.com/tphakala/simd/f64"
)

// Mode selects the boundary handling for the Gaussian filter.
type Mode string

// Boundary modes, matching the conventional reflect/constant/nearest/
// mirror/wrap semantics. Reflect duplicates the edge sample
// (d c b a | a b c d | d c b a); mirror excludes it
// (d c b | a b c d | c b a).
const (
	ModeReflect  Mode = "reflect"
	ModeConstant Mode = "constant"
	ModeNearest  Mode = "nearest"
	ModeMirror   Mode = "mirror"
	ModeWrap     Mode = "wrap"
)

const (
	// DefaultTruncate is the kernel truncation radius in standard
	// deviations.
	DefaultTruncate = 4.0

	// maxOrder is the highest supported Gaussian derivative order.
	maxOrder = 3
)

// GaussianOpts carries the pass-through parameters of the Gaussian filter.
// The zero value selects order 0, reflect boundaries and the default
// truncation.
type GaussianOpts struct {
	// Order is the derivative order of the Gaussian kernel (0-3).
	// Order 0 smooths; higher orders estimate derivatives.
	Order int

	// Mode selects the boundary handling. Empty means reflect.
	Mode Mode

	// Cval is the fill value for ModeConstant.
	Cval float64

	// Truncate is the kernel radius in standard deviations.
	// Non-positive means DefaultTruncate.
	Truncate float64
}

// Gaussian applies a 1-D Gaussian filter with the given standard deviation
// (in samples) to data and returns the filtered series (same length).
func Gaussian(data []float64, sigma float64, opts GaussianOpts) ([]float64, error) {
	if sigma <= 0 {
		return nil, fmt.Errorf("%w: sigma must be positive, got %v", ErrSigma, sigma)
	}
	if opts.Order < 0 || opts.Order > maxOrder {
		return nil, fmt.Errorf("%w: gaussian order %d must be in [0, %d]", ErrOrder, opts.Order, maxOrder)
	}

	truncate := opts.Truncate
	if truncate <= 0 {
		truncate = DefaultTruncate
	}
	mode := opts.Mode
	if mode == "" {
		mode = ModeReflect
	}

	radius := int(truncate*sigma + 0.5)
	kernel := gaussianKernel(sigma, opts.Order, radius)

	padded, err := pad(data, radius, mode, opts.Cval)
	if err != nil {
		return nil, err
	}

	// ConvolveValid correlates (dst[i] = sum signal[i+j]*kernel[j]); the
	// filter convolves, so flip the kernel. Even orders are symmetric and
	// unaffected, odd orders change sign.
	reverse(kernel)
	out := make([]float64, len(data))
	f64.ConvolveValid(out, padded, kernel)
	return out, nil
}

// gaussianKernel builds the sampled Gaussian (or Gaussian-derivative)
// kernel over [-radius, radius]. The order-0 kernel is normalized to unit
// sum; higher orders apply the derivative recurrence
// d/dx (q(x) phi(x)) = (q'(x) - x/sigma^2 q(x)) phi(x) to the normalized
// kernel.
func gaussianKernel(sigma float64, order, radius int) []float64 {
	n := 2*radius + 1
	sigma2 := sigma * sigma

	phi := make([]float64, n)
	sum := 0.0
	for i := range n {
		x := float64(i - radius)
		phi[i] = math.Exp(-0.5 * x * x / sigma2)
		sum += phi[i]
	}
	f64.Scale(phi, phi, 1/sum)

	if order == 0 {
		return phi
	}

	// q starts as the constant 1 and gains one degree per derivative.
	q := make([]float64, order+1)
	q[0] = 1
	for d := 0; d < order; d++ {
		next := make([]float64, order+1)
		for j := 0; j <= order; j++ {
			if j+1 <= order {
				next[j] += float64(j+1) * q[j+1] // q'
			}
			if j > 0 {
				next[j] -= q[j-1] / sigma2 // -x/sigma^2 q
			}
		}
		q = next
	}

	for i := range n {
		x := float64(i - radius)
		v := q[order]
		for j := order - 1; j >= 0; j-- {
			v = v*x + q[j]
		}
		phi[i] *= v
	}
	return phi
}

// pad extends data by radius samples on both sides according to mode.
func pad(data []float64, radius int, mode Mode, cval float64) ([]float64, error) {
	n := len(data)
	padded := make([]float64, n+2*radius)
	copy(padded[radius:], data)

	fill := func(i int) (float64, error) {
		switch mode {
		case ModeReflect:
			return data[reflectIndex(i, n)], nil
		case ModeMirror:
			return data[mirrorIndex(i, n)], nil
		case ModeNearest:
			if i < 0 {
				return data[0], nil
			}
			return data[n-1], nil
		case ModeWrap:
			return data[((i%n)+n)%n], nil
		case ModeConstant:
			return cval, nil
		default:
			return 0, fmt.Errorf("%w: %q", ErrMode, mode)
		}
	}

	for k := 1; k <= radius; k++ {
		left, err := fill(-k)
		if err != nil {
			return nil, err
		}
		padded[radius-k] = left

		right, err := fill(n - 1 + k)
		if err != nil {
			return nil, err
		}
		padded[radius+n-1+k] = right
	}
	return padded, nil
}

// reflectIndex maps an out-of-range index into [0, n) with half-sample
// symmetry (the edge sample is duplicated).
func reflectIndex(i, n int) int {
	period := 2 * n
	m := ((i % period) + period) % period
	if m >= n {
		m = period - 1 - m
	}
	return m
}

// mirrorIndex maps an out-of-range index into [0, n) with whole-sample
// symmetry (the edge sample is not duplicated).
func mirrorIndex(i, n int) int {
	if n == 1 {
		return 0
	}
	period := 2 * (n - 1)
	m := ((i % period) + period) % period
	if m >= n {
		m = period - m
	}
	return m
}

func reverse(s []float64) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
