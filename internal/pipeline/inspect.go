package pipeline

import (
	"fmt"
	"math"
	"sort"

	"github.com/celltools/dqdv/internal/mathutil"
	"gonum.org/v1/gonum/stat"
)

// Inspected holds the validated input and its diagnostics. Inspection
// never mutates the input and never aborts the pipeline for consistency
// findings; those are recorded in Errors for the caller to judge.
type Inspected struct {
	// Capacity and Voltage reference the caller's input verbatim.
	Capacity []float64
	Voltage  []float64

	LenCapacity int
	LenVoltage  int

	// MeanDeltaCapacity and MeanDeltaVoltage are the mean first
	// differences of each input.
	MeanDeltaCapacity float64
	MeanDeltaVoltage  float64

	MinCapacity   float64
	MaxCapacity   float64
	FirstCapacity float64
	LastCapacity  float64

	// Errors lists human-readable consistency findings, e.g.
	// "capacity: start<>min" when the sweep-direction assumption looks
	// violated. Diagnostic only.
	Errors []string

	// StdErrMedian and StdErrMean summarize the per-chunk
	// linear-regression slope standard errors. Valid only when
	// StdErrComputed is true; the chunk diagnostics are skipped entirely
	// on series too short to split.
	StdErrMedian   float64
	StdErrMean     float64
	StdErrComputed bool

	// NormalisingFactor is the end capacity value, used by the
	// area-normalization post-processing step.
	NormalisingFactor float64
}

// Inspect validates the (capacity, voltage) pair and computes the
// diagnostics. It is the only stage that can fail on data absence: nil,
// degenerate (length <= 1) or mismatched inputs return ErrNullData.
func Inspect(cfg *Config, capacity, voltage []float64) (*Inspected, error) {
	if len(capacity) <= 1 || len(voltage) <= 1 {
		return nil, fmt.Errorf("%w: capacity and voltage need at least 2 samples, got %d and %d",
			ErrNullData, len(capacity), len(voltage))
	}
	if len(capacity) != len(voltage) {
		return nil, fmt.Errorf("%w: capacity and voltage lengths differ (%d vs %d)",
			ErrNullData, len(capacity), len(voltage))
	}

	ins := &Inspected{
		Capacity:          capacity,
		Voltage:           voltage,
		LenCapacity:       len(capacity),
		LenVoltage:        len(voltage),
		MeanDeltaCapacity: mathutil.MeanDiff(capacity),
		MeanDeltaVoltage:  mathutil.MeanDiff(voltage),
	}
	ins.MinCapacity, ins.MaxCapacity = mathutil.ValueBounds(capacity)
	ins.FirstCapacity, ins.LastCapacity = mathutil.IndexBounds(capacity)

	if ins.FirstCapacity != ins.MinCapacity {
		ins.Errors = append(ins.Errors, "capacity: start<>min")
	}
	if ins.LastCapacity != ins.MaxCapacity {
		ins.Errors = append(ins.Errors, "capacity: end<>max")
	}

	splits := ins.LenCapacity / cfg.PointsPerSplit
	if splits < cfg.MinimumSplits {
		ins.Errors = append(ins.Errors,
			fmt.Sprintf("regression diagnostics skipped: %d splits, need %d", splits, cfg.MinimumSplits))
	} else if stdErrs := chunkStdErrs(capacity, voltage, splits); len(stdErrs) > 0 {
		ins.StdErrMedian = median(stdErrs)
		ins.StdErrMean = stat.Mean(stdErrs, nil)
		ins.StdErrComputed = true
	}

	ins.NormalisingFactor = ins.LastCapacity
	return ins, nil
}

// chunkStdErrs splits the series into near-equal chunks and returns the
// standard error of the regression slope of voltage on capacity for each
// chunk. Chunks too short to regress, or with zero capacity spread, are
// skipped.
func chunkStdErrs(capacity, voltage []float64, splits int) []float64 {
	n := len(capacity)
	base := n / splits
	extra := n % splits

	stdErrs := make([]float64, 0, splits)
	start := 0
	for s := range splits {
		size := base
		if s < extra {
			size++
		}
		c := capacity[start : start+size]
		v := voltage[start : start+size]
		start += size

		if size < minChunkSamples {
			continue
		}
		if se, ok := slopeStdErr(c, v); ok {
			stdErrs = append(stdErrs, se)
		}
	}
	return stdErrs
}

// slopeStdErr fits v = alpha + beta*c and returns the standard error of
// beta: sqrt(SSR / (n-2) / sum((c - mean(c))^2)).
func slopeStdErr(c, v []float64) (float64, bool) {
	alpha, beta := stat.LinearRegression(c, v, nil, false)

	cMean := stat.Mean(c, nil)
	var ssr, sxx float64
	for i := range c {
		resid := v[i] - alpha - beta*c[i]
		ssr += resid * resid
		d := c[i] - cMean
		sxx += d * d
	}
	if sxx == 0 {
		return 0, false
	}
	return math.Sqrt(ssr / float64(len(c)-2) / sxx), true
}

func median(x []float64) float64 {
	s := append([]float64(nil), x...)
	sort.Float64s(s)
	n := len(s)
	if n%2 == 1 {
		return s[n/2]
	}
	return (s[n/2-1] + s[n/2]) / 2
}
