package dqdv

import (
	"fmt"

	"github.com/celltools/dqdv/internal/pipeline"
)

// Converter runs the dQ/dV pipeline stage by stage, giving access to
// intermediate results for tuning. One Converter serves one
// (capacity, voltage) job; create a fresh instance per cycle, or call
// SetData to start over. A Converter is not safe for concurrent use; for
// batches use ProcessCycles, which runs one Converter per cycle.
//
// The stage methods must run in order. Each delegates to a pure stage
// function in the internal pipeline and stores its result; calling a
// stage before its predecessor returns ErrStageOrder instead of silently
// reusing stale state.
type Converter struct {
	cfg *pipeline.Config

	capacity []float64
	voltage  []float64

	inspected    *pipeline.Inspected
	preprocessed *pipeline.PreProcessed
	incremented  *pipeline.Incremented
	processed    *pipeline.PostProcessed
}

// NewConverter creates a Converter. A nil config selects DefaultConfig.
func NewConverter(cfg *Config) (*Converter, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Converter{cfg: cfg.toPipeline()}, nil
}

// SetData stores the capacity and voltage series for one half-cycle and
// clears any results from a previous job. No validation happens here;
// validation is deferred to InspectData.
func (c *Converter) SetData(capacity, voltage []float64) {
	c.capacity = capacity
	c.voltage = voltage
	c.inspected = nil
	c.preprocessed = nil
	c.incremented = nil
	c.processed = nil
}

// InspectData validates the stored series and computes the diagnostics.
// Returns ErrNullData for missing, degenerate or mismatched input.
// Consistency findings do not fail; they are recorded in Errors.
func (c *Converter) InspectData() error {
	ins, err := pipeline.Inspect(c.cfg, c.capacity, c.voltage)
	if err != nil {
		return err
	}
	c.inspected = ins
	return nil
}

// PreProcessData resamples capacity onto a uniform grid and interpolates
// (and optionally smooths) voltage onto it.
func (c *Converter) PreProcessData() error {
	if c.inspected == nil {
		return fmt.Errorf("%w: InspectData must run before PreProcessData", ErrStageOrder)
	}
	pre, err := pipeline.PreProcess(c.cfg, c.inspected)
	if err != nil {
		return err
	}
	c.preprocessed = pre
	return nil
}

// IncrementData inverts capacity as a function of voltage on a uniform
// voltage grid and differentiates by finite differences.
func (c *Converter) IncrementData() error {
	if c.preprocessed == nil {
		return fmt.Errorf("%w: PreProcessData must run before IncrementData", ErrStageOrder)
	}
	inc, err := pipeline.Increment(c.cfg, c.preprocessed)
	if err != nil {
		return err
	}
	c.incremented = inc
	return nil
}

// PostProcessData applies Gaussian smoothing, area normalization and
// optional fixed-range resampling to the incremented curve.
func (c *Converter) PostProcessData() error {
	if c.incremented == nil {
		return fmt.Errorf("%w: IncrementData must run before PostProcessData", ErrStageOrder)
	}
	post, err := pipeline.PostProcess(c.cfg,
		c.incremented.VoltageProcessed,
		c.incremented.IncrementalCapacity,
		c.incremented.VoltageInvertedStep,
		c.inspected.NormalisingFactor,
	)
	if err != nil {
		return err
	}
	c.processed = post
	return nil
}

// VoltageProcessed returns the voltage grid of the final curve: the
// post-processed grid once PostProcessData has run, otherwise the
// midpoint grid from IncrementData. Nil before IncrementData.
func (c *Converter) VoltageProcessed() []float64 {
	if c.processed != nil {
		return c.processed.VoltageProcessed
	}
	if c.incremented != nil {
		return c.incremented.VoltageProcessed
	}
	return nil
}

// IncrementalCapacity returns the dQ/dV curve: post-processed once
// PostProcessData has run, otherwise the raw finite-difference curve.
// Nil before IncrementData.
func (c *Converter) IncrementalCapacity() []float64 {
	if c.processed != nil {
		return c.processed.IncrementalCapacity
	}
	if c.incremented != nil {
		return c.incremented.IncrementalCapacity
	}
	return nil
}

// RawIncrementalCapacity returns the finite-difference curve before any
// post-processing. Nil before IncrementData.
func (c *Converter) RawIncrementalCapacity() []float64 {
	if c.incremented == nil {
		return nil
	}
	return c.incremented.IncrementalCapacity
}

// CapacityPreprocessed returns the uniform capacity grid. Nil before
// PreProcessData.
func (c *Converter) CapacityPreprocessed() []float64 {
	if c.preprocessed == nil {
		return nil
	}
	return c.preprocessed.CapacityPreprocessed
}

// VoltagePreprocessed returns the voltage interpolated onto the uniform
// capacity grid. Nil before PreProcessData.
func (c *Converter) VoltagePreprocessed() []float64 {
	if c.preprocessed == nil {
		return nil
	}
	return c.preprocessed.VoltagePreprocessed
}

// VoltageInverted returns the uniform voltage grid used for inversion.
// Nil before IncrementData.
func (c *Converter) VoltageInverted() []float64 {
	if c.incremented == nil {
		return nil
	}
	return c.incremented.VoltageInverted
}

// VoltageInvertedStep returns the spacing of the inverted voltage grid.
// Zero before IncrementData.
func (c *Converter) VoltageInvertedStep() float64 {
	if c.incremented == nil {
		return 0
	}
	return c.incremented.VoltageInvertedStep
}

// CapacityInverted returns capacity interpolated as a function of the
// inverted voltage grid. Nil before IncrementData.
func (c *Converter) CapacityInverted() []float64 {
	if c.incremented == nil {
		return nil
	}
	return c.incremented.CapacityInverted
}

// NormalisingFactor returns the end-capacity value captured during
// inspection. Zero before InspectData.
func (c *Converter) NormalisingFactor() float64 {
	if c.inspected == nil {
		return 0
	}
	return c.inspected.NormalisingFactor
}

// Errors returns the consistency findings recorded during InspectData.
// Nil before InspectData or when the input was consistent.
func (c *Converter) Errors() []string {
	if c.inspected == nil {
		return nil
	}
	return c.inspected.Errors
}

// Warnings returns numerically degenerate conditions skipped during
// PostProcessData. Nil before PostProcessData or when none occurred.
func (c *Converter) Warnings() []string {
	if c.processed == nil {
		return nil
	}
	return c.processed.Warnings
}

// Diagnostics returns a copy of the inspection diagnostics, or nil before
// InspectData.
func (c *Converter) Diagnostics() *Diagnostics {
	if c.inspected == nil {
		return nil
	}
	ins := c.inspected
	return &Diagnostics{
		LenCapacity:       ins.LenCapacity,
		LenVoltage:        ins.LenVoltage,
		MeanDeltaCapacity: ins.MeanDeltaCapacity,
		MeanDeltaVoltage:  ins.MeanDeltaVoltage,
		MinCapacity:       ins.MinCapacity,
		MaxCapacity:       ins.MaxCapacity,
		FirstCapacity:     ins.FirstCapacity,
		LastCapacity:      ins.LastCapacity,
		StdErrMedian:      ins.StdErrMedian,
		StdErrMean:        ins.StdErrMean,
		StdErrComputed:    ins.StdErrComputed,
		NormalisingFactor: ins.NormalisingFactor,
	}
}

// Diagnostics summarizes the inspection stage's findings.
type Diagnostics struct {
	LenCapacity int
	LenVoltage  int

	// MeanDeltaCapacity and MeanDeltaVoltage are the mean first
	// differences of the inputs.
	MeanDeltaCapacity float64
	MeanDeltaVoltage  float64

	MinCapacity   float64
	MaxCapacity   float64
	FirstCapacity float64
	LastCapacity  float64

	// StdErrMedian and StdErrMean summarize the per-chunk regression
	// slope standard errors; valid only when StdErrComputed is true.
	StdErrMedian   float64
	StdErrMean     float64
	StdErrComputed bool

	// NormalisingFactor is the end-capacity value used by area
	// normalization.
	NormalisingFactor float64
}
