package dqdv

import (
	"sync"

	"github.com/celltools/dqdv/internal/mathutil"
	"github.com/celltools/dqdv/internal/pipeline"
)

// DQDV runs the full pipeline on one half-cycle with default parameters
// and returns the processed voltage grid and the incremental-capacity
// curve. This is the entry point most callers need; use a Converter for
// staged access to intermediate results.
func DQDV(voltage, capacity []float64) (voltageProcessed, incrementalCapacity []float64, err error) {
	return DQDVWithConfig(nil, voltage, capacity)
}

// DQDVWithConfig is DQDV with explicit parameters. A nil config selects
// DefaultConfig.
func DQDVWithConfig(cfg *Config, voltage, capacity []float64) (voltageProcessed, incrementalCapacity []float64, err error) {
	c, err := NewConverter(cfg)
	if err != nil {
		return nil, nil, err
	}

	c.SetData(capacity, voltage)
	if err := c.InspectData(); err != nil {
		return nil, nil, err
	}
	if err := c.PreProcessData(); err != nil {
		return nil, nil, err
	}
	if err := c.IncrementData(); err != nil {
		return nil, nil, err
	}
	if err := c.PostProcessData(); err != nil {
		return nil, nil, err
	}

	return c.VoltageProcessed(), c.IncrementalCapacity(), nil
}

// PostProcess re-runs the post-processing stage on explicit arrays,
// supporting reprocessing with alternate smoothing or normalization
// settings without redoing the earlier stages. voltageStep is the uniform
// spacing of the voltage grid and normalisingFactor the total capacity the
// curve's area should match (from Converter.VoltageInvertedStep and
// Converter.NormalisingFactor for a previously processed cycle). A nil
// config selects DefaultConfig.
func PostProcess(cfg *Config, voltage, incrementalCapacity []float64, voltageStep, normalisingFactor float64) (voltageOut, incrementalCapacityOut []float64, err error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	post, err := pipeline.PostProcess(cfg.toPipeline(), voltage, incrementalCapacity, voltageStep, normalisingFactor)
	if err != nil {
		return nil, nil, err
	}
	return post.VoltageProcessed, post.IncrementalCapacity, nil
}

// ValueBounds returns the numeric range (min, max) of x, or (NaN, NaN)
// for an empty slice.
func ValueBounds(x []float64) (minVal, maxVal float64) {
	return mathutil.ValueBounds(x)
}

// IndexBounds returns the first and last element of x by position, or
// (NaN, NaN) for an empty slice. It captures the physical start and end
// of a half-cycle's capacity sweep; ValueBounds captures its numeric
// range. The two differ exactly when the sweep briefly reverses, which is
// what the inspection's start<>min / end<>max diagnostics detect.
func IndexBounds(x []float64) (first, last float64) {
	return mathutil.IndexBounds(x)
}

// Cycle is one half-cycle's input for batch processing.
type Cycle struct {
	Capacity []float64
	Voltage  []float64
}

// CycleResult is the outcome of processing one cycle. Err is set when the
// cycle failed; the other fields are valid only when Err is nil, except
// Errors, which carries the inspection diagnostics whenever inspection
// ran.
type CycleResult struct {
	VoltageProcessed    []float64
	IncrementalCapacity []float64

	// Errors lists the inspection consistency findings for this cycle.
	Errors []string

	// Warnings lists skipped degenerate post-processing conditions.
	Warnings []string

	// Err is the stage error that stopped this cycle, if any.
	Err error
}

// ProcessCycles runs the full pipeline on each cycle with a fresh
// Converter per cycle. When parallel is true the cycles are processed
// concurrently, one goroutine per cycle. A failed cycle is recorded on
// its result and does not stop the batch; only an invalid configuration
// fails the call itself.
func ProcessCycles(cfg *Config, cycles []Cycle, parallel bool) ([]CycleResult, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	results := make([]CycleResult, len(cycles))

	if !parallel || len(cycles) <= 1 {
		for i, cycle := range cycles {
			results[i] = processCycle(cfg, cycle)
		}
		return results, nil
	}

	var wg sync.WaitGroup
	for i, cycle := range cycles {
		wg.Add(1)
		go func(i int, cycle Cycle) {
			defer wg.Done()
			results[i] = processCycle(cfg, cycle)
		}(i, cycle)
	}
	wg.Wait()

	return results, nil
}

// processCycle runs all stages for one cycle, capturing diagnostics as
// far as processing got.
func processCycle(cfg *Config, cycle Cycle) CycleResult {
	c, err := NewConverter(cfg)
	if err != nil {
		return CycleResult{Err: err}
	}

	c.SetData(cycle.Capacity, cycle.Voltage)

	for _, stage := range []func() error{
		c.InspectData,
		c.PreProcessData,
		c.IncrementData,
		c.PostProcessData,
	} {
		if err := stage(); err != nil {
			return CycleResult{Errors: c.Errors(), Err: err}
		}
	}

	return CycleResult{
		VoltageProcessed:    c.VoltageProcessed(),
		IncrementalCapacity: c.IncrementalCapacity(),
		Errors:              c.Errors(),
		Warnings:            c.Warnings(),
	}
}
