// Package dqdv computes incremental capacity (dQ/dV) curves from battery
// cycling data in pure Go.
//
// The input is one half-cycle: two equal-length series of capacity and
// voltage samples with capacity sweeping monotonically in one direction.
// The output is the derivative of capacity with respect to voltage on a
// uniform voltage grid; its peaks correspond to electrochemical phase
// transitions.
//
// # Quick Start
//
// For one-shot processing with default parameters:
//
//	voltage, ica, err := dqdv.DQDV(voltageIn, capacityIn)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// For staged processing with access to intermediate results:
//
//	c, err := dqdv.NewConverter(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	c.SetData(capacityIn, voltageIn)
//	if err := c.InspectData(); err != nil {
//	    log.Fatal(err) // nil or degenerate input
//	}
//	// c.Errors() now holds consistency diagnostics; processing continues
//	// regardless.
//	if err := c.PreProcessData(); err != nil { ... }
//	if err := c.IncrementData(); err != nil { ... }
//	if err := c.PostProcessData(); err != nil { ... }
//	v, q := c.VoltageProcessed(), c.IncrementalCapacity()
//
// # Algorithm
//
// Dividing a capacity difference by a noisy, unevenly spaced voltage
// difference amplifies noise. The pipeline instead inverts the functional
// relationship:
//
//	Input -> [Inspect] -> [PreProcess] -> [Increment] -> [PostProcess]
//
//   - Inspect validates the input and records consistency diagnostics
//     (sweep-direction checks, per-chunk regression standard errors).
//   - PreProcess resamples capacity onto a uniform grid, interpolates
//     voltage onto it and optionally Savitzky-Golay smooths the result.
//   - Increment interpolates capacity as a function of voltage on a
//     uniform voltage grid and differentiates by finite differences over
//     the now-uniform steps.
//   - PostProcess applies Gaussian smoothing, rescales the curve so its
//     area matches the total delivered capacity, and optionally resamples
//     onto a fixed voltage range for cycle-to-cycle comparison (NaN
//     outside the observed range, no extrapolation).
//
// Every stage is a pure function over the previous stage's result; the
// Converter only sequences them and stores the results, so a stage run out
// of order fails fast instead of silently reusing stale state.
//
// # Batch Processing
//
// A Converter serves one job. To process many cycles, use [ProcessCycles],
// which runs one fresh Converter per cycle and optionally fans the cycles
// out across goroutines. Per-cycle failures are recorded on the cycle's
// result; the batch always completes.
//
// # Error Handling
//
// Only data absence fails the pipeline ([ErrNullData]). Consistency
// findings (a sweep that briefly reverses, diagnostics skipped on short
// series) are recorded in the Errors list and processing continues on a
// best-effort basis; inspect the list to decide whether to trust the
// output. Numerically degenerate post-processing conditions (near-zero
// curve area during normalization) are skipped and recorded as warnings.
package dqdv
