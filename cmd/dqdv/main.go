// Command dqdv computes incremental-capacity (dQ/dV) curves from battery
// cycling data in CSV form.
//
// Usage:
//
//	dqdv input.csv output.csv
//	dqdv -params params.yaml input.csv output.csv
//	dqdv -fixed 3.0:4.2:500 input.csv output.csv   # common voltage axis
//	dqdv -no-smoothing -no-normalise input.csv output.csv
//
// The input holds one sample per row, either as "capacity,voltage" for a
// single half-cycle or "cycle,capacity,voltage" for many. A header row is
// skipped automatically. The output holds one row per dQ/dV sample:
// "cycle,voltage,dqdv".
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/celltools/dqdv"
)

const minRequiredArgs = 2

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	paramsPath := flag.String("params", "", "YAML parameter file overriding the defaults")
	interp := flag.String("interp", "", "Interpolation method: linear, nearest, zero, slinear, quadratic, cubic")
	fixed := flag.String("fixed", "", "Fixed voltage range as min:max:points (common axis for all cycles)")
	noSmoothing := flag.Bool("no-smoothing", false, "Disable all smoothing stages")
	noNormalise := flag.Bool("no-normalise", false, "Disable area normalization")
	parallel := flag.Bool("parallel", true, "Process cycles concurrently")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	args := flag.Args()
	if len(args) < minRequiredArgs {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] input.csv output.csv\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		return fmt.Errorf("insufficient arguments")
	}
	inputPath := args[0]
	outputPath := args[1]

	cfg, err := buildConfig(*paramsPath, *interp, *fixed, *noSmoothing, *noNormalise)
	if err != nil {
		return err
	}

	cycles, ids, err := readCycles(inputPath)
	if err != nil {
		return err
	}
	if *verbose {
		log.Printf("Input: %s (%d cycles)", inputPath, len(cycles))
		log.Printf("Interpolation: %s", cfg.InterpolationMethod)
		if cfg.FixedVoltageRange != nil {
			fr := cfg.FixedVoltageRange
			log.Printf("Fixed range: [%g, %g] V, %d points", fr.Min, fr.Max, fr.Points)
		}
	}

	start := time.Now()
	results, err := dqdv.ProcessCycles(cfg, cycles, *parallel)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	processed := 0
	for i, res := range results {
		if res.Err != nil {
			log.Printf("cycle %s: skipped: %v", ids[i], res.Err)
			continue
		}
		processed++
		if *verbose {
			for _, msg := range res.Errors {
				log.Printf("cycle %s: %s", ids[i], msg)
			}
			for _, msg := range res.Warnings {
				log.Printf("cycle %s: %s", ids[i], msg)
			}
		}
	}

	if err := writeResults(outputPath, ids, results); err != nil {
		return err
	}

	fmt.Printf("Processed %s -> %s\n", filepath.Base(inputPath), filepath.Base(outputPath))
	fmt.Printf("  %d of %d cycles in %.2fs\n", processed, len(cycles), elapsed.Seconds())
	return nil
}

// buildConfig assembles the converter configuration from the parameter
// file and the command-line overrides.
func buildConfig(paramsPath, interp, fixed string, noSmoothing, noNormalise bool) (*dqdv.Config, error) {
	cfg := dqdv.DefaultConfig()
	if paramsPath != "" {
		loaded, err := loadParams(paramsPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if interp != "" {
		cfg.InterpolationMethod = dqdv.InterpolationMethod(interp)
	}
	if fixed != "" {
		fr, err := parseFixedRange(fixed)
		if err != nil {
			return nil, err
		}
		cfg.FixedVoltageRange = fr
	}
	if noSmoothing {
		cfg.PreSmoothing = false
		cfg.Smoothing = false
		cfg.PostSmoothing = false
	}
	if noNormalise {
		cfg.Normalise = false
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
