package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/celltools/dqdv"
)

// Column layouts accepted in the input CSV.
const (
	columnsPlain   = 2 // capacity, voltage
	columnsCycled  = 3 // cycle, capacity, voltage
	fixedRangeArgs = 3 // min:max:points
)

// readCycles parses the input CSV into per-cycle sample series. Rows are
// grouped by the cycle column when present; a two-column file is one
// cycle. A non-numeric first row is treated as a header and skipped.
// Rows must stay grouped by cycle; the cycle order of first appearance is
// preserved.
func readCycles(path string) ([]dqdv.Cycle, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open input: %w", err)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("%s: empty input", path)
	}

	// Header detection: skip the first row if it does not parse.
	startRow := 0
	if _, err := strconv.ParseFloat(records[0][len(records[0])-1], 64); err != nil {
		startRow = 1
	}

	var (
		cycles  []dqdv.Cycle
		ids     []string
		current string
	)
	for i, rec := range records[startRow:] {
		var id, capField, voltField string
		switch len(rec) {
		case columnsPlain:
			id, capField, voltField = "1", rec[0], rec[1]
		case columnsCycled:
			id, capField, voltField = rec[0], rec[1], rec[2]
		default:
			return nil, nil, fmt.Errorf("%s: row %d: expected %d or %d columns, got %d",
				path, startRow+i+1, columnsPlain, columnsCycled, len(rec))
		}

		capacity, err := strconv.ParseFloat(capField, 64)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: row %d: bad capacity %q: %w", path, startRow+i+1, capField, err)
		}
		voltage, err := strconv.ParseFloat(voltField, 64)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: row %d: bad voltage %q: %w", path, startRow+i+1, voltField, err)
		}

		if id != current {
			cycles = append(cycles, dqdv.Cycle{})
			ids = append(ids, id)
			current = id
		}
		last := &cycles[len(cycles)-1]
		last.Capacity = append(last.Capacity, capacity)
		last.Voltage = append(last.Voltage, voltage)
	}

	return cycles, ids, nil
}

// writeResults writes one "cycle,voltage,dqdv" row per output sample.
// Failed cycles are omitted.
func writeResults(path string, ids []string, results []dqdv.CycleResult) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}
	defer func() { _ = f.Close() }()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"cycle", "voltage", "dqdv"}); err != nil {
		return err
	}
	for i, res := range results {
		if res.Err != nil {
			continue
		}
		for j := range res.VoltageProcessed {
			row := []string{
				ids[i],
				strconv.FormatFloat(res.VoltageProcessed[j], 'g', -1, 64),
				strconv.FormatFloat(res.IncrementalCapacity[j], 'g', -1, 64),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}
	w.Flush()
	return w.Error()
}

// parseFixedRange parses a min:max:points specification.
func parseFixedRange(s string) (*dqdv.VoltageRange, error) {
	parts := strings.Split(s, ":")
	if len(parts) != fixedRangeArgs {
		return nil, fmt.Errorf("fixed range must be min:max:points, got %q", s)
	}

	minV, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return nil, fmt.Errorf("bad fixed range min %q: %w", parts[0], err)
	}
	maxV, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return nil, fmt.Errorf("bad fixed range max %q: %w", parts[1], err)
	}
	points, err := strconv.Atoi(parts[2])
	if err != nil {
		return nil, fmt.Errorf("bad fixed range points %q: %w", parts[2], err)
	}

	return &dqdv.VoltageRange{Min: minV, Max: maxV, Points: points}, nil
}
