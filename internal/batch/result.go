package batch

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Result aggregates the per-image outcomes for one sample into the row
// that gets persisted. Owned and mutated only by the batch runner; the
// per-image pipeline never touches it.
type Result struct {
	Sample               string
	TotalSeeds           int
	MarkerSeeds          int
	BrightfieldThreshold int
	MarkerThreshold      int
	RadialThreshold      float64
	RadialThresholdRatio float64
}

func (r Result) String() string {
	return fmt.Sprintf("%s: %d seeds, %d marker (thresholds bf=%d marker=%d radial=%.2f)",
		r.Sample, r.TotalSeeds, r.MarkerSeeds,
		r.BrightfieldThreshold, r.MarkerThreshold, r.RadialThreshold)
}

// ResultsFileName is the CSV file written into the output directory.
const ResultsFileName = "results.csv"

var csvHeader = []string{
	"sample",
	"total_seeds",
	"marker_seeds",
	"brightfield_threshold",
	"marker_threshold",
	"radial_threshold",
	"radial_threshold_ratio",
}

// WriteResults stores one CSV row per sample in dir and returns the path
// of the written file.
func WriteResults(results []Result, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(dir, ResultsFileName)
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create results file: %w", err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(csvHeader); err != nil {
		return "", fmt.Errorf("failed to write results header: %w", err)
	}
	for _, r := range results {
		row := []string{
			r.Sample,
			strconv.Itoa(r.TotalSeeds),
			strconv.Itoa(r.MarkerSeeds),
			strconv.Itoa(r.BrightfieldThreshold),
			strconv.Itoa(r.MarkerThreshold),
			strconv.FormatFloat(r.RadialThreshold, 'f', 3, 64),
			strconv.FormatFloat(r.RadialThresholdRatio, 'f', 3, 64),
		}
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("failed to write result for %s: %w", r.Sample, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("failed to flush results: %w", err)
	}
	return path, nil
}
