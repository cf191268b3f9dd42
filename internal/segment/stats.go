package segment

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// median returns the empirical median of values, or 0 for an empty slice.
// The empty-slice guard matters: a mask with no seeds must short-circuit
// to a zero radial threshold instead of dividing by zero downstream.
func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return stat.Quantile(0.5, stat.Empirical, sorted, nil)
}

// MedianRadius returns the median equivalent radius over regions.
func MedianRadius(regions []Region) float64 {
	radii := make([]float64, len(regions))
	for i, r := range regions {
		radii[i] = r.Radius
	}
	return median(radii)
}

// MedianArea returns the median pixel area over regions.
func MedianArea(regions []Region) float64 {
	areas := make([]float64, len(regions))
	for i, r := range regions {
		areas[i] = float64(r.Area)
	}
	return median(areas)
}
