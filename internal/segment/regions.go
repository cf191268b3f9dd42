package segment

import (
	"math"

	"gocv.io/x/gocv"
)

// Region is one connected set of foreground pixels: a candidate seed.
// Regions are ephemeral per-image values; only their count and aggregate
// statistics survive into the outcome.
type Region struct {
	Label     int     // Label within one segmentation pass
	Area      int     // Pixel count
	CentroidX float64 // Centroid in image coordinates
	CentroidY float64
	Radius    float64 // Equivalent radius: sqrt(area/pi)
}

// equivalentRadius returns the radius of a circle with the given pixel area.
func equivalentRadius(area int) float64 {
	return math.Sqrt(float64(area) / math.Pi)
}

// ExtractRegions labels connected foreground pixels in a binary mask and
// returns one Region per component, skipping components smaller than
// minArea pixels. Labeling uses 8-connectivity so diagonally touching seed
// pixels are not split into spurious regions.
//
// An empty mask yields an empty slice, never an error.
func ExtractRegions(mask gocv.Mat, minArea int) []Region {
	labels := gocv.NewMat()
	defer labels.Close()
	stats := gocv.NewMat()
	defer stats.Close()
	centroids := gocv.NewMat()
	defer centroids.Close()

	numLabels := gocv.ConnectedComponentsWithStats(mask, &labels, &stats, &centroids)

	var regions []Region
	for i := 1; i < numLabels; i++ { // Skip background (label 0)
		area := int(stats.GetIntAt(i, 4)) // Area is at column 4
		if area < minArea {
			continue
		}
		regions = append(regions, Region{
			Label:     i,
			Area:      area,
			CentroidX: centroids.GetDoubleAt(i, 0),
			CentroidY: centroids.GetDoubleAt(i, 1),
			Radius:    equivalentRadius(area),
		})
	}
	return regions
}
