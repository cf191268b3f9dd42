package segment

import (
	"image"
	"sort"

	"gocv.io/x/gocv"
)

// SeparationResult holds the output of a touch-separation pass.
type SeparationResult struct {
	// Regions are the relabeled seed regions, generally >= the input count.
	Regions []Region

	// Markers is the CV32S label image produced by the watershed flood:
	// 1 = background, >= 2 = seed labels, -1 = boundary pixels. It lets
	// downstream stages (color classification, diagnostics) address each
	// region's pixels without recomputation. The caller owns it.
	Markers gocv.Mat

	// Distance is the CV32F distance transform of the input mask, kept so
	// diagnostic output can show it without recomputation. The caller owns
	// it; it is empty when the input had no regions.
	Distance gocv.Mat

	// RadialThreshold is the distance-transform cutoff actually used.
	RadialThreshold float64
}

// Close releases the Mats held by the result.
func (s *SeparationResult) Close() {
	s.Markers.Close()
	s.Distance.Close()
}

// Separate splits blobs that contain several touching seeds. For each
// foreground pixel the distance transform gives the distance to the nearest
// background pixel; thresholding it at the radial threshold leaves one peak
// per seed center, because the shallow neck between two touching seeds
// falls below the cutoff. The peaks then act as watershed markers and the
// flood reassigns every mask pixel to its nearest peak.
//
// The radial threshold is taken verbatim from params when supplied and is
// otherwise median(region radius) * ratio, which adapts the cutoff to the
// seed population actually observed in this image instead of relying on a
// universal constant.
//
// With zero input regions the distance transform is skipped entirely and
// the reported threshold is the supplied value, or zero when automatic.
func Separate(mask gocv.Mat, regions []Region, p Params) SeparationResult {
	if len(regions) == 0 {
		rt := 0.0
		if p.RadialThreshold != nil {
			rt = *p.RadialThreshold
		}
		return SeparationResult{RadialThreshold: rt, Markers: gocv.NewMat(), Distance: gocv.NewMat()}
	}

	rt := 0.0
	if p.RadialThreshold != nil {
		rt = *p.RadialThreshold
	} else {
		rt = MedianRadius(regions) * p.RadialThresholdRatio
	}

	dist := gocv.NewMat()
	distLabels := gocv.NewMat()
	defer distLabels.Close()
	gocv.DistanceTransform(mask, &dist, &distLabels, gocv.DistL2, gocv.DistanceMask5, gocv.DistanceLabelCComp)

	// Peak seeds: distance >= radial threshold. The binary threshold keeps
	// strictly greater values, so nudge the cutoff down slightly to include
	// pixels sitting exactly on it.
	peaks := gocv.NewMat()
	defer peaks.Close()
	gocv.Threshold(dist, &peaks, float32(rt)-1e-3, 255, gocv.ThresholdBinary)

	peaks8 := gocv.NewMat()
	defer peaks8.Close()
	peaks.ConvertTo(&peaks8, gocv.MatTypeCV8U)

	peakLabels := gocv.NewMat()
	defer peakLabels.Close()
	numPeakLabels := gocv.ConnectedComponents(peaks8, &peakLabels)

	markers := gocv.NewMatWithSize(mask.Rows(), mask.Cols(), gocv.MatTypeCV32S)
	if numPeakLabels <= 1 { // Only background: threshold above every peak
		return SeparationResult{RadialThreshold: rt, Markers: markers, Distance: dist}
	}

	// Sure background: anything outside a slightly dilated mask. Pixels
	// between that and the peaks stay unlabeled (0) for the flood to claim.
	kernel := gocv.GetStructuringElement(gocv.MorphEllipse, image.Point{X: 5, Y: 5})
	defer kernel.Close()
	sureBg := gocv.NewMat()
	defer sureBg.Close()
	gocv.Dilate(mask, &sureBg, kernel)

	rows, cols := mask.Rows(), mask.Cols()
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			switch {
			case peakLabels.GetIntAt(y, x) > 0:
				// Shift peak labels by one so label 1 stays background
				markers.SetIntAt(y, x, peakLabels.GetIntAt(y, x)+1)
			case sureBg.GetUCharAt(y, x) == 0:
				markers.SetIntAt(y, x, 1)
			default:
				markers.SetIntAt(y, x, 0)
			}
		}
	}

	// Watershed wants a 3-channel image; flooding over the mask itself
	// keeps the split purely geometric and deterministic.
	maskBGR := gocv.NewMat()
	defer maskBGR.Close()
	gocv.CvtColor(mask, &maskBGR, gocv.ColorGrayToBGR)
	gocv.Watershed(maskBGR, &markers)

	return SeparationResult{
		Regions:         regionsFromMarkers(markers, mask, p.MinRegionArea),
		Markers:         markers,
		Distance:        dist,
		RadialThreshold: rt,
	}
}

// regionsFromMarkers rebuilds the region list from a watershed label image,
// restricted to the original foreground mask so the flood's spill into the
// dilated border ring is not counted as seed area.
func regionsFromMarkers(markers, mask gocv.Mat, minArea int) []Region {
	type acc struct {
		area       int
		sumX, sumY float64
	}
	byLabel := make(map[int]*acc)

	rows, cols := markers.Rows(), markers.Cols()
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			label := int(markers.GetIntAt(y, x))
			if label < 2 || mask.GetUCharAt(y, x) == 0 {
				continue
			}
			a := byLabel[label]
			if a == nil {
				a = &acc{}
				byLabel[label] = a
			}
			a.area++
			a.sumX += float64(x)
			a.sumY += float64(y)
		}
	}

	labels := make([]int, 0, len(byLabel))
	for label := range byLabel {
		labels = append(labels, label)
	}
	sort.Ints(labels)

	var regions []Region
	for _, label := range labels {
		a := byLabel[label]
		if a.area < minArea {
			continue
		}
		regions = append(regions, Region{
			Label:     label,
			Area:      a.area,
			CentroidX: a.sumX / float64(a.area),
			CentroidY: a.sumY / float64(a.area),
			Radius:    equivalentRadius(a.area),
		})
	}
	return regions
}
