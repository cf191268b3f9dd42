// Package pipeline sequences the per-image segmentation stages into the
// two counting workflows: one grayscale channel per call (fluorescence
// mode) or one RGB image yielding both a total and a marker count
// (colorimetric mode).
package pipeline

import (
	"fmt"

	"gocv.io/x/gocv"

	"seedseg/internal/classify"
	"seedseg/internal/diagnostics"
	"seedseg/internal/raster"
	"seedseg/internal/segment"
)

// ImageKind tags which physical channel an image represents.
type ImageKind int

const (
	// Brightfield shows every seed under standard illumination.
	Brightfield ImageKind = iota
	// Fluorescent shows only marker seeds under fluorescence excitation.
	Fluorescent
)

func (k ImageKind) String() string {
	switch k {
	case Brightfield:
		return "brightfield"
	case Fluorescent:
		return "fluorescent"
	default:
		return "unknown"
	}
}

// Outcome is the immutable result of processing one image. The thresholds
// are always the values actually applied, whether supplied or computed, so
// an automatic run can be reproduced or manually tuned afterwards.
type Outcome struct {
	NumSeeds            int
	BrightnessThreshold int
	RadialThreshold     float64
}

// ProcessSeedImage counts seeds in a single image: binarize, extract
// regions, separate touching seeds, and optionally drop oversized clumps.
// It is a pure function of its inputs; finding zero seeds is a valid
// outcome, not an error. rec may be nil to disable diagnostic output.
func ProcessSeedImage(img gocv.Mat, kind ImageKind, p segment.Params, rec *diagnostics.Recorder) (Outcome, error) {
	if img.Empty() {
		return Outcome{}, fmt.Errorf("empty %s image", kind)
	}

	gray := raster.ToGray(img)
	defer gray.Close()

	mask, thresh := segment.Binarize(gray, p.BrightnessThreshold, p.BlurKernel)
	defer mask.Close()
	rec.RecordMask("mask", mask)

	regions := segment.ExtractRegions(mask, p.MinRegionArea)
	sep := segment.Separate(mask, regions, p)
	defer sep.Close()
	rec.RecordDistance("dist", sep.Distance)
	rec.RecordPeaks("peaks", sep.Distance, sep.RadialThreshold)

	kept := segment.FilterLarge(sep.Regions, p.LargeAreaFactor)
	rec.RecordOverlay("seeds", img, kept)

	return Outcome{
		NumSeeds:            len(kept),
		BrightnessThreshold: thresh,
		RadialThreshold:     sep.RadialThreshold,
	}, nil
}

// ProcessColorimetricImage counts seeds in a single RGB image where marker
// seeds are red and non-marker seeds are yellow. One brightness pass finds
// every seed; the hue classifier then derives the marker count from the
// same separated regions, so both outcomes share one threshold and one
// radial separation. Regions outside both hue bands stay in the total but
// never in the marker count.
func ProcessColorimetricImage(img gocv.Mat, p segment.Params, rec *diagnostics.Recorder) (all, marker Outcome, err error) {
	if img.Empty() {
		return Outcome{}, Outcome{}, fmt.Errorf("empty colorimetric image")
	}
	// The hue classifier addresses pixels with a 3-byte stride, so a
	// 4-channel image would be misread, not just suboptimal.
	if img.Channels() != 3 {
		return Outcome{}, Outcome{}, fmt.Errorf("colorimetric mode needs a 3-channel color image, got %d channel(s)", img.Channels())
	}

	gray := raster.ToGray(img)
	defer gray.Close()

	mask, thresh := segment.Binarize(gray, p.BrightnessThreshold, p.BlurKernel)
	defer mask.Close()
	rec.RecordMask("mask", mask)

	regions := segment.ExtractRegions(mask, p.MinRegionArea)
	sep := segment.Separate(mask, regions, p)
	defer sep.Close()
	rec.RecordDistance("dist", sep.Distance)
	rec.RecordPeaks("peaks", sep.Distance, sep.RadialThreshold)

	kept := segment.FilterLarge(sep.Regions, p.LargeAreaFactor)
	rec.RecordOverlay("seeds", img, kept)

	all = Outcome{
		NumSeeds:            len(kept),
		BrightnessThreshold: thresh,
		RadialThreshold:     sep.RadialThreshold,
	}

	cls := classify.Regions(img, sep.Markers, kept)
	rec.WithTag("marker").RecordOverlay("seeds", img, cls.Marker)

	marker = Outcome{
		NumSeeds:            len(cls.Marker),
		BrightnessThreshold: thresh,
		RadialThreshold:     sep.RadialThreshold,
	}
	return all, marker, nil
}
