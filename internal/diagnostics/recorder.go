// Package diagnostics writes intermediate pipeline images (masks, distance
// transforms, count overlays) so threshold choices can be inspected and
// tuned without rerunning the segmentation.
package diagnostics

import (
	"fmt"
	"image"
	"path/filepath"

	"gocv.io/x/gocv"

	"seedseg/internal/segment"
	"seedseg/pkg/colorutil"
)

// Recorder writes named intermediate images for one sample. A nil *Recorder
// is valid and records nothing, so the pipeline can be called with
// diagnostics disabled without branching at every stage.
type Recorder struct {
	dir    string
	sample string
	tag    string
}

// New returns a Recorder writing into dir, naming files after the sample
// and an image-type tag (e.g. "BF", "FL", "all", "marker").
func New(dir, sample, tag string) *Recorder {
	return &Recorder{dir: dir, sample: sample, tag: tag}
}

// WithTag returns a copy of the recorder with a different image-type tag.
func (r *Recorder) WithTag(tag string) *Recorder {
	if r == nil {
		return nil
	}
	return &Recorder{dir: r.dir, sample: r.sample, tag: tag}
}

func (r *Recorder) path(name string) string {
	return filepath.Join(r.dir, fmt.Sprintf("%s_%s_%s.png", r.sample, r.tag, name))
}

// RecordMask writes a binary mask.
func (r *Recorder) RecordMask(name string, mask gocv.Mat) {
	if r == nil || mask.Empty() {
		return
	}
	gocv.IMWrite(r.path(name), mask)
}

// RecordDistance writes a float32 distance transform, min-max normalized
// into the displayable 0-255 range.
func (r *Recorder) RecordDistance(name string, dist gocv.Mat) {
	if r == nil || dist.Empty() {
		return
	}
	norm := gocv.NewMat()
	defer norm.Close()
	gocv.Normalize(dist, &norm, 0, 255, gocv.NormMinMax)

	norm8 := gocv.NewMat()
	defer norm8.Close()
	norm.ConvertTo(&norm8, gocv.MatTypeCV8U)
	gocv.IMWrite(r.path(name), norm8)
}

// RecordPeaks writes the distance transform thresholded at the radial
// cutoff, showing the peaks that seeded the watershed.
func (r *Recorder) RecordPeaks(name string, dist gocv.Mat, radialThreshold float64) {
	if r == nil || dist.Empty() {
		return
	}
	peaks := gocv.NewMat()
	defer peaks.Close()
	gocv.Threshold(dist, &peaks, float32(radialThreshold)-1e-3, 255, gocv.ThresholdBinary)

	peaks8 := gocv.NewMat()
	defer peaks8.Close()
	peaks.ConvertTo(&peaks8, gocv.MatTypeCV8U)
	gocv.IMWrite(r.path(name), peaks8)
}

// RecordOverlay writes the source image with one circle per counted region
// and the total count in the corner.
func (r *Recorder) RecordOverlay(name string, src gocv.Mat, regions []segment.Region) {
	if r == nil || src.Empty() {
		return
	}
	overlay := gocv.NewMat()
	defer overlay.Close()
	if src.Channels() == 1 {
		gocv.CvtColor(src, &overlay, gocv.ColorGrayToBGR)
	} else {
		src.CopyTo(&overlay)
	}

	for _, reg := range regions {
		center := image.Pt(int(reg.CentroidX+0.5), int(reg.CentroidY+0.5))
		radius := int(reg.Radius + 0.5)
		if radius < 1 {
			radius = 1
		}
		gocv.Circle(&overlay, center, radius, colorutil.Magenta, 2)
	}
	gocv.PutText(&overlay, fmt.Sprintf("n=%d", len(regions)),
		image.Pt(10, 30), gocv.FontHersheyPlain, 2, colorutil.Green, 2)

	gocv.IMWrite(r.path(name), overlay)
}
