package classify

import (
	"testing"

	"gocv.io/x/gocv"

	"seedseg/internal/segment"
)

// newLabeledStripes builds a BGR image split into vertical stripes, one per
// color, with a matching CV32S marker image labeling stripe i as i+2.
func newLabeledStripes(t *testing.T, colors [][3]uint8) (bgr, markers gocv.Mat, regions []segment.Region) {
	t.Helper()
	const stripeW, height = 10, 10

	bgr = gocv.NewMatWithSize(height, stripeW*len(colors), gocv.MatTypeCV8UC3)
	markers = gocv.NewMatWithSize(height, stripeW*len(colors), gocv.MatTypeCV32S)

	for i, c := range colors {
		label := i + 2
		for y := 0; y < height; y++ {
			for x := i * stripeW; x < (i+1)*stripeW; x++ {
				bgr.SetUCharAt(y, x*3+0, c[0])
				bgr.SetUCharAt(y, x*3+1, c[1])
				bgr.SetUCharAt(y, x*3+2, c[2])
				markers.SetIntAt(y, x, int32(label))
			}
		}
		regions = append(regions, segment.Region{
			Label:     label,
			Area:      stripeW * height,
			CentroidX: float64(i*stripeW) + stripeW/2,
			CentroidY: height / 2,
		})
	}
	return bgr, markers, regions
}

func TestRegionsClassifiesPureColors(t *testing.T) {
	// BGR order: red, yellow, blue stripes.
	bgr, markers, regions := newLabeledStripes(t, [][3]uint8{
		{0, 0, 255},   // pure red -> marker
		{0, 255, 255}, // pure yellow -> non-marker
		{255, 0, 0},   // pure blue -> neither band
	})
	defer bgr.Close()
	defer markers.Close()

	cls := Regions(bgr, markers, regions)

	if len(cls.Marker) != 1 || cls.Marker[0].Label != 2 {
		t.Errorf("marker regions: got %+v, want the red stripe (label 2)", cls.Marker)
	}
	if len(cls.NonMarker) != 1 || cls.NonMarker[0].Label != 3 {
		t.Errorf("non-marker regions: got %+v, want the yellow stripe (label 3)", cls.NonMarker)
	}
	if len(cls.Other) != 1 || cls.Other[0].Label != 4 {
		t.Errorf("other regions: got %+v, want the blue stripe (label 4)", cls.Other)
	}
}

func TestRegionsDarkRegionIsOther(t *testing.T) {
	// A region with no saturated pixels has no meaningful hue.
	bgr, markers, regions := newLabeledStripes(t, [][3]uint8{
		{10, 10, 10},
	})
	defer bgr.Close()
	defer markers.Close()

	cls := Regions(bgr, markers, regions)
	if len(cls.Other) != 1 || len(cls.Marker) != 0 || len(cls.NonMarker) != 0 {
		t.Errorf("dark region classification: got %+v", cls)
	}
}

func TestRegionsRedHueWrap(t *testing.T) {
	// Reds on both sides of the 0/360 wrap must land in the marker band.
	for _, c := range [][3]uint8{
		{40, 0, 255}, // hue ~350
		{0, 40, 255}, // hue ~10
	} {
		bgr, markers, regions := newLabeledStripes(t, [][3]uint8{c})
		cls := Regions(bgr, markers, regions)
		bgr.Close()
		markers.Close()
		if len(cls.Marker) != 1 {
			t.Errorf("BGR %v: not classified as marker", c)
		}
	}
}

func TestHueBandContains(t *testing.T) {
	tests := []struct {
		hue  float64
		want Class
	}{
		{0, ClassMarker},
		{15, ClassMarker},
		{350, ClassMarker},
		{60, ClassNonMarker},
		{40, ClassNonMarker},
		{120, ClassOther},
		{240, ClassOther},
	}
	for _, tt := range tests {
		var got Class
		switch {
		case MarkerBand.Contains(tt.hue):
			got = ClassMarker
		case NonMarkerBand.Contains(tt.hue):
			got = ClassNonMarker
		default:
			got = ClassOther
		}
		if got != tt.want {
			t.Errorf("hue %.0f: got %v, want %v", tt.hue, got, tt.want)
		}
	}
}
