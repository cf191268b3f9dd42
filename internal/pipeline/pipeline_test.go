package pipeline

import (
	"image"
	"image/color"
	"testing"

	"gocv.io/x/gocv"

	"seedseg/internal/segment"
)

func newGray(w, h int) gocv.Mat {
	return gocv.NewMatWithSize(h, w, gocv.MatTypeCV8U)
}

func drawDisc(m *gocv.Mat, cx, cy, r int, value uint8) {
	c := color.RGBA{R: value, G: value, B: value, A: 255}
	gocv.Circle(m, image.Pt(cx, cy), r, c, -1)
}

// drawColorDisc draws a filled BGR disc.
func drawColorDisc(m *gocv.Mat, cx, cy, r int, b, g, red uint8) {
	gocv.Circle(m, image.Pt(cx, cy), r, color.RGBA{R: red, G: g, B: b, A: 255}, -1)
}

func TestProcessSeedImageSingleBlob(t *testing.T) {
	// One radius-10 disc of intensity 200 on a 100x100 black background
	// with a fixed threshold of 128.
	img := newGray(100, 100)
	defer img.Close()
	drawDisc(&img, 50, 50, 10, 200)

	p := segment.DefaultParams().WithBrightnessThreshold(128)
	outcome, err := ProcessSeedImage(img, Brightfield, p, nil)
	if err != nil {
		t.Fatalf("ProcessSeedImage failed: %v", err)
	}

	if outcome.NumSeeds != 1 {
		t.Errorf("NumSeeds: got %d, want 1", outcome.NumSeeds)
	}
	if outcome.BrightnessThreshold != 128 {
		t.Errorf("BrightnessThreshold: got %d, want 128", outcome.BrightnessThreshold)
	}
	if outcome.RadialThreshold <= 0 {
		t.Errorf("RadialThreshold: got %v, want > 0", outcome.RadialThreshold)
	}
}

func TestProcessSeedImageTwoBlobsAutoThreshold(t *testing.T) {
	// Two radius-8 discs 20px apart, automatic thresholding, ratio 0.4.
	img := newGray(120, 80)
	defer img.Close()
	drawDisc(&img, 50, 40, 8, 210)
	drawDisc(&img, 70, 40, 8, 210)

	outcome, err := ProcessSeedImage(img, Brightfield, segment.DefaultParams(), nil)
	if err != nil {
		t.Fatalf("ProcessSeedImage failed: %v", err)
	}
	if outcome.NumSeeds != 2 {
		t.Errorf("NumSeeds: got %d, want 2", outcome.NumSeeds)
	}
}

func TestProcessSeedImageNoSeeds(t *testing.T) {
	img := newGray(80, 80)
	defer img.Close()

	outcome, err := ProcessSeedImage(img, Fluorescent, segment.DefaultParams().WithBrightnessThreshold(128), nil)
	if err != nil {
		t.Fatalf("zero seeds must not be an error: %v", err)
	}
	if outcome.NumSeeds != 0 {
		t.Errorf("NumSeeds: got %d, want 0", outcome.NumSeeds)
	}
	if outcome.RadialThreshold != 0 {
		t.Errorf("RadialThreshold with no regions: got %v, want 0", outcome.RadialThreshold)
	}
}

func TestProcessSeedImageEchoesRadialThreshold(t *testing.T) {
	img := newGray(100, 100)
	defer img.Close()
	drawDisc(&img, 50, 50, 10, 200)

	p := segment.DefaultParams().
		WithBrightnessThreshold(128).
		WithRadialThreshold(2.75)
	outcome, err := ProcessSeedImage(img, Brightfield, p, nil)
	if err != nil {
		t.Fatalf("ProcessSeedImage failed: %v", err)
	}
	if outcome.RadialThreshold != 2.75 {
		t.Errorf("RadialThreshold: got %v, want the supplied 2.75 verbatim", outcome.RadialThreshold)
	}
}

func TestProcessSeedImageIdempotent(t *testing.T) {
	img := newGray(120, 80)
	defer img.Close()
	drawDisc(&img, 45, 40, 8, 210)
	drawDisc(&img, 59, 40, 8, 210)

	first, err := ProcessSeedImage(img, Brightfield, segment.DefaultParams(), nil)
	if err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	second, err := ProcessSeedImage(img, Brightfield, segment.DefaultParams(), nil)
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	if first != second {
		t.Errorf("outcomes differ: %+v vs %+v", first, second)
	}
}

func TestProcessSeedImageEmptyMat(t *testing.T) {
	empty := gocv.NewMat()
	defer empty.Close()

	if _, err := ProcessSeedImage(empty, Brightfield, segment.DefaultParams(), nil); err == nil {
		t.Error("expected an error for an empty Mat")
	}
}

func TestProcessColorimetricImage(t *testing.T) {
	// One red and one yellow seed: total 2, marker 1. The fixed threshold
	// keeps the darker red disc in the brightness mask.
	img := gocv.NewMatWithSize(80, 120, gocv.MatTypeCV8UC3)
	defer img.Close()
	drawColorDisc(&img, 40, 40, 8, 0, 0, 255)   // red
	drawColorDisc(&img, 80, 40, 8, 0, 255, 255) // yellow

	p := segment.DefaultParams().WithBrightnessThreshold(50)
	all, marker, err := ProcessColorimetricImage(img, p, nil)
	if err != nil {
		t.Fatalf("ProcessColorimetricImage failed: %v", err)
	}

	if all.NumSeeds != 2 {
		t.Errorf("total seeds: got %d, want 2", all.NumSeeds)
	}
	if marker.NumSeeds != 1 {
		t.Errorf("marker seeds: got %d, want 1", marker.NumSeeds)
	}
	if all.BrightnessThreshold != marker.BrightnessThreshold {
		t.Errorf("outcomes disagree on brightness threshold: %d vs %d",
			all.BrightnessThreshold, marker.BrightnessThreshold)
	}
	if all.RadialThreshold != marker.RadialThreshold {
		t.Errorf("outcomes disagree on radial threshold: %v vs %v",
			all.RadialThreshold, marker.RadialThreshold)
	}
}

func TestProcessColorimetricImageBlueExcludedFromMarkers(t *testing.T) {
	img := gocv.NewMatWithSize(80, 120, gocv.MatTypeCV8UC3)
	defer img.Close()
	drawColorDisc(&img, 40, 40, 8, 0, 0, 255) // red
	drawColorDisc(&img, 80, 40, 8, 255, 0, 0) // blue: counted, never a marker

	// Low cutoff: the blue disc's gray luminance is only ~29.
	p := segment.DefaultParams().WithBrightnessThreshold(20)
	all, marker, err := ProcessColorimetricImage(img, p, nil)
	if err != nil {
		t.Fatalf("ProcessColorimetricImage failed: %v", err)
	}
	if all.NumSeeds != 2 {
		t.Errorf("total seeds: got %d, want 2", all.NumSeeds)
	}
	if marker.NumSeeds != 1 {
		t.Errorf("marker seeds: got %d, want 1", marker.NumSeeds)
	}
}

func TestProcessColorimetricImageRejectsGrayscale(t *testing.T) {
	gray := newGray(50, 50)
	defer gray.Close()

	if _, _, err := ProcessColorimetricImage(gray, segment.DefaultParams(), nil); err == nil {
		t.Error("expected an error for a single-channel image")
	}
}

func TestProcessColorimetricImageRejectsFourChannels(t *testing.T) {
	bgra := gocv.NewMatWithSize(50, 50, gocv.MatTypeCV8UC4)
	defer bgra.Close()

	if _, _, err := ProcessColorimetricImage(bgra, segment.DefaultParams(), nil); err == nil {
		t.Error("expected an error for a four-channel image")
	}
}
