package segment

import (
	"image"

	"gocv.io/x/gocv"
)

// Binarize converts a single-channel image into a binary foreground mask.
// A non-nil fixed threshold marks pixels with value >= fixed as foreground;
// otherwise the threshold is computed with Otsu's method. The returned int
// is the threshold actually applied, so automatic runs can be reproduced or
// manually overridden on a retry.
//
// A uniform image is not an error: Otsu degenerates to the single pixel
// value and the mask may end up entirely background.
//
// The caller owns the returned Mat.
func Binarize(gray gocv.Mat, fixed *int, blurKernel int) (gocv.Mat, int) {
	src := gray
	if blurKernel >= 3 {
		k := blurKernel
		if k%2 == 0 {
			k++
		}
		blurred := gocv.NewMat()
		defer blurred.Close()
		gocv.GaussianBlur(gray, &blurred, image.Point{X: k, Y: k}, 0, 0, gocv.BorderDefault)
		src = blurred
	}

	mask := gocv.NewMat()
	if fixed != nil {
		// OpenCV's binary threshold keeps pixels strictly greater than the
		// cutoff; shifting by half a level turns that into pixel >= fixed.
		gocv.Threshold(src, &mask, float32(*fixed)-0.5, 255, gocv.ThresholdBinary)
		return mask, *fixed
	}

	used := gocv.Threshold(src, &mask, 0, 255, gocv.ThresholdBinary|gocv.ThresholdOtsu)
	return mask, int(used)
}
