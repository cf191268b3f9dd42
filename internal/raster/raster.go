// Package raster provides image loading and Mat conversion for the seed
// counting pipeline. OpenCV's IMRead covers the common formats; a stdlib
// decode path (with TIFF support) backs it up for files OpenCV rejects.
package raster

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"gocv.io/x/gocv"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// SupportedFormats returns the list of supported image file extensions.
func SupportedFormats() []string {
	return []string{".tiff", ".tif", ".png", ".jpg", ".jpeg", ".bmp"}
}

// IsSupportedFormat checks if the given path has a supported image format.
func IsSupportedFormat(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, format := range SupportedFormats() {
		if ext == format {
			return true
		}
	}
	return false
}

// Load reads an image file into a 3-channel BGR Mat. The caller owns the
// returned Mat and must Close it.
func Load(path string) (gocv.Mat, error) {
	if !IsSupportedFormat(path) {
		return gocv.NewMat(), fmt.Errorf("unsupported image format: %s", filepath.Ext(path))
	}

	mat := gocv.IMRead(path, gocv.IMReadColor)
	if !mat.Empty() {
		return mat, nil
	}
	mat.Close()

	// Some TIFF variants (e.g. unusual photometric tags from microscope
	// software) fail in OpenCV but decode fine with the stdlib.
	img, err := decodeFile(path)
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("failed to read image %s: %w", path, err)
	}
	return ImageToMat(img), nil
}

// decodeFile decodes an image via the stdlib registry (PNG, JPEG, TIFF, BMP).
func decodeFile(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// ImageToMat converts a Go image.Image to a 3-channel BGR Mat.
func ImageToMat(srcImg image.Image) gocv.Mat {
	bounds := srcImg.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	mat := gocv.NewMatWithSize(h, w, gocv.MatTypeCV8UC3)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, _ := srcImg.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			// Convert from 16-bit to 8-bit and BGR order for OpenCV
			mat.SetUCharAt(y, x*3+0, uint8(b>>8))
			mat.SetUCharAt(y, x*3+1, uint8(g>>8))
			mat.SetUCharAt(y, x*3+2, uint8(r>>8))
		}
	}

	return mat
}

// ToGray returns a single-channel copy of src. Multi-channel inputs are
// converted with the standard BGR weights; single-channel inputs are cloned.
func ToGray(src gocv.Mat) gocv.Mat {
	if src.Channels() == 1 {
		return src.Clone()
	}
	gray := gocv.NewMat()
	gocv.CvtColor(src, &gray, gocv.ColorBGRToGray)
	return gray
}
