package segment

// DefaultRadialThresholdRatio is the fraction of the median seed radius used
// to derive the distance-transform cutoff when no explicit radial threshold
// is supplied.
const DefaultRadialThresholdRatio = 0.4

// DefaultMinRegionArea is the noise floor: connected components smaller than
// this many pixels are discarded as speckle rather than counted as seeds.
const DefaultMinRegionArea = 15

// Params holds segmentation parameters for one image. Optional values are
// pointers; nil selects automatic behavior (or disables the stage for
// LargeAreaFactor).
type Params struct {
	// BrightnessThreshold binarizes the image at pixel >= threshold.
	// Nil computes the threshold with Otsu's method.
	BrightnessThreshold *int

	// RadialThreshold is the distance-transform cutoff for separating
	// touching seeds. Nil derives it from the median seed radius.
	RadialThreshold *float64

	// RadialThresholdRatio scales the median seed radius when
	// RadialThreshold is nil.
	RadialThresholdRatio float64

	// LargeAreaFactor discards regions larger than factor x median area
	// as unresolved clumps. Nil disables the filter.
	LargeAreaFactor *float64

	// MinRegionArea is the minimum component size in pixels.
	MinRegionArea int

	// BlurKernel is the side of an optional Gaussian smoothing kernel
	// applied before thresholding. Zero disables smoothing; odd values
	// >= 3 help with noisy camera scans.
	BlurKernel int
}

// DefaultParams returns segmentation parameters with automatic thresholding
// and the default separation ratio.
func DefaultParams() Params {
	return Params{
		RadialThresholdRatio: DefaultRadialThresholdRatio,
		MinRegionArea:        DefaultMinRegionArea,
	}
}

// WithBrightnessThreshold returns a copy of params with a fixed
// binarization threshold.
func (p Params) WithBrightnessThreshold(thresh int) Params {
	p.BrightnessThreshold = &thresh
	return p
}

// WithRadialThreshold returns a copy of params with an explicit
// distance-transform cutoff. The value is used and reported verbatim.
func (p Params) WithRadialThreshold(thresh float64) Params {
	p.RadialThreshold = &thresh
	return p
}

// WithRadialThresholdRatio returns a copy of params with a custom
// median-radius ratio.
func (p Params) WithRadialThresholdRatio(ratio float64) Params {
	p.RadialThresholdRatio = ratio
	return p
}

// WithLargeAreaFactor returns a copy of params with clump filtering enabled.
func (p Params) WithLargeAreaFactor(factor float64) Params {
	p.LargeAreaFactor = &factor
	return p
}
