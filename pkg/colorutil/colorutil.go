// Package colorutil provides shared color utilities for the seed analyzer.
package colorutil

import "image/color"

// Overlay colors used for diagnostic images.
var (
	Magenta = color.RGBA{R: 255, G: 0, B: 255, A: 255}
	Green   = color.RGBA{R: 0, G: 255, B: 0, A: 255}
)

// HueBand is a half-open hue interval [Min, Max) in degrees. A band with
// Min > Max wraps through 0, so {335, 25} covers red on both sides of zero.
type HueBand struct {
	Min float64
	Max float64
}

// Contains reports whether hue (degrees, 0-360) falls inside the band.
func (b HueBand) Contains(hue float64) bool {
	if b.Min > b.Max {
		return hue >= b.Min || hue < b.Max
	}
	return hue >= b.Min && hue < b.Max
}
