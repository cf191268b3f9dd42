// Package classify buckets segmented seed regions by color for the
// colorimetric counting mode, where marker seeds are red and non-marker
// seeds are yellow-ish in a single RGB photograph.
package classify

import (
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
	"gocv.io/x/gocv"

	"seedseg/internal/segment"
	"seedseg/pkg/colorutil"
)

// Hue bands in degrees. Red wraps around 0; anything outside both bands is
// left unclassified and only contributes to the total count.
var (
	MarkerBand    = colorutil.HueBand{Min: 335, Max: 25} // red
	NonMarkerBand = colorutil.HueBand{Min: 35, Max: 75}  // yellow
)

// Pixels darker or grayer than this are ignored when averaging a region's
// hue, so shadow and background pixels caught inside a label don't drag
// the mean toward an arbitrary hue.
const (
	minSaturation = 0.25
	minValue      = 0.20
)

// Class is the color bucket assigned to one region.
type Class int

const (
	// ClassOther marks a region outside both recognized hue bands.
	ClassOther Class = iota
	// ClassMarker marks a red (genetically labeled) seed.
	ClassMarker
	// ClassNonMarker marks a yellow (unlabeled) seed.
	ClassNonMarker
)

func (c Class) String() string {
	switch c {
	case ClassMarker:
		return "marker"
	case ClassNonMarker:
		return "non-marker"
	default:
		return "other"
	}
}

// Classification groups regions by their assigned class.
type Classification struct {
	Marker    []segment.Region
	NonMarker []segment.Region
	Other     []segment.Region
}

// Regions classifies each region by the mean hue of its pixels in the BGR
// image, using the watershed label image to address region pixels. The hue
// mean is circular (unit-vector average) so red pixels on both sides of
// the 0/360 wrap don't cancel out.
func Regions(bgr gocv.Mat, markers gocv.Mat, regions []segment.Region) Classification {
	type acc struct {
		sumCos, sumSin float64
		count          int
	}
	byLabel := make(map[int]*acc, len(regions))
	for _, r := range regions {
		byLabel[r.Label] = &acc{}
	}

	rows, cols := markers.Rows(), markers.Cols()
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			a := byLabel[int(markers.GetIntAt(y, x))]
			if a == nil {
				continue
			}
			b := float64(bgr.GetUCharAt(y, x*3+0))
			g := float64(bgr.GetUCharAt(y, x*3+1))
			r := float64(bgr.GetUCharAt(y, x*3+2))
			hue, s, v := colorful.Color{R: r / 255, G: g / 255, B: b / 255}.Hsv()
			if s < minSaturation || v < minValue {
				continue
			}
			rad := hue * math.Pi / 180
			a.sumCos += math.Cos(rad)
			a.sumSin += math.Sin(rad)
			a.count++
		}
	}

	var out Classification
	for _, r := range regions {
		a := byLabel[r.Label]
		if a.count == 0 {
			out.Other = append(out.Other, r)
			continue
		}
		hue := math.Atan2(a.sumSin, a.sumCos) * 180 / math.Pi
		if hue < 0 {
			hue += 360
		}
		switch {
		case MarkerBand.Contains(hue):
			out.Marker = append(out.Marker, r)
		case NonMarkerBand.Contains(hue):
			out.NonMarker = append(out.NonMarker, r)
		default:
			out.Other = append(out.Other, r)
		}
	}
	return out
}
