package segment

// FilterLarge removes regions whose area exceeds factor times the median
// region area. The separator has already tried to split such blobs; what
// remains above the cutoff is debris or fused seeds the distance-transform
// pass could not resolve, and counting it would overstate the total.
//
// A nil factor disables the filter and returns the input unchanged. The
// result is always a subset of the input: filtering never invents regions.
func FilterLarge(regions []Region, factor *float64) []Region {
	if factor == nil || len(regions) == 0 {
		return regions
	}

	maxArea := MedianArea(regions) * *factor
	kept := make([]Region, 0, len(regions))
	for _, r := range regions {
		if float64(r.Area) <= maxArea {
			kept = append(kept, r)
		}
	}
	return kept
}
