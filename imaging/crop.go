package imaging

// ShouldCrop reports whether an image of the given bounds should be
// center-cropped before resizing: either its aspect ratio exceeds 2:1, or
// the variant forces cropping unconditionally (variant P).
func ShouldCrop(w, h int, variant Variant) bool {
	if variant.forcesCrop() {
		return true
	}
	max, min := w, h
	if h > w {
		max, min = h, w
	}
	return max > 2*min
}

// NeedsBoundaryMitigation reports whether a center-cropped image of the
// given original bounds requires boundary-artifact mitigation: variant P
// always does; variant Q does only when its aspect ratio falls outside
// [0.5, 2.0]. B and C never do, even though an extreme aspect ratio still
// makes ShouldCrop center-crop their input tensor.
func NeedsBoundaryMitigation(w, h int, variant Variant) bool {
	if variant == VariantP {
		return true
	}
	if variant != VariantQ {
		return false
	}
	max, min := w, h
	if h > w {
		max, min = h, w
	}
	return max > 2*min
}

// CenterCropRect returns the centered square crop (side s, offset x, y) for
// an image of dimensions (w, h). The square's side is min(w, h); at least one
// of x, y is zero, since the square already spans the shorter dimension
// (both are zero when w == h).
func CenterCropRect(w, h int) (s, x, y int) {
	s = w
	if h < s {
		s = h
	}
	return s, (w - s) / 2, (h - s) / 2
}
