package imaging

import "golang.org/x/exp/constraints"

// Clamp restricts x to [lo, hi].
func Clamp[T constraints.Float](x, lo, hi T) T {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// ClampResidual clamps every element of a residual tensor to [-0.2, 0.2] in
// place.
func ClampResidual(residual []float32) {
	for i, v := range residual {
		residual[i] = Clamp(v, -0.2, 0.2)
	}
}

const boundaryCanvasSide = 256

// RemoveBoundaryArtifact mitigates the seam a center-crop introduces at the
// model's 256x256 input boundary. It computes each channel's mean over the
// residual, overwrites a 2px border with that mean, then pastes the result
// into the center of a larger mean-filled canvas sized to the original (w,
// h) aspect ratio — one side fixed at 256, the other computed to match the
// original aspect ratio.
//
// The two branches of the aspect-ratio computation deliberately use
// different arithmetic (integer division for the tall case, float
// multiplication for the wide case): this mirrors the reference model's own
// asymmetry and must not be "fixed", or canvases for transposed aspect
// ratios stop matching bit-for-bit.
func RemoveBoundaryArtifact(residual []float32, w, h int) (out []float32, canvasW, canvasH int) {
	const s = boundaryCanvasSide
	plane := s * s

	means := channelMeans(residual, s, s)
	borderResidual := append([]float32(nil), residual...)
	applyBorder(borderResidual, s, s, means, 2)

	canvasW, canvasH = boundaryCanvasSize(w, h)
	canvas := make([]float32, 3*canvasW*canvasH)
	canvasPlane := canvasW * canvasH
	for c := 0; c < 3; c++ {
		for i := 0; i < canvasPlane; i++ {
			canvas[c*canvasPlane+i] = means[c]
		}
	}

	offX := (canvasW - s) / 2
	offY := (canvasH - s) / 2
	for c := 0; c < 3; c++ {
		for row := 0; row < s; row++ {
			for col := 0; col < s; col++ {
				canvas[c*canvasPlane+(row+offY)*canvasW+(col+offX)] = borderResidual[c*plane+row*s+col]
			}
		}
	}

	return canvas, canvasW, canvasH
}

// boundaryCanvasSize computes the padded canvas dimensions for an original
// image of size (w, h).
func boundaryCanvasSize(w, h int) (cw, ch int) {
	if w >= h {
		ch = boundaryCanvasSide
		cw = int(float64(w) / float64(h) * boundaryCanvasSide)
		return cw, ch
	}
	cw = boundaryCanvasSide
	ch = (h * boundaryCanvasSide) / w
	return cw, ch
}

func channelMeans(t []float32, w, h int) [3]float32 {
	plane := w * h
	var means [3]float32
	for c := 0; c < 3; c++ {
		var sum float64
		for i := 0; i < plane; i++ {
			sum += float64(t[c*plane+i])
		}
		means[c] = float32(sum / float64(plane))
	}
	return means
}

func applyBorder(t []float32, w, h int, means [3]float32, border int) {
	plane := w * h
	for c := 0; c < 3; c++ {
		base := c * plane
		for row := 0; row < h; row++ {
			for col := 0; col < w; col++ {
				if row < border || row >= h-border || col < border || col >= w-border {
					t[base+row*w+col] = means[c]
				}
			}
		}
	}
}

// ApplyResidual adds residual (in [-1,1] space, shape [3,h,w]) onto base
// (shape [3,h,w], same space), saturating the upper bound at 1.0. Both
// slices are RGB-only; callers preserve alpha separately.
func ApplyResidual(base, residual []float32) {
	for i := range base {
		base[i] = Clamp(base[i]+residual[i], -1, 1)
	}
}
