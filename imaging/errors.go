// Package imaging adapts arbitrary-size images to and from the fixed-size
// float tensors TrustMark's encoder/decoder models expect, and implements
// the residual pipeline that turns a model's output tensor into a bounded,
// boundary-artifact-mitigated watermark applied back onto the original
// image.
package imaging

import "errors"

var (
	// ErrInvalidShape is returned when a tensor's length does not match its
	// declared or expected dimensions.
	ErrInvalidShape = errors.New("imaging: invalid tensor shape")

	// ErrInvalidImage is returned when an image cannot be reconstructed from
	// a tensor (e.g. non-positive dimensions).
	ErrInvalidImage = errors.New("imaging: invalid image")

	// ErrResize wraps a failure of the resize primitive: non-positive source
	// or destination dimensions.
	ErrResize = errors.New("imaging: resize failed")
)
