// Package trustmark orchestrates the BCH-protected, frame-packed,
// tensor-adapted watermark encode/decode operations into two calls,
// Handle.Encode and Handle.Decode, binding the frame, imaging, and runtime
// packages to a loaded encoder/decoder model pair.
package trustmark

import "errors"

var (
	// ErrModelNotFound is returned when an expected encoder_*.onnx or
	// decoder_*.onnx file is missing from the model directory.
	ErrModelNotFound = errors.New("trustmark: model file not found")

	// ErrUnknownVariant is returned when a Variant has no corresponding
	// model file naming scheme.
	ErrUnknownVariant = errors.New("trustmark: unknown variant")
)
