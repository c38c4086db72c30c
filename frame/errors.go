// Package frame implements the 100-bit watermark framing schema: packing a
// payload together with BCH error-correction bits and a version tag, and
// recovering the payload from a possibly bit-flipped frame.
package frame

import "errors"

var (
	// ErrInvalidChar is returned when a bitstring contains a character
	// other than '0' or '1'.
	ErrInvalidChar = errors.New("frame: allowed chars are '0' and '1'")

	// ErrInvalidDataLength is returned when a payload has more bits than
	// the requested version's data capacity.
	ErrInvalidDataLength = errors.New("frame: payload longer than version allows")

	// ErrInvalidLength is returned when a frame is not exactly 100 bits.
	ErrInvalidLength = errors.New("frame: must be of length 100")

	// ErrInvalidVersion is returned when a version string or tag does not
	// map to a known version.
	ErrInvalidVersion = errors.New("frame: invalid version")

	// ErrCorruptWatermark is returned when decoding fails at every version:
	// the frame is unrecoverable.
	ErrCorruptWatermark = errors.New("frame: corrupt watermark")
)
