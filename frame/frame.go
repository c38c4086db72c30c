package frame

import (
	"strconv"
	"strings"

	"github.com/cocosip/go-trustmark/bch"
)

// Frame is a 100-bit watermark frame: payload bits, BCH ECC bits, and a
// 4-bit version tag, laid out as ASCII '0'/'1' bytes. Fixed-size rather than
// a bare string, since every frame is statically 100 bits wide.
type Frame [100]byte

// String returns the frame as a 100-character '0'/'1' string.
func (f Frame) String() string {
	return string(f[:])
}

// Floats renders the frame as the [0.0, 1.0] float32 tensor the encoder
// model expects as its bit input.
func (f Frame) Floats() []float32 {
	out := make([]float32, len(f))
	for i, c := range f {
		if c == '1' {
			out[i] = 1
		}
	}
	return out
}

// version reads the version tag occupying the frame's last 4 bits.
func (f Frame) version() (Version, error) {
	return versionFromBitstring(string(f[96:100]))
}

// FromFloats builds a Frame from the decoder model's 100-element logit
// tensor: negative values map to '0', non-negative to '1'.
func FromFloats(logits []float32) (Frame, error) {
	if len(logits) != 100 {
		return Frame{}, ErrInvalidLength
	}
	var f Frame
	for i, v := range logits {
		c := byte('1')
		if v < 0 {
			c = '0'
		}
		f[i] = c
	}
	return f, nil
}

func validateBitstring(s string) error {
	for _, c := range s {
		if c != '0' && c != '1' {
			return ErrInvalidChar
		}
	}
	return nil
}

// padLength returns the byte-aligned length a bitstring of n data bits is
// padded to before packing into bytes: the next multiple of 8 strictly
// greater than n.
func padLength(n int) int {
	return n + (8 - n%8)
}

// packBits packs a '0'/'1' bitstring into bytes, MSB-first within each byte.
// s is zero-padded up to the next byte boundary beyond its own length before
// packing.
func packBits(s string) []byte {
	var b strings.Builder
	b.WriteString(s)
	b.WriteString(strings.Repeat("0", padLength(len(s))-len(s)))
	padded := b.String()

	out := make([]byte, len(padded)/8)
	for i := range out {
		chunk := padded[i*8 : i*8+8]
		v, _ := strconv.ParseUint(chunk, 2, 8)
		out[i] = byte(v)
	}
	return out
}

// unpackBits renders bytes as a '0'/'1' bitstring, truncated to n bits.
func unpackBits(data []byte, n int) string {
	var b strings.Builder
	for _, by := range data {
		b.WriteString(padBinary8(by))
	}
	s := b.String()
	if n < len(s) {
		s = s[:n]
	}
	return s
}

func padBinary8(b byte) string {
	s := strconv.FormatUint(uint64(b), 2)
	if len(s) < 8 {
		s = strings.Repeat("0", 8-len(s)) + s
	}
	return s
}

// ApplyECCAndSchema packs payload (a '0'/'1' bitstring of at most
// version.DataBits() characters) together with BCH error-correction bits
// and version's 4-bit tag into a 100-bit Frame.
func ApplyECCAndSchema(payload string, version Version) (Frame, error) {
	if err := validateBitstring(payload); err != nil {
		return Frame{}, err
	}

	dataBits := int(version.DataBits())
	if len(payload) > dataBits {
		return Frame{}, ErrInvalidDataLength
	}

	// Zero-extend to the version's full data_bits width before packing:
	// the BCH code is computed over the whole data_bits-wide field, not
	// just the caller's (possibly shorter) payload, so decode can
	// reconstruct the identical byte layout from the stored frame alone.
	padded := payload + strings.Repeat("0", dataBits-len(payload))
	data := packBits(padded)

	params := bch.Init(version.allowedBitFlips(), bch.PrimitivePoly)
	work := params.NewWork()
	ecc := params.Encode(work, data)

	eccBits := unpackBits(ecc, int(version.EccBits()))

	var f Frame
	copy(f[:], padded)
	copy(f[dataBits:], eccBits)
	copy(f[dataBits+len(eccBits):], version.bitstring())
	return f, nil
}

// Decode recovers the payload from a Frame, correcting up to t(version)
// bit-flips where version is read from the frame's tag. If decoding fails
// at that version (including the case where the tag itself was flipped),
// Decode retries every other version in the fixed order {Bch3, Bch4, Bch5,
// BchSuper}. Returns ErrCorruptWatermark if no version succeeds.
func Decode(f Frame) (payload string, version Version, err error) {
	if err := validateBitstring(f.String()); err != nil {
		return "", 0, err
	}

	guess, guessErr := f.version()
	if guessErr == nil {
		if data, v, ok := tryVersion(f, guess); ok {
			return data, v, nil
		}
	}

	for _, v := range probeOrder {
		if guessErr == nil && v == guess {
			continue
		}
		if data, got, ok := tryVersion(f, v); ok {
			return data, got, nil
		}
	}

	return "", 0, ErrCorruptWatermark
}

// tryVersion attempts to decode f assuming it was encoded at version v,
// returning the corrected payload and true on success.
func tryVersion(f Frame, v Version) (string, Version, bool) {
	dataBits := int(v.DataBits())
	eccBits := int(v.EccBits())

	s := f.String()
	data := packBits(s[:dataBits])
	ecc := packBits(s[dataBits : dataBits+eccBits])

	params := bch.Init(v.allowedBitFlips(), bch.PrimitivePoly)
	work := params.NewWork()
	corr := params.Decode(work, data, ecc)
	if corr.Failed || corr.N > v.allowedBitFlips() {
		return "", 0, false
	}

	return unpackBits(data, dataBits), v, true
}
