package frame

import "fmt"

// Version selects a BCH parameterization, trading payload capacity against
// the number of bit-flips it can correct. Every Version produces exactly a
// 100-bit frame.
type Version int

const (
	// BchSuper tolerates 8 bit-flips; 40 data bits, 56 ecc bits.
	BchSuper Version = iota
	// Bch5 tolerates 5 bit-flips; 61 data bits, 35 ecc bits.
	Bch5
	// Bch4 tolerates 4 bit-flips; 68 data bits, 28 ecc bits.
	Bch4
	// Bch3 tolerates 3 bit-flips; 75 data bits, 21 ecc bits.
	Bch3
)

// versionBits is the width of the version tag field at the end of a frame.
const versionBits = 4

func (v Version) String() string {
	switch v {
	case BchSuper:
		return "BCH_SUPER"
	case Bch5:
		return "BCH_5"
	case Bch4:
		return "BCH_4"
	case Bch3:
		return "BCH_3"
	default:
		return fmt.Sprintf("Version(%d)", int(v))
	}
}

// ParseVersion parses a Version from its string form, as produced by
// Version.String.
func ParseVersion(s string) (Version, error) {
	switch s {
	case "BCH_SUPER":
		return BchSuper, nil
	case "BCH_5":
		return Bch5, nil
	case "BCH_4":
		return Bch4, nil
	case "BCH_3":
		return Bch3, nil
	default:
		return 0, fmt.Errorf("frame: %w: %q", ErrInvalidVersion, s)
	}
}

// allowedBitFlips returns t, the number of bit-flips this version's BCH code
// can correct.
func (v Version) allowedBitFlips() uint32 {
	switch v {
	case BchSuper:
		return 8
	case Bch5:
		return 5
	case Bch4:
		return 4
	case Bch3:
		return 3
	default:
		panic("frame: invalid version")
	}
}

// DataBits returns the number of payload bits this version carries.
func (v Version) DataBits() uint16 {
	switch v {
	case BchSuper:
		return 40
	case Bch5:
		return 61
	case Bch4:
		return 68
	case Bch3:
		return 75
	default:
		panic("frame: invalid version")
	}
}

// EccBits returns the number of error-correction bits this version carries.
func (v Version) EccBits() uint16 {
	return 100 - versionBits - v.DataBits()
}

// bitstring returns the 4-bit tag identifying this version within a frame.
// The high two bits are always "00"; only the low two bits vary.
func (v Version) bitstring() string {
	switch v {
	case BchSuper:
		return "0000"
	case Bch5:
		return "0001"
	case Bch4:
		return "0010"
	case Bch3:
		return "0011"
	default:
		panic("frame: invalid version")
	}
}

// versionFromBitstring parses a 4-bit tag into a Version.
func versionFromBitstring(s string) (Version, error) {
	switch s {
	case "0000":
		return BchSuper, nil
	case "0001":
		return Bch5, nil
	case "0010":
		return Bch4, nil
	case "0011":
		return Bch3, nil
	default:
		return 0, ErrInvalidVersion
	}
}

// probeOrder is the fixed retry order frame.Decode uses when the version tag
// itself may be corrupted. Any order is correct (the BCH ECC fails loudly on
// a wrong version), but a fixed order keeps decode behavior deterministic.
var probeOrder = [...]Version{Bch3, Bch4, Bch5, BchSuper}
