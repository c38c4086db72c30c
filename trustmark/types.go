package trustmark

import (
	"github.com/cocosip/go-trustmark/frame"
	"github.com/cocosip/go-trustmark/imaging"
)

// Variant selects a model family; see imaging.Variant for the policy it
// carries (strength multiplier, forced cropping). Re-exported here so
// callers of trustmark need not import imaging directly.
type Variant = imaging.Variant

const (
	VariantB = imaging.VariantB
	VariantC = imaging.VariantC
	VariantP = imaging.VariantP
	VariantQ = imaging.VariantQ
)

// Version selects a BCH parameterization; see frame.Version.
type Version = frame.Version

const (
	BchSuper = frame.BchSuper
	Bch5     = frame.Bch5
	Bch4     = frame.Bch4
	Bch3     = frame.Bch3
)
