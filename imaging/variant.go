package imaging

// Variant selects a model family: which pair of model files is loaded, and
// two policy knobs governing the tensor adapter and residual pipeline.
type Variant int

const (
	VariantB Variant = iota
	VariantC
	VariantP
	VariantQ
)

func (v Variant) String() string {
	switch v {
	case VariantB:
		return "B"
	case VariantC:
		return "C"
	case VariantP:
		return "P"
	case VariantQ:
		return "Q"
	default:
		return "?"
	}
}

// StrengthMultiplier scales the residual before it is applied: variant P
// embeds more aggressively than the others.
func (v Variant) StrengthMultiplier() float32 {
	if v == VariantP {
		return 1.25
	}
	return 1.0
}

// forcesCrop reports whether this variant always center-crops regardless of
// aspect ratio.
func (v Variant) forcesCrop() bool {
	return v == VariantP
}
