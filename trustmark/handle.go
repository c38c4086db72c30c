package trustmark

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"log"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/cocosip/go-trustmark/frame"
	"github.com/cocosip/go-trustmark/imaging"
	"github.com/cocosip/go-trustmark/runtime"
)

const encoderInputSize = 256

// Fixed model I/O tensor names, per the artifact contract: the encoder
// consumes the image under "onnx::Concat_0" and the framed bits under
// "onnx::Gemm_1", producing "image"; the decoder consumes "image" and
// produces "output".
const (
	encoderImageInput = "onnx::Concat_0"
	encoderBitsInput  = "onnx::Gemm_1"
	encoderOutput     = "image"
	decoderInput      = "image"
	decoderOutput     = "output"
)

// Session names a Handle registers its encoder/decoder under in its
// runtime.Registry.
const (
	sessionEncoder = "encoder"
	sessionDecoder = "decoder"
)

// Handle owns a loaded encoder/decoder session pair, a variant, and a
// default version. Immutable after construction; safe to share read-only
// across goroutines provided the underlying runtime.Session serializes Run.
type Handle struct {
	variant  Variant
	version  Version
	sessions *runtime.Registry
	logger   *log.Logger
}

// Open checks that the encoder_{variant}.onnx/decoder_{variant}.onnx model
// pair exists in dir, creates a runtime.Session for each, registers them
// under a runtime.Registry, and returns the Handle. The model files are
// read by the sessions when they run, not here.
func Open(dir string, variant Variant, version Version, opts ...Option) (*Handle, error) {
	suffix, err := variantSuffix(variant)
	if err != nil {
		return nil, err
	}

	encoderPath := filepath.Join(dir, fmt.Sprintf("encoder_%s.onnx", suffix))
	decoderPath := filepath.Join(dir, fmt.Sprintf("decoder_%s.onnx", suffix))
	if _, err := os.Stat(encoderPath); err != nil {
		return nil, fmt.Errorf("trustmark: %w: %s", ErrModelNotFound, encoderPath)
	}
	if _, err := os.Stat(decoderPath); err != nil {
		return nil, fmt.Errorf("trustmark: %w: %s", ErrModelNotFound, decoderPath)
	}

	encoder, err := runtime.NewONNXSession(encoderPath, map[string][]int64{
		encoderOutput: {1, 3, encoderInputSize, encoderInputSize},
	})
	if err != nil {
		return nil, fmt.Errorf("trustmark: loading encoder: %w", err)
	}

	decoder, err := runtime.NewONNXSession(decoderPath, map[string][]int64{
		decoderOutput: {1, 100},
	})
	if err != nil {
		return nil, fmt.Errorf("trustmark: loading decoder: %w", err)
	}

	sessions := runtime.NewRegistry()
	sessions.Register(sessionEncoder, encoder)
	sessions.Register(sessionDecoder, decoder)

	h := &Handle{
		variant:  variant,
		version:  version,
		sessions: sessions,
		logger:   log.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

// Close releases every session the handle's registry holds.
func (h *Handle) Close() error {
	return h.sessions.Close()
}

// encoder retrieves the handle's registered encoder session.
func (h *Handle) encoder() (runtime.Session, error) {
	return h.sessions.Get(sessionEncoder)
}

// decoder retrieves the handle's registered decoder session.
func (h *Handle) decoder() (runtime.Session, error) {
	return h.sessions.Get(sessionDecoder)
}

// Encode embeds payload into img as a bounded residual, returning the
// watermarked image. strength scales the residual before variant's own
// strength multiplier is applied.
func (h *Handle) Encode(payload string, img image.Image, strength float32) (image.Image, error) {
	id := uuid.New()
	h.logger.Printf("trustmark[%s]: encode: payload_len=%d variant=%s version=%s", id, len(payload), h.variant, h.version)

	f, err := frame.ApplyECCAndSchema(payload, h.version)
	if err != nil {
		return nil, fmt.Errorf("trustmark: framing payload: %w", err)
	}

	inputTensor, err := imaging.ToModelTensor(img, encoderInputSize, h.variant)
	if err != nil {
		return nil, fmt.Errorf("trustmark: building input tensor: %w", err)
	}
	// The encoder consumes one copy of the input tensor; a second is held
	// here for the residual subtraction below.
	heldInput := append([]float32(nil), inputTensor...)

	encoder, err := h.encoder()
	if err != nil {
		return nil, fmt.Errorf("trustmark: looking up encoder session: %w", err)
	}
	outputs, err := encoder.Run(context.Background(), map[string]runtime.Tensor{
		encoderImageInput: {Shape: []int64{1, 3, encoderInputSize, encoderInputSize}, Data: inputTensor},
		encoderBitsInput:  {Shape: []int64{1, 100}, Data: f.Floats()},
	})
	if err != nil {
		return nil, fmt.Errorf("trustmark: running encoder: %w", err)
	}
	modelOutput, ok := outputs[encoderOutput]
	if !ok {
		return nil, fmt.Errorf("trustmark: encoder response missing %q output", encoderOutput)
	}

	residual := make([]float32, len(modelOutput.Data))
	for i := range residual {
		residual[i] = h.variant.StrengthMultiplier() * strength * (modelOutput.Data[i] - heldInput[i])
	}
	imaging.ClampResidual(residual)

	b := img.Bounds()
	w, h2 := b.Dx(), b.Dy()

	var resizedResidual image.Image
	if imaging.NeedsBoundaryMitigation(w, h2, h.variant) {
		canvas, cw, ch := imaging.RemoveBoundaryArtifact(residual, w, h2)
		canvasImg, err := imaging.FromModelTensor(canvas, cw, ch)
		if err != nil {
			return nil, fmt.Errorf("trustmark: converting residual canvas: %w", err)
		}
		resizedResidual, err = imaging.Resize(canvasImg, w, h2)
		if err != nil {
			return nil, fmt.Errorf("trustmark: resizing residual canvas: %w", err)
		}
	} else {
		residualImg, err := imaging.FromModelTensor(residual, encoderInputSize, encoderInputSize)
		if err != nil {
			return nil, fmt.Errorf("trustmark: converting residual: %w", err)
		}
		resizedResidual, err = imaging.Resize(residualImg, w, h2)
		if err != nil {
			return nil, fmt.Errorf("trustmark: resizing residual: %w", err)
		}
	}

	base := imaging.PlanarFromImage(img)
	residualPlanar := imaging.PlanarFromImage(resizedResidual)
	imaging.ApplyResidual(base, residualPlanar)

	out, err := imaging.FromModelTensor(base, w, h2)
	if err != nil {
		return nil, fmt.Errorf("trustmark: building watermarked image: %w", err)
	}
	return withAlphaOf(img, out), nil
}

// Decode recovers the payload embedded in img, if any.
func (h *Handle) Decode(img image.Image) (string, error) {
	id := uuid.New()
	size := decoderInputSize(h.variant)
	h.logger.Printf("trustmark[%s]: decode: variant=%s size=%d", id, h.variant, size)

	inputTensor, err := imaging.ToModelTensor(img, size, h.variant)
	if err != nil {
		return "", fmt.Errorf("trustmark: building input tensor: %w", err)
	}

	decoder, err := h.decoder()
	if err != nil {
		return "", fmt.Errorf("trustmark: looking up decoder session: %w", err)
	}
	outputs, err := decoder.Run(context.Background(), map[string]runtime.Tensor{
		decoderInput: {Shape: []int64{1, 3, int64(size), int64(size)}, Data: inputTensor},
	})
	if err != nil {
		return "", fmt.Errorf("trustmark: running decoder: %w", err)
	}
	logits, ok := outputs[decoderOutput]
	if !ok {
		return "", fmt.Errorf("trustmark: decoder response missing %q output", decoderOutput)
	}

	f, err := frame.FromFloats(logits.Data)
	if err != nil {
		return "", fmt.Errorf("trustmark: decoding logits: %w", err)
	}

	payload, _, err := frame.Decode(f)
	if err != nil {
		return "", fmt.Errorf("trustmark: decoding frame: %w", err)
	}
	return payload, nil
}

func decoderInputSize(v Variant) int {
	if v == VariantP {
		return 224
	}
	return 256
}

func variantSuffix(v Variant) (string, error) {
	switch v {
	case VariantB, VariantC, VariantP, VariantQ:
		return v.String(), nil
	default:
		return "", ErrUnknownVariant
	}
}

// withAlphaOf copies src's alpha channel onto out, preserving it verbatim as
// the residual pipeline operates RGB-only.
func withAlphaOf(src, out image.Image) image.Image {
	b := out.Bounds()
	srcB := src.Bounds()
	result := image.NewNRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := out.At(x, y).RGBA()
			_, _, _, a := src.At(srcB.Min.X+(x-b.Min.X), srcB.Min.Y+(y-b.Min.Y)).RGBA()
			result.SetNRGBA(x, y, color.NRGBA{
				R: uint8(r >> 8),
				G: uint8(g >> 8),
				B: uint8(bl >> 8),
				A: uint8(a >> 8),
			})
		}
	}
	return result
}
