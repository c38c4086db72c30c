package imaging

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// ToModelTensor converts img into the model's channel-first float tensor of
// shape [1,3,size,size], values renormalized to [-1,1]. It applies the
// center-crop policy for variant before resizing with a bilinear filter, and
// drops any alpha channel.
func ToModelTensor(img image.Image, size int, variant Variant) ([]float32, error) {
	if size <= 0 {
		return nil, ErrInvalidShape
	}

	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return nil, ErrInvalidImage
	}

	src := img
	if ShouldCrop(w, h, variant) {
		s, x, y := CenterCropRect(w, h)
		rect := image.Rect(b.Min.X+x, b.Min.Y+y, b.Min.X+x+s, b.Min.Y+y+s)
		src = cropped{img, rect}
	}

	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	out := make([]float32, 3*size*size)
	plane := size * size
	for row := 0; row < size; row++ {
		for col := 0; col < size; col++ {
			r, g, bl, _ := dst.At(col, row).RGBA()
			idx := row*size + col
			out[0*plane+idx] = renormalize(to01(r))
			out[1*plane+idx] = renormalize(to01(g))
			out[2*plane+idx] = renormalize(to01(bl))
		}
	}
	return out, nil
}

// FromModelTensor is the exact inverse of ToModelTensor's reshape/renormalize
// steps: it validates t has shape [1,3,h,w], renormalizes [-1,1] -> [0,1],
// and wraps the result as an RGB image of size w x h.
func FromModelTensor(t []float32, w, h int) (image.Image, error) {
	if w <= 0 || h <= 0 {
		return nil, ErrInvalidImage
	}
	if len(t) != 3*w*h {
		return nil, ErrInvalidShape
	}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	plane := w * h
	for row := 0; row < h; row++ {
		for col := 0; col < w; col++ {
			idx := row*w + col
			r := denormalize(t[0*plane+idx])
			g := denormalize(t[1*plane+idx])
			bl := denormalize(t[2*plane+idx])
			img.Set(col, row, color.NRGBA{
				R: from01(r),
				G: from01(g),
				B: from01(bl),
				A: 255,
			})
		}
	}
	return img, nil
}

// renormalize maps a [0,1] channel value into the model's [-1,1] range.
func renormalize(x float32) float32 {
	return x*2 - 1
}

// denormalize is renormalize's inverse: [-1,1] -> [0,1].
func denormalize(x float32) float32 {
	return (x + 1) / 2
}

func to01(c uint32) float32 {
	return float32(c) / 0xffff
}

func from01(x float32) uint8 {
	if x < 0 {
		x = 0
	}
	if x > 1 {
		x = 1
	}
	return uint8(x*255 + 0.5)
}

// Resize scales img to exactly (w, h) using a bilinear (triangular-kernel)
// filter, the same family used by ToModelTensor's crop-to-tensor resize.
func Resize(img image.Image, w, h int) (image.Image, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: destination %dx%d", ErrResize, w, h)
	}
	sb := img.Bounds()
	if sb.Dx() <= 0 || sb.Dy() <= 0 {
		return nil, fmt.Errorf("%w: source %dx%d", ErrResize, sb.Dx(), sb.Dy())
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.BiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst, nil
}

// PlanarFromImage converts img directly to a [3,h,w] float32 plane in
// [-1,1], without cropping or resizing: img's bounds are taken as-is.
func PlanarFromImage(img image.Image) []float32 {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	out := make([]float32, 3*w*h)
	plane := w * h
	for row := 0; row < h; row++ {
		for col := 0; col < w; col++ {
			r, g, bl, _ := img.At(b.Min.X+col, b.Min.Y+row).RGBA()
			idx := row*w + col
			out[0*plane+idx] = renormalize(to01(r))
			out[1*plane+idx] = renormalize(to01(g))
			out[2*plane+idx] = renormalize(to01(bl))
		}
	}
	return out
}

// cropped presents a sub-rectangle of an image.Image at the original image's
// own coordinates, so it can be handed to draw.BiLinear.Scale as a source
// without copying pixels.
type cropped struct {
	image.Image
	rect image.Rectangle
}

func (c cropped) Bounds() image.Rectangle {
	return c.rect
}
