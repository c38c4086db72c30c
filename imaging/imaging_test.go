package imaging

import (
	"errors"
	"image"
	"testing"
)

// TestCenterCropRect checks concrete scenarios: a 10x100 image under
// variant Q, and a 100x110 image under variant P.
func TestCenterCropRect(t *testing.T) {
	cases := []struct {
		w, h     int
		variant  Variant
		wantS    int
		wantX    int
		wantY    int
		wantCrop bool
	}{
		{10, 100, VariantQ, 10, 0, 45, true},
		{100, 110, VariantP, 100, 0, 5, true},
		{100, 110, VariantB, 0, 0, 0, false},
	}

	for _, c := range cases {
		crop := ShouldCrop(c.w, c.h, c.variant)
		if crop != c.wantCrop {
			t.Fatalf("ShouldCrop(%d,%d,%v) = %v, want %v", c.w, c.h, c.variant, crop, c.wantCrop)
		}
		if !crop {
			continue
		}
		s, x, y := CenterCropRect(c.w, c.h)
		if s != c.wantS || x != c.wantX || y != c.wantY {
			t.Fatalf("CenterCropRect(%d,%d) = (%d,%d,%d), want (%d,%d,%d)",
				c.w, c.h, s, x, y, c.wantS, c.wantX, c.wantY)
		}
		if x != 0 && y != 0 {
			t.Fatalf("CenterCropRect(%d,%d): neither offset is zero", c.w, c.h)
		}
	}
}

// TestNeedsBoundaryMitigation checks that only P (always) and Q-with-extreme
// aspect ratio trigger mitigation; B and C never do, even at the same
// extreme aspect ratio that makes ShouldCrop true for them too.
func TestNeedsBoundaryMitigation(t *testing.T) {
	cases := []struct {
		w, h    int
		variant Variant
		want    bool
	}{
		{100, 100, VariantP, true},
		{10, 100, VariantQ, true},
		{100, 100, VariantQ, false},
		{10, 100, VariantB, false},
		{10, 100, VariantC, false},
	}
	for _, c := range cases {
		got := NeedsBoundaryMitigation(c.w, c.h, c.variant)
		if got != c.want {
			t.Fatalf("NeedsBoundaryMitigation(%d,%d,%v) = %v, want %v", c.w, c.h, c.variant, got, c.want)
		}
	}
}

// TestRenormalizeInvolution checks ((x*2-1)+1)/2 == x.
func TestRenormalizeInvolution(t *testing.T) {
	for _, x := range []float32{0, 0.25, 0.5, 0.75, 1} {
		got := denormalize(renormalize(x))
		if diff := got - x; diff > 1e-6 || diff < -1e-6 {
			t.Fatalf("denormalize(renormalize(%v)) = %v", x, got)
		}
	}
}

func TestClampResidual(t *testing.T) {
	residual := []float32{-1, -0.2, -0.1, 0, 0.1, 0.2, 1}
	ClampResidual(residual)
	for _, v := range residual {
		if v < -0.2 || v > 0.2 {
			t.Fatalf("residual element %v out of [-0.2, 0.2]", v)
		}
	}
}

func TestToModelTensorShape(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 50, 80))
	tensor, err := ToModelTensor(img, 256, VariantB)
	if err != nil {
		t.Fatalf("ToModelTensor: %v", err)
	}
	if len(tensor) != 3*256*256 {
		t.Fatalf("tensor length = %d, want %d", len(tensor), 3*256*256)
	}
}

func TestFromModelTensorBounds(t *testing.T) {
	tensor := make([]float32, 3*4*4)
	for i := range tensor {
		tensor[i] = 0.5
	}
	img, err := FromModelTensor(tensor, 4, 4)
	if err != nil {
		t.Fatalf("FromModelTensor: %v", err)
	}
	if img.Bounds().Dx() != 4 || img.Bounds().Dy() != 4 {
		t.Fatalf("image bounds = %v, want 4x4", img.Bounds())
	}
}

func TestFromModelTensorInvalidShape(t *testing.T) {
	if _, err := FromModelTensor(make([]float32, 10), 4, 4); err != ErrInvalidShape {
		t.Fatalf("err = %v, want ErrInvalidShape", err)
	}
}

func TestResizeInvalidDimensions(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	if _, err := Resize(img, 0, 4); !errors.Is(err, ErrResize) {
		t.Fatalf("err = %v, want ErrResize", err)
	}
	empty := image.NewRGBA(image.Rect(0, 0, 0, 0))
	if _, err := Resize(empty, 4, 4); !errors.Is(err, ErrResize) {
		t.Fatalf("err = %v, want ErrResize", err)
	}
}

func TestResize(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	out, err := Resize(img, 8, 8)
	if err != nil {
		t.Fatalf("Resize: %v", err)
	}
	if out.Bounds().Dx() != 8 || out.Bounds().Dy() != 8 {
		t.Fatalf("Resize bounds = %v, want 8x8", out.Bounds())
	}
}

func TestRemoveBoundaryArtifactCanvasSize(t *testing.T) {
	// wide: original aspect 2:1, w >= h branch (float multiplication).
	_, cw, ch := RemoveBoundaryArtifact(make([]float32, 3*256*256), 200, 100)
	if ch != 256 || cw != 512 {
		t.Fatalf("wide canvas = (%d,%d), want (512,256)", cw, ch)
	}

	// tall: original aspect 1:2, h > w branch (integer division).
	_, cw, ch = RemoveBoundaryArtifact(make([]float32, 3*256*256), 100, 200)
	if cw != 256 || ch != 512 {
		t.Fatalf("tall canvas = (%d,%d), want (256,512)", cw, ch)
	}
}
