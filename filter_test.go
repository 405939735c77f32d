package video

import (
	"errors"
	"testing"
)

func TestChain_AppliesInOrder(t *testing.T) {
	src := createGradientFrame(t, 64, 64, PixelFormatRGBA32)

	pipeline := Chain(
		CropRect(0, 0, 32, 32),
		ScaleTo(16, 16, ScaleBilinear),
		GrayscaleStep(),
		RotateBy(Rotate90),
	)

	out, err := pipeline(src)
	if err != nil {
		t.Fatalf("pipeline error = %v", err)
	}
	if out.Width != 16 || out.Height != 16 {
		t.Errorf("Expected 16x16, got %dx%d", out.Width, out.Height)
	}
	// Grayscale ran, so all color channels agree.
	if out.Data[0][0] != out.Data[0][1] || out.Data[0][1] != out.Data[0][2] {
		t.Errorf("channels not equalized: %v", out.Data[0][:4])
	}
}

func TestChain_EmptyReturnsCopy(t *testing.T) {
	src := createGradientFrame(t, 8, 8, PixelFormatRGB24)
	out, err := Chain()(src)
	if err != nil {
		t.Fatal(err)
	}
	if out == src {
		t.Error("empty chain returned the input frame itself")
	}
	for i := range src.Data[0] {
		if out.Data[0][i] != src.Data[0][i] {
			t.Fatalf("byte %d mismatch", i)
		}
	}
}

func TestChain_StopsOnError(t *testing.T) {
	src := createGradientFrame(t, 8, 8, PixelFormatRGB24)
	pipeline := Chain(
		CropRect(0, 0, 100, 100), // exceeds source
		GrayscaleStep(),
	)
	if _, err := pipeline(src); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("pipeline error = %v, want ErrInvalidArgument", err)
	}
}

func TestChain_NilFrame(t *testing.T) {
	if _, err := Chain(GrayscaleStep())(nil); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("pipeline(nil) error = %v, want ErrInvalidArgument", err)
	}
}

func TestBlurWith(t *testing.T) {
	src := createGradientFrame(t, 16, 16, PixelFormatRGB24)
	if _, err := BlurWith(1.0)(src); err != nil {
		t.Errorf("BlurWith(1.0) error = %v", err)
	}
	if _, err := BlurWith(-1)(src); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("BlurWith(-1) error = %v, want ErrInvalidArgument", err)
	}
}
