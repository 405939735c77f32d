package video

import (
	"errors"
	"testing"
)

// createGradientFrame builds a frame with a horizontal luma gradient and
// neutral chroma, usable as input across the filter tests.
func createGradientFrame(t testing.TB, width, height int, format PixelFormat) *Frame {
	t.Helper()
	f, err := NewFrame(width, height, format)
	if err != nil {
		t.Fatal(err)
	}

	switch format {
	case PixelFormatYUV420P:
		for y := 0; y < height; y++ {
			row := f.Data[0][y*f.Stride[0]:]
			for x := 0; x < width; x++ {
				row[x] = byte(x * 255 / width)
			}
		}
		for i := 1; i < 3; i++ {
			for j := range f.Data[i] {
				f.Data[i][j] = 128
			}
		}
	default:
		bpp := format.bytesPerPixel(0)
		for y := 0; y < height; y++ {
			row := f.Data[0][y*f.Stride[0]:]
			for x := 0; x < width; x++ {
				v := byte(x * 255 / width)
				row[x*bpp] = v
				row[x*bpp+1] = v
				row[x*bpp+2] = v
				if bpp == 4 {
					row[x*bpp+3] = 255
				}
			}
		}
	}
	return f
}

func TestScale_Downscale(t *testing.T) {
	for _, format := range []PixelFormat{PixelFormatRGB24, PixelFormatRGBA32, PixelFormatYUV420P} {
		t.Run(format.String(), func(t *testing.T) {
			src := createGradientFrame(t, 1280, 720, format)
			out, err := Scale(src, 640, 360, ScaleBilinear)
			if err != nil {
				t.Fatalf("Scale() error = %v", err)
			}
			if out.Width != 640 || out.Height != 360 {
				t.Errorf("Expected 640x360, got %dx%d", out.Width, out.Height)
			}
			if format == PixelFormatYUV420P {
				if len(out.Data[1]) != 320*180 {
					t.Errorf("U plane size mismatch: got %d, want %d", len(out.Data[1]), 320*180)
				}
			}
		})
	}
}

func TestScale_Upscale(t *testing.T) {
	src := createGradientFrame(t, 320, 240, PixelFormatYUV420P)
	out, err := Scale(src, 640, 480, ScaleBicubic)
	if err != nil {
		t.Fatalf("Scale() error = %v", err)
	}
	if out.Width != 640 || out.Height != 480 {
		t.Errorf("Expected 640x480, got %dx%d", out.Width, out.Height)
	}
}

func TestScale_NearestIntegerRatioExact(t *testing.T) {
	// A 2x upscale followed by a 2x downscale with nearest sampling must
	// reproduce the source bytes exactly.
	src := createGradientFrame(t, 64, 48, PixelFormatRGB24)
	src.Data[0][5] = 17 // break the gradient so identical rows don't hide bugs

	up, err := Scale(src, 128, 96, ScaleNearest)
	if err != nil {
		t.Fatal(err)
	}
	down, err := Scale(up, 64, 48, ScaleNearest)
	if err != nil {
		t.Fatal(err)
	}
	for i := range src.Data[0] {
		if down.Data[0][i] != src.Data[0][i] {
			t.Fatalf("byte %d: got %d, want %d", i, down.Data[0][i], src.Data[0][i])
		}
	}
}

func TestScale_SolidColorPreserved(t *testing.T) {
	// Every kernel has normalized weights, so scaling a solid plane must
	// not change its value.
	src, err := NewFrame(100, 100, PixelFormatRGB24)
	if err != nil {
		t.Fatal(err)
	}
	for i := range src.Data[0] {
		src.Data[0][i] = 200
	}

	for _, alg := range []ScaleAlgorithm{ScaleNearest, ScaleBilinear, ScaleBicubic, ScaleLanczos} {
		t.Run(alg.String(), func(t *testing.T) {
			out, err := Scale(src, 37, 61, alg)
			if err != nil {
				t.Fatal(err)
			}
			for i, v := range out.Data[0] {
				if v != 200 {
					t.Fatalf("byte %d: got %d, want 200", i, v)
				}
			}
		})
	}
}

func TestScale_InvalidArguments(t *testing.T) {
	src := createGradientFrame(t, 64, 64, PixelFormatYUV420P)

	tests := []struct {
		name          string
		width, height int
		alg           ScaleAlgorithm
	}{
		{"zero width", 0, 64, ScaleBilinear},
		{"negative height", 64, -1, ScaleBilinear},
		{"odd target for 4:2:0", 63, 64, ScaleBilinear},
		{"unknown algorithm", 32, 32, ScaleAlgorithm(9)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Scale(src, tt.width, tt.height, tt.alg); !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("Scale() error = %v, want ErrInvalidArgument", err)
			}
		})
	}
}

func TestScale_SourceUnmodified(t *testing.T) {
	src := createGradientFrame(t, 128, 128, PixelFormatRGBA32)
	before := src.Clone()

	if _, err := Scale(src, 64, 64, ScaleLanczos); err != nil {
		t.Fatal(err)
	}
	for i := range before.Data[0] {
		if src.Data[0][i] != before.Data[0][i] {
			t.Fatalf("source byte %d modified by Scale", i)
		}
	}
}

func BenchmarkScale_Bilinear720pTo480p(b *testing.B) {
	src := createGradientFrame(b, 1280, 720, PixelFormatYUV420P)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Scale(src, 854, 480, ScaleBilinear); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkScale_Lanczos720pTo480p(b *testing.B) {
	src := createGradientFrame(b, 1280, 720, PixelFormatYUV420P)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Scale(src, 854, 480, ScaleLanczos); err != nil {
			b.Fatal(err)
		}
	}
}
