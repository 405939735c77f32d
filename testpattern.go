package video

import "fmt"

// PatternType defines the type of synthetic test pattern to generate.
type PatternType int

const (
	PatternColorBars    PatternType = iota // Eight full-saturation color bars
	PatternGradient                        // Horizontal luma gradient
	PatternCheckerboard                    // 32-pixel checkerboard
	PatternSolidGray                       // Mid-gray solid fill
)

func (p PatternType) String() string {
	switch p {
	case PatternColorBars:
		return "ColorBars"
	case PatternGradient:
		return "Gradient"
	case PatternCheckerboard:
		return "Checkerboard"
	case PatternSolidGray:
		return "SolidGray"
	default:
		return "Unknown"
	}
}

// Color bar RGB values, white through black.
var colorBars = [8][3]byte{
	{235, 235, 235},
	{235, 235, 16},
	{16, 235, 235},
	{16, 235, 16},
	{235, 16, 235},
	{235, 16, 16},
	{16, 16, 235},
	{16, 16, 16},
}

const checkerSize = 32

// TestPattern generates a synthetic frame, useful for exercising filters
// without a decoder. Planar formats are filled via their luma plane with
// neutral chroma, packed formats per channel.
func TestPattern(width, height int, format PixelFormat, pattern PatternType) (*Frame, error) {
	f, err := NewFrame(width, height, format)
	if err != nil {
		return nil, err
	}

	switch format {
	case PixelFormatRGB24, PixelFormatRGBA32:
		bpp := format.bytesPerPixel(0)
		for y := 0; y < height; y++ {
			row := f.Data[0][y*f.Stride[0]:]
			for x := 0; x < width; x++ {
				r, g, b := patternRGB(pattern, x, y, width)
				o := x * bpp
				row[o], row[o+1], row[o+2] = r, g, b
				if bpp == 4 {
					row[o+3] = 0xFF
				}
			}
		}

	case PixelFormatYUV420P:
		for y := 0; y < height; y++ {
			row := f.Data[0][y*f.Stride[0]:]
			for x := 0; x < width; x++ {
				r, g, b := patternRGB(pattern, x, y, width)
				row[x] = byte((lumaR*int(r) + lumaG*int(g) + lumaB*int(b) + 128) >> 8)
			}
		}
		for i := 1; i < 3; i++ {
			pw, ph := format.planeDimensions(i, width, height)
			for y := 0; y < ph; y++ {
				row := f.Data[i][y*f.Stride[i] : y*f.Stride[i]+pw]
				for x := range row {
					row[x] = 128
				}
			}
		}

	default:
		return nil, fmt.Errorf("%w: pixel format %v", ErrInvalidArgument, format)
	}
	return f, nil
}

// patternRGB returns the pattern color at one pixel coordinate.
func patternRGB(pattern PatternType, x, y, width int) (r, g, b byte) {
	switch pattern {
	case PatternColorBars:
		bar := colorBars[x*8/width%8]
		return bar[0], bar[1], bar[2]
	case PatternGradient:
		v := byte(x * 255 / width)
		return v, v, v
	case PatternCheckerboard:
		if (x/checkerSize+y/checkerSize)%2 == 0 {
			return 235, 235, 235
		}
		return 16, 16, 16
	default:
		return 128, 128, 128
	}
}
