package video

import "fmt"

// Crop extracts the rectangle [x, x+width) x [y, y+height) from src into a
// new frame; src is never modified.
//
// The rectangle must lie fully within the source and have positive
// dimensions, otherwise ErrInvalidArgument is returned. For YUV420P the
// crop origin is rounded down to the even subsampling boundary so chroma
// stays aligned with luma, and width/height must be even.
func Crop(src *Frame, x, y, width, height int) (*Frame, error) {
	if err := validateFrame(src); err != nil {
		return nil, err
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: crop size %dx%d", ErrInvalidArgument, width, height)
	}
	if x < 0 || y < 0 || x+width > src.Width || y+height > src.Height {
		return nil, fmt.Errorf("%w: crop rect (%d,%d %dx%d) exceeds %dx%d",
			ErrInvalidArgument, x, y, width, height, src.Width, src.Height)
	}
	if src.Format == PixelFormatYUV420P {
		if width%2 != 0 || height%2 != 0 {
			return nil, fmt.Errorf("%w: crop size %dx%d must be even for 4:2:0", ErrInvalidArgument, width, height)
		}
		// Snap the origin to the chroma grid.
		x &^= 1
		y &^= 1
	}

	dst, err := NewFrame(width, height, src.Format)
	if err != nil {
		return nil, err
	}

	for i := 0; i < src.Format.PlaneCount(); i++ {
		px, py := x, y
		pw, ph := width, height
		if src.Format == PixelFormatYUV420P && i > 0 {
			px, py = x/2, y/2
			pw, ph = (width+1)/2, (height+1)/2
		}
		bpp := src.Format.bytesPerPixel(i)
		rowBytes := pw * bpp
		for row := 0; row < ph; row++ {
			srcOff := (py+row)*src.Stride[i] + px*bpp
			copy(dst.Data[i][row*dst.Stride[i]:row*dst.Stride[i]+rowBytes], src.Data[i][srcOff:srcOff+rowBytes])
		}
	}
	return dst, nil
}
