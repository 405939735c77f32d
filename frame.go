// Core frame and pixel format types used across the video package.
package video

import "fmt"

// PixelFormat represents video pixel formats. The numeric values are part
// of the boundary contract with non-Go callers.
type PixelFormat int32

const (
	PixelFormatRGB24   PixelFormat = 0 // Packed RGB, 3 bytes per pixel
	PixelFormatRGBA32  PixelFormat = 1 // Packed RGBA, 4 bytes per pixel
	PixelFormatYUV420P PixelFormat = 2 // YUV 4:2:0 planar (Y + U + V)
)

func (p PixelFormat) String() string {
	switch p {
	case PixelFormatRGB24:
		return "RGB24"
	case PixelFormatRGBA32:
		return "RGBA32"
	case PixelFormatYUV420P:
		return "YUV420P"
	default:
		return "Unknown"
	}
}

// PlaneCount returns the number of planes for this pixel format.
func (p PixelFormat) PlaneCount() int {
	switch p {
	case PixelFormatRGB24, PixelFormatRGBA32:
		return 1 // Packed
	case PixelFormatYUV420P:
		return 3 // Y, U, V
	default:
		return 0
	}
}

// valid reports whether p is one of the enumerated formats.
func (p PixelFormat) valid() bool {
	return p.PlaneCount() > 0
}

// bytesPerPixel returns the per-pixel byte width of a plane. For planar
// formats every plane stores one byte per sample.
func (p PixelFormat) bytesPerPixel(plane int) int {
	switch p {
	case PixelFormatRGB24:
		return 3
	case PixelFormatRGBA32:
		return 4
	case PixelFormatYUV420P:
		return 1
	default:
		return 0
	}
}

// planeDimensions returns the pixel dimensions of the given plane for a
// frame of width x height. Chroma planes of 4:2:0 formats are stored at
// half resolution, rounded up so odd frame sizes remain representable.
func (p PixelFormat) planeDimensions(plane, width, height int) (w, h int) {
	switch p {
	case PixelFormatRGB24, PixelFormatRGBA32:
		return width, height
	case PixelFormatYUV420P:
		if plane == 0 {
			return width, height
		}
		return (width + 1) / 2, (height + 1) / 2
	default:
		return 0, 0
	}
}

// Frame is a raw video frame: 1-3 planes of pixel data, each with its own
// stride. Filters never mutate their input; every filter returns a newly
// allocated Frame.
type Frame struct {
	Width  int
	Height int
	Format PixelFormat
	Data   [][]byte // Plane data, len == Format.PlaneCount()
	Stride []int    // Bytes between row starts, per plane
}

// NewFrame allocates a zeroed, tight-packed frame.
// Returns ErrInvalidArgument for non-positive dimensions or an unknown
// format. YUV420P requires even width and height so that chroma planes
// align to the subsampling grid.
func NewFrame(width, height int, format PixelFormat) (*Frame, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: frame dimensions %dx%d", ErrInvalidArgument, width, height)
	}
	if !format.valid() {
		return nil, fmt.Errorf("%w: pixel format %d", ErrInvalidArgument, int32(format))
	}
	if format == PixelFormatYUV420P && (width%2 != 0 || height%2 != 0) {
		return nil, fmt.Errorf("%w: YUV420P dimensions must be even, got %dx%d", ErrInvalidArgument, width, height)
	}

	planes := format.PlaneCount()
	f := &Frame{
		Width:  width,
		Height: height,
		Format: format,
		Data:   make([][]byte, planes),
		Stride: make([]int, planes),
	}
	for i := 0; i < planes; i++ {
		pw, ph := format.planeDimensions(i, width, height)
		stride := pw * format.bytesPerPixel(i)
		f.Stride[i] = stride
		f.Data[i] = make([]byte, stride*ph)
	}
	return f, nil
}

// Clone creates a deep copy of the frame.
func (f *Frame) Clone() *Frame {
	clone := &Frame{
		Width:  f.Width,
		Height: f.Height,
		Format: f.Format,
		Data:   make([][]byte, len(f.Data)),
		Stride: make([]int, len(f.Stride)),
	}
	copy(clone.Stride, f.Stride)
	for i, plane := range f.Data {
		if plane != nil {
			clone.Data[i] = make([]byte, len(plane))
			copy(clone.Data[i], plane)
		}
	}
	return clone
}

// PlaneData returns the pixel buffer for one plane, or nil for an
// out-of-range plane index.
func (f *Frame) PlaneData(plane int) []byte {
	if plane < 0 || plane >= len(f.Data) {
		return nil
	}
	return f.Data[plane]
}

// Linesize returns the stride of one plane in bytes, or 0 for an
// out-of-range plane index.
func (f *Frame) Linesize(plane int) int {
	if plane < 0 || plane >= len(f.Stride) {
		return 0
	}
	return f.Stride[plane]
}

// validateFrame checks the invariants a filter relies on: known format,
// positive dimensions, plane count matching the format, and strides no
// smaller than the tight-packed row width.
func validateFrame(f *Frame) error {
	if f == nil {
		return fmt.Errorf("%w: nil frame", ErrInvalidArgument)
	}
	if f.Width <= 0 || f.Height <= 0 || !f.Format.valid() {
		return fmt.Errorf("%w: frame %dx%d format %v", ErrInvalidArgument, f.Width, f.Height, f.Format)
	}
	planes := f.Format.PlaneCount()
	if len(f.Data) != planes || len(f.Stride) != planes {
		return fmt.Errorf("%w: frame has %d planes, format %v requires %d", ErrInvalidArgument, len(f.Data), f.Format, planes)
	}
	for i := 0; i < planes; i++ {
		pw, ph := f.Format.planeDimensions(i, f.Width, f.Height)
		tight := pw * f.Format.bytesPerPixel(i)
		if f.Stride[i] < tight {
			return fmt.Errorf("%w: plane %d stride %d < row width %d", ErrInvalidArgument, i, f.Stride[i], tight)
		}
		if len(f.Data[i]) < f.Stride[i]*(ph-1)+tight {
			return fmt.Errorf("%w: plane %d buffer too small", ErrInvalidArgument, i)
		}
	}
	return nil
}
