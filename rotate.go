package video

import "fmt"

// RotationAngle is one of the four exact rotations. The numeric values are
// part of the boundary contract.
type RotationAngle int32

const (
	Rotate0   RotationAngle = 0
	Rotate90  RotationAngle = 1 // 90 degrees clockwise
	Rotate180 RotationAngle = 2
	Rotate270 RotationAngle = 3 // 270 degrees clockwise
)

func (a RotationAngle) String() string {
	switch a {
	case Rotate0:
		return "0"
	case Rotate90:
		return "90"
	case Rotate180:
		return "180"
	case Rotate270:
		return "270"
	default:
		return "unknown"
	}
}

// Rotate rotates src clockwise by the given angle and returns a new frame;
// src is never modified. Rotation is an exact pixel permutation with no
// interpolation: 90 and 270 degree results have swapped dimensions.
//
// Returns ErrInvalidArgument for an unknown angle.
func Rotate(src *Frame, angle RotationAngle) (*Frame, error) {
	if err := validateFrame(src); err != nil {
		return nil, err
	}

	dstW, dstH := src.Width, src.Height
	switch angle {
	case Rotate0, Rotate180:
	case Rotate90, Rotate270:
		dstW, dstH = src.Height, src.Width
	default:
		return nil, fmt.Errorf("%w: rotation angle %d", ErrInvalidArgument, int32(angle))
	}

	dst, err := NewFrame(dstW, dstH, src.Format)
	if err != nil {
		return nil, err
	}

	for i := 0; i < src.Format.PlaneCount(); i++ {
		sw, sh := src.Format.planeDimensions(i, src.Width, src.Height)
		bpp := src.Format.bytesPerPixel(i)
		rotatePlane(src.Data[i], src.Stride[i], dst.Data[i], dst.Stride[i], sw, sh, bpp, angle)
	}
	return dst, nil
}

// rotatePlane permutes whole pixels (bpp bytes each) from a sw x sh source
// plane into the rotated destination plane.
func rotatePlane(src []byte, srcStride int, dst []byte, dstStride, sw, sh, bpp int, angle RotationAngle) {
	for y := 0; y < sh; y++ {
		srcRow := src[y*srcStride:]
		for x := 0; x < sw; x++ {
			var dx, dy int
			switch angle {
			case Rotate0:
				dx, dy = x, y
			case Rotate90:
				dx, dy = sh-1-y, x
			case Rotate180:
				dx, dy = sw-1-x, sh-1-y
			case Rotate270:
				dx, dy = y, sw-1-x
			}
			copy(dst[dy*dstStride+dx*bpp:dy*dstStride+dx*bpp+bpp], srcRow[x*bpp:x*bpp+bpp])
		}
	}
}
