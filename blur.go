package video

import (
	"fmt"
	"math"
)

// Blur applies a separable Gaussian blur with the given sigma and returns a
// new frame; src is never modified. The kernel radius is ceil(3*sigma) and
// rows/columns are clamped at the plane edges. Each plane is blurred
// independently at its own dimensions.
//
// Returns ErrInvalidArgument if sigma is zero or negative.
func Blur(src *Frame, sigma float64) (*Frame, error) {
	if err := validateFrame(src); err != nil {
		return nil, err
	}
	if sigma <= 0 || math.IsNaN(sigma) || math.IsInf(sigma, 0) {
		return nil, fmt.Errorf("%w: blur sigma %v", ErrInvalidArgument, sigma)
	}

	dst, err := NewFrame(src.Width, src.Height, src.Format)
	if err != nil {
		return nil, err
	}

	kernel := gaussianKernel(sigma)
	for i := 0; i < src.Format.PlaneCount(); i++ {
		pw, ph := src.Format.planeDimensions(i, src.Width, src.Height)
		bpp := src.Format.bytesPerPixel(i)
		blurPlane(src.Data[i], src.Stride[i], dst.Data[i], dst.Stride[i], pw, ph, bpp, kernel)
	}
	return dst, nil
}

// gaussianKernel builds a normalized 1D Gaussian of radius ceil(3*sigma).
func gaussianKernel(sigma float64) []float64 {
	radius := int(math.Ceil(3 * sigma))
	kernel := make([]float64, 2*radius+1)
	var sum float64
	for i := -radius; i <= radius; i++ {
		w := math.Exp(-float64(i*i) / (2 * sigma * sigma))
		kernel[i+radius] = w
		sum += w
	}
	for i := range kernel {
		kernel[i] /= sum
	}
	return kernel
}

// blurPlane runs the separable kernel horizontally into a float32
// intermediate, then vertically into dst, clamping taps at the edges.
func blurPlane(src []byte, srcStride int, dst []byte, dstStride, w, h, bpp int, kernel []float64) {
	radius := len(kernel) / 2
	rowBytes := w * bpp
	tmp := make([]float32, rowBytes*h)

	for y := 0; y < h; y++ {
		srcRow := src[y*srcStride:]
		tmpRow := tmp[y*rowBytes:]
		for x := 0; x < w; x++ {
			for c := 0; c < bpp; c++ {
				var acc float64
				for k, kw := range kernel {
					sx := x + k - radius
					if sx < 0 {
						sx = 0
					} else if sx >= w {
						sx = w - 1
					}
					acc += kw * float64(srcRow[sx*bpp+c])
				}
				tmpRow[x*bpp+c] = float32(acc)
			}
		}
	}

	for y := 0; y < h; y++ {
		dstRow := dst[y*dstStride:]
		for x := 0; x < rowBytes; x++ {
			var acc float64
			for k, kw := range kernel {
				sy := y + k - radius
				if sy < 0 {
					sy = 0
				} else if sy >= h {
					sy = h - 1
				}
				acc += kw * float64(tmp[sy*rowBytes+x])
			}
			dstRow[x] = clampByte(acc)
		}
	}
}
