package video

import (
	"fmt"
	"math"
)

// ScaleAlgorithm selects the reconstruction kernel used by Scale. The
// numeric values are part of the boundary contract.
type ScaleAlgorithm int32

const (
	ScaleNearest  ScaleAlgorithm = 0 // Nearest source pixel, fastest
	ScaleBilinear ScaleAlgorithm = 1 // 2x2 linear interpolation
	ScaleBicubic  ScaleAlgorithm = 2 // Catmull-Rom cubic, 4-tap
	ScaleLanczos  ScaleAlgorithm = 3 // Lanczos-3 windowed sinc, 6-tap
)

func (a ScaleAlgorithm) String() string {
	switch a {
	case ScaleNearest:
		return "nearest"
	case ScaleBilinear:
		return "bilinear"
	case ScaleBicubic:
		return "bicubic"
	case ScaleLanczos:
		return "lanczos"
	default:
		return "unknown"
	}
}

// Scale resamples src to dstWidth x dstHeight using the given algorithm and
// returns a new frame; src is never modified. Each plane is scaled
// independently: the chroma planes of YUV420P are scaled against the halved
// target dimensions with the same kernel, never duplicated from luma.
//
// Returns ErrInvalidArgument if either target dimension is zero or
// negative, or if the target is odd for a 4:2:0 source.
func Scale(src *Frame, dstWidth, dstHeight int, algorithm ScaleAlgorithm) (*Frame, error) {
	if err := validateFrame(src); err != nil {
		return nil, err
	}
	if dstWidth <= 0 || dstHeight <= 0 {
		return nil, fmt.Errorf("%w: scale target %dx%d", ErrInvalidArgument, dstWidth, dstHeight)
	}
	if src.Format == PixelFormatYUV420P && (dstWidth%2 != 0 || dstHeight%2 != 0) {
		return nil, fmt.Errorf("%w: scale target %dx%d must be even for 4:2:0", ErrInvalidArgument, dstWidth, dstHeight)
	}

	dst, err := NewFrame(dstWidth, dstHeight, src.Format)
	if err != nil {
		return nil, err
	}

	for i := 0; i < src.Format.PlaneCount(); i++ {
		sw, sh := src.Format.planeDimensions(i, src.Width, src.Height)
		dw, dh := src.Format.planeDimensions(i, dstWidth, dstHeight)
		bpp := src.Format.bytesPerPixel(i)

		switch algorithm {
		case ScaleNearest:
			scalePlaneNearest(src.Data[i], src.Stride[i], sw, sh, dst.Data[i], dst.Stride[i], dw, dh, bpp)
		case ScaleBilinear:
			scalePlaneBilinear(src.Data[i], src.Stride[i], sw, sh, dst.Data[i], dst.Stride[i], dw, dh, bpp)
		case ScaleBicubic:
			resamplePlane(src.Data[i], src.Stride[i], sw, sh, dst.Data[i], dst.Stride[i], dw, dh, bpp, catmullRom, 2)
		case ScaleLanczos:
			resamplePlane(src.Data[i], src.Stride[i], sw, sh, dst.Data[i], dst.Stride[i], dw, dh, bpp, lanczos3, 3)
		default:
			return nil, fmt.Errorf("%w: scale algorithm %d", ErrInvalidArgument, int32(algorithm))
		}
	}
	return dst, nil
}

// scalePlaneNearest maps each destination pixel to the nearest source pixel
// using 16.16 fixed-point coordinates. Integer-ratio resizes are exact, so
// upscaling and scaling back reproduce the original samples.
func scalePlaneNearest(src []byte, srcStride, srcW, srcH int, dst []byte, dstStride, dstW, dstH, bpp int) {
	xRatio := (srcW << 16) / dstW
	yRatio := (srcH << 16) / dstH

	for y := 0; y < dstH; y++ {
		sy := (y * yRatio) >> 16
		if sy >= srcH {
			sy = srcH - 1
		}
		srcRow := src[sy*srcStride:]
		dstRow := dst[y*dstStride:]
		for x := 0; x < dstW; x++ {
			sx := (x * xRatio) >> 16
			if sx >= srcW {
				sx = srcW - 1
			}
			copy(dstRow[x*bpp:x*bpp+bpp], srcRow[sx*bpp:sx*bpp+bpp])
		}
	}
}

// scalePlaneBilinear interpolates each destination pixel from its 2x2
// source neighborhood using 16.16 fixed-point weights, one channel at a
// time for packed formats.
func scalePlaneBilinear(src []byte, srcStride, srcW, srcH int, dst []byte, dstStride, dstW, dstH, bpp int) {
	xRatio := (srcW << 16) / dstW
	yRatio := (srcH << 16) / dstH

	for y := 0; y < dstH; y++ {
		srcYFP := y * yRatio
		y0 := srcYFP >> 16
		yWeight := srcYFP & 0xFFFF
		y1 := y0 + 1
		if y1 >= srcH {
			y1 = y0
		}

		row0 := src[y0*srcStride:]
		row1 := src[y1*srcStride:]
		dstRow := dst[y*dstStride:]

		for x := 0; x < dstW; x++ {
			srcXFP := x * xRatio
			x0 := srcXFP >> 16
			xWeight := srcXFP & 0xFFFF
			x1 := x0 + 1
			if x1 >= srcW {
				x1 = x0
			}

			for c := 0; c < bpp; c++ {
				p00 := int(row0[x0*bpp+c])
				p10 := int(row0[x1*bpp+c])
				p01 := int(row1[x0*bpp+c])
				p11 := int(row1[x1*bpp+c])

				top := (p00*(0x10000-xWeight) + p10*xWeight) >> 16
				bottom := (p01*(0x10000-xWeight) + p11*xWeight) >> 16
				dstRow[x*bpp+c] = byte((top*(0x10000-yWeight) + bottom*yWeight) >> 16)
			}
		}
	}
}

// catmullRom is the Catmull-Rom cubic kernel (a = -0.5), support 2.
func catmullRom(t float64) float64 {
	t = math.Abs(t)
	switch {
	case t < 1:
		return 1.5*t*t*t - 2.5*t*t + 1
	case t < 2:
		return -0.5*t*t*t + 2.5*t*t - 4*t + 2
	default:
		return 0
	}
}

// lanczos3 is the Lanczos windowed sinc kernel, support 3.
func lanczos3(t float64) float64 {
	t = math.Abs(t)
	if t >= 3 {
		return 0
	}
	if t < 1e-9 {
		return 1
	}
	pt := math.Pi * t
	return 3 * math.Sin(pt) * math.Sin(pt/3) / (pt * pt)
}

// resamplePlane applies a separable float kernel in two passes: horizontal
// into a float32 intermediate, then vertical into the destination. When
// downscaling, the kernel footprint is stretched by the scale factor so the
// filter averages over the full source region instead of point sampling.
func resamplePlane(src []byte, srcStride, srcW, srcH int, dst []byte, dstStride, dstW, dstH, bpp int,
	kernel func(float64) float64, support float64) {

	tmp := make([]float32, dstW*srcH*bpp)

	// Horizontal pass: srcW -> dstW for every source row.
	xWeights, xOffsets := resampleWeights(srcW, dstW, kernel, support)
	for y := 0; y < srcH; y++ {
		srcRow := src[y*srcStride:]
		tmpRow := tmp[y*dstW*bpp:]
		for x := 0; x < dstW; x++ {
			ws := xWeights[x]
			off := xOffsets[x]
			for c := 0; c < bpp; c++ {
				var acc float64
				for k, w := range ws {
					acc += w * float64(srcRow[(off+k)*bpp+c])
				}
				tmpRow[x*bpp+c] = float32(acc)
			}
		}
	}

	// Vertical pass: srcH -> dstH for every destination column.
	yWeights, yOffsets := resampleWeights(srcH, dstH, kernel, support)
	rowStride := dstW * bpp
	for y := 0; y < dstH; y++ {
		ws := yWeights[y]
		off := yOffsets[y]
		dstRow := dst[y*dstStride:]
		for x := 0; x < rowStride; x++ {
			var acc float64
			for k, w := range ws {
				acc += w * float64(tmp[(off+k)*rowStride+x])
			}
			dstRow[x] = clampByte(acc)
		}
	}
}

// resampleWeights precomputes, for each destination coordinate, the
// normalized kernel weights and the first source index they apply to.
func resampleWeights(srcN, dstN int, kernel func(float64) float64, support float64) ([][]float64, []int) {
	scale := float64(srcN) / float64(dstN)
	filterScale := scale
	if filterScale < 1 {
		filterScale = 1
	}
	radius := support * filterScale

	weights := make([][]float64, dstN)
	offsets := make([]int, dstN)

	for i := 0; i < dstN; i++ {
		center := (float64(i)+0.5)*scale - 0.5
		lo := int(math.Floor(center - radius + 0.5))
		hi := int(math.Floor(center + radius + 0.5))
		if lo < 0 {
			lo = 0
		}
		if hi > srcN-1 {
			hi = srcN - 1
		}

		ws := make([]float64, hi-lo+1)
		var sum float64
		for j := lo; j <= hi; j++ {
			w := kernel((float64(j) - center) / filterScale)
			ws[j-lo] = w
			sum += w
		}
		if sum != 0 {
			for j := range ws {
				ws[j] /= sum
			}
		} else {
			ws[len(ws)/2] = 1
		}
		weights[i] = ws
		offsets[i] = lo
	}
	return weights, offsets
}

func clampByte(v float64) byte {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return byte(v + 0.5)
}
