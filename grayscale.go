package video

// Rec.601 luma weights in 8-bit fixed point (77 + 150 + 29 = 256).
const (
	lumaR = 77
	lumaG = 150
	lumaB = 29
)

// Grayscale converts src to a single-luma representation and returns a new
// frame in the same pixel format; src is never modified.
//
// Packed formats get every color channel set to the Rec.601 luma value
// (alpha is preserved). For YUV420P the luma plane is copied and the chroma
// planes are set to the neutral mid-value 128.
func Grayscale(src *Frame) (*Frame, error) {
	if err := validateFrame(src); err != nil {
		return nil, err
	}

	dst, err := NewFrame(src.Width, src.Height, src.Format)
	if err != nil {
		return nil, err
	}

	switch src.Format {
	case PixelFormatRGB24, PixelFormatRGBA32:
		bpp := src.Format.bytesPerPixel(0)
		for y := 0; y < src.Height; y++ {
			srcRow := src.Data[0][y*src.Stride[0]:]
			dstRow := dst.Data[0][y*dst.Stride[0]:]
			for x := 0; x < src.Width; x++ {
				o := x * bpp
				r := int(srcRow[o])
				g := int(srcRow[o+1])
				b := int(srcRow[o+2])
				luma := byte((lumaR*r + lumaG*g + lumaB*b + 128) >> 8)
				dstRow[o] = luma
				dstRow[o+1] = luma
				dstRow[o+2] = luma
				if bpp == 4 {
					dstRow[o+3] = srcRow[o+3]
				}
			}
		}

	case PixelFormatYUV420P:
		// Luma already is the grayscale image; neutralize chroma.
		copyPlane(dst.Data[0], dst.Stride[0], src.Data[0], src.Stride[0], src.Width, src.Height)
		for i := 1; i < 3; i++ {
			pw, ph := src.Format.planeDimensions(i, src.Width, src.Height)
			for y := 0; y < ph; y++ {
				row := dst.Data[i][y*dst.Stride[i] : y*dst.Stride[i]+pw]
				for x := range row {
					row[x] = 128
				}
			}
		}
	}
	return dst, nil
}

// copyPlane copies rowBytes-wide rows between planes with differing strides.
func copyPlane(dst []byte, dstStride int, src []byte, srcStride, rowBytes, rows int) {
	for y := 0; y < rows; y++ {
		copy(dst[y*dstStride:y*dstStride+rowBytes], src[y*srcStride:y*srcStride+rowBytes])
	}
}
