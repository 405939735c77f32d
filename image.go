package video

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"
)

// FrameToImage converts a frame to a standard library image. Packed
// formats map to *image.RGBA; YUV420P maps to *image.YCbCr with its planes
// copied verbatim.
func FrameToImage(f *Frame) (image.Image, error) {
	if err := validateFrame(f); err != nil {
		return nil, err
	}

	switch f.Format {
	case PixelFormatRGB24, PixelFormatRGBA32:
		bpp := f.Format.bytesPerPixel(0)
		img := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
		for y := 0; y < f.Height; y++ {
			srcRow := f.Data[0][y*f.Stride[0]:]
			dstRow := img.Pix[y*img.Stride:]
			for x := 0; x < f.Width; x++ {
				dstRow[x*4] = srcRow[x*bpp]
				dstRow[x*4+1] = srcRow[x*bpp+1]
				dstRow[x*4+2] = srcRow[x*bpp+2]
				if bpp == 4 {
					dstRow[x*4+3] = srcRow[x*bpp+3]
				} else {
					dstRow[x*4+3] = 0xFF
				}
			}
		}
		return img, nil

	case PixelFormatYUV420P:
		img := image.NewYCbCr(image.Rect(0, 0, f.Width, f.Height), image.YCbCrSubsampleRatio420)
		copyPlane(img.Y, img.YStride, f.Data[0], f.Stride[0], f.Width, f.Height)
		cw, ch := f.Format.planeDimensions(1, f.Width, f.Height)
		copyPlane(img.Cb, img.CStride, f.Data[1], f.Stride[1], cw, ch)
		copyPlane(img.Cr, img.CStride, f.Data[2], f.Stride[2], cw, ch)
		return img, nil

	default:
		return nil, fmt.Errorf("%w: pixel format %v", ErrInvalidArgument, f.Format)
	}
}

// FrameFromImage converts a standard library image to an RGBA32 frame.
func FrameFromImage(img image.Image) (*Frame, error) {
	bounds := img.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return nil, fmt.Errorf("%w: empty image", ErrInvalidArgument)
	}

	f, err := NewFrame(bounds.Dx(), bounds.Dy(), PixelFormatRGBA32)
	if err != nil {
		return nil, err
	}

	rgba, ok := img.(*image.RGBA)
	if !ok || rgba.Rect.Min != (image.Point{}) {
		rgba = image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
		draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	}
	copyPlane(f.Data[0], f.Stride[0], rgba.Pix, rgba.Stride, f.Width*4, f.Height)
	return f, nil
}

// SaveFrame encodes the frame as an image file; the format is chosen from
// the path extension (.webp, .png, .jpg/.jpeg). A write failure reports
// ErrIO.
func SaveFrame(f *Frame, path string) error {
	img, err := FrameToImage(f)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	switch strings.ToLower(filepath.Ext(path)) {
	case ".webp":
		err = webp.Encode(&buf, img, &webp.Options{Quality: 90})
	case ".png":
		err = png.Encode(&buf, img)
	case ".jpg", ".jpeg":
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90})
	default:
		return fmt.Errorf("%w: image extension %q", ErrInvalidArgument, filepath.Ext(path))
	}
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", ErrEncodeError, path, err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("%w: write %s: %v", ErrIO, path, err)
	}
	return nil
}
