package video

// FilterFunc is one step of a filter pipeline: a pure transform that
// returns a new frame and never mutates its input.
type FilterFunc func(*Frame) (*Frame, error)

// Chain composes filters left to right into a single FilterFunc. An empty
// chain returns a clone of the input, so the output is always
// independently owned.
func Chain(filters ...FilterFunc) FilterFunc {
	return func(src *Frame) (*Frame, error) {
		if len(filters) == 0 {
			if err := validateFrame(src); err != nil {
				return nil, err
			}
			return src.Clone(), nil
		}
		frame := src
		for _, f := range filters {
			next, err := f(frame)
			if err != nil {
				return nil, err
			}
			frame = next
		}
		return frame, nil
	}
}

// ScaleTo returns a Scale step for use in a Chain.
func ScaleTo(width, height int, algorithm ScaleAlgorithm) FilterFunc {
	return func(src *Frame) (*Frame, error) {
		return Scale(src, width, height, algorithm)
	}
}

// CropRect returns a Crop step for use in a Chain.
func CropRect(x, y, width, height int) FilterFunc {
	return func(src *Frame) (*Frame, error) {
		return Crop(src, x, y, width, height)
	}
}

// GrayscaleStep returns a Grayscale step for use in a Chain.
func GrayscaleStep() FilterFunc {
	return Grayscale
}

// BlurWith returns a Blur step for use in a Chain.
func BlurWith(sigma float64) FilterFunc {
	return func(src *Frame) (*Frame, error) {
		return Blur(src, sigma)
	}
}

// RotateBy returns a Rotate step for use in a Chain.
func RotateBy(angle RotationAngle) FilterFunc {
	return func(src *Frame) (*Frame, error) {
		return Rotate(src, angle)
	}
}
