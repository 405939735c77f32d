package video

import (
	"bytes"
	"context"
	"fmt"
	"image/jpeg"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// ExtractThumbnail opens a media file, decodes the video frame nearest the
// timestamp, and scales it to width x height (bilinear). Seeking uses the
// container's sample table rather than scanning frame by frame; a
// timestamp past the stream's duration clamps to the last decodable frame.
//
// Video decode in this build covers Motion JPEG; other codecs report
// ErrUnsupportedCodec.
func ExtractThumbnail(path string, timestamp time.Duration, width, height int) (*Frame, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: thumbnail size %dx%d", ErrInvalidArgument, width, height)
	}
	if timestamp < 0 {
		return nil, fmt.Errorf("%w: negative timestamp %v", ErrInvalidArgument, timestamp)
	}

	m, err := OpenMedia(path)
	if err != nil {
		return nil, err
	}
	defer m.Close()

	frame, err := m.decodeVideoFrame(timestamp)
	if err != nil {
		return nil, err
	}
	if frame.Width == width && frame.Height == height {
		return frame, nil
	}
	return Scale(frame, width, height, ScaleBilinear)
}

// ExtractThumbnails extracts one thumbnail per timestamp with bounded
// parallelism. Each extraction runs on its own demux session so every
// handle stays confined to a single goroutine. The first failure cancels
// the remaining work.
func ExtractThumbnails(ctx context.Context, path string, timestamps []time.Duration, width, height int) ([]*Frame, error) {
	frames := make([]*Frame, len(timestamps))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, ts := range timestamps {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			frame, err := ExtractThumbnail(path, ts, width, height)
			if err != nil {
				return fmt.Errorf("timestamp %v: %w", ts, err)
			}
			frames[i] = frame
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return frames, nil
}

// decodeVideoFrame locates the first video stream and decodes the sample
// nearest the timestamp into a frame.
func (m *MediaFile) decodeVideoFrame(timestamp time.Duration) (*Frame, error) {
	var stream *StreamInfo
	for i := range m.streams {
		if m.streams[i].Type == StreamVideo {
			stream = &m.streams[i]
			break
		}
	}
	if stream == nil {
		return nil, fmt.Errorf("%w: no video stream in %s", ErrInvalidFormat, m.path)
	}
	if stream.Codec != CodecMJPEG {
		return nil, fmt.Errorf("%w: %s decode not compiled in", ErrUnsupportedCodec, stream.Codec)
	}
	if m.videoTrak == nil || len(m.videoTrak.times) == 0 {
		return nil, fmt.Errorf("%w: no seekable sample table in %s", ErrInvalidFormat, m.path)
	}

	index := m.videoTrak.sampleNearest(timestamp)
	sample, err := m.readSample(m.videoTrak, index)
	if err != nil {
		return nil, err
	}

	img, err := jpeg.Decode(bytes.NewReader(sample))
	if err != nil {
		return nil, fmt.Errorf("%w: jpeg sample %d: %v", ErrDecodeError, index, err)
	}

	logrus.WithFields(logrus.Fields{
		"session":   m.id,
		"timestamp": timestamp,
		"sample":    index,
	}).Debug("thumbnail frame decoded")
	return FrameFromImage(img)
}
