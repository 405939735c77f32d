package video

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/pion/opus"
	"github.com/pion/opus/pkg/oggreader"
	"github.com/sirupsen/logrus"
)

// Opus always decodes at the full-band rate.
const opusOutputRate = 48000

// decodeOggOpus decodes an Ogg-encapsulated Opus stream into S16 PCM using
// the pure Go pion decoder. The identification header supplies channel
// layout and pre-skip; per-packet sample counts come from the Opus TOC
// byte.
func decodeOggOpus(data []byte) (*AudioBuffer, error) {
	ogg, header, err := oggreader.NewWith(bytes.NewReader(data))
	if err != nil {
		return nil, formatErrf("ogg", "parse: %v", err)
	}

	channels, err := opusChannelCount(header)
	if err != nil {
		return nil, err
	}

	decoder := opus.NewDecoder()
	var pcm []byte
	scratch := make([]byte, 4*5760) // up to 120 ms at 48 kHz stereo

	for {
		segments, _, err := ogg.ParseNextPage()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: ogg page: %v", ErrDecodeError, err)
		}

		for _, packet := range segments {
			if bytes.HasPrefix(packet, []byte("OpusTags")) {
				continue
			}
			samples, err := opusPacketSamples(packet)
			if err != nil {
				return nil, err
			}

			if _, _, err := decoder.Decode(packet, scratch); err != nil {
				return nil, fmt.Errorf("%w: opus: %v", ErrDecodeError, err)
			}
			pcm = append(pcm, scratch[:samples*2*channels]...)
		}
	}

	if len(pcm) == 0 {
		return nil, fmt.Errorf("%w: ogg stream contains no opus audio", ErrDecodeError)
	}

	// Drop the encoder priming samples declared in the OpusHead.
	skip := int(header.PreSkip) * 2 * channels
	if skip > len(pcm) {
		skip = len(pcm)
	}
	pcm = pcm[skip:]

	logrus.WithFields(logrus.Fields{
		"channels": channels,
		"pre_skip": header.PreSkip,
		"samples":  len(pcm) / (2 * channels),
	}).Debug("ogg opus decoded")

	return &AudioBuffer{
		SampleRate:  opusOutputRate,
		Channels:    channels,
		SampleCount: len(pcm) / (2 * channels),
		Format:      SampleFormatS16,
		Data:        pcm,
	}, nil
}

// opusChannelCount reads the channel layout declared in the OpusHead
// identification header. Opus in Ogg carries one or two channels per
// stream; anything else is a malformed header.
func opusChannelCount(header *oggreader.OggHeader) (int, error) {
	c := int(header.Channels)
	if c < 1 || c > 2 {
		return 0, fmt.Errorf("%w: opus channel count %d", ErrDecodeError, c)
	}
	return c, nil
}

// opusPacketSamples returns the 48 kHz sample count of one Opus packet,
// derived from the TOC byte per RFC 6716 section 3.1.
func opusPacketSamples(packet []byte) (int, error) {
	if len(packet) == 0 {
		return 0, fmt.Errorf("%w: empty opus packet", ErrDecodeError)
	}
	toc := packet[0]
	config := toc >> 3

	// Frame duration in samples at 48 kHz.
	var perFrame int
	switch {
	case config <= 11: // SILK-only: 10, 20, 40, 60 ms
		perFrame = []int{480, 960, 1920, 2880}[config%4]
	case config <= 15: // Hybrid: 10, 20 ms
		perFrame = []int{480, 960}[config%2]
	default: // CELT-only: 2.5, 5, 10, 20 ms
		perFrame = []int{120, 240, 480, 960}[config%4]
	}

	var frames int
	switch toc & 0x3 {
	case 0:
		frames = 1
	case 1, 2:
		frames = 2
	default:
		if len(packet) < 2 {
			return 0, fmt.Errorf("%w: truncated opus packet", ErrDecodeError)
		}
		frames = int(packet[1] & 0x3F)
	}

	samples := frames * perFrame
	if samples == 0 || samples > 5760 { // 120 ms ceiling per RFC 6716
		return 0, fmt.Errorf("%w: opus packet spans %d samples", ErrDecodeError, samples)
	}
	return samples, nil
}
