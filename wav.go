package video

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// WAV audio format tags.
const (
	wavFormatPCM       = 1
	wavFormatIEEEFloat = 3
)

// decodeWAV parses a RIFF/WAVE byte stream into an AudioBuffer. The data
// chunk bytes are kept verbatim so a WAV round-trip is sample-exact.
func decodeWAV(data []byte) (*AudioBuffer, error) {
	if len(data) < 12 || !bytes.Equal(data[0:4], []byte("RIFF")) || !bytes.Equal(data[8:12], []byte("WAVE")) {
		return nil, formatErrf("wav", "missing RIFF/WAVE header")
	}

	var (
		haveFmt       bool
		formatTag     uint16
		channels      uint16
		sampleRate    uint32
		bitsPerSample uint16
		sampleData    []byte
		haveData      bool
	)

	// Walk the chunk list. Chunks are word-aligned; odd sizes carry a pad
	// byte that is not part of the chunk.
	off := 12
	for off+8 <= len(data) {
		id := data[off : off+4]
		size := int(binary.LittleEndian.Uint32(data[off+4 : off+8]))
		body := off + 8
		if size < 0 || body+size > len(data) {
			return nil, fmt.Errorf("%w: wav chunk %q truncated", ErrDecodeError, id)
		}

		switch string(id) {
		case "fmt ":
			if size < 16 {
				return nil, fmt.Errorf("%w: wav fmt chunk too short", ErrDecodeError)
			}
			formatTag = binary.LittleEndian.Uint16(data[body:])
			channels = binary.LittleEndian.Uint16(data[body+2:])
			sampleRate = binary.LittleEndian.Uint32(data[body+4:])
			bitsPerSample = binary.LittleEndian.Uint16(data[body+14:])
			haveFmt = true
		case "data":
			sampleData = data[body : body+size]
			haveData = true
		}

		off = body + size
		if size%2 == 1 {
			off++
		}
	}

	if !haveFmt || !haveData {
		return nil, fmt.Errorf("%w: wav missing fmt or data chunk", ErrDecodeError)
	}
	if channels == 0 || channels > 255 || sampleRate == 0 {
		return nil, fmt.Errorf("%w: wav header rate %d channels %d", ErrDecodeError, sampleRate, channels)
	}

	var format SampleFormat
	switch {
	case formatTag == wavFormatPCM && bitsPerSample == 16:
		format = SampleFormatS16
	case formatTag == wavFormatIEEEFloat && bitsPerSample == 32:
		format = SampleFormatF32
	default:
		return nil, fmt.Errorf("%w: wav format tag %d with %d bits per sample",
			ErrUnsupportedCodec, formatTag, bitsPerSample)
	}

	frameSize := int(channels) * format.BytesPerSample()
	if len(sampleData)%frameSize != 0 {
		return nil, fmt.Errorf("%w: wav data length %d not a whole number of frames", ErrDecodeError, len(sampleData))
	}

	buf := &AudioBuffer{
		SampleRate:  int(sampleRate),
		Channels:    int(channels),
		SampleCount: len(sampleData) / frameSize,
		Format:      format,
		Data:        append([]byte(nil), sampleData...),
	}
	return buf, nil
}

// encodeWAV writes a canonical 44-byte header followed by the interleaved
// sample data unchanged.
func encodeWAV(buf *AudioBuffer) ([]byte, error) {
	var formatTag uint16
	switch buf.Format {
	case SampleFormatS16:
		formatTag = wavFormatPCM
	case SampleFormatF32:
		formatTag = wavFormatIEEEFloat
	default:
		return nil, fmt.Errorf("%w: wav cannot store sample format %v", ErrEncodeError, buf.Format)
	}

	bps := buf.Format.BytesPerSample()
	blockAlign := buf.Channels * bps
	byteRate := buf.SampleRate * blockAlign

	out := make([]byte, 0, 44+len(buf.Data))
	w := bytes.NewBuffer(out)

	w.WriteString("RIFF")
	binary.Write(w, binary.LittleEndian, uint32(36+len(buf.Data)))
	w.WriteString("WAVE")

	w.WriteString("fmt ")
	binary.Write(w, binary.LittleEndian, uint32(16))
	binary.Write(w, binary.LittleEndian, formatTag)
	binary.Write(w, binary.LittleEndian, uint16(buf.Channels))
	binary.Write(w, binary.LittleEndian, uint32(buf.SampleRate))
	binary.Write(w, binary.LittleEndian, uint32(byteRate))
	binary.Write(w, binary.LittleEndian, uint16(blockAlign))
	binary.Write(w, binary.LittleEndian, uint16(bps*8))

	w.WriteString("data")
	binary.Write(w, binary.LittleEndian, uint32(len(buf.Data)))
	w.Write(buf.Data)

	return w.Bytes(), nil
}
