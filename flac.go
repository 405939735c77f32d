package video

import (
	"bytes"
	"crypto/md5"
	"encoding/binary"
	"fmt"
)

// FLAC encoding uses verbatim subframes: no prediction, bit-exact samples,
// valid for any decoder. Output is larger than a predictive encoder's but
// the round trip is lossless, which is the contract for this target.

const flacBlockSize = 4096

// encodeFLAC encodes a signed 16-bit buffer as a FLAC stream. Buffers in
// other sample formats report ErrUnsupportedCodec; FLAC has no float
// sample type.
func encodeFLAC(buf *AudioBuffer) ([]byte, error) {
	if buf.Format != SampleFormatS16 {
		return nil, fmt.Errorf("%w: flac encode requires S16 samples, have %v", ErrUnsupportedCodec, buf.Format)
	}
	if buf.Channels > 8 {
		return nil, fmt.Errorf("%w: flac supports at most 8 channels, have %d", ErrEncodeError, buf.Channels)
	}
	if buf.SampleRate >= 1<<20 {
		return nil, fmt.Errorf("%w: flac sample rate %d out of range", ErrEncodeError, buf.SampleRate)
	}

	out := &bytes.Buffer{}
	out.WriteString("fLaC")
	writeFLACStreamInfo(out, buf)

	samples := decodeS16Interleaved(buf)
	frameNumber := 0
	for start := 0; start < buf.SampleCount; start += flacBlockSize {
		end := start + flacBlockSize
		if end > buf.SampleCount {
			end = buf.SampleCount
		}
		writeFLACFrame(out, buf, samples, start, end, frameNumber)
		frameNumber++
	}
	// Zero samples still produce a valid stream with no frames.
	return out.Bytes(), nil
}

// writeFLACStreamInfo emits the mandatory STREAMINFO metadata block,
// flagged as the last metadata block.
func writeFLACStreamInfo(out *bytes.Buffer, buf *AudioBuffer) {
	bw := newBitWriter()
	bw.writeBits(16, flacBlockSize) // min block size
	bw.writeBits(16, flacBlockSize) // max block size
	bw.writeBits(24, 0)             // min frame size unknown
	bw.writeBits(24, 0)             // max frame size unknown
	bw.writeBits(20, uint64(buf.SampleRate))
	bw.writeBits(3, uint64(buf.Channels-1))
	bw.writeBits(5, 16-1) // bits per sample
	bw.writeBits(36, uint64(buf.SampleCount))
	sum := md5.Sum(buf.Data)
	body := append(bw.bytes(), sum[:]...)

	// Block header: last-block flag set, type 0 (STREAMINFO), 24-bit length.
	out.WriteByte(0x80)
	out.WriteByte(byte(len(body) >> 16))
	out.WriteByte(byte(len(body) >> 8))
	out.WriteByte(byte(len(body)))
	out.Write(body)
}

// writeFLACFrame emits one fixed-blocking frame covering samples
// [start, end) with one verbatim subframe per channel.
func writeFLACFrame(out *bytes.Buffer, buf *AudioBuffer, samples []int16, start, end, frameNumber int) {
	blockSize := end - start
	bw := newBitWriter()

	bw.writeBits(14, 0x3FFE) // sync code
	bw.writeBits(1, 0)       // reserved
	bw.writeBits(1, 0)       // fixed block size
	bw.writeBits(4, 0b0111)  // block size: 16-bit value follows header
	bw.writeBits(4, 0b0000)  // sample rate: from STREAMINFO
	bw.writeBits(4, uint64(buf.Channels-1))
	bw.writeBits(3, 0b100) // 16 bits per sample
	bw.writeBits(1, 0)     // reserved
	writeFLACUTF8(bw, uint64(frameNumber))
	bw.writeBits(16, uint64(blockSize-1))

	header := bw.bytes()
	header = append(header, flacCRC8(header))

	body := newBitWriter()
	for ch := 0; ch < buf.Channels; ch++ {
		body.writeBits(1, 0)        // zero padding
		body.writeBits(6, 0b000001) // verbatim subframe
		body.writeBits(1, 0)        // no wasted bits
		for i := start; i < end; i++ {
			body.writeBits(16, uint64(uint16(samples[i*buf.Channels+ch])))
		}
	}

	frame := append(header, body.bytes()...)
	crc := flacCRC16(frame)
	frame = append(frame, byte(crc>>8), byte(crc))
	out.Write(frame)
}

// writeFLACUTF8 writes a frame number in the UTF-8-style coding FLAC frame
// headers use.
func writeFLACUTF8(bw *bitWriter, v uint64) {
	switch {
	case v < 0x80:
		bw.writeBits(8, v)
	case v < 0x800:
		bw.writeBits(8, 0xC0|v>>6)
		bw.writeBits(8, 0x80|v&0x3F)
	case v < 0x10000:
		bw.writeBits(8, 0xE0|v>>12)
		bw.writeBits(8, 0x80|(v>>6)&0x3F)
		bw.writeBits(8, 0x80|v&0x3F)
	case v < 0x200000:
		bw.writeBits(8, 0xF0|v>>18)
		bw.writeBits(8, 0x80|(v>>12)&0x3F)
		bw.writeBits(8, 0x80|(v>>6)&0x3F)
		bw.writeBits(8, 0x80|v&0x3F)
	default:
		bw.writeBits(8, 0xF8|v>>24)
		bw.writeBits(8, 0x80|(v>>18)&0x3F)
		bw.writeBits(8, 0x80|(v>>12)&0x3F)
		bw.writeBits(8, 0x80|(v>>6)&0x3F)
		bw.writeBits(8, 0x80|v&0x3F)
	}
}

// decodeS16Interleaved views the buffer's raw bytes as interleaved int16.
func decodeS16Interleaved(buf *AudioBuffer) []int16 {
	n := buf.SampleCount * buf.Channels
	samples := make([]int16, n)
	for i := 0; i < n; i++ {
		samples[i] = int16(binary.LittleEndian.Uint16(buf.Data[i*2:]))
	}
	return samples
}

// bitWriter accumulates MSB-first bit strings, as FLAC fields require.
type bitWriter struct {
	buf  []byte
	bits uint64
	n    uint
}

func newBitWriter() *bitWriter {
	return &bitWriter{}
}

func (w *bitWriter) writeBits(count uint, v uint64) {
	w.bits = w.bits<<count | v&(1<<count-1)
	w.n += count
	for w.n >= 8 {
		w.n -= 8
		w.buf = append(w.buf, byte(w.bits>>w.n))
	}
}

// bytes flushes any partial byte with zero padding and returns the output.
func (w *bitWriter) bytes() []byte {
	if w.n > 0 {
		w.buf = append(w.buf, byte(w.bits<<(8-w.n)))
		w.n = 0
		w.bits = 0
	}
	return w.buf
}

var (
	flacCRC8Table  [256]byte
	flacCRC16Table [256]uint16
)

func init() {
	for i := 0; i < 256; i++ {
		c := byte(i)
		for b := 0; b < 8; b++ {
			if c&0x80 != 0 {
				c = c<<1 ^ 0x07
			} else {
				c <<= 1
			}
		}
		flacCRC8Table[i] = c

		v := uint16(i) << 8
		for b := 0; b < 8; b++ {
			if v&0x8000 != 0 {
				v = v<<1 ^ 0x8005
			} else {
				v <<= 1
			}
		}
		flacCRC16Table[i] = v
	}
}

func flacCRC8(data []byte) byte {
	var crc byte
	for _, b := range data {
		crc = flacCRC8Table[crc^b]
	}
	return crc
}

func flacCRC16(data []byte) uint16 {
	var crc uint16
	for _, b := range data {
		crc = crc<<8 ^ flacCRC16Table[byte(crc>>8)^b]
	}
	return crc
}
