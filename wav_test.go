package video

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeWAV_Float32(t *testing.T) {
	buf, err := NewAudioBuffer(48000, 1, 3, SampleFormatF32)
	require.NoError(t, err)
	for i, v := range []float32{-1, 0.25, 1} {
		binary.LittleEndian.PutUint32(buf.Data[i*4:], math.Float32bits(v))
	}

	encoded, err := encodeWAV(buf)
	require.NoError(t, err)

	decoded, err := decodeWAV(encoded)
	require.NoError(t, err)
	assert.Equal(t, SampleFormatF32, decoded.Format)
	assert.InDelta(t, -1, decoded.Sample(0, 0), 1e-9)
	assert.InDelta(t, 0.25, decoded.Sample(0, 1), 1e-9)
}

func TestDecodeWAV_SkipsForeignChunks(t *testing.T) {
	src := makeSineBuffer(t, 8000, 1, 10)
	encoded, err := encodeWAV(src)
	require.NoError(t, err)

	// Splice a LIST chunk with an odd size (and its pad byte) between the
	// header and the fmt chunk.
	foreign := []byte("LIST")
	foreign = append(foreign, 3, 0, 0, 0)
	foreign = append(foreign, 'a', 'b', 'c', 0)
	spliced := append([]byte{}, encoded[:12]...)
	spliced = append(spliced, foreign...)
	spliced = append(spliced, encoded[12:]...)
	binary.LittleEndian.PutUint32(spliced[4:], uint32(len(spliced)-8))

	decoded, err := decodeWAV(spliced)
	require.NoError(t, err)
	assert.Equal(t, src.Data, decoded.Data)
}

func TestDecodeWAV_Malformed(t *testing.T) {
	valid, err := encodeWAV(makeSineBuffer(t, 8000, 1, 10))
	require.NoError(t, err)

	t.Run("missing header", func(t *testing.T) {
		_, err := decodeWAV([]byte("RIFFxxxxNOPE"))
		assert.ErrorIs(t, err, ErrInvalidFormat)
	})

	t.Run("truncated data chunk", func(t *testing.T) {
		_, err := decodeWAV(valid[:len(valid)-5])
		assert.ErrorIs(t, err, ErrDecodeError)
	})

	t.Run("header only", func(t *testing.T) {
		_, err := decodeWAV(valid[:12])
		assert.ErrorIs(t, err, ErrDecodeError)
	})

	t.Run("unsupported bit depth", func(t *testing.T) {
		bad := append([]byte(nil), valid...)
		// bitsPerSample lives 14 bytes into the fmt chunk body at offset 20.
		binary.LittleEndian.PutUint16(bad[34:], 24)
		_, err := decodeWAV(bad)
		assert.ErrorIs(t, err, ErrUnsupportedCodec)
	})

	t.Run("ragged frame", func(t *testing.T) {
		stereo := makeSineBuffer(t, 8000, 2, 10)
		enc, err := encodeWAV(stereo)
		require.NoError(t, err)
		// Shrink the data chunk by one byte so it no longer divides into
		// whole frames.
		enc = enc[:len(enc)-1]
		binary.LittleEndian.PutUint32(enc[4:], uint32(len(enc)-8))
		binary.LittleEndian.PutUint32(enc[40:], uint32(len(enc)-44))
		_, err = decodeWAV(enc)
		assert.ErrorIs(t, err, ErrDecodeError)
	})
}

func TestEncodeWAV_Header(t *testing.T) {
	buf := makeSineBuffer(t, 44100, 2, 100)
	encoded, err := encodeWAV(buf)
	require.NoError(t, err)

	assert.Equal(t, "RIFF", string(encoded[0:4]))
	assert.Equal(t, "WAVE", string(encoded[8:12]))
	assert.Equal(t, "fmt ", string(encoded[12:16]))
	assert.Equal(t, uint16(1), binary.LittleEndian.Uint16(encoded[20:]), "PCM format tag")
	assert.Equal(t, uint16(2), binary.LittleEndian.Uint16(encoded[22:]), "channels")
	assert.Equal(t, uint32(44100), binary.LittleEndian.Uint32(encoded[24:]), "sample rate")
	assert.Equal(t, uint32(44100*4), binary.LittleEndian.Uint32(encoded[28:]), "byte rate")
	assert.Equal(t, uint16(4), binary.LittleEndian.Uint16(encoded[32:]), "block align")
	assert.Equal(t, uint16(16), binary.LittleEndian.Uint16(encoded[34:]), "bits per sample")
	assert.Equal(t, "data", string(encoded[36:40]))
	assert.Equal(t, uint32(len(buf.Data)), binary.LittleEndian.Uint32(encoded[40:]))
}
