package video

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// makeSineBuffer fills an S16 buffer with a quiet ramp so encoded output
// has non-trivial bytes.
func makeSineBuffer(t testing.TB, rate, channels, samples int) *AudioBuffer {
	t.Helper()
	buf, err := NewAudioBuffer(rate, channels, samples, SampleFormatS16)
	require.NoError(t, err)
	for i := 0; i < samples*channels; i++ {
		v := int16((i % 200) - 100)
		buf.Data[i*2] = byte(v)
		buf.Data[i*2+1] = byte(v >> 8)
	}
	return buf
}

func TestNewAudioBuffer(t *testing.T) {
	buf, err := NewAudioBuffer(48000, 2, 480, SampleFormatS16)
	require.NoError(t, err)
	assert.Equal(t, 480*2*2, len(buf.Data))

	f32, err := NewAudioBuffer(44100, 1, 100, SampleFormatF32)
	require.NoError(t, err)
	assert.Equal(t, 100*4, len(f32.Data))

	cases := []struct {
		name                    string
		rate, channels, samples int
		format                  SampleFormat
	}{
		{"zero rate", 0, 2, 480, SampleFormatS16},
		{"zero channels", 48000, 0, 480, SampleFormatS16},
		{"too many channels", 48000, 256, 480, SampleFormatS16},
		{"negative samples", 48000, 2, -1, SampleFormatS16},
		{"bad format", 48000, 2, 480, SampleFormat(9)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewAudioBuffer(tc.rate, tc.channels, tc.samples, tc.format)
			assert.ErrorIs(t, err, ErrInvalidArgument)
		})
	}
}

func TestAudioBuffer_Duration(t *testing.T) {
	buf, err := NewAudioBuffer(48000, 2, 48000, SampleFormatS16)
	require.NoError(t, err)
	assert.Equal(t, time.Second, buf.Duration())

	half, err := NewAudioBuffer(44100, 1, 22050, SampleFormatS16)
	require.NoError(t, err)
	assert.Equal(t, 500*time.Millisecond, half.Duration())
}

func TestAudioBuffer_Sample(t *testing.T) {
	buf, err := NewAudioBuffer(48000, 2, 2, SampleFormatS16)
	require.NoError(t, err)
	// Frame 1, right channel = 16384 (0.5).
	buf.Data[6] = 0x00
	buf.Data[7] = 0x40

	assert.InDelta(t, 0.5, buf.Sample(1, 1), 1e-9)
	assert.Equal(t, 0.0, buf.Sample(0, 0))
	assert.Equal(t, 0.0, buf.Sample(2, 0), "out-of-range channel")
	assert.Equal(t, 0.0, buf.Sample(0, 5), "out-of-range index")
}

func TestAudioBuffer_Clone(t *testing.T) {
	buf := makeSineBuffer(t, 8000, 1, 64)
	buf.Tags = &AudioTags{Title: "t", Artist: "a"}

	clone := buf.Clone()
	assert.Equal(t, buf.Data, clone.Data)
	require.NotNil(t, clone.Tags)

	buf.Data[0] ^= 0xFF
	buf.Tags.Title = "changed"
	assert.NotEqual(t, buf.Data[0], clone.Data[0])
	assert.Equal(t, "t", clone.Tags.Title)
}

func TestLoadAudioBytes_WAVRoundTrip(t *testing.T) {
	src := makeSineBuffer(t, 44100, 2, 1000)

	encoded, err := Encode(src, AudioFormatWAV)
	require.NoError(t, err)
	assert.Equal(t, 44+len(src.Data), len(encoded))

	decoded, err := LoadAudioBytes(encoded)
	require.NoError(t, err)
	assert.Equal(t, src.SampleRate, decoded.SampleRate)
	assert.Equal(t, src.Channels, decoded.Channels)
	assert.Equal(t, src.SampleCount, decoded.SampleCount)
	assert.Equal(t, src.Format, decoded.Format)
	assert.Equal(t, src.Data, decoded.Data, "WAV round trip must be byte-exact")

	// Re-encoding the decoded buffer reproduces the stream byte for byte.
	again, err := Encode(decoded, AudioFormatWAV)
	require.NoError(t, err)
	assert.Equal(t, encoded, again)
}

func TestLoadAudioBytes_Unrecognized(t *testing.T) {
	_, err := LoadAudioBytes([]byte("this is not audio data at all"))
	assert.ErrorIs(t, err, ErrInvalidFormat)

	_, err = LoadAudioBytes(nil)
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestLoadAudioBytes_UnsupportedContainers(t *testing.T) {
	flacHeader := append([]byte("fLaC"), make([]byte, 16)...)
	_, err := LoadAudioBytes(flacHeader)
	assert.ErrorIs(t, err, ErrUnsupportedCodec)

	mp3Header := append([]byte("ID3"), make([]byte, 16)...)
	_, err = LoadAudioBytes(mp3Header)
	assert.ErrorIs(t, err, ErrUnsupportedCodec)

	// Video containers are recognized too, they just have no audio
	// decoder here.
	_, err = LoadAudioBytes(mp4Box("ftyp", []byte("isom"), be32(0)))
	assert.ErrorIs(t, err, ErrUnsupportedCodec)

	tsPacket := make([]byte, tsPacketSize)
	tsPacket[0] = tsSyncByte
	_, err = LoadAudioBytes(tsPacket)
	assert.ErrorIs(t, err, ErrUnsupportedCodec)
}

func TestLoadAudio_FileNotFound(t *testing.T) {
	_, err := LoadAudio(filepath.Join(t.TempDir(), "missing.wav"))
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestSaveAudio_LoadAudio(t *testing.T) {
	src := makeSineBuffer(t, 22050, 1, 500)
	path := filepath.Join(t.TempDir(), "out.wav")

	require.NoError(t, SaveAudio(src, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, int64(44+len(src.Data)), info.Size())

	loaded, err := LoadAudio(path)
	require.NoError(t, err)
	assert.Equal(t, src.Data, loaded.Data)
}

func TestEncode_UnsupportedTargets(t *testing.T) {
	buf := makeSineBuffer(t, 48000, 2, 100)
	for _, format := range []AudioFormat{AudioFormatMP3, AudioFormatAAC, AudioFormatOpus, AudioFormatVorbis} {
		_, err := Encode(buf, format)
		assert.ErrorIs(t, err, ErrUnsupportedCodec, format.String())
	}
	_, err := Encode(buf, AudioFormat(42))
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestEncode_InvalidBuffer(t *testing.T) {
	_, err := Encode(nil, AudioFormatWAV)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	broken := makeSineBuffer(t, 48000, 2, 100)
	broken.Data = broken.Data[:10] // violates the length invariant
	_, err = Encode(broken, AudioFormatWAV)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}
