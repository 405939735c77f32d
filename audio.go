package video

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/dhowden/tag"
	"github.com/sirupsen/logrus"
)

// SampleFormat represents audio sample storage formats.
type SampleFormat int32

const (
	SampleFormatS16 SampleFormat = 0 // Signed 16-bit PCM, little-endian
	SampleFormatF32 SampleFormat = 1 // 32-bit IEEE float, little-endian
)

func (f SampleFormat) String() string {
	switch f {
	case SampleFormatS16:
		return "S16"
	case SampleFormatF32:
		return "F32"
	default:
		return "Unknown"
	}
}

// BytesPerSample returns the number of bytes per sample for this format.
func (f SampleFormat) BytesPerSample() int {
	switch f {
	case SampleFormatS16:
		return 2
	case SampleFormatF32:
		return 4
	default:
		return 0
	}
}

// AudioFormat identifies an audio encode target. The numeric values are
// part of the boundary contract.
type AudioFormat int32

const (
	AudioFormatWAV    AudioFormat = 0
	AudioFormatMP3    AudioFormat = 1
	AudioFormatAAC    AudioFormat = 2
	AudioFormatFLAC   AudioFormat = 3
	AudioFormatOpus   AudioFormat = 4
	AudioFormatVorbis AudioFormat = 5
)

func (f AudioFormat) String() string {
	switch f {
	case AudioFormatWAV:
		return "wav"
	case AudioFormatMP3:
		return "mp3"
	case AudioFormatAAC:
		return "aac"
	case AudioFormatFLAC:
		return "flac"
	case AudioFormatOpus:
		return "opus"
	case AudioFormatVorbis:
		return "vorbis"
	default:
		return "unknown"
	}
}

// AudioTags holds best-effort metadata read from the source file.
type AudioTags struct {
	Title  string
	Artist string
	Album  string
}

// AudioBuffer holds fully decoded audio: interleaved little-endian samples
// in a format fixed at load time, plus rate and channel bookkeeping.
//
// Invariant: len(Data) == SampleCount * Channels * Format.BytesPerSample().
type AudioBuffer struct {
	SampleRate  int          // Hz, > 0
	Channels    int          // 1..255
	SampleCount int          // Samples per channel
	Format      SampleFormat // Sample storage format
	Data        []byte       // Interleaved sample data
	Tags        *AudioTags   // Optional metadata, may be nil
}

// NewAudioBuffer allocates a zeroed buffer for sampleCount samples per
// channel. Returns ErrInvalidArgument for out-of-range parameters.
func NewAudioBuffer(sampleRate, channels, sampleCount int, format SampleFormat) (*AudioBuffer, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("%w: sample rate %d", ErrInvalidArgument, sampleRate)
	}
	if channels < 1 || channels > 255 {
		return nil, fmt.Errorf("%w: channel count %d", ErrInvalidArgument, channels)
	}
	if sampleCount < 0 {
		return nil, fmt.Errorf("%w: sample count %d", ErrInvalidArgument, sampleCount)
	}
	if format.BytesPerSample() == 0 {
		return nil, fmt.Errorf("%w: sample format %d", ErrInvalidArgument, int32(format))
	}
	return &AudioBuffer{
		SampleRate:  sampleRate,
		Channels:    channels,
		SampleCount: sampleCount,
		Format:      format,
		Data:        make([]byte, sampleCount*channels*format.BytesPerSample()),
	}, nil
}

// Duration returns the playback duration derived from the sample count.
func (b *AudioBuffer) Duration() time.Duration {
	if b.SampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(b.SampleCount) / float64(b.SampleRate) * float64(time.Second))
}

// Sample returns one sample as a float64 in [-1, 1]. Out-of-range indices
// return 0.
func (b *AudioBuffer) Sample(channel, index int) float64 {
	if channel < 0 || channel >= b.Channels || index < 0 || index >= b.SampleCount {
		return 0
	}
	off := (index*b.Channels + channel) * b.Format.BytesPerSample()
	switch b.Format {
	case SampleFormatS16:
		v := int16(binary.LittleEndian.Uint16(b.Data[off:]))
		return float64(v) / 32768
	case SampleFormatF32:
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(b.Data[off:])))
	default:
		return 0
	}
}

// Clone creates a deep copy of the buffer.
func (b *AudioBuffer) Clone() *AudioBuffer {
	clone := *b
	clone.Data = make([]byte, len(b.Data))
	copy(clone.Data, b.Data)
	if b.Tags != nil {
		tags := *b.Tags
		clone.Tags = &tags
	}
	return &clone
}

// LoadAudio loads and fully decodes an audio file. The container format is
// sniffed from the file header: WAV and Ogg Opus decode in this build;
// FLAC, MP3, MP4, and MPEG-TS are recognized but report
// ErrUnsupportedCodec.
//
// A missing file reports ErrFileNotFound; an unrecognized header reports
// ErrInvalidFormat; corrupt payload after a valid header reports
// ErrDecodeError.
func LoadAudio(path string) (*AudioBuffer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("%w: read %s: %v", ErrIO, path, err)
	}

	buf, err := LoadAudioBytes(data)
	if err != nil {
		return nil, err
	}
	buf.Tags = probeTags(data)

	logrus.WithFields(logrus.Fields{
		"path":        path,
		"sample_rate": buf.SampleRate,
		"channels":    buf.Channels,
		"samples":     buf.SampleCount,
		"format":      buf.Format.String(),
	}).Debug("audio loaded")
	return buf, nil
}

// LoadAudioBytes decodes audio from an in-memory buffer. See LoadAudio for
// format support and failure modes.
func LoadAudioBytes(data []byte) (*AudioBuffer, error) {
	switch DetectContainer(data) {
	case ContainerWAV:
		return decodeWAV(data)
	case ContainerOgg:
		return decodeOggOpus(data)
	case ContainerFLAC, ContainerMP3, ContainerMP4, ContainerMPEGTS:
		return nil, fmt.Errorf("%w: %s decode not compiled in", ErrUnsupportedCodec, DetectContainer(data))
	default:
		return nil, formatErrf("audio", "unrecognized header (%d bytes)", len(data))
	}
}

// Encode encodes the buffer into the target format's byte stream. WAV and
// FLAC are lossless and implemented in this build; the remaining targets
// report ErrUnsupportedCodec. A failed encode never returns partial output.
func Encode(buf *AudioBuffer, format AudioFormat) ([]byte, error) {
	if err := validateAudio(buf); err != nil {
		return nil, err
	}
	switch format {
	case AudioFormatWAV:
		return encodeWAV(buf)
	case AudioFormatFLAC:
		return encodeFLAC(buf)
	case AudioFormatMP3, AudioFormatAAC, AudioFormatOpus, AudioFormatVorbis:
		return nil, fmt.Errorf("%w: %s encode not compiled in", ErrUnsupportedCodec, format)
	default:
		return nil, fmt.Errorf("%w: audio format %d", ErrInvalidArgument, int32(format))
	}
}

// SaveAudio encodes the buffer as WAV and writes it to path. A write
// failure reports ErrIO.
func SaveAudio(buf *AudioBuffer, path string) error {
	data, err := Encode(buf, AudioFormatWAV)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("%w: write %s: %v", ErrIO, path, err)
	}
	logrus.WithFields(logrus.Fields{"path": path, "bytes": len(data)}).Debug("audio saved")
	return nil
}

// validateAudio checks the buffer invariants the encoders rely on.
func validateAudio(buf *AudioBuffer) error {
	if buf == nil {
		return fmt.Errorf("%w: nil audio buffer", ErrInvalidArgument)
	}
	if buf.SampleRate <= 0 || buf.Channels < 1 || buf.Channels > 255 {
		return fmt.Errorf("%w: rate %d channels %d", ErrInvalidArgument, buf.SampleRate, buf.Channels)
	}
	bps := buf.Format.BytesPerSample()
	if bps == 0 {
		return fmt.Errorf("%w: sample format %d", ErrInvalidArgument, int32(buf.Format))
	}
	if len(buf.Data) != buf.SampleCount*buf.Channels*bps {
		return fmt.Errorf("%w: data length %d does not match %d samples x %d channels",
			ErrInvalidArgument, len(buf.Data), buf.SampleCount, buf.Channels)
	}
	return nil
}

// probeTags reads title/artist/album metadata from the raw file, returning
// nil when the format carries none. Failures here never fail the load.
func probeTags(data []byte) *AudioTags {
	md, err := tag.ReadFrom(bytes.NewReader(data))
	if err != nil {
		return nil
	}
	t := &AudioTags{Title: md.Title(), Artist: md.Artist(), Album: md.Album()}
	if t.Title == "" && t.Artist == "" && t.Album == "" {
		return nil
	}
	return t
}
