package video

// Codec identifies a compressed audio or video codec. The numeric values
// 0-4 are part of the boundary contract with non-Go callers; the remaining
// identifiers cover the formats the demuxer itself recognizes.
type Codec int32

const (
	CodecH264 Codec = 0
	CodecHEVC Codec = 1
	CodecVP9  Codec = 2
	CodecAV1  Codec = 3
	CodecVVC  Codec = 4

	CodecMJPEG  Codec = 16
	CodecPCM    Codec = 17
	CodecAAC    Codec = 18
	CodecMP3    Codec = 19
	CodecOpus   Codec = 20
	CodecVorbis Codec = 21
	CodecFLAC   Codec = 22

	CodecUnknown Codec = -1
)

// Name returns the codec name, or "unknown" for an unrecognized identifier.
func (c Codec) Name() string {
	switch c {
	case CodecH264:
		return "h264"
	case CodecHEVC:
		return "hevc"
	case CodecVP9:
		return "vp9"
	case CodecAV1:
		return "av1"
	case CodecVVC:
		return "vvc"
	case CodecMJPEG:
		return "mjpeg"
	case CodecPCM:
		return "pcm"
	case CodecAAC:
		return "aac"
	case CodecMP3:
		return "mp3"
	case CodecOpus:
		return "opus"
	case CodecVorbis:
		return "vorbis"
	case CodecFLAC:
		return "flac"
	default:
		return "unknown"
	}
}

func (c Codec) String() string { return c.Name() }

// Supported reports whether this build can decode the codec. The pure-Go
// build decodes Motion JPEG video, PCM, and Opus audio; everything else is
// recognized during demuxing but not decodable.
func (c Codec) Supported() bool {
	switch c {
	case CodecMJPEG, CodecPCM, CodecOpus:
		return true
	default:
		return false
	}
}

// IsVideo reports whether the codec carries video.
func (c Codec) IsVideo() bool {
	switch c {
	case CodecH264, CodecHEVC, CodecVP9, CodecAV1, CodecVVC, CodecMJPEG:
		return true
	default:
		return false
	}
}
