package video

import "bytes"

// ContainerFormat identifies a media container recognized by the engine.
type ContainerFormat int

const (
	ContainerUnknown ContainerFormat = iota
	ContainerWAV                     // RIFF/WAVE
	ContainerOgg                     // OggS pages
	ContainerMP4                     // ISO-BMFF ftyp
	ContainerMPEGTS                  // 188-byte sync packets
	ContainerFLAC                    // fLaC stream marker
	ContainerMP3                     // ID3 tag or MPEG audio sync
)

func (c ContainerFormat) String() string {
	switch c {
	case ContainerWAV:
		return "wav"
	case ContainerOgg:
		return "ogg"
	case ContainerMP4:
		return "mp4"
	case ContainerMPEGTS:
		return "mpegts"
	case ContainerFLAC:
		return "flac"
	case ContainerMP3:
		return "mp3"
	default:
		return "unknown"
	}
}

// DetectContainer detects the container format from the first bytes of a
// file. Supports detection of:
//   - WAV: RIFF chunk with WAVE form type
//   - Ogg: "OggS" page capture pattern
//   - MP4/ISO-BMFF: "ftyp" box at offset 4
//   - MPEG-TS: 0x47 sync byte repeating at 188-byte intervals
//   - FLAC: "fLaC" stream marker
//   - MP3: ID3v2 tag or MPEG audio frame sync
//
// Returns ContainerUnknown if the format cannot be determined.
func DetectContainer(data []byte) ContainerFormat {
	if len(data) < 12 {
		return ContainerUnknown
	}

	if bytes.Equal(data[0:4], []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WAVE")) {
		return ContainerWAV
	}
	if bytes.Equal(data[0:4], []byte("OggS")) {
		return ContainerOgg
	}
	if bytes.Equal(data[4:8], []byte("ftyp")) {
		return ContainerMP4
	}
	if bytes.Equal(data[0:4], []byte("fLaC")) {
		return ContainerFLAC
	}
	if data[0] == 0x47 && (len(data) < 189 || data[188] == 0x47) {
		return ContainerMPEGTS
	}
	if bytes.Equal(data[0:3], []byte("ID3")) {
		return ContainerMP3
	}
	if data[0] == 0xFF && data[1]&0xE0 == 0xE0 {
		return ContainerMP3
	}
	return ContainerUnknown
}
