package video

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// StreamType classifies a logical stream within a container. The numeric
// values are part of the boundary contract.
type StreamType int32

const (
	StreamVideo    StreamType = 0
	StreamAudio    StreamType = 1
	StreamSubtitle StreamType = 2
)

func (t StreamType) String() string {
	switch t {
	case StreamVideo:
		return "video"
	case StreamAudio:
		return "audio"
	case StreamSubtitle:
		return "subtitle"
	default:
		return "unknown"
	}
}

// StreamInfo describes one logical stream. Indices are stable, 0-based,
// and assigned in file order. A StreamInfo is owned by its MediaFile and
// is invalid after Close.
type StreamInfo struct {
	Index int
	Type  StreamType
	Codec Codec
}

// MediaFile is an open demux session: the container-level structure is
// parsed up front, payloads are not decoded. Confine a session to one
// goroutine at a time and Close it when done; using a closed session is a
// programmer error.
type MediaFile struct {
	path      string
	id        string
	container ContainerFormat
	streams   []StreamInfo
	videoTrak *mp4Track // sample table of the first MP4 video track, if any
	file      *os.File
	size      int64
	closed    bool
}

// OpenMedia opens a media file and parses its stream table. Supported
// containers: MP4/ISO-BMFF, MPEG-TS, WAV, and Ogg.
//
// A missing file reports ErrFileNotFound; an unparseable container reports
// ErrInvalidFormat; a parseable container in which no stream is recognized
// reports ErrUnsupportedCodec.
func OpenMedia(path string) (*MediaFile, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("%w: open %s: %v", ErrIO, path, err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: stat %s: %v", ErrIO, path, err)
	}

	head := make([]byte, 16)
	n, _ := f.ReadAt(head, 0)

	m := &MediaFile{
		path:      path,
		id:        uuid.NewString(),
		container: DetectContainer(head[:n]),
		file:      f,
		size:      info.Size(),
	}

	switch m.container {
	case ContainerMP4:
		err = m.parseMP4()
	case ContainerMPEGTS:
		err = m.parseMPEGTS()
	case ContainerWAV:
		err = m.parseWAV()
	case ContainerOgg:
		err = m.parseOgg()
	default:
		err = formatErrf("container", "unrecognized container in %s", path)
	}
	if err != nil {
		f.Close()
		return nil, err
	}

	if len(m.streams) == 0 {
		f.Close()
		return nil, fmt.Errorf("%w: no recognized streams in %s", ErrUnsupportedCodec, path)
	}

	logrus.WithFields(logrus.Fields{
		"session":   m.id,
		"path":      path,
		"container": m.container.String(),
		"streams":   len(m.streams),
	}).Debug("media opened")
	return m, nil
}

// Container returns the detected container format.
func (m *MediaFile) Container() ContainerFormat { return m.container }

// StreamCount returns the number of streams in the parsed table.
func (m *MediaFile) StreamCount() int { return len(m.streams) }

// Streams returns the parsed stream table in file order.
func (m *MediaFile) Streams() []StreamInfo { return m.streams }

// Stream returns the descriptor for one stream index.
func (m *MediaFile) Stream(index int) (StreamInfo, error) {
	if index < 0 || index >= len(m.streams) {
		return StreamInfo{}, fmt.Errorf("%w: stream index %d of %d", ErrInvalidArgument, index, len(m.streams))
	}
	return m.streams[index], nil
}

// Close ends the session and invalidates all stream descriptors.
func (m *MediaFile) Close() error {
	if m.closed {
		return nil
	}
	m.closed = true
	m.streams = nil
	m.videoTrak = nil
	if err := m.file.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %v", ErrIO, m.path, err)
	}
	return nil
}

// addStream appends a stream descriptor, assigning the next index.
func (m *MediaFile) addStream(t StreamType, codec Codec) {
	m.streams = append(m.streams, StreamInfo{Index: len(m.streams), Type: t, Codec: codec})
}

// parseWAV records the single PCM audio stream of a RIFF/WAVE file.
func (m *MediaFile) parseWAV() error {
	m.addStream(StreamAudio, CodecPCM)
	return nil
}

// parseOgg sniffs the first page's BOS packet to classify the stream.
func (m *MediaFile) parseOgg() error {
	// An Ogg page header is 27 bytes plus the segment table; the BOS
	// packet of interest starts right after it.
	head := make([]byte, 512)
	n, err := m.file.ReadAt(head, 0)
	if n < 28 {
		return formatErrf("ogg", "short file: %v", err)
	}
	head = head[:n]

	segments := int(head[26])
	body := 27 + segments
	if body >= len(head) {
		return formatErrf("ogg", "page header exceeds file")
	}

	switch {
	case len(head) >= body+8 && string(head[body:body+8]) == "OpusHead":
		m.addStream(StreamAudio, CodecOpus)
	case len(head) >= body+7 && string(head[body+1:body+7]) == "vorbis":
		m.addStream(StreamAudio, CodecVorbis)
	case len(head) >= body+5 && string(head[body+1:body+5]) == "FLAC":
		m.addStream(StreamAudio, CodecFLAC)
	}
	return nil
}
