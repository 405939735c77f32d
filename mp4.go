package video

import (
	"encoding/binary"
	"fmt"
	"io"
	"time"
)

// MP4/ISO-BMFF structure parsing: the moov box is read into memory and
// walked for the stream table; the sample table of the first video track is
// kept so thumbnails can seek without scanning mdat.

// mp4Track holds what the demuxer needs from one trak box.
type mp4Track struct {
	kind      StreamType
	codec     Codec
	timescale uint32

	// Per-sample table, populated for the first video track only.
	times   []uint64 // decode time of each sample, in track timescale units
	sizes   []uint32
	offsets []int64
}

// parseMP4 walks the top-level boxes, loads moov, and builds the stream
// table.
func (m *MediaFile) parseMP4() error {
	moov, err := m.findTopLevelBox("moov")
	if err != nil {
		return err
	}

	err = mp4Boxes(moov, func(typ string, body []byte) error {
		if typ != "trak" {
			return nil
		}
		track, err := parseMP4Trak(body, m.size)
		if err != nil || track == nil {
			return err
		}
		m.addStream(track.kind, track.codec)
		if track.kind == StreamVideo && m.videoTrak == nil {
			m.videoTrak = track
		}
		return nil
	})
	if err != nil {
		return err
	}
	if len(m.streams) == 0 {
		return formatErrf("mp4", "moov contains no parseable trak")
	}
	return nil
}

// findTopLevelBox scans the file for one top-level box and returns its
// body. Declared box sizes are bounded against the file size so a crafted
// header cannot drive a huge allocation.
func (m *MediaFile) findTopLevelBox(name string) ([]byte, error) {
	var off int64
	head := make([]byte, 16)
	for {
		if _, err := m.file.ReadAt(head[:8], off); err != nil {
			if err == io.EOF {
				return nil, formatErrf("mp4", "no %s box", name)
			}
			return nil, fmt.Errorf("%w: read %s: %v", ErrIO, m.path, err)
		}
		size := int64(binary.BigEndian.Uint32(head[:4]))
		typ := string(head[4:8])
		hdr := int64(8)
		switch size {
		case 1:
			if _, err := m.file.ReadAt(head[8:16], off+8); err != nil {
				return nil, formatErrf("mp4", "truncated largesize box")
			}
			size = int64(binary.BigEndian.Uint64(head[8:16]))
			hdr = 16
		case 0:
			// The final box may extend to the end of the file.
			size = m.size - off
		}
		if size < hdr {
			return nil, formatErrf("mp4", "box %q with invalid size %d", typ, size)
		}
		if size > m.size-off {
			return nil, formatErrf("mp4", "box %q size %d exceeds file size %d", typ, size, m.size)
		}
		if typ == name {
			body := make([]byte, size-hdr)
			if _, err := m.file.ReadAt(body, off+hdr); err != nil {
				return nil, formatErrf("mp4", "truncated %s box", name)
			}
			return body, nil
		}
		off += size
	}
}

// mp4Boxes iterates the child boxes of an in-memory box body.
func mp4Boxes(data []byte, fn func(typ string, body []byte) error) error {
	off := 0
	for off+8 <= len(data) {
		size := int(binary.BigEndian.Uint32(data[off:]))
		typ := string(data[off+4 : off+8])
		if size < 8 || off+size > len(data) {
			return formatErrf("mp4", "box %q with invalid size %d", typ, size)
		}
		if err := fn(typ, data[off+8:off+size]); err != nil {
			return err
		}
		off += size
	}
	return nil
}

// mp4ChildBox returns the body of the first direct child with the given
// type, or nil.
func mp4ChildBox(data []byte, name string) []byte {
	var found []byte
	mp4Boxes(data, func(typ string, body []byte) error {
		if typ == name && found == nil {
			found = body
		}
		return nil
	})
	return found
}

// parseMP4Trak extracts type, codec, and (for video) the sample table from
// one trak body. Unrecognized tracks return (nil, nil) and are skipped.
func parseMP4Trak(trak []byte, fileSize int64) (*mp4Track, error) {
	mdia := mp4ChildBox(trak, "mdia")
	if mdia == nil {
		return nil, nil
	}
	hdlr := mp4ChildBox(mdia, "hdlr")
	mdhd := mp4ChildBox(mdia, "mdhd")
	minf := mp4ChildBox(mdia, "minf")
	if hdlr == nil || len(hdlr) < 12 || minf == nil {
		return nil, nil
	}
	stbl := mp4ChildBox(minf, "stbl")
	if stbl == nil {
		return nil, nil
	}

	track := &mp4Track{}
	switch string(hdlr[8:12]) {
	case "vide":
		track.kind = StreamVideo
	case "soun":
		track.kind = StreamAudio
	case "text", "sbtl", "subt":
		track.kind = StreamSubtitle
	default:
		return nil, nil
	}

	if mdhd != nil && len(mdhd) >= 16 {
		if mdhd[0] == 1 { // version 1: 64-bit times
			if len(mdhd) < 24 {
				return nil, formatErrf("mp4", "short mdhd")
			}
			track.timescale = binary.BigEndian.Uint32(mdhd[20:24])
		} else {
			track.timescale = binary.BigEndian.Uint32(mdhd[12:16])
		}
	}

	stsd := mp4ChildBox(stbl, "stsd")
	if stsd == nil || len(stsd) < 16 {
		return nil, nil
	}
	track.codec = mp4FourCCToCodec(string(stsd[12:16]))

	if track.kind == StreamVideo {
		if err := track.buildSampleTable(stbl, fileSize); err != nil {
			return nil, err
		}
	}
	return track, nil
}

// mp4FourCCToCodec maps stsd sample entry types to codec identifiers.
func mp4FourCCToCodec(fourcc string) Codec {
	switch fourcc {
	case "avc1", "avc3":
		return CodecH264
	case "hvc1", "hev1":
		return CodecHEVC
	case "vp09":
		return CodecVP9
	case "av01":
		return CodecAV1
	case "vvc1", "vvi1":
		return CodecVVC
	case "jpeg", "mjpa":
		return CodecMJPEG
	case "mp4a":
		return CodecAAC
	case "Opus":
		return CodecOpus
	case "fLaC":
		return CodecFLAC
	case ".mp3":
		return CodecMP3
	case "lpcm", "sowt", "twos":
		return CodecPCM
	default:
		return CodecUnknown
	}
}

// buildSampleTable combines stts, stsz, stsc, and stco/co64 into flat
// per-sample time, size, and file offset slices.
func (t *mp4Track) buildSampleTable(stbl []byte, fileSize int64) error {
	stts := mp4ChildBox(stbl, "stts")
	stsz := mp4ChildBox(stbl, "stsz")
	stsc := mp4ChildBox(stbl, "stsc")
	stco := mp4ChildBox(stbl, "stco")
	co64 := mp4ChildBox(stbl, "co64")
	if stts == nil || stsz == nil || stsc == nil || (stco == nil && co64 == nil) {
		return formatErrf("mp4", "video trak missing sample tables")
	}

	// stsz: sample sizes.
	if len(stsz) < 12 {
		return formatErrf("mp4", "short stsz")
	}
	uniform := binary.BigEndian.Uint32(stsz[4:8])
	count := int(binary.BigEndian.Uint32(stsz[8:12]))
	if uniform != 0 {
		// The samples live in this file, so their count cannot exceed
		// its size.
		if int64(count) > fileSize {
			return formatErrf("mp4", "stsz sample count %d exceeds file size %d", count, fileSize)
		}
		t.sizes = make([]uint32, count)
		for i := range t.sizes {
			t.sizes[i] = uniform
		}
	} else {
		if len(stsz) < 12+4*count {
			return formatErrf("mp4", "truncated stsz")
		}
		t.sizes = make([]uint32, count)
		for i := range t.sizes {
			t.sizes[i] = binary.BigEndian.Uint32(stsz[12+4*i:])
		}
	}

	// stts: decode deltas to absolute times.
	if len(stts) < 8 {
		return formatErrf("mp4", "short stts")
	}
	entries := int(binary.BigEndian.Uint32(stts[4:8]))
	if len(stts) < 8+8*entries {
		return formatErrf("mp4", "truncated stts")
	}
	t.times = make([]uint64, 0, count)
	var now uint64
	for e := 0; e < entries; e++ {
		n := binary.BigEndian.Uint32(stts[8+8*e:])
		delta := binary.BigEndian.Uint32(stts[12+8*e:])
		for i := uint32(0); i < n && len(t.times) < count; i++ {
			t.times = append(t.times, now)
			now += uint64(delta)
		}
	}
	for len(t.times) < count {
		t.times = append(t.times, now)
	}

	// stco/co64: chunk offsets.
	var chunkOffsets []int64
	if stco != nil {
		if len(stco) < 8 {
			return formatErrf("mp4", "short stco")
		}
		n := int(binary.BigEndian.Uint32(stco[4:8]))
		if len(stco) < 8+4*n {
			return formatErrf("mp4", "truncated stco")
		}
		chunkOffsets = make([]int64, n)
		for i := range chunkOffsets {
			chunkOffsets[i] = int64(binary.BigEndian.Uint32(stco[8+4*i:]))
		}
	} else {
		if len(co64) < 8 {
			return formatErrf("mp4", "short co64")
		}
		n := int(binary.BigEndian.Uint32(co64[4:8]))
		if len(co64) < 8+8*n {
			return formatErrf("mp4", "truncated co64")
		}
		chunkOffsets = make([]int64, n)
		for i := range chunkOffsets {
			chunkOffsets[i] = int64(binary.BigEndian.Uint64(co64[8+8*i:]))
		}
	}

	// stsc: samples per chunk, run-length encoded by first_chunk.
	if len(stsc) < 8 {
		return formatErrf("mp4", "short stsc")
	}
	stscEntries := int(binary.BigEndian.Uint32(stsc[4:8]))
	if len(stsc) < 8+12*stscEntries {
		return formatErrf("mp4", "truncated stsc")
	}

	t.offsets = make([]int64, 0, count)
	sample := 0
	for e := 0; e < stscEntries && sample < count; e++ {
		first := int(binary.BigEndian.Uint32(stsc[8+12*e:]))
		perChunk := int(binary.BigEndian.Uint32(stsc[12+12*e:]))
		last := len(chunkOffsets)
		if e+1 < stscEntries {
			last = int(binary.BigEndian.Uint32(stsc[8+12*(e+1):])) - 1
		}
		for chunk := first; chunk <= last && sample < count; chunk++ {
			if chunk < 1 || chunk > len(chunkOffsets) {
				return formatErrf("mp4", "stsc references chunk %d of %d", chunk, len(chunkOffsets))
			}
			off := chunkOffsets[chunk-1]
			for i := 0; i < perChunk && sample < count; i++ {
				t.offsets = append(t.offsets, off)
				off += int64(t.sizes[sample])
				sample++
			}
		}
	}
	if len(t.offsets) != count {
		return formatErrf("mp4", "sample table covers %d of %d samples", len(t.offsets), count)
	}
	return nil
}

// sampleNearest returns the index of the sample whose decode time is
// nearest the target, clamping beyond-duration targets to the last sample.
func (t *mp4Track) sampleNearest(target time.Duration) int {
	if len(t.times) == 0 {
		return -1
	}
	scale := uint64(t.timescale)
	if scale == 0 {
		scale = 1
	}
	want := uint64(target.Seconds() * float64(scale))

	// Binary search for the first sample at or past the target.
	lo, hi := 0, len(t.times)
	for lo < hi {
		mid := (lo + hi) / 2
		if t.times[mid] < want {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo >= len(t.times) {
		return len(t.times) - 1
	}
	if lo > 0 && want-t.times[lo-1] < t.times[lo]-want {
		return lo - 1
	}
	return lo
}

// readSample reads the raw bytes of one sample from the file.
func (m *MediaFile) readSample(t *mp4Track, index int) ([]byte, error) {
	if index < 0 || index >= len(t.sizes) {
		return nil, fmt.Errorf("%w: sample index %d", ErrInvalidArgument, index)
	}
	buf := make([]byte, t.sizes[index])
	if _, err := m.file.ReadAt(buf, t.offsets[index]); err != nil {
		return nil, fmt.Errorf("%w: read sample %d: %v", ErrDecodeError, index, err)
	}
	return buf, nil
}
