package video

import (
	"errors"
	"io"
)

// MPEG-TS stream table discovery: packets are scanned for the PAT and the
// PMTs it announces; elementary stream payloads are never touched.

const (
	tsPacketSize = 188
	tsSyncByte   = 0x47
	tsPIDPAT     = 0x0000

	// Stream tables normally appear within the first few packets; cap the
	// scan so a PAT-less capture fails fast instead of reading the whole
	// file.
	tsMaxScanPackets = 20000
)

// tsStreamTypes maps PMT stream_type values to stream kind and codec.
var tsStreamTypes = map[uint8]StreamInfo{
	0x03: {Type: StreamAudio, Codec: CodecMP3},
	0x04: {Type: StreamAudio, Codec: CodecMP3},
	0x0F: {Type: StreamAudio, Codec: CodecAAC},
	0x11: {Type: StreamAudio, Codec: CodecAAC}, // LATM
	0x1B: {Type: StreamVideo, Codec: CodecH264},
	0x24: {Type: StreamVideo, Codec: CodecHEVC},
	0x33: {Type: StreamVideo, Codec: CodecVVC},
}

// parseMPEGTS scans the transport stream for PAT and PMT sections and
// records one stream per recognized elementary stream, in PMT order.
func (m *MediaFile) parseMPEGTS() error {
	if _, err := m.file.Seek(0, io.SeekStart); err != nil {
		return formatErrf("mpegts", "seek: %v", err)
	}

	buf := make([]byte, tsPacketSize)
	pmtPIDs := map[uint16]bool{}
	pmtSeen := map[uint16]bool{}
	sawPAT := false

	for n := 0; n < tsMaxScanPackets; n++ {
		if _, err := io.ReadFull(m.file, buf); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				break
			}
			return formatErrf("mpegts", "read: %v", err)
		}
		if buf[0] != tsSyncByte {
			return formatErrf("mpegts", "lost sync at packet %d", n)
		}

		pusi := buf[1]&0x40 != 0
		pid := uint16(buf[1]&0x1F)<<8 | uint16(buf[2])
		hasAF := buf[3]&0x20 != 0
		hasPayload := buf[3]&0x10 != 0
		if !hasPayload || !pusi {
			continue
		}

		offset := 4
		if hasAF {
			offset += 1 + int(buf[4])
		}
		if offset >= tsPacketSize {
			continue
		}
		payload := buf[offset:]

		switch {
		case pid == tsPIDPAT && !sawPAT:
			pids, err := parseTSPAT(payload)
			if err != nil {
				return err
			}
			sawPAT = true
			for _, p := range pids {
				pmtPIDs[p] = true
			}
		case pmtPIDs[pid] && !pmtSeen[pid]:
			if err := m.parseTSPMT(payload); err != nil {
				return err
			}
			pmtSeen[pid] = true
		}

		if sawPAT && len(pmtSeen) == len(pmtPIDs) {
			return nil
		}
	}

	if !sawPAT {
		return formatErrf("mpegts", "no PAT found")
	}
	return nil
}

// tsSection skips the pointer field and bounds one PSI section within a
// packet payload.
func tsSection(payload []byte) ([]byte, bool) {
	if len(payload) < 1 {
		return nil, false
	}
	offset := 1 + int(payload[0])
	if offset+3 > len(payload) {
		return nil, false
	}
	// section_syntax_indicator must be set for PAT/PMT.
	if payload[offset+1]&0x80 == 0 {
		return nil, false
	}
	length := int(payload[offset+1]&0x0F)<<8 | int(payload[offset+2])
	end := offset + 3 + length
	if end > len(payload) {
		return nil, false
	}
	return payload[offset:end], true
}

// parseTSPAT returns the PMT PIDs announced by a PAT section.
func parseTSPAT(payload []byte) ([]uint16, error) {
	section, ok := tsSection(payload)
	if !ok || section[0] != 0x00 {
		return nil, formatErrf("mpegts", "malformed PAT section")
	}

	var pids []uint16
	// Program entries run from byte 8 to the CRC32.
	for off := 8; off+4 <= len(section)-4; off += 4 {
		program := uint16(section[off])<<8 | uint16(section[off+1])
		pid := uint16(section[off+2]&0x1F)<<8 | uint16(section[off+3])
		if program != 0 { // program 0 is the network PID
			pids = append(pids, pid)
		}
	}
	return pids, nil
}

// parseTSPMT records the recognized elementary streams of one PMT section.
func (m *MediaFile) parseTSPMT(payload []byte) error {
	section, ok := tsSection(payload)
	if !ok || section[0] != 0x02 {
		return formatErrf("mpegts", "malformed PMT section")
	}
	if len(section) < 12 {
		return formatErrf("mpegts", "short PMT section")
	}

	programInfoLen := int(section[10]&0x0F)<<8 | int(section[11])
	off := 12 + programInfoLen

	for off+5 <= len(section)-4 {
		streamType := section[off]
		esInfoLen := int(section[off+3]&0x0F)<<8 | int(section[off+4])

		if info, known := tsStreamTypes[streamType]; known {
			m.addStream(info.Type, info.Codec)
		}
		off += 5 + esInfoLen
	}
	return nil
}
