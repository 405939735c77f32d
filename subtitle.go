package video

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Cue is one timed subtitle entry. Start and End are non-negative with
// Start <= End; Text holds one or more lines without trailing newlines.
type Cue struct {
	Index int
	Start time.Duration
	End   time.Duration
	Text  []string
}

// srtTimeRe matches "HH:MM:SS,mmm" with either comma or period separator,
// so SRT files that already use VTT-style periods still parse.
var srtTimeRe = regexp.MustCompile(`^(\d+):([0-5]?\d):([0-5]?\d)[,.](\d{3})$`)

// ParseSRT parses SubRip subtitle text into cues, preserving file order.
// Malformed blocks are skipped and counted rather than failing the parse;
// if no valid cue remains the input reports ErrInvalidFormat.
func ParseSRT(data []byte) (cues []Cue, skipped int, err error) {
	text := strings.ReplaceAll(string(bytes.TrimPrefix(data, []byte("\xEF\xBB\xBF"))), "\r\n", "\n")

	for _, block := range strings.Split(text, "\n\n") {
		lines := nonEmptyLines(block)
		if len(lines) == 0 {
			continue
		}
		cue, ok := parseSRTBlock(lines)
		if !ok {
			skipped++
			continue
		}
		cues = append(cues, cue)
	}

	if len(cues) == 0 {
		return nil, skipped, formatErrf("srt", "no valid cues in %d bytes", len(data))
	}
	return cues, skipped, nil
}

// parseSRTBlock parses one blank-line-delimited block: sequence number,
// timestamp line, then at least one text line.
func parseSRTBlock(lines []string) (Cue, bool) {
	if len(lines) < 3 {
		return Cue{}, false
	}
	index, err := strconv.Atoi(strings.TrimSpace(lines[0]))
	if err != nil {
		return Cue{}, false
	}

	parts := strings.SplitN(lines[1], "-->", 2)
	if len(parts) != 2 {
		return Cue{}, false
	}
	start, ok1 := parseSRTTime(strings.TrimSpace(parts[0]))
	end, ok2 := parseSRTTime(strings.TrimSpace(parts[1]))
	if !ok1 || !ok2 || start > end {
		return Cue{}, false
	}

	return Cue{Index: index, Start: start, End: end, Text: lines[2:]}, true
}

// parseSRTTime parses an "HH:MM:SS,mmm" timestamp.
func parseSRTTime(s string) (time.Duration, bool) {
	m := srtTimeRe.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	h, _ := strconv.Atoi(m[1])
	min, _ := strconv.Atoi(m[2])
	sec, _ := strconv.Atoi(m[3])
	ms, _ := strconv.Atoi(m[4])

	return time.Duration(h)*time.Hour +
		time.Duration(min)*time.Minute +
		time.Duration(sec)*time.Second +
		time.Duration(ms)*time.Millisecond, true
}

// FormatSRT renders cues as SubRip text, one block per cue in input order.
func FormatSRT(cues []Cue) []byte {
	var b strings.Builder
	for i, cue := range cues {
		index := cue.Index
		if index == 0 {
			index = i + 1
		}
		fmt.Fprintf(&b, "%d\n%s --> %s\n%s\n\n",
			index, formatCueTime(cue.Start, ','), formatCueTime(cue.End, ','),
			strings.Join(cue.Text, "\n"))
	}
	return []byte(b.String())
}

// FormatVTT renders cues as WebVTT text: header line, then the same cues
// with period millisecond separators.
func FormatVTT(cues []Cue) []byte {
	var b strings.Builder
	b.WriteString("WEBVTT\n\n")
	for _, cue := range cues {
		fmt.Fprintf(&b, "%s --> %s\n%s\n\n",
			formatCueTime(cue.Start, '.'), formatCueTime(cue.End, '.'),
			strings.Join(cue.Text, "\n"))
	}
	return []byte(b.String())
}

// SRTToVTT converts SubRip text to WebVTT, preserving cue order. A parse
// failure reports ErrInvalidFormat.
func SRTToVTT(data []byte) ([]byte, error) {
	cues, _, err := ParseSRT(data)
	if err != nil {
		return nil, err
	}
	return FormatVTT(cues), nil
}

// formatCueTime renders "HH:MM:SS<sep>mmm".
func formatCueTime(d time.Duration, sep byte) string {
	ms := d.Milliseconds()
	return fmt.Sprintf("%02d:%02d:%02d%c%03d",
		ms/3600000, ms/60000%60, ms/1000%60, sep, ms%1000)
}

// nonEmptyLines splits a block into trimmed-right lines, dropping leading
// and trailing blanks but keeping interior ones.
func nonEmptyLines(block string) []string {
	lines := strings.Split(block, "\n")
	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " \t")
	}
	return lines
}
