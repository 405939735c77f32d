package video

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleSRT = `1
00:00:01,000 --> 00:00:02,500
Hello

2
00:00:03,000 --> 00:00:04,000
World
`

func TestParseSRT(t *testing.T) {
	cues, skipped, err := ParseSRT([]byte(sampleSRT))
	require.NoError(t, err)
	assert.Zero(t, skipped)
	require.Len(t, cues, 2)

	assert.Equal(t, 1, cues[0].Index)
	assert.Equal(t, time.Second, cues[0].Start)
	assert.Equal(t, 2500*time.Millisecond, cues[0].End)
	assert.Equal(t, []string{"Hello"}, cues[0].Text)

	assert.Equal(t, 2, cues[1].Index)
	assert.Equal(t, 3*time.Second, cues[1].Start)
	assert.Equal(t, 4*time.Second, cues[1].End)
	assert.Equal(t, []string{"World"}, cues[1].Text)
}

func TestParseSRT_CRLFAndBOM(t *testing.T) {
	input := "\xEF\xBB\xBF1\r\n00:00:01,000 --> 00:00:02,000\r\nLine one\r\nLine two\r\n"
	cues, skipped, err := ParseSRT([]byte(input))
	require.NoError(t, err)
	assert.Zero(t, skipped)
	require.Len(t, cues, 1)
	assert.Equal(t, []string{"Line one", "Line two"}, cues[0].Text)
}

func TestParseSRT_PeriodSeparator(t *testing.T) {
	input := "1\n00:00:01.000 --> 00:00:02.000\nAlready VTT style\n"
	cues, _, err := ParseSRT([]byte(input))
	require.NoError(t, err)
	assert.Equal(t, time.Second, cues[0].Start)
}

func TestParseSRT_SkipsMalformedBlocks(t *testing.T) {
	input := `not a number
00:00:01,000 --> 00:00:02,000
Bad index

2
00:00:05,000 --> 00:00:03,000
End before start

3
00:00:06,000 --> 00:00:07,000
Survivor
`
	cues, skipped, err := ParseSRT([]byte(input))
	require.NoError(t, err)
	assert.Equal(t, 2, skipped)
	require.Len(t, cues, 1)
	assert.Equal(t, []string{"Survivor"}, cues[0].Text)
}

func TestParseSRT_NoValidCues(t *testing.T) {
	_, _, err := ParseSRT([]byte("garbage with no structure"))
	assert.ErrorIs(t, err, ErrInvalidFormat)

	_, _, err = ParseSRT(nil)
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestSRTToVTT(t *testing.T) {
	out, err := SRTToVTT([]byte(sampleSRT))
	require.NoError(t, err)

	want := "WEBVTT\n\n" +
		"00:00:01.000 --> 00:00:02.500\nHello\n\n" +
		"00:00:03.000 --> 00:00:04.000\nWorld\n\n"
	assert.Equal(t, want, string(out))
}

func TestSRTToVTT_ParseFailure(t *testing.T) {
	_, err := SRTToVTT([]byte("nope"))
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestFormatSRT_RoundTrip(t *testing.T) {
	cues, _, err := ParseSRT([]byte(sampleSRT))
	require.NoError(t, err)

	rendered := FormatSRT(cues)
	again, skipped, err := ParseSRT(rendered)
	require.NoError(t, err)
	assert.Zero(t, skipped)
	assert.Equal(t, cues, again)
}

func TestFormatSRT_AssignsMissingIndexes(t *testing.T) {
	cues := []Cue{
		{Start: 0, End: time.Second, Text: []string{"a"}},
		{Start: time.Second, End: 2 * time.Second, Text: []string{"b"}},
	}
	out := FormatSRT(cues)
	parsed, _, err := ParseSRT(out)
	require.NoError(t, err)
	assert.Equal(t, 1, parsed[0].Index)
	assert.Equal(t, 2, parsed[1].Index)
}

func TestFormatCueTime(t *testing.T) {
	d := time.Hour + 2*time.Minute + 3*time.Second + 45*time.Millisecond
	assert.Equal(t, "01:02:03,045", formatCueTime(d, ','))
	assert.Equal(t, "01:02:03.045", formatCueTime(d, '.'))
	assert.Equal(t, "00:00:00,000", formatCueTime(0, ','))
}
