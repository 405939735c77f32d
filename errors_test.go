package video

import (
	"errors"
	"fmt"
	"testing"
)

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCode
	}{
		{"nil", nil, CodeOK},
		{"invalid argument", ErrInvalidArgument, CodeInvalidArgument},
		{"out of memory", ErrOutOfMemory, CodeOutOfMemory},
		{"file not found", ErrFileNotFound, CodeFileNotFound},
		{"invalid format", ErrInvalidFormat, CodeInvalidFormat},
		{"unsupported codec", ErrUnsupportedCodec, CodeUnsupportedCodec},
		{"decode error", ErrDecodeError, CodeDecodeError},
		{"encode error", ErrEncodeError, CodeEncodeError},
		{"io error", ErrIO, CodeIOError},
		{"wrapped", fmt.Errorf("context: %w", ErrDecodeError), CodeDecodeError},
		{"format error", formatErrf("wav", "bad chunk"), CodeInvalidFormat},
		{"foreign error", errors.New("something else"), CodeUnknownError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CodeOf(tt.err); got != tt.want {
				t.Errorf("CodeOf() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestErrorCode_Values(t *testing.T) {
	// Numeric values are part of the boundary contract.
	tests := []struct {
		code ErrorCode
		want int32
	}{
		{CodeOK, 0},
		{CodeInvalidArgument, -1},
		{CodeOutOfMemory, -2},
		{CodeFileNotFound, -3},
		{CodeInvalidFormat, -4},
		{CodeUnsupportedCodec, -5},
		{CodeDecodeError, -6},
		{CodeEncodeError, -7},
		{CodeIOError, -8},
		{CodeUnknownError, -999},
	}
	for _, tt := range tests {
		if int32(tt.code) != tt.want {
			t.Errorf("%v = %d, want %d", tt.code, int32(tt.code), tt.want)
		}
	}
}

func TestErrorCode_String(t *testing.T) {
	if got := CodeUnsupportedCodec.String(); got != "UnsupportedCodec" {
		t.Errorf("String() = %q, want %q", got, "UnsupportedCodec")
	}
	if got := ErrorCode(-12345).String(); got != "UnknownError" {
		t.Errorf("String() = %q, want %q", got, "UnknownError")
	}
}

func TestFormatError(t *testing.T) {
	err := formatErrf("srt", "block %d malformed", 3)
	if !errors.Is(err, ErrInvalidFormat) {
		t.Error("FormatError does not unwrap to ErrInvalidFormat")
	}
	var fe *FormatError
	if !errors.As(err, &fe) {
		t.Fatal("errors.As failed for *FormatError")
	}
	if fe.Layer != "srt" {
		t.Errorf("Layer = %q, want %q", fe.Layer, "srt")
	}
	if want := "video: srt: block 3 malformed"; err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
