package video

import (
	"errors"
	"fmt"
)

// Sentinel errors for the engine. These enable callers to programmatically
// distinguish failure modes using errors.Is.
var (
	ErrInvalidArgument  = errors.New("video: invalid argument")
	ErrOutOfMemory      = errors.New("video: out of memory")
	ErrFileNotFound     = errors.New("video: file not found")
	ErrInvalidFormat    = errors.New("video: invalid format")
	ErrUnsupportedCodec = errors.New("video: unsupported codec")
	ErrDecodeError      = errors.New("video: decode error")
	ErrEncodeError      = errors.New("video: encode error")
	ErrIO               = errors.New("video: io error")
)

// ErrorCode is the closed numeric error enumeration exposed to boundary
// shells (C bindings and similar). Values are part of the wire contract
// and never change.
type ErrorCode int32

const (
	CodeOK               ErrorCode = 0
	CodeInvalidArgument  ErrorCode = -1
	CodeOutOfMemory      ErrorCode = -2
	CodeFileNotFound     ErrorCode = -3
	CodeInvalidFormat    ErrorCode = -4
	CodeUnsupportedCodec ErrorCode = -5
	CodeDecodeError      ErrorCode = -6
	CodeEncodeError      ErrorCode = -7
	CodeIOError          ErrorCode = -8
	CodeUnknownError     ErrorCode = -999
)

func (c ErrorCode) String() string {
	switch c {
	case CodeOK:
		return "Ok"
	case CodeInvalidArgument:
		return "InvalidArgument"
	case CodeOutOfMemory:
		return "OutOfMemory"
	case CodeFileNotFound:
		return "FileNotFound"
	case CodeInvalidFormat:
		return "InvalidFormat"
	case CodeUnsupportedCodec:
		return "UnsupportedCodec"
	case CodeDecodeError:
		return "DecodeError"
	case CodeEncodeError:
		return "EncodeError"
	case CodeIOError:
		return "IoError"
	default:
		return "UnknownError"
	}
}

// CodeOf maps an error returned by this package to its boundary error code.
// A nil error maps to CodeOK; errors from outside the taxonomy map to
// CodeUnknownError.
func CodeOf(err error) ErrorCode {
	switch {
	case err == nil:
		return CodeOK
	case errors.Is(err, ErrInvalidArgument):
		return CodeInvalidArgument
	case errors.Is(err, ErrOutOfMemory):
		return CodeOutOfMemory
	case errors.Is(err, ErrFileNotFound):
		return CodeFileNotFound
	case errors.Is(err, ErrInvalidFormat):
		return CodeInvalidFormat
	case errors.Is(err, ErrUnsupportedCodec):
		return CodeUnsupportedCodec
	case errors.Is(err, ErrDecodeError):
		return CodeDecodeError
	case errors.Is(err, ErrEncodeError):
		return CodeEncodeError
	case errors.Is(err, ErrIO):
		return CodeIOError
	default:
		return CodeUnknownError
	}
}

// FormatError indicates a structurally unparseable input. It wraps
// ErrInvalidFormat and records which container or codec layer failed.
type FormatError struct {
	Layer string // e.g. "wav", "mp4", "srt"
	Msg   string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("video: %s: %s", e.Layer, e.Msg)
}

func (e *FormatError) Unwrap() error {
	return ErrInvalidFormat
}

func formatErrf(layer, format string, args ...interface{}) error {
	return &FormatError{Layer: layer, Msg: fmt.Sprintf(format, args...)}
}
