package codec

import (
	"errors"
	"fmt"

	"github.com/objdictgen/objdict-go/pkg/datatype"
)

// Codec error kinds.
var (
	ErrValueOutOfRange      = errors.New("value out of range")
	ErrUnsupportedCharacter = errors.New("unsupported character")
	ErrValueType            = errors.New("value does not match data type")
	ErrLengthMismatch       = errors.New("length mismatch")
	ErrInvalidEncoding      = errors.New("invalid encoding")
)

// Op identifies the codec direction that failed.
type Op string

const (
	OpEncode Op = "encode"
	OpDecode Op = "decode"
)

// Error reports a failed encode or decode.
type Error struct {
	Op   Op
	Type datatype.DataType

	// Offset is the character (encode) or byte (decode) position of the
	// failure, or -1 when the failure is not positional.
	Offset int

	// Err is one of the codec error kinds.
	Err error

	Detail string
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s %s: %v", e.Op, e.Type.Name, e.Err)
	if e.Offset >= 0 {
		msg += fmt.Sprintf(" at offset %d", e.Offset)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

func encodeErr(t datatype.DataType, kind error, offset int, format string, args ...any) *Error {
	return &Error{Op: OpEncode, Type: t, Offset: offset, Err: kind, Detail: fmt.Sprintf(format, args...)}
}

func decodeErr(t datatype.DataType, kind error, offset int, format string, args ...any) *Error {
	return &Error{Op: OpDecode, Type: t, Offset: offset, Err: kind, Detail: fmt.Sprintf(format, args...)}
}
