package codec

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
)

// Kind identifies the variant held by a Value.
type Kind uint8

const (
	KindNone Kind = iota
	KindInteger
	KindReal
	KindBytes
	KindText
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindInteger:
		return "integer"
	case KindReal:
		return "real"
	case KindBytes:
		return "bytes"
	case KindText:
		return "text"
	default:
		return "unknown"
	}
}

// Value is an immutable typed payload. The zero Value holds nothing.
type Value struct {
	kind Kind
	i    int64
	f    float64
	b    []byte
	s    string
}

// Integer returns an integer value.
func Integer(v int64) Value { return Value{kind: KindInteger, i: v} }

// Real returns a floating-point value.
func Real(v float64) Value { return Value{kind: KindReal, f: v} }

// Bytes returns a byte-sequence value. The slice is copied.
func Bytes(b []byte) Value {
	c := make([]byte, len(b))
	copy(c, b)
	return Value{kind: KindBytes, b: c}
}

// Text returns a text value.
func Text(s string) Value { return Value{kind: KindText, s: s} }

// Kind returns the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// IsZero returns true if v holds no variant.
func (v Value) IsZero() bool { return v.kind == KindNone }

// Int returns the integer payload.
func (v Value) Int() (int64, bool) { return v.i, v.kind == KindInteger }

// Float returns the real payload.
func (v Value) Float() (float64, bool) { return v.f, v.kind == KindReal }

// ByteSlice returns a copy of the bytes payload.
func (v Value) ByteSlice() ([]byte, bool) {
	if v.kind != KindBytes {
		return nil, false
	}
	c := make([]byte, len(v.b))
	copy(c, v.b)
	return c, true
}

// Str returns the text payload.
func (v Value) Str() (string, bool) { return v.s, v.kind == KindText }

// Equal reports whether v and o hold the same variant and payload.
// Real values compare bit-for-bit so NaN equals itself.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindInteger:
		return v.i == o.i
	case KindReal:
		return math.Float64bits(v.f) == math.Float64bits(o.f)
	case KindBytes:
		return bytes.Equal(v.b, o.b)
	case KindText:
		return v.s == o.s
	default:
		return true
	}
}

// String returns a printable form of the value.
func (v Value) String() string {
	switch v.kind {
	case KindInteger:
		return strconv.FormatInt(v.i, 10)
	case KindReal:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindBytes:
		return fmt.Sprintf("% X", v.b)
	case KindText:
		return strconv.Quote(v.s)
	default:
		return "<none>"
	}
}
