package codec

import (
	"encoding/binary"
	"math"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/objdictgen/objdict-go/pkg/datatype"
)

// Encode converts v to the byte representation of t.
func Encode(t datatype.DataType, v Value) ([]byte, error) {
	switch t.Encoding {
	case datatype.EncodingUnsigned, datatype.EncodingSigned, datatype.EncodingBoolean:
		n, ok := v.Int()
		if !ok {
			return nil, encodeErr(t, ErrValueType, -1, "expected integer, got %s", v.Kind())
		}
		return encodeInteger(t, n)
	case datatype.EncodingReal:
		f, ok := v.Float()
		if !ok {
			return nil, encodeErr(t, ErrValueType, -1, "expected real, got %s", v.Kind())
		}
		return encodeReal(t, f)
	case datatype.EncodingRaw:
		b, ok := v.ByteSlice()
		if !ok {
			return nil, encodeErr(t, ErrValueType, -1, "expected bytes, got %s", v.Kind())
		}
		return b, nil
	case datatype.EncodingLatin1:
		s, ok := v.Str()
		if !ok {
			return nil, encodeErr(t, ErrValueType, -1, "expected text, got %s", v.Kind())
		}
		return encodeLatin1(t, s)
	case datatype.EncodingUCS2:
		s, ok := v.Str()
		if !ok {
			return nil, encodeErr(t, ErrValueType, -1, "expected text, got %s", v.Kind())
		}
		return encodeUCS2(t, s)
	default:
		return nil, &Error{Op: OpEncode, Type: t, Offset: -1, Err: datatype.ErrUnknownType}
	}
}

// Decode converts data to a Value of type t.
func Decode(t datatype.DataType, data []byte) (Value, error) {
	switch t.Encoding {
	case datatype.EncodingUnsigned, datatype.EncodingSigned, datatype.EncodingBoolean:
		return decodeInteger(t, data)
	case datatype.EncodingReal:
		return decodeReal(t, data)
	case datatype.EncodingRaw:
		return Bytes(data), nil
	case datatype.EncodingLatin1:
		return decodeLatin1(t, data)
	case datatype.EncodingUCS2:
		return decodeUCS2(t, data)
	default:
		return Value{}, &Error{Op: OpDecode, Type: t, Offset: -1, Err: datatype.ErrUnknownType}
	}
}

// IntegerRange returns the inclusive range of integers representable by the
// fixed integer type t.
func IntegerRange(t datatype.DataType) (min, max int64) {
	bits := uint(t.Width * 8)
	switch t.Encoding {
	case datatype.EncodingBoolean:
		return 0, 1
	case datatype.EncodingSigned:
		if bits >= 64 {
			return math.MinInt64, math.MaxInt64
		}
		return -(int64(1) << (bits - 1)), int64(1)<<(bits-1) - 1
	case datatype.EncodingUnsigned:
		if bits >= 64 {
			return 0, math.MaxInt64
		}
		return 0, int64(1)<<bits - 1
	default:
		return 0, 0
	}
}

func encodeInteger(t datatype.DataType, n int64) ([]byte, error) {
	min, max := IntegerRange(t)
	if n < min || n > max {
		return nil, encodeErr(t, ErrValueOutOfRange, -1, "%d not in [%d, %d]", n, min, max)
	}

	u := uint64(n)
	out := make([]byte, t.Width)
	for i := range out {
		out[i] = byte(u >> (8 * i))
	}
	return out, nil
}

func decodeInteger(t datatype.DataType, data []byte) (Value, error) {
	if len(data) != t.Width {
		return Value{}, decodeErr(t, ErrLengthMismatch, -1, "got %d bytes, want %d", len(data), t.Width)
	}

	var u uint64
	for i, b := range data {
		u |= uint64(b) << (8 * i)
	}

	switch t.Encoding {
	case datatype.EncodingBoolean:
		if u > 1 {
			return Value{}, decodeErr(t, ErrInvalidEncoding, 0, "boolean byte 0x%02X", u)
		}
		return Integer(int64(u)), nil
	case datatype.EncodingSigned:
		shift := uint(64 - 8*t.Width)
		return Integer(int64(u<<shift) >> shift), nil
	default:
		if u > math.MaxInt64 {
			return Value{}, decodeErr(t, ErrValueOutOfRange, -1, "%d exceeds integer range", u)
		}
		return Integer(int64(u)), nil
	}
}

func encodeReal(t datatype.DataType, f float64) ([]byte, error) {
	out := make([]byte, t.Width)
	switch t.Width {
	case 4:
		f32 := float32(f)
		if !math.IsNaN(f) && float64(f32) != f {
			return nil, encodeErr(t, ErrValueOutOfRange, -1, "%g is not exactly representable", f)
		}
		binary.LittleEndian.PutUint32(out, math.Float32bits(f32))
	case 8:
		binary.LittleEndian.PutUint64(out, math.Float64bits(f))
	default:
		return nil, encodeErr(t, ErrValueType, -1, "unsupported real width %d", t.Width)
	}
	return out, nil
}

func decodeReal(t datatype.DataType, data []byte) (Value, error) {
	if len(data) != t.Width {
		return Value{}, decodeErr(t, ErrLengthMismatch, -1, "got %d bytes, want %d", len(data), t.Width)
	}
	switch t.Width {
	case 4:
		return Real(float64(math.Float32frombits(binary.LittleEndian.Uint32(data)))), nil
	case 8:
		return Real(math.Float64frombits(binary.LittleEndian.Uint64(data))), nil
	default:
		return Value{}, decodeErr(t, ErrValueType, -1, "unsupported real width %d", t.Width)
	}
}

func encodeLatin1(t datatype.DataType, s string) ([]byte, error) {
	if !utf8.ValidString(s) {
		return nil, encodeErr(t, ErrInvalidEncoding, invalidUTF8Offset(s), "text is not valid UTF-8")
	}

	out, err := charmap.ISO8859_1.NewEncoder().Bytes([]byte(s))
	if err != nil {
		if offset, r, found := firstAbove(s, 0xFF); found {
			return nil, encodeErr(t, ErrUnsupportedCharacter, offset, "%U is outside ISO-8859-1", r)
		}
		return nil, encodeErr(t, ErrUnsupportedCharacter, -1, "%v", err)
	}
	return out, nil
}

func decodeLatin1(t datatype.DataType, data []byte) (Value, error) {
	out, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return Value{}, decodeErr(t, ErrInvalidEncoding, -1, "%v", err)
	}
	return Text(string(out)), nil
}

func encodeUCS2(t datatype.DataType, s string) ([]byte, error) {
	if !utf8.ValidString(s) {
		return nil, encodeErr(t, ErrInvalidEncoding, invalidUTF8Offset(s), "text is not valid UTF-8")
	}

	out := make([]byte, 0, 2*utf8.RuneCountInString(s))
	offset := 0
	for _, r := range s {
		if r > 0xFFFF {
			return nil, encodeErr(t, ErrUnsupportedCharacter, offset, "%U needs more than 16 bits", r)
		}
		out = binary.LittleEndian.AppendUint16(out, uint16(r))
		offset++
	}
	return out, nil
}

func decodeUCS2(t datatype.DataType, data []byte) (Value, error) {
	if len(data)%2 != 0 {
		return Value{}, decodeErr(t, ErrLengthMismatch, -1, "odd length %d", len(data))
	}

	var sb strings.Builder
	sb.Grow(len(data))
	for i := 0; i < len(data); i += 2 {
		u := binary.LittleEndian.Uint16(data[i:])
		if u >= 0xD800 && u <= 0xDFFF {
			return Value{}, decodeErr(t, ErrInvalidEncoding, i, "surrogate code unit 0x%04X", u)
		}
		sb.WriteRune(rune(u))
	}
	return Text(sb.String()), nil
}

// firstAbove returns the character offset of the first rune greater than limit.
func firstAbove(s string, limit rune) (int, rune, bool) {
	offset := 0
	for _, r := range s {
		if r > limit {
			return offset, r, true
		}
		offset++
	}
	return -1, 0, false
}

// invalidUTF8Offset returns the byte offset of the first invalid sequence.
func invalidUTF8Offset(s string) int {
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			return i
		}
		i += size
	}
	return -1
}
