package codec

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/objdictgen/objdict-go/pkg/datatype"
)

func typ(t *testing.T, name string) datatype.DataType {
	t.Helper()
	dt, err := datatype.LookupName(name)
	require.NoError(t, err)
	return dt
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		typeName string
		value    Value
	}{
		{"BOOLEAN", Integer(0)},
		{"BOOLEAN", Integer(1)},
		{"UNSIGNED8", Integer(0)},
		{"UNSIGNED8", Integer(255)},
		{"UNSIGNED16", Integer(0xBEEF)},
		{"UNSIGNED24", Integer(0xFFFFFF)},
		{"UNSIGNED32", Integer(0x12345678)},
		{"UNSIGNED32", Integer(0xFFFFFFFF)},
		{"UNSIGNED40", Integer(0xFF_FFFF_FFFF)},
		{"UNSIGNED64", Integer(math.MaxInt64)},
		{"INTEGER8", Integer(-128)},
		{"INTEGER8", Integer(127)},
		{"INTEGER16", Integer(-2)},
		{"INTEGER24", Integer(-8388608)},
		{"INTEGER32", Integer(math.MinInt32)},
		{"INTEGER56", Integer(-1)},
		{"INTEGER64", Integer(math.MinInt64)},
		{"REAL32", Real(1.5)},
		{"REAL32", Real(-0.25)},
		{"REAL64", Real(math.Pi)},
		{"OCTET_STRING", Bytes([]byte{0x00, 0xFF, 0x10})},
		{"OCTET_STRING", Bytes(nil)},
		{"DOMAIN", Bytes([]byte("abc✓"))},
		{"VISIBLE_STRING", Text("hello")},
		{"VISIBLE_STRING", Text("Ææ Øø Åå")},
		{"VISIBLE_STRING", Text("")},
		{"UNICODE_STRING", Text("abc✓")},
		{"UNICODE_STRING", Text("Ωμέγα ☃")},
	}

	for _, tt := range tests {
		t.Run(tt.typeName+"/"+tt.value.String(), func(t *testing.T) {
			dt := typ(t, tt.typeName)

			data, err := Encode(dt, tt.value)
			require.NoError(t, err)

			got, err := Decode(dt, data)
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.value), "decoded %s, want %s", got, tt.value)
		})
	}
}

func TestFixedWidthInvariant(t *testing.T) {
	for _, dt := range datatype.All() {
		if !dt.IsFixed() {
			continue
		}
		t.Run(dt.Name, func(t *testing.T) {
			var v Value
			if dt.Encoding == datatype.EncodingReal {
				v = Real(2)
			} else {
				_, max := IntegerRange(dt)
				v = Integer(max)
			}
			data, err := Encode(dt, v)
			require.NoError(t, err)
			assert.Len(t, data, dt.Width)
		})
	}
}

func TestIntegerLittleEndian(t *testing.T) {
	data, err := Encode(typ(t, "UNSIGNED32"), Integer(0x12345678))
	require.NoError(t, err)
	assert.Equal(t, []byte{0x78, 0x56, 0x34, 0x12}, data)

	data, err = Encode(typ(t, "INTEGER16"), Integer(-2))
	require.NoError(t, err)
	assert.Equal(t, []byte{0xFE, 0xFF}, data)
}

func TestIntegerOutOfRange(t *testing.T) {
	tests := []struct {
		typeName string
		value    int64
	}{
		{"UNSIGNED8", 256},
		{"UNSIGNED8", -1},
		{"UNSIGNED32", 0x1_0000_0000},
		{"UNSIGNED64", -1},
		{"INTEGER8", 128},
		{"INTEGER8", -129},
		{"BOOLEAN", 2},
	}

	for _, tt := range tests {
		t.Run(tt.typeName, func(t *testing.T) {
			_, err := Encode(typ(t, tt.typeName), Integer(tt.value))
			assert.ErrorIs(t, err, ErrValueOutOfRange)
		})
	}
}

func TestDecodeLengthMismatch(t *testing.T) {
	_, err := Decode(typ(t, "UNSIGNED32"), []byte{1, 2, 3})
	assert.ErrorIs(t, err, ErrLengthMismatch)

	_, err = Decode(typ(t, "UNSIGNED8"), nil)
	assert.ErrorIs(t, err, ErrLengthMismatch)

	_, err = Decode(typ(t, "REAL64"), make([]byte, 4))
	assert.ErrorIs(t, err, ErrLengthMismatch)

	_, err = Decode(typ(t, "UNICODE_STRING"), []byte{0x61, 0x00, 0x62})
	assert.ErrorIs(t, err, ErrLengthMismatch)
}

func TestDecodeInvalidEncoding(t *testing.T) {
	_, err := Decode(typ(t, "BOOLEAN"), []byte{0x02})
	assert.ErrorIs(t, err, ErrInvalidEncoding)

	// Lone surrogate code unit.
	_, err = Decode(typ(t, "UNICODE_STRING"), []byte{0x61, 0x00, 0x00, 0xD8})
	assert.ErrorIs(t, err, ErrInvalidEncoding)

	var cerr *Error
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, OpDecode, cerr.Op)
	assert.Equal(t, 2, cerr.Offset)
}

func TestUnsigned64HighBitRejected(t *testing.T) {
	_, err := Decode(typ(t, "UNSIGNED64"), []byte{0, 0, 0, 0, 0, 0, 0, 0x80})
	assert.ErrorIs(t, err, ErrValueOutOfRange)
}

func TestSignedDecodeExtendsSign(t *testing.T) {
	v, err := Decode(typ(t, "INTEGER24"), []byte{0xFF, 0xFF, 0xFF})
	require.NoError(t, err)
	n, ok := v.Int()
	require.True(t, ok)
	assert.Equal(t, int64(-1), n)
}

func TestRealPrecision(t *testing.T) {
	_, err := Encode(typ(t, "REAL32"), Real(0.1))
	assert.ErrorIs(t, err, ErrValueOutOfRange)

	_, err = Encode(typ(t, "REAL32"), Real(1e39))
	assert.ErrorIs(t, err, ErrValueOutOfRange)

	_, err = Encode(typ(t, "REAL64"), Real(0.1))
	assert.NoError(t, err)
}

func TestLatin1Boundary(t *testing.T) {
	visible := typ(t, "VISIBLE_STRING")
	unicode := typ(t, "UNICODE_STRING")

	t.Run("oslash succeeds", func(t *testing.T) {
		data, err := Encode(visible, Text("ø"))
		require.NoError(t, err)
		assert.Equal(t, []byte{0xF8}, data)

		got, err := Decode(visible, data)
		require.NoError(t, err)
		assert.True(t, got.Equal(Text("ø")))
	})

	t.Run("check mark fails under VISIBLE_STRING", func(t *testing.T) {
		_, err := Encode(visible, Text("abc✓"))
		require.ErrorIs(t, err, ErrUnsupportedCharacter)

		var cerr *Error
		require.True(t, errors.As(err, &cerr))
		assert.Equal(t, 3, cerr.Offset)
		assert.Equal(t, OpEncode, cerr.Op)
	})

	t.Run("check mark round-trips under UNICODE_STRING", func(t *testing.T) {
		data, err := Encode(unicode, Text("✓"))
		require.NoError(t, err)
		assert.Equal(t, []byte{0x13, 0x27}, data)

		got, err := Decode(unicode, data)
		require.NoError(t, err)
		assert.True(t, got.Equal(Text("✓")))
	})
}

func TestLatin1DecodeIsByteBijection(t *testing.T) {
	visible := typ(t, "VISIBLE_STRING")

	all := make([]byte, 256)
	for i := range all {
		all[i] = byte(i)
	}

	v, err := Decode(visible, all)
	require.NoError(t, err)

	s, _ := v.Str()
	i := 0
	for _, r := range s {
		assert.Equal(t, rune(i), r)
		i++
	}
	assert.Equal(t, 256, i)

	back, err := Encode(visible, v)
	require.NoError(t, err)
	assert.Equal(t, all, back)
}

func TestUnicodeBeyondBMP(t *testing.T) {
	_, err := Encode(typ(t, "UNICODE_STRING"), Text("a\U0001F600"))
	assert.ErrorIs(t, err, ErrUnsupportedCharacter)
}

func TestInvalidUTF8Text(t *testing.T) {
	_, err := Encode(typ(t, "VISIBLE_STRING"), Text("ab\xff"))
	assert.ErrorIs(t, err, ErrInvalidEncoding)

	_, err = Encode(typ(t, "UNICODE_STRING"), Text("\xc3"))
	assert.ErrorIs(t, err, ErrInvalidEncoding)
}

func TestValueTypeMismatch(t *testing.T) {
	tests := []struct {
		typeName string
		value    Value
	}{
		{"UNSIGNED8", Text("1")},
		{"REAL32", Integer(1)},
		{"OCTET_STRING", Text("abc")},
		{"VISIBLE_STRING", Bytes([]byte("abc"))},
		{"UNICODE_STRING", Integer(0)},
		{"DOMAIN", Value{}},
	}

	for _, tt := range tests {
		t.Run(tt.typeName, func(t *testing.T) {
			_, err := Encode(typ(t, tt.typeName), tt.value)
			assert.ErrorIs(t, err, ErrValueType)
		})
	}
}

func TestUnknownType(t *testing.T) {
	_, err := Encode(datatype.DataType{}, Integer(1))
	assert.ErrorIs(t, err, datatype.ErrUnknownType)

	_, err = Decode(datatype.DataType{}, []byte{1})
	assert.ErrorIs(t, err, datatype.ErrUnknownType)
}

// OCTET_STRING carries text as opaque UTF-8 bytes; reading the same bytes
// as VISIBLE_STRING does not reproduce the text and the text itself is not
// encodable as VISIBLE_STRING.
func TestOctetStringVersusVisibleString(t *testing.T) {
	octet := typ(t, "OCTET_STRING")
	visible := typ(t, "VISIBLE_STRING")
	raw := []byte("abc✓")

	v, err := Decode(octet, raw)
	require.NoError(t, err)
	b, ok := v.ByteSlice()
	require.True(t, ok)
	assert.Equal(t, "abc✓", string(b))
	assert.Equal(t, 4, len([]rune(string(b))))

	reread, err := Decode(visible, raw)
	require.NoError(t, err)
	s, _ := reread.Str()
	assert.NotEqual(t, "abc✓", s)

	_, err = Encode(visible, Text(string(b)))
	assert.ErrorIs(t, err, ErrUnsupportedCharacter)
}

func TestBytesValueIsCopied(t *testing.T) {
	src := []byte{1, 2, 3}
	v := Bytes(src)
	src[0] = 9

	b, _ := v.ByteSlice()
	assert.Equal(t, byte(1), b[0])

	b[1] = 9
	again, _ := v.ByteSlice()
	assert.Equal(t, byte(2), again[1])
}

func TestValueEqual(t *testing.T) {
	assert.True(t, Integer(1).Equal(Integer(1)))
	assert.False(t, Integer(1).Equal(Real(1)))
	assert.False(t, Text("a").Equal(Bytes([]byte("a"))))
	assert.True(t, Real(math.NaN()).Equal(Real(math.NaN())))
	assert.True(t, Value{}.Equal(Value{}))
}

func TestCheckLength(t *testing.T) {
	visible := typ(t, "VISIBLE_STRING")
	unicode := typ(t, "UNICODE_STRING")
	octet := typ(t, "OCTET_STRING")

	tests := []struct {
		name        string
		typ         datatype.DataType
		encoded     []byte
		defaultSize int
		wantErr     bool
	}{
		{"visible at limit", visible, make([]byte, 10), 10, false},
		{"visible over limit", visible, make([]byte, 11), 10, true},
		{"octet over limit", octet, make([]byte, 4), 3, true},
		{"unicode counts characters", unicode, make([]byte, 10), 5, false},
		{"unicode over limit", unicode, make([]byte, 12), 5, true},
		{"domain is unbounded", typ(t, "DOMAIN"), make([]byte, 64), 4, false},
		{"fixed width ignored", typ(t, "UNSIGNED32"), make([]byte, 4), 1, false},
		{"zero is unlimited", visible, make([]byte, 500), 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckLength(tt.typ, tt.encoded, tt.defaultSize)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrValueTooLong)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLengthLimitPrefersTypeMaxLength(t *testing.T) {
	bounded := typ(t, "VISIBLE_STRING")
	bounded.MaxLength = 4

	assert.Equal(t, 4, LengthLimit(bounded, 10))
	assert.Equal(t, 10, LengthLimit(typ(t, "VISIBLE_STRING"), 10))
	assert.ErrorIs(t, CheckLength(bounded, []byte("hello"), 0), ErrValueTooLong)
}
