package codec

import (
	"errors"
	"fmt"

	"github.com/objdictgen/objdict-go/pkg/datatype"
)

// ErrValueTooLong is returned when an encoded value exceeds the length
// limit of its type.
var ErrValueTooLong = errors.New("value too long")

// LengthLimit returns the payload limit for t: the type's own MaxLength,
// or defaultSize when the type declares none. Zero means unlimited.
// Fixed-width and unbounded types always return zero.
func LengthLimit(t datatype.DataType, defaultSize int) int {
	if !t.IsVariable() || t.Length != datatype.LengthBounded {
		return 0
	}
	if t.MaxLength > 0 {
		return t.MaxLength
	}
	if defaultSize > 0 {
		return defaultSize
	}
	return 0
}

// CheckLength reports ErrValueTooLong if encoded is over the limit
// LengthLimit gives for t. UNICODE_STRING is counted in characters, the
// other types in bytes.
func CheckLength(t datatype.DataType, encoded []byte, defaultSize int) error {
	limit := LengthLimit(t, defaultSize)
	if limit == 0 {
		return nil
	}

	n, unit := len(encoded), "bytes"
	if t.Encoding == datatype.EncodingUCS2 {
		n, unit = n/2, "characters"
	}
	if n > limit {
		return fmt.Errorf("%w: %d %s exceed limit of %d", ErrValueTooLong, n, unit, limit)
	}
	return nil
}
