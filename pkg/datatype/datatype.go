package datatype

import "fmt"

// Standard CANopen data type codes.
const (
	CodeBoolean       uint16 = 0x0001
	CodeInteger8      uint16 = 0x0002
	CodeInteger16     uint16 = 0x0003
	CodeInteger32     uint16 = 0x0004
	CodeUnsigned8     uint16 = 0x0005
	CodeUnsigned16    uint16 = 0x0006
	CodeUnsigned32    uint16 = 0x0007
	CodeReal32        uint16 = 0x0008
	CodeVisibleString uint16 = 0x0009
	CodeOctetString   uint16 = 0x000A
	CodeUnicodeString uint16 = 0x000B
	CodeDomain        uint16 = 0x000F
	CodeInteger24     uint16 = 0x0010
	CodeReal64        uint16 = 0x0011
	CodeInteger40     uint16 = 0x0012
	CodeInteger48     uint16 = 0x0013
	CodeInteger56     uint16 = 0x0014
	CodeInteger64     uint16 = 0x0015
	CodeUnsigned24    uint16 = 0x0016
	CodeUnsigned40    uint16 = 0x0018
	CodeUnsigned48    uint16 = 0x0019
	CodeUnsigned56    uint16 = 0x001A
	CodeUnsigned64    uint16 = 0x001B
)

// Class is the storage class of a data type.
type Class uint8

const (
	// ClassFixed types occupy an exact number of bytes.
	ClassFixed Class = iota + 1

	// ClassVariable types have a payload of variable length.
	ClassVariable
)

// String returns the class name.
func (c Class) String() string {
	switch c {
	case ClassFixed:
		return "fixed"
	case ClassVariable:
		return "variable"
	default:
		return "unknown"
	}
}

// Encoding is the rule used to map a value to bytes.
type Encoding uint8

const (
	EncodingUnknown Encoding = iota
	EncodingBoolean
	EncodingUnsigned
	EncodingSigned
	EncodingReal
	EncodingRaw
	EncodingLatin1
	EncodingUCS2
)

// String returns the encoding name.
func (e Encoding) String() string {
	names := []string{
		"unknown", "boolean", "unsigned", "signed", "real", "raw", "latin1", "ucs2",
	}
	if int(e) < len(names) {
		return names[e]
	}
	return "unknown"
}

// LengthPolicy describes how the payload length of a variable type is limited.
type LengthPolicy uint8

const (
	// LengthFixed applies to fixed types; the width is the length.
	LengthFixed LengthPolicy = iota

	// LengthBounded payloads are limited by MaxLength, or by the dictionary's
	// default string size when MaxLength is zero.
	LengthBounded

	// LengthUnbounded payloads have no limit (DOMAIN).
	LengthUnbounded
)

// DataType describes one registered type. Values are immutable; the
// registry hands out copies.
type DataType struct {
	// Code is the CANopen type code (unique within the registry).
	Code uint16

	// Name is the canonical upper-case type name.
	Name string

	// Class is fixed or variable.
	Class Class

	// Width is the byte width of fixed types and zero otherwise.
	Width int

	// Encoding selects the codec rule.
	Encoding Encoding

	// Length is the length policy of variable types.
	Length LengthPolicy

	// MaxLength is a type-specific payload limit (0 = none declared).
	MaxLength int
}

// IsFixed returns true for fixed-width types.
func (t DataType) IsFixed() bool { return t.Class == ClassFixed }

// IsVariable returns true for variable-length types.
func (t DataType) IsVariable() bool { return t.Class == ClassVariable }

// IsZero returns true if t is the zero DataType (not resolved).
func (t DataType) IsZero() bool { return t.Code == 0 && t.Name == "" }

// String returns the type name and code.
func (t DataType) String() string {
	if t.IsZero() {
		return "UNKNOWN"
	}
	return fmt.Sprintf("%s(0x%04X)", t.Name, t.Code)
}

// WidthOf returns the fixed byte width of t, or false for variable types.
func WidthOf(t DataType) (int, bool) {
	if !t.IsFixed() {
		return 0, false
	}
	return t.Width, true
}
