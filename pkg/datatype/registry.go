package datatype

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/objdictgen/objdict-go/internal/numeric"
)

// ErrUnknownType is returned when a code or name is not registered.
var ErrUnknownType = errors.New("unknown data type")

// registry holds every supported type, keyed by code. It is filled in
// init and only read afterwards.
var (
	registry = make(map[uint16]DataType)
	byName   = make(map[string]uint16)
	ordered  []DataType
)

func init() {
	fixed := func(code uint16, name string, width int, enc Encoding) DataType {
		return DataType{Code: code, Name: name, Class: ClassFixed, Width: width, Encoding: enc, Length: LengthFixed}
	}
	variable := func(code uint16, name string, enc Encoding, policy LengthPolicy) DataType {
		return DataType{Code: code, Name: name, Class: ClassVariable, Encoding: enc, Length: policy}
	}

	for _, t := range []DataType{
		fixed(CodeBoolean, "BOOLEAN", 1, EncodingBoolean),
		fixed(CodeInteger8, "INTEGER8", 1, EncodingSigned),
		fixed(CodeInteger16, "INTEGER16", 2, EncodingSigned),
		fixed(CodeInteger24, "INTEGER24", 3, EncodingSigned),
		fixed(CodeInteger32, "INTEGER32", 4, EncodingSigned),
		fixed(CodeInteger40, "INTEGER40", 5, EncodingSigned),
		fixed(CodeInteger48, "INTEGER48", 6, EncodingSigned),
		fixed(CodeInteger56, "INTEGER56", 7, EncodingSigned),
		fixed(CodeInteger64, "INTEGER64", 8, EncodingSigned),
		fixed(CodeUnsigned8, "UNSIGNED8", 1, EncodingUnsigned),
		fixed(CodeUnsigned16, "UNSIGNED16", 2, EncodingUnsigned),
		fixed(CodeUnsigned24, "UNSIGNED24", 3, EncodingUnsigned),
		fixed(CodeUnsigned32, "UNSIGNED32", 4, EncodingUnsigned),
		fixed(CodeUnsigned40, "UNSIGNED40", 5, EncodingUnsigned),
		fixed(CodeUnsigned48, "UNSIGNED48", 6, EncodingUnsigned),
		fixed(CodeUnsigned56, "UNSIGNED56", 7, EncodingUnsigned),
		fixed(CodeUnsigned64, "UNSIGNED64", 8, EncodingUnsigned),
		fixed(CodeReal32, "REAL32", 4, EncodingReal),
		fixed(CodeReal64, "REAL64", 8, EncodingReal),
		variable(CodeVisibleString, "VISIBLE_STRING", EncodingLatin1, LengthBounded),
		variable(CodeOctetString, "OCTET_STRING", EncodingRaw, LengthBounded),
		variable(CodeUnicodeString, "UNICODE_STRING", EncodingUCS2, LengthBounded),
		variable(CodeDomain, "DOMAIN", EncodingRaw, LengthUnbounded),
	} {
		if _, dup := registry[t.Code]; dup {
			panic(fmt.Sprintf("datatype: duplicate code 0x%04X", t.Code))
		}
		if t.IsFixed() && t.Width <= 0 {
			panic(fmt.Sprintf("datatype: %s has non-positive width", t.Name))
		}
		registry[t.Code] = t
		byName[t.Name] = t.Code
		ordered = append(ordered, t)
	}

	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Code < ordered[j].Code })
}

// Lookup returns the type registered under code.
func Lookup(code uint16) (DataType, error) {
	t, ok := registry[code]
	if !ok {
		return DataType{}, fmt.Errorf("%w: code 0x%04X", ErrUnknownType, code)
	}
	return t, nil
}

// LookupName returns the type registered under name (case-insensitive).
func LookupName(name string) (DataType, error) {
	code, ok := byName[strings.ToUpper(strings.TrimSpace(name))]
	if !ok {
		return DataType{}, fmt.Errorf("%w: %q", ErrUnknownType, name)
	}
	return registry[code], nil
}

// Resolve accepts either a type name ("UNSIGNED32") or a numeric code in
// decimal or 0x-prefixed hex ("7", "0x0007").
func Resolve(codeOrName string) (DataType, error) {
	s := strings.TrimSpace(codeOrName)
	if s == "" {
		return DataType{}, fmt.Errorf("%w: empty type", ErrUnknownType)
	}
	if s[0] >= '0' && s[0] <= '9' {
		code, err := numeric.ParseUint(s, 16)
		if err != nil {
			return DataType{}, fmt.Errorf("%w: %q", ErrUnknownType, codeOrName)
		}
		return Lookup(uint16(code))
	}
	return LookupName(s)
}

// MustLookup is like Lookup but panics for unregistered codes. Intended for
// the built-in codes declared in this package.
func MustLookup(code uint16) DataType {
	t, err := Lookup(code)
	if err != nil {
		panic(err)
	}
	return t
}

// All returns every registered type in ascending code order.
func All() []DataType {
	result := make([]DataType, len(ordered))
	copy(result, ordered)
	return result
}
