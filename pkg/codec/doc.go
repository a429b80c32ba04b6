// Package codec converts typed object dictionary values to and from their
// byte representation.
//
// # Values
//
// Value is a closed tagged union over the payloads a sub-entry can hold:
//   - Integer: fixed-width integer and boolean types
//   - Real: REAL32 and REAL64
//   - Bytes: OCTET_STRING and DOMAIN
//   - Text: VISIBLE_STRING and UNICODE_STRING
//
// # Encoding Rules
//
// Fixed types are little-endian and exactly Width bytes long. Variable types
// use one of three regimes:
//
//	OCTET_STRING, DOMAIN  raw bytes, identity in both directions
//	VISIBLE_STRING        ISO-8859-1, one byte per character (U+0000..U+00FF)
//	UNICODE_STRING        UCS-2 little-endian, two bytes per character (U+0000..U+FFFF)
//
// Encoding never truncates or substitutes characters: a value the type cannot
// represent fails with ErrValueOutOfRange or ErrUnsupportedCharacter.
//
// Decoding VISIBLE_STRING cannot fail: every byte is a Latin-1 character.
// Bytes written in another encoding (the UTF-8 form of "abc✓", say) decode
// to different text rather than an error. The unsupported character only
// surfaces when the text itself is encoded or validated.
//
// # Length Limits
//
// Encode and Decode do not limit length. CheckLength applies the limit of a
// bounded type, taken from its MaxLength or from the dictionary's default
// string size, and is shared by validation and remote writes.
package codec
