// Package datatype implements the object dictionary type registry.
//
// Every sub-entry of an object dictionary refers to one DataType. A
// DataType is identified by its CANopen numeric code and carries the
// storage rules the codec needs:
//
//	Code  Name            Class     Width  Encoding
//	0x05  UNSIGNED8       fixed     1      unsigned
//	0x07  UNSIGNED32      fixed     4      unsigned
//	0x09  VISIBLE_STRING  variable  -      latin1
//	0x0A  OCTET_STRING    variable  -      raw
//	0x0B  UNICODE_STRING  variable  -      ucs2
//	0x0F  DOMAIN          variable  -      raw (unbounded)
//
// The registry is populated once at package initialization and cannot be
// changed afterwards. Types are resolved by code or name when a dictionary
// is built; the codec only ever receives resolved DataType values.
package datatype
