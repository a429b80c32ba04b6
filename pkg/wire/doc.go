// Package wire defines the CBOR snapshot format for object dictionaries.
//
// A snapshot carries the dictionary metadata and every entry in ascending
// index order, using CBOR (RFC 8949) with integer keys. Encoding is
// deterministic: the same dictionary always produces the same bytes.
//
// # Values
//
// Sub-entry values travel as the bytes the codec produces for the
// sub-entry's data type, so a snapshot never carries a value its type
// cannot represent. Decoding runs every value back through the codec.
//
// # Count Sub-entries
//
// The count sub-entry of records and arrays is not transmitted; it is
// regenerated when the entry is rebuilt.
//
// Snapshots are an exchange format for tools consuming a built
// dictionary, not a persistence format.
package wire
