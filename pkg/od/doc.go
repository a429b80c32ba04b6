// Package od implements the in-memory object dictionary.
//
// # Structure
//
// A Dictionary maps 16-bit indices to Entries. Each Entry has a structure
// kind and an ordered list of SubEntries addressed by sub-index:
//
//	Dictionary
//	├── 0x1000 Device Type (var)
//	│   └── sub 0  UNSIGNED32  ro
//	├── 0x2002 Strings (record)
//	│   ├── sub 0  Number of Entries  UNSIGNED8  ro   (synthetic)
//	│   ├── sub 1  Latin1             VISIBLE_STRING  rw
//	│   └── sub 2  Unicode            OCTET_STRING    rw
//	└── ...
//
// A var entry holds exactly one sub-entry. Record and array entries always
// start with a synthetic "Number of Entries" sub-entry that the
// constructors create and keep equal to the number of data sub-entries.
// Array data sub-entries share one data type.
//
// # Values
//
// Sub-entry values are codec.Value payloads. Every mutation goes through the
// codec: SetValue checks that the type can encode the value, and the device
// access path (Dictionary.Read, Dictionary.Write) converts between stored
// values and their byte representation.
//
// # Concurrency
//
// Dictionary, Entry and SubEntry are safe for concurrent use. Writes to one
// sub-entry are serialized; readers never observe a partially applied write.
// Clone returns an independent deep copy for consumers that need a stable
// snapshot.
package od
