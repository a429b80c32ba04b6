package od

import (
	"fmt"
	"strings"
)

// Access is the SDO access right of a sub-entry.
type Access uint8

const (
	// AccessReadOnly can be read but not written.
	AccessReadOnly Access = iota + 1

	// AccessWriteOnly can be written but not read.
	AccessWriteOnly

	// AccessReadWrite can be read and written.
	AccessReadWrite

	// AccessConst is read-only and never changes at runtime.
	AccessConst
)

// CanRead returns true if reading is allowed.
func (a Access) CanRead() bool {
	return a == AccessReadOnly || a == AccessReadWrite || a == AccessConst
}

// CanWrite returns true if writing is allowed.
func (a Access) CanWrite() bool {
	return a == AccessWriteOnly || a == AccessReadWrite
}

// String returns the access code used in definition files.
func (a Access) String() string {
	switch a {
	case AccessReadOnly:
		return "ro"
	case AccessWriteOnly:
		return "wo"
	case AccessReadWrite:
		return "rw"
	case AccessConst:
		return "const"
	default:
		return "-"
	}
}

// ParseAccess parses "ro", "wo", "rw" or "const" (case-insensitive).
func ParseAccess(s string) (Access, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ro":
		return AccessReadOnly, nil
	case "wo":
		return AccessWriteOnly, nil
	case "rw":
		return AccessReadWrite, nil
	case "const":
		return AccessConst, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidAccess, s)
	}
}

// PDOMapping flags where a sub-entry may be mapped.
type PDOMapping uint8

const (
	// PDOTransmit allows mapping into a TPDO (the value is read onto the bus).
	PDOTransmit PDOMapping = 1 << iota

	// PDOReceive allows mapping into an RPDO (the value is written from the bus).
	PDOReceive

	// PDONone is not mappable.
	PDONone PDOMapping = 0
)

// CanTransmit returns true if the sub-entry may be read-mapped.
func (m PDOMapping) CanTransmit() bool { return m&PDOTransmit != 0 }

// CanReceive returns true if the sub-entry may be a write target.
func (m PDOMapping) CanReceive() bool { return m&PDOReceive != 0 }

// String returns the mapping flags as a string.
func (m PDOMapping) String() string {
	var s string
	if m.CanTransmit() {
		s += "T"
	}
	if m.CanReceive() {
		s += "R"
	}
	if s == "" {
		return "-"
	}
	return s
}

// DefaultPDOMapping returns the mapping implied by a plain "pdo" flag: a
// mappable sub-entry is transmit-mapped if readable and receive-mapped if
// writable.
func DefaultPDOMapping(access Access, mappable bool) PDOMapping {
	if !mappable {
		return PDONone
	}
	var m PDOMapping
	if access.CanRead() {
		m |= PDOTransmit
	}
	if access.CanWrite() {
		m |= PDOReceive
	}
	return m
}
