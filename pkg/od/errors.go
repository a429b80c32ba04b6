package od

import "errors"

// Dictionary errors.
var (
	ErrStructureMismatch = errors.New("structure mismatch")
	ErrDuplicateIndex    = errors.New("duplicate index")
	ErrEntryNotFound     = errors.New("entry not found")
	ErrSubEntryNotFound  = errors.New("sub-entry not found")
	ErrNotReadable       = errors.New("sub-entry is not readable")
	ErrNotWritable       = errors.New("sub-entry is not writable")
	ErrNoValue           = errors.New("sub-entry has no value")
	ErrInvalidAccess     = errors.New("invalid access")
	ErrInvalidStructure  = errors.New("invalid structure")
)
