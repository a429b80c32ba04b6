package od

import (
	"sync"

	"github.com/objdictgen/objdict-go/pkg/codec"
	"github.com/objdictgen/objdict-go/pkg/datatype"
)

// SubEntry is one addressable field of an Entry. A sub-entry belongs to at
// most one entry.
type SubEntry struct {
	mu       sync.RWMutex
	name     string
	dataType datatype.DataType
	access   Access
	mapping  PDOMapping
	value    codec.Value

	// owner is the entry holding the sub-entry, set once.
	owner *Entry
}

// NewSubEntry creates a sub-entry without a value. A mappable sub-entry
// gets the mapping returned by DefaultPDOMapping.
func NewSubEntry(name string, t datatype.DataType, access Access, pdoMappable bool) *SubEntry {
	return NewSubEntryWithMapping(name, t, access, DefaultPDOMapping(access, pdoMappable))
}

// NewSubEntryWithMapping creates a sub-entry with explicit PDO mapping flags.
func NewSubEntryWithMapping(name string, t datatype.DataType, access Access, mapping PDOMapping) *SubEntry {
	return &SubEntry{
		name:     name,
		dataType: t,
		access:   access,
		mapping:  mapping,
	}
}

// Name returns the sub-entry name.
func (s *SubEntry) Name() string { return s.name }

// Type returns the sub-entry data type.
func (s *SubEntry) Type() datatype.DataType { return s.dataType }

// Access returns the access right.
func (s *SubEntry) Access() Access { return s.access }

// Mapping returns the PDO mapping flags.
func (s *SubEntry) Mapping() PDOMapping { return s.mapping }

// PDOMappable returns true if the sub-entry may be mapped into any PDO.
func (s *SubEntry) PDOMappable() bool { return s.mapping != PDONone }

// Value returns the stored value and whether one is set.
func (s *SubEntry) Value() (codec.Value, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value, !s.value.IsZero()
}

// SetValue stores v after checking that the data type can encode it.
// Access rights are not checked; this is the local (device-side) setter.
func (s *SubEntry) SetValue(v codec.Value) error {
	if _, err := codec.Encode(s.dataType, v); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = v
	return nil
}

// ClearValue removes the stored value.
func (s *SubEntry) ClearValue() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = codec.Value{}
}

// Encoded returns the byte representation of the stored value.
func (s *SubEntry) Encoded() ([]byte, error) {
	s.mu.RLock()
	v := s.value
	s.mu.RUnlock()

	if v.IsZero() {
		return nil, ErrNoValue
	}
	return codec.Encode(s.dataType, v)
}

// SetEncoded decodes data and stores the result. Access rights are not
// checked.
func (s *SubEntry) SetEncoded(data []byte) error {
	v, err := codec.Decode(s.dataType, data)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = v
	return nil
}

// claim makes e the owner of s. It returns the existing owner, or nil if
// the claim succeeded.
func (s *SubEntry) claim(e *Entry) *Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.owner != nil {
		return s.owner
	}
	s.owner = e
	return nil
}

func (s *SubEntry) release(e *Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.owner == e {
		s.owner = nil
	}
}

// clone copies s without its owner.
func (s *SubEntry) clone() *SubEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return &SubEntry{
		name:     s.name,
		dataType: s.dataType,
		access:   s.access,
		mapping:  s.mapping,
		value:    s.value,
	}
}
