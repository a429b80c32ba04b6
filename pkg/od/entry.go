package od

import (
	"fmt"
	"strings"
	"sync"

	"github.com/objdictgen/objdict-go/pkg/codec"
	"github.com/objdictgen/objdict-go/pkg/datatype"
)

// Structure is the structural kind of an Entry.
type Structure uint8

const (
	// StructureVar holds a single value at sub-index 0.
	StructureVar Structure = iota + 1

	// StructureRecord holds heterogeneous named fields.
	StructureRecord

	// StructureArray holds homogeneous indexed fields.
	StructureArray
)

// String returns the structure name used in definition files.
func (s Structure) String() string {
	switch s {
	case StructureVar:
		return "var"
	case StructureRecord:
		return "record"
	case StructureArray:
		return "array"
	default:
		return "unknown"
	}
}

// ParseStructure parses "var", "record" or "array" (case-insensitive).
func ParseStructure(s string) (Structure, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "var":
		return StructureVar, nil
	case "record":
		return StructureRecord, nil
	case "array":
		return StructureArray, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidStructure, s)
	}
}

// HasCount returns true for structures with a synthetic count sub-entry.
func (s Structure) HasCount() bool {
	return s == StructureRecord || s == StructureArray
}

const (
	// CountSubEntryName is the name of the synthetic first sub-entry of
	// records and arrays.
	CountSubEntryName = "Number of Entries"

	// MaxDataSubEntries is the highest data sub-index of a record or array.
	MaxDataSubEntries = 254
)

// NewCountSubEntry returns the synthetic count sub-entry: UNSIGNED8,
// read-only, not PDO-mappable.
func NewCountSubEntry(count int) *SubEntry {
	sub := NewSubEntryWithMapping(CountSubEntryName, datatype.MustLookup(datatype.CodeUnsigned8), AccessReadOnly, PDONone)
	sub.value = codec.Integer(int64(count))
	return sub
}

// Entry is one addressable index of the dictionary.
type Entry struct {
	mu        sync.RWMutex
	index     uint16
	name      string
	structure Structure
	mandatory bool
	group     string

	// subs[0] is the count sub-entry for records and arrays.
	subs []*SubEntry
}

// NewVar creates a var entry holding sub.
func NewVar(index uint16, name string, sub *SubEntry) (*Entry, error) {
	return NewEntry(index, name, StructureVar, []*SubEntry{sub})
}

// NewRecord creates a record entry. The count sub-entry is prepended; subs
// are the data sub-entries (sub-index 1 onwards) and may be empty.
func NewRecord(index uint16, name string, subs ...*SubEntry) (*Entry, error) {
	return NewEntry(index, name, StructureRecord, subs)
}

// NewArray creates an array entry. All data sub-entries must share a type.
func NewArray(index uint16, name string, subs ...*SubEntry) (*Entry, error) {
	return NewEntry(index, name, StructureArray, subs)
}

// NewEntry creates an entry of the given structure. For var entries subs is
// the single value sub-entry; for records and arrays it is the list of data
// sub-entries without the count.
func NewEntry(index uint16, name string, structure Structure, subs []*SubEntry) (*Entry, error) {
	for i, s := range subs {
		if s == nil {
			return nil, fmt.Errorf("%w: 0x%04X: nil sub-entry at position %d", ErrStructureMismatch, index, i)
		}
	}

	e := &Entry{
		index:     index,
		name:      name,
		structure: structure,
	}

	switch structure {
	case StructureVar:
		if len(subs) != 1 {
			return nil, fmt.Errorf("%w: 0x%04X: var needs exactly 1 sub-entry, got %d", ErrStructureMismatch, index, len(subs))
		}
		e.subs = []*SubEntry{subs[0]}
	case StructureRecord, StructureArray:
		if len(subs) > MaxDataSubEntries {
			return nil, fmt.Errorf("%w: 0x%04X: %d data sub-entries exceed %d", ErrStructureMismatch, index, len(subs), MaxDataSubEntries)
		}
		if structure == StructureArray {
			if err := checkHomogeneous(index, subs); err != nil {
				return nil, err
			}
		}
		e.subs = make([]*SubEntry, 0, len(subs)+1)
		e.subs = append(e.subs, NewCountSubEntry(len(subs)))
		e.subs = append(e.subs, subs...)
	default:
		return nil, fmt.Errorf("%w: 0x%04X: %d", ErrInvalidStructure, index, structure)
	}

	if err := e.claimAll(); err != nil {
		return nil, err
	}
	return e, nil
}

// claimAll takes ownership of every sub-entry of e. On failure nothing is
// claimed.
func (e *Entry) claimAll() error {
	for i, s := range e.subs {
		owner := s.claim(e)
		if owner == nil {
			continue
		}
		for _, claimed := range e.subs[:i] {
			claimed.release(e)
		}
		if owner == e {
			return fmt.Errorf("%w: 0x%04X: sub-entry %q appears twice", ErrStructureMismatch, e.index, s.Name())
		}
		return fmt.Errorf("%w: 0x%04X: sub-entry %q belongs to another entry", ErrStructureMismatch, e.index, s.Name())
	}
	return nil
}

func checkHomogeneous(index uint16, subs []*SubEntry) error {
	for i := 1; i < len(subs); i++ {
		if subs[i].Type().Code != subs[0].Type().Code {
			return fmt.Errorf("%w: 0x%04X: array sub-entry %d is %s, want %s",
				ErrStructureMismatch, index, i+1, subs[i].Type().Name, subs[0].Type().Name)
		}
	}
	return nil
}

// Index returns the entry index.
func (e *Entry) Index() uint16 { return e.index }

// Name returns the entry name.
func (e *Entry) Name() string { return e.name }

// Structure returns the structural kind.
func (e *Entry) Structure() Structure { return e.structure }

// Mandatory returns true if the entry is flagged mandatory.
func (e *Entry) Mandatory() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.mandatory
}

// SetMandatory sets the mandatory flag.
func (e *Entry) SetMandatory(mandatory bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.mandatory = mandatory
}

// Group returns the entry group, or "" if none.
func (e *Entry) Group() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.group
}

// SetGroup sets the entry group.
func (e *Entry) SetGroup(group string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.group = group
}

// Len returns the number of sub-entries, including the count sub-entry.
func (e *Entry) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.subs)
}

// SubEntries returns all sub-entries in sub-index order.
func (e *Entry) SubEntries() []*SubEntry {
	e.mu.RLock()
	defer e.mu.RUnlock()
	result := make([]*SubEntry, len(e.subs))
	copy(result, e.subs)
	return result
}

// DataSubEntries returns the sub-entries that are not the count sub-entry.
func (e *Entry) DataSubEntries() []*SubEntry {
	subs := e.SubEntries()
	if e.structure.HasCount() && len(subs) > 0 {
		return subs[1:]
	}
	return subs
}

// CountSubEntry returns the count sub-entry, or nil for var entries.
func (e *Entry) CountSubEntry() *SubEntry {
	if !e.structure.HasCount() {
		return nil
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	if len(e.subs) == 0 {
		return nil
	}
	return e.subs[0]
}

// SubEntry returns the sub-entry at sub-index sub.
func (e *Entry) SubEntry(sub uint8) (*SubEntry, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if int(sub) >= len(e.subs) {
		return nil, fmt.Errorf("%w: 0x%04Xsub%d", ErrSubEntryNotFound, e.index, sub)
	}
	return e.subs[sub], nil
}

// AddSubEntry appends a data sub-entry to a record or array and updates
// the count sub-entry.
func (e *Entry) AddSubEntry(sub *SubEntry) error {
	if sub == nil {
		return fmt.Errorf("%w: 0x%04X: nil sub-entry", ErrStructureMismatch, e.index)
	}
	if !e.structure.HasCount() {
		return fmt.Errorf("%w: 0x%04X: cannot add sub-entries to a %s", ErrStructureMismatch, e.index, e.structure)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	data := len(e.subs) - 1
	if data >= MaxDataSubEntries {
		return fmt.Errorf("%w: 0x%04X: already has %d data sub-entries", ErrStructureMismatch, e.index, data)
	}
	if e.structure == StructureArray && data > 0 && e.subs[1].Type().Code != sub.Type().Code {
		return fmt.Errorf("%w: 0x%04X: array sub-entry is %s, want %s",
			ErrStructureMismatch, e.index, sub.Type().Name, e.subs[1].Type().Name)
	}

	if sub.claim(e) != nil {
		return fmt.Errorf("%w: 0x%04X: sub-entry %q already belongs to an entry", ErrStructureMismatch, e.index, sub.Name())
	}

	e.subs = append(e.subs, sub)
	return e.subs[0].SetValue(codec.Integer(int64(data + 1)))
}

func (e *Entry) clone() *Entry {
	e.mu.RLock()
	defer e.mu.RUnlock()
	c := &Entry{
		index:     e.index,
		name:      e.name,
		structure: e.structure,
		mandatory: e.mandatory,
		group:     e.group,
		subs:      make([]*SubEntry, len(e.subs)),
	}
	for i, s := range e.subs {
		c.subs[i] = s.clone()
		c.subs[i].owner = c
	}
	return c
}
