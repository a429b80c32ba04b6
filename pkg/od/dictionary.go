package od

import (
	"fmt"
	"sort"
	"sync"

	"github.com/objdictgen/objdict-go/pkg/codec"
	"github.com/objdictgen/objdict-go/pkg/log"
)

// Metadata describes the dictionary as a whole.
type Metadata struct {
	// ID is the node ID the dictionary was defined for.
	ID int

	// Name is the node name.
	Name string

	// Description is a free-form description.
	Description string

	// Profile is the device profile name (e.g. "DS-401", "None").
	Profile string

	// DefaultStringSize limits the payload of bounded string types
	// (0 = unlimited).
	DefaultStringSize int
}

// Dictionary is the collection of entries of one node.
type Dictionary struct {
	mu      sync.RWMutex
	meta    Metadata
	entries map[uint16]*Entry

	// order holds indices in insertion order.
	order []uint16

	logger log.Logger
}

// New creates an empty dictionary.
func New(meta Metadata) *Dictionary {
	return &Dictionary{
		meta:    meta,
		entries: make(map[uint16]*Entry),
		logger:  log.NoopLogger{},
	}
}

// Metadata returns the dictionary metadata.
func (d *Dictionary) Metadata() Metadata {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.meta
}

// SetLogger sets the access event logger. Nil disables logging.
func (d *Dictionary) SetLogger(l log.Logger) {
	if l == nil {
		l = log.NoopLogger{}
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.logger = l
}

func (d *Dictionary) log(event log.Event) {
	d.mu.RLock()
	l := d.logger
	d.mu.RUnlock()
	l.Log(event)
}

// Insert adds e to the dictionary. An existing index is never replaced;
// on error the dictionary is unchanged.
func (d *Dictionary) Insert(e *Entry) error {
	if e == nil {
		return fmt.Errorf("%w: nil entry", ErrStructureMismatch)
	}

	d.mu.Lock()
	if _, exists := d.entries[e.Index()]; exists {
		d.mu.Unlock()
		err := fmt.Errorf("%w: 0x%04X", ErrDuplicateIndex, e.Index())
		d.logStructure(log.OperationInsert, e, err)
		return err
	}
	d.entries[e.Index()] = e
	d.order = append(d.order, e.Index())
	d.mu.Unlock()

	d.logStructure(log.OperationInsert, e, nil)
	return nil
}

// Remove deletes the entry at index. Returns false if there was none.
func (d *Dictionary) Remove(index uint16) bool {
	d.mu.Lock()
	e, exists := d.entries[index]
	if !exists {
		d.mu.Unlock()
		return false
	}
	delete(d.entries, index)
	for i, idx := range d.order {
		if idx == index {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
	d.mu.Unlock()

	d.logStructure(log.OperationRemove, e, nil)
	return true
}

// Get returns the entry at index.
func (d *Dictionary) Get(index uint16) (*Entry, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	e, ok := d.entries[index]
	return e, ok
}

// Lookup returns the sub-entry at (index, sub).
func (d *Dictionary) Lookup(index uint16, sub uint8) (*SubEntry, error) {
	e, ok := d.Get(index)
	if !ok {
		return nil, fmt.Errorf("%w: 0x%04X", ErrEntryNotFound, index)
	}
	return e.SubEntry(sub)
}

// Len returns the number of entries.
func (d *Dictionary) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.entries)
}

// Indices returns all indices in ascending order.
func (d *Dictionary) Indices() []uint16 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.sortedIndicesUnlocked()
}

func (d *Dictionary) sortedIndicesUnlocked() []uint16 {
	result := make([]uint16, len(d.order))
	copy(result, d.order)
	sort.Slice(result, func(i, j int) bool { return result[i] < result[j] })
	return result
}

// InsertionOrder returns all indices in the order they were inserted.
func (d *Dictionary) InsertionOrder() []uint16 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	result := make([]uint16, len(d.order))
	copy(result, d.order)
	return result
}

// Entries returns all entries in ascending index order, regardless of
// insertion order.
func (d *Dictionary) Entries() []*Entry {
	d.mu.RLock()
	defer d.mu.RUnlock()

	indices := d.sortedIndicesUnlocked()
	result := make([]*Entry, len(indices))
	for i, idx := range indices {
		result[i] = d.entries[idx]
	}
	return result
}

// Read returns the encoded value of (index, sub) as a remote reader sees it.
func (d *Dictionary) Read(index uint16, sub uint8) ([]byte, error) {
	s, err := d.Lookup(index, sub)
	if err == nil && !s.Access().CanRead() {
		err = fmt.Errorf("%w: 0x%04Xsub%d is %s", ErrNotReadable, index, sub, s.Access())
	}

	var data []byte
	if err == nil {
		data, err = s.Encoded()
		if err != nil {
			err = fmt.Errorf("read 0x%04Xsub%d: %w", index, sub, err)
		}
	}

	d.logAccess(log.OperationRead, index, sub, s, data, err)
	return data, err
}

// Write decodes data and stores it in (index, sub) as a remote writer would.
// Read-only and const sub-entries are rejected, and so is data over the
// length limit of a bounded string type. On error the stored value is
// unchanged.
func (d *Dictionary) Write(index uint16, sub uint8, data []byte) error {
	s, err := d.Lookup(index, sub)
	if err == nil && !s.Access().CanWrite() {
		err = fmt.Errorf("%w: 0x%04Xsub%d is %s", ErrNotWritable, index, sub, s.Access())
	}
	if err == nil {
		err = codec.CheckLength(s.Type(), data, d.Metadata().DefaultStringSize)
		if err == nil {
			err = s.SetEncoded(data)
		}
		if err != nil {
			err = fmt.Errorf("write 0x%04Xsub%d: %w", index, sub, err)
		}
	}

	d.logAccess(log.OperationWrite, index, sub, s, data, err)
	return err
}

// Clone returns a deep copy of the dictionary. The copy shares no mutable
// state with d and has its logger disabled.
func (d *Dictionary) Clone() *Dictionary {
	d.mu.RLock()
	defer d.mu.RUnlock()

	c := New(d.meta)
	c.order = make([]uint16, len(d.order))
	copy(c.order, d.order)
	for idx, e := range d.entries {
		c.entries[idx] = e.clone()
	}
	return c
}

func (d *Dictionary) logAccess(op log.Operation, index uint16, sub uint8, s *SubEntry, data []byte, err error) {
	var typeCode uint16
	if s != nil {
		typeCode = s.Type().Code
	}

	category := log.CategoryAccess
	if err != nil {
		category = log.CategoryError
	}

	event := log.NewEvent(d.Metadata().Name, op, category)
	event.Access = log.NewAccessEvent(index, sub, typeCode, data)
	if err != nil {
		event.Error = &log.ErrorEventData{
			Message: err.Error(),
			Context: fmt.Sprintf("%s 0x%04Xsub%d", op, index, sub),
		}
	}
	d.log(event)
}

func (d *Dictionary) logStructure(op log.Operation, e *Entry, err error) {
	category := log.CategoryStructure
	if err != nil {
		category = log.CategoryError
	}

	event := log.NewEvent(d.Metadata().Name, op, category)
	event.Entry = &log.EntryEvent{
		Index:      e.Index(),
		Name:       e.Name(),
		Structure:  e.Structure().String(),
		SubEntries: e.Len(),
	}
	if err != nil {
		event.Error = &log.ErrorEventData{Message: err.Error()}
	}
	d.log(event)
}
