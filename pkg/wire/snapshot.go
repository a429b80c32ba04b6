package wire

import (
	"errors"
	"fmt"
	"io"

	"github.com/objdictgen/objdict-go/pkg/datatype"
	"github.com/objdictgen/objdict-go/pkg/od"
)

// SnapshotVersion is the snapshot format version written by this package.
const SnapshotVersion uint8 = 1

// ErrVersion is returned for a snapshot written by an unknown format version.
var ErrVersion = errors.New("unsupported snapshot version")

// Snapshot is the wire form of a dictionary.
type Snapshot struct {
	Version  uint8      `cbor:"1,keyasint"`
	Metadata Metadata   `cbor:"2,keyasint"`
	Entries  []EntryMsg `cbor:"3,keyasint"`
}

// Metadata is the wire form of od.Metadata.
type Metadata struct {
	ID                int    `cbor:"1,keyasint,omitempty"`
	Name              string `cbor:"2,keyasint,omitempty"`
	Description       string `cbor:"3,keyasint,omitempty"`
	Profile           string `cbor:"4,keyasint,omitempty"`
	DefaultStringSize int    `cbor:"5,keyasint,omitempty"`
}

// EntryMsg is the wire form of one entry.
type EntryMsg struct {
	Index     uint16        `cbor:"1,keyasint"`
	Name      string        `cbor:"2,keyasint,omitempty"`
	Structure uint8         `cbor:"3,keyasint"`
	Mandatory bool          `cbor:"4,keyasint,omitempty"`
	Group     string        `cbor:"5,keyasint,omitempty"`
	Subs      []SubEntryMsg `cbor:"6,keyasint"`
}

// SubEntryMsg is the wire form of one data sub-entry.
type SubEntryMsg struct {
	Name    string `cbor:"1,keyasint,omitempty"`
	Type    uint16 `cbor:"2,keyasint"`
	Access  uint8  `cbor:"3,keyasint"`
	Mapping uint8  `cbor:"4,keyasint,omitempty"`

	// Value is the codec encoding of the stored value. An empty value
	// (e.g. "" for a string type) is distinguished from an unset one by
	// HasValue.
	Value    []byte `cbor:"5,keyasint,omitempty"`
	HasValue bool   `cbor:"6,keyasint,omitempty"`
}

// NewSnapshot captures d.
func NewSnapshot(d *od.Dictionary) (*Snapshot, error) {
	meta := d.Metadata()
	s := &Snapshot{
		Version: SnapshotVersion,
		Metadata: Metadata{
			ID:                meta.ID,
			Name:              meta.Name,
			Description:       meta.Description,
			Profile:           meta.Profile,
			DefaultStringSize: meta.DefaultStringSize,
		},
	}

	for _, e := range d.Entries() {
		msg := EntryMsg{
			Index:     e.Index(),
			Name:      e.Name(),
			Structure: uint8(e.Structure()),
			Mandatory: e.Mandatory(),
			Group:     e.Group(),
		}
		for i, sub := range e.DataSubEntries() {
			sm := SubEntryMsg{
				Name:    sub.Name(),
				Type:    sub.Type().Code,
				Access:  uint8(sub.Access()),
				Mapping: uint8(sub.Mapping()),
			}
			if _, ok := sub.Value(); ok {
				data, err := sub.Encoded()
				if err != nil {
					return nil, fmt.Errorf("entry 0x%04X sub-entry %d: %w", e.Index(), i, err)
				}
				sm.Value = data
				sm.HasValue = true
			}
			msg.Subs = append(msg.Subs, sm)
		}
		s.Entries = append(s.Entries, msg)
	}
	return s, nil
}

// Dictionary rebuilds the dictionary the snapshot describes.
func (s *Snapshot) Dictionary() (*od.Dictionary, error) {
	if s.Version != SnapshotVersion {
		return nil, fmt.Errorf("%w: %d", ErrVersion, s.Version)
	}

	d := od.New(od.Metadata{
		ID:                s.Metadata.ID,
		Name:              s.Metadata.Name,
		Description:       s.Metadata.Description,
		Profile:           s.Metadata.Profile,
		DefaultStringSize: s.Metadata.DefaultStringSize,
	})

	for _, msg := range s.Entries {
		e, err := msg.entry()
		if err != nil {
			return nil, fmt.Errorf("entry 0x%04X: %w", msg.Index, err)
		}
		if err := d.Insert(e); err != nil {
			return nil, err
		}
	}
	return d, nil
}

func (m EntryMsg) entry() (*od.Entry, error) {
	subs := make([]*od.SubEntry, len(m.Subs))
	for i, sm := range m.Subs {
		sub, err := sm.subEntry()
		if err != nil {
			return nil, fmt.Errorf("sub-entry %d: %w", i, err)
		}
		subs[i] = sub
	}

	e, err := od.NewEntry(m.Index, m.Name, od.Structure(m.Structure), subs)
	if err != nil {
		return nil, err
	}
	e.SetMandatory(m.Mandatory)
	e.SetGroup(m.Group)
	return e, nil
}

func (m SubEntryMsg) subEntry() (*od.SubEntry, error) {
	t, err := datatype.Lookup(m.Type)
	if err != nil {
		return nil, err
	}
	access := od.Access(m.Access)
	if access < od.AccessReadOnly || access > od.AccessConst {
		return nil, fmt.Errorf("%w: %d", od.ErrInvalidAccess, m.Access)
	}
	mapping := od.PDOMapping(m.Mapping)
	if mapping&^(od.PDOTransmit|od.PDOReceive) != 0 {
		return nil, fmt.Errorf("invalid PDO mapping 0x%02X", m.Mapping)
	}

	sub := od.NewSubEntryWithMapping(m.Name, t, access, mapping)
	if m.HasValue {
		if err := sub.SetEncoded(m.Value); err != nil {
			return nil, err
		}
	}
	return sub, nil
}

// SameDictionary reports whether a and b produce identical snapshots.
func SameDictionary(a, b *od.Dictionary) (bool, error) {
	sa, err := NewSnapshot(a)
	if err != nil {
		return false, err
	}
	sb, err := NewSnapshot(b)
	if err != nil {
		return false, err
	}
	return Equal(sa, sb), nil
}

// EncodeDictionary encodes d as a CBOR snapshot.
func EncodeDictionary(d *od.Dictionary) ([]byte, error) {
	s, err := NewSnapshot(d)
	if err != nil {
		return nil, err
	}
	return Marshal(s)
}

// DecodeDictionary decodes a CBOR snapshot and rebuilds the dictionary.
func DecodeDictionary(data []byte) (*od.Dictionary, error) {
	var s Snapshot
	if err := Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return s.Dictionary()
}

// WriteDictionary writes a CBOR snapshot of d to w.
func WriteDictionary(w io.Writer, d *od.Dictionary) error {
	s, err := NewSnapshot(d)
	if err != nil {
		return err
	}
	return NewEncoder(w).Encode(s)
}

// ReadDictionary reads one CBOR snapshot from r.
func ReadDictionary(r io.Reader) (*od.Dictionary, error) {
	var s Snapshot
	if err := NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return s.Dictionary()
}
