package wire

import (
	"bytes"
	"errors"
	"testing"

	"github.com/objdictgen/objdict-go/pkg/codec"
	"github.com/objdictgen/objdict-go/pkg/datatype"
	"github.com/objdictgen/objdict-go/pkg/od"
)

func sampleDictionary(t *testing.T) *od.Dictionary {
	t.Helper()

	d := od.New(od.Metadata{ID: 5, Name: "node", Profile: "DS-301", DefaultStringSize: 10})

	devType := od.NewSubEntry("Device Type", datatype.MustLookup(datatype.CodeUnsigned32), od.AccessReadOnly, false)
	if err := devType.SetValue(codec.Integer(0x00020191)); err != nil {
		t.Fatalf("SetValue: %v", err)
	}
	v, err := od.NewVar(0x1000, "Device Type", devType)
	if err != nil {
		t.Fatalf("NewVar: %v", err)
	}
	v.SetMandatory(true)
	v.SetGroup("built-in")

	label := od.NewSubEntry("Label", datatype.MustLookup(datatype.CodeVisibleString), od.AccessReadWrite, true)
	if err := label.SetValue(codec.Text("abcø")); err != nil {
		t.Fatalf("SetValue: %v", err)
	}
	empty := od.NewSubEntry("Empty", datatype.MustLookup(datatype.CodeUnicodeString), od.AccessReadWrite, false)
	if err := empty.SetValue(codec.Text("")); err != nil {
		t.Fatalf("SetValue: %v", err)
	}
	unset := od.NewSubEntry("Unset", datatype.MustLookup(datatype.CodeReal32), od.AccessWriteOnly, true)
	rec, err := od.NewRecord(0x2000, "Strings", label, empty, unset)
	if err != nil {
		t.Fatalf("NewRecord: %v", err)
	}

	for _, e := range []*od.Entry{rec, v} {
		if err := d.Insert(e); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}
	return d
}

func TestDictionaryRoundTrip(t *testing.T) {
	original := sampleDictionary(t)

	data, err := EncodeDictionary(original)
	if err != nil {
		t.Fatalf("EncodeDictionary failed: %v", err)
	}

	decoded, err := DecodeDictionary(data)
	if err != nil {
		t.Fatalf("DecodeDictionary failed: %v", err)
	}

	if decoded.Metadata() != original.Metadata() {
		t.Errorf("Metadata mismatch: got %+v, want %+v", decoded.Metadata(), original.Metadata())
	}

	gotIdx, wantIdx := decoded.Indices(), original.Indices()
	if len(gotIdx) != len(wantIdx) {
		t.Fatalf("Indices: got %v, want %v", gotIdx, wantIdx)
	}

	for _, idx := range wantIdx {
		want, _ := original.Get(idx)
		got, ok := decoded.Get(idx)
		if !ok {
			t.Fatalf("entry 0x%04X missing", idx)
		}
		if got.Name() != want.Name() || got.Structure() != want.Structure() ||
			got.Mandatory() != want.Mandatory() || got.Group() != want.Group() {
			t.Errorf("entry 0x%04X header mismatch", idx)
		}
		if got.Len() != want.Len() {
			t.Fatalf("entry 0x%04X: got %d sub-entries, want %d", idx, got.Len(), want.Len())
		}

		wantSubs, gotSubs := want.SubEntries(), got.SubEntries()
		for i := range wantSubs {
			w, g := wantSubs[i], gotSubs[i]
			if g.Name() != w.Name() || g.Type() != w.Type() || g.Access() != w.Access() || g.Mapping() != w.Mapping() {
				t.Errorf("0x%04Xsub%d: got %s/%s/%s, want %s/%s/%s", idx, i,
					g.Type(), g.Access(), g.Mapping(), w.Type(), w.Access(), w.Mapping())
			}
			wv, wok := w.Value()
			gv, gok := g.Value()
			if wok != gok || !wv.Equal(gv) {
				t.Errorf("0x%04Xsub%d: got value %s (%v), want %s (%v)", idx, i, gv, gok, wv, wok)
			}
		}
	}
}

func TestDictionaryDeterministic(t *testing.T) {
	a, err := EncodeDictionary(sampleDictionary(t))
	if err != nil {
		t.Fatalf("EncodeDictionary failed: %v", err)
	}
	b, err := EncodeDictionary(sampleDictionary(t))
	if err != nil {
		t.Fatalf("EncodeDictionary failed: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Errorf("encoding is not deterministic")
	}

	s1, _ := NewSnapshot(sampleDictionary(t))
	s2, _ := NewSnapshot(sampleDictionary(t))
	if !Equal(s1, s2) {
		t.Errorf("Equal(s1, s2) should be true")
	}
}

func TestSameDictionary(t *testing.T) {
	a := sampleDictionary(t)
	b := sampleDictionary(t)

	same, err := SameDictionary(a, b)
	if err != nil {
		t.Fatalf("SameDictionary failed: %v", err)
	}
	if !same {
		t.Errorf("identically built dictionaries should match")
	}

	decoded, err := DecodeDictionary(mustEncode(t, a))
	if err != nil {
		t.Fatalf("DecodeDictionary failed: %v", err)
	}
	if same, _ := SameDictionary(a, decoded); !same {
		t.Errorf("decoded dictionary should match its source")
	}

	if err := b.Write(0x2000, 1, []byte("xyz")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if same, _ := SameDictionary(a, b); same {
		t.Errorf("dictionaries with different values should not match")
	}

	b.Remove(0x2000)
	if same, _ := SameDictionary(a, b); same {
		t.Errorf("dictionaries with different entries should not match")
	}
}

func mustEncode(t *testing.T, d *od.Dictionary) []byte {
	t.Helper()
	data, err := EncodeDictionary(d)
	if err != nil {
		t.Fatalf("EncodeDictionary failed: %v", err)
	}
	return data
}

func TestSnapshotAscendingOrder(t *testing.T) {
	s, err := NewSnapshot(sampleDictionary(t))
	if err != nil {
		t.Fatalf("NewSnapshot failed: %v", err)
	}
	if len(s.Entries) != 2 || s.Entries[0].Index != 0x1000 || s.Entries[1].Index != 0x2000 {
		t.Fatalf("unexpected entries: %+v", s.Entries)
	}

	// The count sub-entry is regenerated, not transmitted.
	if got := len(s.Entries[1].Subs); got != 3 {
		t.Errorf("record subs: got %d, want 3", got)
	}
	label := s.Entries[1].Subs[0]
	if !bytes.Equal(label.Value, []byte{'a', 'b', 'c', 0xF8}) {
		t.Errorf("label value: got %x", label.Value)
	}
	if s.Entries[1].Subs[2].HasValue {
		t.Errorf("unset sub-entry should not carry a value")
	}
}

func TestStreamRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteDictionary(&buf, sampleDictionary(t)); err != nil {
		t.Fatalf("WriteDictionary failed: %v", err)
	}

	d, err := ReadDictionary(&buf)
	if err != nil {
		t.Fatalf("ReadDictionary failed: %v", err)
	}
	if d.Len() != 2 {
		t.Errorf("Len: got %d, want 2", d.Len())
	}
}

func TestDecodeRejectsBadSnapshots(t *testing.T) {
	valid := func() Snapshot {
		return Snapshot{
			Version: SnapshotVersion,
			Entries: []EntryMsg{{
				Index:     0x2000,
				Structure: uint8(od.StructureVar),
				Subs:      []SubEntryMsg{{Name: "x", Type: datatype.CodeUnsigned8, Access: uint8(od.AccessReadWrite)}},
			}},
		}
	}

	tests := []struct {
		name   string
		mutate func(*Snapshot)
		target error
	}{
		{"version", func(s *Snapshot) { s.Version = 9 }, ErrVersion},
		{"unknown type", func(s *Snapshot) { s.Entries[0].Subs[0].Type = 0x7FFF }, datatype.ErrUnknownType},
		{"bad access", func(s *Snapshot) { s.Entries[0].Subs[0].Access = 0 }, od.ErrInvalidAccess},
		{"bad structure", func(s *Snapshot) { s.Entries[0].Structure = 7 }, od.ErrInvalidStructure},
		{"value length", func(s *Snapshot) {
			s.Entries[0].Subs[0].Value = []byte{1, 2}
			s.Entries[0].Subs[0].HasValue = true
		}, codec.ErrLengthMismatch},
		{"duplicate index", func(s *Snapshot) { s.Entries = append(s.Entries, s.Entries[0]) }, od.ErrDuplicateIndex},
		{"var cardinality", func(s *Snapshot) {
			s.Entries[0].Subs = append(s.Entries[0].Subs, s.Entries[0].Subs[0])
		}, od.ErrStructureMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid()
			tt.mutate(&s)
			data, err := Marshal(s)
			if err != nil {
				t.Fatalf("Marshal failed: %v", err)
			}
			_, err = DecodeDictionary(data)
			if !errors.Is(err, tt.target) {
				t.Errorf("got %v, want %v", err, tt.target)
			}
		})
	}
}

func TestUnknownFieldsIgnored(t *testing.T) {
	// A snapshot from a newer writer may carry extra keys.
	msg := map[int]any{
		1:  SnapshotVersion,
		2:  map[int]any{2: "node"},
		3:  []any{},
		99: "future field",
	}

	data, err := Marshal(msg)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	d, err := DecodeDictionary(data)
	if err != nil {
		t.Fatalf("DecodeDictionary should succeed with unknown fields: %v", err)
	}
	if d.Metadata().Name != "node" {
		t.Errorf("Name mismatch: got %q, want %q", d.Metadata().Name, "node")
	}
}

func TestDecodeGarbage(t *testing.T) {
	if _, err := DecodeDictionary([]byte{0xFF, 0x00}); err == nil {
		t.Errorf("expected error for invalid CBOR")
	}
}
