package log

import (
	"time"

	"github.com/google/uuid"
)

// MaxCapturedData is the number of payload bytes kept in an AccessEvent.
const MaxCapturedData = 64

// Event represents one dictionary event.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// EventID uniquely identifies the event (UUID).
	EventID string `cbor:"2,keyasint"`

	// Dictionary is the name of the dictionary the event belongs to.
	Dictionary string `cbor:"3,keyasint,omitempty"`

	// Operation that produced the event.
	Operation Operation `cbor:"4,keyasint"`

	// Category classifies the event.
	Category Category `cbor:"5,keyasint"`

	// Type-specific payload.
	Access *AccessEvent    `cbor:"6,keyasint,omitempty"` // Read/Write
	Entry  *EntryEvent     `cbor:"7,keyasint,omitempty"` // Insert/Remove
	Error  *ErrorEventData `cbor:"8,keyasint,omitempty"` // Failed operation
}

// NewEvent returns an event stamped with the current time and a fresh ID.
func NewEvent(dictionary string, op Operation, category Category) Event {
	return Event{
		Timestamp:  time.Now(),
		EventID:    uuid.NewString(),
		Dictionary: dictionary,
		Operation:  op,
		Category:   category,
	}
}

// Operation identifies what was done to the dictionary.
type Operation uint8

const (
	OperationRead   Operation = 0
	OperationWrite  Operation = 1
	OperationInsert Operation = 2
	OperationRemove Operation = 3
)

// String returns the operation name.
func (o Operation) String() string {
	switch o {
	case OperationRead:
		return "READ"
	case OperationWrite:
		return "WRITE"
	case OperationInsert:
		return "INSERT"
	case OperationRemove:
		return "REMOVE"
	default:
		return "UNKNOWN"
	}
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryAccess indicates a sub-entry value access.
	CategoryAccess Category = 0
	// CategoryStructure indicates an entry was added or removed.
	CategoryStructure Category = 1
	// CategoryError indicates the operation failed.
	CategoryError Category = 2
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryAccess:
		return "ACCESS"
	case CategoryStructure:
		return "STRUCTURE"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// AccessEvent captures a read or write of one sub-entry.
type AccessEvent struct {
	Index    uint16 `cbor:"1,keyasint"`
	SubIndex uint8  `cbor:"2,keyasint"`

	// DataType is the type code of the sub-entry (0 if unresolved).
	DataType uint16 `cbor:"3,keyasint,omitempty"`

	// Size is the full payload size in bytes.
	Size int `cbor:"4,keyasint"`

	// Data is the payload, truncated to MaxCapturedData bytes.
	Data []byte `cbor:"5,keyasint,omitempty"`

	// Truncated indicates if Data was truncated.
	Truncated bool `cbor:"6,keyasint,omitempty"`
}

// NewAccessEvent builds an AccessEvent, truncating data as needed.
func NewAccessEvent(index uint16, subIndex uint8, dataType uint16, data []byte) *AccessEvent {
	ev := &AccessEvent{
		Index:    index,
		SubIndex: subIndex,
		DataType: dataType,
		Size:     len(data),
	}
	if len(data) > MaxCapturedData {
		ev.Data = append([]byte(nil), data[:MaxCapturedData]...)
		ev.Truncated = true
	} else if len(data) > 0 {
		ev.Data = append([]byte(nil), data...)
	}
	return ev
}

// EntryEvent captures a structural change.
type EntryEvent struct {
	Index     uint16 `cbor:"1,keyasint"`
	Name      string `cbor:"2,keyasint,omitempty"`
	Structure string `cbor:"3,keyasint,omitempty"`

	// SubEntries counts all sub-entries including the synthetic count.
	SubEntries int `cbor:"4,keyasint,omitempty"`
}

// ErrorEventData captures a failed operation.
type ErrorEventData struct {
	// Message is the error message.
	Message string `cbor:"1,keyasint"`

	// Context describes what operation was being performed.
	Context string `cbor:"2,keyasint,omitempty"`
}
