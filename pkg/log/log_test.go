package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureLogger struct {
	mu     sync.Mutex
	events []Event
}

func (c *captureLogger) Log(event Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
}

func TestNoopLoggerIsZeroValue(t *testing.T) {
	var logger NoopLogger
	logger.Log(Event{})
	logger.Log(NewEvent("node", OperationWrite, CategoryAccess))
}

func TestNewEvent(t *testing.T) {
	before := time.Now()
	ev := NewEvent("node", OperationRead, CategoryAccess)

	assert.Equal(t, "node", ev.Dictionary)
	assert.Equal(t, OperationRead, ev.Operation)
	assert.False(t, ev.Timestamp.Before(before))

	_, err := uuid.Parse(ev.EventID)
	assert.NoError(t, err, "EventID should be a UUID")

	assert.NotEqual(t, ev.EventID, NewEvent("node", OperationRead, CategoryAccess).EventID)
}

func TestNewAccessEventTruncates(t *testing.T) {
	small := NewAccessEvent(0x2000, 1, 0x0007, []byte{1, 2, 3, 4})
	assert.Equal(t, 4, small.Size)
	assert.Equal(t, []byte{1, 2, 3, 4}, small.Data)
	assert.False(t, small.Truncated)

	big := NewAccessEvent(0x2001, 0, 0x000F, make([]byte, MaxCapturedData+10))
	assert.Equal(t, MaxCapturedData+10, big.Size)
	assert.Len(t, big.Data, MaxCapturedData)
	assert.True(t, big.Truncated)

	empty := NewAccessEvent(0x2002, 0, 0x0009, nil)
	assert.Nil(t, empty.Data)
}

func TestEventCBORRoundTrip(t *testing.T) {
	ev := NewEvent("node", OperationWrite, CategoryError)
	ev.Access = NewAccessEvent(0x2000, 2, 0x0009, []byte("abc"))
	ev.Error = &ErrorEventData{Message: "not writable", Context: "write 0x2000sub2"}

	data, err := EncodeEvent(ev)
	require.NoError(t, err)

	decoded, err := DecodeEvent(data)
	require.NoError(t, err)

	assert.Equal(t, ev.EventID, decoded.EventID)
	assert.True(t, ev.Timestamp.Equal(decoded.Timestamp))
	assert.Equal(t, ev.Operation, decoded.Operation)
	assert.Equal(t, ev.Category, decoded.Category)
	require.NotNil(t, decoded.Access)
	assert.Equal(t, *ev.Access, *decoded.Access)
	require.NotNil(t, decoded.Error)
	assert.Equal(t, *ev.Error, *decoded.Error)
	assert.Nil(t, decoded.Entry)
}

func TestMultiLogger(t *testing.T) {
	a := &captureLogger{}
	b := &captureLogger{}
	m := NewMultiLogger(a, nil, b)

	m.Log(NewEvent("node", OperationInsert, CategoryStructure))

	assert.Len(t, a.events, 1)
	assert.Len(t, b.events, 1)
}

func TestFileLoggerAndReader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "node.odlog")

	logger, err := NewFileLogger(path)
	require.NoError(t, err)

	read := NewEvent("node", OperationRead, CategoryAccess)
	read.Access = NewAccessEvent(0x1000, 0, 0x0007, []byte{0, 0, 0, 0})
	logger.Log(read)

	insert := NewEvent("node", OperationInsert, CategoryStructure)
	insert.Entry = &EntryEvent{Index: 0x2000, Name: "Record", Structure: "record", SubEntries: 3}
	logger.Log(insert)

	write := NewEvent("other", OperationWrite, CategoryAccess)
	write.Access = NewAccessEvent(0x2000, 1, 0x0005, []byte{7})
	logger.Log(write)

	require.NoError(t, logger.Close())
	require.NoError(t, logger.Close(), "second Close should be a no-op")

	// Logged after close: dropped.
	logger.Log(NewEvent("node", OperationRemove, CategoryStructure))

	t.Run("all events", func(t *testing.T) {
		r, err := NewReader(path)
		require.NoError(t, err)
		defer r.Close()

		var ids []string
		for {
			ev, err := r.Next()
			if errors.Is(err, io.EOF) {
				break
			}
			require.NoError(t, err)
			ids = append(ids, ev.EventID)
		}
		assert.Equal(t, []string{read.EventID, insert.EventID, write.EventID}, ids)
	})

	t.Run("filter by index", func(t *testing.T) {
		index := uint16(0x2000)
		r, err := NewFilteredReader(path, Filter{Index: &index})
		require.NoError(t, err)
		defer r.Close()

		first, err := r.Next()
		require.NoError(t, err)
		assert.Equal(t, insert.EventID, first.EventID)

		second, err := r.Next()
		require.NoError(t, err)
		assert.Equal(t, write.EventID, second.EventID)

		_, err = r.Next()
		assert.ErrorIs(t, err, io.EOF)
	})

	t.Run("filter by dictionary and operation", func(t *testing.T) {
		op := OperationRead
		r, err := NewFilteredReader(path, Filter{Dictionary: "node", Operation: &op})
		require.NoError(t, err)
		defer r.Close()

		ev, err := r.Next()
		require.NoError(t, err)
		assert.Equal(t, read.EventID, ev.EventID)

		_, err = r.Next()
		assert.ErrorIs(t, err, io.EOF)
	})
}

func TestFilterTimeWindow(t *testing.T) {
	now := time.Now()
	start := now.Add(-time.Second)
	end := now.Add(time.Second)

	f := Filter{TimeStart: &start, TimeEnd: &end}
	assert.True(t, f.Matches(Event{Timestamp: now}))
	assert.False(t, f.Matches(Event{Timestamp: now.Add(-time.Minute)}))
	assert.False(t, f.Matches(Event{Timestamp: end}))
}

func TestFileLoggerConcurrent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "concurrent.odlog")
	logger, err := NewFileLogger(path)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ev := NewEvent("node", OperationWrite, CategoryAccess)
			ev.Access = NewAccessEvent(0x2000, uint8(i), 0x0005, []byte{byte(i)})
			logger.Log(ev)
		}(i)
	}
	wg.Wait()
	require.NoError(t, logger.Close())

	r, err := NewReader(path)
	require.NoError(t, err)
	defer r.Close()

	count := 0
	for {
		_, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		count++
	}
	assert.Equal(t, 8, count)
}

func TestSlogAdapter(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	adapter := NewSlogAdapter(logger)

	ev := NewEvent("node", OperationWrite, CategoryError)
	ev.Access = NewAccessEvent(0x2000, 1, 0x0009, []byte("hi"))
	ev.Error = &ErrorEventData{Message: "sub-entry is not writable"}
	adapter.Log(ev)

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))

	assert.Equal(t, "WARN", record["level"])
	assert.Equal(t, "objdict", record["msg"])
	assert.Equal(t, "WRITE", record["operation"])
	assert.Equal(t, "0x2000", record["index"])
	assert.Equal(t, "0x0009", record["data_type"])
	assert.Equal(t, "sub-entry is not writable", record["error"])
}

func TestSlogAdapterDebugLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))
	NewSlogAdapter(logger).Log(NewEvent("node", OperationRead, CategoryAccess))

	assert.Zero(t, buf.Len(), "access events are logged at Debug level")
}
