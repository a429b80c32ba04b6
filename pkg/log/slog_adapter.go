package log

import (
	"context"
	"fmt"
	"log/slog"
)

// SlogAdapter writes events to an slog.Logger.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a new SlogAdapter that writes to the given slog.Logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event at Debug level, or Warn level for error events.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("event_id", event.EventID),
		slog.String("operation", event.Operation.String()),
		slog.String("category", event.Category.String()),
	}
	if event.Dictionary != "" {
		attrs = append(attrs, slog.String("dictionary", event.Dictionary))
	}

	if event.Access != nil {
		attrs = append(attrs,
			slog.String("index", hex16(event.Access.Index)),
			slog.Uint64("sub_index", uint64(event.Access.SubIndex)),
			slog.String("data_type", hex16(event.Access.DataType)),
			slog.Int("size", event.Access.Size),
		)
		if event.Access.Truncated {
			attrs = append(attrs, slog.Bool("truncated", true))
		}
	}
	if event.Entry != nil {
		attrs = append(attrs,
			slog.String("index", hex16(event.Entry.Index)),
			slog.String("name", event.Entry.Name),
			slog.String("structure", event.Entry.Structure),
			slog.Int("sub_entries", event.Entry.SubEntries),
		)
	}

	level := slog.LevelDebug
	if event.Error != nil {
		level = slog.LevelWarn
		attrs = append(attrs, slog.String("error", event.Error.Message))
		if event.Error.Context != "" {
			attrs = append(attrs, slog.String("error_context", event.Error.Context))
		}
	}

	a.logger.LogAttrs(context.Background(), level, "objdict", attrs...)
}

func hex16(v uint16) string {
	return fmt.Sprintf("0x%04X", v)
}

// Compile-time interface satisfaction check.
var _ Logger = (*SlogAdapter)(nil)
