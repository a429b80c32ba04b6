// Package log captures object dictionary access events.
//
// This package defines the Logger interface and the Event type recorded
// whenever a dictionary entry is inserted or removed, or a sub-entry is read
// or written through the device access path. It is separate from operational
// logging (slog): access capture provides a machine-readable trace of every
// value that crossed the dictionary boundary, including failed attempts.
// Failures are still returned to callers; an event never replaces an error.
//
// # Basic Usage
//
//	// For development: log to console via slog
//	dict.SetLogger(log.NewSlogAdapter(slog.Default()))
//
//	// For analysis: append to a CBOR file
//	fl, _ := log.NewFileLogger("/var/log/od/node.odlog")
//	dict.SetLogger(log.NewMultiLogger(log.NewSlogAdapter(slog.Default()), fl))
//
// # File Format
//
// Log files are a stream of CBOR-encoded events with integer keys. Reader
// iterates a file and applies an optional Filter.
package log
