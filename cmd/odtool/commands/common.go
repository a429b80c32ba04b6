// Package commands implements the odtool CLI commands.
package commands

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/objdictgen/objdict-go/pkg/definition"
	"github.com/objdictgen/objdict-go/pkg/log"
	"github.com/objdictgen/objdict-go/pkg/od"
)

const (
	exitSuccess      = 0
	exitCommandError = 1
	exitValidation   = 2
)

// loggerOptions are the logging flags shared by the commands.
type loggerOptions struct {
	LogFile string
	Debug   bool
}

// openLogger returns the logger selected by opts and a function releasing
// it. With no options set the logger discards everything.
func openLogger(opts loggerOptions, stderr io.Writer) (log.Logger, func() error, error) {
	var loggers []log.Logger
	closeFn := func() error { return nil }

	if opts.LogFile != "" {
		fl, err := log.NewFileLogger(opts.LogFile)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file: %w", err)
		}
		loggers = append(loggers, fl)
		closeFn = fl.Close
	}
	if opts.Debug {
		handler := slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
		loggers = append(loggers, log.NewSlogAdapter(slog.New(handler)))
	}

	switch len(loggers) {
	case 0:
		return log.NoopLogger{}, closeFn, nil
	case 1:
		return loggers[0], closeFn, nil
	default:
		return log.NewMultiLogger(loggers...), closeFn, nil
	}
}

// loadDictionary reads and builds the definition at path.
func loadDictionary(path string, logger log.Logger) (*od.Dictionary, error) {
	doc, err := definition.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return definition.Build(doc, definition.WithLogger(logger))
}
