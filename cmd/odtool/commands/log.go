package commands

import (
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/objdictgen/objdict-go/internal/numeric"
	"github.com/objdictgen/objdict-go/pkg/log"
)

// LogOptions configures the log command.
type LogOptions struct {
	Dictionary string
	Operation  string
	Category   string
	Index      string
	File       string
}

// RunLog runs the log command.
func RunLog(args []string, stdout, stderr io.Writer) int {
	opts, err := parseLogArgs(args)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}
	if opts.File == "" {
		fmt.Fprintln(stderr, "Error: no file specified")
		printLogUsage(stderr)
		return exitCommandError
	}

	filter, err := buildFilter(opts)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}

	reader, err := log.NewFilteredReader(opts.File, filter)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}
	defer reader.Close()

	count := 0
	for {
		event, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return exitCommandError
		}
		formatEvent(stdout, event)
		count++
	}

	fmt.Fprintf(stdout, "%d events\n", count)
	return exitSuccess
}

// formatEvent writes a one-line representation of the event to w.
func formatEvent(w io.Writer, event log.Event) {
	ts := event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z")
	fmt.Fprintf(w, "%s [%s] %-6s %-9s", ts, event.Dictionary, event.Operation, event.Category)

	switch {
	case event.Access != nil:
		a := event.Access
		fmt.Fprintf(w, " 0x%04Xsub%d type=0x%04X size=%d", a.Index, a.SubIndex, a.DataType, a.Size)
		if len(a.Data) > 0 {
			fmt.Fprintf(w, " data=%s", hex.EncodeToString(a.Data))
			if a.Truncated {
				fmt.Fprint(w, "...")
			}
		}
	case event.Entry != nil:
		e := event.Entry
		fmt.Fprintf(w, " 0x%04X %q %s subs=%d", e.Index, e.Name, e.Structure, e.SubEntries)
	}
	if event.Error != nil {
		fmt.Fprintf(w, " error=%q", event.Error.Message)
	}
	fmt.Fprintln(w)
}

func buildFilter(opts LogOptions) (log.Filter, error) {
	filter := log.Filter{Dictionary: opts.Dictionary}

	if opts.Operation != "" {
		op, err := parseOperation(opts.Operation)
		if err != nil {
			return filter, err
		}
		filter.Operation = &op
	}
	if opts.Category != "" {
		cat, err := parseCategory(opts.Category)
		if err != nil {
			return filter, err
		}
		filter.Category = &cat
	}
	if opts.Index != "" {
		n, err := numeric.ParseUint(opts.Index, 16)
		if err != nil {
			return filter, fmt.Errorf("invalid index %q", opts.Index)
		}
		idx := uint16(n)
		filter.Index = &idx
	}
	return filter, nil
}

func parseOperation(s string) (log.Operation, error) {
	for _, op := range []log.Operation{log.OperationRead, log.OperationWrite, log.OperationInsert, log.OperationRemove} {
		if strings.EqualFold(s, op.String()) {
			return op, nil
		}
	}
	return 0, fmt.Errorf("invalid operation %q (want read, write, insert or remove)", s)
}

func parseCategory(s string) (log.Category, error) {
	for _, c := range []log.Category{log.CategoryAccess, log.CategoryStructure, log.CategoryError} {
		if strings.EqualFold(s, c.String()) {
			return c, nil
		}
	}
	return 0, fmt.Errorf("invalid category %q (want access, structure or error)", s)
}

func parseLogArgs(args []string) (LogOptions, error) {
	fs := flag.NewFlagSet("log", flag.ContinueOnError)
	opts := LogOptions{}

	fs.StringVar(&opts.Dictionary, "dictionary", "", "Only show events of this dictionary")
	fs.StringVar(&opts.Operation, "op", "", "Only show this operation")
	fs.StringVar(&opts.Category, "category", "", "Only show this category")
	fs.StringVar(&opts.Index, "index", "", "Only show events for this index")
	fs.Usage = func() {}

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if fs.NArg() > 0 {
		opts.File = fs.Arg(0)
	}
	return opts, nil
}

func printLogUsage(w io.Writer) {
	fmt.Fprintln(w, `
Usage: odtool log [options] <file>

Options:
  --dictionary NAME   Only show events of dictionary NAME
  --op OP             Only show read, write, insert or remove events
  --category CAT      Only show access, structure or error events
  --index IDX         Only show events for index IDX (e.g. 0x1018)

Examples:
  odtool log build.log
  odtool log --op insert --index 0x1018 build.log`)
}
