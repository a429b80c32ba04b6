package commands

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/objdictgen/objdict-go/pkg/od"
	"github.com/objdictgen/objdict-go/pkg/validate"
	"github.com/objdictgen/objdict-go/pkg/wire"
)

// SnapshotOptions configures the snapshot command.
type SnapshotOptions struct {
	Output string
	Check  string
	Force  bool
	File   string
	loggerOptions
}

// RunSnapshot runs the snapshot command.
func RunSnapshot(args []string, stdout, stderr io.Writer) int {
	opts, err := parseSnapshotArgs(args)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}
	if opts.File == "" || (opts.Output == "") == (opts.Check == "") {
		fmt.Fprintln(stderr, "Error: need an input file and one of -o or --check")
		printSnapshotUsage(stderr)
		return exitCommandError
	}

	logger, closeLog, err := openLogger(opts.loggerOptions, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}
	defer closeLog()

	d, err := loadDictionary(opts.File, logger)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitValidation
	}
	if err := validate.Validate(d); err != nil && !opts.Force {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitValidation
	}

	if opts.Check != "" {
		return checkSnapshot(d, opts.Check, stdout, stderr)
	}

	f, err := os.Create(opts.Output)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}
	if err := wire.WriteDictionary(f, d); err != nil {
		f.Close()
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}
	if err := f.Close(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}

	fmt.Fprintf(stdout, "Wrote %d entries to %s\n", d.Len(), opts.Output)
	return exitSuccess
}

func checkSnapshot(d *od.Dictionary, path string, stdout, stderr io.Writer) int {
	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}
	defer f.Close()

	existing, err := wire.ReadDictionary(f)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %s: %v\n", path, err)
		return exitCommandError
	}

	same, err := wire.SameDictionary(d, existing)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}
	if !same {
		fmt.Fprintf(stdout, "%s is out of date\n", path)
		return exitValidation
	}
	fmt.Fprintf(stdout, "%s is up to date\n", path)
	return exitSuccess
}

func parseSnapshotArgs(args []string) (SnapshotOptions, error) {
	fs := flag.NewFlagSet("snapshot", flag.ContinueOnError)
	opts := SnapshotOptions{}

	fs.StringVar(&opts.Output, "o", "", "Output file")
	fs.StringVar(&opts.Check, "check", "", "Compare against an existing snapshot instead of writing one")
	fs.BoolVar(&opts.Force, "force", false, "Write the snapshot even if validation fails")
	fs.StringVar(&opts.LogFile, "log", "", "Write dictionary events to this CBOR log file")
	fs.BoolVar(&opts.Debug, "debug", false, "Print dictionary events to stderr")
	fs.Usage = func() {}

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if fs.NArg() > 0 {
		opts.File = fs.Arg(0)
	}
	return opts, nil
}

func printSnapshotUsage(w io.Writer) {
	fmt.Fprintln(w, `
Usage: odtool snapshot (-o <output> | --check <snapshot>) [options] <file>

Options:
  -o FILE       Output file
  --check FILE  Exit 1 if FILE differs from the snapshot of <file>
  --force       Write even if validation fails
  --log FILE    Write dictionary events to FILE
  --debug       Print dictionary events to stderr

Examples:
  odtool snapshot -o node.cbor node.jsonc
  odtool snapshot --check node.cbor node.jsonc`)
}
