package commands

import (
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"io"

	"github.com/objdictgen/objdict-go/pkg/od"
)

// ShowOptions configures the show command.
type ShowOptions struct {
	JSON bool
	File string
}

// EntryOutput is the JSON form of one entry.
type EntryOutput struct {
	Index     string           `json:"index"`
	Name      string           `json:"name"`
	Structure string           `json:"struct"`
	Mandatory bool             `json:"mandatory,omitempty"`
	Group     string           `json:"group,omitempty"`
	Subs      []SubEntryOutput `json:"sub"`
}

// SubEntryOutput is the JSON form of one sub-entry.
type SubEntryOutput struct {
	SubIndex int    `json:"sub_index"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Access   string `json:"access"`
	PDO      string `json:"pdo,omitempty"`
	Value    string `json:"value,omitempty"`
	Encoded  string `json:"encoded,omitempty"`
}

// RunShow runs the show command.
func RunShow(args []string, stdout, stderr io.Writer) int {
	opts, err := parseShowArgs(args)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}
	if opts.File == "" {
		fmt.Fprintln(stderr, "Error: no file specified")
		printShowUsage(stderr)
		return exitCommandError
	}

	d, err := loadDictionary(opts.File, nil)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitValidation
	}

	entries := describeEntries(d)
	if opts.JSON {
		output, _ := json.MarshalIndent(entries, "", "  ")
		fmt.Fprintln(stdout, string(output))
		return exitSuccess
	}

	meta := d.Metadata()
	fmt.Fprintf(stdout, "%s (node %d, profile %q, %d entries)\n", meta.Name, meta.ID, meta.Profile, d.Len())
	for _, e := range entries {
		flags := ""
		if e.Mandatory {
			flags = " mandatory"
		}
		fmt.Fprintf(stdout, "%s %s [%s]%s\n", e.Index, e.Name, e.Structure, flags)
		for _, s := range e.Subs {
			line := fmt.Sprintf("  sub%-3d %-30s %-16s %-5s", s.SubIndex, s.Name, s.Type, s.Access)
			if s.PDO != "" {
				line += " pdo=" + s.PDO
			}
			if s.Encoded != "" {
				line += fmt.Sprintf(" = %s [%s]", s.Value, s.Encoded)
			}
			fmt.Fprintln(stdout, line)
		}
	}
	return exitSuccess
}

func describeEntries(d *od.Dictionary) []EntryOutput {
	var result []EntryOutput
	for _, e := range d.Entries() {
		out := EntryOutput{
			Index:     fmt.Sprintf("0x%04X", e.Index()),
			Name:      e.Name(),
			Structure: e.Structure().String(),
			Mandatory: e.Mandatory(),
			Group:     e.Group(),
		}
		for i, s := range e.SubEntries() {
			so := SubEntryOutput{
				SubIndex: i,
				Name:     s.Name(),
				Type:     s.Type().Name,
				Access:   s.Access().String(),
			}
			if s.PDOMappable() {
				so.PDO = s.Mapping().String()
			}
			if v, ok := s.Value(); ok {
				so.Value = v.String()
				if data, err := s.Encoded(); err == nil {
					so.Encoded = hex.EncodeToString(data)
				}
			}
			out.Subs = append(out.Subs, so)
		}
		result = append(result, out)
	}
	return result
}

func parseShowArgs(args []string) (ShowOptions, error) {
	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	opts := ShowOptions{}

	fs.BoolVar(&opts.JSON, "json", false, "Output entries as JSON")
	fs.Usage = func() {}

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if fs.NArg() > 0 {
		opts.File = fs.Arg(0)
	}
	return opts, nil
}

func printShowUsage(w io.Writer) {
	fmt.Fprintln(w, `
Usage: odtool show [options] <file>

Options:
  --json   Output entries as JSON

Examples:
  odtool show node.jsonc`)
}
