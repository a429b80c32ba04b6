package commands

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/objdictgen/objdict-go/pkg/definition"
	"github.com/objdictgen/objdict-go/pkg/log"
	"github.com/objdictgen/objdict-go/pkg/validate"
)

// ValidateOptions configures the validate command.
type ValidateOptions struct {
	JSON          bool
	Profile       string
	SkipMandatory bool
	Files         []string
	loggerOptions
}

// RunValidate runs the validate command.
func RunValidate(args []string, stdout, stderr io.Writer) int {
	opts, err := parseValidateArgs(args)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}

	if len(opts.Files) == 0 {
		fmt.Fprintln(stderr, "Error: no files specified")
		printValidateUsage(stderr)
		return exitCommandError
	}

	logger, closeLog, err := openLogger(opts.loggerOptions, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}
	defer closeLog()

	cfg := validate.DefaultConfig()
	cfg.SkipMandatory = opts.SkipMandatory
	if opts.Profile != "" {
		p := validate.LookupProfile(opts.Profile)
		cfg.Profile = &p
	}
	validator := validate.NewValidator(cfg)

	hasErrors := false
	results := make(map[string]*ValidationOutput)

	for _, file := range opts.Files {
		result := validateFile(file, validator, logger)
		results[file] = result

		if !result.Valid {
			hasErrors = true
		}

		if !opts.JSON {
			printValidationResult(stdout, file, result)
		}
	}

	if opts.JSON {
		output, _ := json.MarshalIndent(results, "", "  ")
		fmt.Fprintln(stdout, string(output))
	}

	if hasErrors {
		return exitValidation
	}
	return exitSuccess
}

// ValidationOutput represents the validation result for a file.
type ValidationOutput struct {
	Valid   bool          `json:"valid"`
	Name    string        `json:"name,omitempty"`
	Entries int           `json:"entries,omitempty"`
	Errors  []IssueOutput `json:"errors,omitempty"`
}

// IssueOutput represents one build or validation problem.
type IssueOutput struct {
	Code     string `json:"code"`
	Index    string `json:"index,omitempty"`
	SubIndex *int   `json:"sub_index,omitempty"`
	Message  string `json:"message"`
}

func validateFile(path string, validator *validate.Validator, logger log.Logger) *ValidationOutput {
	output := &ValidationOutput{Valid: true}

	d, err := loadDictionary(path, logger)
	if err != nil {
		output.Valid = false
		buildErrs := definition.Errors(err)
		if len(buildErrs) == 0 {
			output.Errors = append(output.Errors, IssueOutput{Code: "PARSE", Message: err.Error()})
			return output
		}
		for _, be := range buildErrs {
			output.Errors = append(output.Errors, IssueOutput{
				Code:     "BUILD",
				Index:    fmt.Sprintf("0x%04X", be.Index),
				SubIndex: subIndexPtr(be.SubIndex),
				Message:  be.Err.Error(),
			})
		}
		return output
	}

	meta := d.Metadata()
	output.Name = meta.Name
	output.Entries = d.Len()

	if err := validator.Validate(d); err != nil {
		output.Valid = false
		var verrs validate.ValidationErrors
		if !errors.As(err, &verrs) {
			output.Errors = append(output.Errors, IssueOutput{Code: "VALIDATE", Message: err.Error()})
			return output
		}
		for _, ve := range verrs {
			output.Errors = append(output.Errors, IssueOutput{
				Code:     string(ve.Rule),
				Index:    fmt.Sprintf("0x%04X", ve.Index),
				SubIndex: subIndexPtr(ve.SubIndex),
				Message:  ve.Message,
			})
		}
	}
	return output
}

func subIndexPtr(sub int) *int {
	if sub < 0 {
		return nil
	}
	return &sub
}

func printValidationResult(w io.Writer, file string, result *ValidationOutput) {
	if result.Valid {
		fmt.Fprintf(w, "%s: OK (%d entries)\n", file, result.Entries)
		return
	}

	fmt.Fprintf(w, "%s: FAILED (%d errors)\n", file, len(result.Errors))
	for _, e := range result.Errors {
		switch {
		case e.SubIndex != nil:
			fmt.Fprintf(w, "  ERROR [%ssub%d] %s: %s\n", e.Index, *e.SubIndex, e.Code, e.Message)
		case e.Index != "":
			fmt.Fprintf(w, "  ERROR [%s] %s: %s\n", e.Index, e.Code, e.Message)
		default:
			fmt.Fprintf(w, "  ERROR %s: %s\n", e.Code, e.Message)
		}
	}
}

func parseValidateArgs(args []string) (ValidateOptions, error) {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	opts := ValidateOptions{}

	fs.BoolVar(&opts.JSON, "json", false, "Output results as JSON")
	fs.StringVar(&opts.Profile, "profile", "", "Check against this profile instead of the one in the file")
	fs.BoolVar(&opts.SkipMandatory, "skip-mandatory", false, "Do not require the profile's mandatory entries")
	fs.StringVar(&opts.LogFile, "log", "", "Write dictionary events to this CBOR log file")
	fs.BoolVar(&opts.Debug, "debug", false, "Print dictionary events to stderr")

	fs.Usage = func() {}

	if err := fs.Parse(args); err != nil {
		return opts, err
	}

	opts.Files = fs.Args()
	return opts, nil
}

func printValidateUsage(w io.Writer) {
	fmt.Fprintln(w, `
Usage: odtool validate [options] <files...>

Options:
  --json             Output results as JSON
  --profile NAME     Check against profile NAME
  --skip-mandatory   Do not require mandatory entries
  --log FILE         Write dictionary events to FILE
  --debug            Print dictionary events to stderr

Examples:
  odtool validate node.jsonc
  odtool validate --json --profile DS-301 *.jsonc`)
}
