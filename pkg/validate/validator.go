package validate

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/objdictgen/objdict-go/pkg/codec"
	"github.com/objdictgen/objdict-go/pkg/datatype"
	"github.com/objdictgen/objdict-go/pkg/od"
)

// Rule identifies a validation rule.
type Rule string

const (
	RuleDuplicateIndex Rule = "DUPLICATE_INDEX"
	RuleCardinality    Rule = "CARDINALITY"
	RuleArrayType      Rule = "ARRAY_TYPE"
	RuleMandatory      Rule = "MANDATORY"
	RuleAccessPDO      Rule = "ACCESS_PDO"
	RuleValueType      Rule = "VALUE_TYPE"
	RuleValueRange     Rule = "VALUE_RANGE"
	RuleValueEncoding  Rule = "VALUE_ENCODING"
	RuleValueLength    Rule = "VALUE_LENGTH"
)

// NoSubIndex marks an error that concerns a whole entry.
const NoSubIndex = -1

// ValidationError is one rule violation.
type ValidationError struct {
	Rule     Rule
	Index    uint16
	SubIndex int
	Message  string
}

func (e ValidationError) Error() string {
	if e.SubIndex == NoSubIndex {
		return fmt.Sprintf("0x%04X: %s: %s", e.Index, e.Rule, e.Message)
	}
	return fmt.Sprintf("0x%04Xsub%d: %s: %s", e.Index, e.SubIndex, e.Rule, e.Message)
}

// ValidationErrors is the set of violations found in one pass.
type ValidationErrors []ValidationError

func (errs ValidationErrors) Error() string {
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	return fmt.Sprintf("%d validation error(s): %s", len(errs), strings.Join(msgs, "; "))
}

// Unwrap exposes the individual errors to errors.Is and errors.As.
func (errs ValidationErrors) Unwrap() []error {
	result := make([]error, len(errs))
	for i, e := range errs {
		result[i] = e
	}
	return result
}

// ByRule returns the errors for one rule.
func (errs ValidationErrors) ByRule(rule Rule) ValidationErrors {
	var result ValidationErrors
	for _, e := range errs {
		if e.Rule == rule {
			result = append(result, e)
		}
	}
	return result
}

// Config controls validation.
type Config struct {
	// Profile overrides the profile named in the dictionary metadata.
	Profile *Profile

	// SkipMandatory disables the mandatory-index check, e.g. while a
	// dictionary is still being assembled.
	SkipMandatory bool
}

// DefaultConfig returns the default validation configuration.
func DefaultConfig() Config {
	return Config{}
}

// Validator validates dictionaries.
type Validator struct {
	config Config
}

// NewValidator creates a validator with the given configuration.
func NewValidator(config Config) *Validator {
	return &Validator{config: config}
}

// Validate checks d with the default configuration.
func Validate(d *od.Dictionary) error {
	return NewValidator(DefaultConfig()).Validate(d)
}

// Validate checks d and returns nil or ValidationErrors.
func (v *Validator) Validate(d *od.Dictionary) error {
	c := &collector{}
	meta := d.Metadata()
	entries := d.Entries()

	v.checkUniqueness(entries, c)
	if !v.config.SkipMandatory {
		v.checkMandatory(d, meta, c)
	}
	for _, e := range entries {
		v.checkCardinality(e, c)
		v.checkSubEntries(e, meta, c)
	}

	if len(c.errs) == 0 {
		return nil
	}
	sort.SliceStable(c.errs, func(i, j int) bool {
		if c.errs[i].Index != c.errs[j].Index {
			return c.errs[i].Index < c.errs[j].Index
		}
		return c.errs[i].SubIndex < c.errs[j].SubIndex
	})
	return c.errs
}

type collector struct {
	errs ValidationErrors
}

func (c *collector) add(rule Rule, index uint16, sub int, format string, args ...any) {
	c.errs = append(c.errs, ValidationError{
		Rule:     rule,
		Index:    index,
		SubIndex: sub,
		Message:  fmt.Sprintf(format, args...),
	})
}

// checkUniqueness re-checks what Insert already enforces.
func (v *Validator) checkUniqueness(entries []*od.Entry, c *collector) {
	seen := make(map[uint16]bool, len(entries))
	for _, e := range entries {
		if seen[e.Index()] {
			c.add(RuleDuplicateIndex, e.Index(), NoSubIndex, "index appears more than once")
		}
		seen[e.Index()] = true
	}
}

func (v *Validator) checkMandatory(d *od.Dictionary, meta od.Metadata, c *collector) {
	profile := LookupProfile(meta.Profile)
	if v.config.Profile != nil {
		profile = *v.config.Profile
	}
	for _, idx := range profile.Mandatory {
		if _, ok := d.Get(idx); !ok {
			c.add(RuleMandatory, idx, NoSubIndex, "required by profile %s but missing", profile.Name)
		}
	}
}

func (v *Validator) checkCardinality(e *od.Entry, c *collector) {
	subs := e.SubEntries()
	idx := e.Index()

	switch e.Structure() {
	case od.StructureVar:
		if len(subs) != 1 {
			c.add(RuleCardinality, idx, NoSubIndex, "var has %d sub-entries, want 1", len(subs))
		}
		return
	case od.StructureRecord, od.StructureArray:
	default:
		c.add(RuleCardinality, idx, NoSubIndex, "unknown structure %d", e.Structure())
		return
	}

	if len(subs) == 0 {
		c.add(RuleCardinality, idx, NoSubIndex, "%s has no count sub-entry", e.Structure())
		return
	}

	count := subs[0]
	data := len(subs) - 1
	if count.Type().Code != datatype.CodeUnsigned8 {
		c.add(RuleCardinality, idx, 0, "count sub-entry is %s, want UNSIGNED8", count.Type().Name)
	}
	if count.Access().CanWrite() {
		c.add(RuleCardinality, idx, 0, "count sub-entry must be read-only, is %s", count.Access())
	}
	if count.PDOMappable() {
		c.add(RuleCardinality, idx, 0, "count sub-entry must not be PDO-mappable")
	}
	if data > od.MaxDataSubEntries {
		c.add(RuleCardinality, idx, NoSubIndex, "%d data sub-entries exceed %d", data, od.MaxDataSubEntries)
	}

	if val, ok := count.Value(); !ok {
		c.add(RuleCardinality, idx, 0, "count sub-entry has no value")
	} else if n, isInt := val.Int(); !isInt || n != int64(data) {
		c.add(RuleCardinality, idx, 0, "count sub-entry holds %s, want %d", val, data)
	}

	if e.Structure() == od.StructureArray && data > 1 {
		want := subs[1].Type()
		for i := 2; i < len(subs); i++ {
			if subs[i].Type().Code != want.Code {
				c.add(RuleArrayType, idx, i, "array element is %s, want %s", subs[i].Type().Name, want.Name)
			}
		}
	}
}

func (v *Validator) checkSubEntries(e *od.Entry, meta od.Metadata, c *collector) {
	for i, sub := range e.SubEntries() {
		v.checkAccess(e.Index(), i, sub, c)
		if val, ok := sub.Value(); ok {
			v.checkValue(e.Index(), i, sub.Type(), val, meta, c)
		}
	}
}

func (v *Validator) checkAccess(idx uint16, i int, sub *od.SubEntry, c *collector) {
	mapping := sub.Mapping()
	if mapping.CanReceive() && !sub.Access().CanWrite() {
		c.add(RuleAccessPDO, idx, i, "%s sub-entry mapped as PDO write target", sub.Access())
	}
	if mapping.CanTransmit() && !sub.Access().CanRead() {
		c.add(RuleAccessPDO, idx, i, "%s sub-entry mapped for PDO transmission", sub.Access())
	}
}

func (v *Validator) checkValue(idx uint16, i int, t datatype.DataType, val codec.Value, meta od.Metadata, c *collector) {
	encoded, err := codec.Encode(t, val)
	switch {
	case err == nil:
	case errors.Is(err, codec.ErrValueType), errors.Is(err, datatype.ErrUnknownType):
		c.add(RuleValueType, idx, i, "%v", err)
		return
	case errors.Is(err, codec.ErrValueOutOfRange):
		c.add(RuleValueRange, idx, i, "%v", err)
		return
	default:
		c.add(RuleValueEncoding, idx, i, "%v", err)
		return
	}

	if err := codec.CheckLength(t, encoded, meta.DefaultStringSize); err != nil {
		c.add(RuleValueLength, idx, i, "%v", err)
	}
}
