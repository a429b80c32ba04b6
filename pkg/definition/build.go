package definition

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/objdictgen/objdict-go/internal/numeric"
	"github.com/objdictgen/objdict-go/pkg/codec"
	"github.com/objdictgen/objdict-go/pkg/datatype"
	"github.com/objdictgen/objdict-go/pkg/log"
	"github.com/objdictgen/objdict-go/pkg/od"
)

var (
	// ErrInvalidIndex is returned for an index that is not a 16-bit number.
	ErrInvalidIndex = errors.New("invalid index")

	// ErrInvalidValue is returned for a value that cannot be coerced to the
	// sub-entry type.
	ErrInvalidValue = errors.New("invalid value")

	// ErrUnsupported is returned for definition features this package does
	// not build: repeated entries, "each" templates and formula values.
	ErrUnsupported = errors.New("unsupported definition feature")
)

// NoSubIndex marks a BuildError that concerns a whole entry.
const NoSubIndex = -1

// BuildError is one problem found while building a dictionary.
type BuildError struct {
	// Position is the entry's position in the dictionary list.
	Position int

	Index    uint16
	SubIndex int
	Err      error
}

func (e *BuildError) Error() string {
	if e.SubIndex == NoSubIndex {
		return fmt.Sprintf("entry 0x%04X (#%d): %v", e.Index, e.Position, e.Err)
	}
	return fmt.Sprintf("entry 0x%04Xsub%d (#%d): %v", e.Index, e.SubIndex, e.Position, e.Err)
}

func (e *BuildError) Unwrap() error {
	return e.Err
}

// Errors returns the BuildErrors aggregated in err.
func Errors(err error) []*BuildError {
	if err == nil {
		return nil
	}

	var merr *multierror.Error
	if !errors.As(err, &merr) {
		var be *BuildError
		if errors.As(err, &be) {
			return []*BuildError{be}
		}
		return nil
	}

	var result []*BuildError
	for _, e := range merr.Errors {
		var be *BuildError
		if errors.As(e, &be) {
			result = append(result, be)
		}
	}
	return result
}

// countSubEntryNames are the names a definition may give an explicit count
// sub-entry.
var countSubEntryNames = []string{od.CountSubEntryName, "Highest sub-index supported"}

// Option configures Build.
type Option func(*buildConfig)

type buildConfig struct {
	logger log.Logger
}

// WithLogger attaches l to the built dictionary before any entry is
// inserted, so the insertions are logged too.
func WithLogger(l log.Logger) Option {
	return func(c *buildConfig) {
		c.logger = l
	}
}

// Build resolves doc into a dictionary. Every entry is attempted; on any
// failure no dictionary is returned and the error aggregates one
// *BuildError per problem.
func Build(doc *Document, opts ...Option) (*od.Dictionary, error) {
	if doc == nil {
		return nil, errors.New("definition: nil document")
	}
	var cfg buildConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	d := od.New(od.Metadata{
		ID:                doc.NodeID,
		Name:              doc.Name,
		Description:       doc.NodeDesc,
		Profile:           doc.Profile,
		DefaultStringSize: doc.StringSize(),
	})
	d.SetLogger(cfg.logger)

	var result *multierror.Error
	for pos, def := range doc.Dictionary {
		entry, errs := buildEntry(pos, def)
		if len(errs) > 0 {
			for _, e := range errs {
				result = multierror.Append(result, e)
			}
			continue
		}
		if err := d.Insert(entry); err != nil {
			result = multierror.Append(result, &BuildError{
				Position: pos,
				Index:    entry.Index(),
				SubIndex: NoSubIndex,
				Err:      err,
			})
		}
	}

	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}
	return d, nil
}

func buildEntry(pos int, def EntryDef) (*od.Entry, []*BuildError) {
	index, err := parseIndex(def.Index)
	if err != nil {
		return nil, []*BuildError{{Position: pos, SubIndex: NoSubIndex, Err: err}}
	}
	entryErr := func(err error) []*BuildError {
		return []*BuildError{{Position: pos, Index: index, SubIndex: NoSubIndex, Err: err}}
	}

	if def.Repeat || def.Each != nil || strings.HasPrefix(strings.ToLower(def.Struct), "n") {
		return nil, entryErr(fmt.Errorf("%w: repeated entry %q", ErrUnsupported, def.Struct))
	}
	structure, err := od.ParseStructure(def.Struct)
	if err != nil {
		return nil, entryErr(err)
	}

	subDefs := def.Sub
	offset := 0
	var errs []*BuildError
	if structure.HasCount() && len(subDefs) > 0 && isCountSubEntry(subDefs[0]) {
		if err := checkCountSubEntry(subDefs[0], len(subDefs)-1); err != nil {
			errs = append(errs, &BuildError{Position: pos, Index: index, SubIndex: 0, Err: err})
		}
		subDefs = subDefs[1:]
		offset = 1
	} else if structure.HasCount() {
		offset = 1
	}

	subs := make([]*od.SubEntry, 0, len(subDefs))
	for i, sd := range subDefs {
		sub, err := buildSubEntry(sd)
		if err != nil {
			errs = append(errs, &BuildError{Position: pos, Index: index, SubIndex: i + offset, Err: err})
			continue
		}
		subs = append(subs, sub)
	}
	if len(errs) > 0 {
		return nil, errs
	}

	entry, err := od.NewEntry(index, def.Name, structure, subs)
	if err != nil {
		return nil, entryErr(err)
	}
	entry.SetMandatory(def.Mandatory)
	entry.SetGroup(def.Group)
	return entry, nil
}

func isCountSubEntry(sd SubDef) bool {
	for _, name := range countSubEntryNames {
		if strings.EqualFold(strings.TrimSpace(sd.Name), name) {
			return true
		}
	}
	return false
}

// checkCountSubEntry verifies an explicit count sub-entry has the shape of
// the synthetic one the entry constructors generate.
func checkCountSubEntry(sd SubDef, data int) error {
	t, err := resolveType(sd.Type)
	if err != nil {
		return err
	}
	if t.Code != datatype.CodeUnsigned8 {
		return fmt.Errorf("%w: count sub-entry is %s, want UNSIGNED8", od.ErrStructureMismatch, t.Name)
	}
	access, err := od.ParseAccess(sd.Access)
	if err != nil {
		return err
	}
	if access.CanWrite() {
		return fmt.Errorf("%w: count sub-entry must be read-only, is %s", od.ErrStructureMismatch, access)
	}
	if sd.PDO {
		return fmt.Errorf("%w: count sub-entry must not be PDO-mappable", od.ErrStructureMismatch)
	}
	if sd.Value != nil {
		v, err := coerceValue(t, sd.Value)
		if err != nil {
			return err
		}
		if n, _ := v.Int(); n != int64(data) {
			return fmt.Errorf("%w: count sub-entry holds %d, want %d", od.ErrStructureMismatch, n, data)
		}
	}
	return nil
}

func buildSubEntry(sd SubDef) (*od.SubEntry, error) {
	if sd.NbMax != 0 {
		return nil, fmt.Errorf("%w: nbmax", ErrUnsupported)
	}
	t, err := resolveType(sd.Type)
	if err != nil {
		return nil, err
	}
	access, err := od.ParseAccess(sd.Access)
	if err != nil {
		return nil, err
	}

	sub := od.NewSubEntry(sd.Name, t, access, sd.PDO)
	if sd.Value == nil {
		return sub, nil
	}

	v, err := coerceValue(t, sd.Value)
	if err != nil {
		return nil, err
	}
	if err := sub.SetValue(v); err != nil {
		return nil, err
	}
	return sub, nil
}

func parseIndex(raw any) (uint16, error) {
	var s string
	switch v := raw.(type) {
	case nil:
		return 0, fmt.Errorf("%w: missing", ErrInvalidIndex)
	case string:
		s = strings.TrimSpace(v)
	case json.Number:
		s = v.String()
	case int:
		s = strconv.Itoa(v)
	case uint64:
		s = strconv.FormatUint(v, 10)
	case float64:
		if v != math.Trunc(v) {
			return 0, fmt.Errorf("%w: %v", ErrInvalidIndex, v)
		}
		s = strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return 0, fmt.Errorf("%w: unexpected %T", ErrInvalidIndex, raw)
	}

	n, err := numeric.ParseUint(s, 16)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidIndex, s)
	}
	return uint16(n), nil
}

func resolveType(raw any) (datatype.DataType, error) {
	switch v := raw.(type) {
	case string:
		return datatype.Resolve(v)
	case json.Number:
		return datatype.Resolve(v.String())
	case int:
		if v < 0 || v > math.MaxUint16 {
			return datatype.DataType{}, fmt.Errorf("%w: %d", datatype.ErrUnknownType, v)
		}
		return datatype.Lookup(uint16(v))
	case float64:
		return resolveType(strconv.FormatFloat(v, 'f', -1, 64))
	default:
		return datatype.DataType{}, fmt.Errorf("%w: %v", datatype.ErrUnknownType, raw)
	}
}

// coerceValue turns a decoded JSON or YAML value into the Value variant t
// expects. Range and character checks are left to the codec.
func coerceValue(t datatype.DataType, raw any) (codec.Value, error) {
	if s, ok := raw.(string); ok && strings.Contains(s, "$NODEID") {
		return codec.Value{}, fmt.Errorf("%w: formula %q", ErrUnsupported, s)
	}

	switch t.Encoding {
	case datatype.EncodingBoolean, datatype.EncodingUnsigned, datatype.EncodingSigned:
		n, err := coerceInteger(raw)
		if err != nil {
			return codec.Value{}, err
		}
		return codec.Integer(n), nil
	case datatype.EncodingReal:
		f, err := coerceFloat(raw)
		if err != nil {
			return codec.Value{}, err
		}
		return codec.Real(f), nil
	case datatype.EncodingRaw:
		b, err := coerceBytes(raw)
		if err != nil {
			return codec.Value{}, err
		}
		return codec.Bytes(b), nil
	case datatype.EncodingLatin1, datatype.EncodingUCS2:
		s, ok := raw.(string)
		if !ok {
			return codec.Value{}, fmt.Errorf("%w: want text for %s, got %T", ErrInvalidValue, t.Name, raw)
		}
		return codec.Text(s), nil
	default:
		return codec.Value{}, fmt.Errorf("%w: %s", datatype.ErrUnknownType, t)
	}
}

func coerceInteger(raw any) (int64, error) {
	switch v := raw.(type) {
	case bool:
		if v {
			return 1, nil
		}
		return 0, nil
	case int:
		return int64(v), nil
	case int64:
		return v, nil
	case uint64:
		if v > math.MaxInt64 {
			return 0, fmt.Errorf("%w: %d: %w", ErrInvalidValue, v, codec.ErrValueOutOfRange)
		}
		return int64(v), nil
	case float64:
		if v != math.Trunc(v) || v < math.MinInt64 || v >= math.MaxInt64 {
			return 0, fmt.Errorf("%w: %v is not an integer", ErrInvalidValue, v)
		}
		return int64(v), nil
	case json.Number:
		return parseInteger(v.String())
	case string:
		return parseInteger(v)
	default:
		return 0, fmt.Errorf("%w: want integer, got %T", ErrInvalidValue, raw)
	}
}

func parseInteger(s string) (int64, error) {
	s = strings.TrimSpace(s)
	n, err := numeric.ParseInt(s, 64)
	if err == nil {
		return n, nil
	}
	if errors.Is(err, strconv.ErrRange) {
		return 0, fmt.Errorf("%w: %s: %w", ErrInvalidValue, s, codec.ErrValueOutOfRange)
	}
	return 0, fmt.Errorf("%w: %q is not an integer", ErrInvalidValue, s)
}

func coerceFloat(raw any) (float64, error) {
	switch v := raw.(type) {
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case float64:
		return v, nil
	case json.Number:
		return parseFloat(v.String())
	case string:
		return parseFloat(v)
	default:
		return 0, fmt.Errorf("%w: want number, got %T", ErrInvalidValue, raw)
	}
}

func parseFloat(s string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidValue, s)
	}
	return f, nil
}

// coerceBytes accepts text (taken as its UTF-8 bytes) or a list of byte
// values.
func coerceBytes(raw any) ([]byte, error) {
	switch v := raw.(type) {
	case string:
		return []byte(v), nil
	case []any:
		result := make([]byte, len(v))
		for i, item := range v {
			n, err := coerceInteger(item)
			if err != nil {
				return nil, err
			}
			if n < 0 || n > math.MaxUint8 {
				return nil, fmt.Errorf("%w: byte %d is %d", ErrInvalidValue, i, n)
			}
			result[i] = byte(n)
		}
		return result, nil
	default:
		return nil, fmt.Errorf("%w: want bytes, got %T", ErrInvalidValue, raw)
	}
}
