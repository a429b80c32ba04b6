package definition

// DefaultStringSize is used when a document does not set
// default_string_size.
const DefaultStringSize = 10

// Document is the top-level definition tree.
type Document struct {
	ID          string `json:"$id" yaml:"$id"`
	Version     string `json:"$version" yaml:"$version"`
	Description string `json:"$description" yaml:"$description"`
	Tool        string `json:"$tool,omitempty" yaml:"$tool,omitempty"`
	Date        string `json:"$date,omitempty" yaml:"$date,omitempty"`

	Name     string `json:"name" yaml:"name"`
	NodeDesc string `json:"description" yaml:"description"`
	NodeType string `json:"type" yaml:"type"` // "master" or "slave"
	NodeID   int    `json:"id" yaml:"id"`
	Profile  string `json:"profile" yaml:"profile"`

	// DefaultStringSize is nil when absent; 0 means unlimited.
	DefaultStringSize *int `json:"default_string_size" yaml:"default_string_size"`

	Dictionary []EntryDef `json:"dictionary" yaml:"dictionary"`
}

// StringSize returns the effective default string size.
func (d *Document) StringSize() int {
	if d.DefaultStringSize == nil {
		return DefaultStringSize
	}
	return *d.DefaultStringSize
}

// EntryDef is one entry of the dictionary list.
type EntryDef struct {
	Index     any      `json:"index" yaml:"index"` // "0x2000" or 8192
	Name      string   `json:"name" yaml:"name"`
	Struct    string   `json:"struct" yaml:"struct"` // "var", "record", "array"
	Mandatory bool     `json:"mandatory" yaml:"mandatory"`
	Group     string   `json:"group,omitempty" yaml:"group,omitempty"`
	Sub       []SubDef `json:"sub" yaml:"sub"`
	Each      *SubDef  `json:"each,omitempty" yaml:"each,omitempty"`
	Repeat    bool     `json:"repeat,omitempty" yaml:"repeat,omitempty"`
	Comment   string   `json:"comment,omitempty" yaml:"comment,omitempty"`
}

// SubDef is one sub-entry of an entry.
type SubDef struct {
	Name   string `json:"name" yaml:"name"`
	Type   any    `json:"type" yaml:"type"` // "UNSIGNED8", "0x05" or 5
	Access string `json:"access" yaml:"access"`
	PDO    bool   `json:"pdo" yaml:"pdo"`
	Value  any    `json:"value,omitempty" yaml:"value,omitempty"`
	NbMax  int    `json:"nbmax,omitempty" yaml:"nbmax,omitempty"`
}
