package schema

// Type is the inferred type tag for a column.
type Type string

const (
	TypeUnknown   Type = "unknown"
	TypeBoolean   Type = "boolean"
	TypeInteger   Type = "integer"
	TypeFloat     Type = "float"
	TypeTimestamp Type = "timestamp"
	TypeString    Type = "string"
	TypeObject    Type = "object"
	TypeArray     Type = "array"
	TypeMixed     Type = "mixed"
)

// Format selects a schema export representation.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCSV  Format = "csv"
)

// Valid reports whether f is a recognized export format.
func (f Format) Valid() bool {
	switch f {
	case FormatJSON, FormatYAML, FormatCSV:
		return true
	}
	return false
}

// Field describes a single column: its name, the inferred type, and
// whether null or missing values were observed for it.
type Field struct {
	Name     string `json:"name"`
	Type     Type   `json:"type"`
	Nullable bool   `json:"nullable"`
}

// Schema is an ordered list of fields, one per column, in the order the
// columns were first observed in the source. A Schema is not modified
// after construction; all export methods are read-only.
type Schema struct {
	Fields []Field `json:"fields"`

	// Default export format used by Write and WriteFile when the
	// destination does not imply one. Empty means JSON.
	Format Format `json:"-"`
}

// Dict returns the schema as a plain nested structure, the same shape
// the JSON and YAML exports serialize.
func (s *Schema) Dict() map[string]any {
	fields := make([]map[string]any, 0, len(s.Fields))
	for _, f := range s.Fields {
		fields = append(fields, map[string]any{
			"name":     f.Name,
			"type":     string(f.Type),
			"nullable": f.Nullable,
		})
	}
	return map[string]any{"fields": fields}
}

// FieldNames returns the column names in schema order.
func (s *Schema) FieldNames() []string {
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
	}
	return names
}
