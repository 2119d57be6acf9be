package schema

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"sigs.k8s.io/yaml"
)

// JSONFormatter writes a schema as a JSON document.
type JSONFormatter struct {
	writer io.Writer

	// Indent is the indentation string for nested elements. Empty
	// produces compact single-line output.
	Indent string
}

// NewJSONFormatter creates a new JSON formatter writing to w.
func NewJSONFormatter(w io.Writer) *JSONFormatter {
	return &JSONFormatter{writer: w, Indent: "  "}
}

// Format writes the schema in JSON format.
func (f *JSONFormatter) Format(s *Schema) error {
	var (
		data []byte
		err  error
	)
	if f.Indent != "" {
		data, err = json.MarshalIndent(s, "", f.Indent)
	} else {
		data, err = json.Marshal(s)
	}
	if err != nil {
		return &ExportError{Err: err}
	}
	data = append(data, '\n')
	if _, err := f.writer.Write(data); err != nil {
		return &ExportError{Err: err}
	}
	return nil
}

// YAMLFormatter writes a schema as a YAML document.
type YAMLFormatter struct {
	writer io.Writer
}

// NewYAMLFormatter creates a new YAML formatter writing to w.
func NewYAMLFormatter(w io.Writer) *YAMLFormatter {
	return &YAMLFormatter{writer: w}
}

// Format writes the schema in YAML format.
func (f *YAMLFormatter) Format(s *Schema) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return &ExportError{Err: err}
	}
	if _, err := f.writer.Write(data); err != nil {
		return &ExportError{Err: err}
	}
	return nil
}

// CSVFormatter writes a schema as CSV, one row per field with a
// name,type,nullable header.
type CSVFormatter struct {
	writer io.Writer
}

// NewCSVFormatter creates a new CSV formatter writing to w.
func NewCSVFormatter(w io.Writer) *CSVFormatter {
	return &CSVFormatter{writer: w}
}

// Format writes the schema in CSV format.
func (f *CSVFormatter) Format(s *Schema) error {
	w := csv.NewWriter(f.writer)
	if err := w.Write([]string{"name", "type", "nullable"}); err != nil {
		return &ExportError{Err: err}
	}
	for _, field := range s.Fields {
		row := []string{field.Name, string(field.Type), strconv.FormatBool(field.Nullable)}
		if err := w.Write(row); err != nil {
			return &ExportError{Err: err}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return &ExportError{Err: err}
	}
	return nil
}

// NewFormatter returns the formatter for the given format writing to w.
func NewFormatter(w io.Writer, format Format) (interface{ Format(*Schema) error }, error) {
	switch format {
	case FormatJSON, "":
		return NewJSONFormatter(w), nil
	case FormatYAML:
		return NewYAMLFormatter(w), nil
	case FormatCSV:
		return NewCSVFormatter(w), nil
	default:
		return nil, fmt.Errorf("unknown export format: %q", format)
	}
}

// JSON returns the schema serialized as an indented JSON string.
// Pass an empty indent for compact output.
func (s *Schema) JSON(indent string) (string, error) {
	var buf bytes.Buffer
	f := NewJSONFormatter(&buf)
	f.Indent = indent
	if err := f.Format(s); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// YAML returns the schema serialized as a YAML string.
func (s *Schema) YAML() (string, error) {
	var buf bytes.Buffer
	if err := NewYAMLFormatter(&buf).Format(s); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// CSV returns the schema serialized as a CSV string with a
// name,type,nullable header.
func (s *Schema) CSV() (string, error) {
	var buf bytes.Buffer
	if err := NewCSVFormatter(&buf).Format(s); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Write writes the schema to w in the schema's default format.
func (s *Schema) Write(w io.Writer) error {
	f, err := NewFormatter(w, s.Format)
	if err != nil {
		return &ExportError{Err: err}
	}
	return f.Format(s)
}

// WriteFile writes the schema to path. The format is taken from the
// destination extension (.json, .yaml, .yml, .csv) and falls back to
// the schema's default format for unrecognized extensions.
func (s *Schema) WriteFile(path string) error {
	format := s.Format
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		format = FormatJSON
	case ".yaml", ".yml":
		format = FormatYAML
	case ".csv":
		format = FormatCSV
	}
	return s.writeFile(path, format)
}

// WriteJSON writes the schema to path as JSON.
func (s *Schema) WriteJSON(path string) error { return s.writeFile(path, FormatJSON) }

// WriteYAML writes the schema to path as YAML.
func (s *Schema) WriteYAML(path string) error { return s.writeFile(path, FormatYAML) }

// WriteCSV writes the schema to path as CSV.
func (s *Schema) WriteCSV(path string) error { return s.writeFile(path, FormatCSV) }

func (s *Schema) writeFile(path string, format Format) error {
	file, err := os.Create(path)
	if err != nil {
		return &ExportError{Path: path, Err: err}
	}
	f, err := NewFormatter(file, format)
	if err != nil {
		_ = file.Close()
		return &ExportError{Path: path, Err: err}
	}
	ferr := f.Format(s)
	cerr := file.Close()
	if ferr != nil {
		if ee, ok := ferr.(*ExportError); ok {
			ee.Path = path
			return ee
		}
		return &ExportError{Path: path, Err: ferr}
	}
	if cerr != nil {
		return &ExportError{Path: path, Err: cerr}
	}
	return nil
}
