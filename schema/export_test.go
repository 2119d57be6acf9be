package schema

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func sampleSchema() *Schema {
	return &Schema{Fields: []Field{
		{Name: "id", Type: TypeInteger, Nullable: false},
		{Name: "name", Type: TypeString, Nullable: true},
		{Name: "active", Type: TypeBoolean, Nullable: false},
	}}
}

func TestJSONRoundTrip(t *testing.T) {
	s := sampleSchema()

	out, err := s.JSON("  ")
	if err != nil {
		t.Fatalf("JSON failed: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	fields, ok := decoded["fields"].([]any)
	if !ok {
		t.Fatalf("expected fields array, got %T", decoded["fields"])
	}
	if len(fields) != len(s.Fields) {
		t.Errorf("expected %d fields, got %d", len(s.Fields), len(fields))
	}

	first, ok := fields[0].(map[string]any)
	if !ok {
		t.Fatalf("expected field object, got %T", fields[0])
	}
	if first["name"] != "id" || first["type"] != "integer" || first["nullable"] != false {
		t.Errorf("unexpected first field: %v", first)
	}
}

func TestExportIdempotence(t *testing.T) {
	s := sampleSchema()

	tests := []struct {
		name   string
		export func() (string, error)
	}{
		{"json", func() (string, error) { return s.JSON("  ") }},
		{"yaml", s.YAML},
		{"csv", s.CSV},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first, err := tt.export()
			if err != nil {
				t.Fatalf("first export failed: %v", err)
			}
			second, err := tt.export()
			if err != nil {
				t.Fatalf("second export failed: %v", err)
			}
			if first != second {
				t.Errorf("export is not idempotent:\nfirst:\n%s\nsecond:\n%s", first, second)
			}
		})
	}
}

func TestCSVExport(t *testing.T) {
	s := sampleSchema()

	out, err := s.CSV()
	if err != nil {
		t.Fatalf("CSV failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header plus 3 rows, got %d lines", len(lines))
	}
	if lines[0] != "name,type,nullable" {
		t.Errorf("unexpected header: %q", lines[0])
	}
	if lines[2] != "name,string,true" {
		t.Errorf("unexpected row: %q", lines[2])
	}
}

func TestYAMLExport(t *testing.T) {
	s := sampleSchema()

	out, err := s.YAML()
	if err != nil {
		t.Fatalf("YAML failed: %v", err)
	}
	if !strings.Contains(out, "fields:") {
		t.Errorf("expected fields key in YAML output:\n%s", out)
	}
	if !strings.Contains(out, "name: id") {
		t.Errorf("expected field name in YAML output:\n%s", out)
	}
}

func TestDict(t *testing.T) {
	s := sampleSchema()

	d := s.Dict()
	fields, ok := d["fields"].([]map[string]any)
	if !ok {
		t.Fatalf("expected fields slice, got %T", d["fields"])
	}
	if len(fields) != 3 {
		t.Fatalf("expected 3 fields, got %d", len(fields))
	}
	if fields[1]["nullable"] != true {
		t.Errorf("expected name column nullable, got %v", fields[1]["nullable"])
	}
}

func TestWriteFileByExtension(t *testing.T) {
	s := sampleSchema()
	dir := t.TempDir()

	tests := []struct {
		file string
		want string
	}{
		{"schema.json", "\"fields\""},
		{"schema.yaml", "fields:"},
		{"schema.csv", "name,type,nullable"},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			path := filepath.Join(dir, tt.file)
			if err := s.WriteFile(path); err != nil {
				t.Fatalf("WriteFile failed: %v", err)
			}
			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("reading output: %v", err)
			}
			if !strings.Contains(string(data), tt.want) {
				t.Errorf("expected %q in output:\n%s", tt.want, data)
			}
		})
	}
}

func TestWriteFileUnwritable(t *testing.T) {
	s := sampleSchema()

	err := s.WriteJSON(filepath.Join(t.TempDir(), "no", "such", "dir", "schema.json"))
	var eerr *ExportError
	if !errors.As(err, &eerr) {
		t.Fatalf("expected ExportError, got %v", err)
	}
	if eerr.Path == "" {
		t.Error("expected ExportError to carry the destination path")
	}
}

func TestFormatValid(t *testing.T) {
	for _, f := range []Format{FormatJSON, FormatYAML, FormatCSV} {
		if !f.Valid() {
			t.Errorf("expected %q to be valid", f)
		}
	}
	if Format("xml").Valid() {
		t.Error("expected xml to be invalid")
	}
}
