package schemarize

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/schemarize/schemarize/schema"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func TestSchemarizeCSV(t *testing.T) {
	path := writeTemp(t, "data.csv", "a,b\n1,true\n2,false\n")

	s, err := Schemarize(context.Background(), path, nil)
	if err != nil {
		t.Fatalf("Schemarize failed: %v", err)
	}

	want := []schema.Field{
		{Name: "a", Type: schema.TypeInteger, Nullable: false},
		{Name: "b", Type: schema.TypeBoolean, Nullable: false},
	}
	if len(s.Fields) != len(want) {
		t.Fatalf("expected %d fields, got %d", len(want), len(s.Fields))
	}
	for i, f := range want {
		if s.Fields[i] != f {
			t.Errorf("field %d: expected %+v, got %+v", i, f, s.Fields[i])
		}
	}
}

func TestSchemarizeTypeResolution(t *testing.T) {
	tests := []struct {
		name         string
		csv          string
		wantType     schema.Type
		wantNullable bool
	}{
		{"widening to mixed", "v\n1\n2\nx\n", schema.TypeMixed, false},
		{"numeric widening", "v\n1\n2.5\n", schema.TypeFloat, false},
		{"nullable integer", "v\n1\n\"\"\n3\n", schema.TypeInteger, true},
		{"timestamps", "v\n2024-01-01\n2024-06-15\n", schema.TypeTimestamp, false},
		{"header only", "v\n", schema.TypeUnknown, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTemp(t, "data.csv", tt.csv)

			s, err := Schemarize(context.Background(), path, nil)
			if err != nil {
				t.Fatalf("Schemarize failed: %v", err)
			}
			if len(s.Fields) != 1 {
				t.Fatalf("expected 1 field, got %d", len(s.Fields))
			}
			if s.Fields[0].Type != tt.wantType {
				t.Errorf("expected type %s, got %s", tt.wantType, s.Fields[0].Type)
			}
			if s.Fields[0].Nullable != tt.wantNullable {
				t.Errorf("expected nullable=%v, got %v", tt.wantNullable, s.Fields[0].Nullable)
			}
		})
	}
}

func TestSchemarizeJSONL(t *testing.T) {
	content := `{"id": 1, "score": 9.5, "tags": ["a"]}
{"id": 2, "score": 8, "note": "ok"}
`
	path := writeTemp(t, "data.jsonl", content)

	s, err := Schemarize(context.Background(), path, nil)
	if err != nil {
		t.Fatalf("Schemarize failed: %v", err)
	}

	byName := make(map[string]schema.Field)
	for _, f := range s.Fields {
		byName[f.Name] = f
	}

	if got := byName["id"].Type; got != schema.TypeInteger {
		t.Errorf("id: expected integer, got %s", got)
	}
	if got := byName["score"].Type; got != schema.TypeFloat {
		t.Errorf("score: expected float (widened), got %s", got)
	}
	if got := byName["tags"].Type; got != schema.TypeArray {
		t.Errorf("tags: expected array, got %s", got)
	}

	// note is absent from the first record, so it is nullable.
	note := byName["note"]
	if note.Type != schema.TypeString || !note.Nullable {
		t.Errorf("note: expected nullable string, got %+v", note)
	}

	// Column order follows first observation.
	names := s.FieldNames()
	wantOrder := []string{"id", "score", "tags", "note"}
	for i, n := range wantOrder {
		if names[i] != n {
			t.Fatalf("expected column order %v, got %v", wantOrder, names)
		}
	}
}

func TestSchemarizeJSONArray(t *testing.T) {
	path := writeTemp(t, "data.json", `[{"a": 1, "b": {"k": 1}}, {"a": null, "b": {"k": 2}}]`)

	s, err := Schemarize(context.Background(), path, nil)
	if err != nil {
		t.Fatalf("Schemarize failed: %v", err)
	}

	if len(s.Fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(s.Fields))
	}
	if s.Fields[0].Type != schema.TypeInteger || !s.Fields[0].Nullable {
		t.Errorf("a: expected nullable integer, got %+v", s.Fields[0])
	}
	if s.Fields[1].Type != schema.TypeObject {
		t.Errorf("b: expected object, got %+v", s.Fields[1])
	}
}

func TestSchemarizeSampleBound(t *testing.T) {
	// Build a CSV far larger than the sample bound. The tail rows
	// would widen the column to mixed if they were read.
	gofakeit.Seed(11)

	var sb strings.Builder
	sb.WriteString("id,word\n")
	for i := 0; i < 500; i++ {
		fmt.Fprintf(&sb, "%d,%s\n", i, gofakeit.Word())
	}
	for i := 0; i < 100; i++ {
		fmt.Fprintf(&sb, "not-a-number,%d\n", i)
	}
	path := writeTemp(t, "big.csv", sb.String())

	s, err := Schemarize(context.Background(), path, &Options{SampleSize: 50})
	if err != nil {
		t.Fatalf("Schemarize failed: %v", err)
	}

	if got := s.Fields[0].Type; got != schema.TypeInteger {
		t.Errorf("expected integer from bounded sample, got %s", got)
	}

	// Unbounded sampling does reach the tail.
	s, err = Schemarize(context.Background(), path, &Options{SampleSize: -1})
	if err != nil {
		t.Fatalf("Schemarize failed: %v", err)
	}
	if got := s.Fields[0].Type; got != schema.TypeMixed {
		t.Errorf("expected mixed from full scan, got %s", got)
	}
}

func TestSchemarizeReader(t *testing.T) {
	r := strings.NewReader("x,y\n1,2\n")

	s, err := Schemarize(context.Background(), r, &Options{Format: "csv"})
	if err != nil {
		t.Fatalf("Schemarize failed: %v", err)
	}
	if len(s.Fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(s.Fields))
	}

	// A reader without a format cannot be dispatched.
	_, err = Schemarize(context.Background(), strings.NewReader(""), nil)
	var uerr *UnsupportedSourceError
	if !errors.As(err, &uerr) {
		t.Fatalf("expected UnsupportedSourceError, got %v", err)
	}
}

func TestSchemarizeUnsupported(t *testing.T) {
	tests := []struct {
		name   string
		source any
	}{
		{"txt extension", "notes.txt"},
		{"no extension", "README"},
		{"unsupported type", 42},
		{"unknown scheme", "redis://localhost/0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Schemarize(context.Background(), tt.source, nil)
			var uerr *UnsupportedSourceError
			if !errors.As(err, &uerr) {
				t.Fatalf("expected UnsupportedSourceError, got %v", err)
			}
		})
	}
}

func TestSchemarizeMalformedAborts(t *testing.T) {
	path := writeTemp(t, "data.csv", "a,b\n1,2\n3\n")

	s, err := Schemarize(context.Background(), path, nil)
	var merr *MalformedRecordError
	if !errors.As(err, &merr) {
		t.Fatalf("expected MalformedRecordError, got %v", err)
	}
	if s != nil {
		t.Error("expected no partial schema after a malformed record")
	}
}

func TestSchemarizeDatabaseRequiresTable(t *testing.T) {
	_, err := Schemarize(context.Background(), "sqlite://test.db", nil)
	var uerr *UnsupportedSourceError
	if !errors.As(err, &uerr) {
		t.Fatalf("expected UnsupportedSourceError, got %v", err)
	}
	if !strings.Contains(uerr.Source, "Options.Table") {
		t.Errorf("expected error to name the missing option, got %q", uerr.Source)
	}
}

func TestSchemarizeOutputFormat(t *testing.T) {
	path := writeTemp(t, "data.csv", "a\n1\n")

	s, err := Schemarize(context.Background(), path, &Options{Output: schema.FormatYAML})
	if err != nil {
		t.Fatalf("Schemarize failed: %v", err)
	}

	var buf strings.Builder
	if err := s.Write(&buf); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if !strings.Contains(buf.String(), "fields:") {
		t.Errorf("expected YAML output, got:\n%s", buf.String())
	}

	// The convenience default does not restrict other exports.
	if _, err := s.JSON(""); err != nil {
		t.Errorf("JSON export failed: %v", err)
	}
	if _, err := s.CSV(); err != nil {
		t.Errorf("CSV export failed: %v", err)
	}
}
