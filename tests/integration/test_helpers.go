//go:build integration
// +build integration

package integration

import (
	"testing"

	"github.com/schemarize/schemarize/schema"
)

// verifyField checks that the schema contains a field with the given
// name, type, and nullability.
func verifyField(t *testing.T, s *schema.Schema, name string, wantType schema.Type, wantNullable bool) {
	t.Helper()

	for _, f := range s.Fields {
		if f.Name != name {
			continue
		}
		if f.Type != wantType {
			t.Errorf("field %s: expected type %s, got %s", name, wantType, f.Type)
		}
		if f.Nullable != wantNullable {
			t.Errorf("field %s: expected nullable=%v, got %v", name, wantNullable, f.Nullable)
		}
		return
	}
	t.Errorf("field %s not found in schema (have %v)", name, s.FieldNames())
}
