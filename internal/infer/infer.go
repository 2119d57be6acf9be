// Package infer resolves a single representative type for a column
// from the raw values observed in a bounded sample.
package infer

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/schemarize/schemarize/schema"
)

// timestampLayouts are tried in order when tagging string values.
// Best-effort: common ISO-style layouts only.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// TagOf returns the type tag for a single raw value. Nil is tagged
// TypeUnknown; callers treat it as a null observation, not a type.
//
// Strings go through successive parse attempts in precedence order
// boolean, integer, float, timestamp, and fall back to string. Only
// the literals true/false (any case) count as booleans so that 0/1
// columns stay numeric.
func TagOf(v any) schema.Type {
	switch x := v.(type) {
	case nil:
		return schema.TypeUnknown
	case bool:
		return schema.TypeBoolean
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return schema.TypeInteger
	case float32:
		return schema.TypeFloat
	case float64:
		return schema.TypeFloat
	case json.Number:
		if _, err := strconv.ParseInt(x.String(), 10, 64); err == nil {
			return schema.TypeInteger
		}
		return schema.TypeFloat
	case time.Time:
		return schema.TypeTimestamp
	case []byte:
		return tagString(string(x))
	case string:
		return tagString(x)
	case map[string]any:
		return schema.TypeObject
	case []any:
		return schema.TypeArray
	default:
		return schema.TypeMixed
	}
}

func tagString(s string) schema.Type {
	s = strings.TrimSpace(s)
	if s == "" {
		return schema.TypeUnknown
	}
	switch strings.ToLower(s) {
	case "true", "false":
		return schema.TypeBoolean
	}
	if _, err := strconv.ParseInt(s, 10, 64); err == nil {
		return schema.TypeInteger
	}
	if _, err := strconv.ParseFloat(s, 64); err == nil {
		return schema.TypeFloat
	}
	for _, layout := range timestampLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return schema.TypeTimestamp
		}
	}
	return schema.TypeString
}

// Widen joins two observed tags into the narrowest tag that accepts
// both. Integers widen to floats; any other disagreement resolves to
// TypeMixed rather than guessing a common representation. TypeUnknown
// is the identity element.
func Widen(a, b schema.Type) schema.Type {
	if a == b {
		return a
	}
	if a == schema.TypeUnknown {
		return b
	}
	if b == schema.TypeUnknown {
		return a
	}
	if isNumeric(a) && isNumeric(b) {
		return schema.TypeFloat
	}
	return schema.TypeMixed
}

func isNumeric(t schema.Type) bool {
	return t == schema.TypeInteger || t == schema.TypeFloat
}

// Column reduces the raw values sampled for one column to a type tag
// and a nullable flag. Nulls (nil values, blank strings) are excluded
// from type determination but mark the column nullable. An empty or
// all-null sample resolves to TypeUnknown with nullable=true.
func Column(values []any) (schema.Type, bool) {
	tag := schema.TypeUnknown
	nullable := false
	observed := false

	for _, v := range values {
		if isNull(v) {
			nullable = true
			continue
		}
		observed = true
		tag = Widen(tag, TagOf(v))
	}

	if !observed {
		return schema.TypeUnknown, true
	}
	return tag, nullable
}

func isNull(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(x) == ""
	case []byte:
		return len(x) == 0
	}
	return false
}
