package source

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/schemarize/schemarize/schema"
)

// JSONSource samples elements of a single JSON array of objects. The
// document is parsed incrementally with a streaming decoder, so only
// the sampled prefix is ever materialized regardless of document size.
type JSONSource struct {
	open func() (io.ReadCloser, error)
}

// Sample reads up to limit array elements.
func (s *JSONSource) Sample(ctx context.Context, limit int) ([]Record, error) {
	rc, err := s.open()
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()

	dec := json.NewDecoder(rc)
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, &schema.MalformedRecordError{Format: "json", Err: err}
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '[' {
		return nil, &schema.MalformedRecordError{
			Format: "json",
			Err:    fmt.Errorf("expected top-level array, found %v", tok),
		}
	}

	var records []Record
	for limit <= 0 || len(records) < limit {
		if !dec.More() {
			break
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rec, err := decodeObject(dec)
		if err != nil {
			return nil, &schema.MalformedRecordError{Format: "json", Record: len(records) + 1, Err: err}
		}
		records = append(records, rec)
	}

	return records, nil
}

// JSONLSource samples records from JSON Lines input, one object per
// line. Blank lines are skipped. A line that fails to decode aborts
// sampling with schema.MalformedRecordError carrying the line number.
type JSONLSource struct {
	open func() (io.ReadCloser, error)
}

// Sample reads up to limit JSONL records.
func (s *JSONLSource) Sample(ctx context.Context, limit int) ([]Record, error) {
	rc, err := s.open()
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()

	scanner := bufio.NewScanner(rc)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var records []Record
	for line := 1; limit <= 0 || len(records) < limit; line++ {
		if !scanner.Scan() {
			break
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		dec := json.NewDecoder(strings.NewReader(text))
		dec.UseNumber()
		rec, err := decodeObject(dec)
		if err != nil {
			return nil, &schema.MalformedRecordError{Format: "jsonl", Record: line, Err: err}
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

// decodeObject decodes one JSON object from dec into a Record,
// preserving key order. A plain map would lose the order the keys
// appear in, so the object is walked token by token.
func decodeObject(dec *json.Decoder) (Record, error) {
	tok, err := dec.Token()
	if err != nil {
		return Record{}, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return Record{}, fmt.Errorf("expected object, found %v", tok)
	}

	var rec Record
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return Record{}, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return Record{}, fmt.Errorf("expected object key, found %v", keyTok)
		}

		var val any
		if err := dec.Decode(&val); err != nil {
			return Record{}, err
		}
		rec.Names = append(rec.Names, key)
		rec.Values = append(rec.Values, val)
	}

	// Consume the closing brace.
	if _, err := dec.Token(); err != nil {
		return Record{}, err
	}
	return rec, nil
}
