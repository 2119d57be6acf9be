package source

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/schemarize/schemarize/schema"
)

// CSVSource samples rows from CSV input. The first row is the header;
// every following row becomes one Record with the header as column
// names. Rows with the wrong number of fields, or any other CSV parse
// failure, abort sampling with schema.MalformedRecordError.
type CSVSource struct {
	open func() (io.ReadCloser, error)
}

// Sample reads the header plus up to limit data rows.
func (s *CSVSource) Sample(ctx context.Context, limit int) ([]Record, error) {
	rc, err := s.open()
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()

	r := csv.NewReader(rc)

	header, err := r.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, &schema.MalformedRecordError{Format: "csv", Record: 1, Err: err}
	}

	var records []Record
	for line := 2; limit <= 0 || len(records) < limit; line++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				line = perr.Line
			}
			return nil, &schema.MalformedRecordError{Format: "csv", Record: line, Err: err}
		}

		values := make([]any, len(row))
		for i, cell := range row {
			if cell == "" {
				values[i] = nil
				continue
			}
			values[i] = cell
		}
		if len(row) != len(header) {
			// FieldsPerRecord enforcement normally catches this;
			// guard anyway so Names and Values stay aligned.
			return nil, &schema.MalformedRecordError{
				Format: "csv",
				Record: line,
				Err:    fmt.Errorf("row has %d fields, header has %d", len(row), len(header)),
			}
		}
		records = append(records, Record{Names: header, Values: values})
	}

	if len(records) == 0 {
		// Header-only input still names its columns. One all-null
		// record resolves each to unknown and nullable.
		return []Record{{Names: header, Values: make([]any, len(header))}}, nil
	}
	return records, nil
}
