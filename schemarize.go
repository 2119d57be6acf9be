// Package schemarize infers a data schema (ordered column names,
// inferred types, nullability) from tabular or semi-structured sources
// and exports it as JSON, YAML, or CSV.
//
// A schema is inferred from a bounded sample of records rather than
// the whole dataset: up to SampleSize records are read, each column's
// observed values are reduced to a single type tag (widening integer
// to float where the sample mixes them, falling back to "mixed" when
// no common primitive fits), and null or missing values mark a column
// nullable without affecting its type.
//
// # Quick Start
//
//	s, err := schemarize.Schemarize(context.Background(), "events.csv", nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//	out, _ := s.JSON("  ")
//	fmt.Println(out)
//
// # Sources
//
// The source argument accepts:
//   - a file path ending in .csv, .json, .jsonl, .ndjson, or .parquet,
//     optionally with a .gz, .bz2, or .zst compression suffix
//   - a database URL (postgres://, mysql://, or sqlite://) together
//     with Options.Table naming the table to sample
//   - an io.Reader, with Options.Format naming the stream format
//   - an Arrow record batch or table (arrow.Record, arrow.Table)
//
// Parquet files and Arrow data carry full type metadata, so their
// schemas are read directly and no rows are sampled.
//
// # Exports
//
// The returned schema.Schema exposes Dict, JSON, YAML, and CSV string
// exports plus WriteJSON, WriteYAML, WriteCSV, and WriteFile for file
// destinations:
//
//	err = s.WriteYAML("events.schema.yaml")
//
// Failures are surfaced synchronously as UnsupportedSourceError,
// MalformedRecordError, or ExportError; there is no retry or partial
// result.
package schemarize

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"

	"github.com/schemarize/schemarize/internal/infer"
	"github.com/schemarize/schemarize/internal/source"
	"github.com/schemarize/schemarize/schema"
)

// DefaultSampleSize is the number of records sampled when Options does
// not specify one.
const DefaultSampleSize = 100

// Options configures sampling and the returned schema's default export
// format.
//
// All fields are optional. If not specified:
//   - SampleSize: defaults to DefaultSampleSize; negative means
//     unlimited
//   - Output: defaults to JSON
//   - Format: only consulted for io.Reader sources
//   - Table: only consulted for database URL sources, where it is
//     required
type Options struct {
	// SampleSize caps how many records are read from the source.
	// Zero means DefaultSampleSize; a negative value removes the
	// bound entirely.
	SampleSize int

	// Output is the default export format of the returned schema,
	// used by Schema.Write when the destination does not imply one.
	Output schema.Format

	// Format names the stream format ("csv", "json", "jsonl") when
	// the source is an io.Reader. Readers carry no file extension,
	// so the format cannot be detected.
	Format string

	// Table names the table to sample when the source is a database
	// URL.
	Table string
}

func (o *Options) sampleLimit() int {
	switch {
	case o == nil || o.SampleSize == 0:
		return DefaultSampleSize
	case o.SampleSize < 0:
		return 0
	default:
		return o.SampleSize
	}
}

// Schemarize infers a schema from the given source.
//
// The source is dispatched by dynamic type: strings are treated as
// database URLs when they carry a recognized scheme and as file paths
// otherwise, io.Reader values stream the format named in opts.Format,
// and Arrow records/tables are read from their in-memory schema.
// Anything else fails with UnsupportedSourceError.
//
// At most opts.SampleSize records are read (DefaultSampleSize when
// unset). Each invocation is self-contained: file handles are held
// only for the duration of sampling and released on every exit path,
// and concurrent calls on distinct sources are independent.
func Schemarize(ctx context.Context, src any, opts *Options) (*schema.Schema, error) {
	if opts == nil {
		opts = &Options{}
	}

	s, err := resolveSource(src, opts)
	if err != nil {
		return nil, err
	}

	result, err := buildSchema(ctx, s, opts.sampleLimit())
	if err != nil {
		return nil, err
	}
	result.Format = opts.Output
	return result, nil
}

// resolveSource maps the polymorphic source argument to a sampler.
func resolveSource(src any, opts *Options) (source.Source, error) {
	switch v := src.(type) {
	case string:
		if kind, conn, ok := parseSourceURL(v); ok {
			return resolveDatabase(kind, conn, opts.Table)
		}
		return source.Open(v)
	case io.Reader:
		if opts.Format == "" {
			return nil, &schema.UnsupportedSourceError{Source: "reader without Options.Format"}
		}
		return source.OpenStream(v, opts.Format)
	case arrow.Record:
		return source.NewArrowRecordSource(v), nil
	case arrow.Table:
		return source.NewArrowTableSource(v), nil
	default:
		return nil, &schema.UnsupportedSourceError{Source: fmt.Sprintf("%T", src)}
	}
}

// parseSourceURL detects database URLs and returns the backend kind
// and connection string. Non-URL strings are file paths.
func parseSourceURL(url string) (kind, connectionStr string, ok bool) {
	switch {
	case strings.HasPrefix(url, "postgres://") || strings.HasPrefix(url, "postgresql://"):
		return "postgres", url, true
	case strings.HasPrefix(url, "mysql://"):
		// Strip mysql:// prefix for the Go MySQL driver.
		return "mysql", strings.TrimPrefix(url, "mysql://"), true
	case strings.HasPrefix(url, "sqlite://"):
		// Strip sqlite:// prefix to get the file path.
		return "sqlite", strings.TrimPrefix(url, "sqlite://"), true
	}
	return "", "", false
}

func resolveDatabase(kind, conn, table string) (source.Source, error) {
	if table == "" {
		return nil, &schema.UnsupportedSourceError{Source: "database URL without Options.Table"}
	}
	switch kind {
	case "postgres":
		return source.NewPostgresSource(conn, table), nil
	case "mysql":
		return source.NewMySQLSource(conn, table), nil
	case "sqlite":
		return source.NewSQLiteSource(conn, table), nil
	default:
		return nil, &schema.UnsupportedSourceError{Source: fmt.Sprintf("database scheme %q", kind)}
	}
}

// buildSchema runs the sampler and reduces the collected column
// samples to fields. Sources that expose their column schema as
// metadata skip sampling entirely.
func buildSchema(ctx context.Context, s source.Source, limit int) (*schema.Schema, error) {
	if provider, ok := s.(source.SchemaProvider); ok {
		fields, err := provider.ColumnSchema(ctx)
		if err != nil {
			return nil, err
		}
		return &schema.Schema{Fields: fields}, nil
	}

	records, err := s.Sample(ctx, limit)
	if err != nil {
		return nil, err
	}

	// Collect per-column samples in first-observed order. Columns
	// that appear partway through the sample are padded with nulls
	// for the records that predate them, and records missing a known
	// column contribute a null to it.
	var order []string
	samples := make(map[string][]any)
	for n, rec := range records {
		seen := make(map[string]bool, len(rec.Names))
		for i, name := range rec.Names {
			if _, known := samples[name]; !known {
				order = append(order, name)
				samples[name] = make([]any, n)
			}
			if seen[name] {
				// Duplicate column in one record; first value wins.
				continue
			}
			seen[name] = true
			samples[name] = append(samples[name], rec.Values[i])
		}
		for _, name := range order {
			if !seen[name] {
				samples[name] = append(samples[name], nil)
			}
		}
	}

	fields := make([]schema.Field, 0, len(order))
	for _, name := range order {
		tag, nullable := infer.Column(samples[name])
		fields = append(fields, schema.Field{Name: name, Type: tag, Nullable: nullable})
	}
	return &schema.Schema{Fields: fields}, nil
}
