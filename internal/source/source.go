// Package source provides record samplers for the inputs schemarize
// accepts: CSV, JSON, and JSONL files (optionally compressed), Parquet
// files, in-memory Arrow data, and SQL databases.
//
// A sampler reads at most the requested number of records and
// normalizes each into a Record preserving column order. Sources whose
// column types are already known from metadata (Parquet footers, Arrow
// schemas) implement SchemaProvider instead of materializing rows.
package source

import (
	"compress/bzip2"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"github.com/schemarize/schemarize/schema"
)

// Record is one sampled row, normalized to column names and raw values
// in source order. Names and Values are parallel slices.
type Record struct {
	Names  []string
	Values []any
}

// Source samples up to limit records from the underlying input.
// A limit <= 0 means no bound.
type Source interface {
	Sample(ctx context.Context, limit int) ([]Record, error)
}

// SchemaProvider is implemented by sources that can produce the column
// schema directly from metadata, without sampling any values.
type SchemaProvider interface {
	ColumnSchema(ctx context.Context) ([]schema.Field, error)
}

// Open returns a sampler for the file at path, dispatching on the file
// extension. Compression suffixes (.gz, .bz2, .zst) are stripped before
// the extension is examined and the stream is decompressed
// transparently. Unrecognized extensions fail with
// schema.UnsupportedSourceError.
func Open(path string) (Source, error) {
	ext, compression := splitExt(path)
	if ext == ".parquet" && compression != "" {
		// Parquet is read through its footer, not as a stream; a
		// compressed file has no readable footer.
		return nil, &schema.UnsupportedSourceError{
			Source: fmt.Sprintf("compressed parquet file (%s%s)", ext, compression),
		}
	}
	switch ext {
	case ".csv":
		return &CSVSource{open: func() (io.ReadCloser, error) { return openFile(path) }}, nil
	case ".json":
		return &JSONSource{open: func() (io.ReadCloser, error) { return openFile(path) }}, nil
	case ".jsonl", ".ndjson":
		return &JSONLSource{open: func() (io.ReadCloser, error) { return openFile(path) }}, nil
	case ".parquet":
		return &ParquetSource{Path: path}, nil
	default:
		return nil, &schema.UnsupportedSourceError{Source: fmt.Sprintf("file extension %q", ext)}
	}
}

// OpenStream returns a sampler reading format-encoded records from r.
// Streams carry no extension, so the format must be given explicitly.
func OpenStream(r io.Reader, format string) (Source, error) {
	open := func() (io.ReadCloser, error) { return io.NopCloser(r), nil }
	switch strings.ToLower(format) {
	case "csv":
		return &CSVSource{open: open}, nil
	case "json":
		return &JSONSource{open: open}, nil
	case "jsonl", "ndjson":
		return &JSONLSource{open: open}, nil
	default:
		return nil, &schema.UnsupportedSourceError{Source: fmt.Sprintf("stream format %q", format)}
	}
}

// splitExt returns the dispatch extension and the compression suffix,
// if any. "data.csv.gz" yields (".csv", ".gz").
func splitExt(path string) (ext, compression string) {
	ext = strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".gz", ".bz2", ".zst":
		compression = ext
		base := path[:len(path)-len(filepath.Ext(path))]
		ext = strings.ToLower(filepath.Ext(base))
	}
	return ext, compression
}

// openFile opens path for reading, wrapping the stream in a
// decompressor when the path carries a compression suffix. The
// returned ReadCloser closes both the decompressor and the file.
func openFile(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	_, compression := splitExt(path)
	switch compression {
	case ".gz":
		zr, err := gzip.NewReader(f)
		if err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("opening gzip stream: %w", err)
		}
		return &compressedFile{r: zr, closers: []io.Closer{zr, f}}, nil
	case ".bz2":
		// Read-only bzip2 support comes from the standard library;
		// no third-party bzip2 decoder is needed.
		return &compressedFile{r: bzip2.NewReader(f), closers: []io.Closer{f}}, nil
	case ".zst":
		zr, err := zstd.NewReader(f)
		if err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("opening zstd stream: %w", err)
		}
		return &compressedFile{r: zr, closers: []io.Closer{f}, drop: zr.Close}, nil
	default:
		return f, nil
	}
}

type compressedFile struct {
	r       io.Reader
	closers []io.Closer
	drop    func()
}

func (c *compressedFile) Read(p []byte) (int, error) { return c.r.Read(p) }

func (c *compressedFile) Close() error {
	if c.drop != nil {
		c.drop()
	}
	var first error
	for _, cl := range c.closers {
		if err := cl.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
