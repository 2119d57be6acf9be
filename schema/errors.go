package schema

import "fmt"

// UnsupportedSourceError indicates that a source value, file extension,
// or URL scheme is not one schemarize knows how to sample.
type UnsupportedSourceError struct {
	// Source describes the rejected source, e.g. a file extension,
	// URL scheme, or Go type name.
	Source string
}

func (e *UnsupportedSourceError) Error() string {
	return fmt.Sprintf("unsupported source: %s", e.Source)
}

// MalformedRecordError indicates that a record failed to parse under
// the expected format. Sampling aborts on the first malformed record;
// no partial schema is returned.
type MalformedRecordError struct {
	// Format is the source format being parsed ("csv", "json", "jsonl").
	Format string

	// Record is the 1-based record or line number that failed, 0 if
	// unknown.
	Record int

	// Err is the underlying parse error.
	Err error
}

func (e *MalformedRecordError) Error() string {
	if e.Record > 0 {
		return fmt.Sprintf("malformed %s record %d: %v", e.Format, e.Record, e.Err)
	}
	return fmt.Sprintf("malformed %s record: %v", e.Format, e.Err)
}

func (e *MalformedRecordError) Unwrap() error { return e.Err }

// ExportError indicates that writing a schema export to its destination
// failed. The in-memory Schema is unaffected.
type ExportError struct {
	// Path is the destination path, empty for writer destinations.
	Path string

	// Err is the underlying write or serialization error.
	Err error
}

func (e *ExportError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("export to %s failed: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("export failed: %v", e.Err)
}

func (e *ExportError) Unwrap() error { return e.Err }
