package schemarize

import "github.com/schemarize/schemarize/schema"

// Error types are defined in the schema package and re-exported here
// so callers of Schemarize can match them without a second import.
type (
	// UnsupportedSourceError indicates a source type, file
	// extension, or URL scheme schemarize does not recognize.
	UnsupportedSourceError = schema.UnsupportedSourceError

	// MalformedRecordError indicates a record that failed to parse;
	// sampling aborts on the first occurrence.
	MalformedRecordError = schema.MalformedRecordError

	// ExportError indicates a failed schema export; the in-memory
	// schema is unaffected.
	ExportError = schema.ExportError
)
