package source

import (
	"context"

	"github.com/apache/arrow-go/v18/arrow"

	"github.com/schemarize/schemarize/schema"
)

// ArrowSource wraps an in-memory Arrow record batch or table. The
// Arrow schema already carries every column's type and nullability, so
// no rows are sampled.
type ArrowSource struct {
	Schema *arrow.Schema
}

// NewArrowRecordSource returns a source backed by an Arrow record batch.
func NewArrowRecordSource(rec arrow.Record) *ArrowSource {
	return &ArrowSource{Schema: rec.Schema()}
}

// NewArrowTableSource returns a source backed by an Arrow table.
func NewArrowTableSource(tbl arrow.Table) *ArrowSource {
	return &ArrowSource{Schema: tbl.Schema()}
}

// ColumnSchema maps the Arrow schema's fields directly.
func (s *ArrowSource) ColumnSchema(ctx context.Context) ([]schema.Field, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fields := make([]schema.Field, 0, s.Schema.NumFields())
	for i := 0; i < s.Schema.NumFields(); i++ {
		f := s.Schema.Field(i)
		fields = append(fields, schema.Field{
			Name:     f.Name,
			Type:     arrowType(f.Type),
			Nullable: f.Nullable,
		})
	}
	return fields, nil
}

// Sample satisfies Source; like Parquet, Arrow schemas are metadata.
func (s *ArrowSource) Sample(ctx context.Context, limit int) ([]Record, error) {
	if _, err := s.ColumnSchema(ctx); err != nil {
		return nil, err
	}
	return nil, nil
}

func arrowType(dt arrow.DataType) schema.Type {
	switch dt.ID() {
	case arrow.BOOL:
		return schema.TypeBoolean
	case arrow.INT8, arrow.INT16, arrow.INT32, arrow.INT64,
		arrow.UINT8, arrow.UINT16, arrow.UINT32, arrow.UINT64:
		return schema.TypeInteger
	case arrow.FLOAT16, arrow.FLOAT32, arrow.FLOAT64, arrow.DECIMAL128, arrow.DECIMAL256:
		return schema.TypeFloat
	case arrow.STRING, arrow.LARGE_STRING:
		return schema.TypeString
	case arrow.TIMESTAMP, arrow.DATE32, arrow.DATE64, arrow.TIME32, arrow.TIME64:
		return schema.TypeTimestamp
	case arrow.STRUCT, arrow.MAP:
		return schema.TypeObject
	case arrow.LIST, arrow.LARGE_LIST, arrow.FIXED_SIZE_LIST:
		return schema.TypeArray
	default:
		return schema.TypeMixed
	}
}
