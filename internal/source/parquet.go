package source

import (
	"context"
	"fmt"

	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/file"
	pq "github.com/apache/arrow-go/v18/parquet/schema"

	"github.com/schemarize/schemarize/schema"
)

// ParquetSource reads the column schema straight from the Parquet file
// footer. Parquet files carry full type metadata, so no row values are
// ever decoded.
type ParquetSource struct {
	Path string
}

// ColumnSchema reads the file metadata and maps each leaf column to a
// field.
func (s *ParquetSource) ColumnSchema(ctx context.Context) ([]schema.Field, error) {
	rdr, err := file.OpenParquetFile(s.Path, false)
	if err != nil {
		return nil, fmt.Errorf("opening parquet file: %w", err)
	}
	defer func() { _ = rdr.Close() }()

	sc := rdr.MetaData().Schema
	fields := make([]schema.Field, 0, sc.NumColumns())
	for i := 0; i < sc.NumColumns(); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		col := sc.Column(i)
		fields = append(fields, schema.Field{
			Name:     col.Name(),
			Type:     parquetType(col),
			Nullable: col.MaxDefinitionLevel() > 0,
		})
	}
	return fields, nil
}

// Sample satisfies Source. Parquet schemas come from file metadata, so
// there are no row values to sample; callers that check SchemaProvider
// first (as the entry point does) never reach this.
func (s *ParquetSource) Sample(ctx context.Context, limit int) ([]Record, error) {
	if _, err := s.ColumnSchema(ctx); err != nil {
		return nil, err
	}
	return nil, nil
}

func parquetType(col *pq.Column) schema.Type {
	conv := col.ConvertedType()
	switch col.PhysicalType() {
	case parquet.Types.Boolean:
		return schema.TypeBoolean
	case parquet.Types.Int32, parquet.Types.Int64:
		switch conv {
		case pq.ConvertedTypes.Date,
			pq.ConvertedTypes.TimeMillis,
			pq.ConvertedTypes.TimeMicros,
			pq.ConvertedTypes.TimestampMillis,
			pq.ConvertedTypes.TimestampMicros:
			return schema.TypeTimestamp
		case pq.ConvertedTypes.Decimal:
			return schema.TypeFloat
		}
		return schema.TypeInteger
	case parquet.Types.Int96:
		// Legacy impala timestamps.
		return schema.TypeTimestamp
	case parquet.Types.Float, parquet.Types.Double:
		return schema.TypeFloat
	case parquet.Types.ByteArray, parquet.Types.FixedLenByteArray:
		if conv == pq.ConvertedTypes.Decimal {
			return schema.TypeFloat
		}
		return schema.TypeString
	default:
		return schema.TypeMixed
	}
}
