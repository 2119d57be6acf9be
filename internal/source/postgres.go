package source

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// PostgresSource samples rows from a PostgreSQL table over pgx.
type PostgresSource struct {
	url   string
	table string
}

// NewPostgresSource returns a sampler for a table reachable at the
// given postgres:// connection URL.
func NewPostgresSource(url, table string) *PostgresSource {
	return &PostgresSource{url: url, table: table}
}

// Sample reads up to limit rows from the table. Column names come from
// the result set field descriptions, in table order.
func (s *PostgresSource) Sample(ctx context.Context, limit int) ([]Record, error) {
	conn, err := pgx.Connect(ctx, s.url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	defer func() { _ = conn.Close(ctx) }()

	query := fmt.Sprintf("SELECT * FROM %s", pgx.Identifier{s.table}.Sanitize())
	if limit > 0 {
		query = fmt.Sprintf("%s LIMIT %d", query, limit)
	}

	rows, err := conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to sample table %s: %w", s.table, err)
	}
	defer rows.Close()

	fds := rows.FieldDescriptions()
	names := make([]string, len(fds))
	for i, fd := range fds {
		names[i] = fd.Name
	}

	var records []Record
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, err
		}
		records = append(records, Record{Names: names, Values: values})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}
