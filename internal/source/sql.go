package source

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"

	"github.com/schemarize/schemarize/schema"
)

// identPattern restricts table names to plain identifiers so that the
// sampling query can interpolate them safely.
var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// SQLSource samples rows from a table reachable through database/sql.
// It backs the sqlite:// and mysql:// source schemes.
type SQLSource struct {
	driver string
	dsn    string
	table  string
}

// NewSQLiteSource returns a sampler for a table in a SQLite database
// file.
func NewSQLiteSource(path, table string) *SQLSource {
	return &SQLSource{driver: "sqlite3", dsn: path, table: table}
}

// NewMySQLSource returns a sampler for a table in a MySQL database.
// The DSN is in go-sql-driver form, e.g. user:pass@tcp(host:port)/db.
func NewMySQLSource(dsn, table string) *SQLSource {
	return &SQLSource{driver: "mysql", dsn: dsn, table: table}
}

// Sample reads up to limit rows from the table and normalizes each
// into a Record. Column names come from the result set metadata.
func (s *SQLSource) Sample(ctx context.Context, limit int) ([]Record, error) {
	if !identPattern.MatchString(s.table) {
		return nil, &schema.UnsupportedSourceError{Source: fmt.Sprintf("table name %q", s.table)}
	}

	db, err := sql.Open(s.driver, s.dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = db.Close() }()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	query := fmt.Sprintf("SELECT * FROM %s", s.table)
	if limit > 0 {
		query = fmt.Sprintf("%s LIMIT %d", query, limit)
	}

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to sample table %s: %w", s.table, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var records []Record
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		records = append(records, Record{Names: cols, Values: values})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}
