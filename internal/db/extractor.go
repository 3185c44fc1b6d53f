package db

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/tordrt/cinemaschema/internal/schema"
)

// Extractor reads schema metadata from a live database
type Extractor interface {
	// ExtractSchema extracts the given tables, or every table when tables is empty
	ExtractSchema(ctx context.Context, tables []string) (*schema.Schema, error)
	// TableNames lists the base tables present, sorted by name
	TableNames(ctx context.Context) ([]string, error)
}

// NewExtractor returns the extractor for dialect running queries through q.
// q may be a *sqlx.DB or a *sqlx.Tx.
func NewExtractor(dialect Dialect, q sqlx.QueryerContext, schemaName string) Extractor {
	switch dialect {
	case MySQL:
		return NewMySQLExtractor(q, schemaName)
	case SQLite:
		return NewSQLiteExtractor(q)
	default:
		return NewPostgresExtractor(q, schemaName)
	}
}

// extractTables runs extractTable for each name and collects the result
func extractTables(ctx context.Context, names []string, extractTable func(context.Context, string) (*schema.Table, error)) (*schema.Schema, error) {
	extracted := make([]schema.Table, 0, len(names))
	for _, name := range names {
		table, err := extractTable(ctx, name)
		if err != nil {
			return nil, err
		}
		extracted = append(extracted, *table)
	}
	return &schema.Schema{Tables: extracted}, nil
}

func scanStrings(rows *sqlx.Rows) ([]string, error) {
	defer rows.Close()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
