package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

// Dialect identifies the SQL flavour behind a connection
type Dialect string

const (
	Postgres Dialect = "postgres"
	MySQL    Dialect = "mysql"
	SQLite   Dialect = "sqlite"
)

// ErrUnsupportedSchema is returned by Open for a schema the dialect cannot
// switch to from the connection URL
var ErrUnsupportedSchema = errors.New("unsupported schema")

// Client holds an open database handle and what it talks to
type Client struct {
	db         *sqlx.DB
	dialect    Dialect
	schemaName string
	release    func()
}

// DB returns the underlying handle
func (c *Client) DB() *sqlx.DB {
	return c.db
}

// Dialect returns the SQL dialect of the connection
func (c *Client) Dialect() Dialect {
	return c.dialect
}

// SchemaName returns the schema (PostgreSQL), database (MySQL) or "main" (SQLite)
// the client works against
func (c *Client) SchemaName() string {
	return c.schemaName
}

// Close closes the database handle
func (c *Client) Close() error {
	err := c.db.Close()
	if c.release != nil {
		c.release()
	}
	return err
}

// Extractor returns a schema extractor bound to the client's handle
func (c *Client) Extractor() Extractor {
	return NewExtractor(c.dialect, c.db, c.schemaName)
}

// ParseURL detects the dialect and returns the driver connection string
func ParseURL(url string) (Dialect, string, error) {
	if url == "" {
		return "", "", fmt.Errorf("database URL is required")
	}

	if strings.HasPrefix(url, "postgres://") || strings.HasPrefix(url, "postgresql://") {
		return Postgres, url, nil
	}

	if strings.HasPrefix(url, "mysql://") {
		// Strip mysql:// prefix for the Go MySQL driver
		return MySQL, strings.TrimPrefix(url, "mysql://"), nil
	}

	if strings.HasPrefix(url, "sqlite://") {
		return SQLite, strings.TrimPrefix(url, "sqlite://"), nil
	}

	return "", "", fmt.Errorf("invalid database URL scheme (must start with postgres://, mysql://, or sqlite://)")
}

// Open connects to the database named by url.
// An empty schemaName selects the dialect default. PostgreSQL sets the
// session search_path to schemaName, so DDL, bookkeeping and introspection
// all land in it. MySQL only accepts the database named in the URL and
// SQLite only accepts "main".
func Open(ctx context.Context, url, schemaName string) (*Client, error) {
	dialect, connStr, err := ParseURL(url)
	if err != nil {
		return nil, err
	}
	if err := checkSchema(dialect, connStr, schemaName); err != nil {
		return nil, err
	}

	switch dialect {
	case Postgres:
		return NewPostgresClient(ctx, connStr, schemaName)
	case MySQL:
		return NewMySQLClient(ctx, connStr)
	default:
		return NewSQLiteClient(ctx, connStr)
	}
}

// checkSchema rejects a schema override the dialect cannot honour
func checkSchema(dialect Dialect, connStr, schemaName string) error {
	if schemaName == "" {
		return nil
	}

	switch dialect {
	case MySQL:
		dbName, err := parseDatabaseName(connStr)
		if err != nil {
			return fmt.Errorf("invalid MySQL DSN: %w", err)
		}
		if schemaName != dbName {
			return fmt.Errorf("%w: %q (MySQL works against the URL database %q)", ErrUnsupportedSchema, schemaName, dbName)
		}
	case SQLite:
		if schemaName != "main" {
			return fmt.Errorf("%w: %q (SQLite only supports \"main\")", ErrUnsupportedSchema, schemaName)
		}
	}
	return nil
}
