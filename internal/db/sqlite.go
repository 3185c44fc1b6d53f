package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// NewSQLiteClient opens a SQLite database file with foreign key enforcement on.
//
// The pool is capped at one connection: the pragma is per connection and a
// migration must see its own uncommitted DDL.
func NewSQLiteClient(ctx context.Context, path string) (*Client, error) {
	if path == "" {
		return nil, fmt.Errorf("SQLite path is required")
	}

	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	dsn := path + sep + "_foreign_keys=on"

	db, err := sqlx.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	// Test the connection
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Client{db: db, dialect: SQLite, schemaName: "main"}, nil
}
