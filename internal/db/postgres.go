package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
)

// postgresConfig parses connString and, for a non-empty schemaName, pins the
// session search_path to that schema so unqualified names resolve there
func postgresConfig(connString, schemaName string) (*pgx.ConnConfig, error) {
	cfg, err := pgx.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("invalid PostgreSQL URL: %w", err)
	}
	if schemaName != "" {
		cfg.RuntimeParams["search_path"] = pgx.Identifier{schemaName}.Sanitize()
	}
	return cfg, nil
}

// NewPostgresClient connects through the pgx database/sql driver. An empty
// schemaName keeps the server's search_path and works against "public".
func NewPostgresClient(ctx context.Context, connString, schemaName string) (*Client, error) {
	cfg, err := postgresConfig(connString, schemaName)
	if err != nil {
		return nil, err
	}

	registered := stdlib.RegisterConnConfig(cfg)
	db, err := sqlx.Open("pgx", registered)
	if err != nil {
		stdlib.UnregisterConnConfig(registered)
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test the connection
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		stdlib.UnregisterConnConfig(registered)
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if schemaName == "" {
		schemaName = "public"
	}
	return &Client{
		db:         db,
		dialect:    Postgres,
		schemaName: schemaName,
		release:    func() { stdlib.UnregisterConnConfig(registered) },
	}, nil
}
