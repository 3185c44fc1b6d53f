package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// repo holds the statements shared by every table
type repo[T any] struct {
	ext     sqlx.ExtContext
	table   string
	columns []string // selected columns
	insert  []string // written on create; may omit columns with a database default
	log     *zap.Logger
}

func newRepo[T any](ext sqlx.ExtContext, log *zap.Logger, table string, columns, insert []string) repo[T] {
	if insert == nil {
		insert = columns
	}
	return repo[T]{
		ext:     ext,
		table:   table,
		columns: columns,
		insert:  insert,
		log:     log.With(zap.String("repository", table)),
	}
}

func (r repo[T]) create(ctx context.Context, id uuid.UUID, entity *T) error {
	if err := validateEntity(entity); err != nil {
		return err
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (:%s)",
		r.table, strings.Join(r.insert, ", "), strings.Join(r.insert, ", :"))

	if _, err := sqlx.NamedExecContext(ctx, r.ext, query, entity); err != nil {
		r.log.Error("Failed to create row", zap.Error(err), zap.String("id", id.String()))
		return writeError("create "+r.table, err)
	}
	return nil
}

// findByID returns nil when no row has the id
func (r repo[T]) findByID(ctx context.Context, id uuid.UUID) (*T, error) {
	query := r.ext.Rebind(fmt.Sprintf("SELECT %s FROM %s WHERE id = ?", strings.Join(r.columns, ", "), r.table))

	var out T
	err := sqlx.GetContext(ctx, r.ext, &out, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find row by ID", zap.Error(err), zap.String("id", id.String()))
		return nil, fmt.Errorf("find %s: %w", r.table, err)
	}
	return &out, nil
}

// list selects rows matching where, whose ? placeholders take args
func (r repo[T]) list(ctx context.Context, where, orderBy string, args ...any) ([]T, error) {
	query := fmt.Sprintf("SELECT %s FROM %s", strings.Join(r.columns, ", "), r.table)
	if where != "" {
		query += " WHERE " + where
	}
	if orderBy != "" {
		query += " ORDER BY " + orderBy
	}

	var out []T
	if err := sqlx.SelectContext(ctx, r.ext, &out, r.ext.Rebind(query), args...); err != nil {
		r.log.Error("Failed to list rows", zap.Error(err))
		return nil, fmt.Errorf("list %s: %w", r.table, err)
	}
	return out, nil
}

// delete removes one row; dependent rows go with it through ON DELETE CASCADE
func (r repo[T]) delete(ctx context.Context, id uuid.UUID) error {
	query := r.ext.Rebind(fmt.Sprintf("DELETE FROM %s WHERE id = ?", r.table))

	result, err := r.ext.ExecContext(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to delete row", zap.Error(err), zap.String("id", id.String()))
		return fmt.Errorf("delete %s: %w", r.table, err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete %s: %w", r.table, err)
	}
	if n == 0 {
		return fmt.Errorf("delete %s %s: %w", r.table, id, ErrNotFound)
	}

	r.log.Info("Row deleted", zap.String("id", id.String()))
	return nil
}

func newID(id uuid.UUID) uuid.UUID {
	if id == uuid.Nil {
		return uuid.New()
	}
	return id
}
