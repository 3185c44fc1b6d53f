package ddl

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/tordrt/cinemaschema/internal/db"
	"github.com/tordrt/cinemaschema/internal/schema"
)

// Executor runs DDL against one connection or transaction
type Executor struct {
	ext       sqlx.ExtContext
	dialect   db.Dialect
	builder   *Builder
	extractor db.Extractor
	log       *zap.Logger
}

// NewExecutor binds an executor to ext, which may be a *sqlx.DB or a *sqlx.Tx
func NewExecutor(dialect db.Dialect, ext sqlx.ExtContext, schemaName string, log *zap.Logger) *Executor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Executor{
		ext:       ext,
		dialect:   dialect,
		builder:   NewBuilder(dialect),
		extractor: db.NewExtractor(dialect, ext, schemaName),
		log:       log.With(zap.String("component", "ddl"), zap.String("dialect", string(dialect))),
	}
}

// Dialect returns the dialect statements are rendered for
func (e *Executor) Dialect() db.Dialect {
	return e.dialect
}

// Builder returns the statement builder
func (e *Executor) Builder() *Builder {
	return e.builder
}

// Queryer returns the connection or transaction statements run on
func (e *Executor) Queryer() sqlx.QueryerContext {
	return e.ext
}

// Extractor returns an extractor reading through the same connection
func (e *Executor) Extractor() db.Extractor {
	return e.extractor
}

// HasTable reports whether the named table exists
func (e *Executor) HasTable(ctx context.Context, name string) (bool, error) {
	names, err := e.extractor.TableNames(ctx)
	if err != nil {
		return false, fmt.Errorf("list tables: %w", err)
	}
	for _, n := range names {
		if n == name {
			return true, nil
		}
	}
	return false, nil
}

// CreateTable creates t and its indexes. Every table t references, other
// than itself, must already exist.
func (e *Executor) CreateTable(ctx context.Context, t schema.Table) error {
	op := "create table " + t.Name

	exists, err := e.HasTable(ctx, t.Name)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if exists {
		return fmt.Errorf("%s: %w", op, ErrDuplicateTable)
	}

	for _, target := range t.DependsOn() {
		ok, err := e.HasTable(ctx, target)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		if !ok {
			return fmt.Errorf("%s: %w: %s", op, ErrMissingReference, target)
		}
	}

	for _, stmt := range e.builder.CreateTable(t) {
		if err := e.Exec(ctx, stmt); err != nil {
			return Classify(op, err)
		}
	}

	e.log.Info("table created", zap.String("table", t.Name))
	return nil
}

// DropTable drops the named table. It fails when the table is absent or
// when another table still holds a foreign key to it.
func (e *Executor) DropTable(ctx context.Context, name string) error {
	op := "drop table " + name

	current, err := e.extractor.ExtractSchema(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if current.Table(name) == nil {
		return fmt.Errorf("%s: %w", op, ErrMissingTable)
	}

	for _, t := range current.Tables {
		if t.Name == name {
			continue
		}
		for _, rel := range t.Relations {
			if rel.TargetTable == name {
				return fmt.Errorf("%s: %w by %s.%s", op, ErrDependencyViolation, t.Name, rel.SourceColumn)
			}
		}
	}

	if err := e.Exec(ctx, e.builder.DropTable(name)); err != nil {
		return Classify(op, err)
	}

	e.log.Info("table dropped", zap.String("table", name))
	return nil
}

// Exec runs a statement, rebinding ? placeholders for the driver
func (e *Executor) Exec(ctx context.Context, query string, args ...any) error {
	e.log.Debug("exec", zap.String("sql", query))
	_, err := e.ext.ExecContext(ctx, e.ext.Rebind(query), args...)
	return err
}
