package migration

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/tordrt/cinemaschema/internal/db"
	"github.com/tordrt/cinemaschema/internal/ddl"
	"github.com/tordrt/cinemaschema/internal/schema"
)

// DefaultTable is the bookkeeping table name used when none is configured
const DefaultTable = "migrations"

var (
	// ErrNothingApplied is returned by Down when no migration is recorded
	ErrNothingApplied = errors.New("no applied migrations")
	// ErrUnknownMigration is returned when the bookkeeping table records a
	// migration this binary does not know
	ErrUnknownMigration = errors.New("unknown migration")
)

// runMu serialises runs inside one process; the database lock covers the rest
var runMu sync.Mutex

// Status describes one known migration
type Status struct {
	ID      int64
	Name    string
	Applied bool
}

// Migrator applies and reverts migrations against one database
type Migrator struct {
	client     *db.Client
	table      string
	migrations []Migration
	log        *zap.Logger
}

// Option configures a Migrator
type Option func(*Migrator)

// WithTable sets the bookkeeping table name
func WithTable(name string) Option {
	return func(m *Migrator) {
		if name != "" {
			m.table = name
		}
	}
}

// WithMigrations replaces the registered migrations
func WithMigrations(migrations ...Migration) Option {
	return func(m *Migrator) {
		m.migrations = sorted(migrations)
	}
}

// NewMigrator creates a migrator for client running All() unless told otherwise
func NewMigrator(client *db.Client, log *zap.Logger, opts ...Option) *Migrator {
	if log == nil {
		log = zap.NewNop()
	}
	m := &Migrator{
		client:     client,
		table:      DefaultTable,
		migrations: All(),
		log:        log.With(zap.String("component", "migrator")),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

type appliedRow struct {
	ID        int64  `db:"id"`
	Timestamp int64  `db:"timestamp"`
	Name      string `db:"name"`
}

func (m *Migrator) bookkeepingTable() schema.Table {
	return schema.Table{
		Name: m.table,
		Columns: []schema.Column{
			{Name: "id", Kind: schema.TypeInteger, AutoIncrement: true},
			{Name: "timestamp", Kind: schema.TypeBigInt},
			{Name: "name", Kind: schema.TypeVarchar, Length: 255},
		},
		PrimaryKey: []string{"id"},
	}
}

// Up applies every pending migration in ID order and returns the applied names
func (m *Migrator) Up(ctx context.Context) ([]string, error) {
	var done []string

	err := m.run(ctx, func(ctx context.Context, exec *ddl.Executor) error {
		applied, err := m.applied(ctx, exec)
		if err != nil {
			return err
		}
		seen := make(map[int64]bool, len(applied))
		for _, row := range applied {
			seen[row.Timestamp] = true
		}

		for _, mig := range m.migrations {
			if seen[mig.ID()] {
				continue
			}

			log := m.log.With(zap.Int64("id", mig.ID()), zap.String("name", mig.Name()))
			log.Info("applying migration")
			start := time.Now()

			if err := mig.Up(ctx, exec); err != nil {
				log.Error("migration failed", zap.Error(err))
				return fmt.Errorf("migration %s: %w", mig.Name(), err)
			}
			if err := m.record(ctx, exec, mig); err != nil {
				return err
			}

			log.Info("migration applied", zap.Duration("duration", time.Since(start)))
			done = append(done, mig.Name())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(done) == 0 {
		m.log.Info("no pending migrations")
	}
	return done, nil
}

// Down reverts the most recently applied migration and returns its name
func (m *Migrator) Down(ctx context.Context) (string, error) {
	var reverted string

	err := m.run(ctx, func(ctx context.Context, exec *ddl.Executor) error {
		applied, err := m.applied(ctx, exec)
		if err != nil {
			return err
		}
		if len(applied) == 0 {
			return ErrNothingApplied
		}

		last := applied[len(applied)-1]
		mig := m.find(last.Timestamp)
		if mig == nil {
			return fmt.Errorf("%w: %s (%d)", ErrUnknownMigration, last.Name, last.Timestamp)
		}

		log := m.log.With(zap.Int64("id", mig.ID()), zap.String("name", mig.Name()))
		log.Info("reverting migration")

		if err := mig.Down(ctx, exec); err != nil {
			log.Error("revert failed", zap.Error(err))
			return fmt.Errorf("revert %s: %w", mig.Name(), err)
		}

		del := fmt.Sprintf("DELETE FROM %s WHERE %s = ?", exec.Builder().Quote(m.table), exec.Builder().Quote("id"))
		if err := exec.Exec(ctx, del, last.ID); err != nil {
			return fmt.Errorf("delete migration record: %w", err)
		}

		log.Info("migration reverted")
		reverted = mig.Name()
		return nil
	})
	return reverted, err
}

// Status lists every known migration with whether it has been applied.
// It never writes: without a bookkeeping table every migration is pending.
func (m *Migrator) Status(ctx context.Context) ([]Status, error) {
	var out []Status

	err := m.run(ctx, func(ctx context.Context, exec *ddl.Executor) error {
		exists, err := exec.HasTable(ctx, m.table)
		if err != nil {
			return err
		}

		var applied []appliedRow
		if exists {
			if applied, err = m.readApplied(ctx, exec); err != nil {
				return err
			}
		}
		byID := make(map[int64]appliedRow, len(applied))
		for _, row := range applied {
			byID[row.Timestamp] = row
		}

		for _, mig := range m.migrations {
			_, ok := byID[mig.ID()]
			out = append(out, Status{ID: mig.ID(), Name: mig.Name(), Applied: ok})
		}
		return nil
	})
	return out, err
}

func (m *Migrator) find(id int64) Migration {
	for _, mig := range m.migrations {
		if mig.ID() == id {
			return mig
		}
	}
	return nil
}

// applied returns the bookkeeping rows in apply order, creating the table first if needed
func (m *Migrator) applied(ctx context.Context, exec *ddl.Executor) ([]appliedRow, error) {
	exists, err := exec.HasTable(ctx, m.table)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err := exec.CreateTable(ctx, m.bookkeepingTable()); err != nil {
			return nil, fmt.Errorf("create bookkeeping table: %w", err)
		}
	}
	return m.readApplied(ctx, exec)
}

func (m *Migrator) readApplied(ctx context.Context, exec *ddl.Executor) ([]appliedRow, error) {
	q := exec.Builder().Quote
	query := fmt.Sprintf("SELECT %s, %s, %s FROM %s ORDER BY %s",
		q("id"), q("timestamp"), q("name"), q(m.table), q("id"))

	var rows []appliedRow
	if err := sqlx.SelectContext(ctx, exec.Queryer(), &rows, query); err != nil {
		return nil, fmt.Errorf("read bookkeeping table: %w", err)
	}
	return rows, nil
}

func (m *Migrator) record(ctx context.Context, exec *ddl.Executor, mig Migration) error {
	q := exec.Builder().Quote
	insert := fmt.Sprintf("INSERT INTO %s (%s, %s) VALUES (?, ?)", q(m.table), q("timestamp"), q("name"))
	if err := exec.Exec(ctx, insert, mig.ID(), mig.Name()); err != nil {
		return fmt.Errorf("record migration %s: %w", mig.Name(), err)
	}
	return nil
}

// run executes fn in a transaction holding the migration lock.
// MySQL commits DDL implicitly, so there a failed run stays partially applied.
func (m *Migrator) run(ctx context.Context, fn func(ctx context.Context, exec *ddl.Executor) error) (err error) {
	runMu.Lock()
	defer runMu.Unlock()

	tx, err := m.client.DB().BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}

	defer func() {
		if err != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil {
				err = errors.Join(err, rollbackErr)
			}
			return
		}
		err = tx.Commit()
	}()

	unlock, err := acquireLock(ctx, m.client.Dialect(), tx, m.table)
	if err != nil {
		return err
	}
	defer func() {
		if unlockErr := unlock(); unlockErr != nil {
			m.log.Warn("release migration lock", zap.Error(unlockErr))
		}
	}()

	exec := ddl.NewExecutor(m.client.Dialect(), tx, m.client.SchemaName(), m.log)
	return fn(ctx, exec)
}
