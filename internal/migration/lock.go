package migration

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/tordrt/cinemaschema/internal/db"
)

const (
	// pgLockID keys the transaction-scoped advisory lock on PostgreSQL
	pgLockID int64 = 1663877813247

	mysqlLockTimeoutSeconds = 30
)

// ErrLockTimeout is returned when another run holds the migration lock too long
var ErrLockTimeout = errors.New("timed out waiting for migration lock")

// acquireLock takes the database-level migration lock on tx. The returned
// func releases it; for PostgreSQL the lock ends with the transaction instead.
// SQLite needs nothing beyond its single write connection.
func acquireLock(ctx context.Context, dialect db.Dialect, tx *sqlx.Tx, table string) (func() error, error) {
	noop := func() error { return nil }

	switch dialect {
	case db.Postgres:
		if _, err := tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", pgLockID); err != nil {
			return nil, fmt.Errorf("acquire advisory lock: %w", err)
		}
		return noop, nil

	case db.MySQL:
		name := "cinemaschema_" + table
		var got *int
		if err := tx.QueryRowxContext(ctx, "SELECT GET_LOCK(?, ?)", name, mysqlLockTimeoutSeconds).Scan(&got); err != nil {
			return nil, fmt.Errorf("acquire named lock: %w", err)
		}
		if got == nil || *got != 1 {
			return nil, ErrLockTimeout
		}
		return func() error {
			_, err := tx.ExecContext(ctx, "SELECT RELEASE_LOCK(?)", name)
			return err
		}, nil
	}

	return noop, nil
}
