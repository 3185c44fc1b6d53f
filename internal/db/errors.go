package db

import (
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
)

const (
	pgUniqueViolation     = "23505"
	pgCheckViolation      = "23514"
	pgForeignKeyViolation = "23503"

	mysqlDuplicateEntry  = 1062
	mysqlCheckViolation  = 3819
	mysqlNoReferencedRow = 1452
)

// PgCode returns the SQLSTATE of a PostgreSQL error
func PgCode(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code, true
	}
	return "", false
}

// MySQLNumber returns the server error number of a MySQL error
func MySQLNumber(err error) (uint16, bool) {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number, true
	}
	return 0, false
}

// SQLiteError returns the driver error of a SQLite failure
func SQLiteError(err error) (sqlite3.Error, bool) {
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr, true
	}
	return sqlite3.Error{}, false
}

// IsUniqueViolation reports whether err is a unique constraint failure
func IsUniqueViolation(err error) bool {
	if code, ok := PgCode(err); ok {
		return code == pgUniqueViolation
	}
	if num, ok := MySQLNumber(err); ok {
		return num == mysqlDuplicateEntry
	}
	if liteErr, ok := SQLiteError(err); ok {
		return liteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			liteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

// IsCheckViolation reports whether err is a CHECK constraint failure
func IsCheckViolation(err error) bool {
	if code, ok := PgCode(err); ok {
		return code == pgCheckViolation
	}
	if num, ok := MySQLNumber(err); ok {
		return num == mysqlCheckViolation
	}
	if liteErr, ok := SQLiteError(err); ok {
		return liteErr.ExtendedCode == sqlite3.ErrConstraintCheck
	}
	return false
}

// IsForeignKeyViolation reports whether err is a failed reference to a missing parent row
func IsForeignKeyViolation(err error) bool {
	if code, ok := PgCode(err); ok {
		return code == pgForeignKeyViolation
	}
	if num, ok := MySQLNumber(err); ok {
		return num == mysqlNoReferencedRow
	}
	if liteErr, ok := SQLiteError(err); ok {
		return liteErr.ExtendedCode == sqlite3.ErrConstraintForeignKey
	}
	return false
}
