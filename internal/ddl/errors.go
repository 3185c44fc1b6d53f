package ddl

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tordrt/cinemaschema/internal/db"
)

var (
	// ErrDuplicateTable is returned when creating a table that already exists
	ErrDuplicateTable = errors.New("table already exists")
	// ErrMissingReference is returned when a foreign key targets an absent table
	ErrMissingReference = errors.New("referenced table does not exist")
	// ErrMissingTable is returned when dropping a table that does not exist
	ErrMissingTable = errors.New("table does not exist")
	// ErrDependencyViolation is returned when dropping a table other tables still reference
	ErrDependencyViolation = errors.New("table is still referenced")
)

const (
	pgDuplicateTable     = "42P07"
	pgUndefinedTable     = "42P01"
	pgDependentObjects   = "2BP01"
	pgInvalidForeignKey  = "42830"
	mysqlTableExists     = 1050
	mysqlUnknownTable    = 1051
	mysqlNoSuchTable     = 1146
	mysqlMissingIndexFK  = 1824
	mysqlCannotAddFK     = 1215
	mysqlDroppedFKColumn = 3730
	mysqlRowIsReferenced = 1217
	mysqlParentRowInUse  = 1451
)

// Classify maps a driver error raised while running op onto one of the
// sentinel errors. Errors it does not recognise are wrapped with op only.
func Classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if sentinel := sentinelFor(op, err); sentinel != nil {
		return fmt.Errorf("%s: %w: %w", op, sentinel, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func sentinelFor(op string, err error) error {
	creating := strings.HasPrefix(op, "create")

	if code, ok := db.PgCode(err); ok {
		switch code {
		case pgDuplicateTable:
			return ErrDuplicateTable
		case pgUndefinedTable:
			if creating {
				return ErrMissingReference
			}
			return ErrMissingTable
		case pgDependentObjects:
			return ErrDependencyViolation
		case pgInvalidForeignKey:
			return ErrMissingReference
		}
		return nil
	}

	if num, ok := db.MySQLNumber(err); ok {
		switch num {
		case mysqlTableExists:
			return ErrDuplicateTable
		case mysqlUnknownTable, mysqlNoSuchTable:
			if creating {
				return ErrMissingReference
			}
			return ErrMissingTable
		case mysqlMissingIndexFK, mysqlCannotAddFK:
			return ErrMissingReference
		case mysqlDroppedFKColumn, mysqlRowIsReferenced, mysqlParentRowInUse:
			return ErrDependencyViolation
		}
		return nil
	}

	if liteErr, ok := db.SQLiteError(err); ok {
		msg := liteErr.Error()
		switch {
		case strings.Contains(msg, "already exists"):
			return ErrDuplicateTable
		case strings.Contains(msg, "no such table"):
			if creating {
				return ErrMissingReference
			}
			return ErrMissingTable
		case strings.Contains(msg, "FOREIGN KEY constraint failed"):
			return ErrDependencyViolation
		}
	}
	return nil
}
