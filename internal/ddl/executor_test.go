package ddl

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/tordrt/cinemaschema/internal/db"
	"github.com/tordrt/cinemaschema/internal/schema"
)

func newSQLiteExecutor(t *testing.T) *Executor {
	t.Helper()

	client, err := db.Open(context.Background(), "sqlite://"+filepath.Join(t.TempDir(), "ddl.db"), "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return NewExecutor(client.Dialect(), client.DB(), client.SchemaName(), zaptest.NewLogger(t))
}

func parentTable() schema.Table {
	return schema.Table{
		Name:       "shows",
		Columns:    []schema.Column{{Name: "id", Kind: schema.TypeUUID}},
		PrimaryKey: []string{"id"},
	}
}

func TestExecutorCreateAndDrop(t *testing.T) {
	ctx := context.Background()
	exec := newSQLiteExecutor(t)

	require.NoError(t, exec.CreateTable(ctx, parentTable()))
	require.NoError(t, exec.CreateTable(ctx, seatsTable()))

	ok, err := exec.HasTable(ctx, "seats")
	require.NoError(t, err)
	assert.True(t, ok)

	extracted, err := exec.Extractor().ExtractSchema(ctx, []string{"seats"})
	require.NoError(t, err)
	seats := extracted.Table("seats")
	require.NotNil(t, seats)
	require.Len(t, seats.Relations, 1)
	assert.Equal(t, schema.ActionCascade, seats.Relations[0].OnDelete)
	require.Len(t, seats.Indexes, 1)
	assert.True(t, seats.Indexes[0].IsUnique)

	require.NoError(t, exec.DropTable(ctx, "seats"))
	require.NoError(t, exec.DropTable(ctx, "shows"))

	names, err := exec.Extractor().TableNames(ctx)
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestExecutorDuplicateTable(t *testing.T) {
	ctx := context.Background()
	exec := newSQLiteExecutor(t)

	require.NoError(t, exec.CreateTable(ctx, parentTable()))
	err := exec.CreateTable(ctx, parentTable())
	assert.ErrorIs(t, err, ErrDuplicateTable)
}

func TestExecutorMissingReference(t *testing.T) {
	exec := newSQLiteExecutor(t)

	err := exec.CreateTable(context.Background(), seatsTable())
	assert.ErrorIs(t, err, ErrMissingReference)
}

func TestExecutorMissingTable(t *testing.T) {
	exec := newSQLiteExecutor(t)

	err := exec.DropTable(context.Background(), "seats")
	assert.ErrorIs(t, err, ErrMissingTable)
}

func TestExecutorDependencyViolation(t *testing.T) {
	ctx := context.Background()
	exec := newSQLiteExecutor(t)

	require.NoError(t, exec.CreateTable(ctx, parentTable()))
	require.NoError(t, exec.CreateTable(ctx, seatsTable()))

	err := exec.DropTable(ctx, "shows")
	assert.ErrorIs(t, err, ErrDependencyViolation)

	ok, err := exec.HasTable(ctx, "shows")
	require.NoError(t, err)
	assert.True(t, ok, "shows must survive a rejected drop")
}

func TestClassifyDriverErrors(t *testing.T) {
	tests := []struct {
		name string
		op   string
		err  error
		want error
	}{
		{"pg duplicate", "create table movies", &pgconn.PgError{Code: "42P07"}, ErrDuplicateTable},
		{"pg undefined on create", "create table shows", &pgconn.PgError{Code: "42P01"}, ErrMissingReference},
		{"pg undefined on drop", "drop table shows", &pgconn.PgError{Code: "42P01"}, ErrMissingTable},
		{"pg dependent", "drop table shows", &pgconn.PgError{Code: "2BP01"}, ErrDependencyViolation},
		{"mysql exists", "create table movies", &mysql.MySQLError{Number: 1050}, ErrDuplicateTable},
		{"mysql unknown", "drop table movies", &mysql.MySQLError{Number: 1051}, ErrMissingTable},
		{"mysql fk target", "create table shows", &mysql.MySQLError{Number: 1824}, ErrMissingReference},
		{"mysql referenced", "drop table shows", &mysql.MySQLError{Number: 3730}, ErrDependencyViolation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Classify(tt.op, tt.err)
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestClassifyUnknownError(t *testing.T) {
	base := errors.New("connection reset")
	err := Classify("create table movies", base)

	assert.ErrorIs(t, err, base)
	for _, sentinel := range []error{ErrDuplicateTable, ErrMissingReference, ErrMissingTable, ErrDependencyViolation} {
		assert.NotErrorIs(t, err, sentinel)
	}
	assert.NoError(t, Classify("drop table movies", nil))
}
