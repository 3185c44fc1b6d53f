package migration

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/tordrt/cinemaschema/internal/ddl"
	"github.com/tordrt/cinemaschema/internal/schema"
)

func TestMigratorLifecycle(t *testing.T) {
	ctx := context.Background()
	client := openSQLite(t)
	m := NewMigrator(client, zaptest.NewLogger(t))

	status, err := m.Status(ctx)
	require.NoError(t, err)
	require.Len(t, status, 1)
	assert.Equal(t, int64(1663877813247), status[0].ID)
	assert.Equal(t, "CinemaSystem", status[0].Name)
	assert.False(t, status[0].Applied)

	applied, err := m.Up(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"CinemaSystem"}, applied)

	applied, err = m.Up(ctx)
	require.NoError(t, err)
	assert.Empty(t, applied, "second run has nothing pending")

	status, err = m.Status(ctx)
	require.NoError(t, err)
	assert.True(t, status[0].Applied)

	var count int
	require.NoError(t, client.DB().GetContext(ctx, &count, `SELECT COUNT(*) FROM migrations WHERE "timestamp" = 1663877813247 AND name = 'CinemaSystem'`))
	assert.Equal(t, 1, count)

	reverted, err := m.Down(ctx)
	require.NoError(t, err)
	assert.Equal(t, "CinemaSystem", reverted)

	names, err := client.Extractor().TableNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"migrations"}, names)

	_, err = m.Down(ctx)
	assert.ErrorIs(t, err, ErrNothingApplied)
}

func TestStatusDoesNotCreateBookkeepingTable(t *testing.T) {
	ctx := context.Background()
	client := openSQLite(t)
	m := NewMigrator(client, zaptest.NewLogger(t))

	status, err := m.Status(ctx)
	require.NoError(t, err)
	require.Len(t, status, 1)
	assert.False(t, status[0].Applied)

	names, err := client.Extractor().TableNames(ctx)
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestMigratorCustomTable(t *testing.T) {
	ctx := context.Background()
	client := openSQLite(t)
	m := NewMigrator(client, zaptest.NewLogger(t), WithTable("schema_history"))

	_, err := m.Up(ctx)
	require.NoError(t, err)

	names, err := client.Extractor().TableNames(ctx)
	require.NoError(t, err)
	assert.Contains(t, names, "schema_history")
	assert.NotContains(t, names, DefaultTable)
}

type failingMigration struct{}

func (failingMigration) ID() int64    { return 1700000000000 }
func (failingMigration) Name() string { return "Failing" }

func (failingMigration) Up(ctx context.Context, exec *ddl.Executor) error {
	err := exec.CreateTable(ctx, schema.Table{
		Name:       "scratch",
		Columns:    []schema.Column{{Name: "id", Kind: schema.TypeUUID}},
		PrimaryKey: []string{"id"},
	})
	if err != nil {
		return err
	}
	return errors.New("boom")
}

func (failingMigration) Down(ctx context.Context, exec *ddl.Executor) error {
	return exec.DropTable(ctx, "scratch")
}

func TestMigratorRollsBackFailedRun(t *testing.T) {
	ctx := context.Background()
	client := openSQLite(t)
	m := NewMigrator(client, zaptest.NewLogger(t), WithMigrations(failingMigration{}, CinemaSystem{}))

	_, err := m.Up(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Failing")

	names, err := client.Extractor().TableNames(ctx)
	require.NoError(t, err)
	assert.Empty(t, names, "the whole run is rolled back on SQLite")
}

func TestMigratorUnknownRecordedMigration(t *testing.T) {
	ctx := context.Background()
	client := openSQLite(t)

	_, err := NewMigrator(client, zaptest.NewLogger(t), WithMigrations()).Up(ctx)
	require.NoError(t, err)
	_, err = client.DB().ExecContext(ctx, `INSERT INTO migrations ("timestamp", name) VALUES (42, 'Gone')`)
	require.NoError(t, err)

	_, err = NewMigrator(client, zaptest.NewLogger(t)).Down(ctx)
	assert.ErrorIs(t, err, ErrUnknownMigration)
}

func TestAllSortedByID(t *testing.T) {
	migrations := sorted([]Migration{failingMigration{}, CinemaSystem{}})
	assert.Equal(t, "CinemaSystem", migrations[0].Name())
	assert.Equal(t, "Failing", migrations[1].Name())
}
