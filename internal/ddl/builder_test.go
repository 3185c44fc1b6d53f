package ddl

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tordrt/cinemaschema/internal/db"
	"github.com/tordrt/cinemaschema/internal/schema"
)

func strPtr(s string) *string {
	return &s
}

func seatsTable() schema.Table {
	return schema.Table{
		Name: "seats",
		Columns: []schema.Column{
			{Name: "id", Kind: schema.TypeUUID},
			{Name: "show_id", Kind: schema.TypeUUID},
			{Name: "seat_number", Kind: schema.TypeInteger},
			{Name: "is_booked", Kind: schema.TypeBoolean, DefaultValue: strPtr("false")},
			{Name: "price", Kind: schema.TypeDecimal, Precision: 10, Scale: 2, Check: strPtr("price >= 0")},
		},
		PrimaryKey: []string{"id"},
		Relations: []schema.Relation{
			{SourceColumn: "show_id", TargetTable: "shows", TargetColumn: "id", OnDelete: schema.ActionCascade},
		},
		Indexes: []schema.Index{
			{Name: "uq_seats_show_seat_number", Columns: []string{"show_id", "seat_number"}, IsUnique: true},
		},
	}
}

func TestColumnType(t *testing.T) {
	tests := []struct {
		kind    schema.ColumnType
		dialect db.Dialect
		want    string
	}{
		{schema.TypeUUID, db.Postgres, "UUID"},
		{schema.TypeUUID, db.MySQL, "CHAR(36)"},
		{schema.TypeUUID, db.SQLite, "TEXT"},
		{schema.TypeTimestamp, db.Postgres, "TIMESTAMP"},
		{schema.TypeTimestamp, db.MySQL, "DATETIME"},
		{schema.TypeInteger, db.MySQL, "INT"},
		{schema.TypeInteger, db.SQLite, "INTEGER"},
		{schema.TypeBigInt, db.Postgres, "BIGINT"},
		{schema.TypeBoolean, db.MySQL, "BOOLEAN"},
	}

	for _, tt := range tests {
		t.Run(string(tt.dialect)+"/"+string(tt.kind), func(t *testing.T) {
			got := NewBuilder(tt.dialect).ColumnType(schema.Column{Kind: tt.kind})
			assert.Equal(t, tt.want, got)
		})
	}

	assert.Equal(t, "VARCHAR(255)", NewBuilder(db.Postgres).ColumnType(schema.Column{Kind: schema.TypeVarchar}))
	assert.Equal(t, "DECIMAL(10,2)", NewBuilder(db.MySQL).ColumnType(schema.Column{Kind: schema.TypeDecimal, Precision: 10, Scale: 2}))
}

func TestCreateTablePostgres(t *testing.T) {
	stmts := NewBuilder(db.Postgres).CreateTable(seatsTable())
	require.Len(t, stmts, 2)

	create := stmts[0]
	assert.True(t, strings.HasPrefix(create, `CREATE TABLE "seats" (`))
	assert.Contains(t, create, `"id" UUID NOT NULL`)
	assert.Contains(t, create, `"is_booked" BOOLEAN NOT NULL DEFAULT FALSE`)
	assert.Contains(t, create, `"price" NUMERIC(10,2) NOT NULL CHECK (price >= 0)`)
	assert.Contains(t, create, `PRIMARY KEY ("id")`)
	assert.Contains(t, create, `CONSTRAINT "fk_seats_show_id" FOREIGN KEY ("show_id") REFERENCES "shows" ("id") ON DELETE CASCADE`)
	assert.NotContains(t, create, "ENGINE")

	assert.Equal(t, `CREATE UNIQUE INDEX "uq_seats_show_seat_number" ON "seats" ("show_id", "seat_number")`, stmts[1])
}

func TestCreateTableMySQL(t *testing.T) {
	stmts := NewBuilder(db.MySQL).CreateTable(seatsTable())
	create := stmts[0]

	assert.Contains(t, create, "`id` CHAR(36) NOT NULL")
	assert.Contains(t, create, "`price` DECIMAL(10,2) NOT NULL")
	assert.True(t, strings.HasSuffix(create, ") ENGINE=InnoDB"))
}

func TestCreateTableSQLite(t *testing.T) {
	stmts := NewBuilder(db.SQLite).CreateTable(seatsTable())
	assert.Contains(t, stmts[0], `"is_booked" BOOLEAN NOT NULL DEFAULT 0`)
}

func TestAutoIncrementPrimaryKey(t *testing.T) {
	table := schema.Table{
		Name: "migrations",
		Columns: []schema.Column{
			{Name: "id", Kind: schema.TypeInteger, AutoIncrement: true},
			{Name: "name", Kind: schema.TypeVarchar},
		},
		PrimaryKey: []string{"id"},
	}

	sqlite := NewBuilder(db.SQLite).CreateTable(table)[0]
	assert.Contains(t, sqlite, `"id" INTEGER PRIMARY KEY AUTOINCREMENT`)
	assert.NotContains(t, sqlite, "PRIMARY KEY (")

	postgres := NewBuilder(db.Postgres).CreateTable(table)[0]
	assert.Contains(t, postgres, `"id" INTEGER GENERATED BY DEFAULT AS IDENTITY NOT NULL`)
	assert.Contains(t, postgres, `PRIMARY KEY ("id")`)

	mysql := NewBuilder(db.MySQL).CreateTable(table)[0]
	assert.Contains(t, mysql, "`id` INT NOT NULL AUTO_INCREMENT")
}

func TestDropTable(t *testing.T) {
	assert.Equal(t, `DROP TABLE "seats"`, NewBuilder(db.Postgres).DropTable("seats"))
	assert.Equal(t, "DROP TABLE `seats`", NewBuilder(db.MySQL).DropTable("seats"))
}

func TestQuoteEscapes(t *testing.T) {
	assert.Equal(t, `"we""ird"`, NewBuilder(db.SQLite).Quote(`we"ird`))
	assert.Equal(t, "`we``ird`", NewBuilder(db.MySQL).Quote("we`ird"))
}
