package migration

import (
	"context"

	"github.com/tordrt/cinemaschema/internal/ddl"
	"github.com/tordrt/cinemaschema/internal/schema"
)

// CinemaSystem creates the booking tables: movies and their shows, cinemas
// and their showrooms, per-show pricing by seat type, and per-show seats.
type CinemaSystem struct{}

func (CinemaSystem) ID() int64 {
	return 1663877813247
}

func (CinemaSystem) Name() string {
	return "CinemaSystem"
}

// Up creates every table, parents before children
func (CinemaSystem) Up(ctx context.Context, exec *ddl.Executor) error {
	s := CinemaSchema()
	order, err := s.CreationOrder()
	if err != nil {
		return err
	}

	for _, name := range order {
		if err := exec.CreateTable(ctx, *s.Table(name)); err != nil {
			return err
		}
	}
	return nil
}

// Down drops every table in reverse creation order
func (CinemaSystem) Down(ctx context.Context, exec *ddl.Executor) error {
	order, err := CinemaSchema().DropOrder()
	if err != nil {
		return err
	}

	for _, name := range order {
		if err := exec.DropTable(ctx, name); err != nil {
			return err
		}
	}
	return nil
}

func idColumn() schema.Column {
	return schema.Column{Name: "id", Kind: schema.TypeUUID}
}

func uuidColumn(name string) schema.Column {
	return schema.Column{Name: name, Kind: schema.TypeUUID}
}

func varchar(name string) schema.Column {
	return schema.Column{Name: name, Kind: schema.TypeVarchar, Length: 255}
}

func cascadeTo(column, table string) schema.Relation {
	return schema.Relation{
		SourceColumn: column,
		TargetTable:  table,
		TargetColumn: "id",
		OnDelete:     schema.ActionCascade,
		Cardinality:  "N:1",
	}
}

func uniqueIndex(table string, columns ...string) schema.Index {
	name := "uq_" + table
	for _, c := range columns {
		name += "_" + c
	}
	return schema.Index{Name: name, Columns: columns, IsUnique: true}
}

func ptr(s string) *string {
	return &s
}

// CinemaSchema returns the tables CinemaSystem manages, in declaration order
func CinemaSchema() *schema.Schema {
	name := varchar("name")
	name.Check = ptr("name <> ''")

	price := schema.Column{Name: "price", Kind: schema.TypeDecimal, Precision: 10, Scale: 2, Check: ptr("price >= 0")}

	return &schema.Schema{Tables: []schema.Table{
		{
			Name:       "movies",
			Columns:    []schema.Column{idColumn(), name},
			PrimaryKey: []string{"id"},
		},
		{
			Name: "shows",
			Columns: []schema.Column{
				idColumn(),
				uuidColumn("movie_id"),
				{Name: "start_time", Kind: schema.TypeTimestamp},
			},
			PrimaryKey: []string{"id"},
			Relations:  []schema.Relation{cascadeTo("movie_id", "movies")},
		},
		{
			Name:       "cinemas",
			Columns:    []schema.Column{idColumn(), varchar("name")},
			PrimaryKey: []string{"id"},
		},
		{
			Name:       "showrooms",
			Columns:    []schema.Column{idColumn(), uuidColumn("cinema_id"), varchar("name")},
			PrimaryKey: []string{"id"},
			Relations:  []schema.Relation{cascadeTo("cinema_id", "cinemas")},
		},
		{
			Name:       "pricing",
			Columns:    []schema.Column{idColumn(), uuidColumn("show_id"), varchar("seat_type"), price},
			PrimaryKey: []string{"id"},
			Relations:  []schema.Relation{cascadeTo("show_id", "shows")},
			Indexes:    []schema.Index{uniqueIndex("pricing", "show_id", "seat_type")},
		},
		{
			Name: "seats",
			Columns: []schema.Column{
				idColumn(),
				uuidColumn("show_id"),
				uuidColumn("room_id"),
				{Name: "seat_number", Kind: schema.TypeInteger},
				varchar("seat_type"),
				{Name: "is_booked", Kind: schema.TypeBoolean, DefaultValue: ptr("false")},
			},
			PrimaryKey: []string{"id"},
			Relations: []schema.Relation{
				cascadeTo("show_id", "shows"),
				cascadeTo("room_id", "showrooms"),
			},
			Indexes: []schema.Index{uniqueIndex("seats", "show_id", "seat_number")},
		},
	}}
}

// Describe returns CinemaSchema with physical column types filled in for dialect
func Describe(b *ddl.Builder) *schema.Schema {
	s := CinemaSchema()
	for i := range s.Tables {
		for j := range s.Tables[i].Columns {
			col := &s.Tables[i].Columns[j]
			col.Type = b.ColumnType(*col)
		}
	}
	return s
}
