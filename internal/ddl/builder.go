// Package ddl renders table descriptors as dialect-specific DDL and runs it.
package ddl

import (
	"fmt"
	"strings"

	"github.com/tordrt/cinemaschema/internal/db"
	"github.com/tordrt/cinemaschema/internal/schema"
)

// Builder renders DDL statements for one dialect
type Builder struct {
	dialect db.Dialect
}

// NewBuilder creates a builder for dialect
func NewBuilder(dialect db.Dialect) *Builder {
	return &Builder{dialect: dialect}
}

// Quote quotes an identifier
func (b *Builder) Quote(name string) string {
	if b.dialect == db.MySQL {
		return "`" + strings.ReplaceAll(name, "`", "``") + "`"
	}
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func (b *Builder) quoteAll(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = b.Quote(n)
	}
	return strings.Join(quoted, ", ")
}

// ColumnType returns the physical type of a declared column
func (b *Builder) ColumnType(col schema.Column) string {
	switch col.Kind {
	case schema.TypeUUID:
		switch b.dialect {
		case db.MySQL:
			return "CHAR(36)"
		case db.SQLite:
			return "TEXT"
		}
		return "UUID"
	case schema.TypeVarchar:
		length := col.Length
		if length == 0 {
			length = 255
		}
		return fmt.Sprintf("VARCHAR(%d)", length)
	case schema.TypeTimestamp:
		if b.dialect == db.MySQL {
			return "DATETIME"
		}
		return "TIMESTAMP"
	case schema.TypeDecimal:
		name := "NUMERIC"
		if b.dialect == db.MySQL {
			name = "DECIMAL"
		}
		if col.Precision > 0 {
			return fmt.Sprintf("%s(%d,%d)", name, col.Precision, col.Scale)
		}
		return name
	case schema.TypeInteger:
		if b.dialect == db.MySQL {
			return "INT"
		}
		return "INTEGER"
	case schema.TypeBigInt:
		if b.dialect == db.SQLite {
			return "INTEGER"
		}
		return "BIGINT"
	case schema.TypeBoolean:
		return "BOOLEAN"
	}
	return col.Type
}

// defaultLiteral renders a declared default for the dialect
func (b *Builder) defaultLiteral(col schema.Column) string {
	value := *col.DefaultValue
	if col.Kind == schema.TypeBoolean && b.dialect == db.SQLite {
		switch strings.ToLower(value) {
		case "false":
			return "0"
		case "true":
			return "1"
		}
	}
	return strings.ToUpper(value)
}

// inlineAutoIncrementPK reports whether the primary key is rendered on the
// column itself. SQLite only allows AUTOINCREMENT on an inline INTEGER PRIMARY KEY.
func (b *Builder) inlineAutoIncrementPK(t schema.Table) bool {
	if b.dialect != db.SQLite || len(t.PrimaryKey) != 1 {
		return false
	}
	col := t.Column(t.PrimaryKey[0])
	return col != nil && col.AutoIncrement
}

func (b *Builder) columnDefinition(t schema.Table, col schema.Column) string {
	var sb strings.Builder
	sb.WriteString(b.Quote(col.Name))
	sb.WriteString(" ")

	if col.AutoIncrement {
		switch b.dialect {
		case db.Postgres:
			sb.WriteString(b.ColumnType(col) + " GENERATED BY DEFAULT AS IDENTITY")
		case db.MySQL:
			sb.WriteString(b.ColumnType(col) + " NOT NULL AUTO_INCREMENT")
			return sb.String()
		case db.SQLite:
			if b.inlineAutoIncrementPK(t) {
				sb.WriteString("INTEGER PRIMARY KEY AUTOINCREMENT")
				return sb.String()
			}
			sb.WriteString(b.ColumnType(col))
		}
	} else {
		sb.WriteString(b.ColumnType(col))
	}

	if !col.Nullable {
		sb.WriteString(" NOT NULL")
	}
	if col.DefaultValue != nil {
		sb.WriteString(" DEFAULT " + b.defaultLiteral(col))
	}
	if col.IsUnique {
		sb.WriteString(" UNIQUE")
	}
	if col.Check != nil {
		sb.WriteString(" CHECK (" + *col.Check + ")")
	}
	return sb.String()
}

// ForeignKeyName returns the constraint name used for a relation
func ForeignKeyName(table string, rel schema.Relation) string {
	return fmt.Sprintf("fk_%s_%s", table, rel.SourceColumn)
}

// CreateTable returns the statements that create t: the CREATE TABLE itself
// followed by one CREATE INDEX per declared index
func (b *Builder) CreateTable(t schema.Table) []string {
	var defs []string
	for _, col := range t.Columns {
		defs = append(defs, b.columnDefinition(t, col))
	}

	if len(t.PrimaryKey) > 0 && !b.inlineAutoIncrementPK(t) {
		defs = append(defs, fmt.Sprintf("PRIMARY KEY (%s)", b.quoteAll(t.PrimaryKey)))
	}

	for _, rel := range t.Relations {
		fk := fmt.Sprintf("CONSTRAINT %s FOREIGN KEY (%s) REFERENCES %s (%s)",
			b.Quote(ForeignKeyName(t.Name, rel)),
			b.Quote(rel.SourceColumn),
			b.Quote(rel.TargetTable),
			b.Quote(rel.TargetColumn))
		if rel.OnDelete != "" {
			fk += " ON DELETE " + rel.OnDelete
		}
		defs = append(defs, fk)
	}

	create := fmt.Sprintf("CREATE TABLE %s (\n\t%s\n)", b.Quote(t.Name), strings.Join(defs, ",\n\t"))
	if b.dialect == db.MySQL {
		create += " ENGINE=InnoDB"
	}

	statements := []string{create}
	for _, idx := range t.Indexes {
		kind := "INDEX"
		if idx.IsUnique {
			kind = "UNIQUE INDEX"
		}
		statements = append(statements, fmt.Sprintf("CREATE %s %s ON %s (%s)",
			kind, b.Quote(idx.Name), b.Quote(t.Name), b.quoteAll(idx.Columns)))
	}

	return statements
}

// DropTable returns the statement that drops a table. It deliberately has no
// IF EXISTS so that dropping an absent table fails.
func (b *Builder) DropTable(name string) string {
	return "DROP TABLE " + b.Quote(name)
}
