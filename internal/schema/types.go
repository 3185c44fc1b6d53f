package schema

// Schema represents a set of tables, either declared by a migration or
// extracted from a live database
type Schema struct {
	Tables []Table
}

// Table represents a database table
type Table struct {
	Name       string
	Columns    []Column
	Relations  []Relation
	Indexes    []Index
	PrimaryKey []string
}

// ColumnType is a dialect-neutral column type
type ColumnType string

const (
	TypeUUID      ColumnType = "uuid"
	TypeVarchar   ColumnType = "varchar"
	TypeTimestamp ColumnType = "timestamp"
	TypeDecimal   ColumnType = "decimal"
	TypeInteger   ColumnType = "integer"
	TypeBigInt    ColumnType = "bigint"
	TypeBoolean   ColumnType = "boolean"
)

// Column represents a table column.
//
// Declared columns set Kind (and Length/Precision/Scale where they apply);
// extracted columns carry the database's own spelling in Type.
type Column struct {
	Name          string
	Type          string
	Kind          ColumnType
	Length        int
	Precision     int
	Scale         int
	Nullable      bool
	DefaultValue  *string
	Check         *string
	IsUnique      bool
	AutoIncrement bool
}

// OnDelete actions for a foreign key
const (
	ActionCascade  = "CASCADE"
	ActionRestrict = "RESTRICT"
	ActionSetNull  = "SET NULL"
	ActionNone     = "NO ACTION"
)

// Relation represents a foreign key relationship
type Relation struct {
	TargetTable  string
	TargetColumn string
	SourceColumn string
	OnDelete     string
	Cardinality  string // 1:1, 1:N, N:1
}

// Index represents a database index
type Index struct {
	Name     string
	Columns  []string
	IsUnique bool
}

// Table returns the table with the given name, or nil
func (s *Schema) Table(name string) *Table {
	for i := range s.Tables {
		if s.Tables[i].Name == name {
			return &s.Tables[i]
		}
	}
	return nil
}

// TableNames returns table names in schema order
func (s *Schema) TableNames() []string {
	names := make([]string, 0, len(s.Tables))
	for _, t := range s.Tables {
		names = append(names, t.Name)
	}
	return names
}

// Filter removes the named tables from the schema
func (s *Schema) Filter(exclude []string) {
	if len(exclude) == 0 {
		return
	}

	excludeSet := make(map[string]bool, len(exclude))
	for _, name := range exclude {
		excludeSet[name] = true
	}

	kept := make([]Table, 0, len(s.Tables))
	for _, table := range s.Tables {
		if !excludeSet[table.Name] {
			kept = append(kept, table)
		}
	}
	s.Tables = kept
}

// Column returns the column with the given name, or nil
func (t *Table) Column(name string) *Column {
	for i := range t.Columns {
		if t.Columns[i].Name == name {
			return &t.Columns[i]
		}
	}
	return nil
}

// IsPrimaryKey reports whether the column is part of the primary key
func (t *Table) IsPrimaryKey(column string) bool {
	for _, pk := range t.PrimaryKey {
		if pk == column {
			return true
		}
	}
	return false
}

// DependsOn returns the distinct tables this table references, excluding itself
func (t *Table) DependsOn() []string {
	seen := make(map[string]bool)
	var deps []string
	for _, rel := range t.Relations {
		if rel.TargetTable == t.Name || seen[rel.TargetTable] {
			continue
		}
		seen[rel.TargetTable] = true
		deps = append(deps, rel.TargetTable)
	}
	return deps
}
