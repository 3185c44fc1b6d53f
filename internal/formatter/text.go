// Package formatter renders a schema for people and tools to read.
package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/tordrt/cinemaschema/internal/schema"
)

// Formatter writes a schema somewhere
type Formatter interface {
	Format(s *schema.Schema) error
}

// TextFormatter formats schema as compact text
type TextFormatter struct {
	writer io.Writer
}

// NewTextFormatter creates a new text formatter
func NewTextFormatter(w io.Writer) *TextFormatter {
	return &TextFormatter{writer: w}
}

// Format writes the schema in compact text format
func (f *TextFormatter) Format(s *schema.Schema) error {
	for i, table := range s.Tables {
		if i > 0 {
			_, _ = fmt.Fprintln(f.writer)
		}
		f.FormatTable(table)
	}
	return nil
}

// FormatTable writes one table block
func (f *TextFormatter) FormatTable(table schema.Table) {
	pk := ""
	if len(table.PrimaryKey) > 0 {
		pk = fmt.Sprintf(" (PK: %s)", strings.Join(table.PrimaryKey, ", "))
	}
	_, _ = fmt.Fprintf(f.writer, "TABLE %s%s\n", table.Name, pk)

	for _, col := range table.Columns {
		_, _ = fmt.Fprintf(f.writer, "  %s\n", textColumn(col))
	}

	if len(table.Relations) > 0 {
		_, _ = fmt.Fprintln(f.writer)
		_, _ = fmt.Fprintln(f.writer, "  RELATIONS:")
		for _, rel := range table.Relations {
			_, _ = fmt.Fprintf(f.writer, "    %s → %s.%s%s\n",
				rel.SourceColumn, rel.TargetTable, rel.TargetColumn, onDelete(rel))
		}
	}

	if len(table.Indexes) > 0 {
		_, _ = fmt.Fprintln(f.writer)
		_, _ = fmt.Fprintln(f.writer, "  INDEXES:")
		for _, idx := range table.Indexes {
			unique := ""
			if idx.IsUnique {
				unique = " UNIQUE"
			}
			_, _ = fmt.Fprintf(f.writer, "    %s (%s)%s\n", idx.Name, strings.Join(idx.Columns, ", "), unique)
		}
	}
}

func textColumn(col schema.Column) string {
	parts := append([]string{col.Name + ":", columnType(col)}, constraints(col)...)
	return strings.Join(parts, " ")
}

// columnType prefers the physical type and falls back to the declared kind
func columnType(col schema.Column) string {
	if col.Type != "" {
		return col.Type
	}
	switch col.Kind {
	case schema.TypeVarchar:
		if col.Length > 0 {
			return fmt.Sprintf("varchar(%d)", col.Length)
		}
	case schema.TypeDecimal:
		if col.Precision > 0 {
			return fmt.Sprintf("decimal(%d,%d)", col.Precision, col.Scale)
		}
	}
	return string(col.Kind)
}

func constraints(col schema.Column) []string {
	var out []string
	if col.AutoIncrement {
		out = append(out, "AUTO INCREMENT")
	}
	if col.IsUnique {
		out = append(out, "UNIQUE")
	}
	if !col.Nullable {
		out = append(out, "NOT NULL")
	}
	if col.DefaultValue != nil {
		out = append(out, "DEFAULT "+*col.DefaultValue)
	}
	if col.Check != nil {
		out = append(out, "CHECK("+*col.Check+")")
	}
	return out
}

func onDelete(rel schema.Relation) string {
	if rel.OnDelete == "" || rel.OnDelete == schema.ActionNone {
		return ""
	}
	return " ON DELETE " + rel.OnDelete
}
