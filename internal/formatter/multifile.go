package formatter

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tordrt/cinemaschema/internal/schema"
)

const (
	FormatMarkdown = "markdown"
	FormatText     = "text"
)

// MultiFileFormatter writes an overview plus one file per table into a directory
type MultiFileFormatter struct {
	OutputDir    string
	OutputFormat string // "text" or "markdown"
}

// NewMultiFileFormatter creates a new multi-file formatter
func NewMultiFileFormatter(outputDir, format string) *MultiFileFormatter {
	return &MultiFileFormatter{
		OutputDir:    outputDir,
		OutputFormat: format,
	}
}

// Format writes the schema to multiple files
func (f *MultiFileFormatter) Format(s *schema.Schema) error {
	if err := os.MkdirAll(f.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := f.writeFile("_overview", func(w io.Writer) { f.writeOverview(w, s) }); err != nil {
		return fmt.Errorf("failed to write overview: %w", err)
	}

	for _, table := range s.Tables {
		table := table
		if err := f.writeFile(table.Name, func(w io.Writer) { f.writeTable(w, table, s) }); err != nil {
			return fmt.Errorf("failed to write table file for %s: %w", table.Name, err)
		}
	}

	return nil
}

func (f *MultiFileFormatter) writeFile(name string, write func(io.Writer)) error {
	file, err := os.Create(filepath.Join(f.OutputDir, name+f.extension()))
	if err != nil {
		return err
	}
	write(file)
	return file.Close()
}

// writeOverview lists tables in creation order, or by name when the
// references cannot be ordered
func (f *MultiFileFormatter) writeOverview(w io.Writer, s *schema.Schema) {
	order, err := s.CreationOrder()
	if err != nil {
		order = s.TableNames()
		sort.Strings(order)
	}

	if f.OutputFormat == FormatMarkdown {
		_, _ = fmt.Fprintf(w, "# Schema Overview\n\n")
		_, _ = fmt.Fprintf(w, "Each table has a corresponding file: `<table_name>%s`\n\n", f.extension())
		_, _ = fmt.Fprintf(w, "## Tables (creation order)\n\n")
	} else {
		_, _ = fmt.Fprintf(w, "SCHEMA OVERVIEW\n")
		_, _ = fmt.Fprintf(w, "Each table has a file: <table_name>%s\n\n", f.extension())
	}

	for _, name := range order {
		table := s.Table(name)
		line := name
		if f.OutputFormat == FormatMarkdown {
			line = "- **" + name + "**"
		}
		if deps := table.DependsOn(); len(deps) > 0 {
			line += fmt.Sprintf(" (references: %s)", strings.Join(deps, ", "))
		}
		_, _ = fmt.Fprintln(w, line)
	}
}

func (f *MultiFileFormatter) writeTable(w io.Writer, table schema.Table, s *schema.Schema) {
	incoming := FindIncomingRelations(table.Name, s)

	if f.OutputFormat == FormatMarkdown {
		NewMarkdownFormatter(w).FormatTable(table)
		if len(incoming) > 0 {
			_, _ = fmt.Fprintf(w, "### Referenced by\n\n")
			for _, rel := range incoming {
				_, _ = fmt.Fprintf(w, "- %s\n", rel)
			}
			_, _ = fmt.Fprintln(w)
		}
		return
	}

	NewTextFormatter(w).FormatTable(table)
	if len(incoming) > 0 {
		_, _ = fmt.Fprintln(w)
		_, _ = fmt.Fprintln(w, "  REFERENCED BY:")
		for _, rel := range incoming {
			_, _ = fmt.Fprintf(w, "    %s\n", rel)
		}
	}
}

// IncomingRelation is a foreign key of another table pointing at this one
type IncomingRelation struct {
	SourceTable  string
	SourceColumn string
	TargetColumn string
	OnDelete     string
}

func (r IncomingRelation) String() string {
	return fmt.Sprintf("%s.%s → %s%s", r.SourceTable, r.SourceColumn, r.TargetColumn,
		onDelete(schema.Relation{OnDelete: r.OnDelete}))
}

// FindIncomingRelations finds all foreign keys pointing to tableName
func FindIncomingRelations(tableName string, s *schema.Schema) []IncomingRelation {
	var incoming []IncomingRelation
	for _, table := range s.Tables {
		for _, rel := range table.Relations {
			if rel.TargetTable == tableName {
				incoming = append(incoming, IncomingRelation{
					SourceTable:  table.Name,
					SourceColumn: rel.SourceColumn,
					TargetColumn: rel.TargetColumn,
					OnDelete:     rel.OnDelete,
				})
			}
		}
	}
	return incoming
}

func (f *MultiFileFormatter) extension() string {
	if f.OutputFormat == FormatMarkdown {
		return ".md"
	}
	return ".txt"
}
