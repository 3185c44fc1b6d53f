package cinemaschema

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func testURL(t *testing.T) string {
	t.Helper()
	return "sqlite://" + filepath.Join(t.TempDir(), "cinema.db")
}

func TestMigrateInspectRollback(t *testing.T) {
	ctx := context.Background()
	url := testURL(t)

	applied, err := Migrate(ctx, url, nil)
	if err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	if len(applied) != 1 || applied[0] != "CinemaSystem" {
		t.Errorf("Migrate() applied = %v, want [CinemaSystem]", applied)
	}

	s, err := Inspect(ctx, url, &Options{ExcludeTables: []string{"migrations"}})
	if err != nil {
		t.Fatalf("Inspect() error = %v", err)
	}
	want := []string{"cinemas", "movies", "pricing", "seats", "showrooms", "shows"}
	if got := strings.Join(s.TableNames(), ","); got != strings.Join(want, ",") {
		t.Errorf("Inspect() tables = %s, want %s", got, strings.Join(want, ","))
	}

	status, err := Status(ctx, url, nil)
	if err != nil {
		t.Fatalf("Status() error = %v", err)
	}
	if len(status) != 1 || !status[0].Applied {
		t.Errorf("Status() = %+v, want CinemaSystem applied", status)
	}

	name, err := Rollback(ctx, url, nil)
	if err != nil {
		t.Fatalf("Rollback() error = %v", err)
	}
	if name != "CinemaSystem" {
		t.Errorf("Rollback() = %q, want CinemaSystem", name)
	}

	s, err = Inspect(ctx, url, nil)
	if err != nil {
		t.Fatalf("Inspect() error = %v", err)
	}
	if got := s.TableNames(); len(got) != 1 || got[0] != "migrations" {
		t.Errorf("after rollback tables = %v, want [migrations]", got)
	}
}

func TestInspectSpecificTables(t *testing.T) {
	ctx := context.Background()
	url := testURL(t)

	if _, err := Migrate(ctx, url, &Options{MigrationsTable: "history"}); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}

	s, err := Inspect(ctx, url, &Options{Tables: []string{"movies", "shows"}})
	if err != nil {
		t.Fatalf("Inspect() error = %v", err)
	}
	if len(s.Tables) != 2 {
		t.Fatalf("got %d tables, want 2", len(s.Tables))
	}
	shows := s.Table("shows")
	if shows == nil || len(shows.Relations) != 1 || shows.Relations[0].OnDelete != "CASCADE" {
		t.Errorf("shows should cascade to movies, got %+v", shows)
	}
}

func TestConnectionErrors(t *testing.T) {
	ctx := context.Background()

	for _, url := range []string{"", "invalid://test.db"} {
		if _, err := Migrate(ctx, url, nil); err == nil {
			t.Errorf("Migrate(%q) expected error", url)
		}
		if _, err := Inspect(ctx, url, nil); err == nil {
			t.Errorf("Inspect(%q) expected error", url)
		}
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		dialect string
		idType  string
		wantErr bool
	}{
		{dialect: "", idType: ""},
		{dialect: "postgres", idType: "UUID"},
		{dialect: "mysql", idType: "CHAR(36)"},
		{dialect: "sqlite", idType: "TEXT"},
		{dialect: "oracle", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.dialect, func(t *testing.T) {
			s, err := Describe(tt.dialect)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("Describe() error = %v", err)
			}
			if len(s.Tables) != 6 {
				t.Fatalf("got %d tables, want 6", len(s.Tables))
			}
			if got := s.Table("movies").Column("id").Type; got != tt.idType {
				t.Errorf("movies.id type = %q, want %q", got, tt.idType)
			}
		})
	}
}

func TestFormatSchema(t *testing.T) {
	s, err := Describe("postgres")
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := FormatSchema(s, &OutputOptions{Writer: &buf}); err != nil {
		t.Fatalf("FormatSchema() error = %v", err)
	}
	if !strings.Contains(buf.String(), "## seats") || !strings.Contains(buf.String(), "room_id → showrooms.id ON DELETE CASCADE") {
		t.Errorf("markdown output incomplete:\n%s", buf.String())
	}

	buf.Reset()
	if err := FormatSchema(s, &OutputOptions{Writer: &buf, Format: "text"}); err != nil {
		t.Fatalf("FormatSchema() error = %v", err)
	}
	if !strings.Contains(buf.String(), "TABLE pricing (PK: id)") {
		t.Errorf("text output incomplete:\n%s", buf.String())
	}

	dir := filepath.Join(t.TempDir(), "docs")
	if err := FormatSchema(s, &OutputOptions{OutputDir: dir}); err != nil {
		t.Fatalf("FormatSchema() error = %v", err)
	}
	for _, name := range []string{"_overview.md", "movies.md", "seats.md"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("expected %s: %v", name, err)
		}
	}

	if err := FormatSchema(s, &OutputOptions{Format: "html"}); err == nil {
		t.Error("expected error for unknown format")
	}
}
