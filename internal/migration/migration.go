// Package migration holds the versioned schema changes and the runner that
// applies them.
package migration

import (
	"context"
	"sort"

	"github.com/tordrt/cinemaschema/internal/ddl"
)

// Migration is one reversible schema change
type Migration interface {
	// ID is the creation timestamp in milliseconds; migrations run in ID order
	ID() int64
	Name() string
	Up(ctx context.Context, exec *ddl.Executor) error
	Down(ctx context.Context, exec *ddl.Executor) error
}

// All returns every known migration sorted by ID
func All() []Migration {
	return sorted([]Migration{
		CinemaSystem{},
	})
}

func sorted(migrations []Migration) []Migration {
	out := append([]Migration(nil), migrations...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ID() < out[j].ID()
	})
	return out
}
