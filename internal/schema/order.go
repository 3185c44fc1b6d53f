package schema

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrCircularDependency is returned when foreign keys form a cycle
	ErrCircularDependency = errors.New("circular table dependency")

	// ErrUnknownReference is returned when a relation targets a table or
	// column the schema does not declare
	ErrUnknownReference = errors.New("unknown reference")
)

// Validate checks that table names are unique and every relation points at
// a declared table and column
func (s *Schema) Validate() error {
	seen := make(map[string]bool, len(s.Tables))
	for _, t := range s.Tables {
		if seen[t.Name] {
			return fmt.Errorf("table %s declared twice", t.Name)
		}
		seen[t.Name] = true
	}

	for _, t := range s.Tables {
		for _, rel := range t.Relations {
			if t.Column(rel.SourceColumn) == nil {
				return fmt.Errorf("%s.%s: %w", t.Name, rel.SourceColumn, ErrUnknownReference)
			}
			target := s.Table(rel.TargetTable)
			if target == nil {
				return fmt.Errorf("%s.%s → %s: %w", t.Name, rel.SourceColumn, rel.TargetTable, ErrUnknownReference)
			}
			if target.Column(rel.TargetColumn) == nil {
				return fmt.Errorf("%s.%s → %s.%s: %w", t.Name, rel.SourceColumn, rel.TargetTable, rel.TargetColumn, ErrUnknownReference)
			}
		}
	}

	return nil
}

// CreationOrder returns table names ordered so that every table comes after
// the tables it references. Ties keep declaration order.
func (s *Schema) CreationOrder() ([]string, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	remaining := make(map[string]int, len(s.Tables))
	dependents := make(map[string][]string, len(s.Tables))
	for _, t := range s.Tables {
		deps := t.DependsOn()
		remaining[t.Name] = len(deps)
		for _, dep := range deps {
			dependents[dep] = append(dependents[dep], t.Name)
		}
	}

	order := make([]string, 0, len(s.Tables))
	placed := make(map[string]bool, len(s.Tables))
	for len(order) < len(s.Tables) {
		next := ""
		for _, t := range s.Tables {
			if !placed[t.Name] && remaining[t.Name] == 0 {
				next = t.Name
				break
			}
		}
		if next == "" {
			var stuck []string
			for _, t := range s.Tables {
				if !placed[t.Name] {
					stuck = append(stuck, t.Name)
				}
			}
			return nil, fmt.Errorf("%w: %s", ErrCircularDependency, strings.Join(stuck, ", "))
		}

		placed[next] = true
		order = append(order, next)
		for _, dependent := range dependents[next] {
			remaining[dependent]--
		}
	}

	return order, nil
}

// DropOrder returns the reverse of CreationOrder
func (s *Schema) DropOrder() ([]string, error) {
	order, err := s.CreationOrder()
	if err != nil {
		return nil, err
	}

	for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
		order[i], order[j] = order[j], order[i]
	}
	return order, nil
}
