package enums

import (
	"errors"
	"fmt"
	"slices"

	"db-model/internal/schema"
)

// ErrUnresolvedEnum is returned when no registered enum matches a column.
var ErrUnresolvedEnum = errors.New("unresolved enum reference")

// Resolver picks the canonical holder for enum columns out of a registry
// built once per run. It never modifies the registry.
type Resolver struct {
	registry *Registry
}

func NewResolver(reg *Registry) *Resolver {
	return &Resolver{registry: reg}
}

func (r *Resolver) Registry() *Registry {
	return r.registry
}

// Resolve returns the holder to reference for col, owned by table (a table
// or view name). A holder declared for exactly this table and field wins.
// Otherwise every holder whose options equal col.EnumValues position by
// position is a candidate, and the one whose field name is most similar to
// col.Field is chosen, the earliest on ties. Merged holders take the place of
// the holders they subsume.
func (r *Resolver) Resolve(table string, col *schema.Column) (*Holder, error) {
	var exact []*Holder
	for _, h := range r.registry.holders {
		if h.Table == table && h.Field == col.Field {
			exact = append(exact, h)
		}
	}
	if len(exact) == 1 {
		return r.registry.Canonical(exact[0]), nil
	}

	var (
		best      *Holder
		bestScore float64
	)
	for _, h := range r.registry.holders {
		if !slices.Equal(h.Options, col.EnumValues) {
			continue
		}
		score := Similarity(h.Field, col.Field)
		if best == nil || score > bestScore {
			best, bestScore = h, score
		}
	}
	if best == nil {
		return nil, fmt.Errorf("%w: %s.%s", ErrUnresolvedEnum, table, col.Field)
	}
	return r.registry.Canonical(best), nil
}

// ResolveEnum builds the registry for s and resolves col of table against it.
// Identical inputs always give the same holder.
func ResolveEnum(s *schema.Schema, col *schema.Column, table string) (*Holder, error) {
	return NewResolver(Build(s)).Resolve(table, col)
}
