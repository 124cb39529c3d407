// Package enums detects enum columns that share a value domain across tables
// and views, merges them into canonical definitions and resolves any enum
// column to the definition generated code should reference.
package enums

import (
	"slices"
	"strings"

	"db-model/internal/schema"
)

const hashDelimiter = ":"

// Holder describes the value domain of one enum column and where it came
// from. Holders synthesized by Merge carry a pseudo table name and the
// constant-cased shared field name.
type Holder struct {
	Table      string
	Field      string
	Options    []string
	OptionHash string

	// Positions in the owning Registry, -1 when unset.
	index          int
	replacedBy     int
	replacementFor []int
}

func newHolder(table, field string, options []string) *Holder {
	return &Holder{
		Table:      table,
		Field:      field,
		Options:    slices.Clone(options),
		OptionHash: OptionHash(options),
		index:      -1,
		replacedBy: -1,
	}
}

// OptionHash is the sorted option list joined by ":". Equal value sets give
// equal hashes whatever their order.
func OptionHash(options []string) string {
	sorted := slices.Clone(options)
	slices.Sort(sorted)
	return strings.Join(sorted, hashDelimiter)
}

// Merged reports whether h was synthesized from other holders.
func (h *Holder) Merged() bool {
	return len(h.replacementFor) > 0
}

// Reference is the name generated code uses for the holder: the bare
// constant-cased field for merged holders, TABLE.FIELD otherwise.
func (h *Holder) Reference() string {
	if h.Merged() {
		return schema.ConstantCase(h.Field)
	}
	return schema.ConstantCase(h.Table) + "." + schema.ConstantCase(h.Field)
}

// IsEnumColumn reports whether col is an enum with declared values.
func IsEnumColumn(col *schema.Column) bool {
	return col.Type == "enum" && len(col.EnumValues) > 0
}

func (h *Holder) detached() *Holder {
	return &Holder{
		Table:      h.Table,
		Field:      h.Field,
		Options:    slices.Clone(h.Options),
		OptionHash: h.OptionHash,
		index:      -1,
		replacedBy: -1,
	}
}

// Registry is the immutable set of enum holders built for one run: the
// original holders followed by the merged ones.
type Registry struct {
	holders []*Holder
}

// Holders returns all holders, originals first, in registry order. The
// holders are shared with the registry and must be treated as read-only.
func (r *Registry) Holders() []*Holder {
	return slices.Clone(r.holders)
}

func (r *Registry) Len() int {
	return len(r.holders)
}

// owns reports whether h is one of the registry's own holders. Holders built
// elsewhere, including the inputs given to Merge, are never owned.
func (r *Registry) owns(h *Holder) bool {
	return h != nil && h.index >= 0 && h.index < len(r.holders) && r.holders[h.index] == h
}

// ReplacedBy returns the merged holder that subsumes h, or nil. Holders not
// owned by the registry have no replacement.
func (r *Registry) ReplacedBy(h *Holder) *Holder {
	if !r.owns(h) || h.replacedBy < 0 || h.replacedBy >= len(r.holders) {
		return nil
	}
	return r.holders[h.replacedBy]
}

// ReplacementFor returns the original holders a merged holder subsumes.
func (r *Registry) ReplacementFor(h *Holder) []*Holder {
	if !r.owns(h) {
		return nil
	}
	out := make([]*Holder, 0, len(h.replacementFor))
	for _, i := range h.replacementFor {
		out = append(out, r.holders[i])
	}
	return out
}

// Canonical returns the holder generated code should reference for h. A
// holder the registry does not own is returned as is.
func (r *Registry) Canonical(h *Holder) *Holder {
	if replacement := r.ReplacedBy(h); replacement != nil {
		return replacement
	}
	return h
}

// CanonicalHolders returns every holder that is not replaced by a merge, in
// registry order. These are the enum definitions to emit.
func (r *Registry) CanonicalHolders() []*Holder {
	var out []*Holder
	for _, h := range r.holders {
		if h.replacedBy < 0 {
			out = append(out, h)
		}
	}
	return out
}
