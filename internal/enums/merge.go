package enums

import (
	"unicode/utf8"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"db-model/internal/schema"
)

// MergeThreshold is the length the common substring of member names must
// exceed for a group of equal value sets to be merged.
const MergeThreshold = 5

// Merge builds the registry for holders. Holders with equal option hashes
// whose constant-cased field names share a substring longer than
// MergeThreshold are subsumed by one synthesized holder named after that
// substring. The input holders are not modified.
func Merge(holders []*Holder) *Registry {
	reg := &Registry{holders: make([]*Holder, 0, len(holders))}
	for _, h := range holders {
		cp := h.detached()
		cp.index = len(reg.holders)
		reg.holders = append(reg.holders, cp)
	}

	merged := orderedmap.New[string, *Holder]()
	for _, group := range groupByHash(reg.holders) {
		if len(group) < 2 {
			continue
		}
		common := schema.ConstantCase(group[0].Field)
		for _, h := range group {
			common = LongestCommonSubstring(common, schema.ConstantCase(h.Field))
		}
		if utf8.RuneCountInString(common) <= MergeThreshold {
			continue
		}
		name := schema.ConstantCase(common)
		if name == "" {
			continue
		}
		if existing, ok := merged.Get(name); ok && len(existing.replacementFor) >= len(group) {
			continue
		}
		members := make([]int, len(group))
		for i, h := range group {
			members[i] = h.index
		}
		m := newHolder(schema.PascalCase(name), name, group[0].Options)
		m.OptionHash = group[0].OptionHash
		m.replacementFor = members
		merged.Set(name, m)
	}

	// Back references are linked after every merge is decided. Members of a
	// merge displaced by a larger group keep no replacement.
	for pair := merged.Oldest(); pair != nil; pair = pair.Next() {
		m := pair.Value
		m.index = len(reg.holders)
		reg.holders = append(reg.holders, m)
		for _, i := range m.replacementFor {
			reg.holders[i].replacedBy = m.index
		}
	}
	return reg
}

// groupByHash groups holders by option hash, groups and members in first
// seen order.
func groupByHash(holders []*Holder) [][]*Holder {
	var groups [][]*Holder
	pos := make(map[string]int)
	for _, h := range holders {
		i, ok := pos[h.OptionHash]
		if !ok {
			i = len(groups)
			pos[h.OptionHash] = i
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], h)
	}
	return groups
}
