package enums

import (
	"db-model/internal/schema"
)

// Extract returns one holder per enum column of the schema's base tables, in
// table and column order. Views are never a source of enum definitions.
func Extract(s *schema.Schema) []*Holder {
	var holders []*Holder
	s.Tables.Range(func(tableName string, table *schema.Table) bool {
		table.Range(func(_ string, col *schema.Column) bool {
			if IsEnumColumn(col) {
				holders = append(holders, newHolder(tableName, col.Field, col.EnumValues))
			}
			return true
		})
		return true
	})
	return holders
}

// Build extracts and merges the enums of s.
func Build(s *schema.Schema) *Registry {
	return Merge(Extract(s))
}
