package schema

import (
	"errors"
	"fmt"
	"maps"
	"strings"

	"go.uber.org/zap"
)

// UnknownType marks a column whose SQL type has no client-side mapping.
const UnknownType = "unknown"

// ErrUnknownSQLType is returned by TypeMapper.Lookup for unmapped types.
var ErrUnknownSQLType = errors.New("unknown sql type")

// DefaultTypes maps bare SQL types to the client-side types used by the
// generated code.
var DefaultTypes = map[string]string{
	"bigint":     "number",
	"blob":       "any",
	"boolean":    "boolean",
	"char":       "string",
	"date":       "Date | string",
	"datetime":   "Date | string",
	"decimal":    "number",
	"double":     "number",
	"enum":       "string",
	"float":      "number",
	"int":        "number",
	"json":       "any",
	"longblob":   "any",
	"longtext":   "string",
	"mediumint":  "number",
	"mediumtext": "string",
	"set":        "string",
	"smallint":   "number",
	"text":       "string",
	"time":       "string",
	"timestamp":  "Date | string",
	"tinyint":    "boolean",
	"varchar":    "string",
}

// TypeMapper resolves bare SQL types to client-side types.
type TypeMapper struct {
	types  map[string]string
	logger *zap.Logger
}

// NewTypeMapper returns a mapper over DefaultTypes with overrides applied on
// top. A nil logger discards warnings.
func NewTypeMapper(logger *zap.Logger, overrides map[string]string) *TypeMapper {
	if logger == nil {
		logger = zap.NewNop()
	}
	types := maps.Clone(DefaultTypes)
	for k, v := range overrides {
		types[strings.ToLower(k)] = v
	}
	return &TypeMapper{types: types, logger: logger}
}

// Lookup returns the client type for a bare SQL type. Types carrying
// modifiers ("int unsigned") fall back to their first word.
func (m *TypeMapper) Lookup(sqlType string) (string, error) {
	t := strings.ToLower(strings.TrimSpace(sqlType))
	if mapped, ok := m.types[t]; ok {
		return mapped, nil
	}
	if first, _, found := strings.Cut(t, " "); found {
		if mapped, ok := m.types[first]; ok {
			return mapped, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSQLType, sqlType)
}

// MapColumn returns the client type of a column, with " | null" appended for
// nullable columns. Unmapped types are logged and reported as UnknownType.
func (m *TypeMapper) MapColumn(table string, col *Column) string {
	mapped, err := m.Lookup(col.Type)
	if err != nil {
		m.logger.Warn("unknown sql type",
			zap.String("table", table),
			zap.String("column", col.Field),
			zap.String("type", col.Type),
		)
		return UnknownType
	}
	if col.Nullable {
		return mapped + " | null"
	}
	return mapped
}
