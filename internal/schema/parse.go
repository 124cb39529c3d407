package schema

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseType splits a declared column type such as varchar(255) or
// enum('a','b') into its bare type, numeric length and literal values.
// Enum and set types report their literals and a zero length; every other
// type reports the first number found in its parenthesized payload.
func ParseType(declared string) (bare string, length int, values []string) {
	bare, payload, found := strings.Cut(strings.TrimSpace(declared), "(")
	bare = strings.ToLower(strings.TrimSpace(bare))
	if !found {
		return bare, 0, nil
	}
	if end := strings.LastIndexByte(payload, ')'); end >= 0 {
		payload = payload[:end]
	}
	switch bare {
	case "enum", "set":
		return bare, 0, parseLiterals(payload)
	}
	return bare, firstNumber(payload), nil
}

// parseLiterals reads a comma separated list of single quoted literals.
// Quotes are escaped either by doubling them or with a backslash.
func parseLiterals(payload string) []string {
	values := []string{}
	var (
		cur     strings.Builder
		inQuote bool
	)
	for i := 0; i < len(payload); i++ {
		c := payload[i]
		switch {
		case !inQuote:
			if c == '\'' {
				inQuote = true
			}
		case c == '\\' && i+1 < len(payload):
			i++
			cur.WriteByte(payload[i])
		case c == '\'':
			if i+1 < len(payload) && payload[i+1] == '\'' {
				cur.WriteByte('\'')
				i++
				continue
			}
			inQuote = false
			values = append(values, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	return values
}

func firstNumber(s string) int {
	start := strings.IndexAny(s, "0123456789")
	if start < 0 {
		return 0
	}
	end := start
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(s[start:end])
	if err != nil {
		return 0
	}
	return n
}

// NormalizeColumn turns one raw column listing row into a Column. index is the
// position of the row in the listing.
func NormalizeColumn(raw RawColumn, index int) *Column {
	fields := make(map[string]any, len(raw))
	for k, v := range raw {
		fields[strings.ToLower(k)] = v
	}

	key := rawString(fields["key"])
	col := &Column{
		Field:     rawString(fields["field"]),
		Key:       key,
		IsPrimary: key == "PRI" || key == "PRIMARY",
		Index:     index,
		Extra:     rawString(fields["extra"]),
		Nullable:  strings.EqualFold(rawString(fields["null"]), "YES"),
	}
	col.Type, col.Length, col.EnumValues = ParseType(rawString(fields["type"]))
	if def, ok := fields["default"]; ok && def != nil {
		s := rawString(def)
		col.Default = &s
	}
	return col
}

// NormalizeColumns normalizes a whole column listing, keeping its order.
func NormalizeColumns(raw []RawColumn) *Table {
	t := &Table{}
	for i, r := range raw {
		col := NormalizeColumn(r, i)
		t.Set(col.Field, col)
	}
	return t
}

func rawString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case []byte:
		return string(s)
	case fmt.Stringer:
		return s.String()
	default:
		return fmt.Sprint(s)
	}
}
