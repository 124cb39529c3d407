package dialect

import (
	"fmt"
	"strings"
)

type PostgresDialect struct{}

func (d *PostgresDialect) Name() string {
	return "postgres"
}

func (d *PostgresDialect) CurrentDatabaseQuery() string {
	// information_schema is filtered by schema, not by database, in Postgres.
	return `SELECT current_schema()`
}

func (d *PostgresDialect) TablesQuery(schema, tableType string) (string, []any) {
	return fmt.Sprintf(`SELECT table_name FROM information_schema.tables WHERE table_schema = %s AND table_type = %s ORDER BY table_name`,
		d.Placeholder(0), d.Placeholder(1)), []any{d.GetSchemaName(schema), tableType}
}

// ColumnsQuery renders Postgres metadata in the SHOW COLUMNS shape. Enum UDTs
// become enum('a','b') with labels in sort order, so the builder can treat
// them like MySQL enums.
func (d *PostgresDialect) ColumnsQuery(schema, table string) (string, []any) {
	return fmt.Sprintf(`SELECT
    c.column_name AS "Field",
    CASE
        WHEN t.typtype = 'e' THEN 'enum(' || (
            SELECT string_agg(quote_literal(e.enumlabel), ',' ORDER BY e.enumsortorder)
            FROM pg_catalog.pg_enum e WHERE e.enumtypid = t.oid) || ')'
        WHEN c.character_maximum_length IS NOT NULL THEN c.udt_name || '(' || c.character_maximum_length || ')'
        WHEN c.numeric_precision IS NOT NULL AND c.data_type = 'numeric' THEN c.udt_name || '(' || c.numeric_precision || ',' || COALESCE(c.numeric_scale, 0) || ')'
        ELSE c.udt_name
    END AS "Type",
    c.is_nullable AS "Null",
    COALESCE((SELECT 'PRI' FROM information_schema.table_constraints tc
     JOIN information_schema.key_column_usage kcu
       ON tc.constraint_name = kcu.constraint_name AND tc.table_schema = kcu.table_schema
     WHERE tc.constraint_type = 'PRIMARY KEY'
       AND kcu.table_schema = c.table_schema AND kcu.table_name = c.table_name AND kcu.column_name = c.column_name
     LIMIT 1), '') AS "Key",
    c.column_default AS "Default",
    CASE WHEN c.is_identity = 'YES' OR c.column_default LIKE 'nextval%%' THEN 'auto_increment' ELSE '' END AS "Extra"
FROM information_schema.columns c
LEFT JOIN (pg_catalog.pg_type t JOIN pg_catalog.pg_namespace n ON n.oid = t.typnamespace)
  ON t.typname = c.udt_name AND n.nspname = c.udt_schema
WHERE c.table_schema = %s AND c.table_name = %s
ORDER BY c.ordinal_position`, d.Placeholder(0), d.Placeholder(1)), []any{d.GetSchemaName(schema), table}
}

func (d *PostgresDialect) ProceduresQuery(schema string) (string, []any) {
	return fmt.Sprintf(`SELECT routine_name FROM information_schema.routines WHERE routine_schema = %s AND routine_type = 'PROCEDURE' ORDER BY routine_name`,
		d.Placeholder(0)), []any{d.GetSchemaName(schema)}
}

// ParametersQuery reports the routine name as the specific name; Postgres
// suffixes specific names with the routine oid.
func (d *PostgresDialect) ParametersQuery(schema string) (string, []any) {
	return fmt.Sprintf(`SELECT r.routine_name, p.ordinal_position, p.parameter_mode, p.parameter_name, p.udt_name, p.character_maximum_length, p.data_type
FROM information_schema.parameters p
JOIN information_schema.routines r ON r.specific_schema = p.specific_schema AND r.specific_name = p.specific_name
WHERE p.specific_schema = %s AND r.routine_type = 'PROCEDURE' AND p.parameter_mode IN ('IN', 'OUT', 'INOUT')
ORDER BY r.routine_name, p.ordinal_position`, d.Placeholder(0)), []any{d.GetSchemaName(schema)}
}

func (d *PostgresDialect) Placeholder(index int) string {
	return fmt.Sprintf("$%d", index+1)
}

func (d *PostgresDialect) NormalizeType(sqlType string) string {
	t := strings.ToLower(strings.TrimSpace(sqlType))
	switch t {
	case "int4", "int2", "integer", "serial":
		return "int"
	case "int8", "bigserial":
		return "bigint"
	case "float4", "real":
		return "float"
	case "float8", "double precision":
		return "double"
	case "bpchar", "character":
		return "char"
	case "character varying":
		return "varchar"
	case "numeric":
		return "decimal"
	case "bool":
		return "boolean"
	case "timestamptz", "timestamp without time zone", "timestamp with time zone":
		return "timestamp"
	case "bytea":
		return "blob"
	default:
		return t
	}
}

func (d *PostgresDialect) GetSchemaName(input string) string {
	if input == "" {
		return "public"
	}
	return input
}
