package dialect

import (
	"fmt"
	"strings"
)

type OracleDialect struct{}

func (d *OracleDialect) Name() string {
	return "oracle"
}

// CurrentDatabaseQuery returns the current user, which owns the schema objects.
func (d *OracleDialect) CurrentDatabaseQuery() string {
	return `SELECT USER FROM DUAL`
}

// TablesQuery picks the dictionary view by table type, since Oracle keeps
// tables and views apart.
func (d *OracleDialect) TablesQuery(schema, tableType string) (string, []any) {
	if tableType == TableTypeView {
		return fmt.Sprintf(`SELECT VIEW_NAME FROM ALL_VIEWS WHERE OWNER = %s ORDER BY VIEW_NAME`, d.Placeholder(0)),
			[]any{d.GetSchemaName(schema)}
	}
	return fmt.Sprintf(`SELECT TABLE_NAME FROM ALL_TABLES WHERE OWNER = %s ORDER BY TABLE_NAME`, d.Placeholder(0)),
		[]any{d.GetSchemaName(schema)}
}

// ColumnsQuery skips DATA_DEFAULT: it is a LONG column and cannot be used in
// expressions.
func (d *OracleDialect) ColumnsQuery(schema, table string) (string, []any) {
	return fmt.Sprintf(`
SELECT
    t.COLUMN_NAME AS "Field",
    LOWER(t.DATA_TYPE) || CASE
        WHEN t.CHAR_LENGTH > 0 THEN '(' || t.CHAR_LENGTH || ')'
        WHEN t.DATA_PRECISION IS NOT NULL THEN '(' || t.DATA_PRECISION || ')'
        ELSE ''
    END AS "Type",
    CASE t.NULLABLE WHEN 'Y' THEN 'YES' ELSE 'NO' END AS "Null",
    CASE WHEN p.CONSTRAINT_NAME IS NOT NULL THEN 'PRI' ELSE '' END AS "Key",
    NULL AS "Default",
    CASE WHEN t.IDENTITY_COLUMN = 'YES' THEN 'auto_increment' ELSE '' END AS "Extra"
FROM ALL_TAB_COLUMNS t
LEFT JOIN (
    SELECT cc.OWNER, cc.TABLE_NAME, cc.COLUMN_NAME, cc.CONSTRAINT_NAME
    FROM ALL_CONS_COLUMNS cc
    JOIN ALL_CONSTRAINTS uc ON cc.OWNER = uc.OWNER AND cc.CONSTRAINT_NAME = uc.CONSTRAINT_NAME
    WHERE uc.CONSTRAINT_TYPE = 'P'
) p ON t.OWNER = p.OWNER AND t.TABLE_NAME = p.TABLE_NAME AND t.COLUMN_NAME = p.COLUMN_NAME
WHERE t.OWNER = %s AND t.TABLE_NAME = %s
ORDER BY t.COLUMN_ID`, d.Placeholder(0), d.Placeholder(1)), []any{d.GetSchemaName(schema), table}
}

func (d *OracleDialect) ProceduresQuery(schema string) (string, []any) {
	return fmt.Sprintf(`SELECT OBJECT_NAME FROM ALL_PROCEDURES WHERE OWNER = %s AND OBJECT_TYPE = 'PROCEDURE' ORDER BY OBJECT_NAME`,
		d.Placeholder(0)), []any{d.GetSchemaName(schema)}
}

// ParametersQuery maps Oracle's IN/OUT mode to INOUT. Packaged procedures are
// not listed by ProceduresQuery, so their arguments are skipped too.
func (d *OracleDialect) ParametersQuery(schema string) (string, []any) {
	return fmt.Sprintf(`
SELECT
    a.OBJECT_NAME,
    a.POSITION,
    REPLACE(a.IN_OUT, 'IN/OUT', 'INOUT'),
    a.ARGUMENT_NAME,
    LOWER(a.DATA_TYPE),
    a.DATA_LENGTH,
    LOWER(a.DATA_TYPE)
FROM ALL_ARGUMENTS a
WHERE a.OWNER = %s AND a.PACKAGE_NAME IS NULL AND a.ARGUMENT_NAME IS NOT NULL
ORDER BY a.OBJECT_NAME, a.POSITION`, d.Placeholder(0)), []any{d.GetSchemaName(schema)}
}

func (d *OracleDialect) Placeholder(index int) string {
	return fmt.Sprintf(":%d", index+1)
}

func (d *OracleDialect) NormalizeType(sqlType string) string {
	s := strings.ToLower(strings.TrimSpace(sqlType))
	switch {
	case s == "varchar2" || s == "nvarchar2":
		return "varchar"
	case s == "nchar":
		return "char"
	case strings.Contains(s, "clob"):
		return "longtext"
	case s == "number":
		return "decimal"
	case s == "binary_float":
		return "float"
	case s == "binary_double":
		return "double"
	case s == "date":
		return "datetime"
	case strings.HasPrefix(s, "timestamp"):
		return "timestamp"
	case s == "raw" || s == "long raw":
		return "blob"
	default:
		return s
	}
}

func (d *OracleDialect) GetSchemaName(input string) string {
	return strings.ToUpper(input)
}
