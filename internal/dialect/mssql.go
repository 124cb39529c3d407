package dialect

import (
	"fmt"
	"strings"
)

type MSSQLDialect struct{}

// Helper: MSSQL Driver (go-mssqldb) binds positional arguments as @p1, @p2.

func (d *MSSQLDialect) Name() string {
	return "sqlserver"
}

func (d *MSSQLDialect) CurrentDatabaseQuery() string {
	return `SELECT SCHEMA_NAME()`
}

func (d *MSSQLDialect) TablesQuery(schema, tableType string) (string, []any) {
	return fmt.Sprintf(`SELECT TABLE_NAME FROM INFORMATION_SCHEMA.TABLES WHERE TABLE_SCHEMA = %s AND TABLE_TYPE = %s ORDER BY TABLE_NAME`,
		d.Placeholder(0), d.Placeholder(1)), []any{d.GetSchemaName(schema), tableType}
}

func (d *MSSQLDialect) ColumnsQuery(schema, table string) (string, []any) {
	return fmt.Sprintf(`
		SELECT
			c.COLUMN_NAME AS Field,
			c.DATA_TYPE + CASE
				WHEN c.CHARACTER_MAXIMUM_LENGTH > 0 THEN '(' + CAST(c.CHARACTER_MAXIMUM_LENGTH AS varchar(10)) + ')'
				ELSE ''
			END AS [Type],
			c.IS_NULLABLE AS [Null],
			CASE WHEN pk.COLUMN_NAME IS NOT NULL THEN 'PRI' ELSE '' END AS [Key],
			c.COLUMN_DEFAULT AS [Default],
			CASE
				WHEN COLUMNPROPERTY(OBJECT_ID(QUOTENAME(c.TABLE_SCHEMA) + '.' + QUOTENAME(c.TABLE_NAME)), c.COLUMN_NAME, 'IsIdentity') = 1 THEN 'auto_increment'
				ELSE ''
			END AS Extra
		FROM INFORMATION_SCHEMA.COLUMNS c
		LEFT JOIN (
			SELECT kcu.TABLE_SCHEMA, kcu.TABLE_NAME, kcu.COLUMN_NAME
			FROM INFORMATION_SCHEMA.TABLE_CONSTRAINTS tc
			JOIN INFORMATION_SCHEMA.KEY_COLUMN_USAGE kcu
				ON tc.CONSTRAINT_NAME = kcu.CONSTRAINT_NAME AND tc.TABLE_SCHEMA = kcu.TABLE_SCHEMA
			WHERE tc.CONSTRAINT_TYPE = 'PRIMARY KEY'
		) pk ON c.TABLE_SCHEMA = pk.TABLE_SCHEMA AND c.TABLE_NAME = pk.TABLE_NAME AND c.COLUMN_NAME = pk.COLUMN_NAME
		WHERE c.TABLE_SCHEMA = %s AND c.TABLE_NAME = %s
		ORDER BY c.ORDINAL_POSITION`, d.Placeholder(0), d.Placeholder(1)), []any{d.GetSchemaName(schema), table}
}

func (d *MSSQLDialect) ProceduresQuery(schema string) (string, []any) {
	return fmt.Sprintf(`SELECT ROUTINE_NAME FROM INFORMATION_SCHEMA.ROUTINES WHERE ROUTINE_SCHEMA = %s AND ROUTINE_TYPE = 'PROCEDURE' ORDER BY ROUTINE_NAME`,
		d.Placeholder(0)), []any{d.GetSchemaName(schema)}
}

// ParametersQuery strips the leading @ from parameter names and skips the
// return value row.
func (d *MSSQLDialect) ParametersQuery(schema string) (string, []any) {
	return fmt.Sprintf(`
		SELECT
			p.SPECIFIC_NAME,
			p.ORDINAL_POSITION,
			p.PARAMETER_MODE,
			SUBSTRING(p.PARAMETER_NAME, 2, 128),
			p.DATA_TYPE,
			p.CHARACTER_MAXIMUM_LENGTH,
			p.DATA_TYPE
		FROM INFORMATION_SCHEMA.PARAMETERS p
		JOIN INFORMATION_SCHEMA.ROUTINES r
			ON r.SPECIFIC_SCHEMA = p.SPECIFIC_SCHEMA AND r.SPECIFIC_NAME = p.SPECIFIC_NAME
		WHERE p.SPECIFIC_SCHEMA = %s AND r.ROUTINE_TYPE = 'PROCEDURE' AND p.IS_RESULT = 'NO'
		ORDER BY p.SPECIFIC_NAME, p.ORDINAL_POSITION`, d.Placeholder(0)), []any{d.GetSchemaName(schema)}
}

func (d *MSSQLDialect) Placeholder(index int) string {
	return fmt.Sprintf("@p%d", index+1)
}

func (d *MSSQLDialect) NormalizeType(sqlType string) string {
	t := strings.ToLower(strings.TrimSpace(sqlType))
	switch t {
	case "nvarchar", "nchar":
		return "varchar"
	case "ntext":
		return "text"
	case "bit":
		return "boolean"
	case "numeric", "money", "smallmoney":
		return "decimal"
	case "real":
		return "float"
	case "datetime2", "smalldatetime", "datetimeoffset":
		return "datetime"
	case "image", "binary", "varbinary":
		return "blob"
	default:
		return t
	}
}

func (d *MSSQLDialect) GetSchemaName(input string) string {
	if input == "" {
		return "dbo"
	}
	return input
}
