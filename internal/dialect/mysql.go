package dialect

import (
	"fmt"
)

type MysqlDialect struct{}

func (d *MysqlDialect) Name() string {
	return "mysql"
}

func (d *MysqlDialect) CurrentDatabaseQuery() string {
	return `SELECT DATABASE()`
}

func (d *MysqlDialect) TablesQuery(schema, tableType string) (string, []any) {
	return `SELECT TABLE_NAME FROM information_schema.TABLES WHERE TABLE_SCHEMA = ? AND TABLE_TYPE = ? ORDER BY TABLE_NAME`,
		[]any{schema, tableType}
}

// ColumnsQuery uses SHOW COLUMNS, which already reports the full declared type
// (varchar(255), enum('a','b')) that the model builder parses.
func (d *MysqlDialect) ColumnsQuery(schema, table string) (string, []any) {
	target := quoteIdent(table, "`")
	if schema != "" {
		target = quoteIdent(schema, "`") + "." + target
	}
	return fmt.Sprintf("SHOW COLUMNS FROM %s", target), nil
}

func (d *MysqlDialect) ProceduresQuery(schema string) (string, []any) {
	return `SELECT ROUTINE_NAME FROM information_schema.ROUTINES WHERE ROUTINE_SCHEMA = ? AND ROUTINE_TYPE = 'PROCEDURE' ORDER BY ROUTINE_NAME`,
		[]any{schema}
}

func (d *MysqlDialect) ParametersQuery(schema string) (string, []any) {
	return `SELECT SPECIFIC_NAME, ORDINAL_POSITION, PARAMETER_MODE, PARAMETER_NAME, DATA_TYPE, CHARACTER_MAXIMUM_LENGTH, DTD_IDENTIFIER FROM information_schema.PARAMETERS WHERE SPECIFIC_SCHEMA = ? AND ROUTINE_TYPE = 'PROCEDURE' AND PARAMETER_MODE IN ('IN', 'OUT', 'INOUT') ORDER BY SPECIFIC_NAME, ORDINAL_POSITION`,
		[]any{schema}
}

func (d *MysqlDialect) Placeholder(index int) string {
	return "?"
}

func (d *MysqlDialect) NormalizeType(sqlType string) string {
	return DefaultNormalizeType(sqlType)
}

func (d *MysqlDialect) GetSchemaName(input string) string {
	return DefaultGetSchemaName(input)
}
