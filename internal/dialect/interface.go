package dialect

// Table types understood by TablesQuery.
const (
	TableTypeBase = "BASE TABLE"
	TableTypeView = "VIEW"
)

// Dialect abstracts the database-specific metadata queries.
//
// Every query method returns the SQL text together with its bind arguments so
// callers never need to know the placeholder style of the driver.
type Dialect interface {
	// Name returns the database/sql driver name the dialect is meant for.
	Name() string

	// Metadata Queries (Schema Introspection)
	CurrentDatabaseQuery() string
	TablesQuery(schema, tableType string) (string, []any)
	// ColumnsQuery must yield the columns Field, Type, Null, Key, Default and
	// Extra in declaration order, matching the shape of MySQL's SHOW COLUMNS.
	ColumnsQuery(schema, table string) (string, []any)
	ProceduresQuery(schema string) (string, []any)
	// ParametersQuery must yield specific name, ordinal position, mode,
	// parameter name, data type, character maximum length and declared type.
	ParametersQuery(schema string) (string, []any)

	// Helpers
	Placeholder(index int) string // Returns ?, $1, @p1, etc.
	NormalizeType(sqlType string) string
	GetSchemaName(input string) string
}
