package provider_test

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"db-model/internal/dialect"
	"db-model/internal/provider"
	"db-model/internal/schema"
)

func newMock(t *testing.T, driver string) (*provider.SQLProvider, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return provider.New(db, dialect.GetDialect(driver), nil), mock
}

func TestCurrentDatabase(t *testing.T) {
	p, mock := newMock(t, "mysql")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT DATABASE()")).
		WillReturnRows(sqlmock.NewRows([]string{"DATABASE()"}).AddRow("shop"))

	name, err := p.CurrentDatabase(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "shop", name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCurrentDatabase_None(t *testing.T) {
	p, mock := newMock(t, "mysql")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT DATABASE()")).
		WillReturnRows(sqlmock.NewRows([]string{"DATABASE()"}).AddRow(nil))

	_, err := p.CurrentDatabase(context.Background())
	assert.ErrorIs(t, err, provider.ErrNoDatabase)
}

func TestListTableNames(t *testing.T) {
	p, mock := newMock(t, "mysql")
	mock.ExpectQuery("FROM information_schema.TABLES").
		WithArgs("shop", "VIEW").
		WillReturnRows(sqlmock.NewRows([]string{"TABLE_NAME"}).AddRow("active_users").AddRow("order_totals"))

	names, err := p.ListTableNames(context.Background(), "shop", schema.KindView)
	require.NoError(t, err)
	assert.Equal(t, []string{"active_users", "order_totals"}, names)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListTableNames_BaseTables(t *testing.T) {
	p, mock := newMock(t, "postgres")
	mock.ExpectQuery("FROM information_schema.tables").
		WithArgs("public", "BASE TABLE").
		WillReturnRows(sqlmock.NewRows([]string{"table_name"}).AddRow("users"))

	names, err := p.ListTableNames(context.Background(), "", schema.KindTable)
	require.NoError(t, err)
	assert.Equal(t, []string{"users"}, names)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListTableNames_IllegalKindQueriesNothing(t *testing.T) {
	p, mock := newMock(t, "mysql")

	_, err := p.ListTableNames(context.Background(), "shop", schema.TableKind("SYSTEM VIEW"))
	assert.ErrorIs(t, err, schema.ErrIllegalKind)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListColumns(t *testing.T) {
	p, mock := newMock(t, "mysql")
	mock.ExpectQuery(regexp.QuoteMeta("SHOW COLUMNS FROM `shop`.`users`")).
		WillReturnRows(sqlmock.NewRows([]string{"Field", "Type", "Null", "Key", "Default", "Extra"}).
			AddRow("id", "INT(11)", "NO", "PRI", nil, "auto_increment").
			AddRow("status", "enum('a','b')", "YES", "", "a", ""))

	cols, err := p.ListColumns(context.Background(), "shop", "users")
	require.NoError(t, err)
	require.Len(t, cols, 2)
	assert.Equal(t, "int(11)", cols[0]["Type"])
	assert.Nil(t, cols[0]["Default"])
	assert.Equal(t, "enum('a','b')", cols[1]["Type"])

	table := schema.NormalizeColumns(cols)
	assert.Equal(t, []string{"id", "status"}, table.Keys())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListColumns_PostgresTypesNormalized(t *testing.T) {
	p, mock := newMock(t, "postgres")
	mock.ExpectQuery("FROM information_schema.columns").
		WithArgs("public", "users").
		WillReturnRows(sqlmock.NewRows([]string{"Field", "Type", "Null", "Key", "Default", "Extra"}).
			AddRow("id", "int4", "NO", "PRI", nil, "auto_increment").
			AddRow("name", "character varying(80)", "YES", "", nil, ""))

	cols, err := p.ListColumns(context.Background(), "", "users")
	require.NoError(t, err)
	require.Len(t, cols, 2)
	assert.Equal(t, "int", cols[0]["Type"])
	assert.Equal(t, "varchar(80)", cols[1]["Type"])
}

func TestListColumns_QueryFailure(t *testing.T) {
	p, mock := newMock(t, "mysql")
	mock.ExpectQuery("SHOW COLUMNS").WillReturnError(assert.AnError)

	_, err := p.ListColumns(context.Background(), "shop", "users")
	assert.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, err.Error(), "users")
}

func TestListStoredProcedures(t *testing.T) {
	p, mock := newMock(t, "mysql")
	mock.ExpectQuery("FROM information_schema.ROUTINES").
		WithArgs("shop").
		WillReturnRows(sqlmock.NewRows([]string{"ROUTINE_NAME"}).AddRow("add_user"))
	mock.ExpectQuery("FROM information_schema.PARAMETERS").
		WithArgs("shop").
		WillReturnRows(sqlmock.NewRows([]string{"SPECIFIC_NAME", "ORDINAL_POSITION", "PARAMETER_MODE", "PARAMETER_NAME", "DATA_TYPE", "CHARACTER_MAXIMUM_LENGTH", "DTD_IDENTIFIER"}).
			AddRow("add_user", 1, "in", "user_name", "VARCHAR", 64, "varchar(64)").
			AddRow("add_user", 2, "OUT", "new_id", "int", nil, "int"))

	names, err := p.ListStoredProcedureNames(context.Background(), "shop")
	require.NoError(t, err)
	assert.Equal(t, []string{"add_user"}, names)

	params, err := p.ListStoredProcedureParameters(context.Background(), "shop")
	require.NoError(t, err)
	require.Len(t, params, 2)
	assert.Equal(t, schema.RawParameter{
		SpecificName: "add_user",
		Ordinal:      1,
		Mode:         "IN",
		Name:         "user_name",
		DataType:     "varchar",
		Length:       64,
		DeclaredType: "varchar(64)",
	}, params[0])
	assert.Equal(t, 0, params[1].Length)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBuilderOverSQLProvider(t *testing.T) {
	p, mock := newMock(t, "mysql")
	mock.ExpectQuery("FROM information_schema.TABLES").WithArgs("shop", "BASE TABLE").
		WillReturnRows(sqlmock.NewRows([]string{"TABLE_NAME"}).AddRow("items"))
	mock.ExpectQuery("FROM information_schema.TABLES").WithArgs("shop", "VIEW").
		WillReturnRows(sqlmock.NewRows([]string{"TABLE_NAME"}))
	mock.ExpectQuery(regexp.QuoteMeta("SHOW COLUMNS FROM `shop`.`items`")).
		WillReturnRows(sqlmock.NewRows([]string{"Field", "Type", "Null", "Key", "Default", "Extra"}).
			AddRow("id", "int", "NO", "PRI", nil, "").
			AddRow("name", "varchar(255)", "NO", "", nil, "").
			AddRow("status", "enum('a','b')", "YES", "", nil, ""))
	mock.ExpectQuery("FROM information_schema.ROUTINES").WithArgs("shop").
		WillReturnRows(sqlmock.NewRows([]string{"ROUTINE_NAME"}))
	mock.ExpectQuery("FROM information_schema.PARAMETERS").WithArgs("shop").
		WillReturnRows(sqlmock.NewRows([]string{"SPECIFIC_NAME", "ORDINAL_POSITION", "PARAMETER_MODE", "PARAMETER_NAME", "DATA_TYPE", "CHARACTER_MAXIMUM_LENGTH", "DTD_IDENTIFIER"}))

	s, err := schema.NewBuilder(p, schema.WithDatabase("shop"), schema.WithWorkers(1)).Build(context.Background())
	require.NoError(t, err)

	items, ok := s.Tables.Get("items")
	require.True(t, ok)
	for i, name := range []string{"id", "name", "status"} {
		col, ok := items.Get(name)
		require.True(t, ok)
		assert.Equal(t, i, col.Index)
		assert.Equal(t, name == "id", col.IsPrimary)
	}
	name, _ := items.Get("name")
	assert.Equal(t, 255, name.Length)
	status, _ := items.Get("status")
	assert.Equal(t, []string{"a", "b"}, status.EnumValues)
	assert.NoError(t, mock.ExpectationsWereMet())
}
