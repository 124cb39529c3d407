package schema_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"db-model/internal/schema"
)

type fakeProvider struct {
	current    string
	tables     []string
	views      []string
	columns    map[string][]schema.RawColumn
	procedures []string
	params     []schema.RawParameter

	failColumns    string
	failCurrent    bool
	failKind       schema.TableKind
	failProcedures bool
	failParams     bool

	mu        sync.Mutex
	databases []string
}

func (f *fakeProvider) seen(database string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.databases = append(f.databases, database)
}

func (f *fakeProvider) CurrentDatabase(ctx context.Context) (string, error) {
	if f.failCurrent {
		return "", errors.New("no database")
	}
	return f.current, nil
}

func (f *fakeProvider) ListTableNames(ctx context.Context, database string, kind schema.TableKind) ([]string, error) {
	f.seen(database)
	if err := kind.Validate(); err != nil {
		return nil, err
	}
	if kind == f.failKind {
		return nil, errors.New("table listing failed")
	}
	if kind == schema.KindView {
		return f.views, nil
	}
	return f.tables, nil
}

func (f *fakeProvider) ListColumns(ctx context.Context, database, table string) ([]schema.RawColumn, error) {
	f.seen(database)
	if table == f.failColumns {
		return nil, errors.New("connection reset")
	}
	return f.columns[table], nil
}

func (f *fakeProvider) ListStoredProcedureNames(ctx context.Context, database string) ([]string, error) {
	f.seen(database)
	if f.failProcedures {
		return nil, errors.New("routine listing failed")
	}
	return f.procedures, nil
}

func (f *fakeProvider) ListStoredProcedureParameters(ctx context.Context, database string) ([]schema.RawParameter, error) {
	f.seen(database)
	if f.failParams {
		return nil, errors.New("parameter listing failed")
	}
	return f.params, nil
}

func newShopProvider() *fakeProvider {
	return &fakeProvider{
		current: "shop",
		tables:  []string{"users", "orders"},
		views:   []string{"active_users"},
		columns: map[string][]schema.RawColumn{
			"users": {
				{"Field": "id", "Type": "int(11)", "Null": "NO", "Key": "PRI", "Default": nil, "Extra": "auto_increment"},
				{"Field": "status", "Type": "enum('active','inactive')", "Null": "NO", "Key": "", "Default": "active", "Extra": ""},
			},
			"orders": {
				{"Field": "id", "Type": "int(11)", "Null": "NO", "Key": "PRI", "Default": nil, "Extra": "auto_increment"},
				{"Field": "note", "Type": "varchar(255)", "Null": "YES", "Key": "", "Default": nil, "Extra": ""},
			},
			"active_users": {
				{"Field": "id", "Type": "int(11)", "Null": "NO", "Key": "", "Default": "0", "Extra": ""},
			},
		},
		procedures: []string{"add_user", "purge"},
		params: []schema.RawParameter{
			{SpecificName: "add_user", Ordinal: 2, Mode: "OUT", Name: "new_id", DataType: "int", DeclaredType: "int"},
			{SpecificName: "add_user", Ordinal: 1, Mode: "IN", Name: "user_name", DataType: "varchar", Length: 64, DeclaredType: "varchar(64)"},
			{SpecificName: "dropped_proc", Ordinal: 1, Mode: "IN", Name: "x", DataType: "int", DeclaredType: "int"},
		},
	}
}

func TestBuilder_Build(t *testing.T) {
	p := newShopProvider()

	s, err := schema.NewBuilder(p).Build(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "shop", s.Database)
	assert.Equal(t, []string{"users", "orders"}, s.Tables.Keys())
	assert.Equal(t, []string{"active_users"}, s.Views.Keys())

	users, ok := s.Tables.Get("users")
	require.True(t, ok)
	assert.Equal(t, []string{"id", "status"}, users.Keys())

	id, _ := users.Get("id")
	assert.True(t, id.IsPrimary)
	assert.Equal(t, 11, id.Length)

	status, _ := users.Get("status")
	assert.Equal(t, "enum", status.Type)
	assert.Equal(t, []string{"active", "inactive"}, status.EnumValues)

	for _, db := range p.databases {
		assert.Equal(t, "shop", db)
	}
}

func TestBuilder_Build_Procedures(t *testing.T) {
	s, err := schema.NewBuilder(newShopProvider()).Build(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"add_user", "purge"}, s.StoredProcedures.Keys())

	addUser, ok := s.StoredProcedures.Get("add_user")
	require.True(t, ok)
	assert.Equal(t, []string{"user_name", "new_id"}, addUser.Parameters.Keys())

	in, _ := addUser.Parameters.Get("user_name")
	assert.Equal(t, "IN", in.Mode)
	assert.Equal(t, 64, in.Length)

	purge, ok := s.StoredProcedures.Get("purge")
	require.True(t, ok)
	assert.Equal(t, 0, purge.Parameters.Len())

	_, ok = s.StoredProcedures.Get("dropped_proc")
	assert.False(t, ok)
}

func TestBuilder_Build_ExplicitDatabase(t *testing.T) {
	p := newShopProvider()
	p.failCurrent = true

	s, err := schema.NewBuilder(p, schema.WithDatabase("archive")).Build(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "archive", s.Database)
	require.NotEmpty(t, p.databases)
	for _, db := range p.databases {
		assert.Equal(t, "archive", db)
	}
}

func TestBuilder_Build_Failures(t *testing.T) {
	t.Run("current database", func(t *testing.T) {
		p := newShopProvider()
		p.failCurrent = true

		s, err := schema.NewBuilder(p).Build(context.Background())
		assert.Error(t, err)
		assert.Nil(t, s)
	})

	t.Run("column listing", func(t *testing.T) {
		p := newShopProvider()
		p.failColumns = "orders"

		s, err := schema.NewBuilder(p, schema.WithWorkers(1)).Build(context.Background())
		require.Error(t, err)
		assert.Nil(t, s)
		assert.Contains(t, err.Error(), "orders")
	})

	listings := []struct {
		name  string
		setup func(*fakeProvider)
		want  string
	}{
		{"tables", func(p *fakeProvider) { p.failKind = schema.KindTable }, "failed to list tables"},
		{"views", func(p *fakeProvider) { p.failKind = schema.KindView }, "failed to list views"},
		{"procedures", func(p *fakeProvider) { p.failProcedures = true }, "failed to list stored procedures"},
		{"parameters", func(p *fakeProvider) { p.failParams = true }, "failed to list stored procedure parameters"},
	}
	for _, tt := range listings {
		t.Run(tt.name, func(t *testing.T) {
			p := newShopProvider()
			tt.setup(p)

			s, err := schema.NewBuilder(p).Build(context.Background())
			require.Error(t, err)
			assert.Nil(t, s)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestBuilder_Build_ProgressAndLogging(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)

	var (
		mu    sync.Mutex
		calls int
		total int
	)
	progress := func(done, n int) {
		mu.Lock()
		defer mu.Unlock()
		calls++
		total = n
	}

	_, err := schema.NewBuilder(newShopProvider(),
		schema.WithWorkers(2),
		schema.WithLogger(zap.New(core)),
		schema.WithProgress(progress),
	).Build(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, calls)
	assert.Equal(t, 3, total)

	built := logs.FilterMessage("schema built").All()
	require.Len(t, built, 1)
	assert.Equal(t, int64(2), built[0].ContextMap()["tables"])
}

func TestTableKind_Validate(t *testing.T) {
	assert.NoError(t, schema.KindTable.Validate())
	assert.NoError(t, schema.KindView.Validate())
	assert.ErrorIs(t, schema.TableKind("SYSTEM VIEW").Validate(), schema.ErrIllegalKind)
}
