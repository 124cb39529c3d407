// Package provider implements schema.MetadataProvider on top of database/sql.
package provider

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"db-model/internal/dialect"
	"db-model/internal/schema"
)

// ErrNoDatabase is returned when the connection has no current database.
var ErrNoDatabase = errors.New("no database selected")

// SQLProvider reads metadata through a dialect's introspection queries.
type SQLProvider struct {
	db      *sql.DB
	dialect dialect.Dialect
	logger  *zap.Logger
}

var _ schema.MetadataProvider = (*SQLProvider)(nil)

// New creates a provider. If logger is nil, a no-op logger is used.
func New(db *sql.DB, d dialect.Dialect, logger *zap.Logger) *SQLProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SQLProvider{db: db, dialect: d, logger: logger}
}

func (p *SQLProvider) CurrentDatabase(ctx context.Context) (string, error) {
	var name sql.NullString
	if err := p.db.QueryRowContext(ctx, p.dialect.CurrentDatabaseQuery()).Scan(&name); err != nil {
		return "", fmt.Errorf("failed to get database name: %w", err)
	}
	if !name.Valid || name.String == "" {
		return "", ErrNoDatabase
	}
	return p.dialect.GetSchemaName(name.String), nil
}

func (p *SQLProvider) ListTableNames(ctx context.Context, database string, kind schema.TableKind) ([]string, error) {
	var tableType string
	switch kind {
	case schema.KindTable:
		tableType = dialect.TableTypeBase
	case schema.KindView:
		tableType = dialect.TableTypeView
	default:
		return nil, kind.Validate()
	}
	query, args := p.dialect.TablesQuery(database, tableType)
	names, err := p.queryStrings(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s names: %w", strings.ToLower(string(kind)), err)
	}
	return names, nil
}

// ListColumns returns the raw column rows of one relation. The bare part of
// the Type value is normalized by the dialect; its (length) suffix is kept.
func (p *SQLProvider) ListColumns(ctx context.Context, database, table string) ([]schema.RawColumn, error) {
	query, args := p.dialect.ColumnsQuery(database, table)
	p.logger.Debug("listing columns", zap.String("table", table))

	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query columns (table: %s): %w", table, err)
	}
	defer rows.Close()

	names, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read column headers (table: %s): %w", table, err)
	}

	var columns []schema.RawColumn
	for rows.Next() {
		values := make([]any, len(names))
		ptrs := make([]any, len(names))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan column (table: %s): %w", table, err)
		}
		raw := make(schema.RawColumn, len(names))
		for i, name := range names {
			raw[name] = values[i]
		}
		p.normalizeType(raw)
		columns = append(columns, raw)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating columns (table: %s): %w", table, err)
	}
	return columns, nil
}

func (p *SQLProvider) ListStoredProcedureNames(ctx context.Context, database string) ([]string, error) {
	query, args := p.dialect.ProceduresQuery(database)
	names, err := p.queryStrings(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query stored procedures: %w", err)
	}
	return names, nil
}

func (p *SQLProvider) ListStoredProcedureParameters(ctx context.Context, database string) ([]schema.RawParameter, error) {
	query, args := p.dialect.ParametersQuery(database)
	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query stored procedure parameters: %w", err)
	}
	defer rows.Close()

	var params []schema.RawParameter
	for rows.Next() {
		var (
			specific                       string
			ordinal, length                sql.NullInt64
			mode, name, dataType, declared sql.NullString
		)
		if err := rows.Scan(&specific, &ordinal, &mode, &name, &dataType, &length, &declared); err != nil {
			return nil, fmt.Errorf("failed to scan stored procedure parameter: %w", err)
		}
		params = append(params, schema.RawParameter{
			SpecificName: specific,
			Ordinal:      int(ordinal.Int64),
			Mode:         strings.ToUpper(mode.String),
			Name:         name.String,
			DataType:     p.dialect.NormalizeType(dataType.String),
			Length:       int(length.Int64),
			DeclaredType: declared.String,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stored procedure parameters: %w", err)
	}
	return params, nil
}

func (p *SQLProvider) queryStrings(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// normalizeType rewrites the bare part of the raw type through the dialect,
// whatever the case of the Type key.
func (p *SQLProvider) normalizeType(raw schema.RawColumn) {
	for key, value := range raw {
		if !strings.EqualFold(key, "type") {
			continue
		}
		var declared string
		switch v := value.(type) {
		case string:
			declared = v
		case []byte:
			declared = string(v)
		default:
			return
		}
		bare, rest, found := strings.Cut(declared, "(")
		normalized := p.dialect.NormalizeType(bare)
		if found {
			normalized += "(" + rest
		}
		raw[key] = normalized
		return
	}
}
