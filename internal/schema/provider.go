package schema

import (
	"context"
	"errors"
	"fmt"
)

// ErrIllegalKind is returned when a table listing is requested for anything
// other than KindTable or KindView.
var ErrIllegalKind = errors.New("illegal table kind")

// TableKind selects base tables or views in a table listing.
type TableKind string

const (
	KindTable TableKind = "BASE TABLE"
	KindView  TableKind = "VIEW"
)

// Validate reports ErrIllegalKind for unsupported kinds.
func (k TableKind) Validate() error {
	switch k {
	case KindTable, KindView:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrIllegalKind, string(k))
}

// RawColumn is one row of a column listing as returned by the database. Keys
// keep whatever case the database used (Field, TYPE, null, ...); values are
// string, []byte or nil.
type RawColumn map[string]any

// RawParameter is one stored procedure parameter as listed by the database.
type RawParameter struct {
	SpecificName string // owning procedure
	Ordinal      int
	Mode         string // IN, OUT or INOUT
	Name         string
	DataType     string
	Length       int
	DeclaredType string
}

// MetadataProvider answers structural questions about a live database.
type MetadataProvider interface {
	CurrentDatabase(ctx context.Context) (string, error)
	// ListTableNames must reject kinds other than KindTable and KindView
	// before querying anything.
	ListTableNames(ctx context.Context, database string, kind TableKind) ([]string, error)
	// ListColumns returns the columns of one table or view in declaration order.
	ListColumns(ctx context.Context, database, table string) ([]RawColumn, error)
	ListStoredProcedureNames(ctx context.Context, database string) ([]string, error)
	// ListStoredProcedureParameters returns the parameters of every procedure
	// in the database in a single listing.
	ListStoredProcedureParameters(ctx context.Context, database string) ([]RawParameter, error)
}
