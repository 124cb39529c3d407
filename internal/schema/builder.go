package schema

import (
	"context"
	"fmt"
	"slices"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const defaultWorkers = 8

// Builder turns the metadata of a live database into a Schema.
type Builder struct {
	provider MetadataProvider
	database string
	workers  int
	logger   *zap.Logger
	progress func(done, total int)
}

// Option configures a Builder.
type Option func(*Builder)

// WithDatabase fixes the database (or schema) to inspect. Without it the
// provider is asked for the current database.
func WithDatabase(name string) Option {
	return func(b *Builder) { b.database = name }
}

// WithWorkers limits how many column listings are fetched concurrently.
func WithWorkers(n int) Option {
	return func(b *Builder) {
		if n > 0 {
			b.workers = n
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithProgress registers a callback invoked after each column listing has
// been fetched, with the number of listings done so far out of total. It may
// be called from several goroutines at once.
func WithProgress(fn func(done, total int)) Option {
	return func(b *Builder) { b.progress = fn }
}

func NewBuilder(provider MetadataProvider, opts ...Option) *Builder {
	b := &Builder{
		provider: provider,
		workers:  defaultWorkers,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build inspects the database and returns its normalized schema. Any provider
// failure aborts the build; a partial schema is never returned.
func (b *Builder) Build(ctx context.Context) (*Schema, error) {
	database := b.database
	if database == "" {
		name, err := b.provider.CurrentDatabase(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve current database: %w", err)
		}
		database = name
	}

	tableNames, err := b.provider.ListTableNames(ctx, database, KindTable)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	viewNames, err := b.provider.ListTableNames(ctx, database, KindView)
	if err != nil {
		return nil, fmt.Errorf("failed to list views: %w", err)
	}

	listings, err := b.fetchColumns(ctx, database, slices.Concat(tableNames, viewNames))
	if err != nil {
		return nil, err
	}

	s := &Schema{Database: database}
	for i, name := range tableNames {
		s.Tables.Set(name, NormalizeColumns(listings[i]))
	}
	for i, name := range viewNames {
		s.Views.Set(name, NormalizeColumns(listings[len(tableNames)+i]))
	}

	procedures, err := b.buildProcedures(ctx, database)
	if err != nil {
		return nil, err
	}
	s.StoredProcedures = procedures

	b.logger.Info("schema built",
		zap.String("database", database),
		zap.Int("tables", s.Tables.Len()),
		zap.Int("views", s.Views.Len()),
		zap.Int("procedures", s.StoredProcedures.Len()),
	)
	return s, nil
}

// fetchColumns lists the columns of every named relation concurrently. The
// result is indexed like names.
func (b *Builder) fetchColumns(ctx context.Context, database string, names []string) ([][]RawColumn, error) {
	listings := make([][]RawColumn, len(names))
	var done atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers)
	for i, name := range names {
		g.Go(func() error {
			cols, err := b.provider.ListColumns(gctx, database, name)
			if err != nil {
				return fmt.Errorf("failed to list columns of %s: %w", name, err)
			}
			listings[i] = cols
			n := done.Add(1)
			if b.progress != nil {
				b.progress(int(n), len(names))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return listings, nil
}

// buildProcedures correlates the procedure listing with the single parameter
// listing by specific name.
func (b *Builder) buildProcedures(ctx context.Context, database string) (Dict[*StoredProcedure], error) {
	var procedures Dict[*StoredProcedure]

	names, err := b.provider.ListStoredProcedureNames(ctx, database)
	if err != nil {
		return procedures, fmt.Errorf("failed to list stored procedures: %w", err)
	}
	params, err := b.provider.ListStoredProcedureParameters(ctx, database)
	if err != nil {
		return procedures, fmt.Errorf("failed to list stored procedure parameters: %w", err)
	}

	for _, name := range names {
		procedures.Set(name, &StoredProcedure{Name: name})
	}

	params = slices.Clone(params)
	slices.SortStableFunc(params, func(x, y RawParameter) int {
		return x.Ordinal - y.Ordinal
	})
	for _, p := range params {
		sp, ok := procedures.Get(p.SpecificName)
		if !ok {
			b.logger.Debug("skipping parameter of unlisted routine",
				zap.String("routine", p.SpecificName),
				zap.String("parameter", p.Name),
			)
			continue
		}
		sp.Parameters.Set(p.Name, &Parameter{
			Name:         p.Name,
			Ordinal:      p.Ordinal,
			Mode:         p.Mode,
			DataType:     p.DataType,
			Length:       p.Length,
			DeclaredType: p.DeclaredType,
		})
	}
	return procedures, nil
}
