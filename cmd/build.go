package cmd

import (
	"context"
	"fmt"
	"sync"

	"github.com/gosuri/uiprogress"
	"github.com/spf13/viper"

	"db-model/internal/dialect"
	"db-model/internal/provider"
	"db-model/internal/schema"
)

var showProgress bool

// buildSchema inspects the connected database and returns its model.
func buildSchema(ctx context.Context) (*schema.Schema, error) {
	d := dialect.GetDialect(DriverName)
	p := provider.New(DB, d, Logger)

	opts := []schema.Option{
		schema.WithDatabase(SchemaName),
		schema.WithWorkers(viper.GetInt("settings.workers")),
		schema.WithLogger(Logger),
	}

	var (
		once sync.Once
		bar  *uiprogress.Bar
	)
	if showProgress {
		uiprogress.Start()
		defer uiprogress.Stop()
		opts = append(opts, schema.WithProgress(func(done, total int) {
			once.Do(func() {
				bar = uiprogress.AddBar(total).AppendCompleted().PrependElapsed()
				bar.PrependFunc(func(b *uiprogress.Bar) string {
					return "Reading columns: "
				})
			})
			bar.Incr()
		}))
	}

	s, err := schema.NewBuilder(p, opts...).Build(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to build schema (dialect: %s): %w", d.Name(), err)
	}
	return s, nil
}

// typeMapper returns the mapper configured by the "types" config section.
func typeMapper() *schema.TypeMapper {
	return schema.NewTypeMapper(Logger, viper.GetStringMapString("types"))
}

func init() {
	RootCmd.PersistentFlags().BoolVar(&showProgress, "progress", false, "show a progress bar while reading columns")
}
