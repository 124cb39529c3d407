package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"db-model/internal/enums"
	"db-model/internal/schema"
)

var includeViews bool

var enumsCmd = &cobra.Command{
	Use:   "enums",
	Short: "Reconcile enum columns and show which definition each column uses",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := buildSchema(cmd.Context())
		if err != nil {
			return err
		}
		r := enums.NewResolver(enums.Build(s))
		printRegistry(cmd.OutOrStdout(), r.Registry())

		unresolved := printResolutions(cmd.OutOrStdout(), s, r, includeViews)
		if unresolved > 0 {
			return fmt.Errorf("%d enum column(s) could not be resolved", unresolved)
		}
		return nil
	},
}

func printRegistry(w io.Writer, reg *enums.Registry) {
	fmt.Fprintf(w, "Enum holders (%d)\n", reg.Len())
	for _, h := range reg.Holders() {
		if !h.Merged() {
			continue
		}
		members := reg.ReplacementFor(h)
		names := make([]string, 0, len(members))
		for _, m := range members {
			names = append(names, m.Table+"."+m.Field)
		}
		fmt.Fprintf(w, "  merged %s <- %s\n", h.Reference(), strings.Join(names, ", "))
	}

	canonical := reg.CanonicalHolders()
	fmt.Fprintf(w, "\nDefinitions (%d)\n", len(canonical))
	for _, h := range canonical {
		fmt.Fprintf(w, "  %-32s {%s}\n", h.Reference(), strings.Join(h.Options, ", "))
	}
}

// printResolutions resolves every enum column of the tables (and views when
// asked) and returns how many could not be resolved.
func printResolutions(w io.Writer, s *schema.Schema, r *enums.Resolver, views bool) int {
	unresolved := 0
	resolve := func(rels schema.Dict[*schema.Table]) {
		rels.Range(func(name string, t *schema.Table) bool {
			t.Range(func(_ string, c *schema.Column) bool {
				if !enums.IsEnumColumn(c) {
					return true
				}
				h, err := r.Resolve(name, c)
				if err != nil {
					unresolved++
					Logger.Warn("unresolved enum", zap.String("table", name), zap.String("column", c.Field), zap.Error(err))
					fmt.Fprintf(w, "  %s.%s -> ?\n", name, c.Field)
					return true
				}
				fmt.Fprintf(w, "  %s.%s -> %s\n", name, c.Field, h.Reference())
				return true
			})
			return true
		})
	}

	fmt.Fprintln(w, "\nColumns")
	resolve(s.Tables)
	if views {
		resolve(s.Views)
	}
	return unresolved
}

func init() {
	RootCmd.AddCommand(enumsCmd)
	enumsCmd.Flags().BoolVar(&includeViews, "views", false, "also resolve the enum columns of views")
}
