package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"db-model/internal/schema"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Print the normalized schema model",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := buildSchema(cmd.Context())
		if err != nil {
			return err
		}
		unknown := printSchema(cmd.OutOrStdout(), s, typeMapper())
		if unknown > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "\n%d column(s) have no type mapping (reported as %q)\n", unknown, schema.UnknownType)
		}
		return nil
	},
}

// printSchema writes a readable report of s and returns the number of columns
// whose type could not be mapped.
func printSchema(w io.Writer, s *schema.Schema, mapper *schema.TypeMapper) int {
	unknown := 0
	fmt.Fprintf(w, "Database: %s\n", s.Database)

	printRelations := func(title string, rels schema.Dict[*schema.Table]) {
		fmt.Fprintf(w, "\n%s (%d)\n", title, rels.Len())
		rels.Range(func(name string, t *schema.Table) bool {
			fmt.Fprintf(w, "  %s -> %s\n", name, schema.ClassName(name))
			t.Range(func(_ string, c *schema.Column) bool {
				mapped := mapper.MapColumn(name, c)
				if mapped == schema.UnknownType {
					unknown++
				}
				fmt.Fprintf(w, "    [%02d] %-24s %-12s %-20s %-4s %s",
					c.Index, c.Field, typeLabel(c), mapped, c.Key, c.Extra)
				if len(c.EnumValues) > 0 {
					fmt.Fprintf(w, " {%s}", strings.Join(c.EnumValues, ", "))
				}
				fmt.Fprintln(w)
				return true
			})
			return true
		})
	}
	printRelations("Tables", s.Tables)
	printRelations("Views", s.Views)

	fmt.Fprintf(w, "\nStored procedures (%d)\n", s.StoredProcedures.Len())
	s.StoredProcedures.Range(func(name string, sp *schema.StoredProcedure) bool {
		fmt.Fprintf(w, "  %s\n", name)
		sp.Parameters.Range(func(_ string, p *schema.Parameter) bool {
			fmt.Fprintf(w, "    %-5s %-24s %s\n", p.Mode, p.Name, p.DeclaredType)
			return true
		})
		return true
	})
	return unknown
}

func typeLabel(c *schema.Column) string {
	if c.Length > 0 {
		return fmt.Sprintf("%s(%d)", c.Type, c.Length)
	}
	return c.Type
}

func init() {
	RootCmd.AddCommand(inspectCmd)
}
