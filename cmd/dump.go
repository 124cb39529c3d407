package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"db-model/internal/schema"
)

var outFile string

var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Write the schema definition as YAML",
	Long: `Write the schema definition as YAML.

The definition is the model embedded by generated code: a deep copy of the
schema in which view columns carry no default values.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := buildSchema(cmd.Context())
		if err != nil {
			return err
		}

		if outFile == "" {
			return writeDefinition(cmd.OutOrStdout(), s)
		}
		f, err := os.Create(outFile)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", outFile, err)
		}
		defer f.Close()
		if err := writeDefinition(f, s); err != nil {
			return err
		}
		Logger.Info("definition written", zap.String("file", outFile))
		return nil
	},
}

func writeDefinition(w io.Writer, s *schema.Schema) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s.DefinitionCopy()); err != nil {
		return fmt.Errorf("failed to encode definition: %w", err)
	}
	return enc.Close()
}

func init() {
	RootCmd.AddCommand(dumpCmd)
	dumpCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default is stdout)")
}
