package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/syssam/arangoq/compiler/gen"
)

// GenerateResult lists the files written by a generation.
type GenerateResult struct {
	Target string   `json:"target"`
	Files  []string `json:"files"`
}

// NewGenerateCommand creates the generate command.
func NewGenerateCommand(rootOpts *RootOptions) *cobra.Command {
	flags := &SourceFlags{}
	cmd := &cobra.Command{
		Use:   "generate [dir]",
		Short: "Generate query builders",
		Long: `Generate one query builder package per record type.

The record types are read from the sources of the configuration file, or
from the Go package in dir. Flags override the configuration file.`,
		Example: `  aqlgen generate
  aqlgen generate --target ./queries --package example.com/app/queries ./records
  aqlgen generate --type Person --type Song -p example.com/app/queries -t ./queries ./records`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, rootOpts, flags, args)
			if err != nil {
				return err
			}
			g, err := generate(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			return writeResult(cmd.OutOrStdout(), rootOpts.Format, newGenerateResult(g))
		},
	}
	flags.register(cmd)
	return cmd
}

func newGenerateResult(g *gen.Graph) GenerateResult {
	r := GenerateResult{Target: g.TargetDir(), Files: make([]string, len(g.Nodes))}
	for i, t := range g.Nodes {
		r.Files[i] = filepath.ToSlash(t.File())
	}
	return r
}

func writeResult(w io.Writer, format string, r GenerateResult) error {
	if format == "json" {
		return json.NewEncoder(w).Encode(r)
	}
	for _, f := range r.Files {
		if _, err := fmt.Fprintln(w, filepath.Join(r.Target, f)); err != nil {
			return err
		}
	}
	return nil
}
