package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/syssam/arangoq/compiler/gen"
)

// SchemaView is the inspect output of one record type.
type SchemaView struct {
	Name       string      `json:"name"`
	PkgPath    string      `json:"pkg_path,omitempty"`
	Package    string      `json:"package"`
	Collection string      `json:"collection"`
	Fields     []FieldView `json:"fields"`
}

// FieldView is the inspect output of one field.
type FieldView struct {
	Name   string `json:"name"`
	GoName string `json:"go_name"`
	Type   string `json:"type"`
}

// NewInspectCommand creates the inspect command.
func NewInspectCommand(rootOpts *RootOptions) *cobra.Command {
	flags := &SourceFlags{}
	cmd := &cobra.Command{
		Use:   "inspect [dir]",
		Short: "Print the loaded record schemas",
		Long: `Print the record schemas aqlgen would generate builders for,
with the package and collection name of each.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, rootOpts, flags, args)
			if err != nil {
				return err
			}
			g, err := buildGraph(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			views := schemaViews(g)
			if rootOpts.Format == "json" {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(views)
			}
			return printSchemas(cmd.OutOrStdout(), views)
		},
	}
	flags.register(cmd)
	return cmd
}

func schemaViews(g *gen.Graph) []SchemaView {
	views := make([]SchemaView, len(g.Nodes))
	for i, t := range g.Nodes {
		v := SchemaView{
			Name:       t.Name,
			PkgPath:    t.RecordPkgPath(),
			Package:    t.PkgPath(),
			Collection: t.Collection(),
			Fields:     make([]FieldView, len(t.Fields)),
		}
		for j, f := range t.Fields {
			v.Fields[j] = FieldView{Name: f.Name, GoName: f.StructField(), Type: f.Type.String()}
		}
		views[i] = v
	}
	return views
}

func printSchemas(w io.Writer, views []SchemaView) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for i, v := range views {
		if i > 0 {
			fmt.Fprintln(tw)
		}
		fmt.Fprintf(tw, "%s\t%s\tcollection %s\n", v.Name, v.Package, v.Collection)
		for _, f := range v.Fields {
			fmt.Fprintf(tw, "  %s\t%s\t%s\n", f.Name, f.GoName, f.Type)
		}
	}
	return tw.Flush()
}
