package cli

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/syssam/arangoq/compiler/gen"
)

// SourceFlags override the configuration file from the command line.
type SourceFlags struct {
	Target  string
	Package string
	Types   []string
}

func (f *SourceFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.Target, "target", "t", "", "output directory of the generated packages")
	cmd.Flags().StringVarP(&f.Package, "package", "p", "", "import path of the output directory")
	cmd.Flags().StringSliceVar(&f.Types, "type", nil, "record type to generate (repeatable, requires a package dir)")
}

// loadConfig reads the configuration file, when present, and applies the
// flag overrides. A missing file is only an error when --config was set
// explicitly. A dir argument replaces the configured sources.
func loadConfig(cmd *cobra.Command, opts *RootOptions, flags *SourceFlags, args []string) (*gen.Config, error) {
	cfg := &gen.Config{Dir: "."}
	switch _, err := os.Stat(opts.Config); {
	case err == nil:
		if cfg, err = gen.ReadConfig(opts.Config); err != nil {
			return nil, WrapExitError(ExitCommandError, "reading config", err)
		}
		slog.Debug("read config", "path", opts.Config)
	case !errors.Is(err, fs.ErrNotExist) || configFlagSet(cmd):
		return nil, WrapExitError(ExitCommandError, "reading config", err)
	}

	var options []gen.Option
	if flags.Target != "" {
		dir, err := filepath.Abs(flags.Target)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "resolving target", err)
		}
		options = append(options, gen.WithTarget(dir))
	}
	if flags.Package != "" {
		options = append(options, gen.WithPackage(flags.Package))
	}
	switch {
	case len(args) > 0:
		dir, err := filepath.Abs(args[0])
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "resolving package dir", err)
		}
		cfg.Sources = nil
		options = append(options, gen.WithSource(dir, flags.Types...))
	case len(flags.Types) > 0:
		return nil, NewExitError(ExitCommandError, "--type requires a package dir argument")
	}
	if err := cfg.Apply(options...); err != nil {
		return nil, classify("invalid flags", err)
	}
	if len(cfg.Sources) == 0 && len(cfg.Schemas) == 0 {
		return nil, NewExitError(ExitCommandError, "nothing to generate: pass a package dir or list sources in "+opts.Config)
	}
	return cfg, nil
}

func configFlagSet(cmd *cobra.Command) bool {
	f := cmd.Flag("config")
	return f != nil && f.Changed
}

// buildGraph loads the schemas of cfg and builds the code generation graph.
func buildGraph(ctx context.Context, cfg *gen.Config) (*gen.Graph, error) {
	schemas, err := cfg.LoadSchemas(ctx)
	if err != nil {
		return nil, classify("loading schemas", err)
	}
	g, err := gen.NewGraph(cfg, schemas...)
	if err != nil {
		return nil, classify("building graph", err)
	}
	return g, nil
}

// generate validates cfg and writes the builder packages.
func generate(ctx context.Context, cfg *gen.Config) (*gen.Graph, error) {
	if err := cfg.Validate(); err != nil {
		return nil, classify("invalid config", err)
	}
	g, err := buildGraph(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := g.Gen(ctx); err != nil {
		return nil, classify("generating", err)
	}
	return g, nil
}
