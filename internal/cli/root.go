// Package cli implements the aqlgen command.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/syssam/arangoq/compiler/gen"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Config  string // path of the configuration file
	Format  string // "json" | "text"
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the aqlgen CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "aqlgen",
		Short: "aqlgen - typed AQL query builders",
		Long: `aqlgen generates typed AQL query builders from Go record types.

Each record type gets a package whose states only carry the operations
that are legal in them, so an incomplete or malformed query does not
compile.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			slog.SetDefault(newLogger(cmd.ErrOrStderr(), opts.Verbose))
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVarP(&opts.Config, "config", "c", gen.DefaultConfigFile, "configuration file")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewGenerateCommand(opts))
	cmd.AddCommand(NewWatchCommand(opts))
	cmd.AddCommand(NewInspectCommand(opts))

	return cmd
}

// newLogger returns a text logger writing to w. Debug records are kept in
// verbose mode only.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
