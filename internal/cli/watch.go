package cli

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/syssam/arangoq/compiler/gen"
)

// DefaultWatchDelay is how long the watcher waits for changes to settle
// before regenerating.
const DefaultWatchDelay = 200 * time.Millisecond

// NewWatchCommand creates the watch command.
func NewWatchCommand(rootOpts *RootOptions) *cobra.Command {
	flags := &SourceFlags{}
	var delay time.Duration
	cmd := &cobra.Command{
		Use:   "watch [dir]",
		Short: "Regenerate query builders on change",
		Long: `Generate the query builders, then regenerate them whenever a Go file of
a local source package or the configuration file changes. Runs until
interrupted.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := &watch{
				cmd:   cmd,
				opts:  rootOpts,
				flags: flags,
				args:  args,
				delay: delay,
			}
			return w.run(cmd.Context())
		},
	}
	flags.register(cmd)
	cmd.Flags().DurationVar(&delay, "delay", DefaultWatchDelay, "quiet period before regenerating")
	return cmd
}

type watch struct {
	cmd   *cobra.Command
	opts  *RootOptions
	flags *SourceFlags
	args  []string
	delay time.Duration

	config    string          // absolute path of the configuration file, if any
	generated map[string]bool // absolute directories of the generated packages
}

func (w *watch) run(ctx context.Context) error {
	cfg, err := loadConfig(w.cmd, w.opts, w.flags, w.args)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return classify("invalid config", err)
	}
	if _, err := os.Stat(w.opts.Config); err == nil {
		w.config, _ = filepath.Abs(w.opts.Config)
	}
	w.generated = make(map[string]bool)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return WrapExitError(ExitFailure, "creating watcher", err)
	}
	defer watcher.Close()
	for _, dir := range w.dirs(cfg) {
		if err := watcher.Add(dir); err != nil {
			return WrapExitError(ExitFailure, "watching "+dir, err)
		}
		slog.Debug("watching", "dir", dir)
	}

	w.regenerate(ctx, cfg)
	var pending <-chan time.Time
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if w.relevant(event) {
				slog.Debug("change detected", "file", event.Name, "op", event.Op.String())
				pending = time.After(w.delay)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watch error", "error", err)
		case <-pending:
			pending = nil
			cfg, err := loadConfig(w.cmd, w.opts, w.flags, w.args)
			if err != nil {
				slog.Error("reloading config", "error", err)
				continue
			}
			w.regenerate(ctx, cfg)
		case <-ctx.Done():
			return nil
		}
	}
}

// regenerate runs one generation. Failures are logged; the watch goes on.
func (w *watch) regenerate(ctx context.Context, cfg *gen.Config) {
	g, err := generate(ctx, cfg)
	if err != nil {
		slog.Error("generation failed", "error", err)
		return
	}
	r := newGenerateResult(g)
	for _, f := range r.Files {
		if dir, err := filepath.Abs(filepath.Join(r.Target, filepath.Dir(f))); err == nil {
			w.generated[dir] = true
		}
	}
	if err := writeResult(w.cmd.OutOrStdout(), w.opts.Format, r); err != nil {
		slog.Error("writing result", "error", err)
	}
}

// dirs returns the directories to watch: the one of the configuration file
// and those of the sources given as directories. Sources given as import
// paths are not watched.
func (w *watch) dirs(cfg *gen.Config) []string {
	seen := make(map[string]bool)
	var dirs []string
	add := func(dir string) {
		if abs, err := filepath.Abs(dir); err == nil && !seen[abs] {
			seen[abs] = true
			dirs = append(dirs, abs)
		}
	}
	if w.config != "" {
		add(filepath.Dir(w.config))
	}
	for _, src := range cfg.Sources {
		dir := src.Package
		if !filepath.IsAbs(dir) {
			if !strings.HasPrefix(dir, ".") {
				continue
			}
			dir = filepath.Join(cfg.Dir, dir)
		}
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			add(dir)
		}
	}
	return dirs
}

// relevant reports whether event should trigger a regeneration. Writes to
// the generated packages are ignored so that generating does not retrigger.
func (w *watch) relevant(event fsnotify.Event) bool {
	if event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write) {
		return false
	}
	name, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	if w.generated[filepath.Dir(name)] {
		return false
	}
	if name == w.config {
		return true
	}
	return filepath.Ext(name) == ".go" && !strings.HasSuffix(name, "_test.go")
}
