// Package cli wires configuration, storage and the todo manager behind the
// tada command tree.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/Makepad-fr/tada/internal/config"
	"github.com/Makepad-fr/tada/internal/logging"
	"github.com/Makepad-fr/tada/internal/manager"
	"github.com/Makepad-fr/tada/internal/store"
	"github.com/Makepad-fr/tada/internal/store/kv"
	"github.com/Makepad-fr/tada/internal/tui"
	"github.com/Makepad-fr/tada/internal/ui"
)

// Exit codes.
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

// usageError marks bad input: unknown flags, wrong argument counts,
// references to todos that do not exist.
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

func usagef(format string, args ...any) error {
	return usageError{fmt.Errorf(format, args...)}
}

// ExitCode maps an error returned by the command tree to a process status.
func ExitCode(err error) int {
	var ue usageError
	switch {
	case err == nil:
		return ExitOK
	case errors.As(err, &ue),
		errors.Is(err, manager.ErrEmptyText),
		errors.Is(err, manager.ErrTextTooLong),
		errors.Is(err, manager.ErrInvalidDueDate):
		return ExitUsage
	}
	return ExitError
}

type rootFlags struct {
	dir, backend, key, theme string
	logLevel, logFormat      string
}

// app is the state shared by every command once setup ran.
type app struct {
	stdout, stderr io.Writer
	getenv         func(string) string
	userConfig     string
	now            func() time.Time

	flags rootFlags

	cfg     *config.Config
	log     *log.Logger
	backend kv.Backend
	store   *store.Store
	mgr     *manager.Manager
}

func newApp(stdout, stderr io.Writer) *app {
	return &app{stdout: stdout, stderr: stderr, getenv: os.Getenv, now: time.Now}
}

// Run executes the command line and returns the exit code.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	return newApp(stdout, stderr).run(ctx, args)
}

func (a *app) run(ctx context.Context, args []string) int {
	root := a.rootCmd()
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if cerr := a.close(); err == nil {
		err = cerr
	}
	if err != nil {
		ui.Fail(a.stderr, err.Error())
	}
	return ExitCode(err)
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "tada",
		Short: "A small todo manager for the terminal",
		Long: `tada keeps a prioritized todo list with due dates.

Run without a subcommand to open the interactive list. Todos are referenced
by id or by their 1-based position in "tada ls".

Examples:
  tada add "Buy milk" --priority high --due 2025-01-01
  tada ls --filter active
  tada done 2
  tada complete 1 3 4`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		Args:              usageArgs(cobra.NoArgs),
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error { return a.setup(cmd) },
		RunE:              func(cmd *cobra.Command, _ []string) error { return a.runTUI(cmd.Context()) },
	}
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error { return usageError{err} })

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.dir, "dir", "", "data directory (default: working directory)")
	pf.StringVar(&a.flags.backend, "backend", "", "storage backend: file|sqlite")
	pf.StringVar(&a.flags.key, "key", "", "storage slot name")
	pf.StringVar(&a.flags.theme, "theme", "", "theme: classic|neon|mono")
	pf.StringVar(&a.flags.logLevel, "log-level", "", "log level: debug|info|warn|error")
	pf.StringVar(&a.flags.logFormat, "log-format", "", "log format: text|json|logfmt")

	root.AddCommand(
		a.addCmd(),
		a.lsCmd(),
		a.doneCmd(),
		a.rmCmd(),
		a.editCmd(),
		a.mvCmd(),
		a.completeCmd(),
		a.purgeCmd(),
		a.statsCmd(),
		a.exportCmd(),
		a.doctorCmd(),
		a.tuiCmd(),
	)
	return root
}

// setup loads configuration layers, then applies flags the user set.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(config.Sources{UserFile: a.userConfig, Getenv: a.getenv})
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("dir") {
		cfg.Dir = a.flags.dir
	}
	if flags.Changed("backend") {
		cfg.Backend = kv.Kind(a.flags.backend)
	}
	if flags.Changed("key") {
		cfg.Key = a.flags.key
	}
	if flags.Changed("theme") {
		cfg.Theme = a.flags.theme
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = a.flags.logLevel
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = a.flags.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return usageError{fmt.Errorf("config: %w", err)}
	}
	if err := cfg.Finalize(); err != nil {
		return err
	}
	a.cfg = cfg

	a.log, err = logging.New(a.stderr, logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if err != nil {
		return usageError{err}
	}
	ui.SetTheme(cfg.Theme)

	a.backend, err = kv.Open(cfg.Backend, cfg.Dir)
	if err != nil {
		return fmt.Errorf("open %s backend: %w", cfg.Backend, err)
	}
	a.log.Debug("storage ready", "backend", cfg.Backend, "dir", cfg.Dir, "key", cfg.Key)

	a.store = store.New(a.backend,
		store.WithKey(cfg.Key),
		store.WithLogger(a.log),
		store.WithClock(a.now),
	)
	a.mgr = manager.New(a.store, manager.WithLogger(a.log), manager.WithClock(a.now))
	return nil
}

func (a *app) close() error {
	if a.backend == nil {
		return nil
	}
	err := a.backend.Close()
	a.backend = nil
	return err
}

func (a *app) tuiOptions() tui.Options {
	return tui.Options{
		Theme:         ui.ThemeByName(a.cfg.Theme),
		Presets:       a.cfg.Presets,
		StatsInterval: a.cfg.StatsInterval.Duration,
		Now:           a.now,
	}
}

func (a *app) runTUI(ctx context.Context) error {
	return tui.Run(ctx, a.mgr, a.store, a.log, a.tuiOptions())
}

// resolve turns a user reference into a todo id. An existing id wins;
// otherwise the number is a 1-based position in the full list.
func (a *app) resolve(ref string) (int64, error) {
	n, err := strconv.ParseInt(ref, 10, 64)
	if err != nil {
		return 0, usagef("not a number: %s", ref)
	}
	todos := a.mgr.Todos()
	for _, t := range todos {
		if t.ID == n {
			return n, nil
		}
	}
	if n >= 1 && n <= int64(len(todos)) {
		return todos[n-1].ID, nil
	}
	return 0, usagef("no todo %s: have %d (run `tada ls` to see valid references)", ref, len(todos))
}

func (a *app) resolveAll(refs []string) ([]int64, error) {
	ids := make([]int64, 0, len(refs))
	for _, ref := range refs {
		id, err := a.resolve(ref)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// usageArgs wraps a cobra positional validator so its failures exit as usage errors.
func usageArgs(v cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, a []string) error {
		if err := v(cmd, a); err != nil {
			return usageError{err}
		}
		return nil
	}
}
