package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/tasks/internal/config"
	"github.com/idilsaglam/tasks/internal/ctxlog"
	"github.com/idilsaglam/tasks/internal/registry"
	"github.com/idilsaglam/tasks/internal/store/jsonstore"
	"github.com/idilsaglam/tasks/internal/ui"
)

// Exit codes returned by Run.
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

// Options wires the CLI to its output streams.
type Options struct {
	Stdout io.Writer
	Stderr io.Writer
}

// usageError means the command line itself was wrong. An empty msg means
// help has already been printed.
type usageError struct{ msg string }

func (e *usageError) Error() string { return e.msg }

func usagef(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

// Run executes one command line and returns an exit code (0 ok, 1 error, 2 usage).
func Run(args []string, opt Options) int {
	if opt.Stdout == nil {
		opt.Stdout = os.Stdout
	}
	if opt.Stderr == nil {
		opt.Stderr = os.Stderr
	}

	root := newApp().rootCmd()
	root.SetArgs(args)
	root.SetOut(opt.Stdout)
	root.SetErr(opt.Stderr)

	err := root.ExecuteContext(context.Background())
	if err == nil {
		return ExitOK
	}
	var ue *usageError
	switch {
	case errors.As(err, &ue):
		if ue.msg != "" {
			ui.Fail(opt.Stderr, ue.msg)
		}
		return ExitUsage
	case errors.Is(err, registry.ErrValidation):
		ui.Fail(opt.Stderr, err.Error())
		return ExitUsage
	default:
		ui.Fail(opt.Stderr, err.Error())
		return ExitError
	}
}

// app carries flag values and per-invocation state shared by subcommands.
type app struct {
	cfgFile  string
	dataFile string
	theme    string
	group    bool
	noColor  bool
	verbose  bool

	cfg   config.Config
	store *jsonstore.Store
}

func newApp() *app { return &app{} }

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "tasks",
		Short: "tasks - a tiny task list",
		Long: `tasks keeps an ordered list of tasks in a JSON file.

Tasks are matched either by exact description (first match wins)
or by id (see "tasks ls --ids").`,
		Example: `  tasks add "Buy milk"
  tasks ls --group
  tasks done Buy milk
  tasks done --id 6f1c2b1e-3d7a-4c55-8e0f-2a9b4d6c8e10
  tasks find Buy milk
  tasks rm Buy milk
  tasks tui`,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return usagef("unknown subcommand: %s", args[0])
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return &usageError{}
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &usageError{msg: err.Error()}
	})

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (default: $"+config.EnvConfig+", ./tasks.toml, ~/.config/tasks/config.toml)")
	pf.StringVar(&a.dataFile, "data", "", "task file (default: ./"+jsonstore.DefaultFileName+")")
	pf.StringVar(&a.theme, "theme", "", "output theme: classic, neon or mono")
	pf.BoolVar(&a.group, "group", false, "group output by pending/done")
	pf.BoolVar(&a.noColor, "no-color", false, "disable colours")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "debug logging on stderr")

	root.AddCommand(
		a.addCmd(),
		a.lsCmd(),
		a.doneCmd(),
		a.rmCmd(),
		a.findCmd(),
		a.tuiCmd(),
	)
	return root
}

// setup resolves config (flags win over the file), applies the theme and
// puts the logger into the command context.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return err
	}
	f := cmd.Flags()
	if f.Changed("data") {
		cfg.DataFile = a.dataFile
	}
	if f.Changed("theme") {
		cfg.Theme = a.theme
	}
	if f.Changed("group") {
		cfg.Group = a.group
	}
	if f.Changed("no-color") {
		cfg.NoColor = a.noColor
	}
	if a.verbose {
		cfg.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return &usageError{msg: err.Error()}
	}

	ui.SetTheme(cfg.Theme)
	ui.SetColorEnabled(!cfg.NoColor)

	log, err := ctxlog.New(cmd.ErrOrStderr(), cfg.LogLevel)
	if err != nil {
		return &usageError{msg: err.Error()}
	}

	path := cfg.DataFile
	if path == "" {
		if path, err = jsonstore.DefaultPath(); err != nil {
			return err
		}
	}
	a.cfg = cfg
	a.store = jsonstore.New(path)

	log.Debug("setup done", "data", path, "theme", cfg.Theme)
	cmd.SetContext(ctxlog.WithLogger(cmd.Context(), log))
	return nil
}

// registry loads the saved tasks into a fresh registry.
func (a *app) registry(ctx context.Context) (*registry.Registry, error) {
	tasks, err := a.store.Load()
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	reg, err := registry.Load(tasks, registry.WithLogger(ctxlog.FromContext(ctx)))
	if err != nil {
		// Bad records on disk are a data problem, not a usage one.
		return nil, fmt.Errorf("load %s: %v", a.store.Path(), err)
	}
	return reg, nil
}

func (a *app) save(ctx context.Context, reg *registry.Registry) error {
	if err := a.store.Save(reg.List()); err != nil {
		return fmt.Errorf("save: %w", err)
	}
	ctxlog.FromContext(ctx).Debug("saved", slog.String("path", a.store.Path()), slog.Int("tasks", reg.Len()))
	return nil
}
