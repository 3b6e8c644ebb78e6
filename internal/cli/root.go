// Package cli wires thermite's command line to the shred engine.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"thermite/internal/config"
	"thermite/internal/logging"
	"thermite/internal/shred"
	"thermite/internal/tui/shredview"
	"thermite/internal/ui"
	"thermite/pkg/fileops"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// Exit codes.
const (
	ExitOK      = 0
	ExitIO      = 1
	ExitInvalid = 2
)

// errUsage marks command line mistakes: bad flags or too many arguments.
var errUsage = errors.New("usage error")

type flags struct {
	passes     int
	workers    int
	configPath string
	force      bool
	plain      bool
	noColor    bool
	initConfig bool
}

type app struct {
	stdout io.Writer
	stderr io.Writer
	logger *logging.AppLogger
	flags  flags
}

// NewRootCommand builds the thermite command. Output goes to stdout and
// stderr; nothing is written to os.Stdout directly. A nil logger logs
// warnings to stderr, or everything to the debug log when debugging is on.
func NewRootCommand(stdout, stderr io.Writer, logger *logging.AppLogger) *cobra.Command {
	if logger == nil {
		logger = logging.GetDefault()
		if !logger.IsDebug() {
			logger = logging.NewWriterLogger(stderr, log.WarnLevel)
		}
	}
	a := &app{stdout: stdout, stderr: stderr, logger: logger}

	cmd := &cobra.Command{
		Use:           "thermite [options] <file>",
		Short:         "Securely destroy a file",
		Args:          a.validateArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			ui.SetColor(ui.ColorEnabled(a.flags.noColor) && isTerminal(a.stdout))
		},
		RunE: a.run,
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	f := cmd.Flags()
	f.IntVarP(&a.flags.passes, "passes", "p", config.DefaultPasses, "number of overwrite passes")
	f.IntVarP(&a.flags.workers, "workers", "w", config.DefaultMaxWorkers, "maximum number of parallel writers")
	f.StringVar(&a.flags.configPath, "config", "", "config file (default "+config.ConfigPath()+")")
	f.BoolVar(&a.flags.force, "force", false, "allow files inside system directories")
	f.BoolVar(&a.flags.plain, "plain", false, "print progress lines instead of the interactive view")
	f.BoolVar(&a.flags.noColor, "no-color", false, "disable colored output")
	f.BoolVar(&a.flags.initConfig, "init-config", false, "write a config file with the current settings and exit")

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return errors.Mark(err, errUsage)
	})
	cmd.SetHelpFunc(a.help)

	return cmd
}

func (a *app) validateArgs(_ *cobra.Command, args []string) error {
	if len(args) > 1 {
		return errors.Mark(errors.Newf("expected one file, got %d arguments", len(args)), errUsage)
	}
	return nil
}

func (a *app) help(cmd *cobra.Command, _ []string) {
	ui.SetColor(ui.ColorEnabled(a.flags.noColor) && isTerminal(a.stdout))
	fmt.Fprint(a.stdout, ui.Banner())

	cfg := a.defaults()
	md := ui.HelpMarkdown(cfg.Passes, cfg.MaxWorkers, config.ConfigPath())
	out, err := ui.RenderHelp(md, terminalWidth(a.stdout), !isTerminal(a.stdout))
	if err != nil {
		a.logger.Debug("Help rendering failed, printing markdown", "error", err)
		out = md
	}
	fmt.Fprint(a.stdout, out)
}

// defaults returns the configured settings for display, ignoring config errors.
func (a *app) defaults() config.Config {
	cfg, err := a.loadConfig()
	if err != nil {
		return config.DefaultConfig()
	}
	return *cfg
}

func (a *app) loadConfig() (*config.Config, error) {
	if a.flags.configPath != "" {
		return config.LoadFrom(fileops.ExpandPath(a.flags.configPath))
	}
	return config.Load()
}

func (a *app) run(cmd *cobra.Command, args []string) error {
	fmt.Fprintln(a.stdout, ui.Banner())

	if a.flags.initConfig {
		if len(args) > 0 {
			return errors.Mark(errors.New("--init-config does not take a file"), errUsage)
		}
		return a.writeConfig(cmd)
	}

	cfg, err := a.loadConfig()
	if err != nil {
		return errors.Mark(errors.WithHint(err, "fix or remove the config file"), shred.ErrInvalidInput)
	}

	if len(args) == 0 {
		fmt.Fprint(a.stdout, ui.UsageText(cfg.Passes))
		return nil
	}

	opts, err := a.options(cmd, cfg)
	if err != nil {
		return err
	}
	target := fileops.ExpandPath(args[0])

	fmt.Fprintln(a.stdout, ui.SSDWarning(terminalWidth(a.stdout)))

	var res *shred.Result
	if !a.flags.plain && isTerminal(a.stdout) {
		res, err = shredview.Run(cmd.Context(), target, opts, a.logger, tea.WithOutput(a.stdout))
	} else {
		opts.Reporter = ui.NewLineReporter(a.stdout)
		var s *shred.Shredder
		if s, err = shred.New(opts, a.logger); err == nil {
			res, err = s.SecureDelete(cmd.Context(), target)
		}
	}
	if err != nil {
		return err
	}

	a.logger.Debug("Secure delete finished",
		"path", res.Path,
		"size", res.Size,
		"final_name", res.FinalName,
		"duration", res.Duration,
		"metadata_error", res.MetadataErr,
	)
	return nil
}

// writeConfig saves the defaults, overridden by any flags given, to the
// --config path or the standard location. An existing file is left alone.
func (a *app) writeConfig(cmd *cobra.Command) error {
	cfg := config.DefaultConfig()
	opts, err := a.options(cmd, &cfg)
	if err != nil {
		return err
	}
	cfg.Passes = opts.Passes
	cfg.MaxWorkers = opts.MaxWorkers
	cfg.ProtectSystemPaths = opts.ProtectSystemPaths
	if err := cfg.Validate(); err != nil {
		return errors.Mark(err, shred.ErrInvalidInput)
	}

	path := config.ConfigPath()
	save := cfg.Save
	if a.flags.configPath != "" {
		path = fileops.ExpandPath(a.flags.configPath)
		save = func() error { return cfg.SaveTo(path) }
	}
	if _, err := os.Lstat(path); err == nil {
		return errors.Mark(
			errors.WithHint(errors.Newf("config file %s already exists", path), "edit it or remove it first"),
			shred.ErrInvalidInput)
	}
	if err := save(); err != nil {
		return err
	}

	a.logger.Debug("Wrote config file", "path", path)
	fmt.Fprintf(a.stdout, "Wrote config to %s\n", path)
	return nil
}

// options merges config values with explicitly set flags.
func (a *app) options(cmd *cobra.Command, cfg *config.Config) (shred.Options, error) {
	opts := shred.Options{
		Passes:             cfg.Passes,
		MaxWorkers:         cfg.MaxWorkers,
		BufferSize:         cfg.BufferSize,
		Sync:               cfg.Sync,
		ProtectSystemPaths: cfg.ProtectSystemPaths,
	}

	f := cmd.Flags()
	if f.Changed("passes") {
		// Non-positive counts are rejected by the engine as invalid input.
		opts.Passes = a.flags.passes
	}
	if f.Changed("workers") {
		if a.flags.workers <= 0 {
			return opts, errors.Mark(errors.Newf("--workers must be positive, got %d", a.flags.workers), errUsage)
		}
		opts.MaxWorkers = a.flags.workers
	}
	if a.flags.force {
		opts.ProtectSystemPaths = false
	}
	return opts, nil
}

// Execute runs the command with args and returns the process exit code.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := NewRootCommand(stdout, stderr, nil)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return ExitOK
	}

	fmt.Fprintln(stderr, ui.FormatError(err))
	code := ExitCode(err)
	if errors.Is(err, errUsage) {
		fmt.Fprintln(stderr)
		fmt.Fprint(stderr, ui.UsageText(config.DefaultPasses))
	}
	return code
}

// ExitCode maps an error to the process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, errUsage), errors.Is(err, shred.ErrInvalidInput):
		return ExitInvalid
	default:
		return ExitIO
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func terminalWidth(w io.Writer) int {
	if f, ok := w.(*os.File); ok {
		if width, _, err := term.GetSize(int(f.Fd())); err == nil {
			return width
		}
	}
	return 80
}
