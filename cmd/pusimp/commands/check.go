package commands

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	pusimp "github.com/python-pusimp/go-pusimp"
	"github.com/python-pusimp/go-pusimp/manifest"
)

// ErrProblemsFound is returned by the check command when at least one
// dependency is missing, broken or imported from a local path.
var ErrProblemsFound = errors.New("dependency problems found")

// checkOptions holds the check command flags that are not part of Config.
type checkOptions struct {
	configPath string
	summary    bool
	noColor    bool
}

// NewCheckCommand creates the check command.
func NewCheckCommand() *cobra.Command {
	var opts checkOptions

	cmd := &cobra.Command{
		Use:   "check [manifest]",
		Short: "Check that dependencies are provided by the system package manager",
		Long: `Check loads a guard manifest and verifies that every dependency it lists
is imported from the system-wide installation.

The manifest is a Starlark file (default: ` + manifest.DefaultFile + `) or a YAML/JSON file.
Dependencies are imported with a Python interpreter unless --search-path is given,
in which case modules are located on disk in the listed directories.

Examples:
  pusimp check
  pusimp check deps.yaml --summary
  pusimp check --search-path ~/.local/lib/python3/site-packages --search-path /usr/lib/python3/dist-packages`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := manifest.DefaultFile
			if len(args) == 1 {
				path = args[0]
			}
			return runCheck(cmd, path, opts)
		},
	}

	cmd.Flags().StringVar(&opts.configPath, "config", "", "config file (default: .pusimp.yaml in CWD or $HOME)")
	cmd.Flags().BoolVar(&opts.summary, "summary", false, "print a per-dependency table")
	cmd.Flags().BoolVar(&opts.noColor, "no-color", false, "disable colored output")

	cmd.Flags().String("python", "", "Python interpreter used to import dependencies (default: "+pusimp.DefaultInterpreter+")")
	cmd.Flags().StringSlice("search-path", nil, "module directory, highest priority first (repeatable)")
	cmd.Flags().String("pip", pusimp.DefaultPipCommand, "pip command quoted in remediation hints")
	cmd.Flags().String("log-level", DefaultLogLevel, "log level: debug, info, warn, error")
	cmd.Flags().Duration("timeout", DefaultTimeout, "timeout for each interpreter import")

	return cmd
}

func runCheck(cmd *cobra.Command, path string, opts checkOptions) error {
	cfg, err := LoadConfig(opts.configPath, cmd.Flags())
	if err != nil {
		return err
	}

	if opts.noColor {
		color.NoColor = true //nolint:reassign // intentional override of library global
	}

	level, err := cfg.Level()
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	res, err := manifest.Load(path)
	if err != nil {
		return err
	}
	for _, w := range res.Warnings {
		logger.Warn(w.Message, "file", w.Pos.Filename, "line", w.Pos.Line, "column", w.Pos.Column)
	}
	if err := res.Err(); err != nil {
		return fmt.Errorf("invalid manifest: %w", err)
	}

	checkOpts := []pusimp.Option{
		pusimp.WithResolver(cfg.Resolver()),
		pusimp.WithPipCommand(cfg.Pip),
		pusimp.WithLogger(logger),
	}

	report, err := pusimp.Inspect(cmd.Context(), res.Guard, checkOpts...)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.summary && !report.Skipped {
		renderSummary(out, report, !color.NoColor)
	}

	message, err := pusimp.Message(report, checkOpts...)
	if err != nil {
		return err
	}
	renderResult(out, report, message)

	if report.HasProblems() {
		return ErrProblemsFound
	}
	return nil
}
