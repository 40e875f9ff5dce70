package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"fishnet/internal/config"
	"fishnet/internal/logger"
	"fishnet/internal/model"
)

const (
	ExitOK            = 0
	ExitCLIError      = 1
	ExitMissingEngine = 2
	ExitAnalysisError = 3
)

// ExitError wraps an error with a process exit code.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "fishnet",
		Short:         "Distributed analysis worker with a live queue status",
		Long:          "fishnet pulls batches of positions from a queue, analyses them with a local engine on every available core, and reports progress as a compact capacity gauge.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.Init(cmd.Root()); err != nil {
				return &ExitError{Code: ExitCLIError, Err: err}
			}
			return nil
		},
	}

	// Persistent flags available to all subcommands
	root.PersistentFlags().CountP("verbose", "v", "Increase diagnostic output (repeatable)")
	root.PersistentFlags().Bool("stderr", false, "Write log lines to stderr instead of stdout")
	root.PersistentFlags().String("cores", "auto", "Number of cores: auto, all, or a number")
	root.PersistentFlags().String("engine", "", "Path to the analysis engine (default: stockfish on PATH)")
	root.PersistentFlags().String("config", "", "Config file (default: $XDG_CONFIG_HOME/fishnet/config.yaml)")

	// Subcommands
	root.AddCommand(newRunCmd())
	root.AddCommand(newPlanCmd())
	root.AddCommand(newTuiCmd())
	root.AddCommand(newGaugeCmd())
	root.AddCommand(newLocateCmd())
	root.AddCommand(newDoctorCmd())
	root.AddCommand(newCompletionCmd())

	return root
}

func bindRunFlags(fs *pflag.FlagSet) {
	fs.Bool("no-ui", false, "Disable TUI; use plain textual output")
	fs.Duration("delay", 0, "Simulate analysis for this long per position instead of running an engine")
	fs.Uint64("nps", 1_000_000, "Nodes per second reported by simulated analysis")
}

// Execute runs the CLI with the provided context.
func Execute(ctx context.Context) error {
	root := newRootCmd()
	return root.ExecuteContext(ctx)
}

// Helpers

// loadOptions resolves flags, environment and config file into RunOptions.
func loadOptions(cmd *cobra.Command) (model.RunOptions, error) {
	s, err := config.Load()
	if err != nil {
		return model.RunOptions{}, err
	}
	opts := model.RunOptions{
		Cores:   s.Cores,
		Verbose: s.Verbose.Level,
		Stderr:  s.Stderr,
		Engine:  s.Engine,
	}
	if f := cmd.Flags().Lookup("no-ui"); f != nil {
		opts.NoUI, _ = cmd.Flags().GetBool("no-ui")
		opts.Delay, _ = cmd.Flags().GetDuration("delay")
		opts.NPS, _ = cmd.Flags().GetUint64("nps")
	}
	return opts, nil
}

func newLogger(cmd *cobra.Command, opts model.RunOptions) *logger.Logger {
	return logger.NewWithWriters(config.Verbose{Level: opts.Verbose}, opts.Stderr, cmd.OutOrStdout(), cmd.ErrOrStderr())
}
