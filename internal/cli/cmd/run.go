package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"fishnet/internal/batchfile"
	"fishnet/internal/engine"
	"fishnet/internal/ipc"
	"fishnet/internal/model"
	"fishnet/internal/pipeline"
	"fishnet/internal/ui"
)

type runMode struct {
	ForceTUI bool
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "run <batch-file>",
		Short:         "Analyse every position of a batch file",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExecute(cmd, args, runMode{ForceTUI: false})
		},
	}
	bindRunFlags(cmd.Flags())
	return cmd
}

type runInputs struct {
	Path    string
	Batches []ipc.Batch
	Options model.RunOptions
}

func assembleRunInputs(cmd *cobra.Command, args []string) (runInputs, error) {
	opts, err := loadOptions(cmd)
	if err != nil {
		return runInputs{}, err
	}
	if opts.Delay < 0 {
		return runInputs{}, fmt.Errorf("invalid --delay %s: must not be negative", opts.Delay)
	}
	batches, err := batchfile.Load(args[0])
	if err != nil {
		return runInputs{}, err
	}
	return runInputs{Path: args[0], Batches: batches, Options: opts}, nil
}

func runExecute(cmd *cobra.Command, args []string, mode runMode) error {
	in, err := assembleRunInputs(cmd, args)
	if err != nil {
		return &ExitError{Code: ExitCLIError, Err: err}
	}
	log := newLogger(cmd, in.Options)

	useTUI := mode.ForceTUI || (!in.Options.NoUI && isTerminal())

	var trace func(string)
	if in.Options.Verbose > 0 && !useTUI {
		trace = log.Debug
	}
	analyzer, err := buildAnalyzer(in.Options, trace)
	if err != nil {
		return &ExitError{Code: ExitMissingEngine, Err: err}
	}

	log.Headline(fmt.Sprintf("Analysing %s positions from %s", humanize.Comma(int64(countPositions(in.Batches))), in.Path))

	var sum pipeline.Summary
	if useTUI {
		sum, err = ui.Run(cmd.Context(), in.Batches, ui.Config{
			Analyzer: analyzer,
			Cores:    in.Options.Cores,
			Verbose:  in.Options.Verbose,
		})
	} else {
		svc := pipeline.NewService(
			pipeline.WithAnalyzer(analyzer),
			pipeline.WithLogger(log),
			pipeline.WithCores(in.Options.Cores),
		)
		sum, err = svc.Run(cmd.Context(), in.Batches)
	}
	if err != nil {
		return &ExitError{Code: ExitAnalysisError, Err: err}
	}

	log.Info(sum.String())
	if sum.Failed > 0 {
		return &ExitError{Code: ExitAnalysisError, Err: fmt.Errorf("%d of %d positions failed", sum.Failed, sum.Positions)}
	}
	return nil
}

// buildAnalyzer simulates analysis when a delay is given without an engine,
// otherwise it resolves the engine binary.
func buildAnalyzer(opts model.RunOptions, trace func(string)) (engine.Analyzer, error) {
	if opts.Simulate() {
		return engine.Simulated{Delay: opts.Delay, NPS: opts.NPS}, nil
	}
	path, err := engine.FindEngine(opts.Engine)
	if err != nil {
		return nil, err
	}
	sub := engine.NewSubprocess(path, engine.NewDefaultRunner(trace))
	sub.StderrLog = trace
	return sub, nil
}

func countPositions(batches []ipc.Batch) int {
	n := 0
	for _, b := range batches {
		n += len(b.Positions)
	}
	return n
}

func isTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// ExitCode maps an error returned by Execute to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var ee *ExitError
	if errors.As(err, &ee) {
		return ee.Code
	}
	return ExitCLIError
}
