package cmd

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"fishnet/internal/pipeline"
)

func newPlanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "plan <batch-file>",
		Short:         "Show how a batch file would be queued, without analysing",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := assembleRunInputs(cmd, args)
			if err != nil {
				return &ExitError{Code: ExitCLIError, Err: err}
			}
			log := newLogger(cmd, in.Options)
			p := pipeline.PlanRun(in.Batches, in.Options.Cores)

			log.Headline("Plan for " + in.Path)
			for _, b := range p.Batches {
				log.Info(fmt.Sprintf("- %s: %s positions", b.At, humanize.Comma(int64(b.Positions))))
			}
			log.Info(fmt.Sprintf("- Queue at start: %s", p.Initial))
			log.Info(fmt.Sprintf("- %s positions on %d cores, %s rounds", humanize.Comma(int64(p.Positions)), p.Cores, humanize.Comma(int64(p.Rounds))))
			return nil
		},
	}
	// Reuse same flags; plan ignores the analyzer
	bindRunFlags(cmd.Flags())
	return cmd
}
