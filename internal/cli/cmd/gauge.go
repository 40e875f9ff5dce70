package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"fishnet/internal/logger"
)

func newGaugeCmd() *cobra.Command {
	return &cobra.Command{
		Use:           "gauge <cores> <pending>",
		Short:         "Print the queue gauge for the given counts",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cores, err := strconv.Atoi(args[0])
			if err != nil {
				return &ExitError{Code: ExitCLIError, Err: fmt.Errorf("invalid cores %q", args[0])}
			}
			pending, err := strconv.Atoi(args[1])
			if err != nil {
				return &ExitError{Code: ExitCLIError, Err: fmt.Errorf("invalid pending %q", args[1])}
			}
			fmt.Fprintln(cmd.OutOrStdout(), logger.QueueStatusBar{Cores: cores, Pending: pending})
			return nil
		},
	}
}
