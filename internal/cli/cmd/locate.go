package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"fishnet/internal/ipc"
	"fishnet/internal/logger"
)

func newLocateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "locate --batch <id> [--position <n>] [--url <url>]",
		Short:         "Print the locator shown in progress lines",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			batch, _ := cmd.Flags().GetString("batch")
			rawURL, _ := cmd.Flags().GetString("url")

			at := logger.ProgressAt{BatchID: ipc.BatchID(batch)}
			if cmd.Flags().Changed("position") {
				n, _ := cmd.Flags().GetUint("position")
				id := ipc.PositionID(n)
				at.PositionID = &id
			}
			if rawURL != "" {
				u, err := ipc.ParseURL(rawURL)
				if err != nil {
					return &ExitError{Code: ExitCLIError, Err: err}
				}
				at.BatchURL = u
			}
			fmt.Fprintln(cmd.OutOrStdout(), at)
			return nil
		},
	}
	cmd.Flags().String("batch", "", "Batch id")
	cmd.Flags().Uint("position", 0, "Position id within the batch")
	cmd.Flags().String("url", "", "Batch URL; the position becomes its fragment")
	_ = cmd.MarkFlagRequired("batch")
	return cmd
}
