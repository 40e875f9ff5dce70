package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"fishnet/internal/engine"
)

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:           "doctor",
		Short:         "Diagnose the analysis engine and resolved settings",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := loadOptions(cmd)
			if err != nil {
				return &ExitError{Code: ExitCLIError, Err: err}
			}
			path, err := engine.FindEngine(opts.Engine)
			if err != nil {
				return &ExitError{Code: ExitMissingEngine, Err: err}
			}
			cfg := viper.ConfigFileUsed()
			if cfg == "" {
				cfg = "(none)"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Engine: %s\n", path)
			fmt.Fprintf(cmd.OutOrStdout(), "Cores:  %d\n", opts.Cores)
			fmt.Fprintf(cmd.OutOrStdout(), "Config: %s\n", cfg)
			return nil
		},
	}
}
