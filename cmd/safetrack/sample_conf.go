package main

import (
	"fmt"

	"github.com/LeoCommon/safetrack/internal/config"
	"github.com/LeoCommon/safetrack/pkg/log"
	"github.com/spf13/cobra"
)

func newSampleConfCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sample-conf <path>",
		Short: "Write the compiled-in defaults as a config file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log.Init(flags.Debug)
			if err := config.WriteDefaults(args[0]); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), args[0])
			return nil
		},
	}
}
