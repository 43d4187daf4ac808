package main

import (
	"context"
	"fmt"
	"time"

	"github.com/LeoCommon/safetrack/internal/modem/sim7600"
	"github.com/LeoCommon/safetrack/internal/tracker"
	"github.com/spf13/cobra"
)

func newATCmd() *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "at <command>",
		Short: "Send a single AT command and print the raw response",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := loadConfig()
			if err != nil {
				return err
			}

			m, err := tracker.OpenModem(context.Background(), conf)
			if err != nil {
				return err
			}
			defer m.Close()

			res := m.Channel().Exec(args[0], timeout)
			fmt.Fprint(cmd.OutOrStdout(), res.Response)
			fmt.Fprintf(cmd.OutOrStdout(), "\n[%s]\n", res.Class)

			if !res.Succeeded() {
				return fmt.Errorf("%s: %s", args[0], res.Outcome())
			}
			return nil
		},
	}

	cmd.Flags().DurationVarP(&timeout, "timeout", "t", sim7600.DefaultCommandTimeout, "response window")
	return cmd
}
