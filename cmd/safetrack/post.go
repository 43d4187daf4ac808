package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/LeoCommon/safetrack/internal/config"
	"github.com/LeoCommon/safetrack/internal/modem"
	"github.com/LeoCommon/safetrack/internal/store"
	"github.com/LeoCommon/safetrack/internal/tracker"
	"github.com/spf13/cobra"
)

func newPostCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "post <path> <json>",
		Short: "Write one JSON document to the store",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := loadConfig()
			if err != nil {
				return err
			}

			// The direct transport does not touch the modem
			var m modem.Modem
			if conf.Store().C().Transport == config.TransportModem {
				sm, err := tracker.OpenModem(context.Background(), conf)
				if err != nil {
					return err
				}
				defer sm.Close()

				if !sm.Initialize() {
					return fmt.Errorf("modem initialization failed at step %d", sm.FailedStep())
				}
				m = sm
			}

			poster, err := tracker.NewPoster(conf, m)
			if err != nil {
				return err
			}

			client := store.NewClient(conf.Store().C().Url, poster)
			if !client.Send(args[0], args[1]) {
				return errors.New("document was not accepted")
			}

			fmt.Fprintln(cmd.OutOrStdout(), client.URL(args[0]))
			return nil
		},
	}
}
