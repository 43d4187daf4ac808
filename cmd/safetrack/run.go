package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/LeoCommon/safetrack/internal/tracker"
	"github.com/LeoCommon/safetrack/pkg/log"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Upload telemetry until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := loadConfig()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			app, err := tracker.Setup(ctx, conf)
			if err != nil {
				return err
			}
			defer app.Shutdown()

			log.Info("tracker starting", zap.String("config", conf.Path()))
			return app.Run(ctx)
		},
	}
}
