package main

import (
	"fmt"
	"os"

	"github.com/LeoCommon/safetrack/internal/config"
	"github.com/LeoCommon/safetrack/internal/tracker"
	"github.com/LeoCommon/safetrack/pkg/log"
	"github.com/spf13/cobra"
)

var flags config.CLIFlags

// loadConfig initializes the logger and loads the config for every subcommand
func loadConfig() (*config.Manager, error) {
	log.Init(flags.Debug)

	conf, err := tracker.LoadConfiguration(flags.ConfigPath, true)
	if err != nil {
		return nil, err
	}

	if flags.Debug {
		conf.Tracker().Set(func(c *config.TrackerConfig) {
			c.Debug = true
		})
	} else if conf.Tracker().C().Debug {
		log.Init(true)
	}

	return conf, nil
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           config.ProductName,
		Short:         "Battery and location tracker for SIM7600 modems",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&flags.ConfigPath, "config", "c", config.DefaultConfigPath, "relative or absolute path to the config file")
	rootCmd.PersistentFlags().BoolVarP(&flags.Debug, "debug", "d", config.DefaultDebugModeValue, "enable debug logging")

	rootCmd.AddCommand(
		newRunCmd(),
		newATCmd(),
		newPostCmd(),
		newProbeCmd(),
		newSampleConfCmd(),
	)

	return rootCmd
}

func main() {
	err := newRootCmd().Execute()
	log.Sync()

	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %s\n", config.ProductName, err)
		os.Exit(1)
	}
}
