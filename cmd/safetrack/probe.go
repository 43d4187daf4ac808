package main

import (
	"context"
	"fmt"

	"github.com/LeoCommon/safetrack/internal/tracker"
	"github.com/LeoCommon/safetrack/pkg/sensors"
	"github.com/LeoCommon/safetrack/pkg/usb"
	"github.com/spf13/cobra"
)

func newProbeCmd() *cobra.Command {
	var reset bool

	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Check the attached hardware",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := loadConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			d, err := usb.FindModem()
			if err != nil {
				fmt.Fprintf(out, "modem:   %s\n", err)
			} else {
				fmt.Fprintf(out, "modem:   %s\n", d)
				if reset {
					if err := usb.ResetModem(d); err != nil {
						return err
					}
					fmt.Fprintln(out, "modem:   usb reset issued")
					return nil
				}
			}

			g := tracker.SetupGauge(conf)
			fmt.Fprintf(out, "battery: %.1f%% %.3fV\n", g.StateOfCharge(), g.Voltage())

			for name, entries := range sensors.ReadTemperatures(sensors.DefaultHwmonRoot) {
				for _, e := range entries {
					fmt.Fprintf(out, "thermal: %s %s\n", name, e)
				}
			}

			m, err := tracker.OpenModem(context.Background(), conf)
			if err != nil {
				return err
			}
			defer m.Close()

			if sig, err := m.SignalQuality(); err != nil {
				fmt.Fprintf(out, "signal:  %s\n", err)
			} else if sig.DBm != nil {
				fmt.Fprintf(out, "signal:  rssi %d (%d dBm) ber %d\n", sig.RSSI, *sig.DBm, sig.BER)
			} else {
				fmt.Fprintf(out, "signal:  unknown\n")
			}

			if info, err := m.Location(); err != nil {
				fmt.Fprintf(out, "gnss:    %s\n", err)
			} else {
				fmt.Fprintf(out, "gnss:    %s\n", info)
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&reset, "reset", false, "issue a usb reset to the modem and exit")
	return cmd
}
