package usb

import (
	"context"
	"fmt"
	"time"

	"github.com/DiscoResearchSat/go-udev/netlink"
	"github.com/LeoCommon/safetrack/pkg/log"
	"github.com/google/gousb"
	"go.uber.org/zap"
)

// FindModem returns the first supported modem attached to the bus
func FindModem() (*Device, error) {
	usbCtx := gousb.NewContext()
	defer usbCtx.Close()

	for _, d := range SupportedModems {
		dev, err := usbCtx.OpenDeviceWithVIDPID(d.VendorID, d.ProductID)
		if dev == nil {
			if err != nil {
				log.Error("error while iterating over usb devices", zap.Error(err))
			}
			log.Debug("device not attached", zap.String("modem", d.String()))
			continue
		}

		// close the device, the serial driver owns it
		dev.Close()

		log.Info("found supported modem", zap.String("modem", d.String()))
		return d, nil
	}

	return nil, NewNotFoundError("no supported modem attached")
}

// ResetModem issues a usb port reset, the modem re-enumerates afterwards
func ResetModem(d *Device) error {
	usbCtx := gousb.NewContext()
	defer usbCtx.Close()

	dev, _ := usbCtx.OpenDeviceWithVIDPID(d.VendorID, d.ProductID)
	if dev == nil {
		log.Error("the modem was detected previously, but disappeared!", zap.String("modem", d.String()))
		return NewVanishedError(fmt.Sprintf("%s disappeared but was detected before", d.String()))
	}
	defer dev.Close()

	if err := dev.Reset(); err != nil {
		log.Error("resetting usb device failed", zap.String("modem", d.String()), zap.Error(err))
		return err
	}

	return nil
}

func bindMatcher() *netlink.RuleDefinitions {
	action := string(netlink.BIND)
	return &netlink.RuleDefinitions{
		Rules: []netlink.RuleDefinition{
			{
				// Only match usb_device binds
				Action: &action,
				Env: map[string]string{
					"DEVTYPE": "usb_device",
				},
			},
		},
	}
}

// WaitForModem blocks until a supported modem is attached or the timeout hits.
// Without udev it degrades to a single bus scan.
func WaitForModem(ctx context.Context, timeout time.Duration) (*Device, error) {
	udev := new(netlink.UEventConn)
	if err := udev.Connect(netlink.UdevEvent); err != nil {
		log.Error("Could not connect to udev, hotplug support not available!", zap.Error(err))
		return FindModem()
	}
	defer udev.Close()

	monitorCtx, cancelUdevMonitor := context.WithCancel(ctx)
	// Monitor reports matcher errors synchronously
	errors := make(chan error, 1)
	queue := udev.Monitor(monitorCtx, errors, bindMatcher())

	defer func() {
		cancelUdevMonitor()
		if queue == nil {
			return
		}

		// The monitor sends its final error before closing the queue
		for {
			select {
			case <-errors:
			case _, ok := <-queue:
				if !ok {
					return
				}
			}
		}
	}()

	// The monitor is running, so a modem plugged in from here on is not missed
	if d, err := FindModem(); err == nil {
		return d, nil
	}

	if queue == nil {
		return nil, fmt.Errorf("udev monitor did not start: %w", <-errors)
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	log.Info("waiting for modem to attach", zap.Duration("timeout", timeout))
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()

		case <-timer.C:
			return nil, NewNotFoundError(fmt.Sprintf("no supported modem attached within %s", timeout))

		case uevent, ok := <-queue:
			if !ok {
				queue = nil
				return nil, NewNotFoundError("udev monitor stopped before a modem attached")
			}

			pstr, pok := uevent.Env["PRODUCT"]
			if !pok {
				log.Debug("device did not contain product indicator", zap.Any("env", uevent.String()))
				continue
			}

			vid, pid, err := ParseProduct(pstr)
			if err != nil {
				log.Error("malformed hotplug event", zap.Error(err))
				continue
			}

			if d, found := FindSupportedDevice(gousb.ID(vid), gousb.ID(pid)); found {
				log.Info("hotplug modem added", zap.String("modem", d.String()))
				return d, nil
			}

			log.Debug("no matching device found", zap.String("vid", gousb.ID(vid).String()), zap.String("pid", gousb.ID(pid).String()))

		case err := <-errors:
			log.Error("udev monitor encountered an error", zap.Error(err))
		}
	}
}
