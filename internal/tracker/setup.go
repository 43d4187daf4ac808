package tracker

import (
	"context"
	"errors"

	"github.com/LeoCommon/safetrack/internal/config"
	"github.com/LeoCommon/safetrack/internal/modem"
	"github.com/LeoCommon/safetrack/internal/modem/sim7600"
	"github.com/LeoCommon/safetrack/internal/store"
	"github.com/LeoCommon/safetrack/pkg/gauge"
	"github.com/LeoCommon/safetrack/pkg/led"
	"github.com/LeoCommon/safetrack/pkg/log"
	"github.com/LeoCommon/safetrack/pkg/sensors"
	"github.com/LeoCommon/safetrack/pkg/usb"
	"go.bug.st/serial"
	"go.uber.org/zap"
)

var ErrNoModem = errors.New("modem transport configured but no modem available")

// LoadConfiguration loads path and falls back to the default location
func LoadConfiguration(path string, acceptEmptyConfig bool) (*config.Manager, error) {
	conf := config.NewManager()
	if err := conf.Load(path, acceptEmptyConfig); err != nil {
		log.Error("an error occurred while trying to load the config file, trying default path", zap.String("path", path), zap.Error(err))
		if err := conf.Load(config.DefaultConfigPath, acceptEmptyConfig); err != nil {
			return nil, err
		}
	}

	return conf, nil
}

func openPin(root string, line int) led.Pin {
	pin, err := led.OpenPin(root, line)
	if err != nil {
		log.Warn("led not available", zap.Int("gpio", line), zap.Error(err))
		return led.NopPin{}
	}
	return pin
}

// SetupIndicator opens both led lines, missing leds are replaced by no-ops
func SetupIndicator(conf *config.Manager) *led.Indicator {
	hw := conf.Hardware().C()
	return led.NewIndicator(openPin(hw.GPIORoot, hw.GreenLED), openPin(hw.GPIORoot, hw.RedLED))
}

// SetupGauge locates the fuel gauge, a missing gauge only empties the battery readings
func SetupGauge(conf *config.Manager) *gauge.Gauge {
	hw := conf.Hardware().C()
	g := gauge.New(hw.SupplyDir, hw.Supply)
	if !g.Begin() {
		log.Warn("continuing without battery telemetry")
	}
	return g
}

// OpenModem checks usb for the modem and opens its management tty
func OpenModem(ctx context.Context, conf *config.Manager) (*sim7600.Modem, error) {
	mc := conf.Modem().C()

	var err error
	if wait := mc.WaitForDevice.Value(); wait > 0 {
		_, err = usb.WaitForModem(ctx, wait)
	} else {
		_, err = usb.FindModem()
	}

	// The tty may still work, e.g. behind a usb hub libusb can not see
	if err != nil {
		log.Warn("modem not detected on usb, trying the tty anyway", zap.Error(err))
	}

	return sim7600.Open(mc.Tty, &serial.Mode{BaudRate: mc.BaudRate}, mc.APN)
}

// NewPoster picks the transport that carries documents to the store
func NewPoster(conf *config.Manager, m modem.Modem) (store.Poster, error) {
	sc := conf.Store().C()
	if sc.Transport == config.TransportDirect {
		return store.NewDirectPoster(sc.RequestTimeout.Value(), conf.Tracker().C().Debug), nil
	}

	if m == nil {
		return nil, ErrNoModem
	}
	return m, nil
}

// setupModem opens the modem. With the direct transport it is optional and
// only serves the location and signal readings.
func setupModem(ctx context.Context, conf *config.Manager) (modem.Modem, error) {
	if conf.Store().C().Transport == config.TransportDirect {
		mc := conf.Modem().C()
		m, err := sim7600.Open(mc.Tty, &serial.Mode{BaudRate: mc.BaudRate}, mc.APN)
		if err != nil {
			log.Warn("no modem, uploading without location and signal", zap.Error(err))
			return nil, nil
		}
		return m, nil
	}

	m, err := OpenModem(ctx, conf)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Setup builds the tracker from the loaded configuration
func Setup(ctx context.Context, conf *config.Manager) (*App, error) {
	ind := SetupIndicator(conf)
	ind.Off()

	g := SetupGauge(conf)
	log.Info("system_temperatures", zap.Any("sensors", sensors.ReadTemperatures(sensors.DefaultHwmonRoot)))

	m, err := setupModem(ctx, conf)
	if err != nil {
		log.Error("could not open modem", zap.Error(err))
		ind.Error()
		return nil, err
	}

	poster, err := NewPoster(conf, m)
	if err != nil {
		ind.Error()
		return nil, err
	}

	client := store.NewClient(conf.Store().C().Url, poster)
	log.Info("document store", zap.String("url", client.URL(conf.DocumentPath())), zap.String("transport", string(conf.Store().C().Transport)))

	return New(conf, m, g, ind, client), nil
}
