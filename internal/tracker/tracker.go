package tracker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/LeoCommon/safetrack/internal/config"
	"github.com/LeoCommon/safetrack/internal/modem"
	"github.com/LeoCommon/safetrack/pkg/log"
	"github.com/LeoCommon/safetrack/pkg/sensors"
	"github.com/LeoCommon/safetrack/pkg/systemd"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Gauge interface {
	StateOfCharge() float64
	Voltage() float64
}

type Indicator interface {
	Off()
	Success()
	Error()
	Working()
}

type Store interface {
	Send(path string, json string) bool
}

// App ties the gauge, the modem, the leds and the document store together.
// Modem is nil on bench setups that upload directly and have no modem attached.
type App struct {
	Conf  *config.Manager
	Modem modem.Modem
	Gauge Gauge
	LED   Indicator
	Store Store

	hwmonRoot  string
	interval   time.Duration
	now        func() time.Time
	watchdog   func() error
	gpsStarted bool
}

func New(conf *config.Manager, m modem.Modem, g Gauge, ind Indicator, s Store) *App {
	a := &App{
		Conf:      conf,
		Modem:     m,
		Gauge:     g,
		LED:       ind,
		Store:     s,
		interval:  conf.Tracker().C().UploadInterval.Value(),
		hwmonRoot: sensors.DefaultHwmonRoot,
		now:       time.Now,
	}

	if systemd.Supervised() {
		a.watchdog = systemd.EntertainWatchdog
	}

	return a
}

// viaModem reports whether documents leave through the modem's http stack
func (a *App) viaModem() bool {
	return a.Conf.Store().C().Transport == config.TransportModem
}

// connect initializes the modem session if it is not up
func (a *App) connect() bool {
	if a.Modem == nil {
		log.Error("modem transport configured but no modem available")
		return false
	}

	if a.Modem.Ready() {
		return true
	}

	// A fresh session means the gnss engine state is unknown
	a.gpsStarted = false
	if !a.Modem.Initialize() {
		log.Error("modem initialization failed, retrying next tick")
		return false
	}

	return true
}

// Collect reads all sensors, failed readings are left empty
func (a *App) Collect() Report {
	r := Report{
		ID:        uuid.New(),
		Timestamp: a.now().Unix(),
		Battery:   NewBattery(a.Gauge.StateOfCharge(), a.Gauge.Voltage()),
	}

	if t := sensors.Hottest(sensors.ReadTemperatures(a.hwmonRoot)); t != nil {
		c := t.Celsius()
		r.Temperature = &c
	}

	if a.Modem == nil {
		return r
	}

	if a.Conf.Tracker().C().GPS {
		if !a.gpsStarted {
			if err := a.Modem.StartGPS(); err != nil {
				log.Warn("could not start gnss engine", zap.Error(err))
			} else {
				a.gpsStarted = true
			}
		}

		info, err := a.Modem.Location()
		if err != nil {
			log.Info("no location available", zap.Error(err))
		}
		r.Location = NewLocation(info)
	}

	sig, err := a.Modem.SignalQuality()
	if err != nil {
		log.Warn("could not read signal quality", zap.Error(err))
	} else {
		r.Signal = &sig
	}

	return r
}

// Tick performs one upload cycle and reports whether the document was accepted
func (a *App) Tick() bool {
	a.LED.Working()

	// The direct transport does not need a data session
	viaModem := a.viaModem()
	if viaModem && !a.connect() {
		a.LED.Error()
		return false
	}

	report := a.Collect()
	body, err := json.Marshal(report)
	if err != nil {
		log.Error("could not encode report", zap.Error(err))
		a.LED.Error()
		return false
	}

	if !a.Store.Send(a.Conf.DocumentPath(), string(body)) {
		log.Error("report upload failed", zap.String("id", report.ID.String()))
		// The data connection may be gone, e.g. after a brown-out or a modem reset
		if viaModem {
			a.Modem.Invalidate()
		}
		a.LED.Error()
		return false
	}

	log.Info("report uploaded", zap.String("id", report.ID.String()))
	a.LED.Success()
	return true
}

func (a *App) entertainWatchdog() {
	if a.watchdog == nil {
		return
	}

	if err := a.watchdog(); err != nil {
		log.Warn("could not notify watchdog", zap.Error(err))
	}
}

// Run ticks immediately and then every upload interval until ctx is done
func (a *App) Run(ctx context.Context) error {
	log.Info("tracker started", zap.Duration("interval", a.interval), zap.String("document", a.Conf.DocumentPath()))

	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	if a.watchdog != nil {
		_ = systemd.Ready()
	}

	for {
		a.Tick()
		a.entertainWatchdog()

		if ctx.Err() != nil {
			return a.stop()
		}

		select {
		case <-ctx.Done():
			return a.stop()
		case <-ticker.C:
		}
	}
}

func (a *App) stop() error {
	log.Info("tracker stopping")
	a.LED.Off()
	if a.watchdog != nil {
		_ = systemd.Stopping()
	}
	return nil
}

// Shutdown turns the leds off and releases the modem
func (a *App) Shutdown() {
	a.LED.Off()
	if a.Modem == nil {
		return
	}

	if err := a.Modem.Close(); err != nil {
		log.Error("could not close modem", zap.Error(err))
	}
}
