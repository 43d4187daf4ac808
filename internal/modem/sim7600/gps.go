package sim7600

import (
	"fmt"

	"github.com/LeoCommon/safetrack/internal/modem"
	"github.com/LeoCommon/safetrack/internal/modem/sim7600/atparser"
	"github.com/LeoCommon/safetrack/pkg/log"
	"go.uber.org/zap"
)

// query runs a command and returns the line carrying header
func (m *Modem) query(command string, header string) (string, error) {
	if err := m.initialized(); err != nil {
		return "", err
	}

	res := m.channel.Exec(command, DefaultCommandTimeout)
	if !res.Succeeded() {
		return "", commandError(res)
	}

	return atparser.Find(modem.Lines(res.Response), header)
}

// GPSMode queries whether the GNSS engine runs and in which mode
func (m *Modem) GPSMode() (bool, atparser.GPSModeEnum, error) {
	line, err := m.query(AtGpsStateQuery, atparser.HeaderCGPS)
	if err != nil {
		return false, atparser.GpsModeUnknown, err
	}

	return atparser.GPSStatus(line)
}

// StartGPS starts standalone GNSS unless it is already running that way
func (m *Modem) StartGPS() error {
	started, mode, err := m.GPSMode()
	if err != nil {
		return err
	}

	if started && mode == atparser.GpsModeStandalone {
		log.Debug("GPS already started", zap.String("mode", string(mode)))
		return nil
	}

	// Running in another mode, the engine has to stop first
	if started {
		res := m.channel.Exec(AtGpsState+"=0", DefaultCommandTimeout)
		if !res.Succeeded() {
			return commandError(res)
		}
	}

	res := m.channel.Exec(fmt.Sprintf("%s=1,%s", AtGpsState, atparser.GpsModeStandalone), DefaultCommandTimeout)
	if !res.Succeeded() {
		return commandError(res)
	}

	log.Info("GPS started", zap.String("mode", string(atparser.GpsModeStandalone)))
	return nil
}

// Location returns the current fix, atparser.ErrNoFix while searching
func (m *Modem) Location() (atparser.GPSInfo, error) {
	line, err := m.query(AtGpsInfo, atparser.HeaderCGPSInfo)
	if err != nil {
		return atparser.GPSInfo{}, err
	}

	return atparser.GPSInformation(line)
}

func (m *Modem) SignalQuality() (atparser.Signal, error) {
	line, err := m.query(AtSignal, atparser.HeaderCSQ)
	if err != nil {
		return atparser.Signal{}, err
	}

	return atparser.SignalQuality(line)
}
