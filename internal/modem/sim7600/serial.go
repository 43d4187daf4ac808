package sim7600

import (
	"fmt"

	"github.com/LeoCommon/safetrack/pkg/log"
	"go.bug.st/serial"
	"go.uber.org/zap"
)

// OpenSerial opens the tty with a short read timeout so that a read without
// pending bytes returns 0, nil instead of blocking
func OpenSerial(tty string, mode *serial.Mode) (serial.Port, error) {
	if mode == nil {
		mode = &serial.Mode{BaudRate: MgmtBaudrate}
	}

	port, err := serial.Open(tty, mode)
	if err != nil {
		log.Error("error while opening serial device", zap.String("tty", tty), zap.Error(err))
		return nil, fmt.Errorf("open %s: %w", tty, err)
	}

	if err := port.SetReadTimeout(SerialReadTimeout); err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("set read timeout on %s: %w", tty, err)
	}

	// Drop anything the modem printed while nobody was listening
	if err := port.ResetInputBuffer(); err != nil {
		log.Warn("could not flush serial input", zap.String("tty", tty), zap.Error(err))
	}

	log.Info("serial link open", zap.String("tty", tty), zap.Int("baud", mode.BaudRate))
	return port, nil
}
