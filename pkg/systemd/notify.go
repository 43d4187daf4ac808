package systemd

import (
	"errors"
	"net"
	"os"

	"github.com/LeoCommon/safetrack/pkg/log"
	"go.uber.org/zap"
)

var ErrNoNotifySocket = errors.New("systemd-notify socket was not available")

// Supervised reports whether the process was started with a notify socket
func Supervised() bool {
	return os.Getenv(NotifySocketEnvVar) != ""
}

// EntertainWatchdog sends a keep-alive to the systemd watchdog
func EntertainWatchdog() error {
	log.Debug("Notifying systemd watchdog")
	return Notify(NotifyWatchdog)
}

// Ready tells systemd that start-up is complete
func Ready() error {
	return Notify(NotifyReady)
}

// Stopping tells systemd that the shutdown was requested on purpose
func Stopping() error {
	return Notify(NotifyStopping)
}

// Notify sends msg to the systemd socket
func Notify(msg string) error {
	name := os.Getenv(NotifySocketEnvVar)
	if name == "" {
		return ErrNoNotifySocket
	}

	conn, err := net.DialUnix("unixgram", nil, &net.UnixAddr{Net: "unixgram", Name: name})
	if err != nil {
		log.Warn("could not reach systemd notify socket", zap.String("socket", name), zap.Error(err))
		return err
	}
	defer conn.Close()

	_, err = conn.Write([]byte(msg))
	return err
}
