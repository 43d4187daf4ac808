package sim7600

import (
	"errors"
	"fmt"
	"io"

	"github.com/LeoCommon/safetrack/internal/modem"
	"github.com/LeoCommon/safetrack/pkg/log"
	"go.bug.st/serial"
	"go.uber.org/zap"
)

var (
	ErrNotOpen = errors.New("serial port not ready")
)

// CommandError carries the failing command and what the modem replied
type CommandError struct {
	Command  string
	Response string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("modem command %q failed: %q", e.Command, modem.TrimCRLF(e.Response))
}

func (e *CommandError) Is(target error) bool {
	_, ok := target.(*CommandError)
	return ok
}

func commandError(res modem.Result) error {
	return &CommandError{Command: res.Command, Response: res.Response}
}

var _ modem.Modem = (*Modem)(nil)

type Modem struct {
	*Session
	*HTTP

	channel *Channel
	closer  io.Closer
}

// New wires a modem on top of an already opened link
func New(link modem.Link, clock modem.Clock, apn string) *Modem {
	m := &Modem{}
	m.channel = NewChannel(link, clock)
	m.Session = NewSession(m.channel, apn)
	m.HTTP = NewHTTP(m.channel, clock)

	if c, ok := link.(io.Closer); ok {
		m.closer = c
	}

	return m
}

// Open opens the management tty and returns a modem driving it
func Open(tty string, mode *serial.Mode, apn string) (*Modem, error) {
	port, err := OpenSerial(tty, mode)
	if err != nil {
		return nil, err
	}

	return New(port, modem.SystemClock{}, apn), nil
}

func (m *Modem) initialized() error {
	if m.channel == nil {
		return ErrNotOpen
	}

	return nil
}

// Channel exposes the command channel for one-off commands
func (m *Modem) Channel() *Channel {
	return m.channel
}

// Post is the plain HTTP transaction
func (m *Modem) Post(url string, body string, contentType string) bool {
	return m.HTTP.Post(url, body, contentType)
}

func (m *Modem) Initialize() bool {
	return m.Session.Initialize()
}

func (m *Modem) Ready() bool {
	return m.Session.Ready()
}

// Reset reboots the modem, the session has to be initialized again afterwards
func (m *Modem) Reset() error {
	if err := m.initialized(); err != nil {
		return err
	}

	res := m.channel.Exec(AtResetModem, DefaultCommandTimeout)
	m.Session.Invalidate()
	if !res.Succeeded() {
		return commandError(res)
	}

	return nil
}

func (m *Modem) Close() error {
	if m.closer == nil {
		return nil
	}

	err := m.closer.Close()
	if err != nil {
		log.Error("closing serial link failed", zap.Error(err))
	}
	m.closer = nil
	return err
}
