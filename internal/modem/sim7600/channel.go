package sim7600

import (
	"time"

	"github.com/LeoCommon/safetrack/internal/modem"
	"github.com/LeoCommon/safetrack/pkg/log"
	"go.uber.org/zap"
)

// readChunk bytes are requested from the link per poll
const readChunk = 256

// Commander executes AT commands against the modem
type Commander interface {
	// Exec sends one command and classifies everything received until timeout
	Exec(command string, timeout time.Duration) modem.Result
	// Write sends raw bytes without waiting for or classifying a reply
	Write(raw []byte) error
}

// Channel is the only user of the serial link
type Channel struct {
	link  modem.Link
	clock modem.Clock
}

func NewChannel(link modem.Link, clock modem.Clock) *Channel {
	if clock == nil {
		clock = modem.SystemClock{}
	}

	return &Channel{link: link, clock: clock}
}

// Execute runs the command and reports Success or Failure, never Ambiguous
func (c *Channel) Execute(command string, timeout time.Duration) modem.Outcome {
	return c.Exec(command, timeout).Outcome()
}

func (c *Channel) Exec(command string, timeout time.Duration) modem.Result {
	res := modem.Result{Command: command}

	// The wait window starts now, writing is part of it
	deadline := c.clock.Now().Add(timeout)

	if _, err := c.link.Write([]byte(command + LineTerminator)); err != nil {
		log.Error("serial write failed", zap.String("cmd", command), zap.Error(err))
		res.Class = modem.Failure
		return res
	}

	// Keep draining until the deadline, a trailing ERROR can follow an early OK
	var rsp []byte
	buf := make([]byte, readChunk)
	for c.clock.Now().Before(deadline) {
		n, err := c.link.Read(buf)
		if n > 0 {
			rsp = append(rsp, buf[:n]...)
		}

		if err != nil {
			log.Error("serial read failed", zap.String("cmd", command), zap.Error(err))
			break
		}

		if n == 0 {
			c.clock.Sleep(PollInterval)
		}
	}

	res.Response = string(rsp)
	res.Class = modem.Classify(res.Response)

	log.Info("CMD", zap.String("cmd", command), zap.String("rsp", res.Response), zap.Stringer("outcome", res.Class))
	return res
}

func (c *Channel) Write(raw []byte) error {
	_, err := c.link.Write(raw)
	if err != nil {
		log.Error("serial raw write failed", zap.Int("n", len(raw)), zap.Error(err))
	}
	return err
}
