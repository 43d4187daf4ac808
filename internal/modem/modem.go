package modem

import (
	"io"
	"strings"
	"time"

	"github.com/LeoCommon/safetrack/internal/modem/sim7600/atparser"
)

// Modem is what the tracker needs from a cellular modem
type Modem interface {
	// Initialize brings the modem into a state ready to carry data
	Initialize() bool
	// Ready reports whether the last Initialize completed
	Ready() bool
	// Invalidate forces the next user to Initialize again
	Invalidate()

	// Post performs one best-effort HTTP POST through the modem
	Post(url string, body string, contentType string) bool

	// StartGPS enables the GNSS engine, Location needs it running
	StartGPS() error
	Location() (atparser.GPSInfo, error)
	SignalQuality() (atparser.Signal, error)

	// Close releases the serial link
	Close() error
}

// Link is the byte stream to the modem. Read must return within the poll
// granularity and reports 0, nil when no bytes are pending.
type Link interface {
	io.Reader
	io.Writer
}

// Clock provides the time source for all wait loops
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

// SystemClock is the wall clock
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

func (SystemClock) Sleep(d time.Duration) {
	time.Sleep(d)
}

func TrimCRLF(s string) string {
	return strings.Trim(s, "\r\n")
}

// Lines splits a raw modem response into its non-empty lines
func Lines(response string) []string {
	var lines []string
	for _, l := range strings.Split(response, "\n") {
		l = strings.TrimSpace(l)
		if l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}
