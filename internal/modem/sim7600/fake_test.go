package sim7600

import (
	"errors"
	"strings"
	"time"

	"github.com/LeoCommon/safetrack/internal/modem"
	"github.com/stretchr/testify/mock"
)

// fakeClock only advances when somebody sleeps
type fakeClock struct {
	now   time.Time
	slept []time.Duration
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Sleep(d time.Duration) {
	c.slept = append(c.slept, d)
	c.now = c.now.Add(d)
}

// chunk is delivered once the clock passed the write time plus after
type chunk struct {
	after time.Duration
	data  string
}

func at(after time.Duration, data string) chunk {
	return chunk{after: after, data: data}
}

// fakeLink answers each command line with scripted chunks
type fakeLink struct {
	clock   *fakeClock
	replies map[string][]chunk

	written  []string
	pending  []chunk
	sentAt   time.Time
	reads    int
	writeErr error
	readErr  error
	closed   bool
}

func newFakeLink(clock *fakeClock) *fakeLink {
	return &fakeLink{clock: clock, replies: make(map[string][]chunk)}
}

// reply registers an immediate answer for a command
func (l *fakeLink) reply(command string, response string) *fakeLink {
	l.replies[command] = []chunk{at(0, response)}
	return l
}

func (l *fakeLink) replyChunks(command string, chunks ...chunk) *fakeLink {
	l.replies[command] = chunks
	return l
}

func (l *fakeLink) Write(p []byte) (int, error) {
	if l.writeErr != nil {
		return 0, l.writeErr
	}

	s := string(p)
	l.written = append(l.written, s)

	// Raw payloads are not answered
	if !strings.HasSuffix(s, LineTerminator) {
		return len(p), nil
	}

	l.pending = append([]chunk(nil), l.replies[strings.TrimSuffix(s, LineTerminator)]...)
	l.sentAt = l.clock.Now()
	return len(p), nil
}

func (l *fakeLink) Read(p []byte) (int, error) {
	l.reads++
	if len(l.pending) == 0 {
		return 0, l.readErr
	}

	next := l.pending[0]
	if l.clock.Now().Before(l.sentAt.Add(next.after)) {
		return 0, nil
	}

	l.pending = l.pending[1:]
	return copy(p, next.data), nil
}

func (l *fakeLink) Close() error {
	if l.closed {
		return errors.New("already closed")
	}
	l.closed = true
	return nil
}

// commands returns the written command lines without terminator
func (l *fakeLink) commands() []string {
	var cmds []string
	for _, w := range l.written {
		if strings.HasSuffix(w, LineTerminator) {
			cmds = append(cmds, strings.TrimSuffix(w, LineTerminator))
		}
	}
	return cmds
}

type mockCommander struct {
	mock.Mock
}

func (m *mockCommander) Exec(command string, timeout time.Duration) modem.Result {
	args := m.Called(command, timeout)
	return args.Get(0).(modem.Result)
}

func (m *mockCommander) Write(raw []byte) error {
	args := m.Called(raw)
	return args.Error(0)
}

func ok(command string) modem.Result {
	return modem.Result{Command: command, Response: "OK\r\n", Class: modem.Success}
}

func failed(command string) modem.Result {
	return modem.Result{Command: command, Response: "ERROR\r\n", Class: modem.Failure}
}
