package led

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/LeoCommon/safetrack/pkg/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// journal records pin changes of all fake pins in order
type journal struct {
	events []string
}

type fakePin struct {
	name  string
	j     *journal
	err   error
	state bool
}

func (p *fakePin) High() error {
	p.j.events = append(p.j.events, p.name+"=1")
	p.state = true
	return p.err
}

func (p *fakePin) Low() error {
	p.j.events = append(p.j.events, p.name+"=0")
	p.state = false
	return p.err
}

func setupIndicator() (*Indicator, *fakePin, *fakePin, *journal) {
	j := &journal{}
	green := &fakePin{name: "green", j: j}
	red := &fakePin{name: "red", j: j}
	ind := NewIndicator(green, red).WithSleep(func(d time.Duration) {
		j.events = append(j.events, "sleep "+d.String())
	})
	return ind, green, red, j
}

func TestIndicatorStates(t *testing.T) {
	ind, green, red, _ := setupIndicator()

	ind.Success()
	assert.True(t, green.state)
	assert.False(t, red.state)

	ind.Error()
	assert.False(t, green.state)
	assert.True(t, red.state)

	ind.Off()
	assert.False(t, green.state)
	assert.False(t, red.state)
}

func TestIndicatorWorking(t *testing.T) {
	ind, green, red, j := setupIndicator()

	ind.Working()
	assert.Equal(t, []string{"green=0", "red=0", "sleep 200ms", "green=1", "sleep 200ms"}, j.events)
	assert.True(t, green.state)
	assert.False(t, red.state)
}

func TestIndicatorPinErrorsAreNotFatal(t *testing.T) {
	log.Init(true)
	ind, green, _, _ := setupIndicator()
	green.err = errors.New("permission denied")

	assert.NotPanics(t, ind.Success)
}

func TestSysfsPin(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "gpio26")
	require.NoError(t, os.MkdirAll(dir, 0755))

	pin, err := OpenPin(root, 26)
	require.NoError(t, err)
	assert.Equal(t, 26, pin.Line())

	direction, err := os.ReadFile(filepath.Join(dir, "direction"))
	require.NoError(t, err)
	assert.Equal(t, "low", string(direction))

	require.NoError(t, pin.High())
	value, err := os.ReadFile(filepath.Join(dir, "value"))
	require.NoError(t, err)
	assert.Equal(t, "1", string(value))

	require.NoError(t, pin.Low())
	value, err = os.ReadFile(filepath.Join(dir, "value"))
	require.NoError(t, err)
	assert.Equal(t, "0", string(value))
}

func TestSysfsPinExport(t *testing.T) {
	log.Init(true)
	root := t.TempDir()

	// the fake sysfs does not create the line directory on export
	_, err := OpenPin(root, 27)
	assert.Error(t, err)

	exported, err := os.ReadFile(filepath.Join(root, "export"))
	require.NoError(t, err)
	assert.Equal(t, "27", string(exported))
}
