package tracker

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/LeoCommon/safetrack/internal/config"
	"github.com/LeoCommon/safetrack/internal/modem/sim7600/atparser"
	"github.com/LeoCommon/safetrack/internal/store"
	"github.com/LeoCommon/safetrack/pkg/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type mockModem struct {
	mock.Mock
}

func (m *mockModem) Initialize() bool {
	return m.Called().Bool(0)
}

func (m *mockModem) Ready() bool {
	return m.Called().Bool(0)
}

func (m *mockModem) Invalidate() {
	m.Called()
}

func (m *mockModem) Post(url string, body string, contentType string) bool {
	return m.Called(url, body, contentType).Bool(0)
}

func (m *mockModem) StartGPS() error {
	return m.Called().Error(0)
}

func (m *mockModem) Location() (atparser.GPSInfo, error) {
	args := m.Called()
	return args.Get(0).(atparser.GPSInfo), args.Error(1)
}

func (m *mockModem) SignalQuality() (atparser.Signal, error) {
	args := m.Called()
	return args.Get(0).(atparser.Signal), args.Error(1)
}

func (m *mockModem) Close() error {
	return m.Called().Error(0)
}

type fakeGauge struct {
	soc, volts float64
}

func (g fakeGauge) StateOfCharge() float64 { return g.soc }
func (g fakeGauge) Voltage() float64       { return g.volts }

type fakeIndicator struct {
	states []string
}

func (f *fakeIndicator) Off()     { f.states = append(f.states, "off") }
func (f *fakeIndicator) Success() { f.states = append(f.states, "success") }
func (f *fakeIndicator) Error()   { f.states = append(f.states, "error") }
func (f *fakeIndicator) Working() { f.states = append(f.states, "working") }

type fakeStore struct {
	paths  []string
	bodies []string
	accept bool
	onSend func()
}

func (s *fakeStore) Send(path string, json string) bool {
	s.paths = append(s.paths, path)
	s.bodies = append(s.bodies, json)
	if s.onSend != nil {
		s.onSend()
	}
	return s.accept
}

var fixTime = time.Date(2025, 3, 11, 7, 28, 9, 0, time.UTC)

func setupApp(t *testing.T) (*App, *mockModem, *fakeIndicator, *fakeStore) {
	t.Helper()
	log.Init(true)

	m := &mockModem{}
	ind := &fakeIndicator{}
	s := &fakeStore{accept: true}
	a := New(config.NewManager(), m, fakeGauge{soc: 87.5, volts: 3.912}, ind, s)
	a.now = func() time.Time { return fixTime }
	a.watchdog = nil
	a.hwmonRoot = t.TempDir()
	return a, m, ind, s
}

func connected(m *mockModem) {
	m.On("Ready").Return(true)
	m.On("StartGPS").Return(nil)
	m.On("Location").Return(atparser.GPSInfo{Time: fixTime, Latitude: 31.2, Longitude: 121.3, Altitude: 44.1}, nil)
	m.On("SignalQuality").Return(atparser.Signal{RSSI: 20, BER: 0}, nil)
}

func TestTickInitFailure(t *testing.T) {
	a, m, ind, s := setupApp(t)
	m.On("Ready").Return(false)
	m.On("Initialize").Return(false)

	assert.False(t, a.Tick())
	assert.Equal(t, []string{"working", "error"}, ind.states)
	assert.Empty(t, s.paths)
	m.AssertNotCalled(t, "SignalQuality")
}

func TestTickUploadsReport(t *testing.T) {
	a, m, ind, s := setupApp(t)
	connected(m)

	assert.True(t, a.Tick())
	assert.Equal(t, []string{"working", "success"}, ind.states)
	require.Len(t, s.paths, 1)
	assert.Equal(t, "telemetry/tracker", s.paths[0])

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(s.bodies[0]), &doc))
	assert.NotEmpty(t, doc["id"])
	assert.Equal(t, float64(fixTime.Unix()), doc["timestamp"])

	battery := doc["battery"].(map[string]any)
	assert.Equal(t, 87.5, battery["soc"])
	assert.Equal(t, 3.912, battery["voltage"])
	assert.Equal(t, "V", battery["unit"])

	location := doc["location"].(map[string]any)
	assert.Equal(t, true, location["valid"])
	assert.Equal(t, 31.2, location["lat"])

	signal := doc["signal"].(map[string]any)
	assert.Equal(t, float64(20), signal["rssi"])

	// no hwmon sensors in the test root
	assert.NotContains(t, doc, "temperature")
}

func TestReportTemperature(t *testing.T) {
	a, m, _, s := setupApp(t)
	connected(m)

	dir := filepath.Join(a.hwmonRoot, "hwmon0")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "name"), []byte("cpu_thermal\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "temp1_input"), []byte("48500\n"), 0644))

	require.True(t, a.Tick())

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(s.bodies[0]), &doc))
	assert.Equal(t, 48.5, doc["temperature"])
}

func TestTickUploadRejected(t *testing.T) {
	a, m, ind, s := setupApp(t)
	connected(m)
	m.On("Invalidate").Return()
	s.accept = false

	assert.False(t, a.Tick())
	assert.Equal(t, []string{"working", "error"}, ind.states)
}

func TestFailedUploadReinitializesSession(t *testing.T) {
	a, m, _, s := setupApp(t)
	m.On("Ready").Return(true).Once()
	m.On("Invalidate").Return().Once()
	m.On("Ready").Return(false).Once()
	m.On("Initialize").Return(true).Once()
	connected(m)

	s.accept = false
	assert.False(t, a.Tick())
	m.AssertNumberOfCalls(t, "Invalidate", 1)
	m.AssertNotCalled(t, "Initialize")

	s.accept = true
	assert.True(t, a.Tick())
	m.AssertNumberOfCalls(t, "Initialize", 1)
	// gnss is started again on the fresh session
	m.AssertNumberOfCalls(t, "StartGPS", 2)
}

func useDirect(a *App) {
	a.Conf.Store().Set(func(c *config.StoreConfig) {
		c.Transport = config.TransportDirect
	})
}

func TestTickDirectSkipsModemSession(t *testing.T) {
	a, m, ind, s := setupApp(t)
	useDirect(a)
	m.On("Ready").Return(false)
	m.On("Initialize").Return(false)
	m.On("StartGPS").Return(nil)
	m.On("Location").Return(atparser.GPSInfo{}, atparser.ErrNoFix)
	m.On("SignalQuality").Return(atparser.Signal{RSSI: 12}, nil)

	assert.True(t, a.Tick())
	assert.Equal(t, []string{"working", "success"}, ind.states)
	require.Len(t, s.paths, 1)
	m.AssertNotCalled(t, "Initialize")

	// a rejected upload leaves the modem alone
	s.accept = false
	assert.False(t, a.Tick())
	m.AssertNotCalled(t, "Invalidate")
}

func TestTickDirectWithoutModem(t *testing.T) {
	log.Init(true)
	conf := config.NewManager()
	ind := &fakeIndicator{}
	s := &fakeStore{accept: true}
	a := New(conf, nil, fakeGauge{soc: 50, volts: 3.7}, ind, s)
	a.hwmonRoot = t.TempDir()
	a.watchdog = nil
	useDirect(a)

	require.True(t, a.Tick())

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(s.bodies[0]), &doc))
	assert.NotContains(t, doc, "signal")
	assert.Equal(t, false, doc["location"].(map[string]any)["valid"])

	assert.NotPanics(t, a.Shutdown)
}

func TestTickModemTransportWithoutModem(t *testing.T) {
	log.Init(true)
	ind := &fakeIndicator{}
	s := &fakeStore{accept: true}
	a := New(config.NewManager(), nil, fakeGauge{}, ind, s)

	assert.False(t, a.Tick())
	assert.Empty(t, s.paths)
	assert.Equal(t, []string{"working", "error"}, ind.states)
}

func TestNewPoster(t *testing.T) {
	conf := config.NewManager()

	_, err := NewPoster(conf, nil)
	assert.ErrorIs(t, err, ErrNoModem)

	m := &mockModem{}
	p, err := NewPoster(conf, m)
	require.NoError(t, err)
	assert.Same(t, m, p)

	conf.Store().Set(func(c *config.StoreConfig) {
		c.Transport = config.TransportDirect
	})
	p, err = NewPoster(conf, nil)
	require.NoError(t, err)
	assert.IsType(t, &store.DirectPoster{}, p)
}

func TestTickInitializesOnce(t *testing.T) {
	a, m, _, _ := setupApp(t)
	m.On("Ready").Return(false).Once()
	m.On("Initialize").Return(true).Once()
	connected(m)

	assert.True(t, a.Tick())
	assert.True(t, a.Tick())
	m.AssertNumberOfCalls(t, "Initialize", 1)
	m.AssertNumberOfCalls(t, "StartGPS", 1)
}

func TestReportWithoutSensors(t *testing.T) {
	a, m, _, s := setupApp(t)
	a.Gauge = fakeGauge{soc: -1, volts: math.NaN()}
	m.On("Ready").Return(true)
	m.On("StartGPS").Return(errors.New("busy"))
	m.On("Location").Return(atparser.GPSInfo{}, atparser.ErrNoFix)
	m.On("SignalQuality").Return(atparser.Signal{}, errors.New("timeout"))

	require.True(t, a.Tick())

	var report struct {
		Battery  Battery          `json:"battery"`
		Location Location         `json:"location"`
		Signal   *atparser.Signal `json:"signal"`
	}
	require.NoError(t, json.Unmarshal([]byte(s.bodies[0]), &report))
	assert.Nil(t, report.Battery.SoC)
	assert.Nil(t, report.Battery.Voltage)
	assert.False(t, report.Location.Valid)
	assert.Nil(t, report.Location.Time)
	assert.Nil(t, report.Signal)

	// the engine is started again on the next tick
	a.Tick()
	m.AssertNumberOfCalls(t, "StartGPS", 2)
}

func TestGPSDisabled(t *testing.T) {
	a, m, _, _ := setupApp(t)
	a.Conf.Tracker().Set(func(c *config.TrackerConfig) {
		c.GPS = false
	})
	m.On("Ready").Return(true)
	m.On("SignalQuality").Return(atparser.Signal{RSSI: 20}, nil)

	assert.True(t, a.Tick())
	m.AssertNotCalled(t, "StartGPS")
	m.AssertNotCalled(t, "Location")
}

func TestRunUntilCancelled(t *testing.T) {
	defer goleak.VerifyNone(t)

	a, m, ind, s := setupApp(t)
	connected(m)
	a.interval = time.Millisecond

	watchdogCalls := 0
	a.watchdog = func() error {
		watchdogCalls++
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.onSend = func() {
		if len(s.paths) == 3 {
			cancel()
		}
	}

	require.NoError(t, a.Run(ctx))
	assert.Len(t, s.paths, 3)
	assert.Equal(t, 3, watchdogCalls)
	assert.Equal(t, "off", ind.states[len(ind.states)-1])
}

func TestShutdown(t *testing.T) {
	a, m, ind, _ := setupApp(t)
	m.On("Close").Return(nil)

	a.Shutdown()
	m.AssertCalled(t, "Close")
	assert.Equal(t, []string{"off"}, ind.states)
}
