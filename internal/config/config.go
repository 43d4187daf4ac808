package config

import (
	"os"
	"strings"
	"sync"
	"time"

	"github.com/LeoCommon/safetrack/pkg/log"
	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap"
)

const (
	ProductName = "safetrack"

	ConfigFolder      = "/etc/" + ProductName + "/"
	ConfigFile        = "config.toml"
	DefaultConfigPath = ConfigFolder + ConfigFile

	// Deployment time constants, a config file may override them at start-up
	DefaultStoreURL = "https://safetrack-76a0c-default-rtdb.asia-southeast1.firebasedatabase.app/"
	DefaultAPN      = "internet"

	DefaultDeviceID       = "tracker"
	DefaultStorePath      = "telemetry"
	DefaultUploadInterval = time.Minute
	MinUploadInterval     = 10 * time.Second

	DefaultTty      = "/dev/serial/by-id/usb-SimTech__Incorporated_SimTech__Incorporated_0123456789ABCDEF-if02-port0"
	DefaultBaudRate = 115200

	DefaultGreenLED  = 26
	DefaultRedLED    = 27
	DefaultGPIORoot  = "/sys/class/gpio"
	DefaultSupplyDir = "/sys/class/power_supply"

	DefaultDebugModeValue = false
)

type CLIFlags struct {
	ConfigPath string
	Debug      bool
}

type MainConfig struct {
	Tracker  TrackerConfig  `toml:"tracker"`
	Modem    ModemConfig    `toml:"modem"`
	Store    StoreConfig    `toml:"store"`
	Hardware HardwareConfig `toml:"hardware"`
}

type ConfigManager interface {
	lock()
	unlock()
	Verify() error
}

type ConfigManagerKey string

const (
	CMTracker  ConfigManagerKey = "tracker"
	CMModem    ConfigManagerKey = "modem"
	CMStore    ConfigManagerKey = "store"
	CMHardware ConfigManagerKey = "hardware"
)

type ConfigManagerStore map[ConfigManagerKey]ConfigManager

type Manager struct {
	mu sync.RWMutex

	// The actual config, never share this with other code
	config *MainConfig

	// The config manager store (pointers)
	store ConfigManagerStore

	// The config path
	path string
}

func (m *Manager) Tracker() *TrackerConfigManager {
	m.mu.RLock()
	defer m.mu.RUnlock()

	cm, ok := m.store[CMTracker].(*TrackerConfigManager)
	if !ok {
		log.Panic("implementation mistake, no CMTracker found")
		return nil
	}
	return cm
}

func (m *Manager) Modem() *ModemConfigManager {
	m.mu.RLock()
	defer m.mu.RUnlock()

	cm, ok := m.store[CMModem].(*ModemConfigManager)
	if !ok {
		log.Panic("implementation mistake, no CMModem found")
		return nil
	}
	return cm
}

func (m *Manager) Store() *StoreConfigManager {
	m.mu.RLock()
	defer m.mu.RUnlock()

	cm, ok := m.store[CMStore].(*StoreConfigManager)
	if !ok {
		log.Panic("implementation mistake, no CMStore found")
		return nil
	}
	return cm
}

func (m *Manager) Hardware() *HardwareConfigManager {
	m.mu.RLock()
	defer m.mu.RUnlock()

	cm, ok := m.store[CMHardware].(*HardwareConfigManager)
	if !ok {
		log.Panic("implementation mistake, no CMHardware found")
		return nil
	}
	return cm
}

// Load reads the file on top of the compiled-in defaults and verifies the
// result. A missing or broken file is only fatal if acceptEmptyConfig is false.
func (m *Manager) Load(path string, acceptEmptyConfig bool) error {
	// Every load starts from the defaults, a broken file leaves nothing behind
	loaded := New()
	data, err := os.ReadFile(path)
	if err == nil {
		if err = toml.Unmarshal(data, loaded); err != nil {
			log.Error("failed to unmarshal config file", zap.Error(err))
			loaded = New()
		}
	}

	if err != nil && !acceptEmptyConfig {
		return err
	}

	// Section managers point into m.config, so copy instead of swapping the pointer
	m.mu.Lock()
	*m.config = *loaded
	m.mu.Unlock()

	// Store the load path
	m.path = path

	return m.Verify()
}

// Verify checks all sections for the mandatory values
func (m *Manager) Verify() error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for key, value := range m.store {
		if err := value.Verify(); err != nil {
			log.Error("invalid config section", zap.String("section", string(key)), zap.Error(err))
			return err
		}
	}

	log.Debug("active config", zap.Any("config", m.config), zap.String("path", m.path))
	return nil
}

// Save locks all configs and writes it to disk
func (m *Manager) Save() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, value := range m.store {
		value.lock()
	}

	defer func() {
		for _, value := range m.store {
			value.unlock()
		}
	}()

	// Marshal the config, does not use getters, so no locking => safe
	configData, err := toml.Marshal(m.config)
	if err != nil {
		return err
	}

	if err := os.WriteFile(m.path, configData, 0644); err != nil {
		log.Error("Failed to write config file", zap.Error(err))
		return err
	}

	return nil
}

// Path is the file the config was loaded from
func (m *Manager) Path() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.path
}

// New returns the compiled-in defaults
func New() *MainConfig {
	return &MainConfig{
		Tracker: TrackerConfig{
			DeviceID:       DefaultDeviceID,
			UploadInterval: TOMLDuration(DefaultUploadInterval),
			GPS:            true,
			Debug:          DefaultDebugModeValue,
		},
		Modem: ModemConfig{
			Tty:      DefaultTty,
			BaudRate: DefaultBaudRate,
			APN:      DefaultAPN,
		},
		Store: StoreConfig{
			Url:       DefaultStoreURL,
			Path:      DefaultStorePath,
			Transport: TransportModem,
		},
		Hardware: HardwareConfig{
			GreenLED:  DefaultGreenLED,
			RedLED:    DefaultRedLED,
			GPIORoot:  DefaultGPIORoot,
			SupplyDir: DefaultSupplyDir,
		},
	}
}

func NewManager() *Manager {
	m := &Manager{
		config: New(),
	}

	// Each config section manager gets his own locking primitive
	m.store = ConfigManagerStore{
		CMTracker:  NewTrackerConfigManager(&m.config.Tracker, m),
		CMModem:    NewModemConfigManager(&m.config.Modem, m),
		CMStore:    NewStoreConfigManager(&m.config.Store, m),
		CMHardware: NewHardwareConfigManager(&m.config.Hardware, m),
	}

	return m
}

// DocumentPath is where this device writes its reports
func (m *Manager) DocumentPath() string {
	s := m.Store().C()
	id := m.Tracker().C().DeviceID
	path := strings.Trim(s.Path, "/")
	if path == "" {
		return id
	}

	return path + "/" + id
}

// WriteDefaults stores the compiled-in defaults at path, used to seed a deployment
func WriteDefaults(path string) error {
	m := NewManager()
	m.path = path
	return m.Save()
}
