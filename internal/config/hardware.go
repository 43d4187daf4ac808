package config

import "errors"

type HardwareConfig struct {
	GreenLED  int    `toml:"led_green" comment:"gpio line of the green led"`
	RedLED    int    `toml:"led_red" comment:"gpio line of the red led"`
	GPIORoot  string `toml:"gpio_root,omitempty"`
	SupplyDir string `toml:"power_supply_root,omitempty"`
	// Empty picks the first battery found
	Supply string `toml:"power_supply,omitempty" comment:"name of the fuel gauge power supply, e.g. max17043"`
}

type HardwareConfigManager struct {
	BaseConfigManager[HardwareConfig]
}

func (a *HardwareConfigManager) Verify() error {
	if a.conf.GreenLED < 0 || a.conf.RedLED < 0 {
		return errors.New("negative gpio line")
	}

	if a.conf.GreenLED == a.conf.RedLED {
		return errors.New("both leds on the same gpio line")
	}

	return nil
}

func NewHardwareConfigManager(config *HardwareConfig, mgr *Manager) *HardwareConfigManager {
	j := HardwareConfigManager{}
	j.conf = config
	j.mgr = mgr

	return &j
}
