package config

import (
	"errors"
)

type ModemConfig struct {
	Tty      string `toml:"tty"`
	BaudRate int    `toml:"baudrate"`
	APN      string `toml:"apn" comment:"carrier access point name"`
	// Zero disables waiting for the usb device
	WaitForDevice TOMLDuration `toml:"wait_for_device,omitempty" comment:"how long to wait for the modem to enumerate on usb"`
}

type ModemConfigManager struct {
	BaseConfigManager[ModemConfig]
}

func (a *ModemConfigManager) Verify() error {
	if a.conf.Tty == "" {
		return errors.New("no modem tty configured")
	}

	if a.conf.BaudRate <= 0 {
		return errors.New("invalid modem baudrate")
	}

	if a.conf.APN == "" {
		return errors.New("empty apn")
	}

	return nil
}

func NewModemConfigManager(config *ModemConfig, mgr *Manager) *ModemConfigManager {
	j := ModemConfigManager{}
	j.conf = config
	j.mgr = mgr

	return &j
}
