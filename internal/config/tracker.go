package config

import (
	"errors"
	"strings"
)

// If you want to modify any field at run-time here, make sure to lock it using a mutex
type TrackerConfig struct {
	DeviceID       string       `toml:"device_id"`
	UploadInterval TOMLDuration `toml:"upload_interval" comment:"time between two telemetry uploads"`
	GPS            bool         `toml:"gps" comment:"start the modem gnss engine and report the location"`
	Debug          bool         `toml:"debug"`
}

type TrackerConfigManager struct {
	BaseConfigManager[TrackerConfig]
}

// Verify verifies the "hard" conditions that the rest of the code relies on
func (a *TrackerConfigManager) Verify() error {
	if a.conf.UploadInterval.Value() < MinUploadInterval {
		return errors.New("upload interval below " + MinUploadInterval.String())
	}

	// The id becomes part of the document path
	if a.conf.DeviceID == "" || strings.ContainsAny(a.conf.DeviceID, "/.#$[]") {
		return errors.New("device id must be a non empty path segment")
	}

	return nil
}

func NewTrackerConfigManager(config *TrackerConfig, mgr *Manager) *TrackerConfigManager {
	j := TrackerConfigManager{}
	j.conf = config
	j.mgr = mgr

	return &j
}
