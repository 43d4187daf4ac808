package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// The way documents leave the device
type StoreTransport string

const (
	// TransportModem posts through the modem's AT command http stack
	TransportModem StoreTransport = "modem"
	// TransportDirect posts through the host network
	TransportDirect StoreTransport = "direct"
)

func (s StoreTransport) SupportedOptions() []StoreTransport {
	return []StoreTransport{
		TransportModem,
		TransportDirect,
	}
}

type StoreConfig struct {
	Url            string         `toml:"url" comment:"document store base url, must end with a slash"`
	Path           string         `toml:"path" comment:"document path below the base url, the device id is appended"`
	Transport      StoreTransport `toml:"transport" comment:"modem or direct"`
	RequestTimeout TOMLDuration   `toml:"request_timeout,omitempty" comment:"only used by the direct transport"`
}

type StoreConfigManager struct {
	BaseConfigManager[StoreConfig]
}

func (a *StoreConfigManager) Verify() error {
	u, err := url.Parse(a.conf.Url)
	if err != nil {
		return err
	}

	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("store url %q is not absolute", a.conf.Url)
	}

	// Documents are appended verbatim
	if !strings.HasSuffix(a.conf.Url, "/") {
		return errors.New("store url must end with a slash")
	}

	if strings.HasPrefix(a.conf.Path, "/") {
		return errors.New("store path must be relative")
	}

	for _, t := range a.conf.Transport.SupportedOptions() {
		if t == a.conf.Transport {
			return nil
		}
	}

	return fmt.Errorf("unsupported store transport %q", a.conf.Transport)
}

func NewStoreConfigManager(config *StoreConfig, mgr *Manager) *StoreConfigManager {
	j := StoreConfigManager{}
	j.conf = config
	j.mgr = mgr

	return &j
}
