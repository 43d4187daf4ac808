package led

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/LeoCommon/safetrack/pkg/log"
	"go.uber.org/zap"
)

// SysfsPin drives a gpio line through /sys/class/gpio
type SysfsPin struct {
	line  int
	value string
}

// OpenPin exports the line if needed and configures it as a low output
func OpenPin(root string, line int) (*SysfsPin, error) {
	dir := filepath.Join(root, fmt.Sprintf("gpio%d", line))

	if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
		if err := os.WriteFile(filepath.Join(root, "export"), []byte(strconv.Itoa(line)), 0200); err != nil {
			return nil, fmt.Errorf("export gpio %d: %w", line, err)
		}
		log.Debug("exported gpio", zap.Int("line", line))
	}

	// "low" sets the direction and the initial level in one go
	if err := os.WriteFile(filepath.Join(dir, "direction"), []byte("low"), 0644); err != nil {
		return nil, fmt.Errorf("configure gpio %d: %w", line, err)
	}

	return &SysfsPin{line: line, value: filepath.Join(dir, "value")}, nil
}

func (p *SysfsPin) High() error {
	return os.WriteFile(p.value, []byte("1"), 0644)
}

func (p *SysfsPin) Low() error {
	return os.WriteFile(p.value, []byte("0"), 0644)
}

func (p *SysfsPin) Line() int {
	return p.line
}

// NopPin is used when the leds are not available, e.g. on a bench host
type NopPin struct{}

func (NopPin) High() error { return nil }
func (NopPin) Low() error  { return nil }
