package gauge

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/LeoCommon/safetrack/pkg/log"
	"go.uber.org/zap"
)

var ErrNoSupply = errors.New("no battery power supply found")

// Unit tags a voltage reading, the kernel reports micro volts
type Unit string

const (
	UnitVolt      Unit = "V"
	UnitMillivolt Unit = "mV"
	UnitMicrovolt Unit = "uV"
)

type Voltage struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

// Volts converts the reading, unknown units yield NaN
func (v Voltage) Volts() float64 {
	switch v.Unit {
	case UnitVolt:
		return v.Value
	case UnitMillivolt:
		return v.Value / 1e3
	case UnitMicrovolt:
		return v.Value / 1e6
	default:
		return math.NaN()
	}
}

func (v Voltage) String() string {
	return fmt.Sprintf("%.3fV", v.Volts())
}

const (
	supplyTypeBattery = "Battery"

	attrType     = "type"
	attrCapacity = "capacity"
	attrVoltage  = "voltage_now"
)

// Gauge reads a MAX1704x fuel gauge through the power_supply class
type Gauge struct {
	root string
	name string

	// dir is set once Begin found the supply
	dir string
}

// New creates a gauge below root, an empty name picks the first battery
func New(root string, name string) *Gauge {
	return &Gauge{root: root, name: name}
}

// Begin locates the supply and reports whether the gauge answers
func (g *Gauge) Begin() bool {
	dir, err := g.find()
	if err != nil {
		log.Error("fuel gauge not found", zap.String("root", g.root), zap.String("name", g.name), zap.Error(err))
		return false
	}

	g.dir = dir
	log.Info("fuel gauge initialized", zap.String("supply", filepath.Base(dir)))
	return true
}

func (g *Gauge) find() (string, error) {
	if g.name != "" {
		dir := filepath.Join(g.root, g.name)
		if _, err := readStringFromFile(filepath.Join(dir, attrCapacity)); err != nil {
			return "", fmt.Errorf("%w: %v", ErrNoSupply, err)
		}
		return dir, nil
	}

	supplies, err := filepath.Glob(filepath.Join(g.root, "*"))
	if err != nil {
		return "", err
	}

	for _, dir := range supplies {
		t, err := readStringFromFile(filepath.Join(dir, attrType))
		if err != nil || t != supplyTypeBattery {
			continue
		}

		if _, err := readStringFromFile(filepath.Join(dir, attrCapacity)); err != nil {
			continue
		}

		return dir, nil
	}

	return "", ErrNoSupply
}

// ReadStateOfCharge returns the charge in percent
func (g *Gauge) ReadStateOfCharge() (float64, error) {
	if g.dir == "" {
		return 0, ErrNoSupply
	}

	str, err := readStringFromFile(filepath.Join(g.dir, attrCapacity))
	if err != nil {
		return 0, err
	}

	return strconv.ParseFloat(str, 64)
}

func (g *Gauge) ReadVoltage() (Voltage, error) {
	if g.dir == "" {
		return Voltage{}, ErrNoSupply
	}

	str, err := readStringFromFile(filepath.Join(g.dir, attrVoltage))
	if err != nil {
		return Voltage{}, err
	}

	uv, err := strconv.ParseFloat(str, 64)
	if err != nil {
		return Voltage{}, err
	}

	return Voltage{Value: uv, Unit: UnitMicrovolt}, nil
}

// StateOfCharge returns percent or -1 if the gauge could not be read
func (g *Gauge) StateOfCharge() float64 {
	soc, err := g.ReadStateOfCharge()
	if err != nil || math.IsNaN(soc) {
		log.Warn("could not read state of charge", zap.Error(err))
		return -1
	}

	return soc
}

// Voltage returns volts or NaN if the gauge could not be read
func (g *Gauge) Voltage() float64 {
	v, err := g.ReadVoltage()
	if err != nil {
		log.Warn("could not read battery voltage", zap.Error(err))
		return math.NaN()
	}

	return v.Volts()
}

func readStringFromFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(string(data)), nil
}
