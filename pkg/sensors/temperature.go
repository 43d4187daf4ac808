package sensors

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
)

const DefaultHwmonRoot = "/sys/class/hwmon"

// Temperature in milli degrees celsius, as reported by hwmon
type Temperature int

func (t Temperature) Celsius() float64 {
	return float64(t) / 1000.0
}

func (t Temperature) String() string {
	return fmt.Sprintf("%.2f°C", t.Celsius())
}

type SensorEntry struct {
	// Critical set point is optional
	Crit  *Temperature `json:"crit,omitempty"`
	Label string       `json:"label,omitempty"`
	Temp  Temperature  `json:"temp"`
}

func (t SensorEntry) String() string {
	if t.Crit != nil {
		return fmt.Sprintf("%s: %s critical: %s", t.Label, t.Temp, t.Crit)
	}
	return fmt.Sprintf("%s: %s", t.Label, t.Temp)
}

// Whitelist of the hwmon drivers of interest.
// kXtemp are AMD sensors, coretemp is for Intel and cpu_thermal is for the Pi
var Whitelist = []string{"coretemp", "k8temp", "k10temp", "cpu_thermal", "rp1_adc"}

// ReadTemperatures collects all whitelisted hwmon temperatures below root
func ReadTemperatures(root string) map[string][]SensorEntry {
	sensors := make(map[string][]SensorEntry)

	hwmonPaths, err := filepath.Glob(filepath.Join(root, "hwmon*"))
	if err != nil {
		return sensors
	}

	for _, hwmonPath := range hwmonPaths {
		name, err := readStringFromFile(filepath.Join(hwmonPath, "name"))
		if err != nil || !slices.Contains(Whitelist, name) {
			continue
		}

		tempPaths, _ := filepath.Glob(filepath.Join(hwmonPath, "temp*_input"))
		entries := make([]SensorEntry, 0, len(tempPaths))
		for _, tempPath := range tempPaths {
			temp := readTemperatureFromFile(tempPath)
			if temp == nil {
				continue
			}

			base := strings.TrimSuffix(tempPath, "_input")
			label, _ := readStringFromFile(base + "_label")
			entries = append(entries, SensorEntry{
				Temp:  *temp,
				Crit:  readTemperatureFromFile(base + "_crit"),
				Label: label,
			})
		}

		if len(entries) > 0 {
			sensors[name] = append(sensors[name], entries...)
		}
	}

	return sensors
}

// Hottest returns the highest reading or nil if there is none
func Hottest(sensors map[string][]SensorEntry) *Temperature {
	var hottest *Temperature
	for _, entries := range sensors {
		for _, e := range entries {
			if hottest == nil || e.Temp > *hottest {
				t := e.Temp
				hottest = &t
			}
		}
	}
	return hottest
}

func readStringFromFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(string(data)), nil
}

func readTemperatureFromFile(path string) *Temperature {
	str, err := readStringFromFile(path)
	if err != nil {
		return nil
	}

	num, err := strconv.Atoi(str)
	if err != nil {
		return nil
	}

	temp := Temperature(num)
	return &temp
}
