package tracker

import (
	"math"
	"time"

	"github.com/LeoCommon/safetrack/internal/modem/sim7600/atparser"
	"github.com/LeoCommon/safetrack/pkg/gauge"
	"github.com/google/uuid"
)

// Battery values are nil when the gauge could not be read
type Battery struct {
	SoC     *float64   `json:"soc"`
	Voltage *float64   `json:"voltage"`
	Unit    gauge.Unit `json:"unit"`
}

type Location struct {
	Valid     bool       `json:"valid"`
	Latitude  float64    `json:"lat"`
	Longitude float64    `json:"lon"`
	Altitude  float64    `json:"alt"`
	Speed     float64    `json:"speed"`
	Time      *time.Time `json:"time,omitempty"`
}

// Report is the document uploaded on every tick
type Report struct {
	ID        uuid.UUID        `json:"id"`
	Timestamp int64            `json:"timestamp"`
	Battery   Battery          `json:"battery"`
	Location  Location         `json:"location"`
	Signal    *atparser.Signal `json:"signal,omitempty"`
	// Hottest board sensor in degrees celsius
	Temperature *float64 `json:"temperature,omitempty"`
}

func optional(v float64) *float64 {
	if math.IsNaN(v) || v < 0 {
		return nil
	}
	return &v
}

func NewBattery(soc float64, volts float64) Battery {
	return Battery{SoC: optional(soc), Voltage: optional(volts), Unit: gauge.UnitVolt}
}

func NewLocation(info atparser.GPSInfo) Location {
	if !info.Valid() {
		return Location{}
	}

	t := info.Time.UTC()
	return Location{
		Valid:     true,
		Latitude:  info.Latitude,
		Longitude: info.Longitude,
		Altitude:  info.Altitude,
		Speed:     info.Speed,
		Time:      &t,
	}
}
