package led

import (
	"time"

	"github.com/LeoCommon/safetrack/pkg/log"
	"go.uber.org/zap"
)

// WorkingBlink is the pause between the two phases of Working
const WorkingBlink = 200 * time.Millisecond

// Pin is a digital output line
type Pin interface {
	High() error
	Low() error
}

// Indicator shows the coarse device state on a green and a red led
type Indicator struct {
	green Pin
	red   Pin
	sleep func(time.Duration)
}

func NewIndicator(green Pin, red Pin) *Indicator {
	return &Indicator{green: green, red: red, sleep: time.Sleep}
}

// WithSleep replaces the blocking pause used by Working
func (i *Indicator) WithSleep(sleep func(time.Duration)) *Indicator {
	i.sleep = sleep
	return i
}

func (i *Indicator) set(pin Pin, name string, high bool) {
	var err error
	if high {
		err = pin.High()
	} else {
		err = pin.Low()
	}

	if err != nil {
		log.Warn("could not drive led", zap.String("led", name), zap.Bool("high", high), zap.Error(err))
	}
}

// Off turns both leds off
func (i *Indicator) Off() {
	i.set(i.green, "green", false)
	i.set(i.red, "red", false)
}

// Success means connected or data sent
func (i *Indicator) Success() {
	i.set(i.green, "green", true)
	i.set(i.red, "red", false)
}

// Error covers modem and upload failures
func (i *Indicator) Error() {
	i.set(i.red, "red", true)
	i.set(i.green, "green", false)
}

// Working blinks green once, it blocks for two blink periods
func (i *Indicator) Working() {
	i.Off()
	i.sleep(WorkingBlink)
	i.set(i.green, "green", true)
	i.sleep(WorkingBlink)
}
