//go:build avr

package main

import (
	"machine"
	"time"

	"tinygo.org/x/drivers/delay"
)

// Pins shared between the indicators and the wheel sensors.
const (
	odometryLED  = machine.PD7
	backLEDLeft  = machine.PC1
	backLEDRight = machine.PC0
	lineLED      = machine.PD6
)

// Board implements core.IndicatorDriver and core.Clock.
type Board struct{}

func configurePins() {
	odometryLED.Configure(machine.PinConfig{Mode: machine.PinOutput})
	lineLED.Configure(machine.PinConfig{Mode: machine.PinOutput})
	lineLED.High()
}

func (Board) OdometryLED(on bool) {
	odometryLED.Set(on)
}

// BackLEDs drives PC0/PC1 as outputs. With both off they go back to inputs
// so the wheel sensors can be sampled.
func (Board) BackLEDs(left, right bool) {
	if !left && !right {
		backLEDLeft.Configure(machine.PinConfig{Mode: machine.PinInput})
		backLEDRight.Configure(machine.PinConfig{Mode: machine.PinInput})
		return
	}
	odometryLED.Low()
	backLEDLeft.Configure(machine.PinConfig{Mode: machine.PinOutput})
	backLEDRight.Configure(machine.PinConfig{Mode: machine.PinOutput})
	backLEDLeft.Set(left)
	backLEDRight.Set(right)
}

// Delay busy-waits. The ranging loop rate is calibrated against it.
func (Board) Delay(d time.Duration) {
	delay.Sleep(d)
}
