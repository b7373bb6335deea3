package core

import (
	"errors"
	"time"
)

// ErrMissingHardware is returned by NewSensing when a driver is nil.
var ErrMissingHardware = errors.New("sensing: hardware driver not configured")

// ConverterDriver is the analog-to-digital converter as the sensing core
// sees it. Targets implement it on top of the converter registers; tests
// use a simulated board.
type ConverterDriver interface {
	// Apply programs channel, reference and trigger mode. TriggerFreeRunning
	// also enables the conversion-complete interrupt and starts the first
	// conversion; TriggerSingle leaves the interrupt disabled.
	Apply(st ConverterState)

	// Disable powers the converter off so no conversion or interrupt occurs.
	Disable()

	// Start begins a single conversion on the applied channel.
	Start()

	// Done reports the conversion-complete flag.
	Done() bool

	// Clear acknowledges the conversion-complete flag.
	Clear()

	// Result returns the last conversion, right aligned (0..1023).
	Result() uint16
}

// TimerDriver is the shared 8-bit timer. Outside ranging it produces the
// standard carrier used by the rest of the firmware.
type TimerDriver interface {
	// StartPulseTrain runs the timer in clear-on-compare mode at top with
	// the compare interrupt enabled, so each period calls Ranger.HandleCompare.
	StartPulseTrain(top uint8)

	// SetCompare updates the compare value of a running pulse train.
	SetCompare(v uint8)

	// FreeRun runs clear-on-compare at top with the compare interrupt off.
	FreeRun(top uint8)

	// RestoreCarrier reinstates the standard carrier configuration.
	RestoreCarrier()
}

// ComparatorDriver is the analog comparator wired to the echo line.
type ComparatorDriver interface {
	AttachEcho()
	Detach()
	EdgeDetected() bool
	ClearEdge()
}

// IndicatorDriver toggles the LEDs that share pins with the wheel sensors.
type IndicatorDriver interface {
	OdometryLED(on bool)
	BackLEDs(left, right bool)
}

// Clock is the blocking delay primitive.
type Clock interface {
	Delay(d time.Duration)
}

// Hardware bundles the fixed peripheral set the sensing core arbitrates.
type Hardware struct {
	Converter  ConverterDriver
	Timer      TimerDriver
	Comparator ComparatorDriver
	Indicators IndicatorDriver
	Clock      Clock
}

func (h Hardware) validate() error {
	if h.Converter == nil || h.Timer == nil || h.Comparator == nil ||
		h.Indicators == nil || h.Clock == nil {
		return ErrMissingHardware
	}
	return nil
}
