package core

import (
	"errors"
	"time"
)

var (
	ErrThresholdOrder = errors.New("sensing: light threshold must be above dark threshold")
	ErrThresholdRange = errors.New("sensing: threshold outside 10-bit range")
	ErrRangingConfig  = errors.New("sensing: invalid ranging configuration")
	ErrReportConfig   = errors.New("sensing: report period must be non-zero")
)

// Hysteresis is the light/dark threshold pair for one wheel sensor.
// Samples between Dark and Light keep the previous classification.
type Hysteresis struct {
	Light uint16
	Dark  uint16
}

// Odometry holds the per-wheel thresholds. They depend heavily on ambient
// light and must be calibrated per robot.
type Odometry struct {
	Left  Hysteresis
	Right Hysteresis
}

// For returns the thresholds of a wheel.
func (o Odometry) For(w Wheel) Hysteresis {
	if w == WheelLeft {
		return o.Left
	}
	return o.Right
}

// Ranging holds the echo timing constants.
//
// Distance in centimetres is computed from the number of listen iterations:
//
//	cm = SoundSpeed * ((elapsed * 1000) / LoopRate) / 10000 / 2
//
// where (elapsed*1000)/LoopRate is the round trip in microseconds and the
// final halving removes the return leg.
type Ranging struct {
	BurstPulses   uint8         // carrier periods per burst
	CarrierTop    uint8         // timer compare value for the burst carrier
	ListenQuantum time.Duration // delay per listen iteration
	SoundSpeed    uint32        // metres per second
	LoopRate      uint32        // listen iterations per millisecond
	TimeoutTicks  uint32        // listen iterations before giving up
}

// Report controls the periodic telemetry report.
type Report struct {
	PeriodMS uint32
	Ranging  bool
}

// Config holds every calibrated constant of the sensing core.
type Config struct {
	Odometry      Odometry
	LineSettle    time.Duration // channel switch to conversion start, line sensors
	BandgapSettle time.Duration // reference settling after selecting the bandgap input
	Ranging       Ranging
	Report        Report
}

// DefaultConfig returns the values calibrated on the reference robot with an
// 8MHz clock.
func DefaultConfig() Config {
	return Config{
		Odometry: Odometry{
			Left:  Hysteresis{Light: 640, Dark: 560},
			Right: Hysteresis{Light: 640, Dark: 560},
		},
		LineSettle:    278 * time.Microsecond, // ten periods of the 36kHz carrier
		BandgapSettle: 2 * time.Millisecond,
		Ranging: Ranging{
			BurstPulses:   20,
			CarrierTop:    100, // 40kHz at 8MHz
			ListenQuantum: time.Microsecond,
			SoundSpeed:    344,
			LoopRate:      72,
			TimeoutTicks:  3500,
		},
		Report: Report{
			PeriodMS: 500,
			Ranging:  true,
		},
	}
}

// Validate checks the configuration for values the engines cannot use.
func (c Config) Validate() error {
	for _, h := range [2]Hysteresis{c.Odometry.Left, c.Odometry.Right} {
		if h.Light > 1023 || h.Dark > 1023 {
			return ErrThresholdRange
		}
		if h.Light <= h.Dark {
			return ErrThresholdOrder
		}
	}
	r := c.Ranging
	if r.BurstPulses == 0 || r.LoopRate == 0 || r.SoundSpeed == 0 || r.TimeoutTicks == 0 || r.ListenQuantum <= 0 {
		return ErrRangingConfig
	}
	// The burst sweeps the compare value from top+n/2 down to top+n/2-(n-1).
	if hi := int(r.CarrierTop) + int(r.BurstPulses)/2; hi > 255 || hi < int(r.BurstPulses)-1 {
		return ErrRangingConfig
	}
	// A zero period would reschedule the report at the same tick forever.
	if c.Report.PeriodMS == 0 {
		return ErrReportConfig
	}
	return nil
}
