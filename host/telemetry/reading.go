// Package telemetry turns the robot's framed sensor reports into readings
// with physical units.
package telemetry

import (
	"time"

	"periph.io/x/conn/v3/physic"

	"robosense/core"
	"robosense/protocol"
)

// Calibration converts raw samples to physical units.
type Calibration struct {
	// Bandgap is the measured voltage of the controller's internal
	// reference. It is nominally 1.1V and varies by about 10% per chip.
	Bandgap physic.ElectricPotential
}

func DefaultCalibration() Calibration {
	return Calibration{Bandgap: 1100 * physic.MilliVolt}
}

// Supply converts the bandgap-against-supply sample to the supply voltage,
// which on the robot is the battery. A zero sample yields zero.
func (c Calibration) Supply(raw uint16) physic.ElectricPotential {
	if raw == 0 {
		return 0
	}
	return c.Bandgap * 1024 / physic.ElectricPotential(raw)
}

// Reading is one decoded report.
type Reading struct {
	Received time.Time
	Sequence uint8
	Uptime   time.Duration
	Battery  physic.ElectricPotential
	Line     [2]uint16
	Ticks    [2]int32
	Distance physic.Distance
	InRange  bool // false when the robot reported no echo
	Mode     core.Mode
	Raw      protocol.Report
}

// Convert applies cal to a decoded report.
func Convert(rep protocol.Report, seq uint8, at time.Time, cal Calibration) Reading {
	r := Reading{
		Received: at,
		Sequence: seq,
		Uptime:   time.Duration(rep.Uptime) * time.Millisecond,
		Battery:  cal.Supply(rep.Battery),
		Line:     rep.Line,
		Ticks:    rep.Ticks,
		Mode:     core.Mode(rep.Mode),
		Raw:      rep,
	}
	if rep.DistanceCM != core.Timeout && rep.DistanceCM >= 0 {
		r.InRange = true
		r.Distance = physic.Distance(rep.DistanceCM) * 10 * physic.MilliMetre
	}
	return r
}

// Snapshot is the flat form of a reading published by the outputs and the
// status API.
type Snapshot struct {
	Time       time.Time `json:"time"`
	Sequence   uint8     `json:"seq"`
	UptimeMS   uint32    `json:"uptime_ms"`
	BatteryV   float64   `json:"battery_v"`
	BatteryRaw uint16    `json:"battery_raw"`
	LineLeft   uint16    `json:"line_left"`
	LineRight  uint16    `json:"line_right"`
	TicksLeft  int32     `json:"ticks_left"`
	TicksRight int32     `json:"ticks_right"`
	DistanceCM *int32    `json:"distance_cm"`
	Mode       string    `json:"mode"`
}

// Snapshot flattens r. DistanceCM is nil when no echo was received.
func (r Reading) Snapshot() Snapshot {
	s := Snapshot{
		Time:       r.Received,
		Sequence:   r.Sequence,
		UptimeMS:   r.Raw.Uptime,
		BatteryV:   float64(r.Battery) / float64(physic.Volt),
		BatteryRaw: r.Raw.Battery,
		LineLeft:   r.Line[0],
		LineRight:  r.Line[1],
		TicksLeft:  r.Ticks[0],
		TicksRight: r.Ticks[1],
		Mode:       r.Mode.String(),
	}
	if r.InRange {
		cm := r.Raw.DistanceCM
		s.DistanceCM = &cm
	}
	return s
}
