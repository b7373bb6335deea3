package console

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"

	"robosense/core"
	"robosense/host/output"
	"robosense/host/telemetry"
)

// LowBattery is the level below which the battery is shown in red.
const LowBattery = 4.2

type ConsoleOutput struct {
	w io.Writer
}

func NewConsole() output.Output { return &ConsoleOutput{w: color.Output} }

// NewWriter returns a console output writing to w.
func NewWriter(w io.Writer) output.Output { return &ConsoleOutput{w: w} }

func (c *ConsoleOutput) Publish(r telemetry.Reading) error {
	s := r.Snapshot()

	battery := color.GreenString("%.2fV", s.BatteryV)
	if s.BatteryV < LowBattery {
		battery = color.RedString("%.2fV", s.BatteryV)
	}

	distance := color.YellowString("no echo")
	if s.DistanceCM != nil {
		distance = color.New(color.Bold).Sprintf("%dcm", *s.DistanceCM)
	}

	_, err := fmt.Fprintf(c.w, "%s seq=%d up=%s bat=%s line=%d/%d ticks=%d/%d dist=%s mode=%s\n",
		stamp(r.Received), s.Sequence, r.Uptime, battery,
		s.LineLeft, s.LineRight, s.TicksLeft, s.TicksRight, distance, mode(r.Mode))
	return err
}

func (c *ConsoleOutput) Close() error { return nil }

func stamp(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(time.RFC3339)
}

func mode(m core.Mode) string {
	switch m {
	case core.ModeCapture:
		return color.CyanString(m.String())
	case core.ModeRanging:
		return color.MagentaString(m.String())
	}
	return m.String()
}
