package console

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	"robosense/core"
	"robosense/host/telemetry"
	"robosense/protocol"
)

func TestConsolePublish(t *testing.T) {
	color.NoColor = true

	rep := protocol.Report{
		Uptime:     2500,
		Battery:    220,
		Line:       [2]uint16{10, 20},
		Ticks:      [2]int32{3, 4},
		DistanceCM: 23,
		Mode:       uint8(core.ModeCapture),
	}
	at := time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC)
	r := telemetry.Convert(rep, 5, at, telemetry.DefaultCalibration())

	var buf bytes.Buffer
	c := NewWriter(&buf)
	if err := c.Publish(r); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	want := "2026-10-15T09:30:00Z seq=5 up=2.5s bat=5.12V line=10/20 ticks=3/4 dist=23cm mode=capture\n"
	if buf.String() != want {
		t.Errorf("Expected %q, got %q", want, buf.String())
	}
	if err := c.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
}

func TestConsoleNoEcho(t *testing.T) {
	color.NoColor = true

	rep := protocol.Report{DistanceCM: core.Timeout}
	var buf bytes.Buffer
	if err := NewWriter(&buf).Publish(telemetry.Convert(rep, 0, time.Time{}, telemetry.DefaultCalibration())); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	if !strings.Contains(buf.String(), "dist=no echo") || !strings.HasPrefix(buf.String(), "- ") {
		t.Errorf("Unexpected line %q", buf.String())
	}
}
