package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"

	"robosense/protocol"
)

func captureFile(t *testing.T) string {
	t.Helper()
	var stream []byte
	for i := 0; i < 2; i++ {
		rep := protocol.Report{Uptime: uint32(i) * 500, Battery: 220, DistanceCM: 23}
		payload := protocol.NewScratchOutput()
		protocol.EncodeReport(payload, &rep)
		frame := protocol.NewScratchOutput()
		if err := protocol.EncodeFrame(frame, uint8(i), payload.Result()); err != nil {
			t.Fatalf("EncodeFrame failed: %v", err)
		}
		stream = append(stream, frame.Result()...)
	}
	p := filepath.Join(t.TempDir(), "capture.bin")
	if err := os.WriteFile(p, stream, 0o644); err != nil {
		t.Fatalf("write capture: %v", err)
	}
	return p
}

func TestDecodeCommand(t *testing.T) {
	color.NoColor = true

	var out bytes.Buffer
	cmd := NewCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"--log-level", "error", "decode", captureFile(t)})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 lines, got %q", out.String())
	}
	if !strings.Contains(lines[1], "seq=1") || !strings.Contains(lines[1], "bat=5.12V") ||
		!strings.Contains(lines[1], "dist=23cm") {
		t.Errorf("Unexpected line %q", lines[1])
	}
}

func TestConfigFlagsOverride(t *testing.T) {
	cfgFile := filepath.Join(t.TempDir(), "robosense.json")
	if err := os.WriteFile(cfgFile, []byte(`{"device": "/dev/ttyS9", "baud": 9600}`), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	var out bytes.Buffer
	cmd := NewCommand()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--config", cfgFile, "--baud", "19200", "--log-level", "error", "version"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("version failed: %v", err)
	}

	if conf.Device != "/dev/ttyS9" || conf.Baud != 19200 {
		t.Errorf("Expected device from file and baud from flag, got %s %d", conf.Device, conf.Baud)
	}
	if !strings.Contains(out.String(), protocol.Version) {
		t.Errorf("Expected version output, got %q", out.String())
	}
}

func TestBadLogLevel(t *testing.T) {
	cmd := NewCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--log-level", "loud", "version"})
	if err := cmd.Execute(); err == nil {
		t.Error("Expected error for unknown log level")
	}
}
