package mqtt

import (
	"encoding/json"
	"testing"
	"time"

	"robosense/core"
	"robosense/host/config"
	"robosense/host/telemetry"
	"robosense/protocol"
)

func TestTopic(t *testing.T) {
	if got := Topic(config.MQTTConfig{}); got != DefaultTopic {
		t.Errorf("Expected %s, got %s", DefaultTopic, got)
	}
	if got := Topic(config.MQTTConfig{Topic: "lab/robot1"}); got != "lab/robot1" {
		t.Errorf("Expected lab/robot1, got %s", got)
	}
}

func TestPayload(t *testing.T) {
	rep := protocol.Report{
		Uptime:     1000,
		Battery:    256,
		Line:       [2]uint16{1, 2},
		Ticks:      [2]int32{-3, 4},
		DistanceCM: core.Timeout,
		Mode:       uint8(core.ModeIdle),
	}
	b, err := Payload(telemetry.Convert(rep, 9, time.Unix(0, 0).UTC(), telemetry.DefaultCalibration()))
	if err != nil {
		t.Fatalf("Payload failed: %v", err)
	}

	var got map[string]interface{}
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("Payload is not JSON: %v", err)
	}
	if got["battery_v"] != 4.4 || got["ticks_left"] != float64(-3) || got["mode"] != "idle" {
		t.Errorf("Unexpected payload %s", b)
	}
	if v, ok := got["distance_cm"]; !ok || v != nil {
		t.Errorf("Expected distance_cm null, got %s", b)
	}
}
