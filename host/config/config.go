// Package config holds the host tool configuration: the serial link to the
// robot, where decoded readings go, and the battery calibration.
package config

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"robosense/host/serial"
)

// Output types.
const (
	OutputConsole = "console"
	OutputMQTT    = "mqtt"
)

var (
	ErrUnknownOutput = errors.New("unknown output type")
	ErrMissingBroker = errors.New("mqtt output needs a server")
)

type MQTTConfig struct {
	Server   string `json:"server"`
	Username string `json:"username"`
	Password string `json:"password"`
	ClientID string `json:"client_id"`
	Topic    string `json:"topic"`
}

type OutputConfig struct {
	Type string      `json:"type"`
	MQTT *MQTTConfig `json:"mqtt,omitempty"`
}

type Config struct {
	Device        string `json:"device"`
	Baud          int    `json:"baud"`
	ReadTimeoutMs int    `json:"read_timeout_ms"`

	Outputs []OutputConfig `json:"outputs"`

	// Listen is the HTTP status API address. Empty disables the API.
	Listen string `json:"listen"`

	// BandgapMicrovolts is the robot controller's internal 1.1V reference
	// as measured on the board. The battery voltage is derived from it.
	BandgapMicrovolts int64 `json:"bandgap_uv"`

	LogLevel string `json:"log_level"`
}

func DefaultConfig() Config {
	return Config{
		Device:            "/dev/ttyUSB0",
		Baud:              serial.DefaultBaud,
		ReadTimeoutMs:     100,
		Outputs:           []OutputConfig{{Type: OutputConsole}},
		BandgapMicrovolts: 1100000,
		LogLevel:          "info",
	}
}

// Load reads a JSON file over the defaults. A missing or empty file yields
// the defaults.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, errors.Wrapf(err, "failed to read config file %s", path)
	}
	if strings.TrimSpace(string(b)) == "" {
		return cfg, nil
	}
	if err := json.Unmarshal(b, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "failed to unmarshal config from file %s", path)
	}
	return cfg, cfg.Validate()
}

// Validate checks the values the host tool cannot run with and fills in
// MQTT defaults.
func (c *Config) Validate() error {
	if c.Baud <= 0 {
		return errors.Errorf("baud must be > 0, got %d", c.Baud)
	}
	if c.BandgapMicrovolts <= 0 {
		return errors.Errorf("bandgap_uv must be > 0, got %d", c.BandgapMicrovolts)
	}
	for i := range c.Outputs {
		o := &c.Outputs[i]
		o.Type = strings.ToLower(strings.TrimSpace(o.Type))
		switch o.Type {
		case OutputConsole:
		case OutputMQTT:
			if o.MQTT == nil || o.MQTT.Server == "" {
				return errors.Wrapf(ErrMissingBroker, "output %d", i)
			}
			if o.MQTT.ClientID == "" {
				o.MQTT.ClientID = "robosense"
			}
			if o.MQTT.Topic == "" {
				o.MQTT.Topic = "robosense/telemetry"
			}
		default:
			return errors.Wrapf(ErrUnknownOutput, "output %d: %q", i, o.Type)
		}
	}
	return nil
}

// Serial returns the serial port settings.
func (c *Config) Serial() *serial.Config {
	sc := serial.DefaultConfig(c.Device)
	sc.Baud = c.Baud
	sc.ReadTimeout = c.ReadTimeoutMs
	return sc
}

func (c *Config) LogrusFields() logrus.Fields {
	types := make([]string, 0, len(c.Outputs))
	for _, o := range c.Outputs {
		types = append(types, o.Type)
	}
	return logrus.Fields{
		"device":  c.Device,
		"baud":    c.Baud,
		"outputs": strings.Join(types, ","),
		"listen":  c.Listen,
	}
}
