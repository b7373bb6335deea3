package mqtt

import (
	"encoding/json"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/pkg/errors"

	"robosense/host/config"
	"robosense/host/output"
	"robosense/host/telemetry"
)

const (
	// defaults
	DefaultServer   = "tcp://localhost:1883"
	DefaultClientID = "robosense"
	DefaultTopic    = "robosense/telemetry"

	disconnectQuiesceMs = 250
)

type MQTTOutput struct {
	client mqtt.Client
	topic  string
}

func NewMQTT(cfg config.MQTTConfig) (output.Output, error) {
	server := cfg.Server
	if server == "" {
		server = DefaultServer
	}
	clientID := cfg.ClientID
	if clientID == "" {
		clientID = DefaultClientID
	}

	opts := mqtt.NewClientOptions().AddBroker(server).SetClientID(clientID)
	opts.SetAutoReconnect(true)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}
	client := mqtt.NewClient(opts)
	token := client.Connect()
	if token.Wait() && token.Error() != nil {
		return nil, errors.Wrapf(token.Error(), "mqtt connect to %s", server)
	}

	return &MQTTOutput{client: client, topic: Topic(cfg)}, nil
}

// Topic returns the state topic for cfg.
func Topic(cfg config.MQTTConfig) string {
	if cfg.Topic == "" {
		return DefaultTopic
	}
	return cfg.Topic
}

// Payload is the JSON document published for a reading.
func Payload(r telemetry.Reading) ([]byte, error) {
	return json.Marshal(r.Snapshot())
}

func (m *MQTTOutput) Publish(r telemetry.Reading) error {
	b, err := Payload(r)
	if err != nil {
		return err
	}
	token := m.client.Publish(m.topic, 0, false, b)
	token.Wait()
	return errors.Wrapf(token.Error(), "mqtt publish to %s", m.topic)
}

func (m *MQTTOutput) Close() error {
	if m.client != nil {
		m.client.Disconnect(disconnectQuiesceMs)
	}
	return nil
}
