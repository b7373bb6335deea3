// Package robot is the host's connection to one robot: the serial port, the
// telemetry link on top of it and the latest reading.
package robot

import (
	"context"
	"io"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"robosense/host/output"
	"robosense/host/serial"
	"robosense/host/telemetry"
)

// Robot represents a connection to the robot's telemetry UART
type Robot struct {
	link   *telemetry.Link
	latest telemetry.Latest
	log    logrus.FieldLogger

	// Connection state
	connected bool
}

// Connect opens the serial port and starts the telemetry link
func Connect(cfg *serial.Config, cal telemetry.Calibration, log logrus.FieldLogger) (*Robot, error) {
	port, err := serial.Open(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to robot")
	}
	if err := port.Flush(); err != nil {
		log.WithError(err).Debug("flush failed")
	}
	log.WithFields(logrus.Fields{"device": cfg.Device, "baud": cfg.Baud}).Info("connected")
	return New(port, cal, log), nil
}

// New wraps an already open port.
func New(port io.ReadCloser, cal telemetry.Calibration, log logrus.FieldLogger) *Robot {
	return &Robot{
		link:      telemetry.NewLink(port, cal, log),
		log:       log,
		connected: true,
	}
}

// Close closes the connection to the robot
func (r *Robot) Close() error {
	if !r.connected {
		return nil
	}
	r.connected = false
	return r.link.Close()
}

// Get returns the most recent reading.
func (r *Robot) Get() (telemetry.Reading, bool) {
	return r.latest.Get()
}

// Stats returns the link counters.
func (r *Robot) Stats() telemetry.Stats {
	return r.link.Stats()
}

// Run delivers every reading to outs until ctx is done or the link closes.
// A failing output is logged and does not stop the others.
func (r *Robot) Run(ctx context.Context, outs ...output.Output) error {
	stale := time.NewTicker(5 * time.Second)
	defer stale.Stop()

	lastSeen := time.Now()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-stale.C:
			if since := time.Since(lastSeen); since > 5*time.Second {
				r.log.WithField("since", since.Round(time.Second)).Warn("no telemetry from robot")
			}
		case rd, ok := <-r.link.Readings():
			if !ok {
				return errors.New("telemetry link closed")
			}
			lastSeen = time.Now()
			r.latest.Set(rd)
			for _, o := range outs {
				if err := o.Publish(rd); err != nil {
					r.log.WithError(err).Warn("publish failed")
				}
			}
		}
	}
}
