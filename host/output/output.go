package output

import "robosense/host/telemetry"

type Output interface {
	Publish(telemetry.Reading) error
	Close() error
}

// helper constructors are in subpackages
