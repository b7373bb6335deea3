// Package core is the sensing core of the robot: it arbitrates one
// converter and one timer between direct sampling, free-running odometry
// capture and ultrasonic ranging.
package core

// Sensing wires the three engines to one peripheral context.
type Sensing struct {
	*Peripherals

	Sampler *Sampler
	Encoder *Encoder
	Ranger  *Ranger

	cfg Config
}

// NewSensing validates cfg, puts the converter in its idle configuration
// and returns the engines. Capture is not started; call Encoder.Init.
func NewSensing(hw Hardware, cfg Config) (*Sensing, error) {
	if err := hw.validate(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Sensing{cfg: cfg}
	s.Peripherals = newPeripherals(hw)
	s.Sampler = &Sampler{p: s.Peripherals, cfg: &s.cfg}
	s.Encoder = &Encoder{p: s.Peripherals, cfg: &s.cfg}
	s.Ranger = &Ranger{p: s.Peripherals, enc: s.Encoder, cfg: &s.cfg}
	return s, nil
}

// Config returns the configuration the engines run with.
func (s *Sensing) Config() Config {
	return s.cfg
}
