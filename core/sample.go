package core

import "time"

// Sampler performs blocking single conversions for the battery, line and
// wheel sensors.
//
// It must not be called while a ranging measurement is in progress; the
// converter is powered down then and the read would never complete.
type Sampler struct {
	p   *Peripherals
	cfg *Config
}

// ReadChannel converts one channel and returns the 10-bit result.
func (s *Sampler) ReadChannel(ch Channel, ref Reference) uint16 {
	var out [1]uint16
	s.read([2]Channel{ch}, 1, ref, 0, out[:])
	return out[0]
}

// Battery measures the supply, which on the robot is the battery pack. It
// converts the 1.1V bandgap against AVCC, so the result falls as the
// battery rises: Vcc = 1.1V * 1024 / result.
func (s *Sampler) Battery() uint16 {
	var out [1]uint16
	s.read([2]Channel{ChannelBandgap}, 1, RefAVCC, s.cfg.BandgapSettle, out[:])
	return out[0]
}

// LineData returns the left and right line sensors. The line LED state is
// left to the caller.
func (s *Sampler) LineData() [2]uint16 {
	var out [2]uint16
	s.read([2]Channel{ChannelLineLeft, ChannelLineRight}, 2, RefAVCC, s.cfg.LineSettle, out[:])
	return out
}

// OdometryData returns the raw left and right wheel sensors. The odometry
// LED is switched on and the back LEDs off, since they share pins with the
// wheel sensors; callers that need the back LEDs must turn them on again.
func (s *Sampler) OdometryData() [2]uint16 {
	ind := s.p.hw.Indicators
	ind.BackLEDs(false, false)
	ind.OdometryLED(true)

	var out [2]uint16
	s.read([2]Channel{ChannelWheelLeft, ChannelWheelRight}, 2, RefAVCC, 0, out[:])
	return out
}

// read converts n channels in order. The autoencode flag and the full
// converter configuration are restored afterwards, so capture continues on
// the wheel it was targeting.
func (s *Sampler) read(chs [2]Channel, n int, ref Reference, settle time.Duration, out []uint16) {
	var (
		saved bool
		prior ConverterState
	)
	critical(func(m *Masked) {
		saved = s.p.AutoEncode()
		prior = s.p.conv
		s.p.setAutoEncode(m, false)
	})

	for i := 0; i < n; i++ {
		ch := chs[i]
		critical(func(m *Masked) {
			s.p.setConverter(m, ConverterState{Channel: ch, Reference: ref, Trigger: TriggerSingle})
		})
		if settle > 0 {
			s.p.hw.Clock.Delay(settle)
		}
		out[i] = s.convert()
		RecordTiming(EvtDirectRead, s.p.Mode(), uint32(ch), uint32(out[i]))
	}

	critical(func(m *Masked) {
		s.p.setConverter(m, prior)
		s.p.setAutoEncode(m, saved)
	})
}

func (s *Sampler) convert() uint16 {
	c := s.p.hw.Converter
	c.Start()
	spin(c.Done)
	c.Clear()
	return c.Result() & 0x3FF
}
