package core

// Shade is the light/dark classification of a wheel sensor sample.
type Shade uint8

const (
	ShadeUnknown Shade = iota // no classified sample since Init
	ShadeDark
	ShadeLight
)

// Classify is the edge detector run on every conversion. A sample above
// h.Light is light, below h.Dark is dark, anything between keeps the prior
// classification. It returns the new classification and 1 when it differs
// from a known prior classification. The first classified sample after Init
// only establishes the baseline.
func Classify(prior Shade, sample uint16, h Hysteresis) (Shade, int32) {
	var now Shade
	switch {
	case sample > h.Light:
		now = ShadeLight
	case sample < h.Dark:
		now = ShadeDark
	default:
		return prior, 0
	}
	if prior == ShadeUnknown || prior == now {
		return now, 0
	}
	return now, 1
}

// Encoder counts light/dark transitions of the two wheel encoder discs from
// the conversion-complete interrupt, alternating the converter between the
// wheels in free-running mode.
//
//	idle --Init--> capturing(left) <--interrupt--> capturing(right)
//
// Start and Stop gate counting without leaving the capturing state.
type Encoder struct {
	p   *Peripherals
	cfg *Config

	// Interrupt-owned. Written by Init only inside a masked section.
	target Wheel
	shade  [2]Shade
}

// Init arms free-running capture on the left wheel, enables counting and
// resets both counters. The back LEDs go off because the odometry LED
// shares their pins.
func (e *Encoder) Init() {
	critical(func(m *Masked) {
		ind := e.p.hw.Indicators
		ind.BackLEDs(false, false)
		ind.OdometryLED(true)

		e.target = WheelLeft
		e.shade = [2]Shade{}
		e.p.setConverter(m, ConverterState{
			Channel:   ChannelWheelLeft,
			Reference: RefAVCC,
			Trigger:   TriggerFreeRunning,
		})
		e.p.setMode(m, ModeCapture)
		e.p.setAutoEncode(m, true)
	})
	e.Set(0, 0)
	RecordTiming(EvtEncoderInit, ModeCapture, 0, 0)
}

// Start resumes counting. The converter configuration is not touched.
func (e *Encoder) Start() {
	critical(func(m *Masked) {
		e.p.setAutoEncode(m, true)
	})
}

// Stop pauses counting. Conversions keep running but are ignored.
func (e *Encoder) Stop() {
	critical(func(m *Masked) {
		e.p.setAutoEncode(m, false)
	})
}

// Set overwrites the tick counters, e.g. to pre-seed a target distance.
func (e *Encoder) Set(left, right int32) {
	e.p.storeTicks(left, right)
}

// Ticks returns the tick counters.
func (e *Encoder) Ticks() (left, right int32) {
	return e.p.Ticks()
}

// HandleConversion is the conversion-complete interrupt handler. With
// counting disabled it returns before touching the counters or the
// converter.
func (e *Encoder) HandleConversion() {
	if !e.p.AutoEncode() {
		return
	}
	critical(func(m *Masked) {
		w := e.target
		sample := e.p.hw.Converter.Result() & 0x3FF
		next, delta := Classify(e.shade[w], sample, e.cfg.Odometry.For(w))
		e.shade[w] = next
		if delta != 0 {
			e.p.addTicks(w, delta)
		}

		e.target = w.Other()
		e.p.setConverter(m, ConverterState{
			Channel:   e.target.Channel(),
			Reference: RefAVCC,
			Trigger:   TriggerFreeRunning,
		})
	})
}
