package core

import "sync/atomic"

// Channel is a converter input.
type Channel uint8

// Converter inputs on the robot board.
const (
	ChannelWheelRight Channel = 0
	ChannelWheelLeft  Channel = 1
	ChannelLineRight  Channel = 2
	ChannelLineLeft   Channel = 3
	ChannelSwitches   Channel = 4
	ChannelBattery    Channel = 5
	ChannelBandgap    Channel = 14 // internal 1.1V bandgap as an input
)

// Reference selects the converter reference voltage.
type Reference uint8

const (
	RefAVCC     Reference = iota // supply with external capacitor
	RefInternal                  // internal 1.1V bandgap
)

// Trigger selects how conversions start.
type Trigger uint8

const (
	TriggerOff         Trigger = iota // converter disabled
	TriggerSingle                     // one conversion per Start
	TriggerFreeRunning                // each completion starts the next
)

// ConverterState is the converter configuration currently in force.
type ConverterState struct {
	Channel   Channel
	Reference Reference
	Trigger   Trigger
}

// standardConverter is the idle configuration set at boot and after ranging.
var standardConverter = ConverterState{
	Channel:   ChannelWheelRight,
	Reference: RefAVCC,
	Trigger:   TriggerSingle,
}

// Mode is the operating mode that currently owns the shared peripherals.
type Mode uint8

const (
	ModeIdle Mode = iota
	ModeCapture
	ModeRanging
)

func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModeCapture:
		return "capture"
	case ModeRanging:
		return "ranging"
	}
	return "unknown"
}

// Wheel indexes the tick counter pair.
type Wheel uint8

const (
	WheelLeft  Wheel = 0
	WheelRight Wheel = 1
)

// Other returns the opposite wheel.
func (w Wheel) Other() Wheel {
	return w ^ 1
}

// Channel returns the converter input of the wheel sensor.
func (w Wheel) Channel() Channel {
	if w == WheelLeft {
		return ChannelWheelLeft
	}
	return ChannelWheelRight
}

// Peripherals owns the state shared between the foreground and the
// interrupt handlers. The converter configuration and the autoencode flag
// only change through methods that take a *Masked.
type Peripherals struct {
	hw Hardware

	conv       ConverterState
	mode       uint32 // Mode
	autoencode uint32 // 0 or 1
	ticks      [2]int32
}

func newPeripherals(hw Hardware) *Peripherals {
	p := &Peripherals{hw: hw}
	critical(func(m *Masked) {
		p.setConverter(m, standardConverter)
	})
	return p
}

// Converter returns the converter configuration in force.
func (p *Peripherals) Converter() ConverterState {
	var st ConverterState
	critical(func(m *Masked) {
		st = p.conv
	})
	return st
}

func (p *Peripherals) setConverter(_ *Masked, st ConverterState) {
	p.conv = st
	if st.Trigger == TriggerOff {
		p.hw.Converter.Disable()
		return
	}
	p.hw.Converter.Apply(st)
}

func (p *Peripherals) disableConverter(m *Masked) {
	st := p.conv
	st.Trigger = TriggerOff
	p.setConverter(m, st)
}

// AutoEncode reports whether the conversion handler counts ticks.
func (p *Peripherals) AutoEncode() bool {
	return atomic.LoadUint32(&p.autoencode) != 0
}

func (p *Peripherals) setAutoEncode(_ *Masked, on bool) {
	var v uint32
	if on {
		v = 1
	}
	atomic.StoreUint32(&p.autoencode, v)
}

// Mode returns the mode that owns the peripherals.
func (p *Peripherals) Mode() Mode {
	return Mode(atomic.LoadUint32(&p.mode))
}

func (p *Peripherals) setMode(_ *Masked, mode Mode) {
	atomic.StoreUint32(&p.mode, uint32(mode))
}

// Ticks returns the cumulative edge counts. A read may be one tick stale.
func (p *Peripherals) Ticks() (left, right int32) {
	return atomic.LoadInt32(&p.ticks[WheelLeft]), atomic.LoadInt32(&p.ticks[WheelRight])
}

func (p *Peripherals) storeTicks(left, right int32) {
	atomic.StoreInt32(&p.ticks[WheelLeft], left)
	atomic.StoreInt32(&p.ticks[WheelRight], right)
}

func (p *Peripherals) addTicks(w Wheel, delta int32) {
	atomic.AddInt32(&p.ticks[w], delta)
}

// carryTicks adds an earlier count onto the current counters. The
// conversion handler cannot run in between the read and the write.
func (p *Peripherals) carryTicks(left, right int32) {
	critical(func(m *Masked) {
		p.addTicks(WheelLeft, left)
		p.addTicks(WheelRight, right)
	})
}
