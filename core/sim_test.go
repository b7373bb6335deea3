package core

import (
	"testing"
	"time"
)

// simBoard is a deterministic stand-in for the robot peripherals. Conversions
// complete instantly, the timer advances one carrier period per compare
// update, and the comparator latches an echo after a set number of listen
// delays.
type simBoard struct {
	t *testing.T

	// converter
	conv      ConverterState
	applied   int
	done      bool
	result    uint16
	samples   map[Channel][]uint16
	fallback  map[Channel]uint16
	unmasked  int
	converted []Channel
	started   []ConverterState

	// timer
	timerMode string
	compares  []uint8
	ranger    *Ranger

	// comparator
	attached     bool
	edge         bool
	echoAt       uint32 // listen delays after AttachEcho; 0 means never
	ringing      bool   // latch an edge as soon as the echo line is attached
	attachDelays uint32

	// indicators
	odometryLED bool
	backLEDs    [2]bool

	// clock
	elapsed time.Duration
	delays  uint32
}

func newSimBoard(t *testing.T) *simBoard {
	return &simBoard{
		t:         t,
		samples:   make(map[Channel][]uint16),
		fallback:  make(map[Channel]uint16),
		timerMode: "carrier",
		backLEDs:  [2]bool{true, true},
	}
}

func (b *simBoard) hardware() Hardware {
	return Hardware{Converter: b, Timer: b, Comparator: b, Indicators: b, Clock: b}
}

// newSimSensing builds a Sensing on a fresh board with the default config.
func newSimSensing(t *testing.T) (*Sensing, *simBoard) {
	t.Helper()
	ClearTimingRing()
	b := newSimBoard(t)
	s, err := NewSensing(b.hardware(), DefaultConfig())
	if err != nil {
		t.Fatalf("NewSensing failed: %v", err)
	}
	b.ranger = s.Ranger
	return s, b
}

// queue appends samples returned by successive conversions of ch.
func (b *simBoard) queue(ch Channel, values ...uint16) {
	b.samples[ch] = append(b.samples[ch], values...)
}

func (b *simBoard) next(ch Channel) uint16 {
	if q := b.samples[ch]; len(q) > 0 {
		b.samples[ch] = q[1:]
		return q[0]
	}
	return b.fallback[ch]
}

// fireConversion completes one free-running conversion and runs the
// conversion-complete handler, as the hardware would.
func (b *simBoard) fireConversion(e *Encoder) {
	if b.conv.Trigger != TriggerFreeRunning {
		b.t.Fatalf("conversion interrupt fired while converter is %+v", b.conv)
	}
	b.result = b.next(b.conv.Channel)
	b.converted = append(b.converted, b.conv.Channel)
	e.HandleConversion()
}

func (b *simBoard) checkMasked() {
	if !interruptsMasked() {
		b.unmasked++
	}
}

// ConverterDriver

func (b *simBoard) Apply(st ConverterState) {
	b.checkMasked()
	b.conv = st
	b.applied++
}

func (b *simBoard) Disable() {
	b.checkMasked()
	b.conv.Trigger = TriggerOff
	b.applied++
}

func (b *simBoard) Start() {
	if b.conv.Trigger != TriggerSingle {
		b.t.Fatalf("single conversion started while converter is %+v", b.conv)
	}
	b.result = b.next(b.conv.Channel)
	b.converted = append(b.converted, b.conv.Channel)
	b.started = append(b.started, b.conv)
	b.done = true
}

func (b *simBoard) Done() bool     { return b.done }
func (b *simBoard) Clear()         { b.done = false }
func (b *simBoard) Result() uint16 { return b.result }

// TimerDriver

func (b *simBoard) StartPulseTrain(top uint8) {
	b.timerMode = "pulse"
	b.compares = b.compares[:0]
}

func (b *simBoard) SetCompare(v uint8) {
	if b.timerMode != "pulse" {
		b.t.Fatalf("SetCompare in timer mode %q", b.timerMode)
	}
	b.compares = append(b.compares, v)
	b.ranger.HandleCompare()
}

func (b *simBoard) FreeRun(top uint8) { b.timerMode = "free" }
func (b *simBoard) RestoreCarrier()   { b.timerMode = "carrier" }

// ComparatorDriver

func (b *simBoard) AttachEcho() {
	b.attached = true
	b.attachDelays = b.delays
	b.edge = b.ringing
}

func (b *simBoard) Detach() {
	b.attached = false
	b.edge = false
}

func (b *simBoard) EdgeDetected() bool { return b.edge }
func (b *simBoard) ClearEdge()         { b.edge = false }

// IndicatorDriver

func (b *simBoard) OdometryLED(on bool) { b.odometryLED = on }

func (b *simBoard) BackLEDs(left, right bool) { b.backLEDs = [2]bool{left, right} }

// Clock

func (b *simBoard) Delay(d time.Duration) {
	b.elapsed += d
	b.delays++
	if b.attached && b.echoAt > 0 && b.delays-b.attachDelays == b.echoAt {
		b.edge = true
	}
}
