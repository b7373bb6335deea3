package core

import "strconv"

// DebugWriter is a function type for writing debug messages
type DebugWriter func(string)

// TimingEvent captures an arbitration event for post-mortem analysis
type TimingEvent struct {
	EventType uint8  // Event type code
	Mode      Mode   // Peripheral owner when the event was recorded
	Clock     uint32 // System clock at event
	Value1    uint32 // Context-dependent value
	Value2    uint32 // Context-dependent value
}

// Event type codes
const (
	EvtDirectRead   = 1 // v1=channel v2=value
	EvtEncoderInit  = 2 // capture (re)armed on the left wheel
	EvtRangingStart = 3 // v1=autoencode snapshot
	EvtBurstDone    = 4 // v1=pulses counted
	EvtEcho         = 5 // v1=listen iterations v2=distance cm
	EvtTimeout      = 6 // v1=listen iterations
	EvtRestore      = 7 // v1=prior mode v2=capture resumed
)

const (
	TimingRingSize = 32 // Keep last 32 events for post-mortem
)

var (
	// debugPrintln is the global debug print function (can be set by platform code)
	debugPrintln DebugWriter = func(s string) {} // No-op by default

	// debugEnabled controls whether debug output is active
	debugEnabled bool

	// Timing capture ring buffer (non-blocking, for post-mortem)
	timingRing     [TimingRingSize]TimingEvent
	timingRingHead uint8
	timingEnabled  = true
)

// SetDebugWriter sets the platform-specific debug output function.
// A nil writer silences output.
func SetDebugWriter(writer DebugWriter) {
	if writer == nil {
		writer = func(string) {}
	}
	debugPrintln = writer
}

// SetDebugEnabled enables or disables debug output
func SetDebugEnabled(enabled bool) {
	debugEnabled = enabled
}

// IsDebugEnabled returns whether debug output is enabled
func IsDebugEnabled() bool {
	return debugEnabled
}

// DebugPrintln writes a debug message using the platform-specific writer
func DebugPrintln(msg string) {
	if debugEnabled {
		debugPrintln(msg)
	}
}

// RecordTiming captures an event in the ring buffer. It never blocks and
// never allocates, so the engines call it on every transition.
func RecordTiming(eventType uint8, mode Mode, value1, value2 uint32) {
	if !timingEnabled {
		return
	}
	idx := timingRingHead
	timingRing[idx] = TimingEvent{
		EventType: eventType,
		Mode:      mode,
		Clock:     GetTime(),
		Value1:    value1,
		Value2:    value2,
	}
	timingRingHead = (idx + 1) % TimingRingSize
}

// TimingEvents returns the recorded events from oldest to newest.
func TimingEvents() []TimingEvent {
	out := make([]TimingEvent, 0, TimingRingSize)
	start := timingRingHead
	for i := uint8(0); i < TimingRingSize; i++ {
		evt := timingRing[(start+i)%TimingRingSize]
		if evt.EventType == 0 {
			continue
		}
		out = append(out, evt)
	}
	return out
}

func eventName(t uint8) string {
	switch t {
	case EvtDirectRead:
		return "DIRECT_READ"
	case EvtEncoderInit:
		return "ENCODER_INIT"
	case EvtRangingStart:
		return "RANGING_START"
	case EvtBurstDone:
		return "BURST_DONE"
	case EvtEcho:
		return "ECHO"
	case EvtTimeout:
		return "TIMEOUT!"
	case EvtRestore:
		return "RESTORE"
	}
	return "UNKNOWN"
}

// DumpTimingRing writes the timing ring through the debug writer
// regardless of SetDebugEnabled. Call it after an unexpected result.
func DumpTimingRing() {
	debugPrintln("[TIMING] === Timing Ring Dump ===")
	for _, evt := range TimingEvents() {
		debugPrintln("[TIMING] " + eventName(evt.EventType) +
			" mode=" + evt.Mode.String() +
			" clock=" + strconv.FormatUint(uint64(evt.Clock), 10) +
			" v1=" + strconv.FormatUint(uint64(evt.Value1), 10) +
			" v2=" + strconv.FormatUint(uint64(evt.Value2), 10))
	}
	debugPrintln("[TIMING] === End Dump ===")
}

// ClearTimingRing clears the timing buffer
func ClearTimingRing() {
	for i := range timingRing {
		timingRing[i] = TimingEvent{}
	}
	timingRingHead = 0
}

func boolValue(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}
