package core

import "sync/atomic"

// System ticks are milliseconds since boot. Targets advance them from
// their own time base with SetTime.
const (
	TimerFreq = 1000 // 1kHz system tick
)

var (
	systemTicks uint32
	bootTime    uint32
)

// GetTime returns the current system time in timer ticks
func GetTime() uint32 {
	return atomic.LoadUint32(&systemTicks)
}

// SetTime sets the current system time (for testing/hardware integration).
// The store goes through sync/atomic so 8-bit targets never see a torn value.
func SetTime(ticks uint32) {
	atomic.StoreUint32(&systemTicks, ticks)
}

// GetUptime returns ticks elapsed since TimerInit
func GetUptime() uint32 {
	return GetTime() - bootTime
}

// TimerFromMS converts milliseconds to timer ticks
func TimerFromMS(ms uint32) uint32 {
	return ms * TimerFreq / 1000
}

// TimerToMS converts timer ticks to milliseconds
func TimerToMS(ticks uint32) uint32 {
	return ticks * 1000 / TimerFreq
}

// TimerInit marks the boot time used by GetUptime
func TimerInit() {
	bootTime = GetTime()
}

// timerBefore reports whether a is earlier than b, tolerating wrap-around.
func timerBefore(a, b uint32) bool {
	return int32(a-b) < 0
}
