//go:build !tinygo

package core

import "sync/atomic"

// State is the saved interrupt mask on regular Go builds.
type State uintptr

// maskDepth counts nested critical sections so host tests can check that
// converter writes happen with interrupts masked.
var maskDepth int32

// disableInterrupts records entry into a masked section (for testing)
func disableInterrupts() State {
	return State(atomic.AddInt32(&maskDepth, 1) - 1)
}

// restoreInterrupts records exit from a masked section (for testing)
func restoreInterrupts(state State) {
	atomic.StoreInt32(&maskDepth, int32(state))
}

// interruptsMasked reports whether a critical section is active.
func interruptsMasked() bool {
	return atomic.LoadInt32(&maskDepth) > 0
}
