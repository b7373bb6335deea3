package core

// Masked is proof that global interrupts are disabled. Writers of shared
// converter state and the autoencode flag take one, and the only way to get
// one is critical.
type Masked struct {
	state State
}

// critical runs fn with interrupts disabled and restores the previous mask
// on return. Nested sections restore to the still-masked outer state, so the
// interrupt handlers may use it too.
func critical(fn func(m *Masked)) {
	m := Masked{state: disableInterrupts()}
	defer restoreInterrupts(m.state)
	fn(&m)
}

// spin busy-waits until done reports true. There is no timeout: it is only
// used for waits bounded by hardware (conversion complete, burst length).
func spin(done func() bool) {
	for !done() {
	}
}
