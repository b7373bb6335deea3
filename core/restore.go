package core

// modeSnapshot is what an engine records before seizing the shared
// converter and timer.
type modeSnapshot struct {
	autoencode bool
	mode       Mode
}

// lease is a temporary ownership of the shared peripherals. It must be
// released on every exit path of the engine that acquired it.
type lease struct {
	p     *Peripherals
	prior modeSnapshot
}

// acquire records the current mode, stops tick counting and hands the
// peripherals to mode. take runs in the same masked section and performs
// the engine's own reconfiguration.
func (p *Peripherals) acquire(mode Mode, take func(m *Masked)) lease {
	l := lease{p: p}
	critical(func(m *Masked) {
		l.prior = modeSnapshot{
			autoencode: p.AutoEncode(),
			mode:       p.Mode(),
		}
		p.setAutoEncode(m, false)
		p.setMode(m, mode)
		take(m)
	})
	return l
}

// release undoes the engine's reconfiguration, puts the converter back to
// its standard settings and, when counting was enabled before acquire,
// calls resume to re-arm capture. The free-running setup and the per-wheel
// edge memory do not survive a lease, so resume is a full capture init.
func (l lease) release(undo func(m *Masked), resume func()) {
	p := l.p
	critical(func(m *Masked) {
		undo(m)
		p.setConverter(m, standardConverter)
		p.setMode(m, ModeIdle)
	})
	if l.prior.autoencode {
		resume()
	}
	RecordTiming(EvtRestore, p.Mode(), uint32(l.prior.mode), boolValue(l.prior.autoencode))
}
