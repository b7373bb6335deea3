package core

import "sync/atomic"

// Timeout is returned by MeasureDistance when no echo arrives within the
// configured window.
const Timeout = -1

// Ranger measures distance with an acoustic burst and the analog comparator.
// It borrows the shared timer and converter for the duration of a
// measurement and hands them back to whatever mode was active before.
type Ranger struct {
	p   *Peripherals
	enc *Encoder
	cfg *Config

	pulses uint32 // incremented by HandleCompare
}

// rangingSession is the state of one measurement.
type rangingSession struct {
	lease   lease
	elapsed uint32
}

// HandleCompare is the timer compare interrupt handler active during the
// burst. It only counts carrier periods.
func (r *Ranger) HandleCompare() {
	atomic.AddUint32(&r.pulses, 1)
}

// MeasureDistance emits a burst, waits for the echo and returns the
// distance in centimetres, or Timeout. The peripherals are restored on both
// outcomes; if tick counting was enabled before the call, capture is
// re-initialised, which resets the tick counters.
func (r *Ranger) MeasureDistance() int {
	rc := r.cfg.Ranging
	hw := r.p.hw

	var s rangingSession
	s.lease = r.p.acquire(ModeRanging, func(m *Masked) {
		atomic.StoreUint32(&r.pulses, 0)
		hw.Timer.StartPulseTrain(rc.CarrierTop)
		r.p.disableConverter(m)
		hw.Comparator.AttachEcho()
	})
	defer s.lease.release(r.teardown, r.enc.Init)
	RecordTiming(EvtRangingStart, ModeRanging, boolValue(s.lease.prior.autoencode), 0)

	r.burst()

	critical(func(m *Masked) {
		hw.Timer.FreeRun(rc.CarrierTop)
	})

	if !r.listen(&s) {
		RecordTiming(EvtTimeout, ModeRanging, s.elapsed, 0)
		return Timeout
	}
	cm := Distance(s.elapsed, rc)
	RecordTiming(EvtEcho, ModeRanging, s.elapsed, uint32(cm))
	return cm
}

// burst shapes the outgoing pulse train by sliding the compare value down
// one step per counted period until BurstPulses periods have elapsed.
func (r *Ranger) burst() {
	rc := r.cfg.Ranging
	n := uint32(rc.BurstPulses)
	base := uint32(rc.CarrierTop) + n/2
	for {
		count := atomic.LoadUint32(&r.pulses)
		if count >= n {
			break
		}
		r.p.hw.Timer.SetCompare(uint8(base - count))
	}
	RecordTiming(EvtBurstDone, ModeRanging, atomic.LoadUint32(&r.pulses), 0)
}

// listen polls the comparator once per quantum. It is the only wait in the
// sensing core with a timeout. Any edge latched during the burst is
// discarded first so ringing is not taken for an echo.
func (r *Ranger) listen(s *rangingSession) bool {
	rc := r.cfg.Ranging
	cmp := r.p.hw.Comparator
	clk := r.p.hw.Clock

	cmp.ClearEdge()
	for {
		clk.Delay(rc.ListenQuantum)
		s.elapsed++
		if cmp.EdgeDetected() {
			cmp.ClearEdge()
			return true
		}
		if s.elapsed > rc.TimeoutTicks {
			return false
		}
	}
}

func (r *Ranger) teardown(_ *Masked) {
	r.p.hw.Timer.RestoreCarrier()
	r.p.hw.Comparator.Detach()
}

// Distance converts listen iterations to centimetres using integer
// arithmetic only.
func Distance(elapsed uint32, rc Ranging) int {
	us := int64(elapsed) * 1000 / int64(rc.LoopRate)
	return int(int64(rc.SoundSpeed) * us / 10000 / 2)
}
