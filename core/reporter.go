package core

import (
	"io"
	"strconv"

	"robosense/protocol"
)

// Reporter periodically samples the sensors and writes a framed
// protocol.Report to the telemetry link.
type Reporter struct {
	s     *Sensing
	out   io.Writer
	timer Timer

	seq      uint8
	payload  protocol.ScratchOutput
	frame    protocol.ScratchOutput
	last     protocol.Report
	failures uint32
}

// NewReporter returns a reporter writing frames to out.
func NewReporter(s *Sensing, out io.Writer) *Reporter {
	r := &Reporter{s: s, out: out}
	r.timer.Handler = r.fire
	return r
}

// Start schedules the first report at now.
func (r *Reporter) Start(sched *Scheduler, now uint32) {
	r.timer.WakeTime = now
	sched.Schedule(&r.timer)
}

// Last returns the most recent report.
func (r *Reporter) Last() protocol.Report {
	return r.last
}

// Failures returns how many frames could not be written.
func (r *Reporter) Failures() uint32 {
	return r.failures
}

func (r *Reporter) fire(t *Timer) uint8 {
	r.Collect()
	if err := r.Send(); err != nil {
		r.failures++
		DebugPrintln("[REPORT] write failed: " + err.Error())
	}
	t.WakeTime += TimerFromMS(r.s.cfg.Report.PeriodMS)
	return SF_RESCHEDULE
}

// Collect takes a fresh snapshot of every sensor.
func (r *Reporter) Collect() protocol.Report {
	rep := protocol.Report{
		Uptime:     TimerToMS(GetUptime()),
		Battery:    r.s.Sampler.Battery(),
		Line:       r.s.Sampler.LineData(),
		DistanceCM: Timeout,
	}
	rep.Ticks[0], rep.Ticks[1] = r.s.Ticks()
	if r.s.cfg.Report.Ranging {
		// Ranging re-initialises capture, which zeroes the counters, and
		// edges may already be counted again by the time it returns. Add
		// the earlier odometry on top of them.
		capturing := r.s.AutoEncode()
		rep.DistanceCM = int32(r.s.Ranger.MeasureDistance())
		DebugPrintln("[REPORT] distance=" + strconv.Itoa(int(rep.DistanceCM)))
		if capturing {
			r.s.carryTicks(rep.Ticks[0], rep.Ticks[1])
		}
	}
	rep.Mode = uint8(r.s.Mode())
	r.last = rep
	return rep
}

// Send frames the last collected report and writes it.
func (r *Reporter) Send() error {
	r.payload.Reset()
	protocol.EncodeReport(&r.payload, &r.last)
	if err := r.payload.Err(); err != nil {
		return err
	}

	r.frame.Reset()
	if err := protocol.EncodeFrame(&r.frame, r.seq, r.payload.Result()); err != nil {
		return err
	}
	r.seq = (r.seq + 1) & protocol.MessageSeqMask

	_, err := r.out.Write(r.frame.Result())
	return err
}
