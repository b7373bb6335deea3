package core

// Timer represents a scheduled event
type Timer struct {
	WakeTime uint32
	Handler  func(*Timer) uint8
	Next     *Timer
}

// Handler results
const (
	SF_DONE       = 0
	SF_RESCHEDULE = 1
)

// Scheduler runs timers from the foreground loop. Handlers run with
// interrupts enabled, so they may use the sensing engines.
type Scheduler struct {
	list *Timer
}

// Schedule adds a timer in WakeTime order
func (s *Scheduler) Schedule(t *Timer) {
	critical(func(m *Masked) {
		s.insert(t)
	})
}

// Cancel removes a timer if it is queued
func (s *Scheduler) Cancel(t *Timer) {
	critical(func(m *Masked) {
		for pp := &s.list; *pp != nil; pp = &(*pp).Next {
			if *pp == t {
				*pp = t.Next
				t.Next = nil
				return
			}
		}
	})
}

// insert keeps the list sorted by WakeTime; equal times run in insertion order
func (s *Scheduler) insert(t *Timer) {
	if s.list == nil || timerBefore(t.WakeTime, s.list.WakeTime) {
		t.Next = s.list
		s.list = t
		return
	}

	current := s.list
	for current.Next != nil && !timerBefore(t.WakeTime, current.Next.WakeTime) {
		current = current.Next
	}

	t.Next = current.Next
	current.Next = t
}

// pop removes the first timer if it is due at now
func (s *Scheduler) pop(now uint32) *Timer {
	var t *Timer
	critical(func(m *Masked) {
		if s.list != nil && !timerBefore(now, s.list.WakeTime) {
			t = s.list
			s.list = t.Next
			t.Next = nil
		}
	})
	return t
}

// Dispatch runs every timer due at now and returns how many ran
func (s *Scheduler) Dispatch(now uint32) int {
	ran := 0
	for {
		t := s.pop(now)
		if t == nil {
			return ran
		}
		ran++
		if t.Handler(t) == SF_RESCHEDULE {
			s.Schedule(t)
		}
	}
}
