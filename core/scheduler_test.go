package core

import "testing"

func recordingTimer(wake uint32, name string, log *[]string, result uint8) *Timer {
	return &Timer{
		WakeTime: wake,
		Handler: func(t *Timer) uint8 {
			*log = append(*log, name)
			t.WakeTime += 10
			return result
		},
	}
}

func TestSchedulerOrder(t *testing.T) {
	var sched Scheduler
	var log []string

	sched.Schedule(recordingTimer(30, "c", &log, SF_DONE))
	sched.Schedule(recordingTimer(10, "a", &log, SF_DONE))
	sched.Schedule(recordingTimer(20, "b1", &log, SF_DONE))
	sched.Schedule(recordingTimer(20, "b2", &log, SF_DONE))

	if ran := sched.Dispatch(5); ran != 0 {
		t.Errorf("Expected nothing due at 5, ran %d", ran)
	}
	if ran := sched.Dispatch(25); ran != 3 {
		t.Errorf("Expected 3 timers due at 25, ran %d", ran)
	}
	if ran := sched.Dispatch(30); ran != 1 {
		t.Errorf("Expected 1 timer due at 30, ran %d", ran)
	}

	want := []string{"a", "b1", "b2", "c"}
	for i := range want {
		if i >= len(log) || log[i] != want[i] {
			t.Fatalf("Expected order %v, got %v", want, log)
		}
	}
}

func TestSchedulerReschedule(t *testing.T) {
	var sched Scheduler
	var log []string

	sched.Schedule(recordingTimer(0, "tick", &log, SF_RESCHEDULE))

	for now := uint32(0); now <= 30; now += 5 {
		sched.Dispatch(now)
	}
	if len(log) != 4 {
		t.Errorf("Expected 4 runs at 0, 10, 20 and 30, got %d", len(log))
	}
}

func TestSchedulerCancel(t *testing.T) {
	var sched Scheduler
	var log []string

	keep := recordingTimer(10, "keep", &log, SF_DONE)
	drop := recordingTimer(5, "drop", &log, SF_DONE)
	sched.Schedule(keep)
	sched.Schedule(drop)
	sched.Cancel(drop)
	sched.Cancel(drop) // not queued any more

	sched.Dispatch(100)
	if len(log) != 1 || log[0] != "keep" {
		t.Errorf("Expected only keep to run, got %v", log)
	}
}

func TestSchedulerWrapAround(t *testing.T) {
	var sched Scheduler
	var log []string

	sched.Schedule(recordingTimer(5, "after", &log, SF_DONE))
	sched.Schedule(recordingTimer(0xFFFFFFF0, "before", &log, SF_DONE))

	if ran := sched.Dispatch(0xFFFFFFF8); ran != 1 {
		t.Errorf("Expected 1 timer due before the wrap, ran %d", ran)
	}
	if ran := sched.Dispatch(5); ran != 1 {
		t.Errorf("Expected 1 timer due after the wrap, ran %d", ran)
	}
	if len(log) != 2 || log[0] != "before" || log[1] != "after" {
		t.Errorf("Expected [before after], got %v", log)
	}
}

func TestTimerConversions(t *testing.T) {
	if TimerFromMS(500) != 500 {
		t.Errorf("Expected 500 ticks, got %d", TimerFromMS(500))
	}
	if TimerToMS(TimerFromMS(1234)) != 1234 {
		t.Error("Expected ms round trip")
	}

	SetTime(1000)
	TimerInit()
	SetTime(1750)
	if GetUptime() != 750 {
		t.Errorf("Expected uptime 750, got %d", GetUptime())
	}
}
