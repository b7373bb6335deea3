package core

import "testing"

func TestDistance(t *testing.T) {
	rc := DefaultConfig().Ranging

	testCases := []struct {
		elapsed uint32
		want    int
	}{
		{0, 0},
		{72, 17},
		{100, 23},
		{3500, 836},
	}

	for _, tc := range testCases {
		if got := Distance(tc.elapsed, rc); got != tc.want {
			t.Errorf("Distance(%d): expected %d, got %d", tc.elapsed, tc.want, got)
		}
	}
}

// checkRestored verifies the peripherals are back in their idle state
// after a measurement taken with capture stopped.
func checkRestored(t *testing.T, s *Sensing, b *simBoard) {
	t.Helper()
	if b.timerMode != "carrier" {
		t.Errorf("Expected timer back on the carrier, got %q", b.timerMode)
	}
	if b.attached {
		t.Error("Expected comparator detached")
	}
	if b.conv != standardConverter {
		t.Errorf("Expected standard converter, got %+v", b.conv)
	}
	if s.Mode() != ModeIdle {
		t.Errorf("Expected mode idle, got %s", s.Mode())
	}
	if s.AutoEncode() {
		t.Error("Expected autoencode disabled")
	}
}

func TestMeasureDistanceEcho(t *testing.T) {
	s, b := newSimSensing(t)
	b.echoAt = 100

	if got := s.Ranger.MeasureDistance(); got != 23 {
		t.Errorf("Expected 23 cm, got %d", got)
	}
	if b.delays != 100 {
		t.Errorf("Expected 100 listen iterations, got %d", b.delays)
	}
	checkRestored(t, s, b)
	if b.unmasked != 0 {
		t.Errorf("%d converter writes happened with interrupts enabled", b.unmasked)
	}
}

func TestMeasureDistanceBurstShape(t *testing.T) {
	s, b := newSimSensing(t)
	b.echoAt = 10

	s.Ranger.MeasureDistance()

	if len(b.compares) != 20 {
		t.Fatalf("Expected 20 compare updates, got %d", len(b.compares))
	}
	for i, v := range b.compares {
		if want := uint8(110 - i); v != want {
			t.Errorf("Compare %d: expected %d, got %d", i, want, v)
		}
	}
}

func TestMeasureDistanceTimeout(t *testing.T) {
	s, b := newSimSensing(t)

	if got := s.Ranger.MeasureDistance(); got != Timeout {
		t.Errorf("Expected Timeout, got %d", got)
	}
	if b.delays != 3501 {
		t.Errorf("Expected 3501 listen iterations, got %d", b.delays)
	}
	checkRestored(t, s, b)
}

func TestMeasureDistanceIgnoresRinging(t *testing.T) {
	s, b := newSimSensing(t)
	b.ringing = true

	if got := s.Ranger.MeasureDistance(); got != Timeout {
		t.Errorf("Expected an edge latched during the burst to be discarded, got %d", got)
	}
}

func TestMeasureDistanceResumesCaptureAfterTimeout(t *testing.T) {
	s, b := newSimSensing(t)
	s.Encoder.Init()
	s.Encoder.Set(40, 41)

	if got := s.Ranger.MeasureDistance(); got != Timeout {
		t.Fatalf("Expected Timeout, got %d", got)
	}

	if s.Mode() != ModeCapture {
		t.Errorf("Expected mode capture, got %s", s.Mode())
	}
	if !s.AutoEncode() {
		t.Error("Expected autoencode enabled")
	}
	want := ConverterState{Channel: ChannelWheelLeft, Reference: RefAVCC, Trigger: TriggerFreeRunning}
	if b.conv != want {
		t.Errorf("Expected converter %+v, got %+v", want, b.conv)
	}
	left, right := s.Encoder.Ticks()
	if left != 0 || right != 0 {
		t.Errorf("Expected counters reset by capture init, got (%d, %d)", left, right)
	}

	// Counting works again.
	b.queue(ChannelWheelLeft, 100, 900)
	b.queue(ChannelWheelRight, 100, 100)
	for i := 0; i < 4; i++ {
		b.fireConversion(s.Encoder)
	}
	left, right = s.Encoder.Ticks()
	if left != 1 || right != 0 {
		t.Errorf("Expected (1, 0) after resuming, got (%d, %d)", left, right)
	}
}

func TestMeasureDistanceLeavesStoppedCaptureIdle(t *testing.T) {
	s, b := newSimSensing(t)
	s.Encoder.Init()
	s.Encoder.Stop()
	b.echoAt = 50

	s.Ranger.MeasureDistance()

	checkRestored(t, s, b)
}

func TestMeasureDistanceEvents(t *testing.T) {
	s, b := newSimSensing(t)
	b.echoAt = 100

	s.Ranger.MeasureDistance()

	var types []uint8
	for _, evt := range TimingEvents() {
		types = append(types, evt.EventType)
	}
	want := []uint8{EvtRangingStart, EvtBurstDone, EvtEcho, EvtRestore}
	if len(types) != len(want) {
		t.Fatalf("Expected events %v, got %v", want, types)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Errorf("Event %d: expected %s, got %s", i, eventName(want[i]), eventName(types[i]))
		}
	}
}
