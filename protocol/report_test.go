package protocol

import "testing"

func TestReportRoundTrip(t *testing.T) {
	want := Report{
		Uptime:     123456,
		Battery:    731,
		Line:       [2]uint16{12, 1023},
		Ticks:      [2]int32{-250, 98765},
		DistanceCM: -1,
		Mode:       1,
	}

	out := NewScratchOutput()
	EncodeReport(out, &want)

	got, err := DecodeReport(out.Result())
	if err != nil {
		t.Fatalf("DecodeReport failed: %v", err)
	}
	if got != want {
		t.Errorf("Expected %+v, got %+v", want, got)
	}
}

func TestDecodeReportErrors(t *testing.T) {
	out := NewScratchOutput()
	EncodeVLQUint(out, 7)
	if _, err := DecodeReport(out.Result()); err != ErrUnknownMessage {
		t.Errorf("Expected ErrUnknownMessage, got %v", err)
	}

	out.Reset()
	EncodeVLQUint(out, MsgSensorReport)
	EncodeVLQUint(out, 10)
	if _, err := DecodeReport(out.Result()); err != ErrBufferTooSmall {
		t.Errorf("Expected ErrBufferTooSmall for a truncated report, got %v", err)
	}
}

func TestReportFitsOneFrame(t *testing.T) {
	worst := Report{
		Uptime:     0xFFFFFFFF,
		Battery:    0xFFFF,
		Line:       [2]uint16{0xFFFF, 0xFFFF},
		Ticks:      [2]int32{-2147483648, 2147483647},
		DistanceCM: 2147483647,
		Mode:       255,
	}

	payload := NewScratchOutput()
	EncodeReport(payload, &worst)
	if err := EncodeFrame(NewScratchOutput(), 0, payload.Result()); err != nil {
		t.Errorf("Expected the largest report to fit one frame, got %v", err)
	}
}
