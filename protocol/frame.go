package protocol

import "errors"

// ErrFrameTooLong is returned when a payload does not fit one frame.
var ErrFrameTooLong = errors.New("frame exceeds maximum length")

// EncodeFrame writes one framed message: header, payload, CRC and sync.
func EncodeFrame(output OutputBuffer, seq uint8, payload []byte) error {
	msgLen := MessageHeaderSize + len(payload) + MessageTrailerSize
	if msgLen > MessageLengthMax {
		return ErrFrameTooLong
	}

	start := output.CurPosition()
	output.Output([]byte{uint8(msgLen), MessageDest | (seq & MessageSeqMask)})
	output.Output(payload)

	crc := CRC16(output.DataSince(start))
	output.Output([]byte{uint8(crc >> 8), uint8(crc), MessageValueSync})
	return nil
}

// EncodeText writes a plain text line terminated by a sync byte, for debug
// output sharing the telemetry link. A receiver drops it as one bad frame
// and is back in sync for the next one. Lines are cut at MessageLengthMax
// and sync bytes inside the line are replaced.
func EncodeText(output OutputBuffer, line string) {
	if len(line) > MessageLengthMax {
		line = line[:MessageLengthMax]
	}
	var b [1]byte
	for i := 0; i < len(line); i++ {
		b[0] = line[i]
		if b[0] == MessageValueSync {
			b[0] = '?'
		}
		output.Output(b[:])
	}
	output.Output([]byte{'\n', MessageValueSync})
}

// Frame is one validated message.
type Frame struct {
	Sequence uint8
	Payload  []byte
}

// FrameDecoder reassembles frames from a byte stream. After any framing or
// CRC error it drops input up to the next sync byte.
type FrameDecoder struct {
	rx      RxBuffer
	synced  bool
	dropped uint32
}

// NewFrameDecoder returns a decoder that starts out synchronized.
func NewFrameDecoder() *FrameDecoder {
	return &FrameDecoder{synced: true}
}

// Feed buffers received bytes and returns how many were accepted. Callers
// must drain frames with Next before feeding more once the buffer is full.
func (d *FrameDecoder) Feed(data []byte) int {
	return d.rx.Write(data)
}

// Dropped returns the number of frames discarded for framing or CRC errors.
func (d *FrameDecoder) Dropped() uint32 {
	return d.dropped
}

// Next returns the next complete frame, or false when more input is needed.
// The returned payload is a copy and stays valid after further calls.
func (d *FrameDecoder) Next() (Frame, bool) {
	for {
		data := d.rx.Data()
		if len(data) == 0 {
			return Frame{}, false
		}

		if !d.synced {
			pos := -1
			for i, b := range data {
				if b == MessageValueSync {
					pos = i
					break
				}
			}
			if pos < 0 {
				d.rx.Pop(len(data))
				return Frame{}, false
			}
			d.rx.Pop(pos + 1)
			d.synced = true
			continue
		}

		if data[0] == MessageValueSync {
			d.rx.Pop(1)
			continue
		}
		if len(data) < MessageLengthMin {
			return Frame{}, false
		}

		msgLen := int(data[MessagePositionLen])
		seq := data[MessagePositionSeq]
		if msgLen < MessageLengthMin || msgLen > MessageLengthMax || seq&^MessageSeqMask != MessageDest {
			d.resync()
			continue
		}
		if len(data) < msgLen {
			return Frame{}, false
		}
		if data[msgLen-MessageTrailerSync] != MessageValueSync {
			d.resync()
			continue
		}
		frameCRC := uint16(data[msgLen-MessageTrailerCRC])<<8 | uint16(data[msgLen-MessageTrailerCRC+1])
		if frameCRC != CRC16(data[:msgLen-MessageTrailerSize]) {
			d.resync()
			continue
		}

		payload := make([]byte, msgLen-MessageLengthMin)
		copy(payload, data[MessageHeaderSize:msgLen-MessageTrailerSize])
		d.rx.Pop(msgLen)
		return Frame{Sequence: seq & MessageSeqMask, Payload: payload}, true
	}
}

func (d *FrameDecoder) resync() {
	d.dropped++
	d.synced = false
	d.rx.Pop(1)
}
