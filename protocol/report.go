package protocol

import "errors"

// ErrUnknownMessage is returned for payloads with an unknown message id.
var ErrUnknownMessage = errors.New("unknown message id")

// Message ids carried as the first VLQ of a payload.
const (
	MsgSensorReport = 1
)

// Report is the periodic sensor snapshot sent by the robot.
type Report struct {
	Uptime     uint32    // ms since boot
	Battery    uint16    // 1.1V bandgap against the supply, 10-bit
	Line       [2]uint16 // left, right
	Ticks      [2]int32  // left, right
	DistanceCM int32     // -1 when no echo or ranging disabled
	Mode       uint8     // peripheral owner at report time
}

// EncodeReport appends a sensor report payload.
func EncodeReport(output OutputBuffer, r *Report) {
	EncodeVLQUint(output, MsgSensorReport)
	EncodeVLQUint(output, r.Uptime)
	EncodeVLQUint(output, uint32(r.Battery))
	EncodeVLQUint(output, uint32(r.Line[0]))
	EncodeVLQUint(output, uint32(r.Line[1]))
	EncodeVLQInt(output, r.Ticks[0])
	EncodeVLQInt(output, r.Ticks[1])
	EncodeVLQInt(output, r.DistanceCM)
	EncodeVLQUint(output, uint32(r.Mode))
}

// DecodeReport parses a payload produced by EncodeReport.
func DecodeReport(payload []byte) (Report, error) {
	var r Report
	data := payload

	id, err := DecodeVLQUint(&data)
	if err != nil {
		return r, err
	}
	if id != MsgSensorReport {
		return r, ErrUnknownMessage
	}

	var fields [8]int32
	for i := range fields {
		if fields[i], err = DecodeVLQInt(&data); err != nil {
			return r, err
		}
	}
	r.Uptime = uint32(fields[0])
	r.Battery = uint16(fields[1])
	r.Line = [2]uint16{uint16(fields[2]), uint16(fields[3])}
	r.Ticks = [2]int32{fields[4], fields[5]}
	r.DistanceCM = fields[6]
	r.Mode = uint8(fields[7])
	return r, nil
}
