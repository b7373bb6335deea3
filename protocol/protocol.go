// Package protocol implements the telemetry link between the robot and the
// host: VLQ integers, CRC16 and sync-byte framing.
package protocol

// Version is the telemetry protocol version reported by the host tool.
const Version = "0.1.0"

// Frame layout: [len][seq][payload...][crc hi][crc lo][sync]
const (
	MessageHeaderSize  = 2
	MessageTrailerSize = 3
	MessageLengthMin   = MessageHeaderSize + MessageTrailerSize
	MessageLengthMax   = 64
	MessagePositionLen = 0
	MessagePositionSeq = 1
	MessageTrailerCRC  = 3
	MessageTrailerSync = 1
	MessageValueSync   = 0x7E
	MessageDest        = 0x10

	MessageMax = 128 // scratch buffer size, room for one frame plus slack

	// Sequence numbers wrap in the low nibble; the high nibble is MessageDest.
	MessageSeqMask = 0x0F
)
