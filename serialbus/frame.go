package serialbus

import "encoding/binary"

// Frame structure constants. The node firmware expects:
//
//	[SOP][CODE][LEN_L][LEN_H][PAYLOAD...][SUM_L][SUM_H][EOP]
const (
	// startOfFrame is the frame start marker
	startOfFrame = 0x01

	// endOfFrame is the frame end marker
	endOfFrame = 0x17

	// frameOverhead is the frame size without payload:
	// SOP(1) + CODE(1) + LEN(2) + SUM(2) + EOP(1)
	frameOverhead = 7
)

// frameChecksum computes the 16-bit checksum over CODE through PAYLOAD.
// Basic summation: sum all bytes, then 2's complement.
func frameChecksum(data []byte) uint16 {
	var sum uint16
	for _, b := range data {
		sum += uint16(b)
	}
	return 1 + (0xFFFF ^ sum)
}

// buildFrame assembles a complete frame for one bus message.
func buildFrame(code byte, payload []byte) []byte {
	frame := make([]byte, 0, frameOverhead+len(payload))

	frame = append(frame, startOfFrame)
	frame = append(frame, code)

	lenBytes := make([]byte, 2)
	binary.LittleEndian.PutUint16(lenBytes, uint16(len(payload)))
	frame = append(frame, lenBytes...)

	frame = append(frame, payload...)

	sumBytes := make([]byte, 2)
	binary.LittleEndian.PutUint16(sumBytes, frameChecksum(frame[1:]))
	frame = append(frame, sumBytes...)

	frame = append(frame, endOfFrame)

	return frame
}
