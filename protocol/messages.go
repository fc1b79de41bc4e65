package protocol

import "fmt"

// StartPayload builds the START message payload announcing the target
// firmware version.
//
// Payload structure:
//
//	[MAJOR][MINOR]
func StartPayload(major, minor byte) []byte {
	return []byte{major, minor}
}

// PageNumberPayload builds the PAGE_NUMBER message payload for the given
// 1-indexed page number.
//
// Payload structure:
//
//	[PAGE]
//
// Returns an error if the page number does not fit the one-byte payload.
func PageNumberPayload(page int) ([]byte, error) {
	if page < 1 || page > MaxPageNumber {
		return nil, fmt.Errorf("page number %d out of range 1-%d", page, MaxPageNumber)
	}
	return []byte{byte(page)}, nil
}

// CommandName returns a human-readable name for a command code.
func CommandName(code byte) string {
	switch code {
	case CmdStart:
		return "START"
	case CmdPageNumber:
		return "PAGE_NUMBER"
	case CmdPageData:
		return "PAGE_DATA"
	case CmdEnd:
		return "END"
	default:
		return fmt.Sprintf("unknown command 0x%02X", code)
	}
}
