package protocol

// Command codes for bus messages. These values are agreed with the node
// bootloader firmware and must match it exactly.
const (
	// CmdStart announces a new bootload run with the target firmware version
	CmdStart = 0xF1

	// CmdPageNumber announces the page about to be sent (1-indexed)
	CmdPageNumber = 0xF2

	// CmdPageData carries the bytes of one flash page
	CmdPageData = 0xF3

	// CmdEnd finalizes the run and lets the nodes boot the new firmware
	CmdEnd = 0xF4
)

// Payload sizes per command.
const (
	// StartPayloadSize is the START payload size: version major + minor
	StartPayloadSize = 2

	// PageNumberPayloadSize is the PAGE_NUMBER payload size: one byte
	PageNumberPayloadSize = 1

	// EndPayloadSize is the END payload size: empty
	EndPayloadSize = 0
)

// MaxPageNumber is the highest page number the one-byte PAGE_NUMBER
// payload can carry. Images with more pages cannot be transferred.
const MaxPageNumber = 0xFF
