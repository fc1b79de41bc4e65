// Package protocol defines the application-level bootload protocol spoken
// over the multidrop bus.
//
// # Protocol Overview
//
// A bootload run is a sequence of typed messages:
//
//	START        [MAJOR][MINOR]   announce run and target firmware version
//	PAGE_NUMBER  [PAGE]           1-indexed number of the page that follows
//	PAGE_DATA    [DATA...]        one flash page of image data
//	END          (empty)          finalize the run
//
// Each message is identified by a one-byte command code. Message framing,
// byte-level checksumming and node addressing are the responsibility of the
// underlying transport (see the serialbus package for the serial rendering);
// this package only builds command payloads.
//
// Acknowledgment is not carried in the protocol at all: the nodes share a
// single hardware signal line that the host polls between pages. See the
// bootloader package.
//
// # Usage
//
//	payload := protocol.StartPayload(1, 4)
//	payload, err := protocol.PageNumberPayload(12)
package protocol
