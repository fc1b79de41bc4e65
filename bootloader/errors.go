package bootloader

import (
	"errors"
	"fmt"

	"github.com/moffa90/go-busboot/protocol"
)

// Sentinel errors identifying the terminal failure reasons of a run.
var (
	// ErrMissingPageSize indicates the session was constructed without the
	// mandatory page size.
	ErrMissingPageSize = errors.New("busboot: page size not configured")

	// ErrEmptyImage indicates Program was called with no image content.
	ErrEmptyImage = errors.New("busboot: empty firmware image")

	// ErrImageTooLarge indicates the image has more pages than the
	// one-byte page number can address.
	ErrImageTooLarge = errors.New("busboot: image exceeds addressable page count")

	// ErrDevicesNotReady indicates the signal line never reached the
	// expected state within the configured timeout.
	ErrDevicesNotReady = errors.New("busboot: devices not ready")

	// ErrRetryLimit indicates page verification kept failing after the
	// configured number of retry passes.
	ErrRetryLimit = errors.New("busboot: retry limit reached")
)

// TransportError wraps a transport-level failure while sending a message.
// Transport errors are fatal to the run; no single message is retried.
type TransportError struct {
	// Code is the command code of the message that failed
	Code byte

	// Err is the underlying transport error
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("send %s: %v", protocol.CommandName(e.Code), e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
