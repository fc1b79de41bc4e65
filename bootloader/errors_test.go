package bootloader

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/moffa90/go-busboot/protocol"
)

func TestTransportError(t *testing.T) {
	inner := errors.New("port closed")
	err := &TransportError{Code: protocol.CmdPageData, Err: inner}

	msg := err.Error()
	if !strings.Contains(msg, "PAGE_DATA") {
		t.Errorf("error message should name the command, got: %s", msg)
	}
	if !strings.Contains(msg, "port closed") {
		t.Errorf("error message should include the cause, got: %s", msg)
	}

	if !errors.Is(err, inner) {
		t.Error("TransportError should unwrap to the underlying error")
	}
}

func TestTransportErrorAs(t *testing.T) {
	err := fmt.Errorf("run failed: %w", &TransportError{Code: protocol.CmdStart, Err: errors.New("x")})

	var terr *TransportError
	if !errors.As(err, &terr) {
		t.Fatal("errors.As should find the TransportError through wrapping")
	}
	if terr.Code != protocol.CmdStart {
		t.Errorf("Code = 0x%02X, want 0x%02X", terr.Code, protocol.CmdStart)
	}
}

func TestSentinelErrorsAreDistinct(t *testing.T) {
	sentinels := []error{
		ErrMissingPageSize,
		ErrEmptyImage,
		ErrImageTooLarge,
		ErrDevicesNotReady,
		ErrRetryLimit,
	}

	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j && errors.Is(a, b) {
				t.Errorf("sentinel %v matches %v, reasons must be distinguishable", a, b)
			}
		}
	}
}
