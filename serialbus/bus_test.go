package serialbus

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"go.bug.st/serial"
)

// fakePort implements serial.Port in memory.
type fakePort struct {
	written  *bytes.Buffer
	writeErr error
	drainErr error
	drains   int
	dsr      bool
	modemErr error
	closed   bool
}

func newFakePort() *fakePort {
	return &fakePort{written: new(bytes.Buffer)}
}

func (p *fakePort) SetMode(mode *serial.Mode) error { return nil }
func (p *fakePort) Read(b []byte) (int, error)      { return 0, nil }

func (p *fakePort) Write(b []byte) (int, error) {
	if p.writeErr != nil {
		return 0, p.writeErr
	}
	return p.written.Write(b)
}

func (p *fakePort) Drain() error {
	p.drains++
	return p.drainErr
}

func (p *fakePort) ResetInputBuffer() error        { return nil }
func (p *fakePort) ResetOutputBuffer() error       { return nil }
func (p *fakePort) SetDTR(dtr bool) error          { return nil }
func (p *fakePort) SetRTS(rts bool) error          { return nil }
func (p *fakePort) SetReadTimeout(d time.Duration) error { return nil }
func (p *fakePort) Break(d time.Duration) error    { return nil }

func (p *fakePort) GetModemStatusBits() (*serial.ModemStatusBits, error) {
	if p.modemErr != nil {
		return nil, p.modemErr
	}
	return &serial.ModemStatusBits{DSR: p.dsr}, nil
}

func (p *fakePort) Close() error {
	p.closed = true
	return nil
}

func TestBuildFrame(t *testing.T) {
	tests := []struct {
		name    string
		code    byte
		payload []byte
		want    []byte
	}{
		{
			name:    "empty payload",
			code:    0xF4,
			payload: nil,
			// sum over F4 00 00 = 0xF4; checksum = 0x10000 - 0xF4 = 0xFF0C
			want: []byte{0x01, 0xF4, 0x00, 0x00, 0x0C, 0xFF, 0x17},
		},
		{
			name:    "one byte payload",
			code:    0xF2,
			payload: []byte{0x03},
			// sum = F2 + 01 + 00 + 03 = 0xF6; checksum = 0xFF0A
			want: []byte{0x01, 0xF2, 0x01, 0x00, 0x03, 0x0A, 0xFF, 0x17},
		},
		{
			name:    "version payload",
			code:    0xF1,
			payload: []byte{0x01, 0x04},
			// sum = F1 + 02 + 00 + 01 + 04 = 0xF8; checksum = 0xFF08
			want: []byte{0x01, 0xF1, 0x02, 0x00, 0x01, 0x04, 0x08, 0xFF, 0x17},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := buildFrame(tt.code, tt.payload)
			if !bytes.Equal(got, tt.want) {
				t.Errorf("buildFrame() = % X, want % X", got, tt.want)
			}
		})
	}
}

func TestFrameChecksum(t *testing.T) {
	// 2's complement: checksum + sum of bytes wraps to zero.
	data := []byte{0xF3, 0x0A, 0x00, 0x01, 0x02, 0x03}
	sum := frameChecksum(data)

	var total uint16
	for _, b := range data {
		total += uint16(b)
	}
	if total+sum != 0 {
		t.Errorf("checksum 0x%04X does not cancel byte sum 0x%04X", sum, total)
	}
}

func TestMessageRoundTrip(t *testing.T) {
	port := newFakePort()
	bus := NewBus(port)

	msg, err := bus.Begin(0xF3, 4)
	if err != nil {
		t.Fatalf("Begin() failed: %v", err)
	}
	if _, err := msg.Write([]byte{0x01, 0x02}); err != nil {
		t.Fatalf("Write() failed: %v", err)
	}
	if _, err := msg.Write([]byte{0x03, 0x04}); err != nil {
		t.Fatalf("Write() failed: %v", err)
	}
	if err := msg.End(); err != nil {
		t.Fatalf("End() failed: %v", err)
	}

	want := buildFrame(0xF3, []byte{0x01, 0x02, 0x03, 0x04})
	if !bytes.Equal(port.written.Bytes(), want) {
		t.Errorf("wrote % X, want % X", port.written.Bytes(), want)
	}
	if port.drains != 1 {
		t.Errorf("port drained %d times, want 1", port.drains)
	}
}

func TestMessageDeclaredLength(t *testing.T) {
	bus := NewBus(newFakePort())

	t.Run("overflow rejected", func(t *testing.T) {
		msg, _ := bus.Begin(0xF3, 2)
		if _, err := msg.Write([]byte{1, 2, 3}); err == nil {
			t.Error("Write() beyond declared length should fail")
		}
	})

	t.Run("short payload rejected at End", func(t *testing.T) {
		msg, _ := bus.Begin(0xF3, 4)
		msg.Write([]byte{1, 2})
		if err := msg.End(); err == nil {
			t.Error("End() with short payload should fail")
		}
	})

	t.Run("negative length rejected", func(t *testing.T) {
		if _, err := bus.Begin(0xF3, -1); err == nil {
			t.Error("Begin() with negative length should fail")
		}
	})
}

func TestMessageEndOnce(t *testing.T) {
	bus := NewBus(newFakePort())

	msg, _ := bus.Begin(0xF4, 0)
	if err := msg.End(); err != nil {
		t.Fatalf("End() failed: %v", err)
	}
	if err := msg.End(); err == nil {
		t.Error("second End() should fail")
	}
	if _, err := msg.Write([]byte{1}); err == nil {
		t.Error("Write() after End() should fail")
	}
}

func TestMessageWriteError(t *testing.T) {
	port := newFakePort()
	port.writeErr = errors.New("unplugged")
	bus := NewBus(port)

	msg, _ := bus.Begin(0xF4, 0)
	if err := msg.End(); !errors.Is(err, port.writeErr) {
		t.Errorf("End() error = %v, want the port write error", err)
	}
}

func TestMessageDrainError(t *testing.T) {
	port := newFakePort()
	port.drainErr = errors.New("drain failed")
	bus := NewBus(port)

	msg, _ := bus.Begin(0xF4, 0)
	if err := msg.End(); !errors.Is(err, port.drainErr) {
		t.Errorf("End() error = %v, want the drain error", err)
	}
}

func TestGetLineState(t *testing.T) {
	port := newFakePort()
	bus := NewBus(port)

	port.dsr = true
	state, err := bus.GetLineState()
	if err != nil {
		t.Fatalf("GetLineState() failed: %v", err)
	}
	if !state.DSR {
		t.Error("DSR = false, want true")
	}

	port.dsr = false
	state, _ = bus.GetLineState()
	if state.DSR {
		t.Error("DSR = true, want false")
	}
}

func TestGetLineStateError(t *testing.T) {
	port := newFakePort()
	port.modemErr = errors.New("ioctl failed")
	bus := NewBus(port)

	if _, err := bus.GetLineState(); !errors.Is(err, port.modemErr) {
		t.Errorf("GetLineState() error = %v, want the modem error", err)
	}
}

func TestClose(t *testing.T) {
	port := newFakePort()
	bus := NewBus(port)

	if err := bus.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}
	if !port.closed {
		t.Error("underlying port not closed")
	}
}
