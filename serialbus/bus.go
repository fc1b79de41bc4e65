package serialbus

import (
	"fmt"

	"go.bug.st/serial"

	"github.com/moffa90/go-busboot/bootloader"
)

// Bus adapts a serial port to the bootloader's Transport and
// StatusLineReader capabilities. The bus is half-duplex and the session
// keeps at most one message in flight, so Bus does no internal buffering.
type Bus struct {
	port serial.Port
}

// Open opens the named serial port at the given baud rate, 8N1.
//
// Example:
//
//	bus, err := serialbus.Open("/dev/ttyUSB0", 57600)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer bus.Close()
func Open(name string, baud int) (*Bus, error) {
	port, err := serial.Open(name, &serial.Mode{BaudRate: baud})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	return NewBus(port), nil
}

// NewBus wraps an already opened port.
func NewBus(port serial.Port) *Bus {
	return &Bus{port: port}
}

// Close closes the underlying port. Closing mid-run is the supported way
// to abort a bootload: the session's next send fails.
func (b *Bus) Close() error {
	return b.port.Close()
}

// Begin starts a message with the given command code and declared payload
// length. Nothing is written until End: the half-duplex bus wants each
// message on the wire as one contiguous burst.
func (b *Bus) Begin(code byte, payloadLen int) (bootloader.Message, error) {
	if payloadLen < 0 {
		return nil, fmt.Errorf("negative payload length %d", payloadLen)
	}
	return &message{
		bus:      b,
		code:     code,
		declared: payloadLen,
		payload:  make([]byte, 0, payloadLen),
	}, nil
}

// GetLineState samples the port's modem status lines.
func (b *Bus) GetLineState() (bootloader.LineState, error) {
	bits, err := b.port.GetModemStatusBits()
	if err != nil {
		return bootloader.LineState{}, fmt.Errorf("read modem status: %w", err)
	}
	return bootloader.LineState{DSR: bits.DSR}, nil
}

// message buffers one in-flight bus message until End frames and sends it.
type message struct {
	bus      *Bus
	code     byte
	declared int
	payload  []byte
	done     bool
}

func (m *message) Write(p []byte) (int, error) {
	if m.done {
		return 0, fmt.Errorf("message already ended")
	}
	if len(m.payload)+len(p) > m.declared {
		return 0, fmt.Errorf("payload exceeds declared length %d", m.declared)
	}
	m.payload = append(m.payload, p...)
	return len(p), nil
}

// End frames the message, writes it to the port and drains the output
// buffer, so a nil return means the bytes left the host.
func (m *message) End() error {
	if m.done {
		return fmt.Errorf("message already ended")
	}
	m.done = true

	if len(m.payload) != m.declared {
		return fmt.Errorf("payload is %d bytes, declared %d", len(m.payload), m.declared)
	}

	frame := buildFrame(m.code, m.payload)
	if _, err := m.bus.port.Write(frame); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	if err := m.bus.port.Drain(); err != nil {
		return fmt.Errorf("drain: %w", err)
	}
	return nil
}
