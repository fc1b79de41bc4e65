package bootloader

import "io"

// Transport delivers typed messages onto the bus. Implementations own
// framing, byte-level checksumming and any node addressing; the session
// only supplies the command code, the declared payload length and the
// payload bytes.
//
// The session never has more than one message in flight, so Transport
// implementations do not need to buffer outstanding messages.
type Transport interface {
	// Begin opens a message with the given command code and declared
	// payload length. The returned Message must receive exactly
	// payloadLen bytes before End is called.
	Begin(code byte, payloadLen int) (Message, error)
}

// Message is a single in-flight bus message.
type Message interface {
	io.Writer

	// End closes the message and blocks until the transport confirms
	// delivery, returning the transport's terminal error if any.
	End() error
}

// LineState holds the serial control line levels of the bus port.
type LineState struct {
	// DSR is the raw Data Set Ready level. The line is wired active-low:
	// a high level means the nodes are busy.
	DSR bool
}

// StatusLineReader reads the instantaneous control line state of the
// underlying port.
type StatusLineReader interface {
	GetLineState() (LineState, error)
}
