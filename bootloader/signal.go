package bootloader

import "time"

// SignalState is the logical readiness of the bus nodes as derived from the
// shared hardware signal line.
type SignalState bool

const (
	// SignalReady means the nodes are ready or acknowledging
	SignalReady SignalState = true

	// SignalBusy means the nodes are busy
	SignalBusy SignalState = false
)

func (s SignalState) String() string {
	if s == SignalReady {
		return "ready"
	}
	return "busy"
}

// signalPollInterval is the fixed interval between line reads while
// waiting for a target state.
const signalPollInterval = 100 * time.Millisecond

// Monitor polls the shared signal line. The line is active-low, so the
// logical state is the negation of the raw DSR level.
//
// Reads are side-effect-free and the session never issues concurrent
// reads, so Monitor needs no locking.
type Monitor struct {
	line        StatusLineReader
	onReadError func(error)
}

// NewMonitor wraps a status line reader. onReadError, if non-nil, is called
// whenever a line read fails; the failure is otherwise swallowed.
func NewMonitor(line StatusLineReader, onReadError func(error)) *Monitor {
	return &Monitor{line: line, onReadError: onReadError}
}

// Read returns the instantaneous logical signal state. A read failure is
// reported through onReadError and conservatively mapped to SignalBusy so
// that pollers keep polling instead of hanging on a transient fault.
func (m *Monitor) Read() SignalState {
	state, err := m.line.GetLineState()
	if err != nil {
		if m.onReadError != nil {
			m.onReadError(err)
		}
		return SignalBusy
	}
	// Active-low: DSR high means busy.
	return SignalState(!state.DSR)
}

// Await polls until the line reads target or timeout elapses. It returns
// true on success, immediately so if the first poll already matches.
//
// Await is the only wall-clock suspension point in the monitor and cannot
// be cancelled mid-wait; callers let it resolve or time out.
func (m *Monitor) Await(target SignalState, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for {
		if m.Read() == target {
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(signalPollInterval)
	}
}
