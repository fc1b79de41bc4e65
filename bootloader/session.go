package bootloader

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/moffa90/go-busboot/firmware"
	"github.com/moffa90/go-busboot/protocol"
)

// State identifies a step of the bootload state machine.
type State int

const (
	StateIdle State = iota
	StateAwaitingReady
	StateSendStart
	StateAwaitingBusy
	StateSendPageNumber
	StateSendPageData
	StatePostPageCheck
	StateRetrying
	StateSendEnd
	StateComplete
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingReady:
		return "awaiting-ready"
	case StateSendStart:
		return "send-start"
	case StateAwaitingBusy:
		return "awaiting-busy"
	case StateSendPageNumber:
		return "send-page-number"
	case StateSendPageData:
		return "send-page-data"
	case StatePostPageCheck:
		return "post-page-check"
	case StateRetrying:
		return "retrying"
	case StateSendEnd:
		return "send-end"
	case StateComplete:
		return "complete"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// endSendCount is how many times END is sent. The nodes resolve the
// transfer on END, and a dropped final message would leave the last node
// waiting forever; the repeat covers that.
const endSendCount = 2

// Session drives one firmware image onto the bus. It owns all mutable run
// state (current page, retry counter, failing-page marker); no other
// component touches it.
//
// A Session runs one Program call at a time and is not safe for concurrent
// use. Distinct bus segments get distinct Sessions.
type Session struct {
	transport Transport
	monitor   *Monitor
	config    Config

	image      *firmware.Image
	state      State
	page       int // 1-indexed page most recently announced, 0 before the first
	retries    int
	failedPage int // first page flagged this pass, 0 when none
	resolved   bool
	outcome    error
}

// New creates a Session over the given message transport and status line.
// WithPageSize is mandatory; its absence fails here, before any I/O.
//
// Example:
//
//	bus, err := serialbus.Open("/dev/ttyUSB0", 57600)
//	sess, err := bootloader.New(bus, bus,
//	    bootloader.WithPageSize(128),
//	    bootloader.WithVersion(1, 4),
//	)
func New(transport Transport, line StatusLineReader, opts ...Option) (*Session, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if transport == nil {
		return nil, errors.New("busboot: transport cannot be nil")
	}
	if line == nil {
		return nil, errors.New("busboot: status line cannot be nil")
	}
	if cfg.PageSize <= 0 {
		return nil, ErrMissingPageSize
	}

	s := &Session{
		transport: transport,
		config:    cfg,
		state:     StateIdle,
	}
	s.monitor = NewMonitor(line, func(err error) {
		s.logError("signal line read failed", "error", err)
		s.errorEvent(fmt.Sprintf("signal line read failed: %v", err))
	})
	return s, nil
}

// State returns the current state of the session.
func (s *Session) State() State {
	return s.state
}

// Retries returns the number of retry passes performed in the current or
// most recent run.
func (s *Session) Retries() int {
	return s.retries
}

// Program delivers content to the bus nodes: start handshake, page loop
// with verification retries, finalization. It returns nil once every page
// is delivered and confirmed, or one of the failure reasons documented in
// errors.go.
//
// The context is checked between states only; signal waits and the
// inter-page delay run to completion once entered. Closing the underlying
// transport is the way to abort a run from outside: the next send fails
// and drives the run to Failed.
func (s *Session) Program(ctx context.Context, content []byte) error {
	if len(content) == 0 {
		return ErrEmptyImage
	}

	img := firmware.Split(content, s.config.PageSize)
	if img.PageCount() > protocol.MaxPageNumber {
		return fmt.Errorf("%w: %d pages, limit is %d",
			ErrImageTooLarge, img.PageCount(), protocol.MaxPageNumber)
	}

	s.image = img
	s.page = 0
	s.retries = 0
	s.failedPage = 0
	s.resolved = false
	s.outcome = nil
	s.state = StateAwaitingReady

	s.logInfo("bootload starting",
		"pages", img.PageCount(),
		"bytes", img.Size(),
		"version", fmt.Sprintf("%d.%d", s.config.Version.Major, s.config.Version.Minor),
	)
	s.status(fmt.Sprintf("sending %d pages", img.PageCount()))

	for !s.resolved {
		if err := ctx.Err(); err != nil {
			s.fail(err, "cancelled")
			break
		}
		s.step()
	}
	return s.outcome
}

// step performs the entry action of the current state and moves to the
// next. Keeping this a flat loop instead of chained callbacks bounds the
// stack and makes every transition independently testable.
func (s *Session) step() {
	s.logDebug("state", "name", s.state.String(), "page", s.page)

	switch s.state {
	case StateAwaitingReady:
		if !s.monitor.Await(SignalReady, s.config.SignalTimeout) {
			s.fail(ErrDevicesNotReady, "devices not ready")
			return
		}
		s.state = StateSendStart

	case StateSendStart:
		payload := protocol.StartPayload(s.config.Version.Major, s.config.Version.Minor)
		if err := s.send(protocol.CmdStart, payload); err != nil {
			s.fail(err, "write error")
			return
		}
		s.status(fmt.Sprintf("announced version %d.%d",
			s.config.Version.Major, s.config.Version.Minor))
		s.state = StateAwaitingBusy

	case StateAwaitingBusy:
		if !s.monitor.Await(SignalBusy, s.config.SignalTimeout) {
			s.fail(ErrDevicesNotReady, "devices not ready")
			return
		}
		s.state = StateSendPageNumber

	case StateSendPageNumber:
		s.page++
		payload, err := protocol.PageNumberPayload(s.page)
		if err != nil {
			// Unreachable: the page count is validated before the run.
			s.fail(fmt.Errorf("%w: %v", ErrImageTooLarge, err), "page number out of range")
			return
		}
		if err := s.send(protocol.CmdPageNumber, payload); err != nil {
			s.fail(err, "write error")
			return
		}
		s.state = StateSendPageData

	case StateSendPageData:
		if err := s.send(protocol.CmdPageData, s.image.Page(s.page)); err != nil {
			s.fail(err, "write error")
			return
		}
		s.status(fmt.Sprintf("page %d/%d sent", s.page, s.image.PageCount()))
		s.state = StatePostPageCheck

	case StatePostPageCheck:
		// Nodes hold the line busy for the whole transfer; one that fails
		// page verification releases it. A ready reading here therefore
		// flags an error. Only the first flagged page of a pass is kept,
		// since a retry pass resumes there and runs to the end anyway.
		if s.monitor.Read() == SignalReady && s.failedPage == 0 {
			s.failedPage = s.page
			s.errorEvent(fmt.Sprintf("page %d flagged by a node", s.page))
		}
		if s.page == s.image.PageCount() {
			switch {
			case s.failedPage == 0:
				s.state = StateSendEnd
			case s.retries < s.config.MaxTries:
				s.state = StateRetrying
			default:
				s.fail(ErrRetryLimit, fmt.Sprintf("giving up after %d retries", s.retries))
			}
			return
		}
		time.Sleep(s.config.PageDelay)
		s.state = StateSendPageNumber

	case StateRetrying:
		s.retries++
		s.page = s.failedPage - 1
		s.failedPage = 0
		s.status(fmt.Sprintf("retry %d, resuming at page %d", s.retries, s.page+1))
		s.state = StateSendPageNumber

	case StateSendEnd:
		for i := 0; i < endSendCount; i++ {
			if err := s.send(protocol.CmdEnd, nil); err != nil {
				s.fail(err, "write error")
				return
			}
		}
		s.state = StateComplete

	case StateComplete:
		s.status("bootload complete")
		s.logInfo("bootload complete",
			"pages", s.image.PageCount(),
			"retries", s.retries,
		)
		s.resolve(nil)

	default:
		// Idle or a terminal state: nothing left to do.
		s.resolve(s.outcome)
	}
}

// send opens a message, streams the payload and waits for the transport to
// confirm delivery. The session keeps at most one message in flight.
func (s *Session) send(code byte, payload []byte) error {
	msg, err := s.transport.Begin(code, len(payload))
	if err != nil {
		return &TransportError{Code: code, Err: err}
	}
	if len(payload) > 0 {
		if _, err := msg.Write(payload); err != nil {
			return &TransportError{Code: code, Err: err}
		}
	}
	if err := msg.End(); err != nil {
		return &TransportError{Code: code, Err: err}
	}
	s.logDebug("message sent", "command", protocol.CommandName(code), "bytes", len(payload))
	return nil
}

// fail moves the session to Failed, emits the error event and resolves the
// run outcome.
func (s *Session) fail(err error, reason string) {
	s.state = StateFailed
	s.logError("bootload failed", "reason", reason, "error", err)
	s.errorEvent(reason)
	s.resolve(err)
}

// resolve records the run outcome exactly once; later resolutions are
// dropped, so a failure reported after completion cannot overwrite a
// successful outcome.
func (s *Session) resolve(err error) {
	if s.resolved {
		return
	}
	s.resolved = true
	s.outcome = err
}

func (s *Session) event(msg string) Event {
	pageCount := 0
	if s.image != nil {
		pageCount = s.image.PageCount()
	}
	return Event{
		Message:          msg,
		PageCount:        pageCount,
		CurrentPage:      s.page,
		FirstFailingPage: s.failedPage,
		RetryCount:       s.retries,
	}
}

func (s *Session) status(msg string) {
	if s.config.StatusCallback != nil {
		s.config.StatusCallback(s.event(msg))
	}
}

func (s *Session) errorEvent(msg string) {
	if s.config.ErrorCallback != nil {
		s.config.ErrorCallback(s.event(msg))
	}
}

func (s *Session) logDebug(msg string, keysAndValues ...interface{}) {
	if s.config.Logger != nil {
		s.config.Logger.Debug(msg, keysAndValues...)
	}
}

func (s *Session) logInfo(msg string, keysAndValues ...interface{}) {
	if s.config.Logger != nil {
		s.config.Logger.Info(msg, keysAndValues...)
	}
}

func (s *Session) logError(msg string, keysAndValues ...interface{}) {
	if s.config.Logger != nil {
		s.config.Logger.Error(msg, keysAndValues...)
	}
}
