package bootloader

// Event carries the progress context of a session. The same structure is
// used for status and error events; events are informational only and never
// affect control flow.
type Event struct {
	// Message is a human-readable description of what happened
	Message string

	// PageCount is the total number of pages in the image
	PageCount int

	// CurrentPage is the 1-indexed page most recently sent, 0 before the
	// first page
	CurrentPage int

	// FirstFailingPage is the first page that failed verification in the
	// current pass, 0 when none has
	FirstFailingPage int

	// RetryCount is the number of retry passes performed so far
	RetryCount int
}

// StatusFunc receives progress events during a run.
// Implementations should return quickly to avoid stalling the page loop.
type StatusFunc func(Event)

// ErrorFunc receives error events during a run. An error event does not by
// itself mean the run failed; page verification errors are retried.
type ErrorFunc func(Event)

// Logger is an optional logging interface for session internals.
// This allows integration with any logging framework.
type Logger interface {
	// Debug logs a debug message with optional key-value pairs
	Debug(msg string, keysAndValues ...interface{})

	// Info logs an info message with optional key-value pairs
	Info(msg string, keysAndValues ...interface{})

	// Error logs an error message with optional key-value pairs
	Error(msg string, keysAndValues ...interface{})
}
