package bootloader

import "time"

// Version is a target firmware version announced in the START message.
type Version struct {
	Major byte
	Minor byte
}

// Config holds the session configuration. It is immutable per session.
type Config struct {
	// PageSize is the flash page size in bytes. Required.
	PageSize int

	// Version is the target firmware version sent in START
	Version Version

	// MaxTries is the maximum number of retry passes after page
	// verification failures
	MaxTries int

	// PageDelay is the pause between consecutive pages
	PageDelay time.Duration

	// SignalTimeout bounds each wait for the signal line to reach a
	// target state
	SignalTimeout time.Duration

	// StatusCallback receives progress events (optional)
	StatusCallback StatusFunc

	// ErrorCallback receives error events (optional)
	ErrorCallback ErrorFunc

	// Logger is used for logging session internals (optional)
	Logger Logger
}

// defaultConfig returns the default configuration. PageSize has no default
// and must be supplied.
func defaultConfig() Config {
	return Config{
		MaxTries:      2,
		PageDelay:     800 * time.Millisecond,
		SignalTimeout: 1000 * time.Millisecond,
	}
}

// Option is a functional option for configuring the Session.
type Option func(*Config)

// WithPageSize sets the flash page size in bytes. This option is mandatory;
// New fails without it.
func WithPageSize(size int) Option {
	return func(c *Config) {
		c.PageSize = size
	}
}

// WithVersion sets the target firmware version announced in START.
func WithVersion(major, minor byte) Option {
	return func(c *Config) {
		c.Version = Version{Major: major, Minor: minor}
	}
}

// WithMajorVersion sets only the major version; the minor version keeps its
// previous value (0 unless set).
func WithMajorVersion(major byte) Option {
	return func(c *Config) {
		c.Version.Major = major
	}
}

// WithMinorVersion sets only the minor version; the major version keeps its
// previous value (0 unless set).
func WithMinorVersion(minor byte) Option {
	return func(c *Config) {
		c.Version.Minor = minor
	}
}

// WithMaxTries sets the maximum number of retry passes after page
// verification failures. Default is 2.
func WithMaxTries(tries int) Option {
	return func(c *Config) {
		if tries >= 0 {
			c.MaxTries = tries
		}
	}
}

// WithPageDelay sets the pause between consecutive pages. Default is 800ms.
func WithPageDelay(delay time.Duration) Option {
	return func(c *Config) {
		if delay >= 0 {
			c.PageDelay = delay
		}
	}
}

// WithSignalTimeout bounds each wait for the signal line to reach a target
// state. Default is 1s.
func WithSignalTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		if timeout > 0 {
			c.SignalTimeout = timeout
		}
	}
}

// WithStatusCallback sets a callback receiving progress events.
//
// Example:
//
//	sess, err := bootloader.New(bus, bus,
//	    bootloader.WithPageSize(128),
//	    bootloader.WithStatusCallback(func(e bootloader.Event) {
//	        fmt.Printf("%s (page %d/%d)\n", e.Message, e.CurrentPage, e.PageCount)
//	    }),
//	)
func WithStatusCallback(callback StatusFunc) Option {
	return func(c *Config) {
		c.StatusCallback = callback
	}
}

// WithErrorCallback sets a callback receiving error events.
func WithErrorCallback(callback ErrorFunc) Option {
	return func(c *Config) {
		c.ErrorCallback = callback
	}
}

// WithLogger sets a logger for session internals.
func WithLogger(logger Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}
