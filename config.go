package modbus

import (
	"time"

	"github.com/serialmodbus/modbus-serial/frame"
)

const (
	defaultReadTimeout  = 1 * time.Second
	defaultWriteTimeout = 1 * time.Second
	defaultBaudRate     = 9600
)

// SerialLineOptionFunc configures a SerialLine at construction time.
type SerialLineOptionFunc func(l *SerialLine)

// WithMode selects RTU (default) or ASCII framing.
func WithMode(mode frame.Mode) SerialLineOptionFunc {
	return func(l *SerialLine) {
		l.mode = mode
	}
}

// WithBaudRate sets the line's baud rate, used only to compute the
// inter-frame silent interval (the Transport itself owns the actual
// port configuration).
func WithBaudRate(baud int) SerialLineOptionFunc {
	return func(l *SerialLine) {
		l.baudRate = baud
	}
}

// WithReadTimeout sets the time budget of each fixed-length read in
// execute() (the local-echo read and the response read each get the
// full budget) before it raises NoResponse/ShortResponse. The same value
// is passed to the Transport as its per-Read timeout.
func WithReadTimeout(d time.Duration) SerialLineOptionFunc {
	return func(l *SerialLine) {
		l.readTimeout = d
	}
}

// WithWriteTimeout sets the per-call write timeout passed to the Transport.
func WithWriteTimeout(d time.Duration) SerialLineOptionFunc {
	return func(l *SerialLine) {
		l.writeTimeout = d
	}
}

// WithHooks installs a Hooks implementation for observing wire traffic.
func WithHooks(hooks Hooks) SerialLineOptionFunc {
	return func(l *SerialLine) {
		l.hooks = hooks
	}
}

// WithLocalEcho declares that the Transport echoes every transmitted
// octet back on the read side before any real response bytes (common on
// half-duplex RS-485 adapters without echo suppression). When set, the
// engine reads and discards the echoed request before reading the
// response, and raises LocalEchoMismatch if the echoed bytes differ
// from what was sent.
func WithLocalEcho(enabled bool) SerialLineOptionFunc {
	return func(l *SerialLine) {
		l.localEcho = enabled
	}
}

// WithClosePerCall makes the engine close and reopen the Transport
// around every execute() call, working around operating systems that do
// not share serial handles cleanly between processes. Off by default.
func WithClosePerCall(enabled bool) SerialLineOptionFunc {
	return func(l *SerialLine) {
		l.closePerCall = enabled
	}
}

// WithTolerateTrailingByte makes RTU fc=3/fc=4 responses accept exactly
// one extra trailing octet (0xFE) after an otherwise frame-check-valid
// response, discarding it before byte-count validation. Off by default.
func WithTolerateTrailingByte(enabled bool) SerialLineOptionFunc {
	return func(l *SerialLine) {
		l.tolerateTrailingByte = enabled
	}
}
