package modbus

import "time"

// Transport is the byte-level serial port contract the Transaction
// Engine drives. A concrete implementation (e.g. serialtransport.Port)
// owns the OS handle; SerialLine only ever calls through this
// interface, so tests can substitute a fake.
type Transport interface {
	// Open opens the underlying port. Calling Open on an already-open
	// Transport is a no-op.
	Open() error
	// Close closes the underlying port. Calling Close on an already-closed
	// Transport is a no-op.
	Close() error
	// IsOpen reports whether the port is currently open.
	IsOpen() bool

	// Write writes data to the port, returning the number of bytes
	// written before any write-timeout error.
	Write(data []byte) (int, error)
	// Read reads up to len(buf) bytes, returning the number of bytes
	// read. A read that times out with zero bytes returns (0, nil);
	// callers distinguish "nothing yet" from a hard error by checking
	// err.
	Read(buf []byte) (int, error)

	// ClearInput discards any buffered, unread input bytes.
	ClearInput() error
	// ClearOutput discards any buffered, unwritten output bytes.
	ClearOutput() error

	// SetReadTimeout and SetWriteTimeout bound a single Read/Write call.
	SetReadTimeout(d time.Duration) error
	SetWriteTimeout(d time.Duration) error
}

// Hooks allows a caller to observe bytes written and read, and bytes
// about to be parsed, without altering the exchange. Implementations
// must not retain or mutate the given slices; they are reused by the
// engine.
type Hooks interface {
	BeforeWrite(toWrite []byte)
	AfterEachRead(received []byte, n int, err error)
	BeforeParse(received []byte)
}

// noopHooks is the default Hooks implementation: it does nothing.
type noopHooks struct{}

func (noopHooks) BeforeWrite(toWrite []byte)                  {}
func (noopHooks) AfterEachRead(received []byte, n int, err error) {}
func (noopHooks) BeforeParse(received []byte)                 {}
