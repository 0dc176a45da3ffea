package frame

import "fmt"

// ErrorKind distinguishes the error taxonomy mandated by the protocol:
// user-input mistakes, transport faults, and protocol exceptions
// reported by a slave. Every error the core raises carries one of these
// kinds.
type ErrorKind uint8

const (
	// InvalidArgument is raised when a caller passes a value of the
	// wrong type or shape (e.g. a negative count where a count is
	// required).
	InvalidArgument ErrorKind = iota
	// ValueOutOfRange is raised when an argument has the right type but
	// lies outside its allowed domain (e.g. a slave address of 300).
	ValueOutOfRange
	// NoResponse is raised when zero bytes were received within the
	// read timeout.
	NoResponse
	// ShortResponse is raised when fewer than the expected number of
	// bytes were received before the read timeout elapsed.
	ShortResponse
	// InvalidResponse is raised when bytes were received but framing,
	// address, function code or byte-count validation failed.
	InvalidResponse
	// ChecksumMismatch is raised when the CRC (RTU) or LRC (ASCII) did
	// not validate.
	ChecksumMismatch
	// LocalEchoMismatch is raised when the bytes echoed back by a
	// local-echo transport did not equal the transmitted request.
	LocalEchoMismatch
	// SlaveExceptionKind is raised when the slave replied with its
	// function code's high bit set.
	SlaveExceptionKind
	// TransportError is raised when the underlying transport's
	// open/read/write call itself failed.
	TransportError
)

// String implements fmt.Stringer.
func (k ErrorKind) String() string {
	switch k {
	case InvalidArgument:
		return "InvalidArgument"
	case ValueOutOfRange:
		return "ValueOutOfRange"
	case NoResponse:
		return "NoResponse"
	case ShortResponse:
		return "ShortResponse"
	case InvalidResponse:
		return "InvalidResponse"
	case ChecksumMismatch:
		return "ChecksumMismatch"
	case LocalEchoMismatch:
		return "LocalEchoMismatch"
	case SlaveExceptionKind:
		return "SlaveException"
	case TransportError:
		return "TransportError"
	default:
		return "Unknown"
	}
}

// Error is the single error type raised by this package and by the
// transaction engine built on top of it. Message is human readable;
// Bytes, when non-nil, carries the offending wire bytes for diagnostics.
type Error struct {
	Kind    ErrorKind
	Message string
	Bytes   []byte
	// Err is the underlying cause for TransportError, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("modbus: %s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("modbus: %s: %s", e.Kind, e.Message)
}

// Unwrap allows errors.Is/errors.As to reach the underlying transport error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error with the same Kind (and, when
// target's Message is non-empty, the same Message), so callers can write
// `errors.Is(err, &frame.Error{Kind: frame.NoResponse})`, or switch on
// the Kind of the *Error obtained with errors.As.
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok {
		return false
	}
	if other.Message != "" {
		return e.Kind == other.Kind && e.Message == other.Message
	}
	return e.Kind == other.Kind
}

// NewInvalidArgument creates an InvalidArgument error.
func NewInvalidArgument(message string) *Error {
	return &Error{Kind: InvalidArgument, Message: message}
}

// NewValueOutOfRange creates a ValueOutOfRange error.
func NewValueOutOfRange(message string) *Error {
	return &Error{Kind: ValueOutOfRange, Message: message}
}

// NewNoResponse creates a NoResponse error.
func NewNoResponse() *Error {
	return &Error{Kind: NoResponse, Message: "no bytes received before read timeout"}
}

// NewShortResponse creates a ShortResponse error carrying the bytes
// actually received.
func NewShortResponse(received []byte, expected int) *Error {
	return &Error{
		Kind:    ShortResponse,
		Message: fmt.Sprintf("received %d bytes, expected %d", len(received), expected),
		Bytes:   received,
	}
}

// NewInvalidResponse creates an InvalidResponse error carrying the
// offending bytes.
func NewInvalidResponse(message string, data []byte) *Error {
	return &Error{Kind: InvalidResponse, Message: message, Bytes: data}
}

// NewChecksumMismatch creates a ChecksumMismatch error carrying the
// offending bytes.
func NewChecksumMismatch(data []byte) *Error {
	return &Error{Kind: ChecksumMismatch, Message: "frame check did not validate", Bytes: data}
}

// NewLocalEchoMismatch creates a LocalEchoMismatch error.
func NewLocalEchoMismatch(want, got []byte) *Error {
	return &Error{
		Kind:    LocalEchoMismatch,
		Message: "echoed bytes did not match transmitted request",
		Bytes:   got,
		Err:     fmt.Errorf("want % x, got % x", want, got),
	}
}

// NewTransportError wraps an underlying transport failure.
func NewTransportError(message string, cause error) *Error {
	return &Error{Kind: TransportError, Message: message, Err: cause}
}

// SlaveException wraps an Error of Kind SlaveExceptionKind (in Base),
// carrying the one-byte exception code the slave returned, plus the
// function code it refused.
type SlaveException struct {
	Base         Error
	FunctionCode uint8
	Code         uint8
}

// NewSlaveException creates a SlaveException for the given (unmasked)
// function code and exception code byte.
func NewSlaveException(functionCode, code uint8) *SlaveException {
	return &SlaveException{
		Base: Error{
			Kind:    SlaveExceptionKind,
			Message: ExceptionText(code),
		},
		FunctionCode: functionCode,
		Code:         code,
	}
}

// Error implements the error interface.
func (e *SlaveException) Error() string {
	return fmt.Sprintf("modbus: SlaveException: function 0x%02x: code %d: %s", e.FunctionCode, e.Code, e.Base.Message)
}

// Unwrap exposes the wrapped *Error so errors.As(err, &fe) works with
// fe declared as *frame.Error.
func (e *SlaveException) Unwrap() error {
	return &e.Base
}
