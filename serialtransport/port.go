// Package serialtransport adapts github.com/tarm/serial to the
// modbus.Transport interface, opening and configuring the OS serial
// port the way serial.Config already models it.
package serialtransport

import (
	"time"

	"github.com/tarm/serial"
)

// Config mirrors the fields of the Transport contract that a real OS
// serial port needs at open time. It maps directly onto
// github.com/tarm/serial's own serial.Config.
type Config struct {
	// Name is the OS device path, e.g. "/dev/ttyUSB0" or "COM3".
	Name string
	// BaudRate is the line speed in bits per second.
	BaudRate int
	// Size is the character size in bits, 8 by default (0 means 8).
	Size byte
	// StopBits is the number of stop bits, 1 by default.
	StopBits serial.StopBits
	// Parity is the parity mode, none by default.
	Parity serial.Parity
	// ReadTimeout is the initial per-Read timeout; SerialLine overrides
	// it per call via SetReadTimeout.
	ReadTimeout time.Duration
}

// Port is a modbus.Transport backed by a real OS serial port.
type Port struct {
	cfg  serial.Config
	port *serial.Port
}

// Open opens an OS serial port per cfg and returns it wrapped as a
// Port. Name and BaudRate are required.
func Open(cfg Config) (*Port, error) {
	p := &Port{cfg: toSerialConfig(cfg)}
	if err := p.Open(); err != nil {
		return nil, err
	}
	return p, nil
}

func toSerialConfig(cfg Config) serial.Config {
	return serial.Config{
		Name:        cfg.Name,
		Baud:        cfg.BaudRate,
		Size:        cfg.Size,
		StopBits:    cfg.StopBits,
		Parity:      cfg.Parity,
		ReadTimeout: cfg.ReadTimeout,
	}
}

// Open opens the underlying OS port if it is not already open.
func (p *Port) Open() error {
	if p.port != nil {
		return nil
	}
	sp, err := serial.OpenPort(&p.cfg)
	if err != nil {
		return err
	}
	p.port = sp
	return nil
}

// Close closes the underlying OS port if it is open.
func (p *Port) Close() error {
	if p.port == nil {
		return nil
	}
	err := p.port.Close()
	p.port = nil
	return err
}

// IsOpen reports whether the underlying OS port is currently open.
func (p *Port) IsOpen() bool {
	return p.port != nil
}

// Write writes data to the port.
func (p *Port) Write(data []byte) (int, error) {
	return p.port.Write(data)
}

// Read reads up to len(buf) bytes from the port.
func (p *Port) Read(buf []byte) (int, error) {
	return p.port.Read(buf)
}

// ClearInput discards buffered, unread input bytes.
func (p *Port) ClearInput() error {
	return p.port.Flush()
}

// ClearOutput discards buffered, unwritten output bytes. tarm/serial
// exposes a single combined Flush; there is no separate output-only
// flush in its API.
func (p *Port) ClearOutput() error {
	return p.port.Flush()
}

// SetReadTimeout changes the per-Read timeout. tarm/serial applies
// ReadTimeout only at OpenPort time, so changing it here closes and
// reopens the underlying port when the value actually changes.
func (p *Port) SetReadTimeout(d time.Duration) error {
	if p.cfg.ReadTimeout == d {
		return nil
	}
	p.cfg.ReadTimeout = d
	if p.port == nil {
		return nil
	}
	if err := p.port.Close(); err != nil {
		return err
	}
	sp, err := serial.OpenPort(&p.cfg)
	if err != nil {
		return err
	}
	p.port = sp
	return nil
}

// SetWriteTimeout is a no-op: tarm/serial's Port.Write blocks on the OS
// handle and exposes no write-deadline knob to configure.
func (p *Port) SetWriteTimeout(d time.Duration) error {
	return nil
}
