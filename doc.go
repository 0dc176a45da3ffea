// Package modbus implements a Modbus serial-line master: the Transaction
// Engine that drives one half-duplex exchange over a Transport, and the
// Instrument facade that exposes typed register/coil operations on top
// of it.
//
// Framing, checksums and the value codec live in the frame subpackage;
// this package owns timing, the transport contract, and the public API.
package modbus
