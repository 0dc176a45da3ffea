package modbus

import (
	"fmt"

	"github.com/serialmodbus/modbus-serial/frame"
)

// Instrument is the facade binding a SerialLine to one fixed slave
// address. Multiple Instruments may share one SerialLine (and
// therefore one Transport); the SerialLine's mutex serialises their
// exchanges.
//
// Grounded on the teacher's Field/Builder naming for the per-value
// configuration (fc, byte order, decimals, signed) and on
// packet.Registers' typed accessors for the decode half of each
// method.
type Instrument struct {
	line      *SerialLine
	slaveAddr uint8
}

// NewInstrument binds line to slaveAddr. slaveAddr must be in
// [0, frame.MaxSlaveAddress]; the reserved range [248,255] is accepted,
// not rejected (§3 Data Model).
func NewInstrument(line *SerialLine, slaveAddr uint8) (*Instrument, error) {
	if slaveAddr > frame.MaxSlaveAddress {
		return nil, frame.NewValueOutOfRange(fmt.Sprintf("slave address must be in [0,%d], got %d", frame.MaxSlaveAddress, slaveAddr))
	}
	return &Instrument{line: line, slaveAddr: slaveAddr}, nil
}

// ReadBit issues fc (1 or 2) for one discrete value at addr and returns
// 0 or 1.
func (i *Instrument) ReadBit(addr uint16, fc uint8) (uint8, error) {
	bits, err := i.ReadBits(addr, 1, fc)
	if err != nil {
		return 0, err
	}
	return bits[0], nil
}

// ReadBits issues fc (1 or 2) for count discrete values starting at addr
// and returns them unpacked, one entry per bit.
func (i *Instrument) ReadBits(addr, count uint16, fc uint8) ([]uint8, error) {
	payload, err := frame.BuildReadBitsRequest(addr, count)
	if err != nil {
		return nil, err
	}
	respPayload, err := i.line.execute(i.slaveAddr, fc, payload, frame.ReadBitsResponseLength(count))
	if err != nil {
		return nil, err
	}
	return frame.ParseReadBitsResponse(respPayload, count)
}

// WriteBit issues fc=5 to set the single coil at addr to value (0 or 1).
func (i *Instrument) WriteBit(addr uint16, value uint8) error {
	payload, err := frame.BuildWriteSingleCoilRequest(addr, value)
	if err != nil {
		return err
	}
	respPayload, err := i.line.execute(i.slaveAddr, frame.FuncWriteSingleCoil, payload, frame.WriteSingleResponseLength)
	if err != nil {
		return err
	}
	return frame.ParseWriteSingleCoilResponse(respPayload, payload)
}

// WriteBits issues fc=15 to set the coils starting at addr to values.
func (i *Instrument) WriteBits(addr uint16, values []uint8) error {
	payload, err := frame.BuildWriteMultipleCoilsRequest(addr, values)
	if err != nil {
		return err
	}
	respPayload, err := i.line.execute(i.slaveAddr, frame.FuncWriteMultipleCoils, payload, frame.WriteMultipleResponseLength)
	if err != nil {
		return err
	}
	return frame.ParseWriteMultipleCoilsResponse(respPayload, addr, uint16(len(values)))
}

// ReadRegister issues fc (3 or 4) for one register at addr, decodes it
// as signed or unsigned 16-bit, and divides by 10^decimals. fc is sent
// as given; a zero fc is not replaced by 3.
func (i *Instrument) ReadRegister(addr uint16, decimals int, fc uint8, signed bool) (float64, error) {
	payload, err := frame.BuildReadRegistersRequest(addr, 1)
	if err != nil {
		return 0, err
	}
	respPayload, err := i.line.execute(i.slaveAddr, fc, payload, frame.ReadRegistersResponseLength(1))
	if err != nil {
		return 0, err
	}
	raw, err := frame.ParseReadRegistersResponse(respPayload, 1)
	if err != nil {
		return 0, err
	}
	reg, err := frame.DecodeU16(raw)
	if err != nil {
		return 0, err
	}
	return frame.ScaleFromRegister(reg, decimals, signed), nil
}

// WriteRegister multiplies value by 10^decimals, validates range,
// encodes it, and issues fc (16 or 6, default 16) with reg_count=1.
func (i *Instrument) WriteRegister(addr uint16, value float64, decimals int, fc uint8, signed bool) error {
	reg, err := frame.ScaleToRegister(value, decimals, signed)
	if err != nil {
		return err
	}
	if fc == frame.FuncWriteSingleRegister {
		payload := frame.BuildWriteSingleRegisterRequest(addr, reg)
		respPayload, err := i.line.execute(i.slaveAddr, fc, payload, frame.WriteSingleResponseLength)
		if err != nil {
			return err
		}
		return frame.ParseWriteSingleRegisterResponse(respPayload, payload)
	}
	payload, err := frame.BuildWriteMultipleRegistersRequest(addr, []uint16{reg})
	if err != nil {
		return err
	}
	respPayload, err := i.line.execute(i.slaveAddr, frame.FuncWriteMultipleRegisters, payload, frame.WriteMultipleResponseLength)
	if err != nil {
		return err
	}
	return frame.ParseWriteMultipleRegistersResponse(respPayload, addr, 1)
}

// ReadRegisters issues fc (3 or 4) for count contiguous registers
// starting at addr and returns their raw big-endian bytes (2*count of
// them), for callers that want the Codec directly.
func (i *Instrument) ReadRegisters(addr, count uint16, fc uint8) ([]byte, error) {
	payload, err := frame.BuildReadRegistersRequest(addr, count)
	if err != nil {
		return nil, err
	}
	respPayload, err := i.line.execute(i.slaveAddr, fc, payload, frame.ReadRegistersResponseLength(count))
	if err != nil {
		return nil, err
	}
	return frame.ParseReadRegistersResponse(respPayload, count)
}

// WriteRegisters issues fc=16 to write len(values) contiguous registers
// starting at addr.
func (i *Instrument) WriteRegisters(addr uint16, values []uint16) error {
	payload, err := frame.BuildWriteMultipleRegistersRequest(addr, values)
	if err != nil {
		return err
	}
	respPayload, err := i.line.execute(i.slaveAddr, frame.FuncWriteMultipleRegisters, payload, frame.WriteMultipleResponseLength)
	if err != nil {
		return err
	}
	return frame.ParseWriteMultipleRegistersResponse(respPayload, addr, uint16(len(values)))
}

// ReadLong issues fc (3 or 4) for bitLength/16 registers at addr and
// decodes them as a signed or unsigned integer in the given byte order.
// bitLength must be 16, 32 or 64.
func (i *Instrument) ReadLong(addr uint16, signed bool, bitLength int, order frame.ByteOrder, fc uint8) (int64, error) {
	regCount := uint16(bitLength / 16)
	raw, err := i.ReadRegisters(addr, regCount, fc)
	if err != nil {
		return 0, err
	}
	switch bitLength {
	case 16:
		if signed {
			v, err := frame.DecodeI16(raw)
			return int64(v), err
		}
		v, err := frame.DecodeU16(raw)
		return int64(v), err
	case 32:
		if signed {
			v, err := frame.DecodeI32(raw, order)
			return int64(v), err
		}
		v, err := frame.DecodeU32(raw, order)
		return int64(v), err
	case 64:
		if signed {
			return frame.DecodeI64(raw, order)
		}
		v, err := frame.DecodeU64(raw, order)
		return int64(v), err
	default:
		return 0, frame.NewInvalidArgument(fmt.Sprintf("bit_length must be 16, 32 or 64, got %d", bitLength))
	}
}

// ReadFloat issues fc (3 or 4) for bitLength/16 registers at addr and decodes
// them as an IEEE-754 float in the given byte order. bitLength must be
// 32 or 64.
func (i *Instrument) ReadFloat(addr uint16, bitLength int, order frame.ByteOrder, fc uint8) (float64, error) {
	regCount := uint16(bitLength / 16)
	raw, err := i.ReadRegisters(addr, regCount, fc)
	if err != nil {
		return 0, err
	}
	switch bitLength {
	case 32:
		v, err := frame.DecodeF32(raw, order)
		return float64(v), err
	case 64:
		return frame.DecodeF64(raw, order)
	default:
		return 0, frame.NewInvalidArgument(fmt.Sprintf("bit_length must be 32 or 64, got %d", bitLength))
	}
}

// ReadString issues fc=3 for numRegisters registers at addr and decodes
// the raw bytes as text, padding preserved.
func (i *Instrument) ReadString(addr, numRegisters uint16) (string, error) {
	raw, err := i.ReadRegisters(addr, numRegisters, frame.FuncReadHoldingRegisters)
	if err != nil {
		return "", err
	}
	return frame.DecodeString(raw)
}

// WriteLong encodes value as a signed or unsigned integer of bitLength
// bits (16, 32 or 64) in the given byte order and issues fc=16 for the
// resulting registers at addr (fc=6 when fc is 6 and bitLength is 16).
func (i *Instrument) WriteLong(addr uint16, value int64, signed bool, bitLength int, order frame.ByteOrder, fc uint8) error {
	var raw []byte
	switch bitLength {
	case 16:
		if signed {
			raw = frame.EncodeI16(int16(value))
		} else {
			raw = frame.EncodeU16(uint16(value))
		}
	case 32:
		if signed {
			raw = frame.EncodeI32(int32(value), order)
		} else {
			raw = frame.EncodeU32(uint32(value), order)
		}
	case 64:
		if signed {
			raw = frame.EncodeI64(value, order)
		} else {
			raw = frame.EncodeU64(uint64(value), order)
		}
	default:
		return frame.NewInvalidArgument(fmt.Sprintf("bit_length must be 16, 32 or 64, got %d", bitLength))
	}
	return i.writeRegistersRaw(addr, raw, fc)
}

// WriteFloat encodes value as an IEEE-754 float of bitLength bits (32 or
// 64) in the given byte order and issues fc=16 for the resulting
// registers at addr.
func (i *Instrument) WriteFloat(addr uint16, value float64, bitLength int, order frame.ByteOrder, fc uint8) error {
	var raw []byte
	var err error
	switch bitLength {
	case 32:
		raw, err = frame.EncodeF32(float32(value), order)
	case 64:
		raw, err = frame.EncodeF64(value, order)
	default:
		return frame.NewInvalidArgument(fmt.Sprintf("bit_length must be 32 or 64, got %d", bitLength))
	}
	if err != nil {
		return err
	}
	return i.writeRegistersRaw(addr, raw, fc)
}

// WriteString encodes text into numRegisters registers, right-padded
// with spaces, and issues fc=16 starting at addr.
func (i *Instrument) WriteString(addr uint16, text string, numRegisters uint16) error {
	raw, err := frame.EncodeString(text, numRegisters)
	if err != nil {
		return err
	}
	return i.writeRegistersRaw(addr, raw, frame.FuncWriteMultipleRegisters)
}

// writeRegistersRaw splits raw (an even number of bytes, big-endian per
// register) into uint16 registers and issues fc for them starting at
// addr. fc is accepted for symmetry with ReadLong/ReadFloat's fc
// parameter, though only fc=16 carries more than one register on the
// wire; WriteString and WriteLong/WriteFloat with bitLength>16 always
// need fc=16.
func (i *Instrument) writeRegistersRaw(addr uint16, raw []byte, fc uint8) error {
	regCount := len(raw) / 2
	values := make([]uint16, regCount)
	for r := 0; r < regCount; r++ {
		reg, err := frame.DecodeU16(raw[r*2 : r*2+2])
		if err != nil {
			return err
		}
		values[r] = reg
	}
	if fc == frame.FuncWriteSingleRegister && regCount == 1 {
		payload := frame.BuildWriteSingleRegisterRequest(addr, values[0])
		respPayload, err := i.line.execute(i.slaveAddr, fc, payload, frame.WriteSingleResponseLength)
		if err != nil {
			return err
		}
		return frame.ParseWriteSingleRegisterResponse(respPayload, payload)
	}
	return i.WriteRegisters(addr, values)
}

// Custom issues an application-defined or vendor-specific function code
// fc with payload as its exact request bytes, returning the response
// payload without any Codec interpretation. It drives the same
// SerialLine, timing and error taxonomy as every other facade method;
// the caller is responsible for knowing the expected response payload
// length for fc, since this package does not parse unrecognised
// function codes.
func (i *Instrument) Custom(fc uint8, payload []byte, expectedResponsePayloadLen int) ([]byte, error) {
	return i.line.execute(i.slaveAddr, fc, payload, expectedResponsePayloadLen)
}
