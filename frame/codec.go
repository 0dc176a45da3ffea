package frame

import (
	"encoding/binary"
	"math"
)

// This file implements the Codec component: pure, side-effect-free
// conversions between typed values and raw octet buffers. Encoders whose
// input domain is narrower than their Go type validate it and fail with
// ValueOutOfRange on violation; decoders given a buffer of the wrong
// length fail with InvalidArgument.
//
// Grounded on the teacher's marshalbytes.go (per-type marshal functions
// with explicit range-limiting) and packet/registers.go (typed,
// byte-order-aware register readers); generalized here to the four
// ByteOrder tags RTU/ASCII framing needs and reduced to the fixed set of
// Go types the spec names (no `any`-typed dynamic dispatch, since this
// port is statically typed end to end).

// EncodeU16 encodes an unsigned 16 bit value as 2 big-endian octets.
func EncodeU16(v uint16) []byte {
	dst := make([]byte, 2)
	binary.BigEndian.PutUint16(dst, v)
	return dst
}

// DecodeU16 decodes 2 big-endian octets as an unsigned 16 bit value.
func DecodeU16(b []byte) (uint16, error) {
	if len(b) != 2 {
		return 0, NewInvalidArgument("DecodeU16 requires exactly 2 bytes")
	}
	return binary.BigEndian.Uint16(b), nil
}

// EncodeI16 encodes a signed 16 bit value as 2 big-endian two's-complement octets.
func EncodeI16(v int16) []byte {
	dst := make([]byte, 2)
	binary.BigEndian.PutUint16(dst, uint16(v))
	return dst
}

// DecodeI16 decodes 2 big-endian octets as a signed 16 bit two's-complement value.
func DecodeI16(b []byte) (int16, error) {
	if len(b) != 2 {
		return 0, NewInvalidArgument("DecodeI16 requires exactly 2 bytes")
	}
	return int16(binary.BigEndian.Uint16(b)), nil
}

// reorderWords reorders a logical big-endian byte sequence (2 or 4
// registers worth of bytes) into the wire ordering selected by order.
// LITTLE and LITTLESWAP reverse the sequence of registers; LITTLE and
// BIGSWAP swap the two bytes within each register.
func reorderWords(logicalBE []byte, order ByteOrder) []byte {
	n := len(logicalBE)
	words := n / 2
	out := make([]byte, n)
	// registers, in logical (most-significant-first) order
	regs := make([][]byte, words)
	for i := 0; i < words; i++ {
		regs[i] = logicalBE[i*2 : i*2+2]
	}
	swapWordOrder := order == LITTLE || order == LITTLESWAP
	swapByteOrder := order == LITTLE || order == BIGSWAP

	ordered := make([][]byte, words)
	copy(ordered, regs)
	if swapWordOrder {
		for i := 0; i < words; i++ {
			ordered[i] = regs[words-1-i]
		}
	}
	for i, reg := range ordered {
		b0, b1 := reg[0], reg[1]
		if swapByteOrder {
			b0, b1 = b1, b0
		}
		out[i*2] = b0
		out[i*2+1] = b1
	}
	return out
}

// dereorderWords is the inverse of reorderWords: given wire bytes in the
// given order, returns the logical big-endian byte sequence.
func dereorderWords(wire []byte, order ByteOrder) []byte {
	// reorderWords is its own inverse for every one of the four tags:
	// swapping word order twice is a no-op, and swapping byte order
	// twice is a no-op, independently.
	return reorderWords(wire, order)
}

// EncodeU32 encodes an unsigned 32 bit value as 4 octets in the given byte order.
func EncodeU32(v uint32, order ByteOrder) []byte {
	be := make([]byte, 4)
	binary.BigEndian.PutUint32(be, v)
	return reorderWords(be, order)
}

// DecodeU32 decodes 4 octets in the given byte order as an unsigned 32 bit value.
func DecodeU32(b []byte, order ByteOrder) (uint32, error) {
	if len(b) != 4 {
		return 0, NewInvalidArgument("DecodeU32 requires exactly 4 bytes")
	}
	be := dereorderWords(b, order)
	return binary.BigEndian.Uint32(be), nil
}

// EncodeI32 encodes a signed 32 bit value as 4 octets in the given byte order.
func EncodeI32(v int32, order ByteOrder) []byte {
	return EncodeU32(uint32(v), order)
}

// DecodeI32 decodes 4 octets in the given byte order as a signed 32 bit value.
func DecodeI32(b []byte, order ByteOrder) (int32, error) {
	u, err := DecodeU32(b, order)
	if err != nil {
		return 0, err
	}
	return int32(u), nil
}

// EncodeU64 encodes an unsigned 64 bit value as 8 octets in the given byte order.
func EncodeU64(v uint64, order ByteOrder) []byte {
	be := make([]byte, 8)
	binary.BigEndian.PutUint64(be, v)
	return reorderWords(be, order)
}

// DecodeU64 decodes 8 octets in the given byte order as an unsigned 64 bit value.
func DecodeU64(b []byte, order ByteOrder) (uint64, error) {
	if len(b) != 8 {
		return 0, NewInvalidArgument("DecodeU64 requires exactly 8 bytes")
	}
	be := dereorderWords(b, order)
	return binary.BigEndian.Uint64(be), nil
}

// EncodeI64 encodes a signed 64 bit value as 8 octets in the given byte order.
func EncodeI64(v int64, order ByteOrder) []byte {
	return EncodeU64(uint64(v), order)
}

// DecodeI64 decodes 8 octets in the given byte order as a signed 64 bit value.
func DecodeI64(b []byte, order ByteOrder) (int64, error) {
	u, err := DecodeU64(b, order)
	if err != nil {
		return 0, err
	}
	return int64(u), nil
}

// EncodeF32 encodes a finite float32 as 4 octets (IEEE-754 binary32) in
// the given byte order. Returns ValueOutOfRange for NaN/Inf.
func EncodeF32(v float32, order ByteOrder) ([]byte, error) {
	if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
		return nil, NewValueOutOfRange("float32 value must be finite")
	}
	return EncodeU32(math.Float32bits(v), order), nil
}

// DecodeF32 decodes 4 octets (IEEE-754 binary32) in the given byte order as a float32.
func DecodeF32(b []byte, order ByteOrder) (float32, error) {
	u, err := DecodeU32(b, order)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(u), nil
}

// EncodeF64 encodes a finite float64 as 8 octets (IEEE-754 binary64) in
// the given byte order. Returns ValueOutOfRange for NaN/Inf.
func EncodeF64(v float64, order ByteOrder) ([]byte, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, NewValueOutOfRange("float64 value must be finite")
	}
	return EncodeU64(math.Float64bits(v), order), nil
}

// DecodeF64 decodes 8 octets (IEEE-754 binary64) in the given byte order as a float64.
func DecodeF64(b []byte, order ByteOrder) (float64, error) {
	u, err := DecodeU64(b, order)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(u), nil
}

// EncodeString encodes text as 2*numRegisters octets, right-padded with
// ASCII spaces (0x20). Returns ValueOutOfRange if text is longer than
// 2*numRegisters bytes.
func EncodeString(text string, numRegisters uint16) ([]byte, error) {
	width := int(numRegisters) * 2
	if len(text) > width {
		return nil, NewValueOutOfRange("text is longer than 2*numRegisters bytes")
	}
	dst := make([]byte, width)
	copy(dst, text)
	for i := len(text); i < width; i++ {
		dst[i] = ' '
	}
	return dst, nil
}

// DecodeString decodes 2*N octets as text of the same length. No
// trimming is performed; trailing padding (typically spaces) is
// preserved for the caller to trim as it sees fit.
func DecodeString(b []byte) (string, error) {
	if len(b)%2 != 0 {
		return "", NewInvalidArgument("string data must be an even number of bytes")
	}
	return string(b), nil
}

// EncodeBit encodes a coil value (0 or 1) as the 2 octet wire value fc=5
// expects: 0xFF00 for 1, 0x0000 for 0.
func EncodeBit(v uint8) ([]byte, error) {
	switch v {
	case 0:
		return []byte{0x00, 0x00}, nil
	case 1:
		return []byte{0xFF, 0x00}, nil
	default:
		return nil, NewValueOutOfRange("bit value must be 0 or 1")
	}
}

// DecodeBit decodes a coil wire value, accepting exactly 0xFF00 or
// 0x0000 and returning 1 or 0 respectively.
func DecodeBit(b []byte) (uint8, error) {
	if len(b) != 2 {
		return 0, NewInvalidArgument("DecodeBit requires exactly 2 bytes")
	}
	switch {
	case b[0] == 0xFF && b[1] == 0x00:
		return 1, nil
	case b[0] == 0x00 && b[1] == 0x00:
		return 0, nil
	default:
		return 0, NewInvalidResponse("coil value is neither 0x0000 nor 0xFF00", b)
	}
}

// PackBits packs a sequence of {0,1} values into ceil(n/8) octets,
// LSB-first within each octet (bit 0 of the sequence is the least
// significant bit of the first octet).
func PackBits(bits []uint8) ([]byte, error) {
	out := make([]byte, (len(bits)+7)/8)
	for i, bit := range bits {
		if bit > 1 {
			return nil, NewValueOutOfRange("bit values must be 0 or 1")
		}
		if bit == 1 {
			out[i/8] |= 1 << uint(i%8)
		}
	}
	return out, nil
}

// UnpackBits unpacks count bits from octets, LSB-first within each
// octet, the inverse of PackBits. Bits beyond count that a lenient slave
// set in the final octet are silently ignored (see spec Open Question
// on fc=1/fc=2 trailing-bit tolerance).
func UnpackBits(octets []byte, count int) ([]uint8, error) {
	if count < 0 {
		return nil, NewInvalidArgument("count must not be negative")
	}
	needed := (count + 7) / 8
	if len(octets) < needed {
		return nil, NewInvalidArgument("not enough octets for requested bit count")
	}
	out := make([]uint8, count)
	for i := 0; i < count; i++ {
		b := octets[i/8]
		if b&(1<<uint(i%8)) != 0 {
			out[i] = 1
		}
	}
	return out, nil
}

// ScaleToRegister converts number, scaled by 10^decimals and rounded to
// the nearest integer, into a register value. When signed is true the
// result is encoded as a two's-complement int16 reinterpreted as u16;
// otherwise it must fit in uint16.
func ScaleToRegister(number float64, decimals int, signed bool) (uint16, error) {
	scaled := math.Round(number * math.Pow10(decimals))
	if signed {
		if scaled < math.MinInt16 || scaled > math.MaxInt16 {
			return 0, NewValueOutOfRange("scaled value does not fit in int16")
		}
		return uint16(int16(scaled)), nil
	}
	if scaled < 0 || scaled > math.MaxUint16 {
		return 0, NewValueOutOfRange("scaled value does not fit in uint16")
	}
	return uint16(scaled), nil
}

// ScaleFromRegister converts a register value back to a number by
// dividing by 10^decimals.
func ScaleFromRegister(reg uint16, decimals int, signed bool) float64 {
	var v float64
	if signed {
		v = float64(int16(reg))
	} else {
		v = float64(reg)
	}
	return v / math.Pow10(decimals)
}
