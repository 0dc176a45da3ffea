package frame

import "fmt"

// Payload shapes for fc=15 (Write Multiple Coils) and fc=16 (Write
// Multiple Registers).
//
// fc=15 request  = start_addr(2) | bit_count(2) | byte_count(1) | packed_bits
//      response = start_addr(2) | bit_count(2)
// fc=16 request  = start_addr(2) | reg_count(2) | byte_count(1) | values
//      response = start_addr(2) | reg_count(2)

// BuildWriteMultipleCoilsRequest builds the request payload for fc=15.
// len(bits) must be in [1, MaxCoilsPerRequest].
func BuildWriteMultipleCoilsRequest(startAddr uint16, bits []uint8) ([]byte, error) {
	bitCount := len(bits)
	if bitCount < 1 || bitCount > MaxCoilsPerRequest {
		return nil, NewValueOutOfRange(fmt.Sprintf("bit_count must be in [1,%d], got %d", MaxCoilsPerRequest, bitCount))
	}
	packed, err := PackBits(bits)
	if err != nil {
		return nil, err
	}
	payload := make([]byte, 5+len(packed))
	copy(payload[0:2], EncodeU16(startAddr))
	copy(payload[2:4], EncodeU16(uint16(bitCount)))
	payload[4] = byte(len(packed))
	copy(payload[5:], packed)
	return payload, nil
}

// WriteMultipleResponseLength is the fixed response payload length for
// fc=15/fc=16: start_addr(2) + count(2) echoed back.
const WriteMultipleResponseLength = 4

// ParseWriteMultipleCoilsResponse validates that the response echoes the
// request's start address and bit count.
func ParseWriteMultipleCoilsResponse(payload []byte, startAddr, bitCount uint16) error {
	return verifyWriteMultipleEcho(payload, startAddr, bitCount, "write-multiple-coils")
}

// BuildWriteMultipleRegistersRequest builds the request payload for
// fc=16. len(values) must be in [1, MaxRegistersPerWriteRequest].
func BuildWriteMultipleRegistersRequest(startAddr uint16, values []uint16) ([]byte, error) {
	regCount := len(values)
	if regCount < 1 || regCount > MaxRegistersPerWriteRequest {
		return nil, NewValueOutOfRange(fmt.Sprintf("reg_count must be in [1,%d], got %d", MaxRegistersPerWriteRequest, regCount))
	}
	payload := make([]byte, 5+2*regCount)
	copy(payload[0:2], EncodeU16(startAddr))
	copy(payload[2:4], EncodeU16(uint16(regCount)))
	payload[4] = byte(2 * regCount)
	for i, v := range values {
		copy(payload[5+2*i:7+2*i], EncodeU16(v))
	}
	return payload, nil
}

// ParseWriteMultipleRegistersResponse validates that the response echoes
// the request's start address and register count.
func ParseWriteMultipleRegistersResponse(payload []byte, startAddr, regCount uint16) error {
	return verifyWriteMultipleEcho(payload, startAddr, regCount, "write-multiple-registers")
}

func verifyWriteMultipleEcho(payload []byte, startAddr, count uint16, op string) error {
	if len(payload) != WriteMultipleResponseLength {
		return NewInvalidResponse(fmt.Sprintf("%s response length %d does not match expected %d", op, len(payload), WriteMultipleResponseLength), payload)
	}
	gotAddr, _ := DecodeU16(payload[0:2])
	gotCount, _ := DecodeU16(payload[2:4])
	if gotAddr != startAddr || gotCount != count {
		return NewInvalidResponse(fmt.Sprintf("%s response does not echo request (addr %d/%d, count %d/%d)", op, gotAddr, startAddr, gotCount, count), payload)
	}
	return nil
}
