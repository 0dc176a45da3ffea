package frame

import "fmt"

// Payload shapes for fc=1 (Read Coils) and fc=2 (Read Discrete Inputs).
// Both function codes share an identical request/response shape; only
// the function code value differs (coils are read/write, discrete
// inputs are read-only, a distinction enforced by the Instrument facade,
// not by this package).
//
// request  = start_addr(2) | bit_count(2)
// response = byte_count(1) | packed_bits(ceil(bit_count/8))

// BuildReadBitsRequest builds the request payload for fc=1/fc=2.
// bitCount must be in [1, MaxCoilsPerRequest].
func BuildReadBitsRequest(startAddr, bitCount uint16) ([]byte, error) {
	if bitCount < 1 || bitCount > MaxCoilsPerRequest {
		return nil, NewValueOutOfRange(fmt.Sprintf("bit_count must be in [1,%d], got %d", MaxCoilsPerRequest, bitCount))
	}
	payload := make([]byte, 4)
	copy(payload[0:2], EncodeU16(startAddr))
	copy(payload[2:4], EncodeU16(bitCount))
	return payload, nil
}

// ReadBitsResponseLength returns the expected response payload length
// (byte_count field + packed bit data) for a fc=1/fc=2 request of the
// given bitCount.
func ReadBitsResponseLength(bitCount uint16) int {
	return 1 + coilByteCount(bitCount)
}

func coilByteCount(bitCount uint16) int {
	return (int(bitCount) + 7) / 8
}

// ParseReadBitsResponse validates and extracts the packed bits from a
// fc=1/fc=2 response payload (the bytes already isolated by the
// Framer - i.e. without addr/fc/frame-check). bitCount must be the same
// value used to build the request.
func ParseReadBitsResponse(payload []byte, bitCount uint16) ([]uint8, error) {
	if len(payload) < 1 {
		return nil, NewInvalidResponse("read-bits response missing byte-count field", payload)
	}
	byteCount := int(payload[0])
	want := coilByteCount(bitCount)
	if byteCount != want {
		return nil, NewInvalidResponse(fmt.Sprintf("read-bits response byte_count %d does not match expected %d", byteCount, want), payload)
	}
	if len(payload) != 1+byteCount {
		return nil, NewInvalidResponse("read-bits response length does not match its own byte_count field", payload)
	}
	return UnpackBits(payload[1:], int(bitCount))
}
