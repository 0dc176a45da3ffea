package frame

import "fmt"

// Payload shapes for fc=3 (Read Holding Registers) and fc=4 (Read Input
// Registers). Both share an identical request/response shape.
//
// request  = start_addr(2) | reg_count(2)
// response = byte_count(1) | values(2*reg_count)

// BuildReadRegistersRequest builds the request payload for fc=3/fc=4.
// regCount must be in [1, MaxRegistersPerReadRequest].
func BuildReadRegistersRequest(startAddr, regCount uint16) ([]byte, error) {
	if regCount < 1 || regCount > MaxRegistersPerReadRequest {
		return nil, NewValueOutOfRange(fmt.Sprintf("reg_count must be in [1,%d], got %d", MaxRegistersPerReadRequest, regCount))
	}
	payload := make([]byte, 4)
	copy(payload[0:2], EncodeU16(startAddr))
	copy(payload[2:4], EncodeU16(regCount))
	return payload, nil
}

// ReadRegistersResponseLength returns the expected response payload
// length (byte_count field + register data) for a fc=3/fc=4 request of
// the given regCount.
func ReadRegistersResponseLength(regCount uint16) int {
	return 1 + 2*int(regCount)
}

// ParseReadRegistersResponse validates and extracts the raw register
// bytes from a fc=3/fc=4 response payload. regCount must be the same
// value used to build the request.
func ParseReadRegistersResponse(payload []byte, regCount uint16) ([]byte, error) {
	if len(payload) < 1 {
		return nil, NewInvalidResponse("read-registers response missing byte-count field", payload)
	}
	byteCount := int(payload[0])
	want := 2 * int(regCount)
	if byteCount != want {
		return nil, NewInvalidResponse(fmt.Sprintf("read-registers response byte_count %d does not match expected %d", byteCount, want), payload)
	}
	if len(payload) != 1+byteCount {
		return nil, NewInvalidResponse("read-registers response length does not match its own byte_count field", payload)
	}
	return payload[1:], nil
}
