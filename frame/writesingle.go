package frame

import (
	"bytes"
	"fmt"
)

// Payload shapes for fc=5 (Write Single Coil) and fc=6 (Write Single
// Register). Both echo the exact request bytes as their response.
//
// fc=5 request/response = addr(2) | value(2), value in {0x0000, 0xFF00}
// fc=6 request/response = addr(2) | value(2)

// BuildWriteSingleCoilRequest builds the request payload for fc=5.
// value must be 0 or 1 (translated to the wire's 0x0000/0xFF00 by
// EncodeBit).
func BuildWriteSingleCoilRequest(addr uint16, value uint8) ([]byte, error) {
	wire, err := EncodeBit(value)
	if err != nil {
		return nil, err
	}
	payload := make([]byte, 4)
	copy(payload[0:2], EncodeU16(addr))
	copy(payload[2:4], wire)
	return payload, nil
}

// WriteSingleResponseLength is the fixed response payload length for
// fc=5/fc=6: the 4 byte request header echoed back.
const WriteSingleResponseLength = 4

// ParseWriteSingleCoilResponse validates that the response payload
// echoes the request's address and coil value exactly.
func ParseWriteSingleCoilResponse(payload, requestPayload []byte) error {
	return verifyEcho(payload, requestPayload, "write-single-coil")
}

// BuildWriteSingleRegisterRequest builds the request payload for fc=6.
func BuildWriteSingleRegisterRequest(addr, value uint16) []byte {
	payload := make([]byte, 4)
	copy(payload[0:2], EncodeU16(addr))
	copy(payload[2:4], EncodeU16(value))
	return payload
}

// ParseWriteSingleRegisterResponse validates that the response payload
// echoes the request's address and register value exactly.
func ParseWriteSingleRegisterResponse(payload, requestPayload []byte) error {
	return verifyEcho(payload, requestPayload, "write-single-register")
}

func verifyEcho(payload, requestPayload []byte, op string) error {
	if len(payload) != len(requestPayload) {
		return NewInvalidResponse(fmt.Sprintf("%s response length %d does not match request length %d", op, len(payload), len(requestPayload)), payload)
	}
	if !bytes.Equal(payload, requestPayload) {
		return NewInvalidResponse(fmt.Sprintf("%s response does not echo request", op), payload)
	}
	return nil
}
