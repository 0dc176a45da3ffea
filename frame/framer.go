package frame

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
)

// This file implements the Framer component: embedding a payload into an
// RTU or ASCII frame and reversing that operation on received bytes.
//
// Grounded on the teacher's per-function Bytes()/Parse*() pairs
// (packet/readholdingregistersrequest.go et al.) for the RTU CRC
// placement, and on other_examples' xxandev-modbus asciiClient for the
// ':'+hex+LRC+CRLF shape.

const (
	asciiStart = ':'
	asciiCR    = '\r'
	asciiLF    = '\n'
)

// AssembleRTU builds an RTU frame: addr | fc | payload | CRC16(lo,hi).
func AssembleRTU(addr, fc uint8, payload []byte) []byte {
	frameLen := 2 + len(payload)
	out := make([]byte, frameLen+2)
	out[0] = addr
	out[1] = fc
	copy(out[2:], payload)
	crc := CRC16(out[:frameLen])
	binary.LittleEndian.PutUint16(out[frameLen:], crc)
	return out
}

// ParseRTU reverses AssembleRTU, validating the CRC, the slave address
// match and extracting an exception when the function code's high bit
// is set. On success it returns the payload bytes (the frame minus
// addr, fc and CRC).
func ParseRTU(data []byte, wantAddr, wantFC uint8) (payload []byte, err error) {
	if len(data) < 4 {
		return nil, NewInvalidResponse("RTU frame shorter than minimum 4 bytes", data)
	}
	body := data[:len(data)-2]
	gotCRC := binary.LittleEndian.Uint16(data[len(data)-2:])
	wantCRC := CRC16(body)
	if gotCRC != wantCRC {
		return nil, NewChecksumMismatch(data)
	}
	return parseFrameBody(body, wantAddr, wantFC, data)
}

// AssembleASCII builds an ASCII frame: ':' | hex(addr) | hex(fc) |
// hex(payload) | hex(LRC) | CR | LF, using uppercase hex digits.
func AssembleASCII(addr, fc uint8, payload []byte) []byte {
	body := make([]byte, 2+len(payload))
	body[0] = addr
	body[1] = fc
	copy(body[2:], payload)
	lrc := LRC(body)

	hexLen := hex.EncodedLen(len(body) + 1)
	out := make([]byte, 0, 1+hexLen+2)
	out = append(out, asciiStart)
	out = appendUpperHex(out, body)
	out = appendUpperHex(out, []byte{lrc})
	out = append(out, asciiCR, asciiLF)
	return out
}

func appendUpperHex(dst, src []byte) []byte {
	const digits = "0123456789ABCDEF"
	for _, b := range src {
		dst = append(dst, digits[b>>4], digits[b&0x0F])
	}
	return dst
}

// ParseASCII reverses AssembleASCII: validates start/stop delimiters,
// hex well-formedness, the LRC, the slave address match, and extracts a
// slave exception when present. On success it returns the payload
// bytes.
func ParseASCII(data []byte, wantAddr, wantFC uint8) (payload []byte, err error) {
	if len(data) < 9 {
		return nil, NewInvalidResponse("ASCII frame shorter than minimum 9 bytes", data)
	}
	if data[0] != asciiStart {
		return nil, NewInvalidResponse("ASCII frame missing ':' start delimiter", data)
	}
	n := len(data)
	if data[n-2] != asciiCR || data[n-1] != asciiLF {
		return nil, NewInvalidResponse("ASCII frame missing CRLF stop delimiter", data)
	}
	hexBody := data[1 : n-2]
	if len(hexBody)%2 != 0 {
		return nil, NewInvalidResponse("ASCII frame body is not an even-length hex string", data)
	}
	raw := make([]byte, hex.DecodedLen(len(hexBody)))
	if _, decErr := hex.Decode(raw, hexBody); decErr != nil {
		return nil, NewInvalidResponse("ASCII frame body is not valid hex", data)
	}
	if len(raw) < 3 {
		return nil, NewInvalidResponse("ASCII frame decodes to fewer than 3 bytes", data)
	}
	body := raw[:len(raw)-1]
	gotLRC := raw[len(raw)-1]
	wantLRC := LRC(body)
	if gotLRC != wantLRC {
		return nil, NewChecksumMismatch(data)
	}
	return parseFrameBody(body, wantAddr, wantFC, data)
}

// parseFrameBody validates addr|fc|payload (frame-check already
// stripped and verified by the caller) against the expected slave
// address and function code, raising a SlaveException when the high bit
// of the function code is set.
func parseFrameBody(body []byte, wantAddr, wantFC uint8, rawFrame []byte) ([]byte, error) {
	if len(body) < 2 {
		return nil, NewInvalidResponse("frame body shorter than addr+fc", rawFrame)
	}
	gotAddr := body[0]
	gotFC := body[1]
	if gotAddr != wantAddr {
		return nil, NewInvalidResponse(fmt.Sprintf("response slave address %d does not match request %d", gotAddr, wantAddr), rawFrame)
	}
	if gotFC&exceptionFunctionBit != 0 {
		unmaskedFC := gotFC &^ exceptionFunctionBit
		if len(body) < 3 {
			return nil, NewInvalidResponse("exception response missing exception code byte", rawFrame)
		}
		return nil, NewSlaveException(unmaskedFC, body[2])
	}
	if gotFC != wantFC {
		return nil, NewInvalidResponse(fmt.Sprintf("response function code 0x%02x does not match request 0x%02x", gotFC, wantFC), rawFrame)
	}
	return body[2:], nil
}

// Assemble builds a frame in the given mode.
func Assemble(mode Mode, addr, fc uint8, payload []byte) []byte {
	if mode == ASCII {
		return AssembleASCII(addr, fc, payload)
	}
	return AssembleRTU(addr, fc, payload)
}

// Parse reverses Assemble for the given mode.
func Parse(mode Mode, data []byte, wantAddr, wantFC uint8) ([]byte, error) {
	if mode == ASCII {
		return ParseASCII(data, wantAddr, wantFC)
	}
	return ParseRTU(data, wantAddr, wantFC)
}
