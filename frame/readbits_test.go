package frame

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildReadBitsRequest_bounds(t *testing.T) {
	_, err := BuildReadBitsRequest(0, 2000)
	assert.NoError(t, err)

	_, err = BuildReadBitsRequest(0, 2001)
	assert.Error(t, err)

	_, err = BuildReadBitsRequest(0, 0)
	assert.Error(t, err)
}

func TestReadBits_scenario4(t *testing.T) {
	// read_bit(2068) slave=10 -> request 0A 02 08 14 00 01 FA D5
	payload, err := BuildReadBitsRequest(2068, 1)
	require.NoError(t, err)
	frame := AssembleRTU(10, FuncReadDiscreteInputs, payload)
	assert.Equal(t, []byte{0x0A, 0x02, 0x08, 0x14, 0x00, 0x01, 0xFA, 0xD5}, frame)

	// response 0A 02 01 00 A3 AC -> decoded value 0
	resp := []byte{0x0A, 0x02, 0x01, 0x00, 0xA3, 0xAC}
	respPayload, err := ParseRTU(resp, 10, FuncReadDiscreteInputs)
	require.NoError(t, err)
	bits, err := ParseReadBitsResponse(respPayload, 1)
	require.NoError(t, err)
	assert.Equal(t, []uint8{0}, bits)
}

func TestParseReadBitsResponse_byteCountMismatch(t *testing.T) {
	_, err := ParseReadBitsResponse([]byte{0x02, 0x01}, 1)
	assert.Error(t, err)
}
