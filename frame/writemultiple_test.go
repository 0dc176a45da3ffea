package frame

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildWriteMultipleRegistersRequest_bounds(t *testing.T) {
	values := make([]uint16, MaxRegistersPerWriteRequest)
	_, err := BuildWriteMultipleRegistersRequest(0, values)
	assert.NoError(t, err, "count=123 must succeed")

	values = make([]uint16, MaxRegistersPerWriteRequest+1)
	_, err = BuildWriteMultipleRegistersRequest(0, values)
	assert.Error(t, err, "count=124 must raise ValueOutOfRange")

	_, err = BuildWriteMultipleRegistersRequest(0, nil)
	assert.Error(t, err)
}

func TestWriteMultipleRegisters_scenario(t *testing.T) {
	// write_register(4097, 325.8, 1) slave=10 -> payload encodes register
	// value 0x0CBA, one register.
	req, err := BuildWriteMultipleRegistersRequest(4097, []uint16{0x0CBA})
	require.NoError(t, err)
	frame := AssembleRTU(10, FuncWriteMultipleRegisters, req)
	assert.Equal(t, []byte{0x0A, 0x10, 0x10, 0x01, 0x00, 0x01, 0x02, 0x0C, 0xBA, 0x41, 0xC3}, frame)

	resp := []byte{0x10, 0x01, 0x00, 0x01}
	err = ParseWriteMultipleRegistersResponse(resp, 4097, 1)
	assert.NoError(t, err)

	err = ParseWriteMultipleRegistersResponse(resp, 4097, 2)
	assert.Error(t, err)
}

func TestBuildWriteMultipleCoilsRequest_bounds(t *testing.T) {
	bits := make([]uint8, MaxCoilsPerRequest)
	_, err := BuildWriteMultipleCoilsRequest(0, bits)
	assert.NoError(t, err)

	bits = make([]uint8, MaxCoilsPerRequest+1)
	_, err = BuildWriteMultipleCoilsRequest(0, bits)
	assert.Error(t, err)
}

func TestWriteMultipleCoils_echoMismatch(t *testing.T) {
	resp := []byte{0x00, 0x01, 0x00, 0x03}
	err := ParseWriteMultipleCoilsResponse(resp, 1, 3)
	assert.NoError(t, err)

	err = ParseWriteMultipleCoilsResponse(resp, 1, 4)
	assert.Error(t, err)
}
