package frame

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeU16I16(t *testing.T) {
	u, err := DecodeU16(EncodeU16(18600))
	require.NoError(t, err)
	assert.Equal(t, uint16(18600), u)

	i, err := DecodeI16(EncodeI16(-1234))
	require.NoError(t, err)
	assert.Equal(t, int16(-1234), i)
}

func TestEncodeDecodeU32I32_allByteOrders(t *testing.T) {
	orders := []ByteOrder{BIG, LITTLE, BIGSWAP, LITTLESWAP}
	for _, order := range orders {
		u, err := DecodeU32(EncodeU32(0xAABBCCDD, order), order)
		require.NoError(t, err)
		assert.Equal(t, uint32(0xAABBCCDD), u, "order=%v", order)

		i, err := DecodeI32(EncodeI32(-123456, order), order)
		require.NoError(t, err)
		assert.Equal(t, int32(-123456), i, "order=%v", order)
	}
}

func TestByteOrderWireLayout(t *testing.T) {
	// logical big-endian [A,B,C,D] = 0x01020304
	v := uint32(0x01020304)
	assert.Equal(t, []byte{0x01, 0x02, 0x03, 0x04}, EncodeU32(v, BIG))
	assert.Equal(t, []byte{0x02, 0x01, 0x04, 0x03}, EncodeU32(v, BIGSWAP))
	assert.Equal(t, []byte{0x03, 0x04, 0x01, 0x02}, EncodeU32(v, LITTLESWAP))
	assert.Equal(t, []byte{0x04, 0x03, 0x02, 0x01}, EncodeU32(v, LITTLE))
}

func TestEncodeDecodeU64I64_allByteOrders(t *testing.T) {
	orders := []ByteOrder{BIG, LITTLE, BIGSWAP, LITTLESWAP}
	for _, order := range orders {
		u, err := DecodeU64(EncodeU64(0x0102030405060708, order), order)
		require.NoError(t, err)
		assert.Equal(t, uint64(0x0102030405060708), u, "order=%v", order)
	}
}

func TestEncodeDecodeFloat32(t *testing.T) {
	for _, order := range []ByteOrder{BIG, LITTLE, BIGSWAP, LITTLESWAP} {
		enc, err := EncodeF32(200.0, order)
		require.NoError(t, err)
		dec, err := DecodeF32(enc, order)
		require.NoError(t, err)
		assert.Equal(t, float32(200.0), dec)
	}

	_, err := EncodeF32(float32(math.NaN()), BIG)
	assert.Error(t, err)
}

func TestEncodeDecodeFloat64(t *testing.T) {
	enc, err := EncodeF64(3.14159, BIG)
	require.NoError(t, err)
	dec, err := DecodeF64(enc, BIG)
	require.NoError(t, err)
	assert.InDelta(t, 3.14159, dec, 0.00001)

	_, err = EncodeF64(math.Inf(1), BIG)
	assert.Error(t, err)
}

func TestEncodeDecodeString(t *testing.T) {
	enc, err := EncodeString("hi", 4)
	require.NoError(t, err)
	assert.Equal(t, []byte("hi      "), enc)

	dec, err := DecodeString(enc)
	require.NoError(t, err)
	assert.Equal(t, "hi      ", dec)

	_, err = EncodeString("too long for two registers", 2)
	assert.Error(t, err)
}

func TestEncodeDecodeBit(t *testing.T) {
	one, err := EncodeBit(1)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xFF, 0x00}, one)

	zero, err := EncodeBit(0)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0x00}, zero)

	_, err = EncodeBit(2)
	assert.Error(t, err)

	v, err := DecodeBit([]byte{0xFF, 0x00})
	require.NoError(t, err)
	assert.Equal(t, uint8(1), v)

	_, err = DecodeBit([]byte{0x12, 0x34})
	assert.Error(t, err)
}

func TestPackUnpackBits(t *testing.T) {
	bits := []uint8{1, 0, 1, 1, 0, 0, 0, 1, 1}
	packed, err := PackBits(bits)
	require.NoError(t, err)
	assert.Equal(t, 2, len(packed))

	unpacked, err := UnpackBits(packed, len(bits))
	require.NoError(t, err)
	assert.Equal(t, bits, unpacked)
}

func TestUnpackBits_toleratesExtraTrailingBits(t *testing.T) {
	// slave sets bits beyond bit_count in the padding of the last octet;
	// spec Open Question (a): extra bits are masked off, not an error.
	octet := []byte{0b11111101} // bit_count=3 would want only bits 0..2
	unpacked, err := UnpackBits(octet, 3)
	require.NoError(t, err)
	assert.Equal(t, []uint8{1, 0, 1}, unpacked)
}

func TestScaleRoundTrip(t *testing.T) {
	for k := 0; k <= 65535; k += 997 {
		for d := 0; d <= 4; d++ {
			number := ScaleFromRegister(uint16(k), d, false)
			back, err := ScaleToRegister(number, d, false)
			require.NoError(t, err)
			assert.Equal(t, uint16(k), back, "k=%d d=%d", k, d)
		}
	}
}

func TestScaleToRegister_outOfRange(t *testing.T) {
	_, err := ScaleToRegister(999999, 0, false)
	assert.Error(t, err)
}
