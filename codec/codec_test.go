package codec

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	burst "github.com/wippyai/burst"
	"github.com/wippyai/burst/bus"
	"github.com/wippyai/burst/errors"
)

func roundTrip[T burst.Integer](t *testing.T, vals ...T) {
	t.Helper()
	mem := bus.NewBytes(3 * Stride[T]())
	for _, v := range vals {
		// Offset by one byte to exercise unaligned addresses.
		require.NoError(t, Encode(mem, 1, v))
		got, err := Decode[T](mem, 1)
		require.NoError(t, err)
		assert.Equal(t, v, got, "round trip of %v as %s", v, TypeName[T]())
	}
}

func TestRoundTrip(t *testing.T) {
	roundTrip[int8](t, 0, 1, -1, math.MinInt8, math.MaxInt8)
	roundTrip[uint8](t, 0, 1, 0x80, math.MaxUint8)
	roundTrip[int16](t, 0, -2, 0x1234, math.MinInt16, math.MaxInt16)
	roundTrip[uint16](t, 0, 0xbeef, math.MaxUint16)
	roundTrip[int32](t, 0, -1, 24, 0x01020304, math.MinInt32, math.MaxInt32)
	roundTrip[uint32](t, 0, 0xdeadbeef, math.MaxUint32)
	roundTrip[int64](t, 0, -1, math.MinInt64, math.MaxInt64)
	roundTrip[uint64](t, 0, 0x0102030405060708, math.MaxUint64)
	roundTrip[int](t, 0, -12345, math.MaxInt)
	roundTrip[uint](t, 0, math.MaxUint)
}

func TestRoundTripExhaustive16(t *testing.T) {
	mem := bus.NewBytes(2)
	for i := 0; i <= math.MaxUint16; i++ {
		v := int16(uint16(i))
		require.NoError(t, Encode(mem, 0, v))
		got, err := Decode[int16](mem, 0)
		require.NoError(t, err)
		if got != v {
			t.Fatalf("round trip of %d: got %d", v, got)
		}
	}
}

func TestLittleEndianLayout(t *testing.T) {
	mem := bus.NewBytes(8)
	require.NoError(t, Encode[uint32](mem, 2, 0x0a0b0c0d))
	assert.Equal(t, bus.Bytes{0, 0, 0x0d, 0x0c, 0x0b, 0x0a, 0, 0}, mem)

	require.NoError(t, Encode[int16](mem, 0, -2))
	assert.Equal(t, byte(0xfe), mem[0])
	assert.Equal(t, byte(0xff), mem[1])
}

func TestStride(t *testing.T) {
	assert.Equal(t, 1, Stride[uint8]())
	assert.Equal(t, 2, Stride[int16]())
	assert.Equal(t, 4, Stride[int32]())
	assert.Equal(t, 8, Stride[uint64]())
	assert.Equal(t, "int32", TypeName[int32]())
}

func TestAddr(t *testing.T) {
	assert.Equal(t, uint64(16), Addr[int32](0, 4))
	assert.Equal(t, uint64(10), Addr[int16](4, 3))
	assert.Equal(t, uint64(4), Addr[int32](8, -1))
}

func TestIndexedAccess(t *testing.T) {
	mem := bus.NewBytes(16)
	for i := 0; i < 4; i++ {
		require.NoError(t, EncodeAt(mem, 0, i, int32(i*100-50)))
	}
	for i := 0; i < 4; i++ {
		got, err := DecodeAt[int32](mem, 0, i)
		require.NoError(t, err)
		assert.Equal(t, int32(i*100-50), got)
	}
}

func TestSlices(t *testing.T) {
	mem := bus.NewBytes(20)
	in := []uint16{1, 2, 3, 0xffff}
	require.NoError(t, EncodeSlice(mem, 4, in))

	out, err := DecodeSlice[uint16](mem, 4, len(in))
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestBusFault(t *testing.T) {
	mem := bus.NewBytes(6)

	err := Encode[int32](mem, 4, 0x11223344)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrBusFault)
	assert.ErrorIs(t, err, &errors.Error{Phase: errors.PhaseEncode, Kind: errors.KindBusFault})
	// Bytes inside the bus were written before the fault.
	assert.Equal(t, byte(0x44), mem[4])
	assert.Equal(t, byte(0x33), mem[5])

	_, err = Decode[int64](mem, 0)
	assert.ErrorIs(t, err, &errors.Error{Phase: errors.PhaseDecode, Kind: errors.KindBusFault})

	_, err = DecodeSlice[int32](mem, 0, 2)
	assert.ErrorIs(t, err, errors.ErrBusFault)

	err = EncodeSlice(mem, 0, []int32{1, 2})
	assert.ErrorIs(t, err, errors.ErrBusFault)
}
