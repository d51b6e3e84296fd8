package bus

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWindow(t *testing.T) {
	mem := NewBytes(16)

	lo, err := NewWindow(mem, 0, 8)
	require.NoError(t, err)
	hi, err := NewWindow(mem, 8, 8)
	require.NoError(t, err)
	assert.Equal(t, uint64(8), hi.Size())
	assert.Equal(t, uint64(8), hi.Offset())

	require.True(t, lo.StoreByte(0, 0x11))
	require.True(t, hi.StoreByte(0, 0x22))
	assert.Equal(t, byte(0x11), mem[0])
	assert.Equal(t, byte(0x22), mem[8])

	v, ok := hi.LoadByte(7)
	require.True(t, ok)
	assert.Equal(t, byte(0), v)

	assert.False(t, lo.StoreByte(8, 0xff), "store past the window must fail")
	assert.Equal(t, byte(0x22), mem[8])
	_, ok = hi.LoadByte(8)
	assert.False(t, ok)
}

func TestWindow_Bounds(t *testing.T) {
	mem := NewBytes(16)

	_, err := NewWindow(mem, 8, 9)
	assert.Error(t, err)
	_, err = NewWindow(mem, ^uint64(0), 2)
	assert.Error(t, err, "offset+size overflow")
	_, err = NewWindow(nil, 0, 1)
	assert.Error(t, err)

	empty, err := NewWindow(mem, 16, 0)
	require.NoError(t, err)
	_, ok := empty.LoadByte(0)
	assert.False(t, ok)
}

func TestWindow_WasmMemory(t *testing.T) {
	ctx := context.Background()
	wm, err := NewWasmMemory(ctx, 1)
	require.NoError(t, err)
	defer wm.Close(ctx)

	w, err := NewWindow(wm, PageSize-4, 4)
	require.NoError(t, err)
	require.True(t, w.StoreByte(3, 0x7f))

	v, ok := wm.LoadByte(PageSize - 1)
	require.True(t, ok)
	assert.Equal(t, byte(0x7f), v)
}
