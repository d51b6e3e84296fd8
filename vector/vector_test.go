package vector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	burst "github.com/wippyai/burst"
	"github.com/wippyai/burst/alloc"
	"github.com/wippyai/burst/bus"
	"github.com/wippyai/burst/errors"
	"github.com/wippyai/burst/region"
)

func newRegion(t *testing.T, size uint64) *region.Region {
	t.Helper()
	r, err := region.New(bus.NewBytes(int(size)), size)
	require.NoError(t, err)
	return r
}

func TestElementEdits(t *testing.T) {
	r := newRegion(t, 256)
	v, err := From[int32](alloc.ForRegion[int32](r), []int32{0, 1, 2, 3, 4, 5, 6, 7})
	require.NoError(t, err)
	assert.Equal(t, 8, v.Len())
	assert.Equal(t, 8, v.Cap())
	assert.Equal(t, uint64(32), r.Used(), "From allocates exactly once")

	p, err := v.At(1)
	require.NoError(t, err)
	p.Set(2)
	v.Index(2).Set(v.Index(1).Get() + 1)
	v.Front().Set(1)
	v.Back().Set(8)

	assert.Equal(t, []int32{1, 2, 3, 3, 4, 5, 6, 8}, v.Values())
}

func TestPushBackGrowth(t *testing.T) {
	r := newRegion(t, 1024)
	v := New[int16](alloc.ForRegion[int16](r))
	assert.True(t, v.Empty())
	assert.Equal(t, 0, v.Cap())

	var caps []int
	for i := 0; i < 9; i++ {
		require.NoError(t, v.PushBack(int16(i*11)))
		caps = append(caps, v.Cap())
	}
	assert.Equal(t, []int{1, 2, 4, 4, 8, 8, 8, 8, 16}, caps)
	assert.Equal(t, []int16{0, 11, 22, 33, 44, 55, 66, 77, 88}, v.Values())
	assert.Equal(t, uint64(2*(1+2+4+8+16)), r.Used())
	assert.Equal(t, uint64(4), r.Stats().Releases, "each growth releases the old block")
}

func TestPushBackPreservesContent(t *testing.T) {
	v, err := From[int64](alloc.Heap[int64](), []int64{-1, 1 << 40, 3})
	require.NoError(t, err)

	require.NoError(t, v.PushBack(4))
	assert.Equal(t, 6, v.Cap())
	assert.Equal(t, []int64{-1, 1 << 40, 3, 4}, v.Values())
}

func TestReserveAndShrink(t *testing.T) {
	r := newRegion(t, 256)
	v, err := From[int32](alloc.ForRegion[int32](r), []int32{1, 2, 3})
	require.NoError(t, err)

	require.NoError(t, v.Reserve(2))
	assert.Equal(t, 3, v.Cap(), "reserve never shrinks")

	require.NoError(t, v.Reserve(10))
	assert.Equal(t, 10, v.Cap())
	assert.Equal(t, []int32{1, 2, 3}, v.Values())
	used := r.Used()

	require.NoError(t, v.ShrinkToFit())
	assert.Equal(t, 3, v.Cap())
	assert.Equal(t, []int32{1, 2, 3}, v.Values())
	assert.Equal(t, used+12, r.Used())

	require.NoError(t, v.ShrinkToFit())
	assert.Equal(t, used+12, r.Used(), "shrinking a full vector does not allocate")

	v.Clear()
	require.NoError(t, v.ShrinkToFit())
	assert.Equal(t, 0, v.Cap())
	assert.True(t, v.Begin().IsNil())
}

func TestAccessErrors(t *testing.T) {
	v, err := From[int8](alloc.Heap[int8](), []int8{1, 2})
	require.NoError(t, err)

	_, err = v.At(2)
	assert.ErrorIs(t, err, errors.ErrOutOfBounds)
	_, err = v.At(-1)
	assert.ErrorIs(t, err, errors.ErrOutOfBounds)

	empty := New[int8](alloc.Heap[int8]())
	assert.PanicsWithError(t, errors.Precondition(errors.PhaseAccess, "Front on empty vector").Error(), func() {
		empty.Front()
	})
	assert.Panics(t, func() { empty.Back() })
	assert.Panics(t, func() { empty.PopBack() })
}

func TestPopBackAndClear(t *testing.T) {
	v, err := From[uint16](alloc.Heap[uint16](), []uint16{10, 20, 30})
	require.NoError(t, err)

	assert.Equal(t, uint16(30), v.PopBack())
	assert.Equal(t, 2, v.Len())
	assert.Equal(t, 3, v.Cap())

	require.NoError(t, v.PushBack(40))
	assert.Equal(t, []uint16{10, 20, 40}, v.Values())

	v.Clear()
	assert.True(t, v.Empty())
	assert.Equal(t, 3, v.Cap())
	assert.Empty(t, v.Values())
}

func TestMaxSizeLimit(t *testing.T) {
	r := newRegion(t, 16)
	v := New[int32](alloc.ForRegion[int32](r))
	assert.Equal(t, 4, v.MaxSize())

	require.NoError(t, v.Reserve(4))
	for i := 0; i < 4; i++ {
		require.NoError(t, v.PushBack(int32(i)))
	}

	err := v.Reserve(5)
	assert.ErrorIs(t, err, errors.ErrCapacityExceeded)
	assert.Equal(t, 4, v.Cap())

	err = v.PushBack(99)
	assert.ErrorIs(t, err, errors.ErrCapacityExceeded)
	assert.Equal(t, []int32{0, 1, 2, 3}, v.Values(), "failed growth leaves the vector unchanged")
}

func TestRegionExhausted(t *testing.T) {
	r := newRegion(t, 24)
	v, err := From[int32](alloc.ForRegion[int32](r), []int32{1, 2, 3, 4})
	require.NoError(t, err)

	err = v.Reserve(5)
	assert.ErrorIs(t, err, errors.ErrCapacityExceeded)
	assert.Equal(t, []int32{1, 2, 3, 4}, v.Values())
	assert.Equal(t, uint64(16), r.Used())
}

func TestNewLen(t *testing.T) {
	mem := bus.NewBytes(16)
	for i := range mem {
		mem[i] = 0xaa
	}
	r, err := region.New(mem, 16)
	require.NoError(t, err)

	v, err := NewLen[int32](alloc.ForRegion[int32](r), 3)
	require.NoError(t, err)
	assert.Equal(t, []int32{0, 0, 0}, v.Values())

	_, err = NewLen[int32](alloc.ForRegion[int32](r), -1)
	assert.ErrorIs(t, err, errors.ErrInvalidInput)

	empty, err := NewLen[int32](alloc.ForRegion[int32](r), 0)
	require.NoError(t, err)
	assert.True(t, empty.Empty())
}

func TestDefaultAllocator(t *testing.T) {
	g := region.Default()
	g.Unbind(burst.Region0)

	v := New[int32](nil)
	assert.True(t, v.Allocator().Equal(alloc.Default[int32]()))
	assert.Equal(t, 0, v.MaxSize())

	err := v.PushBack(1)
	assert.ErrorIs(t, err, errors.ErrUnbound)

	require.NoError(t, region.Init(bus.NewBytes(64), 64, burst.Region0))
	t.Cleanup(func() { g.Unbind(burst.Region0) })

	require.NoError(t, v.PushBack(1))
	require.NoError(t, v.PushBack(2))
	assert.Equal(t, []int32{1, 2}, v.Values())
}

func TestReleaseAndIterate(t *testing.T) {
	r := newRegion(t, 64)
	v, err := From[int32](alloc.ForRegion[int32](r), []int32{5, 6, 7})
	require.NoError(t, err)

	sum := int32(0)
	for i, x := range v.All() {
		assert.Equal(t, int32(5+i), x)
		sum += x
	}
	assert.Equal(t, int32(18), sum)
	assert.Equal(t, 3, v.End().Distance(v.Begin()))

	v.Release()
	assert.Equal(t, 0, v.Len())
	assert.Equal(t, 0, v.Cap())
	assert.Equal(t, uint64(1), r.Stats().Releases)

	v.Release()
	assert.Equal(t, uint64(1), r.Stats().Releases)
}
