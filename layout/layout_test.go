package layout

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	burst "github.com/wippyai/burst"
	"github.com/wippyai/burst/bus"
	"github.com/wippyai/burst/errors"
	"github.com/wippyai/burst/region"
)

func TestParse(t *testing.T) {
	l, err := Parse([]byte(`
regions:
  - index: 3
    size: 64KiB
    backing: wasm
  - index: 0
    name: main
    size: 1KiB
    unit: 4
  - index: 1
    size: 4096
`))
	require.NoError(t, err)
	require.Len(t, l.Regions, 3)

	main := l.Regions[0]
	assert.Equal(t, uint8(0), main.Index)
	assert.Equal(t, "main", main.Name)
	assert.Equal(t, Size(1024), main.Size)
	assert.Equal(t, uint64(4), main.Unit)
	assert.Equal(t, BackingBytes, main.Backing)
	assert.Equal(t, uint64(256), main.Capacity())

	plain := l.Regions[1]
	assert.Equal(t, "region1", plain.Name)
	assert.Equal(t, Size(4096), plain.Size)
	assert.Equal(t, uint64(1), plain.Unit)

	assert.Equal(t, BackingWasm, l.Regions[2].Backing)
	assert.Equal(t, uint8(3), l.Regions[2].Index)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		msg  string
	}{
		{"empty", "regions: []", "no regions"},
		{"index out of range", "regions: [{index: 8, size: 16}]", "out of range"},
		{"duplicate index", "regions: [{index: 1, size: 16}, {index: 1, size: 16}]", "duplicate index"},
		{"zero size", "regions: [{index: 0, size: 0}]", "size must be positive"},
		{"unit mismatch", "regions: [{index: 0, size: 10, unit: 4}]", "not a multiple"},
		{"mmap without path", "regions: [{index: 0, size: 16, backing: mmap}]", "requires a path"},
		{"unknown backing", "regions: [{index: 0, size: 16, backing: disk}]", "unknown backing"},
		{"bad size", "regions: [{index: 0, size: lots}]", "invalid size"},
		{"bad yaml", "regions: {", "parse layout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.ErrorIs(t, err, errors.ErrConfig)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestSizeYAML(t *testing.T) {
	l := Default()
	out, err := l.Marshal()
	require.NoError(t, err)
	assert.Contains(t, string(out), "size: 1.0 KiB")

	back, err := Parse(out)
	require.NoError(t, err)
	assert.Equal(t, l.Regions, back.Regions)

	assert.Equal(t, "64 KiB", Size(64<<10).String())
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.yaml")
	require.NoError(t, os.WriteFile(path, []byte("regions: [{index: 2, size: 2KiB}]"), 0o644))

	l, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, uint8(2), l.Regions[0].Index)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, errors.ErrConfig)
}

func TestBindBytes(t *testing.T) {
	ctx := context.Background()
	g := region.NewRegistry()

	l, err := Parse([]byte("regions: [{index: 0, name: main, size: 32, unit: 4}, {index: 5, size: 16}]"))
	require.NoError(t, err)

	b, err := l.Bind(ctx, g)
	require.NoError(t, err)
	defer b.Close(ctx)

	r, err := g.Region(burst.Region0)
	require.NoError(t, err)
	assert.Equal(t, "main", r.Name())
	assert.Equal(t, uint64(8), r.Cap())
	assert.Equal(t, uint64(4), r.Unit())

	c, err := region.AllocateIn[int32](g, 8, burst.Region0)
	require.NoError(t, err)
	c.Add(7).Store(-2)
	mem := b.Bus(burst.Region0).(bus.Bytes)
	assert.Equal(t, []byte{0xfe, 0xff, 0xff, 0xff}, []byte(mem[28:32]))

	assert.True(t, g.Bound(burst.Region5))
	assert.Nil(t, b.Bus(burst.Region1))
}

func TestBindWasm(t *testing.T) {
	ctx := context.Background()
	g := region.NewRegistry()

	l, err := Parse([]byte("regions: [{index: 1, size: 100KiB, backing: wasm}]"))
	require.NoError(t, err)

	b, err := l.Bind(ctx, g)
	require.NoError(t, err)

	mem := b.Bus(burst.Region1)
	require.NotNil(t, mem)
	assert.Equal(t, uint64(2*bus.PageSize), mem.Size())

	r, err := g.Region(burst.Region1)
	require.NoError(t, err)
	assert.Equal(t, uint64(100<<10), r.Cap())

	c, err := region.AllocateIn[int64](g, 2, burst.Region1)
	require.NoError(t, err)
	c.Add(1).Store(1 << 50)
	assert.Equal(t, int64(1<<50), c.Add(1).Load())

	require.NoError(t, b.Close(ctx))
}

func TestBindMmap(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "region.bin")

	l := &Layout{Regions: []Region{{Index: 2, Size: 64, Backing: BackingMmap, Path: path}}}
	require.NoError(t, l.Validate())

	g := region.NewRegistry()
	b, err := l.Bind(ctx, g)
	require.NoError(t, err)

	c, err := region.AllocateIn[uint16](g, 1, burst.Region2)
	require.NoError(t, err)
	c.Store(0xbeef)
	require.NoError(t, b.Close(ctx))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Len(t, data, 64)
	assert.Equal(t, []byte{0xef, 0xbe}, data[:2])
}

func TestBindFailureRestoresSlots(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	g := region.NewRegistry()

	prevMem := bus.NewBytes(8)
	require.NoError(t, g.Init(prevMem, 8, burst.Region1))
	prev, err := g.Region(burst.Region1)
	require.NoError(t, err)

	l := &Layout{Regions: []Region{
		{Index: 0, Size: 16, Backing: BackingMmap, Path: filepath.Join(dir, "region0.bin")},
		{Index: 1, Size: 16, Backing: BackingBytes},
		{Index: 2, Size: 16, Backing: BackingMmap, Path: filepath.Join(dir, "missing", "region2.bin")},
	}}
	require.NoError(t, l.Validate())

	_, err = l.Bind(ctx, g)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrInvalidRegion)

	assert.False(t, g.Bound(burst.Region0), "slot bound by the failed call must be released")
	_, err = region.AllocateIn[int32](g, 1, burst.Region0)
	assert.ErrorIs(t, err, errors.ErrUnbound)

	r, err := g.Region(burst.Region1)
	require.NoError(t, err)
	assert.Same(t, prev, r, "earlier binding must be restored")
	c, err := region.AllocateIn[int32](g, 1, burst.Region1)
	require.NoError(t, err)
	c.Store(7)
	assert.Equal(t, []byte{7, 0, 0, 0}, []byte(prevMem[:4]))

	assert.False(t, g.Bound(burst.Region2))
}

func TestBindShared(t *testing.T) {
	ctx := context.Background()
	g := region.NewRegistry()

	l, err := Parse([]byte(`
regions:
  - index: 3
    size: 32KiB
    backing: wasm
    shared: guest
  - index: 4
    size: 16KiB
    offset: 48KiB
    backing: wasm
    shared: guest
`))
	require.NoError(t, err)

	b, err := l.Bind(ctx, g)
	require.NoError(t, err)
	defer b.Close(ctx)

	lo := b.Bus(burst.Region3).(*bus.Window)
	hi := b.Bus(burst.Region4).(*bus.Window)
	assert.Equal(t, uint64(32<<10), lo.Size())
	assert.Equal(t, uint64(48<<10), hi.Offset())

	a, err := region.AllocateIn[int32](g, 1, burst.Region3)
	require.NoError(t, err)
	c, err := region.AllocateIn[int32](g, 1, burst.Region4)
	require.NoError(t, err)
	a.Store(1)
	c.Store(2)
	assert.Equal(t, int32(1), a.Load(), "regions on one bus must not overlap")
	assert.Equal(t, int32(2), c.Load())

	v, ok := lo.LoadByte(0)
	require.True(t, ok)
	assert.Equal(t, byte(1), v)
	v, ok = hi.LoadByte(0)
	require.True(t, ok)
	assert.Equal(t, byte(2), v)

	assert.Len(t, b.closers, 1, "shared backing is created once")
}

func TestValidateShared(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		msg  string
	}{
		{"offset without shared", "regions: [{index: 0, size: 16, offset: 16}]", "requires a shared backing"},
		{"overlap", "regions: [{index: 0, size: 32, shared: s}, {index: 1, size: 16, offset: 16, shared: s}]", "overlaps"},
		{"mixed backing", "regions: [{index: 0, size: 16, shared: s}, {index: 1, size: 16, offset: 16, shared: s, backing: wasm}]", "different storage"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.ErrorIs(t, err, errors.ErrConfig)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestValidateBytesSizeLimit(t *testing.T) {
	l := &Layout{Regions: []Region{{Index: 0, Size: Size(uint64(math.MaxInt) + 1)}}}
	err := l.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrConfig)
	assert.Contains(t, err.Error(), "does not fit a byte slice")

	shared := &Layout{Regions: []Region{
		{Index: 0, Size: 16, Shared: "s"},
		{Index: 1, Size: 16, Offset: Size(math.MaxInt), Shared: "s"},
	}}
	assert.ErrorIs(t, shared.Validate(), errors.ErrConfig)

	wrap := &Layout{Regions: []Region{{Index: 0, Size: 16, Offset: Size(math.MaxUint64 - 8), Shared: "s"}}}
	err = wrap.Validate()
	assert.ErrorIs(t, err, errors.ErrConfig)
	assert.Contains(t, err.Error(), "overflows")
}
