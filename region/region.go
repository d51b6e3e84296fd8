// Package region implements bump-allocated memory regions over a bus and the
// fixed-size registry of default regions.
//
// A region addresses capacity units of unit bytes each on a bus it does not
// own. Allocation advances a high-water mark and never reuses space;
// Deallocate is bookkeeping only. Reset rewinds the mark for arena-style reuse.
package region

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	burst "github.com/wippyai/burst"
	"github.com/wippyai/burst/codec"
	"github.com/wippyai/burst/cursor"
	"github.com/wippyai/burst/errors"
)

var nextID atomic.Uint64

// Region is a fixed-capacity window of a bus with a bump offset.
// The zero value is an unbound region: it is not Valid and every allocation
// fails with an unbound_region error.
type Region struct {
	mem      burst.Bus
	logger   *zap.Logger
	name     string
	id       uint64
	capacity uint64
	unit     uint64
	used     uint64
	stats    Stats
}

// Stats counts region activity since construction.
type Stats struct {
	Allocations uint64
	Releases    uint64
	Failures    uint64
	Resets      uint64
	// HighWater is the largest value Used has reached, in units.
	HighWater uint64
}

// New creates a region over the first capacity units of mem.
//
// mem and capacity must both be set or both be absent; New(nil, 0) returns an
// unbound region. The region never closes or frees mem.
func New(mem burst.Bus, capacity uint64, opts ...Option) (*Region, error) {
	r := &Region{
		mem:      mem,
		capacity: capacity,
		unit:     1,
		id:       nextID.Add(1),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.name == "" {
		r.name = fmt.Sprintf("region#%d", r.id)
	}

	switch {
	case r.unit == 0:
		return nil, errors.InvalidRegion(r.name, "addressing unit must be at least one byte")
	case mem == nil && capacity == 0:
		r.log().Debug("unbound region created", zap.String("region", r.name))
		return r, nil
	case mem == nil:
		return nil, errors.InvalidRegion(r.name, fmt.Sprintf("capacity %d without storage", capacity))
	case capacity == 0:
		return nil, errors.InvalidRegion(r.name, "storage with zero capacity")
	case capacity > math.MaxUint64/r.unit:
		return nil, errors.InvalidRegion(r.name, fmt.Sprintf("capacity %d x unit %d overflows", capacity, r.unit))
	case capacity*r.unit > mem.Size():
		return nil, errors.InvalidRegion(r.name,
			fmt.Sprintf("capacity %d x unit %d exceeds bus size %d", capacity, r.unit, mem.Size()))
	}

	r.log().Debug("region created",
		zap.String("region", r.name),
		zap.Uint64("capacity", capacity),
		zap.Uint64("unit", r.unit))
	return r, nil
}

// Valid reports whether the region is bound to storage.
func (r *Region) Valid() bool {
	return r != nil && r.mem != nil && r.capacity > 0
}

// Bus returns the storage the region addresses.
func (r *Region) Bus() burst.Bus { return r.mem }

// ID returns the region's process-unique identity.
func (r *Region) ID() uint64 { return r.id }

// Name returns the region's label.
func (r *Region) Name() string { return r.name }

// Cap returns the capacity in units.
func (r *Region) Cap() uint64 { return r.capacity }

// Unit returns the number of bytes per addressing unit.
func (r *Region) Unit() uint64 {
	if r.unit == 0 {
		return 1
	}
	return r.unit
}

// Used returns the bump offset in units.
func (r *Region) Used() uint64 { return r.used }

// Available returns the number of units not yet handed out.
func (r *Region) Available() uint64 { return r.capacity - r.used }

// Bytes returns the capacity in bytes.
func (r *Region) Bytes() uint64 { return r.capacity * r.Unit() }

// Stats returns the region's counters.
func (r *Region) Stats() Stats { return r.stats }

// Reset rewinds the bump offset to zero. Cursors issued before the reset
// alias whatever is allocated after it.
func (r *Region) Reset() {
	r.log().Debug("region reset",
		zap.String("region", r.name),
		zap.Uint64("used", r.used))
	r.used = 0
	r.stats.Resets++
}

// String describes the region's usage.
func (r *Region) String() string {
	if !r.Valid() {
		return r.name + ": unbound"
	}
	return fmt.Sprintf("%s: %s of %s used",
		r.name, humanize.IBytes(r.used*r.Unit()), humanize.IBytes(r.Bytes()))
}

// Digest returns the xxhash64 of the region's bytes, read one at a time
// through the bus.
func (r *Region) Digest() (uint64, error) {
	if !r.Valid() {
		return 0, errors.Unbound(errors.PhaseDecode, r.label())
	}
	d := xxhash.New()
	var chunk [4096]byte
	total := r.Bytes()
	for off := uint64(0); off < total; {
		n := uint64(len(chunk))
		if total-off < n {
			n = total - off
		}
		for i := uint64(0); i < n; i++ {
			b, ok := r.mem.LoadByte(off + i)
			if !ok {
				return 0, errors.BusFault(errors.PhaseDecode, "byte", off+i)
			}
			chunk[i] = b
		}
		_, _ = d.Write(chunk[:n])
		off += n
	}
	return d.Sum64(), nil
}

// reserve advances the bump offset to cover size bytes and returns the byte
// address of the reserved span. On failure nothing changes.
func (r *Region) reserve(size uint64, typ string) (uint64, error) {
	if !r.Valid() {
		if r != nil {
			r.stats.Failures++
		}
		return 0, errors.Unbound(errors.PhaseAllocate, r.label())
	}

	unit := r.Unit()
	units := size / unit
	if size%unit != 0 {
		units++
	}
	if units > r.capacity-r.used {
		r.stats.Failures++
		err := errors.CapacityExceeded(r.name, units, r.capacity-r.used)
		err.Type = typ
		r.log().Debug("allocation failed",
			zap.String("region", r.name),
			zap.String("type", typ),
			zap.Uint64("units", units),
			zap.Uint64("available", r.capacity-r.used))
		return 0, err
	}

	addr := r.used * unit
	r.used += units
	r.stats.Allocations++
	if r.used > r.stats.HighWater {
		r.stats.HighWater = r.used
	}
	return addr, nil
}

func (r *Region) label() string {
	if r == nil {
		return "nil region"
	}
	return r.name
}

func (r *Region) log() *zap.Logger {
	if r.logger != nil {
		return r.logger
	}
	return Logger()
}

// Allocate hands out n elements of T at the current bump offset and returns a
// cursor to the first. The offset advances by n*sizeof(T) bytes rounded up to
// whole units.
func Allocate[T burst.Integer](r *Region, n int) (cursor.Cursor[T], error) {
	typ := codec.TypeName[T]()
	if n < 0 {
		return cursor.Cursor[T]{}, errors.New(errors.PhaseAllocate, errors.KindInvalidInput).
			Region(r.label()).Type(typ).Detailf("negative element count %d", n).Build()
	}
	stride := uint64(codec.Stride[T]())
	if uint64(n) > math.MaxUint64/stride {
		return cursor.Cursor[T]{}, errors.New(errors.PhaseAllocate, errors.KindCapacityExceeded).
			Region(r.label()).Type(typ).Detailf("%d elements overflow the address space", n).Build()
	}
	addr, err := r.reserve(uint64(n)*stride, typ)
	if err != nil {
		return cursor.Cursor[T]{}, err
	}
	return cursor.New[T](r.mem, addr, r.id), nil
}

// Deallocate releases a cursor obtained from Allocate. Space is not reclaimed.
func Deallocate[T burst.Integer](r *Region, c cursor.Cursor[T]) {
	if r == nil || c.IsNil() {
		return
	}
	r.stats.Releases++
}

// MaxElements returns how many elements of T the whole region can hold.
func MaxElements[T burst.Integer](r *Region) int {
	if !r.Valid() {
		return 0
	}
	n := r.Bytes() / uint64(codec.Stride[T]())
	if n > math.MaxInt {
		return math.MaxInt
	}
	return int(n)
}
