package alloc

import (
	burst "github.com/wippyai/burst"
	"github.com/wippyai/burst/cursor"
	"github.com/wippyai/burst/errors"
	"github.com/wippyai/burst/region"
)

// RegionAllocator allocates from a single region.
type RegionAllocator[T burst.Integer] struct {
	r *region.Region
}

// ForRegion returns an allocator bound to r.
func ForRegion[T burst.Integer](r *region.Region) RegionAllocator[T] {
	return RegionAllocator[T]{r: r}
}

// Region returns the bound region.
func (a RegionAllocator[T]) Region() *region.Region { return a.r }

// Allocate forwards to region.Allocate.
func (a RegionAllocator[T]) Allocate(n int) (cursor.Cursor[T], error) {
	if a.r == nil {
		return cursor.Cursor[T]{}, errors.Unbound(errors.PhaseAllocate, "nil region")
	}
	return region.Allocate[T](a.r, n)
}

// Deallocate forwards to region.Deallocate.
func (a RegionAllocator[T]) Deallocate(c cursor.Cursor[T], n int) {
	region.Deallocate(a.r, c)
}

// MaxSize returns the region capacity in elements of T.
func (a RegionAllocator[T]) MaxSize() int {
	return region.MaxElements[T](a.r)
}

// Equal reports whether other is bound to the same region.
func (a RegionAllocator[T]) Equal(other Allocator[T]) bool {
	o, ok := other.(RegionAllocator[T])
	return ok && a.r != nil && a.r == o.r
}

// SlotAllocator allocates from a registry slot. The slot is looked up on every
// call, so rebinding the slot redirects later allocations.
type SlotAllocator[T burst.Integer] struct {
	g     *region.Registry
	index burst.RegionID
}

// ForSlot returns an allocator bound to slot index of g.
func ForSlot[T burst.Integer](g *region.Registry, index burst.RegionID) SlotAllocator[T] {
	return SlotAllocator[T]{g: g, index: index}
}

// Default returns an allocator bound to slot 0 of the default registry.
func Default[T burst.Integer]() SlotAllocator[T] {
	return ForSlot[T](region.Default(), burst.Region0)
}

// Index returns the bound slot.
func (a SlotAllocator[T]) Index() burst.RegionID { return a.index }

// Allocate forwards to region.AllocateIn.
func (a SlotAllocator[T]) Allocate(n int) (cursor.Cursor[T], error) {
	return region.AllocateIn[T](a.g, n, a.index)
}

// Deallocate forwards to region.DeallocateIn. Releasing into an unbound slot
// is ignored.
func (a SlotAllocator[T]) Deallocate(c cursor.Cursor[T], n int) {
	_ = region.DeallocateIn(a.g, c, a.index)
}

// MaxSize returns the slot's capacity in elements of T, or 0 when unbound.
func (a SlotAllocator[T]) MaxSize() int {
	r, err := a.g.Region(a.index)
	if err != nil {
		return 0
	}
	return region.MaxElements[T](r)
}

// Equal reports whether other is bound to the same registry slot.
func (a SlotAllocator[T]) Equal(other Allocator[T]) bool {
	o, ok := other.(SlotAllocator[T])
	return ok && a.g == o.g && a.index == o.index
}
