package alloc

import (
	"math"

	burst "github.com/wippyai/burst"
	"github.com/wippyai/burst/bus"
	"github.com/wippyai/burst/codec"
	"github.com/wippyai/burst/cursor"
	"github.com/wippyai/burst/errors"
)

// HeapAllocator backs every allocation with its own byte slice. It stands in
// for region allocators in software-only builds. Heap allocators are
// stateless and all compare equal.
type HeapAllocator[T burst.Integer] struct{}

// Heap returns a heap allocator.
func Heap[T burst.Integer]() HeapAllocator[T] {
	return HeapAllocator[T]{}
}

// Allocate returns a cursor over a new zeroed slice of n elements.
func (HeapAllocator[T]) Allocate(n int) (cursor.Cursor[T], error) {
	if n < 0 {
		return cursor.Cursor[T]{}, errors.InvalidInput(errors.PhaseAllocate, "negative element count")
	}
	if n > math.MaxInt/codec.Stride[T]() {
		return cursor.Cursor[T]{}, errors.CapacityExceeded("heap", uint64(n), uint64(math.MaxInt/codec.Stride[T]()))
	}
	return cursor.New[T](bus.NewBytes(n*codec.Stride[T]()), 0, 0), nil
}

// Deallocate drops the reference; the garbage collector reclaims the slice.
func (HeapAllocator[T]) Deallocate(cursor.Cursor[T], int) {}

// MaxSize returns the largest element count a slice can hold.
func (HeapAllocator[T]) MaxSize() int {
	return math.MaxInt / codec.Stride[T]()
}

// Equal reports whether other is also a heap allocator.
func (HeapAllocator[T]) Equal(other Allocator[T]) bool {
	_, ok := other.(HeapAllocator[T])
	return ok
}
