// Package alloc adapts regions to the allocator contract used by containers.
//
// An Allocator hands out cursor ranges of T and takes them back. Three
// implementations are provided:
//
//   - ForRegion: bound to one *region.Region
//   - ForSlot / Default: bound to a registry slot, resolved on every call
//   - Heap: fresh byte-slice storage per allocation, for software-only builds
//
// Two allocators are Equal when storage obtained from one can be released
// through the other, i.e. they draw from the same region. Containers use this
// to decide whether moving elements between them needs re-encoding.
package alloc

import (
	burst "github.com/wippyai/burst"
	"github.com/wippyai/burst/cursor"
)

// Allocator allocates arrays of T addressed by cursors.
type Allocator[T burst.Integer] interface {
	// Allocate returns a cursor to n contiguous elements.
	Allocate(n int) (cursor.Cursor[T], error)

	// Deallocate releases n elements previously returned by Allocate.
	Deallocate(c cursor.Cursor[T], n int)

	// MaxSize returns the total number of elements the backing storage can
	// ever hold, regardless of current usage.
	MaxSize() int

	// Equal reports whether both allocators draw from the same storage.
	Equal(other Allocator[T]) bool
}
