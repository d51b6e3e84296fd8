// Package cursor provides random-access cursors over a bus and the
// write-through proxies they dereference to.
//
// A Cursor is a value: arithmetic returns new cursors and never touches
// storage. Dereferencing yields a Proxy holding a decoded copy of the element;
// every mutation through the proxy is re-encoded byte by byte before the call
// returns.
//
// Cursors compare by element address only. Two cursors over different buses
// whose addresses coincide compare equal. Building with the burstdebug tag
// makes comparisons between cursors of different origin panic.
package cursor

import (
	burst "github.com/wippyai/burst"
	"github.com/wippyai/burst/codec"
	"github.com/wippyai/burst/errors"
)

// Cursor is a random-access position in an array of T stored on a bus.
// The zero value is a nil cursor that must not be dereferenced.
type Cursor[T burst.Integer] struct {
	mem    burst.Bus
	base   uint64
	pos    int
	origin uint64
}

// New returns a cursor at element 0 of the array starting at byte address base.
// origin identifies the issuing region; 0 means untagged.
func New[T burst.Integer](mem burst.Bus, base uint64, origin uint64) Cursor[T] {
	return Cursor[T]{mem: mem, base: base, origin: origin}
}

// Bus returns the storage the cursor addresses.
func (c Cursor[T]) Bus() burst.Bus { return c.mem }

// Origin returns the identity tag of the issuing region.
func (c Cursor[T]) Origin() uint64 { return c.origin }

// Pos returns the element offset from the start of the allocation.
func (c Cursor[T]) Pos() int { return c.pos }

// Base returns the byte address of the allocation's element 0.
func (c Cursor[T]) Base() uint64 { return c.base }

// Addr returns the byte address of the element under the cursor.
func (c Cursor[T]) Addr() uint64 { return codec.Addr[T](c.base, c.pos) }

// IsNil reports whether the cursor has no storage.
func (c Cursor[T]) IsNil() bool { return c.mem == nil }

// Inc advances the cursor by one element and returns it.
func (c *Cursor[T]) Inc() *Cursor[T] {
	c.pos++
	return c
}

// Dec moves the cursor back by one element and returns it.
func (c *Cursor[T]) Dec() *Cursor[T] {
	c.pos--
	return c
}

// PostInc advances the cursor by one element and returns its previous value.
func (c *Cursor[T]) PostInc() Cursor[T] {
	old := *c
	c.pos++
	return old
}

// PostDec moves the cursor back by one element and returns its previous value.
func (c *Cursor[T]) PostDec() Cursor[T] {
	old := *c
	c.pos--
	return old
}

// Next returns the cursor one element ahead.
func (c Cursor[T]) Next() Cursor[T] { return c.Add(1) }

// Prev returns the cursor one element behind.
func (c Cursor[T]) Prev() Cursor[T] { return c.Add(-1) }

// Add returns the cursor n elements ahead.
func (c Cursor[T]) Add(n int) Cursor[T] {
	c.pos += n
	return c
}

// Sub returns the cursor n elements behind.
func (c Cursor[T]) Sub(n int) Cursor[T] {
	c.pos -= n
	return c
}

// Distance returns the signed number of elements from o to c.
func (c Cursor[T]) Distance(o Cursor[T]) int {
	checkOrigin(c.origin, o.origin)
	return int((int64(c.Addr()) - int64(o.Addr())) / int64(codec.Stride[T]()))
}

// Equal reports whether both cursors address the same element.
func (c Cursor[T]) Equal(o Cursor[T]) bool {
	checkOrigin(c.origin, o.origin)
	return c.Addr() == o.Addr()
}

// Less reports whether c addresses an element before o.
func (c Cursor[T]) Less(o Cursor[T]) bool {
	checkOrigin(c.origin, o.origin)
	return c.Addr() < o.Addr()
}

// Deref returns a proxy for the element under the cursor.
func (c Cursor[T]) Deref() Proxy[T] { return c.At(0) }

// At returns a proxy for the element n positions from the cursor.
func (c Cursor[T]) At(n int) Proxy[T] {
	return newProxy[T](c.mem, codec.Addr[T](c.base, c.pos+n))
}

// Load decodes the element under the cursor.
func (c Cursor[T]) Load() T { return c.Deref().Get() }

// Store encodes v into the element under the cursor.
func (c Cursor[T]) Store(v T) { c.Deref().Set(v) }

func mustBus(mem burst.Bus) {
	if mem == nil {
		panic(errors.Precondition(errors.PhaseAccess, "dereference of nil cursor"))
	}
}
