// Package vector implements a growable array whose elements live on a bus.
//
// Storage comes from an alloc.Allocator. Elements are moved between
// allocations one at a time through the byte codec; there is no bulk copy.
// Any call that reallocates (PushBack, Reserve, ShrinkToFit) invalidates
// cursors and proxies obtained earlier.
package vector

import (
	"fmt"
	"iter"

	burst "github.com/wippyai/burst"
	"github.com/wippyai/burst/alloc"
	"github.com/wippyai/burst/cursor"
	"github.com/wippyai/burst/errors"
)

// Vector is a growable array of T.
type Vector[T burst.Integer] struct {
	alloc    alloc.Allocator[T]
	first    cursor.Cursor[T]
	size     int
	capacity int
}

// New returns an empty vector. A nil allocator selects alloc.Default.
func New[T burst.Integer](a alloc.Allocator[T]) *Vector[T] {
	if a == nil {
		a = alloc.Default[T]()
	}
	return &Vector[T]{alloc: a}
}

// NewLen returns a vector of count zero elements.
func NewLen[T burst.Integer](a alloc.Allocator[T], count int) (*Vector[T], error) {
	if count < 0 {
		return nil, errors.InvalidInput(errors.PhaseAllocate, fmt.Sprintf("negative length %d", count))
	}
	v := New(a)
	if count == 0 {
		return v, nil
	}
	if err := v.realloc(count); err != nil {
		return nil, err
	}
	cursor.Fill(v.first, v.first.Add(count), 0)
	v.size = count
	return v, nil
}

// From returns a vector holding a copy of values, allocated in one request of
// exactly len(values) elements.
func From[T burst.Integer](a alloc.Allocator[T], values []T) (*Vector[T], error) {
	v := New(a)
	if len(values) == 0 {
		return v, nil
	}
	if err := v.realloc(len(values)); err != nil {
		return nil, err
	}
	cursor.CopyFrom(values, v.first)
	v.size = len(values)
	return v, nil
}

// Allocator returns the vector's allocator.
func (v *Vector[T]) Allocator() alloc.Allocator[T] { return v.alloc }

// At returns a proxy for element pos, or an out_of_bounds error.
func (v *Vector[T]) At(pos int) (cursor.Proxy[T], error) {
	if pos < 0 || pos >= v.size {
		return cursor.Proxy[T]{}, errors.OutOfBounds(errors.PhaseAccess, pos, v.size)
	}
	return v.first.At(pos), nil
}

// Index returns a proxy for element pos without a bounds check.
func (v *Vector[T]) Index(pos int) cursor.Proxy[T] {
	return v.first.At(pos)
}

// Front returns a proxy for the first element. It panics on an empty vector.
func (v *Vector[T]) Front() cursor.Proxy[T] {
	v.mustNotBeEmpty("Front")
	return v.first.At(0)
}

// Back returns a proxy for the last element. It panics on an empty vector.
func (v *Vector[T]) Back() cursor.Proxy[T] {
	v.mustNotBeEmpty("Back")
	return v.first.At(v.size - 1)
}

// Begin returns a cursor to the first element.
func (v *Vector[T]) Begin() cursor.Cursor[T] { return v.first }

// End returns a cursor one past the last element.
func (v *Vector[T]) End() cursor.Cursor[T] { return v.first.Add(v.size) }

// Empty reports whether the vector has no elements.
func (v *Vector[T]) Empty() bool { return v.size == 0 }

// Len returns the number of elements.
func (v *Vector[T]) Len() int { return v.size }

// Cap returns the number of allocated elements.
func (v *Vector[T]) Cap() int { return v.capacity }

// MaxSize returns the allocator's element bound.
func (v *Vector[T]) MaxSize() int { return v.alloc.MaxSize() }

// Reserve grows the allocation to exactly n elements if n exceeds the capacity.
func (v *Vector[T]) Reserve(n int) error {
	if n <= v.capacity {
		return nil
	}
	return v.realloc(n)
}

// ShrinkToFit reallocates to exactly Len elements if the capacity is larger.
func (v *Vector[T]) ShrinkToFit() error {
	if v.capacity == v.size {
		return nil
	}
	return v.realloc(v.size)
}

// PushBack appends value, growing the allocation to max(2*Cap, Cap+1) when full.
func (v *Vector[T]) PushBack(value T) error {
	if v.size == v.capacity {
		if err := v.realloc(max(v.capacity*2, v.capacity+1)); err != nil {
			return err
		}
	}
	v.first.At(v.size).Set(value)
	v.size++
	return nil
}

// PopBack removes and returns the last element. It panics on an empty vector.
func (v *Vector[T]) PopBack() T {
	v.mustNotBeEmpty("PopBack")
	v.size--
	return v.first.At(v.size).Get()
}

// Clear sets the length to zero and keeps the allocation.
func (v *Vector[T]) Clear() {
	v.size = 0
}

// Values decodes all elements into a new slice.
func (v *Vector[T]) Values() []T {
	return cursor.CopyTo(v.Begin(), v.End())
}

// All yields the index and value of each element.
func (v *Vector[T]) All() iter.Seq2[int, T] {
	return cursor.All(v.Begin(), v.End())
}

// Release returns the allocation to the allocator and empties the vector.
func (v *Vector[T]) Release() {
	if v.capacity > 0 {
		v.alloc.Deallocate(v.first, v.capacity)
	}
	v.first = cursor.Cursor[T]{}
	v.size = 0
	v.capacity = 0
}

// realloc moves the live elements into a new allocation of n elements and
// releases the old one. On failure the vector is unchanged.
func (v *Vector[T]) realloc(n int) error {
	// A zero bound means unbound storage; Allocate reports that more precisely.
	if limit := v.alloc.MaxSize(); limit > 0 && n > limit {
		return errors.New(errors.PhaseAllocate, errors.KindCapacityExceeded).
			Detailf("requested %d elements, allocator holds at most %d", n, limit).
			Value(n).
			Build()
	}

	if n == 0 {
		v.Release()
		return nil
	}

	next, err := v.alloc.Allocate(n)
	if err != nil {
		return err
	}

	if v.size > 0 {
		cursor.Copy(v.Begin(), v.End(), next)
	}
	if v.capacity > 0 {
		v.alloc.Deallocate(v.first, v.capacity)
	}

	v.first = next
	v.capacity = n
	return nil
}

func (v *Vector[T]) mustNotBeEmpty(op string) {
	if v.size == 0 {
		panic(errors.Precondition(errors.PhaseAccess, op+" on empty vector"))
	}
}
