package cursor

import (
	"container/heap"
	"iter"
	"sort"

	burst "github.com/wippyai/burst"
)

// Range is the half-open interval [First, Last) of elements. It implements
// sort.Interface so that the standard sorting routines run over storage.
type Range[T burst.Integer] struct {
	First Cursor[T]
	Last  Cursor[T]
}

// Span returns the range [first, last).
func Span[T burst.Integer](first, last Cursor[T]) Range[T] {
	return Range[T]{First: first, Last: last}
}

// Len returns the number of elements in the range.
func (r Range[T]) Len() int { return r.Last.Distance(r.First) }

// Less compares elements i and j.
func (r Range[T]) Less(i, j int) bool { return r.First.At(i).Get() < r.First.At(j).Get() }

// Swap exchanges elements i and j.
func (r Range[T]) Swap(i, j int) { Swap(r.First.At(i), r.First.At(j)) }

// maxHeap orders a range as a max-heap through container/heap.
// Push and Pop are never reached by Init and Fix.
type maxHeap[T burst.Integer] struct {
	Range[T]
	n int
}

func (h *maxHeap[T]) Len() int           { return h.n }
func (h *maxHeap[T]) Less(i, j int) bool { return h.Range.Less(j, i) }
func (h *maxHeap[T]) Push(any)           { panic("cursor: push on fixed range") }
func (h *maxHeap[T]) Pop() any           { panic("cursor: pop on fixed range") }

// Fill stores v into every element of [first, last).
func Fill[T burst.Integer](first, last Cursor[T], v T) {
	for c := first; !c.Equal(last); c.Inc() {
		c.Store(v)
	}
}

// Copy copies [first, last) element by element to the range starting at dst
// and returns the cursor past the last element written. The destination may
// overlap the source only if it starts before it.
func Copy[T burst.Integer](first, last, dst Cursor[T]) Cursor[T] {
	for c := first; !c.Equal(last); c.Inc() {
		dst.PostInc().Store(c.Load())
	}
	return dst
}

// CopyFrom stores vals into consecutive elements starting at dst and returns
// the cursor past the last element written.
func CopyFrom[T burst.Integer](vals []T, dst Cursor[T]) Cursor[T] {
	for _, v := range vals {
		dst.PostInc().Store(v)
	}
	return dst
}

// CopyTo decodes [first, last) into a new slice.
func CopyTo[T burst.Integer](first, last Cursor[T]) []T {
	out := make([]T, 0, last.Distance(first))
	for c := first; !c.Equal(last); c.Inc() {
		out = append(out, c.Load())
	}
	return out
}

// Reverse reverses the order of [first, last).
func Reverse[T burst.Integer](first, last Cursor[T]) {
	for first.Less(last) {
		last.Dec()
		if !first.Less(last) {
			return
		}
		Swap(first.Deref(), last.Deref())
		first.Inc()
	}
}

// Rotate moves [middle, last) in front of [first, middle) and returns the new
// position of the element that was at first.
func Rotate[T burst.Integer](first, middle, last Cursor[T]) Cursor[T] {
	if first.Equal(middle) {
		return last
	}
	if middle.Equal(last) {
		return first
	}
	Reverse(first, middle)
	Reverse(middle, last)
	Reverse(first, last)
	return first.Add(last.Distance(middle))
}

// SwapRanges exchanges [first, last) with the range of equal length at dst.
func SwapRanges[T burst.Integer](first, last, dst Cursor[T]) Cursor[T] {
	for c := first; !c.Equal(last); c.Inc() {
		Swap(c.Deref(), dst.PostInc().Deref())
	}
	return dst
}

// Sort sorts [first, last) in ascending order.
func Sort[T burst.Integer](first, last Cursor[T]) {
	sort.Sort(Span(first, last))
}

// IsSorted reports whether [first, last) is in ascending order.
func IsSorted[T burst.Integer](first, last Cursor[T]) bool {
	return sort.IsSorted(Span(first, last))
}

// MakeHeap arranges [first, last) as a max-heap.
func MakeHeap[T burst.Integer](first, last Cursor[T]) {
	r := Span(first, last)
	heap.Init(&maxHeap[T]{Range: r, n: r.Len()})
}

// SortHeap turns a max-heap [first, last) into an ascending sequence.
func SortHeap[T burst.Integer](first, last Cursor[T]) {
	r := Span(first, last)
	h := &maxHeap[T]{Range: r, n: r.Len()}
	for h.n > 1 {
		h.n--
		r.Swap(0, h.n)
		heap.Fix(h, 0)
	}
}

// All yields the index and decoded value of each element of [first, last).
func All[T burst.Integer](first, last Cursor[T]) iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		i := 0
		for c := first; !c.Equal(last); c.Inc() {
			if !yield(i, c.Load()) {
				return
			}
			i++
		}
	}
}
