package cursor

import (
	burst "github.com/wippyai/burst"
	"github.com/wippyai/burst/codec"
)

// Proxy stands in for the element at one address. It carries the value
// decoded when the proxy was made; mutations encode the new value to the bus
// and return a proxy holding it.
//
// A proxy whose address lies outside its bus panics with a bus_fault
// *errors.Error on construction or mutation. Reaching such an address is a
// caller error (dereferencing past the end of an allocation).
type Proxy[T burst.Integer] struct {
	mem   burst.Bus
	addr  uint64
	value T
}

func newProxy[T burst.Integer](mem burst.Bus, addr uint64) Proxy[T] {
	mustBus(mem)
	v, err := codec.Decode[T](mem, addr)
	if err != nil {
		panic(err)
	}
	return Proxy[T]{mem: mem, addr: addr, value: v}
}

// Addr returns the byte address the proxy writes through to.
func (p Proxy[T]) Addr() uint64 { return p.addr }

// Get returns the value decoded when the proxy was made or last written.
func (p Proxy[T]) Get() T { return p.value }

// Load decodes the current value from storage.
func (p Proxy[T]) Load() T {
	v, err := codec.Decode[T](p.mem, p.addr)
	if err != nil {
		panic(err)
	}
	return v
}

// Set encodes v to storage.
func (p Proxy[T]) Set(v T) Proxy[T] {
	if err := codec.Encode(p.mem, p.addr, v); err != nil {
		panic(err)
	}
	p.value = v
	return p
}

// Assign copies the value held by o into this proxy's storage.
func (p Proxy[T]) Assign(o Proxy[T]) Proxy[T] {
	return p.Set(o.Get())
}

func (p Proxy[T]) update(f func(T) T) Proxy[T] {
	return p.Set(f(p.Load()))
}

// Add stores current + v.
func (p Proxy[T]) Add(v T) Proxy[T] { return p.update(func(x T) T { return x + v }) }

// Sub stores current - v.
func (p Proxy[T]) Sub(v T) Proxy[T] { return p.update(func(x T) T { return x - v }) }

// Mul stores current * v.
func (p Proxy[T]) Mul(v T) Proxy[T] { return p.update(func(x T) T { return x * v }) }

// Div stores current / v. Division by zero panics as it does for T.
func (p Proxy[T]) Div(v T) Proxy[T] { return p.update(func(x T) T { return x / v }) }

// Rem stores current % v.
func (p Proxy[T]) Rem(v T) Proxy[T] { return p.update(func(x T) T { return x % v }) }

// Shl stores current << v.
func (p Proxy[T]) Shl(v T) Proxy[T] { return p.update(func(x T) T { return x << v }) }

// Shr stores current >> v.
func (p Proxy[T]) Shr(v T) Proxy[T] { return p.update(func(x T) T { return x >> v }) }

// And stores current & v.
func (p Proxy[T]) And(v T) Proxy[T] { return p.update(func(x T) T { return x & v }) }

// Xor stores current ^ v.
func (p Proxy[T]) Xor(v T) Proxy[T] { return p.update(func(x T) T { return x ^ v }) }

// Or stores current | v.
func (p Proxy[T]) Or(v T) Proxy[T] { return p.update(func(x T) T { return x | v }) }

// Swap exchanges the stored contents of a and b.
func Swap[T burst.Integer](a, b Proxy[T]) {
	va, vb := a.Load(), b.Load()
	a.Set(vb)
	b.Set(va)
}
