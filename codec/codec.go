// Package codec translates integers to and from explicit little-endian byte
// sequences on a bus.
//
// Byte i of a value holds bits [8i, 8i+8). Transfers are issued one byte at a
// time in increasing address order, independent of host byte order; there is
// no bulk copy and no reinterpretation of storage.
package codec

import (
	"fmt"
	"unsafe"

	burst "github.com/wippyai/burst"
	"github.com/wippyai/burst/errors"
)

// Stride returns the number of bytes a value of type T occupies on the bus.
func Stride[T burst.Integer]() int {
	var zero T
	return int(unsafe.Sizeof(zero))
}

// TypeName returns the Go name of T, used in error messages.
func TypeName[T burst.Integer]() string {
	var zero T
	return fmt.Sprintf("%T", zero)
}

// Addr returns the byte address of element index in an array of T starting at base.
func Addr[T burst.Integer](base uint64, index int) uint64 {
	return uint64(int64(base) + int64(index)*int64(Stride[T]()))
}

// Encode writes v at byte address addr.
// Bytes stored before a rejected transfer are not rolled back.
func Encode[T burst.Integer](mem burst.Bus, addr uint64, v T) error {
	stride := Stride[T]()
	bits := uint64(v)
	for i := 0; i < stride; i++ {
		b := byte(bits >> (uint(i) * 8))
		if !mem.StoreByte(addr+uint64(i), b) {
			return errors.BusFault(errors.PhaseEncode, TypeName[T](), addr+uint64(i))
		}
	}
	return nil
}

// Decode reads a T from byte address addr.
func Decode[T burst.Integer](mem burst.Bus, addr uint64) (T, error) {
	stride := Stride[T]()
	var acc uint64
	for i := 0; i < stride; i++ {
		b, ok := mem.LoadByte(addr + uint64(i))
		if !ok {
			return 0, errors.BusFault(errors.PhaseDecode, TypeName[T](), addr+uint64(i))
		}
		acc |= uint64(b) << (uint(i) * 8)
	}
	return T(acc), nil
}

// EncodeAt writes v as element index of an array of T starting at base.
func EncodeAt[T burst.Integer](mem burst.Bus, base uint64, index int, v T) error {
	return Encode(mem, Addr[T](base, index), v)
}

// DecodeAt reads element index of an array of T starting at base.
func DecodeAt[T burst.Integer](mem burst.Bus, base uint64, index int) (T, error) {
	return Decode[T](mem, Addr[T](base, index))
}

// EncodeSlice writes vals as consecutive elements starting at base.
// It stops at the first rejected transfer.
func EncodeSlice[T burst.Integer](mem burst.Bus, base uint64, vals []T) error {
	for i, v := range vals {
		if err := EncodeAt(mem, base, i, v); err != nil {
			return err
		}
	}
	return nil
}

// DecodeSlice reads n consecutive elements starting at base.
func DecodeSlice[T burst.Integer](mem burst.Bus, base uint64, n int) ([]T, error) {
	out := make([]T, n)
	for i := range out {
		v, err := DecodeAt[T](mem, base, i)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
