package burst

import "golang.org/x/exp/constraints"

// Bus is byte-addressable storage that a region addresses but does not own.
// Every typed access above this interface is decomposed into single-byte
// loads and stores. Offsets outside the bus report false; they never panic.
type Bus interface {
	LoadByte(offset uint64) (byte, bool)
	StoreByte(offset uint64, value byte) bool
	Size() uint64
}

// Integer is the set of scalar types that can be stored through a Bus.
type Integer = constraints.Integer

// RegionID selects a slot in a region registry.
type RegionID uint8

const (
	Region0 RegionID = iota
	Region1
	Region2
	Region3
	Region4
	Region5
	Region6
	Region7

	// RegionMax is the number of registry slots.
	RegionMax
)
