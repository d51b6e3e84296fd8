package bus

// Bytes is a bus over a Go byte slice.
type Bytes []byte

// NewBytes returns a zeroed bus of n bytes.
func NewBytes(n int) Bytes {
	return make(Bytes, n)
}

// LoadByte reads the byte at offset.
func (b Bytes) LoadByte(offset uint64) (byte, bool) {
	if offset >= uint64(len(b)) {
		return 0, false
	}
	return b[offset], true
}

// StoreByte writes the byte at offset.
func (b Bytes) StoreByte(offset uint64, value byte) bool {
	if offset >= uint64(len(b)) {
		return false
	}
	b[offset] = value
	return true
}

// Size returns the length of the slice.
func (b Bytes) Size() uint64 {
	return uint64(len(b))
}
