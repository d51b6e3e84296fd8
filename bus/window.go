package bus

import (
	"fmt"

	burst "github.com/wippyai/burst"
)

// Window exposes size bytes of another bus starting at offset, so several
// regions can split one address space without overlapping.
type Window struct {
	mem    burst.Bus
	offset uint64
	size   uint64
}

// NewWindow returns a window over [offset, offset+size) of mem.
func NewWindow(mem burst.Bus, offset, size uint64) (*Window, error) {
	if mem == nil {
		return nil, fmt.Errorf("window: nil bus")
	}
	end := offset + size
	if end < offset || end > mem.Size() {
		return nil, fmt.Errorf("window: [%#x, %#x) exceeds bus size %#x", offset, end, mem.Size())
	}
	return &Window{mem: mem, offset: offset, size: size}, nil
}

// Offset returns the window's start on the parent bus.
func (w *Window) Offset() uint64 { return w.offset }

// LoadByte reads byte offset of the window.
func (w *Window) LoadByte(offset uint64) (byte, bool) {
	if offset >= w.size {
		return 0, false
	}
	return w.mem.LoadByte(w.offset + offset)
}

// StoreByte writes byte offset of the window.
func (w *Window) StoreByte(offset uint64, value byte) bool {
	if offset >= w.size {
		return false
	}
	return w.mem.StoreByte(w.offset+offset, value)
}

// Size returns the window length.
func (w *Window) Size() uint64 { return w.size }
