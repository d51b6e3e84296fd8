package bus

import (
	"context"
	"fmt"
	"math"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"

	burst "github.com/wippyai/burst"
)

// PageSize is the size of one WebAssembly memory page.
const PageSize = 65536

// MaxPages is the largest page count a 32-bit linear memory can hold.
const MaxPages = 65536

// WrapMemory wraps a wazero api.Memory as a bus.
func WrapMemory(mem api.Memory) burst.Bus {
	if mem == nil {
		return nil
	}
	return &Wrapper{Mem: mem}
}

// Wrapper adapts wazero api.Memory to the bus interface.
type Wrapper struct {
	Mem api.Memory
}

// LoadByte reads one byte of linear memory.
func (m *Wrapper) LoadByte(offset uint64) (byte, bool) {
	if offset > math.MaxUint32 {
		return 0, false
	}
	return m.Mem.ReadByte(uint32(offset))
}

// StoreByte writes one byte of linear memory.
func (m *Wrapper) StoreByte(offset uint64, value byte) bool {
	if offset > math.MaxUint32 {
		return false
	}
	return m.Mem.WriteByte(uint32(offset), value)
}

// Size returns the current size of linear memory in bytes.
func (m *Wrapper) Size() uint64 {
	return uint64(m.Mem.Size())
}

// WasmMemory is a standalone linear memory owned by its own wazero runtime.
type WasmMemory struct {
	Wrapper
	rt  wazero.Runtime
	mod api.Module
}

// NewWasmMemory instantiates a module that only exports a memory of the
// given number of pages.
func NewWasmMemory(ctx context.Context, pages uint32) (*WasmMemory, error) {
	if pages == 0 || pages > MaxPages {
		return nil, fmt.Errorf("wasm memory pages out of range: %d", pages)
	}

	rt := wazero.NewRuntime(ctx)
	mod, err := rt.Instantiate(ctx, memoryModule(pages))
	if err != nil {
		_ = rt.Close(ctx)
		return nil, fmt.Errorf("instantiate memory module: %w", err)
	}

	mem := mod.ExportedMemory("memory")
	if mem == nil {
		_ = rt.Close(ctx)
		return nil, fmt.Errorf("memory module has no exported memory")
	}

	return &WasmMemory{
		Wrapper: Wrapper{Mem: mem},
		rt:      rt,
		mod:     mod,
	}, nil
}

// Close releases the module and its runtime. The memory must not be used afterwards.
func (w *WasmMemory) Close(ctx context.Context) error {
	return w.rt.Close(ctx)
}

// memoryModule encodes a module with one memory of min pages exported as "memory".
func memoryModule(pages uint32) []byte {
	bin := []byte{
		0x00, 0x61, 0x73, 0x6d, // magic
		0x01, 0x00, 0x00, 0x00, // version
	}

	var memSec []byte
	memSec = append(memSec, 0x01, 0x00) // 1 memory, no max
	memSec = appendULEB128(memSec, uint64(pages))
	bin = append(bin, 0x05)
	bin = appendULEB128(bin, uint64(len(memSec)))
	bin = append(bin, memSec...)

	exportSec := []byte{0x01, 0x06, 'm', 'e', 'm', 'o', 'r', 'y', 0x02, 0x00}
	bin = append(bin, 0x07)
	bin = appendULEB128(bin, uint64(len(exportSec)))
	bin = append(bin, exportSec...)

	return bin
}

func appendULEB128(b []byte, v uint64) []byte {
	for {
		c := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			c |= 0x80
		}
		b = append(b, c)
		if v == 0 {
			return b
		}
	}
}
