// Package bus provides storage backends for regions.
//
// Each backend implements burst.Bus: single-byte loads and stores plus a fixed
// size. Backends never grow.
//
// # Byte Slices
//
//	mem := bus.NewBytes(4096)
//
// # WebAssembly Memory
//
// Wraps wazero linear memory, either exported by a guest module or created
// standalone for simulation:
//
//	mem := bus.WrapMemory(mod.ExportedMemory("memory"))
//	wm, err := bus.NewWasmMemory(ctx, 1) // one 64 KiB page
//	defer wm.Close(ctx)
//
// # Mapped Files
//
// Maps a file read-write and shared, so stores are visible to other mappers:
//
//	mf, err := bus.Map("/dev/shm/region0", 1<<20)
//	defer mf.Close()
package bus
