// Package burst provides byte-serialized access to fixed-size external memory.
//
// The library targets storage that cannot be treated as ordinary Go memory:
// hardware-mapped regions reached over a narrow bus, WebAssembly linear memory,
// or memory-mapped files. Every typed read or write is expressed as an explicit
// sequence of single-byte transfers in little-endian order, so the layout is
// identical across hosts and across simulation and synthesis.
//
// # Architecture Overview
//
//	burst/               Root package with the Bus interface and region slots
//	├── bus/             Bus backends: byte slices, wazero memory, mmap files
//	├── codec/           Per-byte little-endian encode/decode of integers
//	├── region/          Bump-allocated regions and the region registry
//	├── cursor/          Random-access cursors, write-through proxies, algorithms
//	├── alloc/           Allocator contract over regions, registry slots, heap
//	├── vector/          Growable array built on an allocator
//	├── layout/          YAML region layouts for simulation runs
//	└── errors/          Structured error types
//
// # Quick Start
//
//	mem := bus.NewBytes(1024)
//	r, err := region.New(mem, 1024)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	first, err := region.Allocate[int32](r, 8)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	last := first.Add(8)
//
//	cursor.Fill(first, last, 24)
//	cursor.Sort(first, last)
//
// Containers take an allocator:
//
//	region.Init(mem, 1024, burst.Region0)
//	v, err := vector.From(alloc.Default[int32](), []int32{0, 1, 2, 3})
//
// # Thread Safety
//
// Nothing in this module is safe for concurrent use. A region is driven by one
// logical accessor at a time; bus arbitration is the caller's concern.
//
// # Memory Model
//
// Regions never reclaim space on Deallocate. Allocation only advances a
// high-water mark until the region is Reset. Any operation that reallocates a
// vector invalidates cursors and proxies previously taken from it.
package burst
