package main

import (
	"fmt"
	"strings"

	"github.com/wippyai/burst/region"
)

const dumpWidth = 16

// hexDump formats bytes [from, to) of r, read one at a time through its bus.
// Unreadable bytes are shown as "??".
func hexDump(r *region.Region, from, to uint64) string {
	if !r.Valid() {
		return "(unbound)\n"
	}
	mem := r.Bus()
	var b strings.Builder
	for row := from; row < to; row += dumpWidth {
		fmt.Fprintf(&b, "%08x ", row)
		var ascii [dumpWidth]byte
		for i := uint64(0); i < dumpWidth; i++ {
			off := row + i
			if off >= to {
				b.WriteString("   ")
				ascii[i] = ' '
				continue
			}
			v, ok := mem.LoadByte(off)
			if !ok {
				b.WriteString(" ??")
				ascii[i] = '?'
				continue
			}
			fmt.Fprintf(&b, " %02x", v)
			if v >= 0x20 && v < 0x7f {
				ascii[i] = v
			} else {
				ascii[i] = '.'
			}
		}
		b.WriteString("  |")
		b.Write(ascii[:])
		b.WriteString("|\n")
	}
	return b.String()
}
