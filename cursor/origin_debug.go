//go:build burstdebug

package cursor

import (
	"fmt"

	"github.com/wippyai/burst/errors"
)

const checkOriginsEnabled = true

// checkOrigin panics when two tagged cursors come from different regions.
// Origin 0 is untagged and compares with anything.
func checkOrigin(a, b uint64) {
	if a == 0 || b == 0 || a == b {
		return
	}
	panic(errors.Precondition(errors.PhaseAccess,
		fmt.Sprintf("comparison of cursors from different regions (%d, %d)", a, b)))
}
