//go:build !burstdebug

package cursor

// checkOriginsEnabled reports whether cursor comparisons verify origin tags.
const checkOriginsEnabled = false

func checkOrigin(a, b uint64) {}
