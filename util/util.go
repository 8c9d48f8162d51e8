// Package util holds small leveled-logging and byte-slice helpers shared by
// the rest of the module.
package util

import "log"

// Debug is the leveled-logging cutoff: DPrintf calls at or below this level
// are forwarded to the standard logger, everything louder is dropped.
const Debug uint64 = 1

// DPrintf logs format/a at level, gated by Debug. Used by epoch to trace
// epochs closed by a barrier and by permute to trace accepted states and
// retry exhaustion, without committing to a particular logging library.
func DPrintf(level uint64, format string, a ...interface{}) {
	if level <= Debug {
		log.Printf(format, a...)
	}
}

// RoundUp divides n by sz, rounding up. Used by sector.Decompose to compute
// the number of sector slices a write expands into.
func RoundUp(n uint64, sz uint64) uint64 {
	return (n + sz - 1) / sz
}

// Min returns the smaller of n and m.
func Min(n uint64, m uint64) uint64 {
	if n < m {
		return n
	}
	return m
}

// CloneByteSlice returns a fresh copy of b so callers can hand out payload
// views without letting the recipient mutate shared storage.
func CloneByteSlice(b []byte) []byte {
	c := make([]byte, len(b))
	copy(c, b)
	return c
}
