// Package common holds the constants shared by every other package in this
// module. It is a leaf: it imports nothing from the rest of the module.
package common

const (
	// KernelSectorSize is the unit size_bytes of W.sector is expressed in,
	// independent of any sector granularity chosen for decomposition.
	KernelSectorSize uint64 = 512

	// SoftEpochMaxGapNs is the maximum nanosecond gap between two
	// consecutive non-barrier submissions before build_soft starts a new
	// epoch on its own.
	SoftEpochMaxGapNs int64 = 2_500_000_000

	// MinRetries and RetryMultiplier size the crash-state dedup retry
	// budget: max_retries = max(MinRetries, RetryMultiplier * |P|).
	MinRetries      uint64 = 1000
	RetryMultiplier uint64 = 2
)
