// Package rawdisk is test tooling, not part of the core's public surface:
// a byte-addressable medium used by permute's and sector's test suites to
// materialize a generated crash state and check its placement against a
// real file or an in-memory backing store. It addresses arbitrary byte
// ranges rather than fixed-size blocks, since a crash state writes at
// sector granularity.
package rawdisk

// Medium is a byte-addressable scratch target a test can write a crash
// state's records onto and then read back to check the resulting image.
type Medium interface {
	// ReadAt returns n bytes starting at offset off.
	ReadAt(off uint64, n uint32) ([]byte, error)

	// WriteAt writes v starting at offset off.
	WriteAt(off uint64, v []byte) error

	// Sync ensures previously issued writes are durable.
	Sync() error

	// Close releases any resources held by the medium.
	Close() error
}
