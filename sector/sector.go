// Package sector implements the Sector Decomposer and Sector Coalescer:
// expanding a multi-sector write into fixed-size slices, and reducing a
// slice sequence to one last-write-wins slice per disk offset.
package sector

import (
	"github.com/harborlab/epochperm/bio"
	"github.com/harborlab/epochperm/common"
	"github.com/harborlab/epochperm/util"
)

// Slice is one fixed-size (except possibly the last) portion of a write's
// payload, addressed by absolute disk byte offset. Equality is structural
// over all five fields.
type Slice struct {
	Parent            *bio.Indexed
	ParentSectorIndex uint32
	DiskOffset        uint64
	Size              uint32
	MaxSectorSize     uint32
}

// Payload returns the view into the parent's payload this slice covers.
func (s Slice) Payload() []byte {
	off := uint32(s.ParentSectorIndex) * s.MaxSectorSize
	return s.Parent.Write.Payload[off : off+s.Size]
}

// Decompose expands iw into ceil(size/sectorSize) slices sharing iw's
// payload buffer. iw must have a nonzero SizeBytes; a zero-size write (a
// flush-only barrier half, for instance) has nothing to decompose.
func Decompose(iw *bio.Indexed, sectorSize uint32) []Slice {
	n := iw.Write.SizeBytes
	if n == 0 {
		panic("sector.Decompose: write has no data to decompose")
	}
	numSectors := util.RoundUp(uint64(n), uint64(sectorSize))
	slices := make([]Slice, numSectors)
	for i := uint64(0); i < numSectors; i++ {
		size := sectorSize
		if i == numSectors-1 {
			size = n - uint32(i)*sectorSize
		}
		slices[i] = Slice{
			Parent:            iw,
			ParentSectorIndex: uint32(i),
			DiskOffset:        common.KernelSectorSize*iw.Write.Sector + i*uint64(sectorSize),
			Size:              size,
			MaxSectorSize:     sectorSize,
		}
	}
	return slices
}

// Coalesce reduces slices to one entry per distinct DiskOffset, keeping the
// last occurrence of each offset (last-write-wins) while preserving the
// relative order of survivors. It scans from the end toward the beginning,
// recording the first (i.e. latest) occurrence of each offset, then
// reverses to restore input order.
func Coalesce(slices []Slice) []Slice {
	seen := make(map[uint64]struct{}, len(slices))
	res := make([]Slice, 0, len(slices))
	for i := len(slices) - 1; i >= 0; i-- {
		s := slices[i]
		if _, ok := seen[s.DiskOffset]; ok {
			continue
		}
		seen[s.DiskOffset] = struct{}{}
		res = append(res, s)
	}
	for l, r := 0, len(res)-1; l < r; l, r = l+1, r-1 {
		res[l], res[r] = res[r], res[l]
	}
	return res
}
