// Package wire holds the outbound crash-state record format consumed by
// whatever replays a generated crash state; this module only produces it.
package wire

import (
	"github.com/harborlab/epochperm/bio"
	"github.com/harborlab/epochperm/common"
	"github.com/harborlab/epochperm/sector"
)

// DiskWriteData is one emitted record of a crash state: either a whole
// write (IsWholeBio true, BioSectorIndex and PayloadOffset zero) or one
// coalesced sector slice of a write.
type DiskWriteData struct {
	IsWholeBio      bool
	BioIndex        uint32
	BioSectorIndex  uint32
	DiskOffsetBytes uint64
	SizeBytes       uint32
	Payload         []byte
	PayloadOffset   uint32
}

// FromIndexed converts a whole write into its wire form, as emitted by
// GenerateCrashState.
func FromIndexed(iw bio.Indexed) DiskWriteData {
	return DiskWriteData{
		IsWholeBio:      true,
		BioIndex:        iw.AbsIndex,
		BioSectorIndex:  0,
		DiskOffsetBytes: common.KernelSectorSize * iw.Write.Sector,
		SizeBytes:       iw.Write.SizeBytes,
		Payload:         iw.Write.Payload,
		PayloadOffset:   0,
	}
}

// FromSlice converts a coalesced sector slice into its wire form, as
// emitted by GenerateSectorCrashState.
func FromSlice(s sector.Slice) DiskWriteData {
	return DiskWriteData{
		IsWholeBio:      false,
		BioIndex:        s.Parent.AbsIndex,
		BioSectorIndex:  s.ParentSectorIndex,
		DiskOffsetBytes: s.DiskOffset,
		SizeBytes:       s.Size,
		Payload:         s.Parent.Write.Payload,
		PayloadOffset:   s.ParentSectorIndex * s.MaxSectorSize,
	}
}
