package sector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harborlab/epochperm/bio"
	"github.com/harborlab/epochperm/internal/rawdisk"
)

func TestDecomposeEvenSplit(t *testing.T) {
	assert := assert.New(t)
	iw := &bio.Indexed{AbsIndex: 5, Write: bio.Write{
		Sector:    16,
		SizeBytes: 8192,
		Payload:   make([]byte, 8192),
	}}

	slices := Decompose(iw, 4096)
	if assert.Len(slices, 2) {
		assert.Equal(uint64(16*512), slices[0].DiskOffset)
		assert.Equal(uint32(4096), slices[0].Size)
		assert.Equal(uint64(16*512+4096), slices[1].DiskOffset)
		assert.Equal(uint32(4096), slices[1].Size)
	}
}

func TestDecomposeUnevenLastSlice(t *testing.T) {
	assert := assert.New(t)
	iw := &bio.Indexed{Write: bio.Write{
		Sector:    0,
		SizeBytes: 9000,
		Payload:   make([]byte, 9000),
	}}

	slices := Decompose(iw, 4096)
	if assert.Len(slices, 3) {
		assert.Equal(uint32(4096), slices[0].Size)
		assert.Equal(uint32(4096), slices[1].Size)
		assert.Equal(uint32(9000-2*4096), slices[2].Size)
	}
}

func TestDecomposePayloadView(t *testing.T) {
	assert := assert.New(t)
	payload := []byte{0, 1, 2, 3, 4, 5, 6, 7}
	iw := &bio.Indexed{Write: bio.Write{Sector: 0, SizeBytes: 8, Payload: payload}}

	slices := Decompose(iw, 4)
	assert.Equal([]byte{0, 1, 2, 3}, slices[0].Payload())
	assert.Equal([]byte{4, 5, 6, 7}, slices[1].Payload())
}

func TestDecomposePanicsOnEmptyWrite(t *testing.T) {
	assert := assert.New(t)
	iw := &bio.Indexed{Write: bio.Write{Sector: 0, SizeBytes: 0}}
	assert.Panics(func() { Decompose(iw, 4096) })
}

func TestCoalesceLastWriteWinsPreservesOrder(t *testing.T) {
	assert := assert.New(t)
	mk := func(off uint64) Slice { return Slice{DiskOffset: off} }
	in := []Slice{mk(0), mk(4096), mk(0), mk(8192), mk(4096)}

	out := Coalesce(in)

	var offsets []uint64
	for _, s := range out {
		offsets = append(offsets, s.DiskOffset)
	}
	assert.Equal([]uint64{0, 8192, 4096}, offsets)
}

func TestCoalesceNoDuplicatesIsUnchanged(t *testing.T) {
	assert := assert.New(t)
	mk := func(off uint64) Slice { return Slice{DiskOffset: off} }
	in := []Slice{mk(0), mk(4096), mk(8192)}
	out := Coalesce(in)
	assert.Equal(in, out)
}

func TestCoalesceKeepsLastInstance(t *testing.T) {
	assert := assert.New(t)
	first := Slice{DiskOffset: 100, Size: 512}
	second := Slice{DiskOffset: 100, Size: 4096}
	out := Coalesce([]Slice{first, second})
	if assert.Len(out, 1) {
		assert.Equal(second, out[0])
	}
}

// TestCoalesceAppliesOntoMedium materializes a coalesced slice sequence onto
// an in-memory medium and checks the resulting image reflects last-write-wins
// rather than every slice's payload landing in input order.
func TestCoalesceAppliesOntoMedium(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	older := &bio.Indexed{AbsIndex: 0, Write: bio.Write{
		Sector: 0, SizeBytes: 4, Payload: []byte("AAAA"),
	}}
	newer := &bio.Indexed{AbsIndex: 1, Write: bio.Write{
		Sector: 0, SizeBytes: 4, Payload: []byte("BBBB"),
	}}

	olderSlices := Decompose(older, 4)
	newerSlices := Decompose(newer, 4)
	all := append(append([]Slice{}, olderSlices...), newerSlices...)

	coalesced := Coalesce(all)
	require.Len(coalesced, 1, "both writes land on the same disk offset")

	m := rawdisk.OpenMem(4)
	defer m.Close()

	for _, s := range coalesced {
		require.NoError(m.WriteAt(s.DiskOffset, s.Payload()))
	}
	require.NoError(m.Sync())

	got, err := m.ReadAt(coalesced[0].DiskOffset, coalesced[0].Size)
	require.NoError(err)
	assert.Equal("BBBB", string(got), "last write must win on the materialized medium")
}
