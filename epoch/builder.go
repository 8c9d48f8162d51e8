package epoch

import (
	"github.com/harborlab/epochperm/barrier"
	"github.com/harborlab/epochperm/bio"
	"github.com/harborlab/epochperm/overlap"
	"github.com/harborlab/epochperm/util"
)

// Builder consumes a write sequence and produces an epoch list, using
// either BuildStrict or BuildSoft. A Builder is not safe for concurrent
// mutation; the epoch list it holds is replaced wholesale by a successful
// build, never exposed half-built.
type Builder struct {
	sectorSize uint64
	epochs     List
}

// New returns a Builder for the given sector size. sectorSize is not used
// by the segmentation algorithms themselves; it is carried so downstream
// sector-mode consumers of Epochs() decompose writes at the granularity the
// workload was recorded for.
func New(sectorSize uint64) *Builder {
	return &Builder{sectorSize: sectorSize}
}

// SectorSize returns the sector granularity this builder was constructed
// with.
func (b *Builder) SectorSize() uint64 {
	return b.sectorSize
}

// Epochs returns the epoch list produced by the most recent build.
func (b *Builder) Epochs() List {
	return b.epochs
}

// assertBarrierLast enforces that an epoch marked HasBarrier really does end
// in an op carrying a barrier flag; a violation means the builder mis-closed
// an epoch somewhere.
func assertBarrierLast(e *Epoch) {
	if len(e.Ops) == 0 || !e.Ops[len(e.Ops)-1].Write.IsBarrier() {
		panic("epoch: has_barrier set but last op is not a barrier")
	}
	util.DPrintf(5, "epoch: closed epoch with %d ops, barrier last\n", len(e.Ops))
}

// BuildStrict segments data using only the flags each write carries: an
// epoch runs until a barrier is seen, at which point a new epoch opens. It
// never assumes anything is persisted until a flush/FUA is observed.
func (b *Builder) BuildStrict(data []bio.Write) {
	var epochs List
	tr := overlap.New()
	haveOpen := false
	checkpointCounter := int64(-1)
	absIndex := uint32(0)

	open := func() *Epoch {
		epochs = append(epochs, newEpoch(checkpointCounter))
		tr = overlap.New()
		haveOpen = true
		return &epochs[len(epochs)-1]
	}

	var cur *Epoch
	for _, w := range data {
		if !haveOpen {
			cur = open()
		}

		switch {
		case w.IsBarrier():
			if barrier.CanSplit(w) {
				flushOnly, dataOnly := barrier.Split(w)
				cur.Ops = append(cur.Ops, bio.Indexed{AbsIndex: absIndex, Write: flushOnly})
				if flushOnly.IsMeta() {
					cur.NumMeta++
				}
				cur.HasBarrier = true
				assertBarrierLast(cur)

				cur = open()
				tr.CheckAndInsert(dataOnly.Sector, dataOnly.EndSector())
				cur.Ops = append(cur.Ops, bio.Indexed{AbsIndex: absIndex, Write: dataOnly})
				if dataOnly.IsMeta() {
					cur.NumMeta++
				}
			} else {
				cur.Ops = append(cur.Ops, bio.Indexed{AbsIndex: absIndex, Write: w})
				if w.IsMeta() {
					cur.NumMeta++
				}
				cur.HasBarrier = true
				assertBarrierLast(cur)
				haveOpen = false
			}
			absIndex++

		case w.IsCheckpoint():
			checkpointCounter++
			cur.CheckpointEpoch = checkpointCounter
			absIndex++

		default:
			if tr.CheckAndInsert(w.Sector, w.EndSector()) {
				cur.Overlaps = true
			}
			cur.Ops = append(cur.Ops, bio.Indexed{AbsIndex: absIndex, Write: w})
			if w.IsMeta() {
				cur.NumMeta++
			}
			absIndex++
		}
	}

	b.epochs = epochs
}
