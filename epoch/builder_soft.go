package epoch

import (
	"github.com/harborlab/epochperm/barrier"
	"github.com/harborlab/epochperm/bio"
	"github.com/harborlab/epochperm/common"
	"github.com/harborlab/epochperm/overlap"
)

// BuildSoft segments data like BuildStrict, but additionally closes an
// epoch when the gap between two consecutive write timestamps reaches
// common.SoftEpochMaxGapNs, on the theory that a quiescent disk has had
// time to flush its cache even without an explicit barrier. Unlike strict
// mode, an epoch is always left open between writes (closed only by a
// barrier or a time gap, never simply absent).
func (b *Builder) BuildSoft(data []bio.Write) {
	var epochs List
	tr := overlap.New()
	checkpointCounter := int64(-1)
	absIndex := uint32(0)
	var lastTimeSeen int64

	open := func() *Epoch {
		epochs = append(epochs, newEpoch(checkpointCounter))
		tr = overlap.New()
		return &epochs[len(epochs)-1]
	}

	cur := open()

	for _, w := range data {
		switch {
		case w.IsCheckpoint() && !w.IsBarrier():
			checkpointCounter++
			if len(cur.Ops) == 0 {
				cur.CheckpointEpoch = checkpointCounter
			}

		case !w.IsBarrier():
			if lastTimeSeen > 0 && w.TimeNs-lastTimeSeen >= common.SoftEpochMaxGapNs {
				cur = open()
			}
			cur.Ops = append(cur.Ops, bio.Indexed{AbsIndex: absIndex, Write: w})
			if w.IsMeta() {
				cur.NumMeta++
			}
			lastTimeSeen = w.TimeNs
			if tr.CheckAndInsert(w.Sector, w.EndSector()) {
				cur.Overlaps = true
			}

		default: // barrier
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

				cur = open()
			}
			lastTimeSeen = 0
		}

		absIndex++
	}

	// A trailing empty epoch can be left over from the always-open
	// invariant above; drop it if it carries no new checkpoint_epoch.
	if len(epochs) > 1 {
		last := &epochs[len(epochs)-1]
		prev := &epochs[len(epochs)-2]
		if len(last.Ops) == 0 && last.CheckpointEpoch == prev.CheckpointEpoch {
			epochs = epochs[:len(epochs)-1]
		}
	}

	b.epochs = epochs
}
