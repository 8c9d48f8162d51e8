// Package epoch implements the Epoch Builder: it partitions a linear write
// stream into ordered epochs delimited by durability barriers and,
// optionally, by quiescent time gaps.
package epoch

import "github.com/harborlab/epochperm/bio"

// Epoch is a maximal run of writes a compliant cache may reorder freely.
type Epoch struct {
	Ops             []bio.Indexed
	NumMeta         int
	Overlaps        bool
	HasBarrier      bool
	CheckpointEpoch int64
}

// List is an ordered sequence of epochs in submission order.
type List []Epoch

func newEpoch(checkpointEpoch int64) Epoch {
	return Epoch{
		Ops:             nil,
		NumMeta:         0,
		Overlaps:        false,
		HasBarrier:      false,
		CheckpointEpoch: checkpointEpoch,
	}
}
