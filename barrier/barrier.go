// Package barrier implements the Barrier Policy: pure functions deciding
// whether a barrier write also carries data that must be deferred to the
// next epoch, and performing that split.
package barrier

import "github.com/harborlab/epochperm/bio"

// CanSplit reports whether w is a flush/flush-sequence barrier that also
// carries data and is not itself FUA-durable. A flush flag only promises
// durability of earlier writes, so data carried by w itself belongs to the
// next epoch; FUA writes are exempt because their own data is durable on
// return.
func CanSplit(w bio.Write) bool {
	return w.Flags.HasAny(bio.FlagFlush|bio.FlagFlushSeq) &&
		w.Flags.Has(bio.FlagWrite) &&
		!w.Flags.Has(bio.FlagFUA) &&
		w.SizeBytes > 0
}

// Split divides a splittable barrier w into its flush-only half (closing
// the current epoch, no data, flags untouched) and its data-only half
// (opening the next epoch, flush and flush-sequence flags cleared, all
// other flags including write preserved). Split panics if !CanSplit(w).
func Split(w bio.Write) (flushOnly, dataOnly bio.Write) {
	if !CanSplit(w) {
		panic("barrier.Split: write is not splittable")
	}
	flushOnly = w.ClearData()
	dataOnly = w.ClearFlushFlag().ClearFlushSeqFlag()
	return flushOnly, dataOnly
}
