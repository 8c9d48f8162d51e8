// Package permute implements the Crash-State Permuter: it drives an
// externally supplied permutation policy to produce candidate crash
// states, fingerprints each, and rejects duplicates until a retry budget
// is exhausted.
package permute

import (
	"encoding/binary"

	"github.com/harborlab/epochperm/bio"
	"github.com/harborlab/epochperm/common"
	"github.com/harborlab/epochperm/epoch"
	"github.com/harborlab/epochperm/sector"
	"github.com/harborlab/epochperm/util"
	"github.com/harborlab/epochperm/wire"
)

// Log accumulates a record of what a permutation attempt produced, for
// whatever downstream test harness consumes it. Each generation call
// replaces CrashState with the state it returns; the permuter never reads it.
type Log struct {
	CrashState []wire.DiskWriteData
}

// Policy is the capability set a permutation strategy must provide. The
// permuter itself holds no opinion on how a candidate is chosen; it only
// drives dedup and the retry budget around whatever the policy returns.
type Policy interface {
	// GenOneState fills out with an ordered subsequence of the epoch
	// list's writes representing one candidate crash state. It returns
	// false once the policy has exhausted its state space.
	GenOneState(out *[]bio.Indexed, log *Log) bool

	// GenOneSectorState is the sector-granularity counterpart, emitting
	// already-coalesced sector-level records.
	GenOneSectorState(out *[]sector.Slice, log *Log) bool
}

// Permuter owns an epoch list and the set of fingerprints of crash states
// already returned to a caller. It is not safe for concurrent mutation;
// distinct Permuters are independent.
type Permuter struct {
	epochs epoch.List
	policy Policy
	seen   map[string]struct{}
}

// New returns a Permuter over epochs, driven by policy.
func New(epochs epoch.List, policy Policy) *Permuter {
	return &Permuter{
		epochs: epochs,
		policy: policy,
		seen:   make(map[string]struct{}),
	}
}

// Epochs returns the epoch list this permuter was built over.
func (p *Permuter) Epochs() epoch.List {
	return p.epochs
}

func maxRetries(numSeen uint64) uint64 {
	if r := common.RetryMultiplier * numSeen; r > common.MinRetries {
		return r
	}
	return common.MinRetries
}

func wholeWriteFingerprint(state []bio.Indexed) string {
	buf := make([]byte, len(state)*4)
	for i, iw := range state {
		binary.BigEndian.PutUint32(buf[i*4:], iw.AbsIndex)
	}
	return string(buf)
}

func sectorFingerprint(state []sector.Slice) string {
	buf := make([]byte, len(state)*8)
	for i, s := range state {
		binary.BigEndian.PutUint32(buf[i*8:], s.Parent.AbsIndex)
		binary.BigEndian.PutUint32(buf[i*8+4:], s.ParentSectorIndex)
	}
	return string(buf)
}

// GenerateCrashState drives the policy for a whole-write-granularity crash
// state. On return res holds the state's wire form and log has recorded
// it. The return value is the "a genuinely new state was produced" flag:
// true iff the fingerprint was novel, false if the policy was exhausted or
// the retry budget was spent chasing duplicates.
func (p *Permuter) GenerateCrashState(log *Log) (res []wire.DiskWriteData, newState bool) {
	var candidate []bio.Indexed
	retries := uint64(0)
	limit := maxRetries(uint64(len(p.seen)))
	var fp string
	newStateFlag := true
	duplicate := false

	for {
		newStateFlag = p.policy.GenOneState(&candidate, log)
		fp = wholeWriteFingerprint(candidate)
		_, duplicate = p.seen[fp]

		retries++
		if !newStateFlag || retries >= limit {
			break
		}
		if !duplicate {
			break
		}
	}

	res = make([]wire.DiskWriteData, len(candidate))
	for i, iw := range candidate {
		res[i] = wire.FromIndexed(iw)
	}
	log.CrashState = res

	if !duplicate {
		p.seen[fp] = struct{}{}
		util.DPrintf(3, "permute: accepted whole-write state with %d ops\n", len(candidate))
		return res, newStateFlag
	}
	util.DPrintf(3, "permute: retry budget (%d) exhausted chasing duplicates\n", limit)
	return res, false
}

// GenerateSectorCrashState is the sector-granularity counterpart of
// GenerateCrashState.
func (p *Permuter) GenerateSectorCrashState(log *Log) (res []wire.DiskWriteData, newState bool) {
	var candidate []sector.Slice
	retries := uint64(0)
	limit := maxRetries(uint64(len(p.seen)))
	var fp string
	newStateFlag := true
	duplicate := false

	for {
		newStateFlag = p.policy.GenOneSectorState(&candidate, log)
		fp = sectorFingerprint(candidate)
		_, duplicate = p.seen[fp]

		retries++
		if !newStateFlag || retries >= limit {
			break
		}
		if !duplicate {
			break
		}
	}

	res = make([]wire.DiskWriteData, len(candidate))
	for i, s := range candidate {
		res[i] = wire.FromSlice(s)
	}
	log.CrashState = res

	if !duplicate {
		p.seen[fp] = struct{}{}
		util.DPrintf(3, "permute: accepted sector state with %d slices\n", len(candidate))
		return res, newStateFlag
	}
	util.DPrintf(3, "permute: retry budget (%d) exhausted chasing duplicates\n", limit)
	return res, false
}
