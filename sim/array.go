package sim

// MACArray is the accumulator: a vector of macLane slots, each
// progressing NULL -> SUBSUM -> ... -> COMPLETESUM -> REMOVING -> NULL
// as subsumCnt partial sums are folded into one block.
type MACArray struct {
	slots []ArrayTag

	macLane   int64
	subsumCnt int64
	blockCnt  int64

	arrayIdxCal int64 // write cursor
	subsumCnt_  int64 // subsum counter (distinct from subsumCnt, the configured bound)

	blockCounterCal int64
	blockCounterRm  int64

	arrayIdxRm int64 // drain cursor

	complete bool
}

func NewMACArray() *MACArray { return &MACArray{} }

// AddMapping configures the array for blockCnt blocks of subsumCnt
// subsums each.
func (a *MACArray) AddMapping(subsumCnt, blockCnt, macLane int64) {
	a.subsumCnt = subsumCnt
	a.blockCnt = blockCnt
	a.macLane = macLane
	a.slots = make([]ArrayTag, macLane)
	a.arrayIdxCal, a.subsumCnt_ = 0, 0
	a.blockCounterCal, a.blockCounterRm = 0, 0
	a.arrayIdxRm = 0
	a.complete = false
}

// Ready reports whether the array can accept the next subsum at the
// write cursor: NULL if this is the first subsum of a new block, SUBSUM
// if accumulation is already in progress.
func (a *MACArray) Ready() bool {
	tag := a.slots[a.arrayIdxCal]
	if a.subsumCnt_ == 0 {
		return tag == ArrayNull
	}
	return tag == ArraySubsum
}

// UpdateArray is called once per array-latency completion: it folds one
// subsum into the slot at the write cursor and advances the cursor,
// following the transition table in the component design.
func (a *MACArray) UpdateArray() {
	last := a.arrayIdxCal == a.macLane-1
	var tag ArrayTag
	switch {
	case a.subsumCnt_ == a.subsumCnt-1:
		tag = ArrayCompletesum
	case a.subsumCnt_ == 0:
		tag = ArraySubsum
	default:
		tag = ArraySubsum
	}
	a.slots[a.arrayIdxCal] = tag

	if !last {
		a.arrayIdxCal++
		return
	}

	a.arrayIdxCal = 0
	a.subsumCnt_++
	if a.subsumCnt_ >= a.subsumCnt {
		a.subsumCnt_ = 0
		a.blockCounterCal++
		a.slots[a.macLane-1] = ArrayCompletesum
		if a.blockCounterCal >= a.blockCnt {
			a.complete = true
		}
	}
}

func (a *MACArray) Complete() bool          { return a.complete }
func (a *MACArray) BlockCounterCal() int64  { return a.blockCounterCal }
func (a *MACArray) BlockCounterRm() int64   { return a.blockCounterRm }

// FindArrayTarget scans the slot at the drain cursor for COMPLETESUM; if
// found, transitions it to REMOVING and returns its index, ready for the
// caller to commit a GB array-drain transfer against it.
func (a *MACArray) FindArrayTarget() (idx int64, ok bool) {
	if a.slots[a.arrayIdxRm] != ArrayCompletesum {
		return 0, false
	}
	a.slots[a.arrayIdxRm] = ArrayRemoving
	return a.arrayIdxRm, true
}

// UpdateToNull commits a drain: the slot at idx returns to NULL and the
// drain cursor advances, wrapping block_counter_rm when it does.
func (a *MACArray) UpdateToNull(idx int64) {
	if a.slots[idx] != ArrayRemoving {
		InvariantViolation("MACArray", "UpdateToNull on slot %d not in REMOVING (tag=%s)", idx, a.slots[idx])
	}
	a.slots[idx] = ArrayNull
	a.arrayIdxRm++
	if a.arrayIdxRm >= a.macLane {
		a.arrayIdxRm = 0
		a.blockCounterRm++
	}
}

// Reset clears cursors, block counters, completion and slot tags, keeping
// the subsumCnt, blockCnt and macLane set by the last AddMapping.
func (a *MACArray) Reset() {
	a.arrayIdxCal, a.subsumCnt_ = 0, 0
	a.blockCounterCal, a.blockCounterRm = 0, 0
	a.arrayIdxRm = 0
	a.complete = false
	for i := range a.slots {
		a.slots[i] = ArrayNull
	}
}
