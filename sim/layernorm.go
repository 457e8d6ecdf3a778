package sim

// LayerNorm is the same row-granular state machine as Softmax, tied to
// the post-projection GB and feeding the FC1 core's SRAM1 directly
// (bypassing a staging GB). Its output phase is bandwidth-shaped by
// toSRAMBandwidth and the destination SRAM1's latency.
type LayerNorm struct {
	cells []RowTag

	blocknumCol int64

	latencyCounter int64
	latencyCount   int64

	toSRAMBandwidth int64

	busy bool

	removeStart int64 // output-phase read cursor
}

func NewLayerNorm(calLatency, toSRAMBandwidth int64) *LayerNorm {
	return &LayerNorm{latencyCount: calLatency, toSRAMBandwidth: toSRAMBandwidth}
}

func (l *LayerNorm) AddMapping(blocknumCol int64) {
	l.blocknumCol = blocknumCol
	l.cells = make([]RowTag, blocknumCol)
	l.latencyCounter = 0
	l.busy = false
	l.removeStart = 0
}

func (l *LayerNorm) UpdateToReady(idx int64) { l.cells[idx] = RowDataReady }

func (l *LayerNorm) RowReady() bool {
	for _, c := range l.cells {
		if c != RowDataReady {
			return false
		}
	}
	return true
}

func (l *LayerNorm) Calculation() {
	if l.busy || !l.RowReady() {
		return
	}
	l.busy = true
	l.latencyCounter = 0
	l.removeStart = 0
}

func (l *LayerNorm) Tick() (matured bool) {
	if !l.busy {
		return false
	}
	l.latencyCounter++
	if l.latencyCounter < l.latencyCount {
		return false
	}
	for i := range l.cells {
		l.cells[i] = RowDone
	}
	return true
}

// LNComplete reports whether every cell of the row has reached DONE,
// i.e. the calculation itself (not yet the output transfer) is finished.
func (l *LayerNorm) LNComplete() bool {
	for _, c := range l.cells {
		if c != RowDone {
			return false
		}
	}
	return true
}

// FindRemovingTarget finds the next band (bounded by toSRAMBandwidth) of
// DONE cells to send to the destination SRAM1, and finds nothing while
// sinkRowReady is false. The caller decides what sinkRowReady means:
// wireLayerNorm passes "sink SRAM1 not yet write-complete" and does not
// check the REMOVE tags of the sink's target row.
func (l *LayerNorm) FindRemovingTarget(sinkRowReady bool) (Band, bool) {
	if !sinkRowReady {
		return Band{}, false
	}
	if l.removeStart >= l.blocknumCol {
		return Band{}, false
	}
	n := l.toSRAMBandwidth
	if l.removeStart+n > l.blocknumCol {
		n = l.blocknumCol - l.removeStart
	}
	for i := int64(0); i < n; i++ {
		if l.cells[l.removeStart+i] != RowDone {
			return Band{}, false
		}
	}
	for i := int64(0); i < n; i++ {
		l.cells[l.removeStart+i] = RowRemoving
	}
	band := Band{Start: l.removeStart, Len: n}
	l.removeStart += n
	return band, true
}

func (l *LayerNorm) UpdateToNull(b Band) {
	for i := int64(0); i < b.Len; i++ {
		l.cells[b.Start+i] = RowNull
	}
	if l.removeStart >= l.blocknumCol {
		l.busy = false
	}
}

func (l *LayerNorm) Busy() bool { return l.busy }
