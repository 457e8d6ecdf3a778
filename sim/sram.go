package sim

// Band names a contiguous run of cells in a one-dimensional logical
// index space: [Start, Start+Len). Bounded by a bandwidth limit at the
// call site, never by the Band type itself.
type Band struct {
	Start int64
	Len   int64
}

// SRAM1 is the left-operand bank: blocknumRowSram sub-bank rows, each
// holding subsumCnt cells of one block-row's partial sums.
type SRAM1 struct {
	cells []SRAMTag // flat, row-major: cells[row*subsumCnt+sub]

	blocknumRow     int64
	blocknumCol     int64
	subsumCnt       int64
	blocknumRowSram int64

	rowSRAM int64 // calculation cursor: sub-bank row
	sub     int64 // calculation cursor: subsum index

	blockRow int64 // which logical result block-row rowSRAM=0 currently represents

	calComplete   bool
	writeComplete bool
}

func NewSRAM1() *SRAM1 { return &SRAM1{} }

// AddMapping configures the bank for a new result-matrix mapping. All
// cells start READY: the producer populates them before the consumer's
// cursor reaches them.
func (s *SRAM1) AddMapping(blocknumRow, blocknumCol, subsumCnt, blocknumRowSram int64) {
	s.blocknumRow = blocknumRow
	s.blocknumCol = blocknumCol
	s.subsumCnt = subsumCnt
	s.blocknumRowSram = blocknumRowSram
	s.cells = make([]SRAMTag, blocknumRowSram*subsumCnt)
	for i := range s.cells {
		s.cells[i] = SRAMReady
	}
	s.rowSRAM, s.sub, s.blockRow = 0, 0, 0
	s.calComplete, s.writeComplete = false, false
}

func (s *SRAM1) idx(row, sub int64) int64 { return row*s.subsumCnt + sub }

// Ready reports whether the cell at the calculation cursor is READY.
func (s *SRAM1) Ready() bool {
	return s.cells[s.idx(s.rowSRAM, s.sub)] == SRAMReady
}

// CalAdvance moves the calculation cursor one subsum forward, per the
// transition table in the component design: subsum first, then block
// column, then block row, wrapping the sub-bank when it is smaller than
// the whole result.
func (s *SRAM1) CalAdvance(blocknumCal [2]int64, sram2Done bool) {
	if s.sub < s.subsumCnt-1 {
		s.sub++
		return
	}
	s.sub = 0
	if blocknumCal[1] < s.blocknumCol-1 {
		// Not yet the last result column: the same sub-bank row is
		// reused for the next block column.
		return
	}
	// Last column of the result for this block-row: this sub-bank row
	// is done. Mark the whole row for reclamation and advance the
	// cursor, per "mark current row REMOVE" in the component design.
	s.markRowRemove(s.rowSRAM)
	s.rowSRAM++
	s.blockRow++
	if s.rowSRAM >= s.blocknumRowSram {
		if s.blockRow >= s.blocknumRow {
			s.calComplete = true
			s.rowSRAM = s.blocknumRowSram - 1
			s.blockRow = s.blocknumRow - 1
			return
		}
		s.rowSRAM = 0
	}
	if s.blockRow >= s.blocknumRow {
		s.calComplete = true
	}
	if sram2Done {
		// SRAM2 has reported completion: flush whatever row is
		// currently resident rather than waiting for another pass.
		s.markRowRemove(s.rowSRAM)
	}
}

// markRowRemove flags every cell of one sub-bank row REMOVE, freeing the
// whole row for a GB refill rather than just its last subsum cell.
func (s *SRAM1) markRowRemove(row int64) {
	for sub := int64(0); sub < s.subsumCnt; sub++ {
		s.cells[s.idx(row, sub)] = SRAMRemove
	}
}

// UpdateToReady flips a band of cells (within one sub-bank row) to READY.
func (s *SRAM1) UpdateToReady(row int64, b Band) {
	for i := int64(0); i < b.Len; i++ {
		s.cells[s.idx(row, b.Start+i)] = SRAMReady
	}
}

// UpdateToRemoving flips a band of cells to REMOVING, marking them as
// claimed by an in-flight GB transfer.
func (s *SRAM1) UpdateToRemoving(row int64, b Band) {
	for i := int64(0); i < b.Len; i++ {
		s.cells[s.idx(row, b.Start+i)] = SRAMRemoving
	}
}

// UpdateToReadyFromLN accepts a band written directly from LayerNorm's
// output, indexed modulo the sub-bank's row capacity. writeComplete is
// set once rowIdx reaches sramRowStd, the row count the producer is
// expected to deliver.
func (s *SRAM1) UpdateToReadyFromLN(rowIdx, sramRowStd int64, b Band) {
	row := rowIdx % s.blocknumRowSram
	s.UpdateToReady(row, b)
	if rowIdx == sramRowStd {
		s.writeComplete = true
	}
}

// UpdateToReadyFromSoftmax accepts a softmax output write: each
// mac_lane-block of softmax output populates two consecutive cells at
// row aRow.
func (s *SRAM1) UpdateToReadyFromSoftmax(aRow int64, b Band) {
	s.UpdateToReady(aRow%s.blocknumRowSram, b)
}

// UpdateToReadyFromArray accepts writes directly from a previous core's
// array drain: every second block written into a mac_lane-pair of cells
// transitions the pair to READY. blockRowIdx is the zero-based index of
// the block being delivered; writeComplete is set once the last block
// (index blockCnt-1) arrives.
func (s *SRAM1) UpdateToReadyFromArray(blockRowIdx, blockCnt int64) {
	if blockRowIdx%2 == 1 {
		pairRow := (blockRowIdx / 2) % s.blocknumRowSram
		s.UpdateToReady(pairRow, Band{Start: 0, Len: s.subsumCnt})
	}
	if blockRowIdx+1 >= blockCnt {
		s.writeComplete = true
	}
}

func (s *SRAM1) CalComplete() bool   { return s.calComplete }
func (s *SRAM1) WriteComplete() bool { return s.writeComplete }

// sram2Advancer is the strategy object the design notes call for: the
// SRAM2 calculation-cursor advance varies between "fits", "streams",
// and the Q.Kt ring-order variant, selected at reconfigure time rather
// than branched on inline.
type sram2Advancer interface {
	advance(s *SRAM2, blocknumCal [2]int64) (isSram1Advance bool)
}

// SRAM2 is the right-operand bank: blocknumColSram2 sub-columns, each
// mac_lane wide, each holding subsumCnt cells.
type SRAM2 struct {
	cells []SRAMTag // flat: cells[col*subsumCnt+sub]

	blocknumColStd     int64 // logical sub-columns the whole weight matrix needs
	blocknumColSramStd int64 // physical sub-columns SRAM2 can hold
	subsumCnt          int64
	macLane            int64

	colCal int64 // calculation cursor: mac_lane-width sweep index within a sub-column
	subCal int64 // calculation cursor: subsum index
	rowCal int64 // calculation cursor: result row (for the "fits" sweep order)

	colSramIdxCal int64 // streams mode only: which logical sub-column is physically live

	calComplete bool
	fits        bool
	strategy    sram2Advancer
}

func NewSRAM2() *SRAM2 { return &SRAM2{} }

// AddMapping configures SRAM2 and selects its advance strategy: "fits"
// when the whole weight matrix's sub-columns reside in physical SRAM2
// simultaneously, "streams" otherwise.
func (s *SRAM2) AddMapping(blocknumColStd, blocknumColSramStd, subsumCnt, macLane int64) {
	s.blocknumColStd = blocknumColStd
	s.blocknumColSramStd = blocknumColSramStd
	s.subsumCnt = subsumCnt
	s.macLane = macLane
	s.cells = make([]SRAMTag, blocknumColSramStd*subsumCnt)
	for i := range s.cells {
		s.cells[i] = SRAMReady
	}
	s.colCal, s.subCal, s.rowCal, s.colSramIdxCal = 0, 0, 0, 0
	s.calComplete = false
	s.fits = blocknumColStd <= blocknumColSramStd
	if s.fits {
		s.strategy = fitsAdvancer{}
	} else {
		s.strategy = streamsAdvancer{}
	}
}

// UseQKRingAdvance switches SRAM2 to the ring-expansion strategy used
// exclusively for Q.Kt, so the attention matrix fills in a diagonal
// expanding pattern rather than row-major sweep order.
func (s *SRAM2) UseQKRingAdvance() { s.strategy = qkRingAdvancer{} }

func (s *SRAM2) idx(col, sub int64) int64 { return col*s.subsumCnt + sub }

// Ready reports whether SRAM2 can supply the next calculation step. The
// blockCol parameter names the logical result column the core is
// filling; it is the caller's business, not SRAM2's — the bank always
// checks its own live physical cursor.
func (s *SRAM2) Ready(blockCol int64) bool {
	return s.cells[s.idx(s.colSramIdxCal, s.subCal)] == SRAMReady
}

// CalAdvance delegates to the selected strategy.
func (s *SRAM2) CalAdvance(blocknumCal [2]int64) (isSram1Advance bool) {
	return s.strategy.advance(s, blocknumCal)
}

func (s *SRAM2) CalComplete() bool { return s.calComplete }

// UpdateToReadyFromArray accepts writes directly from a previous core's
// array, using one of two write-layouts depending on which matrix is
// being staged: K (row = ceil of pair-counter mod 2, col = pair sweep)
// or V (row = pair index, col = block sweep within a sub-column).
func (s *SRAM2) UpdateToReadyFromArray(blocknumCol int64, matrix string, pairCounter int64) {
	var row, col int64
	switch matrix {
	case "K":
		row = (pairCounter + 1) % 2
		col = pairCounter / 2
	case "V":
		row = pairCounter % 2
		col = blocknumCol
	default:
		InvariantViolation("SRAM2", "unknown matrix %q for array write-layout", matrix)
	}
	s.UpdateToReady(Band{Start: row*s.subsumCnt + col, Len: 1})
}

func (s *SRAM2) UpdateToReady(b Band) {
	for i := int64(0); i < b.Len; i++ {
		s.cells[b.Start+i] = SRAMReady
	}
}

func (s *SRAM2) UpdateToRemoving(b Band) {
	for i := int64(0); i < b.Len; i++ {
		s.cells[b.Start+i] = SRAMRemoving
	}
}

// fitsAdvancer implements the "fits" calculation-cursor sweep: mac_lane
// width, then subsum. Each completed subsum sweep steps rowCal, and
// calComplete is set once rowCal reaches blocknumColStd; there is no
// separate result-column level. REMOVE is marked only on the last
// subsum cell of sub-column blocknumCal[1], and only when blocknumCal[0]
// equals blocknumColStd-1.
type fitsAdvancer struct{}

func (fitsAdvancer) advance(s *SRAM2, blocknumCal [2]int64) bool {
	isSram1Advance := false
	s.colCal++
	if s.colCal < s.macLane {
		return false
	}
	s.colCal = 0
	s.subCal++
	isSram1Advance = true
	if s.subCal < s.subsumCnt {
		return isSram1Advance
	}
	s.subCal = 0
	s.rowCal++
	isLastRowSweep := blocknumCal[0] == s.blocknumColStd-1
	if isLastRowSweep {
		s.cells[s.idx(blocknumCal[1], s.subsumCnt-1)] = SRAMRemove
	}
	if s.rowCal >= s.blocknumColStd {
		s.calComplete = true
	}
	return isSram1Advance
}

// streamsAdvancer implements the "streams" calculation-cursor sweep used
// when the weight matrix does not fit in physical SRAM2: it runs the
// fitsAdvancer sweep, and each time a physical sub-column sweep
// completes it marks that sub-column REMOVE and moves colSramIdxCal to
// the next physical sub-column, wrapping to 0. It has no outer
// result-row level of its own: rowCal steps once per sub-column sweep,
// as in fitsAdvancer.
type streamsAdvancer struct{}

func (streamsAdvancer) advance(s *SRAM2, blocknumCal [2]int64) bool {
	isSram1Advance := fitsAdvancer{}.advance(s, blocknumCal)
	if s.subCal == 0 && s.colCal == 0 {
		// A physical sub-column sweep just completed: mark the whole
		// column REMOVE so a weight-staging GB can refill it with the
		// next logical sub-column, then advance the physical cursor.
		finished := s.colSramIdxCal
		for sub := int64(0); sub < s.subsumCnt; sub++ {
			s.cells[s.idx(finished, sub)] = SRAMRemove
		}
		s.colSramIdxCal++
		if s.colSramIdxCal >= s.blocknumColSramStd {
			s.colSramIdxCal = 0
		}
	}
	return isSram1Advance
}

// qkRingAdvancer fills the attention matrix A=Q.Kt in a diagonal
// expanding pattern instead of row-major order, so the symmetric region
// already computed is never revisited.
type qkRingAdvancer struct{}

func (qkRingAdvancer) advance(s *SRAM2, blocknumCal [2]int64) bool {
	isSram1Advance := false
	s.colCal++
	if s.colCal < s.macLane {
		return false
	}
	s.colCal = 0
	s.subCal++
	isSram1Advance = true
	if s.subCal < s.subsumCnt {
		return isSram1Advance
	}
	s.subCal = 0
	// Ring order: step the diagonal ring outward by one instead of the
	// linear row++ the fits/streams strategies use.
	ring := (blocknumCal[0] + blocknumCal[1] + 1) % s.blocknumColStd
	s.rowCal = ring
	if ring == 0 {
		s.calComplete = true
	}
	return isSram1Advance
}
