package sim

import "testing"

func TestChannel_Advance_MaturesAtLatencyCount(t *testing.T) {
	var ch Channel
	ch.Start(3)
	if ch.Advance() {
		t.Fatal("should not mature after 1 tick of a 3-tick transfer")
	}
	if ch.Advance() {
		t.Fatal("should not mature after 2 ticks of a 3-tick transfer")
	}
	if !ch.Advance() {
		t.Fatal("should mature on the 3rd tick")
	}
	if ch.Busy {
		t.Fatal("channel should release itself on maturation")
	}
}

func TestGlobalBuffer_WithRownum1Offset_StartsScanAtRowTwo(t *testing.T) {
	gb := NewGlobalBuffer("GB_LP")
	gb.WithRownum1Offset()
	gb.AddMapping(4, 2, 8, 4, 4, 8, false)
	if gb.r1RowInSram != 2 {
		t.Fatalf("r1RowInSram = %d, want 2 (GB5/GB7 skip the first pass)", gb.r1RowInSram)
	}
}

func TestGlobalBuffer_FindSRAM1Target_RequiresRemoveTag(t *testing.T) {
	gb := NewGlobalBuffer("GB_Q")
	gb.AddMapping(2 /* blocknumRowCnt */, 2 /* subsumCnt */, 2, 2, 2, 4, false)

	sram := NewSRAM1()
	sram.AddMapping(2, 2, 2 /* subsumCnt, matches GB's */, 2)
	// Fresh SRAM1 cells are READY, not REMOVE: no band should be found.
	if _, ok := gb.FindSRAM1Target(sram, 4); ok {
		t.Fatal("expected no target: cells are READY, not REMOVE")
	}

	sram.cells[sram.idx(0, 0)] = SRAMRemove
	sram.cells[sram.idx(0, 1)] = SRAMRemove
	band, ok := gb.FindSRAM1Target(sram, 4)
	if !ok {
		t.Fatal("expected to find a 2-cell REMOVE band")
	}
	if band.Len != 2 {
		t.Errorf("band.Len = %d, want 2 (bounded by the 2-cell subsum row; bandwidth 4 allows more)", band.Len)
	}
	if sram.cells[sram.idx(0, 0)] != SRAMRemoving {
		t.Error("committed band should flip its cells to REMOVING")
	}
}

func TestGlobalBuffer_FindSoftmaxNullTarget_DoesNotStraddleRowBoundary(t *testing.T) {
	gb := NewGlobalBuffer("GB_A")
	gb.AddMapping(2, 2, 2, 4, 4, 8, true)
	for i := range gb.AState {
		gb.AState[i] = AStateReady
	}
	// Row width is sram2ColnumCnt=4; asking for a band starting at col 2
	// with bandwidth 8 must be clipped to 2 cells, not run into row 1.
	band, ok := gb.FindSoftmaxNullTarget(0, 2, 8)
	if !ok {
		t.Fatal("expected a clipped band within row 0")
	}
	if band.Len != 2 {
		t.Errorf("band.Len = %d, want 2 (clipped to the row boundary)", band.Len)
	}
}
