package sim

import "testing"

func TestMACArray_UpdateArray_ProgressesThroughOneBlock(t *testing.T) {
	a := NewMACArray()
	a.AddMapping(3 /* subsumCnt */, 2 /* blockCnt */, 4 /* macLane */)

	// subsum 0
	for i := 0; i < 4; i++ {
		a.UpdateArray()
	}
	for i, tag := range a.slots {
		if tag != ArraySubsum {
			t.Errorf("slot %d after first subsum pass = %s, want SUBSUM", i, tag)
		}
	}
	if a.Complete() {
		t.Fatal("array reported complete after only one of three subsums")
	}

	// subsum 1
	for i := 0; i < 4; i++ {
		a.UpdateArray()
	}
	// subsum 2 (last): every slot should flip to COMPLETESUM
	for i := 0; i < 4; i++ {
		a.UpdateArray()
	}
	for i, tag := range a.slots {
		if tag != ArrayCompletesum {
			t.Errorf("slot %d after final subsum pass = %s, want COMPLETESUM", i, tag)
		}
	}
	if a.BlockCounterCal() != 1 {
		t.Errorf("BlockCounterCal = %d, want 1", a.BlockCounterCal())
	}
	if a.Complete() {
		t.Fatal("array reported complete after only one of two blocks")
	}
}

func TestMACArray_FindArrayTarget_DrainsCompletesum(t *testing.T) {
	a := NewMACArray()
	a.AddMapping(1, 1, 2)
	a.UpdateArray() // slot 0 (not the last lane)
	// With subsumCnt=1, the first UpdateArray call on slot 0 (not last lane)
	// sets COMPLETESUM directly since subsumCnt_-1 == 0.
	a.UpdateArray() // slot 1 (last lane), completes the block

	idx, ok := a.FindArrayTarget()
	if !ok {
		t.Fatal("expected a drainable COMPLETESUM slot")
	}
	a.UpdateToNull(idx)
	if a.slots[idx] != ArrayNull {
		t.Errorf("slot %d after UpdateToNull = %s, want NULL", idx, a.slots[idx])
	}
}

func TestMACArray_UpdateToNull_PanicsOnWrongTag(t *testing.T) {
	a := NewMACArray()
	a.AddMapping(1, 1, 2)
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic when UpdateToNull targets a non-REMOVING slot")
		}
	}()
	a.UpdateToNull(0)
}
