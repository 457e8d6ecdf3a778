package sim

import "testing"

func TestSoftmax_Calculation_WaitsForFullRow(t *testing.T) {
	s := NewSoftmax(5)
	s.AddMapping(3)
	s.UpdateToReady(0)
	s.UpdateToReady(1)
	s.Calculation()
	if s.Busy() {
		t.Fatal("should not start calculation with one cell still NULL")
	}
	s.UpdateToReady(2)
	s.Calculation()
	if !s.Busy() {
		t.Fatal("should start calculation once every cell is DATA_READY")
	}
}

func TestSoftmax_Tick_MaturesAtLatencyAndMarksEveryCellDone(t *testing.T) {
	s := NewSoftmax(2)
	s.AddMapping(2)
	s.UpdateToReady(0)
	s.UpdateToReady(1)
	s.Calculation()

	if s.Tick() {
		t.Fatal("should not mature on tick 1 of 2")
	}
	if !s.Tick() {
		t.Fatal("should mature on tick 2 of 2")
	}
	for i, c := range s.cells {
		if c != RowDone {
			t.Errorf("cell %d = %s, want DONE", i, c)
		}
	}
}

func TestSoftmax_UpdateToNull_ReleasesBusyOnLastCell(t *testing.T) {
	s := NewSoftmax(1)
	s.AddMapping(2)
	s.UpdateToReady(0)
	s.UpdateToReady(1)
	s.Calculation()
	s.Tick()

	s.UpdateToRemoving(0)
	s.UpdateToNull(0)
	if !s.Busy() {
		t.Fatal("one cell still DONE: row should still be busy")
	}
	s.UpdateToRemoving(1)
	s.UpdateToNull(1)
	if s.Busy() {
		t.Fatal("every cell NULL: row should release")
	}
}
