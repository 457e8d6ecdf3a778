package sim

import "testing"

func TestLayerNorm_Calculation_WaitsForFullRow(t *testing.T) {
	l := NewLayerNorm(4, 2)
	l.AddMapping(2)
	l.UpdateToReady(0)
	l.Calculation()
	if l.Busy() {
		t.Fatal("should not start with one cell still NULL")
	}
	l.UpdateToReady(1)
	l.Calculation()
	if !l.Busy() {
		t.Fatal("should start once every cell is DATA_READY")
	}
}

func TestLayerNorm_FindRemovingTarget_RequiresSinkReady(t *testing.T) {
	l := NewLayerNorm(1, 2)
	l.AddMapping(2)
	l.UpdateToReady(0)
	l.UpdateToReady(1)
	l.Calculation()
	l.Tick()

	if _, ok := l.FindRemovingTarget(false); ok {
		t.Fatal("should refuse to hand off a band when the sink row is not ready")
	}
	band, ok := l.FindRemovingTarget(true)
	if !ok {
		t.Fatal("expected a band once the row is DONE and the sink is ready")
	}
	if band.Len != 2 {
		t.Errorf("band.Len = %d, want 2 (clipped to toSRAMBandwidth=2)", band.Len)
	}
}

func TestLayerNorm_UpdateToNull_ReleasesBusyWhenRowFullyDrained(t *testing.T) {
	l := NewLayerNorm(1, 4)
	l.AddMapping(2)
	l.UpdateToReady(0)
	l.UpdateToReady(1)
	l.Calculation()
	l.Tick()

	band, ok := l.FindRemovingTarget(true)
	if !ok {
		t.Fatal("expected a drainable band")
	}
	l.UpdateToNull(band)
	if l.Busy() {
		t.Fatal("row fully drained: should have released busy")
	}
}
