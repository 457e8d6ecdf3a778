package sim

import "testing"

func TestCore_SRAMCalAdvance_PropagatesToSRAM1OnlyOnSRAM2Bump(t *testing.T) {
	c := NewCore("test", 1, 1)
	c.SRAM1.AddMapping(1, 2, 2, 1)
	c.SRAM2.AddMapping(2, 4, 2, 2)

	startSub := c.SRAM1.sub
	c.SRAMCalAdvance() // col bump inside SRAM2's mac_lane sweep: no SRAM1 advance yet
	if c.SRAM1.sub != startSub {
		t.Fatalf("SRAM1.sub changed on a pure SRAM2 column bump: got %d, want %d", c.SRAM1.sub, startSub)
	}
}

func TestCore_TickSRAMLatency_MaturesAtConfiguredLatency(t *testing.T) {
	c := NewCore("test", 3, 1)
	if c.TickSRAMLatency() {
		t.Fatal("should not mature on tick 1 of 3")
	}
	if c.TickSRAMLatency() {
		t.Fatal("should not mature on tick 2 of 3")
	}
	if !c.TickSRAMLatency() {
		t.Fatal("should mature on tick 3 of 3")
	}
}

func TestCore_BeginStall_BlocksOneTickThenReleases(t *testing.T) {
	c := NewCore("test", 1, 1)
	c.BeginStall()
	if !c.ConsumeStall() {
		t.Fatal("expected the stall to still be in progress on the first check")
	}
	if c.ConsumeStall() {
		t.Fatal("stall should have released after one tick")
	}
}

func TestCore_Reconfigure_ResetsStageAndCursor(t *testing.T) {
	c := NewCore("test", 1, 1)
	c.Stage = StageDot
	c.blocknumCal = [2]int64{3, 4}
	c.Reconfigure(2, 2, 2)
	if c.Stage != StageRead {
		t.Errorf("Stage after Reconfigure = %s, want READ", c.Stage)
	}
	if c.blocknumCal != ([2]int64{0, 0}) {
		t.Errorf("blocknumCal after Reconfigure = %v, want [0 0]", c.blocknumCal)
	}
}
