package sim

// Core binds exactly one SRAM1, one SRAM2, and one MAC array, and
// tracks which result block is currently under construction.
type Core struct {
	Name string

	SRAM1 *SRAM1
	SRAM2 *SRAM2
	Array *MACArray

	blocknumCal [2]int64 // [row, col] of the result block under construction

	Stage CoreStage

	sramLatencyCounter   int64
	arrayLatencyCounter  int64
	sramAccessLatency    int64
	arrayCalcLatency     int64

	stallTicksRemaining int64 // pipeline-drain stall inserted on completion
}

func NewCore(name string, sramAccessLatency, arrayCalcLatency int64) *Core {
	return &Core{
		Name:              name,
		SRAM1:             NewSRAM1(),
		SRAM2:             NewSRAM2(),
		Array:             NewMACArray(),
		Stage:             StageRead,
		sramAccessLatency: sramAccessLatency,
		arrayCalcLatency:  arrayCalcLatency,
	}
}

// SRAMReady reports whether both operand banks have the cell the
// calculation cursor currently needs.
func (c *Core) SRAMReady() bool {
	return c.SRAM1.Ready() && c.SRAM2.Ready(c.blocknumCal[1])
}

// SRAMCalAdvance delegates to SRAM2 first, since it has the finer
// granularity, and propagates to SRAM1 only when SRAM2's subsum cursor
// actually bumps.
func (c *Core) SRAMCalAdvance() {
	sram1Advance := c.SRAM2.CalAdvance(c.blocknumCal)
	if sram1Advance {
		c.SRAM1.CalAdvance(c.blocknumCal, c.SRAM2.CalComplete())
		if c.SRAM1.sub == 0 {
			// SRAM1 wrapped its subsum cursor: the block is finished, move
			// on to the next result column, and to the next row after the
			// last column.
			c.blocknumCal[1]++
			if c.blocknumCal[1] >= c.SRAM1.blocknumCol {
				c.blocknumCal[1] = 0
				c.blocknumCal[0]++
			}
		}
	}
}

// Reset clears cursors and completion state but preserves the bank
// configuration set by the last AddMapping calls.
func (c *Core) Reset() {
	c.Array.Reset()
	c.blocknumCal = [2]int64{0, 0}
	c.Stage = StageRead
	c.sramLatencyCounter, c.arrayLatencyCounter = 0, 0
}

// Reconfigure resizes the MAC array's block count for the next stage.
// Operand mappings for the new stage are re-issued separately by the
// caller via SRAM1.AddMapping / SRAM2.AddMapping.
func (c *Core) Reconfigure(subsumCnt, blockCnt, macLane int64) {
	c.Array.AddMapping(subsumCnt, blockCnt, macLane)
	c.blocknumCal = [2]int64{0, 0}
	c.Stage = StageRead
	c.sramLatencyCounter, c.arrayLatencyCounter = 0, 0
}

// TickSRAMLatency advances the SRAM access latency counter while in the
// READ stage; it reports true the tick the counter matures.
func (c *Core) TickSRAMLatency() bool {
	c.sramLatencyCounter++
	if c.sramLatencyCounter >= c.sramAccessLatency {
		c.sramLatencyCounter = 0
		return true
	}
	return false
}

// TickArrayLatency advances the MAC-array calculation latency counter
// while in the DOT stage; it reports true the tick the counter matures.
func (c *Core) TickArrayLatency() bool {
	c.arrayLatencyCounter++
	if c.arrayLatencyCounter >= c.arrayCalcLatency {
		c.arrayLatencyCounter = 0
		return true
	}
	return false
}

// BeginStall inserts one pipeline-drain stall tick after the array
// reports completion, before the core resets and advances stage.
func (c *Core) BeginStall() { c.stallTicksRemaining = 1 }

// ConsumeStall reports whether a stall is in progress and decrements it;
// the caller should not advance the core's stage while this is true.
func (c *Core) ConsumeStall() bool {
	if c.stallTicksRemaining == 0 {
		return false
	}
	c.stallTicksRemaining--
	return true
}
