// Package sim implements the cycle-accurate tile-accelerator simulator:
// the state machines for SRAM banks, the MAC array, the global buffers,
// and the softmax/layernorm units, wired together by a stage sequencer
// that drives one global clock.
//
// # Reading Guide
//
// Start with these files to understand the simulation kernel:
//   - tags.go: the closed tag variants every component's cells carry
//   - sram.go: SRAM1/SRAM2 banks and their calculation-cursor advance
//   - array.go: the MAC array + accumulator state machine
//   - globalbuffer.go: the six transfer channels and their two-phase contract
//   - core.go: a Core binding one SRAM1, one SRAM2, one MAC array
//   - stagegraph.go: the table-driven per-tick dataflow driver
//   - topology.go: topology construction (1-core, 8-core)
//   - simulator.go: the tick loop
//
// # Architecture
//
// Dependency order (leaves first): tile state (sram.go) -> MAC array
// (array.go) -> core composition (core.go) -> special-function units
// (softmax.go, layernorm.go) -> global buffer (globalbuffer.go) -> stage
// sequencer (stagegraph.go, simulator.go).
//
// # Key Interfaces
//
//   - sram2Advancer: the two SRAM2 calculation-cursor strategies (fits,
//     streams) plus the Q.Kt ring-order variant, selected at reconfigure
//     time rather than branched on inline.
//   - StageEdge: one row of the stage graph table (source, sink, channel,
//     precondition) walked once per tick by the generic driver.
package sim
