package sim

// This file builds the two supported topologies: the 1-core linear
// 0..7 sub-stage sequence, and the 8-core independent-progress layout of
// §5 in SPEC_FULL.md (Q, K, V, A=Q.Kt, X'=A'.V, LP, FC1, FC2 — one
// physical core per stage). Both share the same component types
// (sram.go, array.go, core.go, globalbuffer.go); only the wiring
// differs.

func blocks(n, macLane int64) int64 {
	if n%macLane == 0 {
		return n / macLane
	}
	return n/macLane + 1
}
func subsums(n, macNum int64) int64 {
	if n%macNum == 0 {
		return n / macNum
	}
	return n/macNum + 1
}

// buildEightCoreTopology constructs 8 physical cores, one per stage,
// each independently progressing through its own {READ, DOT} pair once
// its upstream dependency is satisfied. The terminal buffer is GB_FC2:
// the topology stops when its array-drain channel reports complete2.
func (s *Simulator) buildEightCoreTopology() {
	cfg := s.cfg
	headDim := cfg.HeadEmbeddingDim()

	qCore := NewCore("Q", cfg.SRAMAccessLatency, cfg.ArrayAccessAndCalculationLatency)
	kCore := NewCore("K", cfg.SRAMAccessLatency, cfg.ArrayAccessAndCalculationLatency)
	vCore := NewCore("V", cfg.SRAMAccessLatency, cfg.ArrayAccessAndCalculationLatency)
	aCore := NewCore("A", cfg.SRAMAccessLatency, cfg.ArrayAccessAndCalculationLatency)
	xCore := NewCore("X", cfg.SRAMAccessLatency, cfg.ArrayAccessAndCalculationLatency)
	lpCore := NewCore("LP", cfg.SRAMAccessLatency, cfg.ArrayAccessAndCalculationLatency)
	fc1Core := NewCore("FC1", cfg.SRAMAccessLatency, cfg.ArrayAccessAndCalculationLatency)
	fc2Core := NewCore("FC2", cfg.SRAMAccessLatency, cfg.ArrayAccessAndCalculationLatency)
	s.cores = []*Core{qCore, kCore, vCore, aCore, xCore, lpCore, fc1Core, fc2Core}

	seqBlocks := blocks(cfg.SeqLength, cfg.MACLane)
	headDimBlocks := blocks(headDim, cfg.MACLane)
	embedBlocks := blocks(cfg.EmbeddingDim, cfg.MACLane)
	ffnBlocks := blocks(4*cfg.EmbeddingDim, cfg.MACLane)

	qkvSubsums := subsums(cfg.EmbeddingDim, cfg.MACNum)
	aSubsums := subsums(headDim, cfg.MACNum)
	xSubsums := subsums(cfg.SeqLength, cfg.MACNum)
	lpSubsums := subsums(headDim, cfg.MACNum)
	fc1Subsums := subsums(cfg.EmbeddingDim, cfg.MACNum)
	fc2Subsums := subsums(4*cfg.EmbeddingDim, cfg.MACNum)

	// Q, K, V projections: X (seq x embeddingDim) . W (embeddingDim x headDim).
	for _, c := range []*Core{qCore, kCore, vCore} {
		c.SRAM1.AddMapping(seqBlocks, headDimBlocks, qkvSubsums, seqBlocks)
		c.SRAM2.AddMapping(headDimBlocks, headDimBlocks, qkvSubsums, cfg.MACLane)
		c.Reconfigure(qkvSubsums, seqBlocks*headDimBlocks, cfg.MACLane)
	}

	// A = Q.Kt: square seqLen x seqLen, inner dim headDim. Q supplies
	// SRAM1, K supplies SRAM2 in ring order.
	aCore.SRAM1.AddMapping(seqBlocks, seqBlocks, aSubsums, seqBlocks)
	aCore.SRAM2.AddMapping(seqBlocks, seqBlocks, aSubsums, cfg.MACLane)
	aCore.SRAM2.UseQKRingAdvance()
	aCore.Reconfigure(aSubsums, seqBlocks*seqBlocks, cfg.MACLane)

	// X' = A'.V: seq x headDim, inner dim seqLen. A' (softmax output)
	// supplies SRAM1, V supplies SRAM2.
	xCore.SRAM1.AddMapping(seqBlocks, headDimBlocks, xSubsums, seqBlocks)
	xCore.SRAM2.AddMapping(headDimBlocks, headDimBlocks, xSubsums, cfg.MACLane)
	xCore.Reconfigure(xSubsums, seqBlocks*headDimBlocks, cfg.MACLane)

	// LP: X' (seq x headDim) . W_LP (headDim x embeddingDim).
	lpCore.SRAM1.AddMapping(seqBlocks, embedBlocks, lpSubsums, seqBlocks)
	lpCore.SRAM2.AddMapping(embedBlocks, embedBlocks, lpSubsums, cfg.MACLane)
	lpCore.Reconfigure(lpSubsums, seqBlocks*embedBlocks, cfg.MACLane)

	// FC1: LN(X'+X) (seq x embeddingDim) . W_FC1 (embeddingDim x 4*embeddingDim).
	// W_FC1 is the largest weight operand in the layer; physical SRAM2
	// only holds half its logical sub-columns at once, forcing the
	// "streams" advance strategy (spec.md §4.1/§8's boundary behavior)
	// instead of every stage defaulting to "fits".
	fc1SramCols := ffnBlocks / 2
	if fc1SramCols < 1 {
		fc1SramCols = 1
	}
	fc1Core.SRAM1.AddMapping(seqBlocks, ffnBlocks, fc1Subsums, seqBlocks)
	fc1Core.SRAM2.AddMapping(ffnBlocks, fc1SramCols, fc1Subsums, cfg.MACLane)
	fc1Core.Reconfigure(fc1Subsums, seqBlocks*ffnBlocks, cfg.MACLane)

	// FC2: FC1-out (seq x 4*embeddingDim) . W_FC2 (4*embeddingDim x embeddingDim).
	fc2Core.SRAM1.AddMapping(seqBlocks, embedBlocks, fc2Subsums, seqBlocks)
	fc2Core.SRAM2.AddMapping(embedBlocks, embedBlocks, fc2Subsums, cfg.MACLane)
	fc2Core.Reconfigure(fc2Subsums, seqBlocks*embedBlocks, cfg.MACLane)

	gbQ := NewGlobalBuffer("GB_Q")
	gbK := NewGlobalBuffer("GB_K")
	gbV := NewGlobalBuffer("GB_V")
	gbA := NewGlobalBuffer("GB_A")
	gbLP := NewGlobalBuffer("GB_LP")
	gbLP.WithRownum1Offset()
	gb6 := NewGlobalBuffer("GB_6")
	gbFC1 := NewGlobalBuffer("GB_FC1")
	gbFC1.WithRownum1Offset()
	gbFC2 := NewGlobalBuffer("GB_FC2")
	s.gbs = []*GlobalBuffer{gbQ, gbK, gbV, gbA, gbLP, gb6, gbFC1, gbFC2}

	gbQ.AddMapping(seqBlocks, qkvSubsums, seqBlocks, headDimBlocks, headDimBlocks, cfg.GBSRAMBandwidth, false)
	gbK.AddMapping(seqBlocks, qkvSubsums, seqBlocks, headDimBlocks, headDimBlocks, cfg.GBSRAMBandwidth, false)
	gbV.AddMapping(seqBlocks, qkvSubsums, seqBlocks, headDimBlocks, headDimBlocks, cfg.GBSRAMBandwidth, false)
	gbA.AddMapping(seqBlocks, aSubsums, seqBlocks, seqBlocks, seqBlocks, cfg.GBSRAMBandwidth, true)
	gbLP.AddMapping(seqBlocks, lpSubsums, seqBlocks, embedBlocks, embedBlocks, cfg.GBSRAMBandwidth, false)
	gb6.AddMapping(seqBlocks, fc1Subsums, seqBlocks, embedBlocks, embedBlocks, cfg.GBSRAMBandwidth, true)
	gbFC1.AddMapping(seqBlocks, fc1Subsums, seqBlocks, ffnBlocks, fc1SramCols, cfg.GBSRAMBandwidth, false)
	gbFC2.AddMapping(seqBlocks, fc2Subsums, seqBlocks, embedBlocks, embedBlocks, cfg.GBSRAMBandwidth, false)

	s.softmax = NewSoftmax(cfg.SoftmaxCalLatency)
	s.softmax.AddMapping(seqBlocks)
	s.layernorm = NewLayerNorm(cfg.LayerNormCalLatency, cfg.LNSRAMBandwidth)
	s.layernorm.AddMapping(embedBlocks)

	// Projection GBs: array-drain channel from their source core only;
	// Q, K and V reach the A and X cores through the pass-through edges
	// below.
	s.wireProjectionGB(gbQ, qCore, cfg.GBAccessLatency)
	s.wireProjectionGB(gbK, kCore, cfg.GBAccessLatency)
	s.wireProjectionGB(gbV, vCore, cfg.GBAccessLatency)

	// Q, K array pass-through directly into A's operand banks (ring
	// advance on SRAM2); this is the "direct array-to-next-core" channel.
	s.graph.Add(StageEdge{
		Name: "Q->A SRAM1 passthrough",
		TryAdvance: func() {
			if aCore.SRAM1.WriteComplete() {
				return
			}
			if idx, ok := qCore.Array.FindArrayTarget(); ok {
				qCore.Array.UpdateToNull(idx)
				aCore.SRAM1.UpdateToReadyFromArray(qCore.Array.BlockCounterCal(), seqBlocks*headDimBlocks)
			}
		},
	})
	s.graph.Add(StageEdge{
		Name: "K->A SRAM2 passthrough",
		TryAdvance: func() {
			if aCore.SRAM2.CalComplete() {
				return
			}
			if idx, ok := kCore.Array.FindArrayTarget(); ok {
				kCore.Array.UpdateToNull(idx)
				aCore.SRAM2.UpdateToReadyFromArray(idx, "K", kCore.Array.BlockCounterCal())
			}
		},
	})

	// A's array drain feeds GB_A's A-state matrix, which streams rows
	// to softmax and back, then into X's SRAM1.
	s.graph.Add(StageEdge{
		Name: "A array drain -> GB_A",
		TryAdvance: func() {
			if idx, ok := gbA.FindArrayTarget(aCore.Array); ok {
				before := aCore.Array.BlockCounterRm()
				aCore.Array.UpdateToNull(idx)
				if after := aCore.Array.BlockCounterRm(); after != before {
					gbA.UpdateToA1(before/seqBlocks, before%seqBlocks)
				}
			}
		},
	})
	s.wireSoftmax(gbA, s.softmax, cfg)
	s.graph.Add(StageEdge{
		Name: "GB_A -> X SRAM1",
		TryAdvance: func() {
			if xCore.SRAM1.WriteComplete() {
				return
			}
			col := gbA.r1SramIdx % seqBlocks
			if b, ok := gbA.FindSRAMTargetA(xCore.SRAM1, cfg.GBSRAMBandwidth, col); ok {
				gbA.RowColAdvance1(b.Len)
			}
		},
	})
	s.graph.Add(StageEdge{
		Name: "V -> X SRAM2 passthrough",
		TryAdvance: func() {
			if xCore.SRAM2.CalComplete() {
				return
			}
			if idx, ok := vCore.Array.FindArrayTarget(); ok {
				vCore.Array.UpdateToNull(idx)
				xCore.SRAM2.UpdateToReadyFromArray(idx, "V", vCore.Array.BlockCounterCal())
			}
		},
	})

	// X' array drain -> GB_LP (with the rownum1=2 offset) -> LP's
	// SRAM1. LP's weight operand is not restaged: its SRAM2 keeps the
	// READY cells AddMapping gave it.
	s.wireProjectionGB(gbLP, xCore, cfg.GBAccessLatency)
	s.graph.Add(StageEdge{
		Name: "GB_LP -> LP SRAM1",
		TryAdvance: func() {
			if lpCore.SRAM1.WriteComplete() {
				return
			}
			if b, ok := gbLP.FindSRAM1Target(lpCore.SRAM1, cfg.GBSRAMBandwidth); ok {
				gbLP.RowColAdvance1(b.Len)
			}
		},
	})

	// LP array drain -> GB_6's A-state matrix -> layernorm -> directly
	// into FC1's SRAM1 (bypassing a staging GB), per §4.5.
	s.graph.Add(StageEdge{
		Name: "LP array drain -> GB_6",
		TryAdvance: func() {
			if idx, ok := gb6.FindArrayTarget(lpCore.Array); ok {
				before := lpCore.Array.BlockCounterRm()
				lpCore.Array.UpdateToNull(idx)
				if after := lpCore.Array.BlockCounterRm(); after != before {
					gb6.UpdateToA2(before/embedBlocks, before%embedBlocks)
				}
			}
		},
	})
	s.wireLayerNorm(gb6, s.layernorm, fc1Core, cfg)

	// FC1's weight operand streams in via its own GB, array drain feeds FC2.
	// W_FC1 does not fit physical SRAM2 (fc1SramCols above), so GB_FC1
	// also drives the SRAM2 refill channel: every physical sub-column the
	// streams strategy vacates is restaged from GB_FC1's resident copy of
	// the weight matrix before the cursor wraps back onto it.
	s.wireProjectionGB(gbFC1, fc1Core, cfg.GBAccessLatency)
	s.graph.Add(StageEdge{
		Name:      "GB_FC1 weight stage -> FC1 SRAM2",
		Complete2: func() bool { return gbFC1.SRAM2Chan.Complete2 },
		TryAdvance: func() {
			if gbFC1.SRAM2Chan.Busy {
				if gbFC1.SRAM2Chan.Advance() {
					gbFC1.CommitSRAM2Target(fc1Core.SRAM2)
					if gbFC1.SRAM2Chan.Complete1 {
						gbFC1.SRAM2Chan.Complete2 = true
					}
				}
				return
			}
			if _, ok := gbFC1.FindSRAM2Target(fc1Core.SRAM2, cfg.GBSRAMBandwidth); ok {
				gbFC1.SRAM2Chan.Start(cfg.GBAccessLatency)
			}
		},
	})
	s.graph.Add(StageEdge{
		Name: "GB_FC1 -> FC2 SRAM1",
		TryAdvance: func() {
			if fc2Core.SRAM1.WriteComplete() {
				return
			}
			if b, ok := gbFC1.FindSRAM1Target(fc2Core.SRAM1, cfg.GBSRAMBandwidth); ok {
				gbFC1.RowColAdvance1(b.Len)
			}
		},
	})
	s.wireProjectionGB(gbFC2, fc2Core, cfg.GBAccessLatency)

	s.stopFn = func() bool { return gbFC2.ArrayChan.Complete2 }
}

// wireProjectionGB adds the standard array-drain channel for a GB that
// simply stages its source core's result into the next core, with no
// A-state matrix involved.
func (s *Simulator) wireProjectionGB(gb *GlobalBuffer, src *Core, latency int64) {
	s.graph.Add(StageEdge{
		Name:      gb.Name + " array drain",
		Complete2: func() bool { return gb.ArrayChan.Complete2 },
		TryAdvance: func() {
			if gb.ArrayChan.Busy {
				if gb.ArrayChan.Advance() && gb.ArrayChan.Complete1 {
					gb.ArrayChan.Complete2 = true
				}
				return
			}
			if idx, ok := gb.FindArrayTarget(src.Array); ok {
				src.Array.UpdateToNull(idx)
				gb.ArrayChan.Start(latency)
				if src.Array.Complete() {
					gb.ArrayChan.Complete1 = true
				}
			}
		},
	})
}

func (s *Simulator) wireSoftmax(gb *GlobalBuffer, sm *Softmax, cfg *Config) {
	s.graph.Add(StageEdge{
		Name: gb.Name + " -> softmax",
		TryAdvance: func() {
			if b, ok := gb.FindSoftmaxNullTarget(0, 0, cfg.SoftmaxThroughput); ok {
				for i := int64(0); i < b.Len; i++ {
					sm.UpdateToReady(b.Start + i)
				}
				gb.UpdateToCal(0, b.Start)
			}
			sm.Calculation()
		},
	})
	s.graph.Add(StageEdge{
		Name: "softmax -> " + gb.Name,
		TryAdvance: func() {
			if b, ok := gb.FindSoftmaxResTarget(0, 0, cfg.SoftmaxThroughput); ok {
				for i := int64(0); i < b.Len; i++ {
					sm.UpdateToRemoving(b.Start + i)
					sm.UpdateToNull(b.Start + i)
				}
				gb.UpdateToASoftmax(0, b.Start)
			}
		},
	})
}

func (s *Simulator) wireLayerNorm(gb *GlobalBuffer, ln *LayerNorm, sink *Core, cfg *Config) {
	s.graph.Add(StageEdge{
		Name: gb.Name + " -> layernorm",
		TryAdvance: func() {
			if b, ok := gb.FindSoftmaxNullTarget(0, 0, cfg.GBLNBandwidth); ok {
				for i := int64(0); i < b.Len; i++ {
					ln.UpdateToReady(b.Start + i)
				}
				gb.UpdateToCal(0, b.Start)
			}
			ln.Calculation()
		},
	})
	s.graph.Add(StageEdge{
		Name: "layernorm -> " + sink.Name + " SRAM1",
		TryAdvance: func() {
			sinkRowReady := !sink.SRAM1.WriteComplete()
			if b, ok := ln.FindRemovingTarget(sinkRowReady); ok {
				sink.SRAM1.UpdateToReadyFromLN(0, 1, b)
				ln.UpdateToNull(b)
			}
		},
	})
}

// buildOneCoreTopology reuses a single physical core across 8 matmul
// sub-stages: Q, K, V, Q.Kt, A'.V, LP, FC1, FC2, with softmax and
// layernorm run inside the Q.Kt and LP sub-stages — mirroring the
// source's core_num==1 path, where the same SRAM1,
// SRAM2, and MAC array are reconfigured in place between stages rather
// than handed off to a neighboring core.
func (s *Simulator) buildOneCoreTopology() {
	cfg := s.cfg
	headDim := cfg.HeadEmbeddingDim()
	core := NewCore("core0", cfg.SRAMAccessLatency, cfg.ArrayAccessAndCalculationLatency)
	s.cores = []*Core{core}

	seqBlocks := blocks(cfg.SeqLength, cfg.MACLane)
	headDimBlocks := blocks(headDim, cfg.MACLane)
	embedBlocks := blocks(cfg.EmbeddingDim, cfg.MACLane)
	ffnBlocks := blocks(4*cfg.EmbeddingDim, cfg.MACLane)

	qkvSubsums := subsums(cfg.EmbeddingDim, cfg.MACNum)
	aSubsums := subsums(headDim, cfg.MACNum)
	xSubsums := subsums(cfg.SeqLength, cfg.MACNum)
	lpSubsums := subsums(headDim, cfg.MACNum)
	fc1Subsums := subsums(cfg.EmbeddingDim, cfg.MACNum)
	fc2Subsums := subsums(4*cfg.EmbeddingDim, cfg.MACNum)

	type linearStage struct {
		blockRows, blockCols, subsumCnt int64
		qkRing                          bool
	}
	stages := []linearStage{
		{seqBlocks, headDimBlocks, qkvSubsums, false}, // Q
		{seqBlocks, headDimBlocks, qkvSubsums, false}, // K
		{seqBlocks, headDimBlocks, qkvSubsums, false}, // V
		{seqBlocks, seqBlocks, aSubsums, true},        // A = Q.Kt
		{seqBlocks, headDimBlocks, xSubsums, false},   // X' = A'.V
		{seqBlocks, embedBlocks, lpSubsums, false},    // LP
		{seqBlocks, ffnBlocks, fc1Subsums, false},     // FC1
		{seqBlocks, embedBlocks, fc2Subsums, false},   // FC2
	}

	// stageA and stageLP are the two sub-stages whose array output is
	// not immediately the next stage's operand: the real accelerator
	// routes them through softmax and layernorm first, per §4.5/§4.6.
	const (
		stageA  = 3
		stageLP = 5
	)

	stageIdx := 0
	configureStage := func() {
		st := stages[stageIdx]
		core.SRAM1.AddMapping(st.blockRows, st.blockCols, st.subsumCnt, st.blockRows)
		core.SRAM2.AddMapping(st.blockCols, st.blockCols, st.subsumCnt, cfg.MACLane)
		if st.qkRing {
			core.SRAM2.UseQKRingAdvance()
		}
		core.Reconfigure(st.subsumCnt, st.blockRows*st.blockCols, cfg.MACLane)
	}
	configureStage()

	s.softmax = NewSoftmax(cfg.SoftmaxCalLatency)
	s.softmax.AddMapping(seqBlocks)
	s.layernorm = NewLayerNorm(cfg.LayerNormCalLatency, cfg.LNSRAMBandwidth)
	s.layernorm.AddMapping(embedBlocks)

	// The reused core has no neighbor to hand A's and LP's output to, so
	// the round trip through softmax/layernorm stages through two small
	// A-state buffers of its own instead of GB_A/GB_6 — same mechanism,
	// scoped to whichever sub-stage currently owns the array. Layernorm
	// writes its result straight back into the same core's SRAM1, which
	// configureStage immediately overwrites once the next stage starts,
	// mirroring GB_6's direct FC1-SRAM1 feed in the 8-core topology.
	gbA := NewGlobalBuffer("core0-A-state")
	gbA.AddMapping(seqBlocks, aSubsums, seqBlocks, seqBlocks, seqBlocks, cfg.GBSRAMBandwidth, true)
	gbLN := NewGlobalBuffer("core0-LN-state")
	gbLN.AddMapping(seqBlocks, lpSubsums, seqBlocks, embedBlocks, embedBlocks, cfg.GBSRAMBandwidth, true)
	s.gbs = []*GlobalBuffer{gbA, gbLN}

	var aDrained, lpDrained int64
	s.graph.Add(StageEdge{
		Name: "A array drain -> core0-A-state",
		TryAdvance: func() {
			if stageIdx != stageA {
				return
			}
			if idx, ok := gbA.FindArrayTarget(core.Array); ok {
				before := core.Array.BlockCounterRm()
				core.Array.UpdateToNull(idx)
				if after := core.Array.BlockCounterRm(); after != before {
					gbA.UpdateToA1(before/seqBlocks, before%seqBlocks)
					aDrained++
				}
			}
		},
	})
	s.wireSoftmax(gbA, s.softmax, cfg)

	s.graph.Add(StageEdge{
		Name: "LP array drain -> core0-LN-state",
		TryAdvance: func() {
			if stageIdx != stageLP {
				return
			}
			if idx, ok := gbLN.FindArrayTarget(core.Array); ok {
				before := core.Array.BlockCounterRm()
				core.Array.UpdateToNull(idx)
				if after := core.Array.BlockCounterRm(); after != before {
					gbLN.UpdateToA2(before/embedBlocks, before%embedBlocks)
					lpDrained++
				}
			}
		},
	})
	s.wireLayerNorm(gbLN, s.layernorm, core, cfg)

	// A single stage-advance edge drives the reconfiguration points
	// between result-matrix stages, per §4.7: once the reused core's
	// array reports completion, reconfigure it for the next stage's
	// operand shapes instead of handing off to a neighboring core. The A
	// and LP stages additionally hold the core parked (via StageParked,
	// reached through the normal DOT-stage completion path) until their
	// softmax/layernorm round trip has drained and settled, so the
	// reused array is never reconfigured out from under data the next
	// stage still needs to consume.
	s.graph.Add(StageEdge{
		Name: "core0 stage advance",
		TryAdvance: func() {
			if !core.Array.Complete() {
				return
			}
			switch stageIdx {
			case stageA:
				if aDrained < seqBlocks*seqBlocks || s.softmax.Busy() {
					return
				}
			case stageLP:
				if lpDrained < seqBlocks*embedBlocks || s.layernorm.Busy() {
					return
				}
			}
			stageIdx++
			if stageIdx >= len(stages) {
				return
			}
			configureStage()
		},
	})

	s.stopFn = func() bool {
		return stageIdx >= len(stages)-1 && core.Array.Complete()
	}
}
