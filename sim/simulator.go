package sim

import (
	"github.com/sirupsen/logrus"
)

// Simulator drives the global clock. Construction wires one of the two
// supported topologies (1-core, 8-core) into a StageGraph; Run then
// walks the fixed per-tick order from the stage sequencer design until
// the topology's stop predicate fires or TickCap is reached.
type Simulator struct {
	cfg *Config

	cores []*Core
	gbs   []*GlobalBuffer

	softmax   *Softmax
	layernorm *LayerNorm

	graph *StageGraph

	clock int64

	utilCounters []int64

	stopFn func() bool

	log *logrus.Logger
}

// NewSimulator validates cfg and constructs the requested topology. It
// returns ErrUnsupportedTopology / ErrUnsupportedShape on a failed
// precondition check rather than starting a doomed run.
func NewSimulator(cfg *Config) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log := logrus.New()
	if cfg.DebugFlag {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.InfoLevel)
	}

	s := &Simulator{cfg: cfg, graph: &StageGraph{}, log: log}
	switch cfg.CoreNum {
	case 1:
		s.buildOneCoreTopology()
	case 8:
		s.buildEightCoreTopology()
	default:
		return nil, &ErrUnsupportedTopology{CoreNum: cfg.CoreNum}
	}
	s.utilCounters = make([]int64, len(s.cores))
	return s, nil
}

// Run advances the clock one metatime unit per iteration, per the
// fixed ordering in §4.7: transfers, then cross-core pass-throughs,
// then READ-stage cores, then DOT-stage cores, then softmax/layernorm,
// then the clock increment. It stops when the topology's stop
// predicate fires, or after TickCap ticks if TickCap > 0.
func (s *Simulator) Run() *Metrics {
	for {
		if s.stopFn() {
			break
		}
		if s.cfg.TickCap > 0 && s.clock >= s.cfg.TickCap {
			s.log.Warnf("tick cap %d reached before stop condition", s.cfg.TickCap)
			break
		}
		s.tick()
	}
	return s.metrics()
}

func (s *Simulator) tick() {
	// 1 & 2: every GB channel and cross-core pass-through that has not
	// yet retired its mapping gets one find-or-advance step.
	s.graph.Tick()

	// 3 & 4: READ-stage cores advance their SRAM latency counter; on
	// maturation they advance the calculation cursor and flip to DOT.
	// DOT-stage cores advance their array latency counter; on
	// maturation they fold one subsum in, and on array completion they
	// stall one tick for pipeline drain before resetting.
	for i, c := range s.cores {
		switch c.Stage {
		case StageRead:
			if !c.SRAMReady() {
				continue
			}
			if c.TickSRAMLatency() {
				c.SRAMCalAdvance()
				c.Stage = StageDot
			}
		case StageDot:
			s.utilCounters[i]++
			if c.ConsumeStall() {
				continue
			}
			// The stall tick has drained. If nothing reset the array for
			// a new stage in the meantime (the 8-core topology never
			// does: each physical core owns exactly one matmul), park the
			// core instead of re-entering update_array on an already
			// complete block. In the 1-core topology the stage-advance edge
			// usually resets Stage to StageRead earlier in this same tick
			// (s.graph.Tick ran first); in the A and LP sub-stages it waits
			// for the softmax/layernorm round trip, and the core parks here
			// until that edge reconfigures it.
			if c.Array.Complete() {
				c.Stage = StageParked
				continue
			}
			if !c.Array.Ready() {
				continue
			}
			if c.TickArrayLatency() {
				c.Array.UpdateArray()
				if c.Array.Complete() {
					c.BeginStall()
				} else {
					c.Stage = StageRead
				}
			}
		}
	}

	// 5: softmax / layernorm timers.
	if s.softmax != nil {
		s.softmax.Tick()
	}
	if s.layernorm != nil {
		s.layernorm.Tick()
	}

	// 6: global clock.
	s.clock++
	if s.log.IsLevelEnabled(logrus.DebugLevel) && s.clock%500 == 0 {
		s.log.Debugf("[tick %07d] clock advanced", s.clock)
	}
}

func (s *Simulator) metrics() *Metrics {
	m := &Metrics{
		TotalTicks:   s.clock,
		TotalLatency: float64(s.clock) * MetaTimeNS,
		CoreUtil:     make([]float64, len(s.cores)),
	}
	for i, u := range s.utilCounters {
		m.CoreUtil[i] = UtilCounterToPercent(u, s.clock)
	}
	return m
}

// Clock returns the number of ticks elapsed so far.
func (s *Simulator) Clock() int64 { return s.clock }
