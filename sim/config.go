package sim

import "fmt"

// Config groups every option the stage sequencer and its components need
// to construct a simulation. Field names mirror the option table in the
// external interface surface so flags, YAML keys, and Go identifiers stay
// in lockstep.
type Config struct {
	CoreNum int `yaml:"core_num"` // 1 or 8: topology selector

	SRAMCapacity      int64 `yaml:"sram_capacity"`       // bytes per SRAM bank
	MACLane           int64 `yaml:"mac_lane"`            // tile edge length (mac_lane)
	MACNum            int64 `yaml:"mac_num"`             // dot-product width (mac_num)
	SRAMAccessLatency int64 `yaml:"sram_access_latency"` // ticks per SRAM access
	GBAccessLatency   int64 `yaml:"gb_access_latency"`   // ticks per GB access
	GBSRAMBandwidth   int64 `yaml:"gb_sram_bandwidth"`   // cells moved per GB access, to SRAM1

	ArrayAccessAndCalculationLatency int64 `yaml:"array_access_and_calculation_latency"` // ticks per MAC-array step

	SoftmaxCalLatency   int64 `yaml:"softmax_cal_latency"`   // ticks per softmax row
	SoftmaxThroughput   int64 `yaml:"softmax_throughput"`    // band width GB->Softmax
	LayerNormCalLatency int64 `yaml:"layernorm_cal_latency"` // ticks per LN row
	GBLNBandwidth       int64 `yaml:"gb_ln_bandwidth"`       // band width GB->LN
	LNSRAMBandwidth     int64 `yaml:"ln_sram_bandwidth"`     // band width LN->SRAM1 (must be even)

	SeqLength    int64 `yaml:"seq_length"`    // rows of X
	EmbeddingDim int64 `yaml:"embedding_dim"` // columns of X
	HeadNum      int64 `yaml:"head_num"`      // number of attention heads (divides embedding_dim)
	HeadID       int64 `yaml:"head_id"`       // which head this instance simulates

	DebugFlag bool `yaml:"debug_flag"` // trace gate

	// TickCap bounds the number of ticks the simulator will run before
	// giving up; zero means unbounded. Not part of the original source,
	// added so tests can bound a run that fails to reach its stop
	// condition instead of spinning forever.
	TickCap int64 `yaml:"tick_cap"`
}

// HeadEmbeddingDim is embedding_dim / head_num, the per-head width of Q/K/V.
func (c *Config) HeadEmbeddingDim() int64 {
	return c.EmbeddingDim / c.HeadNum
}

// UseSRAM reports whether seq_length is small enough that the attention
// score matrix A fits entirely inside one SRAM bank. The topologies in
// topology.go do not consult it: both always route A through a global
// buffer's A-state matrix.
func (c *Config) UseSRAM() bool {
	return c.SeqLength*c.SeqLength <= c.SRAMCapacity
}

// Validate performs the required precondition checks of the external
// interface. All failures are configuration-time and fatal: the
// simulator refuses to start rather than attempting a best-effort run.
func (c *Config) Validate() error {
	if c.CoreNum != 1 && c.CoreNum != 8 {
		return &ErrUnsupportedTopology{CoreNum: c.CoreNum}
	}
	if c.HeadNum <= 0 || c.EmbeddingDim%c.HeadNum != 0 {
		return &ErrUnsupportedShape{Reason: fmt.Sprintf("head_num=%d must divide embedding_dim=%d", c.HeadNum, c.EmbeddingDim)}
	}
	headDim := c.HeadEmbeddingDim()

	if c.SeqLength*headDim > c.SRAMCapacity {
		return &ErrUnsupportedShape{Reason: fmt.Sprintf(
			"seq_length * head_embedding_dim (%d) exceeds SRAM_capacity (%d)",
			c.SeqLength*headDim, c.SRAMCapacity)}
	}
	if c.EmbeddingDim*headDim > c.SRAMCapacity {
		return &ErrUnsupportedShape{Reason: fmt.Sprintf(
			"embedding_dim * head_embedding_dim (%d) exceeds SRAM_capacity (%d)",
			c.EmbeddingDim*headDim, c.SRAMCapacity)}
	}
	if c.MACNum <= 0 {
		return &ErrUnsupportedShape{Reason: "MAC_num must be > 0"}
	}
	fc2ColBytes := c.EmbeddingDim * 4 * c.MACLane / c.MACNum
	if c.SRAMCapacity/c.MACNum < fc2ColBytes {
		return &ErrUnsupportedShape{Reason: fmt.Sprintf(
			"a mac_lane column of the FC2 weight matrix (%d) does not fit in SRAM2 (%d)",
			fc2ColBytes, c.SRAMCapacity/c.MACNum)}
	}
	if c.LNSRAMBandwidth%2 != 0 {
		return &ErrUnsupportedShape{Reason: fmt.Sprintf("LN_SRAM_bandwidth (%d) must be even", c.LNSRAMBandwidth)}
	}
	return nil
}

// DefaultConfig returns the configuration used by the end-to-end test
// scenarios: metatime 0.1ns, MAC_lane 16, MAC_num 32, SRAM_capacity
// 65536, embedding_dim 1024, head_num 16.
func DefaultConfig() *Config {
	return &Config{
		CoreNum:                           8,
		SRAMCapacity:                      65536,
		MACLane:                           16,
		MACNum:                            32,
		SRAMAccessLatency:                 1,
		GBAccessLatency:                   50,
		GBSRAMBandwidth:                   32,
		ArrayAccessAndCalculationLatency:  1,
		SoftmaxCalLatency:                 60,
		SoftmaxThroughput:                 6,
		LayerNormCalLatency:               10,
		GBLNBandwidth:                     4,
		LNSRAMBandwidth:                   4,
		SeqLength:                         384,
		EmbeddingDim:                      1024,
		HeadNum:                           16,
		HeadID:                            0,
	}
}
