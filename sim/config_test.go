package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfig_Validate_DefaultIsValid(t *testing.T) {
	cfg := DefaultConfig()
	assert.NoError(t, cfg.Validate())
}

func TestConfig_Validate_RejectsUnsupportedTopology(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CoreNum = 5
	err := cfg.Validate()
	assert.Error(t, err)
	var topoErr *ErrUnsupportedTopology
	assert.ErrorAs(t, err, &topoErr)
}

func TestConfig_Validate_RejectsSeqLengthExceedingSRAM(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SeqLength = 1 << 20
	err := cfg.Validate()
	assert.Error(t, err)
	var shapeErr *ErrUnsupportedShape
	assert.ErrorAs(t, err, &shapeErr)
}

func TestConfig_Validate_RejectsOddLNBandwidth(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LNSRAMBandwidth = 3
	err := cfg.Validate()
	assert.Error(t, err)
}

func TestConfig_Validate_RejectsHeadNumNotDividingEmbeddingDim(t *testing.T) {
	cfg := DefaultConfig()
	cfg.HeadNum = 7
	err := cfg.Validate()
	assert.Error(t, err)
}

func TestConfig_UseSRAM(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SeqLength = 64
	assert.True(t, cfg.UseSRAM(), "seq_length=64 <= sqrt(SRAM_capacity)=256 should use SRAM path")

	cfg.SeqLength = 384
	assert.False(t, cfg.UseSRAM())
}

func TestConfig_HeadEmbeddingDim(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, int64(64), cfg.HeadEmbeddingDim())
}
