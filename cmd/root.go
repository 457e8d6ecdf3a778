// cmd/root.go
package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	sim "github.com/inference-sim/inference-sim/sim"
)

var (
	configPath string

	coreNum int

	sramCapacity      int64
	macLane           int64
	macNum            int64
	sramAccessLatency int64
	gbAccessLatency   int64
	gbSRAMBandwidth   int64

	arrayLatency int64

	softmaxCalLatency   int64
	softmaxThroughput   int64
	layernormCalLatency int64
	gbLNBandwidth       int64
	lnSRAMBandwidth     int64

	seqLength    int64
	embeddingDim int64
	headNum      int64
	headID       int64

	debugFlag bool
	tickCap   int64

	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "tile-sim",
	Short: "Cycle-accurate performance simulator for a tiled matrix-accelerator",
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Simulate one encoder layer's attention + FFN sublayers for a single head",
	Run: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		cfg := sim.DefaultConfig()
		if configPath != "" {
			if err := loadConfigFile(configPath, cfg); err != nil {
				logrus.Fatalf("loading config file: %v", err)
			}
		}
		applyFlagOverrides(cmd, cfg)

		logrus.Infof("starting simulation: core_num=%d seq_length=%d embedding_dim=%d head_num=%d",
			cfg.CoreNum, cfg.SeqLength, cfg.EmbeddingDim, cfg.HeadNum)

		s, err := sim.NewSimulator(cfg)
		if err != nil {
			logrus.Fatalf("invalid configuration: %v", err)
		}
		metrics := s.Run()
		metrics.Print()
		logrus.Info("simulation complete.")
	},
}

// loadConfigFile layers a YAML config file under the flag defaults: any
// field present in the file overrides DefaultConfig, and flags passed on
// the command line override the file in turn (applyFlagOverrides runs
// after this and only touches flags the user actually set).
func loadConfigFile(path string, cfg *sim.Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

func applyFlagOverrides(cmd *cobra.Command, cfg *sim.Config) {
	flags := cmd.Flags()
	if flags.Changed("core-num") {
		cfg.CoreNum = coreNum
	}
	if flags.Changed("sram-capacity") {
		cfg.SRAMCapacity = sramCapacity
	}
	if flags.Changed("mac-lane") {
		cfg.MACLane = macLane
	}
	if flags.Changed("mac-num") {
		cfg.MACNum = macNum
	}
	if flags.Changed("sram-access-latency") {
		cfg.SRAMAccessLatency = sramAccessLatency
	}
	if flags.Changed("gb-access-latency") {
		cfg.GBAccessLatency = gbAccessLatency
	}
	if flags.Changed("gb-sram-bandwidth") {
		cfg.GBSRAMBandwidth = gbSRAMBandwidth
	}
	if flags.Changed("array-latency") {
		cfg.ArrayAccessAndCalculationLatency = arrayLatency
	}
	if flags.Changed("softmax-cal-latency") {
		cfg.SoftmaxCalLatency = softmaxCalLatency
	}
	if flags.Changed("softmax-throughput") {
		cfg.SoftmaxThroughput = softmaxThroughput
	}
	if flags.Changed("layernorm-cal-latency") {
		cfg.LayerNormCalLatency = layernormCalLatency
	}
	if flags.Changed("gb-ln-bandwidth") {
		cfg.GBLNBandwidth = gbLNBandwidth
	}
	if flags.Changed("ln-sram-bandwidth") {
		cfg.LNSRAMBandwidth = lnSRAMBandwidth
	}
	if flags.Changed("seq-length") {
		cfg.SeqLength = seqLength
	}
	if flags.Changed("embedding-dim") {
		cfg.EmbeddingDim = embeddingDim
	}
	if flags.Changed("head-num") {
		cfg.HeadNum = headNum
	}
	if flags.Changed("head-id") {
		cfg.HeadID = headID
	}
	if flags.Changed("debug") {
		cfg.DebugFlag = debugFlag
	}
	if flags.Changed("tick-cap") {
		cfg.TickCap = tickCap
	}
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	f := runCmd.Flags()
	f.StringVar(&configPath, "config", "", "YAML config file; flags override its values")
	f.IntVar(&coreNum, "core-num", 8, "Topology selector: 1 or 8 cores")
	f.Int64Var(&sramCapacity, "sram-capacity", 65536, "Bytes per SRAM bank")
	f.Int64Var(&macLane, "mac-lane", 16, "Tile edge length")
	f.Int64Var(&macNum, "mac-num", 32, "Dot-product width")
	f.Int64Var(&sramAccessLatency, "sram-access-latency", 1, "Ticks per SRAM access")
	f.Int64Var(&gbAccessLatency, "gb-access-latency", 50, "Ticks per GB access")
	f.Int64Var(&gbSRAMBandwidth, "gb-sram-bandwidth", 32, "Cells moved per GB access to SRAM1")
	f.Int64Var(&arrayLatency, "array-latency", 1, "Ticks per MAC-array step")
	f.Int64Var(&softmaxCalLatency, "softmax-cal-latency", 60, "Ticks per softmax row")
	f.Int64Var(&softmaxThroughput, "softmax-throughput", 6, "Band width GB->Softmax")
	f.Int64Var(&layernormCalLatency, "layernorm-cal-latency", 10, "Ticks per LN row")
	f.Int64Var(&gbLNBandwidth, "gb-ln-bandwidth", 4, "Band width GB->LN")
	f.Int64Var(&lnSRAMBandwidth, "ln-sram-bandwidth", 4, "Band width LN->SRAM1 (must be even)")
	f.Int64Var(&seqLength, "seq-length", 384, "Rows of X")
	f.Int64Var(&embeddingDim, "embedding-dim", 1024, "Columns of X")
	f.Int64Var(&headNum, "head-num", 16, "Number of attention heads")
	f.Int64Var(&headID, "head-id", 0, "Which head this instance simulates")
	f.BoolVar(&debugFlag, "debug", false, "Trace gate")
	f.Int64Var(&tickCap, "tick-cap", 0, "Hard tick cap to bound a run (0 = unbounded)")
	f.StringVar(&logLevel, "log", "info", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(runCmd)
}
