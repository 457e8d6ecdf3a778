// Tracks simulation-wide performance metrics: total latency and
// per-core utilization.

package sim

import "fmt"

// Metrics aggregates the two quantities the external interface requires:
// total simulated latency and, per core, a utilization percentage.
type Metrics struct {
	TotalTicks   int64     // ticks elapsed until the stop condition fired
	TotalLatency float64   // TotalTicks * MetaTimeNS, in nanoseconds
	CoreUtil     []float64 // per-core utilization, 0..100, indexed by core ID
}

// UtilCounterToPercent converts a core's util_counter into a percentage
// of total_ticks, per the Outputs section: 100 * util_counter / total_ticks.
func UtilCounterToPercent(utilCounter, totalTicks int64) float64 {
	if totalTicks == 0 {
		return 0
	}
	return 100 * float64(utilCounter) / float64(totalTicks)
}

// Print displays aggregated metrics at the end of the simulation.
func (m *Metrics) Print() {
	fmt.Println("=== Simulation Metrics ===")
	fmt.Printf("Total ticks          : %d\n", m.TotalTicks)
	fmt.Printf("Total latency        : %.2f ns\n", m.TotalLatency)
	for i, u := range m.CoreUtil {
		fmt.Printf("Core %-2d utilization  : %.2f%%\n", i, u)
	}
}
