package sim

import "fmt"

// Unsupported shape/topology and internal invariant violations are the
// only error kinds the core produces; all are fatal, per the error
// handling design: there is no runtime fault recovery once a simulation
// is running, only configuration-time refusal to start.

// ErrUnsupportedShape indicates a mapping precondition in Config.Validate
// was violated.
type ErrUnsupportedShape struct {
	Reason string
}

func (e *ErrUnsupportedShape) Error() string {
	return fmt.Sprintf("unsupported shape: %s", e.Reason)
}

// ErrUnsupportedTopology indicates core_num is outside the recognized set.
type ErrUnsupportedTopology struct {
	CoreNum int
}

func (e *ErrUnsupportedTopology) Error() string {
	return fmt.Sprintf("unsupported topology: core_num=%d (only 1 and 8 are supported)", e.CoreNum)
}

// InvariantViolation panics when a component detects it has been driven
// into a state the specification says cannot occur — a bug in the
// sequencer or a component, not a data-dependent runtime condition. The
// panic message names the component and the cursor state it observed so
// the fault is diagnosable without a debugger.
func InvariantViolation(component string, format string, args ...any) {
	panic(fmt.Sprintf("invariant violation in %s: %s", component, fmt.Sprintf(format, args...)))
}
