package gossip

import "fmt"

// ConfigurationError reports a construction-time problem: unknown
// graph_type, n <= 0, m incompatible with the chosen generator, or L <= 0.
// Configuration errors are raised during construction and prevent any
// event from being scheduled.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("gossip: invalid configuration for %s: %s", e.Field, e.Reason)
}

// InvariantViolation marks a bug, not a user error: |pb| > L, a negative
// cur_epoch, or the scheduler popping a time earlier than one it already
// dispatched. The run aborts immediately; these are never retried.
type InvariantViolation struct {
	Invariant string
	Detail    string
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("gossip: invariant violated (%s): %s", e.Invariant, e.Detail)
}

// The third error kind in the taxonomy, the event queue draining before
// num_blocks is reached, is not an error at all: it's carried as
// RunSummary.TerminatedEarly rather than a Go error type, since Run
// returns normally with the counts collected so far and there is nothing
// for a caller to unwrap.
