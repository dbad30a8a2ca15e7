package gossip

// Stats holds the process-wide counters mutated by agents on block closure
// and direct send. It is threaded explicitly through SimulationContext
// rather than kept as ambient package state, so a run's outcome is
// reproducible and a test can hold its own private Stats.
type Stats struct {
	completedBlockCount  int
	completedBlockAgent  int
	completedBlockEpochs int
	dirMessageCount      int
}

// NewStats returns a Stats with all counters at zero, as at simulator
// construction. No closing agent is recorded yet, so CompletedBlockAgent
// starts at -1.
func NewStats() *Stats {
	return &Stats{completedBlockAgent: -1}
}

// CompletedBlockCount is the number of blocks closed so far, attributed to
// whichever agent first observed each new height.
func (s *Stats) CompletedBlockCount() int { return s.completedBlockCount }

// CompletedBlockAgent is the id of the agent that closed the most recent
// block height.
func (s *Stats) CompletedBlockAgent() int { return s.completedBlockAgent }

// CompletedBlockEpochs is the closing agent's own epoch counter at the
// moment it closed the most recent block height.
func (s *Stats) CompletedBlockEpochs() int { return s.completedBlockEpochs }

// DirMessageCount is the cumulative number of receive_direct_chain
// invocations sent over the whole run.
func (s *Stats) DirMessageCount() int { return s.dirMessageCount }

// RecordCloseIfFirst applies the "first to observe" rule from
// check_self_status: multiple agents may close the same block height via
// independent convergence paths, and only the first one to raise the
// global count is recorded. It reports whether this call was the first
// observer of a new height.
func (s *Stats) RecordCloseIfFirst(agentID, chainLen, epochs int) bool {
	if chainLen <= s.completedBlockCount {
		return false
	}
	s.completedBlockCount++
	s.completedBlockAgent = agentID
	s.completedBlockEpochs = epochs
	return true
}

// IncrDirectMessage records one receive_direct_chain invocation.
func (s *Stats) IncrDirectMessage() {
	s.dirMessageCount++
}
