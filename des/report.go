package des

import "time"

// BlockCloseEvent is emitted once per newly observed block height, in the
// shape a Reporter consumes. It never leaves the des package carrying any
// rendering concern of its own.
type BlockCloseEvent struct {
	VirtualTime               float64
	BlockHeight               int
	ClosingAgentID            int
	DeltaSincePrevClose       float64
	EpochsSincePrevClose      int
	CumulativeExperience      float64
	DirectMessagesSinceStart int
}

// RunSummary is the simulation-complete record a Reporter consumes at the
// end of Scheduler.Run.
type RunSummary struct {
	WallClock                  time.Duration
	VirtualTimeTotal           float64
	CompletedBlockCount        int
	MeanTimePerBlock           float64
	MeanEpochsPerBlock         float64
	CumulativeExperience       float64
	MeanDirectMessagesPerBlock float64
	// TerminatedEarly is true when the event queue drained before
	// CompletedBlockCount reached the requested num_blocks target. This
	// is the taxonomy's non-error termination signal; it is not a true
	// failure, so Run still returns a nil error alongside it.
	TerminatedEarly bool
}
