// Package des implements the discrete-event scheduler that drives agents
// over a graph topology: a priority queue of (virtual_time, agent_id)
// events, popped earliest-first, each firing one agent's self-check and
// broadcast before the next event is even considered.
package des

import (
	"container/heap"
	"math"
	"math/rand"
	"time"

	"github.com/pkg/errors"

	"github.com/gossimlabs/gossipdes/gossip"
	"github.com/gossimlabs/gossipdes/topology"
)

// jitterSpread bounds the per-event rescheduling jitter added on top of
// BroadcastInterval, so agents don't all fire in perfect lockstep.
const jitterSpread = 0.1

// Config holds the construction parameters for a simulation run.
type Config struct {
	// N is the number of agents.
	N int
	// M is graph-dependent: neighbor count for smallworld, attachment
	// count for barabasi, ignored for complete.
	M int
	// BroadcastInterval is T, the simulated seconds between an agent's
	// consecutive broadcasts.
	BroadcastInterval float64
	// L is the block closure threshold. Zero defaults to N; values
	// above N are clamped to N.
	L int
	// GraphType selects the topology generator.
	GraphType topology.Type
	// Seed drives the simulator's single PRNG source. All stochastic
	// choices - initial jitter, per-event jitter, direct-message
	// sampling, and graph construction - draw from it.
	Seed int64
}

// EffectiveL returns L after defaulting and clamping against N.
func (c Config) EffectiveL() int {
	l := c.L
	if l <= 0 || l > c.N {
		l = c.N
	}
	return l
}

// EpochLimit is the advisory epoch budget (2*N) mentioned in the data
// model. It is computed for reporting purposes only and never enforced as
// a termination condition by Run.
func (c Config) EpochLimit() int { return 2 * c.N }

// Scheduler owns the virtual-time event queue and the simulation context
// (stats, topology, PRNG) that every dispatched event operates against.
type Scheduler struct {
	cfg   Config
	topo  *topology.Graph
	ctx   *gossip.SimulationContext
	queue eventQueue
	seq   uint64
}

// NewScheduler validates cfg, builds the graph and its agents, and seeds
// the event queue with one event per agent at a uniform(0, T) arrival
// time. Configuration problems surface as *gossip.ConfigurationError and
// prevent any event from being scheduled.
func NewScheduler(cfg Config) (*Scheduler, error) {
	if cfg.N <= 0 {
		return nil, &gossip.ConfigurationError{Field: "n", Reason: "must be a positive integer"}
	}
	if cfg.BroadcastInterval <= 0 {
		return nil, &gossip.ConfigurationError{Field: "broadcast_interval", Reason: "must be a positive real"}
	}

	rnd := rand.New(rand.NewSource(cfg.Seed))
	l := cfg.EffectiveL()

	topo, err := topology.Build(cfg.GraphType, cfg.N, cfg.M, l, rnd)
	if err != nil {
		return nil, errors.Wrap(err, "building topology")
	}

	s := &Scheduler{
		cfg: cfg,
		topo: topo,
		ctx: &gossip.SimulationContext{
			Stats:    gossip.NewStats(),
			Topology: topo,
			Rand:     rnd,
		},
	}

	heap.Init(&s.queue)
	for id := 0; id < cfg.N; id++ {
		arrival := rnd.Float64() * cfg.BroadcastInterval
		heap.Push(&s.queue, s.newEvent(arrival, id))
	}
	return s, nil
}

func (s *Scheduler) newEvent(t float64, agentID int) event {
	s.seq++
	return event{time: t, agentID: agentID, seq: s.seq}
}

// Topology returns the graph the scheduler is driving.
func (s *Scheduler) Topology() *topology.Graph { return s.topo }

// Stats returns the scheduler's shared statistics handle.
func (s *Scheduler) Stats() *gossip.Stats { return s.ctx.Stats }

// OnBlockClose, when non-nil, is invoked once per newly observed block
// height during Run, in virtual-time order.
type OnBlockClose func(BlockCloseEvent)

// Run drives the event queue until completed_block_count reaches
// numBlocks or the queue empties. Each dispatched event runs
// check_self_status then broadcast to completion before the next event is
// even considered; there are no suspension points visible to the
// protocol. The queue draining early is not an error: Run returns
// normally with RunSummary.TerminatedEarly set.
func (s *Scheduler) Run(numBlocks int, onClose OnBlockClose) (*RunSummary, error) {
	start := time.Now()

	var (
		lastBlockCount int
		lastBlockTime  float64
		dirMessageAcc  int
		epochsTotal    int
		totalExp       float64
		curTime        float64
	)
	lastDispatched := math.Inf(-1)
	l := s.cfg.EffectiveL()

	for s.ctx.Stats.CompletedBlockCount() < numBlocks {
		if s.queue.Len() == 0 {
			return s.summarize(start, curTime, epochsTotal, totalExp, dirMessageAcc, lastBlockCount, true), nil
		}

		ev := heap.Pop(&s.queue).(event)
		if ev.time < lastDispatched {
			return nil, &gossip.InvariantViolation{
				Invariant: "scheduler-monotonic-time",
				Detail:    "popped an event earlier than one already dispatched",
			}
		}
		lastDispatched = ev.time
		curTime = ev.time

		agent := s.topo.Agent(ev.agentID)
		if err := agent.CheckSelfStatus(s.ctx); err != nil {
			return nil, err
		}
		if err := agent.Broadcast(s.ctx); err != nil {
			return nil, err
		}

		jitter := s.ctx.Rand.Float64() * jitterSpread
		heap.Push(&s.queue, s.newEvent(ev.time+s.cfg.BroadcastInterval+jitter, ev.agentID))

		if completed := s.ctx.Stats.CompletedBlockCount(); completed > lastBlockCount {
			lastBlockCount = completed
			delta := curTime - lastBlockTime
			epochs := int(math.Ceil(delta / s.cfg.BroadcastInterval))
			experience := delta * float64(l)
			epochsTotal += epochs
			totalExp += experience
			// Mirrors the reference simulator: this accumulates the
			// running cumulative dir-message count at each close, not
			// the delta since the previous one.
			dirMessageAcc += s.ctx.Stats.DirMessageCount()

			if onClose != nil {
				onClose(BlockCloseEvent{
					VirtualTime:              curTime,
					BlockHeight:              completed,
					ClosingAgentID:           s.ctx.Stats.CompletedBlockAgent(),
					DeltaSincePrevClose:      delta,
					EpochsSincePrevClose:     epochs,
					CumulativeExperience:     totalExp,
					DirectMessagesSinceStart: s.ctx.Stats.DirMessageCount(),
				})
			}
			lastBlockTime = curTime
		}
	}

	return s.summarize(start, curTime, epochsTotal, totalExp, dirMessageAcc, lastBlockCount, false), nil
}

func (s *Scheduler) summarize(start time.Time, curTime float64, epochsTotal int, totalExp float64, dirMessageAcc, blockCount int, terminatedEarly bool) *RunSummary {
	summary := &RunSummary{
		WallClock:            time.Since(start),
		VirtualTimeTotal:     curTime,
		CompletedBlockCount:  blockCount,
		CumulativeExperience: totalExp,
		TerminatedEarly:      terminatedEarly,
	}
	if blockCount > 0 {
		summary.MeanTimePerBlock = curTime / float64(blockCount)
		summary.MeanEpochsPerBlock = round2(float64(epochsTotal) / float64(blockCount))
		summary.MeanDirectMessagesPerBlock = round2(float64(dirMessageAcc) / float64(blockCount))
	}
	return summary
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
