package gossip

import "math/rand"

// staleEpochThreshold is the protocol's staleness constant: if an agent has
// gone more than this many of its own epochs without a successful
// absorption, it assumes a gossip deadlock and falls back to direct
// messaging. This exact value is part of the protocol, not a tunable.
const staleEpochThreshold = 15

// maxDirectTargets bounds how many missing contributors a single
// send_direct_chain call will poke, so a stalled agent doesn't flood the
// network trying to recover in one shot.
const maxDirectTargets = 3

// Agent is one simulated participant: it owns a pending block and a closed
// chain, and exchanges both with its topology neighbors.
type Agent struct {
	ID int
	L  int

	PB    PendingBlock
	Chain Chain

	CurEpoch        int
	LastAbsorbEpoch int
}

// NewAgent returns a fresh Agent seeded with its own id as the sole
// contributor to its first pending block, per the lifecycle in the data
// model: agents are created at graph construction and live for the run.
func NewAgent(id, l int) *Agent {
	return &Agent{
		ID: id,
		L:  l,
		PB: NewPendingBlock(id),
	}
}

// CheckSelfStatus is invoked at the start of every broadcast event for the
// owning agent. It adds the agent's own id to its pending block if absent
// and there's still room, then closes the block if it has reached L
// contributors.
func (a *Agent) CheckSelfStatus(ctx *SimulationContext) error {
	if a.PB.Len() > a.L {
		return &InvariantViolation{
			Invariant: "pending-block-cardinality",
			Detail:    "agent pending block exceeds L on entry to check_self_status",
		}
	}
	if a.CurEpoch < 0 {
		return &InvariantViolation{
			Invariant: "non-negative-epoch",
			Detail:    "agent cur_epoch is negative on entry to check_self_status",
		}
	}

	if a.PB.Len() < a.L && !a.PB.Contains(a.ID) {
		a.PB.Add(a.ID)
	}

	if a.PB.Len() == a.L {
		a.Chain = append(a.Chain, a.PB.Clone())
		a.PB = NewPendingBlock(a.ID)
		ctx.Stats.RecordCloseIfFirst(a.ID, len(a.Chain), a.CurEpoch)
		a.CurEpoch = 0
	}
	return nil
}

// Broadcast synchronously fans self.chain and self.pb out to every
// topology neighbor, then advances the agent's own epoch counter. Neighbor
// iteration order is whatever Topology.Neighbors returns, which must be
// stable within a run for reproducibility.
func (a *Agent) Broadcast(ctx *SimulationContext) error {
	for _, id := range ctx.Topology.Neighbors(a.ID) {
		neighbor := ctx.Topology.Agent(id)
		if err := neighbor.ReceiveChain(ctx, a.Chain, a.PB); err != nil {
			return err
		}
	}
	a.CurEpoch++
	return nil
}

// ReceiveChain absorbs a neighbor's broadcast chain+pb, then triggers
// deadlock-recovery: if this agent has gone more than staleEpochThreshold
// of its own epochs without absorbing anything, it direct-messages a
// sample of agents known (via otherPB) to hold divergent contributions.
func (a *Agent) ReceiveChain(ctx *SimulationContext, otherChain Chain, otherPB PendingBlock) error {
	if err := a.processReceivedChain(otherChain, otherPB); err != nil {
		return err
	}
	if a.CurEpoch-a.LastAbsorbEpoch > staleEpochThreshold {
		return a.SendDirectChain(ctx, otherPB)
	}
	return nil
}

// ReceiveDirectChain absorbs a chain+pb delivered out-of-band by
// send_direct_chain. Unlike ReceiveChain it never cascades into another
// round of direct messaging.
func (a *Agent) ReceiveDirectChain(_ *SimulationContext, otherChain Chain, otherPB PendingBlock) error {
	return a.processReceivedChain(otherChain, otherPB)
}

// processReceivedChain applies the ordered absorption policy shared by
// ReceiveChain and ReceiveDirectChain:
//  1. a shorter peer chain is ignored outright;
//  2. a strictly longer peer chain is adopted wholesale, chain and pb both;
//  3. chains of equal length fall back to comparing pending blocks by
//     effective length, adopting the peer's pb only if strictly greater.
func (a *Agent) processReceivedChain(otherChain Chain, otherPB PendingBlock) error {
	switch {
	case len(otherChain) < len(a.Chain):
		return nil
	case len(otherChain) > len(a.Chain):
		a.Chain = otherChain.Clone()
		a.PB = otherPB.Clone()
		return nil
	default:
		if otherPB.EffectiveLen(a.ID) > a.PB.EffectiveLen(a.ID) {
			a.PB = otherPB.Clone()
			a.LastAbsorbEpoch = a.CurEpoch
		}
		return nil
	}
}

// SendDirectChain is the deadlock-recovery cascade: it pokes up to
// maxDirectTargets agents known, via referencePB, to hold contributions
// this agent is missing.
func (a *Agent) SendDirectChain(ctx *SimulationContext, referencePB PendingBlock) error {
	if a.PB.Equal(referencePB) {
		return nil
	}
	// Back off: suppresses repeated recovery bursts from the same stall.
	a.LastAbsorbEpoch = a.CurEpoch

	missing := referencePB.Missing(a.PB)
	if len(missing) == 0 {
		return nil
	}

	k := len(missing)
	if k > maxDirectTargets {
		k = maxDirectTargets
	}
	sample := sampleWithoutReplacement(ctx.Rand, missing, k)

	for _, id := range sample {
		target := ctx.Topology.Agent(id)
		if target == nil {
			continue
		}
		if err := target.ReceiveDirectChain(ctx, a.Chain, a.PB); err != nil {
			return err
		}
		ctx.Stats.IncrDirectMessage()
	}
	return nil
}

// sampleWithoutReplacement draws k distinct elements from ids uniformly at
// random, using the simulator's single seeded source. ids is sorted by the
// caller (PendingBlock.Missing), so the result is reproducible given a
// seed regardless of any underlying set's iteration order.
func sampleWithoutReplacement(rnd *rand.Rand, ids []int, k int) []int {
	pool := make([]int, len(ids))
	copy(pool, ids)
	rnd.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	if k > len(pool) {
		k = len(pool)
	}
	return pool[:k]
}
