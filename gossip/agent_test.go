package gossip

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeTopology is a minimal in-memory Topology for exercising Agent
// operations without pulling in the topology package's graph generators.
type fakeTopology struct {
	agents    []*Agent
	adjacency map[int][]int
}

func newFakeTopology(agents []*Agent, adjacency map[int][]int) *fakeTopology {
	return &fakeTopology{agents: agents, adjacency: adjacency}
}

func (f *fakeTopology) Neighbors(id int) []int { return f.adjacency[id] }
func (f *fakeTopology) Agent(id int) *Agent    { return f.agents[id] }
func (f *fakeTopology) Size() int              { return len(f.agents) }

func newTestContext(agents []*Agent, adjacency map[int][]int) *SimulationContext {
	return &SimulationContext{
		Stats:    NewStats(),
		Topology: newFakeTopology(agents, adjacency),
		Rand:     rand.New(rand.NewSource(1)),
	}
}

func TestCheckSelfStatusAddsSelfBelowL(t *testing.T) {
	a := NewAgent(0, 3)
	a.PB = NewPendingBlock(1, 2)
	ctx := newTestContext([]*Agent{a}, map[int][]int{0: {}})

	require.NoError(t, a.CheckSelfStatus(ctx))
	require.True(t, a.PB.Contains(0))
}

func TestCheckSelfStatusClosesBlockAtL(t *testing.T) {
	a := NewAgent(0, 2)
	a.PB = NewPendingBlock(1)
	ctx := newTestContext([]*Agent{a}, map[int][]int{0: {}})

	require.NoError(t, a.CheckSelfStatus(ctx))
	require.Len(t, a.Chain, 1)
	require.Equal(t, 2, a.Chain[0].Len())
	require.True(t, a.PB.Equal(NewPendingBlock(0)))
	require.Equal(t, 0, a.CurEpoch)
	require.Equal(t, 1, ctx.Stats.CompletedBlockCount())
	require.Equal(t, 0, ctx.Stats.CompletedBlockAgent())
}

func TestCheckSelfStatusRejectsOversizedPB(t *testing.T) {
	a := NewAgent(0, 2)
	a.PB = NewPendingBlock(1, 2, 3)
	ctx := newTestContext([]*Agent{a}, map[int][]int{0: {}})

	err := a.CheckSelfStatus(ctx)
	require.Error(t, err)
	var iv *InvariantViolation
	require.ErrorAs(t, err, &iv)
}

func TestProcessReceivedChainIgnoresShorterChain(t *testing.T) {
	a := NewAgent(0, 5)
	a.Chain = Chain{NewPendingBlock(1, 2)}
	original := a.Chain.Clone()

	require.NoError(t, a.processReceivedChain(Chain{}, NewPendingBlock(9)))
	require.Equal(t, original, a.Chain)
}

func TestProcessReceivedChainAdoptsLongerChainWholesale(t *testing.T) {
	a := NewAgent(0, 5)
	otherChain := Chain{NewPendingBlock(1, 2), NewPendingBlock(3, 4)}
	otherPB := NewPendingBlock(5, 6)

	require.NoError(t, a.processReceivedChain(otherChain, otherPB))
	require.Equal(t, otherChain, a.Chain)
	require.True(t, a.PB.Equal(otherPB))

	// copy-on-adopt: mutating the donor afterwards must not affect a.
	otherPB.Add(7)
	require.False(t, a.PB.Contains(7))
}

// TestEffectiveLengthTieBreak is scenario S5: two agents with equal chain
// lengths and symmetric pending blocks must not adopt each other's view.
func TestEffectiveLengthTieBreak(t *testing.T) {
	a := NewAgent(0, 10)
	b := NewAgent(1, 10)
	c, d := 2, 3

	a.PB = NewPendingBlock(1, c, d) // A.pb = {B, C, D}
	b.PB = NewPendingBlock(0, c, d) // B.pb = {A, C, D}

	require.NoError(t, a.processReceivedChain(b.Chain, b.PB))
	require.True(t, a.PB.Equal(NewPendingBlock(1, c, d)), "A must not adopt B's pb, whose effective length is not greater than A's")
}

func TestReceiveChainTriggersDirectRecoveryAfterStaleThreshold(t *testing.T) {
	a := NewAgent(0, 10)
	b := NewAgent(1, 10)
	b.PB = NewPendingBlock(1, 2, 3, 4)
	// a's pb is as large as b's by effective length, so nothing is absorbed
	// and the only id a is missing from b's pb is b itself.
	a.PB = NewPendingBlock(0, 2, 3, 4, 5)
	ctx := newTestContext([]*Agent{a, b}, map[int][]int{0: {1}, 1: {0}})

	a.CurEpoch = staleEpochThreshold + 1
	a.LastAbsorbEpoch = 0

	require.NoError(t, a.ReceiveChain(ctx, b.Chain, b.PB))
	require.Equal(t, 1, ctx.Stats.DirMessageCount())
}

func TestReceiveDirectChainNeverCascades(t *testing.T) {
	a := NewAgent(0, 10)
	b := NewAgent(1, 10)
	b.PB = NewPendingBlock(1, 2, 3, 4)
	ctx := newTestContext([]*Agent{a, b}, map[int][]int{0: {}, 1: {}})

	a.CurEpoch = staleEpochThreshold + 1
	require.NoError(t, a.ReceiveDirectChain(ctx, b.Chain, b.PB))
	require.Equal(t, 0, ctx.Stats.DirMessageCount())
}

// TestSendDirectChainSamplingBound is scenario S6: exactly min(3, |missing|)
// direct messages are sent per invocation.
func TestSendDirectChainSamplingBound(t *testing.T) {
	self := NewAgent(0, 20)
	targets := make([]*Agent, 11)
	targets[0] = self
	for i := 1; i <= 10; i++ {
		targets[i] = NewAgent(i, 20)
	}
	adjacency := map[int][]int{}
	for i := range targets {
		adjacency[i] = nil
	}
	ctx := newTestContext(targets, adjacency)

	reference := NewPendingBlock(1, 2, 3, 4, 5, 6, 7, 8, 9, 10)
	require.NoError(t, self.SendDirectChain(ctx, reference))
	require.Equal(t, 3, ctx.Stats.DirMessageCount())

	ctx2 := newTestContext(targets, adjacency)
	self.PB = NewPendingBlock(0)
	reference2 := NewPendingBlock(1, 2)
	require.NoError(t, self.SendDirectChain(ctx2, reference2))
	require.Equal(t, 2, ctx2.Stats.DirMessageCount())
}

func TestSendDirectChainNoOpWhenPBMatchesReference(t *testing.T) {
	self := NewAgent(0, 5)
	self.PB = NewPendingBlock(0, 1, 2)
	ctx := newTestContext([]*Agent{self}, map[int][]int{0: {}})

	require.NoError(t, self.SendDirectChain(ctx, NewPendingBlock(0, 1, 2)))
	require.Equal(t, 0, ctx.Stats.DirMessageCount())
}
