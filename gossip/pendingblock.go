// Package gossip implements the agent protocol state machine: pending-block
// absorption, block closing, and deadlock-break direct messaging.
package gossip

import (
	"sort"

	mapset "github.com/deckarep/golang-set"
)

// PendingBlock is the in-progress set of contributor agent ids for an
// agent's next block. Keys are the contract; values are a placeholder, so
// it is represented as a plain set rather than a map to a meaningful value.
type PendingBlock struct {
	ids mapset.Set
}

// NewPendingBlock returns a PendingBlock containing exactly the given ids.
func NewPendingBlock(ids ...int) PendingBlock {
	s := mapset.NewThreadUnsafeSet()
	for _, id := range ids {
		s.Add(id)
	}
	return PendingBlock{ids: s}
}

// Add inserts id into the pending block.
func (pb PendingBlock) Add(id int) {
	pb.ids.Add(id)
}

// Contains reports whether id has already contributed to this block.
func (pb PendingBlock) Contains(id int) bool {
	return pb.ids.Contains(id)
}

// Len returns the number of distinct contributors.
func (pb PendingBlock) Len() int {
	return pb.ids.Cardinality()
}

// Clone returns an independent copy; mutating the result never affects pb.
// Adoption of a peer's pending block must always go through Clone, since a
// subsequent local insertion (e.g. the receiver's own id) must not be
// visible back to the donor agent.
func (pb PendingBlock) Clone() PendingBlock {
	return PendingBlock{ids: pb.ids.Clone()}
}

// Equal reports set equality; insertion order never affects the result.
func (pb PendingBlock) Equal(other PendingBlock) bool {
	return pb.ids.Equal(other.ids)
}

// EffectiveLen is the size of pb with me's own membership excluded, so that
// an agent's own contribution doesn't bias it against an otherwise
// equivalent peer view.
func (pb PendingBlock) EffectiveLen(me int) int {
	if pb.ids.Contains(me) {
		return pb.ids.Cardinality() - 1
	}
	return pb.ids.Cardinality()
}

// Keys returns the contributor ids in ascending order, for deterministic
// iteration regardless of the underlying set's storage order.
func (pb PendingBlock) Keys() []int {
	raw := pb.ids.ToSlice()
	out := make([]int, len(raw))
	for i, v := range raw {
		out[i] = v.(int)
	}
	sort.Ints(out)
	return out
}

// Missing returns the ids present in pb but absent from other, sorted
// ascending: keys(pb) \ keys(other).
func (pb PendingBlock) Missing(other PendingBlock) []int {
	diff := pb.ids.Difference(other.ids)
	raw := diff.ToSlice()
	out := make([]int, len(raw))
	for i, v := range raw {
		out[i] = v.(int)
	}
	sort.Ints(out)
	return out
}

// Chain is an ordered, append-only (at the protocol layer) sequence of
// closed pending blocks.
type Chain []PendingBlock

// Clone returns an independent copy of the chain and every block in it.
func (c Chain) Clone() Chain {
	out := make(Chain, len(c))
	for i, pb := range c {
		out[i] = pb.Clone()
	}
	return out
}
