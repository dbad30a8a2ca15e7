package gossip

import "math/rand"

// Topology is the abstract graph an Agent's protocol operations are driven
// over: neighbor iteration plus id-addressed agent lookup. Modeling
// neighbors as ids rather than direct Agent references keeps ownership of
// the agent pool centralized in one arena and expresses cycles as graph
// edges rather than circular Go references.
//
// This generalizes the Broadcaster/Peer split from the teacher's consensus
// protocol: Broadcaster.FindPeers+Enqueue become Topology.Neighbors+Agent,
// and Peer.Send becomes the Agent methods themselves.
type Topology interface {
	// Neighbors returns the ids of id's neighbors, in a stable order
	// (canonicalized by sorting at construction) so that a run is
	// reproducible given a seed.
	Neighbors(id int) []int
	// Agent returns the Agent attached to node id.
	Agent(id int) *Agent
	// Size returns the number of nodes in the topology.
	Size() int
}

// SimulationContext is the explicit handle threaded through every Agent
// operation in place of ambient package-level globals: the shared Stats,
// the Topology used to reach neighbors and direct-message targets, and the
// single seeded PRNG source all stochastic choices must draw from.
type SimulationContext struct {
	Stats    *Stats
	Topology Topology
	Rand     *rand.Rand
}
