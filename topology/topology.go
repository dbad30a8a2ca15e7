// Package topology adapts a concrete graph (built by one of the generators
// in this package) into the gossip.Topology interface the agent protocol
// runs over: sorted neighbor lists and id-addressed agent lookup.
package topology

import "github.com/gossimlabs/gossipdes/gossip"

// Graph is a fixed topology of N nodes, each carrying one gossip.Agent.
// Neighbor lists are canonicalized (sorted) at construction so that a run
// is reproducible regardless of the generator library's iteration order.
type Graph struct {
	neighbors [][]int
	agents    []*gossip.Agent
	graphType Type
}

// Neighbors returns the sorted ids of id's neighbors.
func (g *Graph) Neighbors(id int) []int { return g.neighbors[id] }

// Agent returns the agent attached to node id.
func (g *Graph) Agent(id int) *gossip.Agent { return g.agents[id] }

// Size returns the number of nodes in the graph.
func (g *Graph) Size() int { return len(g.agents) }

// Type returns the generator used to build this graph.
func (g *Graph) Type() Type { return g.graphType }

var _ gossip.Topology = (*Graph)(nil)
