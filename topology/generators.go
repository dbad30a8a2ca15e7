package topology

import (
	"math/rand"
	"sort"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/graphs/gen"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/gossimlabs/gossipdes/gossip"
)

// Type names the generator used to build a Graph.
type Type string

const (
	// SmallWorld builds a Newman-Watts-Strogatz graph: m nearest
	// neighbors per node, rewired with probability 0.1.
	SmallWorld Type = "smallworld"
	// Barabasi builds a Barabasi-Albert preferential-attachment graph
	// with attachment parameter m.
	Barabasi Type = "barabasi"
	// Complete builds K_N: every node is a neighbor of every other.
	Complete Type = "complete"
)

// rewireProbability is the Newman-Watts-Strogatz rewiring probability.
const rewireProbability = 0.1

// Build constructs a Graph of n nodes using the named generator, attaches a
// fresh gossip.Agent (block threshold l) to every node, and canonicalizes
// neighbor order by sorting. Unknown graph types, and parameters
// incompatible with the chosen generator, fail with a
// *gossip.ConfigurationError.
func Build(kind Type, n, m, l int, rnd *rand.Rand) (*Graph, error) {
	if n <= 0 {
		return nil, &gossip.ConfigurationError{Field: "n", Reason: "must be a positive integer"}
	}
	if l <= 0 {
		return nil, &gossip.ConfigurationError{Field: "L", Reason: "must be a positive integer"}
	}

	var (
		adjacency [][]int
		err       error
	)
	switch kind {
	case SmallWorld:
		adjacency, err = buildSmallWorld(n, m, rnd)
	case Barabasi:
		adjacency, err = buildBarabasi(n, m, rnd)
	case Complete:
		adjacency = buildComplete(n)
	default:
		return nil, &gossip.ConfigurationError{Field: "graph_type", Reason: "unknown graph type " + string(kind)}
	}
	if err != nil {
		return nil, err
	}

	agents := make([]*gossip.Agent, n)
	for id := 0; id < n; id++ {
		agents[id] = gossip.NewAgent(id, l)
	}
	return &Graph{neighbors: adjacency, agents: agents, graphType: kind}, nil
}

func buildSmallWorld(n, m int, rnd *rand.Rand) ([][]int, error) {
	if m <= 0 || m >= n {
		return nil, &gossip.ConfigurationError{Field: "m", Reason: "must satisfy 0 < m < n for smallworld"}
	}
	dst := simple.NewUndirectedGraph()
	if err := gen.NewmanWattsStrogatz(dst, n, m, rewireProbability, rnd); err != nil {
		return nil, errors.Wrap(err, "generating smallworld graph")
	}
	return adjacencyFromGraph(dst, n), nil
}

func buildBarabasi(n, m int, rnd *rand.Rand) ([][]int, error) {
	if m <= 0 || m >= n {
		return nil, &gossip.ConfigurationError{Field: "m", Reason: "must satisfy 0 < m < n for barabasi"}
	}
	dst := simple.NewUndirectedGraph()
	if err := gen.BarabasiAlbert(dst, n, m, rnd); err != nil {
		return nil, errors.Wrap(err, "generating barabasi-albert graph")
	}
	return adjacencyFromGraph(dst, n), nil
}

func buildComplete(n int) [][]int {
	adjacency := make([][]int, n)
	for i := 0; i < n; i++ {
		nbrs := make([]int, 0, n-1)
		for j := 0; j < n; j++ {
			if j != i {
				nbrs = append(nbrs, j)
			}
		}
		adjacency[i] = nbrs
	}
	return adjacency
}

// adjacencyFromGraph canonicalizes a gonum graph's neighbor order by
// extracting and sorting each node's adjacency, so a topology's wiring
// never depends on the generator library's internal iteration order.
func adjacencyFromGraph(g graph.Undirected, n int) [][]int {
	adjacency := make([][]int, n)
	for i := 0; i < n; i++ {
		it := g.From(int64(i))
		var nbrs []int
		for it.Next() {
			nbrs = append(nbrs, int(it.Node().ID()))
		}
		sort.Ints(nbrs)
		adjacency[i] = nbrs
	}
	return adjacency
}
