package trails

import (
	"errors"
	"math"
	"slices"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// ErrNoRoute is returned when the destination cannot be reached.
var ErrNoRoute = errors.New("no route")

// Route is a path through one environment's trail network.
type Route struct {
	Nodes  []int   // visited nodes, source first
	Edges  []int   // edge indices taken between consecutive nodes
	Length float64 // sum of cached edge lengths
}

// Router answers path queries over a snapshot of one environment.
// Parallel edges collapse to the shortest one; self-loops are ignored.
type Router struct {
	env   int
	nodes int
	g     *simple.WeightedDirectedGraph
	pairs map[[2]int]int // (start, end) -> edge index
}

// Router snapshots env's edges weighted by cached length.
func (s *Store) Router(env int) *Router {
	r := &Router{
		env:   env,
		nodes: s.dims.Nodes,
		g:     simple.NewWeightedDirectedGraph(0, math.Inf(1)),
		pairs: make(map[[2]int]int),
	}
	for i := 0; i < r.nodes; i++ {
		r.g.AddNode(simple.Node(i))
	}

	s.Read(env, func(_ []Node, edges []Edge) {
		for k, ed := range edges {
			if ed.StartNode == ed.EndNode {
				continue
			}
			key := [2]int{ed.StartNode, ed.EndNode}
			if prev, ok := r.pairs[key]; ok && edges[prev].Length <= ed.Length {
				continue
			}
			r.pairs[key] = k
			r.g.SetWeightedEdge(simple.WeightedEdge{
				F: simple.Node(ed.StartNode),
				T: simple.Node(ed.EndNode),
				W: ed.Length,
			})
		}
	})
	return r
}

// Shortest returns the minimum-length route from one node to another.
func (r *Router) Shortest(from, to int) (Route, error) {
	for _, n := range []int{from, to} {
		if n < 0 || n >= r.nodes {
			return Route{}, indexErr(r.env, "node", n, "node out of range [0,%d)", r.nodes)
		}
	}
	if from == to {
		return Route{Nodes: []int{from}}, nil
	}

	nodes, weight := path.DijkstraFrom(simple.Node(from), r.g).To(int64(to))
	if len(nodes) == 0 || math.IsInf(weight, 1) {
		return Route{}, ErrNoRoute
	}

	route := Route{Nodes: ids(nodes), Length: weight}
	route.Edges = make([]int, len(route.Nodes)-1)
	for i := 1; i < len(route.Nodes); i++ {
		route.Edges[i-1] = r.pairs[[2]int{route.Nodes[i-1], route.Nodes[i]}]
	}
	return route, nil
}

// Components returns the strongly connected components, each sorted by node
// index and ordered by their smallest node.
func (r *Router) Components() [][]int {
	sccs := topo.TarjanSCC(r.g)
	out := make([][]int, len(sccs))
	for i, c := range sccs {
		out[i] = ids(c)
		slices.Sort(out[i])
	}
	slices.SortFunc(out, func(a, b []int) int { return a[0] - b[0] })
	return out
}

func ids(nodes []graph.Node) []int {
	out := make([]int, len(nodes))
	for i, n := range nodes {
		out[i] = int(n.ID())
	}
	return out
}
