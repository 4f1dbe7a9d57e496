package trails

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// EnvStats summarises one environment's trail network.
type EnvStats struct {
	Env       int `csv:"env"`
	Nodes     int `csv:"nodes"`
	Edges     int `csv:"edges"`
	Tagged    int `csv:"tagged_nodes"` // nodes with a non-zero attribute
	Curved    int `csv:"curved_edges"` // edges with CurveFlag < 1
	SelfLoops int `csv:"self_loops"`

	AdjacentPairs int     `csv:"adjacent_pairs"` // ones in the adjacency matrix
	MaxOutDegree  int     `csv:"max_out_degree"`
	MaxInDegree   int     `csv:"max_in_degree"`
	MeanDegree    float64 `csv:"mean_out_degree"`

	TotalLength float64 `csv:"total_length"`
	MeanLength  float64 `csv:"mean_length"`
	MaxLength   float64 `csv:"max_length"`

	Components       int `csv:"components"` // strongly connected
	LargestComponent int `csv:"largest_component"`
	Mismatches       int `csv:"endpoint_mismatches"`
}

// Stats computes summary statistics for env.
func (s *Store) Stats(env int) EnvStats {
	st := EnvStats{Env: env, Nodes: s.dims.Nodes, Edges: s.dims.Edges}

	lengths := make([]float64, 0, s.dims.Edges)
	s.Read(env, func(nodes []Node, edges []Edge) {
		for _, n := range nodes {
			if n.Attribute != 0 {
				st.Tagged++
			}
		}
		for _, ed := range edges {
			if ed.CurveFlag < CurveLine {
				st.Curved++
			}
			if ed.StartNode == ed.EndNode {
				st.SelfLoops++
			}
			lengths = append(lengths, ed.Length)
		}
	})

	adj := s.AdjacencyMatrix(env)
	st.AdjacentPairs = int(mat.Sum(adj))

	for n := 0; n < s.dims.Nodes; n++ {
		st.MaxOutDegree = max(st.MaxOutDegree, len(s.Outgoing(env, n)))
		st.MaxInDegree = max(st.MaxInDegree, len(s.Incoming(env, n)))
	}
	st.MeanDegree = float64(s.dims.Edges) / float64(s.dims.Nodes)

	if len(lengths) > 0 {
		st.TotalLength = floats.Sum(lengths)
		st.MeanLength = st.TotalLength / float64(len(lengths))
		st.MaxLength = floats.Max(lengths)
	}

	comps := s.Router(env).Components()
	st.Components = len(comps)
	for _, c := range comps {
		st.LargestComponent = max(st.LargestComponent, len(c))
	}
	st.Mismatches = s.EndpointMismatches(env)
	return st
}

// AllStats computes Stats for every environment.
func (s *Store) AllStats() []EnvStats {
	out := make([]EnvStats, s.dims.Envs)
	for e := range out {
		out[e] = s.Stats(e)
	}
	return out
}
