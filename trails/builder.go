package trails

import (
	"errors"
	"strconv"
	"time"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/trailnet/metrics"
)

// ControlMode selects how BuildInput control points are interpreted.
type ControlMode int

const (
	// ControlOffset treats control points as offsets from the matching anchor:
	// StartControl from StartPos, EndControl from EndPos.
	ControlOffset ControlMode = iota
	// ControlAbsolute takes control points verbatim.
	ControlAbsolute
)

// BuildInput holds flat, environment-major build arrays. Node arrays have
// Envs*Nodes entries and edge arrays Envs*Edges entries; the record for local
// index i of environment e lives at e*Nodes+i (or e*Edges+i).
type BuildInput struct {
	Envs, Nodes, Edges int

	// Scale replaces the store's normalisation factor when positive.
	Scale    float64
	Controls ControlMode

	NodePos  []r2.Vec
	NodeAttr []int8

	EdgeStart    []int
	EdgeEnd      []int
	StartPos     []r2.Vec
	EndPos       []r2.Vec
	StartControl []r2.Vec
	EndControl   []r2.Vec
	CurveFlag    []float64
}

// EdgeInput is one edge's worth of BuildInput columns.
type EdgeInput struct {
	Start, End   int
	StartPos     r2.Vec
	EndPos       r2.Vec
	StartControl r2.Vec
	EndControl   r2.Vec
	CurveFlag    float64
}

// NewBuildInput allocates zeroed columns for the given shape.
func NewBuildInput(envs, nodes, edges int) *BuildInput {
	nn, ne := envs*nodes, envs*edges
	return &BuildInput{
		Envs:         envs,
		Nodes:        nodes,
		Edges:        edges,
		NodePos:      make([]r2.Vec, nn),
		NodeAttr:     make([]int8, nn),
		EdgeStart:    make([]int, ne),
		EdgeEnd:      make([]int, ne),
		StartPos:     make([]r2.Vec, ne),
		EndPos:       make([]r2.Vec, ne),
		StartControl: make([]r2.Vec, ne),
		EndControl:   make([]r2.Vec, ne),
		CurveFlag:    make([]float64, ne),
	}
}

// SetNode fills node i of env.
func (in *BuildInput) SetNode(env, i int, pos r2.Vec, attr int8) {
	idx := env*in.Nodes + i
	in.NodePos[idx] = pos
	in.NodeAttr[idx] = attr
}

// SetEdge fills edge k of env.
func (in *BuildInput) SetEdge(env, k int, e EdgeInput) {
	idx := env*in.Edges + k
	in.EdgeStart[idx] = e.Start
	in.EdgeEnd[idx] = e.End
	in.StartPos[idx] = e.StartPos
	in.EndPos[idx] = e.EndPos
	in.StartControl[idx] = e.StartControl
	in.EndControl[idx] = e.EndControl
	in.CurveFlag[idx] = e.CurveFlag
}

// Env returns a one-environment copy of env's columns, suitable for RebuildEnv.
func (in *BuildInput) Env(env int) *BuildInput {
	out := NewBuildInput(1, in.Nodes, in.Edges)
	out.Scale = in.Scale
	out.Controls = in.Controls

	n0, e0 := env*in.Nodes, env*in.Edges
	copy(out.NodePos, in.NodePos[n0:n0+in.Nodes])
	copy(out.NodeAttr, in.NodeAttr[n0:n0+in.Nodes])
	copy(out.EdgeStart, in.EdgeStart[e0:e0+in.Edges])
	copy(out.EdgeEnd, in.EdgeEnd[e0:e0+in.Edges])
	copy(out.StartPos, in.StartPos[e0:e0+in.Edges])
	copy(out.EndPos, in.EndPos[e0:e0+in.Edges])
	copy(out.StartControl, in.StartControl[e0:e0+in.Edges])
	copy(out.EndControl, in.EndControl[e0:e0+in.Edges])
	copy(out.CurveFlag, in.CurveFlag[e0:e0+in.Edges])
	return out
}

type buildOptions struct {
	arcSamples int
}

// BuildOption adjusts a single build.
type BuildOption func(*buildOptions)

// ArcSamples overrides the store's arc sample count for one build.
func ArcSamples(n int) BuildOption {
	return func(o *buildOptions) {
		if n < 1 {
			n = 1
		}
		o.arcSamples = n
	}
}

// envBuffers holds one environment's freshly built arrays before commit.
type envBuffers struct {
	nodes     []Node
	edges     []Edge
	adjacency []uint8
	outgoing  []Slot
	incoming  []Slot

	// CSR buckets of edge indices keyed by start (out) and end (in) node.
	outHead, inHead []int
	outList, inList []int

	mismatches int
}

// Build validates in against the store's shape and, if it is valid, replaces
// every environment's nodes, edges, adjacency and incidence. On error the store
// is left unchanged.
func (s *Store) Build(in *BuildInput, opts ...BuildOption) error {
	return s.build(in, 0, s.dims.Envs, opts)
}

// RebuildEnv rebuilds environment env from a one-environment input. Other
// environments stay readable throughout.
func (s *Store) RebuildEnv(env int, in *BuildInput, opts ...BuildOption) error {
	if env < 0 || env >= s.dims.Envs {
		err := indexErr(env, "environment", env, "environment out of range [0,%d)", s.dims.Envs)
		s.recordBuild(err, time.Time{})
		return err
	}
	return s.build(in, env, 1, opts)
}

func (s *Store) build(in *BuildInput, offset, envs int, opts []BuildOption) error {
	start := time.Now()
	bo := buildOptions{arcSamples: s.arcSamples}
	for _, opt := range opts {
		opt(&bo)
	}

	if err := s.validate(in, offset, envs); err != nil {
		s.recordBuild(err, start)
		return err
	}

	bufs := s.assemble(in, bo)
	if in.Scale > 0 {
		s.setScale(in.Scale)
	}
	s.commit(bufs, offset)
	s.recordBuild(nil, start)

	s.logger.Debug("trail store built",
		"envs", envs,
		"offset", offset,
		"nodes", s.dims.Nodes,
		"edges", s.dims.Edges,
		"arc_samples", bo.arcSamples,
		"elapsed", time.Since(start),
	)
	for e := range bufs {
		if n := bufs[e].mismatches; n > 0 {
			s.logger.Warn("edge endpoints differ from node positions", "env", offset+e, "edges", n)
		}
	}
	return nil
}

// assemble builds every environment's arrays into fresh buffers.
func (s *Store) assemble(in *BuildInput, bo buildOptions) []envBuffers {
	N, E, C := s.dims.Nodes, s.dims.Edges, s.dims.MaxEdgesPerNode
	bufs := make([]envBuffers, in.Envs)
	for e := range bufs {
		b := &bufs[e]
		b.nodes, b.edges, b.adjacency, b.outgoing, b.incoming = s.allocEnv()
	}

	// Nodes: one record per (env, node)
	s.pool.For2(in.Envs, N, func(e, i int) {
		idx := e*N + i
		bufs[e].nodes[i] = Node{Index: i, Position: in.NodePos[idx], Attribute: in.NodeAttr[idx]}
	})

	// Edges and cached lengths: one record per (env, edge)
	s.pool.For2(in.Envs, E, func(e, k int) {
		idx := e*E + k
		edge := Edge{
			StartNode:    in.EdgeStart[idx],
			EndNode:      in.EdgeEnd[idx],
			StartPos:     in.StartPos[idx],
			EndPos:       in.EndPos[idx],
			StartControl: in.StartControl[idx],
			EndControl:   in.EndControl[idx],
			CurveFlag:    in.CurveFlag[idx],
		}
		if in.Controls == ControlOffset {
			edge.StartControl = r2.Add(edge.StartPos, edge.StartControl)
			edge.EndControl = r2.Add(edge.EndPos, edge.EndControl)
		}
		edge.Length = edge.ArcLength(bo.arcSamples)
		bufs[e].edges[k] = edge
	})

	// Adjacency and incidence buckets: one writer per environment buffer
	s.pool.For(in.Envs, func(e0, e1 int) {
		for e := e0; e < e1; e++ {
			b := &bufs[e]
			for k := range b.edges {
				ed := &b.edges[k]
				b.adjacency[ed.StartNode*N+ed.EndNode] = 1
				if ed.StartPos != b.nodes[ed.StartNode].Position || ed.EndPos != b.nodes[ed.EndNode].Position {
					b.mismatches++
				}
			}
			b.outHead, b.outList = bucket(b.edges, N, func(ed *Edge) int { return ed.StartNode })
			b.inHead, b.inList = bucket(b.edges, N, func(ed *Edge) int { return ed.EndNode })
		}
	})

	// Incidence slots: one (env, node) pair per index, slots in ascending edge order
	s.pool.For2(in.Envs, N, func(e, n int) {
		b := &bufs[e]
		for j, k := range b.outList[b.outHead[n]:b.outHead[n+1]] {
			b.outgoing[n*C+j] = SlotOf(k)
		}
		for j, k := range b.inList[b.inHead[n]:b.inHead[n+1]] {
			b.incoming[n*C+j] = SlotOf(k)
		}
	})

	return bufs
}

// bucket groups edge indices by key(edge) with a stable counting sort.
// Edges of node v are list[head[v]:head[v+1]], in ascending edge index.
func bucket(edges []Edge, n int, key func(*Edge) int) (head, list []int) {
	head = make([]int, n+1)
	for k := range edges {
		head[key(&edges[k])+1]++
	}
	for v := 0; v < n; v++ {
		head[v+1] += head[v]
	}

	next := make([]int, n)
	copy(next, head[:n])
	list = make([]int, len(edges))
	for k := range edges {
		v := key(&edges[k])
		list[next[v]] = k
		next[v]++
	}
	return head, list
}

// commit swaps built buffers into the store, one environment lock at a time.
func (s *Store) commit(bufs []envBuffers, offset int) {
	for e := range bufs {
		b := &bufs[e]
		g := s.envs[offset+e]

		g.mu.Lock()
		g.nodes = b.nodes
		g.edges = b.edges
		g.adjacency = b.adjacency
		g.outgoing = b.outgoing
		g.incoming = b.incoming
		g.mismatches = b.mismatches
		g.built = true
		g.mu.Unlock()

		metrics.EndpointMismatches.WithLabelValues(strconv.Itoa(offset + e)).Set(float64(b.mismatches))
	}
}

func (s *Store) recordBuild(err error, start time.Time) {
	if err != nil {
		metrics.BuildsTotal.WithLabelValues(metrics.ResultError).Inc()
		if errors.Is(err, ErrCapacity) {
			metrics.CapacityRejections.Inc()
		}
		s.logger.Error("trail store build rejected", "error", err)
		return
	}
	metrics.BuildsTotal.WithLabelValues(metrics.ResultOK).Inc()
	metrics.BuildDuration.Observe(time.Since(start).Seconds())
}

// EndpointMismatches returns how many edges of env had stored endpoints that
// differ from their nodes' positions at the last build.
func (s *Store) EndpointMismatches(env int) int {
	g := s.env(env)
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.mismatches
}
