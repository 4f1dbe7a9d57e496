// Package trails implements the batched trail-network store: waypoint nodes and
// curved or straight edges for many independent environments, with derived
// adjacency and incidence indices, edge geometry, and file persistence.
//
// Every environment owns its own arena of node and edge records addressed by
// local index. Cross references are plain integer indices. Adjacency and
// incidence are never set directly; Build derives them from the edge records.
package trails

import (
	"fmt"
	"log/slog"
	"sync"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/trailnet/config"
	"github.com/pthm-cable/trailnet/parallel"
)

// Dims holds the fixed batch shape of a Store.
type Dims struct {
	Envs            int
	Nodes           int // per environment
	Edges           int // per environment
	MaxEdgesPerNode int // incidence capacity per node and direction
}

// Node is a waypoint. Index always equals the node's slot within its environment.
type Node struct {
	Index     int
	Position  r2.Vec
	Attribute int8
}

// envGraph is one environment's arena. Its lock is independent of other
// environments so one environment can be rebuilt while others are read.
type envGraph struct {
	mu sync.RWMutex

	nodes     []Node
	edges     []Edge
	adjacency []uint8 // Nodes*Nodes, row = start node
	outgoing  []Slot  // Nodes*MaxEdgesPerNode
	incoming  []Slot  // Nodes*MaxEdgesPerNode

	mismatches int // edges whose endpoints differ from their node positions
	built      bool
}

// Store is the batched trail graph for all environments.
type Store struct {
	dims       Dims
	arcSamples int
	pool       *parallel.Pool
	logger     *slog.Logger

	scaleMu sync.RWMutex
	scale   float64

	envs []*envGraph
}

// Option configures a Store.
type Option func(*Store)

// WithPool runs build kernels on the given worker pool.
func WithPool(p *parallel.Pool) Option {
	return func(s *Store) { s.pool = p }
}

// WithLogger sets the store's logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithArcSamples sets the sample count used to cache edge lengths at build time.
// A value of 1 caches plain chord lengths for curved edges.
func WithArcSamples(n int) Option {
	return func(s *Store) {
		if n < 1 {
			n = 1
		}
		s.arcSamples = n
	}
}

// NewStore allocates a store with the given fixed shape. All environments start
// with zeroed nodes and edges and empty incidence lists until the first Build.
func NewStore(d Dims, scale float64, opts ...Option) (*Store, error) {
	if d.Envs <= 0 || d.Nodes <= 0 || d.Edges < 0 || d.MaxEdgesPerNode <= 0 {
		return nil, fmt.Errorf("invalid store dimensions %+v", d)
	}
	if scale <= 0 {
		return nil, fmt.Errorf("invalid store scale %g", scale)
	}

	s := &Store{
		dims:       d,
		arcSamples: DefaultArcSamples,
		logger:     slog.Default(),
		scale:      scale,
		envs:       make([]*envGraph, d.Envs),
	}
	for _, opt := range opts {
		opt(s)
	}

	for e := range s.envs {
		g := &envGraph{}
		g.nodes, g.edges, g.adjacency, g.outgoing, g.incoming = s.allocEnv()
		for i := range g.nodes {
			g.nodes[i].Index = i
		}
		s.envs[e] = g
	}
	return s, nil
}

// FromConfig creates a store shaped by the scenario and geometry config sections.
func FromConfig(cfg *config.Config, opts ...Option) (*Store, error) {
	d := Dims{
		Envs:            cfg.Scenario.Envs,
		Nodes:           cfg.Scenario.Nodes,
		Edges:           cfg.Scenario.Edges,
		MaxEdgesPerNode: cfg.Scenario.MaxEdgesPerNode,
	}
	opts = append([]Option{WithArcSamples(cfg.Geometry.ArcSamples)}, opts...)
	return NewStore(d, cfg.Scenario.Scale, opts...)
}

func (s *Store) allocEnv() ([]Node, []Edge, []uint8, []Slot, []Slot) {
	d := s.dims
	return make([]Node, d.Nodes),
		make([]Edge, d.Edges),
		make([]uint8, d.Nodes*d.Nodes),
		make([]Slot, d.Nodes*d.MaxEdgesPerNode),
		make([]Slot, d.Nodes*d.MaxEdgesPerNode)
}

// Dims returns the store's fixed shape.
func (s *Store) Dims() Dims { return s.dims }

// ArcSamples returns the sample count used for cached edge lengths.
func (s *Store) ArcSamples() int { return s.arcSamples }

// Scale returns the coordinate normalisation factor.
func (s *Store) Scale() float64 {
	s.scaleMu.RLock()
	defer s.scaleMu.RUnlock()
	return s.scale
}

func (s *Store) setScale(v float64) {
	s.scaleMu.Lock()
	s.scale = v
	s.scaleMu.Unlock()
}

func (s *Store) env(e int) *envGraph {
	if e < 0 || e >= len(s.envs) {
		panic(fmt.Sprintf("trails: environment %d out of range [0,%d)", e, len(s.envs)))
	}
	return s.envs[e]
}

// Built reports whether env has been populated by a build.
func (s *Store) Built(env int) bool {
	g := s.env(env)
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.built
}

// Node returns node i of env. Panics if either index is out of range.
func (s *Store) Node(env, i int) Node {
	g := s.env(env)
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.nodes[i]
}

// Edge returns edge k of env. Panics if either index is out of range.
func (s *Store) Edge(env, k int) Edge {
	g := s.env(env)
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.edges[k]
}

// Nodes returns a copy of env's node records.
func (s *Store) Nodes(env int) []Node {
	g := s.env(env)
	g.mu.RLock()
	defer g.mu.RUnlock()
	return append([]Node(nil), g.nodes...)
}

// Edges returns a copy of env's edge records.
func (s *Store) Edges(env int) []Edge {
	g := s.env(env)
	g.mu.RLock()
	defer g.mu.RUnlock()
	return append([]Edge(nil), g.edges...)
}

// Read calls fn with env's node and edge records under the environment's read lock.
// fn must not retain or modify the slices.
func (s *Store) Read(env int, fn func(nodes []Node, edges []Edge)) {
	g := s.env(env)
	g.mu.RLock()
	defer g.mu.RUnlock()
	fn(g.nodes, g.edges)
}

// Adjacent reports whether some edge in env runs from node from to node to.
func (s *Store) Adjacent(env, from, to int) bool {
	g := s.env(env)
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.adjacency[from*s.dims.Nodes+to] == 1
}

// AdjacencyMatrix returns env's adjacency as a dense 0/1 matrix with rows
// indexed by start node.
func (s *Store) AdjacencyMatrix(env int) *mat.Dense {
	g := s.env(env)
	n := s.dims.Nodes
	data := make([]float64, n*n)

	g.mu.RLock()
	for i, v := range g.adjacency {
		data[i] = float64(v)
	}
	g.mu.RUnlock()

	return mat.NewDense(n, n, data)
}

// OutgoingSlots returns a copy of node's outgoing incidence slots in env.
func (s *Store) OutgoingSlots(env, node int) []Slot {
	return s.slots(env, node, false)
}

// IncomingSlots returns a copy of node's incoming incidence slots in env.
func (s *Store) IncomingSlots(env, node int) []Slot {
	return s.slots(env, node, true)
}

func (s *Store) slots(env, node int, in bool) []Slot {
	g := s.env(env)
	c := s.dims.MaxEdgesPerNode
	g.mu.RLock()
	defer g.mu.RUnlock()
	src := g.outgoing
	if in {
		src = g.incoming
	}
	return append([]Slot(nil), src[node*c:(node+1)*c]...)
}

// Outgoing returns the indices of edges starting at node, in slot order.
func (s *Store) Outgoing(env, node int) []int {
	return occupied(s.OutgoingSlots(env, node))
}

// Incoming returns the indices of edges ending at node, in slot order.
func (s *Store) Incoming(env, node int) []int {
	return occupied(s.IncomingSlots(env, node))
}

func occupied(slots []Slot) []int {
	out := make([]int, 0, len(slots))
	for _, sl := range slots {
		if k, ok := sl.Edge(); ok {
			out = append(out, k)
		}
	}
	return out
}
