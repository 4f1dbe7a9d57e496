// Package agents moves trail-bound agents through a trail network.
package agents

import (
	"log/slog"
	"math/rand"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/trailnet/components"
	"github.com/pthm-cable/trailnet/config"
	"github.com/pthm-cable/trailnet/maps"
	"github.com/pthm-cable/trailnet/trails"
)

// maxHops bounds edge transitions per agent per step so chains of
// zero-length edges cannot stall a step.
const maxHops = 64

// Swarm owns the ECS world of trail agents for every environment.
type Swarm struct {
	world  *ecs.World
	mapper *ecs.Map3[components.TrailAgent, components.Position, components.Terrain]
	filter *ecs.Filter3[components.TrailAgent, components.Position, components.Terrain]

	store   *trails.Store
	overlay *maps.Overlay // optional field sampling
	rng     *rand.Rand
	logger  *slog.Logger

	speed  float64
	jitter float64

	nextID uint32
	count  int
}

// Option configures a Swarm.
type Option func(*Swarm)

// WithOverlay samples the overlay's field under each agent after every step.
func WithOverlay(o *maps.Overlay) Option {
	return func(s *Swarm) { s.overlay = o }
}

// WithLogger sets the swarm's logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Swarm) { s.logger = l }
}

// New creates an empty swarm over store. Agent speeds are drawn around speed
// with the given fractional jitter.
func New(store *trails.Store, speed, jitter float64, seed int64, opts ...Option) *Swarm {
	world := ecs.NewWorld()
	s := &Swarm{
		world:  world,
		mapper: ecs.NewMap3[components.TrailAgent, components.Position, components.Terrain](world),
		filter: ecs.NewFilter3[components.TrailAgent, components.Position, components.Terrain](world),
		store:  store,
		rng:    rand.New(rand.NewSource(seed)),
		logger: slog.Default(),
		speed:  speed,
		jitter: jitter,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FromConfig creates a swarm from the agents config section and spawns
// agents.per_env agents in every environment.
func FromConfig(cfg *config.Config, store *trails.Store, seed int64, opts ...Option) *Swarm {
	s := New(store, cfg.Agents.Speed, cfg.Agents.Jitter, seed, opts...)
	for env := 0; env < store.Dims().Envs; env++ {
		s.Spawn(env, cfg.Agents.PerEnv)
	}
	return s
}

// Count returns the number of live agents.
func (s *Swarm) Count() int { return s.count }

// Spawn places up to n agents of env at random nodes, each starting on a random
// outgoing edge. Nodes without outgoing edges are never chosen. It returns the
// number of agents created.
func (s *Swarm) Spawn(env, n int) int {
	starts := make([]int, 0, s.store.Dims().Nodes)
	for node := 0; node < s.store.Dims().Nodes; node++ {
		if len(s.store.Outgoing(env, node)) > 0 {
			starts = append(starts, node)
		}
	}
	if len(starts) == 0 {
		s.logger.Warn("no node with outgoing trails, agents not spawned", "env", env)
		return 0
	}

	for i := 0; i < n; i++ {
		node := starts[s.rng.Intn(len(starts))]
		out := s.store.Outgoing(env, node)
		k := out[s.rng.Intn(len(out))]
		edge := s.store.Edge(env, k)

		agent := components.TrailAgent{
			ID:       s.nextID,
			Env:      env,
			FromNode: node,
			Edge:     k,
			ToNode:   edge.EndNode,
			Speed:    s.speed * (1 + s.jitter*(2*s.rng.Float64()-1)),
		}
		p := edge.PositionAt(0)
		pos := components.Position{X: p.X, Y: p.Y}
		terrain := components.Terrain{}
		s.mapper.NewEntity(&agent, &pos, &terrain)
		s.nextID++
		s.count++
	}
	return n
}

// Step advances every agent by dt seconds along its trail.
func (s *Swarm) Step(dt float64) {
	query := s.filter.Query()
	for query.Next() {
		agent, pos, terrain := query.Get()
		s.advance(agent, dt)

		edge := s.store.Edge(agent.Env, agent.Edge)
		p := edge.PositionAt(agent.Param)
		pos.X, pos.Y = p.X, p.Y

		if s.overlay != nil {
			terrain.Value, terrain.OnGrid = s.overlay.CellAt(agent.Env, p)
		}
	}
}

func (s *Swarm) advance(a *components.TrailAgent, dt float64) {
	if a.Stuck {
		return
	}
	a.Travelled += a.Speed * dt

	edge := s.store.Edge(a.Env, a.Edge)
	for hops := 0; a.Travelled >= edge.Length && hops < maxHops; hops++ {
		next, ok := s.nextEdge(a)
		if !ok {
			a.Stuck = true
			a.Travelled = edge.Length
			a.Legs++
			break
		}
		a.Travelled -= edge.Length
		a.Legs++
		edge = s.store.Edge(a.Env, next)
		a.FromNode, a.Edge, a.ToNode = edge.StartNode, next, edge.EndNode
	}
	a.Param = edge.ParamAtDistance(a.Travelled)
}

// nextEdge picks an outgoing edge of the agent's destination, avoiding an
// immediate U-turn when another choice exists.
func (s *Swarm) nextEdge(a *components.TrailAgent) (int, bool) {
	out := s.store.Outgoing(a.Env, a.ToNode)
	if len(out) == 0 {
		return 0, false
	}

	choices := out[:0:0]
	for _, k := range out {
		if s.store.Edge(a.Env, k).EndNode != a.FromNode {
			choices = append(choices, k)
		}
	}
	if len(choices) == 0 {
		choices = out
	}
	return choices[s.rng.Intn(len(choices))], true
}

// Positions returns the world positions of env's agents.
func (s *Swarm) Positions(env int) []r2.Vec {
	out := make([]r2.Vec, 0, s.count)
	query := s.filter.Query()
	for query.Next() {
		agent, pos, _ := query.Get()
		if agent.Env == env {
			out = append(out, r2.Vec{X: pos.X, Y: pos.Y})
		}
	}
	return out
}

// Agents returns a copy of every agent's state, in query order.
func (s *Swarm) Agents() []components.TrailAgent {
	out := make([]components.TrailAgent, 0, s.count)
	query := s.filter.Query()
	for query.Next() {
		agent, _, _ := query.Get()
		out = append(out, *agent)
	}
	return out
}

// Legs returns the total number of edges completed by env's agents.
func (s *Swarm) Legs(env int) int {
	total := 0
	query := s.filter.Query()
	for query.Next() {
		agent, _, _ := query.Get()
		if agent.Env == env {
			total += agent.Legs
		}
	}
	return total
}
