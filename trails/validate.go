package trails

import (
	"math"

	"golang.org/x/sync/errgroup"
)

// validate checks in against the store shape for envs environments starting at
// offset. Environments are checked concurrently; the error reported belongs to
// the lowest failing environment so results are deterministic.
func (s *Store) validate(in *BuildInput, offset, envs int) error {
	if in == nil {
		return schemaErr(-1, "missing build input")
	}
	if in.Envs != envs || in.Nodes != s.dims.Nodes || in.Edges != s.dims.Edges {
		return schemaErr(-1, "input shape envs=%d nodes=%d edges=%d does not match store envs=%d nodes=%d edges=%d",
			in.Envs, in.Nodes, in.Edges, envs, s.dims.Nodes, s.dims.Edges)
	}
	if in.Scale < 0 || math.IsNaN(in.Scale) || math.IsInf(in.Scale, 0) {
		return schemaErr(-1, "scale must be finite and non-negative, got %g", in.Scale)
	}

	nn, ne := envs*in.Nodes, envs*in.Edges
	columns := []struct {
		name      string
		got, want int
	}{
		{"node positions", len(in.NodePos), nn},
		{"node attributes", len(in.NodeAttr), nn},
		{"edge start indices", len(in.EdgeStart), ne},
		{"edge end indices", len(in.EdgeEnd), ne},
		{"edge start positions", len(in.StartPos), ne},
		{"edge end positions", len(in.EndPos), ne},
		{"edge start controls", len(in.StartControl), ne},
		{"edge end controls", len(in.EndControl), ne},
		{"curve flags", len(in.CurveFlag), ne},
	}
	for _, c := range columns {
		if c.got != c.want {
			return schemaErr(-1, "%s has %d entries, want %d", c.name, c.got, c.want)
		}
	}

	errs := make([]error, envs)
	var g errgroup.Group
	if s.pool != nil {
		g.SetLimit(s.pool.Workers())
	}
	for e := 0; e < envs; e++ {
		g.Go(func() error {
			errs[e] = s.validateEnv(in, e, offset+e)
			return errs[e]
		})
	}
	if err := g.Wait(); err != nil {
		for _, err := range errs {
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// validateEnv checks local environment e of in, reporting failures against env.
func (s *Store) validateEnv(in *BuildInput, e, env int) error {
	N, E, C := in.Nodes, in.Edges, s.dims.MaxEdgesPerNode

	for i := 0; i < N; i++ {
		if p := in.NodePos[e*N+i]; !finite(p) {
			return indexErr(env, "node", i, "non-finite position (%g, %g)", p.X, p.Y)
		}
	}

	outDeg := make([]int, N)
	inDeg := make([]int, N)
	for k := 0; k < E; k++ {
		idx := e*E + k
		start, end := in.EdgeStart[idx], in.EdgeEnd[idx]
		if start < 0 || start >= N {
			return indexErr(env, "edge", k, "start node %d out of range [0,%d)", start, N)
		}
		if end < 0 || end >= N {
			return indexErr(env, "edge", k, "end node %d out of range [0,%d)", end, N)
		}
		if !finite(in.StartPos[idx]) || !finite(in.EndPos[idx]) ||
			!finite(in.StartControl[idx]) || !finite(in.EndControl[idx]) {
			return indexErr(env, "edge", k, "non-finite coordinates")
		}
		if f := in.CurveFlag[idx]; math.IsNaN(f) || f < 0 || f > 1 {
			return fieldErr(env, "edge", k, "curve flag %g outside [0,1]", f)
		}
		outDeg[start]++
		inDeg[end]++
	}

	for n := 0; n < N; n++ {
		if outDeg[n] > C {
			return capacityErr(env, n, "out-degree %d exceeds capacity %d", outDeg[n], C)
		}
		if inDeg[n] > C {
			return capacityErr(env, n, "in-degree %d exceeds capacity %d", inDeg[n], C)
		}
	}
	return nil
}
