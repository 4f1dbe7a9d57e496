package trails

import (
	"gonum.org/v1/gonum/spatial/r2"
)

// Document is the trail interchange payload. Field order keeps keys sorted in
// both encodings. Pointer and slice fields distinguish absent keys from zero values.
type Document struct {
	Environments []EnvDocument `json:"environments" yaml:"environments"`
	Scale        *float64      `json:"scale" yaml:"scale"`
}

// EnvDocument holds one environment's records.
type EnvDocument struct {
	Edges []EdgeDocument `json:"edges" yaml:"edges"`
	Nodes []NodeDocument `json:"nodes" yaml:"nodes"`
}

// NodeDocument is the persisted form of a Node.
type NodeDocument struct {
	Attribute *int8     `json:"attribute" yaml:"attribute"`
	Index     *int      `json:"index" yaml:"index"`
	Position  []float64 `json:"position" yaml:"position,flow"`
}

// EdgeDocument is the persisted form of an Edge. Control points are absolute.
// Cached lengths are derived on load and never written.
type EdgeDocument struct {
	CurveFlag    *float64  `json:"curve_flag" yaml:"curve_flag"`
	EndControl   []float64 `json:"end_control" yaml:"end_control,flow"`
	EndIndex     *int      `json:"end_index" yaml:"end_index"`
	EndPos       []float64 `json:"end_pos" yaml:"end_pos,flow"`
	StartControl []float64 `json:"start_control" yaml:"start_control,flow"`
	StartIndex   *int      `json:"start_index" yaml:"start_index"`
	StartPos     []float64 `json:"start_pos" yaml:"start_pos,flow"`
}

func ptr[T any](v T) *T { return &v }

func vecDoc(v r2.Vec) []float64 { return []float64{v.X, v.Y} }

// Serialize copies every environment's node and edge fields into a Document.
func Serialize(s *Store) *Document {
	doc := &Document{
		Environments: make([]EnvDocument, s.dims.Envs),
		Scale:        ptr(s.Scale()),
	}
	for e := range doc.Environments {
		s.Read(e, func(nodes []Node, edges []Edge) {
			env := EnvDocument{
				Edges: make([]EdgeDocument, len(edges)),
				Nodes: make([]NodeDocument, len(nodes)),
			}
			for i, n := range nodes {
				env.Nodes[i] = NodeDocument{
					Attribute: ptr(n.Attribute),
					Index:     ptr(n.Index),
					Position:  vecDoc(n.Position),
				}
			}
			for k, ed := range edges {
				env.Edges[k] = EdgeDocument{
					CurveFlag:    ptr(ed.CurveFlag),
					EndControl:   vecDoc(ed.EndControl),
					EndIndex:     ptr(ed.EndNode),
					EndPos:       vecDoc(ed.EndPos),
					StartControl: vecDoc(ed.StartControl),
					StartIndex:   ptr(ed.StartNode),
					StartPos:     vecDoc(ed.StartPos),
				}
			}
			doc.Environments[e] = env
		})
	}
	return doc
}

// Deserialize validates doc against the store's fixed shape and rebuilds the
// store from it with absolute control points. On error the store is unchanged.
func Deserialize(s *Store, doc *Document) error {
	in, err := s.inputFromDocument(doc)
	if err != nil {
		return err
	}
	return s.Build(in)
}

func (s *Store) inputFromDocument(doc *Document) (*BuildInput, error) {
	if doc == nil || (doc.Environments == nil && doc.Scale == nil) {
		return nil, configErr("trail document is empty")
	}
	if doc.Environments == nil {
		return nil, schemaErr(-1, "missing key environments")
	}
	if doc.Scale == nil {
		return nil, schemaErr(-1, "missing key scale")
	}
	if !(*doc.Scale > 0) {
		return nil, schemaErr(-1, "scale must be positive, got %g", *doc.Scale)
	}

	d := s.dims
	if len(doc.Environments) != d.Envs {
		return nil, schemaErr(-1, "document has %d environments, store has %d", len(doc.Environments), d.Envs)
	}

	in := NewBuildInput(d.Envs, d.Nodes, d.Edges)
	in.Scale = *doc.Scale
	in.Controls = ControlAbsolute

	for e, env := range doc.Environments {
		if len(env.Nodes) != d.Nodes {
			return nil, schemaErr(e, "environment has %d nodes, store has %d", len(env.Nodes), d.Nodes)
		}
		if len(env.Edges) != d.Edges {
			return nil, schemaErr(e, "environment has %d edges, store has %d", len(env.Edges), d.Edges)
		}

		for i, n := range env.Nodes {
			switch {
			case n.Index == nil:
				return nil, fieldErr(e, "node", i, "missing key index")
			case n.Attribute == nil:
				return nil, fieldErr(e, "node", i, "missing key attribute")
			case *n.Index != i:
				return nil, fieldErr(e, "node", i, "index %d does not match position in list", *n.Index)
			}
			pos, err := docVec(n.Position, e, "node", i, "position")
			if err != nil {
				return nil, err
			}
			in.SetNode(e, i, pos, *n.Attribute)
		}

		for k, ed := range env.Edges {
			switch {
			case ed.StartIndex == nil:
				return nil, fieldErr(e, "edge", k, "missing key start_index")
			case ed.EndIndex == nil:
				return nil, fieldErr(e, "edge", k, "missing key end_index")
			case ed.CurveFlag == nil:
				return nil, fieldErr(e, "edge", k, "missing key curve_flag")
			}
			var vecs [4]r2.Vec
			for j, f := range []struct {
				key string
				v   []float64
			}{
				{"start_pos", ed.StartPos},
				{"end_pos", ed.EndPos},
				{"start_control", ed.StartControl},
				{"end_control", ed.EndControl},
			} {
				v, err := docVec(f.v, e, "edge", k, f.key)
				if err != nil {
					return nil, err
				}
				vecs[j] = v
			}
			in.SetEdge(e, k, EdgeInput{
				Start:        *ed.StartIndex,
				End:          *ed.EndIndex,
				StartPos:     vecs[0],
				EndPos:       vecs[1],
				StartControl: vecs[2],
				EndControl:   vecs[3],
				CurveFlag:    *ed.CurveFlag,
			})
		}
	}
	return in, nil
}

func docVec(v []float64, env int, entity string, index int, key string) (r2.Vec, error) {
	switch len(v) {
	case 2:
		return r2.Vec{X: v[0], Y: v[1]}, nil
	case 0:
		if v == nil {
			return r2.Vec{}, fieldErr(env, entity, index, "missing key %s", key)
		}
	}
	return r2.Vec{}, fieldErr(env, entity, index, "%s has %d components, want 2", key, len(v))
}
