package trails

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"
)

// DOTOptions configures Graphviz export.
type DOTOptions struct {
	// Pinned fixes node positions to their world coordinates (scaled to inches)
	// so the neato layout reproduces the trail map.
	Pinned bool
	// Lengths labels edges with their cached length.
	Lengths bool
}

// ToDOT writes env's trail network as a Graphviz digraph.
func (s *Store) ToDOT(env int, opts DOTOptions) string {
	var buf bytes.Buffer
	buf.WriteString("digraph trails {\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontsize=10, width=0.3, fixedsize=true];\n")
	buf.WriteString("  edge [arrowsize=0.5];\n")
	if opts.Pinned {
		buf.WriteString("  overlap=true;\n  splines=true;\n")
	}
	buf.WriteString("\n")

	inv := 10 / s.Scale()
	s.Read(env, func(nodes []Node, edges []Edge) {
		for _, n := range nodes {
			attrs := fmt.Sprintf("label=\"%d\"", n.Index)
			if n.Attribute != 0 {
				attrs += ", fillcolor=lightgrey"
			}
			if opts.Pinned {
				attrs += fmt.Sprintf(", pos=\"%.3f,%.3f!\"", n.Position.X*inv, n.Position.Y*inv)
			}
			fmt.Fprintf(&buf, "  n%d [%s];\n", n.Index, attrs)
		}

		buf.WriteString("\n")
		for k, ed := range edges {
			attrs := fmt.Sprintf("id=\"e%d\"", k)
			if !ed.IsStraight() {
				attrs += ", style=dashed"
			}
			if opts.Lengths {
				attrs += fmt.Sprintf(", label=\"%.2f\"", ed.Length)
			}
			fmt.Fprintf(&buf, "  n%d -> n%d [%s];\n", ed.StartNode, ed.EndNode, attrs)
		}
	})

	buf.WriteString("}\n")
	return buf.String()
}

// RenderSVG renders a DOT graph to SVG. Pinned graphs should use the neato layout.
func RenderSVG(ctx context.Context, dot string, neato bool) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	if neato {
		gv.SetLayout(graphviz.NEATO)
	}

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
