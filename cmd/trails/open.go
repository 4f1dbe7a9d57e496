package main

import (
	"context"
	"fmt"

	"github.com/pthm-cable/trailnet/config"
	"github.com/pthm-cable/trailnet/trails"
)

// openStore reads a trail file and builds a store shaped by its contents.
// A capacity of 0 sizes incidence slots to the largest degree in the file.
func openStore(ctx context.Context, path string, capacity int) (*trails.Store, error) {
	doc, _, err := trails.ReadFile[trails.Document](path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	d, err := documentDims(doc, capacity)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	s, err := trails.NewStore(d, 1,
		trails.WithLogger(slogFromContext(ctx)),
		trails.WithArcSamples(config.Cfg().Geometry.ArcSamples),
	)
	if err != nil {
		return nil, err
	}
	if err := trails.Deserialize(s, doc); err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return s, nil
}

// documentDims derives batch dimensions from the first environment. The
// remaining environments are checked against them by Deserialize.
func documentDims(doc *trails.Document, capacity int) (trails.Dims, error) {
	if len(doc.Environments) == 0 {
		return trails.Dims{}, &trails.Error{Kind: trails.ErrSchema, Env: -1, Index: -1, Msg: "document has no environments"}
	}
	first := doc.Environments[0]
	d := trails.Dims{
		Envs:            len(doc.Environments),
		Nodes:           len(first.Nodes),
		Edges:           len(first.Edges),
		MaxEdgesPerNode: capacity,
	}
	if capacity > 0 {
		return d, nil
	}

	d.MaxEdgesPerNode = 1
	for _, env := range doc.Environments {
		out := make(map[int]int)
		in := make(map[int]int)
		for _, ed := range env.Edges {
			if ed.StartIndex != nil {
				out[*ed.StartIndex]++
				d.MaxEdgesPerNode = max(d.MaxEdgesPerNode, out[*ed.StartIndex])
			}
			if ed.EndIndex != nil {
				in[*ed.EndIndex]++
				d.MaxEdgesPerNode = max(d.MaxEdgesPerNode, in[*ed.EndIndex])
			}
		}
	}
	return d, nil
}
