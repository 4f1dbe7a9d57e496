// Package components defines ECS components for trail agents.
package components

// Position represents an entity's world position.
type Position struct {
	X, Y float64
}

// TrailAgent holds the state of an agent bound to a trail network.
// The agent travels edge Edge from FromNode towards ToNode.
type TrailAgent struct {
	ID  uint32
	Env int

	FromNode int
	Edge     int
	ToNode   int

	Travelled float64 // distance covered along Edge
	Param     float64 // curve parameter matching Travelled
	Speed     float64 // world units per second

	Legs  int  // edges completed
	Stuck bool // reached a node with no outgoing edge
}

// Terrain holds the raster cell under an agent.
type Terrain struct {
	Value  uint8
	OnGrid bool
}
