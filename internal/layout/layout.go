// Package layout positions graph nodes by delegating to a layered-DAG
// engine and translating its center-point answers onto the nodes.
package layout

import (
	"fmt"

	"github.com/joshharrison/beadview/internal/graph"
)

// RankDir is the rank direction for the layered layout.
type RankDir string

const (
	TopBottom RankDir = "TB"
	BottomTop RankDir = "BT"
	LeftRight RankDir = "LR"
	RightLeft RankDir = "RL"
)

// Fixed presentation size for every node. The SPA draws nodes at this
// size, and the top-left anchor math below depends on it.
const (
	NodeWidth  = 220.0
	NodeHeight = 72.0
)

// Engine is the narrow contract any layered-DAG layout algorithm must
// satisfy. Register nodes and edges, compute, then read back a center
// point per node.
type Engine interface {
	SetDirection(dir RankDir)
	AddNode(id string, width, height float64)
	AddEdge(source, target string)
	Layout() error
	Center(id string) (x, y float64, ok bool)
}

// Options configures one layout pass.
type Options struct {
	RankDir RankDir // defaults to TopBottom
}

// Apply positions nodes in place using eng. The engine answers in center
// coordinates; each is translated to the node's top-left anchor, which is
// what Position means everywhere else. Nodes and edges are never dropped
// or reordered. An engine failure (e.g. a cycle it refuses to lay out)
// propagates to the caller.
func Apply(nodes []graph.Node, edges []graph.Edge, eng Engine, opts Options) error {
	dir := opts.RankDir
	if dir == "" {
		dir = TopBottom
	}
	eng.SetDirection(dir)

	for _, n := range nodes {
		eng.AddNode(n.ID, NodeWidth, NodeHeight)
	}
	for _, e := range edges {
		eng.AddEdge(e.Source, e.Target)
	}

	if err := eng.Layout(); err != nil {
		return fmt.Errorf("compute layout: %w", err)
	}

	for i := range nodes {
		cx, cy, ok := eng.Center(nodes[i].ID)
		if !ok {
			return fmt.Errorf("compute layout: engine returned no position for %s", nodes[i].ID)
		}
		nodes[i].Position = graph.Position{
			X: cx - NodeWidth/2,
			Y: cy - NodeHeight/2,
		}
	}
	return nil
}
