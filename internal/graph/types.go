package graph

import (
	"github.com/joshharrison/beadview/internal/bd"
	"github.com/joshharrison/beadview/internal/status"
)

// DefaultNodeType is the presentation type used when Config.NodeType is unset.
const DefaultNodeType = "task"

// Position is a top-left-anchored 2D coordinate. The layout adapter fills
// it in; builders leave it zero.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NodeData is the payload the rendering surface reads off a node.
type NodeData struct {
	Title    string        `json:"title"`
	Status   status.Status `json:"status"`
	Assignee string        `json:"assignee,omitempty"`
}

// Node is one renderable task. Nodes are rebuilt fresh on every snapshot;
// consumers must diff by ID, never by reference.
type Node struct {
	ID       string   `json:"id"`
	Type     string   `json:"type"`
	Data     NodeData `json:"data"`
	Pulse    bool     `json:"pulse,omitempty"`
	Position Position `json:"position"`
}

// Edge is one renderable dependency edge. Source is the blocker, Target
// the blocked task, so arrows point at the work that is waiting.
type Edge struct {
	ID       string     `json:"id"`
	Source   string     `json:"source"`
	Target   string     `json:"target"`
	Type     bd.DepType `json:"type,omitempty"`
	Animated bool       `json:"animated,omitempty"`
}

// Config controls node typing and edge animation.
type Config struct {
	// NodeType maps a task to its presentation type tag. Defaults to
	// DefaultNodeType when nil.
	NodeType func(bd.Task) string

	// AnimateReadyEdges animates edges whose target task is in ready
	// status: a ready downstream task means its dependency chain just
	// unblocked.
	AnimateReadyEdges bool
}
