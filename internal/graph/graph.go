// Package graph turns a task snapshot into renderable nodes and edges.
package graph

import (
	"fmt"

	"github.com/joshharrison/beadview/internal/bd"
	"github.com/joshharrison/beadview/internal/status"
)

// Validate checks the upstream contract: every task must carry an id and a
// title. Id uniqueness is load-bearing for node identity and edge ids, so a
// malformed record is rejected rather than guessed at.
func Validate(tasks []bd.Task) error {
	seen := make(map[string]bool, len(tasks))
	for i, t := range tasks {
		if t.ID == "" {
			return fmt.Errorf("task %d: missing id", i)
		}
		if t.Title == "" {
			return fmt.Errorf("task %s: missing title", t.ID)
		}
		if seen[t.ID] {
			return fmt.Errorf("task %s: duplicate id", t.ID)
		}
		seen[t.ID] = true
	}
	return nil
}

// BuildNodes converts tasks to nodes, one per task in input order. Tasks
// whose id appears in changed carry the pulse marker.
func BuildNodes(tasks []bd.Task, changed map[string]bool, cfg Config) []Node {
	nodeType := cfg.NodeType
	if nodeType == nil {
		nodeType = func(bd.Task) string { return DefaultNodeType }
	}

	nodes := make([]Node, 0, len(tasks))
	for _, t := range tasks {
		nodes = append(nodes, Node{
			ID:   t.ID,
			Type: nodeType(t),
			Data: NodeData{
				Title:    t.Title,
				Status:   status.Normalize(t.Status),
				Assignee: t.Assignee,
			},
			Pulse: changed[t.ID],
		})
	}
	return nodes
}

// BuildEdges converts dependency entries to edges. A dependency whose
// depends_on_id is not a task in this snapshot produces no edge: the
// tracker may reference archived or external items. Duplicate
// (depends_on_id, task_id) pairs collapse to the first occurrence.
func BuildEdges(tasks []bd.Task, cfg Config) []Edge {
	valid := make(map[string]string, len(tasks)) // id -> raw status
	for _, t := range tasks {
		valid[t.ID] = t.Status
	}

	var edges []Edge
	seen := make(map[string]bool)
	for _, t := range tasks {
		for _, dep := range t.Dependencies {
			if _, ok := valid[dep.DependsOnID]; !ok {
				continue
			}
			id := dep.DependsOnID + "-" + t.ID
			if seen[id] {
				continue
			}
			seen[id] = true
			edges = append(edges, Edge{
				ID:       id,
				Source:   dep.DependsOnID,
				Target:   t.ID,
				Type:     dep.Type,
				Animated: cfg.AnimateReadyEdges && status.Normalize(t.Status) == status.Ready,
			})
		}
	}
	return edges
}
