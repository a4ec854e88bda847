package view

import (
	"testing"

	"github.com/joshharrison/beadview/internal/bd"
	"github.com/joshharrison/beadview/internal/graph"
	"github.com/joshharrison/beadview/internal/layout"
	"github.com/joshharrison/beadview/internal/layout/layered"
	"github.com/joshharrison/beadview/internal/status"
)

func newTestView(cfg Config) *View {
	return NewEach(func() layout.Engine { return layered.New() }, cfg)
}

func TestUpdate_EndToEnd(t *testing.T) {
	v := newTestView(Config{})

	tasks := []bd.Task{
		{ID: "a", Title: "A", Status: "closed"},
		{ID: "b", Title: "B", Status: "in-progress", Dependencies: []bd.Dependency{
			{DependsOnID: "a", Type: bd.DepBlocks},
		}},
	}

	frame, err := v.Update(tasks)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(frame.Nodes) != 2 {
		t.Fatalf("expected 2 nodes, got %d", len(frame.Nodes))
	}
	if frame.Nodes[0].ID != "a" || frame.Nodes[0].Data.Status != status.Completed {
		t.Errorf("unexpected node a: %+v", frame.Nodes[0])
	}
	if frame.Nodes[1].ID != "b" || frame.Nodes[1].Data.Status != status.InProgress {
		t.Errorf("unexpected node b: %+v", frame.Nodes[1])
	}

	if len(frame.Edges) != 1 {
		t.Fatalf("expected 1 edge, got %v", frame.Edges)
	}
	e := frame.Edges[0]
	if e.ID != "a-b" || e.Source != "a" || e.Target != "b" {
		t.Errorf("unexpected edge: %+v", e)
	}

	// The layout pass positioned both nodes; b ranks below a.
	if frame.Nodes[1].Position.Y <= frame.Nodes[0].Position.Y {
		t.Errorf("b should be positioned below a: %+v vs %+v",
			frame.Nodes[1].Position, frame.Nodes[0].Position)
	}
	if frame.SnapshotID == "" {
		t.Error("expected a snapshot id")
	}
}

func TestUpdate_ChangesDrivePulse(t *testing.T) {
	v := newTestView(Config{})

	_, err := v.Update([]bd.Task{
		{ID: "a", Title: "A", Updated: "t1"},
		{ID: "b", Title: "B", Updated: "t1"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	frame, err := v.Update([]bd.Task{
		{ID: "a", Title: "A", Updated: "t1"},
		{ID: "b", Title: "B", Assignee: "sam", Updated: "t2"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if frame.Nodes[0].Pulse {
		t.Error("unchanged a should not pulse")
	}
	if !frame.Nodes[1].Pulse {
		t.Error("changed b should pulse")
	}
	if len(frame.ChangedIDs) != 1 || frame.ChangedIDs[0] != "b" {
		t.Errorf("expected changed ids [b], got %v", frame.ChangedIDs)
	}
	if want := "assignee: none → sam"; frame.Summaries["b"] != want {
		t.Errorf("expected %q, got %q", want, frame.Summaries["b"])
	}
}

func TestUpdate_RejectsMalformedSnapshot(t *testing.T) {
	v := newTestView(Config{})

	_, err := v.Update([]bd.Task{{Title: "no id"}})
	if err == nil {
		t.Fatal("expected rejection")
	}
	t.Logf("rejection (expected): %v", err)
}

func TestUpdate_LayoutFailurePropagates(t *testing.T) {
	v := newTestView(Config{})

	// a and b block each other: the layered engine refuses cycles.
	_, err := v.Update([]bd.Task{
		{ID: "a", Title: "A", Dependencies: []bd.Dependency{{DependsOnID: "b"}}},
		{ID: "b", Title: "B", Dependencies: []bd.Dependency{{DependsOnID: "a"}}},
	})
	if err == nil {
		t.Fatal("expected layout error for cyclic graph")
	}
	t.Logf("layout error (expected): %v", err)
}

func TestUpdate_BuildConfigFlowsThrough(t *testing.T) {
	v := newTestView(Config{
		Build: graph.Config{
			NodeType:          func(t bd.Task) string { return "bead" },
			AnimateReadyEdges: true,
		},
	})

	frame, err := v.Update([]bd.Task{
		{ID: "a", Title: "A", Status: "closed"},
		{ID: "b", Title: "B", Status: "ready", Dependencies: []bd.Dependency{{DependsOnID: "a"}}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if frame.Nodes[0].Type != "bead" {
		t.Errorf("expected mapped node type, got %q", frame.Nodes[0].Type)
	}
	if !frame.Edges[0].Animated {
		t.Error("edge into ready target should animate")
	}
}
