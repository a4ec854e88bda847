// Package view runs one snapshot cycle: validate, diff, build, lay out.
package view

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/joshharrison/beadview/internal/bd"
	"github.com/joshharrison/beadview/internal/diff"
	"github.com/joshharrison/beadview/internal/graph"
	"github.com/joshharrison/beadview/internal/layout"
)

// Config controls graph construction and layout for a view.
type Config struct {
	Build   graph.Config
	RankDir layout.RankDir
}

// Frame is the result of one snapshot cycle, ready for the rendering
// surface.
type Frame struct {
	SnapshotID string            `json:"snapshot_id"`
	Taken      time.Time         `json:"taken_at"`
	Nodes      []graph.Node      `json:"nodes"`
	Edges      []graph.Edge      `json:"edges"`
	ChangedIDs []string          `json:"changed_ids"`
	Summaries  map[string]string `json:"summaries,omitempty"`
}

// View composes the graph builder, layout engine, and change detector for
// one live graph. It owns its detector's state: construct one View per
// logical view and call Update from a single goroutine, once per snapshot.
type View struct {
	cfg      Config
	engine   layout.Engine
	factory  EngineFactory
	detector *diff.Detector
}

// New creates a View that reuses engine across cycles. For engines that
// cannot be re-laid-out on the same instance, use NewEach.
func New(engine layout.Engine, cfg Config) *View {
	return &View{
		cfg:      cfg,
		engine:   engine,
		detector: diff.NewDetector(),
	}
}

// EngineFactory builds a fresh engine per cycle, for engine
// implementations that do not support re-layout on the same instance.
type EngineFactory func() layout.Engine

// NewEach creates a View that constructs a fresh engine every cycle.
func NewEach(factory EngineFactory, cfg Config) *View {
	v := New(nil, cfg)
	v.factory = factory
	return v
}

// Update processes one task snapshot. The change set feeds the pulse
// markers of the same cycle, so a task that just changed renders with
// emphasis immediately. On layout failure no frame is returned; the
// caller decides whether to keep showing the previous one.
func (v *View) Update(tasks []bd.Task) (*Frame, error) {
	if err := graph.Validate(tasks); err != nil {
		return nil, fmt.Errorf("reject snapshot: %w", err)
	}

	changes := v.detector.Detect(tasks)

	nodes := graph.BuildNodes(tasks, changes.ChangedIDs, v.cfg.Build)
	edges := graph.BuildEdges(tasks, v.cfg.Build)

	eng := v.engine
	if v.factory != nil {
		eng = v.factory()
	}
	if err := layout.Apply(nodes, edges, eng, layout.Options{RankDir: v.cfg.RankDir}); err != nil {
		return nil, err
	}

	changed := make([]string, 0, len(changes.ChangedIDs))
	for _, n := range nodes {
		if changes.ChangedIDs[n.ID] {
			changed = append(changed, n.ID)
		}
	}

	return &Frame{
		SnapshotID: uuid.NewString(),
		Taken:      time.Now(),
		Nodes:      nodes,
		Edges:      edges,
		ChangedIDs: changed,
		Summaries:  changes.Summaries,
	}, nil
}

// Reset clears the change detector, so the next snapshot reads as fresh.
func (v *View) Reset() {
	v.detector.Reset()
}
