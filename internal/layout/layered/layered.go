// Package layered is the default layout.Engine: a layered DAG layout that
// ranks nodes by longest path from the roots and orders each rank by the
// barycenter of its predecessors.
package layered

import (
	"fmt"
	"sort"

	"github.com/joshharrison/beadview/internal/layout"
)

const (
	nodeSep = 40.0 // gap between nodes within a rank
	rankSep = 60.0 // gap between ranks
	margin  = 20.0
)

type node struct {
	id            string
	width, height float64
}

type point struct{ x, y float64 }

// Engine implements layout.Engine. Zero value is not usable; call New.
type Engine struct {
	dir     layout.RankDir
	nodes   []node
	index   map[string]int
	edges   [][2]int
	centers map[string]point
}

// New creates an empty engine.
func New() *Engine {
	return &Engine{
		dir:   layout.TopBottom,
		index: make(map[string]int),
	}
}

// SetDirection sets the rank direction.
func (e *Engine) SetDirection(dir layout.RankDir) {
	e.dir = dir
}

// AddNode registers a node with its presentation size.
func (e *Engine) AddNode(id string, width, height float64) {
	if _, ok := e.index[id]; ok {
		return
	}
	e.index[id] = len(e.nodes)
	e.nodes = append(e.nodes, node{id: id, width: width, height: height})
}

// AddEdge registers a directed edge. Edges whose endpoints were never
// registered are ignored.
func (e *Engine) AddEdge(source, target string) {
	s, ok := e.index[source]
	if !ok {
		return
	}
	t, ok := e.index[target]
	if !ok {
		return
	}
	e.edges = append(e.edges, [2]int{s, t})
}

// Center returns the computed center point for a node.
func (e *Engine) Center(id string) (x, y float64, ok bool) {
	p, ok := e.centers[id]
	return p.x, p.y, ok
}

// Layout assigns a center point to every registered node. It refuses
// cyclic graphs: a layered layout has no rank assignment for them.
func (e *Engine) Layout() error {
	order, err := e.topoOrder()
	if err != nil {
		return err
	}

	// Longest path from the roots gives each node its rank.
	succ := make([][]int, len(e.nodes))
	pred := make([][]int, len(e.nodes))
	for _, edge := range e.edges {
		succ[edge[0]] = append(succ[edge[0]], edge[1])
		pred[edge[1]] = append(pred[edge[1]], edge[0])
	}
	rank := make([]int, len(e.nodes))
	maxRank := 0
	for _, n := range order {
		for _, p := range pred[n] {
			if rank[p]+1 > rank[n] {
				rank[n] = rank[p] + 1
			}
		}
		if rank[n] > maxRank {
			maxRank = rank[n]
		}
	}

	ranks := make([][]int, maxRank+1)
	for i := range e.nodes {
		ranks[rank[i]] = append(ranks[rank[i]], i)
	}

	// Order within each rank: rank 0 by id, deeper ranks by the mean
	// position of their predecessors in the rank above (one barycenter
	// sweep), ties by id.
	posInRank := make([]int, len(e.nodes))
	for r, members := range ranks {
		if r == 0 {
			sort.Slice(members, func(i, j int) bool {
				return e.nodes[members[i]].id < e.nodes[members[j]].id
			})
		} else {
			bary := make(map[int]float64, len(members))
			for _, n := range members {
				sum, count := 0.0, 0
				for _, p := range pred[n] {
					if rank[p] == r-1 {
						sum += float64(posInRank[p])
						count++
					}
				}
				if count > 0 {
					bary[n] = sum / float64(count)
				}
			}
			sort.Slice(members, func(i, j int) bool {
				bi, bj := bary[members[i]], bary[members[j]]
				if bi != bj {
					return bi < bj
				}
				return e.nodes[members[i]].id < e.nodes[members[j]].id
			})
		}
		for i, n := range members {
			posInRank[n] = i
		}
	}

	e.assignCenters(ranks)
	return nil
}

// assignCenters walks the ranks along the primary axis and the members of
// each rank along the cross axis, then mirrors the primary axis for the
// BT/RL directions.
func (e *Engine) assignCenters(ranks [][]int) {
	horizontal := e.dir == layout.LeftRight || e.dir == layout.RightLeft

	primarySize := func(n node) float64 {
		if horizontal {
			return n.width
		}
		return n.height
	}
	crossSize := func(n node) float64 {
		if horizontal {
			return n.height
		}
		return n.width
	}

	e.centers = make(map[string]point, len(e.nodes))
	primary := make([]float64, len(e.nodes))
	cross := make([]float64, len(e.nodes))

	cursor := margin
	for _, members := range ranks {
		extent := 0.0
		for _, n := range members {
			if s := primarySize(e.nodes[n]); s > extent {
				extent = s
			}
		}
		offset := margin
		for _, n := range members {
			primary[n] = cursor + extent/2
			cross[n] = offset + crossSize(e.nodes[n])/2
			offset += crossSize(e.nodes[n]) + nodeSep
		}
		cursor += extent + rankSep
	}

	// Mirror so rank 0 ends up at the bottom (BT) or right (RL).
	if e.dir == layout.BottomTop || e.dir == layout.RightLeft {
		total := cursor - rankSep + margin
		for i := range primary {
			primary[i] = total - primary[i]
		}
	}

	for i, n := range e.nodes {
		if horizontal {
			e.centers[n.id] = point{x: primary[i], y: cross[i]}
		} else {
			e.centers[n.id] = point{x: cross[i], y: primary[i]}
		}
	}
}

// topoOrder runs Kahn's algorithm, with sorted tie-breaking for
// deterministic output.
func (e *Engine) topoOrder() ([]int, error) {
	inDegree := make([]int, len(e.nodes))
	succ := make([][]int, len(e.nodes))
	for _, edge := range e.edges {
		succ[edge[0]] = append(succ[edge[0]], edge[1])
		inDegree[edge[1]]++
	}

	byID := func(a, b int) bool { return e.nodes[a].id < e.nodes[b].id }

	var queue []int
	for i := range e.nodes {
		if inDegree[i] == 0 {
			queue = append(queue, i)
		}
	}
	sort.Slice(queue, func(i, j int) bool { return byID(queue[i], queue[j]) })

	var order []int
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		order = append(order, n)

		var ready []int
		for _, s := range succ[n] {
			inDegree[s]--
			if inDegree[s] == 0 {
				ready = append(ready, s)
			}
		}
		sort.Slice(ready, func(i, j int) bool { return byID(ready[i], ready[j]) })
		queue = append(queue, ready...)
	}

	if len(order) != len(e.nodes) {
		return nil, fmt.Errorf("graph has a cycle (%d of %d nodes ranked)", len(order), len(e.nodes))
	}
	return order, nil
}
