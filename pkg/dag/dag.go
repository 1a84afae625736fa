package dag

import (
	"errors"
	"slices"

	"github.com/matzehuels/flowlayout/pkg/graph"
)

// ErrGraphHasCycle is returned by [Index.TopoOrder] when a cycle prevents a
// complete topological order.
var ErrGraphHasCycle = errors.New("graph contains a cycle")

// Index is an arena over a [graph.Graph]: each distinct node id is assigned
// a dense integer slot in first-seen order, and adjacency is stored as slot
// lists. Edges whose endpoints are missing contribute no adjacency.
//
// The zero value is not usable - use New to build an Index.
// Index is immutable after construction and safe for concurrent reads.
type Index struct {
	ids      []string
	slot     map[string]int
	nodes    []*graph.Node
	outgoing [][]int
	incoming [][]int
	edges    int
}

// New builds an Index from g. The graph is only read.
//
// Duplicate node ids collapse onto the slot of their first occurrence while
// the node payload follows last-write-wins, matching [graph.Graph.Node].
// Multiple edges between the same pair are kept (they count towards degrees).
func New(g *graph.Graph) *Index {
	ix := &Index{slot: make(map[string]int, len(g.Nodes))}
	for i := range g.Nodes {
		n := &g.Nodes[i]
		if s, ok := ix.slot[n.ID]; ok {
			ix.nodes[s] = n
			continue
		}
		ix.slot[n.ID] = len(ix.ids)
		ix.ids = append(ix.ids, n.ID)
		ix.nodes = append(ix.nodes, n)
	}

	ix.outgoing = make([][]int, len(ix.ids))
	ix.incoming = make([][]int, len(ix.ids))
	for _, e := range g.Edges {
		from, okS := ix.slot[e.Source]
		to, okT := ix.slot[e.Target]
		if !okS || !okT {
			continue
		}
		ix.outgoing[from] = append(ix.outgoing[from], to)
		ix.incoming[to] = append(ix.incoming[to], from)
		ix.edges++
	}
	return ix
}

// Len returns the number of distinct nodes.
func (ix *Index) Len() int { return len(ix.ids) }

// EdgeCount returns the number of edges that connect two known nodes.
func (ix *Index) EdgeCount() int { return ix.edges }

// ID returns the node id stored in slot i.
func (ix *Index) ID(i int) string { return ix.ids[i] }

// Node returns the node payload for slot i.
func (ix *Index) Node(i int) *graph.Node { return ix.nodes[i] }

// IndexOf returns the slot for id and whether it exists.
func (ix *Index) IndexOf(id string) (int, bool) {
	s, ok := ix.slot[id]
	return s, ok
}

// Children returns the slots this node has edges to.
// The returned slice should not be modified - use it as a read-only view.
func (ix *Index) Children(i int) []int { return ix.outgoing[i] }

// Parents returns the slots that have edges to this node.
// The returned slice should not be modified - use it as a read-only view.
func (ix *Index) Parents(i int) []int { return ix.incoming[i] }

// OutDegree returns the number of outgoing edges from slot i.
func (ix *Index) OutDegree(i int) int { return len(ix.outgoing[i]) }

// InDegree returns the number of incoming edges to slot i.
func (ix *Index) InDegree(i int) int { return len(ix.incoming[i]) }

// Neighbors returns the distinct slots adjacent to i in either direction,
// in ascending slot order. Self loops are excluded.
func (ix *Index) Neighbors(i int) []int {
	out := make([]int, 0, len(ix.outgoing[i])+len(ix.incoming[i]))
	out = append(out, ix.outgoing[i]...)
	out = append(out, ix.incoming[i]...)
	out = slices.DeleteFunc(out, func(j int) bool { return j == i })
	slices.Sort(out)
	return slices.Compact(out)
}

// Sources returns the slots with no incoming edges, in slot order.
func (ix *Index) Sources() []int {
	var sources []int
	for i := range ix.ids {
		if len(ix.incoming[i]) == 0 {
			sources = append(sources, i)
		}
	}
	return sources
}

// Sinks returns the slots with no outgoing edges, in slot order.
func (ix *Index) Sinks() []int {
	var sinks []int
	for i := range ix.ids {
		if len(ix.outgoing[i]) == 0 {
			sinks = append(sinks, i)
		}
	}
	return sinks
}

// InDegrees returns a fresh slice of in-degrees, one per slot. Callers use it
// as the mutable counter array of Kahn's algorithm.
func (ix *Index) InDegrees() []int {
	deg := make([]int, len(ix.ids))
	for i := range ix.ids {
		deg[i] = len(ix.incoming[i])
	}
	return deg
}

// Kahn walks the graph in topological order: FIFO, seeded with the
// zero-in-degree slots in slot order. For every edge leaving a dequeued slot
// it calls relax once the target's remaining in-degree has been decremented;
// released reports whether that edge brought it to zero. relax may be nil.
//
// The returned order holds every slot that was dequeued. Slots on or behind a
// cycle never are, so a short order means the graph is cyclic.
func (ix *Index) Kahn(relax func(from, to int, released bool)) []int {
	deg := ix.InDegrees()
	order := make([]int, 0, len(ix.ids))
	for i, d := range deg {
		if d == 0 {
			order = append(order, i)
		}
	}

	// order doubles as the queue: everything past head is still pending.
	for head := 0; head < len(order); head++ {
		curr := order[head]
		for _, child := range ix.outgoing[curr] {
			deg[child]--
			released := deg[child] == 0
			if released {
				order = append(order, child)
			}
			if relax != nil {
				relax(curr, child, released)
			}
		}
	}
	return order
}

// TopoOrder returns a topological order of all slots as produced by
// [Index.Kahn]. It returns ErrGraphHasCycle together with the partial order
// when some nodes sit on or behind a cycle.
func (ix *Index) TopoOrder() ([]int, error) {
	order := ix.Kahn(nil)
	if len(order) < len(ix.ids) {
		return order, ErrGraphHasCycle
	}
	return order, nil
}

// PosMap creates a position lookup from an ordering of slots.
// The returned map maps each slot to its index in the slice.
// This is commonly used to convert layer orderings into fast position
// lookups for crossing and barycenter calculations.
func PosMap(order []int) map[int]int {
	m := make(map[int]int, len(order))
	for i, s := range order {
		m[s] = i
	}
	return m
}
