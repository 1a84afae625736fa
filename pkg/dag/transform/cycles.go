package transform

import "github.com/matzehuels/flowlayout/pkg/dag"

// BackEdge is an edge that closes a cycle during depth-first search.
type BackEdge struct {
	From, To int
}

// FindBackEdges runs a white/gray/black depth-first search and returns every
// edge that points at a node still on the recursion stack. Self loops are
// back edges. The graph has a cycle iff the result is non-empty.
//
// Search starts from the sources in slot order and then from any slot left
// unvisited, so nodes only reachable through a cycle are covered too.
func FindBackEdges(ix *dag.Index) []BackEdge {
	const (
		white = iota
		gray
		black
	)

	color := make([]int, ix.Len())
	var backEdges []BackEdge

	var dfs func(node int)
	dfs = func(node int) {
		color[node] = gray
		for _, child := range ix.Children(node) {
			switch color[child] {
			case white:
				dfs(child)
			case gray:
				backEdges = append(backEdges, BackEdge{From: node, To: child})
			}
		}
		color[node] = black
	}

	for _, s := range ix.Sources() {
		if color[s] == white {
			dfs(s)
		}
	}

	for s := range ix.Len() {
		if color[s] == white {
			dfs(s)
		}
	}

	return backEdges
}

// IsAcyclic reports whether the indexed graph contains no directed cycle,
// that is whether [dag.Index.TopoOrder] covers every node.
func IsAcyclic(ix *dag.Index) bool {
	_, err := ix.TopoOrder()
	return err == nil
}
