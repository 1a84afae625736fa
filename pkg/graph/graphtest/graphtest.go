// Package graphtest builds flowchart graphs for tests.
package graphtest

import (
	"fmt"

	"github.com/matzehuels/flowlayout/pkg/graph"
)

// Chain returns a path graph ids[0] -> ids[1] -> ... in input order.
func Chain(ids ...string) *graph.Graph {
	g := &graph.Graph{}
	for _, id := range ids {
		g.Nodes = append(g.Nodes, graph.Node{ID: id})
	}
	for i := 0; i+1 < len(ids); i++ {
		g.Edges = append(g.Edges, graph.Edge{Source: ids[i], Target: ids[i+1]})
	}
	return g
}

// Build returns a graph with the given node ids and "src->dst" edge pairs.
func Build(nodes []string, edges ...[2]string) *graph.Graph {
	g := &graph.Graph{}
	for _, id := range nodes {
		g.Nodes = append(g.Nodes, graph.Node{ID: id})
	}
	for i, e := range edges {
		g.Edges = append(g.Edges, graph.Edge{
			ID:     fmt.Sprintf("e%d", i),
			Source: e[0],
			Target: e[1],
		})
	}
	return g
}

// FromInts builds a graph of n nodes "n0".."n{n-1}" and pairs consecutive
// values of raw into edges. Values >= n name nodes that do not exist, so
// random input also exercises dangling edges. Node types cycle through a
// small set so type-driven options have something to group by.
//
// It is shaped for property-based generators:
//
//	prop.ForAll(func(n int, raw []int) bool {
//	    g := graphtest.FromInts(n, raw)
//	    ...
//	}, gen.IntRange(0, 30), gen.SliceOf(gen.IntRange(0, 35)))
func FromInts(n int, raw []int) *graph.Graph {
	types := []string{"start", "task", "decision", "end", ""}
	g := &graph.Graph{Nodes: make([]graph.Node, 0, n)}
	for i := range n {
		g.Nodes = append(g.Nodes, graph.Node{
			ID:   fmt.Sprintf("n%d", i),
			Type: types[i%len(types)],
		})
	}
	for i := 0; i+1 < len(raw); i += 2 {
		g.Edges = append(g.Edges, graph.Edge{
			ID:     fmt.Sprintf("e%d", i/2),
			Source: fmt.Sprintf("n%d", raw[i]),
			Target: fmt.Sprintf("n%d", raw[i+1]),
		})
	}
	return g
}
