// Package dag provides an integer-indexed adjacency view over a flowchart
// [graph.Graph] and the layered-drawing primitives built on it.
//
// # Overview
//
// Flowcharts arrive as node and edge lists keyed by string ids. Layout and
// analysis algorithms need fast neighbour queries, so [New] assigns each
// distinct id a dense slot (first-seen order) and stores adjacency as slot
// lists. Algorithms work on slots and translate back to ids with [Index.ID]
// only when producing results.
//
// Edges whose source or target is not a node are skipped while indexing. A
// graph with dangling edges is therefore still indexable; callers that care
// about them inspect [graph.Graph.DanglingEdges] directly.
//
// # Basic Usage
//
//	g := &graph.Graph{
//	    Nodes: []graph.Node{{ID: "start"}, {ID: "end"}},
//	    Edges: []graph.Edge{{Source: "start", Target: "end"}},
//	}
//	ix := dag.New(g)
//	s, _ := ix.IndexOf("start")
//	fmt.Println(ix.Children(s)) // [1]
//
// # Topological Walks
//
// [Index.Kahn] is the one Kahn traversal shared by layer assignment, cycle
// detection and the analyzer's path metrics. Callers hook per-edge work into
// it; [Index.TopoOrder] is the plain ordering built on top.
//
// # Edge Crossings
//
// [CountCrossings] and [CountLayerCrossings] use a Fenwick tree (binary
// indexed tree) to count inversions in O(E log V) time. The hierarchical
// layout uses them to stop crossing reduction once a sweep stops helping.
//
// # Concurrency
//
// An Index is immutable after construction. Any number of goroutines may
// read the same Index concurrently.
//
// # Related Packages
//
// The [transform] subpackage provides layer assignment and cycle detection.
//
// [transform]: github.com/matzehuels/flowlayout/pkg/dag/transform
package dag
