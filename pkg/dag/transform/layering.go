package transform

import "github.com/matzehuels/flowlayout/pkg/dag"

// Layering is the result of [AssignLayers].
type Layering struct {
	// Layers holds slots per rank, each in slot (input) order. When some
	// nodes sit on or behind a cycle they occupy the final layer together.
	Layers [][]int

	// Rank maps every slot to its layer index.
	Rank []int

	// Cyclic reports whether the final layer collects unreachable nodes.
	Cyclic bool
}

// AssignLayers assigns nodes to layers based on their depth in the graph.
//
// AssignLayers uses a longest-path algorithm via topological sort (Kahn's
// algorithm) to compute layer assignments. Each node is placed at one plus the
// maximum layer of any of its parents, ensuring that:
//   - Source nodes (no incoming edges) are at layer 0
//   - All parents are strictly above their children
//   - Each node is pushed as deep as necessary to avoid parent conflicts
//
// # Cycles
//
// Nodes on a cycle, and everything reachable only through one, never reach
// zero in-degree. They are collected in input order and appended as one
// trailing layer, so every node is placed and the function always terminates.
//
// # Performance
//
// Time complexity is O(V + E), where V is nodes and E is edges.
func AssignLayers(ix *dag.Index) Layering {
	n := ix.Len()
	rank := make([]int, n)
	order := ix.Kahn(func(curr, child int, _ bool) {
		rank[child] = max(rank[child], rank[curr]+1)
	})

	done := make([]bool, n)
	depth := 0
	for _, s := range order {
		done[s] = true
		depth = max(depth, rank[s]+1)
	}

	layers := make([][]int, depth)
	var trailing []int
	for i := range n {
		if !done[i] {
			trailing = append(trailing, i)
			continue
		}
		layers[rank[i]] = append(layers[rank[i]], i)
	}

	if len(trailing) > 0 {
		for _, s := range trailing {
			rank[s] = depth
		}
		layers = append(layers, trailing)
	}

	return Layering{Layers: layers, Rank: rank, Cyclic: len(trailing) > 0}
}
