package analyzer

import (
	"github.com/matzehuels/flowlayout/pkg/dag"
	"github.com/matzehuels/flowlayout/pkg/dag/transform"
	"github.com/matzehuels/flowlayout/pkg/graph"
)

// CircularPatternLimit is the largest cyclic graph still treated as
// naturally circular.
const CircularPatternLimit = 20

// Analyze computes the structural report for g. The graph is only read.
//
// Node counts and degrees are taken over distinct node ids. EdgeCount is the
// raw number of edge entries; every adjacency-derived metric (degrees, tree
// test, density, paths) ignores dangling edges.
func Analyze(g *graph.Graph) *Analysis {
	return analyze(g, dag.New(g))
}

func analyze(g *graph.Graph, ix *dag.Index) *Analysis {
	n := ix.Len()
	isDAG := transform.IsAcyclic(ix)

	topo := Topology{
		InDegreeDistribution:  make([]int, n),
		OutDegreeDistribution: make([]int, n),
		IsDAG:                 isDAG,
	}
	for i := range n {
		topo.InDegreeDistribution[i] = ix.InDegree(i)
		topo.OutDegreeDistribution[i] = ix.OutDegree(i)
	}
	topo.LongestPath, topo.CriticalPaths = longestPaths(ix)
	topo.MaxWidth = maxWidth(ix)
	topo.SCCs = stronglyConnected(ix)
	topo.WeakComponents = weakComponents(ix)

	components := directedComponents(ix)

	a := &Analysis{
		NodeCount:            n,
		EdgeCount:            g.EdgeCount(),
		IsTree:               ix.EdgeCount() == n-1 && components == 1 && isDAG,
		IsHierarchical:       len(ix.Sources()) >= 1 && isDAG,
		HasCycles:            !isDAG,
		HasCircularPattern:   !isDAG && n <= CircularPatternLimit,
		MaxDepth:             maxDepth(ix),
		AverageBranching:     averageBranching(ix),
		ConnectedComponents:  components,
		PreferredDirection:   DirectionLR,
		NodeTypeDistribution: typeDistribution(g),
		Topology:             topo,
		Process:              analyzeProcess(ix),
	}
	if topo.LongestPath > topo.MaxWidth {
		a.PreferredDirection = DirectionTB
	}
	a.ComplexityScore = complexity(n, ix.EdgeCount(), topo.LongestPath, a.AverageBranching)
	return a
}

// complexity combines size, density, depth and branching into [0, 1].
func complexity(nodes, edges, longestPath int, avgOut float64) float64 {
	density := 0.0
	if maxEdges := nodes * (nodes - 1); maxEdges > 0 {
		density = float64(edges) / float64(maxEdges)
	}
	score := 0.3*clamp01(float64(nodes)/50) +
		0.3*clamp01(density) +
		0.2*clamp01(float64(longestPath)/10) +
		0.2*clamp01(avgOut/5)
	return clamp01(score)
}

func clamp01(v float64) float64 {
	return min(max(v, 0), 1)
}

func averageBranching(ix *dag.Index) float64 {
	if ix.Len() == 0 {
		return 0
	}
	return float64(ix.EdgeCount()) / float64(ix.Len())
}

// typeDistribution counts node entries per type, duplicates included, with
// untyped nodes under [graph.UnknownType].
func typeDistribution(g *graph.Graph) map[string]int {
	dist := make(map[string]int)
	for i := range g.Nodes {
		dist[g.Nodes[i].TypeOrUnknown()]++
	}
	return dist
}

// maxDepth runs a multi-source BFS from every root. A node's depth is its
// edge count from the nearest root, so cycles cannot extend it.
func maxDepth(ix *dag.Index) int {
	depth := make([]int, ix.Len())
	for i := range depth {
		depth[i] = -1
	}

	queue := ix.Sources()
	for _, s := range queue {
		depth[s] = 0
	}

	deepest := 0
	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]
		deepest = max(deepest, depth[curr])
		for _, child := range ix.Children(curr) {
			if depth[child] < 0 {
				depth[child] = depth[curr] + 1
				queue = append(queue, child)
			}
		}
	}
	return deepest
}
