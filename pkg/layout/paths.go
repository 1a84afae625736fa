package layout

import "github.com/matzehuels/flowlayout/pkg/graph"

// StraightPaths returns a two-point path per edge from its source position
// to its target position, keyed by [graph.Edge.Key]. Edges with an endpoint
// missing from positions get no path.
func StraightPaths(g *graph.Graph, positions map[string]Position) map[string][]Position {
	paths := make(map[string][]Position, len(g.Edges))
	for i := range g.Edges {
		e := &g.Edges[i]
		from, ok := positions[e.Source]
		if !ok {
			continue
		}
		to, ok := positions[e.Target]
		if !ok {
			continue
		}
		paths[e.Key()] = []Position{from, to}
	}
	return paths
}
