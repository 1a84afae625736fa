package transform

import (
	"testing"

	"github.com/matzehuels/flowlayout/pkg/dag"
	"github.com/matzehuels/flowlayout/pkg/graph"
)

func build(nodes []string, edges ...[2]string) *dag.Index {
	g := &graph.Graph{}
	for _, id := range nodes {
		g.Nodes = append(g.Nodes, graph.Node{ID: id})
	}
	for _, e := range edges {
		g.Edges = append(g.Edges, graph.Edge{Source: e[0], Target: e[1]})
	}
	return dag.New(g)
}

func TestFindBackEdges_NoCycles(t *testing.T) {
	ix := build([]string{"a", "b", "c"}, [2]string{"a", "b"}, [2]string{"b", "c"})

	if got := FindBackEdges(ix); len(got) != 0 {
		t.Errorf("FindBackEdges() = %v, want none", got)
	}
	if !IsAcyclic(ix) {
		t.Error("IsAcyclic() = false, want true")
	}
}

func TestFindBackEdges_SimpleCycle(t *testing.T) {
	ix := build([]string{"a", "b"}, [2]string{"a", "b"}, [2]string{"b", "a"})

	got := FindBackEdges(ix)
	if len(got) != 1 {
		t.Fatalf("FindBackEdges() = %v, want 1 edge", got)
	}
	if got[0] != (BackEdge{From: 1, To: 0}) {
		t.Errorf("back edge = %+v, want b->a", got[0])
	}
}

func TestFindBackEdges_TriangleCycle(t *testing.T) {
	ix := build([]string{"a", "b", "c"},
		[2]string{"a", "b"}, [2]string{"b", "c"}, [2]string{"c", "a"})

	if got := FindBackEdges(ix); len(got) != 1 {
		t.Errorf("FindBackEdges() = %v, want 1 edge", got)
	}
	if IsAcyclic(ix) {
		t.Error("IsAcyclic() = true, want false")
	}
}

func TestFindBackEdges_SelfLoop(t *testing.T) {
	ix := build([]string{"a"}, [2]string{"a", "a"})

	if IsAcyclic(ix) {
		t.Error("IsAcyclic() = true for self loop, want false")
	}
}

func TestFindBackEdges_DanglingEdgeIgnored(t *testing.T) {
	ix := build([]string{"a"}, [2]string{"a", "ghost"}, [2]string{"ghost", "a"})

	if !IsAcyclic(ix) {
		t.Error("dangling edges must not create a cycle")
	}
}
