package dag_test

import (
	"fmt"

	"github.com/matzehuels/flowlayout/pkg/dag"
	"github.com/matzehuels/flowlayout/pkg/graph"
)

func ExampleNew() {
	// Approval flow: start fans out to two reviewers that join at end
	g := &graph.Graph{
		Nodes: []graph.Node{{ID: "start"}, {ID: "legal"}, {ID: "finance"}, {ID: "end"}},
		Edges: []graph.Edge{
			{Source: "start", Target: "legal"},
			{Source: "start", Target: "finance"},
			{Source: "legal", Target: "end"},
			{Source: "finance", Target: "end"},
		},
	}
	ix := dag.New(g)

	s, _ := ix.IndexOf("start")
	e, _ := ix.IndexOf("end")
	fmt.Println("Nodes:", ix.Len())
	fmt.Println("Out-degree of start:", ix.OutDegree(s))
	fmt.Println("In-degree of end:", ix.InDegree(e))
	// Output:
	// Nodes: 4
	// Out-degree of start: 2
	// In-degree of end: 2
}

func ExampleIndex_TopoOrder() {
	g := &graph.Graph{
		Nodes: []graph.Node{{ID: "a"}, {ID: "b"}, {ID: "c"}},
		Edges: []graph.Edge{
			{Source: "b", Target: "c"},
			{Source: "a", Target: "b"},
		},
	}
	ix := dag.New(g)

	order, err := ix.TopoOrder()
	for i, s := range order {
		if i > 0 {
			fmt.Print(" ")
		}
		fmt.Print(ix.ID(s))
	}
	fmt.Println()
	fmt.Println("Error:", err)
	// Output:
	// a b c
	// Error: <nil>
}

func ExampleCountCrossings() {
	// Two parents wired to two children in swapped order cross once
	g := &graph.Graph{
		Nodes: []graph.Node{{ID: "p1"}, {ID: "p2"}, {ID: "c1"}, {ID: "c2"}},
		Edges: []graph.Edge{
			{Source: "p1", Target: "c2"},
			{Source: "p2", Target: "c1"},
		},
	}
	ix := dag.New(g)

	fmt.Println(dag.CountCrossings(ix, [][]int{{0, 1}, {2, 3}}))
	fmt.Println(dag.CountCrossings(ix, [][]int{{0, 1}, {3, 2}}))
	// Output:
	// 1
	// 0
}
