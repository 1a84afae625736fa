package graph_test

import (
	"fmt"
	"os"
	"strings"

	"github.com/matzehuels/flowlayout/pkg/graph"
)

func ExampleEncode() {
	g := &graph.Graph{
		Nodes: []graph.Node{{ID: "start", Type: "start"}, {ID: "end", Type: "end"}},
		Edges: []graph.Edge{{ID: "e1", Source: "start", Target: "end"}},
	}

	if err := graph.Encode(os.Stdout, g, graph.FormatYAML); err != nil {
		fmt.Println("Error:", err)
	}
	// Output:
	// nodes:
	//   - id: start
	//     type: start
	//   - id: end
	//     type: end
	// edges:
	//   - id: e1
	//     sourceNodeId: start
	//     targetNodeId: end
}

func ExampleDecode() {
	jsonData := `{
		"nodes": [{"id": "a"}, {"id": "b"}],
		"edges": [{"sourceNodeId": "a", "targetNodeId": "b"}, {"sourceNodeId": "b", "targetNodeId": "missing"}]
	}`

	g, err := graph.Decode(strings.NewReader(jsonData), graph.FormatJSON)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	fmt.Println("Nodes:", g.NodeCount())
	fmt.Println("Edges:", g.EdgeCount())
	fmt.Println("Dangling:", len(g.DanglingEdges()))
	// Output:
	// Nodes: 2
	// Edges: 2
	// Dangling: 1
}
