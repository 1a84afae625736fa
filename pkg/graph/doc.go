// Package graph provides the flowchart graph model consumed by every layout
// and analysis operation.
//
// This package defines the canonical wire format for flowchart data handed
// over by an editor: the nodes and directed edges whose positions the engine
// computes. It is read-only input; nothing in flowlayout mutates a [Graph]
// after it has been built.
//
// # Core Types
//
//   - [Graph]: Node-link container
//   - [Node]: A flowchart shape with an id, a type tag and display hints
//   - [Edge]: A directed connection between two node ids
//
// # Serialization
//
// Graphs use the editor's node-link JSON format:
//
//	{
//	  "nodes": [{"id": "start", "type": "start"}, {"id": "review", "type": "approval"}],
//	  "edges": [{"id": "e1", "sourceNodeId": "start", "targetNodeId": "review"}]
//	}
//
// Common operations:
//
//	g, _ := graph.ReadGraphFile("flow.json")  // File → Graph
//	graph.WriteGraphFile(g, "output.json")    // Graph → File
//	data, _ := graph.MarshalGraph(g)          // Graph → []byte
//	parsed, _ := graph.UnmarshalGraph(data)   // []byte → Graph
//
// # Structural Anomalies
//
// Edges may reference node ids that are not present ("dangling" edges) and
// node ids may repeat. Neither is an error at this layer: consumers drop
// dangling edges from adjacency and resolve duplicate ids last-write-wins.
//
// # Concurrency
//
// All functions are safe for concurrent reads but not concurrent writes.
package graph
