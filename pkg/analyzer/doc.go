// Package analyzer classifies the structure of a flowchart graph.
//
// [Analyze] reports counts, tree and hierarchy classification, cycle
// detection, depth, branching, component counts, a preferred layout
// direction and a [0, 1] complexity score. The engine uses the report to
// rank layout algorithms; the CLI and HTTP API expose it directly.
//
// # Limitations
//
// Longest path, max width and critical paths come from forward Kahn
// relaxation and skip nodes that sit on or behind a cycle. ConnectedComponents
// follows forward edges only; Topology.WeakComponents is the
// direction-blind count.
package analyzer
