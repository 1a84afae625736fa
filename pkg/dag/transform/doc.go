// Package transform provides layered-drawing passes over a [dag.Index].
//
// # Layer Assignment
//
// [AssignLayers] ranks nodes along [dag.Index.Kahn]: sources sit at layer 0
// and every other node sits one below its deepest parent. Flowcharts often
// loop back (retry, rework), so unlike a strict DAG pass it does not give up
// on cycles. Nodes that never reach zero in-degree are appended as a single
// trailing layer in input order.
//
// # Cycle Detection
//
// [FindBackEdges] performs a white/gray/black depth-first search and reports
// the edges that close a cycle; the analyzer uses them to locate loops.
// [IsAcyclic] asks whether a topological order covers every node and is how
// the analyzer decides whether a graph is a DAG.
//
// [dag.Index]: github.com/matzehuels/flowlayout/pkg/dag.Index
// [dag.Index.Kahn]: github.com/matzehuels/flowlayout/pkg/dag.Index.Kahn
package transform
