// Package nodelink renders laid-out flowcharts as node-link diagrams.
//
// # Overview
//
// Layout algorithms produce coordinates only. This package turns a graph and
// a [layout.Result] into Graphviz DOT with every node pinned in place, and
// renders that DOT to SVG in-process. Graphviz routes the edges; it never
// moves a node.
//
// # Usage
//
//	dot := nodelink.ToDOT(g, result, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # Node Shapes
//
// Node types "start" and "end" are drawn as ellipses, "decision" and
// "condition" as diamonds, "input" and "output" as parallelograms. Anything
// else is a rounded box.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering with the neato engine.
package nodelink
