// Package render turns computed layouts into pictures.
//
// The [nodelink] subpackage writes Graphviz DOT with pinned node positions
// and renders it to SVG:
//
//	dot := nodelink.ToDOT(g, result, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// [nodelink]: github.com/matzehuels/flowlayout/pkg/render/nodelink
package render
