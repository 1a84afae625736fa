package nodelink

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/flowlayout/pkg/graph"
	"github.com/matzehuels/flowlayout/pkg/layout"
)

func flow() (*graph.Graph, *layout.Result) {
	g := &graph.Graph{
		Nodes: []graph.Node{
			{ID: "start", Type: "start", Text: "Begin"},
			{ID: "check", Type: "decision", Properties: map[string]any{"owner": "ops"}},
			{ID: "done", Type: "task"},
		},
		Edges: []graph.Edge{
			{Source: "start", Target: "check"},
			{Source: "check", Target: "done", Text: "yes"},
			{Source: "check", Target: "ghost"},
		},
	}
	r := &layout.Result{NodePositions: map[string]layout.Position{
		"start": {X: 100, Y: 0},
		"check": {X: 100, Y: 80.5},
		"done":  {X: 100, Y: 160},
	}}
	return g, r
}

func TestToDOT(t *testing.T) {
	g, r := flow()
	dot := ToDOT(g, r, Options{})

	for _, want := range []string{
		"layout=neato;",
		`"start" [label="Begin", pos="100.00,0.00!", shape=ellipse, style=filled];`,
		`"check" [label="check", pos="100.00,-80.50!", shape=diamond, style=filled];`,
		`"done" [label="done", pos="100.00,-160.00!"];`,
		`"start" -> "check";`,
		`"check" -> "done" [label="yes"];`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
	if strings.Contains(dot, "ghost") {
		t.Errorf("dangling edge should be omitted:\n%s", dot)
	}
}

func TestToDOT_SkipsUnplacedNodes(t *testing.T) {
	g, r := flow()
	delete(r.NodePositions, "done")
	dot := ToDOT(g, r, Options{})
	if strings.Contains(dot, `"done"`) {
		t.Errorf("unplaced node should be omitted:\n%s", dot)
	}
}

func TestToDOT_Detailed(t *testing.T) {
	g, r := flow()
	dot := ToDOT(g, r, Options{Detailed: true})
	if !strings.Contains(dot, `label="check\ntype: decision\nowner: ops"`) {
		t.Errorf("detailed label missing:\n%s", dot)
	}
}

func TestRenderSVG(t *testing.T) {
	g, r := flow()
	svg, err := RenderSVG(context.Background(), ToDOT(g, r, Options{}))
	if err != nil {
		t.Fatalf("RenderSVG: %v", err)
	}
	s := string(svg)
	if !strings.Contains(s, "<svg") || !strings.Contains(s, "Begin") {
		t.Errorf("unexpected SVG output: %.200s", s)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="10pt" height="20pt" viewBox="0.00 0.00 10.00 20.00"><g/></svg>`)
	got := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10.00 20.00" width="10" height="20"><g/></svg>`
	if got != want {
		t.Errorf("normalizeViewBox() = %q, want %q", got, want)
	}
	if plain := []byte("<svg></svg>"); string(normalizeViewBox(plain)) != "<svg></svg>" {
		t.Error("svg without viewBox should be unchanged")
	}
}
