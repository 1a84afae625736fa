package graph

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func approvalFlow() Graph {
	return Graph{
		Nodes: []Node{
			{ID: "start", Type: "start"},
			{ID: "review", Type: "approval", Text: "Manager review"},
			{ID: "end", Type: "end"},
			{ID: "note"},
		},
		Edges: []Edge{
			{ID: "e1", Source: "start", Target: "review"},
			{ID: "e2", Source: "review", Target: "end"},
			{ID: "e3", Source: "review", Target: "ghost"},
		},
	}
}

func TestGraphQueries(t *testing.T) {
	g := approvalFlow()

	if g.NodeCount() != 4 {
		t.Errorf("NodeCount() = %d, want 4", g.NodeCount())
	}
	if g.EdgeCount() != 3 {
		t.Errorf("EdgeCount() = %d, want 3", g.EdgeCount())
	}
	if !g.HasNode("review") || g.HasNode("ghost") {
		t.Error("HasNode returned wrong membership")
	}

	n, ok := g.Node("note")
	if !ok {
		t.Fatal("Node(note) not found")
	}
	if n.TypeOrUnknown() != UnknownType {
		t.Errorf("TypeOrUnknown() = %q, want %q", n.TypeOrUnknown(), UnknownType)
	}
	if n.DisplayLabel() != "note" {
		t.Errorf("DisplayLabel() = %q, want note", n.DisplayLabel())
	}

	dangling := g.DanglingEdges()
	if len(dangling) != 1 || dangling[0].ID != "e3" {
		t.Errorf("DanglingEdges() = %v, want [e3]", dangling)
	}
}

func TestNodeIDsDeduplicates(t *testing.T) {
	g := Graph{Nodes: []Node{{ID: "a"}, {ID: "b", Text: "first"}, {ID: "a"}, {ID: "b", Text: "second"}}}

	ids := g.NodeIDs()
	if strings.Join(ids, ",") != "a,b" {
		t.Errorf("NodeIDs() = %v, want [a b]", ids)
	}

	n, _ := g.Node("b")
	if n.Text != "second" {
		t.Errorf("Node(b).Text = %q, want last write to win", n.Text)
	}
}

func TestEdgeKey(t *testing.T) {
	withID := Edge{ID: "e1", Source: "a", Target: "b"}
	withoutID := Edge{Source: "a", Target: "b"}

	if withID.Key() != "e1" {
		t.Errorf("Key() = %q, want e1", withID.Key())
	}
	if withoutID.Key() != "a->b" {
		t.Errorf("Key() = %q, want a->b", withoutID.Key())
	}
}

func TestHashIsContentAddressed(t *testing.T) {
	a := approvalFlow()
	b := approvalFlow()
	if a.Hash() != b.Hash() {
		t.Error("identical graphs should hash identically")
	}

	b.Edges = b.Edges[:2]
	if a.Hash() == b.Hash() {
		t.Error("different graphs should hash differently")
	}
	if len(a.Hash()) != 64 {
		t.Errorf("Hash() length = %d, want 64", len(a.Hash()))
	}
}

func TestDecodeFieldNames(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		input  string
	}{
		{"json", FormatJSON, `{
			"nodes": [{"id": "a", "type": "process", "x": 10, "y": 20, "properties": {"lane": "ops"}}],
			"edges": [{"id": "e", "sourceNodeId": "a", "targetNodeId": "b"}]
		}`},
		{"yaml", FormatYAML, `
nodes:
  - id: a
    type: process
    x: 10
    y: 20
    properties:
      lane: ops
edges:
  - id: e
    sourceNodeId: a
    targetNodeId: b
`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := Decode(strings.NewReader(tt.input), tt.format)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if g.Nodes[0].X != 10 || g.Nodes[0].Y != 20 {
				t.Errorf("position hint = (%v, %v), want (10, 20)", g.Nodes[0].X, g.Nodes[0].Y)
			}
			if v, ok := g.Nodes[0].Property("lane"); !ok || v != "ops" {
				t.Errorf("Property(lane) = %v, %v", v, ok)
			}
			if g.Edges[0].Source != "a" || g.Edges[0].Target != "b" {
				t.Errorf("edge = %+v", g.Edges[0])
			}
		})
	}
}

func TestDecodeInvalid(t *testing.T) {
	if _, err := Decode(strings.NewReader("{not json"), FormatJSON); err == nil {
		t.Error("expected JSON decode error")
	}
	if _, err := Decode(strings.NewReader("nodes: [unclosed"), FormatYAML); err == nil {
		t.Error("expected YAML decode error")
	}
	if _, err := Decode(strings.NewReader("{}"), Format("xml")); err == nil {
		t.Error("expected unsupported format error")
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestFormatForPath(t *testing.T) {
	tests := map[string]Format{
		"flow.json": FormatJSON,
		"flow.yaml": FormatYAML,
		"FLOW.YML":  FormatYAML,
		"flow":      FormatJSON,
	}
	for path, want := range tests {
		if got := FormatForPath(path); got != want {
			t.Errorf("FormatForPath(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestEncodeLoadRoundTrip(t *testing.T) {
	g := approvalFlow()
	for _, name := range []string{"flow.json", "flow.yaml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			f, err := os.Create(path)
			if err != nil {
				t.Fatal(err)
			}
			if err := Encode(f, &g, FormatForPath(path)); err != nil {
				t.Fatalf("Encode: %v", err)
			}
			f.Close()

			got, err := Load(path)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if got.Hash() != g.Hash() {
				t.Error("round trip changed graph content")
			}
		})
	}
}

func TestEncodeJSONIndented(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, &Graph{Nodes: []Node{{ID: "a"}}}, FormatJSON); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !strings.Contains(buf.String(), "\n  \"nodes\"") {
		t.Errorf("expected indented output, got %s", buf.String())
	}
}
