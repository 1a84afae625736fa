package graph

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// UnknownType is the bucket used for nodes without a type tag.
const UnknownType = "unknown"

// =============================================================================
// Graph - Flowchart Graph Model
// =============================================================================

// Graph is the node-link model of a flowchart.
// Used for API requests, CLI input files, and cache keys.
type Graph struct {
	Nodes []Node `json:"nodes" yaml:"nodes"`
	Edges []Edge `json:"edges" yaml:"edges"`
}

// =============================================================================
// Node
// =============================================================================

// Node is a single flowchart shape. X and Y are display hints carried over
// from the editor; layouts never read them as input.
type Node struct {
	ID         string         `json:"id" yaml:"id"`
	Type       string         `json:"type,omitempty" yaml:"type,omitempty"`
	X          float64        `json:"x,omitempty" yaml:"x,omitempty"`
	Y          float64        `json:"y,omitempty" yaml:"y,omitempty"`
	Text       string         `json:"text,omitempty" yaml:"text,omitempty"`
	Properties map[string]any `json:"properties,omitempty" yaml:"properties,omitempty"`
}

// TypeOrUnknown returns the node's type tag, or [UnknownType] if unset.
func (n *Node) TypeOrUnknown() string {
	if n.Type == "" {
		return UnknownType
	}
	return n.Type
}

// DisplayLabel returns the text if set, otherwise the ID.
func (n *Node) DisplayLabel() string {
	if n.Text != "" {
		return n.Text
	}
	return n.ID
}

// Property returns a property value and whether it is set.
func (n *Node) Property(key string) (any, bool) {
	if n.Properties == nil {
		return nil, false
	}
	v, ok := n.Properties[key]
	return v, ok
}

// =============================================================================
// Edge
// =============================================================================

// Edge is a directed connection between two nodes. Source or Target may name
// a node that does not exist in the graph.
type Edge struct {
	ID         string         `json:"id,omitempty" yaml:"id,omitempty"`
	Type       string         `json:"type,omitempty" yaml:"type,omitempty"`
	Source     string         `json:"sourceNodeId" yaml:"sourceNodeId"`
	Target     string         `json:"targetNodeId" yaml:"targetNodeId"`
	Text       string         `json:"text,omitempty" yaml:"text,omitempty"`
	Properties map[string]any `json:"properties,omitempty" yaml:"properties,omitempty"`
}

// Key returns the edge ID, or "source->target" for edges without one.
func (e *Edge) Key() string {
	if e.ID != "" {
		return e.ID
	}
	return e.Source + "->" + e.Target
}

// =============================================================================
// Queries
// =============================================================================

// NodeCount returns the number of node entries, duplicates included.
func (g *Graph) NodeCount() int { return len(g.Nodes) }

// EdgeCount returns the number of edge entries, dangling edges included.
func (g *Graph) EdgeCount() int { return len(g.Edges) }

// NodeIDs returns the distinct node ids in first-seen order.
func (g *Graph) NodeIDs() []string {
	seen := make(map[string]bool, len(g.Nodes))
	ids := make([]string, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		if seen[n.ID] {
			continue
		}
		seen[n.ID] = true
		ids = append(ids, n.ID)
	}
	return ids
}

// Node returns the node with the given id. When ids repeat, the last entry
// wins. The returned pointer aliases the graph and must not be modified.
func (g *Graph) Node(id string) (*Node, bool) {
	for i := len(g.Nodes) - 1; i >= 0; i-- {
		if g.Nodes[i].ID == id {
			return &g.Nodes[i], true
		}
	}
	return nil, false
}

// HasNode reports whether any node carries the given id.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.Node(id)
	return ok
}

// DanglingEdges returns the edges whose source or target is not a node.
func (g *Graph) DanglingEdges() []Edge {
	ids := make(map[string]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		ids[n.ID] = true
	}
	var out []Edge
	for _, e := range g.Edges {
		if !ids[e.Source] || !ids[e.Target] {
			out = append(out, e)
		}
	}
	return out
}

// Hash returns a SHA-256 content hash of the graph's canonical JSON.
// Callers use it to cache analyses and layouts per graph snapshot.
func (g *Graph) Hash() string {
	data, _ := json.Marshal(g)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
