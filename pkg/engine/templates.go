package engine

import (
	"github.com/matzehuels/flowlayout/pkg/errors"
	"github.com/matzehuels/flowlayout/pkg/layout"
)

// Template is a named preset config.
type Template struct {
	Name        string        `json:"name" yaml:"name"`
	Description string        `json:"description" yaml:"description"`
	Config      layout.Config `json:"config" yaml:"config"`
}

// BuiltinTemplates returns the presets every engine starts with.
func BuiltinTemplates() []Template {
	return []Template{
		{
			Name:        "hierarchical-top-down",
			Description: "Layered flow from top to bottom",
			Config: layout.Config{
				Algorithm:    layout.NameHierarchical,
				Direction:    layout.TopBottom,
				NodeSpacing:  &layout.Spacing{Horizontal: 100, Vertical: 60},
				LevelSpacing: layout.Float(80),
			},
		},
		{
			Name:        "hierarchical-left-right",
			Description: "Layered flow from left to right",
			Config: layout.Config{
				Algorithm:    layout.NameHierarchical,
				Direction:    layout.LeftRight,
				NodeSpacing:  &layout.Spacing{Horizontal: 80, Vertical: 120},
				LevelSpacing: layout.Float(100),
			},
		},
		{
			Name:        "tree-compact",
			Description: "Tidy tree with tight subtrees",
			Config: layout.Config{
				Algorithm:    layout.NameTree,
				Direction:    layout.TopBottom,
				NodeSpacing:  &layout.Spacing{Horizontal: 60, Vertical: 60},
				LevelSpacing: layout.Float(30),
				Options: layout.Options{
					Tree: &layout.TreeOptions{SubtreeSpacing: layout.Float(10), Alignment: layout.AlignCenter},
				},
			},
		},
		{
			Name:        "circular-radial",
			Description: "Nodes on concentric rings grouped by type",
			Config: layout.Config{
				Algorithm: layout.NameCircular,
				Options: layout.Options{
					Circular: &layout.CircularOptions{
						Radius:    layout.Float(250),
						Grouping:  layout.GroupType,
						Sort:      layout.SortName,
						MinRadius: layout.Float(120),
						MaxRadius: layout.Float(360),
					},
				},
			},
		},
		{
			Name:        "grid-matrix",
			Description: "Square matrix sorted by node type",
			Config: layout.Config{
				Algorithm: layout.NameGrid,
				Options: layout.Options{
					Grid: &layout.GridOptions{FillOrder: layout.RowMajor, Alignment: layout.AlignCenter, Sort: layout.SortType},
				},
			},
		},
		{
			Name:        "organic-natural",
			Description: "Force-directed placement for dense networks",
			Config: layout.Config{
				Algorithm: layout.NameForce,
				Options: layout.Options{
					Force: &layout.ForceOptions{Iterations: 300, Width: 1000, Height: 800, Padding: 60},
				},
			},
		},
	}
}

// templateSet keeps templates in registration order. A later template with
// the same name replaces the earlier one in place.
type templateSet struct {
	order []string
	byKey map[string]Template
}

func newTemplateSet() *templateSet {
	return &templateSet{byKey: make(map[string]Template)}
}

func (ts *templateSet) add(t Template) {
	if _, ok := ts.byKey[t.Name]; !ok {
		ts.order = append(ts.order, t.Name)
	}
	ts.byKey[t.Name] = t
}

func (ts *templateSet) get(name string) (Template, error) {
	t, ok := ts.byKey[name]
	if !ok {
		return Template{}, errors.New(errors.ErrCodeTemplateNotFound, "unknown layout template %q", name)
	}
	return t, nil
}

func (ts *templateSet) list() []Template {
	out := make([]Template, len(ts.order))
	for i, name := range ts.order {
		out[i] = ts.byKey[name]
	}
	return out
}
