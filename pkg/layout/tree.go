package layout

import (
	"context"

	"github.com/matzehuels/flowlayout/pkg/dag"
	"github.com/matzehuels/flowlayout/pkg/errors"
	"github.com/matzehuels/flowlayout/pkg/graph"
)

// TreeLayout is a tidy-tree layout: subtree widths are computed bottom-up and
// children are packed left to right under their parent.
type TreeLayout struct {
	base
}

// NewTree returns the tree layout.
func NewTree() *TreeLayout {
	return &TreeLayout{base{
		name:        NameTree,
		description: "Compact parent-child tree; suited to org charts and decision trees",
		defaults: Config{
			Algorithm: NameTree,
			Direction: TopBottom,
			NodeSpacing: &Spacing{
				Horizontal: 80,
				Vertical:   DefaultVerticalSpacing,
			},
			LevelSpacing: Float(40),
			Options: Options{
				Tree: &TreeOptions{SubtreeSpacing: Float(DefaultSubtreeSpacing), Alignment: AlignCenter},
			},
		},
		constraints: false,
	}}
}

// treeNode is one arena slot. Its index matches the dag.Index slot of the
// graph node it represents.
type treeNode struct {
	children []int
	width    float64
	x        float64
	depth    int
}

// Execute lays out g as a forest. Each root claims the unvisited nodes it can
// reach breadth-first; nodes no root reaches (cycles without an entry) seed
// extra trees in input order, so every node is placed.
func (t *TreeLayout) Execute(ctx context.Context, g *graph.Graph, cfg Config) (map[string]Position, error) {
	opts := cfg.Options.Tree.resolved()
	ix := dag.New(g)

	roots := ix.Sources()
	if opts.RootID != "" {
		r, ok := ix.IndexOf(opts.RootID)
		if !ok {
			return nil, errors.New(errors.ErrCodeNotFound, "tree root %q is not a node of the graph", opts.RootID)
		}
		roots = []int{r}
	}

	arena := make([]treeNode, ix.Len())
	claimed := make([]bool, ix.Len())
	var forest []int

	grow := func(root int) {
		claimed[root] = true
		forest = append(forest, root)
		queue := []int{root}
		for len(queue) > 0 {
			curr := queue[0]
			queue = queue[1:]
			for _, child := range ix.Children(curr) {
				if claimed[child] {
					continue
				}
				claimed[child] = true
				arena[child].depth = arena[curr].depth + 1
				arena[curr].children = append(arena[curr].children, child)
				queue = append(queue, child)
			}
		}
	}

	for _, r := range roots {
		if !claimed[r] {
			grow(r)
		}
	}
	for s := range ix.Len() {
		if !claimed[s] {
			grow(s)
		}
	}

	if err := errors.Canceled(ctx); err != nil {
		return nil, err
	}

	s := cfg.Spacing()
	gap := *opts.SubtreeSpacing

	var measure func(n int) float64
	measure = func(n int) float64 {
		node := &arena[n]
		if len(node.children) == 0 {
			node.width = s.Horizontal
			return node.width
		}
		sum := 0.0
		for _, c := range node.children {
			sum += measure(c)
		}
		node.width = max(sum+float64(len(node.children)-1)*gap, s.Horizontal)
		return node.width
	}

	var place func(n int, x float64)
	place = func(n int, x float64) {
		node := &arena[n]
		node.x = x
		if len(node.children) == 0 {
			return
		}
		cursor := x - node.width/2
		for _, c := range node.children {
			w := arena[c].width
			place(c, cursor+w/2)
			cursor += w + gap
		}
		if opts.Alignment == AlignCenter {
			first := arena[node.children[0]].x
			last := arena[node.children[len(node.children)-1]].x
			node.x = (first + last) / 2
		}
	}

	offset := 0.0
	for _, root := range forest {
		w := measure(root)
		place(root, offset+w/2)
		offset += w + 2*s.Horizontal
	}

	dir := cfg.Dir()
	step := s.Vertical + cfg.Level()
	positions := make(map[string]Position, ix.Len())
	for i := range arena {
		positions[ix.ID(i)] = Apply(dir, arena[i].x, float64(arena[i].depth)*step)
	}
	return positions, nil
}
