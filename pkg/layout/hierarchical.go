package layout

import (
	"context"
	"slices"

	"github.com/matzehuels/flowlayout/pkg/dag"
	"github.com/matzehuels/flowlayout/pkg/dag/transform"
	"github.com/matzehuels/flowlayout/pkg/errors"
	"github.com/matzehuels/flowlayout/pkg/graph"
)

// HierarchicalLayout places nodes in layers (Sugiyama style): Kahn layering,
// barycenter crossing reduction, then centred coordinate assignment.
type HierarchicalLayout struct {
	base
}

// NewHierarchical returns the layered layout.
func NewHierarchical() *HierarchicalLayout {
	return &HierarchicalLayout{base{
		name:        NameHierarchical,
		description: "Layered top-down flow with crossing reduction; suited to process flows and DAGs",
		defaults: Config{
			Algorithm: NameHierarchical,
			Direction: TopBottom,
			NodeSpacing: &Spacing{
				Horizontal: DefaultHorizontalSpacing,
				Vertical:   60,
			},
			LevelSpacing: Float(80),
			Options: Options{
				Hierarchical: &HierarchicalOptions{MaxIterations: MaxCrossingSweeps},
			},
		},
		constraints: true,
	}}
}

// Execute lays out g. Nodes on a cycle share one trailing layer.
func (h *HierarchicalLayout) Execute(ctx context.Context, g *graph.Graph, cfg Config) (map[string]Position, error) {
	ix := dag.New(g)
	layers, _, err := h.order(ctx, ix, cfg.Options.Hierarchical.sweeps())
	if err != nil {
		return nil, err
	}

	s := cfg.Spacing()
	dir := cfg.Dir()
	step := s.Vertical + cfg.Level()

	widest := 0
	for _, l := range layers {
		widest = max(widest, len(l))
	}
	maxWidth := float64(widest-1) * s.Horizontal

	positions := make(map[string]Position, ix.Len())
	for li, l := range layers {
		offset := (maxWidth - float64(len(l)-1)*s.Horizontal) / 2
		y := float64(li) * step
		for i, slot := range l {
			x := offset + float64(i)*s.Horizontal
			positions[ix.ID(slot)] = Apply(dir, x, y)
		}
	}
	return positions, nil
}

// Layers returns node ids per layer after crossing reduction with the
// default sweep count.
func (h *HierarchicalLayout) Layers(g *graph.Graph) [][]string {
	ix := dag.New(g)
	layers, _, _ := h.order(context.Background(), ix, MaxCrossingSweeps)
	out := make([][]string, len(layers))
	for i, l := range layers {
		out[i] = make([]string, len(l))
		for j, s := range l {
			out[i][j] = ix.ID(s)
		}
	}
	return out
}

// order assigns layers and runs up to sweeps down+up barycenter passes. It
// stops once an ordering without crossings is found or a pass changes
// nothing, and returns the ordering with the fewest crossings seen along
// with the number of passes run.
func (h *HierarchicalLayout) order(ctx context.Context, ix *dag.Index, sweeps int) ([][]int, int, error) {
	layers := transform.AssignLayers(ix).Layers

	best := cloneLayers(layers)
	bestCrossings := dag.CountCrossings(ix, layers)

	ran := 0
	for range sweeps {
		if err := errors.Canceled(ctx); err != nil {
			return nil, ran, err
		}
		if bestCrossings == 0 {
			break
		}
		ran++

		changed := false
		for i := 1; i < len(layers); i++ {
			changed = reorder(ix, layers[i], layers[i-1]) || changed
		}
		for i := len(layers) - 2; i >= 0; i-- {
			changed = reorder(ix, layers[i], layers[i+1]) || changed
		}
		if !changed {
			break
		}

		if c := dag.CountCrossings(ix, layers); c < bestCrossings {
			best, bestCrossings = cloneLayers(layers), c
		}
	}
	return best, ran, nil
}

// reorder sorts layer in place by the barycenter of each node's neighbours
// in adj. A node without neighbours in adj keeps its current index as its
// barycenter. It reports whether the order changed.
func reorder(ix *dag.Index, layer, adj []int) bool {
	if len(layer) < 2 {
		return false
	}
	adjPos := dag.PosMap(adj)

	type keyed struct {
		slot int
		bary float64
	}
	keys := make([]keyed, len(layer))
	for i, s := range layer {
		sum, n := 0.0, 0
		for _, nb := range ix.Neighbors(s) {
			if p, ok := adjPos[nb]; ok {
				sum += float64(p)
				n++
			}
		}
		bary := float64(i)
		if n > 0 {
			bary = sum / float64(n)
		}
		keys[i] = keyed{slot: s, bary: bary}
	}

	slices.SortStableFunc(keys, func(a, b keyed) int {
		switch {
		case a.bary < b.bary:
			return -1
		case a.bary > b.bary:
			return 1
		default:
			return 0
		}
	})

	changed := false
	for i, k := range keys {
		if layer[i] != k.slot {
			layer[i] = k.slot
			changed = true
		}
	}
	return changed
}

func cloneLayers(layers [][]int) [][]int {
	out := make([][]int, len(layers))
	for i, l := range layers {
		out[i] = slices.Clone(l)
	}
	return out
}
