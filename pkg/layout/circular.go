package layout

import (
	"cmp"
	"context"
	"fmt"
	"math"
	"slices"
	"strconv"

	"github.com/matzehuels/flowlayout/pkg/dag"
	"github.com/matzehuels/flowlayout/pkg/errors"
	"github.com/matzehuels/flowlayout/pkg/graph"
)

// Weight bounds for unequal angular spacing.
const (
	minWeight = 0.5
	maxWeight = 2.0
)

// CircularLayout places nodes on one circle, or on concentric circles when
// grouping splits them.
type CircularLayout struct {
	base
}

// NewCircular returns the circular layout.
func NewCircular() *CircularLayout {
	return &CircularLayout{base{
		name:        NameCircular,
		description: "Nodes on a ring or concentric rings; suited to loops and small cyclic flows",
		defaults: Config{
			Algorithm: NameCircular,
			Options: Options{
				Circular: &CircularOptions{
					Radius:       Float(DefaultRadius),
					StartAngle:   Float(DefaultStartAngle),
					EqualSpacing: Bool(true),
					Grouping:     GroupNone,
					Sort:         SortNone,
					MinRadius:    Float(DefaultMinRadius),
					MaxRadius:    Float(DefaultMaxRadius),
				},
			},
		},
		constraints: false,
		check: func(cfg Config) error {
			o := cfg.Options.Circular.resolved()
			if *o.MaxRadius < *o.MinRadius {
				return errors.New(errors.ErrCodeInvalidConfig,
					"algorithmConfig.circular.maxRadius (%v) must not be below minRadius (%v)", *o.MaxRadius, *o.MinRadius)
			}
			return nil
		},
	}}
}

// Execute lays out g. Direction is ignored.
func (c *CircularLayout) Execute(ctx context.Context, g *graph.Graph, cfg Config) (map[string]Position, error) {
	o := cfg.Options.Circular.resolved()
	ix := dag.New(g)

	groups := groupSlots(ix, o.Grouping, o.GroupAttribute)
	positions := make(map[string]Position, ix.Len())

	for gi, members := range groups {
		if err := errors.Canceled(ctx); err != nil {
			return nil, err
		}
		sortSlots(ix, members, o.Sort, o.CustomOrder)

		radius := *o.Radius
		if len(groups) > 1 {
			radius = *o.MinRadius + (*o.MaxRadius-*o.MinRadius)*float64(gi)/float64(len(groups)-1)
		}

		angles := ringAngles(ix, members, *o.StartAngle, *o.EqualSpacing, o.WeightAttribute)
		for i, s := range members {
			theta := angles[i] * math.Pi / 180
			positions[ix.ID(s)] = Position{
				X: o.Center.X + radius*math.Cos(theta),
				Y: o.Center.Y + radius*math.Sin(theta),
			}
		}
	}
	return positions, nil
}

// ringAngles returns the angle in degrees for each member. With equal
// spacing member i sits at start + i*360/n; otherwise each member's arc is
// proportional to its weight clamped into [0.5, 2].
func ringAngles(ix *dag.Index, members []int, start float64, equal bool, weightAttr string) []float64 {
	n := len(members)
	angles := make([]float64, n)
	if equal || weightAttr == "" {
		for i := range members {
			angles[i] = start + float64(i)*360/float64(n)
		}
		return angles
	}

	weights := make([]float64, n)
	total := 0.0
	for i, s := range members {
		w := 1.0
		if v, ok := ix.Node(s).Property(weightAttr); ok {
			if f, ok := toFloat(v); ok {
				w = f
			}
		}
		weights[i] = min(max(w, minWeight), maxWeight)
		total += weights[i]
	}

	acc := start
	for i, w := range weights {
		angles[i] = acc
		acc += 360 * w / total
	}
	return angles
}

// groupSlots partitions slots by grouping key. Groups are ordered by key and
// keep slot order inside.
func groupSlots(ix *dag.Index, mode, attr string) [][]int {
	all := make([]int, ix.Len())
	for i := range all {
		all[i] = i
	}
	if mode == "" || mode == GroupNone {
		return [][]int{all}
	}

	byKey := map[string][]int{}
	for _, s := range all {
		k := groupKey(ix.Node(s), mode, attr)
		byKey[k] = append(byKey[k], s)
	}
	keys := make([]string, 0, len(byKey))
	for k := range byKey {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	groups := make([][]int, len(keys))
	for i, k := range keys {
		groups[i] = byKey[k]
	}
	return groups
}

func groupKey(n *graph.Node, mode, attr string) string {
	switch mode {
	case GroupType:
		return n.TypeOrUnknown()
	case GroupAttribute:
		if v, ok := n.Property(attr); ok {
			return fmt.Sprint(v)
		}
	}
	return ""
}

// sortSlots orders members in place. Every mode is stable so ties keep
// input order.
func sortSlots(ix *dag.Index, members []int, mode string, custom []string) {
	switch mode {
	case SortType:
		slices.SortStableFunc(members, func(a, b int) int {
			return cmp.Compare(ix.Node(a).TypeOrUnknown(), ix.Node(b).TypeOrUnknown())
		})
	case SortName:
		slices.SortStableFunc(members, func(a, b int) int {
			return cmp.Compare(ix.Node(a).DisplayLabel(), ix.Node(b).DisplayLabel())
		})
	case SortDegree:
		slices.SortStableFunc(members, func(a, b int) int {
			da := ix.InDegree(a) + ix.OutDegree(a)
			db := ix.InDegree(b) + ix.OutDegree(b)
			return cmp.Compare(db, da)
		})
	case SortCustom:
		rank := make(map[string]int, len(custom))
		for i, id := range custom {
			if _, ok := rank[id]; !ok {
				rank[id] = i
			}
		}
		pos := func(s int) int {
			if r, ok := rank[ix.ID(s)]; ok {
				return r
			}
			return len(custom)
		}
		slices.SortStableFunc(members, func(a, b int) int {
			return cmp.Compare(pos(a), pos(b))
		})
	}
}

// toFloat reads a numeric property decoded from JSON, YAML or set in code.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	default:
		return 0, false
	}
}
