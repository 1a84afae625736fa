package layout

import (
	"math"
	"time"
)

// AlgorithmName identifies a registered layout algorithm.
type AlgorithmName string

const (
	NameHierarchical AlgorithmName = "hierarchical"
	NameTree         AlgorithmName = "tree"
	NameCircular     AlgorithmName = "circular"
	NameGrid         AlgorithmName = "grid"
	NameForce        AlgorithmName = "force"
)

// Direction is the flow direction of layered layouts.
type Direction string

const (
	TopBottom Direction = "TB"
	BottomTop Direction = "BT"
	LeftRight Direction = "LR"
	RightLeft Direction = "RL"
)

// Position is a node centre in layout coordinates.
type Position struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Spacing is the distance between neighbouring nodes along each axis.
type Spacing struct {
	Horizontal float64 `json:"horizontal" yaml:"horizontal" validate:"gte=0"`
	Vertical   float64 `json:"vertical" yaml:"vertical" validate:"gte=0"`
}

// =============================================================================
// Config
// =============================================================================

// Config selects an algorithm and its parameters. Unset pointer fields fall
// back to the algorithm defaults and then to [GlobalDefaults] when merged.
type Config struct {
	Algorithm    AlgorithmName `json:"algorithm" yaml:"algorithm" validate:"required,max=64"`
	Direction    Direction     `json:"direction,omitempty" yaml:"direction,omitempty" validate:"omitempty,oneof=TB BT LR RL"`
	NodeSpacing  *Spacing      `json:"nodeSpacing,omitempty" yaml:"nodeSpacing,omitempty"`
	LevelSpacing *float64      `json:"levelSpacing,omitempty" yaml:"levelSpacing,omitempty" validate:"omitempty,gte=0"`
	Animated     bool          `json:"animated,omitempty" yaml:"animated,omitempty"`
	EdgePaths    bool          `json:"edgePaths,omitempty" yaml:"edgePaths,omitempty"`
	Options      Options       `json:"algorithmConfig" yaml:"algorithmConfig"`
}

// Options holds the per-algorithm settings. Only the entry matching
// Config.Algorithm is read.
type Options struct {
	Hierarchical *HierarchicalOptions `json:"hierarchical,omitempty" yaml:"hierarchical,omitempty"`
	Tree         *TreeOptions         `json:"tree,omitempty" yaml:"tree,omitempty"`
	Circular     *CircularOptions     `json:"circular,omitempty" yaml:"circular,omitempty"`
	Grid         *GridOptions         `json:"grid,omitempty" yaml:"grid,omitempty"`
	Force        *ForceOptions        `json:"force,omitempty" yaml:"force,omitempty"`
}

// Default spacing applied when neither caller nor algorithm sets one.
const (
	DefaultHorizontalSpacing = 100.0
	DefaultVerticalSpacing   = 80.0
	DefaultLevelSpacing      = 50.0
)

// GlobalDefaults returns the lowest-precedence configuration layer.
func GlobalDefaults() Config {
	return Config{
		Direction:    TopBottom,
		NodeSpacing:  &Spacing{Horizontal: DefaultHorizontalSpacing, Vertical: DefaultVerticalSpacing},
		LevelSpacing: Float(DefaultLevelSpacing),
	}
}

// Spacing returns the node spacing, or the default when unset.
func (c Config) Spacing() Spacing {
	if c.NodeSpacing == nil {
		return Spacing{Horizontal: DefaultHorizontalSpacing, Vertical: DefaultVerticalSpacing}
	}
	return *c.NodeSpacing
}

// Level returns the level spacing, or the default when unset.
func (c Config) Level() float64 {
	if c.LevelSpacing == nil {
		return DefaultLevelSpacing
	}
	return *c.LevelSpacing
}

// Dir returns the direction, or TB when unset.
func (c Config) Dir() Direction {
	if c.Direction == "" {
		return TopBottom
	}
	return c.Direction
}

// Merge layers configurations: for each field the first config that sets it
// wins. Callers pass them in precedence order, typically
// Merge(caller, algorithm.DefaultConfig(), GlobalDefaults()).
//
// Option structs are taken whole from the first layer that provides them.
// Pointer values are copied so the result shares no memory with its inputs.
func Merge(layers ...Config) Config {
	var out Config
	for i := len(layers) - 1; i >= 0; i-- {
		l := layers[i]
		if l.Algorithm != "" {
			out.Algorithm = l.Algorithm
		}
		if l.Direction != "" {
			out.Direction = l.Direction
		}
		if l.NodeSpacing != nil {
			s := *l.NodeSpacing
			out.NodeSpacing = &s
		}
		if l.LevelSpacing != nil {
			out.LevelSpacing = Float(*l.LevelSpacing)
		}
		out.Animated = out.Animated || l.Animated
		out.EdgePaths = out.EdgePaths || l.EdgePaths
		out.Options = mergeOptions(l.Options, out.Options)
	}
	return out
}

func mergeOptions(over, under Options) Options {
	if over.Hierarchical != nil {
		v := *over.Hierarchical
		under.Hierarchical = &v
	}
	if over.Tree != nil {
		v := *over.Tree
		under.Tree = &v
	}
	if over.Circular != nil {
		v := over.Circular.clone()
		under.Circular = &v
	}
	if over.Grid != nil {
		v := *over.Grid
		under.Grid = &v
	}
	if over.Force != nil {
		v := *over.Force
		under.Force = &v
	}
	return under
}

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }

// Bool returns a pointer to v.
func Bool(v bool) *bool { return &v }

// =============================================================================
// Result
// =============================================================================

// Result is a computed layout. NodePositions holds an entry for every node
// id of the input graph.
type Result struct {
	NodePositions map[string]Position   `json:"nodePositions" yaml:"nodePositions"`
	EdgePaths     map[string][]Position `json:"edgePaths,omitempty" yaml:"edgePaths,omitempty"`
	Config        Config                `json:"config" yaml:"config"`
	Metrics       *Metrics              `json:"metrics,omitempty" yaml:"metrics,omitempty"`
}

// Metrics describes how a layout was produced and how good it is.
type Metrics struct {
	Duration   time.Duration `json:"duration" yaml:"duration"`
	Crossings  int           `json:"crossings" yaml:"crossings"`
	Bounds     Bounds        `json:"bounds" yaml:"bounds"`
	Quality    float64       `json:"quality" yaml:"quality"`
	Iterations int           `json:"iterations" yaml:"iterations"`
}

// Bounds is the axis-aligned box around a set of positions.
type Bounds struct {
	MinX   float64 `json:"minX" yaml:"minX"`
	MinY   float64 `json:"minY" yaml:"minY"`
	MaxX   float64 `json:"maxX" yaml:"maxX"`
	MaxY   float64 `json:"maxY" yaml:"maxY"`
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// ComputeBounds returns the bounding box of positions. The zero Bounds is
// returned for an empty map.
func ComputeBounds(positions map[string]Position) Bounds {
	if len(positions) == 0 {
		return Bounds{}
	}
	b := Bounds{
		MinX: math.Inf(1), MinY: math.Inf(1),
		MaxX: math.Inf(-1), MaxY: math.Inf(-1),
	}
	for _, p := range positions {
		b.MinX = min(b.MinX, p.X)
		b.MinY = min(b.MinY, p.Y)
		b.MaxX = max(b.MaxX, p.X)
		b.MaxY = max(b.MaxY, p.Y)
	}
	b.Width = b.MaxX - b.MinX
	b.Height = b.MaxY - b.MinY
	return b
}

// Apply maps layered coordinates (x across a layer, y down the layers) onto
// the requested direction.
func Apply(dir Direction, x, y float64) Position {
	switch dir {
	case BottomTop:
		return Position{X: x, Y: -y}
	case LeftRight:
		return Position{X: y, Y: x}
	case RightLeft:
		return Position{X: -y, Y: x}
	default:
		return Position{X: x, Y: y}
	}
}
