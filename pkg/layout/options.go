package layout

import "slices"

// =============================================================================
// Hierarchical
// =============================================================================

// MaxCrossingSweeps bounds barycenter crossing reduction.
const MaxCrossingSweeps = 10

// HierarchicalOptions configures [HierarchicalLayout].
type HierarchicalOptions struct {
	// MaxIterations is the number of down+up barycenter sweeps. Zero means
	// MaxCrossingSweeps.
	MaxIterations int `json:"maxIterations,omitempty" yaml:"maxIterations,omitempty" validate:"gte=0,lte=10"`
}

func (o *HierarchicalOptions) sweeps() int {
	if o == nil || o.MaxIterations == 0 {
		return MaxCrossingSweeps
	}
	return o.MaxIterations
}

// =============================================================================
// Tree
// =============================================================================

// Tree alignment modes.
const (
	AlignCenter  = "center"
	AlignInherit = "inherit"
)

// DefaultSubtreeSpacing separates sibling subtrees.
const DefaultSubtreeSpacing = 20.0

// TreeOptions configures [TreeLayout].
type TreeOptions struct {
	// RootID forces a single root. When empty every in-degree-0 node roots
	// its own tree.
	RootID         string   `json:"rootId,omitempty" yaml:"rootId,omitempty" validate:"omitempty,max=256"`
	SubtreeSpacing *float64 `json:"subtreeSpacing,omitempty" yaml:"subtreeSpacing,omitempty" validate:"omitempty,gte=0"`
	Alignment      string   `json:"alignment,omitempty" yaml:"alignment,omitempty" validate:"omitempty,oneof=center inherit"`
}

func (o *TreeOptions) resolved() TreeOptions {
	out := TreeOptions{SubtreeSpacing: Float(DefaultSubtreeSpacing), Alignment: AlignCenter}
	if o == nil {
		return out
	}
	out.RootID = o.RootID
	if o.SubtreeSpacing != nil {
		out.SubtreeSpacing = Float(*o.SubtreeSpacing)
	}
	if o.Alignment != "" {
		out.Alignment = o.Alignment
	}
	return out
}

// =============================================================================
// Circular
// =============================================================================

// Grouping and sort modes shared by circular and grid layouts.
const (
	GroupNone      = "none"
	GroupType      = "type"
	GroupAttribute = "attribute"

	SortNone   = "none"
	SortType   = "type"
	SortName   = "name"
	SortDegree = "degree"
	SortCustom = "custom"
)

// Circular defaults.
const (
	DefaultRadius     = 200.0
	DefaultStartAngle = -90.0
	DefaultMinRadius  = 100.0
	DefaultMaxRadius  = 300.0
)

// CircularOptions configures [CircularLayout]. Unset radii fall back to their
// defaults; an explicit zero is kept.
type CircularOptions struct {
	Radius          *float64 `json:"radius,omitempty" yaml:"radius,omitempty" validate:"omitempty,gte=0"`
	Center          Position `json:"center" yaml:"center"`
	StartAngle      *float64 `json:"startAngle,omitempty" yaml:"startAngle,omitempty" validate:"omitempty,gte=-360,lte=360"`
	EqualSpacing    *bool    `json:"equalSpacing,omitempty" yaml:"equalSpacing,omitempty"`
	Grouping        string   `json:"grouping,omitempty" yaml:"grouping,omitempty" validate:"omitempty,oneof=none type attribute"`
	GroupAttribute  string   `json:"groupAttribute,omitempty" yaml:"groupAttribute,omitempty" validate:"required_if=Grouping attribute"`
	Sort            string   `json:"sort,omitempty" yaml:"sort,omitempty" validate:"omitempty,oneof=none type name degree custom"`
	CustomOrder     []string `json:"customOrder,omitempty" yaml:"customOrder,omitempty"`
	WeightAttribute string   `json:"weightAttribute,omitempty" yaml:"weightAttribute,omitempty"`
	MinRadius       *float64 `json:"minRadius,omitempty" yaml:"minRadius,omitempty" validate:"omitempty,gte=0"`
	MaxRadius       *float64 `json:"maxRadius,omitempty" yaml:"maxRadius,omitempty" validate:"omitempty,gte=0"`
}

func (o CircularOptions) clone() CircularOptions {
	o.CustomOrder = slices.Clone(o.CustomOrder)
	for _, f := range []**float64{&o.Radius, &o.StartAngle, &o.MinRadius, &o.MaxRadius} {
		if *f != nil {
			*f = Float(**f)
		}
	}
	if o.EqualSpacing != nil {
		o.EqualSpacing = Bool(*o.EqualSpacing)
	}
	return o
}

func (o *CircularOptions) resolved() CircularOptions {
	var out CircularOptions
	if o != nil {
		out = o.clone()
	}
	if out.Radius == nil {
		out.Radius = Float(DefaultRadius)
	}
	if out.StartAngle == nil {
		out.StartAngle = Float(DefaultStartAngle)
	}
	if out.EqualSpacing == nil {
		out.EqualSpacing = Bool(true)
	}
	if out.Grouping == "" {
		out.Grouping = GroupNone
	}
	if out.Sort == "" {
		out.Sort = SortNone
	}
	if out.MinRadius == nil {
		out.MinRadius = Float(DefaultMinRadius)
	}
	if out.MaxRadius == nil {
		out.MaxRadius = Float(DefaultMaxRadius)
	}
	return out
}

// =============================================================================
// Grid
// =============================================================================

// Grid fill orders and alignments.
const (
	RowMajor    = "row-major"
	ColumnMajor = "column-major"

	AlignLeft  = "left"
	AlignRight = "right"
)

// MaxGridDimension bounds the configured column and row counts.
const MaxGridDimension = 10000

// GridOptions configures [GridLayout]. Zero Columns or Rows means unset.
type GridOptions struct {
	Columns    int     `json:"columns,omitempty" yaml:"columns,omitempty" validate:"gte=0,lte=10000"`
	Rows       int     `json:"rows,omitempty" yaml:"rows,omitempty" validate:"gte=0,lte=10000"`
	FillOrder  string  `json:"fillOrder,omitempty" yaml:"fillOrder,omitempty" validate:"omitempty,oneof=row-major column-major"`
	Alignment  string  `json:"alignment,omitempty" yaml:"alignment,omitempty" validate:"omitempty,oneof=left center right"`
	CellWidth  float64 `json:"cellWidth,omitempty" yaml:"cellWidth,omitempty" validate:"gte=0"`
	CellHeight float64 `json:"cellHeight,omitempty" yaml:"cellHeight,omitempty" validate:"gte=0"`
	Sort       string  `json:"sort,omitempty" yaml:"sort,omitempty" validate:"omitempty,oneof=none type name degree"`
}

func (o *GridOptions) resolved(s Spacing) GridOptions {
	var out GridOptions
	if o != nil {
		out = *o
	}
	if out.FillOrder == "" {
		out.FillOrder = RowMajor
	}
	if out.Alignment == "" {
		out.Alignment = AlignCenter
	}
	if out.CellWidth == 0 {
		out.CellWidth = s.Horizontal
	}
	if out.CellHeight == 0 {
		out.CellHeight = s.Vertical
	}
	if out.Sort == "" {
		out.Sort = SortNone
	}
	return out
}

// =============================================================================
// Force
// =============================================================================

// Force-directed defaults.
const (
	DefaultForceIterations = 100
	MaxForceIterations     = 1000
	DefaultForceSeed       = 42
	DefaultCanvasWidth     = 800.0
	DefaultCanvasHeight    = 600.0
	DefaultCanvasPadding   = 50.0
)

// ForceOptions configures [ForceLayout]. A zero Seed selects DefaultForceSeed.
type ForceOptions struct {
	Iterations int     `json:"iterations,omitempty" yaml:"iterations,omitempty" validate:"gte=0,lte=1000"`
	Width      float64 `json:"width,omitempty" yaml:"width,omitempty" validate:"gte=0"`
	Height     float64 `json:"height,omitempty" yaml:"height,omitempty" validate:"gte=0"`
	Padding    float64 `json:"padding,omitempty" yaml:"padding,omitempty" validate:"gte=0"`
	Seed       int64   `json:"seed,omitempty" yaml:"seed,omitempty"`
}

func (o *ForceOptions) resolved() ForceOptions {
	var out ForceOptions
	if o != nil {
		out = *o
	}
	if out.Iterations == 0 {
		out.Iterations = DefaultForceIterations
	}
	if out.Width == 0 {
		out.Width = DefaultCanvasWidth
	}
	if out.Height == 0 {
		out.Height = DefaultCanvasHeight
	}
	if out.Padding == 0 {
		out.Padding = DefaultCanvasPadding
	}
	if out.Seed == 0 {
		out.Seed = DefaultForceSeed
	}
	return out
}
