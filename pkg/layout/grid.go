package layout

import (
	"context"
	"math"

	"github.com/matzehuels/flowlayout/pkg/dag"
	"github.com/matzehuels/flowlayout/pkg/graph"
)

// GridLayout places nodes in equally sized cells.
type GridLayout struct {
	base
}

// NewGrid returns the grid layout.
func NewGrid() *GridLayout {
	return &GridLayout{base{
		name:        NameGrid,
		description: "Regular matrix of cells; suited to unconnected or loosely connected nodes",
		defaults: Config{
			Algorithm:   NameGrid,
			NodeSpacing: &Spacing{Horizontal: 120, Vertical: 100},
			Options: Options{
				Grid: &GridOptions{FillOrder: RowMajor, Alignment: AlignCenter, Sort: SortNone},
			},
		},
		constraints: false,
	}}
}

// Dimensions resolves the grid size for count cells.
//
// When both columns and rows are given they are used, except that rows grow
// until every node has a cell. When only one is given the other is
// ceil(count/given). When neither is, columns is ceil(sqrt(count)).
func Dimensions(count, columns, rows int) (int, int) {
	if count <= 0 {
		return max(columns, 0), max(rows, 0)
	}
	switch {
	case columns > 0 && rows > 0:
		if columns*rows < count {
			rows = ceilDiv(count, columns)
		}
	case columns > 0:
		rows = ceilDiv(count, columns)
	case rows > 0:
		columns = ceilDiv(count, rows)
	default:
		columns = int(math.Ceil(math.Sqrt(float64(count))))
		rows = ceilDiv(count, columns)
	}
	return columns, rows
}

func ceilDiv(a, b int) int {
	q := a / b
	if a%b != 0 {
		q++
	}
	return q
}

// Execute lays out g. The block is aligned horizontally around x = 0 and
// always centred vertically around y = 0. Direction is ignored.
func (gl *GridLayout) Execute(_ context.Context, g *graph.Graph, cfg Config) (map[string]Position, error) {
	o := cfg.Options.Grid.resolved(cfg.Spacing())
	ix := dag.New(g)

	slots := make([]int, ix.Len())
	for i := range slots {
		slots[i] = i
	}
	sortSlots(ix, slots, o.Sort, nil)

	// cols*rows >= len(slots), so either fill order stays inside the grid.
	cols, rows := Dimensions(len(slots), o.Columns, o.Rows)

	blockWidth := float64(max(cols-1, 0)) * o.CellWidth
	blockHeight := float64(max(rows-1, 0)) * o.CellHeight

	x0 := -blockWidth / 2
	switch o.Alignment {
	case AlignLeft:
		x0 = 0
	case AlignRight:
		x0 = -blockWidth
	}
	y0 := -blockHeight / 2

	positions := make(map[string]Position, len(slots))
	for i, s := range slots {
		var r, c int
		if o.FillOrder == ColumnMajor {
			c, r = i/rows, i%rows
		} else {
			r, c = i/cols, i%cols
		}
		positions[ix.ID(s)] = Position{
			X: x0 + float64(c)*o.CellWidth,
			Y: y0 + float64(r)*o.CellHeight,
		}
	}
	return positions, nil
}
