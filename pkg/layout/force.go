package layout

import (
	"context"
	"math"
	"math/rand"

	"github.com/matzehuels/flowlayout/pkg/dag"
	"github.com/matzehuels/flowlayout/pkg/errors"
	"github.com/matzehuels/flowlayout/pkg/graph"
)

// ForceLayout is a Fruchterman-Reingold style force-directed layout. Nodes
// repel each other, edges pull their endpoints together, and a cooling
// temperature caps each step. It is reproducible per seed.
type ForceLayout struct {
	base
}

// NewForce returns the force-directed layout.
func NewForce() *ForceLayout {
	return &ForceLayout{base{
		name:        NameForce,
		description: "Organic placement from simulated forces; suited to dense networks",
		defaults: Config{
			Algorithm: NameForce,
			Options: Options{
				Force: &ForceOptions{
					Iterations: DefaultForceIterations,
					Width:      DefaultCanvasWidth,
					Height:     DefaultCanvasHeight,
					Padding:    DefaultCanvasPadding,
					Seed:       DefaultForceSeed,
				},
			},
		},
		constraints: false,
		check: func(cfg Config) error {
			o := cfg.Options.Force.resolved()
			if 2*o.Padding >= o.Width || 2*o.Padding >= o.Height {
				return errors.New(errors.ErrCodeInvalidConfig,
					"algorithmConfig.force.padding (%v) leaves no room in a %vx%v canvas", o.Padding, o.Width, o.Height)
			}
			return nil
		},
	}}
}

// Execute lays out g inside the configured canvas. Direction is ignored.
func (f *ForceLayout) Execute(ctx context.Context, g *graph.Graph, cfg Config) (map[string]Position, error) {
	o := cfg.Options.Force.resolved()
	ix := dag.New(g)
	n := ix.Len()

	positions := make(map[string]Position, n)
	if n == 0 {
		return positions, nil
	}

	// Single node - center it
	if n == 1 {
		positions[ix.ID(0)] = Position{X: o.Width / 2, Y: o.Height / 2}
		return positions, nil
	}

	rng := rand.New(rand.NewSource(o.Seed))
	pos := make([]Position, n)
	for i := range pos {
		pos[i] = Position{
			X: rng.Float64()*(o.Width-2*o.Padding) + o.Padding,
			Y: rng.Float64()*(o.Height-2*o.Padding) + o.Padding,
		}
	}

	neighbors := make([][]int, n)
	for i := range n {
		neighbors[i] = ix.Neighbors(i)
	}

	k := math.Sqrt((o.Width * o.Height) / float64(n)) // Optimal distance
	temperature := o.Width / 10.0
	forces := make([]Position, n)

	for iter := 0; iter < o.Iterations; iter++ {
		if err := errors.Canceled(ctx); err != nil {
			return nil, err
		}
		clear(forces)

		// Repulsion between all nodes
		for i := range n {
			for j := i + 1; j < n; j++ {
				dx := pos[i].X - pos[j].X
				dy := pos[i].Y - pos[j].Y
				dist := max(math.Hypot(dx, dy), 0.01)

				force := (k * k) / dist
				fx := (dx / dist) * force
				fy := (dy / dist) * force
				forces[i].X += fx
				forces[i].Y += fy
				forces[j].X -= fx
				forces[j].Y -= fy
			}
		}

		// Attraction between connected nodes
		for i := range n {
			for _, j := range neighbors[i] {
				dx := pos[i].X - pos[j].X
				dy := pos[i].Y - pos[j].Y
				dist := math.Hypot(dx, dy)
				if dist < 0.01 {
					continue
				}
				force := (dist * dist) / k
				forces[i].X -= (dx / dist) * force
				forces[i].Y -= (dy / dist) * force
			}
		}

		// Apply forces with cooling
		cool := 1.0 - float64(iter)/float64(o.Iterations)
		for i := range n {
			force := math.Hypot(forces[i].X, forces[i].Y)
			if force > 0 {
				step := math.Min(force, temperature) * cool
				pos[i].X += (forces[i].X / force) * step
				pos[i].Y += (forces[i].Y / force) * step
			}
		}
	}

	normalizePositions(pos, o.Width, o.Height, o.Padding)
	for i, p := range pos {
		positions[ix.ID(i)] = p
	}
	return positions, nil
}

// normalizePositions scales positions in place to fit within the canvas.
func normalizePositions(pos []Position, width, height, padding float64) {
	minX, maxX := math.MaxFloat64, -math.MaxFloat64
	minY, maxY := math.MaxFloat64, -math.MaxFloat64
	for _, p := range pos {
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX < 0.01 {
		rangeX = 1
	}
	if rangeY < 0.01 {
		rangeY = 1
	}

	targetWidth := width - 2*padding
	targetHeight := height - 2*padding
	for i, p := range pos {
		pos[i] = Position{
			X: padding + ((p.X-minX)/rangeX)*targetWidth,
			Y: padding + ((p.Y-minY)/rangeY)*targetHeight,
		}
	}
}
