package optimizer

import (
	"context"
	"math/rand"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/flowlayout/pkg/errors"
	"github.com/matzehuels/flowlayout/pkg/graph"
	"github.com/matzehuels/flowlayout/pkg/layout"
)

// Iteration bounds.
const (
	DefaultIterations = 10
	MaxIterations     = 50
	defaultSeed       = 1
)

// Options tunes [Optimize]. Zero values select defaults.
type Options struct {
	// MaxIterations is the number of perturbed candidates tried besides the
	// base config. Capped at MaxIterations.
	MaxIterations int

	// Seed drives the perturbations. The same seed yields the same
	// candidates.
	Seed int64

	// Concurrency bounds how many candidates run at once. Defaults to
	// GOMAXPROCS.
	Concurrency int
}

func (o Options) withDefaults() Options {
	if o.MaxIterations <= 0 {
		o.MaxIterations = DefaultIterations
	}
	o.MaxIterations = min(o.MaxIterations, MaxIterations)
	if o.Seed == 0 {
		o.Seed = defaultSeed
	}
	if o.Concurrency <= 0 {
		o.Concurrency = runtime.GOMAXPROCS(0)
	}
	return o
}

// Candidate is one evaluated configuration.
type Candidate struct {
	Index      int
	Config     layout.Config
	Positions  map[string]layout.Position
	Evaluation Evaluation
}

// Outcome is the result of [Optimize].
type Outcome struct {
	// Best is the highest scoring candidate. Ties go to the lower index.
	Best Candidate

	// Base is candidate 0, the unmodified config.
	Base Candidate

	// Evaluated counts candidates that validated and ran.
	Evaluated int
}

// Optimize runs algo on g with cfg and with up to MaxIterations perturbed
// variants of it, then keeps the best scoring one.
//
// cfg must already be merged and valid; a failure of the base candidate is
// returned as is. Perturbed candidates that fail validation or execution are
// skipped. Candidates run concurrently but the outcome does not depend on
// scheduling.
func Optimize(ctx context.Context, algo layout.Algorithm, g *graph.Graph, cfg layout.Config, opts Options) (*Outcome, error) {
	opts = opts.withDefaults()
	configs := Candidates(cfg, opts.MaxIterations, opts.Seed)
	results := make([]*Candidate, len(configs))

	eg, egctx := errgroup.WithContext(ctx)
	eg.SetLimit(opts.Concurrency)
	for i, c := range configs {
		eg.Go(func() error {
			if err := errors.Canceled(egctx); err != nil {
				return err
			}
			if i > 0 {
				if err := algo.Validate(c); err != nil {
					return nil
				}
			}
			pos, err := algo.Execute(egctx, g, c)
			if err != nil {
				if i == 0 || errors.Is(err, errors.ErrCodeCanceled) {
					return err
				}
				return nil
			}
			results[i] = &Candidate{Index: i, Config: c, Positions: pos, Evaluation: Evaluate(g, pos)}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	out := &Outcome{Base: *results[0], Best: *results[0]}
	for _, r := range results {
		if r == nil {
			continue
		}
		out.Evaluated++
		if r.Evaluation.Score > out.Best.Evaluation.Score {
			out.Best = *r
		}
	}
	return out, nil
}

// Candidates returns cfg followed by n perturbed copies. Which knobs are
// turned depends on cfg.Algorithm:
//
//   - every algorithm: node and level spacing scaled by a factor in [0.6, 1.4)
//   - hierarchical and tree: direction cycled through TB, LR, BT, RL
//   - circular: start angle rotated in equal steps
//   - grid: column count varied around the configured count
//   - force: seed advanced per candidate
func Candidates(cfg layout.Config, n int, seed int64) []layout.Config {
	rng := rand.New(rand.NewSource(seed))
	out := make([]layout.Config, 0, n+1)
	out = append(out, layout.Merge(cfg))

	directions := []layout.Direction{layout.TopBottom, layout.LeftRight, layout.BottomTop, layout.RightLeft}
	for i := 1; i <= n; i++ {
		c := layout.Merge(cfg)
		scale := 0.6 + rng.Float64()*0.8

		s := c.Spacing()
		c.NodeSpacing = &layout.Spacing{Horizontal: s.Horizontal * scale, Vertical: s.Vertical * scale}
		c.LevelSpacing = layout.Float(c.Level() * scale)

		switch c.Algorithm {
		case layout.NameHierarchical, layout.NameTree:
			c.Direction = directions[i%len(directions)]
		case layout.NameCircular:
			o := layout.CircularOptions{}
			if c.Options.Circular != nil {
				o = *c.Options.Circular
			}
			start := layout.DefaultStartAngle
			if o.StartAngle != nil {
				start = *o.StartAngle
			}
			rotated := start + float64(i)*360/float64(n+1)
			for rotated > 360 {
				rotated -= 360
			}
			o.StartAngle = layout.Float(rotated)
			c.Options.Circular = &o
		case layout.NameGrid:
			o := layout.GridOptions{}
			if c.Options.Grid != nil {
				o = *c.Options.Grid
			}
			// alternate one more and one fewer column, widening each round
			delta := (i + 1) / 2
			if i%2 == 0 {
				delta = -delta
			}
			o.Columns = max(o.Columns+delta, 0)
			o.Rows = 0
			c.Options.Grid = &o
		case layout.NameForce:
			o := layout.ForceOptions{}
			if c.Options.Force != nil {
				o = *c.Options.Force
			}
			if o.Seed == 0 {
				o.Seed = layout.DefaultForceSeed
			}
			o.Seed += int64(i)
			c.Options.Force = &o
		}
		out = append(out, c)
	}
	return out
}
