package layout

import (
	"context"

	"github.com/matzehuels/flowlayout/pkg/graph"
)

// Algorithm computes node positions for a graph.
//
// Execute must not modify g and must return a fresh map holding a position
// for every node id in g. Validate is called before Execute; an algorithm
// never sees a config its Validate rejected.
type Algorithm interface {
	Name() AlgorithmName
	Description() string
	DefaultConfig() Config
	Validate(cfg Config) error
	SupportsConstraints() bool
	Execute(ctx context.Context, g *graph.Graph, cfg Config) (map[string]Position, error)
}

// base implements the parts of [Algorithm] every built-in shares. The check
// hook runs after the generic validation succeeds.
type base struct {
	name        AlgorithmName
	description string
	defaults    Config
	constraints bool
	check       func(Config) error
}

func (b *base) Name() AlgorithmName       { return b.name }
func (b *base) Description() string       { return b.description }
func (b *base) SupportsConstraints() bool { return b.constraints }

// DefaultConfig returns a copy of the algorithm defaults.
func (b *base) DefaultConfig() Config {
	return Merge(b.defaults)
}

// Validate runs [ValidateConfig] and then the algorithm hook.
func (b *base) Validate(cfg Config) error {
	if err := ValidateConfig(cfg); err != nil {
		return err
	}
	if b.check != nil {
		return b.check(cfg)
	}
	return nil
}

// Builtins returns a fresh instance of every built-in algorithm in a fixed
// order.
func Builtins() []Algorithm {
	return []Algorithm{
		NewHierarchical(),
		NewTree(),
		NewCircular(),
		NewGrid(),
		NewForce(),
	}
}

// Deterministic reports whether an algorithm's output depends only on the
// graph and config. Force-directed layouts are excluded because they
// simulate.
func Deterministic(name AlgorithmName) bool {
	switch name {
	case NameHierarchical, NameTree, NameCircular, NameGrid:
		return true
	default:
		return false
	}
}
