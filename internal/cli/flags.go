package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/flowlayout/pkg/engine"
	"github.com/matzehuels/flowlayout/pkg/layout"
)

// configFlags are the layout settings shared by layout, optimize and render.
type configFlags struct {
	algorithm    string
	direction    string
	template     string
	file         string
	spacingX     float64
	spacingY     float64
	levelSpacing float64
	edgePaths    bool
}

func (f *configFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.algorithm, "algorithm", "a", "", "layout algorithm: hierarchical, tree, circular, grid, force")
	cmd.Flags().StringVarP(&f.direction, "direction", "d", "", "flow direction: TB, BT, LR, RL")
	cmd.Flags().StringVarP(&f.template, "template", "t", "", "start from a named template")
	cmd.Flags().StringVarP(&f.file, "layout-config", "c", "", "JSON or YAML layout config file")
	cmd.Flags().Float64Var(&f.spacingX, "spacing-x", 0, "horizontal node spacing")
	cmd.Flags().Float64Var(&f.spacingY, "spacing-y", 0, "vertical node spacing")
	cmd.Flags().Float64Var(&f.levelSpacing, "level-spacing", 0, "spacing between layers")
	cmd.Flags().BoolVar(&f.edgePaths, "edge-paths", false, "include straight edge paths in the result")
}

// build assembles a config from, in increasing precedence, the template,
// the config file and the explicit flags.
func (f *configFlags) build(cmd *cobra.Command, eng *engine.Engine) (layout.Config, error) {
	var cfg layout.Config
	if f.template != "" {
		t, err := eng.Template(f.template)
		if err != nil {
			return cfg, err
		}
		cfg = t.Config
	}
	if f.file != "" {
		fileCfg, err := readLayoutConfig(f.file)
		if err != nil {
			return cfg, err
		}
		cfg = overlay(cfg, fileCfg)
	}

	if f.algorithm != "" {
		cfg.Algorithm = layout.AlgorithmName(f.algorithm)
	}
	if f.direction != "" {
		cfg.Direction = layout.Direction(f.direction)
	}
	flags := cmd.Flags()
	if flags.Changed("spacing-x") || flags.Changed("spacing-y") {
		s := cfg.Spacing()
		if flags.Changed("spacing-x") {
			s.Horizontal = f.spacingX
		}
		if flags.Changed("spacing-y") {
			s.Vertical = f.spacingY
		}
		cfg.NodeSpacing = &s
	}
	if flags.Changed("level-spacing") {
		cfg.LevelSpacing = layout.Float(f.levelSpacing)
	}
	if f.edgePaths {
		cfg.EdgePaths = true
	}
	return cfg, nil
}

// overlay applies the set fields of top over base.
func overlay(base, top layout.Config) layout.Config {
	if top.Algorithm != "" {
		if top.Algorithm != base.Algorithm {
			base.Options = layout.Options{}
		}
		base.Algorithm = top.Algorithm
	}
	if top.Direction != "" {
		base.Direction = top.Direction
	}
	if top.NodeSpacing != nil {
		base.NodeSpacing = top.NodeSpacing
	}
	if top.LevelSpacing != nil {
		base.LevelSpacing = top.LevelSpacing
	}
	base.Animated = base.Animated || top.Animated
	base.EdgePaths = base.EdgePaths || top.EdgePaths

	o := top.Options
	if o.Hierarchical != nil {
		base.Options.Hierarchical = o.Hierarchical
	}
	if o.Tree != nil {
		base.Options.Tree = o.Tree
	}
	if o.Circular != nil {
		base.Options.Circular = o.Circular
	}
	if o.Grid != nil {
		base.Options.Grid = o.Grid
	}
	if o.Force != nil {
		base.Options.Force = o.Force
	}
	return base
}

// readLayoutConfig decodes a layout config file. YAML is a superset of
// JSON, so one decoder serves both.
func readLayoutConfig(path string) (layout.Config, error) {
	var cfg layout.Config
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read layout config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse layout config %s: %w", path, err)
	}
	return cfg, nil
}
