package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flowlayout/pkg/graph"
	"github.com/matzehuels/flowlayout/pkg/layout"
	"github.com/matzehuels/flowlayout/pkg/optimizer"
)

// layoutCommand creates the layout command for computing node positions.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		flags   configFlags
		output  string
		format  string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "layout [graph.json]",
		Short: "Compute node positions for a flowchart graph",
		Long: `Compute node positions for a flowchart graph.

The graph is read from a JSON file ("-" reads stdin). The algorithm and its
settings come from a template (-t), a layout config file (-c) and explicit
flags, in that order of precedence. Without an algorithm the configured
default (hierarchical) is used.

The result holds one position per node and is written as JSON or YAML.
Deterministic layouts are cached between runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			eng, store, err := c.newEngine(ctx, noCache)
			if err != nil {
				return err
			}
			defer store.Close()

			cfg, err := flags.build(cmd, eng)
			if err != nil {
				return err
			}
			g, err := readGraph(args[0])
			if err != nil {
				return err
			}

			res, err := runWithSpinner(ctx, fmt.Sprintf("Computing %s layout...", algorithmLabel(cfg)), func(ctx context.Context) (*layout.Result, error) {
				return eng.Layout(ctx, g, cfg)
			})
			if err != nil {
				return fmt.Errorf("compute layout: %w", err)
			}
			return c.writeResult(newTerminal(cmd.OutOrStdout()), args[0], output, format, g, res)
		},
	}

	flags.register(cmd)
	c.registerConfigCompletions(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVarP(&format, "format", "f", formatJSON, "output format: json, yaml")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// optimizeCommand creates the optimize command for searching better configs.
func (c *CLI) optimizeCommand() *cobra.Command {
	var (
		flags      configFlags
		output     string
		format     string
		iterations int
		seed       int64
	)

	cmd := &cobra.Command{
		Use:   "optimize [graph.json]",
		Short: "Search config variations for a better scoring layout",
		Long: `Search config variations for a better scoring layout.

The given config is laid out together with perturbed variants (spacing,
direction, start angle, column count or seed depending on the algorithm).
Each result is scored on edge crossings, compactness, balance and edge
length, and the best one is written out.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			eng, store, err := c.newEngine(ctx, true)
			if err != nil {
				return err
			}
			defer store.Close()

			cfg, err := flags.build(cmd, eng)
			if err != nil {
				return err
			}
			g, err := readGraph(args[0])
			if err != nil {
				return err
			}

			sw := startStopwatch(c.Logger, "optimized layout")
			out, err := eng.Optimize(ctx, g, cfg, optimizer.Options{MaxIterations: iterations, Seed: seed})
			if err != nil {
				return fmt.Errorf("optimize layout: %w", err)
			}
			sw.done("candidates", out.Evaluated, "improvement", fmt.Sprintf("%.3f", out.BestScore-out.BaseScore))

			term := newTerminal(cmd.OutOrStdout())
			if output != "" {
				term.keyValue("Base score", fmt.Sprintf("%.3f", out.BaseScore))
				term.keyValue("Best score", StyleNumber.Render(fmt.Sprintf("%.3f", out.BestScore)))
				term.keyValue("Candidate", fmt.Sprintf("%d", out.Candidate))
			}
			return c.writeResult(term, args[0], output, format, g, out.Result)
		},
	}

	flags.register(cmd)
	c.registerConfigCompletions(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVarP(&format, "format", "f", formatJSON, "output format: json, yaml")
	cmd.Flags().IntVarP(&iterations, "iterations", "n", 0, fmt.Sprintf("perturbed candidates to try (max %d)", optimizer.MaxIterations))
	cmd.Flags().Int64Var(&seed, "seed", 0, "perturbation seed")

	return cmd
}

// writeResult writes a layout result to output, or to stdout when output is
// empty. File output is followed by a short summary.
func (c *CLI) writeResult(term *terminal, input, output, format string, g *graph.Graph, res *layout.Result) error {
	if output == "" {
		return writeData(res, format, "")
	}
	format = formatFromPath(output, format)
	if err := writeData(res, format, output); err != nil {
		return err
	}

	term.success("Layout complete")
	term.file(output)
	term.stats(g.NodeCount(), g.EdgeCount(), res.Metrics)
	term.blank()
	term.nextStep("Render", fmt.Sprintf("%s render %s -o %s", appName, input, defaultRenderPath(input)))
	return nil
}

func algorithmLabel(cfg layout.Config) string {
	if cfg.Algorithm == "" {
		return "default"
	}
	return string(cfg.Algorithm)
}

func defaultRenderPath(input string) string {
	if input == "-" {
		return "graph.svg"
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + ".svg"
}
