package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flowlayout/pkg/layout"
	"github.com/matzehuels/flowlayout/pkg/render/nodelink"
)

// renderCommand creates the render command for drawing a layout.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		flags    configFlags
		output   string
		detailed bool
		noCache  bool
	)

	cmd := &cobra.Command{
		Use:   "render [graph.json]",
		Short: "Draw a flowchart graph as SVG or DOT",
		Long: `Draw a flowchart graph as SVG or DOT.

The graph is laid out with the given settings and written as Graphviz DOT
with every node pinned at its computed position. An output ending in .dot
keeps the DOT source; anything else is rendered to SVG in-process.`,
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

			res, err := runWithSpinner(ctx, "Rendering...", func(ctx context.Context) (*layout.Result, error) {
				return eng.Preview(ctx, g, cfg)
			})
			if err != nil {
				return fmt.Errorf("compute layout: %w", err)
			}

			if output == "" {
				output = defaultRenderPath(args[0])
			}
			dot := nodelink.ToDOT(g, res, nodelink.Options{Detailed: detailed})
			data := []byte(dot)
			if !strings.EqualFold(filepath.Ext(output), ".dot") {
				if data, err = nodelink.RenderSVG(ctx, dot); err != nil {
					return fmt.Errorf("render svg: %w", err)
				}
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("write output %s: %w", output, err)
			}

			term := newTerminal(cmd.OutOrStdout())
			term.success("Rendered %s layout", res.Config.Algorithm)
			term.file(output)
			term.stats(g.NodeCount(), g.EdgeCount(), res.Metrics)
			return nil
		},
	}

	flags.register(cmd)
	c.registerConfigCompletions(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, .svg or .dot (default: <input>.svg)")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "include node types and properties in labels")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}
