package cli

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flowlayout/pkg/analyzer"
	"github.com/matzehuels/flowlayout/pkg/engine"
)

// analyzeCommand creates the analyze command for topology analysis.
func (c *CLI) analyzeCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "analyze [graph.json]",
		Short: "Describe the topology of a flowchart graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			eng, store, err := c.newEngine(ctx, false)
			if err != nil {
				return err
			}
			defer store.Close()

			g, err := readGraph(args[0])
			if err != nil {
				return err
			}
			a, err := eng.Analyze(ctx, g)
			if err != nil {
				return fmt.Errorf("analyze graph: %w", err)
			}
			if format == formatText {
				printAnalysis(newTerminal(cmd.OutOrStdout()), a)
				return nil
			}
			return writeData(a, format, "")
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatText, "output format: text, json, yaml")
	return cmd
}

// suggestCommand creates the suggest command for ranking algorithms.
func (c *CLI) suggestCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "suggest [graph.json]",
		Short: "Rank layout algorithms for a flowchart graph",
		Long: `Rank layout algorithms for a flowchart graph.

Every registered algorithm is previewed on the graph. Confidence combines
whether the topology suits the algorithm, whether its complexity tier
matches, whether it suits the recognised process type, whether the preview
clears an issue of the graph's current coordinates, and how much the
preview improves on them. The five best are listed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			eng, store, err := c.newEngine(ctx, false)
			if err != nil {
				return err
			}
			defer store.Close()

			g, err := readGraph(args[0])
			if err != nil {
				return err
			}
			out, err := runWithSpinner(ctx, "Previewing layouts...", func(ctx context.Context) ([]engine.Suggestion, error) {
				return eng.Suggestions(ctx, g)
			})
			if err != nil {
				return fmt.Errorf("suggest layouts: %w", err)
			}
			if format == formatText {
				printSuggestions(newTerminal(cmd.OutOrStdout()), out)
				return nil
			}
			return writeData(out, format, "")
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatText, "output format: text, json, yaml")
	return cmd
}

// reviewCommand creates the review command for layout issue detection.
func (c *CLI) reviewCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "review [graph.json]",
		Short: "Find layout issues in a flowchart's current coordinates",
		Long: `Find layout issues in a flowchart's current coordinates.

The node coordinates in the input are checked for overlaps, edge
crossings, cramped spacing, near-misses in alignment, edges running
against the flow and lopsided placement. Each issue is listed as a fix,
most urgent first, next to the recognised process type.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			eng, store, err := c.newEngine(ctx, false)
			if err != nil {
				return err
			}
			defer store.Close()

			g, err := readGraph(args[0])
			if err != nil {
				return err
			}
			rv, err := eng.Review(ctx, g)
			if err != nil {
				return fmt.Errorf("review graph: %w", err)
			}
			if format == formatText {
				printReview(newTerminal(cmd.OutOrStdout()), rv)
				return nil
			}
			return writeData(rv, format, "")
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatText, "output format: text, json, yaml")
	return cmd
}

func printAnalysis(t *terminal, a *analyzer.Analysis) {
	t.title("Topology")
	t.keyValue("Nodes", fmt.Sprintf("%d", a.NodeCount))
	t.keyValue("Edges", fmt.Sprintf("%d", a.EdgeCount))
	t.keyValue("Tree", yesNo(a.IsTree))
	t.keyValue("Hierarchical", yesNo(a.IsHierarchical))
	t.keyValue("Cycles", yesNo(a.HasCycles))
	t.keyValue("Circular", yesNo(a.HasCircularPattern))
	t.keyValue("Max depth", fmt.Sprintf("%d", a.MaxDepth))
	t.keyValue("Branching", fmt.Sprintf("%.2f", a.AverageBranching))
	t.keyValue("Components", fmt.Sprintf("%d", a.ConnectedComponents))
	t.keyValue("Direction", a.PreferredDirection)
	t.keyValue("Complexity", fmt.Sprintf("%.2f (%s)", a.ComplexityScore, a.Tier()))

	if len(a.NodeTypeDistribution) > 0 {
		t.blank()
		t.title("Node types")
		for _, typ := range slices.Sorted(maps.Keys(a.NodeTypeDistribution)) {
			t.keyValue(typ, fmt.Sprintf("%d", a.NodeTypeDistribution[typ]))
		}
	}
	if a.Process != nil {
		t.blank()
		printProcess(t, a.Process)
	}
}

func printProcess(t *terminal, p *analyzer.Process) {
	t.title("Process")
	t.keyValue("Type", fmt.Sprintf("%s (%.0f%%)", p.PrimaryType, p.Confidence*100))
	t.keyValue("Complexity", fmt.Sprintf("%d (%s)", p.Complexity, p.Tier()))
	if len(p.Characteristics) > 0 {
		t.keyValue("Traits", strings.Join(p.Characteristics, ", "))
	}
}

func printReview(t *terminal, rv *engine.Review) {
	if rv.Analysis.Process != nil {
		printProcess(t, rv.Analysis.Process)
		t.blank()
	}
	t.title("Layout")
	t.keyValue("Score", qualityStyle(rv.Evaluation.Score).Render(fmt.Sprintf("%.2f", rv.Evaluation.Score)))
	if len(rv.Fixes) == 0 {
		t.success("No layout issues found")
		return
	}
	t.blank()
	t.title("Fixes")
	for _, f := range rv.Fixes {
		fmt.Fprintf(t.w, "%s %s %s\n",
			StyleNumber.Render(fmt.Sprintf("[%d]", f.Priority)),
			StyleHighlight.Render(string(f.Issue)),
			f.Title)
		if f.Description != "" {
			t.detail("%s", f.Description)
		}
	}
}

func printSuggestions(t *terminal, out []engine.Suggestion) {
	if len(out) == 0 {
		t.warn("No algorithm produced a layout")
		return
	}
	for i, s := range out {
		fmt.Fprintf(t.w, "%s %s %s\n",
			StyleDim.Render(fmt.Sprintf("%d.", i+1)),
			StyleHighlight.Render(string(s.Algorithm)),
			StyleNumber.Render(fmt.Sprintf("%.0f%%", s.Confidence*100)))
		t.detail("%s", s.Reason)
		if len(s.Benefits) > 0 {
			t.detail("%s", strings.Join(s.Benefits, ", "))
		}
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
