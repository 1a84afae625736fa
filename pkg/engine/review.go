package engine

import (
	"context"

	"github.com/matzehuels/flowlayout/pkg/analyzer"
	"github.com/matzehuels/flowlayout/pkg/graph"
	"github.com/matzehuels/flowlayout/pkg/optimizer"
)

// Review reports what a graph is and what is wrong with how it is drawn now.
type Review struct {
	Analysis   *analyzer.Analysis   `json:"analysis" yaml:"analysis"`
	Evaluation optimizer.Evaluation `json:"evaluation" yaml:"evaluation"`
	Fixes      []optimizer.Fix      `json:"fixes" yaml:"fixes"`
}

// Review analyses g, rates the coordinates carried on its nodes and lists
// fixes for the issues found, highest priority first. Nothing is laid out or
// committed.
func (e *Engine) Review(ctx context.Context, g *graph.Graph) (*Review, error) {
	an, err := e.Analyze(ctx, g)
	if err != nil {
		return nil, err
	}
	// analyses cached before process recognition existed carry none
	if an.Process == nil {
		an.Process = analyzer.AnalyzeProcess(g)
	}
	ev :=optimizer.Evaluate(g, currentPositions(g))
	fixes := optimizer.Fixes(ev.Issues)
	e.logger.Debug("graph reviewed",
		"process", an.Process.PrimaryType,
		"score", ev.Score,
		"issues", len(ev.Issues))
	return &Review{Analysis: an, Evaluation: ev, Fixes: fixes}, nil
}
