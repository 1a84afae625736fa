package engine

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/matzehuels/flowlayout/pkg/analyzer"
	"github.com/matzehuels/flowlayout/pkg/errors"
	"github.com/matzehuels/flowlayout/pkg/graph"
	"github.com/matzehuels/flowlayout/pkg/layout"
	"github.com/matzehuels/flowlayout/pkg/optimizer"
)

// Suggestion scoring weights.
const (
	categoryBonus       = 0.4
	tierBonus           = 0.3
	processBonus        = 0.2
	resolvedBonus       = 0.1
	improvementWeight   = 0.3
	maxSuggestions      = 5
	sparseComponentRate = 2 // components > nodes/rate counts as scattered
)

// Suggestion recommends one algorithm for a graph.
type Suggestion struct {
	Algorithm  layout.AlgorithmName `json:"algorithm" yaml:"algorithm"`
	Config     layout.Config        `json:"config" yaml:"config"`
	Confidence float64              `json:"confidence" yaml:"confidence"`
	Reason     string               `json:"reason" yaml:"reason"`
	Benefits   []string             `json:"benefits,omitempty" yaml:"benefits,omitempty"`

	// BeforeScore rates the graph's current node coordinates; AfterScore
	// rates a preview of the suggested layout.
	BeforeScore float64 `json:"beforeScore" yaml:"beforeScore"`
	AfterScore  float64 `json:"afterScore" yaml:"afterScore"`

	// Resolves lists the issue kinds of the current coordinates that the
	// preview no longer has.
	Resolves []optimizer.IssueKind `json:"resolves,omitempty" yaml:"resolves,omitempty"`
}

// preferredTier is the complexity tier each built-in algorithm handles best.
var preferredTier = map[layout.AlgorithmName]analyzer.ComplexityTier{
	layout.NameTree:         analyzer.TierSimple,
	layout.NameCircular:     analyzer.TierSimple,
	layout.NameGrid:         analyzer.TierSimple,
	layout.NameHierarchical: analyzer.TierMedium,
	layout.NameForce:        analyzer.TierComplex,
}

// processFit lists the algorithms that draw each kind of process well.
var processFit = map[analyzer.ProcessType][]layout.AlgorithmName{
	analyzer.ProcessApproval:   {layout.NameHierarchical, layout.NameTree},
	analyzer.ProcessDecision:   {layout.NameHierarchical, layout.NameTree},
	analyzer.ProcessSequential: {layout.NameHierarchical, layout.NameTree},
	analyzer.ProcessException:  {layout.NameHierarchical, layout.NameTree},
	analyzer.ProcessParallel:   {layout.NameHierarchical, layout.NameTree},
	analyzer.ProcessMixed:      {layout.NameHierarchical},
	analyzer.ProcessLoop:       {layout.NameCircular, layout.NameForce},
}

// category reports whether the analysed topology is the kind of graph the
// algorithm is meant for, and a short description of it.
func category(name layout.AlgorithmName, a *analyzer.Analysis) (bool, string) {
	switch name {
	case layout.NameHierarchical:
		return a.IsHierarchical, "the graph is a rooted DAG"
	case layout.NameTree:
		return a.IsTree, "the graph is a tree"
	case layout.NameCircular:
		return a.HasCircularPattern, "the graph is a small cyclic flow"
	case layout.NameGrid:
		scattered := a.NodeCount > 0 && (a.EdgeCount == 0 || a.ConnectedComponents > a.NodeCount/sparseComponentRate)
		return scattered, "the graph is loosely connected"
	case layout.NameForce:
		return a.HasCycles && a.NodeCount > analyzer.CircularPatternLimit, "the graph is large and cyclic"
	}
	return false, ""
}

// Suggestions ranks the registered algorithms for g.
//
// Each algorithm's confidence is 0.4 when the topology matches its category,
// plus 0.3 when the complexity tier matches, plus 0.2 when it suits the
// recognised process type, plus 0.1 when its preview clears an issue of the
// graph's current coordinates, plus 0.3 times the score gain of the preview
// over those coordinates (never negative), capped at 1. The top five are
// returned, highest confidence first with ties broken by name. Algorithms
// whose preview fails are left out.
func (e *Engine) Suggestions(ctx context.Context, g *graph.Graph) ([]Suggestion, error) {
	if err := e.acquire(ctx); err != nil {
		return nil, err
	}
	defer e.release()

	an, err := e.Analyze(ctx, g)
	if err != nil {
		return nil, err
	}
	before := optimizer.Evaluate(g, currentPositions(g))
	tier := an.Tier()
	proc := an.Process

	var out []Suggestion
	for _, a := range e.Algorithms() {
		cfg := layout.Config{Algorithm: a.Name()}
		if a.Name() == layout.NameHierarchical || a.Name() == layout.NameTree {
			cfg.Direction = layout.Direction(an.PreferredDirection)
		}
		_, merged, err := e.resolve(cfg)
		if err != nil {
			return nil, err
		}

		res, err := e.compute(ctx, g, a, merged)
		if err != nil {
			if errors.Is(err, errors.ErrCodeCanceled) {
				return nil, err
			}
			e.logger.Debug("skipping suggestion", "algorithm", a.Name(), "err", err)
			continue
		}
		after := optimizer.Evaluate(g, res.NodePositions)
		resolves := resolved(before, after)

		var reasons []string
		confidence := 0.0
		if ok, why := category(a.Name(), an); ok {
			confidence += categoryBonus
			reasons = append(reasons, why)
		}
		if preferredTier[a.Name()] == tier {
			confidence += tierBonus
			reasons = append(reasons, fmt.Sprintf("its complexity is %s", tier))
		}
		if proc != nil && slices.Contains(processFit[proc.PrimaryType], a.Name()) {
			confidence += processBonus
			reasons = append(reasons, fmt.Sprintf("it suits a %s process", proc.PrimaryType))
		}
		if len(resolves) > 0 {
			confidence += resolvedBonus
		}
		confidence += max(after.Score-before.Score, 0) * improvementWeight
		if len(reasons) == 0 {
			reasons = append(reasons, fmt.Sprintf("a preview scores %.2f", after.Score))
		}

		out = append(out, Suggestion{
			Algorithm:   a.Name(),
			Config:      merged,
			Confidence:  min(confidence, 1),
			Reason:      strings.Join(reasons, "; "),
			Benefits:    benefits(before, after, resolves),
			BeforeScore: before.Score,
			AfterScore:  after.Score,
			Resolves:    resolves,
		})
	}

	slices.SortStableFunc(out, func(x, y Suggestion) int {
		if c := cmp.Compare(y.Confidence, x.Confidence); c != 0 {
			return c
		}
		return cmp.Compare(x.Algorithm, y.Algorithm)
	})
	if len(out) > maxSuggestions {
		out = out[:maxSuggestions]
	}
	return out, nil
}

// resolved returns the issue kinds present before and gone after, in
// detection order.
func resolved(before, after optimizer.Evaluation) []optimizer.IssueKind {
	var out []optimizer.IssueKind
	for _, is := range before.Issues {
		if !after.Has(is.Kind) {
			out = append(out, is.Kind)
		}
	}
	return out
}

// issueBenefits phrases a resolved issue kind as a benefit.
var issueBenefits = map[optimizer.IssueKind]string{
	optimizer.IssueOverlap:   "no overlapping nodes",
	optimizer.IssueSpacing:   "roomier spacing",
	optimizer.IssueAlignment: "cleaner alignment",
	optimizer.IssueHierarchy: "edges follow the flow",
	optimizer.IssueBalance:   "centred layout",
}

func benefits(before, after optimizer.Evaluation, resolves []optimizer.IssueKind) []string {
	var out []string
	for _, k := range resolves {
		if b, ok := issueBenefits[k]; ok {
			out = append(out, b)
		}
	}
	if after.Crossings < before.Crossings {
		out = append(out, "fewer edge crossings")
	}
	if after.Symmetry > before.Symmetry {
		out = append(out, "better balance")
	}
	if after.AreaEfficiency > before.AreaEfficiency {
		out = append(out, "more compact")
	}
	return out
}

// currentPositions reads the display hints carried on the nodes.
func currentPositions(g *graph.Graph) map[string]layout.Position {
	out := make(map[string]layout.Position, len(g.Nodes))
	for _, id := range g.NodeIDs() {
		n, _ := g.Node(id)
		out[id] = layout.Position{X: n.X, Y: n.Y}
	}
	return out
}
