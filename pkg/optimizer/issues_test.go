package optimizer

import (
	"slices"
	"testing"

	"github.com/matzehuels/flowlayout/pkg/graph"
	"github.com/matzehuels/flowlayout/pkg/graph/graphtest"
	"github.com/matzehuels/flowlayout/pkg/layout"
)

func kinds(issues []Issue) []IssueKind {
	out := make([]IssueKind, len(issues))
	for i, is := range issues {
		out[i] = is.Kind
	}
	return out
}

func issueOf(t *testing.T, issues []Issue, k IssueKind) Issue {
	t.Helper()
	i := slices.IndexFunc(issues, func(is Issue) bool { return is.Kind == k })
	if i < 0 {
		t.Fatalf("no %s issue in %v", k, kinds(issues))
	}
	return issues[i]
}

func TestDetectIssues_CleanGrid(t *testing.T) {
	g := graphtest.Build([]string{"a", "b", "c", "d"})
	pos := map[string]layout.Position{
		"a": {X: 0, Y: 0}, "b": {X: 100, Y: 0},
		"c": {X: 0, Y: 100}, "d": {X: 100, Y: 100},
	}
	if got := DetectIssues(g, pos); len(got) != 0 {
		t.Errorf("DetectIssues() = %v, want none", kinds(got))
	}
}

func TestDetectIssues_Overlap(t *testing.T) {
	tests := []struct {
		name string
		b    layout.Position
		want Severity
	}{
		{"stacked", layout.Position{}, SeverityCritical},
		{"touching", layout.Position{X: 30}, SeverityHigh},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := graphtest.Build([]string{"a", "b"})
			is := issueOf(t, DetectIssues(g, map[string]layout.Position{"a": {}, "b": tt.b}), IssueOverlap)
			if is.Severity != tt.want {
				t.Errorf("Severity = %s, want %s", is.Severity, tt.want)
			}
			if !slices.Equal(is.Nodes, []string{"a", "b"}) || is.Count != 1 || !is.AutoFixable {
				t.Errorf("issue = %+v", is)
			}
		})
	}
}

func TestDetectIssues_SpacingExcludesOverlap(t *testing.T) {
	g := graphtest.Build([]string{"a", "b"})
	issues := DetectIssues(g, map[string]layout.Position{"a": {}, "b": {X: 45}})
	if !slices.Equal(kinds(issues), []IssueKind{IssueSpacing}) {
		t.Errorf("kinds = %v, want [spacing]", kinds(issues))
	}
}

func TestDetectIssues_Alignment(t *testing.T) {
	g := graphtest.Build([]string{"a", "b"})
	tests := []struct {
		name string
		b    layout.Position
		want bool
	}{
		{"exact row", layout.Position{X: 200}, false},
		{"rounding noise", layout.Position{X: 200, Y: 1e-12}, false},
		{"slightly off", layout.Position{X: 200, Y: 3}, true},
		{"clearly apart", layout.Position{X: 200, Y: 80}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := Evaluate(g, map[string]layout.Position{"a": {}, "b": tt.b})
			if got := ev.Has(IssueAlignment); got != tt.want {
				t.Errorf("Has(alignment) = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDetectIssues_Hierarchy(t *testing.T) {
	g := graphtest.Build([]string{"a", "b", "c", "d"},
		[2]string{"a", "b"}, [2]string{"b", "c"}, [2]string{"a", "d"})
	pos := map[string]layout.Position{
		"a": {X: 0, Y: 0}, "b": {X: 0, Y: 100}, "c": {X: 0, Y: 200}, "d": {X: 50, Y: -100},
	}

	is := issueOf(t, DetectIssues(g, pos), IssueHierarchy)
	if is.Count != 1 || !slices.Equal(is.Nodes, []string{"a", "d"}) {
		t.Errorf("issue = %+v, want a->d against the flow", is)
	}
	if is.Severity != SeverityMedium {
		t.Errorf("Severity = %s, want medium", is.Severity)
	}

	// back edges are expected once the graph loops
	g.Edges = append(g.Edges, graph.Edge{Source: "c", Target: "a"})
	if Evaluate(g, pos).Has(IssueHierarchy) {
		t.Error("cyclic graph reported a hierarchy issue")
	}
}

func TestDetectIssues_Crossing(t *testing.T) {
	g := graphtest.Build([]string{"a", "b", "c", "d"},
		[2]string{"a", "d"}, [2]string{"b", "c"})
	pos := map[string]layout.Position{
		"a": {X: 0, Y: 0}, "b": {X: 100, Y: 0},
		"c": {X: 0, Y: 100}, "d": {X: 100, Y: 100},
	}

	is := issueOf(t, DetectIssues(g, pos), IssueCrossing)
	if is.Count != 1 || is.Severity != SeverityLow || is.AutoFixable {
		t.Errorf("issue = %+v", is)
	}
	if !slices.Equal(is.Nodes, []string{"a", "b", "c", "d"}) {
		t.Errorf("Nodes = %v", is.Nodes)
	}
}

func TestDetectIssues_Balance(t *testing.T) {
	g := graphtest.Build([]string{"a", "b", "c", "d", "e"})
	pos := map[string]layout.Position{
		"a": {X: 0, Y: 0}, "b": {X: 10, Y: 0}, "c": {X: 20, Y: 0}, "d": {X: 30, Y: 0}, "e": {X: 1000, Y: 0},
	}
	if !Evaluate(g, pos).Has(IssueBalance) {
		t.Error("lopsided row not reported")
	}

	pos["e"] = layout.Position{X: 40}
	if Evaluate(g, pos).Has(IssueBalance) {
		t.Error("even row reported as unbalanced")
	}
}

func TestFixes(t *testing.T) {
	issues := []Issue{
		{Kind: IssueAlignment, Severity: SeverityLow, Description: "1 node pairs are slightly out of line"},
		{Kind: IssueCrossing, Severity: SeverityHigh, Description: "7 edge crossings", Suggestion: "use a layered layout"},
		{Kind: IssueOverlap, Severity: SeverityCritical, Description: "2 node pairs overlap", AutoFixable: true},
		{Kind: IssueBalance, Severity: SeverityLow},
	}

	fixes := Fixes(issues)
	var got []IssueKind
	for _, f := range fixes {
		got = append(got, f.Issue)
	}
	want := []IssueKind{IssueOverlap, IssueCrossing, IssueAlignment, IssueBalance}
	if !slices.Equal(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
	if fixes[0].Priority != 10 || !fixes[0].AutoFixable || fixes[0].Title != "Fix 2 node pairs overlap" {
		t.Errorf("fixes[0] = %+v", fixes[0])
	}
	if fixes[1].Priority != 8 || fixes[1].Description != "use a layered layout" {
		t.Errorf("fixes[1] = %+v", fixes[1])
	}
	if fixes[2].Priority != 5 {
		t.Errorf("fixes[2].Priority = %d, want 5", fixes[2].Priority)
	}
}
