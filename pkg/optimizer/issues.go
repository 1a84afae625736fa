package optimizer

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"github.com/matzehuels/flowlayout/pkg/dag"
	"github.com/matzehuels/flowlayout/pkg/dag/transform"
	"github.com/matzehuels/flowlayout/pkg/graph"
	"github.com/matzehuels/flowlayout/pkg/layout"
)

// IssueKind names a class of layout problem.
type IssueKind string

const (
	IssueOverlap   IssueKind = "overlap"
	IssueCrossing  IssueKind = "crossing"
	IssueSpacing   IssueKind = "spacing"
	IssueAlignment IssueKind = "alignment"
	IssueHierarchy IssueKind = "hierarchy"
	IssueBalance   IssueKind = "balance"
)

// Severity ranks an [Issue].
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Detection thresholds, in layout units.
const (
	// Two centres closer than this box overlap.
	overlapWidth  = 40.0
	overlapHeight = 20.0

	// Centres closer than this still read as cramped.
	crampedDistance = 50.0

	// Offsets in (alignEpsilon, alignTolerance) look like a missed alignment.
	alignEpsilon   = 0.5
	alignTolerance = 5.0

	// Centroid offset from the bounds centre, as a share of the span, above
	// which a layout is lopsided.
	balanceTolerance = 0.25
)

// Issue is one detected layout problem. Issues of the same kind are reported
// together; Nodes lists every node involved, sorted.
type Issue struct {
	Kind        IssueKind `json:"kind" yaml:"kind"`
	Severity    Severity  `json:"severity" yaml:"severity"`
	Count       int       `json:"count" yaml:"count"`
	Description string    `json:"description" yaml:"description"`
	Nodes       []string  `json:"nodes,omitempty" yaml:"nodes,omitempty"`
	Suggestion  string    `json:"suggestion" yaml:"suggestion"`
	AutoFixable bool      `json:"autoFixable" yaml:"autoFixable"`
}

// placed is a node with a position, in graph order.
type placed struct {
	id string
	p  layout.Position
}

func placedNodes(g *graph.Graph, positions map[string]layout.Position) []placed {
	ids := g.NodeIDs()
	out := make([]placed, 0, len(ids))
	for _, id := range ids {
		if p, ok := positions[id]; ok {
			out = append(out, placed{id: id, p: p})
		}
	}
	return out
}

// DetectIssues inspects positions for g and returns at most one issue per
// kind, in the order overlap, crossing, spacing, alignment, hierarchy,
// balance.
func DetectIssues(g *graph.Graph, positions map[string]layout.Position) []Issue {
	return detectIssues(g, placedNodes(g, positions), segments(g, positions))
}

func detectIssues(g *graph.Graph, nodes []placed, segs []segment) []Issue {
	var out []Issue
	for _, detect := range []func() *Issue{
		func() *Issue { return overlapIssue(nodes) },
		func() *Issue { return crossingIssue(segs) },
		func() *Issue { return spacingIssue(nodes) },
		func() *Issue { return alignmentIssue(nodes) },
		func() *Issue { return hierarchyIssue(g, segs) },
		func() *Issue { return balanceIssue(nodes) },
	} {
		if is := detect(); is != nil {
			out = append(out, *is)
		}
	}
	return out
}

// nodeSet collects ids and returns them sorted and unique.
type nodeSet map[string]struct{}

func (s nodeSet) add(ids ...string) {
	for _, id := range ids {
		s[id] = struct{}{}
	}
}

func (s nodeSet) sorted() []string {
	out := make([]string, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

func overlapIssue(nodes []placed) *Issue {
	involved := nodeSet{}
	pairs, stacked := 0, false
	for i := range nodes {
		for j := i + 1; j < len(nodes); j++ {
			a, b := nodes[i].p, nodes[j].p
			if math.Abs(a.X-b.X) < overlapWidth && math.Abs(a.Y-b.Y) < overlapHeight {
				pairs++
				involved.add(nodes[i].id, nodes[j].id)
				stacked = stacked || math.Hypot(a.X-b.X, a.Y-b.Y) < 1
			}
		}
	}
	if pairs == 0 {
		return nil
	}
	sev := SeverityHigh
	if stacked {
		sev = SeverityCritical
	}
	return &Issue{
		Kind:        IssueOverlap,
		Severity:    sev,
		Count:       pairs,
		Description: fmt.Sprintf("%d node pairs overlap", pairs),
		Nodes:       involved.sorted(),
		Suggestion:  "increase node spacing or re-run a layout",
		AutoFixable: true,
	}
}

func crossingIssue(segs []segment) *Issue {
	pairs := crossingPairs(segs)
	if len(pairs) == 0 {
		return nil
	}
	involved := nodeSet{}
	for _, pr := range pairs {
		a, b := segs[pr[0]], segs[pr[1]]
		involved.add(a.from, a.to, b.from, b.to)
	}
	sev := SeverityLow
	switch {
	case len(pairs) > 5:
		sev = SeverityHigh
	case len(pairs) > 2:
		sev = SeverityMedium
	}
	return &Issue{
		Kind:        IssueCrossing,
		Severity:    sev,
		Count:       len(pairs),
		Description: fmt.Sprintf("%d edge crossings", len(pairs)),
		Nodes:       involved.sorted(),
		Suggestion:  "use a layered layout or reorder nodes within their layers",
	}
}

// spacingIssue reports pairs that are too close for comfort without
// overlapping outright.
func spacingIssue(nodes []placed) *Issue {
	involved := nodeSet{}
	pairs := 0
	for i := range nodes {
		for j := i + 1; j < len(nodes); j++ {
			a, b := nodes[i].p, nodes[j].p
			if math.Abs(a.X-b.X) < overlapWidth && math.Abs(a.Y-b.Y) < overlapHeight {
				continue
			}
			if math.Hypot(a.X-b.X, a.Y-b.Y) < crampedDistance {
				pairs++
				involved.add(nodes[i].id, nodes[j].id)
			}
		}
	}
	if pairs == 0 {
		return nil
	}
	return &Issue{
		Kind:        IssueSpacing,
		Severity:    SeverityMedium,
		Count:       pairs,
		Description: fmt.Sprintf("%d node pairs are closer than %.0f", pairs, crampedDistance),
		Nodes:       involved.sorted(),
		Suggestion:  "increase node or level spacing",
		AutoFixable: true,
	}
}

// alignmentIssue reports pairs that sit almost, but not exactly, on the same
// row or column.
func alignmentIssue(nodes []placed) *Issue {
	near := func(d float64) bool {
		d = math.Abs(d)
		return d > alignEpsilon && d < alignTolerance
	}
	involved := nodeSet{}
	pairs := 0
	for i := range nodes {
		for j := i + 1; j < len(nodes); j++ {
			a, b := nodes[i].p, nodes[j].p
			if near(a.X-b.X) || near(a.Y-b.Y) {
				pairs++
				involved.add(nodes[i].id, nodes[j].id)
			}
		}
	}
	if pairs == 0 {
		return nil
	}
	return &Issue{
		Kind:        IssueAlignment,
		Severity:    SeverityLow,
		Count:       pairs,
		Description: fmt.Sprintf("%d node pairs are slightly out of line", pairs),
		Nodes:       involved.sorted(),
		Suggestion:  "snap nodes to a shared row or column",
		AutoFixable: true,
	}
}

// hierarchyIssue reports edges of an acyclic graph that run against the
// dominant flow direction. The dominant axis is the one along which the
// summed edge vectors travel furthest.
func hierarchyIssue(g *graph.Graph, segs []segment) *Issue {
	if len(segs) == 0 || !transform.IsAcyclic(dag.New(g)) {
		return nil
	}
	var sx, sy float64
	for _, s := range segs {
		sx += s.q.X - s.p.X
		sy += s.q.Y - s.p.Y
	}
	along := func(s segment) float64 { return s.q.Y - s.p.Y }
	total := sy
	if math.Abs(sx) > math.Abs(sy) {
		along = func(s segment) float64 { return s.q.X - s.p.X }
		total = sx
	}
	if math.Abs(total) < alignTolerance {
		return nil
	}

	involved := nodeSet{}
	backward := 0
	for _, s := range segs {
		if d := along(s); d*total < 0 && math.Abs(d) > alignTolerance {
			backward++
			involved.add(s.from, s.to)
		}
	}
	if backward == 0 {
		return nil
	}
	sev := SeverityMedium
	if 2*backward > len(segs) {
		sev = SeverityHigh
	}
	return &Issue{
		Kind:        IssueHierarchy,
		Severity:    sev,
		Count:       backward,
		Description: fmt.Sprintf("%d edges run against the flow direction", backward),
		Nodes:       involved.sorted(),
		Suggestion:  "use the hierarchical or tree layout",
	}
}

func balanceIssue(nodes []placed) *Issue {
	if len(nodes) < 3 {
		return nil
	}
	pos := make(map[string]layout.Position, len(nodes))
	var cx, cy float64
	for _, n := range nodes {
		pos[n.id] = n.p
		cx += n.p.X
		cy += n.p.Y
	}
	cx /= float64(len(nodes))
	cy /= float64(len(nodes))

	b := layout.ComputeBounds(pos)
	offset := 0.0
	if b.Width > 0 {
		offset = max(offset, math.Abs(cx-(b.MinX+b.Width/2))/b.Width)
	}
	if b.Height > 0 {
		offset = max(offset, math.Abs(cy-(b.MinY+b.Height/2))/b.Height)
	}
	if offset <= balanceTolerance {
		return nil
	}
	return &Issue{
		Kind:        IssueBalance,
		Severity:    SeverityLow,
		Count:       1,
		Description: fmt.Sprintf("nodes cluster %.0f%% off centre", offset*100),
		Suggestion:  "spread nodes evenly or centre the layout",
		AutoFixable: true,
	}
}

// =============================================================================
// Fixes
// =============================================================================

// Fix is a recommended action for one [Issue].
type Fix struct {
	Issue       IssueKind `json:"issue" yaml:"issue"`
	Priority    int       `json:"priority" yaml:"priority"`
	Title       string    `json:"title" yaml:"title"`
	Description string    `json:"description" yaml:"description"`
	AutoFixable bool      `json:"autoFixable" yaml:"autoFixable"`
}

// priority maps a severity onto 1-10: critical 10, high 8, otherwise 5.
func priority(s Severity) int {
	switch s {
	case SeverityCritical:
		return 10
	case SeverityHigh:
		return 8
	default:
		return 5
	}
}

// Fixes turns issues into fixes, highest priority first. Equal priorities
// keep the issue order.
func Fixes(issues []Issue) []Fix {
	out := make([]Fix, len(issues))
	for i, is := range issues {
		out[i] = Fix{
			Issue:       is.Kind,
			Priority:    priority(is.Severity),
			Title:       "Fix " + is.Description,
			Description: is.Suggestion,
			AutoFixable: is.AutoFixable,
		}
	}
	slices.SortStableFunc(out, func(a, b Fix) int { return cmp.Compare(b.Priority, a.Priority) })
	return out
}
