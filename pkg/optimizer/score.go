package optimizer

import (
	"math"
	"slices"

	"github.com/matzehuels/flowlayout/pkg/graph"
	"github.com/matzehuels/flowlayout/pkg/layout"
)

// Scoring constants.
const (
	// idealCellArea is the area one node is expected to need.
	idealCellArea = 100 * 100

	// symmetryTolerance is how far two positions may be from mirror images
	// and still count as symmetric.
	symmetryTolerance = 10.0

	// edgeLengthScale normalises the average edge length penalty.
	edgeLengthScale = 200.0

	crossingPenalty   = 0.1
	symmetryBonus     = 0.1
	edgeLengthPenalty = 0.2
)

// Evaluation breaks a layout's score into its parts.
type Evaluation struct {
	Crossings      int           `json:"crossings" yaml:"crossings"`
	Bounds         layout.Bounds `json:"bounds" yaml:"bounds"`
	AreaEfficiency float64       `json:"areaEfficiency" yaml:"areaEfficiency"`
	Symmetry       float64       `json:"symmetry" yaml:"symmetry"`
	AvgEdgeLength  float64       `json:"avgEdgeLength" yaml:"avgEdgeLength"`
	Score          float64       `json:"score" yaml:"score"`
	Issues         []Issue       `json:"issues,omitempty" yaml:"issues,omitempty"`
}

// Has reports whether an issue of kind k was detected.
func (ev Evaluation) Has(k IssueKind) bool {
	return slices.ContainsFunc(ev.Issues, func(is Issue) bool { return is.Kind == k })
}

// Score rates positions for g in [0, 1]; higher is better.
func Score(g *graph.Graph, positions map[string]layout.Position) float64 {
	return Evaluate(g, positions).Score
}

// Evaluate measures positions for g and lists the issues [DetectIssues]
// finds in them. Issues do not change the score.
//
// The score starts at 1, loses 0.1 per edge crossing, is multiplied by the
// area efficiency, gains 0.1 times the symmetry ratio and loses up to 0.2 for
// long edges. The result is clamped to [0, 1].
func Evaluate(g *graph.Graph, positions map[string]layout.Position) Evaluation {
	segs := segments(g, positions)
	ev := Evaluation{
		Crossings: len(crossingPairs(segs)),
		Bounds:    layout.ComputeBounds(positions),
		Symmetry:  symmetry(g, positions),
	}

	ideal := float64(len(positions)) * idealCellArea
	area := ev.Bounds.Width * ev.Bounds.Height
	ev.AreaEfficiency = 1
	if ideal > 0 {
		ev.AreaEfficiency = ideal / math.Max(area, ideal)
	}

	if len(segs) > 0 {
		total := 0.0
		for _, s := range segs {
			total += math.Hypot(s.q.X-s.p.X, s.q.Y-s.p.Y)
		}
		ev.AvgEdgeLength = total / float64(len(segs))
	}

	q := 1.0
	q -= float64(ev.Crossings) * crossingPenalty
	q *= ev.AreaEfficiency
	q += ev.Symmetry * symmetryBonus
	q -= math.Min(ev.AvgEdgeLength/edgeLengthScale, 1) * edgeLengthPenalty
	ev.Score = math.Max(0, math.Min(1, q))
	ev.Issues = detectIssues(g, placedNodes(g, positions), segs)
	return ev
}

// segment is a drawn edge between two placed nodes.
type segment struct {
	from, to string
	p, q     layout.Position
}

// segments returns one straight segment per edge whose endpoints are both
// placed. Self loops are skipped.
func segments(g *graph.Graph, positions map[string]layout.Position) []segment {
	segs := make([]segment, 0, len(g.Edges))
	for i := range g.Edges {
		e := &g.Edges[i]
		if e.Source == e.Target {
			continue
		}
		p, ok := positions[e.Source]
		if !ok {
			continue
		}
		q, ok := positions[e.Target]
		if !ok {
			continue
		}
		segs = append(segs, segment{from: e.Source, to: e.Target, p: p, q: q})
	}
	return segs
}

// crossingPairs returns the index pairs of intersecting segments. Segments
// that share an endpoint node always touch there, so those pairs are left out.
func crossingPairs(segs []segment) [][2]int {
	var pairs [][2]int
	for i := range segs {
		for j := i + 1; j < len(segs); j++ {
			a, b := segs[i], segs[j]
			if a.from == b.from || a.from == b.to || a.to == b.from || a.to == b.to {
				continue
			}
			if intersects(a.p, a.q, b.p, b.q) {
				pairs = append(pairs, [2]int{i, j})
			}
		}
	}
	return pairs
}

// orientation returns 0 for collinear points, 1 for clockwise and 2 for
// counter-clockwise.
func orientation(p, q, r layout.Position) int {
	val := (q.Y-p.Y)*(r.X-q.X) - (q.X-p.X)*(r.Y-q.Y)
	switch {
	case val == 0:
		return 0
	case val > 0:
		return 1
	default:
		return 2
	}
}

// onSegment reports whether q lies within the box spanned by p and r.
func onSegment(p, q, r layout.Position) bool {
	return q.X <= math.Max(p.X, r.X) && q.X >= math.Min(p.X, r.X) &&
		q.Y <= math.Max(p.Y, r.Y) && q.Y >= math.Min(p.Y, r.Y)
}

func intersects(p1, q1, p2, q2 layout.Position) bool {
	o1 := orientation(p1, q1, p2)
	o2 := orientation(p1, q1, q2)
	o3 := orientation(p2, q2, p1)
	o4 := orientation(p2, q2, q1)

	if o1 != o2 && o3 != o4 {
		return true
	}

	return (o1 == 0 && onSegment(p1, p2, q1)) ||
		(o2 == 0 && onSegment(p1, q2, q1)) ||
		(o3 == 0 && onSegment(p2, p1, q2)) ||
		(o4 == 0 && onSegment(p2, q1, q2))
}

// symmetry is the share of node pairs that mirror each other across the
// vertical or horizontal line through the centroid. Nodes are visited in
// graph order so the floating-point sums are reproducible.
func symmetry(g *graph.Graph, positions map[string]layout.Position) float64 {
	ids := g.NodeIDs()
	pts := make([]layout.Position, 0, len(ids))
	for _, id := range ids {
		if p, ok := positions[id]; ok {
			pts = append(pts, p)
		}
	}
	if len(pts) < 2 {
		return 0
	}

	var cx, cy float64
	for _, p := range pts {
		cx += p.X
		cy += p.Y
	}
	cx /= float64(len(pts))
	cy /= float64(len(pts))

	matched, pairs := 0, 0
	for i := range pts {
		for j := i + 1; j < len(pts); j++ {
			a, b := pts[i], pts[j]
			horizontal := math.Abs(a.Y-b.Y) < symmetryTolerance &&
				math.Abs(math.Abs(a.X-cx)-math.Abs(b.X-cx)) < symmetryTolerance
			vertical := math.Abs(a.X-b.X) < symmetryTolerance &&
				math.Abs(math.Abs(a.Y-cy)-math.Abs(b.Y-cy)) < symmetryTolerance
			if horizontal || vertical {
				matched++
			}
			pairs++
		}
	}
	return float64(matched) / float64(pairs)
}
