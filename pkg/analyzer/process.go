package analyzer

import (
	"slices"
	"strings"

	"github.com/matzehuels/flowlayout/pkg/dag"
	"github.com/matzehuels/flowlayout/pkg/dag/transform"
	"github.com/matzehuels/flowlayout/pkg/graph"
)

// ProcessType names the kind of business process a flowchart models.
type ProcessType string

const (
	ProcessApproval   ProcessType = "approval"
	ProcessDecision   ProcessType = "decision"
	ProcessSequential ProcessType = "sequential"
	ProcessParallel   ProcessType = "parallel"
	ProcessLoop       ProcessType = "loop"
	ProcessException  ProcessType = "exception"
	ProcessMixed      ProcessType = "mixed"
)

// Node type tags recognised as process patterns, matched case-insensitively.
var (
	decisionTypes  = []string{"decision", "condition"}
	forkTypes      = []string{"parallel", "fork"}
	exceptionTypes = []string{"exception", "error"}
	approvalTypes  = []string{"approval", "review"}
)

// Process complexity weights. The total is capped at 100.
const (
	nodeComplexity      = 10
	edgeComplexity      = 5
	decisionComplexity  = 20
	parallelComplexity  = 30
	loopComplexity      = 25
	exceptionComplexity = 15
	maxProcessScore     = 100
)

// ProcessPatterns flags the structures found in a flowchart.
type ProcessPatterns struct {
	HasDecisionPoints    bool `json:"hasDecisionPoints" yaml:"hasDecisionPoints"`
	HasParallelBranches  bool `json:"hasParallelBranches" yaml:"hasParallelBranches"`
	HasLoops             bool `json:"hasLoops" yaml:"hasLoops"`
	HasExceptionHandling bool `json:"hasExceptionHandling" yaml:"hasExceptionHandling"`
	HasApprovalFlow      bool `json:"hasApprovalFlow" yaml:"hasApprovalFlow"`
}

// Loop is an edge that closes a cycle.
type Loop struct {
	From string `json:"from" yaml:"from"`
	To   string `json:"to" yaml:"to"`
}

// Process recognises what a flowchart is for, as opposed to [Analysis] which
// describes its shape.
type Process struct {
	PrimaryType     ProcessType     `json:"primaryType" yaml:"primaryType"`
	Confidence      float64         `json:"confidence" yaml:"confidence"`
	Characteristics []string        `json:"characteristics" yaml:"characteristics"`
	Complexity      int             `json:"complexity" yaml:"complexity"`
	Patterns        ProcessPatterns `json:"patterns" yaml:"patterns"`

	// Forks are nodes that start parallel branches: fork-typed nodes and any
	// other non-decision node with more than one successor.
	Forks []string `json:"forks,omitempty" yaml:"forks,omitempty"`

	// Loops are the back edges found by depth-first search.
	Loops []Loop `json:"loops,omitempty" yaml:"loops,omitempty"`

	// EndPoints counts nodes without successors.
	EndPoints int `json:"endPoints" yaml:"endPoints"`
}

// Tier buckets the process score: complex above 70, medium above 40.
func (p *Process) Tier() ComplexityTier {
	switch {
	case p.Complexity > 70:
		return TierComplex
	case p.Complexity > 40:
		return TierMedium
	default:
		return TierSimple
	}
}

// AnalyzeProcess recognises the process patterns of g.
//
// The primary type is picked in this order: approval, mixed (decisions and
// parallel branches), decision, parallel, loop, exception, sequential.
// Confidence starts at 0.5 and grows with the evidence for that type.
func AnalyzeProcess(g *graph.Graph) *Process {
	return analyzeProcess(dag.New(g))
}

func analyzeProcess(ix *dag.Index) *Process {
	types := make(map[string]int)
	p := &Process{}
	for i := range ix.Len() {
		typ := strings.ToLower(ix.Node(i).Type)
		types[typ]++
		decision := slices.Contains(decisionTypes, typ)
		if slices.Contains(forkTypes, typ) || (!decision && len(distinct(ix.Children(i))) > 1) {
			p.Forks = append(p.Forks, ix.ID(i))
		}
	}
	for _, e := range transform.FindBackEdges(ix) {
		p.Loops = append(p.Loops, Loop{From: ix.ID(e.From), To: ix.ID(e.To)})
	}
	p.EndPoints = len(ix.Sinks())

	has := func(tags []string) bool {
		return slices.ContainsFunc(tags, func(t string) bool { return types[t] > 0 })
	}
	p.Patterns = ProcessPatterns{
		HasDecisionPoints:    has(decisionTypes),
		HasParallelBranches:  len(p.Forks) > 0,
		HasLoops:             len(p.Loops) > 0,
		HasExceptionHandling: has(exceptionTypes),
		HasApprovalFlow:      has(approvalTypes),
	}

	p.Complexity = processComplexity(ix.Len(), ix.EdgeCount(), p.Patterns)
	p.PrimaryType = primaryType(p.Patterns)
	p.Confidence = typeConfidence(p, types, ix)
	p.Characteristics = characteristics(p)
	return p
}

func distinct(slots []int) []int {
	out := slices.Clone(slots)
	slices.Sort(out)
	return slices.Compact(out)
}

func processComplexity(nodes, edges int, pt ProcessPatterns) int {
	score := nodes*nodeComplexity + edges*edgeComplexity
	if pt.HasDecisionPoints {
		score += decisionComplexity
	}
	if pt.HasParallelBranches {
		score += parallelComplexity
	}
	if pt.HasLoops {
		score += loopComplexity
	}
	if pt.HasExceptionHandling {
		score += exceptionComplexity
	}
	return min(score, maxProcessScore)
}

func primaryType(pt ProcessPatterns) ProcessType {
	switch {
	case pt.HasApprovalFlow:
		return ProcessApproval
	case pt.HasDecisionPoints && pt.HasParallelBranches:
		return ProcessMixed
	case pt.HasDecisionPoints:
		return ProcessDecision
	case pt.HasParallelBranches:
		return ProcessParallel
	case pt.HasLoops:
		return ProcessLoop
	case pt.HasExceptionHandling:
		return ProcessException
	default:
		return ProcessSequential
	}
}

func typeConfidence(p *Process, types map[string]int, ix *dag.Index) float64 {
	c := 0.5
	switch p.PrimaryType {
	case ProcessApproval:
		if types["approval"] > 0 {
			c += 0.3
		}
		if types["review"] > 0 {
			c += 0.2
		}
	case ProcessDecision:
		if types["decision"] > 0 {
			c += 0.3
		}
		c += 0.2
	case ProcessMixed:
		c += 0.4
	case ProcessParallel:
		c += 0.1 * float64(len(p.Forks))
	case ProcessLoop:
		c += 0.25 * float64(len(p.Loops))
	case ProcessException:
		if types["exception"] > 0 {
			c += 0.3
		}
		if types["error"] > 0 {
			c += 0.2
		}
	case ProcessSequential:
		if ix.Len() > 0 {
			linear := 0
			for i := range ix.Len() {
				if ix.InDegree(i) <= 1 && ix.OutDegree(i) <= 1 {
					linear++
				}
			}
			c += 0.5 * float64(linear) / float64(ix.Len())
		}
	}
	return min(c, 1)
}

func characteristics(p *Process) []string {
	var out []string
	switch p.Tier() {
	case TierComplex:
		out = append(out, "high complexity process")
	case TierMedium:
		out = append(out, "medium complexity process")
	default:
		out = append(out, "simple process")
	}
	if p.Patterns.HasDecisionPoints {
		out = append(out, "contains decision points")
	}
	if p.Patterns.HasParallelBranches {
		out = append(out, "contains parallel branches")
	}
	if p.Patterns.HasLoops {
		out = append(out, "contains loops")
	}
	if p.Patterns.HasExceptionHandling {
		out = append(out, "contains exception handling")
	}
	if p.Patterns.HasApprovalFlow {
		out = append(out, "contains an approval flow")
	}
	if p.EndPoints > 1 {
		out = append(out, "has multiple end points")
	}
	return out
}
