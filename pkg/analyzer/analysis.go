package analyzer

// Direction values reported as [Analysis.PreferredDirection].
const (
	DirectionTB = "TB"
	DirectionLR = "LR"
)

// ComplexityTier buckets a [Analysis.ComplexityScore].
type ComplexityTier string

const (
	TierSimple  ComplexityTier = "simple"
	TierMedium  ComplexityTier = "medium"
	TierComplex ComplexityTier = "complex"
)

// Tier returns the tier for a complexity score: simple below 0.3, medium
// below 0.6, complex otherwise.
func Tier(score float64) ComplexityTier {
	switch {
	case score < 0.3:
		return TierSimple
	case score < 0.6:
		return TierMedium
	default:
		return TierComplex
	}
}

// Analysis is a read-only structural report on a graph snapshot.
// It is recomputed on demand; callers cache it by [graph.Graph.Hash].
type Analysis struct {
	NodeCount          int  `json:"nodeCount" yaml:"nodeCount"`
	EdgeCount          int  `json:"edgeCount" yaml:"edgeCount"`
	IsTree             bool `json:"isTree" yaml:"isTree"`
	IsHierarchical     bool `json:"isHierarchical" yaml:"isHierarchical"`
	HasCycles          bool `json:"hasCycles" yaml:"hasCycles"`
	HasCircularPattern bool `json:"hasCircularPattern" yaml:"hasCircularPattern"`
	MaxDepth           int  `json:"maxDepth" yaml:"maxDepth"`

	AverageBranching float64 `json:"averageBranching" yaml:"averageBranching"`

	// ConnectedComponents counts forward-traversal trees needed to cover
	// every node. Two nodes joined only by an edge pointing back at an
	// earlier start are counted apart; see Topology.WeakComponents for the
	// direction-blind count.
	ConnectedComponents int `json:"connectedComponents" yaml:"connectedComponents"`

	PreferredDirection   string         `json:"preferredDirection" yaml:"preferredDirection"`
	ComplexityScore      float64        `json:"complexityScore" yaml:"complexityScore"`
	NodeTypeDistribution map[string]int `json:"nodeTypeDistribution" yaml:"nodeTypeDistribution"`
	Topology             Topology       `json:"topologyFeatures" yaml:"topologyFeatures"`
	Process              *Process       `json:"process" yaml:"process"`
}

// Tier returns the complexity tier of the analysed graph.
func (a *Analysis) Tier() ComplexityTier { return Tier(a.ComplexityScore) }

// Topology holds degree and path features of a graph.
//
// LongestPath, MaxWidth and CriticalPaths come from forward Kahn relaxation.
// Nodes that never reach zero in-degree (on or behind a cycle) take no part
// in them.
type Topology struct {
	InDegreeDistribution  []int      `json:"inDegreeDistribution" yaml:"inDegreeDistribution"`
	OutDegreeDistribution []int      `json:"outDegreeDistribution" yaml:"outDegreeDistribution"`
	LongestPath           int        `json:"longestPath" yaml:"longestPath"`
	MaxWidth              int        `json:"maxWidth" yaml:"maxWidth"`
	IsDAG                 bool       `json:"isDAG" yaml:"isDAG"`
	SCCs                  [][]string `json:"stronglyConnectedComponents" yaml:"stronglyConnectedComponents"`
	CriticalPaths         [][]string `json:"criticalPaths" yaml:"criticalPaths"`
	WeakComponents        int        `json:"weakComponents" yaml:"weakComponents"`
}
