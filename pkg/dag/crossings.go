package dag

// CountCrossings returns the total number of edge crossings for the given
// layer orderings. It sums the crossings between each pair of consecutive
// layers. Each layer lists slots in left-to-right order.
//
// Example:
//
//	layers := [][]int{
//	    {0},       // start
//	    {1, 2},    // a, b
//	    {3},       // end
//	}
//	crossings := dag.CountCrossings(ix, layers)
//
// This is used during crossing reduction to decide when a sweep no longer
// improves the ordering, and by the analyzer to score layered drawings.
func CountCrossings(ix *Index, layers [][]int) int {
	crossings := 0
	for i := 0; i+1 < len(layers); i++ {
		crossings += CountLayerCrossings(ix, layers[i], layers[i+1])
	}
	return crossings
}

// CountLayerCrossings counts edge crossings between two adjacent layers using a
// Fenwick tree (binary indexed tree) for O(E log V) performance where E is the
// number of edges between the layers and V is the number of nodes in the lower
// layer.
//
// Edges are considered in both directions: an edge from the lower layer back
// up to the upper layer is treated like a downward edge between the same pair.
//
// Two edges (u1,v1) and (u2,v2) cross if and only if:
//
//	pos(u1) < pos(u2) AND pos(v1) > pos(v2)
//
// Returns 0 if either layer is empty, as no crossings can exist without edges.
func CountLayerCrossings(ix *Index, upper, lower []int) int {
	if len(upper) == 0 || len(lower) == 0 {
		return 0
	}

	lowerPos := PosMap(lower)

	// targets[i] holds lower-layer positions reached from upper[i], ascending.
	targets := make([][]int, len(upper))
	for i, u := range upper {
		for _, child := range ix.Children(u) {
			if pos, ok := lowerPos[child]; ok {
				targets[i] = append(targets[i], pos)
			}
		}
		for _, parent := range ix.Parents(u) {
			if pos, ok := lowerPos[parent]; ok {
				targets[i] = append(targets[i], pos)
			}
		}
	}

	fenwick := make([]int, len(lower)+1)
	crossings, total := 0, 0
	for _, ts := range targets {
		// Query every edge of this source before inserting any of them, so
		// edges that share a source never count as crossing each other.
		for _, t := range ts {
			lessOrEqual := 0
			for q := t + 1; q > 0; q -= q & (-q) {
				lessOrEqual += fenwick[q]
			}
			crossings += total - lessOrEqual
		}
		for _, t := range ts {
			total++
			for idx := t + 1; idx < len(fenwick); idx += idx & (-idx) {
				fenwick[idx]++
			}
		}
	}
	return crossings
}

// CountPairCrossings counts how many crossings the edges of left and right
// produce against an adjacent layer when left is placed before right. The
// adjPos map gives positions in the adjacent layer; neighbours outside it are
// ignored.
//
// Comparing CountPairCrossings(l, r) with CountPairCrossings(r, l) tells a
// local search whether swapping two adjacent nodes would reduce crossings.
func CountPairCrossings(ix *Index, left, right int, adjPos map[int]int) int {
	lnbr := ix.Neighbors(left)
	rnbr := ix.Neighbors(right)

	crossings := 0
	for _, ln := range lnbr {
		lp, ok := adjPos[ln]
		if !ok {
			continue
		}
		for _, rn := range rnbr {
			// If left's neighbor is to the right of right's neighbor, they cross
			if rp, ok := adjPos[rn]; ok && lp > rp {
				crossings++
			}
		}
	}
	return crossings
}
