package analyzer

import (
	"slices"

	"github.com/matzehuels/flowlayout/pkg/dag"
)

// maxCriticalPaths bounds the number of longest paths reported.
const maxCriticalPaths = 10

// =============================================================================
// Kahn walks
// =============================================================================

// longestPaths relaxes distance[child] = max(distance[child], distance[curr]+1)
// along the Kahn walk and returns the longest distance reached together with
// up to maxCriticalPaths paths that realise it.
func longestPaths(ix *dag.Index) (int, [][]string) {
	n := ix.Len()
	dist := make([]int, n)
	preds := make([][]int, n)

	longest := 0
	ix.Kahn(func(curr, child int, _ bool) {
		switch d := dist[curr] + 1; {
		case d > dist[child]:
			dist[child] = d
			preds[child] = append(preds[child][:0], curr)
		case d == dist[child] && !slices.Contains(preds[child], curr):
			preds[child] = append(preds[child], curr)
		}
		longest = max(longest, dist[child])
	})

	if longest == 0 {
		return 0, nil
	}

	var paths [][]string
	var walk func(node int, suffix []int)
	walk = func(node int, suffix []int) {
		if len(paths) >= maxCriticalPaths {
			return
		}
		suffix = append(suffix, node)
		if dist[node] == 0 {
			path := make([]string, len(suffix))
			for i, s := range suffix {
				path[len(suffix)-1-i] = ix.ID(s)
			}
			paths = append(paths, path)
			return
		}
		for _, p := range preds[node] {
			walk(p, slices.Clip(suffix))
		}
	}
	for end := range n {
		if dist[end] == longest {
			walk(end, nil)
		}
	}
	return longest, paths
}

// maxWidth assigns BFS levels along the same Kahn walk as longestPaths. A
// node takes the level after the parent that released it.
func maxWidth(ix *dag.Index) int {
	level := make([]int, ix.Len())
	order := ix.Kahn(func(curr, child int, released bool) {
		if released {
			level[child] = level[curr] + 1
		}
	})

	counts := map[int]int{}
	for _, s := range order {
		counts[level[s]]++
	}

	width := 0
	for _, c := range counts {
		width = max(width, c)
	}
	return width
}

// =============================================================================
// Components
// =============================================================================

// directedComponents counts the DFS trees needed to cover every node when
// only forward edges are followed. Starts are taken in slot order.
func directedComponents(ix *dag.Index) int {
	visited := make([]bool, ix.Len())
	count := 0
	for start := range ix.Len() {
		if visited[start] {
			continue
		}
		count++
		stack := []int{start}
		visited[start] = true
		for len(stack) > 0 {
			curr := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			for _, child := range ix.Children(curr) {
				if !visited[child] {
					visited[child] = true
					stack = append(stack, child)
				}
			}
		}
	}
	return count
}

// weakComponents counts connected components ignoring edge direction.
func weakComponents(ix *dag.Index) int {
	visited := make([]bool, ix.Len())
	count := 0
	for start := range ix.Len() {
		if visited[start] {
			continue
		}
		count++
		stack := []int{start}
		visited[start] = true
		for len(stack) > 0 {
			curr := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			for _, nb := range ix.Neighbors(curr) {
				if !visited[nb] {
					visited[nb] = true
					stack = append(stack, nb)
				}
			}
		}
	}
	return count
}

// tarjanState holds per-node state during Tarjan's DFS.
type tarjanState struct {
	index   int
	lowlink int
	onStack bool
}

// stronglyConnected finds SCCs with Tarjan's algorithm in O(V+E) time and
// returns those that contain a cycle: more than one member, or a self loop.
// Members are listed in slot order and components by their first member.
func stronglyConnected(ix *dag.Index) [][]string {
	n := ix.Len()
	state := make([]*tarjanState, n)
	var stack []int
	counter := 0
	var comps [][]int

	var strongconnect func(u int)
	strongconnect = func(u int) {
		state[u] = &tarjanState{index: counter, lowlink: counter, onStack: true}
		counter++
		stack = append(stack, u)

		for _, v := range ix.Children(u) {
			if state[v] == nil {
				strongconnect(v)
				state[u].lowlink = min(state[u].lowlink, state[v].lowlink)
			} else if state[v].onStack {
				state[u].lowlink = min(state[u].lowlink, state[v].index)
			}
		}

		// u is a root node: pop the stack to form an SCC
		if state[u].lowlink == state[u].index {
			var members []int
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				state[w].onStack = false
				members = append(members, w)
				if w == u {
					break
				}
			}
			if len(members) > 1 || slices.Contains(ix.Children(u), u) {
				slices.Sort(members)
				comps = append(comps, members)
			}
		}
	}

	for u := range n {
		if state[u] == nil {
			strongconnect(u)
		}
	}

	slices.SortFunc(comps, func(a, b []int) int { return a[0] - b[0] })
	out := make([][]string, len(comps))
	for i, c := range comps {
		out[i] = make([]string, len(c))
		for j, s := range c {
			out[i][j] = ix.ID(s)
		}
	}
	return out
}
